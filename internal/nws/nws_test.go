package nws

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name     string
		family   Family
		id       string
		expected bool
	}{
		{"public zone", PublicZone, "AKZ321", true},
		{"public zone lowercase", PublicZone, "akz321", true},
		{"public zone padded", PublicZone, "  AKZ321  ", true},
		{"public zone outside range", PublicZone, "AKZ999", false},
		{"marine zone", MarineZone, "PKZ031", true},
		{"marine zone in wrong family", PublicZone, "PKZ031", false},
		{"coastal region", CoastalRegion, "CWFAJK", true},
		{"coastal region lowercase", CoastalRegion, "cwfajk", true},
		{"unknown region", CoastalRegion, "CWFXXX", false},
		{"office", Office, "AJK", true},
		{"unknown office", Office, "XYZ", false},
		{"warning type", WarningType, "NPW", true},
		{"unknown warning type", WarningType, "ZZZ", false},
		{"tide station", TideStation, "9452210", true},
		{"unknown tide station", TideStation, "0000000", false},
		{"current station", CurrentStation, "ACT0841", true},
		{"current station lowercase", CurrentStation, "act0841", true},
		{"buoy station", BuoyStation, "46083", true},
		{"cman station", BuoyStation, "LIXA2", true},
		{"buoy in wrong family", TideStation, "46083", false},
		{"empty id", PublicZone, "", false},
		{"whitespace id", MarineZone, "   ", false},
		{"injection attempt", PublicZone, "AKZ321/../secrets", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Valid(tt.family, tt.id))
		})
	}
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		expected bool
	}{
		{"valid date", "20260822", true},
		{"leap day on leap year", "20240229", true},
		{"leap day on non-leap year", "20230229", false},
		{"century non-leap year", "19000229", false},
		{"400-year leap year", "20000229", true},
		{"thirty-day month overflow", "20260431", false},
		{"month zero", "20260022", false},
		{"month thirteen", "20261322", false},
		{"day zero", "20260800", false},
		{"too short", "2026082", false},
		{"too long", "202608221", false},
		{"non-digits", "2026O822", false},
		{"dashes", "2026-08-22", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidDate(tt.date))
		})
	}
}

func TestPairedZone(t *testing.T) {
	t.Run("marine to land", func(t *testing.T) {
		land, ok := PairedZone("PKZ031")
		require.True(t, ok)
		assert.Equal(t, "AKZ321", land)
	})

	t.Run("land to marine", func(t *testing.T) {
		marine, ok := PairedZone("AKZ321")
		require.True(t, ok)
		assert.Equal(t, "PKZ031", marine)
	})

	t.Run("shared shore resolves to first marine zone in catalog order", func(t *testing.T) {
		marine, ok := PairedZone("AKZ324")
		require.True(t, ok)
		assert.Equal(t, "PKZ021", marine)
	})

	t.Run("unknown zone", func(t *testing.T) {
		_, ok := PairedZone("AKZ999")
		assert.False(t, ok)
	})
}

func TestZones(t *testing.T) {
	t.Run("every marine zone pairs with a valid public zone", func(t *testing.T) {
		for _, z := range Zones(MarineZone) {
			land, ok := PairedZone(z.ID)
			require.True(t, ok, "marine zone %s has no land pairing", z.ID)
			assert.True(t, Valid(PublicZone, land), "pairing for %s names unknown zone %s", z.ID, land)
		}
	})

	t.Run("catalog ids match their family format", func(t *testing.T) {
		for _, z := range Zones(PublicZone) {
			assert.Regexp(t, `^AKZ\d{3}$`, z.ID)
			assert.NotEmpty(t, z.Name)
		}
		for _, z := range Zones(MarineZone) {
			assert.Regexp(t, `^PKZ\d{3}$`, z.ID)
		}
		for _, z := range Zones(CoastalRegion) {
			assert.Regexp(t, `^CWF[A-Z]{3}$`, z.ID)
		}
	})

	t.Run("station family has no zone catalog", func(t *testing.T) {
		assert.Nil(t, Zones(TideStation))
	})
}

func TestZoneName(t *testing.T) {
	assert.Equal(t, "Juneau Borough and Northern Admiralty Island", ZoneName("AKZ321"))
	assert.Equal(t, "Stephens Passage", ZoneName("PKZ031"))
	assert.Equal(t, "Juneau", ZoneName("AJK"))
	assert.Empty(t, ZoneName("AKZ999"))
}

func TestStations(t *testing.T) {
	t.Run("bundled datasets load", func(t *testing.T) {
		require.NotEmpty(t, Stations(TideStation))
		require.NotEmpty(t, Stations(CurrentStation))
		require.NotEmpty(t, Stations(BuoyStation))
	})

	t.Run("lookup", func(t *testing.T) {
		s, ok := LookupStation(TideStation, "9452210")
		require.True(t, ok)
		assert.Equal(t, "Juneau", s.Name)

		_, ok = LookupStation(TideStation, "missing")
		assert.False(t, ok)
	})

	t.Run("dataset integrity", func(t *testing.T) {
		for _, f := range []Family{TideStation, CurrentStation, BuoyStation} {
			seen := map[string]bool{}
			for _, s := range Stations(f) {
				assert.NotEmpty(t, s.ID, "%s station with empty id", f)
				assert.NotEmpty(t, s.Name, "%s station %s has no name", f, s.ID)
				assert.Equal(t, strings.ToUpper(s.ID), s.ID, "%s station %s is not uppercase", f, s.ID)
				assert.False(t, seen[s.ID], "%s station %s duplicated", f, s.ID)
				seen[s.ID] = true
			}
		}
	})

	t.Run("zone family has no station catalog", func(t *testing.T) {
		assert.Nil(t, Stations(PublicZone))
	})
}

func TestFamilyString(t *testing.T) {
	assert.Equal(t, "marine zone", MarineZone.String())
	assert.Equal(t, "tide station", TideStation.String())
	assert.Equal(t, "unknown", Family(99).String())
}
