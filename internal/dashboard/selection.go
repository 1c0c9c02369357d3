package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yarimitsu/boatsafe-sub000/internal/nws"
)

// Selection names the zones and stations every widget renders for. It is
// persisted as JSON under the user config dir and reloaded on start.
type Selection struct {
	Zone           string `json:"boatsafe_zone"`
	Region         string `json:"boatsafe_region"`
	TideStation    string `json:"boatsafe_tide_station"`
	CurrentStation string `json:"boatsafe_current_station"`
	BuoyStation    string `json:"boatsafe_buoy_station"`
	Office         string `json:"boatsafe_office"`
}

// DefaultSelection is the Juneau-area setup: downtown tide gauge, Gastineau
// Channel currents, and the Sisters Island light as the nearest reporting
// station.
func DefaultSelection() Selection {
	return Selection{
		Zone:           "AKZ321",
		Region:         "CWFAJK",
		TideStation:    "9452210",
		CurrentStation: "ACT0841",
		BuoyStation:    "SISA2",
		Office:         "AJK",
	}
}

// Normalize trims and uppercases every identifier.
func (s Selection) Normalize() Selection {
	norm := func(v string) string { return strings.ToUpper(strings.TrimSpace(v)) }
	return Selection{
		Zone:           norm(s.Zone),
		Region:         norm(s.Region),
		TideStation:    norm(s.TideStation),
		CurrentStation: norm(s.CurrentStation),
		BuoyStation:    norm(s.BuoyStation),
		Office:         norm(s.Office),
	}
}

// Validate checks every identifier against its catalog and reports the first
// unknown one. Used for explicit user input; stored files are sanitized
// instead so a stale entry cannot wedge startup.
func (s Selection) Validate() error {
	checks := []struct {
		family nws.Family
		id     string
	}{
		{nws.PublicZone, s.Zone},
		{nws.CoastalRegion, s.Region},
		{nws.TideStation, s.TideStation},
		{nws.CurrentStation, s.CurrentStation},
		{nws.BuoyStation, s.BuoyStation},
		{nws.Office, s.Office},
	}
	for _, c := range checks {
		if !nws.Valid(c.family, c.id) {
			return fmt.Errorf("%q is not a known %s", c.id, c.family)
		}
	}
	return nil
}

// sanitize replaces identifiers outside their catalogs with the defaults,
// field by field, keeping whatever is still valid.
func (s Selection) sanitize() Selection {
	def := DefaultSelection()
	keep := func(family nws.Family, id, fallback string) string {
		if nws.Valid(family, id) {
			return id
		}
		return fallback
	}
	s = s.Normalize()
	return Selection{
		Zone:           keep(nws.PublicZone, s.Zone, def.Zone),
		Region:         keep(nws.CoastalRegion, s.Region, def.Region),
		TideStation:    keep(nws.TideStation, s.TideStation, def.TideStation),
		CurrentStation: keep(nws.CurrentStation, s.CurrentStation, def.CurrentStation),
		BuoyStation:    keep(nws.BuoyStation, s.BuoyStation, def.BuoyStation),
		Office:         keep(nws.Office, s.Office, def.Office),
	}
}

// DefaultSelectionPath is the per-user location of the persisted selection.
func DefaultSelectionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "boatsafe", "selection.json"), nil
}

// LoadSelection reads a persisted selection. A missing file yields the
// defaults with no error. A file that cannot be parsed also yields the
// defaults, with an error the caller can log. Identifiers that no longer
// pass catalog validation fall back to their defaults individually.
func LoadSelection(path string) (Selection, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSelection(), nil
	}
	if err != nil {
		return DefaultSelection(), fmt.Errorf("read selection: %w", err)
	}

	var s Selection
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSelection(), fmt.Errorf("parse selection %s: %w", path, err)
	}
	return s.sanitize(), nil
}

// SaveSelection persists a selection, creating the config dir as needed.
func SaveSelection(path string, s Selection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(s.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	return nil
}
