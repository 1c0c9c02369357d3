// Package nws catalogs the NWS and NOAA identifiers this service will proxy:
// forecast zones, coastal waters regions, forecast offices, warning product
// types, and observation stations. Requests naming anything outside these
// catalogs are rejected before any upstream call.
package nws

import (
	"strings"
	"time"
)

// Family is a class of NOAA identifier with its own catalog.
type Family int

const (
	PublicZone Family = iota
	MarineZone
	CoastalRegion
	Office
	WarningType
	TideStation
	CurrentStation
	BuoyStation
)

func (f Family) String() string {
	switch f {
	case PublicZone:
		return "public zone"
	case MarineZone:
		return "marine zone"
	case CoastalRegion:
		return "coastal region"
	case Office:
		return "forecast office"
	case WarningType:
		return "warning type"
	case TideStation:
		return "tide station"
	case CurrentStation:
		return "current station"
	case BuoyStation:
		return "buoy station"
	default:
		return "unknown"
	}
}

// Valid reports whether id belongs to the family's catalog. Matching is
// case-insensitive; empty and unknown ids are invalid. Never an error —
// an id outside the catalog is an expected condition, not a failure.
func Valid(f Family, id string) bool {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return false
	}

	switch f {
	case PublicZone:
		_, ok := publicZonesByID[id]
		return ok
	case MarineZone:
		_, ok := marineZonesByID[id]
		return ok
	case CoastalRegion:
		_, ok := coastalRegionsByID[id]
		return ok
	case Office:
		_, ok := officesByID[id]
		return ok
	case WarningType:
		_, ok := warningTypesByID[id]
		return ok
	case TideStation, CurrentStation, BuoyStation:
		_, ok := stationsByID(f)[id]
		return ok
	default:
		return false
	}
}

// ValidDate reports whether s is a calendar-valid YYYYMMDD date. Month
// lengths and leap years are enforced by the parse.
func ValidDate(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	_, err := time.Parse("20060102", s)
	return err == nil
}
