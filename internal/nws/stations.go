package nws

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// stationsJSON is the bundled station catalog, regenerated by cmd/genstations
// from the NOAA CO-OPS and NDBC metadata APIs.
//
//go:embed data/stations.json
var stationsJSON []byte

// Station is an observation or prediction station bundled with the service.
type Station struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat,omitempty"`
	Lon  float64 `json:"lon,omitempty"`
}

// StationDataset groups the bundled station catalogs by family.
type StationDataset struct {
	Generated string    `json:"generated"`
	Tide      []Station `json:"tide"`
	Current   []Station `json:"current"`
	Buoy      []Station `json:"buoy"`
}

var (
	dataset     = mustLoadDataset()
	tideByID    = indexStations(dataset.Tide)
	currentByID = indexStations(dataset.Current)
	buoyByID    = indexStations(dataset.Buoy)
)

// Stations returns the bundled catalog for a station family, in display
// order. Zone families and unknown families return nil.
func Stations(f Family) []Station {
	switch f {
	case TideStation:
		return dataset.Tide
	case CurrentStation:
		return dataset.Current
	case BuoyStation:
		return dataset.Buoy
	default:
		return nil
	}
}

// LookupStation finds a bundled station by id within one family.
func LookupStation(f Family, id string) (Station, bool) {
	s, ok := stationsByID(f)[id]
	return s, ok
}

// Dataset returns the whole bundled station dataset.
func Dataset() StationDataset { return dataset }

func stationsByID(f Family) map[string]Station {
	switch f {
	case TideStation:
		return tideByID
	case CurrentStation:
		return currentByID
	case BuoyStation:
		return buoyByID
	default:
		return nil
	}
}

func mustLoadDataset() StationDataset {
	var ds StationDataset
	if err := json.Unmarshal(stationsJSON, &ds); err != nil {
		panic(fmt.Sprintf("nws: bundled station dataset is corrupt: %v", err))
	}
	return ds
}

func indexStations(stations []Station) map[string]Station {
	byID := make(map[string]Station, len(stations))
	for _, s := range stations {
		byID[s.ID] = s
	}
	return byID
}
