// Command genstations regenerates the bundled station catalog in
// internal/nws/data/stations.json from the CO-OPS station metadata API and
// the NDBC station table, filtered to Southeast Alaska waters. With -check
// it instead verifies the dataset compiled into the binary, for CI.
//
// Usage:
//
//	go run ./cmd/genstations -out internal/nws/data/stations.json
//	go run ./cmd/genstations -check
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yarimitsu/boatsafe-sub000/internal/dashboard"
	"github.com/yarimitsu/boatsafe-sub000/internal/nws"
)

const (
	coopsHost = "https://api.tidesandcurrents.noaa.gov"
	ndbcHost  = "https://www.ndbc.noaa.gov"

	userAgent = "boatsafe-genstations (https://github.com/yarimitsu/boatsafe-sub000)"
)

// Tide and current predictions stay inside the panhandle, Dixon Entrance to
// Icy Cape. Buoys extend west across the gulf: crossings out of Southeast
// Alaska are planned against Cape Cleare and Cape Suckling as much as
// against the inside stations.
var (
	panhandle = box{minLat: 54.0, maxLat: 60.5, minLon: -141.0, maxLon: -129.5}
	gulf      = box{minLat: 54.0, maxLat: 61.0, minLon: -149.0, maxLon: -129.5}
)

type box struct {
	minLat, maxLat, minLon, maxLon float64
}

func (b box) contains(lat, lon float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "internal/nws/data/stations.json", "output path for the station dataset")
	check := flag.Bool("check", false, "verify the bundled dataset instead of fetching")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	flag.Parse()

	if *check {
		return checkDataset()
	}

	ctx := context.Background()
	client := &http.Client{Timeout: *timeout}

	tide, err := fetchCoops(ctx, client, "tidepredictions")
	if err != nil {
		return fmt.Errorf("fetching tide stations: %w", err)
	}
	log.Printf("tide: %d stations", len(tide))

	current, err := fetchCoops(ctx, client, "currentpredictions")
	if err != nil {
		return fmt.Errorf("fetching current stations: %w", err)
	}
	log.Printf("current: %d stations", len(current))

	buoy, err := fetchNDBC(ctx, client)
	if err != nil {
		return fmt.Errorf("fetching buoy stations: %w", err)
	}
	log.Printf("buoy: %d stations", len(buoy))

	ds := nws.StationDataset{
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tide:      tide,
		Current:   current,
		Buoy:      buoy,
	}

	if err := writeJSON(*out, ds); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote %s", *out)
	return nil
}

// coopsStation is the slice of CO-OPS station metadata the catalog keeps.
type coopsStation struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lng"`
	State string  `json:"state"`
}

func fetchCoops(ctx context.Context, client *http.Client, stationType string) ([]nws.Station, error) {
	url := fmt.Sprintf("%s/mdapi/prod/webapi/stations.json?type=%s", coopsHost, stationType)
	body, err := get(ctx, client, url)
	if err != nil {
		return nil, err
	}

	var feed struct {
		Stations []coopsStation `json:"stations"`
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode %s stations: %w", stationType, err)
	}

	var stations []nws.Station
	seen := map[string]bool{}
	for _, s := range feed.Stations {
		// Current prediction ids carry bin suffixes ("ACT0841_12"); the
		// catalog keys on the bare station.
		id, _, _ := strings.Cut(strings.TrimSpace(s.ID), "_")
		if s.State != "AK" || !panhandle.contains(s.Lat, s.Lon) || seen[id] {
			continue
		}
		seen[id] = true
		stations = append(stations, nws.Station{
			ID:   id,
			Name: strings.TrimSpace(s.Name),
			Lat:  s.Lat,
			Lon:  s.Lon,
		})
	}

	sortStations(stations)
	return stations, nil
}

func fetchNDBC(ctx context.Context, client *http.Client) ([]nws.Station, error) {
	body, err := get(ctx, client, ndbcHost+"/data/stations/station_table.txt")
	if err != nil {
		return nil, err
	}

	var stations []nws.Station
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "|")
		if len(cols) < 7 {
			continue
		}
		lat, lon, ok := parseLocation(cols[6])
		if !ok || !gulf.contains(lat, lon) {
			continue
		}

		stations = append(stations, nws.Station{
			ID:   strings.ToUpper(strings.TrimSpace(cols[0])),
			Name: strings.TrimSuffix(strings.TrimSpace(cols[4]), ", AK"),
			Lat:  lat,
			Lon:  lon,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read station table: %w", err)
	}

	sortStations(stations)
	return stations, nil
}

// parseLocation reads the leading "58.172 N 135.258 W" out of an NDBC
// location column.
func parseLocation(s string) (float64, float64, bool) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return 0, 0, false
	}

	lat, latErr := strconv.ParseFloat(fields[0], 64)
	lon, lonErr := strconv.ParseFloat(fields[2], 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, false
	}
	if strings.EqualFold(fields[1], "S") {
		lat = -lat
	}
	if strings.EqualFold(fields[3], "W") {
		lon = -lon
	}
	return lat, lon, true
}

func sortStations(stations []nws.Station) {
	sort.Slice(stations, func(i, j int) bool { return stations[i].Name < stations[j].Name })
}

// checkDataset verifies the dataset compiled into the binary: every family
// populated, ids unique, coordinates inside the family's footprint, and the
// dashboard's default selection still resolvable against it.
func checkDataset() error {
	ds := nws.Dataset()

	families := []struct {
		name     string
		stations []nws.Station
		bounds   box
	}{
		{"tide", ds.Tide, panhandle},
		{"current", ds.Current, panhandle},
		{"buoy", ds.Buoy, gulf},
	}

	for _, f := range families {
		if len(f.stations) == 0 {
			return fmt.Errorf("%s catalog is empty", f.name)
		}
		seen := map[string]bool{}
		for _, s := range f.stations {
			if s.ID == "" || s.Name == "" {
				return fmt.Errorf("%s catalog entry %+v is missing an id or name", f.name, s)
			}
			if seen[s.ID] {
				return fmt.Errorf("%s catalog repeats %s", f.name, s.ID)
			}
			seen[s.ID] = true
			if s.Lat != 0 && !f.bounds.contains(s.Lat, s.Lon) {
				return fmt.Errorf("%s station %s is outside its footprint (%g, %g)", f.name, s.ID, s.Lat, s.Lon)
			}
		}
		log.Printf("%s: %d stations", f.name, len(f.stations))
	}

	if err := dashboard.DefaultSelection().Validate(); err != nil {
		return fmt.Errorf("default selection no longer resolves: %w", err)
	}

	log.Printf("dataset generated %s", ds.Generated)
	return nil
}

func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
