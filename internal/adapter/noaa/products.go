package noaa

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ZoneForecast is the slice of an api.weather.gov zone forecast the
// dashboard uses.
type ZoneForecast struct {
	Properties ZoneForecastProperties `json:"properties"`
}

type ZoneForecastProperties struct {
	Updated string       `json:"updated"`
	Periods []ZonePeriod `json:"periods"`
}

type ZonePeriod struct {
	Number           int    `json:"number"`
	Name             string `json:"name"`
	DetailedForecast string `json:"detailedForecast"`
}

// DecodeZoneForecast parses an api.weather.gov zone forecast body.
func DecodeZoneForecast(body []byte) (ZoneForecast, error) {
	var zf ZoneForecast
	if err := json.Unmarshal(body, &zf); err != nil {
		return ZoneForecast{}, fmt.Errorf("decode zone forecast: %w", err)
	}
	return zf, nil
}

// Alert is one active alert, flattened from the GeoJSON feed.
type Alert struct {
	ID          string `json:"id"`
	Event       string `json:"event"`
	Headline    string `json:"headline"`
	Severity    string `json:"severity"`
	Urgency     string `json:"urgency"`
	Onset       string `json:"onset"`
	Ends        string `json:"ends"`
	AreaDesc    string `json:"areaDesc"`
	Description string `json:"description"`
	Instruction string `json:"instruction"`
}

type alertFeed struct {
	Features []struct {
		Properties Alert `json:"properties"`
	} `json:"features"`
}

// DecodeAlerts flattens an api.weather.gov active-alerts feed.
func DecodeAlerts(body []byte) ([]Alert, error) {
	var feed alertFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}

	alerts := make([]Alert, 0, len(feed.Features))
	for _, f := range feed.Features {
		alerts = append(alerts, f.Properties)
	}
	return alerts, nil
}

// Level is a water level or velocity that CO-OPS encodes as a quoted
// decimal string ("16.23").
type Level float64

func (l *Level) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*l = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse level %q: %w", s, err)
	}
	*l = Level(v)
	return nil
}

// coopsError is the in-band error envelope CO-OPS returns with status 200.
type coopsError struct {
	Message string `json:"message"`
}

// TidePrediction is one predicted high or low tide.
type TidePrediction struct {
	Time  string `json:"t"`
	Level Level  `json:"v"`
	Type  string `json:"type"`
}

type tideFeed struct {
	Predictions []TidePrediction `json:"predictions"`
	Error       *coopsError      `json:"error"`
}

// DecodeTidePredictions parses a CO-OPS predictions body. CO-OPS reports
// errors in-band with a 200 status, so those surface here rather than at
// the fetch layer.
func DecodeTidePredictions(body []byte) ([]TidePrediction, error) {
	var feed tideFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode tide predictions: %w", err)
	}
	if feed.Error != nil {
		return nil, fmt.Errorf("tide predictions: %s", feed.Error.Message)
	}
	return feed.Predictions, nil
}

// CurrentPrediction is one predicted current event (max flood, max ebb, or
// slack).
type CurrentPrediction struct {
	Time     string  `json:"Time"`
	Velocity float64 `json:"Velocity_Major"`
	Type     string  `json:"Type"`
}

type currentFeed struct {
	CurrentPredictions struct {
		Units string              `json:"units"`
		CP    []CurrentPrediction `json:"cp"`
	} `json:"current_predictions"`
	Error *coopsError `json:"error"`
}

// DecodeCurrentPredictions parses a CO-OPS currents_predictions body.
func DecodeCurrentPredictions(body []byte) ([]CurrentPrediction, error) {
	var feed currentFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode current predictions: %w", err)
	}
	if feed.Error != nil {
		return nil, fmt.Errorf("current predictions: %s", feed.Error.Message)
	}
	return feed.CurrentPredictions.CP, nil
}

// BuoyObservation is one row of an NDBC realtime2 file. NDBC reports in
// metric units; fields are nil where the station reported "MM" (missing).
type BuoyObservation struct {
	Time           time.Time `json:"time"`
	WindDirection  *float64  `json:"windDirectionDeg,omitempty"`
	WindSpeed      *float64  `json:"windSpeedMps,omitempty"`
	Gust           *float64  `json:"gustMps,omitempty"`
	WaveHeight     *float64  `json:"waveHeightM,omitempty"`
	DominantPeriod *float64  `json:"dominantPeriodSec,omitempty"`
	Pressure       *float64  `json:"pressureHpa,omitempty"`
	AirTemp        *float64  `json:"airTempC,omitempty"`
	WaterTemp      *float64  `json:"waterTempC,omitempty"`
}

// buoyColumns maps realtime2 header names to BuoyObservation fields.
var buoyColumns = map[string]func(*BuoyObservation, float64){
	"WDIR": func(o *BuoyObservation, v float64) { o.WindDirection = &v },
	"WSPD": func(o *BuoyObservation, v float64) { o.WindSpeed = &v },
	"GST":  func(o *BuoyObservation, v float64) { o.Gust = &v },
	"WVHT": func(o *BuoyObservation, v float64) { o.WaveHeight = &v },
	"DPD":  func(o *BuoyObservation, v float64) { o.DominantPeriod = &v },
	"PRES": func(o *BuoyObservation, v float64) { o.Pressure = &v },
	"ATMP": func(o *BuoyObservation, v float64) { o.AirTemp = &v },
	"WTMP": func(o *BuoyObservation, v float64) { o.WaterTemp = &v },
}

// ParseBuoyObservations decodes an NDBC realtime2 text file: a "#"-prefixed
// header naming the columns, a units line, then one whitespace-separated row
// per observation, newest first. At most limit rows are returned; limit <= 0
// means all.
func ParseBuoyObservations(body []byte, limit int) ([]BuoyObservation, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))

	var header []string
	var observations []BuoyObservation

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			fields := strings.Fields(strings.TrimPrefix(line, "#"))
			// First comment line is the column header, second is units.
			if header == nil {
				header = fields
			}
			continue
		}

		if header == nil {
			return nil, errors.New("parse buoy observations: no column header")
		}

		obs, err := parseBuoyRow(header, strings.Fields(line))
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)

		if limit > 0 && len(observations) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse buoy observations: %w", err)
	}
	if header == nil {
		return nil, errors.New("parse buoy observations: no column header")
	}

	return observations, nil
}

func parseBuoyRow(header, fields []string) (BuoyObservation, error) {
	if len(fields) < 5 {
		return BuoyObservation{}, fmt.Errorf("parse buoy observations: short row %q", strings.Join(fields, " "))
	}

	var parts [5]int
	for i := 0; i < 5; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return BuoyObservation{}, fmt.Errorf("parse buoy observations: bad timestamp field %q", fields[i])
		}
		parts[i] = v
	}

	obs := BuoyObservation{
		Time: time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], 0, 0, time.UTC),
	}

	for i := 5; i < len(fields) && i < len(header); i++ {
		set, wanted := buoyColumns[header[i]]
		if !wanted || fields[i] == "MM" {
			continue
		}
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			continue
		}
		set(&obs, v)
	}
	return obs, nil
}

// ValidJSON verifies a passthrough payload parses as JSON so upstream error
// pages never get cached or served as data.
func ValidJSON(body []byte) error {
	if !json.Valid(body) {
		return errors.New("payload is not valid JSON")
	}
	return nil
}
