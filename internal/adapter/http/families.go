package http

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/yarimitsu/boatsafe-sub000/internal/adapter/noaa"
	"github.com/yarimitsu/boatsafe-sub000/internal/bulletin"
	"github.com/yarimitsu/boatsafe-sub000/internal/nws"
)

// buoyObservationLimit keeps the latest report plus roughly four hours of
// 10-minute reports.
const buoyObservationLimit = 25

type marineForecast struct {
	Properties marineProperties `json:"properties"`
}

type marineProperties struct {
	Zone      string            `json:"zone"`
	Name      string            `json:"name"`
	IssueTime string            `json:"issueTime,omitempty"`
	Synopsis  string            `json:"synopsis,omitempty"`
	Periods   []bulletin.Period `json:"periods"`
}

type coastalForecast struct {
	Region    string             `json:"region"`
	Name      string             `json:"name"`
	IssueTime string             `json:"issueTime,omitempty"`
	Synopsis  string             `json:"synopsis,omitempty"`
	Sections  []bulletin.Section `json:"sections"`
	Text      string             `json:"text"`
}

type weatherForecast struct {
	Properties weatherProperties `json:"properties"`
}

type weatherProperties struct {
	Zone    string            `json:"zone"`
	Name    string            `json:"name"`
	Updated string            `json:"updated,omitempty"`
	Periods []noaa.ZonePeriod `json:"periods"`
}

type discussionResponse struct {
	Office     string   `json:"office"`
	IssueTime  string   `json:"issueTime,omitempty"`
	Discussion []string `json:"discussion"`
}

type warningProduct struct {
	Type      string `json:"type"`
	Office    string `json:"office"`
	IssueTime string `json:"issueTime,omitempty"`
	Product   string `json:"product"`
}

type tideResponse struct {
	Station     string                `json:"station"`
	Name        string                `json:"name"`
	Date        string                `json:"date"`
	Predictions []noaa.TidePrediction `json:"predictions"`
}

type currentItem struct {
	Time     string  `json:"t"`
	Velocity float64 `json:"velocity"`
	Type     string  `json:"type"`
}

type currentsResponse struct {
	Station     string        `json:"station"`
	Name        string        `json:"name"`
	Date        string        `json:"date"`
	Predictions []currentItem `json:"predictions"`
}

type buoyResponse struct {
	Station      string                 `json:"station"`
	Name         string                 `json:"name"`
	Latest       noaa.BuoyObservation   `json:"latest"`
	Observations []noaa.BuoyObservation `json:"observations"`
}

type alertsResponse struct {
	Zone   string       `json:"zone"`
	Zones  []string     `json:"zones"`
	Alerts []noaa.Alert `json:"alerts"`
}

func marineForecastHandler(f noaa.Fetcher) handleFunc {
	return func(ctx context.Context, p params) (any, error) {
		body, err := f.Get(ctx, noaa.ZoneProductURL())
		if err != nil {
			return nil, err
		}
		text := string(body)

		section, err := bulletin.Slice(text, p.id, bulletin.ZoneToken)
		if err != nil {
			return nil, err
		}
		synopsis, periods := bulletin.SplitPeriods(section.Text)
		for i := range periods {
			periods[i] = bulletin.Annotate(periods[i])
		}

		return marineForecast{
			Properties: marineProperties{
				Zone:      p.id,
				Name:      nws.ZoneName(p.id),
				IssueTime: bulletin.ParseIssueTime(text),
				Synopsis:  synopsis,
				Periods:   periods,
			},
		}, nil
	}
}

func marineForecastFallback(p params) any {
	return marineForecast{
		Properties: marineProperties{
			Zone: p.id,
			Name: nws.ZoneName(p.id),
			Periods: []bulletin.Period{{
				Name: "Notice",
				Text: "Marine forecast is temporarily unavailable. Monitor VHF weather radio or visit weather.gov for current conditions.",
			}},
		},
	}
}

func coastalForecastHandler(f noaa.Fetcher) handleFunc {
	return func(ctx context.Context, p params) (any, error) {
		url, ok := noaa.CoastalProductURL(p.id)
		if !ok {
			return nil, fmt.Errorf("no product mapped for region %s", p.id)
		}
		body, err := f.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		text := string(body)

		sections := bulletin.SliceDashed(text)
		if len(sections) == 0 {
			return nil, fmt.Errorf("region %s: %w", p.id, bulletin.ErrSectionNotFound)
		}

		return coastalForecast{
			Region:    p.id,
			Name:      nws.ZoneName(p.id),
			IssueTime: bulletin.ParseIssueTime(text),
			Synopsis:  bulletin.Synopsis(text, sections[0].Header),
			Sections:  sections,
			Text:      text,
		}, nil
	}
}

func weatherForecastHandler(f noaa.Fetcher) handleFunc {
	return func(ctx context.Context, p params) (any, error) {
		body, err := f.Get(ctx, noaa.ZoneForecastURL(p.id))
		if err != nil {
			return nil, err
		}
		zf, err := noaa.DecodeZoneForecast(body)
		if err != nil {
			return nil, err
		}

		periods := zf.Properties.Periods
		if periods == nil {
			periods = []noaa.ZonePeriod{}
		}
		return weatherForecast{
			Properties: weatherProperties{
				Zone:    p.id,
				Name:    nws.ZoneName(p.id),
				Updated: zf.Properties.Updated,
				Periods: periods,
			},
		}, nil
	}
}

func discussionHandler(f noaa.Fetcher) handleFunc {
	return func(ctx context.Context, p params) (any, error) {
		body, err := f.Get(ctx, noaa.ProductURL("AFD", p.id))
		if err != nil {
			return nil, err
		}
		text := string(body)

		paragraphs := bulletin.Reformat(text)
		if len(paragraphs) == 0 {
			return nil, fmt.Errorf("empty discussion product for %s", p.id)
		}

		return discussionResponse{
			Office:     p.id,
			IssueTime:  bulletin.ParseIssueTime(text),
			Discussion: paragraphs,
		}, nil
	}
}

func discussionFallback(p params) any {
	return discussionResponse{
		Office: p.id,
		Discussion: []string{
			"Forecast discussion is temporarily unavailable. Visit weather.gov for the latest information.",
		},
	}
}

func warningsHandler(f noaa.Fetcher) handleFunc {
	return func(ctx context.Context, p params) (any, error) {
		body, err := f.Get(ctx, noaa.ProductURL(p.id, p.office))
		if err != nil {
			return nil, err
		}
		text := string(body)

		return warningProduct{
			Type:      p.id,
			Office:    p.office,
			IssueTime: bulletin.ParseIssueTime(text),
			Product:   text,
		}, nil
	}
}

func tidesHandler(f noaa.Fetcher) handleFunc {
	return func(ctx context.Context, p params) (any, error) {
		body, err := f.Get(ctx, noaa.TidePredictionsURL(p.id, p.date))
		if err != nil {
			return nil, err
		}
		predictions, err := noaa.DecodeTidePredictions(body)
		if err != nil {
			return nil, err
		}

		return tideResponse{
			Station:     p.id,
			Name:        stationName(nws.TideStation, p.id),
			Date:        dateLabel(p.date),
			Predictions: predictions,
		}, nil
	}
}

func currentsHandler(f noaa.Fetcher) handleFunc {
	return func(ctx context.Context, p params) (any, error) {
		body, err := f.Get(ctx, noaa.CurrentPredictionsURL(p.id, p.date))
		if err != nil {
			return nil, err
		}
		predictions, err := noaa.DecodeCurrentPredictions(body)
		if err != nil {
			return nil, err
		}

		items := make([]currentItem, 0, len(predictions))
		for _, c := range predictions {
			items = append(items, currentItem{Time: c.Time, Velocity: c.Velocity, Type: c.Type})
		}
		return currentsResponse{
			Station:     p.id,
			Name:        stationName(nws.CurrentStation, p.id),
			Date:        dateLabel(p.date),
			Predictions: items,
		}, nil
	}
}

func buoyHandler(f noaa.Fetcher) handleFunc {
	return func(ctx context.Context, p params) (any, error) {
		body, err := f.Get(ctx, noaa.BuoyURL(p.id))
		if err != nil {
			return nil, err
		}
		observations, err := noaa.ParseBuoyObservations(body, buoyObservationLimit)
		if err != nil {
			return nil, err
		}
		if len(observations) == 0 {
			return nil, fmt.Errorf("no observations reported for %s", p.id)
		}

		return buoyResponse{
			Station:      p.id,
			Name:         stationName(nws.BuoyStation, p.id),
			Latest:       observations[0],
			Observations: observations,
		}, nil
	}
}

func seakObservationsHandler(f noaa.Fetcher) handleFunc {
	return func(ctx context.Context, _ params) (any, error) {
		body, err := f.Get(ctx, noaa.SEAKObsURL())
		if err != nil {
			return nil, err
		}
		if err := noaa.ValidJSON(body); err != nil {
			return nil, fmt.Errorf("seak observations: %w", err)
		}
		return json.RawMessage(body), nil
	}
}

func marineAlertsHandler(f noaa.Fetcher) handleFunc {
	return func(ctx context.Context, p params) (any, error) {
		zones := []string{p.id}
		if paired, ok := nws.PairedZone(p.id); ok {
			zones = append(zones, paired)
		}

		type result struct {
			alerts []noaa.Alert
			err    error
		}
		results := make([]result, len(zones))

		var wg sync.WaitGroup
		for i, zone := range zones {
			wg.Add(1)
			go func(i int, zone string) {
				defer wg.Done()
				body, err := f.Get(ctx, noaa.AlertsURL(zone))
				if err != nil {
					results[i] = result{err: err}
					return
				}
				alerts, err := noaa.DecodeAlerts(body)
				results[i] = result{alerts: alerts, err: err}
			}(i, zone)
		}
		wg.Wait()

		// Settle all, collect fulfilled: one zone failing must not drop the
		// other zone's alerts. Shared alerts appear under both zones, so
		// merge by alert id.
		merged := []noaa.Alert{}
		seen := make(map[string]bool)
		failures := 0
		var lastErr error

		for _, res := range results {
			if res.err != nil {
				failures++
				lastErr = res.err
				continue
			}
			for _, a := range res.alerts {
				if a.ID != "" {
					if seen[a.ID] {
						continue
					}
					seen[a.ID] = true
				}
				merged = append(merged, a)
			}
		}
		if failures == len(zones) {
			return nil, lastErr
		}

		return alertsResponse{Zone: p.id, Zones: zones, Alerts: merged}, nil
	}
}

func stationName(f nws.Family, id string) string {
	if station, ok := nws.LookupStation(f, id); ok {
		return station.Name
	}
	return ""
}

func dateLabel(date string) string {
	if date == "" {
		return "today"
	}
	return date
}
