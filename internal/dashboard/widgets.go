package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yarimitsu/boatsafe-sub000/internal/adapter/noaa"
	"github.com/yarimitsu/boatsafe-sub000/internal/bulletin"
	"github.com/yarimitsu/boatsafe-sub000/internal/client"
	"github.com/yarimitsu/boatsafe-sub000/internal/nws"
)

// Widget cache lifetimes mirror the proxy's per-family response ages, so a
// dashboard refreshing faster than a product reissues serves from disk.
const (
	forecastTTL    = 15 * time.Minute
	productTTL     = 30 * time.Minute
	discussionTTL  = time.Hour
	observationTTL = 5 * time.Minute
)

// widgetRetries covers the brief 404 window while an office reissues a
// text product.
const widgetRetries = 2

// zonePeriodLimit caps the zone forecast panel; the full product runs out a
// week and would dwarf the marine panels.
const zonePeriodLimit = 6

// obsRowLimit keeps the latest report plus roughly an hour of history.
const obsRowLimit = 6

// ForecastWidget is the marine forecast panel for the selected public zone.
type ForecastWidget struct {
	Zone      string
	Name      string
	IssueTime string
	Synopsis  string
	Periods   []bulletin.Period
	Err       string
}

// WeatherWidget is the land forecast panel, from the api.weather.gov zone
// forecast.
type WeatherWidget struct {
	Zone    string
	Name    string
	Updated string
	Periods []noaa.ZonePeriod
	Err     string
}

// CoastalWidget is the coastal waters panel for the marine zone paired with
// the selected public zone.
type CoastalWidget struct {
	Region     string
	RegionName string
	MarineZone string
	MarineName string
	IssueTime  string
	Synopsis   string
	Periods    []bulletin.Period
	Err        string
}

// DiscussionWidget is the area forecast discussion panel.
type DiscussionWidget struct {
	Office     string
	OfficeName string
	IssueTime  string
	Paragraphs []string
	Err        string
}

// AlertsWidget lists active alerts for the selected zone and its paired
// marine zone, merged and deduplicated.
type AlertsWidget struct {
	Zones  []string
	Alerts []noaa.Alert
	Err    string
}

// TidesWidget lists today's predicted highs and lows.
type TidesWidget struct {
	Station     nws.Station
	Predictions []noaa.TidePrediction
	Err         string
}

// CurrentsWidget lists today's predicted maximum floods, ebbs, and slacks.
type CurrentsWidget struct {
	Station     nws.Station
	Predictions []noaa.CurrentPrediction
	Err         string
}

// ObservationsWidget shows recent buoy reports plus the Southeast Alaska
// shore-station roundup when it is available.
type ObservationsWidget struct {
	Station nws.Station
	Rows    []ObsRow
	Roundup []RoundupSite
	Err     string
}

// ObsRow is one buoy report formatted for display. Instruments the station
// does not carry show "n/a".
type ObsRow struct {
	Time      string
	Wind      string
	Gust      string
	Waves     string
	Pressure  string
	AirTemp   string
	WaterTemp string
}

// RoundupSite is one shore station from the Southeast Alaska observations
// roundup. The feed carries more fields; these are the ones the panel shows.
type RoundupSite struct {
	Site  string  `json:"site"`
	TempF float64 `json:"tempF"`
	Wind  string  `json:"wind"`
}

// fail logs a widget failure and returns the message for its error block.
func (b *Builder) fail(widget, msg string, err error) string {
	b.logger.Warn("widget unavailable", "widget", widget, "error", err)
	return msg
}

func (b *Builder) buildForecast(ctx context.Context, zone string) ForecastWidget {
	w := ForecastWidget{Zone: zone, Name: nws.ZoneName(zone)}

	body, err := b.client.Get(ctx, noaa.ZoneProductURL(), client.Options{
		CacheTTL: forecastTTL,
		Retries:  widgetRetries,
	})
	if err != nil {
		w.Err = b.fail("forecast", "Marine forecast is temporarily unavailable.", err)
		return w
	}

	text := string(body)
	section, err := bulletin.Slice(text, zone, bulletin.ZoneToken)
	if err != nil {
		w.Err = b.fail("forecast", fmt.Sprintf("No forecast section for %s in the latest product.", zone), err)
		return w
	}

	w.IssueTime = bulletin.ParseIssueTime(text)
	synopsis, periods := bulletin.SplitPeriods(section.Text)
	w.Synopsis = synopsis
	for _, p := range periods {
		w.Periods = append(w.Periods, bulletin.Annotate(p))
	}
	return w
}

func (b *Builder) buildWeather(ctx context.Context, zone string) WeatherWidget {
	w := WeatherWidget{Zone: zone, Name: nws.ZoneName(zone)}

	body, err := b.client.Get(ctx, noaa.ZoneForecastURL(zone), client.Options{
		CacheTTL: productTTL,
		Retries:  widgetRetries,
	})
	if err != nil {
		w.Err = b.fail("weather", "Zone forecast is temporarily unavailable.", err)
		return w
	}

	forecast, err := noaa.DecodeZoneForecast(body)
	if err != nil {
		w.Err = b.fail("weather", "Zone forecast is temporarily unavailable.", err)
		return w
	}

	w.Updated = forecast.Properties.Updated
	w.Periods = forecast.Properties.Periods
	if len(w.Periods) > zonePeriodLimit {
		w.Periods = w.Periods[:zonePeriodLimit]
	}
	return w
}

func (b *Builder) buildCoastal(ctx context.Context, sel Selection) CoastalWidget {
	w := CoastalWidget{Region: sel.Region, RegionName: nws.ZoneName(sel.Region)}

	marine, ok := nws.PairedZone(sel.Zone)
	if !ok {
		w.Err = fmt.Sprintf("No coastal waters zone is paired with %s.", sel.Zone)
		return w
	}
	w.MarineZone = marine
	w.MarineName = nws.ZoneName(marine)

	url, ok := noaa.CoastalProductURL(sel.Region)
	if !ok {
		w.Err = fmt.Sprintf("No coastal waters product for %s.", sel.Region)
		return w
	}

	body, err := b.client.Get(ctx, url, client.Options{
		CacheTTL: productTTL,
		Retries:  widgetRetries,
	})
	if err != nil {
		w.Err = b.fail("coastal", "Coastal waters forecast is temporarily unavailable.", err)
		return w
	}

	text := string(body)
	w.IssueTime = bulletin.ParseIssueTime(text)

	sections := bulletin.SliceDashed(text)
	if len(sections) == 0 {
		w.Err = b.fail("coastal", "Coastal waters forecast is temporarily unavailable.",
			fmt.Errorf("no zone sections in %s product", sel.Region))
		return w
	}
	w.Synopsis = bulletin.Synopsis(text, sections[0].Header)

	for _, s := range sections {
		if s.ID != marine {
			continue
		}
		_, periods := bulletin.SplitPeriods(s.Text)
		for _, p := range periods {
			w.Periods = append(w.Periods, bulletin.Annotate(p))
		}
		return w
	}

	w.Err = fmt.Sprintf("No section for %s in the latest coastal waters forecast.", marine)
	return w
}

func (b *Builder) buildDiscussion(ctx context.Context, office string) DiscussionWidget {
	w := DiscussionWidget{Office: office, OfficeName: nws.ZoneName(office)}

	body, err := b.client.Get(ctx, noaa.ProductURL("AFD", office), client.Options{
		CacheTTL: discussionTTL,
		Retries:  widgetRetries,
	})
	if err != nil {
		w.Err = b.fail("discussion", "Forecast discussion is temporarily unavailable.", err)
		return w
	}

	text := string(body)
	w.IssueTime = bulletin.ParseIssueTime(text)
	w.Paragraphs = bulletin.Reformat(text)
	return w
}

// buildAlerts merges the active-alert feeds for the zone and its paired
// marine zone. One feed failing is tolerated; both failing is the widget's
// error.
func (b *Builder) buildAlerts(ctx context.Context, zone string) AlertsWidget {
	zones := []string{zone}
	if paired, ok := nws.PairedZone(zone); ok {
		zones = append(zones, paired)
	}
	w := AlertsWidget{Zones: zones}

	seen := make(map[string]bool)
	merged := []noaa.Alert{}
	fetched := 0
	var lastErr error

	for _, z := range zones {
		body, err := b.client.Get(ctx, noaa.AlertsURL(z), client.Options{
			CacheTTL: observationTTL,
			Retries:  1,
		})
		if err != nil {
			lastErr = err
			continue
		}
		alerts, err := noaa.DecodeAlerts(body)
		if err != nil {
			lastErr = err
			continue
		}
		fetched++
		for _, a := range alerts {
			if a.ID != "" {
				if seen[a.ID] {
					continue
				}
				seen[a.ID] = true
			}
			merged = append(merged, a)
		}
	}

	if fetched == 0 && lastErr != nil {
		w.Err = b.fail("alerts", "Active alerts are temporarily unavailable.", lastErr)
		return w
	}
	w.Alerts = merged
	return w
}

func (b *Builder) buildTides(ctx context.Context, station string) TidesWidget {
	w := TidesWidget{Station: stationOrID(nws.TideStation, station)}

	body, err := b.client.Get(ctx, noaa.TidePredictionsURL(station, ""), client.Options{
		CacheTTL: productTTL,
		Retries:  widgetRetries,
	})
	if err != nil {
		w.Err = b.fail("tides", "Tide predictions are temporarily unavailable.", err)
		return w
	}

	predictions, err := noaa.DecodeTidePredictions(body)
	if err != nil {
		w.Err = b.fail("tides", "Tide predictions are temporarily unavailable.", err)
		return w
	}
	w.Predictions = predictions
	return w
}

func (b *Builder) buildCurrents(ctx context.Context, station string) CurrentsWidget {
	w := CurrentsWidget{Station: stationOrID(nws.CurrentStation, station)}

	body, err := b.client.Get(ctx, noaa.CurrentPredictionsURL(station, ""), client.Options{
		CacheTTL: productTTL,
		Retries:  widgetRetries,
	})
	if err != nil {
		w.Err = b.fail("currents", "Current predictions are temporarily unavailable.", err)
		return w
	}

	predictions, err := noaa.DecodeCurrentPredictions(body)
	if err != nil {
		w.Err = b.fail("currents", "Current predictions are temporarily unavailable.", err)
		return w
	}
	w.Predictions = predictions
	return w
}

func (b *Builder) buildObservations(ctx context.Context, station string) ObservationsWidget {
	w := ObservationsWidget{Station: stationOrID(nws.BuoyStation, station)}

	body, err := b.client.Get(ctx, noaa.BuoyURL(station), client.Options{
		CacheTTL: observationTTL,
		Retries:  1,
	})
	switch {
	case err != nil:
		w.Err = b.fail("observations", "Buoy observations are temporarily unavailable.", err)
	default:
		observations, err := noaa.ParseBuoyObservations(body, obsRowLimit)
		if err != nil || len(observations) == 0 {
			w.Err = b.fail("observations", fmt.Sprintf("No recent reports from %s.", station), err)
			break
		}
		for _, o := range observations {
			w.Rows = append(w.Rows, formatObservation(o))
		}
	}

	// The shore-station roundup is a bonus panel; losing it is not a
	// widget failure.
	w.Roundup = b.seakRoundup(ctx)
	return w
}

func (b *Builder) seakRoundup(ctx context.Context) []RoundupSite {
	body, err := b.client.Get(ctx, noaa.SEAKObsURL(), client.Options{
		CacheTTL: observationTTL,
		Retries:  1,
	})
	if err != nil {
		b.logger.Warn("widget unavailable", "widget", "seak-roundup", "error", err)
		return nil
	}

	var feed struct {
		Observations []RoundupSite `json:"observations"`
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		b.logger.Warn("widget unavailable", "widget", "seak-roundup", "error", err)
		return nil
	}
	return feed.Observations
}

// stationOrID resolves a station id against the bundled catalog, falling
// back to a name-less entry so the panel still labels itself.
func stationOrID(family nws.Family, id string) nws.Station {
	if s, ok := nws.LookupStation(family, id); ok {
		return s
	}
	return nws.Station{ID: id}
}

// NDBC reports metric units; boaters read knots, feet, and Fahrenheit.
const (
	mpsToKnots   = 1.943844
	metersToFeet = 3.28084
)

func knots(mps float64) float64 { return mps * mpsToKnots }

func feet(m float64) float64 { return m * metersToFeet }

func fahrenheit(c float64) float64 { return c*9/5 + 32 }

func formatObservation(o noaa.BuoyObservation) ObsRow {
	row := ObsRow{
		Time:      o.Time.Format("Jan 2 15:04 MST"),
		Wind:      "n/a",
		Gust:      "n/a",
		Waves:     "n/a",
		Pressure:  "n/a",
		AirTemp:   "n/a",
		WaterTemp: "n/a",
	}
	if o.WindSpeed != nil {
		row.Wind = fmt.Sprintf("%.0f kt", knots(*o.WindSpeed))
		if o.WindDirection != nil {
			row.Wind = bulletin.Compass(*o.WindDirection) + " " + row.Wind
		}
	}
	if o.Gust != nil {
		row.Gust = fmt.Sprintf("%.0f kt", knots(*o.Gust))
	}
	if o.WaveHeight != nil {
		row.Waves = fmt.Sprintf("%.1f ft", feet(*o.WaveHeight))
	}
	if o.Pressure != nil {
		row.Pressure = fmt.Sprintf("%.1f hPa", *o.Pressure)
	}
	if o.AirTemp != nil {
		row.AirTemp = fmt.Sprintf("%.0f°F", fahrenheit(*o.AirTemp))
	}
	if o.WaterTemp != nil {
		row.WaterTemp = fmt.Sprintf("%.0f°F", fahrenheit(*o.WaterTemp))
	}
	return row
}
