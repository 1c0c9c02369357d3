package http

import (
	"context"
	"time"

	"github.com/yarimitsu/boatsafe-sub000/internal/adapter/noaa"
	"github.com/yarimitsu/boatsafe-sub000/internal/nws"
	"github.com/yarimitsu/boatsafe-sub000/internal/ratelimit"
)

// params carries the validated request inputs into a family handler.
type params struct {
	id     string
	date   string
	office string
}

type handleFunc func(ctx context.Context, p params) (any, error)

// endpoint describes one data family. The behavioral differences between
// families — identifier family, cache lifetime, limit tier, failure policy —
// live here as data; the invocation path itself is shared.
type endpoint struct {
	name       string
	validate   func(id string) bool // nil when the family takes no identifier
	invalidMsg string
	allowDate  bool
	withOffice bool
	maxAge     time.Duration
	limiter    *ratelimit.Limiter
	fallback   func(p params) any // nil means upstream failures become 500s
	handle     handleFunc
}

// Cache lifetimes track each family's upstream update cadence: observations
// and alerts refresh constantly, zone text products a few times a day.
const (
	maxAgeObservations = 5 * time.Minute
	maxAgeMarine       = 15 * time.Minute
	maxAgeForecast     = 30 * time.Minute
	maxAgeText         = time.Hour
)

func (s *Server) newEndpoints(opts Options) []endpoint {
	cached := func(family string, ttl time.Duration) noaa.Fetcher {
		if !opts.CacheEnabled {
			ttl = 0
		}
		return noaa.NewCachedFetcher(opts.Fetcher, opts.Cache, ttl, family, opts.Metrics)
	}

	valid := func(f nws.Family) func(string) bool {
		return func(id string) bool { return nws.Valid(f, id) }
	}

	return []endpoint{
		{
			name:       "marine-forecast",
			validate:   valid(nws.PublicZone),
			invalidMsg: "Invalid zone ID",
			maxAge:     maxAgeMarine,
			limiter:    s.standardLimiter,
			fallback:   marineForecastFallback,
			handle:     marineForecastHandler(cached("marine-forecast", maxAgeMarine)),
		},
		{
			name:       "coastal-forecast",
			validate:   valid(nws.CoastalRegion),
			invalidMsg: "Invalid region ID",
			maxAge:     maxAgeForecast,
			limiter:    s.standardLimiter,
			handle:     coastalForecastHandler(cached("coastal-forecast", maxAgeForecast)),
		},
		{
			name:       "weather-forecast",
			validate:   valid(nws.PublicZone),
			invalidMsg: "Invalid zone ID",
			maxAge:     maxAgeForecast,
			limiter:    s.standardLimiter,
			handle:     weatherForecastHandler(cached("weather-forecast", maxAgeForecast)),
		},
		{
			name:       "forecast-discussion",
			validate:   valid(nws.Office),
			invalidMsg: "Invalid office ID",
			maxAge:     maxAgeText,
			limiter:    s.standardLimiter,
			fallback:   discussionFallback,
			handle:     discussionHandler(cached("forecast-discussion", maxAgeText)),
		},
		{
			name:       "weather-warnings",
			validate:   valid(nws.WarningType),
			invalidMsg: "Invalid warning type",
			withOffice: true,
			maxAge:     maxAgeText,
			limiter:    s.standardLimiter,
			handle:     warningsHandler(cached("weather-warnings", maxAgeText)),
		},
		{
			name:       "tides",
			validate:   valid(nws.TideStation),
			invalidMsg: "Invalid station ID",
			allowDate:  true,
			maxAge:     maxAgeForecast,
			limiter:    s.observationLimit,
			handle:     tidesHandler(cached("tides", maxAgeForecast)),
		},
		{
			name:       "currents",
			validate:   valid(nws.CurrentStation),
			invalidMsg: "Invalid station ID",
			allowDate:  true,
			maxAge:     maxAgeForecast,
			limiter:    s.observationLimit,
			handle:     currentsHandler(cached("currents", maxAgeForecast)),
		},
		{
			name:       "buoy",
			validate:   valid(nws.BuoyStation),
			invalidMsg: "Invalid station ID",
			maxAge:     maxAgeObservations,
			limiter:    s.observationLimit,
			handle:     buoyHandler(cached("buoy", maxAgeObservations)),
		},
		{
			name:    "seak-observations",
			maxAge:  maxAgeObservations,
			limiter: s.observationLimit,
			handle:  seakObservationsHandler(cached("seak-observations", maxAgeObservations)),
		},
		{
			name: "marine-alerts",
			validate: func(id string) bool {
				return nws.Valid(nws.MarineZone, id) || nws.Valid(nws.PublicZone, id)
			},
			invalidMsg: "Invalid zone ID",
			maxAge:     maxAgeObservations,
			limiter:    s.observationLimit,
			handle:     marineAlertsHandler(cached("marine-alerts", maxAgeObservations)),
		},
	}
}
