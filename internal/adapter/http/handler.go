package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/yarimitsu/boatsafe-sub000/internal/bulletin"
	"github.com/yarimitsu/boatsafe-sub000/internal/nws"
)

const defaultOffice = "AJK"

// endpointHandler wraps the shared invocation path with per-family request
// metrics.
func (s *Server) endpointHandler(ep endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		s.serveEndpoint(ep, rec, r)

		s.metrics.RequestsTotal.WithLabelValues(ep.name, strconv.Itoa(rec.status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(ep.name).Observe(time.Since(start).Seconds())
	}
}

// serveEndpoint is the invocation path every family shares: OPTIONS
// preflight, method check, rate limit, identifier validation, fetch and
// reshape, respond. Every branch carries CORS headers.
func (s *Server) serveEndpoint(ep endpoint, w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	key := ep.name + ":" + clientIP(r, s.trustProxyHeaders)
	if !ep.limiter.Allow(r.Context(), key) {
		s.metrics.RateLimitRejections.WithLabelValues(ep.name).Inc()
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
		return
	}

	var p params
	if ep.validate != nil {
		p.id = strings.ToUpper(strings.TrimSpace(mux.Vars(r)["id"]))
		if !ep.validate(p.id) {
			writeError(w, http.StatusBadRequest, ep.invalidMsg)
			return
		}
	}
	if ep.allowDate {
		p.date = r.URL.Query().Get("date")
		if p.date != "" && !nws.ValidDate(p.date) {
			writeError(w, http.StatusBadRequest, "Invalid date format, expected YYYYMMDD")
			return
		}
	}
	if ep.withOffice {
		p.office = strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("office")))
		if p.office == "" {
			p.office = defaultOffice
		}
		if !nws.Valid(nws.Office, p.office) {
			writeError(w, http.StatusBadRequest, "Invalid office ID")
			return
		}
	}

	payload, err := ep.handle(r.Context(), p)
	if err != nil {
		s.respondError(ep, w, p, err)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ep.maxAge.Seconds())))
	writeJSON(w, http.StatusOK, payload)
}

// respondError applies the family's failure policy. A section miss outranks
// the fallback: a bulletin that arrived without the requested zone is an
// extraction failure, not an outage.
func (s *Server) respondError(ep endpoint, w http.ResponseWriter, p params, err error) {
	if errors.Is(err, bulletin.ErrSectionNotFound) {
		s.metrics.ExtractionFailures.WithLabelValues(ep.name).Inc()
		s.logger.Error("section not found", "family", ep.name, "id", p.id)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("forecast for %s not found", p.id))
		return
	}

	if ep.fallback != nil {
		s.metrics.FallbackResponses.WithLabelValues(ep.name).Inc()
		s.logger.Warn("serving fallback", "family", ep.name, "id", p.id, "error", err)
		writeJSON(w, http.StatusOK, ep.fallback(p))
		return
	}

	s.logger.Error("upstream request failed", "family", ep.name, "id", p.id, "error", err)
	writeError(w, http.StatusInternalServerError, "Upstream request failed")
}
