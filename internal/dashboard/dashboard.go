// Package dashboard assembles and renders the boater dashboard: one HTML
// page of marine weather panels for a selected Southeast Alaska location.
// Each widget fetches its own NOAA product through the shared client and
// parses it with the bulletin extractors; a failed widget renders an error
// block without touching its neighbors.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/yarimitsu/boatsafe-sub000/internal/client"
	"github.com/yarimitsu/boatsafe-sub000/internal/nws"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// Page is the view model one render consumes.
type Page struct {
	GeneratedAt  time.Time
	Selection    Selection
	ZoneName     string
	RegionName   string
	Forecast     ForecastWidget
	Weather      WeatherWidget
	Coastal      CoastalWidget
	Discussion   DiscussionWidget
	Alerts       AlertsWidget
	Tides        TidesWidget
	Currents     CurrentsWidget
	Observations ObservationsWidget
}

// Builder fetches widget data and assembles pages.
type Builder struct {
	client *client.Client
	logger *slog.Logger
	clock  clockwork.Clock
}

// NewBuilder creates a page builder on top of the shared fetch client.
func NewBuilder(c *client.Client, logger *slog.Logger) *Builder {
	return &Builder{client: c, logger: logger, clock: clockwork.NewRealClock()}
}

// NewBuilderForTesting pins the page timestamp to a fake clock.
func NewBuilderForTesting(c *client.Client, logger *slog.Logger, clock clockwork.Clock) *Builder {
	return &Builder{client: c, logger: logger, clock: clock}
}

// Build fetches every widget concurrently and waits for all of them to
// settle. A widget failure lands in its own Err field, never a neighbor's.
func (b *Builder) Build(ctx context.Context, sel Selection) Page {
	page := Page{
		GeneratedAt: b.clock.Now(),
		Selection:   sel,
		ZoneName:    nws.ZoneName(sel.Zone),
		RegionName:  nws.ZoneName(sel.Region),
	}

	var wg sync.WaitGroup
	fetch := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	fetch(func() { page.Forecast = b.buildForecast(ctx, sel.Zone) })
	fetch(func() { page.Weather = b.buildWeather(ctx, sel.Zone) })
	fetch(func() { page.Coastal = b.buildCoastal(ctx, sel) })
	fetch(func() { page.Discussion = b.buildDiscussion(ctx, sel.Office) })
	fetch(func() { page.Alerts = b.buildAlerts(ctx, sel.Zone) })
	fetch(func() { page.Tides = b.buildTides(ctx, sel.TideStation) })
	fetch(func() { page.Currents = b.buildCurrents(ctx, sel.CurrentStation) })
	fetch(func() { page.Observations = b.buildObservations(ctx, sel.BuoyStation) })
	wg.Wait()

	return page
}

// Render writes the dashboard HTML for a page.
func Render(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}

// RenderFile renders to a buffer first so a template failure never
// truncates a previously good output file.
func RenderFile(path string, page Page) error {
	var buf bytes.Buffer
	if err := Render(&buf, page); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}
	return nil
}
