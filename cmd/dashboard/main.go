package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yarimitsu/boatsafe-sub000/internal/adapter/noaa"
	"github.com/yarimitsu/boatsafe-sub000/internal/cache"
	"github.com/yarimitsu/boatsafe-sub000/internal/client"
	"github.com/yarimitsu/boatsafe-sub000/internal/dashboard"
	"github.com/yarimitsu/boatsafe-sub000/internal/nws"
)

const (
	// userAgent identifies the dashboard to NOAA; anonymous clients get
	// throttled.
	userAgent = "boatsafe-dashboard (https://github.com/yarimitsu/boatsafe-sub000)"

	upstreamTimeout = 15 * time.Second

	// minInterval keeps watch mode from hammering NOAA; the fastest-moving
	// product (buoy observations) updates every ten minutes.
	minInterval = time.Minute
)

var (
	outputFile string
	configFile string
	watchMode  bool
	interval   time.Duration
	verbose    bool

	flagZone    string
	flagRegion  string
	flagTide    string
	flagCurrent string
	flagBuoy    string
	flagOffice  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "boatsafe",
		Short: "Render the BoatSafe marine weather dashboard to a static HTML page",
		Long: `BoatSafe renders a single-page marine weather dashboard for Southeast
Alaska boaters: the zone and coastal waters forecasts, active alerts, tide
and current predictions, and buoy observations, fetched from NOAA and
written as static HTML. The zone and station selection persists across runs
in the user config directory.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "boatsafe.html", "Output HTML file path")
	rootCmd.Flags().StringVar(&configFile, "config", "", "Selection file path (default: the user config dir)")
	rootCmd.Flags().BoolVar(&watchMode, "watch", false, "Keep re-rendering the dashboard on an interval")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", 30*time.Minute, "Refresh interval in watch mode (minimum 1m)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.Flags().StringVar(&flagZone, "zone", "", "Public forecast zone, e.g. AKZ321")
	rootCmd.Flags().StringVar(&flagRegion, "region", "", "Coastal waters region, e.g. CWFAJK")
	rootCmd.Flags().StringVar(&flagTide, "tide-station", "", "Tide prediction station, e.g. 9452210")
	rootCmd.Flags().StringVar(&flagCurrent, "current-station", "", "Current prediction station, e.g. ACT0841")
	rootCmd.Flags().StringVar(&flagBuoy, "buoy-station", "", "NDBC observation station, e.g. SISA2")
	rootCmd.Flags().StringVar(&flagOffice, "office", "", "Forecast office for the discussion, e.g. AJK")

	rootCmd.AddCommand(newZonesCmd(), newStationsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	path := configFile
	if path == "" {
		p, err := dashboard.DefaultSelectionPath()
		if err != nil {
			return err
		}
		path = p
	}

	sel, err := dashboard.LoadSelection(path)
	if err != nil {
		logger.Warn("selection file unreadable, starting from defaults", "path", path, "error", err)
	}

	overridden := applyOverrides(&sel)
	sel = sel.Normalize()
	if err := sel.Validate(); err != nil {
		return err
	}
	if overridden {
		if err := dashboard.SaveSelection(path, sel); err != nil {
			return err
		}
		logger.Info("selection saved", "path", path)
	}

	builder := dashboard.NewBuilder(newClient(logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := render(ctx, builder, sel, cmd); err != nil {
		return err
	}
	if !watchMode {
		return nil
	}

	if interval < minInterval {
		interval = minInterval
	}
	cmd.Println(fmt.Sprintf("Watch mode: re-rendering every %s. Press Ctrl+C to stop.", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := render(ctx, builder, sel, cmd); err != nil {
				cmd.PrintErrln(fmt.Errorf("refresh failed: %w", err))
			}
		}
	}
}

func render(ctx context.Context, builder *dashboard.Builder, sel dashboard.Selection, cmd *cobra.Command) error {
	page := builder.Build(ctx, sel)

	// A shutdown mid-build leaves every widget errored; keep the last good
	// page on disk instead.
	if ctx.Err() != nil {
		return nil
	}

	if err := dashboard.RenderFile(outputFile, page); err != nil {
		return err
	}
	cmd.Println(fmt.Sprintf("Dashboard saved to %s", outputFile))
	return nil
}

// applyOverrides copies set selection flags over the stored selection and
// reports whether anything changed.
func applyOverrides(sel *dashboard.Selection) bool {
	overrides := []struct {
		value string
		field *string
	}{
		{flagZone, &sel.Zone},
		{flagRegion, &sel.Region},
		{flagTide, &sel.TideStation},
		{flagCurrent, &sel.CurrentStation},
		{flagBuoy, &sel.BuoyStation},
		{flagOffice, &sel.Office},
	}

	changed := false
	for _, o := range overrides {
		if o.value != "" {
			*o.field = o.value
			changed = true
		}
	}
	return changed
}

// newClient wires the NOAA fetcher with the on-disk response cache, so watch
// mode and repeated runs reuse bodies that are still fresh.
func newClient(logger *slog.Logger) *client.Client {
	fetcher := noaa.NewClient(userAgent, upstreamTimeout, logger)
	return client.New(fetcher, newStore(logger), logger)
}

func newStore(logger *slog.Logger) cache.Cache {
	dir, err := os.UserCacheDir()
	if err == nil {
		var d *cache.Dir
		if d, err = cache.NewDir(filepath.Join(dir, "boatsafe")); err == nil {
			return d
		}
	}
	logger.Warn("cache directory unavailable, caching in memory", "error", err)
	return cache.NewMemory(0)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newZonesCmd lists the zone-like identifiers the selection flags accept.
func newZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List the forecast zones, coastal regions, and offices",
		Run: func(cmd *cobra.Command, _ []string) {
			printZones(cmd, "Public forecast zones (--zone)", nws.PublicZone)
			printZones(cmd, "Coastal waters regions (--region)", nws.CoastalRegion)
			printZones(cmd, "Forecast offices (--office)", nws.Office)
		},
	}
}

// newStationsCmd lists the observation and prediction stations.
func newStationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stations",
		Short: "List the tide, current, and buoy stations",
		Run: func(cmd *cobra.Command, _ []string) {
			printStations(cmd, "Tide stations (--tide-station)", nws.TideStation)
			printStations(cmd, "Current stations (--current-station)", nws.CurrentStation)
			printStations(cmd, "Buoy stations (--buoy-station)", nws.BuoyStation)
		},
	}
}

func printZones(cmd *cobra.Command, title string, f nws.Family) {
	cmd.Println(title + ":")
	for _, z := range nws.Zones(f) {
		cmd.Println(fmt.Sprintf("  %-8s %s", z.ID, z.Name))
	}
	cmd.Println("")
}

func printStations(cmd *cobra.Command, title string, f nws.Family) {
	cmd.Println(title + ":")
	for _, s := range nws.Stations(f) {
		cmd.Println(fmt.Sprintf("  %-8s %s", s.ID, s.Name))
	}
	cmd.Println("")
}
