package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-collector/internal/client"
	"github.com/kjstillabower/weather-collector/internal/collector"
	"github.com/kjstillabower/weather-collector/internal/config"
	"github.com/kjstillabower/weather-collector/internal/export"
	httphandler "github.com/kjstillabower/weather-collector/internal/http"
	"github.com/kjstillabower/weather-collector/internal/lifecycle"
	"github.com/kjstillabower/weather-collector/internal/locations"
	"github.com/kjstillabower/weather-collector/internal/observability"
	"github.com/kjstillabower/weather-collector/internal/scheduler"
	"github.com/kjstillabower/weather-collector/internal/service"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	locations   string
	output      string
	outputDir   string
	interval    time.Duration
	showTable   bool
	metricsFile string

	changed func(name string) bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 after a completed run, 1 on a
// configuration error or output write failure.
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "flags: %v\n", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if err := applyOptions(cfg, opts); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}

	code := execute(cfg, logger, stdout)

	if err := observability.FlushTelemetry(logger, cfg.MetricsTextfile); err != nil {
		fmt.Fprintf(stderr, "telemetry flush: %v\n", err)
	}
	return code
}

func execute(cfg *config.Config, logger *zap.Logger, stdout io.Writer) int {
	weatherClient, err := client.NewWeatherAPIClient(client.Options{
		APIKey:  cfg.WeatherAPIKey,
		BaseURL: cfg.WeatherAPIURL,
		Timeout: cfg.WeatherAPITimeout,
	})
	if err != nil {
		logger.Error("weather client", zap.Error(err))
		return 1
	}

	svc := service.NewCollectionService(collector.New(weatherClient, logger), logger, service.Options{
		Locations: cfg.Locations,
		OutputPath: func(now time.Time) string {
			return cfg.OutputPath(now, export.DefaultFilename)
		},
		ShowTable: cfg.ShowTable,
		Out:       stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ScheduleInterval == 0 {
		if _, err := svc.Run(ctx); err != nil {
			return 1
		}
		return 0
	}
	return runScheduled(ctx, cfg, logger, svc)
}

// runScheduled serves /health and /metrics and repeats the pass every
// interval until ctx is done. Write failures are logged and surfaced through
// /health; they do not stop the schedule.
func runScheduled(ctx context.Context, cfg *config.Config, logger *zap.Logger, svc *service.CollectionService) int {
	srv := httphandler.NewServer(cfg.MetricsAddr, httphandler.NewRouter(logger, time.Now()))
	srvErr := make(chan error, 1)
	go func() {
		logger.Info("ops server starting", zap.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	sched, err := scheduler.New(cfg.ScheduleInterval, func(ctx context.Context) error {
		_, err := svc.Run(ctx)
		return err
	}, logger)
	if err != nil {
		logger.Error("scheduler", zap.Error(err))
		_ = srv.Close()
		return 1
	}
	if err := sched.Start(ctx); err != nil {
		logger.Error("scheduler", zap.Error(err))
		_ = srv.Close()
		return 1
	}

	code := 0
	select {
	case <-ctx.Done():
		logger.Info("graceful shutdown triggered")
	case err := <-srvErr:
		logger.Error("ops server", zap.Error(err))
		code = 1
	}

	lifecycle.SetShuttingDown(true)
	sched.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return code
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("collector", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.locations, "locations", "", "comma-separated location names (overrides config)")
	fs.StringVarP(&opts.output, "output", "o", "", "write to this file instead of a timestamped one")
	fs.StringVar(&opts.outputDir, "output-dir", "", "directory for timestamped output files")
	fs.DurationVar(&opts.interval, "interval", 0, "repeat every interval; 0 runs once")
	fs.BoolVar(&opts.showTable, "show-table", false, "print the written CSV as a table")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	opts.changed = fs.Changed
	return opts, nil
}

// applyOptions overlays flags the user set onto cfg and revalidates it.
func applyOptions(cfg *config.Config, opts options) error {
	changed := opts.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}
	if changed("locations") {
		cfg.Locations = locations.Parse(opts.locations).Names()
	}
	if changed("output") {
		cfg.OutputFile = opts.output
	}
	if changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if changed("interval") {
		cfg.ScheduleInterval = opts.interval
	}
	if changed("show-table") {
		cfg.ShowTable = opts.showTable
	}
	if changed("metrics-file") {
		cfg.MetricsTextfile = opts.metricsFile
	}
	return cfg.Validate()
}
