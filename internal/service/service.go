package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-collector/internal/collector"
	"github.com/kjstillabower/weather-collector/internal/export"
	"github.com/kjstillabower/weather-collector/internal/lifecycle"
	"github.com/kjstillabower/weather-collector/internal/models"
	"github.com/kjstillabower/weather-collector/internal/observability"
	"github.com/kjstillabower/weather-collector/internal/report"
)

// Options configures one collection pass.
type Options struct {
	Locations []string
	// OutputPath maps the run's start time to the CSV destination.
	OutputPath func(now time.Time) string
	ShowTable  bool
	// Out receives the human-readable summary. Defaults to os.Stdout.
	Out io.Writer
	Now func() time.Time
}

// RunReport is the outcome of one pass.
type RunReport struct {
	collector.Result
	Path string
}

// CollectionService runs the full pipeline: fetch every location, print the
// preview, write the CSV.
type CollectionService struct {
	collector *collector.Collector
	logger    *zap.Logger
	opts      Options
}

// NewCollectionService creates a CollectionService with the provided dependencies.
func NewCollectionService(c *collector.Collector, logger *zap.Logger, opts Options) *CollectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OutputPath == nil {
		opts.OutputPath = export.DefaultFilename
	}
	return &CollectionService{collector: c, logger: logger, opts: opts}
}

// Run performs one pass. Per-location fetch failures are reported but never
// returned; the only returned error is an output write failure (export.ErrWrite).
func (s *CollectionService) Run(ctx context.Context) (RunReport, error) {
	start := time.Now()
	path := s.opts.OutputPath(s.opts.Now())

	res := s.collector.Collect(ctx, s.opts.Locations)
	rr := RunReport{Result: res, Path: path}
	logger := observability.RunLogger(s.logger, res.RunID)

	fmt.Fprint(s.opts.Out, report.Summarize(res.Records, res.Attempted, res.Succeeded))

	status := lifecycle.RunStatus{
		RunID:     res.RunID,
		Attempted: res.Attempted,
		Succeeded: res.Succeeded,
		Output:    path,
	}
	observability.LastRunAttempted.Set(float64(res.Attempted))
	observability.LastRunSucceeded.Set(float64(res.Succeeded))

	writeErr := export.Write(res.Records, path)

	status.FinishedAt = s.opts.Now()
	observability.LastRunTimestamp.Set(float64(status.FinishedAt.Unix()))
	observability.RunDuration.Observe(time.Since(start).Seconds())

	if writeErr != nil {
		status.Error = writeErr.Error()
		lifecycle.RecordRun(status)
		observability.RunsTotal.WithLabelValues("write_error").Inc()
		logger.Error("write output", zap.String("path", path), zap.Error(writeErr))
		return rr, writeErr
	}

	lifecycle.RecordRun(status)
	observability.RunsTotal.WithLabelValues("success").Inc()
	observability.RecordsWrittenTotal.Add(float64(len(res.Records)))
	logger.Info("data saved",
		zap.String("path", path),
		zap.Int("rows", len(res.Records)),
		zap.Int("fields", len(models.Columns)))

	fmt.Fprintf(s.opts.Out, "Data saved to: %s\n", path)

	if s.opts.ShowTable {
		header, rows, err := export.Read(path)
		if err != nil {
			logger.Warn("could not display CSV", zap.String("path", path), zap.Error(err))
			return rr, nil
		}
		fmt.Fprintf(s.opts.Out, "\nCSV file contents (%d rows):\n", len(rows))
		fmt.Fprint(s.opts.Out, report.Table(header, rows))
	}
	return rr, nil
}
