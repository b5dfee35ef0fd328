// Package collector runs the sequential fetch loop over a location list.
package collector

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-collector/internal/client"
	"github.com/kjstillabower/weather-collector/internal/models"
	"github.com/kjstillabower/weather-collector/internal/observability"
)

// MessageLimit bounds the diagnostic kept for a failed fetch.
const MessageLimit = 50

// Failure is the outcome of one location that produced no record.
type Failure struct {
	Location string
	Category client.ErrorCategory
	Message  string
}

// Result is the dataset of one run plus its counters.
// Succeeded <= Attempted, and Attempted == len(locations) unless ctx was cancelled.
type Result struct {
	RunID     string
	Records   []models.WeatherRecord
	Attempted int
	Succeeded int
	Failures  []Failure
	Duration  time.Duration
}

// Collector fetches every location once, in order, one at a time.
type Collector struct {
	client client.WeatherClient
	logger *zap.Logger
	newID  func() string
}

// New returns a Collector. A nil logger disables logging.
func New(c client.WeatherClient, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		client: c,
		logger: logger,
		newID:  func() string { return uuid.New().String() },
	}
}

// Collect fetches each location in order. Per-location failures are logged,
// counted and skipped; they never stop the loop. Only ctx cancellation stops
// it early, leaving the remaining locations unattempted.
func (c *Collector) Collect(ctx context.Context, locations []string) Result {
	start := time.Now()
	res := Result{
		RunID:   c.newID(),
		Records: make([]models.WeatherRecord, 0, len(locations)),
	}
	logger := observability.RunLogger(c.logger, res.RunID)
	ctx = client.WithCorrelationID(ctx, res.RunID)

	logger.Info("fetching weather data", zap.Int("locations", len(locations)))

	total := len(locations)
	for i, loc := range locations {
		if err := ctx.Err(); err != nil {
			logger.Warn("collection interrupted",
				zap.Int("attempted", res.Attempted),
				zap.Int("remaining", total-i),
				zap.Error(err))
			break
		}

		res.Attempted++
		record, err := c.client.Fetch(ctx, loc)
		if err != nil {
			category := client.CategorizeError(err)
			msg := client.Truncate(err, MessageLimit)
			res.Failures = append(res.Failures, Failure{Location: loc, Category: category, Message: msg})
			observability.RecordFetch(false, string(category))
			logger.Warn("fetch failed",
				zap.Int("index", i+1),
				zap.Int("total", total),
				zap.String("location", loc),
				zap.String("category", string(category)),
				zap.String("error", msg))
			continue
		}

		res.Records = append(res.Records, record)
		res.Succeeded++
		observability.RecordFetch(true, "")
		logger.Info("fetched",
			zap.Int("index", i+1),
			zap.Int("total", total),
			zap.String("location", loc),
			zap.String("city", record.City))
	}

	res.Duration = time.Since(start)
	logger.Info("collection complete",
		zap.Int("attempted", res.Attempted),
		zap.Int("succeeded", res.Succeeded),
		zap.Duration("duration", res.Duration))
	return res
}
