//go:build integration
// +build integration

package testhelpers

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/kjstillabower/weather-collector/internal/client"
	"github.com/kjstillabower/weather-collector/internal/collector"
	"github.com/kjstillabower/weather-collector/internal/service"
)

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	APIKey string
	APIURL string
}

// GetIntegrationConfig loads integration test configuration from environment.
// Skips test if WEATHER_API_KEY is not set.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	t.Helper()
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}

	apiURL := os.Getenv("WEATHER_API_URL")
	if apiURL == "" {
		apiURL = client.DefaultBaseURL
	}
	return IntegrationTestConfig{APIKey: apiKey, APIURL: apiURL}
}

// SetupIntegrationClient creates a weather client for integration tests.
func SetupIntegrationClient(t *testing.T, cfg IntegrationTestConfig) client.WeatherClient {
	t.Helper()
	c, err := client.NewWeatherAPIClient(client.Options{APIKey: cfg.APIKey, BaseURL: cfg.APIURL, Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("NewWeatherAPIClient() error = %v", err)
	}
	return c
}

// SetupIntegrationService creates a collection service against the live API
// that writes to path inside a per-test temp dir. The returned buffer receives
// the run summary.
func SetupIntegrationService(t *testing.T, cfg IntegrationTestConfig, locs []string) (*service.CollectionService, string, *bytes.Buffer) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	path := filepath.Join(t.TempDir(), "weather.csv")
	var out bytes.Buffer

	svc := service.NewCollectionService(collector.New(SetupIntegrationClient(t, cfg), logger), logger, service.Options{
		Locations:  locs,
		OutputPath: func(time.Time) string { return path },
		Out:        &out,
	})
	return svc, path, &out
}
