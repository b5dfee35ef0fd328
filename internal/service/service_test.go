package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjstillabower/weather-collector/internal/client"
	"github.com/kjstillabower/weather-collector/internal/collector"
	"github.com/kjstillabower/weather-collector/internal/export"
	"github.com/kjstillabower/weather-collector/internal/lifecycle"
	"github.com/kjstillabower/weather-collector/internal/models"
)

type stubClient struct {
	records map[string]models.WeatherRecord
}

func (s *stubClient) Fetch(_ context.Context, location string) (models.WeatherRecord, error) {
	if rec, ok := s.records[location]; ok {
		return rec, nil
	}
	return models.WeatherRecord{}, fmt.Errorf("%w: No matching location found.", client.ErrLocationNotFound)
}

func newStub() *stubClient {
	return &stubClient{records: map[string]models.WeatherRecord{
		"London": {City: "London", Country: "United Kingdom", TemperatureC: 12.5, TemperatureF: 54.5,
			Condition: "Partly cloudy", Humidity: 81, WindKph: 14.4, PressureMb: 1012, FeelsLikeC: 11.2,
			FetchTime: "2025-09-05 14:03:11"},
		"Tokyo": {City: "Tokyo", Country: "Japan", TemperatureC: 27, TemperatureF: 80.6,
			Condition: "Sunny", Humidity: 60, WindKph: 8, PressureMb: 1009, FeelsLikeC: 29,
			FetchTime: "2025-09-05 14:03:12"},
	}}
}

func newTestService(t *testing.T, locs []string, path string, showTable bool) (*CollectionService, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	svc := NewCollectionService(collector.New(newStub(), nil), nil, Options{
		Locations:  locs,
		OutputPath: func(time.Time) string { return path },
		ShowTable:  showTable,
		Out:        &out,
	})
	return svc, &out
}

func TestRun_WritesCSVAndSummary(t *testing.T) {
	lifecycle.ResetLastRun()
	defer lifecycle.ResetLastRun()

	path := filepath.Join(t.TempDir(), "weather.csv")
	svc, out := newTestService(t, []string{"London", "Atlantis"}, path, false)

	rr, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, path, rr.Path)
	assert.Equal(t, 2, rr.Attempted)
	assert.Equal(t, 1, rr.Succeeded)
	require.Len(t, rr.Failures, 1)
	assert.Equal(t, client.ErrorCategoryLocationNotFound, rr.Failures[0].Category)

	header, rows, err := export.Read(path)
	require.NoError(t, err)
	assert.Equal(t, models.Columns, header)
	require.Len(t, rows, 1)
	assert.Equal(t, "London", rows[0][0])

	assert.Equal(t, "Fetched 1/2 locations (1 failed)\n"+
		"London, United Kingdom: 12.5°C, Partly cloudy\n"+
		"Data saved to: "+path+"\n", out.String())

	last, ok := lifecycle.LastRun()
	require.True(t, ok)
	assert.Equal(t, rr.RunID, last.RunID)
	assert.Equal(t, 2, last.Attempted)
	assert.Equal(t, 1, last.Succeeded)
	assert.Empty(t, last.Error)
}

func TestRun_EmptyDatasetWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	svc, out := newTestService(t, []string{"Atlantis"}, path, false)

	rr, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rr.Succeeded)

	header, rows, err := export.Read(path)
	require.NoError(t, err)
	assert.Equal(t, models.Columns, header)
	assert.Empty(t, rows)
	assert.Contains(t, out.String(), "No weather data collected")
}

func TestRun_ShowTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	svc, out := newTestService(t, []string{"London", "Tokyo"}, path, true)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "CSV file contents (2 rows):")
	assert.Contains(t, out.String(), "| city ")
	assert.Contains(t, out.String(), "| Tokyo ")
}

func TestRun_WriteFailure(t *testing.T) {
	lifecycle.ResetLastRun()
	defer lifecycle.ResetLastRun()

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	path := filepath.Join(blocker, "weather.csv")

	svc, out := newTestService(t, []string{"London"}, path, true)
	rr, err := svc.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, export.ErrWrite)
	assert.Equal(t, 1, rr.Succeeded)
	assert.NotContains(t, out.String(), "Data saved to")

	last, ok := lifecycle.LastRun()
	require.True(t, ok)
	assert.NotEmpty(t, last.Error)
}

func TestRun_DefaultOutputPathUsesClock(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	now := time.Date(2025, 9, 5, 14, 3, 11, 0, time.Local)

	var out bytes.Buffer
	svc := NewCollectionService(collector.New(newStub(), nil), nil, Options{
		Locations: []string{"London"},
		Out:       &out,
		Now:       func() time.Time { return now },
	})
	rr, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "weather_data_20250905_140311.csv", rr.Path)
	assert.FileExists(t, filepath.Join(dir, rr.Path))
}
