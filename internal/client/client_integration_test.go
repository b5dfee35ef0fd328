//go:build integration
// +build integration

package client

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func integrationClient(t *testing.T) *WeatherAPIClient {
	t.Helper()
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}
	apiURL := os.Getenv("WEATHER_API_URL")
	if apiURL == "" {
		apiURL = DefaultBaseURL
	}

	client, err := NewWeatherAPIClient(Options{APIKey: apiKey, BaseURL: apiURL, Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("NewWeatherAPIClient() error = %v", err)
	}
	return client
}

func TestWeatherAPIClient_Fetch_Integration(t *testing.T) {
	client := integrationClient(t)

	record, err := client.Fetch(context.Background(), "London")
	if err != nil {
		t.Fatalf("Fetch() error = %v (API key may not be activated yet)", err)
	}
	if record.City == "" || record.Country == "" {
		t.Errorf("Fetch() returned empty name/country: %+v", record)
	}
	if record.Condition == "" {
		t.Error("Fetch() returned empty condition")
	}
}

func TestWeatherAPIClient_Fetch_UnknownLocation_Integration(t *testing.T) {
	client := integrationClient(t)

	_, err := client.Fetch(context.Background(), "Atlantis")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("Fetch(Atlantis) error = %v, want %v", err, ErrLocationNotFound)
	}
}
