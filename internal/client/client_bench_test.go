package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// BenchmarkClient_BuildRequest benchmarks HTTP request construction.
func BenchmarkClient_BuildRequest(b *testing.B) {
	client, _ := NewWeatherAPIClient(Options{APIKey: "test-api-key-12345", BaseURL: DefaultBaseURL, Timeout: 2 * time.Second})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = client.buildRequest(ctx, "New York")
	}
}

// BenchmarkClient_MapResponse benchmarks decoding and flattening a response body.
func BenchmarkClient_MapResponse(b *testing.B) {
	client, _ := NewWeatherAPIClient(Options{APIKey: "test-api-key-12345"})
	body := []byte(londonJSON)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var resp currentResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			b.Fatal(err)
		}
		if _, err := client.mapResponse(resp); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkClient_Fetch benchmarks a full fetch against a local server.
func BenchmarkClient_Fetch(b *testing.B) {
	server := httptest.NewServer(jsonHandler(http.StatusOK, londonJSON))
	defer server.Close()

	client, _ := NewWeatherAPIClient(Options{APIKey: "test-api-key-12345", BaseURL: server.URL, Timeout: 2 * time.Second})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.Fetch(ctx, "London"); err != nil {
			b.Fatal(err)
		}
	}
}
