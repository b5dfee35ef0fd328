package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kjstillabower/weather-collector/internal/models"
	"github.com/kjstillabower/weather-collector/internal/observability"
	"github.com/kjstillabower/weather-collector/internal/validation"
)

// DefaultBaseURL is WeatherAPI.com's current-conditions endpoint.
const DefaultBaseURL = "http://api.weatherapi.com/v1/current.json"

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read for diagnostics.
const maxErrorBody = 4 << 10

type WeatherClient interface {
	Fetch(ctx context.Context, location string) (models.WeatherRecord, error)
}

var (
	ErrInvalidAPIKey     = errors.New("invalid API key")
	ErrLocationNotFound  = errors.New("location not found")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrRateLimited       = errors.New("rate limited")
	ErrMalformedResponse = errors.New("malformed response")
	ErrMissingField      = errors.New("missing field")
)

// Options configures a WeatherAPIClient. Now defaults to time.Now.
type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Now     func() time.Time
}

// WeatherAPIClient fetches current conditions from WeatherAPI.com.
// Each Fetch issues exactly one GET; there are no retries.
type WeatherAPIClient struct {
	apiKey  string
	baseURL *url.URL
	timeout time.Duration
	client  *http.Client
	now     func() time.Time
}

func NewWeatherAPIClient(opts Options) (*WeatherAPIClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	if len(opts.APIKey) < 10 {
		return nil, fmt.Errorf("%w: API key appears invalid (too short)", ErrInvalidAPIKey)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &WeatherAPIClient{
		apiKey:  opts.APIKey,
		baseURL: baseURL,
		timeout: opts.Timeout,
		now:     opts.Now,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
	}, nil
}

// currentResponse mirrors the consumed subset of /v1/current.json.
// Pointer fields distinguish an absent field from a zero value.
type currentResponse struct {
	Location struct {
		Name    *string `json:"name"`
		Country *string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC     *float64 `json:"temp_c"`
		TempF     *float64 `json:"temp_f"`
		Condition struct {
			Text *string `json:"text"`
		} `json:"condition"`
		Humidity   *float64 `json:"humidity"`
		WindKph    *float64 `json:"wind_kph"`
		PressureMb *float64 `json:"pressure_mb"`
		FeelsLikeC *float64 `json:"feelslike_c"`
	} `json:"current"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Fetch returns the current conditions for location. Any failure (validation,
// transport, timeout, HTTP status, decoding or a missing field) yields an error
// and no record.
func (c *WeatherAPIClient) Fetch(ctx context.Context, location string) (models.WeatherRecord, error) {
	location, err := validation.ValidateLocation(location)
	if err != nil {
		return models.WeatherRecord{}, err
	}

	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, location)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return models.WeatherRecord{}, fmt.Errorf("build request: %w", err)
	}

	if corrID := CorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(duration)

		if errors.Is(err, context.Canceled) {
			return models.WeatherRecord{}, fmt.Errorf("request canceled: %w", err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return models.WeatherRecord{}, fmt.Errorf("request timeout: %w", err)
		}
		return models.WeatherRecord{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(duration)

	if err := handleErrorResponse(resp); err != nil {
		return models.WeatherRecord{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherRecord{}, fmt.Errorf("read response body: %w", err)
	}

	var apiResp currentResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return models.WeatherRecord{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return c.mapResponse(apiResp)
}

func (c *WeatherAPIClient) buildRequest(ctx context.Context, location string) (*http.Request, error) {
	u := *c.baseURL
	params := u.Query()
	params.Set("key", c.apiKey)
	params.Set("q", location)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

// handleErrorResponse maps non-2xx statuses to sentinel errors. WeatherAPI
// reports an unmatched q as 400 with error code 1006.
func handleErrorResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := upstreamMessage(resp.Body)
	if detail == "" {
		detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrLocationNotFound, detail)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, detail)
	}
	return fmt.Errorf("%w: %s", ErrUpstreamFailure, detail)
}

func upstreamMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var er errorResponse
	if err := json.Unmarshal(data, &er); err != nil {
		return ""
	}
	return strings.TrimSpace(er.Error.Message)
}

func (c *WeatherAPIClient) mapResponse(r currentResponse) (models.WeatherRecord, error) {
	var missing []string
	str := func(p *string, path string) string {
		if p == nil {
			missing = append(missing, path)
			return ""
		}
		return *p
	}
	num := func(p *float64, path string) float64 {
		if p == nil {
			missing = append(missing, path)
			return 0
		}
		return *p
	}

	rec := models.WeatherRecord{
		City:         str(r.Location.Name, "location.name"),
		Country:      str(r.Location.Country, "location.country"),
		TemperatureC: num(r.Current.TempC, "current.temp_c"),
		TemperatureF: num(r.Current.TempF, "current.temp_f"),
		Condition:    str(r.Current.Condition.Text, "current.condition.text"),
		Humidity:     num(r.Current.Humidity, "current.humidity"),
		WindKph:      num(r.Current.WindKph, "current.wind_kph"),
		PressureMb:   num(r.Current.PressureMb, "current.pressure_mb"),
		FeelsLikeC:   num(r.Current.FeelsLikeC, "current.feelslike_c"),
	}
	if len(missing) > 0 {
		return models.WeatherRecord{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	rec.FetchTime = c.now().Format(models.FetchTimeLayout)
	return rec, nil
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}

type correlationIDKey struct{}

// WithCorrelationID returns a context whose fetches carry id as X-Correlation-ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID returns the ID set by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}
