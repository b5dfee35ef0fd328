package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-collector/internal/client"
)

func TestCorrelationIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	h := CorrelationIDMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = client.CorrelationID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Correlation-ID"))
}

func TestCorrelationIDMiddleware_PropagatesHeader(t *testing.T) {
	var seen string
	var hasLogger bool
	h := CorrelationIDMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = client.CorrelationID(r.Context())
		hasLogger = requestLogger(r, nil) != nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get("X-Correlation-ID"))
	assert.True(t, hasLogger)
}

func TestGetRoute_UnmatchedIsOther(t *testing.T) {
	assert.Equal(t, "other", getRoute(httptest.NewRequest(http.MethodGet, "/x/y", nil)))

	var route string
	r := mux.NewRouter()
	r.HandleFunc("/runs/{id}", func(w http.ResponseWriter, req *http.Request) { route = getRoute(req) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/runs/42", nil))
	assert.Equal(t, "/runs/{id}", route)
}

func TestStatusRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
	rec.WriteHeader(http.StatusServiceUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, rec.statusCode)
	assert.Equal(t, "5xx", statusCodeString(rec.statusCode))
}
