package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-collector/internal/observability"
)

// NewRouter wires /health and /metrics with correlation and metrics middleware.
func NewRouter(logger *zap.Logger, startTime time.Time) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(logger, startTime)

	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)
	return router
}

// NewServer returns an http.Server for the ops router on addr.
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
