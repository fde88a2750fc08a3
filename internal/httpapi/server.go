package httpapi

import (
	"net/http"
	"time"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/config"
)

func NewServer(cfg config.Config, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Handler wraps mux with the request ID, logging and metrics middleware.
func Handler(mux *http.ServeMux) http.Handler {
	return requestID(requestLogger(instrument(mux)))
}
