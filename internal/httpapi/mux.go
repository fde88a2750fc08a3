package httpapi

import (
	"net/http"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/metrics"
)

func NewMux(dataDir string) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, dataDir)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}
