package controller

import (
	"errors"
	"net/http"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/types"
)

// stationToken prefers the {station} path segment over ?station=.
func stationToken(r *http.Request) string {
	if s := r.PathValue("station"); s != "" {
		return s
	}
	return r.URL.Query().Get("station")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNoStation):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrUnknownStation),
		errors.Is(err, types.ErrNoDataFile),
		errors.Is(err, types.ErrEmptyFile):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
