package controller

import (
	"net/http"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/types"
)

// stationService is the part of service.Service the handlers need.
type stationService interface {
	Retrieve(token string) (*types.Bundle, error)
	Stations() ([]types.Station, error)
	Sentinel() string
}

type StationsController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type stationsControllerImpl struct {
	service stationService
}

func NewStationsController(service stationService) StationsController {
	return &stationsControllerImpl{service: service}
}

func (c *stationsControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleDashboard)
	mux.HandleFunc("GET /api/v1/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1/latest", c.handleLatest)
	mux.HandleFunc("GET /api/v1/stations/{station}/latest", c.handleLatest)
}
