package stations

import (
	"net/http"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/controller"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/service"
)

func RegisterFeature(mux *http.ServeMux, svc *service.Service) {
	stationsController := controller.NewStationsController(svc)
	stationsController.RegisterRoutes(mux)
}
