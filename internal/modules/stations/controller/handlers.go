package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/types"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/views"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/utils"
)

func (c *stationsControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.service.Stations()
	if err != nil {
		slog.Error("stations: list failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load stations")
		return
	}
	if stations == nil {
		stations = []types.Station{}
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

// handleLatest serves both /api/v1/latest?station= and the path form.
func (c *stationsControllerImpl) handleLatest(w http.ResponseWriter, r *http.Request) {
	token := stationToken(r)

	bundle, err := c.service.Retrieve(token)
	if err != nil {
		utils.WriteError(w, statusFor(err), types.PublicMessage(err))
		return
	}
	utils.WriteJSON(w, http.StatusOK, bundle)
}

func (c *stationsControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	stations, err := c.service.Stations()
	if err != nil {
		slog.Error("dashboard: get stations failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load stations")
		return
	}

	selected := r.URL.Query().Get("station")
	if selected == "" && len(stations) > 0 {
		selected = stations[0].Name
	}

	status := http.StatusOK
	var data views.DashboardData
	if len(stations) > 0 {
		bundle, err := c.service.Retrieve(selected)
		if err != nil {
			status = statusFor(err)
			data.Error = types.PublicMessage(err)
		} else {
			data = views.NewDashboardData(bundle, c.service.Sentinel())
		}
	}
	data.Stations = stationOptions(stations, selected)

	var buf bytes.Buffer
	if err := views.RenderDashboard(&buf, &data); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("dashboard: write response failed", "error", err)
	}
}

// stationOptions labels each station by name, which falls back to the ID.
func stationOptions(stations []types.Station, selected string) []views.StationOption {
	opts := make([]views.StationOption, 0, len(stations))
	for _, s := range stations {
		opts = append(opts, views.StationOption{
			Value:    s.Name,
			Label:    s.Name,
			Selected: s.Name == selected || s.ID == selected,
		})
	}
	return opts
}
