package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/config"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/httpapi"
	stationsviews "github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/views"
)

func writeDataFile(t *testing.T, dir, name, content string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	base := time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC)
	writeDataFile(t, dir, "DES_1542020241225094010.rep", "1,1\n", base)
	writeDataFile(t, dir, "DES_1542020241225104010.rep", "21.5,12,1013,/\n", base.Add(time.Hour))

	catalog, err := config.LoadCatalog("", dir)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if err := stationsviews.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	mux, _ := newMux(catalog)
	return httpapi.Handler(mux)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestWiring_latest(t *testing.T) {
	h := newTestHandler(t)

	rec := get(t, h, "/api/v1/latest?station=Afumati")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Station   string               `json:"station"`
		StationID string               `json:"station_id"`
		File      string               `json:"file"`
		Timestamp string               `json:"timestamp"`
		Units     map[string]string    `json:"units"`
		Data      []map[string]*string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Station != "Afumati" || body.StationID != "15420" {
		t.Errorf("station = %q/%q", body.Station, body.StationID)
	}
	if body.File != "DES_1542020241225104010.rep" || body.Timestamp != "25 Dec 2024, 10:40:10" {
		t.Errorf("file = %q timestamp = %q", body.File, body.Timestamp)
	}
	if len(body.Units) != 7 || len(body.Data) != 1 {
		t.Fatalf("units = %d data = %d", len(body.Units), len(body.Data))
	}
	if v := body.Data[0]["humidity"]; v == nil || *v != "/" {
		t.Errorf("humidity = %v; want /", v)
	}
	if v := body.Data[0]["radiation"]; v != nil {
		t.Errorf("radiation = %q; want null", *v)
	}
}

func TestWiring_surfaces(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/api/v1/latest", http.StatusBadRequest, `"No station specified"`},
		{"/api/v1/stations/Baneasa/latest", http.StatusNotFound, "No data files found for station: 15421"},
		{"/api/v1/stations", http.StatusOK, `[{"id":"15420","name":"Afumati"}]`},
		{"/healthz", http.StatusOK, `"status":"ok"`},
		{"/", http.StatusOK, "Station: Afumati"},
		{"/metrics", http.StatusOK, "station_retrievals_total"},
		{"/missing", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != tt.status {
				t.Errorf("status = %d; want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body missing %q; got %s", tt.want, rec.Body.String())
			}
		})
	}
}
