package httpapi

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/utils"
)

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	dataDir string
}

func NewHealthchecker(dataDir string) healthchecker {
	return &healthcheckerImpl{dataDir: dataDir}
}

// handleHealthz reports whether the data directory can be listed. A missing
// directory is healthy: it reads as a deployment with no stations yet.
func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	err := checkDataDir(h.dataDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "data_dir": "missing"})
	case err != nil:
		slog.Error("failed to read data directory", "dir", h.dataDir, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to read data directory")
	default:
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func checkDataDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func registerHealthcheck(mux *http.ServeMux, dataDir string) {
	healthchecker := NewHealthchecker(dataDir)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
