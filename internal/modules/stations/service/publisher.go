package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/metrics"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/types"
)

// SnapshotPublisher accepts one encoded snapshot per station.
type SnapshotPublisher interface {
	PublishSnapshot(stationID string, payload []byte) error
}

// SnapshotLoop periodically runs a retrieval for every known station and
// publishes the result. Each tick starts from a fresh directory scan.
type SnapshotLoop struct {
	service   *Service
	publisher SnapshotPublisher
	interval  time.Duration
	logger    *slog.Logger
}

func NewSnapshotLoop(svc *Service, publisher SnapshotPublisher, interval time.Duration, logger *slog.Logger) *SnapshotLoop {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotLoop{service: svc, publisher: publisher, interval: interval, logger: logger}
}

// Run publishes once immediately, then on every interval until ctx is done.
func (l *SnapshotLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.PublishAll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.PublishAll()
		}
	}
}

// PublishAll publishes the current snapshot of every known station and returns
// how many were published.
func (l *SnapshotLoop) PublishAll() int {
	ids, err := l.service.Directory().KnownStationIDs()
	if err != nil {
		l.logger.Error("snapshot: list stations failed", "error", err)
		return 0
	}

	published := 0
	for _, id := range ids {
		payload, err := l.snapshot(id)
		if err != nil {
			metrics.PublishesTotal.WithLabelValues("encode_error").Inc()
			l.logger.Error("snapshot: encode failed", "station_id", id, "error", err)
			continue
		}
		if err := l.publisher.PublishSnapshot(id, payload); err != nil {
			metrics.PublishesTotal.WithLabelValues("error").Inc()
			l.logger.Warn("snapshot: publish failed", "station_id", id, "error", err)
			continue
		}
		metrics.PublishesTotal.WithLabelValues("ok").Inc()
		published++
	}
	l.logger.Debug("snapshot: published", "stations", len(ids), "published", published)
	return published
}

// snapshot encodes the bundle, or {"error": message} with the same message an
// HTTP client would get when retrieval fails.
func (l *SnapshotLoop) snapshot(stationID string) ([]byte, error) {
	bundle, err := l.service.Retrieve(stationID)
	if err != nil {
		return json.Marshal(map[string]string{"error": types.PublicMessage(err)})
	}
	return json.Marshal(bundle)
}
