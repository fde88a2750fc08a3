package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/config"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/metrics"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/repository"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/types"
)

type Service struct {
	repository repository.StationRepository
	directory  *Directory
	resolver   *Resolver
	schema     types.MetricSchema
	sentinel   string
	logger     *slog.Logger
}

func NewService(repo repository.StationRepository, catalog config.Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	directory := NewDirectory(repo, catalog.Stations)
	return &Service{
		repository: repo,
		directory:  directory,
		resolver:   NewResolver(directory, catalog.IDWidth),
		schema:     catalog.Metrics,
		sentinel:   catalog.Sentinel,
		logger:     logger,
	}
}

func (s *Service) Directory() *Directory {
	return s.directory
}

func (s *Service) Stations() ([]types.Station, error) {
	return s.directory.Stations()
}

// Sentinel is the raw value data files use for a failed measurement.
func (s *Service) Sentinel() string {
	return s.sentinel
}

// Retrieve runs resolve -> locate -> timestamp -> parse for token and stops at
// the first failure. Failures are *types.RetrievalError; no partial bundle is
// ever returned.
func (s *Service) Retrieve(token string) (*types.Bundle, error) {
	start := time.Now()
	bundle, err := s.retrieve(token)
	outcome := outcomeOf(err)
	metrics.RecordRetrieval(outcome, time.Since(start))

	switch outcome {
	case metrics.OutcomeOK:
		metrics.RecordsParsed.WithLabelValues(bundle.Station.ID).Add(float64(len(bundle.Records)))
		s.logger.Debug("station data retrieved",
			"station_id", bundle.Station.ID,
			"file", bundle.SourceFile,
			"records", len(bundle.Records),
		)
	case metrics.OutcomeInternalError:
		s.logger.Error("station data retrieval failed", "token", token, "error", err)
	default:
		s.logger.Warn("station data unavailable", "token", token, "outcome", outcome, "error", err)
	}
	return bundle, err
}

func (s *Service) retrieve(token string) (*types.Bundle, error) {
	station, err := s.resolver.Resolve(token)
	if err != nil {
		return nil, err
	}

	latest, err := s.repository.FindLatestFile(station.ID)
	if err != nil {
		return nil, classify(err, station.ID, "")
	}

	timestamp, err := s.repository.ExtractTimestamp(latest.Name, station.ID)
	if err != nil {
		return nil, classify(err, station.ID, latest.Name)
	}

	records, err := s.repository.ReadRecords(latest.Name, s.schema)
	if err != nil {
		return nil, classify(err, station.ID, latest.Name)
	}

	return &types.Bundle{
		Station:    station,
		SourceFile: latest.Name,
		Timestamp:  timestamp,
		Schema:     s.schema,
		Records:    records,
	}, nil
}

func classify(err error, stationID, file string) error {
	for _, kind := range []error{types.ErrNoDataFile, types.ErrBadTimestamp, types.ErrEmptyFile} {
		if errors.Is(err, kind) {
			return &types.RetrievalError{Kind: kind, StationID: stationID, File: file, Cause: err}
		}
	}
	return &types.RetrievalError{StationID: stationID, File: file, Cause: err}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, types.ErrNoStation):
		return metrics.OutcomeNoStation
	case errors.Is(err, types.ErrUnknownStation):
		return metrics.OutcomeUnknown
	case errors.Is(err, types.ErrNoDataFile):
		return metrics.OutcomeNoDataFile
	case errors.Is(err, types.ErrBadTimestamp):
		return metrics.OutcomeBadTimestamp
	case errors.Is(err, types.ErrEmptyFile):
		return metrics.OutcomeEmptyFile
	default:
		return metrics.OutcomeInternalError
	}
}
