package service

import (
	"fmt"
	"slices"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/config"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/types"
)

type Resolver struct {
	directory *Directory
	idWidth   int
}

func NewResolver(directory *Directory, idWidth int) *Resolver {
	return &Resolver{directory: directory, idWidth: idWidth}
}

// Resolve maps a user token onto a station.
//
// A numeric token is an ID. It resolves when it is configured, or when it has
// the configured width and data files exist for it; an unmapped ID takes
// itself as name. Any other token must equal a configured name exactly.
func (r *Resolver) Resolve(token string) (types.Station, error) {
	if token == "" {
		return types.Station{}, &types.RetrievalError{Kind: types.ErrNoStation}
	}

	if config.IsNumeric(token) {
		if name, ok := r.directory.configuredName(token); ok {
			return types.Station{ID: token, Name: name}, nil
		}
		if config.IsStationID(token, r.idWidth) {
			ids, err := r.directory.KnownStationIDs()
			if err != nil {
				return types.Station{}, &types.RetrievalError{Token: token, Cause: fmt.Errorf("list stations: %w", err)}
			}
			if slices.Contains(ids, token) {
				return types.Station{ID: token, Name: token}, nil
			}
		}
		return types.Station{}, &types.RetrievalError{Kind: types.ErrUnknownStation, Token: token}
	}

	if id, ok := r.directory.idForName(token); ok {
		return types.Station{ID: id, Name: token}, nil
	}
	return types.Station{}, &types.RetrievalError{Kind: types.ErrUnknownStation, Token: token}
}
