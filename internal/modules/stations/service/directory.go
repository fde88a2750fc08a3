package service

import (
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/repository"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/types"
)

// Directory combines the configured ID -> name map with the station IDs that
// currently have data files. Names never change at runtime; IDs are re-scanned
// on every call.
type Directory struct {
	repository repository.StationRepository
	names      map[string]string
	ids        map[string]string
}

func NewDirectory(repo repository.StationRepository, names map[string]string) *Directory {
	d := &Directory{
		repository: repo,
		names:      make(map[string]string, len(names)),
		ids:        make(map[string]string, len(names)),
	}
	for id, name := range names {
		d.names[id] = name
		d.ids[name] = id
	}
	return d
}

// KnownStationIDs lists the unique station IDs present in the data directory, sorted.
func (d *Directory) KnownStationIDs() ([]string, error) {
	return d.repository.ListStationIDs()
}

// NameFor returns the configured display name, or id itself when unmapped.
func (d *Directory) NameFor(id string) string {
	if name, ok := d.names[id]; ok {
		return name
	}
	return id
}

// Stations returns the known stations in ID order with their display names.
func (d *Directory) Stations() ([]types.Station, error) {
	ids, err := d.KnownStationIDs()
	if err != nil {
		return nil, err
	}
	out := make([]types.Station, 0, len(ids))
	for _, id := range ids {
		out = append(out, types.Station{ID: id, Name: d.NameFor(id)})
	}
	return out, nil
}

func (d *Directory) configuredName(id string) (string, bool) {
	name, ok := d.names[id]
	return name, ok
}

func (d *Directory) idForName(name string) (string, bool) {
	id, ok := d.ids[name]
	return id, ok
}
