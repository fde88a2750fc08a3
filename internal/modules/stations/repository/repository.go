package repository

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/types"
)

// DataFile is a candidate data file: its base name and modification time.
type DataFile struct {
	Name    string
	ModTime time.Time
}

type StationRepository interface {
	ListStationIDs() ([]string, error)
	FindLatestFile(stationID string) (DataFile, error)
	ExtractTimestamp(fileName string, stationID string) (string, error)
	ReadRecords(fileName string, schema types.MetricSchema) ([]types.Record, error)
}

type repositoryImpl struct {
	fsys   fs.FS
	naming Naming
}

// NewRepository reads station data files from the root of fsys, usually
// os.DirFS of the configured data directory. It keeps no state between calls.
func NewRepository(fsys fs.FS, idWidth int) StationRepository {
	return &repositoryImpl{fsys: fsys, naming: NewNaming(idWidth)}
}

// ListStationIDs returns the unique station IDs found in data file names, sorted.
// A missing directory yields no IDs.
func (r *repositoryImpl) ListStationIDs() ([]string, error) {
	entries, err := r.readDir()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := r.naming.StationID(e.Name())
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// FindLatestFile picks the most recently modified file for stationID. Equal
// modification times resolve to the lexicographically largest name.
// It returns types.ErrNoDataFile when nothing matches.
func (r *repositoryImpl) FindLatestFile(stationID string) (DataFile, error) {
	entries, err := r.readDir()
	if err != nil {
		return DataFile{}, err
	}
	pattern := r.naming.candidate(stationID)

	var latest DataFile
	found := false
	for _, e := range entries {
		if e.IsDir() || !pattern.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// removed between listing and stat
				continue
			}
			return DataFile{}, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		candidate := DataFile{Name: e.Name(), ModTime: info.ModTime()}
		if !found || newer(candidate, latest) {
			latest = candidate
			found = true
		}
	}
	if !found {
		return DataFile{}, fmt.Errorf("station %s: %w", stationID, types.ErrNoDataFile)
	}
	return latest, nil
}

func newer(a, b DataFile) bool {
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.After(b.ModTime)
	}
	return a.Name > b.Name
}

// ExtractTimestamp formats the timestamp embedded in fileName with TimestampLayout.
// A malformed name or an impossible date wraps types.ErrBadTimestamp.
func (r *repositoryImpl) ExtractTimestamp(fileName string, stationID string) (string, error) {
	ts, err := r.naming.ParseTimestamp(fileName, stationID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrBadTimestamp, err)
	}
	return ts.Format(TimestampLayout), nil
}

// ReadRecords parses every non-blank line of fileName as one CSV record mapped
// positionally onto schema. Missing trailing fields become null; extra fields
// are dropped. A file without any non-blank line wraps types.ErrEmptyFile.
func (r *repositoryImpl) ReadRecords(fileName string, schema types.MetricSchema) ([]types.Record, error) {
	f, err := r.fsys.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fileName, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("close data file", "file", fileName, "error", err)
		}
	}()
	return parseRecords(f, fileName, schema)
}

func parseRecords(rd io.Reader, fileName string, schema types.MetricSchema) ([]types.Record, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []types.Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields, err := splitLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", fileName, lineNo, err)
		}
		records = append(records, mapFields(fields, schema))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", fileName, types.ErrEmptyFile)
	}
	return records, nil
}

func splitLine(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.Read()
}

func mapFields(fields []string, schema types.MetricSchema) types.Record {
	rec := types.Record{Fields: make([]types.Field, len(schema))}
	for i, m := range schema {
		v := types.NullValue()
		if i < len(fields) {
			v = types.StringValue(fields[i])
		}
		rec.Fields[i] = types.Field{Key: m.Key, Value: v}
	}
	return rec
}

func (r *repositoryImpl) readDir() ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data directory: %w", err)
	}
	return entries, nil
}
