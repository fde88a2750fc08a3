package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/types"
)

//go:embed stations.yaml
var defaultCatalogYAML []byte

const (
	defaultIDWidth  = 5
	defaultSentinel = "/"
)

// Catalog is the static station configuration: where data files live, which
// station IDs have display names, and the ordered metric columns.
type Catalog struct {
	Directory string
	IDWidth   int
	Sentinel  string
	Stations  map[string]string
	Metrics   types.MetricSchema
}

type catalogFile struct {
	Directory string            `yaml:"directory"`
	IDWidth   int               `yaml:"id_width"`
	Sentinel  *string           `yaml:"sentinel"`
	Stations  map[string]string `yaml:"stations"`
	Metrics   yaml.Node         `yaml:"metrics"`
}

// LoadCatalog reads the catalog at path, or the embedded default when path is empty.
// A non-empty dataDir replaces the catalog's directory.
func LoadCatalog(path, dataDir string) (Catalog, error) {
	data := defaultCatalogYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Catalog{}, fmt.Errorf("read stations config: %w", err)
		}
		data = b
	}

	cat, err := ParseCatalog(data)
	if err != nil {
		if path == "" {
			path = "embedded default"
		}
		return Catalog{}, fmt.Errorf("stations config %s: %w", path, err)
	}
	if dataDir != "" {
		cat.Directory = dataDir
	}
	return cat, nil
}

func ParseCatalog(data []byte) (Catalog, error) {
	var raw catalogFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Catalog{}, err
	}

	metrics, err := parseMetrics(&raw.Metrics)
	if err != nil {
		return Catalog{}, err
	}

	cat := Catalog{
		Directory: strings.TrimSpace(raw.Directory),
		IDWidth:   raw.IDWidth,
		Sentinel:  defaultSentinel,
		Stations:  raw.Stations,
		Metrics:   metrics,
	}
	if cat.IDWidth == 0 {
		cat.IDWidth = defaultIDWidth
	}
	if raw.Sentinel != nil {
		cat.Sentinel = *raw.Sentinel
	}
	if cat.Stations == nil {
		cat.Stations = map[string]string{}
	}

	if err := cat.validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

// parseMetrics walks the mapping node directly so the key order of the file
// becomes the column order.
func parseMetrics(node *yaml.Node) (types.MetricSchema, error) {
	if node.Kind == 0 {
		return nil, errors.New("metrics: at least one metric is required")
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("metrics: expected a mapping of key to unit (line %d)", node.Line)
	}

	schema := make(types.MetricSchema, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("metrics: line %d: key and unit must be scalars", k.Line)
		}
		key := strings.TrimSpace(k.Value)
		if key == "" {
			return nil, fmt.Errorf("metrics: line %d: empty metric key", k.Line)
		}
		if seen[key] {
			return nil, fmt.Errorf("metrics: duplicate metric %q", key)
		}
		seen[key] = true
		schema = append(schema, types.Metric{Key: key, Unit: v.Value})
	}
	return schema, nil
}

func (c Catalog) validate() error {
	if c.Directory == "" {
		return errors.New("directory is required")
	}
	if c.IDWidth <= 0 {
		return fmt.Errorf("invalid id_width %d (must be > 0)", c.IDWidth)
	}
	if len(c.Metrics) == 0 {
		return errors.New("metrics: at least one metric is required")
	}

	names := make(map[string]string, len(c.Stations))
	for id, name := range c.Stations {
		if !IsStationID(id, c.IDWidth) {
			return fmt.Errorf("stations: id %q is not a %d-digit number", id, c.IDWidth)
		}
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("stations: id %s has an empty name", id)
		}
		// Numeric tokens resolve as IDs, so such a name could never be looked up.
		if IsNumeric(name) {
			return fmt.Errorf("stations: id %s has a numeric name %q", id, name)
		}
		if other, ok := names[name]; ok {
			return fmt.Errorf("stations: name %q is used by both %s and %s", name, other, id)
		}
		names[name] = id
	}
	return nil
}

// IsStationID reports whether s is exactly width ASCII digits.
func IsStationID(s string, width int) bool {
	if len(s) != width {
		return false
	}
	return IsNumeric(s)
}

func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
