package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/types"
)

var dashboardTmpl *template.Template

var funcs = template.FuncMap{
	"metricLabel": MetricLabel,
}

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	dashboardTmpl, err = template.New("dashboard").Funcs(funcs).ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded dashboard templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// StationOption is the view model for a station in the dashboard selector.
// Value is what the selector submits back as ?station=.
type StationOption struct {
	Value    string
	Label    string
	Selected bool
}

// MetricCard is one measured value of the displayed record.
type MetricCard struct {
	Key     string
	Value   string
	Unit    string
	Flagged bool
}

type DashboardData struct {
	Stations  []StationOption
	Station   string
	StationID string
	File      string
	Timestamp string
	Cards     []MetricCard
	Error     string
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderMetricsPartial executes only the metric cards partial into w.
func RenderMetricsPartial(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "partials/metrics.html", data)
}

// NewDashboardData binds the first record of b to the page model. Null values
// show as "null" without a unit; null and sentinel values are flagged.
func NewDashboardData(b *types.Bundle, sentinel string) DashboardData {
	data := DashboardData{
		Station:   b.Station.Name,
		StationID: b.Station.ID,
		File:      b.SourceFile,
		Timestamp: b.Timestamp,
	}
	if len(b.Records) == 0 {
		return data
	}

	for _, f := range b.Records[0].Fields {
		card := MetricCard{Key: f.Key, Flagged: !f.Value.HasData(sentinel)}
		if f.Value.IsNull() {
			card.Value = "null"
		} else {
			card.Value = f.Value.String()
			card.Unit = b.Schema.Unit(f.Key)
		}
		data.Cards = append(data.Cards, card)
	}
	return data
}

// MetricLabel turns a metric key into a display label: "soil_temperature"
// becomes "Soil temperature".
func MetricLabel(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
