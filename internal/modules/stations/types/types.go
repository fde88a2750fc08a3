package types

import (
	"bytes"
	"encoding/json"
)

type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Metric is one column of a data file: its key and display unit.
type Metric struct {
	Key  string
	Unit string
}

// MetricSchema is ordered; the i-th metric receives the i-th CSV field.
// It marshals as a JSON object whose keys keep the schema order.
type MetricSchema []Metric

func (s MetricSchema) Keys() []string {
	keys := make([]string, len(s))
	for i, m := range s {
		keys[i] = m.Key
	}
	return keys
}

func (s MetricSchema) Unit(key string) string {
	for _, m := range s {
		if m.Key == key {
			return m.Unit
		}
	}
	return ""
}

func (s MetricSchema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKeyValue(&buf, m.Key, m.Unit); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Value is a raw field value. The zero Value is null (column absent on that line).
type Value struct {
	raw     string
	present bool
}

func StringValue(s string) Value { return Value{raw: s, present: true} }

func NullValue() Value { return Value{} }

func (v Value) IsNull() bool { return !v.present }

func (v Value) String() string { return v.raw }

// IsSentinel reports whether v holds the station's "no reading" placeholder.
func (v Value) IsSentinel(sentinel string) bool {
	return v.present && sentinel != "" && v.raw == sentinel
}

// HasData is false for both null and sentinel values.
func (v Value) HasData(sentinel string) bool {
	return v.present && !v.IsSentinel(sentinel)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("null"), nil
	}
	return json.Marshal(v.raw)
}

type Field struct {
	Key   string
	Value Value
}

// Record is one parsed line, keyed by metric in schema order.
type Record struct {
	Fields []Field
}

func (r Record) Get(key string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKeyValue(&buf, f.Key, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Bundle is the result of one retrieval. It is built per request and never shared.
type Bundle struct {
	Station    Station
	SourceFile string
	Timestamp  string
	Schema     MetricSchema
	Records    []Record
}

type bundleJSON struct {
	Station   string       `json:"station"`
	StationID string       `json:"station_id"`
	File      string       `json:"file"`
	Timestamp string       `json:"timestamp"`
	Units     MetricSchema `json:"units"`
	Data      []Record     `json:"data"`
}

func (b Bundle) MarshalJSON() ([]byte, error) {
	data := b.Records
	if data == nil {
		data = []Record{}
	}
	return json.Marshal(bundleJSON{
		Station:   b.Station.Name,
		StationID: b.Station.ID,
		File:      b.SourceFile,
		Timestamp: b.Timestamp,
		Units:     b.Schema,
		Data:      data,
	})
}

func writeKeyValue(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
