package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a metric Value holds.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindText
)

// Value is a single metric value: a float, an integer count or a descriptive string
// such as a unit.
type Value struct {
	kind Kind
	num  float64
	i    int64
	text string
}

// Float wraps a floating point metric.
func Float(v float64) Value { return Value{kind: KindFloat, num: v} }

// Int wraps an integer count.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Text wraps a descriptive value such as a unit.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Kind reports what the value holds.
func (v Value) Kind() Kind { return v.kind }

// Number returns the numeric value and false for text values.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.num, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) String() string {
	return v.Format(3)
}

// Format renders floats with the given number of decimals, integers and text as-is.
func (v Value) Format(precision int) string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.num, 'f', precision, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	}
	return v.text
}

// Equal compares kind and value; NaN equals NaN.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFloat:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindInt:
		return v.i == o.i
	}
	return v.text == o.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindText:
		return json.Marshal(v.text)
	}
	if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return nil, fmt.Errorf("unsupported metric value: %v", v.num)
	}
	format := byte('f')
	if abs := math.Abs(v.num); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(v.num, format, -1, 64)
	// keep floats distinguishable from integers after a round trip
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return []byte(s), nil
}

// Entry is one named slot of a MetricSet: either a Value or a nested group.
type Entry struct {
	Name  string
	Value Value
	Group *MetricSet
}

// MetricSet is an ordered, read-only mapping from metric name to value, with optional
// nested groups (one per sub-case). Build one with a MetricSetBuilder.
type MetricSet struct {
	entries []Entry
	index   map[string]int
}

// Len returns the number of top-level entries.
func (m MetricSet) Len() int { return len(m.entries) }

// IsEmpty reports whether the set has no entries.
func (m MetricSet) IsEmpty() bool { return len(m.entries) == 0 }

// Entries returns a copy of the entries in insertion order.
func (m MetricSet) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Get returns a top-level value. Groups are not values.
func (m MetricSet) Get(name string) (Value, bool) {
	i, ok := m.index[name]
	if !ok || m.entries[i].Group != nil {
		return Value{}, false
	}
	return m.entries[i].Value, true
}

// Group returns a nested group by name.
func (m MetricSet) Group(name string) (MetricSet, bool) {
	i, ok := m.index[name]
	if !ok || m.entries[i].Group == nil {
		return MetricSet{}, false
	}
	return *m.entries[i].Group, true
}

// Lookup resolves a flattened name produced by Flatten. Group names may themselves
// contain sep.
func (m MetricSet) Lookup(name, sep string) (Value, bool) {
	for _, f := range m.Flatten(sep) {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// FlatMetric is a metric whose name has its group path joined by a separator.
type FlatMetric struct {
	Name  string
	Value Value
}

// Flatten lists every value with nested group names joined by sep.
func (m MetricSet) Flatten(sep string) []FlatMetric {
	var out []FlatMetric
	for _, e := range m.entries {
		if e.Group == nil {
			out = append(out, FlatMetric{Name: e.Name, Value: e.Value})
			continue
		}
		for _, f := range e.Group.Flatten(sep) {
			out = append(out, FlatMetric{Name: e.Name + sep + f.Name, Value: f.Value})
		}
	}
	return out
}

// Equal reports whether both sets hold the same entries in the same order.
func (m MetricSet) Equal(o MetricSet) bool {
	if len(m.entries) != len(o.entries) {
		return false
	}
	for i, e := range m.entries {
		f := o.entries[i]
		if e.Name != f.Name || (e.Group == nil) != (f.Group == nil) {
			return false
		}
		if e.Group != nil {
			if !e.Group.Equal(*f.Group) {
				return false
			}
			continue
		}
		if !e.Value.Equal(f.Value) {
			return false
		}
	}
	return true
}

func (m MetricSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		var raw []byte
		if e.Group != nil {
			raw, err = e.Group.MarshalJSON()
		} else {
			raw, err = e.Value.MarshalJSON()
		}
		if err != nil {
			return nil, fmt.Errorf("marshal metric %q: %w", e.Name, err)
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *MetricSet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = MetricSet{}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("metrics: expected object, got %v", tok)
	}
	set, err := decodeMetricSet(dec)
	if err != nil {
		return err
	}
	*m = set
	return nil
}

// decodeMetricSet reads object members up to and including the closing brace.
func decodeMetricSet(dec *json.Decoder) (MetricSet, error) {
	b := NewMetricSetBuilder()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return MetricSet{}, err
		}
		name, ok := tok.(string)
		if !ok {
			return MetricSet{}, fmt.Errorf("metrics: expected name, got %v", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return MetricSet{}, err
		}
		switch t := tok.(type) {
		case json.Delim:
			if t != '{' {
				return MetricSet{}, fmt.Errorf("metrics: %q: unsupported %v", name, t)
			}
			group, err := decodeMetricSet(dec)
			if err != nil {
				return MetricSet{}, err
			}
			b.AddGroup(name, group)
		case json.Number:
			v, err := parseNumber(t)
			if err != nil {
				return MetricSet{}, fmt.Errorf("metrics: %q: %w", name, err)
			}
			b.Add(name, v)
		case string:
			b.Add(name, Text(t))
		default:
			return MetricSet{}, fmt.Errorf("metrics: %q: unsupported value %v", name, tok)
		}
	}
	if _, err := dec.Token(); err != nil {
		return MetricSet{}, err
	}
	return b.Build(), nil
}

func parseNumber(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, err
	}
	return Float(f), nil
}

// MetricSetBuilder accumulates entries; re-adding a name replaces it in place.
type MetricSetBuilder struct {
	entries []Entry
	index   map[string]int
}

// NewMetricSetBuilder returns an empty builder.
func NewMetricSetBuilder() *MetricSetBuilder {
	return &MetricSetBuilder{index: make(map[string]int)}
}

func (b *MetricSetBuilder) put(e Entry) *MetricSetBuilder {
	if i, ok := b.index[e.Name]; ok {
		b.entries[i] = e
		return b
	}
	b.index[e.Name] = len(b.entries)
	b.entries = append(b.entries, e)
	return b
}

// Add sets name to v. An existing name keeps its position.
func (b *MetricSetBuilder) Add(name string, v Value) *MetricSetBuilder {
	return b.put(Entry{Name: name, Value: v})
}

func (b *MetricSetBuilder) AddFloat(name string, v float64) *MetricSetBuilder {
	return b.Add(name, Float(v))
}

func (b *MetricSetBuilder) AddInt(name string, v int64) *MetricSetBuilder {
	return b.Add(name, Int(v))
}

func (b *MetricSetBuilder) AddText(name, v string) *MetricSetBuilder {
	return b.Add(name, Text(v))
}

// AddGroup nests g under name.
func (b *MetricSetBuilder) AddGroup(name string, g MetricSet) *MetricSetBuilder {
	return b.put(Entry{Name: name, Group: &g})
}

// Build returns the accumulated set and resets the builder.
func (b *MetricSetBuilder) Build() MetricSet {
	set := MetricSet{entries: b.entries, index: b.index}
	b.entries = nil
	b.index = make(map[string]int)
	return set
}
