package benchmark

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMetrics() MetricSet {
	echo := NewMetricSetBuilder().
		AddFloat("mean", 1.25).
		AddFloat("p99", 3).
		AddText("unit", "ms").
		Build()
	return NewMetricSetBuilder().
		AddGroup("echo", echo).
		AddInt("chars", 42).
		AddFloat("throughput_mbps_mean", 118.5).
		Build()
}

func TestMetricSetJSONRoundTrip(t *testing.T) {
	in := sampleMetrics()
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"echo":{"mean":1.25,"p99":3.0,"unit":"ms"},"chars":42,"throughput_mbps_mean":118.5}`, string(data))

	var out MetricSet
	require.NoError(t, json.Unmarshal(data, &out))
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMetricSetKeepsOrder(t *testing.T) {
	data, err := json.Marshal(sampleMetrics())
	require.NoError(t, err)
	assert.Equal(t, `{"echo":{"mean":1.25,"p99":3.0,"unit":"ms"},"chars":42,"throughput_mbps_mean":118.5}`, string(data))
}

func TestWholeFloatStaysFloat(t *testing.T) {
	var m MetricSet
	require.NoError(t, json.Unmarshal([]byte(`{"a":3.0,"b":3,"c":1e-9}`), &m))

	a, _ := m.Get("a")
	b, _ := m.Get("b")
	c, _ := m.Get("c")
	assert.Equal(t, KindFloat, a.Kind())
	assert.Equal(t, KindInt, b.Kind())
	assert.Equal(t, KindFloat, c.Kind())
}

func TestMarshalRejectsNaN(t *testing.T) {
	m := NewMetricSetBuilder().AddFloat("x", math.NaN()).Build()
	_, err := json.Marshal(m)
	assert.Error(t, err)
}

func TestFlattenAndLookup(t *testing.T) {
	m := sampleMetrics()
	flat := m.Flatten("/")

	var names []string
	for _, f := range flat {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"echo/mean", "echo/p99", "echo/unit", "chars", "throughput_mbps_mean"}, names)

	v, ok := m.Lookup("echo/p99", "/")
	require.True(t, ok)
	assert.Equal(t, "3.00", v.Format(2))

	_, ok = m.Lookup("echo/missing", "/")
	assert.False(t, ok)
	_, ok = m.Lookup("echo", "/")
	assert.False(t, ok, "a group is not a value")
}

func TestLookupGroupNameWithSeparator(t *testing.T) {
	proc := NewMetricSetBuilder().AddFloat("memory_mb", 120.5).Build()
	m := NewMetricSetBuilder().
		AddGroup("processes", NewMetricSetBuilder().AddGroup("Applications/kitty", proc).Build()).
		Build()

	v, ok := m.Lookup("processes/Applications/kitty/memory_mb", "/")
	require.True(t, ok)
	assert.Equal(t, "120.50", v.Format(2))

	_, ok = m.Lookup("processes/Applications/memory_mb", "/")
	assert.False(t, ok)
}

func TestBuilderReplacesInPlace(t *testing.T) {
	b := NewMetricSetBuilder().AddInt("a", 1).AddInt("b", 2)
	m := b.AddInt("a", 3).Build()

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, "3", entries[0].Value.String())

	assert.True(t, b.Build().IsEmpty(), "Build resets the builder")
}

func TestValueFormat(t *testing.T) {
	assert.Equal(t, "1.500", Float(1.5).String())
	assert.Equal(t, "1.5", Float(1.5).Format(-1))
	assert.Equal(t, "7", Int(7).Format(2))
	assert.Equal(t, "ms", Text("ms").Format(2))

	n, ok := Int(7).Number()
	assert.True(t, ok)
	assert.Equal(t, 7.0, n)
	_, ok = Text("ms").Number()
	assert.False(t, ok)
}

func TestUnmarshalNull(t *testing.T) {
	var m MetricSet
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.True(t, m.IsEmpty())
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &m))
}
