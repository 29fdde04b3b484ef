package ledger

import (
	"encoding/json"
	"math"
	"time"
)

// Undefined marks a value with no meaningful result, such as a ratio whose
// denominator is zero. It is NaN, so IsUndefined must be used to test it.
var Undefined = math.NaN()

// IsUndefined reports whether v carries no usable value.
func IsUndefined(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Metric is a scalar result that may be unavailable.
type Metric struct {
	Value   float64
	Defined bool
}

// Known wraps a value, turning NaN and infinities into an undefined Metric.
func Known(v float64) Metric {
	if IsUndefined(v) {
		return Metric{}
	}
	return Metric{Value: v, Defined: true}
}

// Unavailable is the undefined Metric.
func Unavailable() Metric { return Metric{} }

// Ptr returns nil for an undefined metric.
func (m Metric) Ptr() *float64 {
	if !m.Defined {
		return nil
	}
	v := m.Value
	return &v
}

// String renders "N/A" for undefined metrics.
func (m Metric) String() string {
	if !m.Defined {
		return "N/A"
	}
	b, _ := json.Marshal(m.Value)
	return string(b)
}

// MarshalJSON encodes undefined metrics as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// DatedMetric is a Metric observed on a specific day.
type DatedMetric struct {
	Metric
	Date time.Time
}

// MarshalJSON flattens the metric next to its date.
func (d DatedMetric) MarshalJSON() ([]byte, error) {
	out := struct {
		Value *float64   `json:"value"`
		Date  *time.Time `json:"date,omitempty"`
	}{Value: d.Ptr()}
	if d.Defined {
		out.Date = &d.Date
	}
	return json.Marshal(out)
}

// ptrOf converts a series value to a nullable one.
func ptrOf(v float64) *float64 {
	if IsUndefined(v) {
		return nil
	}
	return &v
}
