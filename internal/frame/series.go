package frame

import (
	"math"
	"slices"
	"time"
)

// Series is a single named column of float64 values keyed by date. Like
// Frame, a Series is an immutable value.
type Series struct {
	name   string
	index  []time.Time
	values []float64
}

// NewSeries creates a Series from a name, date index and values. The index
// must be strictly increasing; values must match the index length.
func NewSeries(name string, index []time.Time, values []float64) (Series, error) {
	f, err := New(index, []string{name}, columnBuffer(values))
	if err != nil {
		return Series{}, err
	}

	return Series{name: name, index: f.index, values: slices.Clone(values)}, nil
}

// Name returns the series name.
func (s Series) Name() string { return s.name }

// Len returns the number of observations.
func (s Series) Len() int { return len(s.index) }

// IsEmpty reports whether the series has zero observations.
func (s Series) IsEmpty() bool { return len(s.index) == 0 }

// Index returns a copy of the date index.
func (s Series) Index() []time.Time { return slices.Clone(s.index) }

// Values returns a copy of the observation values.
func (s Series) Values() []float64 { return slices.Clone(s.values) }

// At returns the value at the given position.
func (s Series) At(i int) float64 { return s.values[i] }

// Date returns the index entry at the given position.
func (s Series) Date(i int) time.Time { return s.index[i] }

// First returns the first observation value.
func (s Series) First() float64 { return s.values[0] }

// Last returns the last observation value.
func (s Series) Last() float64 { return s.values[len(s.values)-1] }

// Rename returns a copy of the series under a new name.
func (s Series) Rename(name string) Series {
	return Series{name: name, index: s.index, values: s.values}
}

// DropNaN removes every NaN observation.
func (s Series) DropNaN() Series {
	index := make([]time.Time, 0, len(s.index))
	values := make([]float64, 0, len(s.values))

	for i, v := range s.values {
		if math.IsNaN(v) {
			continue
		}

		index = append(index, s.index[i])
		values = append(values, v)
	}

	return Series{name: s.name, index: index, values: values}
}

// Min returns the smallest defined value, or NaN when every value is NaN.
func (s Series) Min() float64 {
	min := math.NaN()

	for _, v := range s.values {
		if math.IsNaN(v) {
			continue
		}

		if math.IsNaN(min) || v < min {
			min = v
		}
	}

	return min
}

func columnBuffer(values []float64) [][]float64 {
	data := make([][]float64, len(values))
	for i, v := range values {
		data[i] = []float64{v}
	}

	return data
}
