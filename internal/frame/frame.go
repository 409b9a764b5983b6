// Package frame implements a labeled numeric matrix: an ordered date index,
// an ordered set of column labels, and a dense float64 buffer. Missing values
// are represented as NaN and removed only by explicit operations.
package frame

import (
	"math"
	"slices"
	"time"

	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// Frame is a rectangular table of float64 values keyed by date, one column
// per instrument. Frames are immutable values; every operation returns a new
// Frame and leaves its receiver untouched.
type Frame struct {
	index   []time.Time
	columns []string
	data    [][]float64 // data[row][col]
}

// New creates a Frame from a date index, column labels and a row-major buffer.
// The index must be strictly increasing with unique dates, column labels must
// be unique, and the buffer must be rectangular with matching dimensions.
func New(index []time.Time, columns []string, data [][]float64) (Frame, error) {
	if len(data) != len(index) {
		return Frame{}, errors.Newf(errors.ErrCodeShapeMismatch,
			"row count %d does not match index length %d", len(data), len(index))
	}

	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return Frame{}, errors.Newf(errors.ErrCodeShapeMismatch,
				"date index must be strictly increasing, violated at position %d", i)
		}
	}

	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, ok := seen[c]; ok {
			return Frame{}, errors.Newf(errors.ErrCodeShapeMismatch, "duplicate column label %q", c)
		}

		seen[c] = struct{}{}
	}

	for i, row := range data {
		if len(row) != len(columns) {
			return Frame{}, errors.Newf(errors.ErrCodeShapeMismatch,
				"row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}

	return Frame{
		index:   slices.Clone(index),
		columns: slices.Clone(columns),
		data:    cloneBuffer(data),
	}, nil
}

// FromSeries aligns several series on the union of their date indexes and
// joins them into one Frame. Cells with no observation for a date are NaN.
// Series names become column labels and must be unique.
func FromSeries(series []Series) (Frame, error) {
	dateSet := make(map[time.Time]struct{})
	columns := make([]string, 0, len(series))

	for _, s := range series {
		columns = append(columns, s.name)

		for _, t := range s.index {
			dateSet[t] = struct{}{}
		}
	}

	index := make([]time.Time, 0, len(dateSet))
	for t := range dateSet {
		index = append(index, t)
	}

	slices.SortFunc(index, time.Time.Compare)

	data := make([][]float64, len(index))
	for i := range data {
		data[i] = make([]float64, len(series))
		for j := range data[i] {
			data[i][j] = math.NaN()
		}
	}

	position := make(map[time.Time]int, len(index))
	for i, t := range index {
		position[t] = i
	}

	for j, s := range series {
		for i, t := range s.index {
			data[position[t]][j] = s.values[i]
		}
	}

	return New(index, columns, data)
}

// Rows returns the number of rows.
func (f Frame) Rows() int { return len(f.index) }

// Cols returns the number of columns.
func (f Frame) Cols() int { return len(f.columns) }

// IsEmpty reports whether the frame has zero rows.
func (f Frame) IsEmpty() bool { return len(f.index) == 0 }

// Index returns a copy of the date index.
func (f Frame) Index() []time.Time { return slices.Clone(f.index) }

// Columns returns a copy of the column labels.
func (f Frame) Columns() []string { return slices.Clone(f.columns) }

// At returns the cell at the given row and column positions.
func (f Frame) At(row, col int) float64 { return f.data[row][col] }

// Date returns the index entry at the given row position.
func (f Frame) Date(row int) time.Time { return f.index[row] }

// Column extracts a single column as a Series named after its label.
func (f Frame) Column(label string) (Series, error) {
	col := slices.Index(f.columns, label)
	if col < 0 {
		return Series{}, errors.Newf(errors.ErrCodeNoDataFound, "column %q not found", label)
	}

	values := make([]float64, len(f.index))
	for i := range f.index {
		values[i] = f.data[i][col]
	}

	return Series{name: label, index: slices.Clone(f.index), values: values}, nil
}

// Slice returns the rows whose dates fall in [start, end], inclusive.
func (f Frame) Slice(start, end time.Time) Frame {
	lo, _ := slices.BinarySearchFunc(f.index, start, time.Time.Compare)

	hi := lo
	for hi < len(f.index) && !f.index[hi].After(end) {
		hi++
	}

	return Frame{
		index:   slices.Clone(f.index[lo:hi]),
		columns: slices.Clone(f.columns),
		data:    cloneBuffer(f.data[lo:hi]),
	}
}

// DropNaNRows removes every row that contains at least one NaN cell.
func (f Frame) DropNaNRows() Frame {
	index := make([]time.Time, 0, len(f.index))
	data := make([][]float64, 0, len(f.data))

	for i, row := range f.data {
		if rowHasNaN(row) {
			continue
		}

		index = append(index, f.index[i])
		data = append(data, slices.Clone(row))
	}

	return Frame{index: index, columns: slices.Clone(f.columns), data: data}
}

// DropEmptyColumns removes columns whose cells are entirely NaN.
func (f Frame) DropEmptyColumns() Frame {
	keep := make([]int, 0, len(f.columns))

	for j := range f.columns {
		for i := range f.index {
			if !math.IsNaN(f.data[i][j]) {
				keep = append(keep, j)
				break
			}
		}
	}

	columns := make([]string, len(keep))
	for k, j := range keep {
		columns[k] = f.columns[j]
	}

	data := make([][]float64, len(f.index))
	for i := range f.index {
		data[i] = make([]float64, len(keep))
		for k, j := range keep {
			data[i][k] = f.data[i][j]
		}
	}

	return Frame{index: slices.Clone(f.index), columns: columns, data: data}
}

// Select returns a Frame restricted to the given column labels, in the given
// order. Unknown labels fail with a no-data error, duplicate labels with a
// shape error.
func (f Frame) Select(labels []string) (Frame, error) {
	cols := make([]int, len(labels))
	seen := make(map[string]struct{}, len(labels))

	for k, label := range labels {
		if _, dup := seen[label]; dup {
			return Frame{}, errors.Newf(errors.ErrCodeShapeMismatch, "duplicate column label %q", label)
		}

		seen[label] = struct{}{}

		j := slices.Index(f.columns, label)
		if j < 0 {
			return Frame{}, errors.Newf(errors.ErrCodeNoDataFound, "column %q not found", label)
		}

		cols[k] = j
	}

	data := make([][]float64, len(f.index))
	for i := range f.index {
		data[i] = make([]float64, len(cols))
		for k, j := range cols {
			data[i][k] = f.data[i][j]
		}
	}

	return Frame{index: slices.Clone(f.index), columns: slices.Clone(labels), data: data}, nil
}

// ResampleWeeklyLast downsamples to weekly frequency, keeping the last
// observation of each ISO week.
func (f Frame) ResampleWeeklyLast() Frame {
	index := make([]time.Time, 0, len(f.index)/5+1)
	data := make([][]float64, 0, len(f.data)/5+1)

	for i := range f.index {
		if i+1 < len(f.index) && sameISOWeek(f.index[i], f.index[i+1]) {
			continue
		}

		index = append(index, f.index[i])
		data = append(data, slices.Clone(f.data[i]))
	}

	return Frame{index: index, columns: slices.Clone(f.columns), data: data}
}

// RowMean computes the mean across columns for every row, skipping NaN cells.
// A row with no defined cells yields NaN.
func (f Frame) RowMean(name string) Series {
	values := make([]float64, len(f.index))

	for i, row := range f.data {
		sum, n := 0.0, 0

		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}

			sum += v
			n++
		}

		if n == 0 {
			values[i] = math.NaN()
		} else {
			values[i] = sum / float64(n)
		}
	}

	return Series{name: name, index: slices.Clone(f.index), values: values}
}

func cloneBuffer(data [][]float64) [][]float64 {
	out := make([][]float64, len(data))
	for i, row := range data {
		out[i] = slices.Clone(row)
	}

	return out
}

func rowHasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return true
		}
	}

	return false
}

func sameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()

	return ay == by && aw == bw
}
