// Package writer persists downloaded price panels to Parquet files through
// DuckDB, and loads them back.
package writer

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// PanelWriter stages long-format price rows in an in-memory DuckDB table and
// exports them to a Parquet file on Finalize.
type PanelWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
}

// NewPanelWriter creates a PanelWriter. outputPath is the Parquet file the
// finalized panel will be saved to.
func NewPanelWriter(outputPath string) *PanelWriter {
	return &PanelWriter{outputPath: outputPath}
}

// Initialize opens the DuckDB connection, creates the staging table, begins
// a transaction and prepares the insert statement.
func (w *PanelWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to open DuckDB connection", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS prices (
			date TIMESTAMP,
			ticker TEXT,
			close DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create prices table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	w.stmt, err = w.tx.Prepare(`INSERT INTO prices (date, ticker, close) VALUES (?, ?, ?)`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare statement", err)
	}

	return nil
}

// WritePanel stages every defined cell of a price panel as one long-format row.
func (w *PanelWriter) WritePanel(panel frame.Frame) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeQueryFailed, "writer not initialized")
	}

	columns := panel.Columns()

	for i := 0; i < panel.Rows(); i++ {
		for j, ticker := range columns {
			v := panel.At(i, j)
			if math.IsNaN(v) {
				continue
			}

			if _, err := w.stmt.Exec(panel.Date(i), ticker, v); err != nil {
				return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert price row", err)
			}
		}
	}

	return nil
}

// Finalize commits the staged rows and exports them to the Parquet file.
func (w *PanelWriter) Finalize() (string, error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeQueryFailed, "writer not initialized")
	}

	if err := w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	_, err := w.db.Exec(fmt.Sprintf(`COPY prices TO '%s' (FORMAT PARQUET)`, w.outputPath))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to export to Parquet", err)
	}

	return w.outputPath, nil
}

// Close releases the statement and database connection.
func (w *PanelWriter) Close() error {
	var firstErr error

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil && firstErr == nil {
			firstErr = err
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}

		w.db = nil
	}

	return firstErr
}

// SavePanel writes a panel to a Parquet file in one call.
func SavePanel(panel frame.Frame, outputPath string) error {
	w := NewPanelWriter(outputPath)
	if err := w.Initialize(); err != nil {
		return err
	}
	defer w.Close()

	if err := w.WritePanel(panel); err != nil {
		return err
	}

	if _, err := w.Finalize(); err != nil {
		return err
	}

	return nil
}

// LoadPanel reads a Parquet file written by SavePanel back into a price
// panel, aligning tickers on the union of their dates.
func LoadPanel(path string) (frame.Frame, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return frame.Frame{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open DuckDB connection", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf(
		`SELECT date, ticker, close FROM read_parquet('%s') ORDER BY ticker, date`, path))
	if err != nil {
		return frame.Frame{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read panel from %s", path)
	}
	defer rows.Close()

	type column struct {
		index  []time.Time
		values []float64
	}

	order := make([]string, 0, 16)
	byTicker := make(map[string]*column)

	for rows.Next() {
		var (
			date   time.Time
			ticker string
			close  float64
		)

		if err := rows.Scan(&date, &ticker, &close); err != nil {
			return frame.Frame{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan price row", err)
		}

		col, ok := byTicker[ticker]
		if !ok {
			col = &column{}
			byTicker[ticker] = col
			order = append(order, ticker)
		}

		col.index = append(col.index, date.UTC())
		col.values = append(col.values, close)
	}

	if err := rows.Err(); err != nil {
		return frame.Frame{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate price rows", err)
	}

	if len(order) == 0 {
		return frame.Frame{}, errors.Newf(errors.ErrCodeNoDataFound, "no rows found in %s", path)
	}

	series := make([]frame.Series, 0, len(order))

	for _, ticker := range order {
		col := byTicker[ticker]

		s, err := frame.NewSeries(ticker, col.index, col.values)
		if err != nil {
			return frame.Frame{}, err
		}

		series = append(series, s)
	}

	return frame.FromSeries(series)
}
