package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/pkg/metrics"
)

// RecordTable stores the raw player table as CSV.
type RecordTable struct {
	path string
}

// NewRecordTable returns a RecordTable backed by path.
func NewRecordTable(path string) *RecordTable {
	return &RecordTable{path: path}
}

// Path returns the backing file.
func (t *RecordTable) Path() string { return t.path }

// Load reads and validates the table.
func (t *RecordTable) Load(ctx context.Context) (model.Table, error) {
	rows, err := readCSV(ctx, t.path, model.Columns)
	if err != nil {
		return nil, err
	}
	table := make(model.Table, 0, len(rows))
	for i, values := range rows {
		r, err := model.ParseRecord(values)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrInvalidRow, t.path, i+2, err)
		}
		table = append(table, r)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", t.path, err)
	}
	return table, nil
}

// Save writes the table atomically.
func (t *RecordTable) Save(ctx context.Context, table model.Table) error {
	if err := table.Validate(); err != nil {
		return fmt.Errorf("save %s: %w", t.path, err)
	}
	rows := make([][]string, len(table))
	for i, r := range table {
		rows[i] = r.Values()
	}
	if err := writeCSV(ctx, t.path, model.Columns, rows); err != nil {
		return err
	}
	metrics.RecordRowsWritten(filepath.Base(t.path), len(rows))
	return nil
}

// DerivedTable stores pipeline output as CSV, with or without time-series columns.
type DerivedTable struct {
	path       string
	timeSeries bool
}

// NewDerivedTable returns a DerivedTable backed by path.
func NewDerivedTable(path string, timeSeries bool) *DerivedTable {
	return &DerivedTable{path: path, timeSeries: timeSeries}
}

// Path returns the backing file.
func (t *DerivedTable) Path() string { return t.path }

// TimeSeries reports whether rows carry the time-series columns.
func (t *DerivedTable) TimeSeries() bool { return t.timeSeries }

// Load reads and decodes the table.
func (t *DerivedTable) Load(ctx context.Context) ([]model.DerivedRow, error) {
	rows, err := readCSV(ctx, t.path, model.DerivedColumns(t.timeSeries))
	if err != nil {
		return nil, err
	}
	out := make([]model.DerivedRow, 0, len(rows))
	for i, values := range rows {
		d, err := model.ParseDerivedRow(values, t.timeSeries)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrInvalidRow, t.path, i+2, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Save writes rows atomically.
func (t *DerivedTable) Save(ctx context.Context, rows []model.DerivedRow) error {
	values := make([][]string, len(rows))
	for i, d := range rows {
		if d.TimeSeries != t.timeSeries {
			return fmt.Errorf("%w: row %d time-series=%t, table time-series=%t", ErrInvalidRow, i, d.TimeSeries, t.timeSeries)
		}
		values[i] = d.Values()
	}
	if err := writeCSV(ctx, t.path, model.DerivedColumns(t.timeSeries), values); err != nil {
		return err
	}
	metrics.RecordRowsWritten(filepath.Base(t.path), len(values))
	return nil
}

// readCSV loads the rows below a header that must equal want.
func readCSV(ctx context.Context, path string, want []string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", ErrSchemaMismatch, path)
		}
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	if !slices.Equal(header, want) {
		return nil, fmt.Errorf("%w: %s has %d columns, want %d", ErrSchemaMismatch, path, len(header), len(want))
	}

	r.FieldsPerRecord = len(want)
	var rows [][]string
	for {
		values, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRow, path, err)
		}
		rows = append(rows, values)
	}
}

// writeCSV replaces path with header and rows via a temp file and rename.
func writeCSV(ctx context.Context, path string, header []string, rows [][]string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
