package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/okian/moviesongs/internal/domain/ingest"
)

// CSV reads rows from a local export of the sheet.
type CSV struct {
	path       string
	skipHeader bool
}

// CSVOption applies a configuration option to CSV.
type CSVOption func(*CSV)

// WithSkipHeader drops the first record.
func WithSkipHeader(skip bool) CSVOption {
	return func(c *CSV) {
		c.skipHeader = skip
	}
}

// NewCSV creates a source for the file at path.
func NewCSV(path string, opts ...CSVOption) (*CSV, error) {
	if path == "" {
		return nil, ErrMissingCSVPath
	}
	c := &CSV{path: path}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements ingest.Source.
func (c *CSV) Name() string {
	return "csv"
}

// Fetch implements ingest.Source.
func (c *CSV) Fetch(ctx context.Context) ([]ingest.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, c.skipHeader)
}

// ReadCSV parses ragged records from r.
func ReadCSV(r io.Reader, skipHeader bool) ([]ingest.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows []ingest.Row
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if first && skipHeader {
			first = false
			continue
		}
		first = false
		rows = append(rows, ingest.RowFromStrings(rec))
	}
	return rows, nil
}
