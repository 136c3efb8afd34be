// Package source provides ingest.Source implementations: Google Sheets and
// local CSV exports with the same five columns.
package source

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/okian/moviesongs/internal/config"
	"github.com/okian/moviesongs/internal/domain/ingest"
)

// Sheets reads rows from a spreadsheet range with a service account.
type Sheets struct {
	spreadsheetID   string
	readRange       string
	credentialsFile string
	clientOpts      []option.ClientOption
}

// SheetsOption applies a configuration option to Sheets.
type SheetsOption func(*Sheets)

// WithCredentialsFile sets the service-account JSON key file.
func WithCredentialsFile(path string) SheetsOption {
	return func(s *Sheets) {
		s.credentialsFile = path
	}
}

// WithClientOptions appends raw client options, e.g. a custom endpoint.
func WithClientOptions(opts ...option.ClientOption) SheetsOption {
	return func(s *Sheets) {
		s.clientOpts = append(s.clientOpts, opts...)
	}
}

// NewSheets creates a source for readRange (A1 notation, e.g.
// "Rock Anthems!A2:E") of the given spreadsheet.
func NewSheets(spreadsheetID, readRange string, opts ...SheetsOption) (*Sheets, error) {
	if spreadsheetID == "" {
		return nil, ErrMissingSpreadsheetID
	}
	s := &Sheets{spreadsheetID: spreadsheetID, readRange: readRange}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements ingest.Source.
func (s *Sheets) Name() string {
	return "sheets"
}

// Fetch implements ingest.Source with a single values.get call.
func (s *Sheets) Fetch(ctx context.Context) ([]ingest.Row, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	if s.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentialsFile))
	}
	opts = append(opts, s.clientOpts...)

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	resp, err := srv.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", s.readRange, err)
	}
	return rowsFromValues(resp.Values), nil
}

func rowsFromValues(values [][]interface{}) []ingest.Row {
	rows := make([]ingest.Row, 0, len(values))
	for _, v := range values {
		rows = append(rows, ingest.RowFromCells(v))
	}
	return rows
}

// New builds the source selected by cfg.SyncSource.
func New(cfg *config.Config) (ingest.Source, error) {
	switch cfg.SyncSource {
	case config.SourceSheets:
		s, err := NewSheets(cfg.SpreadsheetID, cfg.SheetA1Range(), WithCredentialsFile(cfg.CredentialsFile))
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.SourceCSV:
		c, err := NewCSV(cfg.CSVPath, WithSkipHeader(cfg.CSVSkipHeader))
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.SyncSource)
	}
}
