package ingest

import "errors"

// Sentinel kinds for sync errors.
var (
	ErrEmptySource       = errors.New("no data found in source")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrNoSource          = errors.New("no source configured")
	ErrNoStore           = errors.New("no store configured")
)
