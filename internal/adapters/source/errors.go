package source

import "errors"

// Sentinel errors for source construction.
var (
	ErrMissingSpreadsheetID = errors.New("spreadsheet id is required")
	ErrMissingCSVPath       = errors.New("csv path is required")
	ErrUnknownSource        = errors.New("unknown sync source")
)
