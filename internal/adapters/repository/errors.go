package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrCatalogDecode   = errors.New("decode catalog")
)
