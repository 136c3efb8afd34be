package model

import "errors"

// Sentinel kinds for catalog lookups.
var (
	ErrSongNotFound = errors.New("song not found")
)
