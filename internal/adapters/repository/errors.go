package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("stats record not found")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrEmptyDSN          = errors.New("empty database DSN")
)
