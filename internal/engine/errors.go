package engine

import "errors"

// Sentinel kinds for aggregation run errors.
var (
	ErrSourceFetch = errors.New("posting source fetch failed")
	ErrPersist     = errors.New("stats persist failed")
)
