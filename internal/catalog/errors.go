package catalog

import "errors"

var (
	// ErrCategoryNotFound is returned when no category has the requested id
	ErrCategoryNotFound = errors.New("category not found")

	// ErrSourceUnavailable wraps transport failures of remote sources
	ErrSourceUnavailable = errors.New("catalog source unavailable")
)
