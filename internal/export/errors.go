package export

import "errors"

// Domain-specific errors for the export package.
var (
	ErrMissingToken     = errors.New("source bearer token is empty")
	ErrIncompleteExport = errors.New("export finished with failed items")
)
