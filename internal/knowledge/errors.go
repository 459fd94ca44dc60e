package knowledge

import "errors"

// Domain-specific errors for the knowledge package.
var (
	ErrEmptyQuery    = errors.New("retrieval query is empty")
	ErrNoDocuments   = errors.New("no documents matched the ingest patterns")
	ErrInvalidRoot   = errors.New("ingest root is not a directory")
	ErrEmptyDocument = errors.New("document id is empty")
)
