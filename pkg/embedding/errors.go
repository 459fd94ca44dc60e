package embedding

import "errors"

var (
	ErrUnknownProvider   = errors.New("embedding: unknown provider")
	ErrEmptyInput        = errors.New("embedding: at least one text is required")
	ErrDimensionMismatch = errors.New("embedding: provider returned an unexpected number of vectors")
)
