package knowledge

import "aelfgpt/internal/model"

// DefaultTopK is the number of nodes retrieved per query when none is given.
const DefaultTopK = 2

// IngestInput is the input for document ingestion.
type IngestInput struct {
	Root     string   // Directory to walk
	Patterns []string // doublestar globs relative to Root; empty uses the configured defaults
}

// IngestOutput summarizes an ingestion run.
type IngestOutput struct {
	Documents int
	Nodes     int
	Skipped   []string // files with no indexable text
}

// RetrieveInput is the input for similarity retrieval.
type RetrieveInput struct {
	Query string
	TopK  int
}

// RetrieveOutput holds retrieved nodes, best match first.
type RetrieveOutput struct {
	Nodes []model.ScoredNode
}
