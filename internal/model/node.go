package model

// Node is a chunk of a source document as stored in the vector collection.
type Node struct {
	ID         string
	DocumentID string
	Text       string
	Metadata   map[string]any
	Embedding  []float32
}

// ScoredNode is a retrieved node with its similarity score.
type ScoredNode struct {
	Node
	Score float64
}
