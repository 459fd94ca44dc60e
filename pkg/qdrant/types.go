package qdrant

// CreateCollectionRequest defines the schema for creating a collection.
type CreateCollectionRequest struct {
	Name    string       `json:"-"` // in URL
	Vectors VectorConfig `json:"vectors"`
}

// VectorConfig defines vector dimension and distance metric.
type VectorConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"` // "Cosine", "Euclid", "Dot"
}

// CollectionInfo is the subset of collection info this client reads.
type CollectionInfo struct {
	Status      string `json:"status"`
	PointsCount int    `json:"points_count"`
}

// Point represents a vector with payload.
// Qdrant requires ID to be a UUID or uint64, never an arbitrary string.
type Point struct {
	ID      any            `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// UpsertPointsRequest is the request to insert/update points.
type UpsertPointsRequest struct {
	Points []Point `json:"points"`
}

// SearchRequest is the request for semantic search.
type SearchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
	Filter      *Filter   `json:"filter,omitempty"`
}

// Filter is a Qdrant boolean filter.
type Filter struct {
	Must []Condition `json:"must,omitempty"`
}

// Condition matches a payload key against a value.
type Condition struct {
	Key   string `json:"key"`
	Match Match  `json:"match"`
}

// Match is an exact-value match.
type Match struct {
	Value any `json:"value"`
}

// MatchKey builds a single-condition filter.
func MatchKey(key string, value any) Filter {
	return Filter{Must: []Condition{{Key: key, Match: Match{Value: value}}}}
}

// SearchResponse contains search results.
type SearchResponse struct {
	Result []ScoredPoint `json:"result"`
}

// ScoredPoint is a search result with similarity score.
type ScoredPoint struct {
	ID      any            `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// DeletePointsRequest is the request to delete points.
type DeletePointsRequest struct {
	Points []string `json:"points"`
}

// DeleteByFilterRequest deletes points matching a filter.
type DeleteByFilterRequest struct {
	Filter Filter `json:"filter"`
}
