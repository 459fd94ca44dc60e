package gemini

import "context"

// IGemini defines the interface for Gemini API client.
// Implementations are safe for concurrent use.
type IGemini interface {
	// GenerateContent sends a generation request and waits for the full answer
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// StreamContent starts a token-incremental generation
	StreamContent(ctx context.Context, req *Request) (Stream, error)

	// Embed returns one vector per input text
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the chat model being used
	Model() string
}

// Stream yields generated text fragments until io.EOF.
type Stream interface {
	Next() (string, error)
	Close() error
}

// New creates a new Gemini client with the given configuration
func New(ctx context.Context, cfg Config) (IGemini, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newGeminiImpl(ctx, cfg)
}
