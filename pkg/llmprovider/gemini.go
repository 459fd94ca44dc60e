package llmprovider

import (
	"context"

	"aelfgpt/pkg/gemini"
)

// GeminiAdapter adapts pkg/gemini to llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	resp, err := a.client.GenerateContent(ctx, toGeminiRequest(req))
	if err != nil {
		return nil, err
	}

	return &Response{
		Content:      Message{Role: RoleAssistant, Content: resp.Text},
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// StreamContent implements Provider interface
func (a *GeminiAdapter) StreamContent(ctx context.Context, req *Request) (Stream, error) {
	return a.client.StreamContent(ctx, toGeminiRequest(req))
}

// Name returns provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Model returns model name
func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}

func toGeminiRequest(req *Request) *gemini.Request {
	contents := make([]gemini.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := gemini.RoleUser
		if m.Role == RoleAssistant {
			role = gemini.RoleModel
		}
		contents = append(contents, gemini.Content{Role: role, Text: m.Content})
	}

	return &gemini.Request{
		SystemInstruction: req.SystemInstruction,
		Messages:          contents,
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	}
}
