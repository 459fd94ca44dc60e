package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// DefaultOllamaBaseURL is the local Ollama daemon address.
const DefaultOllamaBaseURL = "http://localhost:11434"

// OllamaAdapter adapts a local Ollama model to the Provider interface.
type OllamaAdapter struct {
	client *api.Client
	model  string
}

// NewOllamaAdapter creates an adapter for the Ollama server at baseURL.
func NewOllamaAdapter(baseURL, model string, httpClient *http.Client) (*OllamaAdapter, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaAdapter{client: api.NewClient(u, httpClient), model: model}, nil
}

// GenerateContent implements Provider interface
func (a *OllamaAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	stream := false
	chatReq := a.buildRequest(req, &stream)

	var (
		content string
		usage   Usage
	)
	err := a.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		content += resp.Message.Content
		if resp.Done {
			usage = Usage{
				InputTokens:  resp.PromptEvalCount,
				OutputTokens: resp.EvalCount,
				TotalTokens:  resp.PromptEvalCount + resp.EvalCount,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Response{
		Content:      Message{Role: RoleAssistant, Content: content},
		ProviderName: a.Name(),
		ModelName:    a.model,
		Usage:        &usage,
	}, nil
}

// StreamContent implements Provider interface
func (a *OllamaAdapter) StreamContent(ctx context.Context, req *Request) (Stream, error) {
	stream := true
	chatReq := a.buildRequest(req, &stream)

	return newChanStream(ctx, func(ctx context.Context, emit func(string) error) error {
		return a.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
			if resp.Message.Content == "" {
				return nil
			}
			return emit(resp.Message.Content)
		})
	}), nil
}

// Name returns provider name
func (a *OllamaAdapter) Name() string {
	return "ollama"
}

// Model returns model name
func (a *OllamaAdapter) Model() string {
	return a.model
}

func (a *OllamaAdapter) buildRequest(req *Request, stream *bool) *api.ChatRequest {
	msgs := make([]api.Message, 0, len(req.Messages)+1)
	if req.SystemInstruction != "" {
		msgs = append(msgs, api.Message{Role: RoleSystem, Content: req.SystemInstruction})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, api.Message{Role: m.Role, Content: m.Content})
	}

	options := map[string]any{}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	return &api.ChatRequest{
		Model:    a.model,
		Messages: msgs,
		Stream:   stream,
		Options:  options,
	}
}
