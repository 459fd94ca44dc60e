package llmprovider

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAI-compatible endpoints reachable through OpenAIAdapter.
const (
	DefaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	DefaultQwenBaseURL     = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"
	DefaultLlamaAPIBaseURL = "https://api.llama.com/compat/v1"
)

// OpenAIAdapter talks to any OpenAI-compatible chat completion endpoint.
type OpenAIAdapter struct {
	client *openai.Client
	name   string
	model  string
}

// NewOpenAIAdapter creates an adapter. An empty baseURL targets api.openai.com.
func NewOpenAIAdapter(name, apiKey, baseURL, model string, httpClient *http.Client) *OpenAIAdapter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(cfg),
		name:   name,
		model:  model,
	}
}

// GenerateContent implements Provider interface
func (a *OpenAIAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	resp, err := a.client.CreateChatCompletion(ctx, a.buildRequest(req, false))
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &Response{
		Content:      Message{Role: RoleAssistant, Content: resp.Choices[0].Message.Content},
		ProviderName: a.name,
		ModelName:    a.model,
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// StreamContent implements Provider interface
func (a *OpenAIAdapter) StreamContent(ctx context.Context, req *Request) (Stream, error) {
	s, err := a.client.CreateChatCompletionStream(ctx, a.buildRequest(req, true))
	if err != nil {
		return nil, err
	}
	return &openAIStream{stream: s}, nil
}

// Name returns provider name
func (a *OpenAIAdapter) Name() string {
	return a.name
}

// Model returns model name
func (a *OpenAIAdapter) Model() string {
	return a.model
}

func (a *OpenAIAdapter) buildRequest(req *Request, stream bool) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemInstruction != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstruction})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	return openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
		Stream:      stream,
	}
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
	err    error
	closed bool
}

func (s *openAIStream) Next() (string, error) {
	if s.closed {
		return "", ErrStreamClosed
	}
	if s.err != nil {
		return "", s.err
	}

	for {
		chunk, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			s.err = io.EOF
			return "", io.EOF
		}
		if err != nil {
			s.err = err
			return "", err
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if text := chunk.Choices[0].Delta.Content; text != "" {
			return text, nil
		}
	}
}

func (s *openAIStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.stream.Close()
}
