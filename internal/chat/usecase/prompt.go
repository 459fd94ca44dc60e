package usecase

import (
	"fmt"
	"strings"

	"aelfgpt/internal/model"
	"aelfgpt/pkg/llmprovider"
)

const contextTemplate = "Context information is below.\n" +
	"--------------------\n" +
	"%s\n" +
	"--------------------\n"

// buildSystemPrompt appends the retrieved context block to the configured prompt.
func buildSystemPrompt(systemPrompt string, nodes []model.ScoredNode) string {
	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := strings.TrimSpace(n.Text); t != "" {
			texts = append(texts, t)
		}
	}
	block := fmt.Sprintf(contextTemplate, strings.Join(texts, "\n\n"))

	if strings.TrimSpace(systemPrompt) == "" {
		return block
	}
	return systemPrompt + "\n\n" + block
}

// buildRequest turns the memory window and the new user message into an LLM request.
func (uc *implUseCase) buildRequest(window []model.Message, user model.Message, nodes []model.ScoredNode) *llmprovider.Request {
	msgs := make([]llmprovider.Message, 0, len(window)+1)
	for _, m := range window {
		if m.IsError {
			continue
		}
		msgs = append(msgs, llmprovider.Message{Role: toProviderRole(m.Role), Content: m.Content})
	}
	msgs = append(msgs, llmprovider.Message{Role: llmprovider.RoleUser, Content: user.Content})

	return &llmprovider.Request{
		SystemInstruction: buildSystemPrompt(uc.cfg.SystemPrompt, nodes),
		Messages:          msgs,
		Temperature:       uc.cfg.Temperature,
		MaxTokens:         uc.cfg.MaxTokens,
	}
}

func toProviderRole(r model.Role) string {
	if r == model.RoleAssistant {
		return llmprovider.RoleAssistant
	}
	return llmprovider.RoleUser
}
