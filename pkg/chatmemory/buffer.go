// Package chatmemory keeps the prior turns of a conversation and hands the
// LLM the most recent window that fits a token budget.
package chatmemory

import (
	"sync"
	"unicode/utf8"

	"aelfgpt/internal/model"
)

// DefaultTokenLimit is the window size used when none is configured.
const DefaultTokenLimit = 3000

// TokenCounter estimates the token cost of a message.
type TokenCounter func(msg model.Message) int

// EstimateTokens approximates one token per four characters.
func EstimateTokens(msg model.Message) int {
	n := (utf8.RuneCountInString(msg.Content) + 3) / 4
	if n < 1 {
		return 1
	}
	return n
}

// Buffer is an append-only turn log with a token-limited read window.
// A limit of zero or less disables the window.
type Buffer struct {
	mu         sync.RWMutex
	messages   []model.Message
	tokenLimit int
	count      TokenCounter
}

// New creates a Buffer. A nil counter falls back to EstimateTokens.
func New(tokenLimit int, counter TokenCounter) *Buffer {
	if counter == nil {
		counter = EstimateTokens
	}
	return &Buffer{tokenLimit: tokenLimit, count: counter}
}

// Put appends a message.
func (b *Buffer) Put(msg model.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

// Get returns the newest suffix of the log that fits the token limit.
// The window never starts with an assistant message.
func (b *Buffer) Get() []model.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start := 0
	if b.tokenLimit > 0 {
		start = len(b.messages)
		total := 0
		for i := len(b.messages) - 1; i >= 0; i-- {
			total += b.count(b.messages[i])
			if total > b.tokenLimit {
				break
			}
			start = i
		}
	}

	for start < len(b.messages) && b.messages[start].Role == model.RoleAssistant {
		start++
	}

	out := make([]model.Message, len(b.messages)-start)
	copy(out, b.messages[start:])
	return out
}

// GetAll returns the full log.
func (b *Buffer) GetAll() []model.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len reports the number of stored messages.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.messages)
}

// Reset drops every stored message.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = nil
}
