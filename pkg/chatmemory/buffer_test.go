package chatmemory_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aelfgpt/internal/model"
	"aelfgpt/pkg/chatmemory"
)

func msg(role model.Role, content string) model.Message {
	return model.Message{Role: role, Content: content}
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 1, chatmemory.EstimateTokens(msg(model.RoleUser, "")))
	assert.Equal(t, 1, chatmemory.EstimateTokens(msg(model.RoleUser, "abc")))
	assert.Equal(t, 2, chatmemory.EstimateTokens(msg(model.RoleUser, "abcde")))
	assert.Equal(t, 1, chatmemory.EstimateTokens(msg(model.RoleUser, "héé")))
}

func TestBufferUnbounded(t *testing.T) {
	b := chatmemory.New(0, nil)
	b.Put(msg(model.RoleUser, "Hello"))
	b.Put(msg(model.RoleAssistant, "Hi"))
	b.Put(msg(model.RoleUser, strings.Repeat("x", 10_000)))

	got := b.Get()
	require.Len(t, got, 3)
	assert.Equal(t, "Hello", got[0].Content)
	assert.Equal(t, 3, b.Len())
}

func TestBufferWindow(t *testing.T) {
	one := func(model.Message) int { return 1 }

	t.Run("Keeps Newest Messages Within Limit", func(t *testing.T) {
		b := chatmemory.New(3, one)
		for _, m := range []model.Message{
			msg(model.RoleUser, "u1"), msg(model.RoleAssistant, "a1"),
			msg(model.RoleUser, "u2"), msg(model.RoleAssistant, "a2"),
		} {
			b.Put(m)
		}

		got := b.Get()
		// a1 would lead the window, so it is dropped as well.
		require.Len(t, got, 2)
		assert.Equal(t, "u2", got[0].Content)
		assert.Equal(t, "a2", got[1].Content)
		assert.Len(t, b.GetAll(), 4)
	})

	t.Run("Single Oversized Message Yields Empty Window", func(t *testing.T) {
		b := chatmemory.New(5, nil)
		b.Put(msg(model.RoleUser, strings.Repeat("y", 100)))
		assert.Empty(t, b.Get())
	})

	t.Run("Returned Slice Is A Copy", func(t *testing.T) {
		b := chatmemory.New(0, one)
		b.Put(msg(model.RoleUser, "u1"))
		got := b.Get()
		got[0].Content = "mutated"
		assert.Equal(t, "u1", b.Get()[0].Content)
	})
}

func TestBufferReset(t *testing.T) {
	b := chatmemory.New(chatmemory.DefaultTokenLimit, nil)
	b.Put(msg(model.RoleUser, "u1"))
	b.Reset()
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Get())
}
