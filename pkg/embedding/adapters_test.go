package embedding_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"aelfgpt/config"
	"aelfgpt/pkg/embedding"
)

func TestOpenAIEmbedder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"object": "list",
			"data": [
				{"object": "embedding", "embedding": [0.3, 0.4], "index": 1},
				{"object": "embedding", "embedding": [0.1, 0.2], "index": 0}
			],
			"model": "text-embedding-3-small"
		}`))
	}))
	defer ts.Close()

	e := embedding.NewOpenAI("key", ts.URL, "", ts.Client())
	if e.Model() != embedding.DefaultOpenAIModel {
		t.Errorf("expected default model, got %q", e.Model())
	}

	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vecs[0][0] != 0.1 || vecs[1][0] != 0.3 {
		t.Errorf("vectors not ordered by index: %v", vecs)
	}
}

func TestOllamaEmbedder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		out := make([][]float32, len(req.Input))
		for i := range req.Input {
			out[i] = []float32{float32(i), 1}
		}
		json.NewEncoder(w).Encode(map[string]any{"model": req.Model, "embeddings": out})
	}))
	defer ts.Close()

	e, err := embedding.NewOllama(ts.URL, "", ts.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vecs, err := e.Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 3 || vecs[2][0] != 2 {
		t.Errorf("unexpected vectors: %v", vecs)
	}
	if e.Model() != embedding.DefaultOllamaModel {
		t.Errorf("expected default model, got %q", e.Model())
	}
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown", func(t *testing.T) {
		_, err := embedding.NewProvider(ctx, config.EmbeddingConfig{Provider: "word2vec"})
		if !errors.Is(err, embedding.ErrUnknownProvider) {
			t.Fatalf("expected ErrUnknownProvider, got %v", err)
		}
	})

	t.Run("Voyage Requires Key", func(t *testing.T) {
		if _, err := embedding.NewProvider(ctx, config.EmbeddingConfig{Provider: "voyage"}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("Voyage", func(t *testing.T) {
		e, err := embedding.NewProvider(ctx, config.EmbeddingConfig{Provider: "voyage", APIKey: "k", Model: "voyage-3-lite"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Model() != "voyage-3-lite" {
			t.Errorf("unexpected model %q", e.Model())
		}
	})

	t.Run("Ollama Needs No Key", func(t *testing.T) {
		if _, err := embedding.NewProvider(ctx, config.EmbeddingConfig{Provider: "ollama"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Cached With Dir", func(t *testing.T) {
		c, err := embedding.New(ctx, config.EmbeddingConfig{Provider: "ollama", CacheDir: t.TempDir(), CacheSize: 4})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer c.Close()
		if c.Model() != embedding.DefaultOllamaModel {
			t.Errorf("unexpected model %q", c.Model())
		}
	})
}
