package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aelfgpt/internal/knowledge"
	"aelfgpt/internal/knowledge/repository"
	"aelfgpt/internal/model"
	pkgLog "aelfgpt/pkg/log"
)

type fakeRepo struct {
	adds      [][]model.Node
	deleted   []string
	query     repository.QueryOptions
	results   []model.ScoredNode
	addErr    error
	failDoc   string
	searchErr error
	ops       []string
}

func (r *fakeRepo) Add(_ context.Context, nodes []model.Node) error {
	if r.addErr != nil {
		return r.addErr
	}
	if len(nodes) > 0 && nodes[0].DocumentID == r.failDoc {
		return errors.New("add failed")
	}
	r.ops = append(r.ops, "add "+nodes[0].DocumentID)
	r.adds = append(r.adds, append([]model.Node(nil), nodes...))
	return nil
}

func (r *fakeRepo) Query(_ context.Context, opt repository.QueryOptions) ([]model.ScoredNode, error) {
	r.query = opt
	return r.results, r.searchErr
}

func (r *fakeRepo) DeleteDocument(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	r.ops = append(r.ops, "delete "+id)
	return nil
}

func (r *fakeRepo) nodes() []model.Node {
	var all []model.Node
	for _, b := range r.adds {
		all = append(all, b...)
	}
	return all
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIngest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "intro.md", "---\ntitle: Intro\n---\nAelf is a blockchain. It uses DPoS. Side chains scale it.\n")
	writeFile(t, root, "guides/deploy.txt", "Deploy a contract. Then call it.")
	writeFile(t, root, "guides/empty.md", "---\ntitle: Empty\n---\n")
	writeFile(t, root, "image.png", "not text")

	ctx := context.Background()

	t.Run("Chunks And Stores", func(t *testing.T) {
		repo := &fakeRepo{}
		uc := New(pkgLog.NewNop(), repo, Config{
			Patterns:          []string{"**/*.md", "**/*.txt"},
			SentencesPerChunk: 2,
			SentenceOverlap:   0,
			BatchSize:         2,
		})

		out, err := uc.Ingest(ctx, knowledge.IngestInput{Root: root})
		require.NoError(t, err)

		assert.Equal(t, 2, out.Documents)
		assert.Equal(t, 3, out.Nodes)
		assert.Equal(t, []string{"guides/empty.md"}, out.Skipped)
		assert.Equal(t, []string{"guides/deploy.txt", "intro.md"}, repo.deleted)

		nodes := repo.nodes()
		require.Len(t, nodes, 3)
		assert.Len(t, repo.adds, 2, "each document is stored in its own batches")

		assert.Equal(t, "guides/deploy.txt#0", nodes[0].ID)
		assert.Equal(t, "Deploy a contract. Then call it.", nodes[0].Text)

		assert.Equal(t, "intro.md", nodes[1].DocumentID)
		assert.Equal(t, "Aelf is a blockchain. It uses DPoS.", nodes[1].Text)
		assert.Equal(t, "Intro", nodes[1].Metadata["title"])
		assert.Equal(t, "intro.md", nodes[1].Metadata["file_path"])
		assert.Equal(t, 1, nodes[2].Metadata["chunk_index"])
	})

	t.Run("Input Patterns Override Defaults", func(t *testing.T) {
		repo := &fakeRepo{}
		uc := New(pkgLog.NewNop(), repo, Config{Patterns: []string{"**/*.md"}})

		out, err := uc.Ingest(ctx, knowledge.IngestInput{Root: root, Patterns: []string{"guides/*.txt"}})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Documents)
	})

	t.Run("No Matches", func(t *testing.T) {
		uc := New(pkgLog.NewNop(), &fakeRepo{}, Config{})
		_, err := uc.Ingest(ctx, knowledge.IngestInput{Root: root, Patterns: []string{"**/*.rst"}})
		assert.ErrorIs(t, err, knowledge.ErrNoDocuments)
	})

	t.Run("Invalid Root", func(t *testing.T) {
		uc := New(pkgLog.NewNop(), &fakeRepo{}, Config{})
		_, err := uc.Ingest(ctx, knowledge.IngestInput{Root: filepath.Join(root, "intro.md")})
		assert.ErrorIs(t, err, knowledge.ErrInvalidRoot)
	})

	t.Run("Invalid Pattern", func(t *testing.T) {
		uc := New(pkgLog.NewNop(), &fakeRepo{}, Config{})
		_, err := uc.Ingest(ctx, knowledge.IngestInput{Root: root, Patterns: []string{"[unclosed"}})
		assert.Error(t, err)
	})

	t.Run("Documents Replaced One At A Time", func(t *testing.T) {
		repo := &fakeRepo{}
		uc := New(pkgLog.NewNop(), repo, Config{
			Patterns:          []string{"**/*.md", "**/*.txt"},
			SentencesPerChunk: 1,
			BatchSize:         2,
		})

		_, err := uc.Ingest(ctx, knowledge.IngestInput{Root: root})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"delete guides/deploy.txt", "add guides/deploy.txt",
			"delete intro.md", "add intro.md", "add intro.md",
		}, repo.ops)
	})

	t.Run("Failed Document Leaves Earlier Ones Stored", func(t *testing.T) {
		repo := &fakeRepo{failDoc: "intro.md"}
		uc := New(pkgLog.NewNop(), repo, Config{
			Patterns:          []string{"**/*.md", "**/*.txt"},
			SentencesPerChunk: 2,
			BatchSize:         10,
		})

		out, err := uc.Ingest(ctx, knowledge.IngestInput{Root: root})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "intro.md")
		assert.Equal(t, 1, out.Documents)
		assert.Equal(t, 1, out.Nodes)
		assert.Equal(t, []string{"delete guides/deploy.txt", "add guides/deploy.txt", "delete intro.md"}, repo.ops)
	})

	t.Run("Store Failure", func(t *testing.T) {
		boom := errors.New("boom")
		uc := New(pkgLog.NewNop(), &fakeRepo{addErr: boom}, Config{Patterns: []string{"*.md"}})
		_, err := uc.Ingest(ctx, knowledge.IngestInput{Root: root})
		assert.ErrorIs(t, err, boom)
	})
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("Default TopK", func(t *testing.T) {
		repo := &fakeRepo{results: []model.ScoredNode{{Node: model.Node{Text: "ctx"}, Score: 0.9}}}
		uc := New(pkgLog.NewNop(), repo, Config{})

		out, err := uc.Retrieve(ctx, knowledge.RetrieveInput{Query: "  what is aelf  "})
		require.NoError(t, err)
		assert.Len(t, out.Nodes, 1)
		assert.Equal(t, repository.QueryOptions{Text: "what is aelf", TopK: knowledge.DefaultTopK}, repo.query)
	})

	t.Run("Empty Query", func(t *testing.T) {
		uc := New(pkgLog.NewNop(), &fakeRepo{}, Config{})
		_, err := uc.Retrieve(ctx, knowledge.RetrieveInput{Query: " "})
		assert.ErrorIs(t, err, knowledge.ErrEmptyQuery)
	})

	t.Run("Repository Failure", func(t *testing.T) {
		boom := errors.New("atlas down")
		uc := New(pkgLog.NewNop(), &fakeRepo{searchErr: boom}, Config{})
		_, err := uc.Retrieve(ctx, knowledge.RetrieveInput{Query: "q", TopK: 5})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("DeleteDocument", func(t *testing.T) {
		repo := &fakeRepo{}
		uc := New(pkgLog.NewNop(), repo, Config{})
		require.NoError(t, uc.DeleteDocument(ctx, "intro.md"))
		assert.Equal(t, []string{"intro.md"}, repo.deleted)
		assert.ErrorIs(t, uc.DeleteDocument(ctx, ""), knowledge.ErrEmptyDocument)
	})
}
