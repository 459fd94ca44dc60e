package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"aelfgpt/internal/knowledge"
	"aelfgpt/internal/model"
)

// Ingest walks input.Root, chunks every matching file and stores the nodes.
// Documents are replaced, so re-running an ingest never duplicates nodes.
func (uc *implUseCase) Ingest(ctx context.Context, input knowledge.IngestInput) (knowledge.IngestOutput, error) {
	info, err := os.Stat(input.Root)
	if err != nil || !info.IsDir() {
		return knowledge.IngestOutput{}, fmt.Errorf("%w: %s", knowledge.ErrInvalidRoot, input.Root)
	}

	patterns := input.Patterns
	if len(patterns) == 0 {
		patterns = uc.cfg.Patterns
	}

	fsys := os.DirFS(input.Root)
	files, err := matchFiles(fsys, patterns)
	if err != nil {
		return knowledge.IngestOutput{}, err
	}
	if len(files) == 0 {
		return knowledge.IngestOutput{}, knowledge.ErrNoDocuments
	}

	uc.l.Infof(ctx, "Ingest: %d files under %s", len(files), input.Root)

	var out knowledge.IngestOutput
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		nodes, err := uc.buildNodes(fsys, path)
		if err != nil {
			return out, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(nodes) == 0 {
			uc.l.Warnf(ctx, "Ingest: skipping %s, no text", path)
			out.Skipped = append(out.Skipped, path)
			continue
		}

		stored, err := uc.replaceDocument(ctx, path, nodes)
		out.Nodes += stored
		if err != nil {
			return out, err
		}
		out.Documents++
	}

	uc.l.Infof(ctx, "Ingest: stored %d nodes from %d documents (%d skipped)", out.Nodes, out.Documents, len(out.Skipped))
	return out, nil
}

// replaceDocument drops the stored nodes of one document and writes the new
// ones in batches. A failure only affects this document.
func (uc *implUseCase) replaceDocument(ctx context.Context, path string, nodes []model.Node) (int, error) {
	if err := uc.vectorRepo.DeleteDocument(ctx, path); err != nil {
		return 0, fmt.Errorf("failed to replace %s: %w", path, err)
	}

	size := uc.cfg.BatchSize
	stored := 0
	for start := 0; start < len(nodes); start += size {
		end := min(start+size, len(nodes))
		if err := uc.vectorRepo.Add(ctx, nodes[start:end]); err != nil {
			return stored, fmt.Errorf("failed to store nodes of %s: %w", path, err)
		}
		stored += end - start
	}
	return stored, nil
}

// buildNodes reads one file and turns it into nodes. The document ID is the
// slash-separated path relative to the ingest root.
func (uc *implUseCase) buildNodes(fsys fs.FS, path string) ([]model.Node, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid front matter: %w", err)
	}

	chunks := windowSentences(splitSentences(body), uc.cfg.SentencesPerChunk, uc.cfg.SentenceOverlap)
	nodes := make([]model.Node, 0, len(chunks))
	for i, text := range chunks {
		md := make(map[string]any, len(meta)+3)
		for k, v := range meta {
			md[k] = v
		}
		md["file_path"] = path
		md["file_name"] = filepath.Base(path)
		md["chunk_index"] = i

		nodes = append(nodes, model.Node{
			ID:         fmt.Sprintf("%s#%d", path, i),
			DocumentID: path,
			Text:       text,
			Metadata:   md,
		})
	}
	return nodes, nil
}

// matchFiles expands the patterns into a sorted, de-duplicated file list.
func matchFiles(fsys fs.FS, patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
		matches, err := doublestar.Glob(fsys, p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to match %q: %w", p, err)
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}
