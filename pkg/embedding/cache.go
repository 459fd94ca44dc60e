package embedding

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// CacheFileName is the SQLite file created inside the cache directory.
const CacheFileName = "embeddings.db"

const defaultCacheSize = 1024

// CacheConfig configures Cached. An empty Dir keeps the cache in memory only.
type CacheConfig struct {
	Dir  string
	Size int
}

// Cached memoizes an Embedder in an LRU backed by an on-disk SQLite table.
// Entries are keyed by (model, sha256(text)) so switching models never serves stale vectors.
type Cached struct {
	inner Embedder
	mem   *lru.Cache[string, []float32]
	db    *sql.DB
}

var _ Embedder = (*Cached)(nil)

// NewCached wraps inner.
func NewCached(inner Embedder, cfg CacheConfig) (*Cached, error) {
	size := cfg.Size
	if size <= 0 {
		size = defaultCacheSize
	}
	mem, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("embedding cache: %w", err)
	}

	c := &Cached{inner: inner, mem: mem}
	if cfg.Dir == "" {
		return c, nil
	}

	if c.db, err = openCacheDB(filepath.Join(cfg.Dir, CacheFileName)); err != nil {
		return nil, err
	}
	return c, nil
}

func openCacheDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	// modernc.org/sqlite takes pragmas as statements, not DSN params.
	stmts := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		`CREATE TABLE IF NOT EXISTS embeddings (
			model      TEXT    NOT NULL,
			hash       TEXT    NOT NULL,
			vector     BLOB    NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (model, hash)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", s, err)
		}
	}
	return db, nil
}

// Model returns the wrapped embedder's model.
func (c *Cached) Model() string {
	return c.inner.Model()
}

// Embed returns cached vectors where present and embeds the rest in one call.
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	model := c.inner.Model()
	out := make([][]float32, len(texts))
	hashes := make([]string, len(texts))

	// missing maps a hash to every position that needs it, so duplicates embed once.
	missing := map[string][]int{}
	var order []string

	for i, t := range texts {
		h := hashText(t)
		hashes[i] = h
		if v, ok := c.mem.Get(memKey(model, h)); ok {
			out[i] = v
			continue
		}
		if _, seen := missing[h]; !seen {
			order = append(order, h)
		}
		missing[h] = append(missing[h], i)
	}

	if len(order) > 0 && c.db != nil {
		remaining := order[:0:0]
		for _, h := range order {
			v, err := c.load(ctx, model, h)
			if err != nil {
				return nil, err
			}
			if v == nil {
				remaining = append(remaining, h)
				continue
			}
			c.mem.Add(memKey(model, h), v)
			for _, i := range missing[h] {
				out[i] = v
			}
		}
		order = remaining
	}

	if len(order) == 0 {
		return out, nil
	}

	batch := make([]string, len(order))
	for j, h := range order {
		batch[j] = texts[missing[h][0]]
	}
	vecs, err := c.inner.Embed(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(batch) {
		return nil, ErrDimensionMismatch
	}

	for j, h := range order {
		v := vecs[j]
		c.mem.Add(memKey(model, h), v)
		if c.db != nil {
			if err := c.store(ctx, model, h, v); err != nil {
				return nil, err
			}
		}
		for _, i := range missing[h] {
			out[i] = v
		}
	}
	return out, nil
}

// Close releases the on-disk cache.
func (c *Cached) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cached) load(ctx context.Context, model, hash string) ([]float32, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT vector FROM embeddings WHERE model = ? AND hash = ?`, model, hash).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("embedding cache lookup: %w", err)
	}
	return decodeVector(blob), nil
}

func (c *Cached) store(ctx context.Context, model, hash string, v []float32) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO embeddings (model, hash, vector, created_at) VALUES (?, ?, ?, ?)`,
		model, hash, encodeVector(v), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("embedding cache store: %w", err)
	}
	return nil
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func memKey(model, hash string) string {
	return model + ":" + hash
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
