package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/seres-labs/regdash/internal/table"
)

// Signature identifies one source file revision. A cached table is valid
// only while the file at Path still has the same modification time and
// size; any change invalidates the entry.
type Signature struct {
	Path  string `json:"path"`
	MTime int64  `json:"mtime"`
	Size  int64  `json:"size"`
}

// Cache stores parsed source tables keyed by file signature. Computed
// results never go through the cache.
type Cache interface {
	Get(ctx context.Context, sig Signature) (*table.Table, bool, error)
	Put(ctx context.Context, sig Signature, t *table.Table) error
	Clear(ctx context.Context) error
	Close() error
}

// MemoryCache keeps parsed tables for the lifetime of the process.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	sig Signature
	t   *table.Table
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, sig Signature) (*table.Table, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[sig.Path]
	if !ok || e.sig != sig {
		return nil, false, nil
	}
	return e.t, true, nil
}

func (c *MemoryCache) Put(_ context.Context, sig Signature, t *table.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sig.Path] = memoryEntry{sig: sig, t: t}
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// SQLiteCache persists parsed tables across processes in a local SQLite
// file, so repeated CLI invocations do not re-parse unchanged gold files.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (or creates) the cache database at the given path
// and configures WAL mode.
func NewSQLiteCache(dsn string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS table_cache (
	path      TEXT PRIMARY KEY,
	mtime     INTEGER NOT NULL,
	size      INTEGER NOT NULL,
	payload   TEXT NOT NULL,
	cached_at DATETIME NOT NULL
);`
	if _, err := db.Exec(migration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "cache: migrate")
	}

	return &SQLiteCache{db: db}, nil
}

// tablePayload is the serialized form of a cached table.
type tablePayload struct {
	Cols []string   `json:"cols"`
	Rows [][]string `json:"rows"`
}

func (c *SQLiteCache) Get(ctx context.Context, sig Signature) (*table.Table, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT mtime, size, payload FROM table_cache WHERE path = ?`, sig.Path)

	var mtime, size int64
	var payload string
	err := row.Scan(&mtime, &size, &payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "cache: get")
	}
	if mtime != sig.MTime || size != sig.Size {
		// Stale entry for an older file revision.
		return nil, false, nil
	}

	var p tablePayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, false, eris.Wrap(err, "cache: unmarshal payload")
	}
	return table.New(p.Cols, p.Rows), true, nil
}

func (c *SQLiteCache) Put(ctx context.Context, sig Signature, t *table.Table) error {
	p := tablePayload{Cols: t.Columns()}
	for i := 0; i < t.NumRows(); i++ {
		p.Rows = append(p.Rows, t.Row(i))
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "cache: marshal payload")
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO table_cache (path, mtime, size, payload, cached_at) VALUES (?, ?, ?, ?, ?)`,
		sig.Path, sig.MTime, sig.Size, string(payload), time.Now().UTC(),
	)
	return eris.Wrap(err, "cache: put")
}

func (c *SQLiteCache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM table_cache`)
	return eris.Wrap(err, "cache: clear")
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
