// Package cache stores generated assembly in a sqlite database, keyed by a
// hash of the source text and the compiler version.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/funvibe/tourte/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS listings (
	key        TEXT PRIMARY KEY,
	assembly   TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`

// Cache is a handle on one cache database. It is safe for concurrent use.
type Cache struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising cache %s: %w", path, err)
	}
	return &Cache{db: db, path: path}, nil
}

// Key derives the cache key for a source text.
func Key(source string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte("\x00"))
	h.Write([]byte(config.Version))
	return hex.EncodeToString(h.Sum(nil))
}

// Path returns the database file.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the listing stored under key.
func (c *Cache) Get(key string) ([]string, bool, error) {
	var asm string
	err := c.db.QueryRow(`SELECT assembly FROM listings WHERE key = ?`, key).Scan(&asm)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}
	return strings.Split(asm, "\n"), true, nil
}

// Put stores a listing, replacing any previous one under the same key.
func (c *Cache) Put(key string, lines []string) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO listings (key, assembly, created_at) VALUES (?, ?, ?)`,
		key, strings.Join(lines, "\n"), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Len returns the number of stored listings.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM listings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache: %w", err)
	}
	return n, nil
}

// Clean removes every stored listing.
func (c *Cache) Clean() error {
	if _, err := c.db.Exec(`DELETE FROM listings`); err != nil {
		return fmt.Errorf("cleaning cache: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
