package datago

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"
)

// Cache is the on-disk response store keyed by request signature, with a TTL.
// Concurrent readers are safe; a write race between two fetches for the same
// key is tolerated (last write wins — cached content is idempotent for a
// given signature).
type Cache struct {
	db    *sql.DB
	ttl   time.Duration
	clock clockwork.Clock
}

// OpenCache opens (or creates) the SQLite cache at path. Pass a nil clock to
// use real time.
func OpenCache(path string, ttl time.Duration, clock clockwork.Clock) (*Cache, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open response cache: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS response_cache (
		key        TEXT PRIMARY KEY,
		body       BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create response_cache table: %w", err)
	}
	return &Cache{db: db, ttl: ttl, clock: clock}, nil
}

// Get returns the cached body for a signature if present and fresh.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	var body []byte
	var fetchedAt int64
	err := c.db.QueryRow(
		`SELECT body, fetched_at FROM response_cache WHERE key = ?`, key,
	).Scan(&body, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	age := c.clock.Now().Unix() - fetchedAt
	if c.ttl > 0 && age > int64(c.ttl.Seconds()) {
		// Expired entries are dropped lazily; failure to drop is harmless.
		c.db.Exec(`DELETE FROM response_cache WHERE key = ?`, key) //nolint:errcheck
		return nil, false, nil
	}
	return body, true, nil
}

// Put stores a response body, replacing any previous entry for the key.
func (c *Cache) Put(key string, body []byte) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO response_cache (key, body, fetched_at) VALUES (?, ?, ?)`,
		key, body, c.clock.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
