package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

const (
	// DefaultCacheTTL is the default time-to-live for cached entries (30 days)
	DefaultCacheTTL = 720 * time.Hour
	// NegativeCacheTTL is the TTL for "not found" responses (7 days)
	NegativeCacheTTL = 168 * time.Hour
)

// CacheDB manages the SQLite database connection for caching
type CacheDB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// row is one stored cache row.
type row struct {
	data     string
	notFound bool
	cachedAt time.Time
}

// NewCacheDB creates a new CacheDB instance and opens the database connection
func NewCacheDB(dbPath string) (*CacheDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	return &CacheDB{
		db:   db,
		path: dbPath,
	}, nil
}

// Open opens the cache database at dbPath and creates all cache tables.
func Open(dbPath string) (*CacheDB, error) {
	c, err := NewCacheDB(dbPath)
	if err != nil {
		return nil, err
	}
	for _, schema := range AllCacheSchemas {
		if err := c.CreateTable(schema); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to create cache table: %w", err), c.Close())
		}
	}
	return c, nil
}

// Path returns the database file path.
func (c *CacheDB) Path() string {
	return c.path
}

// CreateTable creates a table using the provided schema
func (c *CacheDB) CreateTable(schema string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *CacheDB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// InvalidateSource deletes all entries from the specified cache table
// tableName must be one of the valid cache table names (e.g., "metadata_cache")
// Returns the number of rows deleted
func (c *CacheDB) InvalidateSource(tableName string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("DELETE FROM %s", tableName)
	result, err := c.db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Debug("Cache table cleared", "table", tableName, "rows_deleted", rowsAffected)
	return rowsAffected, nil
}

// validateTableName checks if the table name is in the whitelist
// to prevent SQL injection attacks
func validateTableName(tableName string) error {
	if !ValidCacheTableNames[tableName] {
		return fmt.Errorf("invalid cache table name: %s", tableName)
	}
	return nil
}

// get retrieves a cached row from the specified table.
func (c *CacheDB) get(ctx context.Context, tableName, key string) (row, bool, error) {
	if err := validateTableName(tableName); err != nil {
		return row{}, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	query := fmt.Sprintf(`
		SELECT data, not_found, cached_at
		FROM %s
		WHERE cache_key = ?
	`, tableName)

	var r row
	err := c.db.QueryRowContext(ctx, query, key).Scan(&r.data, &r.notFound, &r.cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return row{}, false, nil
	}
	if err != nil {
		return row{}, false, fmt.Errorf("failed to query cache: %w", err)
	}

	return r, true, nil
}

// set stores a value in the cache
func (c *CacheDB) set(ctx context.Context, tableName, key string, r row) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (cache_key, data, not_found, cached_at)
		VALUES (?, ?, ?, ?)
	`, tableName)

	_, err := c.db.ExecContext(ctx, query, key, r.data, r.notFound, r.cachedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// ClearExpired removes cache entries older than ttl from the specified table
func (c *CacheDB) ClearExpired(tableName string, ttl time.Duration) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().UTC().Add(-ttl)
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE cached_at < ?
	`, tableName)

	result, err := c.db.Exec(query, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clear expired cache: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		slog.Info("Cleared expired cache entries", "table", tableName, "count", rows)
	}

	return nil
}

// Persistent is a Store backed by the SQLite metadata table. Positive entries
// live for ttl, not-found entries for negativeTTL.
type Persistent struct {
	db          *CacheDB
	ttl         time.Duration
	negativeTTL time.Duration
	now         func() time.Time
}

// NewPersistent wraps db as a Store. Non-positive TTLs fall back to the defaults.
func NewPersistent(db *CacheDB, ttl, negativeTTL time.Duration) *Persistent {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if negativeTTL <= 0 {
		negativeTTL = NegativeCacheTTL
	}
	return &Persistent{
		db:          db,
		ttl:         ttl,
		negativeTTL: negativeTTL,
		now:         time.Now,
	}
}

func (p *Persistent) Get(ctx context.Context, key string) (Entry, bool) {
	r, found, err := p.db.get(ctx, MetadataTable, key)
	if err != nil {
		slog.Warn("Failed to read metadata cache", "key", key, "error", err)
		return Entry{}, false
	}
	if !found {
		slog.Debug("Cache miss", "table", MetadataTable, "key", key)
		return Entry{}, false
	}

	ttl := p.ttl
	if r.notFound {
		ttl = p.negativeTTL
	}
	age := p.now().UTC().Sub(r.cachedAt)
	if age > ttl {
		slog.Debug("Cache expired", "table", MetadataTable, "key", key, "age", age)
		return Entry{}, false
	}

	var e Entry
	if err := json.Unmarshal([]byte(r.data), &e); err != nil {
		slog.Warn("Failed to unmarshal cached data, will refetch", "table", MetadataTable, "key", key, "error", err)
		return Entry{}, false
	}

	slog.Debug("Cache hit", "table", MetadataTable, "key", key)
	return e, true
}

func (p *Persistent) Set(ctx context.Context, key string, e Entry) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "table", MetadataTable, "key", key, "error", err)
		return
	}

	r := row{data: string(data), notFound: e.NotFound, cachedAt: p.now()}
	if err := p.db.set(ctx, MetadataTable, key, r); err != nil {
		// Log error but don't fail - caching failure shouldn't stop the process
		slog.Warn("Failed to cache data", "table", MetadataTable, "key", key, "error", err)
		return
	}
	slog.Debug("Data cached successfully", "table", MetadataTable, "key", key, "not_found", e.NotFound)
}

// Prune deletes rows that no lookup can use anymore.
func (p *Persistent) Prune() error {
	return p.db.ClearExpired(MetadataTable, max(p.ttl, p.negativeTTL))
}
