package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// MetadataTable is the table holding resolved book metadata.
const MetadataTable = "metadata_cache"

// MetadataCacheSchema defines the schema for merged book metadata, keyed by
// normalized title and author. not_found marks negative entries, which expire
// on the shorter negative TTL.
const MetadataCacheSchema = `
CREATE TABLE IF NOT EXISTS metadata_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	not_found INTEGER NOT NULL DEFAULT 0,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_metadata_cached_at ON metadata_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	MetadataCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	MetadataTable: true,
}
