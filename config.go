package router

import "time"

// Config consolidates every tunable listed in spec.md §6.
type Config struct {
	Cache         CacheConfig         `json:"cache"`
	Selector      SelectorConfig      `json:"selector"`
	PartitionScan PartitionScanConfig `json:"partitionScan"`
	Dialect       DialectConfig       `json:"dialect"`
	Catalog       CatalogConfig       `json:"catalog"`
}

// CacheConfig controls the result cache (spec.md §4.4).
type CacheConfig struct {
	MaxEntries int           `json:"maxEntries"`
	TTL        time.Duration `json:"ttl"` // 0 disables TTL expiration
}

// SelectorConfig controls the cost model and backend selector (spec.md §4.3).
type SelectorConfig struct {
	MemoryLimitVectorizedBytes int64 `json:"memoryLimitVectorizedBytes"`
	MemoryLimitParallelBytes   int64 `json:"memoryLimitParallelBytes"`
	DistributedNodes           int   `json:"distributedNodes"`
}

// PartitionScanConfig controls partition-index walking.
type PartitionScanConfig struct {
	Parallelism int    `json:"parallelism"`
	S3Region    string `json:"s3Region"`
	S3Endpoint  string `json:"s3Endpoint"`
}

// DialectConfig selects the accepted SQL dialect for Parse.
type DialectConfig struct {
	Default string `json:"default"` // "generic", "postgres", "duckdb"
}

// CatalogConfig controls optional durable Catalog persistence.
type CatalogConfig struct {
	PostgresDSN string `json:"postgresDsn"` // empty disables durable persistence
}

// DefaultConfig returns the documented defaults from spec.md §6.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			MaxEntries: 100,
			TTL:        3600 * time.Second,
		},
		Selector: SelectorConfig{
			MemoryLimitVectorizedBytes: 8 * 1024 * 1024 * 1024,
			MemoryLimitParallelBytes:   64 * 1024 * 1024 * 1024,
			DistributedNodes:           1,
		},
		PartitionScan: PartitionScanConfig{
			Parallelism: 1,
		},
		Dialect: DialectConfig{
			Default: "generic",
		},
	}
}

// Validate checks the configuration for internally-consistent values.
func (c *Config) Validate() error {
	if c.Cache.MaxEntries <= 0 {
		return &ConfigError{Field: "cache.maxEntries", Message: "must be greater than 0"}
	}
	if c.Cache.TTL < 0 {
		return &ConfigError{Field: "cache.ttl", Message: "must be greater than or equal to 0"}
	}
	if c.Selector.MemoryLimitVectorizedBytes <= 0 {
		return &ConfigError{Field: "selector.memoryLimitBytes.vectorized", Message: "must be greater than 0"}
	}
	if c.Selector.MemoryLimitParallelBytes <= 0 {
		return &ConfigError{Field: "selector.memoryLimitBytes.parallel", Message: "must be greater than 0"}
	}
	if c.Selector.DistributedNodes <= 0 {
		return &ConfigError{Field: "selector.distributedNodes", Message: "must be greater than 0"}
	}
	if c.PartitionScan.Parallelism <= 0 {
		return &ConfigError{Field: "partitionScan.parallelism", Message: "must be greater than 0"}
	}
	switch c.Dialect.Default {
	case "generic", "postgres", "duckdb":
	default:
		return &ConfigError{Field: "dialect.default", Message: "must be one of generic, postgres, duckdb"}
	}
	return nil
}

// ConfigError reports a single invalid configuration field.
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return "config validation error for field '" + e.Field + "': " + e.Message
}
