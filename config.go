package main

import "time"

// Config holds the process-wide defaults for the CLI commands. It is a
// plain struct with constructor defaults, not a generic config-file parser:
// the scope here (a handful of knobs) does not warrant viper or similar.
type Config struct {
	// FullBufferThreshold is the file size, in bytes, at or below which "search"
	// reads the entire file into memory (OpenWithBuffer).
	FullBufferThreshold int64

	// PreloadVectorIndexThreshold is the file size, in bytes, at or below which
	// "search" preloads only the vector index into memory
	// (OpenWithVectorIndex) rather than leaving every lookup on the
	// file-only path. Must be larger than FullBufferThreshold.
	PreloadVectorIndexThreshold int64

	// CacheTTL is the default entry lifetime for regioncache when the
	// "search" command is invoked with -cache.
	CacheTTL time.Duration

	// CacheShards is the default bigcache shard count.
	CacheShards int
}

// DefaultConfig returns the CLI's baked-in defaults.
func DefaultConfig() Config {
	return Config{
		FullBufferThreshold:         8 << 20,  // 8 MiB
		PreloadVectorIndexThreshold: 64 << 20, // 64 MiB
		CacheTTL:                    10 * time.Minute,
		CacheShards:                 1024,
	}
}
