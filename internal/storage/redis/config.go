package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ProfileTTL applies to a profile and everything it owns. Each save
	// refreshes the TTL of the key written. Zero disables expiry.
	ProfileTTL time.Duration

	// SourceTTL applies to uploaded card sources, which only live until a
	// card is generated from them
	SourceTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		ProfileTTL:   30 * 24 * time.Hour,
		SourceTTL:    24 * time.Hour,
	}
}
