package bolt

import "time"

// Config holds the embedded database settings
type Config struct {
	// Path is the database file, created if missing
	Path string

	// Timeout bounds how long Open waits for the file lock
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for the embedded database
func DefaultConfig() Config {
	return Config{
		Path:    "bingo.db",
		Timeout: 3 * time.Second,
	}
}
