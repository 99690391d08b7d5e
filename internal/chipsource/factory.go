package chipsource

import (
	"os"
	"strings"
)

// NewFromEnv selects a chip source backend from CHIPSOURCE_MODE
// ("memory", "sqlite", "postgres"), defaulting to memory.
func NewFromEnv() (Source, string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("CHIPSOURCE_MODE")))
	switch mode {
	case "", "memory":
		return NewMemorySource(), "memory", nil
	case "sqlite":
		path := os.Getenv("CHIPSOURCE_SQLITE_PATH")
		if path == "" {
			path = "chipsource.db"
		}
		src, err := NewSQLiteSource(path)
		if err != nil {
			return nil, "", err
		}
		return src, "sqlite", nil
	case "postgres":
		dsn := os.Getenv("CHIPSOURCE_POSTGRES_DSN")
		src, err := NewPostgresSource(dsn)
		if err != nil {
			return nil, "", err
		}
		return src, "postgres", nil
	default:
		return NewMemorySource(), "memory", nil
	}
}
