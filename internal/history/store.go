package history

import (
	"context"
	"time"
)

// Store remembers documents that were indexed successfully so they can be
// uploaded again without browsing for them
type Store interface {
	// Record stores or refreshes an entry, keyed by its path
	Record(ctx context.Context, entry Entry) error

	// Recent returns up to limit entries, most recently indexed first
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Forget removes the entry for path
	Forget(ctx context.Context, path string) error

	// Close closes the database connection
	Close() error
}

type Entry struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Pages     int       `json:"pages"`
	IndexedAt time.Time `json:"indexed_at"`
}
