// Package entries caches the last fetched journal snapshot in the local
// sqlite database so the dashboard can be shown while the server is down.
package entries

import (
	"context"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
)

// Repository stores journal entries by id.
type Repository interface {
	// Upsert inserts the entry or overwrites the cached copy with the same id.
	Upsert(ctx context.Context, entry models.JournalEntry) error

	// GetAll returns cached entries newest-first.
	GetAll(ctx context.Context) ([]models.JournalEntry, error)

	// DeleteAll empties the cache.
	DeleteAll(ctx context.Context) error
}
