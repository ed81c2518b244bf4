package store

import "github.com/ayoisaiah/studyfocus/internal/models"

// DB is the local snapshot storage interface.
type DB interface {
	// SaveSnapshot overwrites the stored snapshot. It returns once the write
	// is durable.
	SaveSnapshot(snap *models.Snapshot) error
	// LoadSnapshot returns the stored snapshot, or nil if there is none
	LoadSnapshot() (*models.Snapshot, error)
	// DeleteSnapshot removes the stored snapshot
	DeleteSnapshot() error
	// Close ends the database connection
	Close() error
}
