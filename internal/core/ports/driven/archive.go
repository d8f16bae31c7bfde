package driven

import (
	"context"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// ArchiveReader reads an exported archive (a .zip file or an extracted
// directory) into memory.
type ArchiveReader interface {
	// Read returns conversations.json and the media files of the archive.
	// Returns domain.ErrArchiveInvalid if conversations.json is missing.
	Read(ctx context.Context, path string) (*domain.ArchiveContents, error)
}

// ArchiveStore records completed archive loads.
// Backed by SQLite. It stores load metadata only, never the search index.
type ArchiveStore interface {
	// Record saves a load record.
	Record(ctx context.Context, rec domain.ArchiveRecord) error

	// List returns all records, newest first.
	List(ctx context.Context) ([]domain.ArchiveRecord, error)

	// Latest returns the most recent record.
	// Returns domain.ErrNotFound if nothing was recorded yet.
	Latest(ctx context.Context) (*domain.ArchiveRecord, error)

	// Close releases resources.
	Close() error
}
