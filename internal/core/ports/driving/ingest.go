package driving

import (
	"context"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// IngestService loads archives into the in-memory corpus.
type IngestService interface {
	// Load reads the archive at path, flattens every conversation and
	// replaces the corpus and loaded media wholesale.
	Load(ctx context.Context, path string) (*domain.ArchiveRecord, error)

	// Current returns the record of the active load, or nil.
	Current() *domain.ArchiveRecord

	// History lists previously recorded loads, newest first.
	History(ctx context.Context) ([]domain.ArchiveRecord, error)
}
