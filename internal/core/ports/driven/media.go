package driven

import "github.com/custodia-labs/chatsift/internal/core/domain"

// MediaStore holds loaded attachment content keyed by stored path.
// Every handle belongs to an owner and lives until that owner is released.
type MediaStore interface {
	// Put stores content under path for owner, replacing any previous entry.
	Put(owner, path string, data []byte) (*domain.MediaHandle, error)

	// Get returns the handle stored at exactly path.
	Get(path string) (*domain.MediaHandle, bool)

	// Paths returns every stored path in lexical order.
	Paths() []string

	// Release drops every handle owned by owner and returns how many were dropped.
	Release(owner string) int

	// Len returns the number of stored handles.
	Len() int
}
