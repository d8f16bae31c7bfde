package driving

import "github.com/custodia-labs/chatsift/internal/core/domain"

// MediaService resolves attachment references against loaded media.
type MediaService interface {
	// Resolve maps a stored path or an asset pointer to loaded content.
	// Returns domain.ErrMediaNotFound if nothing matches.
	Resolve(reference string) (*domain.MediaHandle, error)

	// Content returns the bytes behind a handle.
	// Returns domain.ErrMediaReleased if the owning load was released.
	Content(h *domain.MediaHandle) ([]byte, error)
}
