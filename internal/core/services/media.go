package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driven"
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
	"github.com/custodia-labs/chatsift/internal/logger"
)

// Ensure MediaService implements the interface.
var _ driving.MediaService = (*MediaService)(nil)

// MediaService resolves attachment references against the loaded media.
type MediaService struct {
	store driven.MediaStore
}

// NewMediaService creates a new media service.
func NewMediaService(store driven.MediaStore) *MediaService {
	return &MediaService{store: store}
}

// Resolve maps a reference to loaded media.
//
// An exact stored path wins. Otherwise any service-style wrapper
// ("file-service://", "sediment://") is stripped and the first stored path,
// in lexical order, whose file name starts with "<attachment-id>-" is used.
func (s *MediaService) Resolve(reference string) (*domain.MediaHandle, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: empty media reference", domain.ErrInvalidInput)
	}

	if h, ok := s.store.Get(reference); ok {
		return h, nil
	}

	id := domain.AttachmentID(reference)
	for _, p := range s.store.Paths() {
		if !domain.MatchesAttachment(p, id) {
			continue
		}
		if h, ok := s.store.Get(p); ok {
			logger.Debug("Resolved %s to %s", reference, p)
			return h, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", reference, domain.ErrMediaNotFound)
}

// Content returns the bytes of a handle, or domain.ErrMediaReleased once
// the load owning it has been released.
func (s *MediaService) Content(h *domain.MediaHandle) ([]byte, error) {
	if h == nil {
		return nil, domain.ErrInvalidInput
	}
	cur, ok := s.store.Get(h.Path)
	if !ok || cur.ID != h.ID {
		return nil, fmt.Errorf("%s: %w", h.Path, domain.ErrMediaReleased)
	}
	return cur.Data, nil
}
