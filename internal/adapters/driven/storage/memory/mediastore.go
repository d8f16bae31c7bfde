package memory

import (
	"fmt"
	"mime"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driven"
)

// Ensure MediaStore implements the interface.
var _ driven.MediaStore = (*MediaStore)(nil)

// mimeTypes covers the extensions found in exports; mime.TypeByExtension
// depends on the host's tables and misses some of them.
var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
}

// MediaStore is an in-memory implementation of driven.MediaStore.
type MediaStore struct {
	mu      sync.RWMutex
	handles map[string]*domain.MediaHandle
}

// NewMediaStore creates a new in-memory media store.
func NewMediaStore() *MediaStore {
	return &MediaStore{
		handles: make(map[string]*domain.MediaHandle),
	}
}

// Put stores content under path for owner.
func (s *MediaStore) Put(owner, p string, data []byte) (*domain.MediaHandle, error) {
	if owner == "" || p == "" {
		return nil, fmt.Errorf("%w: media owner and path are required", domain.ErrInvalidInput)
	}

	h := &domain.MediaHandle{
		ID:       uuid.NewString(),
		Owner:    owner,
		Path:     p,
		MIMEType: MIMEType(p),
		Data:     data,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[p] = h
	return h, nil
}

// Get returns the handle stored at exactly path.
func (s *MediaStore) Get(p string) (*domain.MediaHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handles[p]
	return h, ok
}

// Paths returns every stored path in lexical order.
func (s *MediaStore) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.handles))
	for p := range s.handles {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Release drops every handle owned by owner.
func (s *MediaStore) Release(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for p, h := range s.handles {
		if h.Owner == owner {
			delete(s.handles, p)
			n++
		}
	}
	return n
}

// Len returns the number of stored handles.
func (s *MediaStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handles)
}

// MIMEType derives a content type from the extension of p.
func MIMEType(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if t, ok := mimeTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
