package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

func TestMediaStore_PutAndGet(t *testing.T) {
	store := NewMediaStore()

	h, err := store.Put("load-1", "images/file-a-cat.JPG", []byte("data"))
	require.NoError(t, err)

	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "load-1", h.Owner)
	assert.Equal(t, "image/jpeg", h.MIMEType)
	assert.Equal(t, "file-a-cat.JPG", h.Filename())

	got, ok := store.Get("images/file-a-cat.JPG")
	require.True(t, ok)
	assert.Same(t, h, got)

	_, ok = store.Get("file-a-cat.JPG")
	assert.False(t, ok, "lookup is by exact stored path")
}

func TestMediaStore_PutValidates(t *testing.T) {
	store := NewMediaStore()

	_, err := store.Put("", "a.png", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = store.Put("owner", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, store.Len())
}

func TestMediaStore_PathsSorted(t *testing.T) {
	store := NewMediaStore()
	for _, p := range []string{"c.png", "a.png", "b/x.wav"} {
		_, err := store.Put("o", p, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a.png", "b/x.wav", "c.png"}, store.Paths())
}

func TestMediaStore_ReleaseByOwner(t *testing.T) {
	store := NewMediaStore()
	_, _ = store.Put("old", "a.png", nil)
	_, _ = store.Put("old", "b.png", nil)
	_, _ = store.Put("new", "c.png", nil)
	// Re-putting a path transfers it to the new owner
	_, _ = store.Put("new", "b.png", nil)

	assert.Equal(t, 1, store.Release("old"))
	assert.Equal(t, []string{"b.png", "c.png"}, store.Paths())
	assert.Equal(t, 0, store.Release("missing"))
	assert.Equal(t, 2, store.Release("new"))
	assert.Equal(t, 0, store.Len())
}

func TestMIMEType(t *testing.T) {
	tests := map[string]string{
		"a.png":     "image/png",
		"a.jpeg":    "image/jpeg",
		"a.webp":    "image/webp",
		"a.gif":     "image/gif",
		"a.wav":     "audio/wav",
		"a.mp3":     "audio/mpeg",
		"a.mp4":     "video/mp4",
		"noext":     "application/octet-stream",
		"a.unknown": "application/octet-stream",
	}
	for p, want := range tests {
		assert.Equal(t, want, MIMEType(p), p)
	}
}

func TestMediaStore_Concurrency(t *testing.T) {
	store := NewMediaStore()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p := string(rune('a'+id)) + ".png"
			_, _ = store.Put("o", p, nil)
			_, _ = store.Get(p)
			_ = store.Paths()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 10, store.Len())
}
