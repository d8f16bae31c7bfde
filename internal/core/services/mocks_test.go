package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driven"
)

// mockArchiveReader serves canned archive contents by path.
type mockArchiveReader struct {
	archives map[string]*domain.ArchiveContents
	calls    int
}

var _ driven.ArchiveReader = (*mockArchiveReader)(nil)

func (m *mockArchiveReader) Read(_ context.Context, path string) (*domain.ArchiveContents, error) {
	m.calls++
	c, ok := m.archives[path]
	if !ok {
		return nil, domain.ErrArchiveInvalid
	}
	return c, nil
}

// failingArchiveStore rejects every write.
type failingArchiveStore struct{}

var _ driven.ArchiveStore = failingArchiveStore{}

func (failingArchiveStore) Record(context.Context, domain.ArchiveRecord) error {
	return errors.New("disk full")
}

func (failingArchiveStore) List(context.Context) ([]domain.ArchiveRecord, error) {
	return nil, errors.New("disk full")
}

func (failingArchiveStore) Latest(context.Context) (*domain.ArchiveRecord, error) {
	return nil, domain.ErrNotFound
}

func (failingArchiveStore) Close() error { return nil }

// exportJSON is a conversations.json document with two valid conversations,
// one without content, one without a root and one malformed entry.
const exportJSON = `[
  {
    "id": "conv-a",
    "title": "Cat pictures",
    "create_time": 1700000000,
    "mapping": {
      "r": {"id": "r", "message": null, "parent": null, "children": ["u"]},
      "u": {"id": "u", "parent": "r", "children": ["a"], "message": {
        "id": "u", "author": {"role": "user"}, "create_time": 1700000001,
        "content": {"content_type": "multimodal_text", "parts": [
          {"content_type": "image_asset_pointer", "asset_pointer": "file-service://file-cat123"},
          "What breed is this cat?"
        ]}}},
      "a": {"id": "a", "parent": "u", "children": [], "message": {
        "id": "a", "author": {"role": "assistant"}, "create_time": 1700000002,
        "content": {"content_type": "text", "parts": ["It looks like a Maine Coon."]}}}
    }
  },
  {
    "conversation_id": "conv-b",
    "title": "Go channels",
    "create_time": 1700100000,
    "mapping": {
      "r": {"id": "r", "message": null, "parent": null, "children": ["u"]},
      "u": {"id": "u", "parent": "r", "children": [], "message": {
        "id": "u", "author": {"role": "user"},
        "content": {"content_type": "text", "parts": ["How do buffered channels work?"]}}}
    }
  },
  {
    "id": "conv-empty",
    "title": "System only",
    "mapping": {
      "r": {"id": "r", "parent": null, "children": [], "message": {
        "id": "s", "author": {"role": "system"},
        "content": {"content_type": "text", "parts": ["be nice"]}}}
    }
  },
  {
    "id": "conv-rootless",
    "mapping": {
      "x": {"id": "x", "parent": "y", "children": [], "message": {
        "id": "x", "author": {"role": "user"},
        "content": {"content_type": "text", "parts": ["orphan"]}}}
    }
  },
  {"id": "conv-bad", "mapping": ["not", "an", "object"]}
]`

func testArchive(path string) *domain.ArchiveContents {
	return &domain.ArchiveContents{
		Path:          path,
		Checksum:      "abc123",
		Conversations: []byte(exportJSON),
		Media: map[string][]byte{
			"file-cat123-IMG_0001.jpeg":  []byte("jpeg-bytes"),
			"dalle/file-xyz-picture.png": []byte("png-bytes"),
		},
	}
}
