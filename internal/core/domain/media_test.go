package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentID(t *testing.T) {
	assert.Equal(t, "file-abc", AttachmentID("file-service://file-abc"))
	assert.Equal(t, "file_00000000", AttachmentID("sediment://file_00000000"))
	assert.Equal(t, "file-abc", AttachmentID("file-abc"))
	assert.Equal(t, "https://x/y.png", AttachmentID("https://x/y.png"))
}

func TestMatchesAttachment(t *testing.T) {
	tests := []struct {
		path string
		id   string
		want bool
	}{
		{"file-abc-photo.png", "file-abc", true},
		{"user-1/file-abc-photo.png", "file-abc", true},
		{"file-abcdef-photo.png", "file-abc", false},
		{"file-abc.png", "file-abc", false},
		{"dir-file-abc/x.png", "file-abc", false},
		{"file-abc-photo.png", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesAttachment(tt.path, tt.id), "%s / %s", tt.path, tt.id)
	}
}

func TestMediaHandle_Filename(t *testing.T) {
	h := &MediaHandle{Path: "dalle-generations/file-1-cat.webp"}
	assert.Equal(t, "file-1-cat.webp", h.Filename())
}

func TestArchiveRecord_Total(t *testing.T) {
	assert.Equal(t, 7, ArchiveRecord{Conversations: 5, Dropped: 2}.Total())
}
