package domain

import "time"

// ArchiveContents is an export after decompression: the raw
// conversations.json document and the media files keyed by stored path.
type ArchiveContents struct {
	// Path is where the archive was read from.
	Path string

	// Checksum is the hex SHA-256 of conversations.json.
	Checksum string

	// Conversations is the raw conversations.json document.
	Conversations []byte

	// Media maps stored path to file content.
	Media map[string][]byte
}

// ArchiveRecord describes one completed archive load.
type ArchiveRecord struct {
	// ID is the load identifier; it also owns the loaded media handles.
	ID string

	// Path is the archive location.
	Path string

	// Checksum is the hex SHA-256 of conversations.json.
	Checksum string

	// Conversations is the number of conversations kept in the corpus.
	Conversations int

	// Dropped is the number of conversations skipped (malformed or empty).
	Dropped int

	// MediaFiles is the number of media files loaded.
	MediaFiles int

	// LoadedAt is when the load completed.
	LoadedAt time.Time
}

// Total returns the number of conversations present in the export.
func (r ArchiveRecord) Total() int {
	return r.Conversations + r.Dropped
}
