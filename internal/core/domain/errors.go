package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoRoot indicates a conversation graph has no parent-less node.
	ErrNoRoot = errors.New("conversation graph has no root")

	// ErrNoContent indicates a conversation flattened to zero messages.
	// Callers treat it as "skip", not as a failure.
	ErrNoContent = errors.New("conversation has no content")

	// Archive Errors.

	// ErrNoArchive indicates no archive path was given or configured.
	ErrNoArchive = errors.New("no archive configured")

	// ErrArchiveInvalid indicates the archive lacks conversations.json or it is unparseable.
	ErrArchiveInvalid = errors.New("invalid archive")

	// ErrMediaNotFound indicates an attachment reference did not resolve.
	ErrMediaNotFound = errors.New("media not found")

	// ErrMediaReleased indicates a media handle was used after release.
	ErrMediaReleased = errors.New("media released")
)
