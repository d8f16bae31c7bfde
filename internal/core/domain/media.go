package domain

import (
	"path"
	"strings"
)

// Service-style wrappers that exports put around attachment ids.
// "file-service://file-abc" refers to the stored file "file-abc-<name>".
var assetSchemes = []string{"file-service://", "sediment://"}

// MediaHandle is loaded attachment content.
// Handles belong to the archive load identified by Owner and stay valid
// until that owner is explicitly released.
type MediaHandle struct {
	// ID uniquely identifies the handle.
	ID string

	// Owner is the load that produced the handle.
	Owner string

	// Path is the stored path inside the archive.
	Path string

	// MIMEType is derived from the file extension.
	MIMEType string

	// Data is the raw file content.
	Data []byte
}

// Filename returns the final path segment of the stored path.
func (h *MediaHandle) Filename() string {
	return path.Base(h.Path)
}

// AttachmentID strips a service-style URI wrapper from an asset reference,
// returning the bare attachment id. References without a wrapper are
// returned unchanged.
func AttachmentID(ref string) string {
	for _, scheme := range assetSchemes {
		if strings.HasPrefix(ref, scheme) {
			return strings.TrimPrefix(ref, scheme)
		}
	}
	return ref
}

// MatchesAttachment reports whether storedPath holds the attachment id,
// following the "<anything>/<attachment-id>-<original-filename>" convention.
func MatchesAttachment(storedPath, attachmentID string) bool {
	if attachmentID == "" {
		return false
	}
	base := storedPath
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	return strings.HasPrefix(base, attachmentID+"-")
}
