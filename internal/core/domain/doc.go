// Package domain defines the core business entities for chatsift.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Graph: The parent/child node mapping of one exported conversation
//   - Message: A single authored message with tagged content parts
//   - FlatConversation: The linear transcript the rest of the system searches
//   - MatchResult: A lexical match with score and character offsets
//   - MediaHandle: Loaded attachment content owned by an archive load
//
// The JSON decoding of the export format lives here too (export.go) because
// it only needs encoding/json and produces domain values directly.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
