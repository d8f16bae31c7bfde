// Package mcp provides an MCP (Model Context Protocol) server adapter for chatsift.
// It lets AI assistants search a loaded conversation export and read transcripts.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
