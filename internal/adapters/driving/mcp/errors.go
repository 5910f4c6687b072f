// Package mcp exposes the classification pipeline as Model Context Protocol
// tools so AI assistants can upload, classify, review and approve documents.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")

// ErrUnavailable is returned by tools whose port was not provided.
var ErrUnavailable = errors.New("mcp: tool not available")
