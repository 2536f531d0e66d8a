// Package mcp provides an MCP (Model Context Protocol) server adapter
// for docmunch. It lets AI assistants like Claude browse and search the
// section catalogues of indexed repositories.
package mcp

import "errors"

// ErrMissingTocService is returned when the toc service is not provided.
var ErrMissingTocService = errors.New("mcp: toc service is required")

// ErrMissingSectionService is returned when the section service is not provided.
var ErrMissingSectionService = errors.New("mcp: section service is required")
