// Package mcp provides an MCP (Model Context Protocol) server adapter for promptbreeder.
// It lets AI assistants inspect runs, rate prompts and drive evolution.
package mcp

import "errors"

// ErrMissingBreederService is returned when the breeder service is not provided.
var ErrMissingBreederService = errors.New("mcp: breeder service is required")
