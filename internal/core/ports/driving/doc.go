// Package driving is the API the CLI, TUI and MCP server call.
// internal/core/services implements it.
package driving
