// Package file provides filesystem-backed driven adapters.
//
// Adapters:
//   - ConfigStore: TOML settings at ~/.promptbreeder/config.toml
//   - PromptStore: editable oracle prompt templates
package file
