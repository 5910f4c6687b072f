// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under ~/.content-automation.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with environment overrides
//   - PromptStore: user-editable classification prompts
//   - Watcher: reloads both when their files change on disk
package file
