// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: User-editable prompt files with embedded defaults
//   - PromptWatcher: Reloads the PromptStore when prompt files change
package file
