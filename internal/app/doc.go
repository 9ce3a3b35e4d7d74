// Package app is the composition root for snipbox.
//
// Open loads configuration (.env, config.toml, SNIPBOX_* overrides), opens
// the storage slot for the configured backend, restores the saved collection
// into a state.Store and builds the engine on top of it. A collection that
// cannot be parsed stops startup with an error so the stored data is never
// overwritten.
//
// Run starts the Bubble Tea UI. A failed write is logged and shown in the
// header; the next mutation writes the whole collection again. Export,
// Import, List and Logs are the headless entry points behind the
// command-line flags.
//
// Logs are written with log/slog to <data_dir>/snipbox.log; the terminal
// belongs to the UI.
package app
