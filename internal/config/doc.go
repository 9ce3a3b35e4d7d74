// Package config loads snipbox settings.
//
// # Resolution
//
// Load builds a Config in layers:
//
//  1. Hardcoded defaults
//  2. The TOML file (explicit path, else ~/.config/snipbox/config.toml);
//     a missing file is not an error and empty values keep the default
//  3. SNIPBOX_* environment variables, which may come from a .env file
//     loaded with LoadDotenv
//
// # Defaults
//
//   - Config file: ~/.config/snipbox/config.toml
//   - Data directory: ~/.local/share/snipbox
//   - Backend: bolt (<data_dir>/snippets.db); sqlite uses <data_dir>/snippets.sqlite
//   - Export directory: the current directory
//   - Log file: <data_dir>/snipbox.log at level info
//
// # TOML Format
//
//	data_dir = "~/.local/share/snipbox"
//	backend = "bolt"            # or "sqlite"
//	export_dir = "~/Downloads"
//	strict_import = false
//	log_level = "info"          # debug, info, warn, error
//
// All fields are optional. Values are trimmed and paths are tilde-expanded
// and made absolute.
//
// # Environment
//
//	SNIPBOX_DATA_DIR, SNIPBOX_BACKEND, SNIPBOX_EXPORT_DIR,
//	SNIPBOX_STRICT_IMPORT (any strconv.ParseBool value), SNIPBOX_LOG_LEVEL
//
// An unknown backend, log level or boolean is reported as an error rather
// than silently replaced.
package config
