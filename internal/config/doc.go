// Package config loads shakeit's configuration.
//
// # Configuration Discovery
//
// Load resolves settings in this order, later sources winning:
//
//  1. Built-in defaults
//  2. The TOML file (explicit path, else ~/.config/shakeit/config.toml)
//  3. SHAKEIT_API_BASE, SHAKEIT_DATABASE_PATH and SHAKEIT_LOG_LEVEL
//
// A missing config file is not an error. LoadEnvFile can populate the
// environment from a .env file before Load runs.
//
// # Default Values
//
//   - API base: https://www.thecocktaildb.com/api/json/v1/1/
//   - Favorites database: ~/.local/share/shakeit/favorites.db
//   - Log level: info
//
// # TOML Format
//
//	api_base = "https://www.thecocktaildb.com/api/json/v1/1/"
//	database_path = "~/.local/share/shakeit/favorites.db"
//	log_level = "debug"
//
// All fields are optional. Tilde expansion is applied to paths; the special
// database path ":memory:" is passed through unchanged.
package config
