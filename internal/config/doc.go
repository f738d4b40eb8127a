// Package config loads sleeve's startup configuration.
//
// # Configuration Discovery
//
// Load follows this order:
//
//  1. Start from built-in defaults
//  2. Read the TOML file (explicit path, or ~/.config/sleeve/config.toml);
//     a missing file is not an error
//  3. Apply SLEEVE_API_BASE, SLEEVE_TIMEOUT and SLEEVE_LOG_FILE from the
//     environment (cmd/sleeve loads a .env file into the environment first)
//  4. Validate the API base URL and expand the log file path
//
// # TOML Format
//
//	api_base   = "https://music.juanfrausto.com/api/"
//	timeout    = "10s"
//	log_file   = "~/.local/state/sleeve/sleeve.log"
//	user_agent = "sleeve/0.1"
//
// Every key is optional. Blank values fall back to defaults. The timeout is
// a Go duration string and applies to the shared HTTP client as a whole.
//
// # Errors
//
// Load fails on unreadable files, invalid TOML, a malformed or non-positive
// timeout, and an API base that is not an http(s) URL with a host.
package config
