// Package app is the composition root for sleeve.
//
// # Overview
//
// Run wires configuration, logging, the album client and the presentation
// layer together, then blocks until the user quits or the context is
// cancelled.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config.toml and SLEEVE_* overrides
//	       ├─────> logging.Open()       Send logrus output to the log file
//	       ├─────> &http.Client{}       One shared transport for every fetch
//	       ├─────> albumapi.NewClient() Album repository over that transport
//	       ├─────> prefs.Load()         Saved theme
//	       └─────> ui.Run() or RunPicker()
//
// The shared HTTP client is released with CloseIdleConnections when Run
// returns.
//
// # Picker
//
// With Options.Pick set, Run skips the full-screen UI. RunPicker performs one
// list activation, asks for an album with a huh select field, performs one
// detail activation and prints the album as plain text. Either fetch failing
// prints the same generic message the UI shows and makes Run return an error.
//
// # Errors
//
// Fatal errors returned from Run:
//   - invalid configuration (bad TOML, timeout or base URL)
//   - the log file cannot be opened
//   - a picker fetch failed
//
// Fetch failures inside the UI are not fatal. They are shown on the screen
// and logged with their kind.
package app
