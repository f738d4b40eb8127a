// Package logtail reads the end of sleeve's log file for the diagnostics
// view.
//
// Read returns the last N lines of a file in chronological order using a
// window of N lines, so memory use does not grow with the file. ReadMatching
// applies a substring filter first; the UI uses it to show only the lines of
// the current screen activation.
//
// A missing file is not an error: logging may not have written anything yet.
//
//	lines, err := logtail.ReadMatching(cfg.LogFile, 200, "activation:"+id)
package logtail
