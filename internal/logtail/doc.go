// Package logtail reads the end of the snipbox log file.
//
// Read keeps a ring buffer of maxLines entries so large logs are scanned in
// one pass with bounded memory. AtLeast filters lines written by the slog
// text handler by their level= attribute, which is how the -logs flag hides
// debug noise.
package logtail
