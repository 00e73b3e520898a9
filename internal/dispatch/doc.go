// Package dispatch decides which external process, if any, each library file
// gets.
//
// Rules are data: an extension set, an exclusion predicate, and a builder that
// produces the exact argument vector for ffmpeg, ImageMagick convert, sed, or
// rm. Extension matching is case sensitive. Files whose parent directory is
// named "Songs" or "info" are never touched, and "Sort.txt" survives cleanup.
package dispatch
