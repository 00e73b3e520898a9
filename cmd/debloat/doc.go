// Package main hosts the debloat CLI entrypoint and command graph.
//
// Running the binary with no subcommand performs one pass over the song
// library: new packs get their banners moved, media converted and leftovers
// deleted, then the ledger is rewritten. The remaining commands inspect that
// state (status, history), verify the environment (check) and scaffold the
// configuration file.
//
// Keep this package lean: pipeline behaviour lives in internal/pipeline and
// the commands here only wire config, logging, locking and persistence.
package main
