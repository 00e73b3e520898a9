// Package pipeline runs one pass over the song library.
//
// A pass discovers the library entries missing from the ledger, moves their
// banners into info/, converts media across the whole batch, waits, deletes
// the superfluous leftovers, waits again and finally returns a state whose
// ledger records the batch. Callers own persistence: the returned ledger is
// saved by the CLI only when Run reports no error.
package pipeline
