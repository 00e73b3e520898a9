// Package ledger persists the set of library packs that have already been
// debloated.
//
// The ledger file holds one pack name per line. It is only rewritten once a
// whole run has finished, so an interrupted run records nothing and the next
// run retries every pack it had discovered. An advisory lock beside the file
// keeps two runs from working the same library at once.
package ledger
