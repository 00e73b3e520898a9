// Package history journals completed runs in a small SQLite database.
//
// Each run stores its counts plus the pack names it recorded so
// `debloat history` can show when a pack was processed. The schema is
// versioned; a mismatched database yields ErrSchemaMismatch and must be
// removed by hand.
package history
