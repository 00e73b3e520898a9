// Package executor runs planned dispatch tasks as external processes.
//
// A phase hands RunAll its whole task list; processes launch in list order
// through a bounded pool and RunAll returns only when all of them have exited,
// which is the barrier between conversion and cleanup. Exit statuses are
// logged at debug level and counted, never acted on.
package executor
