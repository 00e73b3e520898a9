package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// stderrTailLimit bounds how much child stderr is kept for debug logging.
const stderrTailLimit = 4 * 1024

// Outcome describes a finished external process.
type Outcome struct {
	// Started is false when the process could not be launched at all.
	Started  bool
	ExitCode int
	Err      error
	Stderr   string
	Duration time.Duration
}

// Runner launches one external process and waits for it.
type Runner interface {
	Run(ctx context.Context, args []string) Outcome
}

// ExecRunner runs argument vectors with os/exec. Child stdout is discarded and
// the tail of stderr is kept on the outcome.
type ExecRunner struct{}

// Run executes args[0] with the remaining arguments.
func (ExecRunner) Run(ctx context.Context, args []string) Outcome {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return Outcome{Err: errors.New("empty command")}
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	stderr := &tailBuffer{limit: stderrTailLimit}
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return Outcome{Err: fmt.Errorf("start %s: %w", args[0], err), Duration: time.Since(start)}
	}
	err := cmd.Wait()
	out := Outcome{
		Started:  true,
		Err:      err,
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}
	return out
}

type tailBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}
