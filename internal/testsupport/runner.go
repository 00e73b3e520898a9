package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"debloat/internal/executor"
)

// SimulatedRunner stands in for ffmpeg, convert, sed and rm. It applies each
// tool's filesystem effect so pipeline tests can run without the binaries:
// converters write their output file, sed applies the reference rewrite and
// rm deletes. Tools are recognised by the base name of argv[0].
type SimulatedRunner struct {
	mu    sync.Mutex
	calls [][]string

	// Missing lists tool names that fail to start.
	Missing []string
	// ExitCode is reported for every started process.
	ExitCode int
}

// Run records args and simulates the tool.
func (r *SimulatedRunner) Run(_ context.Context, args []string) executor.Outcome {
	r.mu.Lock()
	r.calls = append(r.calls, slices.Clone(args))
	r.mu.Unlock()

	if len(args) == 0 {
		return executor.Outcome{Err: errors.New("empty command")}
	}
	name := filepath.Base(args[0])
	if slices.Contains(r.Missing, name) {
		return executor.Outcome{Err: fmt.Errorf("start %s: executable file not found", name)}
	}

	var err error
	switch name {
	case "ffmpeg":
		err = simulateTranscode(args, "OggS")
	case "convert":
		err = simulateTranscode(args, "\xff\xd8\xff")
	case "sed":
		err = simulateSed(args)
	case "rm":
		err = os.Remove(args[len(args)-1])
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
	}
	out := executor.Outcome{Started: true, ExitCode: r.ExitCode, Err: err}
	if err != nil && out.ExitCode == 0 {
		out.ExitCode = 1
	}
	return out
}

// Calls returns a copy of every argument vector seen so far.
func (r *SimulatedRunner) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// CallsFor returns the argument vectors whose argv[0] base name is tool.
func (r *SimulatedRunner) CallsFor(tool string) [][]string {
	var out [][]string
	for _, call := range r.Calls() {
		if len(call) > 0 && filepath.Base(call[0]) == tool {
			out = append(out, call)
		}
	}
	return out
}

func simulateTranscode(args []string, magic string) error {
	if len(args) < 3 {
		return errors.New("missing input or output")
	}
	input := args[len(args)-2]
	if i := slices.Index(args, "-i"); i >= 0 && i+1 < len(args) {
		input = args[i+1]
	}
	output := args[len(args)-1]
	if _, err := os.Stat(input); err != nil {
		return err
	}
	return os.WriteFile(output, []byte(magic), 0o644)
}

var sedReplacer = strings.NewReplacer(".jpeg", ".jpg", ".png", ".jpg", ".mp3", ".ogg")

func simulateSed(args []string) error {
	path := args[len(args)-1]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sedReplacer.Replace(string(data))), 0o644)
}
