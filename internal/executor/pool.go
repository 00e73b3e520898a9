package executor

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"debloat/internal/dispatch"
	"debloat/internal/logging"
)

// Options configures a batch run.
type Options struct {
	// Workers caps concurrent processes; <= 0 uses runtime.NumCPU().
	Workers int
	Runner  Runner
	Logger  *slog.Logger
}

// Summary counts what a batch did. Non-zero exits are counted but never
// treated as failures of the batch.
type Summary struct {
	Launched      int
	NonZeroExits  int
	StartFailures int
	Duration      time.Duration
}

// ResolveWorkers applies the NumCPU default.
func ResolveWorkers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// RunAll launches tasks in order through a bounded pool and returns once every
// launched task has finished. Launching stops early only when ctx is done, in
// which case ctx.Err() is returned after the in-flight tasks are reaped.
func RunAll(ctx context.Context, tasks []dispatch.Task, opts Options) (Summary, error) {
	logger := logging.WithContext(ctx, opts.Logger)
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	var (
		launched      atomic.Int64
		nonZero       atomic.Int64
		startFailures atomic.Int64
	)

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(ResolveWorkers(opts.Workers))
	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			logger.Info(task.Kind.Message(),
				logging.String(logging.FieldPath, task.Source),
				logging.String("kind", string(task.Kind)),
			)
			out := runner.Run(ctx, task.Args)
			if !out.Started {
				startFailures.Add(1)
				logging.WarnWithContext(logger, "external tool failed to start", "task_start_failed",
					logging.String(logging.FieldPath, task.Source),
					logging.String("command", commandName(task.Args)),
					logging.Error(out.Err),
				)
				return nil
			}
			launched.Add(1)
			if out.ExitCode != 0 {
				nonZero.Add(1)
				logger.Debug("external tool exited non-zero",
					logging.String(logging.FieldPath, task.Source),
					logging.Int("exit_code", out.ExitCode),
					logging.String("stderr", out.Stderr),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{
		Launched:      int(launched.Load()),
		NonZeroExits:  int(nonZero.Load()),
		StartFailures: int(startFailures.Load()),
		Duration:      time.Since(start),
	}
	return summary, ctx.Err()
}

func commandName(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
