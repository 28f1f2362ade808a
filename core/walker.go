package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/huangsam/regsweep/core/agg"
	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/schema"
	"github.com/sourcegraph/conc/pool"
)

// step is one unit of walk output, in discovery order. Exactly one of
// header and fixture is set.
type step struct {
	header  string
	fixture *schema.Fixture
}

// outcome is what a worker hands back to the emitter for one fixture.
type outcome struct {
	result schema.InvocationResult
	err    error
}

// ResultHook observes every recorded invocation result in discovery order.
type ResultHook func(schema.InvocationResult)

// Walker drives one sweep over the inputs tree.
type Walker struct {
	cfg        *contract.Config
	invoker    contract.Invoker
	aggregator *agg.Aggregator
	progress   io.Writer
	hooks      []ResultHook

	relocationErrors atomic.Int64
}

// NewWalker creates a Walker that reports progress to the given writer.
func NewWalker(cfg *contract.Config, invoker contract.Invoker, aggregator *agg.Aggregator, progress io.Writer) *Walker {
	if progress == nil {
		progress = os.Stdout
	}
	return &Walker{
		cfg:        cfg,
		invoker:    invoker,
		aggregator: aggregator,
		progress:   progress,
	}
}

// OnResult registers a hook that runs after each result is aggregated.
func (w *Walker) OnResult(hook ResultHook) {
	w.hooks = append(w.hooks, hook)
}

// RelocationErrors returns how many log relocations failed with a real I/O fault.
func (w *Walker) RelocationErrors() int {
	return int(w.relocationErrors.Load())
}

// Walk invokes the tool once per fixture. It stops early only on a contract
// violation or when ctx is cancelled; ordinary run failures are recorded.
func (w *Walker) Walk(ctx context.Context) error {
	steps, err := discover(w.cfg.InputsRoot(), "")
	if err != nil {
		return err
	}
	contract.Logger().Debug("discovered fixture tree", "steps", len(steps), "workers", w.cfg.Workers)

	if w.cfg.Workers <= 1 {
		return w.walkSequential(ctx, steps)
	}
	return w.walkParallel(ctx, steps)
}

// discover lists the inputs tree depth-first with entries sorted by name.
// Directory headers precede the fixtures they contain. Only an unreadable
// inputs root is an error; a subdirectory that cannot be listed is skipped.
func discover(inputsRoot, relDir string) ([]step, error) {
	dir := filepath.Join(inputsRoot, relDir)
	entries, err := os.ReadDir(dir) // sorted by filename
	if err != nil && relDir == "" {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var steps []step
	if relDir != "" {
		steps = append(steps, step{header: dir})
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping unreadable directory %s", dir), err)
			return steps, nil
		}
	}
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		// Stat follows symlinks so a linked directory is walked like a real one.
		// A dangling link stays a fixture and fails when the tool runs on it.
		info, err := os.Stat(full)
		if err != nil {
			if info, err = entry.Info(); err != nil {
				contract.LogWarn(fmt.Sprintf("Cannot stat %s", full), err)
				steps = append(steps, step{fixture: &schema.Fixture{
					Path:     full,
					RelDir:   relDir,
					Name:     entry.Name(),
					Category: contract.CategoryOf(relDir),
				}})
				continue
			}
		}
		if info.IsDir() {
			sub, err := discover(inputsRoot, filepath.Join(relDir, entry.Name()))
			if err != nil {
				return nil, err
			}
			steps = append(steps, sub...)
			continue
		}
		steps = append(steps, step{fixture: &schema.Fixture{
			Path:      full,
			RelDir:    relDir,
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			Category:  contract.CategoryOf(relDir),
		}})
	}
	return steps, nil
}

func (w *Walker) walkSequential(ctx context.Context, steps []step) error {
	for _, s := range steps {
		if s.header != "" {
			w.emitHeader(s.header)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := w.runFixture(ctx, *s.fixture)
		if err != nil {
			return err
		}
		w.emitResult(result)
	}
	return nil
}

// walkParallel runs fixtures on a bounded pool while a single emitter
// prints headers and markers and feeds the aggregator in discovery order.
func (w *Walker) walkParallel(ctx context.Context, steps []step) error {
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(w.cfg.Workers)

	slots := make([]chan outcome, len(steps))
	for i, s := range steps {
		if s.fixture != nil {
			slots[i] = make(chan outcome, 1)
		}
	}

	submitted := make(chan struct{})
	go func() {
		defer close(submitted)
		for i, s := range steps {
			if s.fixture == nil {
				continue
			}
			fixture, slot := *s.fixture, slots[i]
			p.Go(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					slot <- outcome{err: err}
					return err
				}
				result, err := w.runFixture(ctx, fixture)
				slot <- outcome{result: result, err: err}
				return err
			})
		}
	}()

	var emitErr error
	for i, s := range steps {
		if s.header != "" {
			w.emitHeader(s.header)
			continue
		}
		o := <-slots[i]
		if o.err != nil {
			emitErr = o.err
			break
		}
		w.emitResult(o.result)
	}

	<-submitted
	if err := p.Wait(); err != nil {
		return err
	}
	return emitErr
}

// runFixture prepares the output directory, invokes the tool and moves the
// shared log artifact next to the captures.
func (w *Walker) runFixture(ctx context.Context, fixture schema.Fixture) (schema.InvocationResult, error) {
	dir, prefix := fixtureOutputPaths(w.cfg.OutputsRoot(), fixture)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		contract.LogWarn(fmt.Sprintf("Cannot create output directory %s", dir), err)
	}

	result := w.invoker.Invoke(ctx, schema.InvocationRequest{
		ToolPath:     w.cfg.ToolPath,
		Fixture:      fixture,
		OutputPrefix: prefix,
		WorkDir:      w.cfg.WorkDir,
		ExtraArgs:    w.cfg.ExtraArgs,
		Timeout:      w.cfg.Timeout,
	})
	contract.Logger().Debug("invocation finished",
		"fixture", fixture.Path, "outcome", describeFailure(result), "elapsed", result.Elapsed)

	if !result.Success {
		return result, nil
	}

	if !LogArtifactExists(dir, w.cfg.LogName) {
		return result, fmt.Errorf("%w: %s exited 0 on %s but left no %s in %s",
			contract.ErrContractViolation, w.cfg.ToolPath, fixture.Path, w.cfg.LogName, dir)
	}
	if err := RelocateLog(dir, fixture.Name, w.cfg.LogName); err != nil {
		w.relocationErrors.Add(1)
		contract.LogWarn("Log relocation failed", err)
	}
	return result, nil
}

func (w *Walker) emitHeader(dir string) {
	line := "Testing in " + dir
	if w.cfg.UseColors {
		line = contract.HeaderColor.Sprint(line)
	}
	_, _ = fmt.Fprintf(w.progress, "\n%s\n", line)
}

func (w *Walker) emitResult(result schema.InvocationResult) {
	marker := contract.GetPlainMarker(result.Success)
	if w.cfg.UseColors {
		marker = contract.GetColorMarker(result.Success)
	}
	_, _ = io.WriteString(w.progress, marker)

	w.aggregator.Record(result)
	for _, hook := range w.hooks {
		hook(result)
	}
}
