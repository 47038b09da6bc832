// Package nbrun executes tutorial notebooks and reports pass/fail with
// timing. A notebook is an opaque unit of work: execution is delegated to a
// ports.NotebookExecutor and judged solely by its error return.
package nbrun

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fairbench/internal/errors"
	"fairbench/ports"
)

const notebookExt = ".ipynb"
const checkpointDir = ".ipynb_checkpoints"

// Runner executes notebooks one at a time. Per-notebook timing is always
// written to Out, on success and failure alike; errors are reported and then
// propagated, never swallowed.
type Runner struct {
	executor ports.NotebookExecutor
	timeout  time.Duration
	enabled  []string // name substrings to run; empty = run everything
	out      io.Writer
	now      func() time.Time
	ledger   ports.RunLedger // optional
}

// Option is functional configuration for NewRunner.
type Option func(*Runner)

// WithTimeout sets the per-notebook wall-clock limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithEnabled sets the allow-list of notebook-name substrings for directory
// runs. An empty list runs every notebook found.
func WithEnabled(substrings []string) Option {
	return func(r *Runner) { r.enabled = substrings }
}

// WithOutput redirects the runner's progress output.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithLedger records each notebook outcome to the given ledger.
func WithLedger(ledger ports.RunLedger) Option {
	return func(r *Runner) { r.ledger = ledger }
}

// NewRunner creates a runner around an executor.
func NewRunner(executor ports.NotebookExecutor, opts ...Option) *Runner {
	r := &Runner{
		executor: executor,
		timeout:  1800 * time.Second,
		out:      os.Stdout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunNotebook executes a single notebook under the configured timeout. The
// elapsed-time line is printed on every exit path; a cell failure prints a
// FAIL line and returns the error.
func (r *Runner) RunNotebook(ctx context.Context, path string) (err error) {
	start := r.now()
	defer func() {
		elapsed := r.now().Sub(start)
		fmt.Fprintf(r.out, "Tutorial %s took %s\n", path, elapsed.Round(time.Millisecond))
		if r.ledger != nil {
			detail := ""
			if err != nil {
				detail = err.Error()
			}
			if _, lerr := r.ledger.RecordNotebookRun(ctx, path, err == nil, detail, elapsed); lerr != nil {
				fmt.Fprintf(r.out, "ledger record for %s failed: %v\n", path, lerr)
			}
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if execErr := r.executor.Execute(runCtx, path); execErr != nil {
		fmt.Fprintf(r.out, "FAIL %s %v\n", path, execErr)
		err = errors.NotebookFailed(path, execErr)
		return err
	}
	return nil
}

// RunDir recursively executes every enabled notebook under dir in
// deterministic order, stopping at the first failure.
func (r *Runner) RunDir(ctx context.Context, dir string) error {
	notebooks, err := r.discover(dir)
	if err != nil {
		return err
	}
	for _, nb := range notebooks {
		if err := r.RunNotebook(ctx, nb); err != nil {
			return err
		}
	}
	return nil
}

// discover walks dir for notebooks, skipping checkpoint artifacts and
// anything not on the allow-list, returning paths in sorted order.
func (r *Runner) discover(dir string) ([]string, error) {
	var notebooks []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == checkpointDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != notebookExt {
			return nil
		}
		if !r.isEnabled(d.Name()) {
			return nil
		}
		notebooks = append(notebooks, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "discovering notebooks under %s", dir)
	}
	sort.Strings(notebooks)
	return notebooks, nil
}

func (r *Runner) isEnabled(name string) bool {
	if len(r.enabled) == 0 {
		return true
	}
	for _, substr := range r.enabled {
		if strings.Contains(name, substr) {
			return true
		}
	}
	return false
}
