// Package jupyter executes notebooks by shelling out to nbconvert.
package jupyter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Executor runs notebooks via `jupyter nbconvert --execute`. Each call spawns
// its own kernel; nothing is shared between executions. The caller bounds the
// run through the context deadline.
type Executor struct {
	bin     string // jupyter executable
	workDir string // working directory for cell execution
}

// NewExecutor creates an executor. bin defaults to "jupyter" when empty;
// workDir is the tutorials root the notebooks expect to run from.
func NewExecutor(bin, workDir string) *Executor {
	if bin == "" {
		bin = "jupyter"
	}
	return &Executor{bin: bin, workDir: workDir}
}

// Execute runs every cell of the notebook. The executed copy goes to stdout
// of the subprocess and is discarded; only the error outcome matters.
func (e *Executor) Execute(ctx context.Context, notebookPath string) error {
	cmd := exec.CommandContext(ctx, e.bin,
		"nbconvert",
		"--to", "notebook",
		"--execute",
		"--stdout",
		notebookPath,
	)
	cmd.Dir = e.workDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("notebook execution timed out: %w", ctx.Err())
		}
		if stderr.Len() > 0 {
			return fmt.Errorf("nbconvert: %v: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return fmt.Errorf("nbconvert: %w", err)
	}
	return nil
}
