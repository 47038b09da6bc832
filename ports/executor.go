package ports

import "context"

// NotebookExecutor runs one notebook end-to-end. The notebook is an opaque
// unit of work: a nil return means every cell executed cleanly, any error
// means the run failed (including a context deadline hit). Each execution
// owns its own kernel; nothing is shared across calls.
type NotebookExecutor interface {
	Execute(ctx context.Context, notebookPath string) error
}
