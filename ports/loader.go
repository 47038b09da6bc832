package ports

import (
	"fairbench/domain/core"
	"fairbench/domain/dataset"
)

// Loader exposes a tabular dataset to the fairness scorers. It replaces the
// duck-typed loader object of earlier tooling with an explicit contract: the
// feature column list, the target column, the sensitive columns, and
// column-indexed access to the data itself. Implementations are read-only
// from the scorer's perspective.
type Loader interface {
	// StaticFeatures returns the ordered feature column names.
	StaticFeatures() []core.ColumnKey

	// TargetColumn returns the binary label column name.
	TargetColumn() core.ColumnKey

	// SensitiveFeatures returns the ordered sensitive-attribute column names.
	SensitiveFeatures() []core.ColumnKey

	// Columns materializes the requested columns as a frame, preserving row
	// order across calls.
	Columns(keys ...core.ColumnKey) (*dataset.Frame, error)
}
