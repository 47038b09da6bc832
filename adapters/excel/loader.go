package excel

import (
	"fmt"

	"fairbench/domain/core"
	"fairbench/domain/dataset"
)

// LoaderConfig assigns dataset roles to the columns of a tabular file.
type LoaderConfig struct {
	FilePath          string
	TargetColumn      core.ColumnKey
	SensitiveFeatures []core.ColumnKey
	// StaticFeatures defaults to every non-target column in file order.
	StaticFeatures []core.ColumnKey
}

// FileLoader is a ports.Loader backed by an .xlsx or .csv file, read once at
// construction.
type FileLoader struct {
	frame     *dataset.Frame
	static    []core.ColumnKey
	sensitive []core.ColumnKey
	target    core.ColumnKey
}

// NewFileLoader reads the configured file and validates the role assignment.
func NewFileLoader(cfg LoaderConfig) (*FileLoader, error) {
	if cfg.TargetColumn == "" {
		return nil, fmt.Errorf("target column is required")
	}
	if len(cfg.SensitiveFeatures) == 0 {
		return nil, fmt.Errorf("at least one sensitive feature is required")
	}

	frame, err := NewDataReader(cfg.FilePath).ReadFrame()
	if err != nil {
		return nil, err
	}

	static := cfg.StaticFeatures
	if len(static) == 0 {
		for _, c := range frame.Columns() {
			if c != cfg.TargetColumn {
				static = append(static, c)
			}
		}
	}

	for _, c := range append(append([]core.ColumnKey{cfg.TargetColumn}, static...), cfg.SensitiveFeatures...) {
		if !frame.HasColumn(c) {
			return nil, fmt.Errorf("column %q not present in %s", c, cfg.FilePath)
		}
	}

	return &FileLoader{
		frame:     frame,
		static:    static,
		sensitive: cfg.SensitiveFeatures,
		target:    cfg.TargetColumn,
	}, nil
}

// StaticFeatures returns the feature column names.
func (l *FileLoader) StaticFeatures() []core.ColumnKey {
	return append([]core.ColumnKey(nil), l.static...)
}

// TargetColumn returns the label column name.
func (l *FileLoader) TargetColumn() core.ColumnKey {
	return l.target
}

// SensitiveFeatures returns the sensitive column names.
func (l *FileLoader) SensitiveFeatures() []core.ColumnKey {
	return append([]core.ColumnKey(nil), l.sensitive...)
}

// Columns materializes the requested columns.
func (l *FileLoader) Columns(keys ...core.ColumnKey) (*dataset.Frame, error) {
	return l.frame.Select(keys...)
}
