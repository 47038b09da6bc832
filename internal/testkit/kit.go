// Package testkit provides deterministic synthetic fixtures and in-memory
// adapters for tests and demos.
package testkit

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"fairbench/domain/core"
	"fairbench/domain/dataset"
)

// SyntheticOptions configures synthetic dataset generation.
type SyntheticOptions struct {
	Rows      int
	Groups    int     // distinct values of the sensitive feature
	GroupBias float64 // per-group shift of the outcome logit; 0 = fair data
	Seed      int64
}

// SyntheticLoader is a ports.Loader over a generated patient-style dataset
// with a sensitive group column whose influence on the outcome is tunable.
type SyntheticLoader struct {
	frame     *dataset.Frame
	static    []core.ColumnKey
	sensitive []core.ColumnKey
	target    core.ColumnKey
}

// NewSyntheticLoader generates a deterministic synthetic dataset. The outcome
// depends on severity and age plus GroupBias times the group index, so a
// nonzero bias makes the sensitive feature genuinely predictive.
func NewSyntheticLoader(opts SyntheticOptions) *SyntheticLoader {
	if opts.Rows <= 0 {
		opts.Rows = 500
	}
	if opts.Groups <= 0 {
		opts.Groups = 2
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	normal := distuv.Normal{Mu: 0, Sigma: 1}

	static := []core.ColumnKey{"age", "severity", "prior_visits", "group", "is_dead_at_time_horizon=14"}
	target := core.ColumnKey("readmitted")

	cols := map[core.ColumnKey][]float64{}
	all := append(append([]core.ColumnKey(nil), static...), target)
	for _, c := range all {
		cols[c] = make([]float64, opts.Rows)
	}

	for i := 0; i < opts.Rows; i++ {
		age := 50 + 12*normal.Quantile(rng.Float64())
		severity := normal.Quantile(rng.Float64())
		visits := float64(rng.Intn(6))
		group := float64(rng.Intn(opts.Groups))

		logit := 1.2*severity + 0.02*(age-50) + 0.15*visits + opts.GroupBias*group
		p := distuv.UnitNormal.CDF(logit) // probit link keeps p well inside (0,1)
		outcome := 0.0
		if rng.Float64() < p {
			outcome = 1
		}

		cols["age"][i] = age
		cols["severity"][i] = severity
		cols["prior_visits"][i] = visits
		cols["group"][i] = group
		cols["is_dead_at_time_horizon=14"][i] = outcome // leaked outcome copy
		cols[target][i] = outcome
	}

	frame, err := dataset.FrameFromColumns(all, cols)
	if err != nil {
		panic(err) // generation bug, not runtime input
	}
	return &SyntheticLoader{
		frame:     frame,
		static:    static,
		sensitive: []core.ColumnKey{"group"},
		target:    target,
	}
}

// StaticFeatures returns the feature column names.
func (l *SyntheticLoader) StaticFeatures() []core.ColumnKey {
	return append([]core.ColumnKey(nil), l.static...)
}

// TargetColumn returns the label column name.
func (l *SyntheticLoader) TargetColumn() core.ColumnKey {
	return l.target
}

// SensitiveFeatures returns the sensitive column names.
func (l *SyntheticLoader) SensitiveFeatures() []core.ColumnKey {
	return append([]core.ColumnKey(nil), l.sensitive...)
}

// Columns materializes the requested columns.
func (l *SyntheticLoader) Columns(keys ...core.ColumnKey) (*dataset.Frame, error) {
	return l.frame.Select(keys...)
}

// Frame exposes the full generated frame for assertions.
func (l *SyntheticLoader) Frame() *dataset.Frame {
	return l.frame
}
