// Package fairness computes prediction-disparity metrics across a sensitive
// attribute. Each metric trains a boosted-tree classifier on a split of the
// loader's data, then compares positive-prediction rates between sensitive
// groups under either a counterfactual overwrite (FTU) or a subset filter
// (demographic parity).
package fairness

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"fairbench/domain/core"
	"fairbench/domain/dataset"
	"fairbench/internal/boost"
	"fairbench/internal/errors"
	"fairbench/ports"
)

// Fixed hyperparameters of the trained classifier. Both metrics share them
// except for the number of boosting rounds.
const (
	ftuTrees       = 500
	parityTrees    = 200
	learningRate   = 0.01
	maxDepth       = 3
	subsample      = 0.8
	colsample      = 1.0
	gamma          = 1.0
	classifierSeed = 42
	splitSeed      = 4
	trainFraction  = 0.6
)

// ClassifierFactory builds the classifier for one metric computation.
type ClassifierFactory func(numTrees int) ports.Classifier

func defaultFactory(numTrees int) ports.Classifier {
	return boost.NewClassifier(
		boost.WithNumTrees(numTrees),
		boost.WithLearningRate(learningRate),
		boost.WithMaxDepth(maxDepth),
		boost.WithSubsample(subsample),
		boost.WithColsample(colsample),
		boost.WithGamma(gamma),
		boost.WithSeed(classifierSeed),
	)
}

// Scorer computes fairness scores for a loader. The zero-value configuration
// matches the reference hyperparameters; the classifier factory is injectable
// for tests.
type Scorer struct {
	leakageColumn core.ColumnKey
	factory       ClassifierFactory
}

// Option is functional configuration for NewScorer.
type Option func(*Scorer)

// WithLeakageColumn overrides the outcome-leakage column excluded from the
// feature matrix.
func WithLeakageColumn(key core.ColumnKey) Option {
	return func(s *Scorer) { s.leakageColumn = key }
}

// WithClassifierFactory overrides classifier construction.
func WithClassifierFactory(f ClassifierFactory) Option {
	return func(s *Scorer) { s.factory = f }
}

// NewScorer creates a scorer with the reference configuration.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		leakageColumn: "is_dead_at_time_horizon=14",
		factory:       defaultFactory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FTUScore returns the median, over all unordered pairs of distinct values of
// the first sensitive feature, of the absolute difference in predicted-positive
// rate when the sensitive column is overwritten with one value vs. the other
// on the same evaluation rows. The overwrite is a counterfactual intervention:
// every other feature stays untouched.
func (s *Scorer) FTUScore(loader ports.Loader) (float64, error) {
	prep, err := s.prepare(loader, ftuTrees)
	if err != nil {
		return 0, err
	}

	var diffs []float64
	for i := 0; i < len(prep.values); i++ {
		for j := i + 1; j < len(prep.values); j++ {
			d, err := overwriteDiff(prep.clf, prep.xEval, prep.sensitive, prep.values[i], prep.values[j])
			if err != nil {
				return 0, err
			}
			diffs = append(diffs, d)
		}
	}
	score, err := stats.Median(diffs)
	if err != nil {
		return 0, errors.Wrap(err, "aggregating pairwise differences")
	}
	return score, nil
}

// DemographicParityScore returns the mean, over all unordered pairs of
// distinct values of the first sensitive feature, of the absolute difference
// in positive-prediction rate between the evaluation rows actually belonging
// to each group. A sensitive value with no rows left in the evaluation split
// is an explicit error rather than a division by zero.
func (s *Scorer) DemographicParityScore(loader ports.Loader) (float64, error) {
	prep, err := s.prepare(loader, parityTrees)
	if err != nil {
		return 0, err
	}

	var diffs []float64
	for i := 0; i < len(prep.values); i++ {
		for j := i + 1; j < len(prep.values); j++ {
			d, err := filterDiff(prep.clf, prep.xEval, prep.sensitive, prep.values[i], prep.values[j])
			if err != nil {
				return 0, err
			}
			diffs = append(diffs, d)
		}
	}
	score, err := stats.Mean(diffs)
	if err != nil {
		return 0, errors.Wrap(err, "aggregating pairwise differences")
	}
	return score, nil
}

// prepared carries the shared state of one metric computation: the fitted
// classifier, the evaluation frame, and the distinct sensitive values.
type prepared struct {
	clf       ports.Classifier
	xEval     *dataset.Frame
	sensitive core.ColumnKey
	values    []float64
}

// prepare builds the feature matrix, splits, trains, and enumerates the
// distinct values of the first sensitive feature over the full pre-split
// column in first-occurrence order.
func (s *Scorer) prepare(loader ports.Loader, numTrees int) (*prepared, error) {
	sensCols := loader.SensitiveFeatures()
	if len(sensCols) == 0 {
		return nil, errors.InvalidInput("loader declares no sensitive features")
	}
	sensitive := sensCols[0]
	target := loader.TargetColumn()

	X, err := loader.Columns(loader.StaticFeatures()...)
	if err != nil {
		return nil, errors.Wrap(err, "loading feature columns")
	}
	// The target never participates in training, and neither does the
	// outcome-leakage column.
	X = X.Drop(target).Drop(s.leakageColumn)
	if !X.HasColumn(sensitive) {
		return nil, errors.InvalidInput(fmt.Sprintf("sensitive feature %q is not a static feature", sensitive))
	}

	yFrame, err := loader.Columns(target)
	if err != nil {
		return nil, errors.Wrap(err, "loading target column")
	}
	y, err := yFrame.Column(target)
	if err != nil {
		return nil, err
	}

	fullSens, err := X.Column(sensitive)
	if err != nil {
		return nil, err
	}
	values := dataset.Distinct(fullSens)
	if len(values) < 2 {
		return nil, errors.DegenerateData(fmt.Sprintf("sensitive feature %q has %d distinct value(s), need at least 2", sensitive, len(values)))
	}

	xTrain, xEval, yTrain, _, err := dataset.Split(X, y, trainFraction, splitSeed)
	if err != nil {
		return nil, errors.Wrap(err, "splitting data")
	}

	clf := s.factory(numTrees)
	if err := clf.Fit(xTrain.Matrix(), yTrain); err != nil {
		return nil, errors.Wrap(err, "fitting classifier")
	}

	return &prepared{clf: clf, xEval: xEval, sensitive: sensitive, values: values}, nil
}

// overwriteDiff clones the evaluation frame twice, forces the sensitive column
// to each value, and returns the absolute difference in positive rates.
func overwriteDiff(clf ports.Classifier, xEval *dataset.Frame, sensitive core.ColumnKey, v1, v2 float64) (float64, error) {
	rate := func(v float64) (float64, error) {
		clone := xEval.Copy()
		if err := clone.SetConstant(sensitive, v); err != nil {
			return 0, err
		}
		preds, err := clf.Predict(clone.Matrix())
		if err != nil {
			return 0, errors.Wrap(err, "predicting counterfactual frame")
		}
		return positiveRate(preds, sensitive, v)
	}

	p1, err := rate(v1)
	if err != nil {
		return 0, err
	}
	p2, err := rate(v2)
	if err != nil {
		return 0, err
	}
	return abs(p1 - p2), nil
}

// filterDiff restricts the evaluation frame to the rows matching each value
// and returns the absolute difference in positive rates between the subsets.
func filterDiff(clf ports.Classifier, xEval *dataset.Frame, sensitive core.ColumnKey, v1, v2 float64) (float64, error) {
	rate := func(v float64) (float64, error) {
		sub, err := xEval.FilterEq(sensitive, v)
		if err != nil {
			return 0, err
		}
		if sub.Rows() == 0 {
			return 0, errors.EmptyGroup(fmt.Sprintf("sensitive value %v has no rows in the evaluation split", v))
		}
		preds, err := clf.Predict(sub.Matrix())
		if err != nil {
			return 0, errors.Wrap(err, "predicting filtered frame")
		}
		return positiveRate(preds, sensitive, v)
	}

	p1, err := rate(v1)
	if err != nil {
		return 0, err
	}
	p2, err := rate(v2)
	if err != nil {
		return 0, err
	}
	return abs(p1 - p2), nil
}

// positiveRate is the fraction of positive predictions.
func positiveRate(preds []float64, sensitive core.ColumnKey, v float64) (float64, error) {
	if len(preds) == 0 {
		return 0, errors.EmptyGroup(fmt.Sprintf("no predictions for sensitive value %v of %q", v, sensitive))
	}
	sum := 0.0
	for _, p := range preds {
		sum += p
	}
	return sum / float64(len(preds)), nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// FTUScore computes the FTU score with the reference configuration.
func FTUScore(loader ports.Loader) (float64, error) {
	return NewScorer().FTUScore(loader)
}

// DemographicParityScore computes the demographic-parity score with the
// reference configuration.
func DemographicParityScore(loader ports.Loader) (float64, error) {
	return NewScorer().DemographicParityScore(loader)
}
