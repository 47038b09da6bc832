// Package boost implements gradient-boosted regression trees on the logistic
// objective, providing the binary classifier the fairness scorers train and
// discard per metric computation.
package boost

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// Options are the classifier hyperparameters.
type Options struct {
	NumTrees        int     // boosting rounds
	LearningRate    float64 // shrinkage per round
	MaxDepth        int     // maximum tree depth
	Subsample       float64 // row fraction sampled per round, (0,1]
	ColsampleByTree float64 // feature fraction sampled per round, (0,1]
	Gamma           float64 // minimum split gain
	Lambda          float64 // L2 regularization on leaf weights
	MinChildWeight  float64 // minimum hessian sum per child
	Seed            int64   // RNG seed for row/feature sampling
}

// Option is functional configuration for NewClassifier.
type Option func(*Options)

func WithNumTrees(n int) Option { return func(o *Options) { o.NumTrees = n } }
func WithLearningRate(lr float64) Option {
	return func(o *Options) { o.LearningRate = lr }
}
func WithMaxDepth(d int) Option      { return func(o *Options) { o.MaxDepth = d } }
func WithSubsample(s float64) Option { return func(o *Options) { o.Subsample = s } }
func WithColsample(s float64) Option { return func(o *Options) { o.ColsampleByTree = s } }
func WithGamma(g float64) Option     { return func(o *Options) { o.Gamma = g } }
func WithLambda(l float64) Option    { return func(o *Options) { o.Lambda = l } }
func WithSeed(seed int64) Option     { return func(o *Options) { o.Seed = seed } }

// NewClassifier returns a classifier with sensible defaults.
func NewClassifier(opts ...Option) *Classifier {
	o := Options{
		NumTrees:        100,
		LearningRate:    0.3,
		MaxDepth:        6,
		Subsample:       1.0,
		ColsampleByTree: 1.0,
		Gamma:           0,
		Lambda:          1.0,
		MinChildWeight:  1.0,
		Seed:            0,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Classifier{opts: o}
}

// Classifier is a boosted-tree binary classifier with a logistic objective.
type Classifier struct {
	opts  Options
	trees []*regTree
	cols  int
}

// Fit trains the ensemble on a row-major matrix X and 0/1 labels y.
// Training is deterministic for a fixed seed.
func (c *Classifier) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("boost: empty feature matrix")
	}
	if len(y) != len(X) {
		return errors.New("boost: X and y length mismatch")
	}
	cols := len(X[0])
	for _, row := range X {
		if len(row) != cols {
			return errors.New("boost: inconsistent row widths in X")
		}
	}
	for _, label := range y {
		if label != 0 && label != 1 {
			return errors.New("boost: labels must be 0 or 1")
		}
	}

	n := len(X)
	rng := rand.New(rand.NewSource(c.opts.Seed))
	margins := make([]float64, n) // base score 0.5 => zero margin
	grad := make([]float64, n)
	hess := make([]float64, n)

	c.cols = cols
	c.trees = make([]*regTree, 0, c.opts.NumTrees)
	for round := 0; round < c.opts.NumTrees; round++ {
		for i := range margins {
			p := sigmoid(margins[i])
			grad[i] = p - y[i]
			hess[i] = p * (1 - p)
		}

		tree := growTree(X, grad, hess, c.sampleRows(rng, n), treeParams{
			maxDepth:       c.opts.MaxDepth,
			lambda:         c.opts.Lambda,
			gamma:          c.opts.Gamma,
			minChildWeight: c.opts.MinChildWeight,
			features:       c.sampleFeatures(rng, cols),
		})
		c.trees = append(c.trees, tree)

		for i, row := range X {
			margins[i] += c.opts.LearningRate * tree.eval(row)
		}
	}
	return nil
}

// PredictProba returns the positive-class probability per row.
func (c *Classifier) PredictProba(X [][]float64) ([]float64, error) {
	if len(c.trees) == 0 {
		return nil, errors.New("boost: classifier is not fitted")
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != c.cols {
			return nil, errors.New("boost: row width does not match training data")
		}
		margin := 0.0
		for _, tree := range c.trees {
			margin += c.opts.LearningRate * tree.eval(row)
		}
		out[i] = sigmoid(margin)
	}
	return out, nil
}

// Predict returns a 0/1 label per row using the 0.5 probability cutoff.
func (c *Classifier) Predict(X [][]float64) ([]float64, error) {
	probas, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(probas))
	for i, p := range probas {
		if p > 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// sampleRows draws the per-round row subset without replacement, sorted for
// deterministic tree construction.
func (c *Classifier) sampleRows(rng *rand.Rand, n int) []int {
	k := int(float64(n) * c.opts.Subsample)
	if k <= 0 || k > n {
		k = n
	}
	rows := rng.Perm(n)[:k]
	sort.Ints(rows)
	return rows
}

// sampleFeatures draws the per-round feature subset.
func (c *Classifier) sampleFeatures(rng *rand.Rand, cols int) []int {
	k := int(float64(cols) * c.opts.ColsampleByTree)
	if k <= 0 || k > cols {
		k = cols
	}
	features := rng.Perm(cols)[:k]
	sort.Ints(features)
	return features
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
