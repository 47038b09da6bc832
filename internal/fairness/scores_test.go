package fairness

import (
	"math"
	"testing"

	"fairbench/domain/core"
	"fairbench/domain/dataset"
	"fairbench/internal/errors"
	"fairbench/internal/testkit"
	"fairbench/ports"
)

// columnLoader is a minimal loader over explicit columns.
type columnLoader struct {
	frame     *dataset.Frame
	static    []core.ColumnKey
	sensitive []core.ColumnKey
	target    core.ColumnKey
}

func (l *columnLoader) StaticFeatures() []core.ColumnKey    { return l.static }
func (l *columnLoader) TargetColumn() core.ColumnKey        { return l.target }
func (l *columnLoader) SensitiveFeatures() []core.ColumnKey { return l.sensitive }
func (l *columnLoader) Columns(keys ...core.ColumnKey) (*dataset.Frame, error) {
	return l.frame.Select(keys...)
}

// thresholdClassifier predicts 1 iff the configured column meets a cutoff.
// It keys off the trained column order, so counterfactual overwrites of that
// column flip its predictions deterministically.
type thresholdClassifier struct {
	column core.ColumnKey
	cutoff float64
	index  int
	cols   []core.ColumnKey
}

func (c *thresholdClassifier) Fit(X [][]float64, y []float64) error { return nil }

func (c *thresholdClassifier) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		if row[c.index] >= c.cutoff {
			out[i] = 1
		}
	}
	return out, nil
}

// newGroupLoader builds a dataset whose rows cycle through the given group
// values, with enough rows that every group survives the 60/40 split.
func newGroupLoader(t *testing.T, groupValues []float64, rows int) *columnLoader {
	t.Helper()
	cols := map[core.ColumnKey][]float64{
		"f1":    make([]float64, rows),
		"group": make([]float64, rows),
	}
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		cols["f1"][i] = float64(i % 7)
		cols["group"][i] = groupValues[i%len(groupValues)]
		y[i] = float64(i % 2)
	}
	cols["label"] = y
	frame, err := dataset.FrameFromColumns([]core.ColumnKey{"f1", "group", "label"}, cols)
	if err != nil {
		t.Fatalf("building fixture frame: %v", err)
	}
	return &columnLoader{
		frame:     frame,
		static:    []core.ColumnKey{"f1", "group"},
		sensitive: []core.ColumnKey{"group"},
		target:    "label",
	}
}

// groupScorer returns a scorer whose classifier predicts 1 iff group >= cutoff.
// The feature frame is (f1, group), so group is column index 1.
func groupScorer(cutoff float64) *Scorer {
	return NewScorer(WithClassifierFactory(func(int) ports.Classifier {
		return &thresholdClassifier{column: "group", cutoff: cutoff, index: 1}
	}))
}

func TestFTUScore_TwoGroups(t *testing.T) {
	loader := newGroupLoader(t, []float64{0, 1}, 100)
	scorer := groupScorer(1)

	// Overwriting group to 0 yields rate 0, to 1 yields rate 1 on the same
	// evaluation rows, so the single pairwise difference is exactly 1.
	score, err := scorer.FTUScore(loader)
	if err != nil {
		t.Fatalf("FTUScore failed: %v", err)
	}
	if score != 1 {
		t.Errorf("Expected FTU score 1, got %v", score)
	}
}

func TestDemographicParityScore_TwoGroups(t *testing.T) {
	loader := newGroupLoader(t, []float64{0, 1}, 100)
	scorer := groupScorer(1)

	score, err := scorer.DemographicParityScore(loader)
	if err != nil {
		t.Fatalf("DemographicParityScore failed: %v", err)
	}
	if score != 1 {
		t.Errorf("Expected demographic parity score 1, got %v", score)
	}
}

func TestFTUScore_ThreeGroups_MedianOfPairs(t *testing.T) {
	loader := newGroupLoader(t, []float64{0, 1, 2}, 120)
	scorer := groupScorer(1) // groups 1 and 2 predict positive, group 0 negative

	// Pairwise differences: (0,1)=1, (0,2)=1, (1,2)=0; median = 1.
	score, err := scorer.FTUScore(loader)
	if err != nil {
		t.Fatalf("FTUScore failed: %v", err)
	}
	if score != 1 {
		t.Errorf("Expected median of pairwise diffs 1, got %v", score)
	}
}

func TestDemographicParityScore_ThreeGroups_MeanOfPairs(t *testing.T) {
	loader := newGroupLoader(t, []float64{0, 1, 2}, 120)
	scorer := groupScorer(1)

	// Pairwise differences: (0,1)=1, (0,2)=1, (1,2)=0; mean = 2/3.
	score, err := scorer.DemographicParityScore(loader)
	if err != nil {
		t.Fatalf("DemographicParityScore failed: %v", err)
	}
	if math.Abs(score-2.0/3.0) > 1e-12 {
		t.Errorf("Expected mean of pairwise diffs 2/3, got %v", score)
	}
}

func TestScorer_ConstantSensitiveFeatureIsError(t *testing.T) {
	loader := newGroupLoader(t, []float64{1}, 40)
	scorer := groupScorer(1)

	if _, err := scorer.FTUScore(loader); errors.GetCode(err) != errors.CodeDegenerateData {
		t.Errorf("Expected DEGENERATE_DATA error, got %v", err)
	}
	if _, err := scorer.DemographicParityScore(loader); errors.GetCode(err) != errors.CodeDegenerateData {
		t.Errorf("Expected DEGENERATE_DATA error, got %v", err)
	}
}

func TestScorer_NoSensitiveFeaturesIsError(t *testing.T) {
	loader := newGroupLoader(t, []float64{0, 1}, 40)
	loader.sensitive = nil
	scorer := groupScorer(1)

	if _, err := scorer.FTUScore(loader); errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("Expected INVALID_INPUT error, got %v", err)
	}
}

func TestFilterDiff_EmptyEvaluationGroup(t *testing.T) {
	// An evaluation frame with no rows for value 2: filtering must surface an
	// explicit EMPTY_GROUP error instead of dividing by zero.
	frame, err := dataset.FrameFromColumns(
		[]core.ColumnKey{"f1", "group"},
		map[core.ColumnKey][]float64{
			"f1":    {1, 2, 3, 4},
			"group": {0, 1, 0, 1},
		},
	)
	if err != nil {
		t.Fatalf("building fixture frame: %v", err)
	}
	clf := &thresholdClassifier{column: "group", cutoff: 1, index: 1}

	if _, err := filterDiff(clf, frame, "group", 0, 2); errors.GetCode(err) != errors.CodeEmptyGroup {
		t.Errorf("Expected EMPTY_GROUP error, got %v", err)
	}
}

func TestScorer_LeakageColumnExcludedFromTraining(t *testing.T) {
	loader := newGroupLoader(t, []float64{0, 1}, 60)
	// Add a leakage column equal to the label.
	labels, _ := loader.frame.Column("label")
	widened := loader.frame.Copy()
	cols := append(widened.Columns(), "leak")
	data := map[core.ColumnKey][]float64{"leak": labels}
	for _, c := range widened.Columns() {
		v, _ := widened.Column(c)
		data[c] = v
	}
	frame, err := dataset.FrameFromColumns(cols, data)
	if err != nil {
		t.Fatalf("building fixture frame: %v", err)
	}
	loader.frame = frame
	loader.static = []core.ColumnKey{"f1", "group", "leak"}

	var sawLeak bool
	scorer := NewScorer(
		WithLeakageColumn("leak"),
		WithClassifierFactory(func(int) ports.Classifier {
			return &recordingClassifier{onFit: func(width int) {
				// Features are f1 and group only once leak is dropped.
				sawLeak = width != 2
			}}
		}),
	)
	if _, err := scorer.FTUScore(loader); err != nil {
		t.Fatalf("FTUScore failed: %v", err)
	}
	if sawLeak {
		t.Error("Leakage column reached the training matrix")
	}
}

// recordingClassifier reports the training matrix width, predicts all zeros.
type recordingClassifier struct {
	onFit func(width int)
}

func (c *recordingClassifier) Fit(X [][]float64, y []float64) error {
	if len(X) > 0 {
		c.onFit(len(X[0]))
	}
	return nil
}

func (c *recordingClassifier) Predict(X [][]float64) ([]float64, error) {
	return make([]float64, len(X)), nil
}

func TestScores_BoostedClassifierOnSyntheticData(t *testing.T) {
	if testing.Short() {
		t.Skip("trains full boosted ensembles")
	}
	loader := testkit.NewSyntheticLoader(testkit.SyntheticOptions{
		Rows:      400,
		Groups:    2,
		GroupBias: 1.5,
		Seed:      21,
	})

	ftu, err := FTUScore(loader)
	if err != nil {
		t.Fatalf("FTUScore failed: %v", err)
	}
	if ftu < 0 || ftu > 1 {
		t.Errorf("FTU score out of [0,1]: %v", ftu)
	}

	dp, err := DemographicParityScore(loader)
	if err != nil {
		t.Fatalf("DemographicParityScore failed: %v", err)
	}
	if dp < 0 || dp > 1 {
		t.Errorf("Demographic parity score out of [0,1]: %v", dp)
	}
}
