package boost

import (
	"math"
	"math/rand"
	"testing"
)

// separableData builds a dataset where the label depends on a simple
// threshold of the first feature, with one noise feature.
func separableData(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x0 := rng.Float64()*2 - 1
		X[i] = []float64{x0, rng.Float64()}
		if x0 > 0 {
			y[i] = 1
		}
	}
	return X, y
}

func TestClassifier_LearnsSeparableData(t *testing.T) {
	X, y := separableData(400, 7)

	clf := NewClassifier(
		WithNumTrees(50),
		WithLearningRate(0.1),
		WithMaxDepth(3),
		WithSubsample(0.8),
		WithGamma(0),
		WithSeed(42),
	)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	correct := 0
	for i := range preds {
		if preds[i] == y[i] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(y))
	if accuracy < 0.95 {
		t.Errorf("Expected accuracy >= 0.95 on separable data, got %.3f", accuracy)
	}
}

func TestClassifier_DeterministicForFixedSeed(t *testing.T) {
	X, y := separableData(200, 11)

	run := func() []float64 {
		clf := NewClassifier(
			WithNumTrees(30),
			WithLearningRate(0.1),
			WithMaxDepth(3),
			WithSubsample(0.8),
			WithSeed(42),
		)
		if err := clf.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		probas, err := clf.PredictProba(X)
		if err != nil {
			t.Fatalf("PredictProba failed: %v", err)
		}
		return probas
	}

	p1 := run()
	p2 := run()
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("Same seed produced different probability at row %d: %v vs %v", i, p1[i], p2[i])
		}
	}
}

func TestClassifier_ProbabilitiesInRange(t *testing.T) {
	X, y := separableData(150, 3)
	clf := NewClassifier(WithNumTrees(20), WithLearningRate(0.2), WithMaxDepth(2), WithSeed(1))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	probas, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	for i, p := range probas {
		if p < 0 || p > 1 || math.IsNaN(p) {
			t.Errorf("Probability out of range at row %d: %v", i, p)
		}
	}
}

func TestClassifier_InputValidation(t *testing.T) {
	clf := NewClassifier()

	if err := clf.Fit(nil, nil); err == nil {
		t.Error("Expected error for empty X")
	}
	if err := clf.Fit([][]float64{{1}}, []float64{0, 1}); err == nil {
		t.Error("Expected error for X/y length mismatch")
	}
	if err := clf.Fit([][]float64{{1}, {2, 3}}, []float64{0, 1}); err == nil {
		t.Error("Expected error for ragged rows")
	}
	if err := clf.Fit([][]float64{{1}, {2}}, []float64{0, 2}); err == nil {
		t.Error("Expected error for non-binary labels")
	}
	if _, err := clf.Predict([][]float64{{1}}); err == nil {
		t.Error("Expected error for predict before fit")
	}
}

func TestClassifier_RejectsWidthMismatchAtPredict(t *testing.T) {
	X, y := separableData(50, 5)
	clf := NewClassifier(WithNumTrees(5), WithMaxDepth(2), WithSeed(9))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := clf.Predict([][]float64{{1, 2, 3}}); err == nil {
		t.Error("Expected error for prediction row wider than training data")
	}
}

func TestClassifier_MissingValuesRouteLeft(t *testing.T) {
	// Rows with a missing first feature carry label 0; observed values above
	// zero carry label 1. The tree must still separate them.
	X := [][]float64{
		{math.NaN(), 1}, {math.NaN(), 2}, {math.NaN(), 3}, {math.NaN(), 4},
		{1, 1}, {2, 2}, {3, 3}, {4, 4},
		{-1, 1}, {-2, 2}, {-3, 3}, {-4, 4},
	}
	y := []float64{0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0}

	clf := NewClassifier(WithNumTrees(30), WithLearningRate(0.3), WithMaxDepth(2), WithSeed(2))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	preds, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := range preds {
		if preds[i] != y[i] {
			t.Errorf("Row %d misclassified: got %v want %v", i, preds[i], y[i])
		}
	}
}
