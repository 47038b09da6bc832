package ports

// Classifier is a binary classifier consumed by the fairness scorers: fit once
// on a training matrix, used only for prediction, then discarded.
type Classifier interface {
	// Fit trains the classifier on a row-major feature matrix and 0/1 labels.
	Fit(X [][]float64, y []float64) error

	// Predict returns a 0/1 label per input row. Fit must have been called.
	Predict(X [][]float64) ([]float64, error)
}
