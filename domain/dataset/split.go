package dataset

import (
	"fmt"
	"math/rand"
)

// Split partitions a frame and its label vector into train and evaluation
// subsets. Rows are shuffled with a seeded RNG so the same seed always yields
// the same partition; the resulting pieces carry fresh zero-based row order.
func Split(f *Frame, y []float64, trainFrac float64, seed int64) (xTrain, xEval *Frame, yTrain, yEval []float64, err error) {
	n := f.Rows()
	if len(y) != n {
		return nil, nil, nil, nil, fmt.Errorf("frame has %d rows, labels have %d", n, len(y))
	}
	if trainFrac <= 0 || trainFrac >= 1 {
		return nil, nil, nil, nil, fmt.Errorf("train fraction must be in (0,1), got %v", trainFrac)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)
	nTrain := int(float64(n) * trainFrac)

	xTrain = NewFrame(f.columns)
	xEval = NewFrame(f.columns)
	for i, idx := range perm {
		row := make([]float64, len(f.columns))
		for j, c := range f.columns {
			row[j] = f.data[c][idx]
		}
		if i < nTrain {
			if err := xTrain.AppendRow(row); err != nil {
				return nil, nil, nil, nil, err
			}
			yTrain = append(yTrain, y[idx])
		} else {
			if err := xEval.AppendRow(row); err != nil {
				return nil, nil, nil, nil, err
			}
			yEval = append(yEval, y[idx])
		}
	}
	return xTrain, xEval, yTrain, yEval, nil
}
