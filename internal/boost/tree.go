package boost

import (
	"math"
	"sort"
)

// regTree is a depth-limited regression tree fit to gradient/hessian
// statistics with second-order split gain. Missing feature values (NaN)
// route to the left child.
type regTree struct {
	root *treeNode
}

type treeNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold => left; NaN goes left
	left      *treeNode
	right     *treeNode
	weight    float64 // leaf output
}

// treeParams carries the per-tree growing configuration.
type treeParams struct {
	maxDepth       int
	lambda         float64 // L2 regularization on leaf weights
	gamma          float64 // minimum gain required to split
	minChildWeight float64 // minimum hessian sum per child
	features       []int   // candidate feature indices for this tree
}

// growTree builds a regression tree over the sampled rows.
// grad and hess are indexed by row id in X.
func growTree(X [][]float64, grad, hess []float64, rows []int, p treeParams) *regTree {
	return &regTree{root: growNode(X, grad, hess, rows, 0, p)}
}

func growNode(X [][]float64, grad, hess []float64, rows []int, depth int, p treeParams) *treeNode {
	gSum, hSum := 0.0, 0.0
	for _, r := range rows {
		gSum += grad[r]
		hSum += hess[r]
	}

	leaf := func() *treeNode {
		return &treeNode{isLeaf: true, weight: -gSum / (hSum + p.lambda)}
	}
	if depth >= p.maxDepth || len(rows) < 2 {
		return leaf()
	}

	feature, threshold, gain := bestSplit(X, grad, hess, rows, gSum, hSum, p)
	if gain <= 0 {
		return leaf()
	}

	var leftRows, rightRows []int
	for _, r := range rows {
		if goesLeft(X[r][feature], threshold) {
			leftRows = append(leftRows, r)
		} else {
			rightRows = append(rightRows, r)
		}
	}
	if len(leftRows) == 0 || len(rightRows) == 0 {
		return leaf()
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growNode(X, grad, hess, leftRows, depth+1, p),
		right:     growNode(X, grad, hess, rightRows, depth+1, p),
	}
}

// bestSplit scans every candidate feature for the threshold with the highest
// second-order gain. Returns gain <= 0 when no split beats gamma.
func bestSplit(X [][]float64, grad, hess []float64, rows []int, gSum, hSum float64, p treeParams) (int, float64, float64) {
	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	parentScore := gSum * gSum / (hSum + p.lambda)

	sorted := make([]int, len(rows))
	for _, f := range p.features {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return lessWithNaN(X[sorted[i]][f], X[sorted[j]][f])
		})

		gLeft, hLeft := 0.0, 0.0
		for i := 0; i < len(sorted)-1; i++ {
			r := sorted[i]
			gLeft += grad[r]
			hLeft += hess[r]

			v, next := X[r][f], X[sorted[i+1]][f]
			if math.IsNaN(v) || math.IsNaN(next) || v == next {
				continue // boundaries exist only between distinct observed values
			}
			hRight := hSum - hLeft
			if hLeft < p.minChildWeight || hRight < p.minChildWeight {
				continue
			}
			gRight := gSum - gLeft
			gain := 0.5*(gLeft*gLeft/(hLeft+p.lambda)+gRight*gRight/(hRight+p.lambda)-parentScore) - p.gamma
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (v + next) / 2
			}
		}
	}
	if bestFeature < 0 {
		return -1, 0, 0
	}
	return bestFeature, bestThreshold, bestGain
}

// lessWithNaN orders missing values before everything else so they stay in
// the left prefix during the split scan.
func lessWithNaN(a, b float64) bool {
	if math.IsNaN(a) {
		return !math.IsNaN(b)
	}
	if math.IsNaN(b) {
		return false
	}
	return a < b
}

func goesLeft(v, threshold float64) bool {
	return math.IsNaN(v) || v <= threshold
}

// eval returns the leaf weight for one row.
func (t *regTree) eval(row []float64) float64 {
	node := t.root
	for !node.isLeaf {
		if goesLeft(row[node.feature], node.threshold) {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.weight
}
