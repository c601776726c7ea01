package complaints

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// treeNode is one node of a fitted CART tree. Leaves have feature -1.
type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	class     int
}

type decisionTree struct {
	nodes []treeNode
}

// predict walks the tree using at to read feature values.
func (t *decisionTree) predict(at func(j int) float64) int {
	n := 0
	for {
		node := t.nodes[n]
		if node.feature < 0 {
			return node.class
		}
		if at(node.feature) <= node.threshold {
			n = node.left
		} else {
			n = node.right
		}
	}
}

// depth returns the length of the longest root-to-leaf path.
func (t *decisionTree) depth() int {
	var walk func(n int) int
	walk = func(n int) int {
		node := t.nodes[n]
		if node.feature < 0 {
			return 0
		}
		l, r := walk(node.left), walk(node.right)
		if l > r {
			return l + 1
		}
		return r + 1
	}
	return walk(0)
}

// treeBuilder grows one tree on a weighted sample of rows. Bootstrap
// duplicates are folded into integer weights.
type treeBuilder struct {
	x               mat.Matrix
	y               []int
	nClasses        int
	nFeatures       int
	mtry            int
	maxDepth        int
	minSamplesSplit int
	rng             *rand.Rand

	features []int
	nodes    []treeNode
}

type weightedRow struct {
	row    int
	weight float64
}

func (b *treeBuilder) build(rows []weightedRow) *decisionTree {
	b.features = make([]int, b.nFeatures)
	for i := range b.features {
		b.features[i] = i
	}
	b.nodes = b.nodes[:0]
	b.grow(rows, 0)
	return &decisionTree{nodes: b.nodes}
}

func (b *treeBuilder) grow(rows []weightedRow, depth int) int {
	counts := b.classWeights(rows)
	id := len(b.nodes)
	b.nodes = append(b.nodes, treeNode{feature: -1, class: floats.MaxIdx(counts)})

	if isPure(counts) || len(rows) < b.minSamplesSplit || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return id
	}

	feature, threshold, ok := b.bestSplit(rows, counts)
	if !ok {
		return id
	}

	var left, right []weightedRow
	for _, r := range rows {
		if b.x.At(r.row, feature) <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id] = treeNode{feature: feature, threshold: threshold, left: l, right: r}
	return id
}

// bestSplit draws features without replacement until mtry non-constant ones
// have been examined, or every feature has been drawn, and returns the split
// with the lowest weighted Gini impurity.
func (b *treeBuilder) bestSplit(rows []weightedRow, parent []float64) (int, float64, bool) {
	total := floats.Sum(parent)
	bestScore := 0.0
	bestFeature, bestThreshold := -1, 0.0

	type point struct {
		value  float64
		class  int
		weight float64
	}
	points := make([]point, len(rows))

	examined := 0
	for i := 0; i < b.nFeatures && examined < b.mtry; i++ {
		j := i + b.rng.Intn(b.nFeatures-i)
		b.features[i], b.features[j] = b.features[j], b.features[i]
		f := b.features[i]

		lo, hi := 0.0, 0.0
		for k, r := range rows {
			v := b.x.At(r.row, f)
			points[k] = point{value: v, class: b.y[r.row], weight: r.weight}
			if k == 0 || v < lo {
				lo = v
			}
			if k == 0 || v > hi {
				hi = v
			}
		}
		if lo == hi {
			continue
		}
		examined++

		sort.Slice(points, func(a, c int) bool { return points[a].value < points[c].value })

		left := make([]float64, b.nClasses)
		right := make([]float64, b.nClasses)
		copy(right, parent)
		wl, wr := 0.0, total
		for k := 0; k < len(points)-1; k++ {
			p := points[k]
			left[p.class] += p.weight
			right[p.class] -= p.weight
			wl += p.weight
			wr -= p.weight
			if points[k+1].value <= p.value {
				continue
			}
			score := (wl*gini(left, wl) + wr*gini(right, wr)) / total
			if bestFeature < 0 || score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = p.value + (points[k+1].value-p.value)/2
				if bestThreshold >= points[k+1].value {
					bestThreshold = p.value
				}
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *treeBuilder) classWeights(rows []weightedRow) []float64 {
	counts := make([]float64, b.nClasses)
	for _, r := range rows {
		counts[b.y[r.row]] += r.weight
	}
	return counts
}

func gini(counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := c / total
		g -= p * p
	}
	return g
}

func isPure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}
