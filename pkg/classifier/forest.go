package classifier

import (
	"fmt"
)

const leafNode = -1

type treeFile struct {
	ChildrenLeft  []int         `json:"children_left"`
	ChildrenRight []int         `json:"children_right"`
	Feature       []int         `json:"feature"`
	Threshold     []float64     `json:"threshold"`
	Value         [][][]float64 `json:"value"`
}

// tree is one fitted decision tree in array form. Node 0 is the root and
// children always have a larger index than their parent.
type tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	// positive-class probability at each leaf
	leafProb []float64
}

func newTree(f treeFile, nFeatures, nClasses, positive int) (*tree, error) {
	n := len(f.ChildrenLeft)
	if n == 0 {
		return nil, fmt.Errorf("tree has no nodes")
	}
	if len(f.ChildrenRight) != n || len(f.Feature) != n || len(f.Threshold) != n || len(f.Value) != n {
		return nil, fmt.Errorf("tree arrays differ in length")
	}

	t := &tree{
		left:      f.ChildrenLeft,
		right:     f.ChildrenRight,
		feature:   f.Feature,
		threshold: f.Threshold,
		leafProb:  make([]float64, n),
	}

	for i := 0; i < n; i++ {
		l, r := f.ChildrenLeft[i], f.ChildrenRight[i]
		if l == leafNode {
			if r != leafNode {
				return nil, fmt.Errorf("node %d has a right child but no left child", i)
			}
			p, err := leafProbability(f.Value[i], nClasses, positive)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
			t.leafProb[i] = p
			continue
		}
		if l <= i || l >= n || r <= i || r >= n {
			return nil, fmt.Errorf("node %d has dangling children (%d, %d)", i, l, r)
		}
		if f.Feature[i] < 0 || f.Feature[i] >= nFeatures {
			return nil, fmt.Errorf("node %d splits on feature %d of %d", i, f.Feature[i], nFeatures)
		}
	}
	return t, nil
}

// leafProbability normalises the class weights of a single-output leaf.
func leafProbability(value [][]float64, nClasses, positive int) (float64, error) {
	if len(value) != 1 || len(value[0]) != nClasses {
		return 0, fmt.Errorf("leaf value must be [1][%d]", nClasses)
	}
	var total float64
	for _, v := range value[0] {
		if v < 0 {
			return 0, fmt.Errorf("negative class weight")
		}
		total += v
	}
	if total == 0 {
		return 0, fmt.Errorf("leaf has no samples")
	}
	return value[0][positive] / total, nil
}

func (t *tree) predict(x []float64) float64 {
	node := 0
	for t.left[node] != leafNode {
		if x[t.feature[node]] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.leafProb[node]
}

// forest averages the positive-class probability of its trees.
type forest struct {
	trees []*tree
}

func (f *forest) positiveProbability(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}
