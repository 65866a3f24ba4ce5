package classifier

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// logistic is a binary logistic regression. The sigmoid of the decision
// function is the probability of classes[1].
type logistic struct {
	coef      *mat.VecDense
	intercept float64
	// positiveFirst is set when the positive label is classes[0].
	positiveFirst bool
}

func (l *logistic) positiveProbability(x []float64) float64 {
	z := mat.Dot(l.coef, mat.NewVecDense(len(x), x)) + l.intercept
	p := 1 / (1 + math.Exp(-z))
	if l.positiveFirst {
		return 1 - p
	}
	return p
}
