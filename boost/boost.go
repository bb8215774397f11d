// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package boost is a gradient boosted regression tree ensemble over a single
// feature, using the squared error objective with second order leaf weights
// and L2 regularization.
package boost

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Params are the ensemble settings
type Params struct {
	Rounds         int     `def:"100" desc:"number of trees"`
	LearnRate      float64 `def:"0.1" desc:"shrinkage applied to each tree's leaf weights"`
	MaxDepth       int     `def:"3" desc:"maximum depth of each tree"`
	Lambda         float64 `def:"1" desc:"L2 regularization on leaf weights"`
	Gamma          float64 `def:"0" desc:"minimum loss reduction required to split a node"`
	MinChildWeight float64 `def:"1" desc:"minimum hessian sum (sample count for squared error) in a child"`
}

// Defaults sets the settings used for extreme dynamic levels
func (pr *Params) Defaults() {
	pr.Rounds = 100
	pr.LearnRate = 0.1
	pr.MaxDepth = 3
	pr.Lambda = 1
	pr.Gamma = 0
	pr.MinChildWeight = 1
}

// Validate checks that the settings can grow a usable ensemble
func (pr *Params) Validate() error {
	switch {
	case pr.Rounds < 1:
		return fmt.Errorf("boost.Params: %d rounds, need at least 1", pr.Rounds)
	case !(pr.LearnRate > 0):
		return fmt.Errorf("boost.Params: learning rate %v must be positive", pr.LearnRate)
	case pr.MaxDepth < 1:
		return fmt.Errorf("boost.Params: max depth %d, need at least 1", pr.MaxDepth)
	case !(pr.Lambda >= 0) || !(pr.Gamma >= 0) || !(pr.MinChildWeight >= 0):
		return fmt.Errorf("boost.Params: lambda %v, gamma %v and min child weight %v must be non-negative", pr.Lambda, pr.Gamma, pr.MinChildWeight)
	}
	return nil
}

// node is a split (Left != nil) or a leaf
type node struct {
	Split       float64
	Value       float64
	Left, Right *node
}

func (nd *node) predict(x float64) float64 {
	for nd.Left != nil {
		if x < nd.Split {
			nd = nd.Left
		} else {
			nd = nd.Right
		}
	}
	return nd.Value
}

// Regressor is a fitted ensemble.
// Splits fall between training inputs, so predictions outside the training
// range equal those at the nearest training input.
type Regressor struct {
	Params Params
	Base   float64 `inactive:"+" desc:"initial prediction -- mean of the targets"`
	trees  []*node
}

// New returns an ensemble with the given settings
func New(pr Params) *Regressor {
	return &Regressor{Params: pr}
}

// NTrees returns the number of fitted trees
func (bt *Regressor) NTrees() int {
	return len(bt.trees)
}

// Fit grows Params.Rounds trees on (x, y)
func (bt *Regressor) Fit(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("boost.Fit: %d inputs but %d targets", len(x), len(y))
	}
	if len(x) == 0 {
		return errors.New("boost.Fit: no training data")
	}
	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	bt.Base = stat.Mean(y, nil)
	bt.trees = bt.trees[:0]
	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = bt.Base
	}
	grad := make([]float64, len(y))
	for r := 0; r < bt.Params.Rounds; r++ {
		for i := range grad {
			grad[i] = pred[i] - y[i]
		}
		tr := bt.grow(x, grad, order, 0)
		bt.trees = append(bt.trees, tr)
		for i := range pred {
			pred[i] += tr.predict(x[i])
		}
	}
	return nil
}

// Predict returns the ensemble prediction at x
func (bt *Regressor) Predict(x float64) float64 {
	if len(bt.trees) == 0 {
		return math.NaN()
	}
	sum := bt.Base
	for _, tr := range bt.trees {
		sum += tr.predict(x)
	}
	return sum
}

// grow builds a tree on the samples in idx, which are sorted by x.
// With squared error every sample has unit hessian.
func (bt *Regressor) grow(x, grad []float64, idx []int, depth int) *node {
	g := 0.0
	for _, i := range idx {
		g += grad[i]
	}
	h := float64(len(idx))
	leaf := &node{Value: -bt.Params.LearnRate * g / (h + bt.Params.Lambda)}
	if depth >= bt.Params.MaxDepth || len(idx) < 2 {
		return leaf
	}

	parent := g * g / (h + bt.Params.Lambda)
	bestGain, bestK := 0.0, -1
	gl := 0.0
	for k := 0; k < len(idx)-1; k++ {
		gl += grad[idx[k]]
		if x[idx[k]] == x[idx[k+1]] {
			continue
		}
		hl := float64(k + 1)
		hr := h - hl
		if hl < bt.Params.MinChildWeight || hr < bt.Params.MinChildWeight {
			continue
		}
		gr := g - gl
		gain := 0.5*(gl*gl/(hl+bt.Params.Lambda)+gr*gr/(hr+bt.Params.Lambda)-parent) - bt.Params.Gamma
		if gain > bestGain {
			bestGain, bestK = gain, k
		}
	}
	if bestK < 0 {
		return leaf
	}
	return &node{
		Split: (x[idx[bestK]] + x[idx[bestK+1]]) / 2,
		Left:  bt.grow(x, grad, idx[:bestK+1], depth+1),
		Right: bt.grow(x, grad, idx[bestK+1:], depth+1),
	}
}
