// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gp is a small one-dimensional gaussian process regressor with a
// constant * Matern(nu=1.5) covariance, whose hyperparameters are fit by
// maximizing the log marginal likelihood.
package gp

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

var sqrt3 = math.Sqrt(3)

// Kernel is a constant scaled Matern covariance with nu = 1.5, which is once differentiable
type Kernel struct {
	Const  float64 `desc:"signal variance -- the constant kernel factor"`
	Length float64 `desc:"length scale of the Matern kernel"`
}

// Cov returns the covariance between two points at distance r
func (k Kernel) Cov(r float64) float64 {
	s := sqrt3 * math.Abs(r) / k.Length
	return k.Const * (1 + s) * math.Exp(-s)
}

// Params are the regressor settings
type Params struct {
	Alpha     float64 `def:"0.1" desc:"value added to the diagonal of the training covariance -- observation noise variance"`
	Init      Kernel  `desc:"starting hyperparameters for the optimizer"`
	ConstMin  float64 `def:"1e-4" desc:"lower bound on Kernel.Const"`
	ConstMax  float64 `def:"1e4" desc:"upper bound on Kernel.Const"`
	LengthMin float64 `def:"1e-2" desc:"lower bound on Kernel.Length"`
	LengthMax float64 `def:"1e4" desc:"upper bound on Kernel.Length"`
	Optimize  bool    `def:"true" desc:"fit hyperparameters -- if false Init is used as is"`
	Restarts  int     `def:"10" viewif:"Optimize" desc:"extra optimizer runs from random log-uniform starting points"`
	Seed      uint64  `def:"42" viewif:"Optimize" desc:"seed for restart starting points, so fits are reproducible"`
}

// Defaults sets the settings used for dynamic-level regression
func (pr *Params) Defaults() {
	pr.Alpha = 0.1
	pr.Init = Kernel{Const: 1, Length: 1}
	pr.ConstMin = 1e-4
	pr.ConstMax = 1e4
	pr.LengthMin = 1e-2
	pr.LengthMax = 1e4
	pr.Optimize = true
	pr.Restarts = 10
	pr.Seed = 42
}

// Validate checks that the bounds are positive and ordered and Init is positive
func (pr *Params) Validate() error {
	if !(pr.Alpha >= 0) {
		return fmt.Errorf("gp.Params: alpha %v must be non-negative", pr.Alpha)
	}
	if !(pr.ConstMin > 0 && pr.ConstMin <= pr.ConstMax) {
		return fmt.Errorf("gp.Params: const bounds [%v, %v] must be positive and ordered", pr.ConstMin, pr.ConstMax)
	}
	if !(pr.LengthMin > 0 && pr.LengthMin <= pr.LengthMax) {
		return fmt.Errorf("gp.Params: length bounds [%v, %v] must be positive and ordered", pr.LengthMin, pr.LengthMax)
	}
	if !(pr.Init.Const > 0 && pr.Init.Length > 0) {
		return fmt.Errorf("gp.Params: initial kernel %+v must be positive", pr.Init)
	}
	if pr.Restarts < 0 {
		return fmt.Errorf("gp.Params: %d restarts", pr.Restarts)
	}
	return nil
}

// Regressor is a fitted gaussian process
type Regressor struct {
	Params Params
	Kernel Kernel    `inactive:"+" desc:"fitted hyperparameters"`
	LML    float64   `inactive:"+" desc:"log marginal likelihood at the fitted hyperparameters"`
	X      []float64 `inactive:"+" desc:"training inputs"`
	wts    *mat.VecDense
}

// New returns a regressor with the given settings
func New(pr Params) *Regressor {
	return &Regressor{Params: pr}
}

// Fit fits the hyperparameters and conditions the process on (x, y)
func (gp *Regressor) Fit(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("gp.Fit: %d inputs but %d targets", len(x), len(y))
	}
	if len(x) == 0 {
		return errors.New("gp.Fit: no training data")
	}
	if !allFinite(x) || !allFinite(y) {
		return errors.New("gp.Fit: non-finite training data")
	}
	gp.X = append(gp.X[:0], x...)
	gp.Kernel = gp.Params.Init
	if gp.Params.Optimize {
		gp.Kernel = gp.optimize(y)
	}
	lml, wts, ok := gp.condition(gp.Kernel, y)
	if !ok {
		return errors.New("gp.Fit: training covariance is not positive definite")
	}
	gp.LML = lml
	gp.wts = wts
	return nil
}

// Predict returns the posterior mean at x
func (gp *Regressor) Predict(x float64) float64 {
	if gp.wts == nil {
		return math.NaN()
	}
	mean := 0.0
	for i, xi := range gp.X {
		mean += gp.Kernel.Cov(x-xi) * gp.wts.AtVec(i)
	}
	return mean
}

// PredictAll returns the posterior mean at each of xs
func (gp *Regressor) PredictAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = gp.Predict(x)
	}
	return out
}

// LogMarginalLikelihood returns the log marginal likelihood of y under kernel k,
// or -Inf when the covariance can not be factorized
func (gp *Regressor) LogMarginalLikelihood(k Kernel, y []float64) float64 {
	lml, _, ok := gp.condition(k, y)
	if !ok {
		return math.Inf(-1)
	}
	return lml
}

// condition factorizes the training covariance and solves for the weights K^-1 y
func (gp *Regressor) condition(k Kernel, y []float64) (float64, *mat.VecDense, bool) {
	n := len(gp.X)
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c := k.Cov(gp.X[i] - gp.X[j])
			if i == j {
				c += gp.Params.Alpha
			}
			cov.SetSym(i, j, c)
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return 0, nil, false
	}
	yv := mat.NewVecDense(n, append([]float64(nil), y...))
	var wts mat.VecDense
	if err := chol.SolveVecTo(&wts, yv); err != nil {
		return 0, nil, false
	}
	lml := -0.5*mat.Dot(yv, &wts) - 0.5*chol.LogDet() - 0.5*float64(n)*math.Log(2*math.Pi)
	return lml, &wts, true
}

// optimize maximizes the log marginal likelihood over log hyperparameters within bounds
func (gp *Regressor) optimize(y []float64) Kernel {
	lo := []float64{math.Log(gp.Params.ConstMin), math.Log(gp.Params.LengthMin)}
	hi := []float64{math.Log(gp.Params.ConstMax), math.Log(gp.Params.LengthMax)}
	toKernel := func(theta []float64) Kernel {
		return Kernel{
			Const:  math.Exp(clamp(theta[0], lo[0], hi[0])),
			Length: math.Exp(clamp(theta[1], lo[1], hi[1])),
		}
	}
	prob := optimize.Problem{
		Func: func(theta []float64) float64 {
			lml := gp.LogMarginalLikelihood(toKernel(theta), y)
			if math.IsInf(lml, 0) || math.IsNaN(lml) {
				return math.MaxFloat64
			}
			return -lml
		},
	}

	starts := [][]float64{{math.Log(gp.Params.Init.Const), math.Log(gp.Params.Init.Length)}}
	src := rand.NewSource(gp.Params.Seed)
	uc := distuv.Uniform{Min: lo[0], Max: hi[0], Src: src}
	ul := distuv.Uniform{Min: lo[1], Max: hi[1], Src: src}
	for r := 0; r < gp.Params.Restarts; r++ {
		starts = append(starts, []float64{uc.Rand(), ul.Rand()})
	}

	best := toKernel(starts[0])
	bestF := prob.Func(starts[0])
	for _, st := range starts {
		// Minimize may stop on an iteration limit with a usable result
		res, _ := optimize.Minimize(prob, st, nil, &optimize.NelderMead{})
		if res == nil {
			continue
		}
		if res.F < bestF {
			bestF = res.F
			best = toKernel(res.X)
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func allFinite(v []float64) bool {
	return !floats.HasNaN(v) && !math.IsInf(floats.Max(v), 1) && !math.IsInf(floats.Min(v), -1)
}
