// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RCG implements the regularized conjugate gradient method: on a search
// direction of non-positive curvature it increases a regularization
// parameter theta >= 0, replacing A with A + theta*P, and requests a
// restart of the whole iteration. theta is monotone non-decreasing for
// the lifetime of a solve; only a fresh Init (a new call to Solve) resets
// it to zero.
type RCG struct {
	cgCore

	theta, dxPdx float64
	Pdx          []float64

	// MinIncrease and MaxIncrease bound the ratio by which theta may grow
	// in a single regularization step: minIncrease*thetaOld <= thetaNew
	// <= maxIncrease*thetaOld. Defaults are 2 and 1000.
	MinIncrease, MaxIncrease float64

	eps float64

	doRestart  bool
	indefinite bool
}

// NewRCG creates an RCG step. See NewCG for the meaning of the arguments.
func NewRCG(A Operator, P Preconditioner, sp ScalarProduct) *RCG {
	return &RCG{
		cgCore:      newCGCore(A, P, sp),
		MinIncrease: 2,
		MaxIncrease: 1000,
		eps:         defaultEps,
	}
}

// Name implements Step.
func (r *RCG) Name() string { return "Regularized Conjugate Gradients" }

// Init implements Step.
func (r *RCG) Init(x, b []float64) {
	r.P.Pre(x, b)
	r.cgInit(x, b)
	r.Pdx = reuse(r.Pdx, len(x))
	copy(r.Pdx, r.r)
	r.theta = 0
	r.doRestart = false
	r.indefinite = false
}

// Reset implements Step.
//
// theta is intentionally NOT reset here: a restart within one Solve call
// keeps the regularization accumulated so far, it only rewinds x and b to
// their initial values. theta returns to zero only on the next Init,
// i.e. the next call to Solve. See DESIGN.md for the rationale.
func (r *RCG) Reset(x, b []float64) {
	r.cgReset(x, b)
	copy(r.Pdx, r.r)
	r.doRestart = false
}

// Compute implements Step.
func (r *RCG) Compute(x, b []float64) error {
	r.cgApplyPreconditioner()
	r.cgSearchDirection(func(beta float64) {
		floats.Scale(beta, r.Pdx)
		floats.Add(r.Pdx, r.r)
	})
	r.dxPdx = r.sp.Dot(r.dx, r.Pdx)
	r.dxAdx += r.theta * r.dxPdx
	if r.dxAdx <= 0 {
		r.regularize()
		return nil
	}
	r.cgScaling()
	r.cgUpdateIterate(x)
	r.updateResidual()
	return nil
}

func (r *RCG) updateResidual() {
	r.cgUpdateResidual()
	floats.AddScaled(r.r, -r.alpha*r.theta, r.Pdx)
}

func (r *RCG) regularize() {
	thetaOld := r.theta
	if thetaOld <= 0 {
		thetaOld = r.eps
	}
	r.theta += (1 - r.dxAdx) / math.Abs(r.dxPdx)
	r.theta = math.Min(math.Max(r.MinIncrease*thetaOld, r.theta), r.MaxIncrease*thetaOld)

	r.alpha = 0
	r.indefinite = true
	r.doRestart = true
}

// PostProcess implements Step.
func (r *RCG) PostProcess(x []float64) { r.P.Post(x) }

// WantsRestart implements Restarter.
func (r *RCG) WantsRestart() bool { return r.doRestart }

// OperatorIsIndefinite reports whether RCG has ever had to regularize
// during the current solve.
func (r *RCG) OperatorIsIndefinite() bool { return r.indefinite }

// Theta returns the current regularization parameter.
func (r *RCG) Theta() float64 { return r.theta }

// SetEps implements the eps mirroring capability; RCG uses eps as the
// floor for the very first regularization update.
func (r *RCG) SetEps(eps float64) { r.eps = eps }
