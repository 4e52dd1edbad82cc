// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// TRCG implements the truncated-regularized conjugate gradient method. On
// a direction of non-positive curvature it asks a connected
// minimal-decrease predicate (supplied by a RelativeEnergyError
// termination criterion) whether the iteration has already reduced the
// energy error enough to settle for truncation; if so it behaves like
// TCG, otherwise it regularizes and restarts like RCG.
//
// A TRCG step only functions correctly paired with a TerminationCriterion
// implementing minimalDecreaseAchiever; NewSolver returns ErrUninitialised
// if no such predicate is ever connected.
type TRCG struct {
	cgCore

	theta, dxPdx float64
	Pdx          []float64

	MinIncrease, MaxIncrease float64
	eps                      float64

	minimalDecreaseAchieved func() bool

	doRestart      bool
	doTerminate    bool
	firstIteration bool
	indefinite     bool
}

// NewTRCG creates a TRCG step. See NewCG for the meaning of the arguments.
func NewTRCG(A Operator, P Preconditioner, sp ScalarProduct) *TRCG {
	return &TRCG{
		cgCore:         newCGCore(A, P, sp),
		MinIncrease:    2,
		MaxIncrease:    1000,
		eps:            defaultEps,
		firstIteration: true,
	}
}

// Name implements Step.
func (t *TRCG) Name() string { return "Truncated Regularized Conjugate Gradients" }

// Init implements Step.
func (t *TRCG) Init(x, b []float64) {
	t.P.Pre(x, b)
	t.cgInit(x, b)
	t.Pdx = reuse(t.Pdx, len(x))
	copy(t.Pdx, t.r)
	t.theta = 0
	t.doRestart = false
	t.doTerminate = false
	t.firstIteration = true
	t.indefinite = false
}

// Reset implements Step. As with RCG, theta survives a restart; it is
// reset to zero only by the next Init.
func (t *TRCG) Reset(x, b []float64) {
	t.cgReset(x, b)
	copy(t.Pdx, t.r)
	t.doRestart = false
	t.doTerminate = false
	t.firstIteration = true
}

// Compute implements Step.
func (t *TRCG) Compute(x, b []float64) error {
	t.cgApplyPreconditioner()
	t.cgSearchDirection(func(beta float64) {
		floats.Scale(beta, t.Pdx)
		floats.Add(t.Pdx, t.r)
	})
	t.dxPdx = t.sp.Dot(t.dx, t.Pdx)
	t.dxAdx += t.theta * t.dxPdx
	if t.dxAdx <= 0 {
		t.treatNonconvexity(x)
		return nil
	}
	t.firstIteration = false
	t.cgScaling()
	t.cgUpdateIterate(x)
	t.updateResidual()
	return nil
}

func (t *TRCG) updateResidual() {
	t.cgUpdateResidual()
	floats.AddScaled(t.r, -t.alpha*t.theta, t.Pdx)
}

// treatNonconvexity chooses between truncating (like TCG) and
// regularizing (like RCG) based on the connected minimal-decrease
// predicate. With no predicate connected it always regularizes, which is
// the safe fallback (TRCG degenerates to RCG).
func (t *TRCG) treatNonconvexity(x []float64) {
	if t.minimalDecreaseAchieved != nil && t.minimalDecreaseAchieved() {
		if t.firstIteration {
			for i := range x {
				x[i] += t.dx[i]
			}
		}
		t.indefinite = true
		t.doTerminate = true
		return
	}
	t.regularize()
}

func (t *TRCG) regularize() {
	thetaOld := t.theta
	if thetaOld <= 0 {
		thetaOld = t.eps
	}
	t.theta += (1 - t.dxAdx) / math.Abs(t.dxPdx)
	t.theta = math.Min(math.Max(t.MinIncrease*thetaOld, t.theta), t.MaxIncrease*thetaOld)

	t.alpha = 0
	t.indefinite = true
	t.doRestart = true
}

// PostProcess implements Step.
func (t *TRCG) PostProcess(x []float64) { t.P.Post(x) }

// WantsRestart implements Restarter.
func (t *TRCG) WantsRestart() bool { return t.doRestart }

// WantsTerminate implements SelfTerminator.
func (t *TRCG) WantsTerminate() bool { return t.doTerminate }

// OperatorIsIndefinite reports whether TRCG has ever had to truncate or
// regularize during the current solve.
func (t *TRCG) OperatorIsIndefinite() bool { return t.indefinite }

// Theta returns the current regularization parameter.
func (t *TRCG) Theta() float64 { return t.theta }

// SetEps implements the eps mirroring capability.
func (t *TRCG) SetEps(eps float64) { t.eps = eps }

// ConnectMinimalDecreaseAchiever implements minimalDecreaseConnecter.
func (t *TRCG) ConnectMinimalDecreaseAchiever(f func() bool) { t.minimalDecreaseAchieved = f }
