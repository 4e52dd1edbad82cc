// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

// TCG implements the truncated conjugate gradient method: instead of
// failing on a search direction of non-positive curvature like plain CG,
// it stops the iteration there and reports the current iterate, optionally
// performing one "blind" update first so the very first step never
// returns x unchanged.
type TCG struct {
	cgCore

	doTerminate bool

	// PerformBlindUpdate controls whether, on encountering non-positive
	// curvature during the very first iteration, TCG performs x += dx
	// before terminating. Defaults to true: returning x completely
	// unmodified is rarely useful to a caller.
	PerformBlindUpdate bool

	firstIteration bool
	indefinite     bool
}

// NewTCG creates a TCG step. See NewCG for the meaning of the arguments.
func NewTCG(A Operator, P Preconditioner, sp ScalarProduct) *TCG {
	return &TCG{
		cgCore:             newCGCore(A, P, sp),
		PerformBlindUpdate: true,
		firstIteration:     true,
	}
}

// Name implements Step.
func (t *TCG) Name() string { return "Truncated Conjugate Gradients" }

// Init implements Step.
func (t *TCG) Init(x, b []float64) {
	t.P.Pre(x, b)
	t.cgInit(x, b)
	t.doTerminate = false
	t.firstIteration = true
	t.indefinite = false
}

// Reset implements Step.
func (t *TCG) Reset(x, b []float64) {
	t.cgReset(x, b)
	t.doTerminate = false
	t.firstIteration = true
	t.indefinite = false
}

// Compute implements Step.
func (t *TCG) Compute(x, b []float64) error {
	t.cgApplyPreconditioner()
	t.cgSearchDirection(nil)
	if t.dxAdx <= 0 {
		t.treatNonconvexity(x)
		return nil
	}
	t.firstIteration = false
	t.cgScaling()
	t.cgUpdateIterate(x)
	t.cgUpdateResidual()
	return nil
}

func (t *TCG) treatNonconvexity(x []float64) {
	if t.firstIteration && t.PerformBlindUpdate {
		for i := range x {
			x[i] += t.dx[i]
		}
	}
	t.indefinite = true
	t.doTerminate = true
}

// PostProcess implements Step.
func (t *TCG) PostProcess(x []float64) { t.P.Post(x) }

// WantsTerminate implements SelfTerminator.
func (t *TCG) WantsTerminate() bool { return t.doTerminate }

// OperatorIsIndefinite reports whether TCG has ever encountered a
// direction of non-positive curvature during the current solve.
func (t *TCG) OperatorIsIndefinite() bool { return t.indefinite }

// SetPerformBlindUpdate sets whether TCG performs a blind x += dx update
// the first time it encounters non-positive curvature.
func (t *TCG) SetPerformBlindUpdate(v bool) { t.PerformBlindUpdate = v }
