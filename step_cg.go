// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// applyPreconditioner computes Pr = P*r, optionally refined by a fixed
// number of inner defect-correction passes:
//
//	for each refinement pass: r2 = r - A*Pr; Pr += P*r2
//
// It returns sigma = |<r,Pr>|, the squared residual norm in the P-metric.
func applyPreconditioner(A Operator, P Preconditioner, sp ScalarProduct, r, Pr []float64, refinements int) float64 {
	P.Apply(Pr, r)

	if refinements > 0 {
		r2 := make([]float64, len(r))
		delta := make([]float64, len(r))
		for i := 0; i < refinements; i++ {
			copy(r2, r)
			A.ApplyScaleAdd(r2, -1, Pr)
			P.Apply(delta, r2)
			floats.Add(Pr, delta)
		}
	}

	return math.Abs(sp.Dot(r, Pr))
}

// cgCore holds the mutable state shared by CG, TCG, RCG and TRCG: it is
// not itself a Step (it has no Init/Compute), only the fields and phase
// helpers every CG-family variant reuses.
type cgCore struct {
	A  Operator
	P  Preconditioner
	sp ScalarProduct

	first bool
	r     []float64 // residual b - A*x, in a buffer owned by the step
	Pr    []float64 // P*r
	dx    []float64 // search direction
	Adx   []float64 // A*dx

	alpha, beta, sigma, dxAdx float64

	iterativeRefinements int
	verbosity            int
}

func newCGCore(A Operator, P Preconditioner, sp ScalarProduct) cgCore {
	if P == nil {
		P = IdentityPreconditioner{}
	}
	if sp == nil {
		sp = L2ScalarProduct{}
	}
	return cgCore{A: A, P: P, sp: sp}
}

func (c *cgCore) allocate(n int) {
	c.r = reuse(c.r, n)
	c.Pr = reuse(c.Pr, n)
	c.dx = reuse(c.dx, n)
	c.Adx = reuse(c.Adx, n)
}

// cgInit sets r = b - A*x and marks the next search direction as the
// first of the (re)started iteration.
func (c *cgCore) cgInit(x, b []float64) {
	c.allocate(len(x))
	copy(c.r, b)
	c.A.ApplyScaleAdd(c.r, -1, x)
	c.first = true
	c.dxAdx = 0
}

func (c *cgCore) cgReset(x, b []float64) {
	copy(c.r, b)
	c.A.ApplyScaleAdd(c.r, -1, x)
	c.first = true
}

// cgApplyPreconditioner runs the shared apply-preconditioner phase. It sets
// sigma only for the first search direction; on later iterations sigma
// still holds the previous value, which cgSearchDirection divides by to
// form beta before storing the new one.
func (c *cgCore) cgApplyPreconditioner() {
	sigma := applyPreconditioner(c.A, c.P, c.sp, c.r, c.Pr, c.iterativeRefinements)
	if c.first {
		c.sigma = sigma
	}
}

// cgSearchDirection computes the new conjugate search direction dx and its
// induced curvature dxAdx = <dx, A*dx>. adjust, if non-nil, is called
// after beta has been computed so RCG can update its auxiliary Pdx vector
// in lock-step; it receives beta.
func (c *cgCore) cgSearchDirection(adjust func(beta float64)) {
	if c.first {
		copy(c.dx, c.Pr)
		c.first = false
	} else {
		newSigma := math.Abs(c.sp.Dot(c.r, c.Pr))
		c.beta = newSigma / c.sigma
		c.sigma = newSigma
		floats.Scale(c.beta, c.dx)
		floats.Add(c.dx, c.Pr)
		if adjust != nil {
			adjust(c.beta)
		}
	}
	c.A.Apply(c.Adx, c.dx)
	c.dxAdx = c.sp.Dot(c.dx, c.Adx)
}

// cgScaling computes the standard CG step length alpha = sigma/dxAdx.
func (c *cgCore) cgScaling() {
	c.alpha = c.sigma / c.dxAdx
}

func (c *cgCore) cgUpdateIterate(x []float64) {
	floats.AddScaled(x, c.alpha, c.dx)
}

func (c *cgCore) cgUpdateResidual() {
	floats.AddScaled(c.r, -c.alpha, c.Adx)
}

func (c *cgCore) Alpha() float64                     { return c.alpha }
func (c *cgCore) Length() float64                    { return c.dxAdx }
func (c *cgCore) PreconditionedResidualNorm() float64 { return c.sigma }
func (c *cgCore) ResidualNorm() float64               { return c.sp.Norm(c.r) }
func (c *cgCore) SetIterativeRefinements(n int)       { c.iterativeRefinements = n }
func (c *cgCore) SetVerbosityLevel(level int)         { c.verbosity = level }

// CG implements the standard (unpreconditioned or preconditioned)
// conjugate gradient method for a symmetric positive-definite operator A.
// It fails with ErrNonConvexOperator if a search direction of
// non-positive curvature is ever encountered: CG itself has no recovery
// strategy for an indefinite operator, unlike TCG/RCG/TRCG.
type CG struct {
	cgCore
}

// NewCG creates a CG step for the operator A, preconditioner P and scalar
// product sp. P may be nil (no preconditioning); sp may be nil (defaults
// to the sequential ℓ² scalar product).
func NewCG(A Operator, P Preconditioner, sp ScalarProduct) *CG {
	return &CG{cgCore: newCGCore(A, P, sp)}
}

// Name implements Step.
func (c *CG) Name() string { return "Conjugate Gradients" }

// Init implements Step.
func (c *CG) Init(x, b []float64) {
	c.P.Pre(x, b)
	c.cgInit(x, b)
}

// Reset implements Step.
func (c *CG) Reset(x, b []float64) { c.cgReset(x, b) }

// Compute implements Step.
func (c *CG) Compute(x, b []float64) error {
	c.cgApplyPreconditioner()
	c.cgSearchDirection(nil)
	if c.dxAdx <= 0 {
		return ErrNonConvexOperator
	}
	c.cgScaling()
	c.cgUpdateIterate(x)
	c.cgUpdateResidual()
	return nil
}

// PostProcess implements Step.
func (c *CG) PostProcess(x []float64) { c.P.Post(x) }
