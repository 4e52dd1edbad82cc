// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"gonum.org/v1/gonum/floats"
)

// Chebyshev implements the preconditioned Chebyshev semi-iteration for a
// symmetric operator A whose preconditioned spectrum sp(P*A) is known, or
// can be bounded, to lie in an interval [c-rho, c+rho] with 0 <= rho < c.
// Unlike the CG family, Chebyshev needs no inner products, only matrix-
// vector products and the preconditioner application, which makes it
// attractive when synchronization is expensive. Convergence, however,
// depends entirely on the accuracy of the supplied spectral bounds.
//
// The spectral center and half-radius must be set with SetSpectralBounds
// (or one of the InitFor... convenience configurators) before the first
// Init; Init returns with no iteration performed and the next Compute
// fails with ErrUninitialised otherwise -- callers must check this by
// calling Configured before using the step.
type Chebyshev struct {
	A  Operator
	P  Preconditioner
	sp ScalarProduct

	center, halfRadius float64
	configured         bool

	r, Pr, x, xPrev []float64

	sigma1, rho float64
	first       bool

	iterativeRefinements int
	verbosity            int
}

// NewChebyshev creates a Chebyshev step for the operator A, preconditioner
// P and scalar product sp. P may be nil (no preconditioning); sp may be
// nil (defaults to the sequential ℓ² scalar product), though Chebyshev
// itself never needs an inner product -- sp is only used by ResidualBased
// termination criteria connected to it.
func NewChebyshev(A Operator, P Preconditioner, sp ScalarProduct) *Chebyshev {
	if P == nil {
		P = IdentityPreconditioner{}
	}
	if sp == nil {
		sp = L2ScalarProduct{}
	}
	return &Chebyshev{A: A, P: P, sp: sp}
}

// SetSpectralBounds configures the spectral center and half-radius of
// P*A: sp(P*A) ⊂ [center-halfRadius, center+halfRadius]. It must be
// called, with 0 <= halfRadius < center, before the first Init.
// halfRadius=0 is the degenerate case of a perfectly preconditioned
// operator (P*A = center*I): the recurrence collapses to a single exact
// step (beta=0, alpha=-center).
func (c *Chebyshev) SetSpectralBounds(center, halfRadius float64) error {
	if halfRadius < 0 || halfRadius >= center {
		return invalidArgf("chebyshev: half-radius %g must lie in [0, %g)", halfRadius, center)
	}
	c.center, c.halfRadius = center, halfRadius
	c.configured = true
	return nil
}

// InitForMassMatrixTetQ1 configures the spectral bounds for the classical
// case of a diagonally (Jacobi) preconditioned consistent mass matrix
// assembled with linear (Q1) elements on tetrahedra, where the
// preconditioned spectrum is known a priori to be centered at
// c = 0.5 + halfDiameter with the given half-diameter as its radius.
func (c *Chebyshev) InitForMassMatrixTetQ1(halfDiameter float64) error {
	return c.SetSpectralBounds(0.5+halfDiameter, halfDiameter)
}

// Configured reports whether the spectral bounds have been set.
func (c *Chebyshev) Configured() bool { return c.configured }

// Name implements Step.
func (c *Chebyshev) Name() string { return "Chebyshev Semi-Iteration" }

// Init implements Step.
func (c *Chebyshev) Init(x, b []float64) {
	c.P.Pre(x, b)
	n := len(x)
	c.r = reuse(c.r, n)
	c.Pr = reuse(c.Pr, n)
	c.x = reuse(c.x, n)
	c.xPrev = reuse(c.xPrev, n)
	c.computeResidual(x, b)
	c.sigma1 = c.center / c.halfRadius
	c.first = true
}

// Reset implements Step.
func (c *Chebyshev) Reset(x, b []float64) {
	c.computeResidual(x, b)
	c.first = true
}

func (c *Chebyshev) computeResidual(x, b []float64) {
	copy(c.r, b)
	c.A.ApplyScaleAdd(c.r, -1, x)
	c.Pr = reuse(c.Pr, len(c.r))
	applyPreconditioner(c.A, c.P, c.sp, c.r, c.Pr, c.iterativeRefinements)
}

// Compute implements Step. It performs one step of the three-term
// Chebyshev acceleration recurrence (Saad, Iterative Methods for Sparse
// Linear Systems, Algorithm 12.1), recomputing the true residual
// r=b-A*x explicitly every iteration rather than updating it
// recursively, to avoid accumulating round-off over long runs.
func (c *Chebyshev) Compute(x, b []float64) error {
	if !c.configured {
		return ErrUninitialised
	}

	if c.first {
		copy(c.xPrev, x)
		floats.AddScaled(x, 1/c.center, c.Pr)
		c.rho = 1 / c.sigma1
		c.first = false
		c.computeResidual(x, b)
		return nil
	}

	rhoPrev := c.rho
	c.rho = 1 / (2*c.sigma1 - rhoPrev)

	c.x = reuse(c.x, len(x))
	for i := range c.x {
		c.x[i] = c.rho*rhoPrev*(x[i]-c.xPrev[i]) + 2*c.rho/c.halfRadius*c.Pr[i]
	}
	copy(c.xPrev, x)
	floats.Add(x, c.x)
	c.computeResidual(x, b)
	return nil
}

// PostProcess implements Step.
func (c *Chebyshev) PostProcess(x []float64) { c.P.Post(x) }

// ResidualNorm implements ResidualObserver.
func (c *Chebyshev) ResidualNorm() float64 { return c.sp.Norm(c.r) }

// SetIterativeRefinements implements iterativeRefinementsSetter.
func (c *Chebyshev) SetIterativeRefinements(n int) { c.iterativeRefinements = n }

// SetVerbosityLevel implements verbositySetter.
func (c *Chebyshev) SetVerbosityLevel(level int) { c.verbosity = level }
