// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package krylov provides preconditioned Krylov-subspace solvers for linear
// operator equations Ax=b over ℓ²: standard and truncated/regularized
// conjugate-gradient variants, and a preconditioned Chebyshev semi-iteration,
// all built on top of a single generic iterative-method driver.
package krylov

import "gonum.org/v1/gonum/floats"

// Operator represents the linear operator A of the equation Ax=b, mapping
// domain vectors to range vectors. A solver never assumes A is represented
// as a matrix; it only ever calls Apply and ApplyScaleAdd.
type Operator interface {
	// Apply computes dst = A*x.
	Apply(dst, x []float64)

	// ApplyScaleAdd computes dst += a*A*x.
	ApplyScaleAdd(dst []float64, a float64, x []float64)
}

// Preconditioner represents an approximation P of A⁻¹ used to accelerate
// convergence. Pre and Post are called exactly once per solve, before the
// first and after the last iteration respectively.
type Preconditioner interface {
	// Apply computes dst = P*in, the (approximate) solution of A*dst=in.
	Apply(dst, in []float64)

	// Pre is called once before the first iteration of a solve.
	Pre(x, b []float64)

	// Post is called once after the last iteration of a solve.
	Post(x []float64)
}

// ScalarProduct computes the inner product and induced norm of the space
// the solver operates in.
type ScalarProduct interface {
	Dot(u, v []float64) float64
	Norm(v []float64) float64
}

// IdentityPreconditioner is a Preconditioner equal to the identity, used
// when no preconditioning is requested.
type IdentityPreconditioner struct{}

// Apply implements Preconditioner by copying in into dst.
func (IdentityPreconditioner) Apply(dst, in []float64) { copy(dst, in) }

// Pre implements Preconditioner. It is a no-op.
func (IdentityPreconditioner) Pre([]float64, []float64) {}

// Post implements Preconditioner. It is a no-op.
func (IdentityPreconditioner) Post([]float64) {}

// L2ScalarProduct is the sequential Euclidean scalar product, the default
// ScalarProduct used when none is supplied.
type L2ScalarProduct struct{}

// Dot returns the Euclidean inner product of u and v.
func (L2ScalarProduct) Dot(u, v []float64) float64 { return floats.Dot(u, v) }

// Norm returns the Euclidean norm of v.
func (L2ScalarProduct) Norm(v []float64) float64 { return floats.Norm(v, 2) }

func reuse(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	v = v[:n]
	for i := range v {
		v[i] = 0
	}
	return v
}
