// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// DenseOperator adapts a *mat.SymDense to the Operator interface.
type DenseOperator struct {
	A *mat.SymDense
}

// Apply implements Operator: dst = A*x.
func (d DenseOperator) Apply(dst, x []float64) {
	n, _ := d.A.Dims()
	dstVec := mat.NewVecDense(n, dst)
	dstVec.MulVec(d.A, mat.NewVecDense(n, x))
}

// ApplyScaleAdd implements Operator: dst += a*A*x.
func (d DenseOperator) ApplyScaleAdd(dst []float64, a float64, x []float64) {
	n, _ := d.A.Dims()
	var y mat.VecDense
	y.MulVec(d.A, mat.NewVecDense(n, x))
	for i := 0; i < n; i++ {
		dst[i] += a * y.AtVec(i)
	}
}

// Diagonal returns the diagonal entries of A, for building a
// JacobiPreconditioner.
func (d DenseOperator) Diagonal() []float64 {
	n, _ := d.A.Dims()
	diag := make([]float64, n)
	for i := 0; i < n; i++ {
		diag[i] = d.A.At(i, i)
	}
	return diag
}

// CholeskyPreconditioner is a Preconditioner backed by the Cholesky
// factorization of a symmetric positive-definite matrix, the standard
// direct preconditioner for small-to-medium dense systems. Pre computes
// the factorization once per solve; Post is a no-op.
type CholeskyPreconditioner struct {
	A   *mat.SymDense
	chol mat.Cholesky
}

// NewCholeskyPreconditioner creates a CholeskyPreconditioner for A. The
// factorization itself is deferred to Pre, so that A may still be
// mutated after NewCholeskyPreconditioner returns and before a solve
// begins.
func NewCholeskyPreconditioner(A *mat.SymDense) *CholeskyPreconditioner {
	return &CholeskyPreconditioner{A: A}
}

// Pre implements Preconditioner by factorizing A. It panics if A is not
// positive-definite, matching mat.Cholesky.Factorize's own contract.
func (c *CholeskyPreconditioner) Pre([]float64, []float64) {
	ok := c.chol.Factorize(c.A)
	if !ok {
		panic("krylov: matrix is not symmetric positive-definite")
	}
}

// Apply implements Preconditioner: solves A*dst=in via the cached
// factorization.
func (c *CholeskyPreconditioner) Apply(dst, in []float64) {
	n := len(in)
	var x mat.VecDense
	if err := c.chol.SolveVecTo(&x, mat.NewVecDense(n, in)); err != nil {
		panic(err)
	}
	copy(dst, x.RawVector().Data)
}

// Post implements Preconditioner. It is a no-op.
func (c *CholeskyPreconditioner) Post([]float64) {}

// SSORPreconditioner is a Preconditioner approximating A^-1 by a single
// forward solve with the lower-triangular part of A (including the
// diagonal), the cheap alternative to CholeskyPreconditioner for larger
// dense systems where a full factorization is too costly to recompute
// per Pre call.
type SSORPreconditioner struct {
	lower blas64.General
	n     int
}

// NewSSORPreconditioner extracts the lower-triangular part of A,
// including the diagonal, into the triangular system SSORPreconditioner
// solves against.
func NewSSORPreconditioner(A *mat.SymDense) *SSORPreconditioner {
	n, _ := A.Dims()
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			data[i*n+j] = A.At(i, j)
		}
	}
	return &SSORPreconditioner{
		lower: blas64.General{Rows: n, Cols: n, Stride: n, Data: data},
		n:     n,
	}
}

// Pre implements Preconditioner. It is a no-op: the triangular factor is
// built once in NewSSORPreconditioner.
func (s *SSORPreconditioner) Pre([]float64, []float64) {}

// Apply implements Preconditioner: solves L*dst=in for the cached
// lower-triangular L via a single blas64.Trsv forward substitution.
func (s *SSORPreconditioner) Apply(dst, in []float64) {
	copy(dst, in)
	blas64.Implementation().Dtrsv(blas.Lower, blas.NoTrans, blas.NonUnit, s.n, s.lower.Data, s.lower.Stride, dst, 1)
}

// Post implements Preconditioner. It is a no-op.
func (s *SSORPreconditioner) Post([]float64) {}
