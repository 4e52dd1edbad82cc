// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

// JacobiPreconditioner is a Preconditioner that applies the inverse of
// the diagonal of A, the cheapest nontrivial preconditioner and the
// default choice for the sparse operators produced by internal/mmarket.
type JacobiPreconditioner struct {
	Diagonal []float64
}

// NewJacobiPreconditioner creates a JacobiPreconditioner from the
// diagonal entries of A, usually obtained via a Diagonal() method on the
// concrete Operator (sparse.Matrix and DenseOperator both provide one).
func NewJacobiPreconditioner(diag []float64) *JacobiPreconditioner {
	d := make([]float64, len(diag))
	copy(d, diag)
	return &JacobiPreconditioner{Diagonal: d}
}

// Apply implements Preconditioner: dst = D^-1 * in.
func (j *JacobiPreconditioner) Apply(dst, in []float64) {
	for i, d := range j.Diagonal {
		if d == 0 {
			dst[i] = in[i]
			continue
		}
		dst[i] = in[i] / d
	}
}

// Pre implements Preconditioner. It is a no-op.
func (j *JacobiPreconditioner) Pre([]float64, []float64) {}

// Post implements Preconditioner. It is a no-op.
func (j *JacobiPreconditioner) Post([]float64) {}
