// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func sym3x3() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
}

func TestDenseOperatorApply(t *testing.T) {
	A := DenseOperator{A: sym3x3()}
	dst := make([]float64, 3)
	A.Apply(dst, []float64{1, 1, 1})
	require.Equal(t, []float64{5, 5, 3}, dst)
}

func TestDenseOperatorApplyScaleAdd(t *testing.T) {
	A := DenseOperator{A: sym3x3()}
	dst := []float64{10, 10, 10}
	A.ApplyScaleAdd(dst, 2, []float64{1, 1, 1})
	require.Equal(t, []float64{20, 20, 16}, dst)
}

func TestDenseOperatorDiagonal(t *testing.T) {
	A := DenseOperator{A: sym3x3()}
	require.Equal(t, []float64{4, 3, 2}, A.Diagonal())
}

func TestCholeskyPreconditionerSolvesExactly(t *testing.T) {
	A := sym3x3()
	p := NewCholeskyPreconditioner(A)
	p.Pre(nil, nil)

	op := DenseOperator{A: A}
	b := []float64{1, 2, 3}
	x := make([]float64, 3)
	p.Apply(x, b)

	// x should satisfy A*x = b.
	check := make([]float64, 3)
	op.Apply(check, x)
	for i := range b {
		require.InDelta(t, b[i], check[i], 1e-9)
	}
}

func TestCholeskyPreconditionerPanicsOnIndefinite(t *testing.T) {
	A := mat.NewSymDense(2, []float64{1, 0, 0, -1})
	p := NewCholeskyPreconditioner(A)
	require.Panics(t, func() { p.Pre(nil, nil) })
}

func TestSSORPreconditionerForwardSolve(t *testing.T) {
	A := sym3x3()
	p := NewSSORPreconditioner(A)
	p.Pre(nil, nil)

	// Lower-triangular part of A (including diagonal):
	// [4 0 0; 1 3 0; 0 1 2]. Solve L*x = [4,4,3] by inspection:
	// x0 = 1, x1 = (4-1)/3 = 1, x2 = (3-1)/2 = 1.
	x := make([]float64, 3)
	p.Apply(x, []float64{4, 4, 3})
	require.InDelta(t, 1, x[0], 1e-9)
	require.InDelta(t, 1, x[1], 1e-9)
	require.InDelta(t, 1, x[2], 1e-9)
}
