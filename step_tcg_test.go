// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Seed test 3 (TCG half): on the same indefinite 2x2 operator CG fails
// on, TCG terminates in exactly one step with do_terminate=true and the
// operator flagged Indefinite.
func TestTCGIndefiniteTerminatesInOneStep(t *testing.T) {
	A := operatorFunc{
		apply: func(dst, x []float64) {
			dst[0] = x[0]
			dst[1] = -x[1]
		},
		applyScaleAdd: func(dst []float64, a float64, x []float64) {
			dst[0] += a * x[0]
			dst[1] += a * -x[1]
		},
	}
	b := []float64{1, 1}
	x := []float64{0, 0}

	step := NewTCG(A, nil, nil)
	term := NewResidualBased(1e-12)
	solver, err := NewSolver(step, term)
	require.NoError(t, err)
	res, err := solver.Solve(x, b)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Equal(t, 1, res.Iterations)
	require.True(t, step.WantsTerminate())
	require.True(t, step.OperatorIsIndefinite())
}

func TestTCGOnSPDBehavesLikeCG(t *testing.T) {
	A := operatorFunc{
		apply: func(dst, x []float64) {
			dst[0] = 4*x[0] + x[1]
			dst[1] = x[0] + 3*x[1]
		},
		applyScaleAdd: func(dst []float64, a float64, x []float64) {
			dst[0] += a * (4*x[0] + x[1])
			dst[1] += a * (x[0] + 3*x[1])
		},
	}
	b := []float64{1, 2}
	x := []float64{0, 0}

	step := NewTCG(A, nil, nil)
	term := NewResidualBased(1e-12)
	solver, err := NewSolver(step, term)
	require.NoError(t, err)
	res, err := solver.Solve(x, b)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.False(t, step.OperatorIsIndefinite())
	require.InDelta(t, 1.0/11, x[0], 1e-9)
	require.InDelta(t, 7.0/11, x[1], 1e-9)
}

func TestTCGBlindUpdateDisabled(t *testing.T) {
	A := operatorFunc{
		apply: func(dst, x []float64) {
			dst[0] = -x[0]
			dst[1] = -x[1]
		},
		applyScaleAdd: func(dst []float64, a float64, x []float64) {
			dst[0] += a * -x[0]
			dst[1] += a * -x[1]
		},
	}
	b := []float64{1, 1}
	x := []float64{0, 0}

	step := NewTCG(A, nil, nil)
	step.SetPerformBlindUpdate(false)
	term := NewResidualBased(1e-12)
	solver, err := NewSolver(step, term)
	require.NoError(t, err)
	_, err = solver.Solve(x, b)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, x)
}
