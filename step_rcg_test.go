// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Seed test 4: RCG raises theta at least once on an indefinite operator,
// keeps the operator flagged indefinite for the rest of the solve, and
// eventually converges after its restarts rather than looping forever.
func TestRCGRegularizesAndConverges(t *testing.T) {
	A := operatorFunc{
		apply: func(dst, x []float64) {
			dst[0] = x[0]
			dst[1] = -0.01 * x[1]
		},
		applyScaleAdd: func(dst []float64, a float64, x []float64) {
			dst[0] += a * x[0]
			dst[1] += a * -0.01 * x[1]
		},
	}
	b := []float64{1, 1}
	x := []float64{0, 0}

	step := NewRCG(A, nil, nil)
	require.Equal(t, 2.0, step.MinIncrease)
	require.Equal(t, 1000.0, step.MaxIncrease)

	term := NewResidualBased(1e-10)
	solver, err := NewSolver(step, term)
	require.NoError(t, err)
	require.NoError(t, solver.SetMaxSteps(200))
	res, err := solver.Solve(x, b)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.True(t, step.OperatorIsIndefinite())
	require.Greater(t, step.Theta(), 0.0)
}

// theta is monotone non-decreasing for the lifetime of a solve,
// including across restarts; it resets to zero only on the next Init.
func TestRCGThetaMonotoneAcrossRestartsAndResetsOnReinit(t *testing.T) {
	A := operatorFunc{
		apply: func(dst, x []float64) {
			dst[0] = x[0]
			dst[1] = -0.01 * x[1]
		},
		applyScaleAdd: func(dst []float64, a float64, x []float64) {
			dst[0] += a * x[0]
			dst[1] += a * -0.01 * x[1]
		},
	}
	b := []float64{1, 1}
	x := []float64{0, 0}

	step := NewRCG(A, nil, nil)
	term := NewResidualBased(1e-10)
	term.ConnectResidualObserver(step)

	step.Init(x, b)
	require.NoError(t, term.Init())
	var lastTheta float64
	for i := 0; i < 200 && !term.IsConverged(); i++ {
		require.NoError(t, step.Compute(x, b))
		require.GreaterOrEqual(t, step.Theta(), lastTheta)
		lastTheta = step.Theta()
		if step.WantsRestart() {
			copy(x, []float64{0, 0})
			copy(b, []float64{1, 1})
			step.Reset(x, b)
			require.NoError(t, term.Init())
		}
	}

	thetaBeforeReinit := step.Theta()
	require.Greater(t, thetaBeforeReinit, 0.0)
	step.Init(x, b)
	require.Equal(t, 0.0, step.Theta())
}
