// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func indefiniteOperator() Operator {
	return operatorFunc{
		apply: func(dst, x []float64) {
			dst[0] = x[0]
			dst[1] = -0.01 * x[1]
		},
		applyScaleAdd: func(dst []float64, a float64, x []float64) {
			dst[0] += a * x[0]
			dst[1] += a * -0.01 * x[1]
		},
	}
}

// With MinimalAccuracy = 0, the minimal-decrease predicate is never
// satisfied (error^2 can never be < 0), so TRCG always regularizes: it
// reproduces RCG exactly.
func TestTRCGWithZeroMinimalAccuracyReproducesRCG(t *testing.T) {
	A := indefiniteOperator()
	b := []float64{1, 1}

	xTRCG := []float64{0, 0}
	trcg := NewTRCG(A, nil, nil)
	termT := NewRelativeEnergyError(1e-10)
	termT.MinimalAccuracy = 0
	solverT, err := NewSolver(trcg, termT)
	require.NoError(t, err)
	require.NoError(t, solverT.SetMaxSteps(200))
	resT, err := solverT.Solve(xTRCG, b)
	require.NoError(t, err)

	xRCG := []float64{0, 0}
	rcg := NewRCG(A, nil, nil)
	termR := NewResidualBased(1e-10)
	solverR, err := NewSolver(rcg, termR)
	require.NoError(t, err)
	require.NoError(t, solverR.SetMaxSteps(200))
	_, err = solverR.Solve(xRCG, b)
	require.NoError(t, err)

	require.True(t, resT.Converged)
	require.InDelta(t, xRCG[0], xTRCG[0], 1e-6)
	require.InDelta(t, xRCG[1], xTRCG[1], 1e-6)
}

// With MinimalAccuracy = +Inf, the minimal-decrease predicate is always
// satisfied, so TRCG always truncates on non-positive curvature instead
// of regularizing: it reproduces TCG exactly.
func TestTRCGWithInfiniteMinimalAccuracyReproducesTCG(t *testing.T) {
	A := indefiniteOperator()
	b := []float64{1, 1}

	xTRCG := []float64{0, 0}
	trcg := NewTRCG(A, nil, nil)
	termT := NewRelativeEnergyError(1e-10)
	termT.MinimalAccuracy = math.Inf(1)
	solverT, err := NewSolver(trcg, termT)
	require.NoError(t, err)
	resT, err := solverT.Solve(xTRCG, b)
	require.NoError(t, err)

	xTCG := []float64{0, 0}
	tcg := NewTCG(A, nil, nil)
	termR := NewResidualBased(1e-10)
	solverR, err := NewSolver(tcg, termR)
	require.NoError(t, err)
	_, _ = solverR.Solve(xTCG, b)

	require.True(t, resT.Converged)
	require.True(t, trcg.WantsTerminate())
	require.Equal(t, xTCG, xTRCG)
}

// The Step<->TerminationCriterion coupling for TRCG is checked
// statically: a TRCG step paired with ResidualBased, which does not
// implement MinimalDecreaseAchieved, fails at construction.
func TestTRCGRequiresMinimalDecreaseCapableCriterion(t *testing.T) {
	A := indefiniteOperator()
	trcg := NewTRCG(A, nil, nil)
	term := NewResidualBased(1e-10)
	_, err := NewSolver(trcg, term)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUninitialised)
}
