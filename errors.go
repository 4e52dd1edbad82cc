// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Use errors.Is to test a returned error against
// these; the concrete errors returned by this package wrap them with
// additional context.
var (
	// ErrNonConvexOperator is returned by CG when a search direction of
	// non-positive curvature (dxAdx <= 0) is encountered. It is fatal:
	// CG has no recovery strategy for an indefinite operator. TCG, RCG
	// and TRCG handle the same situation without returning an error.
	ErrNonConvexOperator = errors.New("krylov: non-positive curvature encountered in conjugate gradient method")

	// ErrUninitialised is returned when an operation requires prior
	// configuration that was not supplied, such as a Chebyshev spectrum,
	// or a termination criterion that was never connected to a step.
	ErrUninitialised = errors.New("krylov: required configuration is missing")

	// ErrInvalidArgument is returned by configuration setters that
	// receive an out-of-range value.
	ErrInvalidArgument = errors.New("krylov: invalid argument")
)

// defaultEps is the machine-epsilon-scale floor mirrored onto steps and
// termination criteria that need a strictly-positive lower bound (RCG's
// very first regularization update, the termination criteria's accuracy
// floor and RelativeEnergyError's vanishing-step test). It mirrors LAPACK dlamch('e') within a small constant factor,
// which is all these consumers rely on.
const defaultEps = 1.1102230246251565e-16

// NonConvergedError reports that Solve returned without satisfying its
// termination criterion within the configured number of steps. It is a
// value, not a panic: callers inspect Result.Converged, or unwrap this
// error, to decide how to react.
type NonConvergedError struct {
	Iterations int
	Reduction  float64
}

func (e *NonConvergedError) Error() string {
	return fmt.Sprintf("krylov: failed to converge in %d iterations (reduction %.3e)", e.Iterations, e.Reduction)
}

func invalidArgf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
