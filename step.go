// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

// Step is the per-iteration state machine of a particular method (CG, TCG,
// RCG, TRCG, Chebyshev, ...). It owns the iterate-local mutable state
// (residual, search direction, curvature, ...) and performs exactly one
// iteration per Compute call. The driver (Solver) never inspects this
// state directly; it reads it through the small accessor interfaces below.
type Step interface {
	// Init prepares the step for a fresh solve of A*x=b. It is called
	// once, before the first Compute.
	Init(x, b []float64)

	// Reset reinitializes the step for a restart, reusing already
	// allocated buffers. It is called instead of Init when a restart is
	// requested.
	Reset(x, b []float64)

	// Compute performs one iteration, mutating x and the step's internal
	// state. It returns a non-nil error only for unrecoverable numerical
	// failures (see ErrNonConvexOperator).
	Compute(x, b []float64) error

	// PostProcess is called once after the final iteration of a solve.
	PostProcess(x []float64)

	// Name identifies the method, used in verbose output.
	Name() string
}

// ResidualObserver is implemented by a Step that can report the norm of
// its current residual. ResidualBased termination criteria require it.
type ResidualObserver interface {
	ResidualNorm() float64
}

// EnergyObserver is implemented by a Step that exposes the quantities
// RelativeEnergyError needs: the step length alpha, the A-energy of the
// search direction, and the P-energy of the residual.
type EnergyObserver interface {
	Alpha() float64
	Length() float64
	PreconditionedResidualNorm() float64
}

// Restarter is implemented by a Step that may require the driver to
// restart the whole iteration from the initial (x0, b0) snapshot, such as
// RCG and TRCG after regularizing. The driver only takes a snapshot of
// (x0, b0) if the Step it drives implements Restarter.
type Restarter interface {
	WantsRestart() bool
}

// SelfTerminator is implemented by a Step that can decide, independent of
// any TerminationCriterion, that the iteration must stop. TCG uses this
// when it truncates at a direction of non-positive curvature; TRCG uses
// it when it truncates instead of regularizing.
type SelfTerminator interface {
	WantsTerminate() bool
}

// verbositySetter is mirrored onto a Step by the driver whenever the
// driver's own verbosity is changed. The steps in this package store the
// level but write no output themselves; all tracing is done by the driver.
type verbositySetter interface {
	SetVerbosityLevel(level int)
}

// epsSetter is mirrored onto a Step by the driver. RCG/TRCG use eps as
// the floor for the very first regularization parameter update.
type epsSetter interface {
	SetEps(eps float64)
}

// iterativeRefinementsSetter is mirrored onto a Step by the driver.
type iterativeRefinementsSetter interface {
	SetIterativeRefinements(n int)
}

// minimalDecreaseConnecter is implemented by TRCG's step: it is given the
// predicate a TerminationCriterion exposes to decide, on non-positive
// curvature, between truncating and regularizing.
type minimalDecreaseConnecter interface {
	ConnectMinimalDecreaseAchiever(func() bool)
}

// minimalDecreaseAchiever is implemented by a TerminationCriterion able to
// answer TRCG's "have we decreased enough to settle for truncation"
// question. RelativeEnergyError implements it; ResidualBased does not,
// so constructing a TRCG solver with a ResidualBased criterion fails with
// ErrUninitialised.
type minimalDecreaseAchiever interface {
	MinimalDecreaseAchieved() bool
}

// residualConnecter is implemented by a TerminationCriterion that observes
// a Step's residual norm (ResidualBased).
type residualConnecter interface {
	ConnectResidualObserver(ResidualObserver)
}

// energyConnecter is implemented by a TerminationCriterion that observes a
// Step's energy-related accessors (RelativeEnergyError).
type energyConnecter interface {
	ConnectEnergyObserver(EnergyObserver)
}

// relativeAccuracySetter is mirrored onto a TerminationCriterion by the
// driver whenever the driver's relative accuracy is changed. Both
// ResidualBased and RelativeEnergyError implement it.
type relativeAccuracySetter interface {
	SetRelativeAccuracy(a float64) error
}

// absoluteAccuracySetter is mirrored onto a TerminationCriterion by the
// driver. Only RelativeEnergyError uses it, as the floor for its
// vanishing-step detection.
type absoluteAccuracySetter interface {
	SetAbsoluteAccuracy(a float64) error
}

// minimalAccuracySetter is mirrored onto a TerminationCriterion by the
// driver. Only RelativeEnergyError uses it, as the threshold for the
// minimal-decrease signal TRCG reads.
type minimalAccuracySetter interface {
	SetMinimalAccuracy(a float64) error
}

// epsTermSetter is mirrored onto a TerminationCriterion by the driver, in
// addition to epsSetter which mirrors onto the Step.
type epsTermSetter interface {
	SetEps(eps float64) error
}
