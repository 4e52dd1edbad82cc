// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"
	"time"
)

// TerminationCriterion decides, once per iteration, whether a Solver may
// stop. Its IsConverged method has the side effect of advancing an
// internal iteration counter and must therefore be called at most once
// per iteration.
type TerminationCriterion interface {
	// Init resets the criterion for a fresh solve. It returns an error if
	// the criterion has not been given everything it needs to operate,
	// such as a connected Step observer.
	Init() error

	// IsConverged evaluates the criterion, advancing its internal state.
	IsConverged() bool

	// ErrorEstimate returns the criterion's current estimate of the
	// relative error, for reporting and for Result.Reduction.
	ErrorEstimate() float64

	// Finalize records the final iteration count and error estimate into
	// res, on both successful and unsuccessful termination.
	Finalize(res *Result)
}

// ResidualBased terminates once the observed residual norm has dropped
// by RelativeAccuracy relative to the residual norm at Init, or once that
// ratio can no longer be trusted below Eps.
type ResidualBased struct {
	RelativeAccuracy float64
	Eps              float64

	observer ResidualObserver

	initialNorm float64
	iteration   int
	started     time.Time
}

// NewResidualBased creates a ResidualBased criterion with the given
// relative accuracy. Eps defaults to defaultEps.
func NewResidualBased(relativeAccuracy float64) *ResidualBased {
	return &ResidualBased{RelativeAccuracy: relativeAccuracy, Eps: defaultEps}
}

// ConnectResidualObserver implements residualConnecter.
func (r *ResidualBased) ConnectResidualObserver(obs ResidualObserver) { r.observer = obs }

// SetRelativeAccuracy implements relativeAccuracySetter.
func (r *ResidualBased) SetRelativeAccuracy(a float64) error {
	if a < 0 {
		return invalidArgf("relativeAccuracy must be non-negative, got %g", a)
	}
	r.RelativeAccuracy = a
	return nil
}

// SetEps implements epsTermSetter.
func (r *ResidualBased) SetEps(eps float64) error {
	if eps <= 0 {
		return invalidArgf("eps must be positive, got %g", eps)
	}
	r.Eps = eps
	return nil
}

// Init implements TerminationCriterion.
func (r *ResidualBased) Init() error {
	if r.observer == nil {
		return ErrUninitialised
	}
	r.initialNorm = r.observer.ResidualNorm()
	r.iteration = 0
	r.started = time.Now()
	return nil
}

// IsConverged implements TerminationCriterion.
func (r *ResidualBased) IsConverged() bool {
	r.iteration++
	acc := math.Max(r.Eps, r.RelativeAccuracy)
	return r.ErrorEstimate() < acc
}

// ErrorEstimate implements TerminationCriterion.
func (r *ResidualBased) ErrorEstimate() float64 {
	if r.initialNorm == 0 {
		return 0
	}
	return r.observer.ResidualNorm() / r.initialNorm
}

// Finalize implements TerminationCriterion.
func (r *ResidualBased) Finalize(res *Result) {
	res.Iterations = r.iteration
	res.Reduction = r.ErrorEstimate()
	res.Elapsed = time.Since(r.started)
	if res.Iterations > 0 {
		res.ConvergenceRate = math.Pow(res.Reduction, 1/float64(res.Iterations))
	}
}

// RelativeEnergyError estimates the relative error of the iterate in the
// A-energy norm from quantities the CG family already computes, using
// LookAhead extra iterations of lag before the estimate is trusted
// (Strakoš & Tichý 2005). It requires the solve to start at x=0 (or at
// least at a point for which the running energy-norm estimate stays
// positive).
type RelativeEnergyError struct {
	RelativeAccuracy float64
	AbsoluteAccuracy float64
	MinimalAccuracy  float64
	Eps              float64

	// LookAhead is the number of extra CG iterations performed before the
	// error estimate is trusted. Defaults to 5.
	LookAhead int

	observer EnergyObserver

	scaledGamma2          []float64
	energyNorm2, stepLen2 float64
	iteration             int
	started               time.Time
}

// NewRelativeEnergyError creates a RelativeEnergyError criterion with the
// given relative accuracy. LookAhead defaults to 5; Eps, AbsoluteAccuracy
// and MinimalAccuracy default to defaultEps.
func NewRelativeEnergyError(relativeAccuracy float64) *RelativeEnergyError {
	return &RelativeEnergyError{
		RelativeAccuracy: relativeAccuracy,
		AbsoluteAccuracy: defaultEps,
		MinimalAccuracy:  defaultEps,
		Eps:              defaultEps,
		LookAhead:        5,
	}
}

// ConnectEnergyObserver implements energyConnecter.
func (e *RelativeEnergyError) ConnectEnergyObserver(obs EnergyObserver) { e.observer = obs }

// SetRelativeAccuracy implements relativeAccuracySetter.
func (e *RelativeEnergyError) SetRelativeAccuracy(a float64) error {
	if a < 0 {
		return invalidArgf("relativeAccuracy must be non-negative, got %g", a)
	}
	e.RelativeAccuracy = a
	return nil
}

// SetAbsoluteAccuracy implements absoluteAccuracySetter.
func (e *RelativeEnergyError) SetAbsoluteAccuracy(a float64) error {
	if a < 0 {
		return invalidArgf("absoluteAccuracy must be non-negative, got %g", a)
	}
	e.AbsoluteAccuracy = a
	return nil
}

// SetMinimalAccuracy implements minimalAccuracySetter.
func (e *RelativeEnergyError) SetMinimalAccuracy(a float64) error {
	if a < 0 {
		return invalidArgf("minimalAccuracy must be non-negative, got %g", a)
	}
	e.MinimalAccuracy = a
	return nil
}

// SetEps implements epsTermSetter.
func (e *RelativeEnergyError) SetEps(eps float64) error {
	if eps <= 0 {
		return invalidArgf("eps must be positive, got %g", eps)
	}
	e.Eps = eps
	return nil
}

// SetLookAhead sets the number of extra iterations aggregated before the
// error estimate is trusted. It must be positive.
func (e *RelativeEnergyError) SetLookAhead(d int) error {
	if d <= 0 {
		return invalidArgf("lookAhead must be positive, got %d", d)
	}
	e.LookAhead = d
	return nil
}

// Init implements TerminationCriterion.
func (e *RelativeEnergyError) Init() error {
	if e.observer == nil {
		return ErrUninitialised
	}
	e.scaledGamma2 = e.scaledGamma2[:0]
	e.energyNorm2, e.stepLen2 = 0, 0
	e.iteration = 0
	e.started = time.Now()
	return nil
}

func (e *RelativeEnergyError) readStep() {
	gamma2 := e.observer.Alpha() * e.observer.PreconditionedResidualNorm()
	e.scaledGamma2 = append(e.scaledGamma2, gamma2)
	e.energyNorm2 += gamma2
	e.stepLen2 = math.Abs(e.observer.Length())
}

// IsConverged implements TerminationCriterion.
func (e *RelativeEnergyError) IsConverged() bool {
	e.iteration++
	e.readStep()

	if e.vanishingStep() {
		return true
	}
	acc := math.Max(e.RelativeAccuracy, e.Eps)
	return len(e.scaledGamma2) > e.LookAhead && e.squaredRelativeError() < acc*acc
}

// ErrorEstimate implements TerminationCriterion.
func (e *RelativeEnergyError) ErrorEstimate() float64 {
	return math.Sqrt(e.squaredRelativeError())
}

// MinimalDecreaseAchieved implements minimalDecreaseAchiever: it reports
// whether the relaxed, minimal required accuracy has been reached, used
// by TRCG to decide between truncating and regularizing.
func (e *RelativeEnergyError) MinimalDecreaseAchieved() bool {
	if math.IsInf(e.MinimalAccuracy, 1) {
		return true
	}
	return e.squaredRelativeError() < e.MinimalAccuracy*e.MinimalAccuracy
}

func (e *RelativeEnergyError) vanishingStep() bool {
	acc2 := e.AbsoluteAccuracy * e.AbsoluteAccuracy
	if e.energyNorm2 > acc2 {
		acc2 = math.Min(acc2, e.Eps*e.Eps*e.energyNorm2)
	}
	return e.stepLen2 < acc2
}

func (e *RelativeEnergyError) squaredRelativeError() float64 {
	if len(e.scaledGamma2) <= e.LookAhead {
		return math.Inf(1)
	}
	window := e.scaledGamma2[len(e.scaledGamma2)-e.LookAhead:]
	var sum float64
	for _, g := range window {
		sum += g
	}
	return sum / e.energyNorm2
}

// Finalize implements TerminationCriterion.
func (e *RelativeEnergyError) Finalize(res *Result) {
	res.Iterations = e.iteration
	res.Reduction = e.ErrorEstimate()
	res.Elapsed = time.Since(e.started)
	if res.Iterations > 0 {
		res.ConvergenceRate = math.Pow(res.Reduction, 1/float64(res.Iterations))
	}
}
