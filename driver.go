// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Result reports the outcome of a Solve.
type Result struct {
	Converged       bool
	Iterations      int
	Reduction       float64
	ConvergenceRate float64
	Elapsed         time.Duration
}

// Solver drives a Step through the generic iterative method: apply the
// step, check for self-termination or convergence, restart if requested,
// repeat until convergence, a fatal error, or the iteration budget is
// exhausted.
//
// A Solver is built once, around a fixed Step and TerminationCriterion,
// and may be reused for multiple, independent calls to Solve.
type Solver struct {
	step Step
	term TerminationCriterion

	maxSteps             int
	verbosity            int
	iterativeRefinements int
	eps                  float64
	relativeAccuracy     float64
	absoluteAccuracy     float64
	minimalAccuracy      float64

	out io.Writer
}

// NewSolver builds a Solver around step and term, wiring up whichever
// optional capabilities each of them implements: if term needs a
// ResidualObserver or EnergyObserver and step does not provide one,
// NewSolver returns ErrUninitialised. Likewise, if step needs a
// minimal-decrease predicate (TRCG) and term does not provide one,
// NewSolver returns ErrUninitialised.
func NewSolver(step Step, term TerminationCriterion) (*Solver, error) {
	if rc, ok := term.(residualConnecter); ok {
		obs, ok := step.(ResidualObserver)
		if !ok {
			return nil, fmt.Errorf("%w: termination criterion requires a residual-observing step", ErrUninitialised)
		}
		rc.ConnectResidualObserver(obs)
	}
	if ec, ok := term.(energyConnecter); ok {
		obs, ok := step.(EnergyObserver)
		if !ok {
			return nil, fmt.Errorf("%w: termination criterion requires an energy-observing step", ErrUninitialised)
		}
		ec.ConnectEnergyObserver(obs)
	}
	if mc, ok := step.(minimalDecreaseConnecter); ok {
		mda, ok := term.(minimalDecreaseAchiever)
		if !ok {
			return nil, fmt.Errorf("%w: step requires a termination criterion exposing MinimalDecreaseAchieved", ErrUninitialised)
		}
		mc.ConnectMinimalDecreaseAchiever(mda.MinimalDecreaseAchieved)
	}

	return &Solver{
		step:                 step,
		term:                 term,
		maxSteps:             100,
		eps:                  defaultEps,
		iterativeRefinements: 0,
		out:                  os.Stdout,
	}, nil
}

// SetMaxSteps sets the maximal number of iterations performed by Solve.
func (s *Solver) SetMaxSteps(n int) error {
	if n <= 0 {
		return invalidArgf("maxSteps must be positive, got %d", n)
	}
	s.maxSteps = n
	return nil
}

// SetVerbosityLevel sets the verbosity level (0 = silent) and mirrors it
// onto the step, if the step cares to log anything itself.
func (s *Solver) SetVerbosityLevel(level int) {
	s.verbosity = level
	if vs, ok := s.step.(verbositySetter); ok {
		vs.SetVerbosityLevel(level)
	}
}

// SetIterativeRefinements sets the number of defect-correction passes used
// when applying the preconditioner, mirrored onto the step.
func (s *Solver) SetIterativeRefinements(n int) error {
	if n < 0 {
		return invalidArgf("iterativeRefinements must be non-negative, got %d", n)
	}
	s.iterativeRefinements = n
	if irs, ok := s.step.(iterativeRefinementsSetter); ok {
		irs.SetIterativeRefinements(n)
	}
	return nil
}

// SetEps sets the maximal attainable accuracy, mirrored onto both the
// step and the termination criterion.
func (s *Solver) SetEps(eps float64) error {
	if eps <= 0 {
		return invalidArgf("eps must be positive, got %g", eps)
	}
	s.eps = eps
	if es, ok := s.step.(epsSetter); ok {
		es.SetEps(eps)
	}
	if es, ok := s.term.(epsTermSetter); ok {
		if err := es.SetEps(eps); err != nil {
			return err
		}
	}
	return nil
}

// SetRelativeAccuracy sets the relative accuracy required for
// convergence, mirrored onto the termination criterion.
func (s *Solver) SetRelativeAccuracy(a float64) error {
	if a < 0 {
		return invalidArgf("relativeAccuracy must be non-negative, got %g", a)
	}
	s.relativeAccuracy = a
	if rs, ok := s.term.(relativeAccuracySetter); ok {
		return rs.SetRelativeAccuracy(a)
	}
	return nil
}

// SetAbsoluteAccuracy sets the vanishing-step floor, mirrored onto the
// termination criterion if it declares the capability (RelativeEnergyError
// does; ResidualBased does not).
func (s *Solver) SetAbsoluteAccuracy(a float64) error {
	if a < 0 {
		return invalidArgf("absoluteAccuracy must be non-negative, got %g", a)
	}
	s.absoluteAccuracy = a
	if as, ok := s.term.(absoluteAccuracySetter); ok {
		return as.SetAbsoluteAccuracy(a)
	}
	return nil
}

// SetMinimalAccuracy sets the TRCG minimal-decrease threshold, mirrored
// onto the termination criterion if it declares the capability.
func (s *Solver) SetMinimalAccuracy(a float64) error {
	if a < 0 {
		return invalidArgf("minimalAccuracy must be non-negative, got %g", a)
	}
	s.minimalAccuracy = a
	if ms, ok := s.term.(minimalAccuracySetter); ok {
		return ms.SetMinimalAccuracy(a)
	}
	return nil
}

// SetOutput sets the writer verbose trace output is sent to. It defaults
// to os.Stdout.
func (s *Solver) SetOutput(w io.Writer) { s.out = w }

// Solve computes an approximate solution of A*x=b, starting from the
// values already in x, storing the result back into x. It returns
// Result.Converged=false, wrapped in a *NonConvergedError, if the
// termination criterion was not satisfied within the configured number
// of iterations.
func (s *Solver) Solve(x, b []float64) (Result, error) {
	s.step.Init(x, b)
	if err := s.term.Init(); err != nil {
		return Result{}, err
	}

	x0 := snapshotIfRestarter(s.step, x)
	b0 := snapshotIfRestarter(s.step, b)

	var res Result
	lastErr := 1.0
	for step := 0; ; step++ {
		if err := s.step.Compute(x, b); err != nil {
			return Result{}, err
		}

		// IsConverged is called exactly once per Compute, regardless of
		// how the iteration ends, so the termination criterion's
		// bookkeeping (iteration count, error estimate) always reflects
		// the step just taken -- including the terminating one, when the
		// step itself decides to stop via SelfTerminator.
		converged := s.term.IsConverged()

		if st, ok := s.step.(SelfTerminator); ok && st.WantsTerminate() {
			res.Converged = true
			break
		}

		if converged {
			res.Converged = true
			break
		}

		if rs, ok := s.step.(Restarter); ok && rs.WantsRestart() {
			if s.verbosity >= 2 {
				fmt.Fprintf(s.out, "%s: restarting at step %d\n", s.step.Name(), step)
			}
			copy(x, x0)
			copy(b, b0)
			s.step.Reset(x, b)
			if err := s.term.Init(); err != nil {
				return Result{}, err
			}
			step = -1
			lastErr = 1
			continue
		}

		if s.verbosity >= 2 {
			fmt.Fprintf(s.out, "%s: step %d, error estimate %.6e, previous %.6e\n", s.step.Name(), step, s.term.ErrorEstimate(), lastErr)
		}
		lastErr = s.term.ErrorEstimate()

		if step+1 >= s.maxSteps {
			s.term.Finalize(&res)
			s.step.PostProcess(x)
			s.reportSummary(res)
			return res, &NonConvergedError{Iterations: res.Iterations, Reduction: res.Reduction}
		}
	}

	s.term.Finalize(&res)
	s.step.PostProcess(x)
	s.reportSummary(res)
	return res, nil
}

// reportSummary writes the one-line final-statistics summary at
// verbosity >= 1.
func (s *Solver) reportSummary(res Result) {
	if s.verbosity < 1 {
		return
	}
	status := "Failed"
	if res.Converged {
		status = "Converged"
	}
	fmt.Fprintf(s.out, "%s: %s, iterations %d, reduction %.6e, rate %.6e, elapsed %s\n",
		s.step.Name(), status, res.Iterations, res.Reduction, res.ConvergenceRate, res.Elapsed)
}

// snapshotIfRestarter returns a copy of v if step implements Restarter,
// since only a restartable step ever needs to rewind to its initial
// values; otherwise it returns nil to avoid an unnecessary allocation.
func snapshotIfRestarter(step Step, v []float64) []float64 {
	if _, ok := step.(Restarter); !ok {
		return nil
	}
	cp := make([]float64, len(v))
	copy(cp, v)
	return cp
}
