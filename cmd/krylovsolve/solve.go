// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lubkoll/krylov"
	"github.com/lubkoll/krylov/internal/mmarket"
	"github.com/spf13/cobra"
)

var (
	method           string
	termKind         string
	precondition     string
	relativeAccuracy float64
	absoluteAccuracy float64
	minimalAccuracy  float64
	maxSteps         int
	verbosity        int
	lookAhead        int
	refinements      int
	rhsValue         float64
	chebyCenter      float64
	chebyHalfRadius  float64
)

var solveCmd = &cobra.Command{
	Use:   "solve <matrix.mtx>",
	Short: "Solve A*x=b for a Matrix Market operator A",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&method, "method", "cg", "Solver variant: cg, tcg, rcg, trcg, chebyshev")
	solveCmd.Flags().StringVar(&termKind, "termination", "residual", "Termination criterion: residual, energy")
	solveCmd.Flags().StringVar(&precondition, "precondition", "jacobi", "Preconditioner: none, jacobi")
	solveCmd.Flags().Float64Var(&relativeAccuracy, "rel-accuracy", 1e-8, "Relative accuracy")
	solveCmd.Flags().Float64Var(&absoluteAccuracy, "abs-accuracy", 1e-12, "Absolute accuracy (vanishing-step floor)")
	solveCmd.Flags().Float64Var(&minimalAccuracy, "minimal-accuracy", 1e-4, "Minimal-decrease accuracy (TRCG only)")
	solveCmd.Flags().IntVar(&maxSteps, "max-steps", 1000, "Maximum number of iterations")
	solveCmd.Flags().IntVar(&verbosity, "verbosity", 1, "Verbosity level (0, 1, 2)")
	solveCmd.Flags().IntVar(&lookAhead, "look-ahead", 5, "Look-ahead window for the energy-error criterion")
	solveCmd.Flags().IntVar(&refinements, "iterative-refinements", 0, "Preconditioner defect-correction passes")
	solveCmd.Flags().Float64Var(&rhsValue, "rhs-value", 1, "Constant value used to build b, absent a separate rhs file")
	solveCmd.Flags().Float64Var(&chebyCenter, "spectrum-center", 0, "Chebyshev spectral center (required for --method chebyshev)")
	solveCmd.Flags().Float64Var(&chebyHalfRadius, "spectrum-half-radius", 0, "Chebyshev spectral half-radius (required for --method chebyshev)")

	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("krylovsolve: %w", err)
	}
	defer f.Close()

	A, err := mmarket.Read(f)
	if err != nil {
		return fmt.Errorf("krylovsolve: %w", err)
	}
	n := A.Dim()
	slog.Info("loaded operator", "path", path, "dim", n)

	b := make([]float64, n)
	for i := range b {
		b[i] = rhsValue
	}
	x := make([]float64, n)

	var P krylov.Preconditioner
	switch precondition {
	case "none":
		P = krylov.IdentityPreconditioner{}
	case "jacobi":
		P = krylov.NewJacobiPreconditioner(A.Diagonal())
	default:
		return fmt.Errorf("krylovsolve: unknown preconditioner %q", precondition)
	}

	var term krylov.TerminationCriterion
	switch termKind {
	case "residual":
		term = krylov.NewResidualBased(relativeAccuracy)
	case "energy":
		e := krylov.NewRelativeEnergyError(relativeAccuracy)
		e.AbsoluteAccuracy = absoluteAccuracy
		e.MinimalAccuracy = minimalAccuracy
		e.LookAhead = lookAhead
		term = e
	default:
		return fmt.Errorf("krylovsolve: unknown termination criterion %q", termKind)
	}

	var step krylov.Step
	switch method {
	case "cg":
		step = krylov.NewCG(A, P, nil)
	case "tcg":
		step = krylov.NewTCG(A, P, nil)
	case "rcg":
		step = krylov.NewRCG(A, P, nil)
	case "trcg":
		step = krylov.NewTRCG(A, P, nil)
	case "chebyshev":
		cheb := krylov.NewChebyshev(A, P, nil)
		if chebyHalfRadius <= 0 {
			return fmt.Errorf("krylovsolve: --spectrum-half-radius is required for --method chebyshev")
		}
		if err := cheb.SetSpectralBounds(chebyCenter, chebyHalfRadius); err != nil {
			return fmt.Errorf("krylovsolve: %w", err)
		}
		step = cheb
	default:
		return fmt.Errorf("krylovsolve: unknown method %q", method)
	}

	solver, err := krylov.NewSolver(step, term)
	if err != nil {
		return fmt.Errorf("krylovsolve: %w", err)
	}
	if err := solver.SetMaxSteps(maxSteps); err != nil {
		return err
	}
	if err := solver.SetRelativeAccuracy(relativeAccuracy); err != nil {
		return err
	}
	if err := solver.SetAbsoluteAccuracy(absoluteAccuracy); err != nil {
		return err
	}
	if err := solver.SetMinimalAccuracy(minimalAccuracy); err != nil {
		return err
	}
	if err := solver.SetIterativeRefinements(refinements); err != nil {
		return err
	}
	solver.SetVerbosityLevel(verbosity)
	solver.SetOutput(os.Stdout)

	start := time.Now()
	res, solveErr := solver.Solve(x, b)
	elapsed := time.Since(start)

	slog.Info("solve finished",
		"method", step.Name(),
		"converged", res.Converged,
		"iterations", res.Iterations,
		"reduction", res.Reduction,
		"rate", res.ConvergenceRate,
		"elapsed", elapsed,
	)
	if solveErr != nil {
		return fmt.Errorf("krylovsolve: %w", solveErr)
	}
	return nil
}
