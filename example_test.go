// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov_test

import (
	"fmt"

	"github.com/lubkoll/krylov"
)

// l2ProjectorMass builds the mass-matrix operator and load vector for the
// L2 projection of f onto piecewise-linear finite elements on [x0,x1]
// with n subintervals, the same construction teacher's ExampleCG uses.
func l2ProjectorMass(x0, x1 float64, n int, f func(float64) float64) (krylov.Operator, []float64) {
	h := (x1 - x0) / float64(n)
	matvec := func(dst, src []float64) {
		dst[0] = h / 3 * (src[0] + src[1]/2)
		for i := 1; i < n; i++ {
			dst[i] = h / 3 * (src[i-1]/2 + 2*src[i] + src[i+1]/2)
		}
		dst[n] = h / 3 * (src[n-1]/2 + src[n])
	}

	b := make([]float64, n+1)
	b[0] = f(x0) * h / 2
	for i := 1; i < n; i++ {
		b[i] = f(x0+float64(i)*h) * h
	}
	b[n] = f(x1) * h / 2

	A := massMatrixOperator{matvec: matvec}
	return A, b
}

type massMatrixOperator struct {
	matvec func(dst, src []float64)
}

func (a massMatrixOperator) Apply(dst, x []float64) { a.matvec(dst, x) }
func (a massMatrixOperator) ApplyScaleAdd(dst []float64, alpha float64, x []float64) {
	tmp := make([]float64, len(x))
	a.matvec(tmp, x)
	for i := range dst {
		dst[i] += alpha * tmp[i]
	}
}

func ExampleCG() {
	A, b := l2ProjectorMass(0, 1, 10, func(x float64) float64 {
		return x
	})
	x := make([]float64, len(b))

	step := krylov.NewCG(A, nil, nil)
	term := krylov.NewResidualBased(1e-10)
	solver, err := krylov.NewSolver(step, term)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	res, err := solver.Solve(x, b)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Converged: %v\n", res.Converged)
	fmt.Printf("Iterations <= %v: %v\n", len(b), res.Iterations <= len(b))
	// Output:
	// Converged: true
	// Iterations <= 11: true
}
