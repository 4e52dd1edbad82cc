// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparse provides a coordinate-format sparse matrix implementing
// the krylov.Operator interface, built up entry by entry (as when reading
// a Matrix Market file) rather than through a dense backing array.
package sparse

// Matrix is a real square matrix stored as a list of (row, col, value)
// triplets. Entries may be appended in any order; repeated (row, col)
// pairs accumulate, matching the Matrix Market coordinate format
// convention for duplicate entries.
type Matrix struct {
	n    int
	data []entry
}

type entry struct {
	i, j int
	v    float64
}

// New creates an n×n matrix with no entries.
func New(n int) *Matrix {
	return &Matrix{n: n}
}

// Dim returns the dimension of the matrix.
func (m *Matrix) Dim() int { return m.n }

// Append adds v to the (i, j) entry of the matrix.
func (m *Matrix) Append(i, j int, v float64) {
	if i < 0 || m.n <= i {
		panic("sparse: row index out of range")
	}
	if j < 0 || m.n <= j {
		panic("sparse: column index out of range")
	}
	m.data = append(m.data, entry{i, j, v})
}

// AppendSymmetric adds v to both the (i, j) and (j, i) entries, or just
// (i, i) on the diagonal. It is the convenient way to build the SPD
// operators the CG family requires from the lower- or upper-triangular
// part of a symmetric Matrix Market file.
func (m *Matrix) AppendSymmetric(i, j int, v float64) {
	m.Append(i, j, v)
	if i != j {
		m.Append(j, i, v)
	}
}

// Diagonal returns the diagonal entries of the matrix, summing duplicate
// (i, i) entries the same way Apply does.
func (m *Matrix) Diagonal() []float64 {
	d := make([]float64, m.n)
	for _, e := range m.data {
		if e.i == e.j {
			d[e.i] += e.v
		}
	}
	return d
}

// Apply implements krylov.Operator: dst = A*x.
func (m *Matrix) Apply(dst, x []float64) {
	if len(x) != m.n || len(dst) != m.n {
		panic("sparse: dimension mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for _, a := range m.data {
		dst[a.i] += a.v * x[a.j]
	}
}

// ApplyScaleAdd implements krylov.Operator: dst += a*A*x.
func (m *Matrix) ApplyScaleAdd(dst []float64, a float64, x []float64) {
	if len(x) != m.n || len(dst) != m.n {
		panic("sparse: dimension mismatch")
	}
	for _, e := range m.data {
		dst[e.i] += a * e.v * x[e.j]
	}
}
