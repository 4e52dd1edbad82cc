// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatrixApply(t *testing.T) {
	m := New(3)
	m.AppendSymmetric(0, 0, 2)
	m.AppendSymmetric(0, 1, 1)
	m.AppendSymmetric(1, 1, 3)
	m.AppendSymmetric(2, 2, 4)

	x := []float64{1, 1, 1}
	dst := make([]float64, 3)
	m.Apply(dst, x)
	require.Equal(t, []float64{3, 4, 4}, dst)
}

func TestMatrixApplyScaleAdd(t *testing.T) {
	m := New(2)
	m.Append(0, 0, 1)
	m.Append(1, 1, 2)

	dst := []float64{10, 10}
	m.ApplyScaleAdd(dst, 2, []float64{1, 1})
	require.Equal(t, []float64{12, 14}, dst)
}

func TestMatrixDiagonal(t *testing.T) {
	m := New(3)
	m.Append(0, 0, 1)
	m.Append(0, 0, 2) // duplicate entries accumulate
	m.Append(1, 2, 5)
	m.Append(2, 2, 4)

	require.Equal(t, []float64{3, 0, 4}, m.Diagonal())
}

func TestMatrixAppendOutOfRangePanics(t *testing.T) {
	m := New(2)
	require.Panics(t, func() { m.Append(-1, 0, 1) })
	require.Panics(t, func() { m.Append(0, 2, 1) })
}
