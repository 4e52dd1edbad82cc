// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmarket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const symmetricExample = `%%MatrixMarket matrix coordinate real symmetric
%comment
3 3 4
1 1 2.0
2 1 1.0
2 2 3.0
3 3 4.0
`

func TestReadSymmetric(t *testing.T) {
	m, err := Read(strings.NewReader(symmetricExample))
	require.NoError(t, err)
	require.Equal(t, 3, m.Dim())

	dst := make([]float64, 3)
	m.Apply(dst, []float64{1, 1, 1})
	// A = [[2,1,0],[1,3,0],[0,0,4]]
	require.Equal(t, []float64{3, 4, 4}, dst)
}

const generalExample = `%%MatrixMarket matrix coordinate real general
2 2 2
1 1 5.0
1 2 6.0
`

func TestReadGeneral(t *testing.T) {
	m, err := Read(strings.NewReader(generalExample))
	require.NoError(t, err)
	dst := make([]float64, 2)
	m.Apply(dst, []float64{1, 1})
	require.Equal(t, []float64{11, 0}, dst)
}

func TestReadRejectsBadFormat(t *testing.T) {
	_, err := Read(strings.NewReader("not a matrix market file\n"))
	require.Error(t, err)
}

func TestReadRejectsNonSquare(t *testing.T) {
	input := "%%MatrixMarket matrix coordinate real general\n2 3 0\n"
	_, err := Read(strings.NewReader(input))
	require.Error(t, err)
}

func TestReadRejectsMismatchedNonzeroCount(t *testing.T) {
	input := "%%MatrixMarket matrix coordinate real general\n2 2 2\n1 1 1.0\n"
	_, err := Read(strings.NewReader(input))
	require.Error(t, err)
}
