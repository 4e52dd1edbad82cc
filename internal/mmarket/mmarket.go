// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmarket reads sparse matrices in the NIST Matrix Market
// coordinate text format, the format the teacher's own test suite expects
// its (never checked in) "market" test fixtures to be stored in.
package mmarket

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lubkoll/krylov/internal/sparse"
)

// Read parses a Matrix Market coordinate-format file from r into a square
// sparse.Matrix. Only the "coordinate" "real" format is supported, in
// either "general" or "symmetric" symmetry; Read returns an error for any
// other combination, and for a non-square matrix.
func Read(r io.Reader) (*sparse.Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		return nil, fmt.Errorf("mmarket: empty input")
	}
	header := strings.Fields(strings.ToLower(sc.Text()))
	if len(header) < 5 || header[0] != "%%matrixmarket" {
		return nil, fmt.Errorf("mmarket: missing %%%%MatrixMarket header")
	}
	object, format, field, symmetry := header[1], header[2], header[3], header[4]
	if object != "matrix" || format != "coordinate" || field != "real" {
		return nil, fmt.Errorf("mmarket: unsupported format %q %q %q, only matrix coordinate real is supported", object, format, field)
	}
	if symmetry != "symmetric" && symmetry != "general" {
		return nil, fmt.Errorf("mmarket: unsupported symmetry %q", symmetry)
	}
	symmetric := symmetry == "symmetric"

	var rows, cols, nnz int
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("mmarket: malformed size line %q", line)
		}
		var err error
		if rows, err = strconv.Atoi(fields[0]); err != nil {
			return nil, fmt.Errorf("mmarket: invalid row count: %w", err)
		}
		if cols, err = strconv.Atoi(fields[1]); err != nil {
			return nil, fmt.Errorf("mmarket: invalid column count: %w", err)
		}
		if nnz, err = strconv.Atoi(fields[2]); err != nil {
			return nil, fmt.Errorf("mmarket: invalid nonzero count: %w", err)
		}
		break
	}
	if rows != cols {
		return nil, fmt.Errorf("mmarket: matrix must be square, got %d×%d", rows, cols)
	}

	m := sparse.New(rows)
	read := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("mmarket: malformed entry line %q", line)
		}
		i, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("mmarket: invalid row index: %w", err)
		}
		j, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("mmarket: invalid column index: %w", err)
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("mmarket: invalid value: %w", err)
		}
		// Matrix Market indices are 1-based.
		if symmetric {
			m.AppendSymmetric(i-1, j-1, v)
		} else {
			m.Append(i-1, j-1, v)
		}
		read++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mmarket: %w", err)
	}
	if read != nnz {
		return nil, fmt.Errorf("mmarket: expected %d nonzero entries, read %d", nnz, read)
	}

	return m, nil
}
