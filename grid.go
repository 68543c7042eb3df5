/*
Copyright © 2018 the mgpoisson authors.
This file is part of mgpoisson.

mgpoisson is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mgpoisson is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mgpoisson.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package mgpoisson solves the two-dimensional Poisson equation
// u_xx + u_yy = f on a square grid with zero Dirichlet boundaries
// using geometric multigrid V-cycles.
//
// Grids have side length n = 2^level + 1 and are stored as flat,
// row-major slices, so element (i, j) lives at offset j + i*n. Boundary
// rows and columns are never written by any operator in this package
// and are assumed to hold zero.
package mgpoisson

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxLevel is the finest grid level supported. A level-MaxLevel grid
// holds (2^MaxLevel+1)^2 values.
const MaxLevel = 24

const maxInt = int(^uint(0) >> 1)

var (
	// ErrLevel is returned when a grid level is out of range or does not
	// match the level a solver was built for.
	ErrLevel = errors.New("mgpoisson: invalid grid level")

	// ErrSize is returned when a grid's length does not match the side
	// length it is used with.
	ErrSize = errors.New("mgpoisson: grid size mismatch")

	// ErrSpacing is returned for zero, negative or non-finite grid spacing.
	ErrSpacing = errors.New("mgpoisson: invalid grid spacing")

	// ErrAllocation is returned when the storage needed for a grid or a
	// grid hierarchy cannot be represented or obtained.
	ErrAllocation = errors.New("mgpoisson: cannot allocate grid storage")

	// ErrBlend is returned for transfer weights other than the supported
	// overwrite (0, 1) and accumulate (1, 1) pairs.
	ErrBlend = errors.New("mgpoisson: unsupported transfer blend")

	// ErrSmoother is returned when an unknown smoother is requested.
	ErrSmoother = errors.New("mgpoisson: unknown smoother")

	// ErrNotFinite is returned when a forcing or reference value is NaN
	// or infinite.
	ErrNotFinite = errors.New("mgpoisson: value is not finite")

	// ErrExpression is returned when a field expression cannot be parsed
	// or evaluated.
	ErrExpression = errors.New("mgpoisson: invalid field expression")

	// ErrNoExactSolution is returned by Problem.Error when the problem
	// was built without a reference solution.
	ErrNoExactSolution = errors.New("mgpoisson: problem has no exact solution")
)

// Grid is a square field of values stored in row-major order.
type Grid []float64

// GridSize returns the side length of a grid at the given level.
func GridSize(level int) int {
	return (1 << uint(level)) + 1
}

// MultigridSize returns the number of values needed to store one grid
// for every level from 0 through level, inclusive.
func MultigridSize(level int) int {
	size := 0
	for i := 0; i <= level; i++ {
		n := GridSize(i)
		size += n * n
	}
	return size
}

// CheckLevel makes sure level is usable as a grid level and that the
// storage it implies fits in an int. It returns an error wrapping
// ErrLevel or ErrAllocation otherwise.
func CheckLevel(level int) error {
	if level < 1 || level > MaxLevel {
		return fmt.Errorf("%w: %d is not in [1, %d]", ErrLevel, level, MaxLevel)
	}
	// The whole hierarchy takes about 4/3 n² values; keep it representable.
	if n := GridSize(level); n > maxInt/(2*n) {
		return fmt.Errorf("%w: level %d", ErrAllocation, level)
	}
	return nil
}

// NewGrid returns a zeroed grid for the given level.
func NewGrid(level int) (Grid, error) {
	if err := CheckLevel(level); err != nil {
		return nil, err
	}
	n := GridSize(level)
	return allocate(n * n)
}

// allocate returns a zeroed slice of length size. A length the runtime
// refuses to allocate is reported as ErrAllocation.
func allocate(size int) (g Grid, err error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d values", ErrAllocation, size)
	}
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("%w: %d values: %v", ErrAllocation, size, r)
		}
	}()
	return make(Grid, size), nil
}

// LevelOf returns the level of g, based on its length.
func LevelOf(g Grid) (int, error) {
	for l := 1; l <= MaxLevel; l++ {
		n := GridSize(l)
		switch {
		case n*n == len(g):
			return l, nil
		case n*n > len(g):
			return 0, fmt.Errorf("%w: length %d is not (2^l+1)^2", ErrSize, len(g))
		}
	}
	return 0, fmt.Errorf("%w: length %d is not (2^l+1)^2", ErrSize, len(g))
}

// checkGrid makes sure g can hold an n×n grid with at least one interior point.
func checkGrid(name string, g Grid, n int) error {
	if n < 3 {
		return fmt.Errorf("%w: %s: side length %d < 3", ErrSize, name, n)
	}
	if len(g) < n*n {
		return fmt.Errorf("%w: %s has %d values, need %d×%d", ErrSize, name, len(g), n, n)
	}
	return nil
}

// checkSpacing makes sure h can be used as a grid spacing.
func checkSpacing(h float64) error {
	if !(h > 0) || math.IsInf(h, 0) {
		return fmt.Errorf("%w: %g", ErrSpacing, h)
	}
	return nil
}

// Subtract sets dst = a - b elementwise.
func Subtract(dst, a, b Grid) error {
	if len(a) != len(b) || len(dst) != len(a) {
		return fmt.Errorf("%w: subtract lengths %d, %d, %d", ErrSize, len(dst), len(a), len(b))
	}
	floats.SubTo(dst, a, b)
	return nil
}

// L1Norm returns the discrete L1 norm of the first n×n values of g,
// weighted by the cell area hx·hy.
func L1Norm(g Grid, n int, hx, hy float64) float64 {
	return floats.Norm(g[:n*n], 1) * hx * hy
}

// MaxNorm returns the largest absolute value in the first n×n values of g.
func MaxNorm(g Grid, n int) float64 {
	return floats.Norm(g[:n*n], math.Inf(1))
}

// boundaryClean reports whether every boundary value of the n×n grid g is zero.
func boundaryClean(g Grid, n int) bool {
	for k := 0; k < n; k++ {
		if g[k] != 0 || g[k+(n-1)*n] != 0 || g[k*n] != 0 || g[n-1+k*n] != 0 {
			return false
		}
	}
	return true
}
