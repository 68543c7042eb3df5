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

package mgpoisson

import (
	"fmt"
	"strings"
)

// Smoother performs relaxation sweeps for the five-point discrete Laplacian.
type Smoother interface {
	// Relax performs one full in-place sweep over the interior of the n×n
	// grid u with forcing f and spacing h. Boundary values are not written.
	Relax(u, f Grid, n int, h float64)

	// Name returns a human-readable name for diagnostics.
	Name() string
}

// Smoother names accepted by NewSmoother.
const (
	GaussSeidelKind         = "gauss-seidel"
	GaussSeidelRedBlackKind = "red-black"
)

// NewSmoother returns the smoother with the given name.
func NewSmoother(kind string) (Smoother, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case GaussSeidelKind, "gs":
		return GaussSeidel{}, nil
	case GaussSeidelRedBlackKind, "gauss-seidel-red-black", "rb":
		return GaussSeidelRedBlack{}, nil
	}
	return nil, fmt.Errorf("%w: %q (want %q or %q)", ErrSmoother, kind,
		GaussSeidelKind, GaussSeidelRedBlackKind)
}

// GaussSeidel visits interior points in row-major order, so each update
// sees the already-updated neighbors above and to the left.
type GaussSeidel struct{}

// Relax implements Smoother.
func (GaussSeidel) Relax(u, f Grid, n int, h float64) {
	h2 := h * h
	for i := 1; i < n-1; i++ {
		for j := 1; j < n-1; j++ {
			c := j + i*n
			u[c] = 0.25 * (u[c+1] + u[c-1] + u[c+n] + u[c-n] - h2*f[c])
		}
	}
}

// Name implements Smoother.
func (GaussSeidel) Name() string { return "Gauss-Seidel" }

// GaussSeidelRedBlack updates all points with even i+j, then all points
// with odd i+j. Updates within a pass only read points of the other
// color, so they are independent of each other.
type GaussSeidelRedBlack struct{}

// Relax implements Smoother.
func (GaussSeidelRedBlack) Relax(u, f Grid, n int, h float64) {
	h2 := h * h
	for color := 0; color < 2; color++ {
		for i := 1; i < n-1; i++ {
			// First interior column in row i with (i+j)%2 == color.
			for j := 1 + (i+1+color)%2; j < n-1; j += 2 {
				c := j + i*n
				u[c] = 0.25 * (u[c+1] + u[c-1] + u[c+n] + u[c-n] - h2*f[c])
			}
		}
	}
}

// Name implements Smoother.
func (GaussSeidelRedBlack) Name() string { return "Gauss-Seidel (red-black)" }
