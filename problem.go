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
	"errors"
	"fmt"
	"math"
)

// Problem holds the state of one Poisson problem: L·U = F on an N×N grid
// at level L with spacing H, plus the scratch residual R.
type Problem struct {
	N     int     // grid side length, 2^L + 1
	L     int     // grid level
	H     float64 // grid spacing
	Modes float64 // number of sine periods in the manufactured solution

	U Grid // current solution
	F Grid // forcing
	R Grid // residual, refreshed by Residual

	// exact returns the reference solution, or nil if there is none.
	exact func() (Grid, error)

	scratch Grid
}

// NewProblem returns a problem at the given level and spacing whose
// forcing is generated from the manufactured sinusoidal solution with the
// given number of modes.
func NewProblem(level int, h, modes float64) (*Problem, error) {
	if math.IsNaN(modes) || math.IsInf(modes, 0) {
		return nil, fmt.Errorf("%w: modes = %g", ErrNotFinite, modes)
	}
	p, err := newProblem(level, h)
	if err != nil {
		return nil, err
	}
	p.Modes = modes
	ForcingFunction(p.F, p.N, p.H, modes)
	p.exact = func() (Grid, error) {
		return exactSolution(p.N, p.H, p.Modes), nil
	}
	return p, nil
}

// NewProblemWithForcing returns a problem whose forcing is forcing(x, y)
// evaluated at x = j·h, y = i·h. exact, if it is not nil, is the
// analytical solution used by Error.
func NewProblemWithForcing(level int, h float64, forcing, exact func(x, y float64) float64) (*Problem, error) {
	if forcing == nil {
		return nil, errors.New("mgpoisson: nil forcing function")
	}
	p, err := newProblem(level, h)
	if err != nil {
		return nil, err
	}
	if err := p.fill(p.F, forcing); err != nil {
		return nil, fmt.Errorf("mgpoisson: forcing: %w", err)
	}
	if exact != nil {
		var ref Grid
		p.exact = func() (Grid, error) {
			if ref != nil {
				return ref, nil
			}
			g := make(Grid, p.N*p.N)
			if err := p.fill(g, exact); err != nil {
				return nil, fmt.Errorf("mgpoisson: exact solution: %w", err)
			}
			ref = g
			return ref, nil
		}
	}
	return p, nil
}

func newProblem(level int, h float64) (*Problem, error) {
	if err := CheckLevel(level); err != nil {
		return nil, err
	}
	if err := checkSpacing(h); err != nil {
		return nil, err
	}
	p := &Problem{L: level, N: GridSize(level), H: h}
	var err error
	for _, g := range []*Grid{&p.U, &p.F, &p.R} {
		if *g, err = NewGrid(level); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// fill sets g[i, j] = fn(j·h, i·h) for every grid point.
func (p *Problem) fill(g Grid, fn func(x, y float64) float64) error {
	for i := 0; i < p.N; i++ {
		for j := 0; j < p.N; j++ {
			v := fn(float64(j)*p.H, float64(i)*p.H)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %g at (%d, %d)", ErrNotFinite, v, i, j)
			}
			g[j+i*p.N] = v
		}
	}
	return nil
}

// validate checks that the sizes and spacing of p are consistent.
func (p *Problem) validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil problem", ErrSize)
	}
	if err := CheckLevel(p.L); err != nil {
		return err
	}
	if p.N != GridSize(p.L) {
		return fmt.Errorf("%w: side length %d does not match level %d", ErrSize, p.N, p.L)
	}
	for _, g := range []struct {
		name string
		g    Grid
	}{{"U", p.U}, {"F", p.F}, {"R", p.R}} {
		if len(g.g) != p.N*p.N {
			return fmt.Errorf("%w: %s has %d values, need %d", ErrSize, g.name, len(g.g), p.N*p.N)
		}
	}
	return checkSpacing(p.H)
}

// Residual refreshes R = F - L·U.
func (p *Problem) Residual() {
	residual(p.R, p.U, p.F, p.N, p.H)
}

// Norm returns the area-weighted L1 norm of R as of the last call to Residual.
func (p *Problem) Norm() float64 {
	return L1Norm(p.R, p.N, p.H, p.H)
}

// Error returns the area-weighted L1 norm of the difference between U and
// the exact solution.
func (p *Problem) Error() (float64, error) {
	ref, err := p.Exact()
	if err != nil {
		return math.NaN(), err
	}
	if p.scratch == nil {
		p.scratch = make(Grid, p.N*p.N)
	}
	if err := Subtract(p.scratch, p.U, ref); err != nil {
		return math.NaN(), err
	}
	return L1Norm(p.scratch, p.N, p.H, p.H), nil
}

// Exact returns the exact solution grid. The returned grid may be shared
// and must not be modified.
func (p *Problem) Exact() (Grid, error) {
	if p.exact == nil {
		return nil, ErrNoExactSolution
	}
	return p.exact()
}

// HasExactSolution reports whether Error can be computed for p.
func (p *Problem) HasExactSolution() bool { return p.exact != nil }

// Reset zeroes U and R so p can be solved again from scratch.
func (p *Problem) Reset() {
	for i := range p.U {
		p.U[i] = 0
	}
	for i := range p.R {
		p.R[i] = 0
	}
}
