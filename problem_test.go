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
	"math"
	"testing"
)

func TestNewProblem(t *testing.T) {
	p, err := NewProblem(4, 1./16, 2)
	if err != nil {
		t.Fatal(err)
	}
	if p.N != 17 || p.L != 4 || p.H != 1./16 || p.Modes != 2 {
		t.Errorf("problem %+v", p)
	}
	for _, g := range []Grid{p.U, p.F, p.R} {
		if len(g) != 17*17 {
			t.Errorf("grid length %d", len(g))
		}
	}
	if MaxNorm(p.U, p.N) != 0 {
		t.Error("solution not zero")
	}
	if MaxNorm(p.F, p.N) == 0 {
		t.Error("forcing not filled")
	}
	if !p.HasExactSolution() {
		t.Error("no exact solution")
	}

	if _, err := NewProblem(0, 1, 1); !errors.Is(err, ErrLevel) {
		t.Errorf("level 0: err = %v, want ErrLevel", err)
	}
	if _, err := NewProblem(3, 0, 1); !errors.Is(err, ErrSpacing) {
		t.Errorf("h = 0: err = %v, want ErrSpacing", err)
	}
	if _, err := NewProblem(3, 0.125, math.Inf(1)); !errors.Is(err, ErrNotFinite) {
		t.Errorf("infinite modes: err = %v, want ErrNotFinite", err)
	}
}

func TestProblemNorms(t *testing.T) {
	p, err := NewProblem(5, 1./32, 1)
	if err != nil {
		t.Fatal(err)
	}
	// With u = 0 the residual is the forcing, whose weighted L1 norm
	// approaches ∫∫ 8π² |sin 2πx sin 2πy| = 32.
	p.Residual()
	if r := p.Norm(); different(r, 32, 0.02) {
		t.Errorf("initial residual %g, want about 32", r)
	}
	// The exact solution has weighted L1 norm about ∫∫ |sin 2πx sin 2πy| = 4/π².
	e, err := p.Error()
	if err != nil {
		t.Fatal(err)
	}
	if different(e, 4/(math.Pi*math.Pi), 0.02) {
		t.Errorf("initial error %g, want about %g", e, 4/(math.Pi*math.Pi))
	}
	// Error must not disturb the residual.
	if r := p.Norm(); different(r, 32, 0.02) {
		t.Errorf("residual changed to %g", r)
	}
}

func TestProblemReset(t *testing.T) {
	p, err := NewProblem(3, 0.125, 1)
	if err != nil {
		t.Fatal(err)
	}
	hist, err := SolveProblem(p, GaussSeidel{}, 5, 0, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 6 {
		t.Errorf("history length %d, want 6", len(hist))
	}
	p.Reset()
	if MaxNorm(p.U, p.N) != 0 || MaxNorm(p.R, p.N) != 0 {
		t.Error("reset left values behind")
	}
	if MaxNorm(p.F, p.N) == 0 {
		t.Error("reset cleared the forcing")
	}
}

func TestNewProblemWithForcing(t *testing.T) {
	const l = 5
	h := 1 / float64(GridSize(l)-1)
	exact := func(x, y float64) float64 { return x * (1 - x) * y * (1 - y) }
	forcing := func(x, y float64) float64 { return -2 * (x*(1-x) + y*(1-y)) }
	p, err := NewProblemWithForcing(l, h, forcing, exact)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := SolveProblem(p, GaussSeidelRedBlack{}, 30, 1e-10, discardLogger()); err != nil {
		t.Fatal(err)
	}
	// The five-point Laplacian is exact for this polynomial, so the only
	// remaining error is algebraic.
	e, err := p.Error()
	if err != nil {
		t.Fatal(err)
	}
	if e > 1e-10 {
		t.Errorf("error %g", e)
	}

	p, err = NewProblemWithForcing(l, h, forcing, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Error(); !errors.Is(err, ErrNoExactSolution) {
		t.Errorf("err = %v, want ErrNoExactSolution", err)
	}

	_, err = NewProblemWithForcing(l, h, func(x, y float64) float64 { return 1 / x }, nil)
	if !errors.Is(err, ErrNotFinite) {
		t.Errorf("err = %v, want ErrNotFinite", err)
	}
	if _, err := NewProblemWithForcing(l, h, nil, nil); err == nil {
		t.Error("nil forcing accepted")
	}
}
