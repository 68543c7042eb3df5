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

func unitProblem(t testing.TB, l int) *Problem {
	p, err := NewProblem(l, 1/float64(GridSize(l)-1), 1)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewMultigridErrors(t *testing.T) {
	p := unitProblem(t, 3)
	if _, err := NewMultigrid(p, nil); !errors.Is(err, ErrSmoother) {
		t.Errorf("nil smoother: err = %v, want ErrSmoother", err)
	}
	if _, err := NewMultigrid(nil, GaussSeidel{}); !errors.Is(err, ErrSize) {
		t.Errorf("nil problem: err = %v, want ErrSize", err)
	}
	if _, err := NewMultigrid(p, GaussSeidel{}, PreSmooth(-1)); err == nil {
		t.Error("negative sweep count accepted")
	}
	bad := *p
	bad.F = bad.F[:10]
	if _, err := NewMultigrid(&bad, GaussSeidel{}); !errors.Is(err, ErrSize) {
		t.Errorf("short forcing: err = %v, want ErrSize", err)
	}
	bad = *p
	bad.N = 17
	if _, err := NewMultigrid(&bad, GaussSeidel{}); !errors.Is(err, ErrSize) {
		t.Errorf("wrong side length: err = %v, want ErrSize", err)
	}
}

func TestMultigridLayout(t *testing.T) {
	const l = 6
	mg, err := NewMultigrid(unitProblem(t, l), GaussSeidelRedBlack{})
	if err != nil {
		t.Fatal(err)
	}
	if len(mg.v) != MultigridSize(l) || len(mg.w) != MultigridSize(l) {
		t.Errorf("buffer lengths %d, %d, want %d", len(mg.v), len(mg.w), MultigridSize(l))
	}
	if n := GridSize(l); len(mg.r) != n*n {
		t.Errorf("residual length %d, want %d", len(mg.r), n*n)
	}
	if end := mg.offset[l] + GridSize(l)*GridSize(l); end != MultigridSize(l) {
		t.Errorf("level %d ends at %d, want %d", l, end, MultigridSize(l))
	}
	for k := 1; k < l; k++ {
		n := GridSize(k)
		if mg.offset[k] != MultigridSize(k-1) {
			t.Errorf("offset[%d] = %d, want %d", k, mg.offset[k], MultigridSize(k-1))
		}
		e, r := mg.levelGrids(k)
		if len(e) != n*n || cap(e) != n*n || len(r) != n*n || cap(r) != n*n {
			t.Errorf("level %d grids have len %d/%d cap %d/%d, want %d",
				k, len(e), len(r), cap(e), cap(r), n*n)
		}
	}
	if mg.Name() != "Multi-Grid<Gauss-Seidel (red-black)>" {
		t.Errorf("name %q", mg.Name())
	}
	if mg.Level() != l {
		t.Errorf("level %d", mg.Level())
	}
}

func TestBaseCase(t *testing.T) {
	const h, f0 = 0.5, 3.
	p, err := NewProblemWithForcing(1, h, func(x, y float64) float64 {
		if x == 0.5 && y == 0.5 {
			return f0
		}
		return 0
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range p.U {
		p.U[i] = 7
	}
	mg, err := NewMultigrid(p, GaussSeidel{})
	if err != nil {
		t.Fatal(err)
	}
	if err := mg.Cycle(p); err != nil {
		t.Fatal(err)
	}
	for i, v := range p.U {
		want := 7.
		if i == 4 {
			want = -0.5 * f0 * h * h
		}
		if v != want {
			t.Errorf("u[%d] = %g, want %g", i, v, want)
		}
	}
}

func TestCycleReducesResidual(t *testing.T) {
	for _, s := range []Smoother{GaussSeidel{}, GaussSeidelRedBlack{}} {
		for l := 4; l <= 6; l++ {
			p := unitProblem(t, l)
			mg, err := NewMultigrid(p, s, DebugChecks(true))
			if err != nil {
				t.Fatal(err)
			}
			p.Residual()
			prev := p.Norm()
			for c := 1; c <= 8; c++ {
				if err := mg.Cycle(p); err != nil {
					t.Fatal(err)
				}
				p.Residual()
				r := p.Norm()
				if factor := r / prev; factor < 0.05 || factor > 0.3 {
					t.Errorf("%s level %d cycle %d: reduction factor %.3f", s.Name(), l, c, factor)
				}
				prev = r
			}
		}
	}
}

func TestCycleConverges(t *testing.T) {
	for _, s := range []Smoother{GaussSeidel{}, GaussSeidelRedBlack{}} {
		for l := 4; l <= 5; l++ {
			p := unitProblem(t, l)
			mg, err := NewMultigrid(p, s)
			if err != nil {
				t.Fatal(err)
			}
			c := 0
			for ; c < 20; c++ {
				p.Residual()
				if p.Norm() < 1e-10 {
					break
				}
				if err := mg.Cycle(p); err != nil {
					t.Fatal(err)
				}
			}
			p.Residual()
			if r := p.Norm(); r >= 1e-10 {
				t.Errorf("%s level %d: residual %g after %d cycles", s.Name(), l, r, c)
			}
		}
	}
}

// The manufactured problem at level 3 with h = 1/8 and one mode.
func TestLevel3Scenario(t *testing.T) {
	p, err := NewProblem(3, 1./8, 1)
	if err != nil {
		t.Fatal(err)
	}
	mg, err := NewMultigrid(p, GaussSeidel{})
	if err != nil {
		t.Fatal(err)
	}
	for c := 0; c < 20; c++ {
		if err := mg.Cycle(p); err != nil {
			t.Fatal(err)
		}
	}
	p.Residual()
	if r := p.Norm(); r >= 1e-8 {
		t.Errorf("residual %g, want < 1e-8", r)
	}
	// The discretization error of this grid is 0.0193, so a converged
	// solution cannot come closer than that to the exact solution.
	e, err := p.Error()
	if err != nil {
		t.Fatal(err)
	}
	if e >= 2.5e-2 || different(e, 0.019317, 1e-3) {
		t.Errorf("error %g, want 0.019317", e)
	}
}

func TestDiscretizationOrder(t *testing.T) {
	maxLevel := 9
	if testing.Short() {
		maxLevel = 7
	}
	var prev float64
	for l := 5; l <= maxLevel; l++ {
		p := unitProblem(t, l)
		mg, err := NewMultigrid(p, GaussSeidelRedBlack{})
		if err != nil {
			t.Fatal(err)
		}
		for c := 0; c < 40; c++ {
			if err := mg.Cycle(p); err != nil {
				t.Fatal(err)
			}
			p.Residual()
			if p.Norm() < 1e-9 {
				break
			}
		}
		e, err := p.Error()
		if err != nil {
			t.Fatal(err)
		}
		if l > 5 {
			if ratio := prev / e; ratio < 3.5 || ratio > 4.5 {
				t.Errorf("level %d: error ratio %.3f, want about 4", l, ratio)
			}
		}
		prev = e
	}
}

func TestCycleErrors(t *testing.T) {
	p := unitProblem(t, 4)
	mg, err := NewMultigrid(p, GaussSeidel{})
	if err != nil {
		t.Fatal(err)
	}
	if err := mg.Cycle(unitProblem(t, 3)); !errors.Is(err, ErrLevel) {
		t.Errorf("level mismatch: err = %v, want ErrLevel", err)
	}
	mg.Release()
	if err := mg.Cycle(p); err == nil {
		t.Error("cycle after release succeeded")
	}
}

func TestDebugChecksPanic(t *testing.T) {
	p := unitProblem(t, 3)
	p.U[0] = 1
	mg, err := NewMultigrid(p, GaussSeidel{}, DebugChecks(true))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("nonzero boundary did not panic")
		}
	}()
	mg.Cycle(p)
}

func TestDebugChecksSameResult(t *testing.T) {
	// Debug checks only observe; the iterates must be bit-identical.
	solve := func(debug bool) Grid {
		p := unitProblem(t, 5)
		mg, err := NewMultigrid(p, GaussSeidelRedBlack{}, DebugChecks(debug))
		if err != nil {
			t.Fatal(err)
		}
		for c := 0; c < 3; c++ {
			if err := mg.Cycle(p); err != nil {
				t.Fatal(err)
			}
		}
		return p.U
	}
	a, b := solve(false), solve(true)
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Fatalf("u[%d] = %v without debug checks, %v with", i, a[i], b[i])
		}
	}
}

func TestSmoothingSweeps(t *testing.T) {
	// More sweeps per level converge in fewer cycles.
	reduce := func(opts ...Option) float64 {
		p := unitProblem(t, 5)
		mg, err := NewMultigrid(p, GaussSeidel{}, opts...)
		if err != nil {
			t.Fatal(err)
		}
		for c := 0; c < 3; c++ {
			if err := mg.Cycle(p); err != nil {
				t.Fatal(err)
			}
		}
		p.Residual()
		return p.Norm()
	}
	one, three := reduce(), reduce(PreSmooth(3), PostSmooth(3))
	if !(three < one) || math.IsNaN(three) {
		t.Errorf("V(3,3) residual %g is not below V(1,1) residual %g", three, one)
	}
}

func BenchmarkCycle(b *testing.B) {
	p := unitProblem(b, 9)
	mg, err := NewMultigrid(p, GaussSeidel{})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := mg.Cycle(p); err != nil {
			b.Fatal(err)
		}
	}
}
