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
	"math/rand"
	"testing"
)

func TestGaussSeidelSweep(t *testing.T) {
	const n = 5
	u := make(Grid, n*n)
	f := make(Grid, n*n)
	for i := range f {
		f[i] = 1
	}
	GaussSeidel{}.Relax(u, f, n, 1)
	want := Grid{
		0, 0, 0, 0, 0,
		0, -0.25, -0.3125, -0.328125, 0,
		0, -0.3125, -0.40625, -0.43359375, 0,
		0, -0.328125, -0.43359375, -0.466796875, 0,
		0, 0, 0, 0, 0,
	}
	for i := range want {
		if u[i] != want[i] {
			t.Errorf("u[%d] = %g, want %g", i, u[i], want[i])
		}
	}
}

// sweep runs one sweep of s on a zeroed level-l grid with constant forcing.
func sweep(s Smoother, l int) Grid {
	n := GridSize(l)
	u := make(Grid, n*n)
	f := make(Grid, n*n)
	for i := range f {
		f[i] = -3
	}
	s.Relax(u, f, n, 1/float64(n-1))
	return u
}

func TestSmootherDeterminism(t *testing.T) {
	for _, s := range []Smoother{GaussSeidel{}, GaussSeidelRedBlack{}} {
		t.Run(s.Name(), func(t *testing.T) {
			a, b := sweep(s, 4), sweep(s, 4)
			for i := range a {
				if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
					t.Fatalf("run-to-run difference at %d: %g != %g", i, a[i], b[i])
				}
			}
			n := GridSize(4)
			if MaxNorm(a, n) == 0 {
				t.Error("sweep left the grid at zero")
			}
			if !boundaryClean(a, n) {
				t.Error("sweep wrote the boundary")
			}
		})
	}
}

func TestGaussSeidelSymmetry(t *testing.T) {
	// A lexicographic sweep is not invariant under reflections, but it is
	// invariant under transposition: rows and columns are visited in the
	// same order.
	const l = 4
	n := GridSize(l)
	u := sweep(GaussSeidel{}, l)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if math.Abs(u[j+i*n]-u[i+j*n]) > 1e-15 {
				t.Errorf("u[%d,%d] = %g, u[%d,%d] = %g", i, j, u[j+i*n], j, i, u[i+j*n])
			}
		}
	}
}

func TestRedBlackSymmetry(t *testing.T) {
	const l = 4
	n := GridSize(l)
	u := sweep(GaussSeidelRedBlack{}, l)
	m := n - 1
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := u[j+i*n]
			for _, w := range []float64{
				u[i+j*n],         // transpose
				u[(m-j)+i*n],     // mirror columns
				u[j+(m-i)*n],     // mirror rows
				u[(m-j)+(m-i)*n], // rotate by 180°
			} {
				if math.Abs(v-w) > 1e-15 {
					t.Fatalf("u[%d,%d] = %g is not symmetric (%g)", i, j, v, w)
				}
			}
		}
	}
}

// discreteProblem returns a random u with zero boundary and f = L·u.
func discreteProblem(n int, h float64) (u, f Grid) {
	rng := rand.New(rand.NewSource(1))
	u = make(Grid, n*n)
	f = make(Grid, n*n)
	for i := 1; i < n-1; i++ {
		for j := 1; j < n-1; j++ {
			u[j+i*n] = rng.Float64() - 0.5
		}
	}
	residual(f, u, make(Grid, n*n), n, h)
	for i := range f {
		f[i] = -f[i]
	}
	return u, f
}

func TestSmootherFixedPoint(t *testing.T) {
	const n, h = 17, 1. / 16
	for _, s := range []Smoother{GaussSeidel{}, GaussSeidelRedBlack{}} {
		t.Run(s.Name(), func(t *testing.T) {
			u, f := discreteProblem(n, h)
			want := append(Grid{}, u...)
			s.Relax(u, f, n, h)
			for i := range u {
				if math.Abs(u[i]-want[i]) > 1e-12 {
					t.Errorf("u[%d] moved from %g to %g", i, want[i], u[i])
				}
			}
		})
	}
}

func TestNewSmoother(t *testing.T) {
	for kind, want := range map[string]string{
		GaussSeidelKind:          "Gauss-Seidel",
		"GS":                     "Gauss-Seidel",
		GaussSeidelRedBlackKind:  "Gauss-Seidel (red-black)",
		" gauss-seidel-red-black": "Gauss-Seidel (red-black)",
	} {
		s, err := NewSmoother(kind)
		if err != nil {
			t.Errorf("%q: %v", kind, err)
			continue
		}
		if s.Name() != want {
			t.Errorf("%q: name %q, want %q", kind, s.Name(), want)
		}
	}
	if _, err := NewSmoother("jacobi"); !errors.Is(err, ErrSmoother) {
		t.Errorf("err = %v, want ErrSmoother", err)
	}
}

func BenchmarkGaussSeidel(b *testing.B)         { benchmarkSmoother(b, GaussSeidel{}) }
func BenchmarkGaussSeidelRedBlack(b *testing.B) { benchmarkSmoother(b, GaussSeidelRedBlack{}) }

func benchmarkSmoother(b *testing.B, s Smoother) {
	const l = 9
	n := GridSize(l)
	u, f := make(Grid, n*n), make(Grid, n*n)
	ForcingFunction(f, n, 1/float64(n-1), 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Relax(u, f, n, 1/float64(n-1))
	}
}
