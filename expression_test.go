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

func TestParseFunction(t *testing.T) {
	fn, err := ParseFunction("-2 * (k*pi)**2 * sin(k*pi*x) * sin(k*pi*y)", map[string]float64{"k": 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, xy := range [][2]float64{{0.25, 0.125}, {0.5, 0.75}, {0.1, 0.9}} {
		x, y := xy[0], xy[1]
		s := 2 * math.Pi
		want := -2 * s * s * math.Sin(s*x) * math.Sin(s*y)
		if got := fn(x, y); math.Abs(got-want) > 1e-12 {
			t.Errorf("f(%g, %g) = %g, want %g", x, y, got, want)
		}
	}
}

func TestParseFunctionErrors(t *testing.T) {
	if _, err := ParseFunction("sin(x", nil); !errors.Is(err, ErrExpression) {
		t.Errorf("syntax error: err = %v, want ErrExpression", err)
	}
	if _, err := ParseFunction("x * z", nil); !errors.Is(err, ErrExpression) {
		t.Errorf("undefined variable: err = %v, want ErrExpression", err)
	}
	fn, err := ParseFunction("sin(x, y)", nil)
	if err != nil {
		t.Fatal(err)
	}
	if v := fn(1, 2); !math.IsNaN(v) {
		t.Errorf("bad call evaluated to %g, want NaN", v)
	}
}

func TestProblemFromExpressions(t *testing.T) {
	const l = 4
	h := 1 / float64(GridSize(l)-1)
	f, err := ParseFunction("-2 * (x*(1-x) + y*(1-y))", nil)
	if err != nil {
		t.Fatal(err)
	}
	u, err := ParseFunction("x*(1-x)*y*(1-y)", nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewProblemWithForcing(l, h, f, u)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := SolveProblem(p, GaussSeidel{}, 30, 1e-11, discardLogger()); err != nil {
		t.Fatal(err)
	}
	e, err := p.Error()
	if err != nil {
		t.Fatal(err)
	}
	if e > 1e-10 {
		t.Errorf("error %g", e)
	}
}
