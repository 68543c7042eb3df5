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

// residual sets r = f - L·u on the interior of the n×n grids, where L is
// the five-point discrete Laplacian with spacing h. The boundary of r is
// left untouched.
func residual(r, u, f Grid, n int, h float64) {
	hi2 := 1 / (h * h)
	for i := 1; i < n-1; i++ {
		for j := 1; j < n-1; j++ {
			c := j + i*n
			r[c] = f[c] - (u[c+1]+u[c-1]+u[c+n]+u[c-n]-4*u[c])*hi2
		}
	}
}

// Residual sets r = f - L·u on the interior of the n×n grids.
func Residual(r, u, f Grid, n int, h float64) error {
	for _, g := range []struct {
		name string
		g    Grid
	}{{"residual", r}, {"solution", u}, {"forcing", f}} {
		if err := checkGrid(g.name, g.g, n); err != nil {
			return err
		}
	}
	if err := checkSpacing(h); err != nil {
		return err
	}
	residual(r, u, f, n, h)
	return nil
}
