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

import "fmt"

// baseCase solves the single-unknown problem on a 3×3 grid.
func baseCase(u, f Grid, h float64) {
	const center = 1 + 3*1
	u[center] = -0.5 * f[center] * h * h
}

// vCycle improves the level-l solution u of L·u = f with grid spacing h.
// Coarse-grid corrections and restricted residuals are kept in the
// level-(l-1) slices of mg.v and mg.w, which must be zero on entry.
func (mg *Multigrid) vCycle(l int, u, f Grid, h float64) {
	if l == 1 {
		baseCase(u, f, h)
		return
	}
	nu := GridSize(l)
	nv := GridSize(l - 1)
	el, rl := mg.levelGrids(l - 1)

	mg.smooth(mg.preSmooth, l, u, f, nu, h)

	// r := f - L·u. r is shared by all levels, so at this side length its
	// boundary may hold interior values left by a finer level. Nothing
	// reads them; they are cleared only for the boundary check.
	if mg.debug {
		clearBoundary(mg.r, nu)
	}
	residual(mg.r, u, f, nu, h)
	mg.check("residual", l, mg.r, nu)

	restrict(rl, nv, mg.r, nu, Overwrite)

	// Solve L·el = rl approximately on the coarse grid.
	mg.vCycle(l-1, el, rl, 2*h)

	// u := u + P·el
	prolongate(u, nu, el, nv, Accumulate)

	mg.smooth(mg.postSmooth, l, u, f, nu, h)
}

func (mg *Multigrid) smooth(sweeps, l int, u, f Grid, n int, h float64) {
	for s := 0; s < sweeps; s++ {
		mg.smoother.Relax(u, f, n, h)
	}
	mg.check(mg.smoother.Name(), l, u, n)
}

// check panics if debug checks are on and the boundary of g is not zero.
func (mg *Multigrid) check(step string, l int, g Grid, n int) {
	if mg.debug && !boundaryClean(g, n) {
		panic(fmt.Sprintf("mgpoisson: boundary of %d×%d grid is not zero after %s at level %d",
			n, n, step, l))
	}
}

func clearBoundary(g Grid, n int) {
	for k := 0; k < n; k++ {
		g[k] = 0
		g[k+(n-1)*n] = 0
		g[k*n] = 0
		g[n-1+k*n] = 0
	}
}
