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
	"math"
	"sync"

	"github.com/golang/groupcache/lru"
)

// waveNumber returns the angular wave number that fits modes full sine
// periods across a grid of side n and spacing h.
func waveNumber(n int, h, modes float64) float64 {
	return 2 * math.Pi * modes / (h * float64(n-1))
}

// ForcingFunction fills f with the Laplacian of the manufactured solution
// sin(s·x)·sin(s·y), where s fits modes periods across the grid.
func ForcingFunction(f Grid, n int, h, modes float64) {
	s := waveNumber(n, h, modes)
	c := -2 * s * s
	for i := 0; i < n; i++ {
		si := math.Sin(s * h * float64(i))
		for j := 0; j < n; j++ {
			f[j+i*n] = c * si * math.Sin(s*h*float64(j))
		}
	}
}

// ExactSolution fills u with the manufactured solution whose Laplacian is
// given by ForcingFunction.
func ExactSolution(u Grid, n int, h, modes float64) {
	s := waveNumber(n, h, modes)
	for i := 0; i < n; i++ {
		si := math.Sin(s * h * float64(i))
		for j := 0; j < n; j++ {
			u[j+i*n] = math.Sin(s*h*float64(j)) * si
		}
	}
}

type exactKey struct {
	n        int
	h, modes float64
}

var (
	exactMu    sync.Mutex
	exactCache = lru.New(8)
)

// exactSolution returns a memoized exact solution grid. The returned
// grid is shared and must not be modified.
func exactSolution(n int, h, modes float64) Grid {
	key := exactKey{n: n, h: h, modes: modes}
	exactMu.Lock()
	defer exactMu.Unlock()
	if g, ok := exactCache.Get(key); ok {
		return g.(Grid)
	}
	g := make(Grid, n*n)
	ExactSolution(g, n, h, modes)
	exactCache.Add(key, g)
	return g
}
