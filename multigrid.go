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
)

// Multigrid owns the storage shared by every level of every V-cycle it
// runs for problems of one grid level.
type Multigrid struct {
	level    int
	smoother Smoother

	// v holds coarse-grid error corrections and w holds restricted
	// residuals, one grid per level, with level k starting at offset[k].
	v, w   Grid
	offset []int

	// r is the residual scratch grid. It is sized for the finest level and
	// reused, at smaller side lengths, by every coarser level.
	r Grid

	preSmooth, postSmooth int
	debug                 bool
}

// Option configures a Multigrid.
type Option func(*Multigrid) error

// PreSmooth sets the number of smoothing sweeps before each coarse-grid
// correction. The default is 1.
func PreSmooth(sweeps int) Option {
	return func(mg *Multigrid) error {
		if sweeps < 0 {
			return fmt.Errorf("mgpoisson: negative pre-smoothing sweep count %d", sweeps)
		}
		mg.preSmooth = sweeps
		return nil
	}
}

// PostSmooth sets the number of smoothing sweeps after each coarse-grid
// correction. The default is 1.
func PostSmooth(sweeps int) Option {
	return func(mg *Multigrid) error {
		if sweeps < 0 {
			return fmt.Errorf("mgpoisson: negative post-smoothing sweep count %d", sweeps)
		}
		mg.postSmooth = sweeps
		return nil
	}
}

// DebugChecks turns on boundary checks after every smoothing and residual
// step. A boundary value that is not zero causes a panic.
func DebugChecks(on bool) Option {
	return func(mg *Multigrid) error {
		mg.debug = on
		return nil
	}
}

// NewMultigrid allocates the level hierarchy for p and returns a solver
// that uses smoother s at every level.
func NewMultigrid(p *Problem, s Smoother, opts ...Option) (*Multigrid, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil smoother", ErrSmoother)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	mg := &Multigrid{
		level:      p.L,
		smoother:   s,
		preSmooth:  1,
		postSmooth: 1,
	}
	for _, opt := range opts {
		if err := opt(mg); err != nil {
			return nil, err
		}
	}

	mg.offset = make([]int, mg.level+1)
	for k := 1; k <= mg.level; k++ {
		n := GridSize(k - 1)
		mg.offset[k] = mg.offset[k-1] + n*n
	}

	var err error
	size := MultigridSize(mg.level)
	if mg.v, err = allocate(size); err != nil {
		return nil, fmt.Errorf("mgpoisson: allocating corrections: %w", err)
	}
	if mg.w, err = allocate(size); err != nil {
		return nil, fmt.Errorf("mgpoisson: allocating restricted residuals: %w", err)
	}
	if mg.r, err = allocate(p.N * p.N); err != nil {
		return nil, fmt.Errorf("mgpoisson: allocating residual: %w", err)
	}
	return mg, nil
}

var errReleased = errors.New("mgpoisson: multigrid buffers have been released")

// Cycle runs one V-cycle on p, improving p.U in place.
func (mg *Multigrid) Cycle(p *Problem) error {
	if mg.v == nil {
		return errReleased
	}
	if err := p.validate(); err != nil {
		return err
	}
	if p.L != mg.level {
		return fmt.Errorf("%w: problem level %d, solver level %d", ErrLevel, p.L, mg.level)
	}
	for i := range mg.v {
		mg.v[i] = 0
	}
	for i := range mg.w {
		mg.w[i] = 0
	}
	mg.vCycle(mg.level, p.U, p.F, p.H)
	return nil
}

// Name returns a description of the solver for diagnostics.
func (mg *Multigrid) Name() string {
	return fmt.Sprintf("Multi-Grid<%s>", mg.smoother.Name())
}

// Level returns the finest grid level the solver was built for.
func (mg *Multigrid) Level() int { return mg.level }

// Smoother returns the smoother used at every level.
func (mg *Multigrid) Smoother() Smoother { return mg.smoother }

// Release drops the solver's buffers. Cycle returns an error afterwards.
func (mg *Multigrid) Release() {
	mg.v, mg.w, mg.r = nil, nil, nil
}

// levelGrids returns the slices of v and w reserved for level k.
func (mg *Multigrid) levelGrids(k int) (e, r Grid) {
	n := GridSize(k)
	start, end := mg.offset[k], mg.offset[k]+n*n
	return mg.v[start:end:end], mg.w[start:end:end]
}
