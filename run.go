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
	"time"

	"github.com/sirupsen/logrus"
)

// ErrDiverged is returned when the residual norm stops being finite.
var ErrDiverged = errors.New("mgpoisson: solution diverged")

// DefaultMaxCycles is the cycle limit used by ConvergenceCheck when
// none is given.
const DefaultMaxCycles = 100

// A ProblemManipulator is a function that operates on a solve session.
type ProblemManipulator func(s *Session) error

// Session holds the state of one solve of a Problem.
type Session struct {
	Problem *Problem
	Solver  *Multigrid

	// InitFuncs are run once by Init.
	InitFuncs []ProblemManipulator

	// RunFuncs are run in order, repeatedly, until Done is set.
	RunFuncs []ProblemManipulator

	// CleanupFuncs are run once by Cleanup.
	CleanupFuncs []ProblemManipulator

	// Done is set by a manipulator when the solve is finished.
	Done bool

	// Cycles is the number of V-cycles completed so far.
	Cycles int

	// History holds the status recorded by RecordStatus.
	History []CycleStatus
}

// CycleStatus describes the state of a session after a V-cycle.
type CycleStatus struct {
	Cycle    int
	Residual float64 // area-weighted L1 norm of the residual

	// Error is the area-weighted L1 norm of the difference from the exact
	// solution, or NaN when there is no exact solution.
	Error float64

	// Factor is Residual divided by the residual of the previous entry,
	// or NaN for the first entry.
	Factor float64

	Elapsed time.Duration
}

// Init runs the InitFuncs.
func (s *Session) Init() error {
	for _, f := range s.InitFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// Run carries out the solve by calling the RunFuncs until Done is set.
func (s *Session) Run() error {
	for !s.Done {
		for _, f := range s.RunFuncs {
			if err := f(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cleanup runs the CleanupFuncs.
func (s *Session) Cleanup() error {
	for _, f := range s.CleanupFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// Last returns the most recent status, and false if none has been recorded.
func (s *Session) Last() (CycleStatus, bool) {
	if len(s.History) == 0 {
		return CycleStatus{}, false
	}
	return s.History[len(s.History)-1], true
}

// VCycle runs one V-cycle of the session's solver.
func VCycle() ProblemManipulator {
	return func(s *Session) error {
		if s.Solver == nil {
			return errors.New("mgpoisson: session has no solver")
		}
		if err := s.Solver.Cycle(s.Problem); err != nil {
			return fmt.Errorf("mgpoisson: cycle %d: %w", s.Cycles+1, err)
		}
		s.Cycles++
		return nil
	}
}

// RecordStatus refreshes the residual and appends the current status to
// the session history.
func RecordStatus() ProblemManipulator {
	var start time.Time
	return func(s *Session) error {
		if start.IsZero() {
			start = time.Now()
		}
		p := s.Problem
		p.Residual()
		st := CycleStatus{
			Cycle:    s.Cycles,
			Residual: p.Norm(),
			Error:    math.NaN(),
			Factor:   math.NaN(),
			Elapsed:  time.Since(start),
		}
		if p.HasExactSolution() {
			e, err := p.Error()
			if err != nil {
				return err
			}
			st.Error = e
		}
		if last, ok := s.Last(); ok {
			st.Factor = st.Residual / last.Residual
		}
		s.History = append(s.History, st)
		return nil
	}
}

// ConvergenceCheck sets Done once the residual norm is below tolerance or
// maxCycles V-cycles have run. If maxCycles < 1, DefaultMaxCycles is used.
// It uses the latest recorded status when it is current and computes the
// residual otherwise.
func ConvergenceCheck(maxCycles int, tolerance float64) ProblemManipulator {
	if maxCycles < 1 {
		maxCycles = DefaultMaxCycles
	}
	return func(s *Session) error {
		var r float64
		if last, ok := s.Last(); ok && last.Cycle == s.Cycles {
			r = last.Residual
		} else {
			s.Problem.Residual()
			r = s.Problem.Norm()
		}
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: residual %g after %d cycles", ErrDiverged, r, s.Cycles)
		}
		if r < tolerance || s.Cycles >= maxCycles {
			s.Done = true
		}
		return nil
	}
}

// Log writes the latest recorded status to logger.
func Log(logger logrus.FieldLogger) ProblemManipulator {
	return func(s *Session) error {
		st, ok := s.Last()
		if !ok {
			return nil
		}
		fields := logrus.Fields{
			"cycle":    st.Cycle,
			"residual": st.Residual,
			"walltime": st.Elapsed.Seconds(),
		}
		if !math.IsNaN(st.Error) {
			fields["error"] = st.Error
		}
		if !math.IsNaN(st.Factor) {
			fields["factor"] = st.Factor
		}
		logger.WithFields(fields).Info("multigrid cycle")
		return nil
	}
}

// ReleaseSolver releases the storage held by the session's solver.
func ReleaseSolver() ProblemManipulator {
	return func(s *Session) error {
		if s.Solver != nil {
			s.Solver.Release()
		}
		return nil
	}
}

// NewSession returns a session that solves p with smoother sm until the
// residual norm is below tolerance or maxCycles V-cycles have run,
// logging each cycle to logger.
func NewSession(p *Problem, sm Smoother, maxCycles int, tolerance float64, logger logrus.FieldLogger, opts ...Option) (*Session, error) {
	mg, err := NewMultigrid(p, sm, opts...)
	if err != nil {
		return nil, err
	}
	record := RecordStatus()
	log := Log(logger)
	check := ConvergenceCheck(maxCycles, tolerance)
	return &Session{
		Problem:   p,
		Solver:    mg,
		InitFuncs: []ProblemManipulator{record, log, check},
		RunFuncs:  []ProblemManipulator{VCycle(), record, log, check},
		CleanupFuncs: []ProblemManipulator{
			ReleaseSolver(),
		},
	}, nil
}

// SolveProblem solves p in place and returns the per-cycle history.
// See NewSession for the meaning of the arguments.
func SolveProblem(p *Problem, sm Smoother, maxCycles int, tolerance float64, logger logrus.FieldLogger, opts ...Option) ([]CycleStatus, error) {
	s, err := NewSession(p, sm, maxCycles, tolerance, logger, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return s.History, err
	}
	if err := s.Run(); err != nil {
		return s.History, err
	}
	return s.History, s.Cleanup()
}
