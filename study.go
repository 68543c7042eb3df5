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
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// StudyResult holds the outcome of solving the manufactured problem at one
// grid level.
type StudyResult struct {
	Level    int
	H        float64
	Cycles   int
	Residual float64
	Error    float64

	// Order is the observed order of accuracy relative to the previous
	// result in the study, or NaN for the first.
	Order float64
}

// ConvergenceStudy solves the manufactured problem on the unit square
// (h = 1/2^level) at each of the given levels with the named smoother and
// reports the converged error and observed order of accuracy.
func ConvergenceStudy(levels []int, modes float64, kind string, maxCycles int, tolerance float64, logger logrus.FieldLogger, opts ...Option) ([]StudyResult, error) {
	sm, err := NewSmoother(kind)
	if err != nil {
		return nil, err
	}
	results := make([]StudyResult, 0, len(levels))
	for _, l := range levels {
		if err := CheckLevel(l); err != nil {
			return nil, err
		}
		h := 1 / float64(int(1)<<uint(l))
		p, err := NewProblem(l, h, modes)
		if err != nil {
			return nil, err
		}
		hist, err := SolveProblem(p, sm, maxCycles, tolerance, logger.WithField("level", l), opts...)
		if err != nil {
			return nil, fmt.Errorf("mgpoisson: level %d: %w", l, err)
		}
		last := hist[len(hist)-1]
		r := StudyResult{
			Level:    l,
			H:        h,
			Cycles:   last.Cycle,
			Residual: last.Residual,
			Error:    last.Error,
			Order:    math.NaN(),
		}
		if n := len(results); n > 0 {
			prev := results[n-1]
			r.Order = math.Log(prev.Error/r.Error) / math.Log(prev.H/r.H)
		}
		logger.WithFields(logrus.Fields{
			"level":  l,
			"cycles": r.Cycles,
			"error":  r.Error,
			"order":  r.Order,
		}).Info("convergence study level complete")
		results = append(results, r)
	}
	return results, nil
}

// FitOrder returns the least-squares slope of log(Error) against log(H)
// over results, or NaN if there are fewer than two results.
func FitOrder(results []StudyResult) float64 {
	if len(results) < 2 {
		return math.NaN()
	}
	x := make([]float64, len(results))
	y := make([]float64, len(results))
	for i, r := range results {
		x[i] = math.Log(r.H)
		y[i] = math.Log(r.Error)
	}
	_, slope := stat.LinearRegression(x, y, nil, false)
	return slope
}

// CompareSmoothers solves the manufactured problem at the given level with
// both the lexicographic and the red-black smoother and returns the
// area-weighted L1 norm of the difference between the two solutions.
func CompareSmoothers(level int, modes float64, maxCycles int, tolerance float64, logger logrus.FieldLogger) (float64, error) {
	if err := CheckLevel(level); err != nil {
		return math.NaN(), err
	}
	h := 1 / float64(int(1)<<uint(level))
	var u [2]Grid
	for i, sm := range []Smoother{GaussSeidel{}, GaussSeidelRedBlack{}} {
		p, err := NewProblem(level, h, modes)
		if err != nil {
			return math.NaN(), err
		}
		if _, err := SolveProblem(p, sm, maxCycles, tolerance, logger.WithField("smoother", sm.Name())); err != nil {
			return math.NaN(), err
		}
		u[i] = p.U
	}
	d := make(Grid, len(u[0]))
	if err := Subtract(d, u[0], u[1]); err != nil {
		return math.NaN(), err
	}
	n := GridSize(level)
	return L1Norm(d, n, h, h), nil
}
