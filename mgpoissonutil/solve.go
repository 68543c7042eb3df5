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

package mgpoissonutil

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mgpoisson"
	"github.com/spatialmodel/mgpoisson/internal/hash"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Report summarizes a solve.
type Report struct {
	Version   string
	Solver    string
	Level     int
	N         int
	H         float64
	Forcing   string
	Modes     float64  `toml:",omitzero"`
	Cycles    int
	Converged bool
	Residual  float64
	Error     *float64 `toml:",omitempty"`

	// ConfigHash and SolutionHash identify the configuration and the
	// bit pattern of the solution, for reproducibility checks.
	ConfigHash   string
	SolutionHash string

	History []ReportCycle `toml:"Cycle"`
}

// ReportCycle describes the state after one V-cycle.
type ReportCycle struct {
	Cycle    int
	Residual float64
	Factor   *float64 `toml:",omitempty"`
	Error    *float64 `toml:",omitempty"`
	Seconds  float64
}

// finite returns a pointer to v, or nil if v is NaN or infinite.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Solve solves the problem described by cfg and writes the requested
// output files.
func Solve(cfg *SolveConfig, logger logrus.FieldLogger) (*Report, error) {
	sm, err := mgpoisson.NewSmoother(cfg.Smoother)
	if err != nil {
		return nil, err
	}
	p, err := cfg.Problem()
	if err != nil {
		return nil, err
	}
	s, err := mgpoisson.NewSession(p, sm, cfg.MaxCycles, cfg.Tolerance, logger, cfg.Options()...)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"solver": s.Solver.Name(),
		"level":  p.L,
		"n":      p.N,
		"h":      p.H,
	}).Info("starting solve")
	if err := s.Init(); err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}
	r := newReport(cfg, s)
	if err := s.Cleanup(); err != nil {
		return nil, err
	}
	fields := logrus.Fields{
		"cycles":   r.Cycles,
		"residual": r.Residual,
	}
	if r.Error != nil {
		fields["error"] = *r.Error
	}
	if r.Converged {
		logger.WithFields(fields).Info("converged")
	} else {
		logger.WithFields(fields).Warn("stopped before reaching the tolerance")
	}

	if cfg.OutputFile != "" {
		if err := writeSolution(cfg.OutputFile, p, r); err != nil {
			return r, err
		}
		logger.WithField("file", cfg.OutputFile).Info("wrote solution")
	}
	if cfg.ReportFile != "" {
		if err := writeTOML(cfg.ReportFile, r); err != nil {
			return r, err
		}
		logger.WithField("file", cfg.ReportFile).Info("wrote report")
	}
	if cfg.PlotFile != "" {
		if err := plotHistory(cfg.PlotFile, s.Solver.Name(), s.History); err != nil {
			return r, err
		}
		logger.WithField("file", cfg.PlotFile).Info("wrote residual history plot")
	}
	return r, nil
}

func newReport(cfg *SolveConfig, s *mgpoisson.Session) *Report {
	p := s.Problem
	last, _ := s.Last()
	r := &Report{
		Version:      mgpoisson.Version,
		Solver:       s.Solver.Name(),
		Level:        p.L,
		N:            p.N,
		H:            p.H,
		Forcing:      cfg.Forcing,
		Cycles:       s.Cycles,
		Converged:    last.Residual < cfg.Tolerance,
		Residual:     last.Residual,
		Error:        finite(last.Error),
		ConfigHash:   hash.Hash(cfg),
		SolutionHash: hash.Values(p.U),
	}
	if cfg.Forcing == "" {
		r.Forcing = "manufactured"
		r.Modes = p.Modes
	}
	for _, st := range s.History {
		r.History = append(r.History, ReportCycle{
			Cycle:    st.Cycle,
			Residual: st.Residual,
			Factor:   finite(st.Factor),
			Error:    finite(st.Error),
			Seconds:  st.Elapsed.Seconds(),
		})
	}
	return r
}

// writeTOML writes v to the file at path.
func writeTOML(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mgpoisson: creating report: %v", err)
	}
	if err := toml.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("mgpoisson: writing report: %v", err)
	}
	return f.Close()
}

// writeSolution writes the fields of p to a NetCDF file at path.
func writeSolution(path string, p *mgpoisson.Problem, r *Report) error {
	fields := []struct {
		name, description string
		data              mgpoisson.Grid
	}{
		{"u", "Solution", p.U},
		{"f", "Forcing", p.F},
		{"r", "Residual f - L(u)", p.R},
	}
	if exact, err := p.Exact(); err == nil {
		diff := make(mgpoisson.Grid, len(p.U))
		if err := mgpoisson.Subtract(diff, p.U, exact); err != nil {
			return err
		}
		fields = append(fields,
			struct {
				name, description string
				data              mgpoisson.Grid
			}{"exact", "Exact solution", exact},
			struct {
				name, description string
				data              mgpoisson.Grid
			}{"error", "Solution minus exact solution", diff},
		)
	}

	h := cdf.NewHeader([]string{"y", "x"}, []int{p.N, p.N})
	h.AddAttribute("", "comment", "Poisson equation solution computed by mgpoisson")
	h.AddAttribute("", "solver", r.Solver)
	h.AddAttribute("", "version", r.Version)
	h.AddAttribute("", "level", []int32{int32(p.L)})
	h.AddAttribute("", "spacing", []float64{p.H})
	h.AddAttribute("", "cycles", []int32{int32(r.Cycles)})
	h.AddAttribute("", "residual_norm", []float64{r.Residual})
	h.AddAttribute("", "solution_hash", r.SolutionHash)
	for _, fld := range fields {
		h.AddVariable(fld.name, []string{"y", "x"}, []float64{0})
		h.AddAttribute(fld.name, "description", fld.description)
	}
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mgpoisson: creating output file: %v", err)
	}
	f, err := cdf.Create(ff, h) // writes the header to ff
	if err != nil {
		ff.Close()
		return fmt.Errorf("mgpoisson: writing output header: %v", err)
	}
	for _, fld := range fields {
		if err := writeNCF(f, fld.name, fld.data); err != nil {
			ff.Close()
			return err
		}
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		ff.Close()
		return err
	}
	return ff.Close()
}

func writeNCF(f *cdf.File, name string, data []float64) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("mgpoisson: writing %s: %v", name, err)
	}
	return nil
}

// plotHistory plots the base-10 logarithm of the residual norm after each
// cycle.
func plotHistory(path, title string, hist []mgpoisson.CycleStatus) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = "V-cycle"
	p.Y.Label.Text = "log10(residual norm)"
	var n int
	for _, st := range hist {
		if st.Residual > 0 {
			n++
		}
	}
	xy := make(plotter.XYs, n)
	i := 0
	for _, st := range hist {
		if st.Residual > 0 {
			xy[i].X = float64(st.Cycle)
			xy[i].Y = math.Log10(st.Residual)
			i++
		}
	}
	if err := plotutil.AddLinePoints(p, "residual", xy); err != nil {
		return err
	}
	return p.Save(5*vg.Inch, 3.5*vg.Inch, path)
}
