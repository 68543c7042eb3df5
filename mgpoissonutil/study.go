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
	"image/color"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mgpoisson"
	"github.com/spatialmodel/mgpoisson/internal/hash"
	"github.com/tealeg/xlsx"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// StudyReport summarizes a grid convergence study.
type StudyReport struct {
	Version     string
	Smoother    string
	Modes       float64
	FittedOrder *float64 `toml:",omitempty"`
	ConfigHash  string
	Levels      []StudyLevel `toml:"Level"`
}

// StudyLevel holds the study results at one grid level.
type StudyLevel struct {
	Level    int
	H        float64
	Cycles   int
	Residual float64
	Error    float64
	Order    *float64 `toml:",omitempty"`
}

// Study runs the convergence study described by cfg and writes the
// requested output files.
func Study(cfg *StudyConfig, logger logrus.FieldLogger) ([]mgpoisson.StudyResult, error) {
	results, err := mgpoisson.ConvergenceStudy(cfg.Levels, cfg.Modes, cfg.Smoother,
		cfg.MaxCycles, cfg.Tolerance, logger, cfg.Options()...)
	if err != nil {
		return nil, err
	}
	order := mgpoisson.FitOrder(results)
	logger.WithField("order", order).Info("fitted order of accuracy")

	if cfg.ReportFile != "" {
		sm, _ := mgpoisson.NewSmoother(cfg.Smoother)
		r := StudyReport{
			Version:     mgpoisson.Version,
			Smoother:    sm.Name(),
			Modes:       cfg.Modes,
			FittedOrder: finite(order),
			ConfigHash:  hash.Hash(cfg),
		}
		for _, res := range results {
			r.Levels = append(r.Levels, StudyLevel{
				Level:    res.Level,
				H:        res.H,
				Cycles:   res.Cycles,
				Residual: res.Residual,
				Error:    res.Error,
				Order:    finite(res.Order),
			})
		}
		if err := writeTOML(cfg.ReportFile, r); err != nil {
			return results, err
		}
		logger.WithField("file", cfg.ReportFile).Info("wrote report")
	}
	if cfg.TableFile != "" {
		if err := writeStudyTable(cfg.TableFile, results); err != nil {
			return results, err
		}
		logger.WithField("file", cfg.TableFile).Info("wrote table")
	}
	if cfg.PlotFile != "" {
		if err := plotStudy(cfg.PlotFile, results); err != nil {
			return results, err
		}
		logger.WithField("file", cfg.PlotFile).Info("wrote plot")
	}
	return results, nil
}

// studyColumns are the column headings of the study table.
var studyColumns = []string{"Level", "h", "Cycles", "Residual", "Error", "Order"}

// writeStudyTable writes results to an Excel spreadsheet at path.
func writeStudyTable(path string, results []mgpoisson.StudyResult) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Convergence")
	if err != nil {
		return err
	}
	row := sheet.AddRow()
	for _, c := range studyColumns {
		row.AddCell().SetString(c)
	}
	for _, r := range results {
		row := sheet.AddRow()
		row.AddCell().SetInt(r.Level)
		row.AddCell().SetFloat(r.H)
		row.AddCell().SetInt(r.Cycles)
		row.AddCell().SetFloat(r.Residual)
		row.AddCell().SetFloat(r.Error)
		cell := row.AddCell()
		if !math.IsNaN(r.Order) {
			cell.SetFloat(r.Order)
		}
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("mgpoisson: writing study table: %v", err)
	}
	return nil
}

// plotStudy plots log10(error) against log10(h) together with a
// second-order reference line through the finest result.
func plotStudy(path string, results []mgpoisson.StudyResult) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = "Grid convergence"
	p.X.Label.Text = "log10(h)"
	p.Y.Label.Text = "log10(error)"
	xy := make(plotter.XYs, len(results))
	for i, r := range results {
		xy[i].X = math.Log10(r.H)
		xy[i].Y = math.Log10(r.Error)
	}
	if err := plotutil.AddLinePoints(p, "error", xy); err != nil {
		return err
	}
	if len(xy) > 1 {
		last := xy[len(xy)-1]
		ref := make(plotter.XYs, len(xy))
		for i := range xy {
			ref[i].X = xy[i].X
			ref[i].Y = last.Y + 2*(xy[i].X-last.X)
		}
		l, err := plotter.NewLine(ref)
		if err != nil {
			return err
		}
		l.Color = color.NRGBA{127, 127, 127, 255}
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(l)
		p.Legend.Add("second order", l)
	}
	return p.Save(5*vg.Inch, 3.5*vg.Inch, path)
}
