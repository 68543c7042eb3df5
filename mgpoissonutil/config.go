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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/mgpoisson"
	"github.com/spf13/cast"
)

// SolveConfig holds the settings for solving a single problem.
type SolveConfig struct {
	Level     int
	Spacing   float64
	Modes     float64
	Smoother  string
	MaxCycles int
	Tolerance float64

	PreSmooth, PostSmooth int
	DebugChecks           bool

	// Forcing and Exact are field expressions. If Forcing is empty the
	// manufactured forcing is used.
	Forcing, Exact string
	Params         map[string]float64

	OutputFile, ReportFile, PlotFile string
}

// StudyConfig holds the settings for a grid convergence study.
type StudyConfig struct {
	Levels    []int
	Modes     float64
	Smoother  string
	MaxCycles int
	Tolerance float64

	PreSmooth, PostSmooth int
	DebugChecks           bool

	ReportFile, PlotFile, TableFile string
}

// NewSolveConfig reads and checks the solve settings in cfg.
func NewSolveConfig(cfg *viper.Viper) (*SolveConfig, error) {
	c := &SolveConfig{
		Level:       cfg.GetInt("Level"),
		Spacing:     cfg.GetFloat64("Spacing"),
		Modes:       cfg.GetFloat64("Modes"),
		Smoother:    os.ExpandEnv(cfg.GetString("Smoother")),
		MaxCycles:   cfg.GetInt("MaxCycles"),
		Tolerance:   cfg.GetFloat64("Tolerance"),
		PreSmooth:   cfg.GetInt("PreSmooth"),
		PostSmooth:  cfg.GetInt("PostSmooth"),
		DebugChecks: cfg.GetBool("DebugChecks"),
		Forcing:     os.ExpandEnv(cfg.GetString("Forcing")),
		Exact:       os.ExpandEnv(cfg.GetString("Exact")),
	}
	if err := mgpoisson.CheckLevel(c.Level); err != nil {
		return nil, err
	}
	if c.Spacing == 0 {
		c.Spacing = 1 / float64(int(1)<<uint(c.Level))
	} else if !(c.Spacing > 0) {
		return nil, fmt.Errorf("mgpoisson: Spacing must be positive but is %g", c.Spacing)
	}
	if err := checkSolver(c.Smoother, c.Tolerance, c.PreSmooth, c.PostSmooth); err != nil {
		return nil, err
	}
	if c.Exact != "" && c.Forcing == "" {
		return nil, fmt.Errorf("mgpoisson: Exact is set but Forcing is not")
	}
	var err error
	if c.Params, err = getParams("Params", cfg); err != nil {
		return nil, err
	}
	if c.OutputFile, err = checkOutputFile("OutputFile", cfg.GetString("OutputFile")); err != nil {
		return nil, err
	}
	if c.ReportFile, err = checkOutputFile("ReportFile", cfg.GetString("ReportFile")); err != nil {
		return nil, err
	}
	if c.PlotFile, err = checkOutputFile("PlotFile", cfg.GetString("PlotFile")); err != nil {
		return nil, err
	}
	return c, nil
}

// NewStudyConfig reads and checks the convergence study settings in cfg.
func NewStudyConfig(cfg *viper.Viper) (*StudyConfig, error) {
	levels, err := toIntSliceE(cfg.Get("Study.Levels"))
	if err != nil {
		return nil, fmt.Errorf("mgpoisson: invalid Study.Levels: %v", err)
	}
	c := &StudyConfig{
		Levels:      levels,
		Modes:       cfg.GetFloat64("Modes"),
		Smoother:    os.ExpandEnv(cfg.GetString("Smoother")),
		MaxCycles:   cfg.GetInt("MaxCycles"),
		Tolerance:   cfg.GetFloat64("Tolerance"),
		PreSmooth:   cfg.GetInt("PreSmooth"),
		PostSmooth:  cfg.GetInt("PostSmooth"),
		DebugChecks: cfg.GetBool("DebugChecks"),
	}
	if len(c.Levels) == 0 {
		return nil, fmt.Errorf("mgpoisson: Study.Levels is empty")
	}
	for i, l := range c.Levels {
		if err := mgpoisson.CheckLevel(l); err != nil {
			return nil, err
		}
		if i > 0 && l <= c.Levels[i-1] {
			return nil, fmt.Errorf("mgpoisson: Study.Levels must be increasing but is %v", c.Levels)
		}
	}
	if err := checkSolver(c.Smoother, c.Tolerance, c.PreSmooth, c.PostSmooth); err != nil {
		return nil, err
	}
	if c.ReportFile, err = checkOutputFile("ReportFile", cfg.GetString("ReportFile")); err != nil {
		return nil, err
	}
	if c.PlotFile, err = checkOutputFile("Study.PlotFile", cfg.GetString("Study.PlotFile")); err != nil {
		return nil, err
	}
	if c.TableFile, err = checkOutputFile("Study.TableFile", cfg.GetString("Study.TableFile")); err != nil {
		return nil, err
	}
	return c, nil
}

func checkSolver(smoother string, tolerance float64, pre, post int) error {
	if _, err := mgpoisson.NewSmoother(smoother); err != nil {
		return err
	}
	if tolerance < 0 {
		return fmt.Errorf("mgpoisson: Tolerance must not be negative but is %g", tolerance)
	}
	if pre < 0 || post < 0 {
		return fmt.Errorf("mgpoisson: PreSmooth and PostSmooth must not be negative but are %d and %d", pre, post)
	}
	if pre+post == 0 {
		return fmt.Errorf("mgpoisson: at least one of PreSmooth and PostSmooth must be positive")
	}
	return nil
}

// checkOutputFile expands any environment variables in f and makes sure
// that its directory exists. An empty f means no output is wanted.
func checkOutputFile(name, f string) (string, error) {
	if f == "" {
		return "", nil
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("mgpoisson: the %s directory doesn't exist: %v", name, err)
	}
	return f, nil
}

// toIntSliceE converts s to a slice of ints, accounting for the fact that
// it is a json array if it was set from a command line argument.
func toIntSliceE(s interface{}) ([]int, error) {
	if str, ok := s.(string); ok {
		var o []int
		if err := json.Unmarshal([]byte(str), &o); err != nil {
			return nil, err
		}
		return o, nil
	}
	return cast.ToIntSliceE(s)
}

// getParams returns a map of named constants from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func getParams(varName string, cfg *viper.Viper) (map[string]float64, error) {
	var m map[string]interface{}
	switch v := cfg.Get(varName).(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		m = v
	case map[string]string:
		m = make(map[string]interface{}, len(v))
		for k, s := range v {
			m[k] = s
		}
	case string:
		if v == "" {
			return nil, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&m); err != nil {
			return nil, fmt.Errorf("mgpoisson: invalid %s: %v", varName, err)
		}
	default:
		return nil, fmt.Errorf("mgpoisson: invalid type for %s: %#v", varName, v)
	}
	o := make(map[string]float64, len(m))
	for k, v := range m {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("mgpoisson: invalid %s value for %q: %v", varName, k, err)
		}
		o[k] = f
	}
	return o, nil
}

// Options returns the solver options that correspond to c.
func (c *SolveConfig) Options() []mgpoisson.Option {
	return solverOptions(c.PreSmooth, c.PostSmooth, c.DebugChecks)
}

// Options returns the solver options that correspond to c.
func (c *StudyConfig) Options() []mgpoisson.Option {
	return solverOptions(c.PreSmooth, c.PostSmooth, c.DebugChecks)
}

func solverOptions(pre, post int, debug bool) []mgpoisson.Option {
	return []mgpoisson.Option{
		mgpoisson.PreSmooth(pre),
		mgpoisson.PostSmooth(post),
		mgpoisson.DebugChecks(debug),
	}
}

// Problem builds the problem described by c.
func (c *SolveConfig) Problem() (*mgpoisson.Problem, error) {
	if c.Forcing == "" {
		return mgpoisson.NewProblem(c.Level, c.Spacing, c.Modes)
	}
	forcing, err := mgpoisson.ParseFunction(c.Forcing, c.Params)
	if err != nil {
		return nil, err
	}
	var exact func(x, y float64) float64
	if c.Exact != "" {
		if exact, err = mgpoisson.ParseFunction(c.Exact, c.Params); err != nil {
			return nil, err
		}
	}
	return mgpoisson.NewProblemWithForcing(c.Level, c.Spacing, forcing, exact)
}
