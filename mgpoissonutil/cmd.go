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

// Package mgpoissonutil contains the command-line interface and the
// configuration handling for mgpoisson.
package mgpoissonutil

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/mgpoisson"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to mgpoisson.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Level",
			usage: `
              Level specifies the grid level of the problem. The grid has
              2^Level+1 points on each side.`,
			shorthand:  "l",
			defaultVal: 5,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "Spacing",
			usage: `
              Spacing specifies the distance between grid points. If it is
              zero, the grid covers the unit square and the spacing is
              1/2^Level.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "Modes",
			usage: `
              Modes specifies the number of sine periods across the domain in
              the manufactured solution that generates the forcing field.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), studyCmd.Flags()},
		},
		{
			name: "Smoother",
			usage: `
              Smoother specifies the relaxation method used at every grid
              level. Options are "gauss-seidel" and "red-black".`,
			shorthand:  "s",
			defaultVal: mgpoisson.GaussSeidelKind,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), studyCmd.Flags()},
		},
		{
			name: "MaxCycles",
			usage: `
              MaxCycles specifies the largest number of V-cycles to run.`,
			defaultVal: mgpoisson.DefaultMaxCycles,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), studyCmd.Flags()},
		},
		{
			name: "Tolerance",
			usage: `
              Tolerance specifies the area-weighted L1 norm of the residual
              below which the solution is considered converged.`,
			defaultVal: 1.e-10,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), studyCmd.Flags()},
		},
		{
			name: "PreSmooth",
			usage: `
              PreSmooth specifies the number of smoothing sweeps before each
              coarse-grid correction.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), studyCmd.Flags()},
		},
		{
			name: "PostSmooth",
			usage: `
              PostSmooth specifies the number of smoothing sweeps after each
              coarse-grid correction.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), studyCmd.Flags()},
		},
		{
			name: "DebugChecks",
			usage: `
              DebugChecks specifies whether to check after every smoothing and
              residual step that the grid boundaries are still zero.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), studyCmd.Flags()},
		},
		{
			name: "Forcing",
			usage: `
              Forcing is an expression in x and y giving the right-hand side of
              the Poisson equation, for example "-2*(x*(1-x)+y*(1-y))". The
              constant pi, the functions sin, cos, tan, exp, log, sqrt, abs,
              sinh and cosh, and the names in Params may be used. If it is
              empty, the manufactured sinusoidal forcing is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "Exact",
			usage: `
              Exact is an expression in x and y giving the exact solution that
              corresponds to Forcing. It is only used to report the error.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "Params",
			usage: `
              Params gives named numeric constants for use in Forcing and
              Exact, for example {"k": "3"}.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile specifies the path of a NetCDF file to write the
              solution, forcing, residual and error fields to. Nothing is
              written if it is empty.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "ReportFile",
			usage: `
              ReportFile specifies the path of a TOML file summarizing the
              run. Nothing is written if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), studyCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile specifies the path of an image showing the residual
              norm after each V-cycle. The format is chosen by the file
              extension (png, svg, pdf, eps). Nothing is written if it is
              empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile specifies the path to a file where log messages are
              written in addition to standard output.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the lowest level of log messages to write.
              Options are "debug", "info", "warning" and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Study.Levels",
			usage: `
              Study.Levels specifies the grid levels to solve at in a
              convergence study.`,
			defaultVal: []int{4, 5, 6, 7},
			flagsets:   []*pflag.FlagSet{studyCmd.Flags()},
		},
		{
			name: "Study.PlotFile",
			usage: `
              Study.PlotFile specifies the path of an image showing the error
              against grid spacing. Nothing is written if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{studyCmd.Flags()},
		},
		{
			name: "Study.TableFile",
			usage: `
              Study.TableFile specifies the path of an Excel spreadsheet
              listing the study results. Nothing is written if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{studyCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MGPOISSON")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(solveCmd)
	Root.AddCommand(studyCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig(cfg *viper.Viper) error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("mgpoisson: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "mgpoisson",
	Short: "A geometric multigrid solver for the Poisson equation.",
	Long: `mgpoisson solves the two-dimensional Poisson equation with zero boundary
values on a square grid using multigrid V-cycles.
Use the subcommands specified below to access the solver functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'MGPOISSON_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig(Cfg) },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of mgpoisson.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("mgpoisson v%s\n", mgpoisson.Version)
	},
	DisableAutoGenTag: true,
}

// solveCmd is a command that solves a single problem.
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a Poisson problem.",
	Long: `solve runs multigrid V-cycles on a single problem until the residual
is below Tolerance or MaxCycles cycles have run. The forcing field is either
generated from a manufactured sinusoidal solution or given as an expression.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closeLog, err := newLogger(cmd.OutOrStdout(), Cfg.GetString("LogFile"), Cfg.GetString("LogLevel"))
		if err != nil {
			return err
		}
		defer closeLog()

		cfg, err := NewSolveConfig(Cfg)
		if err != nil {
			return err
		}
		dumpConfig(logger, cfg)
		_, err = Solve(cfg, logger)
		return err
	},
	DisableAutoGenTag: true,
}

// studyCmd is a command that runs a grid convergence study.
var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Run a grid convergence study.",
	Long: `study solves the manufactured problem on the unit square at each of
Study.Levels and reports the error and the observed order of accuracy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closeLog, err := newLogger(cmd.OutOrStdout(), Cfg.GetString("LogFile"), Cfg.GetString("LogLevel"))
		if err != nil {
			return err
		}
		defer closeLog()

		cfg, err := NewStudyConfig(Cfg)
		if err != nil {
			return err
		}
		dumpConfig(logger, cfg)
		_, err = Study(cfg, logger)
		return err
	},
	DisableAutoGenTag: true,
}
