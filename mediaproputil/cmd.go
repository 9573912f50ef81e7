/*
Copyright © 2025 the MediaProp authors.
This file is part of MediaProp.

MediaProp is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

MediaProp is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with MediaProp.  If not, see <http://www.gnu.org/licenses/>.
*/

package mediaproputil

import (
	"fmt"

	"github.com/chemmodel/mediaprop"
	"github.com/lnashier/viper"
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
	// Options are the configuration options available to MediaProp.
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
			name: "CompositionFile",
			usage: `
              CompositionFile is the path to the media composition table:
              one row per compound per medium, with columns medium_id,
              compound_name, concentration_value, concentration_unit, and
              optionally mapped_chemical_id. CSV, TSV, and XLSX formats
              are accepted, chosen by file extension.`,
			shorthand:  "c",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ReferenceFile",
			usage: `
              ReferenceFile is the path to the chemical reference table:
              one row per compound, with columns compound_name,
              molecular_weight, water_molecules, pka_values, charge_states,
              ion_charges, and default_fallback_weight. CSV, TSV, and XLSX
              formats are accepted, chosen by file extension.`,
			shorthand:  "r",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory where the result files
              media_properties.json and media_properties.csv are written.
              It is created if it doesn't exist.`,
			shorthand:  "o",
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the log file. If LogFile is left blank,
              the logs will be written to [OutputDir]/mediaprop.log.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumProcessors",
			usage: `
              NumProcessors is the number of media processed concurrently.
              Zero or a negative number means one worker per available
              processor.`,
			shorthand:  "n",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.BisectionTolerance",
			usage: `
              Solver.BisectionTolerance is the charge-balance residual
              [equivalents/L] below which the pH bisection accepts a root.`,
			defaultVal: 1e-8,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.IntervalTolerance",
			usage: `
              Solver.IntervalTolerance is the pH bracket width below which
              the bisection accepts the midpoint.`,
			defaultVal: 1e-6,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.MaxBisectionIterations",
			usage: `
              Solver.MaxBisectionIterations bounds the pH bisection loop.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.OuterTolerance",
			usage: `
              Solver.OuterTolerance is the change in pH between successive
              activity-coefficient iterations below which the outer
              fixed-point loop has converged.`,
			defaultVal: 1e-4,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.MaxOuterIterations",
			usage: `
              Solver.MaxOuterIterations bounds the outer
              activity-coefficient loop.`,
			defaultVal: 20,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Solver.DaviesConstant",
			usage: `
              Solver.DaviesConstant is the Debye-Hückel A constant used in
              the Davies activity model. The default is the value for water
              at 25 °C.`,
			defaultVal: mediaprop.DaviesConstant25C,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MEDIAPROP")

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
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
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
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("mediaprop: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "mediaprop",
	Short: "A growth-medium property calculator.",
	Long: `MediaProp estimates the equilibrium pH, ionic strength, and salinity of
aqueous chemical mixtures such as microbial growth media.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'MEDIAPROP_var'
where 'var' is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of MediaProp.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("MediaProp v%s\n", mediaprop.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute media properties.",
	Long: `run reads the composition and reference tables, computes the equilibrium
pH, ionic strength, and salinity of every medium, and writes the results to
[OutputDir]/media_properties.json and [OutputDir]/media_properties.csv.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		solverCfg, err := SolverConfigFromViper(Cfg)
		if err != nil {
			return err
		}
		outputDir, err := checkOutputDir(Cfg.GetString("OutputDir"))
		if err != nil {
			return err
		}
		compositionFile, err := checkInputFile("CompositionFile", Cfg.GetString("CompositionFile"))
		if err != nil {
			return err
		}
		referenceFile, err := checkInputFile("ReferenceFile", Cfg.GetString("ReferenceFile"))
		if err != nil {
			return err
		}
		return Run(
			compositionFile,
			referenceFile,
			outputDir,
			checkLogFile(Cfg.GetString("LogFile"), outputDir),
			Cfg.GetInt("NumProcessors"),
			solverCfg)
	},
	DisableAutoGenTag: true,
}
