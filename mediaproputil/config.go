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
	"os"
	"path/filepath"

	"github.com/chemmodel/mediaprop"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// SolverConfigFromViper unmarshals a viper configuration into solver
// settings, accounting for the fact that values set through environment
// variables or a configuration file may arrive as strings.
func SolverConfigFromViper(cfg *viper.Viper) (mediaprop.SolverConfig, error) {
	c := mediaprop.SolverConfig{}
	floatVars := []struct {
		name string
		dst  *float64
	}{
		{"Solver.BisectionTolerance", &c.BisectionTolerance},
		{"Solver.IntervalTolerance", &c.IntervalTolerance},
		{"Solver.OuterTolerance", &c.OuterTolerance},
		{"Solver.DaviesConstant", &c.DaviesConstant},
	}
	for _, v := range floatVars {
		val, err := cast.ToFloat64E(cfg.Get(v.name))
		if err != nil {
			return c, fmt.Errorf("mediaprop: parsing config variable %s: %v", v.name, err)
		}
		if !(val > 0) {
			return c, fmt.Errorf("mediaprop: config variable %s=%g but should be >0", v.name, val)
		}
		*v.dst = val
	}
	intVars := []struct {
		name string
		dst  *int
	}{
		{"Solver.MaxBisectionIterations", &c.MaxBisectionIterations},
		{"Solver.MaxOuterIterations", &c.MaxOuterIterations},
	}
	for _, v := range intVars {
		val, err := cast.ToIntE(cfg.Get(v.name))
		if err != nil {
			return c, fmt.Errorf("mediaprop: parsing config variable %s: %v", v.name, err)
		}
		if val <= 0 {
			return c, fmt.Errorf("mediaprop: config variable %s=%d but should be >0", v.name, val)
		}
		*v.dst = val
	}
	return c, nil
}

// checkInputFile makes sure that the input file is specified, expanding
// any environment variables in the path.
func checkInputFile(varName, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("you need to specify a %s configuration variable "+
			"(for example: %s=\"compositions.tsv\")", varName, varName)
	}
	return os.ExpandEnv(f), nil
}

// checkOutputDir expands any environment variables in the output
// directory path and creates the directory if it doesn't exist.
func checkOutputDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	dir = os.ExpandEnv(dir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return dir, fmt.Errorf("mediaprop: creating the OutputDir directory: %v", err)
	}
	return dir, nil
}

// checkLogFile fills in a default value for the log file path if one
// isn't specified.
func checkLogFile(logFile, outputDir string) string {
	if logFile == "" {
		logFile = filepath.Join(outputDir, "mediaprop.log")
	}
	return os.ExpandEnv(logFile)
}
