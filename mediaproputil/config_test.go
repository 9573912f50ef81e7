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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/chemmodel/mediaprop"
)

func TestSolverConfigFromViperDefaults(t *testing.T) {
	cfg, err := SolverConfigFromViper(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != mediaprop.DefaultSolverConfig() {
		t.Errorf("flag defaults %+v don't match DefaultSolverConfig %+v",
			cfg, mediaprop.DefaultSolverConfig())
	}
}

func TestSolverConfigFromViperOverrides(t *testing.T) {
	Cfg.Set("Solver.MaxOuterIterations", 50)
	// Values from environment variables or config files arrive as strings.
	Cfg.Set("Solver.BisectionTolerance", "1e-9")
	defer func() {
		Cfg.Set("Solver.MaxOuterIterations", 20)
		Cfg.Set("Solver.BisectionTolerance", 1e-8)
	}()

	cfg, err := SolverConfigFromViper(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxOuterIterations != 50 {
		t.Errorf("MaxOuterIterations = %d; want 50", cfg.MaxOuterIterations)
	}
	if cfg.BisectionTolerance != 1e-9 {
		t.Errorf("BisectionTolerance = %g; want 1e-9", cfg.BisectionTolerance)
	}
}

func TestSolverConfigFromViperInvalid(t *testing.T) {
	Cfg.Set("Solver.MaxBisectionIterations", 0)
	defer Cfg.Set("Solver.MaxBisectionIterations", 100)
	if _, err := SolverConfigFromViper(Cfg); err == nil {
		t.Error("expected an error for a zero iteration cap")
	}

	Cfg.Set("Solver.MaxBisectionIterations", 100)
	Cfg.Set("Solver.OuterTolerance", "not a number")
	defer Cfg.Set("Solver.OuterTolerance", 1e-4)
	if _, err := SolverConfigFromViper(Cfg); err == nil {
		t.Error("expected an error for an unparsable tolerance")
	}
}

func TestCheckInputFile(t *testing.T) {
	if _, err := checkInputFile("CompositionFile", ""); err == nil {
		t.Error("expected an error for a missing CompositionFile")
	}
	os.Setenv("MEDIAPROP_TEST_DIR", "/tmp")
	got, err := checkInputFile("CompositionFile", "${MEDIAPROP_TEST_DIR}/c.tsv")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/c.tsv" {
		t.Errorf("got %q; want /tmp/c.tsv", got)
	}
}

func TestCheckOutputDir(t *testing.T) {
	base, err := ioutil.TempDir("", "mediaprop")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(base)
	dir := filepath.Join(base, "out", "nested")
	got, err := checkOutputDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("got %q; want %q", got, dir)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestCheckLogFile(t *testing.T) {
	if got := checkLogFile("", "/out"); got != filepath.Join("/out", "mediaprop.log") {
		t.Errorf("default log file = %q", got)
	}
	if got := checkLogFile("/var/log/m.log", "/out"); got != "/var/log/m.log" {
		t.Errorf("explicit log file = %q", got)
	}
}
