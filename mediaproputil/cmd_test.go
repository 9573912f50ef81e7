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
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chemmodel/mediaprop"
)

func TestCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range Root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"run", "version"} {
		if !names[want] {
			t.Errorf("missing %q subcommand", want)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs([]string{"version"})
	defer Root.SetArgs(nil)
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	want := "MediaProp v" + mediaprop.Version
	if !strings.Contains(buf.String(), want) {
		t.Errorf("version output %q does not contain %q", buf.String(), want)
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir, err := ioutil.TempDir("", "mediaprop")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	cfg, err := SolverConfigFromViper(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	err = Run(
		filepath.Join("..", "testdata", "testCompositions.tsv"),
		filepath.Join("..", "testdata", "testChemicalProperties.tsv"),
		dir,
		filepath.Join(dir, "mediaprop.log"),
		0,
		cfg)
	// The test fixtures deliberately include a malformed row and a medium
	// with no usable compounds, so the run must report a structural error
	// after writing its output.
	serr, ok := err.(*StructuralError)
	if !ok {
		t.Fatalf("err = %v; want *StructuralError", err)
	}
	if serr.RejectedRows != 1 {
		t.Errorf("rejected rows = %d; want 1", serr.RejectedRows)
	}
	if len(serr.EmptyMedia) != 1 || serr.EmptyMedia[0] != "bad_conc" {
		t.Errorf("empty media = %v; want [bad_conc]", serr.EmptyMedia)
	}

	for _, name := range []string{"media_properties.json", "media_properties.csv", "mediaprop.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}
