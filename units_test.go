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

package mediaprop

import "testing"

func TestNormalizeConcentration(t *testing.T) {
	tests := []struct {
		raw, unit string
		mw        float64
		water     int
		want      float64
	}{
		{"0.1", "mol/L", 58.44, 0, 0.1},
		{"2", "mM", 58.44, 0, 0.002},
		{"50", "mmol/L", 136.09, 0, 0.05},
		{"25", "umol/L", 180.16, 0, 2.5e-5},
		{"5.844", "g/L", 58.44, 0, 0.1},
		{"584.4", "mg/L", 58.44, 0, 0.01},
		// 0.9% w/v saline: 9 g/L.
		{"0.9", "%", 58.44, 0, 9.0 / 58.44},
		// Hydrate: the mass includes six waters of crystallization.
		{"10", "g/L", 95.21, 6, 10.0 / (95.21 + 6*18.015)},
		{" 0.1 ", " Mol/L ", 58.44, 0, 0.1},
	}
	for _, test := range tests {
		got, err := NormalizeConcentration(test.raw, test.unit, test.mw, test.water)
		if err != nil {
			t.Errorf("%q [%s]: %v", test.raw, test.unit, err)
			continue
		}
		if err := got.Check(Molar); err != nil {
			t.Errorf("%q [%s]: %v", test.raw, test.unit, err)
		}
		if different(got.Value(), test.want, testTolerance) {
			t.Errorf("%q [%s] = %g mol/L; want %g", test.raw, test.unit, got.Value(), test.want)
		}
	}
}

func TestNormalizeConcentrationErrors(t *testing.T) {
	tests := []struct {
		raw, unit string
		mw        float64
	}{
		{"-1", "mol/L", 58.44},
		{"abc", "mol/L", 58.44},
		{"", "mol/L", 58.44},
		{"NaN", "mol/L", 58.44},
		{"+Inf", "g/L", 58.44},
		{"1", "cups", 58.44},
		{"1", "g/L", 0}, // mass unit with no usable weight
	}
	for _, test := range tests {
		if _, err := NormalizeConcentration(test.raw, test.unit, test.mw, 0); err == nil {
			t.Errorf("%q [%s] mw=%g: expected error", test.raw, test.unit, test.mw)
		}
	}
}

func TestHydratedWeight(t *testing.T) {
	if got := HydratedWeight(95.21, 6); absDifferent(got, 203.3, 0.01) {
		t.Errorf("MgCl2·6H2O weight = %g; want 203.3", got)
	}
	if got := HydratedWeight(58.44, 0); got != 58.44 {
		t.Errorf("anhydrous weight = %g; want 58.44", got)
	}
}
