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

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestFractionsSplitAtPKa(t *testing.T) {
	fr := Fractions([]float64{4.76}, 4.76)
	if absDifferent(fr[0], 0.5, testTolerance) || absDifferent(fr[1], 0.5, testTolerance) {
		t.Errorf("fractions at pH=pKa = %v; want [0.5 0.5]", fr)
	}
}

func TestFractionsSumToOne(t *testing.T) {
	pKa := []float64{2.15, 7.20, 12.35}
	for pH := 0.0; pH <= 14.0; pH += 0.5 {
		fr := Fractions(pKa, pH)
		if absDifferent(floats.Sum(fr), 1, testTolerance) {
			t.Errorf("fractions at pH %g sum to %g", pH, floats.Sum(fr))
		}
		for i, f := range fr {
			if f < 0 {
				t.Errorf("negative fraction %g for state %d at pH %g", f, i, pH)
			}
		}
	}
}

func TestFractionsNoPKa(t *testing.T) {
	fr := Fractions(nil, 7)
	if len(fr) != 1 || fr[0] != 1 {
		t.Errorf("fractions with no pKa = %v; want [1]", fr)
	}
}

func TestFractionsShiftWithPH(t *testing.T) {
	// Two pH units above the pKa the deprotonated state dominates 100:1.
	fr := Fractions([]float64{4.76}, 6.76)
	if absDifferent(fr[1]/fr[0], 100, testTolerance) {
		t.Errorf("state ratio = %g; want 100", fr[1]/fr[0])
	}
}

func TestResolveSpeciesLadder(t *testing.T) {
	c := &CompoundEntry{
		Name:         "acetic acid",
		Conc:         0.1,
		PKaValues:    []float64{4.76},
		ChargeStates: []int{0, -1},
	}
	c.resolveSpecies()
	species := c.Species()
	if len(species) != 2 {
		t.Fatalf("got %d species; want 2", len(species))
	}
	for i, want := range []int{0, -1} {
		if species[i].Charge != want {
			t.Errorf("species %d charge = %d; want %d", i, species[i].Charge, want)
		}
		if species[i].Fixed {
			t.Errorf("ladder species %d marked fixed", i)
		}
	}
	if got := species[1].Concentration(4.76); absDifferent(got, 0.05, testTolerance) {
		t.Errorf("deprotonated concentration at pKa = %g; want 0.05", got)
	}
}

func TestResolveSpeciesIons(t *testing.T) {
	c := &CompoundEntry{
		Name:         "magnesium chloride",
		Conc:         0.002,
		ChargeStates: []int{0},
		IonCharges:   map[string]int{"Mg2+": 2, "Cl-": -1},
	}
	c.resolveSpecies()
	if len(c.ions) != 2 {
		t.Fatalf("got %d ions; want 2", len(c.ions))
	}
	// Sorted ion order: Cl- before Mg2+.
	cl, mg := c.ions[0], c.ions[1]
	if cl.Charge != -1 || mg.Charge != 2 {
		t.Fatalf("ion charges = %d, %d; want -1, 2", cl.Charge, mg.Charge)
	}
	if cl.Stoich != 2 || mg.Stoich != 1 {
		t.Errorf("stoichiometry Cl=%g Mg=%g; want 2, 1", cl.Stoich, mg.Stoich)
	}
	if got := cl.Concentration(7); absDifferent(got, 0.004, testTolerance) {
		t.Errorf("chloride concentration = %g; want 0.004", got)
	}
	if !cl.Fixed || cl.Fraction(2) != 1 {
		t.Error("dissolution ions should have fixed unit fractions")
	}
}

func TestIonStoichiometry(t *testing.T) {
	tests := []struct {
		ions map[string]int
		want map[string]float64
	}{
		{
			ions: map[string]int{"Na+": 1, "Cl-": -1},
			want: map[string]float64{"Na+": 1, "Cl-": 1},
		},
		{
			ions: map[string]int{"Mg2+": 2, "Cl-": -1},
			want: map[string]float64{"Mg2+": 1, "Cl-": 2},
		},
		{
			ions: map[string]int{"Al3+": 3, "SO42-": -2},
			want: map[string]float64{"Al3+": 2, "SO42-": 3},
		},
		{
			ions: map[string]int{"Ca2+": 2, "CO32-": -2},
			want: map[string]float64{"Ca2+": 1, "CO32-": 1},
		},
	}
	for _, test := range tests {
		got := ionStoichiometry(test.ions)
		for ion, want := range test.want {
			if got[ion] != want {
				t.Errorf("stoichiometry of %v: %s = %g; want %g", test.ions, ion, got[ion], want)
			}
		}
	}
}
