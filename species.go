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
	"math"
	"sort"
)

// A Species is one charge state derived from a compound: either a
// protonation state of the acid-base ladder, whose population is a
// function of pH, or a dissolution ion with a fixed population. Species
// are owned by their parent compound and their populations are
// recomputed on demand, never mutated in place.
type Species struct {
	Compound *CompoundEntry

	// Charge is the net charge of this species.
	Charge int

	// Stoich is the number of formula units of this species released per
	// mole of parent compound (1 for ladder species; the
	// electroneutrality count for dissolution ions).
	Stoich float64

	// Fixed marks species whose population does not depend on pH.
	Fixed bool

	// Index is the protonation-state index (0 = fully protonated) for
	// ladder species.
	Index int
}

// Fraction returns the population fraction of this species at the given
// pH. Fixed species always have fraction 1.
func (s *Species) Fraction(pH float64) float64 {
	if s.Fixed {
		return 1
	}
	return Fractions(s.Compound.PKaValues, pH)[s.Index]
}

// Concentration returns the molar concentration of this species at the
// given pH [mol/L].
func (s *Species) Concentration(pH float64) float64 {
	return s.Compound.Conc * s.Stoich * s.Fraction(pH)
}

// Fractions returns the population fraction of each protonation state at
// the given pH for a compound with the given ordered pKa values, fully
// protonated state first. The fractions sum to 1 for every pH.
//
// This is the multi-step Henderson–Hasselbalch distribution: the
// unnormalized weight of state i is the product of the successive
// equilibrium ratios 10^(pH−pKa_j), j ≤ i. With no pKa values there is a
// single state with fraction 1; with one pKa it reduces to the standard
// logistic split around that pKa.
func Fractions(pKa []float64, pH float64) []float64 {
	w := make([]float64, len(pKa)+1)
	w[0] = 1
	sum := 1.0
	for i, pk := range pKa {
		w[i+1] = w[i] * math.Pow(10, pH-pk)
		sum += w[i+1]
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// resolveSpecies expands the compound into its species: the protonation
// ladder (used in the charge balance and, absent an ion map, in the
// ionic strength) and any dissolution ions from the ion-charge map (used
// in the ionic strength only; their stoichiometric charges cancel, so
// they are net-neutral in the balance).
func (c *CompoundEntry) resolveSpecies() {
	states := c.ChargeStates
	if len(states) == 0 {
		// No declared charge states: assume neutral protonation states.
		states = make([]int, len(c.PKaValues)+1)
	}
	c.ladder = make([]*Species, len(states))
	for i, z := range states {
		c.ladder[i] = &Species{
			Compound: c,
			Charge:   z,
			Stoich:   1,
			Fixed:    len(c.PKaValues) == 0,
			Index:    i,
		}
	}

	if len(c.IonCharges) == 0 {
		return
	}
	counts := ionStoichiometry(c.IonCharges)
	c.ions = make([]*Species, 0, len(c.IonCharges))
	// Iterate in a deterministic order for reproducible results.
	for _, ion := range sortedIonNames(c.IonCharges) {
		c.ions = append(c.ions, &Species{
			Compound: c,
			Charge:   c.IonCharges[ion],
			Stoich:   counts[ion],
			Fixed:    true,
			Index:    -1,
		})
	}
}

// ionStoichiometry derives the number of each ion released per formula
// unit. For the common two-ion salt the counts follow from
// electroneutrality (MgCl2: Mg²⁺ ×1, Cl⁻ ×2); other shapes default to
// one of each, taking the map as already stoichiometric.
func ionStoichiometry(ions map[string]int) map[string]float64 {
	counts := make(map[string]float64, len(ions))
	for ion := range ions {
		counts[ion] = 1
	}
	if len(ions) != 2 {
		return counts
	}
	var posName, negName string
	var pos, neg int
	for ion, z := range ions {
		switch {
		case z > 0:
			posName, pos = ion, z
		case z < 0:
			negName, neg = ion, -z
		}
	}
	if pos == 0 || neg == 0 {
		return counts
	}
	g := gcd(pos, neg)
	counts[posName] = float64(neg / g)
	counts[negName] = float64(pos / g)
	return counts
}

func sortedIonNames(ions map[string]int) []string {
	names := make([]string, 0, len(ions))
	for ion := range ions {
		names = append(names, ion)
	}
	sort.Strings(names)
	return names
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
