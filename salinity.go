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

import "gonum.org/v1/gonum/floats"

// Salinity estimates the total dissolved solids of the medium [g/L] as
// the sum over compounds of molar concentration times anhydrous formula
// weight. Summing per compound equals summing the equilibrium species
// masses: protonation states repartition the same formula units, and
// water of crystallization is solvent once dissolved. The returned flag
// reports whether any contributing weight was a substituted default, in
// which case the figure is kept but marked low-confidence.
func Salinity(m *MediumComposition) (gPerL float64, lowConfidence bool) {
	terms := make([]float64, 0, len(m.Compounds))
	for _, c := range m.Compounds {
		terms = append(terms, c.Conc*c.MolecularWeight)
		if c.LowConfidence {
			lowConfidence = true
		}
	}
	return floats.Sum(terms), lowConfidence
}
