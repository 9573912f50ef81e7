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

	"gonum.org/v1/gonum/floats"
)

// DaviesConstant25C is the Debye–Hückel A constant for water at the
// reference temperature of 25 °C.
const DaviesConstant25C = 0.509

// IonicStrength computes I = ½ Σ cᵢ zᵢ² [mol/L] over the species of m at
// the given pH. Compounds with an explicit ion-charge map contribute
// through their dissolution ions; all others contribute through their
// protonation-ladder species.
func IonicStrength(m *MediumComposition, pH float64) float64 {
	var terms []float64
	for _, c := range m.Compounds {
		species := c.ladder
		if len(c.ions) > 0 {
			species = c.ions
		}
		for _, s := range species {
			if s.Charge == 0 {
				continue
			}
			z := float64(s.Charge)
			terms = append(terms, s.Concentration(pH)*z*z)
		}
	}
	return 0.5 * floats.Sum(terms)
}

// DaviesCoefficient returns the activity coefficient γ for an ion of the
// given charge at ionic strength i [mol/L]:
//
//	log₁₀ γ = −A z² (√i/(1+√i) − 0.3 i)
//
// with a the Debye–Hückel constant. Neutral species are ideal (γ = 1).
func DaviesCoefficient(charge int, i, a float64) float64 {
	if charge == 0 || i <= 0 {
		return 1
	}
	z := float64(charge)
	sqrtI := math.Sqrt(i)
	logGamma := -a * z * z * (sqrtI/(1+sqrtI) - 0.3*i)
	return math.Pow(10, logGamma)
}

// ActivityCoefficients returns the Davies coefficient for every charge
// class present in m at ionic strength i.
func ActivityCoefficients(m *MediumComposition, i, a float64) map[int]float64 {
	gamma := make(map[int]float64)
	for _, z := range m.charges() {
		gamma[z] = DaviesCoefficient(z, i, a)
	}
	return gamma
}
