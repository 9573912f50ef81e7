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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ctessum/unit"
)

// WaterMolecularWeight is the molecular weight of water [g/mol], added
// once per bound water molecule when converting hydrate masses.
const WaterMolecularWeight = 18.015

// Dimensions for the quantities handled here. Moles, grams, and litres
// are registered as custom dimensions; laboratory concentrations are
// conventionally per-litre, so converting through SI length would only
// obscure the bookkeeping.
var molDim, gramDim, litreDim unit.Dimension

// Dimension combinations for concentration values.
var (
	Molar         unit.Dimensions // mol/L
	GramsPerLitre unit.Dimensions // g/L
)

func init() {
	// "mol" and "L" are reserved SI symbols in the unit package and
	// panic if registered; use non-reserved spellings for the same
	// dimensions.
	molDim = unit.NewDimension("mole")
	gramDim = unit.NewDimension("g")
	litreDim = unit.NewDimension("litre")
	Molar = unit.Dimensions{molDim: 1, litreDim: -1}
	GramsPerLitre = unit.Dimensions{gramDim: 1, litreDim: -1}
}

// HydratedWeight returns the formula weight of a compound including its
// water of crystallization [g/mol].
func HydratedWeight(molecularWeight float64, waterMolecules int) float64 {
	return molecularWeight + float64(waterMolecules)*WaterMolecularWeight
}

// InvalidConcentrationError reports a concentration that could not be
// converted to mol/L. Compounds with invalid concentrations are excluded
// from the medium rather than failing it.
type InvalidConcentrationError struct {
	Raw    string
	Unit   string
	Reason string
}

func (e *InvalidConcentrationError) Error() string {
	return fmt.Sprintf("invalid concentration %q [%s]: %s", e.Raw, e.Unit, e.Reason)
}

// NormalizeConcentration converts a raw concentration value with its unit
// tag into a molar concentration [mol/L], using the hydration-aware
// formula weight for mass-based units. Mass-percent (w/v) conversion
// assumes a solvent density of 1 g/mL.
func NormalizeConcentration(raw, unitTag string, molecularWeight float64, waterMolecules int) (*unit.Unit, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, &InvalidConcentrationError{Raw: raw, Unit: unitTag, Reason: "not a number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &InvalidConcentrationError{Raw: raw, Unit: unitTag, Reason: "not finite"}
	}
	if v < 0 {
		return nil, &InvalidConcentrationError{Raw: raw, Unit: unitTag, Reason: "negative"}
	}
	hw := HydratedWeight(molecularWeight, waterMolecules)
	if hw <= 0 {
		return nil, &InvalidConcentrationError{Raw: raw, Unit: unitTag,
			Reason: fmt.Sprintf("nonpositive formula weight %g g/mol", hw)}
	}

	var grams *unit.Unit // mass-based inputs pass through g/L
	switch canonicalUnit(unitTag) {
	case "mol/l":
		return unit.New(v, Molar), nil
	case "mmol/l":
		return unit.New(v*1e-3, Molar), nil
	case "umol/l":
		return unit.New(v*1e-6, Molar), nil
	case "g/l":
		grams = unit.New(v, GramsPerLitre)
	case "mg/l":
		grams = unit.New(v*1e-3, GramsPerLitre)
	case "%":
		// % w/v: grams per 100 mL.
		grams = unit.New(v*10, GramsPerLitre)
	default:
		return nil, &InvalidConcentrationError{Raw: raw, Unit: unitTag, Reason: "unrecognized unit"}
	}
	perMol := unit.New(hw, unit.Dimensions{gramDim: 1, molDim: -1})
	return unit.Div(grams, perMol), nil
}

// canonicalUnit folds the unit spellings seen in composition tables onto
// canonical tags.
func canonicalUnit(tag string) string {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "mol/l", "m", "mol per l":
		return "mol/l"
	case "mmol/l", "mm", "mmol":
		return "mmol/l"
	case "umol/l", "µmol/l", "μmol/l", "um", "µm", "μm":
		return "umol/l"
	case "g/l", "g per l", "gram/l", "grams/l":
		return "g/l"
	case "mg/l":
		return "mg/l"
	case "%", "percent", "% w/v", "g/100ml":
		return "%"
	default:
		return ""
	}
}
