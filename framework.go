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
	"sort"
	"strings"
)

// Confidence rates the trustworthiness of a computed property record.
type Confidence int

// Confidence levels, from most to least trustworthy.
const (
	ConfidenceHigh Confidence = iota
	ConfidenceMedium
	ConfidenceLow
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return fmt.Sprintf("Confidence(%d)", int(c))
	}
}

// WarningKind classifies the data-quality conditions that can arise while
// processing a medium. They are annotations on the result, not errors.
type WarningKind int

const (
	// KindMissingPropertyData means a compound lacked molecular weight or
	// dissociation data in the reference table and documented defaults
	// were substituted.
	KindMissingPropertyData WarningKind = iota
	// KindInvalidConcentration means a concentration was negative or
	// unparsable and the compound was excluded from the medium.
	KindInvalidConcentration
	// KindNonConvergence means the pH solve or the activity fixed-point
	// loop exhausted its iteration budget and the best estimate was kept.
	KindNonConvergence
	// KindMalformedRow means an input table row was structurally invalid
	// (for example, missing the compound name) and was rejected.
	KindMalformedRow
)

func (k WarningKind) String() string {
	switch k {
	case KindMissingPropertyData:
		return "MissingPropertyData"
	case KindInvalidConcentration:
		return "InvalidConcentration"
	case KindNonConvergence:
		return "NonConvergence"
	case KindMalformedRow:
		return "MalformedRow"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// A Warning records a non-fatal data-quality condition attached to a
// compound or medium.
type Warning struct {
	Kind     WarningKind
	Compound string // empty for medium-level warnings
	Message  string
}

func (w Warning) String() string {
	if w.Compound == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Compound, w.Message)
}

// ChemicalData holds the reference properties of one compound:
// the information needed to normalize its concentration and expand it
// into ionizable species.
type ChemicalData struct {
	Name string

	// MolecularWeight is the anhydrous formula weight [g/mol]. Zero or
	// negative means unknown; the reference table fallback is used instead.
	MolecularWeight float64

	// WaterMolecules is the number of water molecules bound in the
	// crystalline form, included in the weight for mass-based conversions.
	WaterMolecules int

	// PKaValues are the acid dissociation constants, strictly ascending.
	PKaValues []float64

	// ChargeStates are the net solution charges of each successive
	// protonation state of the dissolved formula unit, fully protonated
	// first. Must have length len(PKaValues)+1.
	ChargeStates []int

	// IonCharges maps the ions released on dissolution to their charges,
	// e.g. {"Na+": 1, "Cl-": -1}. When present it determines the
	// compound's ionic-strength contribution; stoichiometry is derived
	// from electroneutrality.
	IonCharges map[string]int

	// FallbackWeight marks MolecularWeight as a documented default rather
	// than a measured value.
	FallbackWeight bool
}

// validate checks the structural invariants of d.
func (d *ChemicalData) validate() error {
	for i := 1; i < len(d.PKaValues); i++ {
		if d.PKaValues[i] <= d.PKaValues[i-1] {
			return fmt.Errorf("pKa values must be strictly ascending, got %v", d.PKaValues)
		}
	}
	if len(d.ChargeStates) > 0 && len(d.ChargeStates) != len(d.PKaValues)+1 {
		return fmt.Errorf("%d charge states for %d pKa values; want %d",
			len(d.ChargeStates), len(d.PKaValues), len(d.PKaValues)+1)
	}
	if d.WaterMolecules < 0 {
		return fmt.Errorf("negative water molecule count %d", d.WaterMolecules)
	}
	return nil
}

// DefaultFallbackWeight is the molecular weight [g/mol] substituted for
// compounds whose weight is not in the reference table. It is a rough
// median over the organic salts that typically go unmapped.
const DefaultFallbackWeight = 150.0

// ReferenceTable is the read-only chemical reference data shared by all
// property computations. It is loaded once and never mutated afterwards,
// so concurrent readers need no locking.
type ReferenceTable struct {
	compounds map[string]*ChemicalData

	// FallbackWeight is substituted when a compound's molecular weight is
	// unknown.
	FallbackWeight float64
}

// NewReferenceTable builds a reference table from rows, rejecting rows
// that violate the data invariants. Rejected rows are reported as
// warnings, not errors: one bad reference row must not poison the batch.
func NewReferenceTable(rows []*ChemicalData) (*ReferenceTable, []Warning) {
	t := &ReferenceTable{
		compounds:      make(map[string]*ChemicalData, len(rows)),
		FallbackWeight: DefaultFallbackWeight,
	}
	var warnings []Warning
	for _, r := range rows {
		if r.Name == "" {
			warnings = append(warnings, Warning{
				Kind:    KindMalformedRow,
				Message: "reference row with empty compound name rejected",
			})
			continue
		}
		if err := r.validate(); err != nil {
			warnings = append(warnings, Warning{
				Kind:     KindMalformedRow,
				Compound: r.Name,
				Message:  fmt.Sprintf("reference row rejected: %v", err),
			})
			continue
		}
		t.compounds[normalizeName(r.Name)] = r
	}
	return t, warnings
}

// Lookup returns the reference data for the named compound, if any.
// Matching is case- and whitespace-insensitive.
func (t *ReferenceTable) Lookup(name string) (*ChemicalData, bool) {
	d, ok := t.compounds[normalizeName(name)]
	return d, ok
}

// Len returns the number of compounds in the table.
func (t *ReferenceTable) Len() int { return len(t.compounds) }

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// A CompoundEntry is one compound dissolved in a medium: its input
// concentration, the reference data resolved for it, and the species it
// expands into. Entries are built once from input rows and read-only
// thereafter.
type CompoundEntry struct {
	Name     string
	MappedID string // external chemical database identifier, if mapped

	RawValue string // concentration as it appeared in the input
	Unit     string // input unit tag

	// Conc is the resolved molar concentration [mol/L].
	Conc float64

	// MolecularWeight is the anhydrous formula weight [g/mol] used for
	// mass conversions and the salinity estimate.
	MolecularWeight float64
	WaterMolecules  int

	PKaValues    []float64
	ChargeStates []int
	IonCharges   map[string]int

	// LowConfidence marks entries whose reference data was substituted
	// with documented defaults.
	LowConfidence bool

	ladder []*Species // one species per protonation state
	ions   []*Species // fixed counterion species, ionic strength only
}

// Species returns the compound's resolved species: the protonation
// ladder followed by any dissolution ions.
func (c *CompoundEntry) Species() []*Species {
	out := make([]*Species, 0, len(c.ladder)+len(c.ions))
	out = append(out, c.ladder...)
	return append(out, c.ions...)
}

// A MediumComposition is the ordered list of compounds making up one
// medium, immutable once constructed.
type MediumComposition struct {
	ID        string
	Compounds []*CompoundEntry

	// Warnings accumulated while building the composition (excluded
	// compounds, substituted defaults).
	Warnings []Warning
}

// NewMediumComposition builds a medium from its composition rows and the
// shared reference table. Compounds with unusable concentrations are
// excluded and recorded as warnings; compounds without reference data are
// kept with documented defaults and flagged low-confidence. Only rows
// already screened for structural validity (non-empty medium and
// compound names) should be passed in.
func NewMediumComposition(id string, rows []*CompositionRow, ref *ReferenceTable) *MediumComposition {
	m := &MediumComposition{ID: id}
	for _, row := range rows {
		entry := &CompoundEntry{
			Name:     row.CompoundName,
			MappedID: row.MappedID,
			RawValue: row.Value,
			Unit:     row.Unit,
		}
		if data, ok := ref.Lookup(row.CompoundName); ok {
			entry.MolecularWeight = data.MolecularWeight
			entry.WaterMolecules = data.WaterMolecules
			entry.PKaValues = data.PKaValues
			entry.ChargeStates = data.ChargeStates
			entry.IonCharges = data.IonCharges
			if data.FallbackWeight {
				entry.LowConfidence = true
				m.Warnings = append(m.Warnings, Warning{
					Kind:     KindMissingPropertyData,
					Compound: row.CompoundName,
					Message:  "molecular weight is a documented default",
				})
			}
			if data.MolecularWeight <= 0 {
				entry.MolecularWeight = ref.FallbackWeight
				entry.LowConfidence = true
				m.Warnings = append(m.Warnings, Warning{
					Kind:     KindMissingPropertyData,
					Compound: row.CompoundName,
					Message: fmt.Sprintf("molecular weight unknown; using fallback %g g/mol",
						ref.FallbackWeight),
				})
			}
		} else {
			// Unmapped compound: keep it as an uncharged solute with the
			// fallback weight so it still counts toward salinity.
			entry.MolecularWeight = ref.FallbackWeight
			entry.LowConfidence = true
			m.Warnings = append(m.Warnings, Warning{
				Kind:     KindMissingPropertyData,
				Compound: row.CompoundName,
				Message: fmt.Sprintf("no reference data; treated as neutral solute with fallback weight %g g/mol",
					ref.FallbackWeight),
			})
		}
		conc, err := NormalizeConcentration(row.Value, row.Unit, entry.MolecularWeight, entry.WaterMolecules)
		if err != nil {
			m.Warnings = append(m.Warnings, Warning{
				Kind:     KindInvalidConcentration,
				Compound: row.CompoundName,
				Message:  fmt.Sprintf("compound excluded: %v", err),
			})
			continue
		}
		entry.Conc = conc.Value()
		entry.resolveSpecies()
		m.Compounds = append(m.Compounds, entry)
	}
	return m
}

// charges returns the distinct species charges present in the medium,
// sorted, for activity-coefficient bookkeeping.
func (m *MediumComposition) charges() []int {
	seen := make(map[int]bool)
	for _, c := range m.Compounds {
		for _, s := range c.Species() {
			seen[s.Charge] = true
		}
	}
	out := make([]int, 0, len(seen))
	for z := range seen {
		out = append(out, z)
	}
	sort.Ints(out)
	return out
}

// EquilibriumState is the transient state of one solver pass: a candidate
// pH with its derived quantities. It is rebuilt every outer iteration and
// never persisted.
type EquilibriumState struct {
	PH float64
	H  float64 // [H+], mol/L
	OH float64 // [OH-], mol/L

	// IonicStrength at PH [mol/L].
	IonicStrength float64

	// gamma holds the Davies activity coefficient for each charge class.
	gamma map[int]float64
}

// Gamma returns the activity coefficient for the given charge class,
// defaulting to unity (ideal solution) for unknown charges.
func (e *EquilibriumState) Gamma(charge int) float64 {
	if g, ok := e.gamma[charge]; ok {
		return g
	}
	return 1
}

// PropertyResult is the externally visible output for one medium. It is
// created once by the orchestrator and not mutated afterwards.
type PropertyResult struct {
	MediumID string

	PH            float64
	IonicStrength float64 // mol/L
	Salinity      float64 // g/L, total dissolved solids

	// Converged reports whether both the bisection and the outer
	// activity loop met their tolerances.
	Converged bool

	Confidence Confidence
	Warnings   []Warning

	// Empty means no compound survived ingestion; the numeric fields are
	// meaningless and are written as nulls.
	Empty bool
}

// nan is used internally for the numeric fields of empty results.
var nan = math.NaN()
