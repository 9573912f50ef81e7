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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
)

// A CompositionRow is one row of the composition table: one compound in
// one medium, concentration still in its input unit.
type CompositionRow struct {
	MediumID     string
	CompoundName string
	Value        string // raw concentration text; parsed during normalization
	Unit         string
	MappedID     string
}

// LoadCompositionTable reads a composition table from a CSV, TSV, or
// XLSX file (chosen by extension). Rows missing the medium ID or the
// compound name are rejected with MalformedRow warnings; a missing file
// or a header without the required columns is an error.
func LoadCompositionTable(path string) ([]*CompositionRow, []Warning, error) {
	records, err := readTable(path)
	if err != nil {
		return nil, nil, err
	}
	cols, err := headerIndex(records, path, "medium_id", "compound_name")
	if err != nil {
		return nil, nil, err
	}
	var rows []*CompositionRow
	var warnings []Warning
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := &CompositionRow{
			MediumID:     field(rec, cols, "medium_id"),
			CompoundName: field(rec, cols, "compound_name"),
			Value:        field(rec, cols, "concentration_value"),
			Unit:         field(rec, cols, "concentration_unit"),
			MappedID:     field(rec, cols, "mapped_chemical_id"),
		}
		if row.MediumID == "" || row.CompoundName == "" {
			warnings = append(warnings, Warning{
				Kind:     KindMalformedRow,
				Compound: row.CompoundName,
				Message:  fmt.Sprintf("row %d of %s rejected: missing medium_id or compound_name", i+2, filepath.Base(path)),
			})
			continue
		}
		rows = append(rows, row)
	}
	return rows, warnings, nil
}

// LoadReferenceTable reads the chemical reference table from a CSV, TSV,
// or XLSX file. Rows violating the data invariants are skipped with
// warnings.
func LoadReferenceTable(path string) (*ReferenceTable, []Warning, error) {
	records, err := readTable(path)
	if err != nil {
		return nil, nil, err
	}
	cols, err := headerIndex(records, path, "compound_name", "molecular_weight")
	if err != nil {
		return nil, nil, err
	}
	var data []*ChemicalData
	var warnings []Warning
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		d := &ChemicalData{Name: field(rec, cols, "compound_name")}
		rowErr := func(err error) {
			warnings = append(warnings, Warning{
				Kind:     KindMalformedRow,
				Compound: d.Name,
				Message:  fmt.Sprintf("reference row %d of %s rejected: %v", i+2, filepath.Base(path), err),
			})
		}
		if s := field(rec, cols, "molecular_weight"); s != "" {
			if d.MolecularWeight, err = strconv.ParseFloat(s, 64); err != nil {
				rowErr(fmt.Errorf("molecular_weight: %v", err))
				continue
			}
		}
		if s := field(rec, cols, "water_molecules"); s != "" {
			if d.WaterMolecules, err = strconv.Atoi(s); err != nil {
				rowErr(fmt.Errorf("water_molecules: %v", err))
				continue
			}
		}
		if d.PKaValues, err = parseFloatList(field(rec, cols, "pka_values")); err != nil {
			rowErr(fmt.Errorf("pka_values: %v", err))
			continue
		}
		if d.ChargeStates, err = parseIntList(field(rec, cols, "charge_states")); err != nil {
			rowErr(fmt.Errorf("charge_states: %v", err))
			continue
		}
		if d.IonCharges, err = parseIonCharges(field(rec, cols, "ion_charges")); err != nil {
			rowErr(fmt.Errorf("ion_charges: %v", err))
			continue
		}
		d.FallbackWeight = parseBool(field(rec, cols, "default_fallback_weight"))
		data = append(data, d)
	}
	table, tableWarnings := NewReferenceTable(data)
	return table, append(warnings, tableWarnings...), nil
}

// BuildMedia groups composition rows into media, preserving the order of
// first appearance and the row order within each medium.
func BuildMedia(rows []*CompositionRow, ref *ReferenceTable) []*MediumComposition {
	grouped := make(map[string][]*CompositionRow)
	var order []string
	for _, row := range rows {
		if _, ok := grouped[row.MediumID]; !ok {
			order = append(order, row.MediumID)
		}
		grouped[row.MediumID] = append(grouped[row.MediumID], row)
	}
	media := make([]*MediumComposition, len(order))
	for i, id := range order {
		media[i] = NewMediumComposition(id, grouped[id], ref)
	}
	return media
}

// readTable reads a delimited or spreadsheet file into records. CSV and
// TSV are distinguished by extension; XLSX uses the first sheet.
func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readDelimited(path, ',')
	case ".tsv", ".tab", ".txt":
		return readDelimited(path, '\t')
	default:
		return nil, fmt.Errorf("mediaprop: unsupported table format %q (want .csv, .tsv, or .xlsx)", filepath.Ext(path))
	}
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mediaprop: opening table: %v", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("mediaprop: reading %s: %v", filepath.Base(path), err)
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("mediaprop: opening xlsx file: %v", err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("mediaprop: %s has no sheets", filepath.Base(path))
	}
	var records [][]string
	for _, row := range f.Sheets[0].Rows {
		rec := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			rec[i] = cell.Value
		}
		records = append(records, rec)
	}
	return records, nil
}

// headerIndex maps lower-cased header names to column indices and checks
// that the required columns are present.
func headerIndex(records [][]string, path string, required ...string) (map[string]int, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("mediaprop: %s is empty", filepath.Base(path))
	}
	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("mediaprop: %s has no %q column", filepath.Base(path), name)
		}
	}
	return cols, nil
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseFloatList parses a comma- or semicolon-delimited list of numbers,
// e.g. "2.15, 7.20, 12.35".
func parseFloatList(s string) ([]float64, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func parseIntList(s string) ([]int, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", p)
		}
		out[i] = v
	}
	return out, nil
}

// parseIonCharges parses an ion-charge map of the form "Na+:1,Cl-:-1".
func parseIonCharges(s string) (map[string]int, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(parts))
	for _, p := range parts {
		i := strings.LastIndex(p, ":")
		if i < 0 {
			return nil, fmt.Errorf("bad ion:charge pair %q", p)
		}
		z, err := strconv.Atoi(strings.TrimSpace(p[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("bad charge in %q", p)
		}
		out[strings.TrimSpace(p[:i])] = z
	}
	return out, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y", "1":
		return true
	default:
		return false
	}
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// An outputRecord is the JSON form of a PropertyResult. Numeric fields
// are pointers so that empty media serialize as nulls.
type outputRecord struct {
	MediumID      string   `json:"medium_id"`
	PH            *float64 `json:"ph"`
	IonicStrength *float64 `json:"ionic_strength_mol_per_L"`
	Salinity      *float64 `json:"salinity_g_per_L"`
	Converged     bool     `json:"converged"`
	Confidence    string   `json:"confidence"`
	Warnings      []string `json:"warnings"`
}

func toOutputRecord(r *PropertyResult) *outputRecord {
	o := &outputRecord{
		MediumID:   r.MediumID,
		Converged:  r.Converged,
		Confidence: r.Confidence.String(),
		Warnings:   make([]string, len(r.Warnings)),
	}
	for i, w := range r.Warnings {
		o.Warnings[i] = w.String()
	}
	if !r.Empty {
		ph, is, sal := r.PH, r.IonicStrength, r.Salinity
		o.PH, o.IonicStrength, o.Salinity = &ph, &is, &sal
	}
	return o
}

// WriteResults writes the batch results into dir as
// media_properties.json and media_properties.csv.
func WriteResults(dir string, results []*PropertyResult) error {
	records := make([]*outputRecord, len(results))
	for i, r := range results {
		if r == nil {
			continue
		}
		records[i] = toOutputRecord(r)
	}

	jf, err := os.Create(filepath.Join(dir, "media_properties.json"))
	if err != nil {
		return fmt.Errorf("mediaprop: creating output file: %v", err)
	}
	defer jf.Close()
	enc := json.NewEncoder(jf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("mediaprop: writing JSON output: %v", err)
	}

	cf, err := os.Create(filepath.Join(dir, "media_properties.csv"))
	if err != nil {
		return fmt.Errorf("mediaprop: creating output file: %v", err)
	}
	defer cf.Close()
	w := csv.NewWriter(cf)
	if err := w.Write([]string{"medium_id", "ph", "ionic_strength_mol_per_L",
		"salinity_g_per_L", "converged", "confidence", "warnings"}); err != nil {
		return fmt.Errorf("mediaprop: writing CSV output: %v", err)
	}
	for _, rec := range records {
		if rec == nil {
			continue
		}
		row := []string{rec.MediumID,
			formatOptional(rec.PH, 4),
			formatOptional(rec.IonicStrength, 6),
			formatOptional(rec.Salinity, 4),
			strconv.FormatBool(rec.Converged),
			rec.Confidence,
			strings.Join(rec.Warnings, "; "),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("mediaprop: writing CSV output: %v", err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatOptional(v *float64, prec int) string {
	if v == nil || math.IsNaN(*v) {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}
