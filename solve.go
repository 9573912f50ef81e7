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

import "math"

// pH search bracket and the water ion product exponent at 25 °C.
const (
	phMin = 0.0
	phMax = 14.0
	pKw   = 14.0
)

// SolverConfig holds the tolerances and iteration caps of the nested
// equilibrium solve. Both loops are bounded so a single medium can never
// stall a batch; exhausting a budget is reported on the result instead.
type SolverConfig struct {
	// BisectionTolerance is the charge-balance residual [equivalents/L]
	// below which the bisection accepts a root.
	BisectionTolerance float64

	// IntervalTolerance is the bracket width [pH units] below which the
	// bisection accepts the midpoint.
	IntervalTolerance float64

	// MaxBisectionIterations bounds the inner bisection loop.
	MaxBisectionIterations int

	// OuterTolerance is the change in pH between successive activity
	// iterations below which the outer fixed-point loop has converged.
	OuterTolerance float64

	// MaxOuterIterations bounds the outer activity loop.
	MaxOuterIterations int

	// DaviesConstant is the Debye–Hückel A constant used in the activity
	// model.
	DaviesConstant float64
}

// DefaultSolverConfig returns the reference solver settings.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		BisectionTolerance:     1e-8,
		IntervalTolerance:      1e-6,
		MaxBisectionIterations: 100,
		OuterTolerance:         1e-4,
		MaxOuterIterations:     20,
		DaviesConstant:         DaviesConstant25C,
	}
}

// chargeBalance evaluates the electroneutrality residual at the given
// candidate pH [equivalents/L]:
//
//	g(pH) = Σ z·γ_z·c(pH) + [H+] − [OH−]
//
// summed over the protonation-ladder species. Dissolution ions are
// omitted: their stoichiometric charges cancel exactly, and including
// them with per-charge activity corrections would fabricate a net
// charge. [H+] and [OH−] enter as concentrations.
func (cfg SolverConfig) chargeBalance(m *MediumComposition, gamma map[int]float64, pH float64) float64 {
	total := math.Pow(10, -pH) - math.Pow(10, pH-pKw)
	for _, c := range m.Compounds {
		fr := Fractions(c.PKaValues, pH)
		for _, s := range c.ladder {
			if s.Charge == 0 {
				continue
			}
			g := 1.0
			if v, ok := gamma[s.Charge]; ok {
				g = v
			}
			total += float64(s.Charge) * g * c.Conc * fr[s.Index]
		}
	}
	return total
}

// bisect finds the root of the charge balance over [phMin, phMax] with
// the given activity coefficients. Higher pH deprotonates every ladder
// and shrinks [H+], so the residual is decreasing and the bracket is
// valid whenever a root exists inside it. The returned flag reports
// whether a tolerance was met within the iteration budget; on
// exhaustion, or when the root lies outside the bracket, the best
// midpoint (or nearer endpoint) is returned with ok=false.
func (cfg SolverConfig) bisect(m *MediumComposition, gamma map[int]float64) (pH float64, ok bool) {
	lo, hi := phMin, phMax
	gLo := cfg.chargeBalance(m, gamma, lo)
	gHi := cfg.chargeBalance(m, gamma, hi)
	if gLo <= 0 || gHi >= 0 {
		// Root at or beyond a bracket end.
		if math.Abs(gLo) <= math.Abs(gHi) {
			return lo, math.Abs(gLo) < cfg.BisectionTolerance
		}
		return hi, math.Abs(gHi) < cfg.BisectionTolerance
	}
	mid := 0.5 * (lo + hi)
	for i := 0; i < cfg.MaxBisectionIterations; i++ {
		mid = 0.5 * (lo + hi)
		g := cfg.chargeBalance(m, gamma, mid)
		if math.Abs(g) < cfg.BisectionTolerance || hi-lo < cfg.IntervalTolerance {
			return mid, true
		}
		if g > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return mid, false
}

// Equilibrium solves the coupled pH / activity fixed point for m: solve
// the charge balance assuming the current activity coefficients
// (initially ideal), recompute ionic strength and Davies coefficients at
// the resulting pH, and repeat until successive pH estimates agree
// within OuterTolerance or the outer budget is spent. The returned flag
// reports full convergence of both loops; the state is the best estimate
// either way.
func (cfg SolverConfig) Equilibrium(m *MediumComposition) (*EquilibriumState, bool) {
	gamma := make(map[int]float64)
	prev := math.NaN()
	var pH float64
	var innerOK, outerOK bool
	for i := 0; i < cfg.MaxOuterIterations; i++ {
		pH, innerOK = cfg.bisect(m, gamma)
		if !math.IsNaN(prev) && math.Abs(pH-prev) < cfg.OuterTolerance {
			outerOK = true
			break
		}
		prev = pH
		gamma = ActivityCoefficients(m, IonicStrength(m, pH), cfg.DaviesConstant)
	}
	state := &EquilibriumState{
		PH:            pH,
		H:             math.Pow(10, -pH),
		OH:            math.Pow(10, pH-pKw),
		IonicStrength: IonicStrength(m, pH),
		gamma:         gamma,
	}
	return state, innerOK && outerOK
}
