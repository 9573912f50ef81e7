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
	"context"
	"runtime"
	"sync"
)

// ComputeProperties runs the full property computation for one medium:
// equilibrium solve, ionic strength, and salinity, assembled into a
// PropertyResult with confidence and warnings. Data-quality problems are
// absorbed as warnings; a medium that lost all of its compounds at
// ingestion yields an empty result with low confidence rather than an
// error.
func (cfg SolverConfig) ComputeProperties(m *MediumComposition) *PropertyResult {
	res := &PropertyResult{
		MediumID: m.ID,
		Warnings: append([]Warning(nil), m.Warnings...),
	}
	if len(m.Compounds) == 0 {
		res.Empty = true
		res.PH, res.IonicStrength, res.Salinity = nan, nan, nan
		res.Confidence = ConfidenceLow
		return res
	}

	state, converged := cfg.Equilibrium(m)
	if !converged {
		res.Warnings = append(res.Warnings, Warning{
			Kind: KindNonConvergence,
			Message: "equilibrium solve exhausted its iteration budget; " +
				"reporting best estimate",
		})
	}
	res.PH = state.PH
	res.IonicStrength = state.IonicStrength
	res.Salinity, _ = Salinity(m) // low-confidence weights already warned at ingestion
	res.Converged = converged
	res.Confidence = confidenceFor(res.Warnings)
	return res
}

// confidenceFor derives the result confidence from the worst warning
// present: substituted reference data degrades to low; excluded
// compounds or non-convergence degrade to medium.
func confidenceFor(warnings []Warning) Confidence {
	conf := ConfidenceHigh
	for _, w := range warnings {
		switch w.Kind {
		case KindMissingPropertyData:
			return ConfidenceLow
		case KindInvalidConcentration, KindNonConvergence:
			conf = ConfidenceMedium
		}
	}
	return conf
}

// RunBatch computes properties for a batch of media concurrently. Each
// medium is an independent pure computation against the shared read-only
// reference data, so the workers need no coordination beyond task
// assignment. nprocs ≤ 0 uses one worker per processor. Cancellation is
// coarse-grained: ctx is checked between media, never mid-solve (a
// single solve is bounded and fast); on cancellation the slice holds nil
// for media not yet processed and ctx.Err is returned.
func RunBatch(ctx context.Context, cfg SolverConfig, media []*MediumComposition, nprocs int) ([]*PropertyResult, error) {
	if nprocs <= 0 {
		nprocs = runtime.GOMAXPROCS(0)
	}
	results := make([]*PropertyResult, len(media))
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for ii := pp; ii < len(media); ii += nprocs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results[ii] = cfg.ComputeProperties(media[ii])
			}
		}(pp)
	}
	wg.Wait()
	return results, ctx.Err()
}
