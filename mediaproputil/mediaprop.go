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

package mediaproputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/chemmodel/mediaprop"
	"github.com/sirupsen/logrus"
)

// A StructuralError reports input problems that must fail the run even
// though the per-medium results were still written: rejected rows or
// media that ended up with no usable compounds. Data-quality warnings
// inside a medium do not trigger it.
type StructuralError struct {
	RejectedRows int
	EmptyMedia   []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("mediaprop: input has structural problems: %d rejected rows, %d empty media",
		e.RejectedRows, len(e.EmptyMedia))
}

// Run computes the properties of every medium in compositionFile using
// the reference data in referenceFile and writes the results to
// outputDir. Per-compound and per-medium data problems become warnings
// on the results; Run returns a *StructuralError after writing output if
// any input row was rejected or any medium came out empty, so the caller
// can exit nonzero.
func Run(compositionFile, referenceFile, outputDir, logFile string, nprocs int, cfg mediaprop.SolverConfig) error {
	startTime := time.Now()

	logfile, err := os.Create(logFile)
	if err != nil {
		return fmt.Errorf("mediaprop: problem creating log file: %v", err)
	}
	defer logfile.Close()
	log := logrus.StandardLogger()
	logrus.SetOutput(io.MultiWriter(os.Stdout, logfile))
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:  true,
		DisableSorting: true,
	})

	log.Info("Reading input data...")

	ref, refWarnings, err := mediaprop.LoadReferenceTable(referenceFile)
	if err != nil {
		return err
	}
	for _, w := range refWarnings {
		log.Warn(w.String())
	}
	log.Infof("Loaded %d reference compounds from %s", ref.Len(), referenceFile)

	rows, rowWarnings, err := mediaprop.LoadCompositionTable(compositionFile)
	if err != nil {
		return err
	}
	for _, w := range rowWarnings {
		log.Warn(w.String())
	}
	media := mediaprop.BuildMedia(rows, ref)
	log.Infof("Loaded %d composition rows in %d media from %s", len(rows), len(media), compositionFile)

	results, err := mediaprop.RunBatch(context.Background(), cfg, media, nprocs)
	if err != nil {
		return err
	}

	if err := mediaprop.WriteResults(outputDir, results); err != nil {
		return err
	}

	structural := &StructuralError{RejectedRows: len(rowWarnings) + len(refWarnings)}
	var phStats, salStats stats.Stats
	for _, r := range results {
		if r.Empty {
			structural.EmptyMedia = append(structural.EmptyMedia, r.MediumID)
			log.Warnf("medium %s has no usable compounds", r.MediumID)
			continue
		}
		if !r.Converged {
			log.Warnf("medium %s did not converge; results are best estimates", r.MediumID)
		}
		if !math.IsNaN(r.PH) {
			phStats.Update(r.PH)
		}
		if !math.IsNaN(r.Salinity) {
			salStats.Update(r.Salinity)
		}
	}
	if phStats.Count() > 0 {
		log.Infof("pH: mean %.2f, std dev %.2f over %d media",
			phStats.Mean(), phStats.SampleStandardDeviation(), phStats.Count())
		log.Infof("salinity: mean %.2f g/L, std dev %.2f over %d media",
			salStats.Mean(), salStats.SampleStandardDeviation(), salStats.Count())
	}
	log.Infof("Elapsed time: %v", time.Since(startTime))

	if structural.RejectedRows > 0 || len(structural.EmptyMedia) > 0 {
		return structural
	}
	return nil
}
