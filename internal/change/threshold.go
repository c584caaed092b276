package change

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/riverbed-data/sediment.report/internal/raster"
)

// ThresholdBand is the inclusive acceptance band for difference values,
// derived from one difference grid's own statistics. Bands are never reused
// across datasets; every comparison recomputes its own.
type ThresholdBand struct {
	Lower float64
	Upper float64
	Mean  float64
	Sigma float64
}

// Inverted reports whether the band accepts nothing (upper below lower, which
// happens with strongly negative means).
func (b ThresholdBand) Inverted() bool {
	return b.Upper < b.Lower
}

// DegenerateResultWarning flags a numeric degeneracy detected during a run:
// an empty valid-cell set, or non-finite statistics. The run continues with
// zero totals rather than letting NaN propagate into the volume and mass sums.
type DegenerateResultWarning struct {
	Stage  string
	Reason string
}

func (w DegenerateResultWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Stage, w.Reason)
}

// ComputeBand derives the noise/outlier acceptance band from the valid cells
// of a difference grid:
//
//	lower = |kNoise·σ + x̄|
//	upper = |kOutlier·σ + x̄|
//
// The mean and population standard deviation are taken over valid cells only.
// A nil warning means the statistics were well defined.
func ComputeBand(diff *raster.MaskedGrid, kNoise, kOutlier float64) (ThresholdBand, *DegenerateResultWarning) {
	vals := diff.ValidValues()
	if len(vals) == 0 {
		return ThresholdBand{}, &DegenerateResultWarning{
			Stage:  "threshold",
			Reason: "no valid cells to derive statistics from",
		}
	}

	mean := stat.Mean(vals, nil)
	sigma := stat.PopStdDev(vals, nil)
	if !isFinite(mean) || !isFinite(sigma) {
		return ThresholdBand{}, &DegenerateResultWarning{
			Stage:  "threshold",
			Reason: fmt.Sprintf("non-finite statistics (mean=%g sigma=%g)", mean, sigma),
		}
	}

	return ThresholdBand{
		Lower: math.Abs(kNoise*sigma + mean),
		Upper: math.Abs(kOutlier*sigma + mean),
		Mean:  mean,
		Sigma: sigma,
	}, nil
}

// Classify overlays the acceptance band onto the difference grid: cells with a
// value below the lower bound or above the upper bound become invalid, merged
// (AND) with the existing mask. An inverted band simply yields an all-invalid
// mask; that is a legitimate outcome, not an error. Reapplying the same band
// to the output changes nothing.
func Classify(diff *raster.MaskedGrid, band ThresholdBand) *raster.MaskedGrid {
	accept := make([]bool, len(diff.Valid))
	for i, v := range diff.Grid.Values {
		accept[i] = v >= band.Lower && v <= band.Upper
	}

	out := diff.Clone()
	// Same grid, same overlay length; Intersect cannot fail here.
	_ = out.Intersect(accept)
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
