package change

import (
	"fmt"

	"github.com/riverbed-data/sediment.report/internal/monitoring"
	"github.com/riverbed-data/sediment.report/internal/raster"
	"github.com/riverbed-data/sediment.report/internal/units"
)

// Params holds everything one dataset pair needs to run the pipeline. Every
// field that was a module-level variable in the field notebooks is explicit
// here so the same code runs over any number of survey pairs.
type Params struct {
	Dataset    string  // identifier used in reports and storage
	BeforePath string  // aligned raster, earlier survey
	AfterPath  string  // aligned raster, later survey
	NoData     float64 // per-dataset sentinel; -10000 and -3.402823e+38 both occur
	UnitScale  float64 // difference scaling, 100 for m → cm
	KNoise     float64 // noise multiplier, typically 1
	KOutlier   float64 // outlier multiplier, site-tuned (6 and 7 observed)
	Conversion float64 // volume conversion, 10000 for m²·cm → cm³
	Density    float64 // g/cm³
}

// Result is the outcome of one pipeline run over one dataset pair.
type Result struct {
	Dataset        string
	Band           ThresholdBand
	ValidCells     int
	TotalVolumeCm3 float64
	TotalMassG     float64
	TotalMassKg    float64
	Warnings       []DegenerateResultWarning

	// Diff, Accepted, and Volume are retained so reports can render
	// heatmaps, dump grids, and draw histograms without re-running the
	// pipeline. Accepted is the difference grid after threshold
	// classification.
	Diff     *raster.MaskedGrid
	Accepted *raster.MaskedGrid
	Volume   *raster.MaskedGrid
}

// Degenerate reports whether the run hit a numeric degeneracy and its totals
// were forced to zero.
func (r *Result) Degenerate() bool {
	return len(r.Warnings) > 0
}

// Run executes the full pipeline for one dataset pair: load both grids,
// difference, classify, convert to volume, sum to mass. Load failures and
// grid mismatches abort the pair; degenerate statistics are recorded on the
// result with zero totals.
//
// Precondition: the two rasters are already aligned (same CRS, extent,
// resolution) by the external warp tool. Run verifies shape and cell size and
// refuses anything less.
func Run(p Params) (*Result, error) {
	if p.BeforePath == "" || p.AfterPath == "" {
		return nil, fmt.Errorf("dataset %s: both raster paths are required", p.Dataset)
	}

	before, err := raster.Read(p.BeforePath, p.NoData)
	if err != nil {
		return nil, err
	}
	after, err := raster.Read(p.AfterPath, p.NoData)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("dataset %s: loaded %dx%d grids (cell %gx%g m)",
		p.Dataset, before.Rows, before.Cols, before.CellWidth, before.CellHeight)

	diff, err := Diff(before, after, p.UnitScale)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", p.Dataset, err)
	}

	res := &Result{Dataset: p.Dataset, Diff: diff}

	band, warn := ComputeBand(diff, p.KNoise, p.KOutlier)
	if warn != nil {
		monitoring.Logf("dataset %s: %s", p.Dataset, warn)
		res.Warnings = append(res.Warnings, *warn)
		res.Volume = Volume(Classify(diff, ThresholdBand{Lower: 1, Upper: 0}), p.Conversion)
		return res, nil
	}
	res.Band = band
	if band.Inverted() {
		monitoring.Logf("dataset %s: inverted band [%g, %g], accepting nothing",
			p.Dataset, band.Lower, band.Upper)
	}

	accepted := Classify(diff, band)
	res.Accepted = accepted
	res.ValidCells = accepted.ValidCount()

	vol := Volume(accepted, p.Conversion)
	res.Volume = vol
	for i, ok := range vol.Valid {
		if ok {
			res.TotalVolumeCm3 += vol.Grid.Values[i]
		}
	}

	res.TotalMassG = Mass(vol, p.Density)
	res.TotalMassKg = units.GramsToKg(res.TotalMassG)

	return res, nil
}
