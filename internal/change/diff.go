package change

import (
	"github.com/riverbed-data/sediment.report/internal/raster"
)

// Diff computes the elementwise elevation change (before − after) between two
// co-registered grids, scaled by unitScale (100 converts metres to
// centimetres). A cell is valid in the output only where both inputs are
// valid; no-data propagates.
//
// A shape or cell-size mismatch returns a *raster.ConfigurationError. The
// mismatch is never coerced: resampling belongs to the external warp tool,
// not here.
func Diff(before, after *raster.Grid, unitScale float64) (*raster.MaskedGrid, error) {
	if err := before.CompatibleWith(after); err != nil {
		return nil, err
	}

	bm := before.Mask()
	am := after.Mask()

	out := &raster.Grid{
		Rows:       before.Rows,
		Cols:       before.Cols,
		CellWidth:  before.CellWidth,
		CellHeight: before.CellHeight,
		NoData:     before.NoData,
		Values:     make([]float64, len(before.Values)),
	}
	valid := make([]bool, len(before.Values))

	for i := range out.Values {
		if bm.Valid[i] && am.Valid[i] {
			out.Values[i] = (before.Values[i] - after.Values[i]) * unitScale
			valid[i] = true
		} else {
			out.Values[i] = out.NoData
		}
	}

	return &raster.MaskedGrid{Grid: out, Valid: valid}, nil
}
