package change

import (
	"github.com/riverbed-data/sediment.report/internal/raster"
)

// Volume converts accepted elevation-change cells to per-cell volumes:
//
//	volume = difference × cellWidth × cellHeight × conversion
//
// With differences in centimetres, cell sizes in metres, and conversion 10000
// the result is cm³ per cell. Invalid cells carry zero and stay invalid; they
// never contribute to any total.
func Volume(diff *raster.MaskedGrid, conversion float64) *raster.MaskedGrid {
	out := diff.Clone()
	area := out.Grid.CellWidth * out.Grid.CellHeight
	for i, ok := range out.Valid {
		if ok {
			out.Grid.Values[i] = diff.Grid.Values[i] * area * conversion
		} else {
			out.Grid.Values[i] = 0
		}
	}
	return out
}

// Mass multiplies a volume grid by the material density (g/cm³) and sums the
// valid cells, returning total grams. Density is always an explicit parameter:
// the observed default of 1.52 g/cm³ for wet gravel is an approximation the
// field team expected to refine.
func Mass(volume *raster.MaskedGrid, density float64) float64 {
	total := 0.0
	for i, ok := range volume.Valid {
		if ok {
			total += volume.Grid.Values[i] * density
		}
	}
	return total
}
