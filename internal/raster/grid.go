package raster

import (
	"fmt"
	"math"
)

// Grid is a single-band elevation raster held in memory. Values are row-major
// (row 0 is the northernmost row, matching ESRI ASCII ordering). CellWidth and
// CellHeight are in metres per pixel. Cells equal to NoData are ignored by all
// downstream aggregation.
type Grid struct {
	Rows       int
	Cols       int
	CellWidth  float64
	CellHeight float64
	NoData     float64
	Values     []float64
}

// NewGrid allocates a grid of the given shape with every cell set to the
// no-data sentinel.
func NewGrid(rows, cols int, cellWidth, cellHeight, noData float64) *Grid {
	vals := make([]float64, rows*cols)
	for i := range vals {
		vals[i] = noData
	}
	return &Grid{
		Rows:       rows,
		Cols:       cols,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		NoData:     noData,
		Values:     vals,
	}
}

// Idx converts a (row, col) pair to a flat index into Values.
func (g *Grid) Idx(row, col int) int {
	return row*g.Cols + col
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) float64 {
	return g.Values[g.Idx(row, col)]
}

// Set writes the value at (row, col).
func (g *Grid) Set(row, col int, v float64) {
	g.Values[g.Idx(row, col)] = v
}

// IsNoData reports whether v is the no-data sentinel for this grid. NaN
// sentinels compare equal to themselves here, unlike ==.
func (g *Grid) IsNoData(v float64) bool {
	if math.IsNaN(g.NoData) {
		return math.IsNaN(v)
	}
	return v == g.NoData
}

// CompatibleWith checks that two grids may be compared cell-for-cell: same
// shape and same cell dimensions. Alignment (CRS, extent) is the caller's
// responsibility via the external warp tool; by the time two grids reach this
// package they must already be resampled onto a common footprint.
func (g *Grid) CompatibleWith(o *Grid) error {
	if g.Rows != o.Rows || g.Cols != o.Cols {
		return &ConfigurationError{
			Reason: fmt.Sprintf("grid shape mismatch: %dx%d vs %dx%d", g.Rows, g.Cols, o.Rows, o.Cols),
		}
	}
	if g.CellWidth != o.CellWidth || g.CellHeight != o.CellHeight {
		return &ConfigurationError{
			Reason: fmt.Sprintf("cell size mismatch: %gx%g vs %gx%g m",
				g.CellWidth, g.CellHeight, o.CellWidth, o.CellHeight),
		}
	}
	return nil
}

// Mask builds a MaskedGrid whose validity flags exclude no-data cells and any
// non-finite values that slipped through the sentinel.
func (g *Grid) Mask() *MaskedGrid {
	valid := make([]bool, len(g.Values))
	for i, v := range g.Values {
		valid[i] = !g.IsNoData(v) && !math.IsNaN(v) && !math.IsInf(v, 0)
	}
	return &MaskedGrid{Grid: g, Valid: valid}
}

// MaskedGrid pairs a Grid with a per-cell validity overlay. Invalid cells are
// excluded from every statistic and sum computed downstream.
type MaskedGrid struct {
	Grid  *Grid
	Valid []bool
}

// ValidCount returns the number of valid cells.
func (m *MaskedGrid) ValidCount() int {
	n := 0
	for _, ok := range m.Valid {
		if ok {
			n++
		}
	}
	return n
}

// ValidValues returns the values of all valid cells in flat-index order.
func (m *MaskedGrid) ValidValues() []float64 {
	out := make([]float64, 0, len(m.Valid))
	for i, ok := range m.Valid {
		if ok {
			out = append(out, m.Grid.Values[i])
		}
	}
	return out
}

// Intersect merges another validity overlay into this one: a cell stays valid
// only if it is valid on both sides. The overlays must cover the same shape.
func (m *MaskedGrid) Intersect(other []bool) error {
	if len(other) != len(m.Valid) {
		return &ConfigurationError{
			Reason: fmt.Sprintf("mask length mismatch: %d vs %d", len(other), len(m.Valid)),
		}
	}
	for i := range m.Valid {
		m.Valid[i] = m.Valid[i] && other[i]
	}
	return nil
}

// Clone returns a deep copy of the masked grid. The pipeline stages never
// mutate their inputs; they clone and overlay instead.
func (m *MaskedGrid) Clone() *MaskedGrid {
	g := &Grid{
		Rows:       m.Grid.Rows,
		Cols:       m.Grid.Cols,
		CellWidth:  m.Grid.CellWidth,
		CellHeight: m.Grid.CellHeight,
		NoData:     m.Grid.NoData,
		Values:     append([]float64(nil), m.Grid.Values...),
	}
	return &MaskedGrid{
		Grid:  g,
		Valid: append([]bool(nil), m.Valid...),
	}
}
