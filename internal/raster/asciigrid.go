package raster

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/riverbed-data/sediment.report/internal/monitoring"
)

// Read loads a single-band ESRI ASCII grid (.asc, optionally gzip-compressed)
// into a Grid. The caller supplies the no-data sentinel explicitly: sentinels
// differ per survey dataset (-10000.0 and -3.402823e+38 both appear in the
// field data) and there is no safe universal default. A NODATA_value header in
// the file is parsed but the caller's sentinel wins; a mismatch is logged.
//
// ESRI ASCII is the interchange format the external warp tool is asked to
// emit, so this is the only on-disk format the core reads.
func Read(path string, noData float64) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		defer gz.Close()
		r = gz
	}

	g, err := parseASCIIGrid(r, noData)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return g, nil
}

// asciiHeader holds the parsed header fields of an ESRI ASCII grid.
type asciiHeader struct {
	ncols, nrows   int
	cellW, cellH   float64
	fileNoData     float64
	fileNoDataSeen bool
}

func parseASCIIGrid(r io.Reader, noData float64) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	sc.Split(bufio.ScanWords)

	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return sc.Text(), nil
	}

	var hdr asciiHeader
	var firstValue string

	// Header is a run of "key value" pairs; it ends at the first token that
	// parses as a number but is not preceded by a known key.
	for {
		tok, err := next()
		if err != nil {
			return nil, fmt.Errorf("header: %w", err)
		}
		key := strings.ToLower(tok)
		switch key {
		case "ncols", "nrows":
			v, err := next()
			if err != nil {
				return nil, fmt.Errorf("header %s: %w", key, err)
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("header %s: %w", key, err)
			}
			if key == "ncols" {
				hdr.ncols = n
			} else {
				hdr.nrows = n
			}
		case "xllcorner", "yllcorner", "xllcenter", "yllcenter":
			// Origin is irrelevant to differencing; grids reaching this
			// package are already co-registered. Consume and drop.
			if _, err := next(); err != nil {
				return nil, fmt.Errorf("header %s: %w", key, err)
			}
		case "cellsize":
			v, err := next()
			if err != nil {
				return nil, fmt.Errorf("header cellsize: %w", err)
			}
			cs, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("header cellsize: %w", err)
			}
			hdr.cellW, hdr.cellH = cs, cs
		case "dx", "dy":
			v, err := next()
			if err != nil {
				return nil, fmt.Errorf("header %s: %w", key, err)
			}
			d, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("header %s: %w", key, err)
			}
			if key == "dx" {
				hdr.cellW = d
			} else {
				hdr.cellH = d
			}
		case "nodata_value":
			v, err := next()
			if err != nil {
				return nil, fmt.Errorf("header nodata_value: %w", err)
			}
			nv, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("header nodata_value: %w", err)
			}
			hdr.fileNoData = nv
			hdr.fileNoDataSeen = true
		default:
			if _, err := strconv.ParseFloat(tok, 64); err != nil {
				return nil, fmt.Errorf("unrecognised header key %q", tok)
			}
			firstValue = tok
		}
		if firstValue != "" {
			break
		}
	}

	if hdr.ncols <= 0 || hdr.nrows <= 0 {
		return nil, fmt.Errorf("missing or invalid ncols/nrows (%d x %d)", hdr.ncols, hdr.nrows)
	}
	if hdr.cellW <= 0 || hdr.cellH <= 0 {
		return nil, fmt.Errorf("missing or invalid cell size (%g x %g)", hdr.cellW, hdr.cellH)
	}
	if hdr.fileNoDataSeen && hdr.fileNoData != noData {
		monitoring.Logf("raster: file declares NODATA_value %g, using caller sentinel %g",
			hdr.fileNoData, noData)
	}

	g := &Grid{
		Rows:       hdr.nrows,
		Cols:       hdr.ncols,
		CellWidth:  hdr.cellW,
		CellHeight: hdr.cellH,
		NoData:     noData,
		Values:     make([]float64, hdr.nrows*hdr.ncols),
	}

	parse := func(tok string, i int) error {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		// Cells tagged with the file's own sentinel fold into the caller's.
		if hdr.fileNoDataSeen && v == hdr.fileNoData {
			v = noData
		}
		g.Values[i] = v
		return nil
	}

	if err := parse(firstValue, 0); err != nil {
		return nil, err
	}
	for i := 1; i < len(g.Values); i++ {
		tok, err := next()
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		if err := parse(tok, i); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Write stores a masked grid as an ESRI ASCII file, with invalid cells written
// as the grid's no-data sentinel. Intermediate difference grids written this
// way can be inspected in any GIS viewer.
func Write(path string, m *MaskedGrid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write raster %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	g := m.Grid
	fmt.Fprintf(w, "ncols %d\n", g.Cols)
	fmt.Fprintf(w, "nrows %d\n", g.Rows)
	fmt.Fprintf(w, "xllcorner 0\n")
	fmt.Fprintf(w, "yllcorner 0\n")
	if g.CellWidth == g.CellHeight {
		fmt.Fprintf(w, "cellsize %g\n", g.CellWidth)
	} else {
		fmt.Fprintf(w, "dx %g\n", g.CellWidth)
		fmt.Fprintf(w, "dy %g\n", g.CellHeight)
	}
	fmt.Fprintf(w, "NODATA_value %g\n", g.NoData)

	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if col > 0 {
				w.WriteByte(' ')
			}
			i := g.Idx(row, col)
			v := g.Values[i]
			if !m.Valid[i] {
				v = g.NoData
			}
			fmt.Fprintf(w, "%g", v)
		}
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write raster %s: %w", path, err)
	}
	// Close errors surface write failures the flush missed.
	if err := f.Close(); err != nil {
		return fmt.Errorf("write raster %s: %w", path, err)
	}
	return nil
}
