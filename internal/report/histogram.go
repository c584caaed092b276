package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/riverbed-data/sediment.report/internal/raster"
)

// Histogram renders the distribution of valid difference values to a PNG.
// This is the plot used to eyeball the noise/outlier multipliers for a site.
func Histogram(path, dataset string, m *raster.MaskedGrid, bins int) error {
	vals := m.ValidValues()
	if len(vals) == 0 {
		return fmt.Errorf("histogram %s: no valid cells", dataset)
	}
	if bins <= 0 {
		bins = 50
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Elevation change distribution (%s)", dataset)
	p.X.Label.Text = "Difference (cm)"
	p.Y.Label.Text = "Cells"

	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return fmt.Errorf("histogram %s: %w", dataset, err)
	}
	p.Add(h)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("histogram %s: %w", dataset, err)
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("histogram %s: save: %w", dataset, err)
	}
	return nil
}
