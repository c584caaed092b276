package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/riverbed-data/sediment.report/internal/raster"
)

// viridis matches the palette used across the project's debug charts.
var viridis = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// maxHeatmapCells caps the rendered cell count; larger grids are downsampled
// by stride so the HTML stays loadable in a browser.
const maxHeatmapCells = 20000

// Heatmap renders a masked difference grid as an ECharts heatmap HTML page.
// Invalid cells are omitted, which ECharts shows as gaps.
func Heatmap(path, dataset string, m *raster.MaskedGrid) error {
	g := m.Grid

	stride := 1
	if g.Rows*g.Cols > maxHeatmapCells {
		stride = int(math.Ceil(math.Sqrt(float64(g.Rows*g.Cols) / float64(maxHeatmapCells))))
	}

	var data []opts.HeatMapData
	minV, maxV := math.Inf(1), math.Inf(-1)
	for row := 0; row < g.Rows; row += stride {
		for col := 0; col < g.Cols; col += stride {
			i := g.Idx(row, col)
			if !m.Valid[i] {
				continue
			}
			v := g.Values[i]
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
			// ECharts y axis grows upward; flip rows so north stays on top.
			data = append(data, opts.HeatMapData{
				Value: [3]interface{}{col / stride, (g.Rows - 1 - row) / stride, v},
			})
		}
	}
	if len(data) == 0 {
		return fmt.Errorf("heatmap %s: no valid cells to render", dataset)
	}

	xLabels := make([]string, (g.Cols+stride-1)/stride)
	for i := range xLabels {
		xLabels[i] = strconv.Itoa(i * stride)
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Elevation Change " + dataset,
			Width:     "900px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Elevation change (cm)",
			Subtitle: fmt.Sprintf("dataset=%s cells=%d stride=%d", dataset, len(data), stride),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "col"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "row"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minV),
			Max:        float32(maxV),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.SetXAxis(xLabels).AddSeries("elevation change", data)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("heatmap %s: %w", dataset, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heatmap %s: %w", dataset, err)
	}
	defer f.Close()

	if err := hm.Render(f); err != nil {
		return fmt.Errorf("heatmap %s: render: %w", dataset, err)
	}
	return nil
}
