package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riverbed-data/sediment.report/internal/change"
	"github.com/riverbed-data/sediment.report/internal/raster"
)

func sampleMasked(vals []float64, cols int) *raster.MaskedGrid {
	g := raster.NewGrid(len(vals)/cols, cols, 0.5, 0.5, -10000)
	copy(g.Values, vals)
	return g.Mask()
}

func TestWriteTextHeadline(t *testing.T) {
	var sb strings.Builder
	WriteText(&sb, []*change.Result{
		{
			Dataset:        "cuh",
			Band:           change.ThresholdBand{Lower: 1, Upper: 6, Mean: 0.5, Sigma: 0.9},
			ValidCells:     42,
			TotalVolumeCm3: 812.5,
			TotalMassKg:    1.235,
		},
	})

	out := sb.String()
	if !strings.Contains(out, "dataset cuh") {
		t.Errorf("missing dataset header:\n%s", out)
	}
	if !strings.Contains(out, "total displaced mass: 1.235 kg") {
		t.Errorf("missing mass headline:\n%s", out)
	}
	if !strings.Contains(out, "accepted cells:       42") {
		t.Errorf("missing cell count:\n%s", out)
	}
}

func TestWriteTextDegenerate(t *testing.T) {
	var sb strings.Builder
	WriteText(&sb, []*change.Result{
		{
			Dataset: "rw",
			Warnings: []change.DegenerateResultWarning{
				{Stage: "threshold", Reason: "no valid cells to derive statistics from"},
			},
		},
	})

	out := sb.String()
	if !strings.Contains(out, "warning: threshold: no valid cells") {
		t.Errorf("warning not surfaced:\n%s", out)
	}
	if !strings.Contains(out, "0 kg (degenerate statistics)") {
		t.Errorf("degenerate runs must still report a mass line:\n%s", out)
	}
}

func TestHeatmapWritesHTML(t *testing.T) {
	m := sampleMasked([]float64{1, 2, -10000, 4}, 2)
	path := filepath.Join(t.TempDir(), "charts", "cuh_diff.html")

	if err := Heatmap(path, "cuh", m); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "heatmap") {
		t.Error("output does not look like an ECharts heatmap page")
	}
}

func TestHeatmapRejectsEmptyGrid(t *testing.T) {
	m := sampleMasked([]float64{-10000, -10000}, 2)
	path := filepath.Join(t.TempDir(), "empty.html")
	if err := Heatmap(path, "empty", m); err == nil {
		t.Fatal("all-invalid grid should be rejected")
	}
}

func TestHistogramWritesPNG(t *testing.T) {
	m := sampleMasked([]float64{1, 2, 3, 4, 2.5, 3.5}, 3)
	path := filepath.Join(t.TempDir(), "charts", "cuh_hist.png")

	if err := Histogram(path, "cuh", m, 10); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("histogram PNG is empty")
	}
}

func TestHistogramRejectsEmptyGrid(t *testing.T) {
	m := sampleMasked([]float64{-10000}, 1)
	if err := Histogram(filepath.Join(t.TempDir(), "h.png"), "empty", m, 10); err == nil {
		t.Fatal("all-invalid grid should be rejected")
	}
}
