// Package report renders pipeline results: a human-readable text summary, a
// difference-grid heatmap (HTML), and a difference histogram (PNG).
package report

import (
	"fmt"
	"io"

	"github.com/riverbed-data/sediment.report/internal/change"
	"github.com/riverbed-data/sediment.report/internal/units"
)

// WriteText prints the survey summary for a set of results. The headline
// number per dataset is total displaced mass in kilograms.
func WriteText(w io.Writer, results []*change.Result) {
	for _, r := range results {
		fmt.Fprintf(w, "dataset %s\n", r.Dataset)
		if r.Degenerate() {
			for _, warn := range r.Warnings {
				fmt.Fprintf(w, "  warning: %s\n", warn)
			}
			fmt.Fprintf(w, "  total displaced mass: 0 kg (degenerate statistics)\n\n")
			continue
		}
		fmt.Fprintf(w, "  acceptance band:      [%.4f, %.4f] cm (mean %.4f, sigma %.4f)\n",
			r.Band.Lower, r.Band.Upper, r.Band.Mean, r.Band.Sigma)
		fmt.Fprintf(w, "  accepted cells:       %d\n", r.ValidCells)
		fmt.Fprintf(w, "  total volume:         %.2f cm³ (%.6f m³)\n",
			r.TotalVolumeCm3, units.CmToM3(r.TotalVolumeCm3))
		fmt.Fprintf(w, "  total displaced mass: %.3f kg\n\n", r.TotalMassKg)
	}
}
