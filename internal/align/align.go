// Package align drives the external raster alignment tool. Reprojection and
// resampling are deliberately not reimplemented here: the core pipeline
// requires two rasters that already share CRS, extent, and resolution, and
// this package produces them by shelling out to gdalwarp (or a compatible
// tool).
package align

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/riverbed-data/sediment.report/internal/monitoring"
)

// DefaultTool is the warp binary looked up on PATH when Options.Tool is empty.
const DefaultTool = "gdalwarp"

// Options describes one warp invocation. Zero-valued fields are omitted from
// the command line, so the tool's own defaults apply.
type Options struct {
	Tool       string   // warp binary, DefaultTool when empty
	SourceCRS  string   // -s_srs
	TargetCRS  string   // -t_srs
	Cutline    string   // -cutline vector boundary, with -crop_to_cutline
	ResX       float64  // -tr x
	ResY       float64  // -tr y (both must be set together)
	Resampling string   // -r (near, bilinear, cubic, ...)
	NoData     *float64 // -dstnodata, pointer because 0 is a legal sentinel
	Format     string   // -of output format; AAIGrid feeds the core loader
}

func (o Options) tool() string {
	if o.Tool == "" {
		return DefaultTool
	}
	return o.Tool
}

// Args builds the warp command line for one input/output pair.
func (o Options) Args(in, out string) []string {
	var args []string
	if o.SourceCRS != "" {
		args = append(args, "-s_srs", o.SourceCRS)
	}
	if o.TargetCRS != "" {
		args = append(args, "-t_srs", o.TargetCRS)
	}
	if o.Cutline != "" {
		args = append(args, "-cutline", o.Cutline, "-crop_to_cutline")
	}
	if o.ResX != 0 || o.ResY != 0 {
		args = append(args,
			"-tr",
			strconv.FormatFloat(o.ResX, 'g', -1, 64),
			strconv.FormatFloat(o.ResY, 'g', -1, 64))
	}
	if o.Resampling != "" {
		args = append(args, "-r", o.Resampling)
	}
	if o.NoData != nil {
		args = append(args, "-dstnodata", strconv.FormatFloat(*o.NoData, 'g', -1, 64))
	}
	if o.Format != "" {
		args = append(args, "-of", o.Format)
	}
	args = append(args, in, out)
	return args
}

// Available reports whether the warp tool can be found on PATH.
func Available(tool string) error {
	if tool == "" {
		tool = DefaultTool
	}
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("alignment tool %q not found: %w", tool, err)
	}
	return nil
}

// Warp runs one alignment. The context bounds the external process; a
// cancelled context kills it.
func Warp(ctx context.Context, o Options, in, out string) error {
	args := o.Args(in, out)
	monitoring.Logf("align: %s %v", o.tool(), args)

	cmd := exec.CommandContext(ctx, o.tool(), args...)
	combined, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("warp %s: %w\n%s", in, err, combined)
	}
	return nil
}

// Pair aligns both rasters of a survey pair with identical options, which is
// what guarantees the outputs share CRS, extent, and resolution.
func Pair(ctx context.Context, o Options, beforeIn, afterIn, beforeOut, afterOut string) error {
	if err := Available(o.tool()); err != nil {
		return err
	}
	if err := Warp(ctx, o, beforeIn, beforeOut); err != nil {
		return err
	}
	return Warp(ctx, o, afterIn, afterOut)
}
