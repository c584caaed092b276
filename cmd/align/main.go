// Command align produces a co-registered raster pair by invoking the external
// warp tool with identical options for both inputs. The survey pipeline
// requires its inputs to share CRS, extent, and resolution; this is the
// supported way to get there.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/riverbed-data/sediment.report/internal/align"
)

var (
	beforeIn  = flag.String("before", "", "Input raster, earlier survey")
	afterIn   = flag.String("after", "", "Input raster, later survey")
	beforeOut = flag.String("out-before", "", "Aligned output, earlier survey")
	afterOut  = flag.String("out-after", "", "Aligned output, later survey")
	tool      = flag.String("tool", align.DefaultTool, "Warp binary to invoke")
	srcCRS    = flag.String("s-srs", "", "Source CRS (e.g. EPSG:4326)")
	dstCRS    = flag.String("t-srs", "", "Target CRS")
	cutline   = flag.String("cutline", "", "Vector boundary to crop to")
	resX      = flag.Float64("tr-x", 0, "Target pixel width")
	resY      = flag.Float64("tr-y", 0, "Target pixel height")
	resample  = flag.String("r", "bilinear", "Resampling method")
	noData    = flag.String("dstnodata", "", "Target no-data value")
	format    = flag.String("of", "AAIGrid", "Output raster format")
)

func main() {
	flag.Parse()

	if *beforeIn == "" || *afterIn == "" {
		log.Fatal("both -before and -after input rasters are required")
	}
	if *beforeOut == "" || *afterOut == "" {
		log.Fatal("both -out-before and -out-after output paths are required")
	}

	opts := align.Options{
		Tool:       *tool,
		SourceCRS:  *srcCRS,
		TargetCRS:  *dstCRS,
		Cutline:    *cutline,
		ResX:       *resX,
		ResY:       *resY,
		Resampling: *resample,
		Format:     *format,
	}
	if *noData != "" {
		v, err := strconv.ParseFloat(*noData, 64)
		if err != nil {
			log.Fatalf("invalid -dstnodata %q: %v", *noData, err)
		}
		opts.NoData = &v
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := align.Pair(ctx, opts, *beforeIn, *afterIn, *beforeOut, *afterOut); err != nil {
		log.Fatalf("alignment failed: %v", err)
	}
	log.Printf("aligned pair written to %s, %s", *beforeOut, *afterOut)
}
