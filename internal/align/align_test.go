package align

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgsFull(t *testing.T) {
	noData := -10000.0
	o := Options{
		SourceCRS:  "EPSG:4326",
		TargetCRS:  "EPSG:32617",
		Cutline:    "patch.geojson",
		ResX:       0.00177,
		ResY:       0.00177,
		Resampling: "bilinear",
		NoData:     &noData,
		Format:     "AAIGrid",
	}

	got := o.Args("in.tif", "out.asc")
	want := []string{
		"-s_srs", "EPSG:4326",
		"-t_srs", "EPSG:32617",
		"-cutline", "patch.geojson", "-crop_to_cutline",
		"-tr", "0.00177", "0.00177",
		"-r", "bilinear",
		"-dstnodata", "-10000",
		"-of", "AAIGrid",
		"in.tif", "out.asc",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestArgsZeroValuesOmitted(t *testing.T) {
	o := Options{}
	got := o.Args("a.tif", "b.asc")
	want := []string{"a.tif", "b.asc"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultTool(t *testing.T) {
	if (Options{}).tool() != DefaultTool {
		t.Errorf("empty Tool should fall back to %s", DefaultTool)
	}
	if (Options{Tool: "gdalwarp39"}).tool() != "gdalwarp39" {
		t.Error("explicit tool should win")
	}
}

func TestAvailableUnknownTool(t *testing.T) {
	if err := Available("definitely-not-a-real-warp-binary"); err == nil {
		t.Fatal("lookup of a nonexistent tool should fail")
	}
}
