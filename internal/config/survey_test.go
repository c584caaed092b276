package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `{
	"database": "survey.db",
	"datasets": [
		{
			"name": "cuh",
			"before": "cuh_before.asc",
			"after": "cuh_after.asc",
			"no_data": -10000,
			"k_outlier": 6,
			"density_g_cm3": 1.52
		},
		{
			"name": "rw",
			"before": "rw_before.asc",
			"after": "rw_after.asc",
			"no_data": -3.402823e+38,
			"k_outlier": 7,
			"k_noise": 1.5,
			"unit_scale": 1000,
			"density_g_cm3": 1.6
		}
	]
}`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, "survey.json", validConfig))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Datasets) != 2 {
		t.Fatalf("got %d datasets, want 2", len(cfg.Datasets))
	}
	if cfg.Database == nil || *cfg.Database != "survey.db" {
		t.Error("database path not parsed")
	}

	cuh := cfg.Datasets[0].Params()
	if cuh.KOutlier != 6 || cuh.NoData != -10000 {
		t.Errorf("cuh params: %+v", cuh)
	}
	// Omitted optionals resolve to defaults.
	if cuh.KNoise != 1 || cuh.UnitScale != 100 || cuh.Conversion != 10000 {
		t.Errorf("cuh defaults: %+v", cuh)
	}

	rw := cfg.Datasets[1].Params()
	if rw.KNoise != 1.5 || rw.UnitScale != 1000 || rw.KOutlier != 7 {
		t.Errorf("rw overrides: %+v", rw)
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	path := writeConfig(t, "survey.yaml", validConfig)
	if _, err := Load(path); err == nil {
		t.Fatal("non-.json config should be rejected")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		strip string
	}{
		{"missing sentinel", "\"no_data\": -10000,\n\t\t\t"},
		{"missing k_outlier", "\"k_outlier\": 6,\n\t\t\t"},
		{"missing density", ",\n\t\t\t\"density_g_cm3\": 1.52"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			broken := strings.Replace(validConfig, tc.strip, "", 1)
			path := writeConfig(t, "survey.json", broken)
			if _, err := Load(path); err == nil {
				t.Fatalf("config without %s should be rejected", tc.name)
			}
		})
	}
}

func TestValidateRejectsDuplicateNames(t *testing.T) {
	dup := strings.Replace(validConfig, `"name": "rw"`, `"name": "cuh"`, 1)
	if _, err := Load(writeConfig(t, "survey.json", dup)); err == nil {
		t.Fatal("duplicate dataset names should be rejected")
	}
}

func TestValidateRejectsEmptyDatasets(t *testing.T) {
	cfg := &SurveyConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty dataset list should be rejected")
	}
}

func TestValidateRejectsNonPositiveDensity(t *testing.T) {
	bad := strings.Replace(validConfig, `"density_g_cm3": 1.52`, `"density_g_cm3": 0`, 1)
	if _, err := Load(writeConfig(t, "survey.json", bad)); err == nil {
		t.Fatal("zero density should be rejected")
	}
}
