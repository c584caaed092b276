package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/riverbed-data/sediment.report/internal/change"
	"github.com/riverbed-data/sediment.report/internal/units"
)

// SurveyConfig is the root configuration for a survey run: any number of
// dataset pairs plus optional output settings. Optional fields are pointers so
// a partial config is safe; the Get* accessors supply defaults.
type SurveyConfig struct {
	// Database is an optional SQLite path; estimates are persisted when set.
	Database *string `json:"database,omitempty"`

	// ChartDir is an optional directory for heatmap/histogram output.
	ChartDir *string `json:"chart_dir,omitempty"`

	Datasets []DatasetConfig `json:"datasets"`
}

// DatasetConfig describes one before/after raster pair. The no-data sentinel,
// outlier multiplier, and density have no universal defaults: they are
// site-specific tuning (chosen by visual inspection in the original field
// work) and must be stated per dataset.
type DatasetConfig struct {
	Name   string `json:"name"`
	Before string `json:"before"`
	After  string `json:"after"`

	NoData     *float64 `json:"no_data"`               // required, per-dataset sentinel
	KOutlier   *float64 `json:"k_outlier"`             // required, site-tuned (6 and 7 observed)
	DensityGcc *float64 `json:"density_g_cm3"`         // required, material density
	KNoise     *float64 `json:"k_noise,omitempty"`     // default 1
	UnitScale  *float64 `json:"unit_scale,omitempty"`  // default 100 (m → cm)
	Conversion *float64 `json:"conversion,omitempty"`  // default 10000 (m²·cm → cm³)
}

// Load reads and validates a survey configuration from a JSON file.
func Load(path string) (*SurveyConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg SurveyConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks structural requirements and the per-dataset required fields.
func (c *SurveyConfig) Validate() error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("no datasets configured")
	}
	seen := make(map[string]bool, len(c.Datasets))
	for i := range c.Datasets {
		d := &c.Datasets[i]
		if d.Name == "" {
			return fmt.Errorf("dataset %d: name is required", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("dataset %q: duplicate name", d.Name)
		}
		seen[d.Name] = true
		if d.Before == "" || d.After == "" {
			return fmt.Errorf("dataset %q: before and after raster paths are required", d.Name)
		}
		if d.NoData == nil {
			return fmt.Errorf("dataset %q: no_data sentinel is required (sentinels differ per dataset)", d.Name)
		}
		if d.KOutlier == nil {
			return fmt.Errorf("dataset %q: k_outlier is required (site-tuned, no universal value)", d.Name)
		}
		if d.DensityGcc == nil {
			return fmt.Errorf("dataset %q: density_g_cm3 is required", d.Name)
		}
		if *d.DensityGcc <= 0 {
			return fmt.Errorf("dataset %q: density must be positive, got %g", d.Name, *d.DensityGcc)
		}
		if d.KNoise != nil && *d.KNoise < 0 {
			return fmt.Errorf("dataset %q: k_noise must be non-negative, got %g", d.Name, *d.KNoise)
		}
		if d.KOutlier != nil && *d.KOutlier < 0 {
			return fmt.Errorf("dataset %q: k_outlier must be non-negative, got %g", d.Name, *d.KOutlier)
		}
	}
	return nil
}

// GetKNoise returns the noise multiplier or its default of 1.
func (d *DatasetConfig) GetKNoise() float64 {
	if d.KNoise == nil {
		return 1
	}
	return *d.KNoise
}

// GetUnitScale returns the difference scaling or its default of 100 (m → cm).
func (d *DatasetConfig) GetUnitScale() float64 {
	if d.UnitScale == nil {
		return units.MetersToCentimeters
	}
	return *d.UnitScale
}

// GetConversion returns the volume conversion or its default of 10000
// (m²·cm → cm³).
func (d *DatasetConfig) GetConversion() float64 {
	if d.Conversion == nil {
		return units.SquareMetersCmToCm3
	}
	return *d.Conversion
}

// Params resolves the dataset configuration into pipeline parameters.
func (d *DatasetConfig) Params() change.Params {
	return change.Params{
		Dataset:    d.Name,
		BeforePath: d.Before,
		AfterPath:  d.After,
		NoData:     *d.NoData,
		UnitScale:  d.GetUnitScale(),
		KNoise:     d.GetKNoise(),
		KOutlier:   *d.KOutlier,
		Conversion: d.GetConversion(),
		Density:    *d.DensityGcc,
	}
}
