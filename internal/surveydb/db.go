// Package surveydb persists scalar estimates from pipeline runs to SQLite so
// repeat surveys of the same site can be compared over time.
package surveydb

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/riverbed-data/sediment.report/internal/change"
)

type DB struct {
	*sql.DB
}

// New opens (or creates) the survey database and ensures the base schema
// exists. Schema evolution beyond the base tables goes through the migrations
// directory (see migrate.go).
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS estimates (
			run_id            TEXT NOT NULL,
			dataset           TEXT NOT NULL,
			band_lower        DOUBLE,
			band_upper        DOUBLE,
			mean_diff         DOUBLE,
			sigma_diff        DOUBLE,
			valid_cells       BIGINT,
			volume_cm3        DOUBLE,
			mass_kg           DOUBLE,
			k_noise           DOUBLE,
			k_outlier         DOUBLE,
			density_g_cm3     DOUBLE,
			degenerate        INTEGER,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db}, nil
}

// NewRunID mints the identifier shared by all estimates of one survey run.
func NewRunID() string {
	return uuid.NewString()
}

// RecordEstimate stores the outcome of one dataset-pair run.
func (db *DB) RecordEstimate(runID string, p change.Params, r *change.Result) error {
	degenerate := 0
	if r.Degenerate() {
		degenerate = 1
	}
	_, err := db.Exec(`
		INSERT INTO estimates
			(run_id, dataset, band_lower, band_upper, mean_diff, sigma_diff,
			 valid_cells, volume_cm3, mass_kg, k_noise, k_outlier,
			 density_g_cm3, degenerate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.Dataset, r.Band.Lower, r.Band.Upper, r.Band.Mean, r.Band.Sigma,
		r.ValidCells, r.TotalVolumeCm3, r.TotalMassKg, p.KNoise, p.KOutlier,
		p.Density, degenerate)
	if err != nil {
		return fmt.Errorf("record estimate for %s: %w", r.Dataset, err)
	}
	return nil
}

// Estimate is one persisted row, newest first from Estimates.
type Estimate struct {
	RunID      string
	Dataset    string
	BandLower  float64
	BandUpper  float64
	MeanDiff   float64
	SigmaDiff  float64
	ValidCells int64
	VolumeCm3  float64
	MassKg     float64
	Degenerate bool
}

func (e *Estimate) String() string {
	return fmt.Sprintf("%s: volume=%.2f cm³, mass=%.3f kg (%d cells)",
		e.Dataset, e.VolumeCm3, e.MassKg, e.ValidCells)
}

// Estimates returns recent estimates for a dataset, newest first. An empty
// dataset name returns estimates across all datasets.
func (db *DB) Estimates(dataset string, limit int) ([]Estimate, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT run_id, dataset, band_lower, band_upper, mean_diff, sigma_diff,
		       valid_cells, volume_cm3, mass_kg, degenerate
		FROM estimates`
	args := []any{}
	if dataset != "" {
		query += ` WHERE dataset = ?`
		args = append(args, dataset)
	}
	query += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Estimate
	for rows.Next() {
		var e Estimate
		var degenerate int
		if err := rows.Scan(&e.RunID, &e.Dataset, &e.BandLower, &e.BandUpper,
			&e.MeanDiff, &e.SigmaDiff, &e.ValidCells, &e.VolumeCm3, &e.MassKg,
			&degenerate); err != nil {
			return nil, err
		}
		e.Degenerate = degenerate != 0
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
