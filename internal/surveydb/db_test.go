package surveydb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riverbed-data/sediment.report/internal/change"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "survey.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResult(dataset string, massKg float64) *change.Result {
	return &change.Result{
		Dataset: dataset,
		Band: change.ThresholdBand{
			Lower: 0.8,
			Upper: 5.2,
			Mean:  0.3,
			Sigma: 0.5,
		},
		ValidCells:     1234,
		TotalVolumeCm3: massKg * 1000 / 1.52,
		TotalMassG:     massKg * 1000,
		TotalMassKg:    massKg,
	}
}

func sampleParams(dataset string) change.Params {
	return change.Params{
		Dataset:  dataset,
		KNoise:   1,
		KOutlier: 6,
		Density:  1.52,
	}
}

func TestRecordAndFetchEstimates(t *testing.T) {
	db := openTestDB(t)
	runID := NewRunID()

	require.NoError(t, db.RecordEstimate(runID, sampleParams("cuh"), sampleResult("cuh", 12.5)))
	require.NoError(t, db.RecordEstimate(runID, sampleParams("rw"), sampleResult("rw", 3.75)))

	rows, err := db.Estimates("cuh", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	e := rows[0]
	require.Equal(t, runID, e.RunID)
	require.Equal(t, "cuh", e.Dataset)
	require.Equal(t, 12.5, e.MassKg)
	require.Equal(t, int64(1234), e.ValidCells)
	require.Equal(t, 0.8, e.BandLower)
	require.False(t, e.Degenerate)

	all, err := db.Estimates("", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestRecordDegenerateEstimate(t *testing.T) {
	db := openTestDB(t)

	res := sampleResult("cuh", 0)
	res.Warnings = append(res.Warnings, change.DegenerateResultWarning{
		Stage:  "threshold",
		Reason: "no valid cells",
	})
	require.NoError(t, db.RecordEstimate(NewRunID(), sampleParams("cuh"), res))

	rows, err := db.Estimates("cuh", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Degenerate)
}

func TestEstimatesLimitDefaults(t *testing.T) {
	db := openTestDB(t)
	rows, err := db.Estimates("nothing", 0)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestNewRunIDUnique(t *testing.T) {
	require.NotEqual(t, NewRunID(), NewRunID())
}
