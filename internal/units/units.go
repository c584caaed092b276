// Package units holds the unit constants and conversions shared across the
// pipeline and its reports. Elevations arrive in metres, differences are
// worked in centimetres, volumes in cm³, and masses are reported in
// kilograms.
package units

// Conversion constants.
const (
	// MetersToCentimeters scales an elevation difference from metres to
	// centimetres; this is the default unit scale applied by the differencer.
	MetersToCentimeters = 100.0

	// SquareMetersCmToCm3 converts a cell area in m² times a difference in
	// cm to a volume in cm³ (10⁴ cm² per m²); this is the default volume
	// conversion constant.
	SquareMetersCmToCm3 = 10000.0

	// GramsPerKilogram divides a summed mass in grams down to the
	// kilograms used in reports.
	GramsPerKilogram = 1000.0
)

// CmToM3 converts a volume in cm³ to m³, for report lines on larger surveys.
func CmToM3(cm3 float64) float64 {
	return cm3 / 1e6
}

// GramsToKg converts grams to kilograms.
func GramsToKg(g float64) float64 {
	return g / GramsPerKilogram
}
