package raster

import "fmt"

// LoadError reports a raster file that could not be read into a Grid. It is
// fatal for the dataset it belongs to; the survey runner skips that pair and
// moves on.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load raster %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConfigurationError reports two grids that cannot legally be compared:
// mismatched shape, cell size, or mask coverage. It is never coerced or
// papered over; the comparison is aborted.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "grid configuration: " + e.Reason
}
