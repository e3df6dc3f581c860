package render

import (
	"errors"
	"fmt"
)

// ErrNotEnoughPoints is returned when a chart has fewer than two points.
var ErrNotEnoughPoints = errors.New("chart needs at least two points")

// RenderError describes an artifact that could not be produced.
type RenderError struct {
	Format string
	Path   string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("render %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("render %s %s: %v", e.Format, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
