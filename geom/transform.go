package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegeneratePath is reported when a polyline of zero total length would
// have to be scaled to a target length.
var ErrDegeneratePath = errors.New("path has zero length")

// Parameters describes the shape adjustments applied to a drawing before
// projection. The zero value is not valid; see [DefaultParameters].
type Parameters struct {
	// RotationDegrees rotates the path about the anchor. Positive values
	// rotate counter-clockwise in the y-up planar frame.
	RotationDegrees float64
	// TargetLength is the total arc length of the transformed path, in
	// meters. Must be positive.
	TargetLength float64
	// Stretch scales the x axis relative to the y axis, adjusting the
	// path's aspect ratio independently of its overall size. 1 means no
	// stretch. Must be positive.
	Stretch float64
}

// DefaultParameters returns parameters for a 1 km route with no rotation or
// stretch.
func DefaultParameters() Parameters {
	return Parameters{TargetLength: 1000, Stretch: 1}
}

func (p Parameters) Validate() error {
	if !(p.TargetLength > 0) {
		return fmt.Errorf("target length must be positive, got %g", p.TargetLength)
	}
	if !(p.Stretch > 0) {
		return fmt.Errorf("stretch must be positive, got %g", p.Stretch)
	}
	if math.IsNaN(p.RotationDegrees) || math.IsInf(p.RotationDegrees, 0) {
		return fmt.Errorf("rotation must be finite, got %g", p.RotationDegrees)
	}
	return nil
}

// Transform derives a new polyline from pl by rotating, stretching and
// scaling it about anchor, in that order. The order is fixed: scaling to the
// target length after the stretch keeps the stretch meaningful as an aspect
// adjustment independent of overall size.
//
// The result's total arc length equals params.TargetLength. Transforming a
// polyline whose length is zero (a single point, or all points coincident)
// reports [ErrDegeneratePath]. pl itself is never modified.
func Transform(pl Polyline, params Parameters, anchor Point) (Polyline, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	rotate := RotateAbout(params.RotationDegrees*math.Pi/180, anchor)
	stretch := ScaleAbout(params.Stretch, 1, anchor)
	shaped := pl.Transform(stretch.Mul(rotate))

	length := shaped.Arclen()
	if length == 0 {
		return nil, fmt.Errorf("transform: %w", ErrDegeneratePath)
	}
	f := params.TargetLength / length
	return shaped.Transform(ScaleAbout(f, f, anchor)), nil
}
