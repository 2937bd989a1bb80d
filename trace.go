// Package trace turns vector line drawings into GPS routes for GPS art, and
// back.
//
// The pipeline is a family of pure functions: an SVG drawing is flattened
// into polylines, merged into one continuous traversal, rotated, stretched
// and scaled to a target length, projected onto the map around an anchor, and
// written out as a GPX track. Loading a GPX route runs the inverse
// projection, so a saved route re-enters the same parameter space for
// further editing. No stage mutates its input, so the whole chain can be
// recomputed cheaply whenever a parameter changes — drawings are thousands of
// points, not millions. Callers driving the pipeline from interactive
// controls are responsible for debouncing.
//
// Failures are reported through a small set of sentinel errors, one per
// failure kind, matched with errors.Is: [svg.ErrParse],
// [svg.ErrUnsupportedElement], [geom.ErrMalformedPath],
// [geom.ErrEmptyDrawing], [geom.ErrDegeneratePath], [geo.ErrInvalidAnchor]
// and [gpx.ErrCorruptRoute]. No stage reinterprets another stage's error, and
// no stage logs; presenting failures is the caller's concern.
package trace

import (
	"github.com/gpsart/trace/geo"
	"github.com/gpsart/trace/geom"
	"github.com/gpsart/trace/gpx"
	"github.com/gpsart/trace/svg"
)

// DefaultToleranceRatio relates the default flattening tolerance to the
// drawing's extent: the chord error is at most one thousandth of the larger
// bounding-box dimension. A fixed absolute tolerance would be meaningless
// across drawings of wildly different scales.
const DefaultToleranceRatio = 1e-3

// Options control drawing interpretation.
type Options struct {
	// Tolerance is the absolute flattening tolerance in drawing units.
	// When zero, the tolerance is derived from ToleranceRatio and the
	// drawing's extent.
	Tolerance float64
	// ToleranceRatio is the flattening tolerance relative to the larger
	// dimension of the drawing's bounding box. Zero means
	// [DefaultToleranceRatio].
	ToleranceRatio float64
	// ArcTolerance bounds the error of replacing elliptical arcs with
	// cubics during parsing; see [svg.ParseOptions].
	ArcTolerance float64
}

// LoadDrawing parses an SVG drawing and returns it as a single continuous
// polyline in the planar frame: y up, centroid at the origin. Disjoint
// outlines are connected by nearest-endpoint chaining.
func LoadDrawing(data []byte, opts Options) (geom.Polyline, error) {
	outlines, err := svg.Parse(data, svg.ParseOptions{ArcTolerance: opts.ArcTolerance})
	if err != nil {
		return nil, err
	}
	if len(outlines) == 0 {
		return nil, geom.ErrEmptyDrawing
	}

	tol := opts.Tolerance
	if tol <= 0 {
		bbox := outlines[0].ControlBox()
		for _, outline := range outlines[1:] {
			bbox = bbox.Union(outline.ControlBox())
		}
		extent := max(bbox.Width(), bbox.Height())
		if extent == 0 {
			extent = 1
		}
		ratio := opts.ToleranceRatio
		if ratio <= 0 {
			ratio = DefaultToleranceRatio
		}
		tol = ratio * extent
	}

	polylines := make([]geom.Polyline, 0, len(outlines))
	for _, outline := range outlines {
		pl, err := geom.FlattenPath(outline, tol)
		if err != nil {
			return nil, err
		}
		polylines = append(polylines, pl)
	}
	merged, err := geom.Merge(polylines)
	if err != nil {
		return nil, err
	}

	// SVG y grows downward; the projection expects y to grow northward.
	flipped := merged.Transform(geom.FlipY)
	return flipped.Transform(geom.Translate(geom.Vec2(flipped.Centroid()).Negate())), nil
}

// LoadRoute parses a GPX route and inverse-projects it into the planar
// frame, so it can be re-edited as if it were a drawing. The returned anchor
// ties the route's centroid to the planar origin.
func LoadRoute(data []byte) (geom.Polyline, geo.Anchor, error) {
	points, err := gpx.Decode(data)
	if err != nil {
		return nil, geo.Anchor{}, err
	}
	centroid, err := geo.Centroid(points)
	if err != nil {
		return nil, geo.Anchor{}, err
	}
	anchor := geo.Anchor{Geo: centroid}
	proj, err := geo.NewEquirectangular(anchor)
	if err != nil {
		return nil, geo.Anchor{}, err
	}
	pl := geo.UnprojectAll(proj, points)

	// Recorded tracks may repeat points; the planar polyline must not.
	out := pl[:0:0]
	for _, pt := range pl {
		if n := len(out); n > 0 && out[n-1] == pt {
			continue
		}
		out = append(out, pt)
	}
	return out, anchor, nil
}

// Render applies the transform parameters to a drawing and projects the
// result around the anchor. Re-rendering with a different anchor geographic
// point translates the route on the map without reshaping it.
func Render(pl geom.Polyline, params geom.Parameters, anchor geo.Anchor) ([]geo.Point, error) {
	proj, err := geo.NewEquirectangular(anchor)
	if err != nil {
		return nil, err
	}
	transformed, err := geom.Transform(pl, params, anchor.Planar)
	if err != nil {
		return nil, err
	}
	return geo.ProjectAll(proj, transformed), nil
}

// SaveRoute serializes a rendered route as a GPX track.
func SaveRoute(points []geo.Point) ([]byte, error) {
	return gpx.Encode(points)
}

// SaveDrawing writes a planar polyline back out as an SVG drawing, flipping
// the y axis back into the SVG convention.
func SaveDrawing(pl geom.Polyline) []byte {
	return svg.Encode(pl.Transform(geom.FlipY), svg.EncodeOptions{})
}
