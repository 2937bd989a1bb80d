// Package geo converts between the planar frame of a transformed drawing and
// geographic coordinates.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/gpsart/trace/geom"
)

// EarthRadiusMeters is the mean Earth radius used by the projection and by
// [Haversine].
const EarthRadiusMeters = 6371.0 * 1000

// ErrInvalidAnchor is reported for anchors with out-of-range coordinates or a
// latitude at a pole, where the equirectangular projection degenerates.
var ErrInvalidAnchor = errors.New("invalid projection anchor")

// Point is a geographic coordinate pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g°, %g°)", pt.Lat, pt.Lon)
}

// Valid reports whether the point lies within the geographic coordinate
// ranges.
func (pt Point) Valid() bool {
	return pt.Lat >= -90 && pt.Lat <= 90 && pt.Lon >= -180 && pt.Lon <= 180 &&
		!math.IsNaN(pt.Lat) && !math.IsNaN(pt.Lon)
}

// Anchor ties a geographic point to the planar point it corresponds to. It is
// the pivot for every projection: moving a route on the map replaces the
// anchor's geographic point and nothing else.
type Anchor struct {
	Geo    Point
	Planar geom.Point
}

// Projection maps between the planar frame (meters, y up/north) and
// geographic coordinates. Implementations are pure; the same input always
// maps to the same output.
type Projection interface {
	Project(geom.Point) Point
	Unproject(Point) geom.Point
}

// Equirectangular is a local tangent-plane approximation around an anchor:
//
//	Δlat = Δy / R
//	Δlon = Δx / (R·cos(lat₀))
//
// with angles in radians and R the Earth radius. It is accurate for
// city-scale extents (up to a few tens of kilometers); the error grows with
// distance from the anchor and with the anchor latitude toward the poles.
// That bound is intentional: GPS-art routes are local, and a geodesic model
// would add complexity without practical benefit at this scale.
type Equirectangular struct {
	anchor Anchor
	// cos of the anchor latitude, correcting longitudinal compression.
	cosLat float64
}

var _ Projection = (*Equirectangular)(nil)

// NewEquirectangular returns a projection centered on anchor. Anchors with
// coordinates out of range, or with a latitude at ±90° (where cos(lat₀)
// vanishes and longitude is undefined), report [ErrInvalidAnchor].
func NewEquirectangular(anchor Anchor) (*Equirectangular, error) {
	if !anchor.Geo.Valid() {
		return nil, fmt.Errorf("%w: %v out of range", ErrInvalidAnchor, anchor.Geo)
	}
	if 90-math.Abs(anchor.Geo.Lat) < 1e-9 {
		return nil, fmt.Errorf("%w: latitude %g° is at a pole", ErrInvalidAnchor, anchor.Geo.Lat)
	}
	return &Equirectangular{
		anchor: anchor,
		cosLat: math.Cos(toRad(anchor.Geo.Lat)),
	}, nil
}

// Project maps a planar point (meters) to geographic coordinates.
func (eq *Equirectangular) Project(pt geom.Point) Point {
	d := pt.Sub(eq.anchor.Planar)
	return Point{
		Lat: eq.anchor.Geo.Lat + toDeg(d.Y/EarthRadiusMeters),
		Lon: eq.anchor.Geo.Lon + toDeg(d.X/(EarthRadiusMeters*eq.cosLat)),
	}
}

// Unproject maps geographic coordinates back to the planar frame. It is the
// algebraic inverse of [Equirectangular.Project].
func (eq *Equirectangular) Unproject(pt Point) geom.Point {
	return eq.anchor.Planar.Translate(geom.Vec2{
		X: toRad(pt.Lon-eq.anchor.Geo.Lon) * EarthRadiusMeters * eq.cosLat,
		Y: toRad(pt.Lat-eq.anchor.Geo.Lat) * EarthRadiusMeters,
	})
}

// ProjectAll projects every point of a planar polyline.
func ProjectAll(proj Projection, pl geom.Polyline) []Point {
	out := make([]Point, len(pl))
	for i, pt := range pl {
		out[i] = proj.Project(pt)
	}
	return out
}

// UnprojectAll maps a sequence of geographic points to a planar polyline.
func UnprojectAll(proj Projection, points []Point) geom.Polyline {
	out := make(geom.Polyline, len(points))
	for i, pt := range points {
		out[i] = proj.Unproject(pt)
	}
	return out
}

// Haversine calculates the great-circle distance in meters between two
// points.
func Haversine(a, b Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// Centroid returns the mean latitude and longitude of points. It is used to
// derive an anchor for a loaded route. Longitudes are averaged relative to
// the first point, so a route straddling the antimeridian keeps its anchor on
// the route instead of on the far side of the globe.
func Centroid(points []Point) (Point, error) {
	if len(points) == 0 {
		return Point{}, errors.New("centroid of no points")
	}
	ref := points[0].Lon
	var lat, lon float64
	for _, pt := range points {
		l := pt.Lon
		for l-ref > 180 {
			l -= 360
		}
		for l-ref < -180 {
			l += 360
		}
		lat += pt.Lat
		lon += l
	}
	n := float64(len(points))
	c := Point{Lat: lat / n, Lon: lon / n}
	if c.Lon > 180 {
		c.Lon -= 360
	} else if c.Lon < -180 {
		c.Lon += 360
	}
	return c, nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
