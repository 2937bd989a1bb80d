package geom

import (
	"iter"
	"math"
)

// Arc is an elliptical arc in center parameterization. Angles are expressed in
// radians, with the sweep measured in the drawing's own y orientation.
type Arc struct {
	Center     Point
	Radii      Vec2
	StartAngle float64
	SweepAngle float64
	XRotation  float64
}

// ArcFromEndpoints converts an SVG endpoint-parameterized arc (from start to
// end with radii rx/ry, x-axis rotation in radians and the large-arc/sweep
// flags) to center parameterization, following the SVG 1.1 F.6.5 equations.
//
// Returns false for degenerate input (zero radius or coincident endpoints);
// the caller should fall back to a straight line.
func ArcFromEndpoints(start, end Point, rx, ry, xRotation float64, largeArc, sweep bool) (Arc, bool) {
	rx = math.Abs(rx)
	ry = math.Abs(ry)
	if rx == 0 || ry == 0 || start == end {
		return Arc{}, false
	}

	sin, cos := math.Sincos(xRotation)
	d := start.Sub(end).Mul(0.5)
	x1p := cos*d.X + sin*d.Y
	y1p := -sin*d.X + cos*d.Y

	// Scale radii up if they cannot span the endpoints.
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	rxSq, rySq := rx*rx, ry*ry
	x1pSq, y1pSq := x1p*x1p, y1p*y1p
	num := rxSq*rySq - rxSq*y1pSq - rySq*x1pSq
	if num < 0 {
		// Floating point noise after the radii correction.
		num = 0
	}
	coeff := math.Sqrt(num / (rxSq*y1pSq + rySq*x1pSq))
	if largeArc == sweep {
		coeff = -coeff
	}
	cxp := coeff * rx * y1p / ry
	cyp := -coeff * ry * x1p / rx

	mid := start.Midpoint(end)
	center := Point{
		X: cos*cxp - sin*cyp + mid.X,
		Y: sin*cxp + cos*cyp + mid.Y,
	}

	theta1 := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta2 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	sweepAngle := theta2 - theta1
	if sweep && sweepAngle < 0 {
		sweepAngle += 2 * math.Pi
	} else if !sweep && sweepAngle > 0 {
		sweepAngle -= 2 * math.Pi
	}

	return Arc{
		Center:     center,
		Radii:      Vec2{rx, ry},
		StartAngle: theta1,
		SweepAngle: sweepAngle,
		XRotation:  xRotation,
	}, true
}

// Start returns the arc's start point.
func (a Arc) Start() Point {
	return a.Center.Translate(sampleEllipse(a.Radii, a.XRotation, a.StartAngle))
}

// End returns the arc's end point.
func (a Arc) End() Point {
	return a.Center.Translate(sampleEllipse(a.Radii, a.XRotation, a.StartAngle+a.SweepAngle))
}

// PathElements approximates the arc with cubic Bézier elements, preceded by a
// MoveTo to the arc's start point. The tolerance bounds the distance between
// the true arc and the cubics.
func (a Arc) PathElements(tolerance float64) iter.Seq[PathElement] {
	return func(yield func(PathElement) bool) {
		p0 := sampleEllipse(a.Radii, a.XRotation, a.StartAngle)
		if !yield(MoveTo(a.Center.Translate(p0))) {
			return
		}

		scaledError := max(a.Radii.X, a.Radii.Y) / tolerance
		// Number of subdivisions per ellipse based on error tolerance.
		// Note: this may slightly underestimate the error for quadrants.
		nError := max(math.Pow(1.1163*scaledError, 1.0/6.0), 3.999_999)
		n := math.Ceil(nError * math.Abs(a.SweepAngle) * (1.0 / (2.0 * math.Pi)))
		angleStep := a.SweepAngle / n
		armLen := math.Copysign((4.0/3.0)*math.Tan(math.Abs(0.25*angleStep)), a.SweepAngle)
		angle0 := a.StartAngle
		p0 = sampleEllipse(a.Radii, a.XRotation, angle0)

		for range int(n) {
			angle1 := angle0 + angleStep
			p1 := p0.Add(sampleEllipse(a.Radii, a.XRotation, angle0+math.Pi/2).Mul(armLen))
			p3 := sampleEllipse(a.Radii, a.XRotation, angle1)
			p2 := p3.Sub(sampleEllipse(a.Radii, a.XRotation, angle1+math.Pi/2).Mul(armLen))

			angle0 = angle1
			p0 = p3

			if !yield(CubicTo(
				a.Center.Translate(p1),
				a.Center.Translate(p2),
				a.Center.Translate(p3),
			)) {
				break
			}
		}
	}
}

// AppendTo appends the arc's cubic approximation to p, without the leading
// MoveTo. The path's current point must coincide with the arc's start point.
func (a Arc) AppendTo(p *BezPath, tolerance float64) {
	first := true
	for el := range a.PathElements(tolerance) {
		if first {
			first = false
			continue
		}
		p.Push(el)
	}
}

// Take the ellipse radii, how the radii are rotated, and the sweep angle, and
// return a point on the ellipse.
func sampleEllipse(radii Vec2, xRotation float64, angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	u := radii.X * cos
	v := radii.Y * sin
	return rotatePt(Vec2{u, v}, xRotation)
}

// Rotate pt about the origin by angle radians.
func rotatePt(pt Vec2, angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: pt.X*cos - pt.Y*sin,
		Y: pt.X*sin + pt.Y*cos,
	}
}
