package geom

import (
	"iter"
	"math"
)

// CubicBez is a cubic Bézier segment.
type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

func (cb CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := Vec2(cb.P0).Mul(mt * mt * mt)
	b := Vec2(cb.P1).Mul(mt * mt * 3.0)
	c := Vec2(cb.P2).Mul(mt * 3.0)
	d := Vec2(cb.P3)
	v := a.Add(b.Add(c.Add(d.Mul(t)).Mul(t)).Mul(t))
	return Point(v)
}

func (c CubicBez) Subsegment(t0, t1 float64) CubicBez {
	p0 := c.Eval(t0)
	p3 := c.Eval(t1)
	d := c.Differentiate()
	scale := (t1 - t0) * (1.0 / 3.0)
	p1 := p0.Translate(Vec2(d.Eval(t0)).Mul(scale))
	p2 := p3.Translate(Vec2(d.Eval(t1)).Mul(scale).Negate())
	return CubicBez{p0, p1, p2, p3}
}

func (c CubicBez) Differentiate() QuadBez {
	return QuadBez{
		Point(c.P1.Sub(c.P0).Mul(3)),
		Point(c.P2.Sub(c.P1).Mul(3)),
		Point(c.P3.Sub(c.P2).Mul(3)),
	}
}

func (c CubicBez) Transform(aff Affine) CubicBez {
	return CubicBez{
		P0: c.P0.Transform(aff),
		P1: c.P1.Transform(aff),
		P2: c.P2.Transform(aff),
		P3: c.P3.Transform(aff),
	}
}

// Quadratics converts the cubic Bézier to quadratic Béziers.
//
// Note that the resulting quadratic Béziers are not in general G1 continuous;
// they are optimized for minimizing distance error.
//
// This iterator will always produce at least one value.
func (c CubicBez) Quadratics(accuracy float64) iter.Seq[QuadBez] {
	// The maximum error, as a vector from the cubic to the best approximating
	// quadratic, is proportional to the third derivative, which is constant
	// across the segment. Thus, the error scales down as the third power of
	// the number of subdivisions. Our strategy then is to subdivide t evenly.
	//
	// This is an overestimate of the error because only the component
	// perpendicular to the first derivative is important. But the simplicity is
	// appealing.

	return func(yield func(QuadBez) bool) {
		// This magic number is the square of 36 / sqrt(3).
		// See: https://web.archive.org/web/20210108052742/http://caffeineowl.com/graphics/2d/vectorial/cubic2quad01.html
		maxHypot2 := 432.0 * accuracy * accuracy
		p1x2 := Vec2(c.P1).Mul(3).Sub(Vec2(c.P0))
		p2x2 := Vec2(c.P2).Mul(3).Sub(Vec2(c.P3))
		err := p2x2.Sub(p1x2).Hypot2()
		n := max(int(math.Ceil(math.Sqrt(math.Cbrt(err/maxHypot2)))), 1)

		for i := range n {
			t0 := float64(i) / float64(n)
			t1 := float64(i+1) / float64(n)
			seg := c.Subsegment(t0, t1)
			p1x2 := Vec2(seg.P1).Mul(3).Sub(Vec2(seg.P0))
			p2x2 := Vec2(seg.P2).Mul(3).Sub(Vec2(seg.P3))
			result := QuadBez{seg.P0, Point(p1x2.Add(p2x2).Mul(1.0 / 4.0)), seg.P3}
			if !yield(result) {
				return
			}
		}
	}
}
