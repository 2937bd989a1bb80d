package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedPath is reported for outlines whose command sequence is invalid,
// such as a curve element before any MoveTo.
var ErrMalformedPath = errors.New("malformed path outline")

// FlattenPath flattens one outline to a polyline that approximates the
// original curves.
//
// The tolerance value controls the maximum distance between the curved input
// segments and their polyline approximations, in drawing units. Straight
// segments pass through unchanged. A ClosePath element appends the outline's
// start point unless the current end already lies within tolerance of it.
// Degenerate zero-length segments are dropped. The number of emitted segments
// tends to scale as the inverse square root of tolerance, so the tolerance
// should be chosen relative to the drawing's extent.
//
// The algorithm is based on the blog post [Flattening quadratic Béziers], with
// refinements: a more careful approximation at cusps, and cubic Béziers are
// first subdivided into quadratics whose subdivision points are computed
// fractionally, without forcing the quadratics' endpoints into the output.
//
// [Flattening quadratic Béziers]: https://raphlinus.github.io/graphics/curves/2019/12/23/flatten-quadbez.html
func FlattenPath(path BezPath, tolerance float64) (Polyline, error) {
	// Proportion of tolerance budget that goes to cubic to quadratic conversion.
	const toQuadTol = 0.1

	if len(path) == 0 {
		return nil, fmt.Errorf("flatten: empty outline: %w", ErrMalformedPath)
	}
	if tolerance <= 0 || math.IsNaN(tolerance) {
		return nil, fmt.Errorf("flatten: tolerance must be positive, got %g", tolerance)
	}

	sqrtTol := math.Sqrt(tolerance)
	var out Polyline
	add := func(pt Point) {
		if n := len(out); n > 0 && out[n-1] == pt {
			return
		}
		out = append(out, pt)
	}

	var start, last Point
	started := false
	closed := false
	var quadBuf []struct {
		q      QuadBez
		params flattenParams
	}
	for _, el := range path {
		if closed {
			return nil, fmt.Errorf("flatten: element after ClosePath: %w", ErrMalformedPath)
		}
		switch el.Kind {
		case MoveToKind:
			if started {
				return nil, fmt.Errorf("flatten: more than one sub-path in outline: %w", ErrMalformedPath)
			}
			started = true
			start = el.P0
			last = el.P0
			add(el.P0)
		case LineToKind:
			if !started {
				return nil, fmt.Errorf("flatten: LineTo before MoveTo: %w", ErrMalformedPath)
			}
			add(el.P0)
			last = el.P0
		case QuadToKind:
			if !started {
				return nil, fmt.Errorf("flatten: QuadTo before MoveTo: %w", ErrMalformedPath)
			}
			q := QuadBez{last, el.P0, el.P1}
			params := q.estimateSubdiv(sqrtTol)
			n := max(int(math.Ceil(0.5*params.val/sqrtTol)), 1)
			step := 1.0 / float64(n)
			for i := 1; i < n; i++ {
				u := float64(i) * step
				t := q.determineSubdivT(&params, u)
				add(q.Eval(t))
			}
			add(el.P1)
			last = el.P1
		case CubicToKind:
			if !started {
				return nil, fmt.Errorf("flatten: CubicTo before MoveTo: %w", ErrMalformedPath)
			}
			c := CubicBez{last, el.P0, el.P1, el.P2}

			// Subdivide into quadratics, and estimate the number of
			// subdivisions required for each, summing to arrive at an
			// estimate for the number of subdivisions for the cubic.
			// Also retain these parameters for later.
			quadBuf = quadBuf[:0]
			sqrtRemainTol := sqrtTol * math.Sqrt(1.0-toQuadTol)
			sum := 0.0
			for q := range c.Quadratics(tolerance * toQuadTol) {
				params := q.estimateSubdiv(sqrtRemainTol)
				sum += params.val
				quadBuf = append(quadBuf, struct {
					q      QuadBez
					params flattenParams
				}{q, params})
			}
			n := max(int(math.Ceil(0.5*sum/sqrtRemainTol)), 1)

			// Iterate through the quadratics, outputting the points of
			// subdivisions that fall within that quadratic.
			step := sum / float64(n)
			i := 1
			valSum := 0.0
			for _, entry := range quadBuf {
				q := entry.q
				params := entry.params
				target := float64(i) * step
				recipVal := 1.0 / params.val
				for target < valSum+params.val {
					u := (target - valSum) * recipVal
					t := q.determineSubdivT(&params, u)
					add(q.Eval(t))
					i += 1
					if i == n+1 {
						break
					}
					target = float64(i) * step
				}
				valSum += params.val
			}
			add(el.P2)
			last = el.P2
		case ClosePathKind:
			if !started {
				return nil, fmt.Errorf("flatten: ClosePath before MoveTo: %w", ErrMalformedPath)
			}
			if last.Distance(start) > tolerance {
				add(start)
				last = start
			}
			closed = true
		default:
			return nil, fmt.Errorf("flatten: invalid element kind %d: %w", el.Kind, ErrMalformedPath)
		}
	}
	return out, nil
}
