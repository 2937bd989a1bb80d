package geom

import (
	"errors"
	"math"
)

// ErrEmptyDrawing is reported when a drawing contains no outlines.
var ErrEmptyDrawing = errors.New("drawing contains no outlines")

// Merge connects multiple flattened outlines into a single continuous
// polyline by greedy nearest-endpoint chaining: starting from the first
// polyline, it repeatedly appends the remaining polyline whose closer endpoint
// is nearest to the chain's open end, reversing it when its far endpoint is
// the nearer one. The gap between two outlines becomes a straight connecting
// segment.
//
// The result visits every input point once, preserving each outline's internal
// point order; only inter-outline order and per-outline direction change.
// Coincident junction points are collapsed. Ties are broken by input order, so
// the traversal is deterministic. This is a heuristic: optimal endpoint
// matching is a traveling-salesman variant and out of proportion for
// hand-drawn shapes.
//
// A single polyline is returned unchanged. Empty input reports
// [ErrEmptyDrawing].
func Merge(polylines []Polyline) (Polyline, error) {
	var inputs []Polyline
	for _, pl := range polylines {
		if len(pl) > 0 {
			inputs = append(inputs, pl)
		}
	}
	if len(inputs) == 0 {
		return nil, ErrEmptyDrawing
	}
	if len(inputs) == 1 {
		return inputs[0], nil
	}

	chain := append(Polyline(nil), inputs[0]...)
	remaining := append([]Polyline(nil), inputs[1:]...)
	for len(remaining) > 0 {
		end := chain[len(chain)-1]
		best := 0
		bestReversed := false
		bestDist := math.Inf(1)
		for i, pl := range remaining {
			if d := end.DistanceSquared(pl.Start()); d < bestDist {
				best, bestReversed, bestDist = i, false, d
			}
			if d := end.DistanceSquared(pl.End()); d < bestDist {
				best, bestReversed, bestDist = i, true, d
			}
		}

		next := remaining[best]
		if bestReversed {
			next = next.Reverse()
		}
		for _, pt := range next {
			if pt != chain[len(chain)-1] {
				chain = append(chain, pt)
			}
		}
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return chain, nil
}
