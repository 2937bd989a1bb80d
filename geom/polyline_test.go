package geom

import (
	"math"
	"testing"
)

func TestPolylineArclen(t *testing.T) {
	cases := []struct {
		pl   Polyline
		want float64
	}{
		{nil, 0},
		{Polyline{Pt(1, 1)}, 0},
		{Polyline{Pt(0, 0), Pt(3, 4)}, 5},
		{square(10), 40},
	}
	for _, c := range cases {
		if got := c.pl.Arclen(); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("Arclen(%v) = %g, want %g", c.pl, got, c.want)
		}
	}
}

func TestPolylineReverse(t *testing.T) {
	pl := Polyline{Pt(0, 0), Pt(1, 0), Pt(1, 1)}
	diff(t, Polyline{Pt(1, 1), Pt(1, 0), Pt(0, 0)}, pl.Reverse())
	// Reverse copies.
	diff(t, Polyline{Pt(0, 0), Pt(1, 0), Pt(1, 1)}, pl)
}

func TestPolylineBoundingBox(t *testing.T) {
	pl := Polyline{Pt(3, -1), Pt(-2, 4), Pt(0, 0)}
	diff(t, Rect{X0: -2, Y0: -1, X1: 3, Y1: 4}, pl.BoundingBox())
	diff(t, Rect{}, Polyline(nil).BoundingBox())
}

func TestPolylineCentroid(t *testing.T) {
	assertNear(t, Pt(5, 5), square(10)[:4].Centroid(), 1e-12)
	assertNear(t, Pt(0, 0), Polyline(nil).Centroid(), 0)
}

func TestPolylineTransform(t *testing.T) {
	pl := Polyline{Pt(1, 2), Pt(3, 4)}
	got := pl.Transform(Translate(Vec(10, 20)))
	diff(t, Polyline{Pt(11, 22), Pt(13, 24)}, got)
	diff(t, Polyline{Pt(1, 2), Pt(3, 4)}, pl)
}
