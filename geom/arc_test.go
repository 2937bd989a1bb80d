package geom

import (
	"math"
	"testing"
)

func TestArcFromEndpointsSemicircle(t *testing.T) {
	start, end := Pt(0, 0), Pt(2, 0)
	for _, sweep := range []bool{false, true} {
		arc, ok := ArcFromEndpoints(start, end, 1, 1, 0, false, sweep)
		if !ok {
			t.Fatalf("sweep=%v: conversion failed", sweep)
		}
		assertNear(t, arc.Start(), start, 1e-9)
		assertNear(t, arc.End(), end, 1e-9)
		assertNear(t, arc.Center, Pt(1, 0), 1e-9)
		if got := math.Abs(arc.SweepAngle); math.Abs(got-math.Pi) > 1e-9 {
			t.Errorf("sweep=%v: got sweep angle %g, want π", sweep, got)
		}
	}
}

func TestArcFromEndpointsScalesSmallRadii(t *testing.T) {
	// Radii too small to span the endpoints are scaled up uniformly.
	arc, ok := ArcFromEndpoints(Pt(0, 0), Pt(10, 0), 1, 1, 0, false, true)
	if !ok {
		t.Fatal("conversion failed")
	}
	if arc.Radii.X < 5 || arc.Radii.Y < 5 {
		t.Errorf("got radii %s, want at least 5", arc.Radii)
	}
	assertNear(t, arc.Start(), Pt(0, 0), 1e-9)
	assertNear(t, arc.End(), Pt(10, 0), 1e-9)
}

func TestArcFromEndpointsDegenerate(t *testing.T) {
	if _, ok := ArcFromEndpoints(Pt(0, 0), Pt(1, 0), 0, 1, 0, false, false); ok {
		t.Error("zero rx accepted")
	}
	if _, ok := ArcFromEndpoints(Pt(0, 0), Pt(1, 0), 1, 0, 0, false, false); ok {
		t.Error("zero ry accepted")
	}
	if _, ok := ArcFromEndpoints(Pt(1, 1), Pt(1, 1), 1, 1, 0, false, false); ok {
		t.Error("coincident endpoints accepted")
	}
}

func TestArcPathElementsAccuracy(t *testing.T) {
	arc := Arc{
		Center:     Pt(0, 0),
		Radii:      Vec(10, 10),
		StartAngle: 0,
		SweepAngle: 2 * math.Pi,
	}
	const tolerance = 1e-3

	var p BezPath
	for el := range arc.PathElements(tolerance) {
		p.Push(el)
	}
	pl, err := FlattenPath(p, tolerance)
	if err != nil {
		t.Fatal(err)
	}
	// Every polyline point must lie close to the true circle; the combined
	// error of conversion and flattening stays within both budgets.
	for _, pt := range pl {
		if d := math.Abs(pt.Distance(arc.Center) - 10); d > 2*tolerance {
			t.Errorf("point %s is %g off the circle", pt, d)
		}
	}
}
