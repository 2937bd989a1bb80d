package svg

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gpsart/trace/geom"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func TestTokenizePathData(t *testing.T) {
	cases := map[string][]string{
		"":                   nil,
		"M 10 20":            {"M", "10", "20"},
		"M10,20L30,40":       {"M", "10", "20", "L", "30", "40"},
		"m1-2":               {"m", "1", "-2"},
		"M1.5.5":             {"M", "1.5", ".5"},
		"M1e-3 2E+4":         {"M", "1e-3", "2E+4"},
		"M 1 , 2 \n L 3\t4":  {"M", "1", "2", "L", "3", "4"},
		"M-1.5e2-2.5e-1 3":   {"M", "-1.5e2", "-2.5e-1", "3"},
		"a1 1 0 0 1 10 10z":  {"a", "1", "1", "0", "0", "1", "10", "10", "z"},
		"M0 0c1 1 2 2 3 3":   {"M", "0", "0", "c", "1", "1", "2", "2", "3", "3"},
		"M+1+2":              {"M", "+1", "+2"},
	}
	for d, want := range cases {
		diff(t, want, tokenizePathData(d))
	}
}

func TestParsePathDataBasic(t *testing.T) {
	got, err := parsePathData("M 0 0 L 10 0 H 20 V 5 Z", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.BezPath{{
		geom.MoveTo(geom.Pt(0, 0)),
		geom.LineTo(geom.Pt(10, 0)),
		geom.LineTo(geom.Pt(20, 0)),
		geom.LineTo(geom.Pt(20, 5)),
		geom.ClosePath(),
	}}
	diff(t, want, got)
}

func TestParsePathDataRelative(t *testing.T) {
	got, err := parsePathData("m 1 2 l 10 0 v 5 h -10", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.BezPath{{
		geom.MoveTo(geom.Pt(1, 2)),
		geom.LineTo(geom.Pt(11, 2)),
		geom.LineTo(geom.Pt(11, 7)),
		geom.LineTo(geom.Pt(1, 7)),
	}}
	diff(t, want, got)
}

func TestParsePathDataCurves(t *testing.T) {
	got, err := parsePathData("M0 0 C 1 1 2 1 3 0 Q 4 -1 5 0", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.BezPath{{
		geom.MoveTo(geom.Pt(0, 0)),
		geom.CubicTo(geom.Pt(1, 1), geom.Pt(2, 1), geom.Pt(3, 0)),
		geom.QuadTo(geom.Pt(4, -1), geom.Pt(5, 0)),
	}}
	diff(t, want, got)
}

func TestParsePathDataSmoothReflection(t *testing.T) {
	got, err := parsePathData("M0 0 C 1 1 2 1 3 0 S 5 -1 6 0", 0)
	if err != nil {
		t.Fatal(err)
	}
	// The first control point of S reflects the previous C's second control
	// point (2,1) about the pen position (3,0).
	want := []geom.BezPath{{
		geom.MoveTo(geom.Pt(0, 0)),
		geom.CubicTo(geom.Pt(1, 1), geom.Pt(2, 1), geom.Pt(3, 0)),
		geom.CubicTo(geom.Pt(4, -1), geom.Pt(5, -1), geom.Pt(6, 0)),
	}}
	diff(t, want, got)

	// After a non-curve command the reflected control point collapses onto
	// the pen position.
	got, err = parsePathData("M0 0 L 1 0 T 3 0", 0)
	if err != nil {
		t.Fatal(err)
	}
	want = []geom.BezPath{{
		geom.MoveTo(geom.Pt(0, 0)),
		geom.LineTo(geom.Pt(1, 0)),
		geom.QuadTo(geom.Pt(1, 0), geom.Pt(3, 0)),
	}}
	diff(t, want, got)
}

func TestParsePathDataImplicitCommands(t *testing.T) {
	// Extra coordinate pairs after a moveto are implicit linetos.
	got, err := parsePathData("M 0 0 10 0 10 10", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.BezPath{{
		geom.MoveTo(geom.Pt(0, 0)),
		geom.LineTo(geom.Pt(10, 0)),
		geom.LineTo(geom.Pt(10, 10)),
	}}
	diff(t, want, got)
}

func TestParsePathDataSubPaths(t *testing.T) {
	got, err := parsePathData("M0 0 L1 0 M5 5 L6 5", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d outlines, want 2", len(got))
	}

	// Drawing after a closepath continues at the sub-path start, in a new
	// outline.
	got, err = parsePathData("M0 0 L1 0 L1 1 Z L0 -1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d outlines, want 2", len(got))
	}
	diff(t, geom.BezPath{
		geom.MoveTo(geom.Pt(0, 0)),
		geom.LineTo(geom.Pt(0, -1)),
	}, got[1])
}

func TestParsePathDataArc(t *testing.T) {
	got, err := parsePathData("M0 0 A 1 1 0 0 1 2 0", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d outlines, want 1", len(got))
	}
	p := got[0]
	if len(p) < 2 {
		t.Fatalf("arc produced no curve elements: %v", p)
	}
	for _, el := range p[1:] {
		if el.Kind != geom.CubicToKind {
			t.Errorf("got element %s, want CubicTo", el)
		}
	}
	// The approximation ends exactly at the arc's endpoint.
	end, _ := p[len(p)-1].EndPoint()
	if d := end.Distance(geom.Pt(2, 0)); d > 1e-9 {
		t.Errorf("arc ends at %s, %g away from (2, 0)", end, d)
	}

	// Flags need no separator from each other or the following number, so
	// the packed form must parse identically to the spaced one.
	want := got
	got, err = parsePathData("M0 0A1 1 0 012 0", 0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, want, got)

	// A degenerate arc draws as a straight line.
	got, err = parsePathData("M0 0 A 0 1 0 0 1 2 0", 0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []geom.BezPath{{
		geom.MoveTo(geom.Pt(0, 0)),
		geom.LineTo(geom.Pt(2, 0)),
	}}, got)
}

func TestParsePathDataErrors(t *testing.T) {
	cases := map[string]string{
		"leading coordinates":     "10 20 L 30 40",
		"unknown command":         "M 0 0 X 1 1",
		"truncated":               "M 0 0 L 10",
		"bad number":              "M 0 0 L abc 2",
		"command as number":       "M 0 L 1 1",
		"number after closepath":  "M 0 0 L 1 1 Z 5",
		"numbers after closepath": "M 0 0 L 1 1 z 5 6 7 8",
		"bad arc flag":            "M 0 0 A 1 1 0 2 0 2 0",
	}
	for name, d := range cases {
		if _, err := parsePathData(d, 0); !errors.Is(err, ErrParse) {
			t.Errorf("%s: got %v, want ErrParse", name, err)
		}
	}
}
