package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gpsart/trace/geom"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	anchor := Anchor{Geo: Point{Lat: 47, Lon: 8}}
	proj, err := NewEquirectangular(anchor)
	if err != nil {
		t.Fatal(err)
	}

	points := []geom.Point{
		geom.Pt(0, 0),
		geom.Pt(1000, 0),
		geom.Pt(0, -2500),
		geom.Pt(-123.45, 678.9),
	}
	for _, pt := range points {
		got := proj.Unproject(proj.Project(pt))
		if d := got.Distance(pt); d > 1e-9 {
			t.Errorf("round trip of %s moved by %g m", pt, d)
		}
	}
}

func TestProjectAnchorMapsToAnchor(t *testing.T) {
	anchor := Anchor{Geo: Point{Lat: 47, Lon: 8}, Planar: geom.Pt(100, 200)}
	proj, err := NewEquirectangular(anchor)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, anchor.Geo, proj.Project(anchor.Planar), cmpopts.EquateApprox(0, 1e-12))
}

func TestProjectDistances(t *testing.T) {
	// 1000 m steps east and north from the anchor must measure 1000 m on
	// the sphere, within the projection's local error.
	anchor := Anchor{Geo: Point{Lat: 47, Lon: 8}}
	proj, err := NewEquirectangular(anchor)
	if err != nil {
		t.Fatal(err)
	}

	origin := proj.Project(geom.Pt(0, 0))
	east := proj.Project(geom.Pt(1000, 0))
	north := proj.Project(geom.Pt(0, 1000))

	if d := Haversine(origin, east); math.Abs(d-1000) > 10 {
		t.Errorf("east step measures %g m, want 1000 ±10", d)
	}
	if d := Haversine(origin, north); math.Abs(d-1000) > 10 {
		t.Errorf("north step measures %g m, want 1000 ±10", d)
	}
	// North of the equator, east must increase longitude and north latitude.
	if east.Lon <= origin.Lon {
		t.Error("east step did not increase longitude")
	}
	if north.Lat <= origin.Lat {
		t.Error("north step did not increase latitude")
	}
}

func TestNewEquirectangularRejectsBadAnchors(t *testing.T) {
	cases := map[string]Point{
		"north pole":    {Lat: 90, Lon: 0},
		"south pole":    {Lat: -90, Lon: 0},
		"lat overflow":  {Lat: 91, Lon: 0},
		"lon overflow":  {Lat: 0, Lon: 181},
		"lon underflow": {Lat: 0, Lon: -200},
		"NaN":           {Lat: math.NaN(), Lon: 0},
	}
	for name, pt := range cases {
		if _, err := NewEquirectangular(Anchor{Geo: pt}); !errors.Is(err, ErrInvalidAnchor) {
			t.Errorf("%s: got %v, want ErrInvalidAnchor", name, err)
		}
	}
}

func TestHaversine(t *testing.T) {
	// One degree of longitude along the equator.
	want := EarthRadiusMeters * math.Pi / 180
	got := Haversine(Point{0, 0}, Point{0, 1})
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("got %g, want %g", got, want)
	}

	if d := Haversine(Point{47, 8}, Point{47, 8}); d != 0 {
		t.Errorf("distance to itself is %g", d)
	}
}

func TestCentroid(t *testing.T) {
	points := []Point{
		{Lat: 46, Lon: 7},
		{Lat: 48, Lon: 9},
		{Lat: 47, Lon: 8},
	}
	got, err := Centroid(points)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Point{Lat: 47, Lon: 8}, got, cmpopts.EquateApprox(0, 1e-12))

	if _, err := Centroid(nil); err == nil {
		t.Error("centroid of no points: got nil error")
	}
}

func TestCentroidAcrossAntimeridian(t *testing.T) {
	points := []Point{
		{Lat: 0, Lon: 178},
		{Lat: 0, Lon: -178},
		{Lat: 0, Lon: -176},
	}
	got, err := Centroid(points)
	if err != nil {
		t.Fatal(err)
	}
	// Averaged about the first point: (178 + 182 + 184) / 3 = 181.33,
	// wrapped back into range. A naive mean would land near -58.7.
	diff(t, Point{Lat: 0, Lon: -178 - 2.0/3.0}, got, cmpopts.EquateApprox(0, 1e-12))
	if !got.Valid() {
		t.Errorf("centroid %v out of range", got)
	}
}
