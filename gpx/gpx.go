// Package gpx encodes and decodes routes as GPX 1.1 tracks.
//
// A route is a bare ordered sequence of coordinates: each track point carries
// a fixed placeholder elevation and timestamp because the format asks for
// them, not because the pipeline has elevation or time semantics.
package gpx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"

	"github.com/gpsart/trace/geo"
)

// ErrCorruptRoute is reported for route files that are not well-formed GPX,
// contain no track points, or carry missing or out-of-range coordinates.
var ErrCorruptRoute = errors.New("corrupt route file")

const (
	creator = "trace"

	// Placeholder values for the fields GPX wants on a track point.
	placeholderElevation = "0"
	placeholderTime      = "1970-01-01T00:00:00Z"
)

// Coordinates are kept as strings so that a missing attribute is
// distinguishable from zero and so that encoding controls the exact decimal
// representation.
type gpxFile struct {
	XMLName xml.Name `xml:"gpx"`
	Xmlns   string   `xml:"xmlns,attr"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`
	Tracks  []track  `xml:"trk"`
}

type track struct {
	Name     string    `xml:"name,omitempty"`
	Segments []segment `xml:"trkseg"`
}

type segment struct {
	Points []trackPoint `xml:"trkpt"`
}

type trackPoint struct {
	Lat       string `xml:"lat,attr"`
	Lon       string `xml:"lon,attr"`
	Elevation string `xml:"ele,omitempty"`
	Time      string `xml:"time,omitempty"`
}

// Encode serializes points as a GPX document with a single track and segment,
// preserving point order as the track's traversal order. Coordinates are
// written with the shortest representation that round-trips float64 exactly,
// so Decode(Encode(points)) == points.
func Encode(points []geo.Point) ([]byte, error) {
	if len(points) == 0 {
		return nil, errors.New("encode: route has no points")
	}
	seg := segment{Points: make([]trackPoint, len(points))}
	for i, pt := range points {
		if !pt.Valid() {
			return nil, fmt.Errorf("encode: point %d out of range: %v", i, pt)
		}
		seg.Points[i] = trackPoint{
			Lat:       formatCoord(pt.Lat),
			Lon:       formatCoord(pt.Lon),
			Elevation: placeholderElevation,
			Time:      placeholderTime,
		}
	}
	doc := gpxFile{
		Xmlns:   "http://www.topografix.com/GPX/1/1",
		Version: "1.1",
		Creator: creator,
		Tracks:  []track{{Segments: []segment{seg}}},
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Decode parses a GPX document and returns its track points in traversal
// order, across all tracks and segments. Malformed XML, missing coordinates,
// unparseable or out-of-range values, and trackless files all report errors
// wrapping [ErrCorruptRoute].
func Decode(data []byte) ([]geo.Point, error) {
	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRoute, err)
	}
	var points []geo.Point
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, tp := range seg.Points {
				pt, err := tp.point()
				if err != nil {
					return nil, err
				}
				points = append(points, pt)
			}
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no track points", ErrCorruptRoute)
	}
	return points, nil
}

func (tp trackPoint) point() (geo.Point, error) {
	if tp.Lat == "" || tp.Lon == "" {
		return geo.Point{}, fmt.Errorf("%w: track point without coordinates", ErrCorruptRoute)
	}
	lat, err := strconv.ParseFloat(tp.Lat, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%w: bad latitude %q", ErrCorruptRoute, tp.Lat)
	}
	lon, err := strconv.ParseFloat(tp.Lon, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%w: bad longitude %q", ErrCorruptRoute, tp.Lon)
	}
	pt := geo.Point{Lat: lat, Lon: lon}
	if !pt.Valid() {
		return geo.Point{}, fmt.Errorf("%w: coordinate out of range: %v", ErrCorruptRoute, pt)
	}
	return pt, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
