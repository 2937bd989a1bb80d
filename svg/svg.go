// Package svg reads path outlines out of SVG drawings and writes polylines
// back as minimal SVG documents.
//
// Only the outline-bearing subset of SVG matters here: path, line, polyline,
// polygon, rect, circle and ellipse elements, with group and element
// transforms applied. Presentation (fill, stroke, style) is ignored, and
// primitives that carry no path description — embedded raster images, text —
// are rejected rather than silently skipped.
//
// Coordinates are kept in the SVG convention, with y growing downward; the
// caller flips the axis before geographic projection.
package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gpsart/trace/geom"
)

// ErrParse is reported for drawings that are not well-formed SVG or contain
// invalid attribute data.
var ErrParse = errors.New("malformed drawing")

// ErrUnsupportedElement is reported for drawings containing primitives
// outside the supported outline command set.
var ErrUnsupportedElement = errors.New("unsupported drawing element")

const radPerDeg = math.Pi / 180

// ParseOptions control outline extraction.
type ParseOptions struct {
	// ArcTolerance is the maximum distance, in drawing units, between an
	// elliptical arc and the cubic Béziers that replace it. When zero, a
	// default of 1e-3 of the arc's larger radius is used per arc.
	ArcTolerance float64
}

// Elements that can never contribute an outline and whose presence means the
// drawing is not a pure line drawing.
var unsupportedElements = map[string]bool{
	"image":         true,
	"text":          true,
	"tspan":         true,
	"textPath":      true,
	"use":           true,
	"foreignObject": true,
}

// Non-rendering subtrees that are skipped entirely.
var skippedElements = map[string]bool{
	"defs":           true,
	"symbol":         true,
	"marker":         true,
	"mask":           true,
	"clipPath":       true,
	"pattern":        true,
	"linearGradient": true,
	"radialGradient": true,
	"filter":         true,
	"style":          true,
	"title":          true,
	"desc":           true,
	"metadata":       true,
}

// Parse extracts all path outlines from an SVG document, in document order,
// with group and element transforms applied. Each sub-path of a path element
// becomes its own outline.
func Parse(data []byte, opts ParseOptions) ([]geom.BezPath, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var outlines []geom.BezPath

	// Transforms compose down the element tree; the stack top is the
	// current coordinate system.
	stack := []geom.Affine{geom.Identity}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			name := tok.Name.Local
			if unsupportedElements[name] {
				return nil, fmt.Errorf("%w: <%s>", ErrUnsupportedElement, name)
			}
			if skippedElements[name] {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrParse, err)
				}
				continue
			}

			tf, err := parseTransform(attr(tok, "transform"))
			if err != nil {
				return nil, err
			}
			cur := stack[len(stack)-1].Mul(tf)
			stack = append(stack, cur)

			shapes, err := elementOutlines(tok, opts)
			if err != nil {
				return nil, err
			}
			for _, outline := range shapes {
				outlines = append(outlines, outline.Transform(cur))
			}
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	return outlines, nil
}

// elementOutlines returns the outlines of a single shape element, in its
// local coordinates. Unknown elements (containers, editor metadata) produce
// nothing.
func elementOutlines(el xml.StartElement, opts ParseOptions) ([]geom.BezPath, error) {
	switch el.Name.Local {
	case "path":
		return parsePathData(attr(el, "d"), opts.ArcTolerance)
	case "line":
		v, err := lengths(el, "x1", "y1", "x2", "y2")
		if err != nil {
			return nil, err
		}
		var p geom.BezPath
		p.MoveTo(geom.Pt(v[0], v[1]))
		p.LineTo(geom.Pt(v[2], v[3]))
		return []geom.BezPath{p}, nil
	case "polyline":
		return pointsOutline(attr(el, "points"), false)
	case "polygon":
		return pointsOutline(attr(el, "points"), true)
	case "rect":
		return rectOutline(el, opts)
	case "circle":
		v, err := lengths(el, "cx", "cy", "r")
		if err != nil {
			return nil, err
		}
		return ellipseOutline(geom.Pt(v[0], v[1]), v[2], v[2], opts), nil
	case "ellipse":
		v, err := lengths(el, "cx", "cy", "rx", "ry")
		if err != nil {
			return nil, err
		}
		return ellipseOutline(geom.Pt(v[0], v[1]), v[2], v[3], opts), nil
	default:
		return nil, nil
	}
}

func pointsOutline(points string, closed bool) ([]geom.BezPath, error) {
	coords, err := parseNumberList(points)
	if err != nil {
		return nil, err
	}
	if len(coords) < 4 || len(coords)%2 != 0 {
		return nil, fmt.Errorf("%w: points list with %d coordinates", ErrParse, len(coords))
	}
	var p geom.BezPath
	p.MoveTo(geom.Pt(coords[0], coords[1]))
	for i := 2; i < len(coords); i += 2 {
		p.LineTo(geom.Pt(coords[i], coords[i+1]))
	}
	if closed {
		p.ClosePath()
	}
	return []geom.BezPath{p}, nil
}

func rectOutline(el xml.StartElement, opts ParseOptions) ([]geom.BezPath, error) {
	v, err := lengths(el, "x", "y", "width", "height")
	if err != nil {
		return nil, err
	}
	x, y, w, h := v[0], v[1], v[2], v[3]
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: rect with non-positive size %gx%g", ErrParse, w, h)
	}

	rx, hasRx, err := optionalLength(el, "rx")
	if err != nil {
		return nil, err
	}
	ry, hasRy, err := optionalLength(el, "ry")
	if err != nil {
		return nil, err
	}
	// A lone rx or ry sets both.
	if hasRx && !hasRy {
		ry = rx
	}
	if hasRy && !hasRx {
		rx = ry
	}
	rx = min(rx, w/2)
	ry = min(ry, h/2)

	var p geom.BezPath
	if rx <= 0 || ry <= 0 {
		p.MoveTo(geom.Pt(x, y))
		p.LineTo(geom.Pt(x+w, y))
		p.LineTo(geom.Pt(x+w, y+h))
		p.LineTo(geom.Pt(x, y+h))
		p.ClosePath()
		return []geom.BezPath{p}, nil
	}

	arcTol := opts.ArcTolerance
	if arcTol <= 0 {
		arcTol = 1e-3 * max(rx, ry)
	}
	corner := func(cx, cy, startAngle float64) {
		a := geom.Arc{
			Center:     geom.Pt(cx, cy),
			Radii:      geom.Vec(rx, ry),
			StartAngle: startAngle,
			SweepAngle: math.Pi / 2,
		}
		a.AppendTo(&p, arcTol)
	}
	p.MoveTo(geom.Pt(x+rx, y))
	p.LineTo(geom.Pt(x+w-rx, y))
	corner(x+w-rx, y+ry, -math.Pi/2)
	p.LineTo(geom.Pt(x+w, y+h-ry))
	corner(x+w-rx, y+h-ry, 0)
	p.LineTo(geom.Pt(x+rx, y+h))
	corner(x+rx, y+h-ry, math.Pi/2)
	p.LineTo(geom.Pt(x, y+ry))
	corner(x+rx, y+ry, math.Pi)
	p.ClosePath()
	return []geom.BezPath{p}, nil
}

func ellipseOutline(center geom.Point, rx, ry float64, opts ParseOptions) []geom.BezPath {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	arcTol := opts.ArcTolerance
	if arcTol <= 0 {
		arcTol = 1e-3 * max(rx, ry)
	}
	a := geom.Arc{
		Center:     center,
		Radii:      geom.Vec(rx, ry),
		StartAngle: 0,
		SweepAngle: 2 * math.Pi,
	}
	var p geom.BezPath
	for el := range a.PathElements(arcTol) {
		p.Push(el)
	}
	p.ClosePath()
	return []geom.BezPath{p}
}

// parseTransform parses an SVG transform list (matrix, translate, scale,
// rotate, skewX, skewY) into a single affine transform. The empty string is
// the identity.
func parseTransform(s string) (geom.Affine, error) {
	result := geom.Identity
	s = strings.TrimSpace(s)
	for s != "" {
		open := strings.IndexByte(s, '(')
		end := strings.IndexByte(s, ')')
		if open < 0 || end < open {
			return geom.Affine{}, fmt.Errorf("%w: transform %q", ErrParse, s)
		}
		name := strings.Trim(s[:open], " ,\t\n\r")
		args, err := parseNumberList(s[open+1 : end])
		if err != nil {
			return geom.Affine{}, err
		}
		s = strings.TrimLeft(s[end+1:], " ,\t\n\r")

		var op geom.Affine
		switch {
		case name == "matrix" && len(args) == 6:
			op = geom.Affine{N0: args[0], N1: args[1], N2: args[2], N3: args[3], N4: args[4], N5: args[5]}
		case name == "translate" && len(args) == 1:
			op = geom.Translate(geom.Vec(args[0], 0))
		case name == "translate" && len(args) == 2:
			op = geom.Translate(geom.Vec(args[0], args[1]))
		case name == "scale" && len(args) == 1:
			op = geom.Scale(args[0], args[0])
		case name == "scale" && len(args) == 2:
			op = geom.Scale(args[0], args[1])
		case name == "rotate" && len(args) == 1:
			op = geom.Rotate(args[0] * radPerDeg)
		case name == "rotate" && len(args) == 3:
			op = geom.RotateAbout(args[0]*radPerDeg, geom.Pt(args[1], args[2]))
		case name == "skewX" && len(args) == 1:
			op = geom.Affine{N0: 1, N1: 0, N2: math.Tan(args[0] * radPerDeg), N3: 1, N4: 0, N5: 0}
		case name == "skewY" && len(args) == 1:
			op = geom.Affine{N0: 1, N1: math.Tan(args[0] * radPerDeg), N2: 0, N3: 1, N4: 0, N5: 0}
		default:
			return geom.Affine{}, fmt.Errorf("%w: transform %s with %d arguments", ErrParse, name, len(args))
		}
		result = result.Mul(op)
	}
	return result, nil
}

func parseNumberList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrParse, f)
		}
		out = append(out, v)
	}
	return out, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// lengths parses the named attributes as lengths, treating absent attributes
// as zero (the SVG default for coordinates).
func lengths(el xml.StartElement, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, _, err := optionalLength(el, name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func optionalLength(el xml.StartElement, name string) (float64, bool, error) {
	s := strings.TrimSpace(attr(el, name))
	if s == "" {
		return 0, false, nil
	}
	// User units and px are the same; other units are rare in drawings
	// exported for tracing.
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: attribute %s=%q", ErrParse, name, s)
	}
	return v, true, nil
}
