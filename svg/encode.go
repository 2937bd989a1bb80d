package svg

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gpsart/trace/geom"
)

// EncodeOptions specifies optional settings for [Encode].
type EncodeOptions struct {
	// The maximum precision with which to format coordinates. A value of 0
	// chooses the highest precision necessary to unambiguously represent
	// any given coordinate.
	MaxPrecision int
}

// Encode writes a polyline as a minimal SVG document containing a single
// path, for re-editing a route as a drawing. The caller is responsible for
// the y-axis convention: SVG y grows downward.
func Encode(pl geom.Polyline, opts EncodeOptions) []byte {
	var path geom.BezPath
	for i, pt := range pl {
		if i == 0 {
			path.MoveTo(pt)
		} else {
			path.LineTo(pt)
		}
	}

	bbox := pl.BoundingBox()
	// A small margin keeps the stroke visible at the edges.
	margin := 0.02 * max(bbox.Width(), bbox.Height())
	if margin == 0 {
		margin = 1
	}

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"%g %g %g %g\">\n",
		bbox.X0-margin, bbox.Y0-margin, bbox.Width()+2*margin, bbox.Height()+2*margin)
	sb.WriteString("  <path fill=\"none\" stroke=\"black\" d=\"")
	writePathData(sb, path, opts)
	sb.WriteString("\"/>\n</svg>\n")
	return []byte(sb.String())
}

// writePathData converts a sequence of path elements to SVG path commands and
// writes them to w.
//
// The current implementation doesn't take any special care to produce a
// short string (reducing precision, using relative movement).
func writePathData(w io.Writer, path geom.BezPath, opts EncodeOptions) error {
	space := []byte(" ")
	z := []byte("Z")
	var err error
	write := func(s []byte) {
		if err != nil {
			return
		}
		_, err = w.Write(s)
	}
	writef := func(s string, v ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, s, v...)
	}
	format := func(n float64) string {
		maxPrec := opts.MaxPrecision
		if maxPrec <= 0 {
			return strconv.FormatFloat(n, 'f', -1, 64)
		} else {
			s := strconv.FormatFloat(n, 'f', maxPrec, 64)
			return strings.TrimRight(s, "0")
		}
	}
	for i, el := range path {
		if err != nil {
			return err
		}
		if i > 0 {
			write(space)
		}
		switch el.Kind {
		case geom.MoveToKind:
			writef("M%s,%s", format(el.P0.X), format(el.P0.Y))
		case geom.LineToKind:
			writef("L%s,%s", format(el.P0.X), format(el.P0.Y))
		case geom.QuadToKind:
			writef("Q%s,%s %s,%s",
				format(el.P0.X), format(el.P0.Y),
				format(el.P1.X), format(el.P1.Y))
		case geom.CubicToKind:
			writef("C%s,%s %s,%s %s,%s",
				format(el.P0.X), format(el.P0.Y),
				format(el.P1.X), format(el.P1.Y),
				format(el.P2.X), format(el.P2.Y))
		case geom.ClosePathKind:
			write(z)
		default:
			panic("unreachable")
		}
	}
	return err
}
