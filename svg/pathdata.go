package svg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gpsart/trace/geom"
)

// pathParser turns the content of a path "d" attribute into outlines. Every
// sub-path (each moveto, and anything drawn after a closepath without a
// moveto) becomes its own outline; stitching disjoint outlines together is
// the merger's job, not the parser's.
//
// The full command set is supported: M, L, H, V, C, S, Q, T, A and Z, in
// absolute and relative forms, with implicit command repetition and
// smooth-control-point reflection. Arcs are converted to cubic Béziers on the
// spot.
type pathParser struct {
	tokens []string
	pos    int

	outlines []geom.BezPath
	cur      geom.BezPath

	current  geom.Point // pen position
	start    geom.Point // start of the current sub-path, for Z
	lastCtrl geom.Point // last control point, for S/T reflection
	lastCmd  byte

	arcTolerance float64
}

func parsePathData(d string, arcTolerance float64) ([]geom.BezPath, error) {
	p := &pathParser{
		tokens:       tokenizePathData(d),
		arcTolerance: arcTolerance,
	}
	if err := p.run(); err != nil {
		return nil, fmt.Errorf("%w: path data: %v", ErrParse, err)
	}
	p.flush()
	return p.outlines, nil
}

func (p *pathParser) run() error {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		cmd := tok[0]
		if isCommandByte(cmd) {
			p.pos++
		} else {
			// No command letter: repeat the previous command. Subsequent
			// coordinate pairs of a moveto are implicit linetos.
			cmd = p.lastCmd
			switch cmd {
			case 'M':
				cmd = 'L'
			case 'm':
				cmd = 'l'
			case 'Z', 'z':
				// Z takes no coordinates and must not repeat.
				return fmt.Errorf("coordinates after closepath command")
			case 0:
				return fmt.Errorf("coordinates before any moveto command")
			}
		}
		if err := p.command(cmd); err != nil {
			return err
		}
		p.lastCmd = cmd
	}
	return nil
}

func (p *pathParser) command(cmd byte) error {
	relative := cmd >= 'a' && cmd <= 'z'
	upper := cmd
	if relative {
		upper -= 'a' - 'A'
	}

	switch upper {
	case 'M':
		pt, err := p.point(relative)
		if err != nil {
			return err
		}
		p.flush()
		p.cur.MoveTo(pt)
		p.current = pt
		p.start = pt

	case 'L':
		pt, err := p.point(relative)
		if err != nil {
			return err
		}
		p.lineTo(pt)

	case 'H':
		x, err := p.number()
		if err != nil {
			return err
		}
		if relative {
			x += p.current.X
		}
		p.lineTo(geom.Pt(x, p.current.Y))

	case 'V':
		y, err := p.number()
		if err != nil {
			return err
		}
		if relative {
			y += p.current.Y
		}
		p.lineTo(geom.Pt(p.current.X, y))

	case 'C':
		c1, err := p.point(relative)
		if err != nil {
			return err
		}
		c2, err := p.point(relative)
		if err != nil {
			return err
		}
		end, err := p.point(relative)
		if err != nil {
			return err
		}
		p.cubicTo(c1, c2, end)

	case 'S':
		c2, err := p.point(relative)
		if err != nil {
			return err
		}
		end, err := p.point(relative)
		if err != nil {
			return err
		}
		p.cubicTo(p.reflectedControl('C', 'S'), c2, end)

	case 'Q':
		c1, err := p.point(relative)
		if err != nil {
			return err
		}
		end, err := p.point(relative)
		if err != nil {
			return err
		}
		p.quadTo(c1, end)

	case 'T':
		end, err := p.point(relative)
		if err != nil {
			return err
		}
		p.quadTo(p.reflectedControl('Q', 'T'), end)

	case 'A':
		rx, err := p.number()
		if err != nil {
			return err
		}
		ry, err := p.number()
		if err != nil {
			return err
		}
		xRotDeg, err := p.number()
		if err != nil {
			return err
		}
		largeArc, err := p.flag()
		if err != nil {
			return err
		}
		sweep, err := p.flag()
		if err != nil {
			return err
		}
		end, err := p.point(relative)
		if err != nil {
			return err
		}
		p.arcTo(rx, ry, xRotDeg, largeArc, sweep, end)

	case 'Z':
		p.ensureOutline()
		p.cur.ClosePath()
		p.flush()
		p.current = p.start

	default:
		return fmt.Errorf("unknown command %q", string(cmd))
	}
	return nil
}

// ensureOutline makes sure there is an open outline, starting one at the pen
// position for commands that directly follow a closepath.
func (p *pathParser) ensureOutline() {
	if len(p.cur) == 0 {
		p.cur.MoveTo(p.current)
		p.start = p.current
	}
}

func (p *pathParser) flush() {
	if len(p.cur) > 0 {
		p.outlines = append(p.outlines, p.cur)
		p.cur = nil
	}
}

func (p *pathParser) lineTo(pt geom.Point) {
	p.ensureOutline()
	p.cur.LineTo(pt)
	p.current = pt
}

func (p *pathParser) cubicTo(c1, c2, end geom.Point) {
	p.ensureOutline()
	p.cur.CubicTo(c1, c2, end)
	p.current = end
	p.lastCtrl = c2
}

func (p *pathParser) quadTo(c1, end geom.Point) {
	p.ensureOutline()
	p.cur.QuadTo(c1, end)
	p.current = end
	p.lastCtrl = c1
}

func (p *pathParser) arcTo(rx, ry, xRotDeg float64, largeArc, sweep bool, end geom.Point) {
	p.ensureOutline()
	arc, ok := geom.ArcFromEndpoints(p.current, end, rx, ry, xRotDeg*radPerDeg, largeArc, sweep)
	if !ok {
		// Per SVG, a degenerate arc draws as a straight line.
		p.cur.LineTo(end)
		p.current = end
		return
	}
	tol := p.arcTolerance
	if tol <= 0 {
		// Keep the conversion error well below any practical flattening
		// tolerance, relative to the arc's own size.
		tol = 1e-3 * max(arc.Radii.X, arc.Radii.Y)
	}
	arc.AppendTo(&p.cur, tol)
	p.current = end
}

// reflectedControl returns the first control point for a smooth curve
// command: the previous control point reflected about the pen position, or
// the pen position itself when the previous command was not of the matching
// curve family.
func (p *pathParser) reflectedControl(full, smooth byte) geom.Point {
	last := p.lastCmd
	if last >= 'a' && last <= 'z' {
		last -= 'a' - 'A'
	}
	if last != full && last != smooth {
		return p.current
	}
	return geom.Pt(2*p.current.X-p.lastCtrl.X, 2*p.current.Y-p.lastCtrl.Y)
}

func (p *pathParser) point(relative bool) (geom.Point, error) {
	x, err := p.number()
	if err != nil {
		return geom.Point{}, err
	}
	y, err := p.number()
	if err != nil {
		return geom.Point{}, err
	}
	if relative {
		x += p.current.X
		y += p.current.Y
	}
	return geom.Pt(x, y), nil
}

func (p *pathParser) number() (float64, error) {
	if p.pos >= len(p.tokens) {
		return 0, fmt.Errorf("unexpected end of path data after %q", string(p.lastCmd))
	}
	tok := p.tokens[p.pos]
	if isCommandByte(tok[0]) {
		return 0, fmt.Errorf("expected number, got command %q", tok)
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", tok)
	}
	p.pos++
	return v, nil
}

// flag reads an arc flag. Flags are a single 0 or 1 digit and need no
// separator from the following number, so only the token's first byte belongs
// to the flag; the rest is handed back as the next token.
func (p *pathParser) flag() (bool, error) {
	if p.pos >= len(p.tokens) {
		return false, fmt.Errorf("unexpected end of path data after %q", string(p.lastCmd))
	}
	tok := p.tokens[p.pos]
	if isCommandByte(tok[0]) {
		return false, fmt.Errorf("expected flag, got command %q", tok)
	}
	c := tok[0]
	if c != '0' && c != '1' {
		return false, fmt.Errorf("bad flag %q", tok)
	}
	if len(tok) > 1 {
		p.tokens[p.pos] = tok[1:]
	} else {
		p.pos++
	}
	return c == '1', nil
}

func isCommandByte(c byte) bool {
	return (c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') && c != 'e' && c != 'E'
}

// tokenizePathData splits a "d" attribute into command and number tokens.
// Commas and whitespace separate tokens; a minus sign starts a new number
// unless it follows an exponent marker, and a second decimal point starts a
// new number as well.
func tokenizePathData(d string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',':
			flush()
		case isCommandByte(c):
			flush()
			tokens = append(tokens, string(c))
		case c == '-' || c == '+':
			if current.Len() > 0 {
				lastC := current.String()[current.Len()-1]
				if lastC != 'e' && lastC != 'E' {
					flush()
				}
			}
			current.WriteByte(c)
		case c == '.':
			if strings.Contains(current.String(), ".") {
				flush()
			}
			current.WriteByte(c)
		default:
			current.WriteByte(c)
		}
	}
	flush()

	return tokens
}
