package engine

import "math"

// Verb is a path command.
type Verb uint8

// Path commands. Each verb consumes a fixed number of points: MoveTo and
// LineTo one, QuadTo two, CubicTo three, Close none.
const (
	VerbMoveTo Verb = iota
	VerbLineTo
	VerbQuadTo
	VerbCubicTo
	VerbClose
)

func (v Verb) pointCount() int {
	switch v {
	case VerbMoveTo, VerbLineTo:
		return 1
	case VerbQuadTo:
		return 2
	case VerbCubicTo:
		return 3
	default:
		return 0
	}
}

// Rect is an axis-aligned box given by its corners.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Path is an append-only list of drawing commands. A failed command leaves
// the path unchanged.
type Path struct {
	verbs  []Verb
	points []Point

	// start of the current subpath, restored as the current point by Close.
	start Point
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{}
}

// Len returns the number of commands.
func (p *Path) Len() int {
	return len(p.verbs)
}

// Reset removes all commands.
func (p *Path) Reset() {
	p.verbs = p.verbs[:0]
	p.points = p.points[:0]
	p.start = Point{}
}

// Clone returns an independent copy.
func (p *Path) Clone() *Path {
	return &Path{
		verbs:  append([]Verb(nil), p.verbs...),
		points: append([]Point(nil), p.points...),
		start:  p.start,
	}
}

// LastVertex returns the current point. After Close it is the start of the
// closed subpath. ok is false for an empty path.
func (p *Path) LastVertex() (Point, bool) {
	if len(p.verbs) == 0 {
		return Point{}, false
	}
	if p.verbs[len(p.verbs)-1] == VerbClose {
		return p.start, true
	}
	return p.points[len(p.points)-1], true
}

// Bounds returns the box enclosing every stored point, control points
// included. ok is false when the path has no points.
func (p *Path) Bounds() (Rect, bool) {
	if len(p.points) == 0 {
		return Rect{}, false
	}
	r := Rect{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	for _, pt := range p.points {
		r.X0 = math.Min(r.X0, pt.X)
		r.Y0 = math.Min(r.Y0, pt.Y)
		r.X1 = math.Max(r.X1, pt.X)
		r.Y1 = math.Max(r.Y1, pt.Y)
	}
	return r, true
}

// Walk calls fn for every command in order. pts aliases internal storage
// and must not be retained.
func (p *Path) Walk(fn func(v Verb, pts []Point)) {
	i := 0
	for _, v := range p.verbs {
		n := v.pointCount()
		fn(v, p.points[i:i+n])
		i += n
	}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) error {
	if !finite(x, y) {
		return ErrInvalidGeometry
	}
	p.moveTo(Point{X: x, Y: y})
	return nil
}

func (p *Path) moveTo(pt Point) {
	p.verbs = append(p.verbs, VerbMoveTo)
	p.points = append(p.points, pt)
	p.start = pt
}

// current returns the point the next segment starts from. A command
// following Close reopens the subpath at its start.
func (p *Path) current() (Point, error) {
	pt, ok := p.LastVertex()
	if !ok {
		return Point{}, ErrNoMatchingVertex
	}
	return pt, nil
}

// reopen emits the implicit MoveTo needed after Close.
func (p *Path) reopen() {
	if n := len(p.verbs); n > 0 && p.verbs[n-1] == VerbClose {
		p.moveTo(p.start)
	}
}

// LineTo adds a straight segment.
func (p *Path) LineTo(x, y float64) error {
	if !finite(x, y) {
		return ErrInvalidGeometry
	}
	if _, err := p.current(); err != nil {
		return err
	}
	p.reopen()
	p.verbs = append(p.verbs, VerbLineTo)
	p.points = append(p.points, Point{X: x, Y: y})
	return nil
}

// QuadTo adds a quadratic curve with control point (x1, y1).
func (p *Path) QuadTo(x1, y1, x2, y2 float64) error {
	if !finite(x1, y1, x2, y2) {
		return ErrInvalidGeometry
	}
	if _, err := p.current(); err != nil {
		return err
	}
	p.quadTo(Point{X: x1, Y: y1}, Point{X: x2, Y: y2})
	return nil
}

func (p *Path) quadTo(c, end Point) {
	p.reopen()
	p.verbs = append(p.verbs, VerbQuadTo)
	p.points = append(p.points, c, end)
}

// CubicTo adds a cubic curve with control points (x1, y1) and (x2, y2).
func (p *Path) CubicTo(x1, y1, x2, y2, x3, y3 float64) error {
	if !finite(x1, y1, x2, y2, x3, y3) {
		return ErrInvalidGeometry
	}
	if _, err := p.current(); err != nil {
		return err
	}
	p.cubicTo(Point{X: x1, Y: y1}, Point{X: x2, Y: y2}, Point{X: x3, Y: y3})
	return nil
}

func (p *Path) cubicTo(c1, c2, end Point) {
	p.reopen()
	p.verbs = append(p.verbs, VerbCubicTo)
	p.points = append(p.points, c1, c2, end)
}

// reflected returns the first control point of a smooth curve: the previous
// segment's last control point mirrored through the current point when that
// segment has the same kind, otherwise the current point itself.
func (p *Path) reflected(kind Verb, cur Point) Point {
	n := len(p.verbs)
	if n == 0 || p.verbs[n-1] != kind {
		return cur
	}
	ctrl := p.points[len(p.points)-2]
	return Point{X: 2*cur.X - ctrl.X, Y: 2*cur.Y - ctrl.Y}
}

// SmoothQuadTo adds a quadratic curve whose control point continues the
// previous quadratic segment.
func (p *Path) SmoothQuadTo(x2, y2 float64) error {
	if !finite(x2, y2) {
		return ErrInvalidGeometry
	}
	cur, err := p.current()
	if err != nil {
		return err
	}
	p.quadTo(p.reflected(VerbQuadTo, cur), Point{X: x2, Y: y2})
	return nil
}

// SmoothCubicTo adds a cubic curve whose first control point continues the
// previous cubic segment.
func (p *Path) SmoothCubicTo(x2, y2, x3, y3 float64) error {
	if !finite(x2, y2, x3, y3) {
		return ErrInvalidGeometry
	}
	cur, err := p.current()
	if err != nil {
		return err
	}
	p.cubicTo(p.reflected(VerbCubicTo, cur), Point{X: x2, Y: y2}, Point{X: x3, Y: y3})
	return nil
}

// Close connects the current point to the start of the subpath. Closing an
// already closed subpath does nothing.
func (p *Path) Close() error {
	n := len(p.verbs)
	if n == 0 {
		return ErrNoMatchingVertex
	}
	if p.verbs[n-1] == VerbClose {
		return nil
	}
	p.verbs = append(p.verbs, VerbClose)
	return nil
}

// ArcTo adds an elliptical arc around (cx, cy). The arc start is connected
// to the current point with a line, or begins a new subpath when
// forceMoveTo is set or the path is empty. The sweep is clamped to one turn.
func (p *Path) ArcTo(cx, cy, rx, ry, start, sweep float64, forceMoveTo bool) error {
	if !finite(cx, cy, rx, ry, start, sweep) {
		return ErrInvalidGeometry
	}
	sweep = math.Max(-2*math.Pi, math.Min(2*math.Pi, sweep))

	sin, cos := math.Sincos(start)
	p0 := Point{X: cx + rx*cos, Y: cy + ry*sin}
	if _, err := p.current(); err != nil || forceMoveTo {
		p.moveTo(p0)
	} else {
		p.reopen()
		p.verbs = append(p.verbs, VerbLineTo)
		p.points = append(p.points, p0)
	}

	p.arcSegments(Point{X: cx, Y: cy}, rx, ry, 0, start, sweep)
	return nil
}

// arcSegments appends cubic approximations of an arc of the ellipse with
// radii rx, ry rotated by rot, from angle a0 over sweep, in quarter turns
// at most.
func (p *Path) arcSegments(c Point, rx, ry, rot, a0, sweep float64) {
	if sweep == 0 {
		return
	}
	n := int(math.Ceil(math.Abs(sweep)/(math.Pi/2) - 1e-9))
	if n < 1 {
		n = 1
	}
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	sinR, cosR := math.Sincos(rot)
	at := func(x, y float64) Point {
		return Point{
			X: c.X + x*cosR - y*sinR,
			Y: c.Y + x*sinR + y*cosR,
		}
	}

	a := a0
	for i := 0; i < n; i++ {
		b := a + step
		sa, ca := math.Sincos(a)
		sb, cb := math.Sincos(b)
		c1 := at(rx*(ca-k*sa), ry*(sa+k*ca))
		c2 := at(rx*(cb+k*sb), ry*(sb-k*cb))
		end := at(rx*cb, ry*sb)
		p.verbs = append(p.verbs, VerbCubicTo)
		p.points = append(p.points, c1, c2, end)
		a = b
	}
}

// EllipticArcTo adds an SVG-style arc from the current point to (x, y).
// Radii too small to span the endpoints are scaled up; a zero radius
// degrades to a line.
func (p *Path) EllipticArcTo(rx, ry, xAxisRotation float64, largeArc, sweep bool, x, y float64) error {
	if !finite(rx, ry, xAxisRotation, x, y) {
		return ErrInvalidGeometry
	}
	p0, err := p.current()
	if err != nil {
		return err
	}
	p1 := Point{X: x, Y: y}
	if p0 == p1 {
		return nil
	}

	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return p.LineTo(x, y)
	}

	sinPhi, cosPhi := math.Sincos(xAxisRotation)
	dx2 := (p0.X - p1.X) / 2
	dy2 := (p0.Y - p1.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den > 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if largeArc == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	center := Point{
		X: cosPhi*cxp - sinPhi*cyp + (p0.X+p1.X)/2,
		Y: sinPhi*cxp + cosPhi*cyp + (p0.Y+p1.Y)/2,
	}

	ux, uy := (x1p-cxp)/rx, (y1p-cyp)/ry
	vx, vy := (-x1p-cxp)/rx, (-y1p-cyp)/ry
	theta := math.Atan2(uy, ux)
	delta := math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}
	if delta == 0 {
		return p.LineTo(x, y)
	}

	p.reopen()
	p.arcSegments(center, rx, ry, xAxisRotation, theta, delta)
	// Pin the end point; the approximation may be off in the last bits.
	p.points[len(p.points)-1] = p1
	return nil
}
