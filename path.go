package blend

import "github.com/gogpu/blend/internal/engine"

// Path is an append-only list of drawing commands used by FillPath and
// StrokePath.
//
// Curve and line commands need a current vertex; without one they fail with
// an ErrValidation error carrying the engine's no-matching-vertex code. A
// failed command leaves the path unchanged.
type Path struct {
	p *engine.Path
}

// Rect is an axis-aligned box given by its corners.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{p: engine.NewPath()}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) error {
	return wrap("Path.MoveTo", p.p.MoveTo(x, y))
}

// LineTo adds a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) error {
	return wrap("Path.LineTo", p.p.LineTo(x, y))
}

// QuadTo adds a quadratic Bezier with control (x1, y1) ending at (x2, y2).
func (p *Path) QuadTo(x1, y1, x2, y2 float64) error {
	return wrap("Path.QuadTo", p.p.QuadTo(x1, y1, x2, y2))
}

// CubicTo adds a cubic Bezier ending at (x3, y3).
func (p *Path) CubicTo(x1, y1, x2, y2, x3, y3 float64) error {
	return wrap("Path.CubicTo", p.p.CubicTo(x1, y1, x2, y2, x3, y3))
}

// SmoothQuadTo adds a quadratic Bezier whose control point reflects the
// previous quadratic control through the current point.
func (p *Path) SmoothQuadTo(x2, y2 float64) error {
	return wrap("Path.SmoothQuadTo", p.p.SmoothQuadTo(x2, y2))
}

// SmoothCubicTo adds a cubic Bezier whose first control point reflects the
// previous cubic's second control through the current point.
func (p *Path) SmoothCubicTo(x2, y2, x3, y3 float64) error {
	return wrap("Path.SmoothCubicTo", p.p.SmoothCubicTo(x2, y2, x3, y3))
}

// ArcTo adds an elliptical arc centered at (cx, cy) with radii (rx, ry),
// from angle start over sweep radians. The arc is connected to the current
// point by a line unless forceMoveTo is set or there is no current point.
func (p *Path) ArcTo(cx, cy, rx, ry, start, sweep float64, forceMoveTo bool) error {
	return wrap("Path.ArcTo", p.p.ArcTo(cx, cy, rx, ry, start, sweep, forceMoveTo))
}

// EllipticArcTo adds an SVG-style arc from the current point to (x, y).
func (p *Path) EllipticArcTo(rx, ry, xAxisRotation float64, largeArc, sweep bool, x, y float64) error {
	return wrap("Path.EllipticArcTo", p.p.EllipticArcTo(rx, ry, xAxisRotation, largeArc, sweep, x, y))
}

// Close closes the current subpath.
func (p *Path) Close() error {
	return wrap("Path.Close", p.p.Close())
}

// AddRect appends a closed rectangle.
func (p *Path) AddRect(x, y, w, h float64) error {
	return wrap("Path.AddRect", p.p.AddRect(x, y, w, h))
}

// AddCircle appends a closed circle.
func (p *Path) AddCircle(cx, cy, r float64) error {
	return wrap("Path.AddCircle", p.p.AddEllipse(cx, cy, r, r))
}

// AddEllipse appends a closed ellipse.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) error {
	return wrap("Path.AddEllipse", p.p.AddEllipse(cx, cy, rx, ry))
}

// Len returns the number of commands.
func (p *Path) Len() int { return p.p.Len() }

// Reset removes all commands.
func (p *Path) Reset() { p.p.Reset() }

// LastVertex returns the current point.
func (p *Path) LastVertex() (x, y float64, ok bool) {
	pt, ok := p.p.LastVertex()
	return pt.X, pt.Y, ok
}

// Bounds returns the bounding box of all points, control points included.
func (p *Path) Bounds() (Rect, bool) {
	b, ok := p.p.Bounds()
	return Rect(b), ok
}

// Clone returns an independent copy.
func (p *Path) Clone() *Path {
	return &Path{p: p.p.Clone()}
}
