package engine

import "math"

// Shape outlines used by the context's rect, circle, ellipse, pie and line
// calls. Each helper appends closed subpaths in clockwise order (y down).

// AddRect appends a rectangle. Negative sizes are normalized.
func (p *Path) AddRect(x, y, w, h float64) error {
	if !finite(x, y, w, h) {
		return ErrInvalidGeometry
	}
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	p.moveTo(Point{X: x, Y: y})
	p.verbs = append(p.verbs, VerbLineTo, VerbLineTo, VerbLineTo, VerbClose)
	p.points = append(p.points,
		Point{X: x + w, Y: y},
		Point{X: x + w, Y: y + h},
		Point{X: x, Y: y + h},
	)
	return nil
}

// AddEllipse appends a full ellipse as four cubic segments.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) error {
	if !finite(cx, cy, rx, ry) {
		return ErrInvalidGeometry
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	p.moveTo(Point{X: cx + rx, Y: cy})
	p.arcSegments(Point{X: cx, Y: cy}, rx, ry, 0, 0, 2*math.Pi)
	p.verbs = append(p.verbs, VerbClose)
	return nil
}

// AddPie appends a circular sector: center, arc from start over sweep, back
// to the center.
func (p *Path) AddPie(cx, cy, r, start, sweep float64) error {
	if !finite(cx, cy, r, start, sweep) {
		return ErrInvalidGeometry
	}
	sweep = math.Max(-2*math.Pi, math.Min(2*math.Pi, sweep))
	r = math.Abs(r)
	sin, cos := math.Sincos(start)

	p.moveTo(Point{X: cx, Y: cy})
	p.verbs = append(p.verbs, VerbLineTo)
	p.points = append(p.points, Point{X: cx + r*cos, Y: cy + r*sin})
	p.arcSegments(Point{X: cx, Y: cy}, r, r, 0, start, sweep)
	p.verbs = append(p.verbs, VerbClose)
	return nil
}

// AddLine appends an open two-point subpath.
func (p *Path) AddLine(x0, y0, x1, y1 float64) error {
	if !finite(x0, y0, x1, y1) {
		return ErrInvalidGeometry
	}
	p.moveTo(Point{X: x0, Y: y0})
	p.verbs = append(p.verbs, VerbLineTo)
	p.points = append(p.points, Point{X: x1, Y: y1})
	return nil
}
