package stroke

import "math"

// Cap is the shape of an open subpath's ends.
type Cap uint8

const (
	CapButt Cap = iota
	CapSquare
	CapRound
	CapRoundRev
	CapTriangle
	CapTriangleRev
)

// Join is the shape of the corner between two segments.
type Join uint8

const (
	JoinMiterClip Join = iota
	JoinMiterBevel
	JoinMiterRound
	JoinBevel
	JoinRound
)

// Style describes a stroke.
type Style struct {
	Width      float64
	Cap        Cap
	Join       Join
	MiterLimit float64
}

// DefaultStyle returns width 1, butt caps, miter-bevel joins and miter
// limit 4.
func DefaultStyle() Style {
	return Style{
		Width:      1,
		Cap:        CapButt,
		Join:       JoinMiterBevel,
		MiterLimit: 4,
	}
}

// PathElement is one command of an input or output path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a subpath.
type MoveTo struct{ Point Point }

// LineTo adds a line.
type LineTo struct{ Point Point }

// QuadTo adds a quadratic curve.
type QuadTo struct{ Control, Point Point }

// CubicTo adds a cubic curve.
type CubicTo struct{ Control1, Control2, Point Point }

// Close closes the subpath.
type Close struct{}

func (MoveTo) isPathElement()  {}
func (LineTo) isPathElement()  {}
func (QuadTo) isPathElement()  {}
func (CubicTo) isPathElement() {}
func (Close) isPathElement()   {}

// Expander converts stroked paths to fill outlines. It is not safe for
// concurrent use; reuse one per goroutine.
type Expander struct {
	style     Style
	tolerance float64

	forward  *pathBuilder
	backward *pathBuilder
	output   *pathBuilder

	startPt   Point
	startNorm Vec2
	startTan  Vec2
	lastPt    Point
	lastTan   Vec2
	lastNorm  Vec2

	// joins between nearly collinear segments are skipped below this
	joinThresh float64
}

// NewExpander returns an expander for style with a flattening tolerance of
// 0.25.
func NewExpander(style Style) *Expander {
	return &Expander{style: style, tolerance: 0.25}
}

// SetTolerance sets the curve flattening tolerance. Non-positive values are
// ignored.
func (e *Expander) SetTolerance(tolerance float64) {
	if tolerance > 0 {
		e.tolerance = tolerance
	}
}

// Expand returns the fill outline of elements. A zero or negative width
// yields an empty outline.
func (e *Expander) Expand(elements []PathElement) []PathElement {
	if !(e.style.Width > 0) {
		return nil
	}
	e.reset()

	for _, el := range elements {
		switch elem := el.(type) {
		case MoveTo:
			e.finish()
			e.startPt = elem.Point
			e.lastPt = elem.Point
		case LineTo:
			if elem.Point != e.lastPt {
				e.segment(elem.Point.Sub(e.lastPt), elem.Point)
			}
		case QuadTo:
			if elem.Control != e.lastPt || elem.Point != e.lastPt {
				e.polyline(e.flattenQuad(e.lastPt, elem.Control, elem.Point))
			}
		case CubicTo:
			if elem.Control1 != e.lastPt || elem.Control2 != e.lastPt || elem.Point != e.lastPt {
				e.polyline(e.flattenCubic(e.lastPt, elem.Control1, elem.Control2, elem.Point))
			}
		case Close:
			if e.lastPt != e.startPt {
				e.segment(e.startPt.Sub(e.lastPt), e.startPt)
			}
			e.finishClosed()
		}
	}

	e.finish()
	return e.output.elements
}

func (e *Expander) reset() {
	e.forward = newPathBuilder()
	e.backward = newPathBuilder()
	e.output = newPathBuilder()
	e.startPt, e.lastPt = Point{}, Point{}
	e.startNorm, e.startTan = Vec2{}, Vec2{}
	e.lastTan, e.lastNorm = Vec2{}, Vec2{}
	e.joinThresh = 2.0 * e.tolerance / e.style.Width
}

func (e *Expander) segment(tangent Vec2, p1 Point) {
	e.doJoin(tangent)
	e.lastTan = tangent
	e.doLine(tangent, p1)
}

func (e *Expander) polyline(points []Point) {
	for i := 1; i < len(points); i++ {
		tangent := points[i].Sub(points[i-1])
		if tangent.LengthSquared() > 1e-12 {
			e.segment(tangent, points[i])
		}
	}
}

// normal returns the offset vector of a segment: perpendicular to the
// tangent, half the stroke width long.
func (e *Expander) normal(tangent Vec2) Vec2 {
	return tangent.Perp().Scale(0.5 * e.style.Width / tangent.Length())
}

func (e *Expander) doJoin(tan0 Vec2) {
	norm := e.normal(tan0)
	p0 := e.lastPt

	if e.forward.isEmpty() {
		e.forward.moveTo(p0.Add(norm.Neg()))
		e.backward.moveTo(p0.Add(norm))
		e.startTan = tan0
		e.startNorm = norm
		return
	}
	e.joinWithPrevious(p0, norm, tan0)
}

func (e *Expander) joinWithPrevious(p0 Point, norm, tan0 Vec2) {
	ab := e.lastTan
	cd := tan0
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hypot := math.Hypot(cross, dot)

	// Keep both sides connected even when the turn is too small for a join;
	// otherwise flattened curves leave gaps between their segments.
	if dot > 0.0 && math.Abs(cross) < hypot*e.joinThresh {
		e.bevel(p0, norm)
		return
	}

	switch e.style.Join {
	case JoinBevel:
		e.bevel(p0, norm)
	case JoinRound:
		e.round(p0, norm, cross, dot)
	default:
		limitSq := e.style.MiterLimit * e.style.MiterLimit
		if 2.0*hypot < (hypot+dot)*limitSq && cross != 0 {
			e.miter(p0, norm, ab, cd, cross)
			return
		}
		switch e.style.Join {
		case JoinMiterRound:
			e.round(p0, norm, cross, dot)
		case JoinMiterClip:
			e.clippedMiter(p0, norm, ab, cd, cross)
		default:
			e.bevel(p0, norm)
		}
	}
}

func (e *Expander) bevel(p0 Point, norm Vec2) {
	e.forward.lineTo(p0.Add(norm.Neg()))
	e.backward.lineTo(p0.Add(norm))
}

// miter extends the outer side to the intersection of both offset lines.
func (e *Expander) miter(p0 Point, norm, ab, cd Vec2, cross float64) {
	lastNorm := e.normal(ab)

	if cross > 0.0 {
		fpLast := p0.Add(lastNorm.Neg())
		fpThis := p0.Add(norm.Neg())
		h := ab.Cross(fpThis.Sub(fpLast)) / cross
		e.forward.lineTo(fpThis.Add(cd.Scale(-h)))
		e.backward.lineTo(p0)
	} else {
		fpLast := p0.Add(lastNorm)
		fpThis := p0.Add(norm)
		h := ab.Cross(fpThis.Sub(fpLast)) / cross
		e.backward.lineTo(fpThis.Add(cd.Scale(-h)))
		e.forward.lineTo(p0)
	}
	e.bevel(p0, norm)
}

// clippedMiter cuts the miter with a line perpendicular to the corner's
// bisector at MiterLimit * width/2 from the joint.
func (e *Expander) clippedMiter(p0 Point, norm, ab, cd Vec2, cross float64) {
	lastNorm := e.normal(ab)
	outer, inner := e.forward, e.backward
	oPrev, oCur := lastNorm.Neg(), norm.Neg()
	if cross < 0 {
		outer, inner = e.backward, e.forward
		oPrev, oCur = lastNorm, norm
	}

	bis := oPrev.Add(oCur).Normalize()
	if bis == (Vec2{}) {
		bis = ab.Normalize()
	}
	limit := e.style.MiterLimit * 0.5 * e.style.Width

	abDot, cdDot := ab.Dot(bis), cd.Dot(bis)
	if math.Abs(abDot) < 1e-12 || math.Abs(cdDot) < 1e-12 {
		e.bevel(p0, norm)
		return
	}
	s := (limit - oPrev.Dot(bis)) / abDot
	u := (limit - oCur.Dot(bis)) / cdDot

	outer.lineTo(p0.Add(oPrev).Add(ab.Scale(s)))
	outer.lineTo(p0.Add(oCur).Add(cd.Scale(u)))
	inner.lineTo(p0)
	e.bevel(p0, norm)
}

// round sweeps an arc on the outer side from the previous normal to norm.
func (e *Expander) round(p0 Point, norm Vec2, cross, dot float64) {
	lastNorm := e.normal(e.lastTan)

	angle := math.Atan2(cross, dot)
	if angle > 0.0 {
		e.backward.lineTo(p0.Add(norm))
		e.arc(e.forward, p0, lastNorm.Neg(), angle)
	} else {
		e.forward.lineTo(p0.Add(norm.Neg()))
		e.arc(e.backward, p0, lastNorm, angle)
	}
}

func (e *Expander) doLine(tangent Vec2, p1 Point) {
	norm := e.normal(tangent)
	e.forward.lineTo(p1.Add(norm.Neg()))
	e.backward.lineTo(p1.Add(norm))
	e.lastPt = p1
	e.lastNorm = norm
}

// finish emits an open subpath with caps on both ends.
func (e *Expander) finish() {
	if e.forward.isEmpty() {
		return
	}

	e.output.appendPath(e.forward)
	// lastNorm points at the backward side; the cap starts on the forward
	// side, so it gets the negated normal.
	e.applyCap(e.lastPt, e.lastNorm.Neg(), false)
	e.appendReversed(e.backward)
	e.applyCap(e.startPt, e.startNorm, true)

	e.forward = newPathBuilder()
	e.backward = newPathBuilder()
}

// finishClosed emits a closed subpath as two contours.
func (e *Expander) finishClosed() {
	if e.forward.isEmpty() {
		return
	}

	e.doJoin(e.startTan)

	e.output.appendPath(e.forward)
	e.output.close()

	if back := e.backward.elements; len(back) > 0 {
		e.output.moveTo(endPoint(back[len(back)-1]))
	}
	e.appendReversed(e.backward)
	e.output.close()

	e.forward = newPathBuilder()
	e.backward = newPathBuilder()
}

// applyCap draws a cap in a local frame: x along norm (the current point is
// (1, 0), the opposite side (-1, 0)) and y pointing away from the stroke.
// With closePath the cap ends by closing the contour instead of a line to
// (-1, 0).
func (e *Expander) applyCap(center Point, norm Vec2, closePath bool) {
	local := func(x, y float64) Point {
		return Point{
			X: norm.X*x - norm.Y*y + center.X,
			Y: norm.Y*x + norm.X*y + center.Y,
		}
	}
	out := e.output

	switch e.style.Cap {
	case CapSquare:
		out.lineTo(local(1, 1))
		out.lineTo(local(-1, 1))
	case CapRound:
		e.arc(out, center, norm, math.Pi)
	case CapRoundRev:
		out.lineTo(local(1, 1))
		e.arc(out, local(0, 1), norm, -math.Pi)
	case CapTriangle:
		out.lineTo(local(0, 1))
	case CapTriangleRev:
		out.lineTo(local(1, 1))
		out.lineTo(local(0, 0))
		out.lineTo(local(-1, 1))
	}

	if closePath {
		out.close()
	} else {
		out.lineTo(local(-1, 0))
	}
}

// arc appends a circular arc around center, starting at center+norm and
// turning by angle radians, as cubic segments of at most 90 degrees.
func (e *Expander) arc(out *pathBuilder, center Point, norm Vec2, angle float64) {
	n := max(1, int(math.Ceil(math.Abs(angle)/(math.Pi/2)-1e-9)))
	step := angle / float64(n)
	a := norm.Angle()
	radius := norm.Length()

	for range n {
		e.arcSegment(out, center, radius, a, a+step)
		a += step
	}
}

func (e *Expander) arcSegment(out *pathBuilder, center Point, radius, a0, a1 float64) {
	da := a1 - a0
	alpha := math.Sin(da) * (math.Sqrt(4+3*math.Tan(da/2)*math.Tan(da/2)) - 1) / 3

	sin0, cos0 := math.Sincos(a0)
	sin1, cos1 := math.Sincos(a1)

	p1 := Point{X: center.X + radius*cos0, Y: center.Y + radius*sin0}
	p2 := Point{X: center.X + radius*cos1, Y: center.Y + radius*sin1}
	c1 := Point{X: p1.X - alpha*radius*sin0, Y: p1.Y + alpha*radius*cos0}
	c2 := Point{X: p2.X + alpha*radius*sin1, Y: p2.Y - alpha*radius*cos1}

	out.cubicTo(c1, c2, p2)
}

// appendReversed appends pb's segments to the output in reverse order.
func (e *Expander) appendReversed(pb *pathBuilder) {
	elems := pb.elements
	for i := len(elems) - 1; i >= 1; i-- {
		end := endPoint(elems[i-1])
		switch el := elems[i].(type) {
		case LineTo:
			e.output.lineTo(end)
		case QuadTo:
			e.output.quadTo(el.Control, end)
		case CubicTo:
			e.output.cubicTo(el.Control2, el.Control1, end)
		}
	}
}

func (e *Expander) flattenQuad(p0, p1, p2 Point) []Point {
	points := []Point{p0}
	e.flattenQuadRec(p0, p1, p2, &points, 0)
	return points
}

func (e *Expander) flattenQuadRec(p0, p1, p2 Point, points *[]Point, depth int) {
	if depth >= maxFlattenDepth || distanceToLine(p1, p0, p2) < e.tolerance {
		*points = append(*points, p2)
		return
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)
	e.flattenQuadRec(p0, q0, q2, points, depth+1)
	e.flattenQuadRec(q2, q1, p2, points, depth+1)
}

func (e *Expander) flattenCubic(p0, p1, p2, p3 Point) []Point {
	points := []Point{p0}
	e.flattenCubicRec(p0, p1, p2, p3, &points, 0)
	return points
}

func (e *Expander) flattenCubicRec(p0, p1, p2, p3 Point, points *[]Point, depth int) {
	dist := math.Max(distanceToLine(p1, p0, p3), distanceToLine(p2, p0, p3))
	if depth >= maxFlattenDepth || dist < e.tolerance {
		*points = append(*points, p3)
		return
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)
	e.flattenCubicRec(p0, q0, r0, s, points, depth+1)
	e.flattenCubicRec(s, r1, q2, p3, points, depth+1)
}

// maxFlattenDepth bounds curve subdivision at 2^16 segments per curve.
const maxFlattenDepth = 16

func endPoint(el PathElement) Point {
	switch e := el.(type) {
	case MoveTo:
		return e.Point
	case LineTo:
		return e.Point
	case QuadTo:
		return e.Point
	case CubicTo:
		return e.Point
	default:
		return Point{}
	}
}

type pathBuilder struct {
	elements []PathElement
}

func newPathBuilder() *pathBuilder {
	return &pathBuilder{elements: make([]PathElement, 0, 64)}
}

func (b *pathBuilder) isEmpty() bool {
	return len(b.elements) == 0
}

func (b *pathBuilder) moveTo(p Point) {
	b.elements = append(b.elements, MoveTo{Point: p})
}

func (b *pathBuilder) lineTo(p Point) {
	b.elements = append(b.elements, LineTo{Point: p})
}

func (b *pathBuilder) quadTo(c, p Point) {
	b.elements = append(b.elements, QuadTo{Control: c, Point: p})
}

func (b *pathBuilder) cubicTo(c1, c2, p Point) {
	b.elements = append(b.elements, CubicTo{Control1: c1, Control2: c2, Point: p})
}

func (b *pathBuilder) close() {
	b.elements = append(b.elements, Close{})
}

func (b *pathBuilder) appendPath(other *pathBuilder) {
	b.elements = append(b.elements, other.elements...)
}
