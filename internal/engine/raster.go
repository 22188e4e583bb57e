package engine

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// maxCurveSegments bounds the lines a single curve flattens into.
const maxCurveSegments = 1 << 12

// coverage is an 8-bit antialiased mask over a device-space box.
type coverage struct {
	box  image.Rectangle
	mask *image.Alpha
}

// rasterizer turns paths into coverage masks. Geometry is transformed and
// flattened here, clipped to the target, and accumulated with
// golang.org/x/image/vector. Overlapping contours are unioned, which
// matches a non-zero fill for the outlines this package produces.
type rasterizer struct {
	z        vector.Rasterizer
	maskBuf  []byte
	polygons [][]Point
	width    int
	height   int
}

func newRasterizer(width, height int) *rasterizer {
	return &rasterizer{width: width, height: height}
}

// flatten converts p to device-space polygons under m. Subpaths containing
// non-finite coordinates after the transform are dropped.
func (r *rasterizer) flatten(p *Path, m Matrix) {
	for i := range r.polygons {
		r.polygons[i] = r.polygons[i][:0]
	}
	r.polygons = r.polygons[:0]

	var cur []Point
	bad := false
	flush := func() {
		if len(cur) >= 3 && !bad {
			r.polygons = append(r.polygons, cur)
		}
		cur, bad = nil, false
	}
	last := func() Point { return cur[len(cur)-1] }
	add := func(pts ...Point) {
		for _, pt := range pts {
			if !finite(pt.X, pt.Y) {
				bad = true
			}
			cur = append(cur, pt)
		}
	}

	p.Walk(func(v Verb, pts []Point) {
		switch v {
		case VerbMoveTo:
			flush()
			cur = r.nextPolygon()
			add(m.Apply(pts[0]))
		case VerbLineTo:
			add(m.Apply(pts[0]))
		case VerbQuadTo:
			a := last()
			b, c := m.Apply(pts[0]), m.Apply(pts[1])
			n := segmentCount(devSquared(a, b, c))
			for i := 1; i < n; i++ {
				t := float64(i) / float64(n)
				add(quadAt(a, b, c, t))
			}
			add(c)
		case VerbCubicTo:
			a := last()
			b, c, d := m.Apply(pts[0]), m.Apply(pts[1]), m.Apply(pts[2])
			n := segmentCount(max(devSquared(a, b, d), devSquared(a, c, d)))
			for i := 1; i < n; i++ {
				t := float64(i) / float64(n)
				add(cubicAt(a, b, c, d, t))
			}
			add(d)
		case VerbClose:
			flush()
		}
	})
	flush()
}

// nextPolygon reuses a point buffer left over from a previous call.
func (r *rasterizer) nextPolygon() []Point {
	n := len(r.polygons)
	if n < cap(r.polygons) {
		if buf := r.polygons[:n+1][n]; buf != nil {
			return buf[:0]
		}
	}
	return make([]Point, 0, 16)
}

// devSquared measures how far b deviates from the chord (a, c).
func devSquared(a, b, c Point) float64 {
	dx := a.X - 2*b.X + c.X
	dy := a.Y - 2*b.Y + c.Y
	return dx*dx + dy*dy
}

func segmentCount(devsq float64) int {
	if !(devsq >= 0.333) {
		return 1
	}
	n := 1 + math.Sqrt(math.Sqrt(3*devsq))
	if n > maxCurveSegments {
		return maxCurveSegments
	}
	return int(n)
}

func quadAt(a, b, c Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*a.X + 2*u*t*b.X + t*t*c.X,
		Y: u*u*a.Y + 2*u*t*b.Y + t*t*c.Y,
	}
}

func cubicAt(a, b, c, d Point, t float64) Point {
	u := 1 - t
	uu, tt := u*u, t*t
	return Point{
		X: uu*u*a.X + 3*uu*t*b.X + 3*u*tt*c.X + tt*t*d.X,
		Y: uu*u*a.Y + 3*uu*t*b.Y + 3*u*tt*c.Y + tt*t*d.Y,
	}
}

// rasterize computes the coverage of p under m. ok is false when nothing
// inside the target is covered.
func (r *rasterizer) rasterize(p *Path, m Matrix) (cov coverage, ok bool) {
	r.flatten(p, m)
	if len(r.polygons) == 0 {
		return coverage{}, false
	}

	box, ok := r.bounds()
	if !ok {
		return coverage{}, false
	}
	w, h := box.Dx(), box.Dy()

	r.z.Reset(w, h)
	r.z.DrawOp = draw.Src
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	for _, poly := range r.polygons {
		prev := poly[len(poly)-1]
		for _, pt := range poly {
			r.edge(
				Point{X: prev.X - ox, Y: prev.Y - oy},
				Point{X: pt.X - ox, Y: pt.Y - oy},
				float64(w), float64(h),
			)
			prev = pt
		}
	}

	if cap(r.maskBuf) < w*h {
		r.maskBuf = make([]byte, w*h)
	}
	mask := &image.Alpha{
		Pix:    r.maskBuf[:w*h],
		Stride: w,
		Rect:   image.Rect(0, 0, w, h),
	}
	r.z.Draw(mask, mask.Rect, image.Opaque, image.Point{})
	return coverage{box: box, mask: mask}, true
}

// bounds returns the integer device box of the polygons clipped to the
// target.
func (r *rasterizer) bounds() (image.Rectangle, bool) {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, poly := range r.polygons {
		for _, pt := range poly {
			x0, x1 = math.Min(x0, pt.X), math.Max(x1, pt.X)
			y0, y1 = math.Min(y0, pt.Y), math.Max(y1, pt.Y)
		}
	}
	clamp := func(v float64, hi int) int {
		return int(math.Max(0, math.Min(float64(hi), v)))
	}
	box := image.Rect(
		clamp(math.Floor(x0), r.width),
		clamp(math.Floor(y0), r.height),
		clamp(math.Ceil(x1), r.width),
		clamp(math.Ceil(y1), r.height),
	)
	return box, !box.Empty()
}

// edge adds the part of segment (a, b) that affects coverage inside
// [0, w] x [0, h]. Parts outside the box horizontally are projected onto
// its nearest vertical side, which keeps every row's winding sum intact:
// the rasterizer accumulates coverage across row ends.
func (r *rasterizer) edge(a, b Point, w, h float64) {
	if a.Y == b.Y {
		return
	}
	if (a.Y <= 0 && b.Y <= 0) || (a.Y >= h && b.Y >= h) {
		return
	}
	a, b = clipY(a, b, 0, h)

	ts := [4]float64{0, 1, 1, 1}
	n := 1
	for _, xc := range [2]float64{0, w} {
		if (a.X < xc) != (b.X < xc) && a.X != b.X {
			ts[n] = (xc - a.X) / (b.X - a.X)
			n++
		}
	}
	if n == 3 && ts[2] < ts[1] {
		ts[1], ts[2] = ts[2], ts[1]
	}
	ts[n] = 1

	for i := range n {
		p := lerpPoint(a, b, ts[i])
		q := lerpPoint(a, b, ts[i+1])
		if p.Y == q.Y {
			continue
		}
		mid := (p.X + q.X) / 2
		switch {
		case mid >= w:
			p.X, q.X = w, w
		case mid <= 0:
			p.X, q.X = 0, 0
		default:
			p.X = math.Max(0, math.Min(w, p.X))
			q.X = math.Max(0, math.Min(w, q.X))
		}
		r.z.MoveTo(float32(p.X), float32(p.Y))
		r.z.LineTo(float32(q.X), float32(q.Y))
	}
}

// clipY clips a segment that crosses the band [y0, y1] to it.
func clipY(a, b Point, y0, y1 float64) (Point, Point) {
	clip := func(p Point) Point {
		switch {
		case p.Y < y0:
			return lerpPoint(a, b, (y0-a.Y)/(b.Y-a.Y))
		case p.Y > y1:
			return lerpPoint(a, b, (y1-a.Y)/(b.Y-a.Y))
		}
		return p
	}
	ca, cb := clip(a), clip(b)
	ca.Y = math.Max(y0, math.Min(y1, ca.Y))
	cb.Y = math.Max(y0, math.Min(y1, cb.Y))
	return ca, cb
}

func lerpPoint(a, b Point, t float64) Point {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
