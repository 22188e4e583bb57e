package engine

import (
	"math"

	"github.com/gogpu/blend/internal/blend"
	"github.com/gogpu/blend/internal/parallel"
	"github.com/gogpu/blend/internal/stroke"
)

// flattenTolerance is the stroke flattening tolerance in device pixels.
const flattenTolerance = 0.25

// state is one entry of the context's save stack.
type state struct {
	compOp blend.Op
	fill   style
	stroke style
	pen    stroke.Style
	matrix Matrix
}

func defaultState() state {
	black := solidStyle(Color{A: 255})
	return state{
		compOp: blend.OpSrcOver,
		fill:   black,
		stroke: black,
		pen:    stroke.DefaultStyle(),
		matrix: Identity(),
	}
}

func (s state) clone() state {
	s.fill = s.fill.clone()
	s.stroke = s.stroke.clone()
	return s
}

func (s state) release() {
	s.fill.release()
	s.stroke.release()
}

// Context draws into an image. It holds an image reference from
// NewContext until End. A context is not safe for concurrent use; with a
// thread count above zero each draw call composites row bands on an
// internal worker pool and waits for them before returning.
type Context struct {
	img     *Image
	data    ImageData
	pool    *parallel.WorkerPool
	threads int

	cur   state
	saved []state

	raster  *rasterizer
	scratch *Path
	ended   bool
}

// NewContext begins drawing into img. threads is the number of compositing
// workers; zero draws on the calling goroutine.
func NewContext(img *Image, threads int) (*Context, error) {
	if img == nil {
		return nil, ErrInvalidHandle
	}
	if threads < 0 {
		return nil, ErrInvalidValue
	}
	data, err := img.Data()
	if err != nil {
		return nil, err
	}

	c := &Context{
		img:     img.Retain(),
		data:    data,
		threads: threads,
		cur:     defaultState(),
		raster:  newRasterizer(data.Width, data.Height),
		scratch: NewPath(),
	}
	if threads > 0 {
		c.pool = parallel.NewWorkerPool(threads)
	}
	logger().Debug("engine: context begin",
		"width", data.Width, "height", data.Height, "threads", threads)
	return c, nil
}

// End finishes drawing: styles are released, the worker pool stops and the
// image reference is dropped. Further calls do nothing.
func (c *Context) End() error {
	if c.ended {
		return nil
	}
	c.ended = true

	for _, s := range c.saved {
		s.release()
	}
	c.saved = nil
	c.cur.release()
	c.cur = defaultState()

	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
	c.img.Release()
	c.data = ImageData{}
	logger().Debug("engine: context end", "threads", c.threads)
	return nil
}

// Ended reports whether End has been called.
func (c *Context) Ended() bool { return c.ended }

// ThreadCount returns the worker count the context was created with.
func (c *Context) ThreadCount() int { return c.threads }

// CompOp returns the current composition operator.
func (c *Context) CompOp() blend.Op { return c.cur.compOp }

// SavedStateCount returns the depth of the save stack.
func (c *Context) SavedStateCount() int { return len(c.saved) }

// Transform returns the current user-to-device matrix.
func (c *Context) Transform() Matrix { return c.cur.matrix }

// StrokeOptions returns the current stroke parameters.
func (c *Context) StrokeOptions() stroke.Style { return c.cur.pen }

func (c *Context) check() error {
	if c.ended {
		return ErrInvalidState
	}
	return nil
}

// Save pushes a copy of the current state.
func (c *Context) Save() error {
	if err := c.check(); err != nil {
		return err
	}
	c.saved = append(c.saved, c.cur.clone())
	return nil
}

// Restore pops the most recently saved state.
func (c *Context) Restore() error {
	if err := c.check(); err != nil {
		return err
	}
	n := len(c.saved)
	if n == 0 {
		return ErrNoStatesToRestore
	}
	c.cur.release()
	c.cur = c.saved[n-1]
	c.saved[n-1] = state{}
	c.saved = c.saved[:n-1]
	return nil
}

// SetCompOp sets the composition operator for subsequent draws.
func (c *Context) SetCompOp(op blend.Op) error {
	if err := c.check(); err != nil {
		return err
	}
	if !op.Valid() {
		return ErrInvalidValue
	}
	c.cur.compOp = op
	return nil
}

// SetFillColor fills with a solid color.
func (c *Context) SetFillColor(col Color) error {
	return c.setStyle(&c.cur.fill, func() (style, error) { return solidStyle(col), nil })
}

// SetFillGradient fills with a copy of g taken now.
func (c *Context) SetFillGradient(g *Gradient) error {
	return c.setStyle(&c.cur.fill, gradientSource(g))
}

// SetFillPattern fills with a copy of p taken now.
func (c *Context) SetFillPattern(p *Pattern) error {
	return c.setStyle(&c.cur.fill, patternSource(p))
}

// SetStrokeColor strokes with a solid color.
func (c *Context) SetStrokeColor(col Color) error {
	return c.setStyle(&c.cur.stroke, func() (style, error) { return solidStyle(col), nil })
}

// SetStrokeGradient strokes with a copy of g taken now.
func (c *Context) SetStrokeGradient(g *Gradient) error {
	return c.setStyle(&c.cur.stroke, gradientSource(g))
}

// SetStrokePattern strokes with a copy of p taken now.
func (c *Context) SetStrokePattern(p *Pattern) error {
	return c.setStyle(&c.cur.stroke, patternSource(p))
}

func gradientSource(g *Gradient) func() (style, error) {
	return func() (style, error) {
		if g == nil {
			return style{}, ErrInvalidHandle
		}
		return gradientStyle(g), nil
	}
}

func patternSource(p *Pattern) func() (style, error) {
	return func() (style, error) {
		if p == nil {
			return style{}, ErrInvalidHandle
		}
		return patternStyle(p)
	}
}

func (c *Context) setStyle(dst *style, build func() (style, error)) error {
	if err := c.check(); err != nil {
		return err
	}
	s, err := build()
	if err != nil {
		return err
	}
	dst.release()
	*dst = s
	return nil
}

// SetStrokeWidth sets the stroke width in user units. Zero disables
// stroking.
func (c *Context) SetStrokeWidth(width float64) error {
	if err := c.check(); err != nil {
		return err
	}
	if !(width >= 0) || math.IsInf(width, 0) {
		return ErrInvalidValue
	}
	c.cur.pen.Width = width
	return nil
}

// SetStrokeMiterLimit sets the miter limit, as a multiple of half the
// stroke width.
func (c *Context) SetStrokeMiterLimit(limit float64) error {
	if err := c.check(); err != nil {
		return err
	}
	if !(limit >= 0) || math.IsInf(limit, 0) {
		return ErrInvalidValue
	}
	c.cur.pen.MiterLimit = limit
	return nil
}

// SetStrokeJoin sets the join style.
func (c *Context) SetStrokeJoin(join stroke.Join) error {
	if err := c.check(); err != nil {
		return err
	}
	if join > stroke.JoinRound {
		return ErrInvalidValue
	}
	c.cur.pen.Join = join
	return nil
}

// SetStrokeCaps sets the cap style of both subpath ends.
func (c *Context) SetStrokeCaps(cp stroke.Cap) error {
	if err := c.check(); err != nil {
		return err
	}
	if cp > stroke.CapTriangleRev {
		return ErrInvalidValue
	}
	c.cur.pen.Cap = cp
	return nil
}

func (c *Context) transform(m Matrix, args ...float64) error {
	if err := c.check(); err != nil {
		return err
	}
	if !finite(args...) {
		return ErrInvalidValue
	}
	next := c.cur.matrix.Multiply(m)
	if !next.finite() {
		return ErrInvalidValue
	}
	c.cur.matrix = next
	return nil
}

// Translate moves the user-space origin.
func (c *Context) Translate(x, y float64) error {
	return c.transform(TranslateMatrix(x, y), x, y)
}

// Rotate rotates user space by angle radians about its origin.
func (c *Context) Rotate(angle float64) error {
	return c.transform(RotateMatrix(angle), angle)
}

// Scale scales user space about its origin.
func (c *Context) Scale(x, y float64) error {
	return c.transform(ScaleMatrix(x, y), x, y)
}

// ResetTransform restores the identity transform.
func (c *Context) ResetTransform() error {
	if err := c.check(); err != nil {
		return err
	}
	c.cur.matrix = Identity()
	return nil
}

// FillAll composites the fill style over the whole image.
func (c *Context) FillAll() error {
	if err := c.check(); err != nil {
		return err
	}
	c.composite(nil, c.cur.fill)
	return nil
}

// FillRect fills a rectangle.
func (c *Context) FillRect(x, y, w, h float64) error {
	return c.fillShape(func(p *Path) error { return p.AddRect(x, y, w, h) })
}

// FillCircle fills a circle.
func (c *Context) FillCircle(cx, cy, r float64) error {
	return c.fillShape(func(p *Path) error { return p.AddEllipse(cx, cy, r, r) })
}

// FillEllipse fills an ellipse.
func (c *Context) FillEllipse(cx, cy, rx, ry float64) error {
	return c.fillShape(func(p *Path) error { return p.AddEllipse(cx, cy, rx, ry) })
}

// FillPie fills a circular sector.
func (c *Context) FillPie(cx, cy, r, start, sweep float64) error {
	return c.fillShape(func(p *Path) error { return p.AddPie(cx, cy, r, start, sweep) })
}

// FillPath fills p. The path is not modified.
func (c *Context) FillPath(p *Path) error {
	if err := c.check(); err != nil {
		return err
	}
	if p == nil {
		return ErrInvalidHandle
	}
	c.fill(p, c.cur.fill)
	return nil
}

// FillText fills text shaped with font, the baseline starting at (x, y).
func (c *Context) FillText(x, y float64, font *Font, text string) error {
	if err := c.check(); err != nil {
		return err
	}
	if font == nil {
		return ErrFontNotInitialized
	}
	return c.fillShape(func(p *Path) error { return font.AppendText(p, x, y, text) })
}

// StrokeRect strokes a rectangle outline.
func (c *Context) StrokeRect(x, y, w, h float64) error {
	return c.strokeShape(func(p *Path) error { return p.AddRect(x, y, w, h) })
}

// StrokeCircle strokes a circle outline.
func (c *Context) StrokeCircle(cx, cy, r float64) error {
	return c.strokeShape(func(p *Path) error { return p.AddEllipse(cx, cy, r, r) })
}

// StrokeEllipse strokes an ellipse outline.
func (c *Context) StrokeEllipse(cx, cy, rx, ry float64) error {
	return c.strokeShape(func(p *Path) error { return p.AddEllipse(cx, cy, rx, ry) })
}

// StrokeLine strokes a single line segment.
func (c *Context) StrokeLine(x0, y0, x1, y1 float64) error {
	return c.strokeShape(func(p *Path) error { return p.AddLine(x0, y0, x1, y1) })
}

// StrokePath strokes p with the current stroke parameters.
func (c *Context) StrokePath(p *Path) error {
	if err := c.check(); err != nil {
		return err
	}
	if p == nil {
		return ErrInvalidHandle
	}
	c.stroke(p)
	return nil
}

func (c *Context) fillShape(build func(p *Path) error) error {
	if err := c.check(); err != nil {
		return err
	}
	c.scratch.Reset()
	if err := build(c.scratch); err != nil {
		return err
	}
	c.fill(c.scratch, c.cur.fill)
	return nil
}

func (c *Context) strokeShape(build func(p *Path) error) error {
	if err := c.check(); err != nil {
		return err
	}
	c.scratch.Reset()
	if err := build(c.scratch); err != nil {
		return err
	}
	c.stroke(c.scratch)
	return nil
}

func (c *Context) fill(p *Path, s style) {
	if p.Len() == 0 {
		return
	}
	cov, ok := c.raster.rasterize(p, c.cur.matrix)
	if !ok {
		return
	}
	c.composite(&cov, s)
}

// stroke expands p in user space and fills the outline, so non-uniform
// transforms distort the pen the way they distort the geometry.
func (c *Context) stroke(p *Path) {
	pen := c.cur.pen
	if pen.Width == 0 || p.Len() == 0 {
		return
	}

	ex := stroke.NewExpander(pen)
	m := c.cur.matrix
	if scale := math.Sqrt(math.Abs(m.A*m.E - m.B*m.D)); scale > 0 {
		ex.SetTolerance(flattenTolerance / scale)
	}

	outline := pathFromElements(ex.Expand(strokeElements(p)))
	c.fill(outline, c.cur.stroke)
}

// composite blends s onto the image through cov. A nil cov covers the
// whole image.
func (c *Context) composite(cov *coverage, s style) {
	op := c.cur.compOp
	if op == blend.OpDstCopy {
		return
	}

	x0, y0, x1, y1 := 0, 0, c.data.Width, c.data.Height
	var mask []byte
	if cov != nil {
		x0, y0, x1, y1 = cov.box.Min.X, cov.box.Min.Y, cov.box.Max.X, cov.box.Max.Y
		mask = cov.mask.Pix
	}
	w := x1 - x0
	fetch := s.fetcher(c.cur.matrix)
	pix, stride := c.data.Pixels, c.data.Stride

	parallel.Bands(c.pool, y0, y1, func(b0, b1 int) {
		src := make([]byte, w*4)
		for y := b0; y < b1; y++ {
			var rowMask []byte
			if mask != nil {
				rowMask = mask[(y-y0)*w : (y-y0+1)*w]
				if zero(rowMask) {
					continue
				}
			}
			fetch(src, x0, y, w)
			off := y * stride
			blend.Span(op, pix[off+x0*4:off+x1*4], src, rowMask)
		}
	})
}

func zero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func strokeElements(p *Path) []stroke.PathElement {
	out := make([]stroke.PathElement, 0, p.Len())
	pt := func(q Point) stroke.Point { return stroke.Point{X: q.X, Y: q.Y} }

	p.Walk(func(v Verb, pts []Point) {
		switch v {
		case VerbMoveTo:
			out = append(out, stroke.MoveTo{Point: pt(pts[0])})
		case VerbLineTo:
			out = append(out, stroke.LineTo{Point: pt(pts[0])})
		case VerbQuadTo:
			out = append(out, stroke.QuadTo{Control: pt(pts[0]), Point: pt(pts[1])})
		case VerbCubicTo:
			out = append(out, stroke.CubicTo{Control1: pt(pts[0]), Control2: pt(pts[1]), Point: pt(pts[2])})
		case VerbClose:
			out = append(out, stroke.Close{})
		}
	})
	return out
}

func pathFromElements(elems []stroke.PathElement) *Path {
	p := &Path{
		verbs:  make([]Verb, 0, len(elems)),
		points: make([]Point, 0, len(elems)),
	}
	pt := func(q stroke.Point) Point { return Point{X: q.X, Y: q.Y} }

	for _, el := range elems {
		switch e := el.(type) {
		case stroke.MoveTo:
			p.moveTo(pt(e.Point))
		case stroke.LineTo:
			p.verbs = append(p.verbs, VerbLineTo)
			p.points = append(p.points, pt(e.Point))
		case stroke.QuadTo:
			p.verbs = append(p.verbs, VerbQuadTo)
			p.points = append(p.points, pt(e.Control), pt(e.Point))
		case stroke.CubicTo:
			p.verbs = append(p.verbs, VerbCubicTo)
			p.points = append(p.points, pt(e.Control1), pt(e.Control2), pt(e.Point))
		case stroke.Close:
			p.verbs = append(p.verbs, VerbClose)
		}
	}
	return p
}
