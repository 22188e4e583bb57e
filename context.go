package blend

import (
	"math"
	"runtime"
	"sync"

	iblend "github.com/gogpu/blend/internal/blend"
	"github.com/gogpu/blend/internal/engine"
	"github.com/gogpu/blend/internal/stroke"
)

// session is the engine side of a Context. It lives apart from the
// wrapper so the GC cleanup can end a session nobody ended.
type session struct {
	ec   *engine.Context
	once sync.Once
	err  error
}

func (s *session) end(byCleanup bool) error {
	s.once.Do(func() {
		s.err = wrap("Context.End", s.ec.End())
		if byCleanup {
			Logger().Warn("blend: context ended by GC cleanup, call End",
				"threads", s.ec.ThreadCount())
		}
	})
	return s.err
}

// Matrix is a 2D affine transformation:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// StrokeOptions is the current stroke configuration of a Context.
type StrokeOptions struct {
	Width      float64
	MiterLimit float64
	Join       StrokeJoin
	Cap        StrokeCap
}

// Context is a drawing session over an Image. It is open from NewContext
// until End; after End every drawing and state call fails with an
// ErrState error.
//
// The context holds its own reference to the image, so the image may be
// disposed while drawing. A Context is not safe for concurrent use.
//
// Example:
//
//	img, _ := blend.NewImage(256, 256)
//	defer img.Dispose()
//
//	ctx, _ := blend.NewContext(img)
//	defer ctx.Close()
//
//	ctx.SetFillStyleRGB(255, 0, 0)
//	ctx.FillCircle(128, 128, 64)
//	ctx.End()
type Context struct {
	s       *session
	cleanup runtime.Cleanup
}

// NewContext begins a drawing session on img.
func NewContext(img *Image, opts ...ContextOption) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	eimg, err := img.handle("NewContext")
	if err != nil {
		return nil, err
	}
	if o.threads < 0 {
		return nil, wrap("NewContext", engine.ErrInvalidValue)
	}
	ec, err := engine.NewContext(eimg, o.threads)
	if err != nil {
		return nil, wrap("NewContext", err)
	}
	if err := ec.SetCompOp(iblend.Op(o.compOp)); err != nil {
		_ = ec.End()
		return nil, wrap("NewContext", err)
	}

	s := &session{ec: ec}
	c := &Context{s: s}
	c.cleanup = runtime.AddCleanup(c, func(s *session) { _ = s.end(true) }, s)
	Logger().Debug("blend: context begin",
		"width", eimg.Width(), "height", eimg.Height(), "threads", o.threads)
	return c, nil
}

// End finishes the session and releases its image reference. Calling End
// again does nothing.
func (c *Context) End() error {
	c.cleanup.Stop()
	return c.s.end(false)
}

// Close calls End. It lets a Context be closed with defer.
func (c *Context) Close() error {
	return c.End()
}

// Ended reports whether the session has ended.
func (c *Context) Ended() bool { return c.s.ec.Ended() }

// ThreadCount returns the number of compositing workers.
func (c *Context) ThreadCount() int { return c.s.ec.ThreadCount() }

// CompOp returns the current composition operator.
func (c *Context) CompOp() CompOp { return CompOp(c.s.ec.CompOp()) }

// SavedStateCount returns the depth of the state stack.
func (c *Context) SavedStateCount() int { return c.s.ec.SavedStateCount() }

// Transform returns the current user-to-device transformation.
func (c *Context) Transform() Matrix { return Matrix(c.s.ec.Transform()) }

// StrokeOptions returns the current stroke configuration.
func (c *Context) StrokeOptions() StrokeOptions {
	st := c.s.ec.StrokeOptions()
	return StrokeOptions{
		Width:      st.Width,
		MiterLimit: st.MiterLimit,
		Join:       StrokeJoin(st.Join),
		Cap:        StrokeCap(st.Cap),
	}
}

// Save pushes the current state: styles, stroke options, composition
// operator and transformation.
func (c *Context) Save() error {
	return wrap("Context.Save", c.s.ec.Save())
}

// Restore pops the most recently saved state. Without a saved state it
// fails with an ErrValidation error.
func (c *Context) Restore() error {
	return wrap("Context.Restore", c.s.ec.Restore())
}

// SetCompOp sets the composition operator.
func (c *Context) SetCompOp(op CompOp) error {
	return wrap("Context.SetCompOp", c.s.ec.SetCompOp(iblend.Op(op)))
}

// SetFillStyle sets the fill paint to a Color, *Gradient or *Pattern.
// Gradients and patterns are copied; later changes to them do not affect
// the context.
func (c *Context) SetFillStyle(s Style) error {
	return c.setStyle("Context.SetFillStyle", s, true)
}

// SetFillStyleRGB sets an opaque fill color.
func (c *Context) SetFillStyleRGB(r, g, b uint8) error {
	return c.SetFillStyleRGBA(r, g, b, 255)
}

// SetFillStyleRGBA sets a fill color.
func (c *Context) SetFillStyleRGBA(r, g, b, a uint8) error {
	return wrap("Context.SetFillStyleRGBA", c.s.ec.SetFillColor(RGBA(r, g, b, a).engine()))
}

// SetFillStyleGradient sets a gradient fill.
func (c *Context) SetFillStyleGradient(g *Gradient) error {
	return c.setStyle("Context.SetFillStyleGradient", g, true)
}

// SetFillStylePattern sets a pattern fill.
func (c *Context) SetFillStylePattern(p *Pattern) error {
	return c.setStyle("Context.SetFillStylePattern", p, true)
}

// SetStrokeStyle sets the stroke paint to a Color, *Gradient or *Pattern.
func (c *Context) SetStrokeStyle(s Style) error {
	return c.setStyle("Context.SetStrokeStyle", s, false)
}

// SetStrokeStyleRGB sets an opaque stroke color.
func (c *Context) SetStrokeStyleRGB(r, g, b uint8) error {
	return c.SetStrokeStyleRGBA(r, g, b, 255)
}

// SetStrokeStyleRGBA sets a stroke color.
func (c *Context) SetStrokeStyleRGBA(r, g, b, a uint8) error {
	return wrap("Context.SetStrokeStyleRGBA", c.s.ec.SetStrokeColor(RGBA(r, g, b, a).engine()))
}

// SetStrokeStyleGradient sets a gradient stroke.
func (c *Context) SetStrokeStyleGradient(g *Gradient) error {
	return c.setStyle("Context.SetStrokeStyleGradient", g, false)
}

// SetStrokeStylePattern sets a pattern stroke.
func (c *Context) SetStrokeStylePattern(p *Pattern) error {
	return c.setStyle("Context.SetStrokeStylePattern", p, false)
}

func (c *Context) setStyle(op string, s Style, fill bool) error {
	ec := c.s.ec
	var err error
	switch v := s.(type) {
	case Color:
		if fill {
			err = ec.SetFillColor(v.engine())
		} else {
			err = ec.SetStrokeColor(v.engine())
		}
	case *Gradient:
		var g *engine.Gradient
		if v != nil {
			g = v.g
		}
		if fill {
			err = ec.SetFillGradient(g)
		} else {
			err = ec.SetStrokeGradient(g)
		}
	case *Pattern:
		var p *engine.Pattern
		if v != nil {
			p = v.p
		}
		if fill {
			err = ec.SetFillPattern(p)
		} else {
			err = ec.SetStrokePattern(p)
		}
	default:
		err = engine.ErrInvalidHandle
		if ec.Ended() {
			err = engine.ErrInvalidState
		}
	}
	return wrap(op, err)
}

// SetStrokeWidth sets the stroke width. Zero disables stroking; negative
// and non-finite widths are rejected.
func (c *Context) SetStrokeWidth(width float64) error {
	return wrap("Context.SetStrokeWidth", c.s.ec.SetStrokeWidth(width))
}

// SetStrokeMiterLimit sets the miter limit as a multiple of half the
// stroke width.
func (c *Context) SetStrokeMiterLimit(limit float64) error {
	return wrap("Context.SetStrokeMiterLimit", c.s.ec.SetStrokeMiterLimit(limit))
}

// SetStrokeJoin sets the join style.
func (c *Context) SetStrokeJoin(join StrokeJoin) error {
	return wrap("Context.SetStrokeJoin", c.s.ec.SetStrokeJoin(stroke.Join(join)))
}

// SetStrokeCaps sets the cap style of both ends of every open subpath.
func (c *Context) SetStrokeCaps(cp StrokeCap) error {
	return wrap("Context.SetStrokeCaps", c.s.ec.SetStrokeCaps(stroke.Cap(cp)))
}

// Translate moves the origin by (x, y) in user space.
func (c *Context) Translate(x, y float64) error {
	return wrap("Context.Translate", c.s.ec.Translate(x, y))
}

// Rotate rotates user space by angle radians about the origin.
func (c *Context) Rotate(angle float64) error {
	return wrap("Context.Rotate", c.s.ec.Rotate(angle))
}

// RotateAbout rotates user space by angle radians about (x, y).
func (c *Context) RotateAbout(angle, x, y float64) error {
	if err := c.Translate(x, y); err != nil {
		return err
	}
	if err := c.Rotate(angle); err != nil {
		return err
	}
	return c.Translate(-x, -y)
}

// Scale scales user space by (x, y).
func (c *Context) Scale(x, y float64) error {
	return wrap("Context.Scale", c.s.ec.Scale(x, y))
}

// ResetTransform restores the identity transformation.
func (c *Context) ResetTransform() error {
	return wrap("Context.ResetTransform", c.s.ec.ResetTransform())
}

// FillAll fills the whole image with the fill style.
func (c *Context) FillAll() error {
	return wrap("Context.FillAll", c.s.ec.FillAll())
}

// FillRect fills the w x h rectangle at (x, y).
func (c *Context) FillRect(x, y, w, h float64) error {
	return wrap("Context.FillRect", c.s.ec.FillRect(x, y, w, h))
}

// FillCircle fills a circle.
func (c *Context) FillCircle(cx, cy, r float64) error {
	return wrap("Context.FillCircle", c.s.ec.FillCircle(cx, cy, r))
}

// FillEllipse fills an axis-aligned ellipse.
func (c *Context) FillEllipse(cx, cy, rx, ry float64) error {
	return wrap("Context.FillEllipse", c.s.ec.FillEllipse(cx, cy, rx, ry))
}

// FillPie fills the circular sector from angle start over sweep radians.
func (c *Context) FillPie(cx, cy, r, start, sweep float64) error {
	return wrap("Context.FillPie", c.s.ec.FillPie(cx, cy, r, start, sweep))
}

// FillPath fills p with the non-zero rule.
func (c *Context) FillPath(p *Path) error {
	var ep *engine.Path
	if p != nil {
		ep = p.p
	}
	return wrap("Context.FillPath", c.s.ec.FillPath(ep))
}

// FillUTF8Text fills text with its baseline origin at (x, y). The text is
// normalized to NFC before glyph lookup; invalid UTF-8 is rejected.
func (c *Context) FillUTF8Text(x, y float64, font *Font, text string) error {
	var ef *engine.Font
	if font != nil {
		ef = font.f
	}
	return wrap("Context.FillUTF8Text", c.s.ec.FillText(x, y, ef, text))
}

// StrokeRect strokes the outline of a rectangle.
func (c *Context) StrokeRect(x, y, w, h float64) error {
	return wrap("Context.StrokeRect", c.s.ec.StrokeRect(x, y, w, h))
}

// StrokeCircle strokes the outline of a circle.
func (c *Context) StrokeCircle(cx, cy, r float64) error {
	return wrap("Context.StrokeCircle", c.s.ec.StrokeCircle(cx, cy, r))
}

// StrokeEllipse strokes the outline of an ellipse.
func (c *Context) StrokeEllipse(cx, cy, rx, ry float64) error {
	return wrap("Context.StrokeEllipse", c.s.ec.StrokeEllipse(cx, cy, rx, ry))
}

// StrokeLine strokes the segment from (x0, y0) to (x1, y1).
func (c *Context) StrokeLine(x0, y0, x1, y1 float64) error {
	return wrap("Context.StrokeLine", c.s.ec.StrokeLine(x0, y0, x1, y1))
}

// StrokePath strokes p with the current stroke options.
func (c *Context) StrokePath(p *Path) error {
	var ep *engine.Path
	if p != nil {
		ep = p.p
	}
	return wrap("Context.StrokePath", c.s.ec.StrokePath(ep))
}

// Degrees converts degrees to radians.
func Degrees(deg float64) float64 {
	return deg * math.Pi / 180
}
