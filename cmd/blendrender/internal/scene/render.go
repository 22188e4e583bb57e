package scene

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/blend"
)

// Options tune Render.
type Options struct {
	// Threads overrides the scene thread count when positive. It must not
	// exceed MaxThreads.
	Threads int
	// Log receives per-op debug entries. Nil disables logging.
	Log *zap.Logger
}

type runner struct {
	ctx       *blend.Context
	gradients map[string]*blend.Gradient
	patterns  map[string]*blend.Pattern
	fontPath  string
	face      *blend.FontFace
	fonts     map[float64]*blend.Font
	log       *zap.Logger
}

const defaultFontSize = 16

func (r *runner) font(size float64) (*blend.Font, error) {
	if size == 0 {
		size = defaultFontSize
	}
	if f, ok := r.fonts[size]; ok {
		return f, nil
	}
	if r.face == nil {
		var err error
		if r.fontPath != "" {
			r.face, err = blend.LoadFontFace(r.fontPath)
		} else {
			r.face, err = blend.NewFontFace(goregular.TTF)
		}
		if err != nil {
			return nil, err
		}
		r.log.Debug("font face loaded",
			zap.String("family", r.face.FamilyName()),
			zap.String("full_name", r.face.FullName()))
	}
	f, err := blend.NewFont(r.face, size)
	if err != nil {
		return nil, err
	}
	r.fonts[size] = f
	return f, nil
}

func (r *runner) run(ops []Op) error {
	for i, op := range ops {
		if err := handlers[op.Op].run(r, op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
		if ce := r.log.Check(zap.DebugLevel, "op"); ce != nil {
			ce.Write(zap.Int("index", i), zap.String("op", op.Op), zap.Float64s("args", op.Args))
		}
	}
	return nil
}

// drawInto runs ops on a new context over img and ends it.
func (r *runner) drawInto(img *blend.Image, ops []Op, threads int) error {
	ctx, err := blend.NewContext(img, blend.WithThreadCount(threads))
	if err != nil {
		return err
	}
	r.ctx = ctx
	defer func() { r.ctx = nil }()
	if err := r.run(ops); err != nil {
		_ = ctx.End()
		return err
	}
	return ctx.End()
}

// Render draws s into a new image. The caller owns the returned image.
func Render(s *Scene, opts Options) (*blend.Image, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opts.Threads > MaxThreads {
		return nil, invalid("thread override %d exceeds %d", opts.Threads, MaxThreads)
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("scene", s.Name))

	r := &runner{
		gradients: make(map[string]*blend.Gradient, len(s.Gradients)),
		patterns:  make(map[string]*blend.Pattern, len(s.Patterns)),
		fontPath:  s.Font,
		fonts:     make(map[float64]*blend.Font),
		log:       log,
	}
	defer func() {
		for _, p := range r.patterns {
			p.Release()
		}
	}()

	for name, spec := range s.Gradients {
		g, err := buildGradient(spec)
		if err != nil {
			return nil, fmt.Errorf("gradient %q: %w", name, err)
		}
		r.gradients[name] = g
	}
	for name, spec := range s.Patterns {
		p, err := r.buildPattern(spec)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", name, err)
		}
		r.patterns[name] = p
	}

	threads := s.Threads
	if opts.Threads > 0 {
		threads = opts.Threads
	}
	img, err := blend.NewImage(s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	if err := r.drawInto(img, s.Ops, threads); err != nil {
		img.Dispose()
		return nil, err
	}
	log.Debug("scene rendered",
		zap.Int("width", s.Width),
		zap.Int("height", s.Height),
		zap.Int("threads", threads),
		zap.Int("ops", len(s.Ops)))
	return img, nil
}

func buildGradient(spec GradientSpec) (*blend.Gradient, error) {
	mode, err := extendMode(spec.Extend)
	if err != nil {
		return nil, err
	}
	v := spec.Values
	g := blend.NewGradient()
	switch spec.Type {
	case "linear":
		err = g.CreateLinear(blend.LinearGradientValues{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}, mode)
	case "radial":
		rv := blend.RadialGradientValues{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3], R0: v[4]}
		if len(v) == 6 {
			rv.R1 = v[5]
		}
		err = g.CreateRadial(rv, mode)
	case "conic":
		cv := blend.ConicGradientValues{X0: v[0], Y0: v[1], Angle: blend.Degrees(v[2])}
		if len(v) == 4 {
			cv.Repeat = v[3]
		}
		err = g.CreateConic(cv, mode)
	default:
		err = fmt.Errorf("unknown type %q", spec.Type)
	}
	if err != nil {
		return nil, err
	}
	for _, st := range spec.Stops {
		c := st.Color
		if err := g.AddStopRGBA(st.Offset, c.R, c.G, c.B, c.A); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// buildPattern renders the tile into its own image and wraps it. The
// pattern keeps the pixels alive after the tile image is disposed. An
// empty extend keeps the pattern default, ExtendRepeat.
func (r *runner) buildPattern(spec PatternSpec) (*blend.Pattern, error) {
	mode, err := extendMode(spec.Extend)
	if err != nil {
		return nil, err
	}
	tile, err := blend.NewImage(spec.Tile.Width, spec.Tile.Height)
	if err != nil {
		return nil, err
	}
	defer tile.Dispose()

	if err := r.drawInto(tile, spec.Tile.Ops, 0); err != nil {
		return nil, err
	}
	p, err := blend.NewPattern(tile)
	if err != nil {
		return nil, err
	}
	if spec.Extend != "" {
		if err := p.SetExtendMode(mode); err != nil {
			p.Release()
			return nil, err
		}
	}
	if a := spec.Area; a != nil {
		if err := p.SetArea(a[0], a[1], a[2], a[3]); err != nil {
			p.Release()
			return nil, err
		}
	}
	return p, nil
}
