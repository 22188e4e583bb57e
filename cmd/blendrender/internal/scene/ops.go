package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/blend"
)

type need uint8

const (
	needColor need = 1 << iota
	needGradient
	needPattern
	needPath
	needText
)

// handler describes one op: the argument counts it accepts, the other
// fields it requires and the context call it performs.
type handler struct {
	args  []int
	need  need
	value func(string) error
	run   func(r *runner, op Op) error
}

func (h handler) check(op Op) error {
	want := h.args
	if want == nil {
		want = []int{0}
	}
	if !slices.Contains(want, len(op.Args)) {
		return fmt.Errorf("got %d args, want %v", len(op.Args), want)
	}
	if h.need&needColor != 0 && op.Color == nil {
		return errors.New("missing color")
	}
	if h.need&needGradient != 0 && op.Gradient == "" {
		return errors.New("missing gradient")
	}
	if h.need&needPattern != 0 && op.Pattern == "" {
		return errors.New("missing pattern")
	}
	if h.need&needPath != 0 {
		if err := checkPath(op.Path); err != nil {
			return err
		}
	}
	if h.need&needText != 0 && op.Size < 0 {
		return errors.New("negative font size")
	}
	if h.value != nil {
		return h.value(op.Value)
	}
	return nil
}

// gradientTypes lists the accepted value counts of each gradient type.
var gradientTypes = map[string][]int{
	"linear": {4},
	"radial": {5, 6},
	"conic":  {3, 4},
}

var compOps = map[string]blend.CompOp{
	"src_over": blend.CompOpSrcOver,
	"src_copy": blend.CompOpSrcCopy,
	"src_in":   blend.CompOpSrcIn,
	"src_out":  blend.CompOpSrcOut,
	"src_atop": blend.CompOpSrcAtop,
	"dst_over": blend.CompOpDstOver,
	"dst_copy": blend.CompOpDstCopy,
	"dst_in":   blend.CompOpDstIn,
	"dst_out":  blend.CompOpDstOut,
	"dst_atop": blend.CompOpDstAtop,
	"xor":      blend.CompOpXor,
	"clear":    blend.CompOpClear,
	"plus":     blend.CompOpPlus,
	"modulate": blend.CompOpModulate,
}

var joins = map[string]blend.StrokeJoin{
	"miter_clip":  blend.JoinMiterClip,
	"miter_bevel": blend.JoinMiterBevel,
	"miter_round": blend.JoinMiterRound,
	"bevel":       blend.JoinBevel,
	"round":       blend.JoinRound,
}

var caps = map[string]blend.StrokeCap{
	"butt":         blend.CapButt,
	"square":       blend.CapSquare,
	"round":        blend.CapRound,
	"round_rev":    blend.CapRoundRev,
	"triangle":     blend.CapTriangle,
	"triangle_rev": blend.CapTriangleRev,
}

func lookup[T any](kind string, m map[string]T) func(string) error {
	return func(v string) error {
		if _, ok := m[v]; !ok {
			return fmt.Errorf("unknown %s %q", kind, v)
		}
		return nil
	}
}

func extendMode(s string) (blend.ExtendMode, error) {
	switch s {
	case "", "pad":
		return blend.ExtendPad, nil
	case "repeat":
		return blend.ExtendRepeat, nil
	case "reflect":
		return blend.ExtendReflect, nil
	default:
		return 0, fmt.Errorf("unknown extend mode %q", s)
	}
}

func color(c *Color) blend.Color {
	return blend.RGBA(c.R, c.G, c.B, c.A)
}

// handlers maps op names to context calls.
var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"save":            {run: func(r *runner, _ Op) error { return r.ctx.Save() }},
		"restore":         {run: func(r *runner, _ Op) error { return r.ctx.Restore() }},
		"reset_transform": {run: func(r *runner, _ Op) error { return r.ctx.ResetTransform() }},
		"fill_all":        {run: func(r *runner, _ Op) error { return r.ctx.FillAll() }},

		"comp_op": {value: lookup("comp op", compOps), run: func(r *runner, op Op) error {
			return r.ctx.SetCompOp(compOps[op.Value])
		}},
		"stroke_join": {value: lookup("join", joins), run: func(r *runner, op Op) error {
			return r.ctx.SetStrokeJoin(joins[op.Value])
		}},
		"stroke_caps": {value: lookup("cap", caps), run: func(r *runner, op Op) error {
			return r.ctx.SetStrokeCaps(caps[op.Value])
		}},

		"fill_color": {need: needColor, run: func(r *runner, op Op) error {
			return r.ctx.SetFillStyle(color(op.Color))
		}},
		"stroke_color": {need: needColor, run: func(r *runner, op Op) error {
			return r.ctx.SetStrokeStyle(color(op.Color))
		}},
		"fill_gradient": {need: needGradient, run: func(r *runner, op Op) error {
			return r.ctx.SetFillStyleGradient(r.gradients[op.Gradient])
		}},
		"stroke_gradient": {need: needGradient, run: func(r *runner, op Op) error {
			return r.ctx.SetStrokeStyleGradient(r.gradients[op.Gradient])
		}},
		"fill_pattern": {need: needPattern, run: func(r *runner, op Op) error {
			return r.ctx.SetFillStylePattern(r.patterns[op.Pattern])
		}},
		"stroke_pattern": {need: needPattern, run: func(r *runner, op Op) error {
			return r.ctx.SetStrokeStylePattern(r.patterns[op.Pattern])
		}},

		"stroke_width": {args: []int{1}, run: func(r *runner, op Op) error {
			return r.ctx.SetStrokeWidth(op.Args[0])
		}},
		"miter_limit": {args: []int{1}, run: func(r *runner, op Op) error {
			return r.ctx.SetStrokeMiterLimit(op.Args[0])
		}},
		"translate": {args: []int{2}, run: func(r *runner, op Op) error {
			return r.ctx.Translate(op.Args[0], op.Args[1])
		}},
		"rotate": {args: []int{1, 3}, run: func(r *runner, op Op) error {
			a := op.Args
			if len(a) == 3 {
				return r.ctx.RotateAbout(blend.Degrees(a[0]), a[1], a[2])
			}
			return r.ctx.Rotate(blend.Degrees(a[0]))
		}},
		"scale": {args: []int{1, 2}, run: func(r *runner, op Op) error {
			a := op.Args
			if len(a) == 1 {
				return r.ctx.Scale(a[0], a[0])
			}
			return r.ctx.Scale(a[0], a[1])
		}},

		"fill_rect": {args: []int{4}, run: func(r *runner, op Op) error {
			a := op.Args
			return r.ctx.FillRect(a[0], a[1], a[2], a[3])
		}},
		"fill_circle": {args: []int{3}, run: func(r *runner, op Op) error {
			a := op.Args
			return r.ctx.FillCircle(a[0], a[1], a[2])
		}},
		"fill_ellipse": {args: []int{4}, run: func(r *runner, op Op) error {
			a := op.Args
			return r.ctx.FillEllipse(a[0], a[1], a[2], a[3])
		}},
		"fill_pie": {args: []int{5}, run: func(r *runner, op Op) error {
			a := op.Args
			return r.ctx.FillPie(a[0], a[1], a[2], blend.Degrees(a[3]), blend.Degrees(a[4]))
		}},
		"fill_path": {need: needPath, run: func(r *runner, op Op) error {
			p, err := buildPath(op.Path)
			if err != nil {
				return err
			}
			return r.ctx.FillPath(p)
		}},
		"fill_text": {args: []int{2}, need: needText, run: func(r *runner, op Op) error {
			f, err := r.font(op.Size)
			if err != nil {
				return err
			}
			return r.ctx.FillUTF8Text(op.Args[0], op.Args[1], f, op.Text)
		}},

		"stroke_rect": {args: []int{4}, run: func(r *runner, op Op) error {
			a := op.Args
			return r.ctx.StrokeRect(a[0], a[1], a[2], a[3])
		}},
		"stroke_circle": {args: []int{3}, run: func(r *runner, op Op) error {
			a := op.Args
			return r.ctx.StrokeCircle(a[0], a[1], a[2])
		}},
		"stroke_ellipse": {args: []int{4}, run: func(r *runner, op Op) error {
			a := op.Args
			return r.ctx.StrokeEllipse(a[0], a[1], a[2], a[3])
		}},
		"stroke_line": {args: []int{4}, run: func(r *runner, op Op) error {
			a := op.Args
			return r.ctx.StrokeLine(a[0], a[1], a[2], a[3])
		}},
		"stroke_path": {need: needPath, run: func(r *runner, op Op) error {
			p, err := buildPath(op.Path)
			if err != nil {
				return err
			}
			return r.ctx.StrokePath(p)
		}},
	}
}

// pathArgs lists the accepted argument counts of each path command.
var pathArgs = map[string][]int{
	"move_to":         {2},
	"line_to":         {2},
	"quad_to":         {4},
	"cubic_to":        {6},
	"smooth_quad_to":  {2},
	"smooth_cubic_to": {4},
	"arc_to":          {6, 7},
	"elliptic_arc_to": {7},
	"close":           {0},
}

func checkPath(cmds []PathCmd) error {
	if len(cmds) == 0 {
		return errors.New("empty path")
	}
	for i, c := range cmds {
		want, ok := pathArgs[c.Cmd]
		if !ok {
			return fmt.Errorf("path command %d: unknown %q", i, c.Cmd)
		}
		if !slices.Contains(want, len(c.Args)) {
			return fmt.Errorf("path command %d (%s): got %d args, want %v", i, c.Cmd, len(c.Args), want)
		}
	}
	return nil
}

// buildPath converts path commands. Angles are in degrees.
func buildPath(cmds []PathCmd) (*blend.Path, error) {
	p := blend.NewPath()
	for i, c := range cmds {
		a := c.Args
		var err error
		switch c.Cmd {
		case "move_to":
			err = p.MoveTo(a[0], a[1])
		case "line_to":
			err = p.LineTo(a[0], a[1])
		case "quad_to":
			err = p.QuadTo(a[0], a[1], a[2], a[3])
		case "cubic_to":
			err = p.CubicTo(a[0], a[1], a[2], a[3], a[4], a[5])
		case "smooth_quad_to":
			err = p.SmoothQuadTo(a[0], a[1])
		case "smooth_cubic_to":
			err = p.SmoothCubicTo(a[0], a[1], a[2], a[3])
		case "arc_to":
			force := len(a) == 7 && a[6] != 0
			err = p.ArcTo(a[0], a[1], a[2], a[3], blend.Degrees(a[4]), blend.Degrees(a[5]), force)
		case "elliptic_arc_to":
			err = p.EllipticArcTo(a[0], a[1], blend.Degrees(a[2]), a[3] != 0, a[4] != 0, a[5], a[6])
		case "close":
			err = p.Close()
		default:
			err = fmt.Errorf("unknown path command %q", c.Cmd)
		}
		if err != nil {
			return nil, fmt.Errorf("path command %d (%s): %w", i, c.Cmd, err)
		}
	}
	return p, nil
}
