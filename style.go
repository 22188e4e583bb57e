package blend

import (
	"fmt"

	iblend "github.com/gogpu/blend/internal/blend"
	"github.com/gogpu/blend/internal/engine"
	"github.com/gogpu/blend/internal/stroke"
)

// Color is a straight (not premultiplied) 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA returns a color with the given alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func (c Color) engine() engine.Color {
	return engine.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Style is a paint source for fill and stroke: a Color, a *Gradient or a
// *Pattern.
type Style interface {
	isStyle()
}

func (Color) isStyle()     {}
func (*Gradient) isStyle() {}
func (*Pattern) isStyle()  {}

// CompOp is a composition operator. The source is the paint, the
// destination is the image.
type CompOp uint8

// Composition operators.
const (
	CompOpSrcOver  CompOp = CompOp(iblend.OpSrcOver)
	CompOpSrcCopy  CompOp = CompOp(iblend.OpSrcCopy)
	CompOpSrcIn    CompOp = CompOp(iblend.OpSrcIn)
	CompOpSrcOut   CompOp = CompOp(iblend.OpSrcOut)
	CompOpSrcAtop  CompOp = CompOp(iblend.OpSrcAtop)
	CompOpDstOver  CompOp = CompOp(iblend.OpDstOver)
	CompOpDstCopy  CompOp = CompOp(iblend.OpDstCopy)
	CompOpDstIn    CompOp = CompOp(iblend.OpDstIn)
	CompOpDstOut   CompOp = CompOp(iblend.OpDstOut)
	CompOpDstAtop  CompOp = CompOp(iblend.OpDstAtop)
	CompOpXor      CompOp = CompOp(iblend.OpXor)
	CompOpClear    CompOp = CompOp(iblend.OpClear)
	CompOpPlus     CompOp = CompOp(iblend.OpPlus)
	CompOpModulate CompOp = CompOp(iblend.OpModulate)
)

func (op CompOp) String() string {
	return iblend.Op(op).String()
}

// StrokeJoin is the shape drawn where two stroked segments meet.
type StrokeJoin uint8

const (
	// JoinMiterClip extends the outer edges and clips the miter at the limit.
	JoinMiterClip StrokeJoin = StrokeJoin(stroke.JoinMiterClip)
	// JoinMiterBevel falls back to a bevel past the miter limit. Default.
	JoinMiterBevel StrokeJoin = StrokeJoin(stroke.JoinMiterBevel)
	// JoinMiterRound falls back to a round join past the miter limit.
	JoinMiterRound StrokeJoin = StrokeJoin(stroke.JoinMiterRound)
	// JoinBevel connects the outer corners with a straight line.
	JoinBevel StrokeJoin = StrokeJoin(stroke.JoinBevel)
	// JoinRound connects the outer corners with an arc.
	JoinRound StrokeJoin = StrokeJoin(stroke.JoinRound)
)

var joinNames = [...]string{"MiterClip", "MiterBevel", "MiterRound", "Bevel", "Round"}

func (j StrokeJoin) String() string {
	if int(j) < len(joinNames) {
		return joinNames[j]
	}
	return fmt.Sprintf("StrokeJoin(%d)", uint8(j))
}

// StrokeCap is the shape drawn at the open ends of a stroke.
type StrokeCap uint8

const (
	// CapButt ends the stroke flush with the endpoint. Default.
	CapButt StrokeCap = StrokeCap(stroke.CapButt)
	// CapSquare extends the stroke by half its width.
	CapSquare StrokeCap = StrokeCap(stroke.CapSquare)
	// CapRound adds a half disc.
	CapRound StrokeCap = StrokeCap(stroke.CapRound)
	// CapRoundRev cuts a half disc notch into a squared end.
	CapRoundRev StrokeCap = StrokeCap(stroke.CapRoundRev)
	// CapTriangle adds a triangle pointing outward.
	CapTriangle StrokeCap = StrokeCap(stroke.CapTriangle)
	// CapTriangleRev cuts a triangular notch into a squared end.
	CapTriangleRev StrokeCap = StrokeCap(stroke.CapTriangleRev)
)

var capNames = [...]string{"Butt", "Square", "Round", "RoundRev", "Triangle", "TriangleRev"}

func (c StrokeCap) String() string {
	if int(c) < len(capNames) {
		return capNames[c]
	}
	return fmt.Sprintf("StrokeCap(%d)", uint8(c))
}

// ExtendMode selects how gradients and patterns are sampled outside their
// domain.
type ExtendMode uint32

const (
	// ExtendPad repeats the edge color.
	ExtendPad ExtendMode = ExtendMode(engine.ExtendPad)
	// ExtendRepeat tiles the domain.
	ExtendRepeat ExtendMode = ExtendMode(engine.ExtendRepeat)
	// ExtendReflect tiles the domain, mirroring every other copy.
	ExtendReflect ExtendMode = ExtendMode(engine.ExtendReflect)
)

func (m ExtendMode) String() string {
	switch m {
	case ExtendPad:
		return "Pad"
	case ExtendRepeat:
		return "Repeat"
	case ExtendReflect:
		return "Reflect"
	default:
		return fmt.Sprintf("ExtendMode(%d)", uint32(m))
	}
}

// GradientType is the geometry of a Gradient.
type GradientType uint32

const (
	GradientLinear GradientType = GradientType(engine.GradientLinear)
	GradientRadial GradientType = GradientType(engine.GradientRadial)
	GradientConic  GradientType = GradientType(engine.GradientConic)
)

func (t GradientType) String() string {
	switch t {
	case GradientLinear:
		return "Linear"
	case GradientRadial:
		return "Radial"
	case GradientConic:
		return "Conic"
	default:
		return fmt.Sprintf("GradientType(%d)", uint32(t))
	}
}
