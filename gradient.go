package blend

import "github.com/gogpu/blend/internal/engine"

// LinearGradientValues describe a linear gradient from (X0, Y0) to
// (X1, Y1).
type LinearGradientValues struct {
	X0, Y0, X1, Y1 float64
}

// RadialGradientValues describe a two-circle gradient. (X0, Y0) and R0 are
// the center and radius of the end circle; (X1, Y1) and R1 the focal
// circle, usually with R1 zero.
type RadialGradientValues struct {
	X0, Y0, X1, Y1, R0, R1 float64
}

// ConicGradientValues describe a sweep around (X0, Y0) that starts at
// Angle radians and traverses the stops Repeat times per turn. A zero
// Repeat is treated as one.
type ConicGradientValues struct {
	X0, Y0, Angle, Repeat float64
}

// GradientValues is the geometry of a gradient: one of
// LinearGradientValues, RadialGradientValues or ConicGradientValues.
type GradientValues interface {
	gradientType() GradientType
}

func (LinearGradientValues) gradientType() GradientType { return GradientLinear }
func (RadialGradientValues) gradientType() GradientType { return GradientRadial }
func (ConicGradientValues) gradientType() GradientType  { return GradientConic }

// GradientStop is a color at an offset in [0, 1].
type GradientStop struct {
	Offset float64
	Color  Color
}

// Gradient is a gradient paint source: geometry, extend mode and an
// ordered list of color stops.
//
// Stops are interpolated pairwise in the order they were added. They are
// never sorted, so add them with increasing offsets.
type Gradient struct {
	g *engine.Gradient
}

// NewGradient returns a linear gradient with zero geometry, ExtendPad and
// no stops.
func NewGradient() *Gradient {
	return &Gradient{g: engine.NewGradient()}
}

// CreateLinear replaces the geometry and extend mode and removes every
// stop. On error the gradient is unchanged.
func (g *Gradient) CreateLinear(v LinearGradientValues, mode ExtendMode) error {
	return wrap("Gradient.CreateLinear", g.g.SetLinear(engine.LinearValues(v), engine.ExtendMode(mode)))
}

// CreateRadial replaces the geometry and extend mode and removes every
// stop. On error the gradient is unchanged.
func (g *Gradient) CreateRadial(v RadialGradientValues, mode ExtendMode) error {
	return wrap("Gradient.CreateRadial", g.g.SetRadial(engine.RadialValues(v), engine.ExtendMode(mode)))
}

// CreateConic replaces the geometry and extend mode and removes every
// stop. On error the gradient is unchanged.
func (g *Gradient) CreateConic(v ConicGradientValues, mode ExtendMode) error {
	return wrap("Gradient.CreateConic", g.g.SetConic(engine.ConicValues(v), engine.ExtendMode(mode)))
}

// AddStop appends an opaque stop.
func (g *Gradient) AddStop(offset float64, r, gr, b uint8) error {
	return g.addStop("Gradient.AddStop", offset, RGB(r, gr, b))
}

// AddStopRGBA appends a stop with explicit alpha.
func (g *Gradient) AddStopRGBA(offset float64, r, gr, b, a uint8) error {
	return g.addStop("Gradient.AddStopRGBA", offset, RGBA(r, gr, b, a))
}

// AddStopColor appends a stop.
func (g *Gradient) AddStopColor(offset float64, c Color) error {
	return g.addStop("Gradient.AddStopColor", offset, c)
}

func (g *Gradient) addStop(op string, offset float64, c Color) error {
	return wrap(op, g.g.AddStop(offset, c.engine()))
}

// ResetStops removes every stop.
func (g *Gradient) ResetStops() { g.g.ResetStops() }

// StopCount returns the number of stops.
func (g *Gradient) StopCount() int { return g.g.StopCount() }

// Stops returns the stops in insertion order.
func (g *Gradient) Stops() []GradientStop {
	src := g.g.Stops()
	out := make([]GradientStop, len(src))
	for i, s := range src {
		out[i] = GradientStop{Offset: s.Offset, Color: Color(s.Color)}
	}
	return out
}

// Type returns the geometry kind.
func (g *Gradient) Type() GradientType { return GradientType(g.g.Type()) }

// ExtendMode returns the extend mode.
func (g *Gradient) ExtendMode() ExtendMode { return ExtendMode(g.g.Extend()) }

// SetExtendMode changes the extend mode and keeps the geometry.
func (g *Gradient) SetExtendMode(mode ExtendMode) error {
	return wrap("Gradient.SetExtendMode", g.g.SetExtend(engine.ExtendMode(mode)))
}

// Values returns the current geometry.
func (g *Gradient) Values() GradientValues {
	switch g.Type() {
	case GradientRadial:
		return RadialGradientValues(g.g.Radial())
	case GradientConic:
		return ConicGradientValues(g.g.Conic())
	default:
		return LinearGradientValues(g.g.Linear())
	}
}
