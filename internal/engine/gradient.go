package engine

import "math"

// ExtendMode is the policy for sampling outside a paint's domain.
type ExtendMode uint32

const (
	// ExtendPad repeats the edge color.
	ExtendPad ExtendMode = iota
	// ExtendRepeat tiles the domain.
	ExtendRepeat
	// ExtendReflect tiles the domain, mirroring every other copy.
	ExtendReflect
)

func (m ExtendMode) valid() bool {
	return m <= ExtendReflect
}

// GradientType selects the gradient geometry.
type GradientType uint32

const (
	// GradientLinear interpolates along a line segment.
	GradientLinear GradientType = iota
	// GradientRadial interpolates between two circles.
	GradientRadial
	// GradientConic interpolates by angle around a center.
	GradientConic
)

// Color is a straight (not premultiplied) 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Premultiplied returns the color with RGB scaled by alpha.
func (c Color) Premultiplied() [4]byte {
	return [4]byte{mul255(c.R, c.A), mul255(c.G, c.A), mul255(c.B, c.A), c.A}
}

func mul255(a, b uint8) uint8 {
	return uint8((uint32(a)*uint32(b) + 127) / 255)
}

// GradientStop is a color at an offset in [0, 1].
type GradientStop struct {
	Offset float64
	Color  Color
}

// LinearValues describe a linear gradient from (X0, Y0) to (X1, Y1).
type LinearValues struct {
	X0, Y0, X1, Y1 float64
}

// RadialValues describe a two-circle gradient: the end circle centered at
// (X0, Y0) with radius R0 and the focal circle at (X1, Y1) with radius R1.
// Offset 0 maps to the focal circle and offset 1 to the end circle.
type RadialValues struct {
	X0, Y0, X1, Y1, R0, R1 float64
}

// ConicValues describe a sweep around (X0, Y0) starting at Angle. Repeat
// is the number of times the stops are traversed per turn.
type ConicValues struct {
	X0, Y0, Angle, Repeat float64
}

const lutSize = 256

// Gradient is a gradient paint source. Stops are interpolated in insertion
// order; they are never sorted.
type Gradient struct {
	typ    GradientType
	extend ExtendMode
	linear LinearValues
	radial RadialValues
	conic  ConicValues
	stops  []GradientStop
	lut    *[lutSize][4]byte
}

// NewGradient returns a linear gradient with zero geometry, ExtendPad and
// no stops.
func NewGradient() *Gradient {
	return &Gradient{typ: GradientLinear, extend: ExtendPad}
}

// SetLinear replaces the gradient with a linear one and removes every
// stop.
func (g *Gradient) SetLinear(v LinearValues, mode ExtendMode) error {
	if !finite(v.X0, v.Y0, v.X1, v.Y1) || !mode.valid() {
		return ErrInvalidValue
	}
	g.typ, g.linear, g.extend = GradientLinear, v, mode
	g.ResetStops()
	return nil
}

// SetRadial replaces the gradient with a radial one and removes every
// stop. Radii must be non-negative.
func (g *Gradient) SetRadial(v RadialValues, mode ExtendMode) error {
	if !finite(v.X0, v.Y0, v.X1, v.Y1, v.R0, v.R1) || v.R0 < 0 || v.R1 < 0 || !mode.valid() {
		return ErrInvalidValue
	}
	g.typ, g.radial, g.extend = GradientRadial, v, mode
	g.ResetStops()
	return nil
}

// SetConic replaces the gradient with a conic one and removes every stop.
// A zero repeat is treated as one.
func (g *Gradient) SetConic(v ConicValues, mode ExtendMode) error {
	if !finite(v.X0, v.Y0, v.Angle, v.Repeat) || v.Repeat < 0 || !mode.valid() {
		return ErrInvalidValue
	}
	if v.Repeat == 0 {
		v.Repeat = 1
	}
	g.typ, g.conic, g.extend = GradientConic, v, mode
	g.ResetStops()
	return nil
}

// Type returns the geometry kind.
func (g *Gradient) Type() GradientType { return g.typ }

// Extend returns the extend mode.
func (g *Gradient) Extend() ExtendMode { return g.extend }

// SetExtend changes the extend mode only.
func (g *Gradient) SetExtend(mode ExtendMode) error {
	if !mode.valid() {
		return ErrInvalidValue
	}
	g.extend = mode
	return nil
}

// Linear returns the linear geometry.
func (g *Gradient) Linear() LinearValues { return g.linear }

// Radial returns the radial geometry.
func (g *Gradient) Radial() RadialValues { return g.radial }

// Conic returns the conic geometry.
func (g *Gradient) Conic() ConicValues { return g.conic }

// AddStop appends a stop. Offsets outside [0, 1] fail with ErrInvalidValue
// and leave the stops untouched.
func (g *Gradient) AddStop(offset float64, c Color) error {
	if math.IsNaN(offset) || offset < 0 || offset > 1 {
		return ErrInvalidValue
	}
	g.stops = append(g.stops, GradientStop{Offset: offset, Color: c})
	g.lut = nil
	return nil
}

// ResetStops removes every stop.
func (g *Gradient) ResetStops() {
	g.stops = g.stops[:0]
	g.lut = nil
}

// StopCount returns the number of stops.
func (g *Gradient) StopCount() int { return len(g.stops) }

// Stops returns a copy of the stops in insertion order.
func (g *Gradient) Stops() []GradientStop {
	return append([]GradientStop(nil), g.stops...)
}

// Clone returns an independent copy sharing no mutable state.
func (g *Gradient) Clone() *Gradient {
	c := *g
	c.stops = append([]GradientStop(nil), g.stops...)
	c.lut = nil
	return &c
}

// colorAt interpolates the stops at t without applying the extend mode.
func (g *Gradient) colorAt(t float64) [4]float64 {
	switch len(g.stops) {
	case 0:
		return [4]float64{}
	case 1:
		return straight(g.stops[0].Color)
	}

	for i := 0; i+1 < len(g.stops); i++ {
		a, b := g.stops[i], g.stops[i+1]
		lo, hi := math.Min(a.Offset, b.Offset), math.Max(a.Offset, b.Offset)
		if t < lo || t > hi {
			continue
		}
		if a.Offset == b.Offset {
			return straight(b.Color)
		}
		f := (t - a.Offset) / (b.Offset - a.Offset)
		ca, cb := straight(a.Color), straight(b.Color)
		return [4]float64{
			ca[0] + (cb[0]-ca[0])*f,
			ca[1] + (cb[1]-ca[1])*f,
			ca[2] + (cb[2]-ca[2])*f,
			ca[3] + (cb[3]-ca[3])*f,
		}
	}

	if t <= g.stops[0].Offset {
		return straight(g.stops[0].Color)
	}
	return straight(g.stops[len(g.stops)-1].Color)
}

func straight(c Color) [4]float64 {
	return [4]float64{float64(c.R), float64(c.G), float64(c.B), float64(c.A)}
}

// table returns the premultiplied lookup table, building it on first use
// after a change to the stops.
func (g *Gradient) table() *[lutSize][4]byte {
	if g.lut != nil {
		return g.lut
	}
	lut := new([lutSize][4]byte)
	for i := range lut {
		c := g.colorAt(float64(i) / (lutSize - 1))
		a := c[3] / 255
		lut[i] = [4]byte{
			roundByte(c[0] * a),
			roundByte(c[1] * a),
			roundByte(c[2] * a),
			roundByte(c[3]),
		}
	}
	g.lut = lut
	return lut
}

func roundByte(v float64) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return byte(v + 0.5)
	}
}

// applyExtend maps t into [0, 1] according to mode.
func applyExtend(t float64, mode ExtendMode) float64 {
	switch mode {
	case ExtendRepeat:
		t -= math.Floor(t)
	case ExtendReflect:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int64(period)%2 == 1 {
			t = 1 - t
		}
	default:
		t = math.Max(0, math.Min(1, t))
	}
	return t
}

// parameter returns the gradient offset for a point in gradient space.
// ok is false where the geometry is undefined (outside both circles of a
// radial gradient, or where the offset overflows); such pixels are
// transparent.
func (g *Gradient) parameter(x, y float64) (float64, bool) {
	t, ok := g.rawParameter(x, y)
	if !ok || !finite(t) {
		return 0, false
	}
	return t, true
}

func (g *Gradient) rawParameter(x, y float64) (t float64, ok bool) {
	switch g.typ {
	case GradientRadial:
		return g.radialParameter(x, y)
	case GradientConic:
		v := g.conic
		a := math.Atan2(y-v.Y0, x-v.X0) - v.Angle
		t = a / (2 * math.Pi)
		t -= math.Floor(t)
		return t * v.Repeat, true
	default:
		v := g.linear
		dx, dy := v.X1-v.X0, v.Y1-v.Y0
		den := dx*dx + dy*dy
		if den == 0 {
			return 0, true
		}
		return ((x-v.X0)*dx + (y-v.Y0)*dy) / den, true
	}
}

func (g *Gradient) radialParameter(x, y float64) (float64, bool) {
	v := g.radial
	cdx, cdy := v.X0-v.X1, v.Y0-v.Y1
	pdx, pdy := x-v.X1, y-v.Y1
	dr := v.R0 - v.R1

	a := cdx*cdx + cdy*cdy - dr*dr
	b := pdx*cdx + pdy*cdy + v.R1*dr
	c := pdx*pdx + pdy*pdy - v.R1*v.R1

	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return 0, false
		}
		t := c / (2 * b)
		return t, v.R1+t*dr >= 0
	}

	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t0, t1 := (b+sq)/a, (b-sq)/a
	if t0 < t1 {
		t0, t1 = t1, t0
	}
	if v.R1+t0*dr >= 0 {
		return t0, true
	}
	if v.R1+t1*dr >= 0 {
		return t1, true
	}
	return 0, false
}

// sample returns the premultiplied color at t after the extend mode.
func (g *Gradient) sample(lut *[lutSize][4]byte, t float64) [4]byte {
	mode := g.extend
	if g.typ == GradientConic {
		mode = ExtendRepeat
	}
	t = applyExtend(t, mode)
	if !(t >= 0 && t <= 1) {
		return [4]byte{}
	}
	return lut[int(t*(lutSize-1)+0.5)]
}
