package engine

import (
	"math"
	"sync/atomic"
)

// IntRect is a pixel rectangle given by its corner and size.
type IntRect struct {
	X, Y, W, H int
}

// Pattern is an image paint source. It holds its own reference to the
// image until Release.
type Pattern struct {
	img      *Image
	area     IntRect
	hasArea  bool
	extend   ExtendMode
	released atomic.Bool
}

// NewPattern returns a pattern over the whole image with ExtendRepeat.
func NewPattern(img *Image) (*Pattern, error) {
	if img == nil || !img.Alive() {
		return nil, ErrInvalidHandle
	}
	return &Pattern{img: img.Retain(), extend: ExtendRepeat}, nil
}

// Image returns the source image, or nil after Release.
func (p *Pattern) Image() *Image {
	if p.released.Load() {
		return nil
	}
	return p.img
}

// SetArea restricts sampling to a sub-rectangle of the image. The area must
// be non-empty and lie inside the image.
func (p *Pattern) SetArea(r IntRect) error {
	if p.released.Load() {
		return ErrInvalidHandle
	}
	if r.W <= 0 || r.H <= 0 || r.X < 0 || r.Y < 0 ||
		r.X > p.img.Width()-r.W || r.Y > p.img.Height()-r.H {
		return ErrInvalidValue
	}
	p.area, p.hasArea = r, true
	return nil
}

// ResetArea returns to sampling the whole image.
func (p *Pattern) ResetArea() {
	p.area, p.hasArea = IntRect{}, false
}

// Area returns the sampled rectangle and whether one was set explicitly.
func (p *Pattern) Area() (IntRect, bool) {
	if p.hasArea {
		return p.area, true
	}
	return IntRect{W: p.img.Width(), H: p.img.Height()}, false
}

// Extend returns the extend mode.
func (p *Pattern) Extend() ExtendMode { return p.extend }

// SetExtend changes the extend mode.
func (p *Pattern) SetExtend(mode ExtendMode) error {
	if !mode.valid() {
		return ErrInvalidValue
	}
	p.extend = mode
	return nil
}

// Clone returns a copy holding its own image reference.
func (p *Pattern) Clone() (*Pattern, error) {
	if p.released.Load() || !p.img.Alive() {
		return nil, ErrInvalidHandle
	}
	return &Pattern{
		img:     p.img.Retain(),
		area:    p.area,
		hasArea: p.hasArea,
		extend:  p.extend,
	}, nil
}

// Release drops the image reference. Further calls do nothing.
func (p *Pattern) Release() {
	if p.released.CompareAndSwap(false, true) {
		p.img.Release()
	}
}

// Released reports whether Release has been called.
func (p *Pattern) Released() bool {
	return p.released.Load()
}

// wrap maps a texel index onto [0, n) according to mode.
func wrap(i, n int, mode ExtendMode) int {
	switch mode {
	case ExtendRepeat:
		i %= n
		if i < 0 {
			i += n
		}
	case ExtendReflect:
		period := 2 * n
		i %= period
		if i < 0 {
			i += period
		}
		if i >= n {
			i = period - 1 - i
		}
	default:
		i = max(0, min(n-1, i))
	}
	return i
}

// texel returns the premultiplied pixel nearest to (x, y) in pattern space.
// The area's top-left texel sits at the pattern origin.
func (p *Pattern) texel(data ImageData, area IntRect, x, y float64) [4]byte {
	fx, fy := math.Floor(x), math.Floor(y)
	if math.IsNaN(fx) || math.IsNaN(fy) {
		return [4]byte{}
	}
	// Clamp before the int conversion; extend modes only care about the
	// position inside one period.
	const limit = 1 << 40
	ix := int(math.Max(-limit, math.Min(limit, fx)))
	iy := int(math.Max(-limit, math.Min(limit, fy)))

	u := area.X + wrap(ix, area.W, p.extend)
	v := area.Y + wrap(iy, area.H, p.extend)
	off := v*data.Stride + u*4
	return [4]byte(data.Pixels[off : off+4])
}
