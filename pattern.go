package blend

import (
	"image"
	"runtime"

	"github.com/gogpu/blend/internal/engine"
)

// Pattern is an image paint source. It holds its own reference to the
// image, so the image may be disposed while the pattern is in use.
//
// Sampling is nearest texel. The extend mode applies on both axes inside
// the sampled area. Release drops the image reference; a GC cleanup does
// the same for patterns that are never released.
type Pattern struct {
	p       *engine.Pattern
	cleanup runtime.Cleanup
}

// NewPattern returns a pattern over the whole image with ExtendRepeat.
func NewPattern(img *Image) (*Pattern, error) {
	eimg, err := img.handle("NewPattern")
	if err != nil {
		return nil, err
	}
	ep, err := engine.NewPattern(eimg)
	if err != nil {
		return nil, wrap("NewPattern", err)
	}
	p := &Pattern{p: ep}
	p.cleanup = runtime.AddCleanup(p, (*engine.Pattern).Release, ep)
	return p, nil
}

// SetArea restricts sampling to the w x h rectangle at (x, y). The area
// must be non-empty and inside the image.
func (p *Pattern) SetArea(x, y, w, h int) error {
	return wrap("Pattern.SetArea", p.p.SetArea(engine.IntRect{X: x, Y: y, W: w, H: h}))
}

// ResetArea returns to sampling the whole image.
func (p *Pattern) ResetArea() { p.p.ResetArea() }

// Area returns the sampled rectangle and whether it was set explicitly.
// Without an explicit area it is the image bounds.
func (p *Pattern) Area() (image.Rectangle, bool) {
	if p.p.Released() {
		return image.Rectangle{}, false
	}
	r, set := p.p.Area()
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H), set
}

// ExtendMode returns the extend mode.
func (p *Pattern) ExtendMode() ExtendMode { return ExtendMode(p.p.Extend()) }

// SetExtendMode changes the extend mode.
func (p *Pattern) SetExtendMode(mode ExtendMode) error {
	return wrap("Pattern.SetExtendMode", p.p.SetExtend(engine.ExtendMode(mode)))
}

// Release drops the pattern's image reference. It is safe to call more
// than once. Contexts using the pattern as a style keep their own copy.
func (p *Pattern) Release() {
	p.cleanup.Stop()
	p.p.Release()
}

// Released reports whether Release has been called.
func (p *Pattern) Released() bool { return p.p.Released() }
