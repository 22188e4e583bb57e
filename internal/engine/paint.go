package engine

// styleKind tags the active member of style.
type styleKind uint8

const (
	styleSolid styleKind = iota
	styleGradient
	stylePattern
)

// style is a fill or stroke source as stored in a context state. Gradients
// are private copies; patterns hold their own image reference.
type style struct {
	kind     styleKind
	color    [4]byte
	gradient *Gradient
	pattern  *Pattern
}

func solidStyle(c Color) style {
	return style{kind: styleSolid, color: c.Premultiplied()}
}

func gradientStyle(g *Gradient) style {
	g = g.Clone()
	g.table()
	return style{kind: styleGradient, gradient: g}
}

func patternStyle(p *Pattern) (style, error) {
	clone, err := p.Clone()
	if err != nil {
		return style{}, err
	}
	return style{kind: stylePattern, pattern: clone}, nil
}

// clone returns a copy that owns its own pattern reference.
func (s style) clone() style {
	if s.kind == stylePattern {
		if p, err := s.pattern.Clone(); err == nil {
			s.pattern = p
		} else {
			return solidStyle(Color{})
		}
	}
	return s
}

func (s style) release() {
	if s.kind == stylePattern {
		s.pattern.Release()
	}
}

// fetchFunc fills dst with n premultiplied source pixels starting at device
// pixel (x, y). Implementations are safe for concurrent use.
type fetchFunc func(dst []byte, x, y, n int)

// fetcher returns the source function for s under the user-to-device
// transform m. Pixels are sampled at their centres.
func (s style) fetcher(m Matrix) fetchFunc {
	switch s.kind {
	case styleGradient:
		return gradientFetcher(s.gradient, m)
	case stylePattern:
		return patternFetcher(s.pattern, m)
	default:
		return solidFetcher(s.color)
	}
}

func solidFetcher(c [4]byte) fetchFunc {
	return func(dst []byte, _, _, n int) {
		for i := range n {
			copy(dst[i*4:i*4+4], c[:])
		}
	}
}

func transparentFetcher(dst []byte, _, _, n int) {
	clear(dst[:n*4])
}

func gradientFetcher(g *Gradient, m Matrix) fetchFunc {
	inv, ok := m.Invert()
	if !ok || g.StopCount() == 0 {
		return transparentFetcher
	}
	lut := g.table()
	return func(dst []byte, x, y, n int) {
		p := inv.Apply(Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
		for i := range n {
			var c [4]byte
			if t, ok := g.parameter(p.X, p.Y); ok {
				c = g.sample(lut, t)
			}
			copy(dst[i*4:i*4+4], c[:])
			p.X += inv.A
			p.Y += inv.D
		}
	}
}

func patternFetcher(p *Pattern, m Matrix) fetchFunc {
	inv, ok := m.Invert()
	if !ok || p.Released() {
		return transparentFetcher
	}
	data, err := p.img.Data()
	if err != nil {
		return transparentFetcher
	}
	area, _ := p.Area()
	return func(dst []byte, x, y, n int) {
		q := inv.Apply(Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
		for i := range n {
			c := p.texel(data, area, q.X, q.Y)
			copy(dst[i*4:i*4+4], c[:])
			q.X += inv.A
			q.Y += inv.D
		}
	}
}
