package engine

import (
	"errors"
	"math"
	"testing"
)

func verbs(p *Path) []Verb {
	var out []Verb
	p.Walk(func(v Verb, _ []Point) { out = append(out, v) })
	return out
}

func equalVerbs(a, b []Verb) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestPathNoCurrentPoint(t *testing.T) {
	tests := []struct {
		name string
		fn   func(p *Path) error
	}{
		{"LineTo", func(p *Path) error { return p.LineTo(1, 1) }},
		{"QuadTo", func(p *Path) error { return p.QuadTo(1, 1, 2, 2) }},
		{"CubicTo", func(p *Path) error { return p.CubicTo(1, 1, 2, 2, 3, 3) }},
		{"SmoothQuadTo", func(p *Path) error { return p.SmoothQuadTo(2, 2) }},
		{"SmoothCubicTo", func(p *Path) error { return p.SmoothCubicTo(2, 2, 3, 3) }},
		{"EllipticArcTo", func(p *Path) error { return p.EllipticArcTo(5, 5, 0, false, true, 10, 0) }},
		{"Close", func(p *Path) error { return p.Close() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPath()
			if err := tt.fn(p); !errors.Is(err, ErrNoMatchingVertex) {
				t.Errorf("error = %v, want ErrNoMatchingVertex", err)
			}
			if p.Len() != 0 {
				t.Errorf("Len() = %d after failed command", p.Len())
			}
		})
	}
}

func TestPathNonFinite(t *testing.T) {
	p := NewPath()
	if err := p.MoveTo(math.NaN(), 0); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("MoveTo(NaN) error = %v", err)
	}
	_ = p.MoveTo(0, 0)
	if err := p.LineTo(math.Inf(1), 0); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("LineTo(Inf) error = %v", err)
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestPathCloseReopens(t *testing.T) {
	p := NewPath()
	_ = p.MoveTo(1, 2)
	_ = p.LineTo(10, 0)
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if pt, ok := p.LastVertex(); !ok || pt != (Point{X: 1, Y: 2}) {
		t.Errorf("LastVertex() = %v, %v; want subpath start", pt, ok)
	}

	_ = p.LineTo(5, 5)
	want := []Verb{VerbMoveTo, VerbLineTo, VerbClose, VerbMoveTo, VerbLineTo}
	if got := verbs(p); !equalVerbs(got, want) {
		t.Errorf("verbs = %v, want %v", got, want)
	}
}

func TestPathSmoothCurves(t *testing.T) {
	t.Run("quad reflects previous control", func(t *testing.T) {
		p := NewPath()
		_ = p.MoveTo(0, 0)
		_ = p.QuadTo(5, 10, 10, 0)
		_ = p.SmoothQuadTo(20, 0)

		var ctrl Point
		p.Walk(func(v Verb, pts []Point) {
			if v == VerbQuadTo {
				ctrl = pts[0]
			}
		})
		if ctrl != (Point{X: 15, Y: -10}) {
			t.Errorf("control = %v, want (15, -10)", ctrl)
		}
	})

	t.Run("cubic without previous cubic", func(t *testing.T) {
		p := NewPath()
		_ = p.MoveTo(3, 4)
		_ = p.SmoothCubicTo(5, 5, 10, 0)

		var ctrl Point
		p.Walk(func(v Verb, pts []Point) {
			if v == VerbCubicTo {
				ctrl = pts[0]
			}
		})
		if ctrl != (Point{X: 3, Y: 4}) {
			t.Errorf("control = %v, want current point", ctrl)
		}
	})

	t.Run("cubic reflects previous control", func(t *testing.T) {
		p := NewPath()
		_ = p.MoveTo(0, 0)
		_ = p.CubicTo(0, 5, 8, 6, 10, 10)
		_ = p.SmoothCubicTo(20, 20, 20, 10)

		var ctrl Point
		p.Walk(func(v Verb, pts []Point) {
			if v == VerbCubicTo {
				ctrl = pts[0]
			}
		})
		if ctrl != (Point{X: 12, Y: 14}) {
			t.Errorf("control = %v, want (12, 14)", ctrl)
		}
	})
}

func TestPathArcTo(t *testing.T) {
	t.Run("empty path with forced move", func(t *testing.T) {
		p := NewPath()
		if err := p.ArcTo(0, 0, 10, 10, 0, math.Pi/2, true); err != nil {
			t.Fatalf("ArcTo() error = %v", err)
		}
		if got, want := verbs(p), []Verb{VerbMoveTo, VerbCubicTo}; !equalVerbs(got, want) {
			t.Errorf("verbs = %v, want %v", got, want)
		}
		if pt, _ := p.LastVertex(); !near(pt, Point{X: 0, Y: 10}) {
			t.Errorf("end = %v, want (0, 10)", pt)
		}
	})

	t.Run("empty path without forced move", func(t *testing.T) {
		p := NewPath()
		if err := p.ArcTo(0, 0, 10, 10, 0, math.Pi, false); err != nil {
			t.Fatalf("ArcTo() error = %v", err)
		}
		if got, want := verbs(p), []Verb{VerbMoveTo, VerbCubicTo, VerbCubicTo}; !equalVerbs(got, want) {
			t.Errorf("verbs = %v, want %v", got, want)
		}
	})

	t.Run("connects to current point", func(t *testing.T) {
		p := NewPath()
		_ = p.MoveTo(-5, -5)
		_ = p.ArcTo(0, 0, 10, 10, 0, math.Pi/2, false)
		if got, want := verbs(p), []Verb{VerbMoveTo, VerbLineTo, VerbCubicTo}; !equalVerbs(got, want) {
			t.Errorf("verbs = %v, want %v", got, want)
		}
	})

	t.Run("sweep clamped to full turn", func(t *testing.T) {
		p := NewPath()
		_ = p.ArcTo(0, 0, 10, 10, 0, 100, true)
		if n := len(verbs(p)); n != 5 {
			t.Errorf("commands = %d, want 5", n)
		}
	})
}

func TestPathEllipticArcTo(t *testing.T) {
	t.Run("ends exactly at target", func(t *testing.T) {
		p := NewPath()
		_ = p.MoveTo(0, 0)
		if err := p.EllipticArcTo(5, 5, 0, false, true, 10, 0); err != nil {
			t.Fatal(err)
		}
		if pt, _ := p.LastVertex(); pt != (Point{X: 10, Y: 0}) {
			t.Errorf("end = %v, want (10, 0)", pt)
		}
		for _, v := range verbs(p)[1:] {
			if v != VerbCubicTo {
				t.Errorf("verb %v, want only cubics", v)
			}
		}
	})

	t.Run("small radii are scaled", func(t *testing.T) {
		p := NewPath()
		_ = p.MoveTo(0, 0)
		_ = p.EllipticArcTo(1, 1, 0, false, true, 10, 0)
		b, _ := p.Bounds()
		if b.Y1-b.Y0 < 4 {
			t.Errorf("bounds %+v: arc was not scaled to reach the target", b)
		}
	})

	t.Run("zero radius is a line", func(t *testing.T) {
		p := NewPath()
		_ = p.MoveTo(0, 0)
		_ = p.EllipticArcTo(0, 5, 0, false, true, 10, 0)
		if got, want := verbs(p), []Verb{VerbMoveTo, VerbLineTo}; !equalVerbs(got, want) {
			t.Errorf("verbs = %v, want %v", got, want)
		}
	})

	t.Run("same endpoint is ignored", func(t *testing.T) {
		p := NewPath()
		_ = p.MoveTo(3, 3)
		_ = p.EllipticArcTo(5, 5, 0, true, true, 3, 3)
		if p.Len() != 1 {
			t.Errorf("Len() = %d, want 1", p.Len())
		}
	})
}

func TestPathBoundsAndClone(t *testing.T) {
	p := NewPath()
	if _, ok := p.Bounds(); ok {
		t.Error("empty path has bounds")
	}
	_ = p.AddRect(10, 20, -5, 5)

	b, ok := p.Bounds()
	if !ok || b != (Rect{X0: 5, Y0: 20, X1: 10, Y1: 25}) {
		t.Errorf("Bounds() = %+v, %v", b, ok)
	}

	c := p.Clone()
	_ = c.LineTo(100, 100)
	if p.Len() == c.Len() {
		t.Error("Clone shares storage with the original")
	}

	p.Reset()
	if p.Len() != 0 {
		t.Errorf("Len() after Reset = %d", p.Len())
	}
}

func TestMatrix(t *testing.T) {
	m := TranslateMatrix(10, 20).Multiply(ScaleMatrix(2, 3))
	if got := m.Apply(Point{X: 1, Y: 1}); got != (Point{X: 12, Y: 23}) {
		t.Errorf("Apply() = %v, want (12, 23)", got)
	}

	r := RotateMatrix(math.Pi / 2)
	if got := r.Apply(Point{X: 1, Y: 0}); !near(got, Point{X: 0, Y: 1}) {
		t.Errorf("rotate Apply() = %v, want (0, 1)", got)
	}

	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() failed")
	}
	if got := inv.Apply(Point{X: 12, Y: 23}); !near(got, Point{X: 1, Y: 1}) {
		t.Errorf("inverse Apply() = %v, want (1, 1)", got)
	}

	if _, ok := ScaleMatrix(0, 1).Invert(); ok {
		t.Error("singular matrix inverted")
	}
	huge := Matrix{A: 1e-5, C: 1e308, E: 1e-5}
	if _, ok := huge.Invert(); ok {
		t.Error("inverse with overflowing entries reported as valid")
	}
	if !Identity().IsIdentity() || m.IsIdentity() {
		t.Error("IsIdentity() mismatch")
	}
}
