package blend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/blend/internal/engine"
)

func TestPathNeedsCurrentVertex(t *testing.T) {
	tests := []struct {
		name string
		fn   func(p *Path) error
	}{
		{"LineTo", func(p *Path) error { return p.LineTo(1, 1) }},
		{"QuadTo", func(p *Path) error { return p.QuadTo(1, 1, 2, 2) }},
		{"CubicTo", func(p *Path) error { return p.CubicTo(1, 1, 2, 2, 3, 3) }},
		{"SmoothQuadTo", func(p *Path) error { return p.SmoothQuadTo(2, 2) }},
		{"SmoothCubicTo", func(p *Path) error { return p.SmoothCubicTo(2, 2, 3, 3) }},
		{"EllipticArcTo", func(p *Path) error { return p.EllipticArcTo(4, 4, 0, false, true, 8, 0) }},
		{"Close", func(p *Path) error { return p.Close() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPath()
			err := tt.fn(p)
			require.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, engine.ErrNoMatchingVertex)
			assert.Zero(t, p.Len())
		})
	}
}

func TestPathArcToOnEmptyPath(t *testing.T) {
	p := NewPath()
	require.NoError(t, p.ArcTo(50, 50, 20, 20, 0, math.Pi, true))
	x, y, ok := p.LastVertex()
	require.True(t, ok)
	assert.InDelta(t, 30, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)

	require.NoError(t, p.LineTo(50, 50))
	require.NoError(t, p.Close())
}

func TestPathCommands(t *testing.T) {
	p := NewPath()
	require.NoError(t, p.MoveTo(10, 10))
	require.NoError(t, p.LineTo(40, 10))
	require.NoError(t, p.QuadTo(50, 10, 50, 20))
	require.NoError(t, p.SmoothQuadTo(50, 40))
	require.NoError(t, p.CubicTo(50, 50, 40, 60, 30, 60))
	require.NoError(t, p.SmoothCubicTo(10, 50, 10, 40))
	require.NoError(t, p.EllipticArcTo(5, 5, 0, false, true, 10, 30))
	require.NoError(t, p.Close())

	assert.Positive(t, p.Len())
	b, ok := p.Bounds()
	require.True(t, ok)
	assert.Equal(t, 10.0, b.Y0)
	assert.GreaterOrEqual(t, b.X1, 50.0)

	x, y, ok := p.LastVertex()
	assert.True(t, ok)
	assert.Equal(t, [2]float64{10, 10}, [2]float64{x, y}, "Close returns to the subpath start")

	c := p.Clone()
	p.Reset()
	assert.Zero(t, p.Len())
	assert.Positive(t, c.Len())
	_, _, ok = p.LastVertex()
	assert.False(t, ok)
}

func TestPathRejectsNonFinite(t *testing.T) {
	p := NewPath()
	assert.ErrorIs(t, p.MoveTo(math.NaN(), 0), ErrValidation)
	require.NoError(t, p.MoveTo(0, 0))
	assert.ErrorIs(t, p.CubicTo(1, 1, math.Inf(-1), 2, 3, 3), ErrValidation)
	assert.ErrorIs(t, p.AddRect(0, 0, math.NaN(), 1), ErrValidation)
	assert.Equal(t, 1, p.Len())
}

func TestPathShapes(t *testing.T) {
	p := NewPath()
	require.NoError(t, p.AddRect(1, 2, 3, 4))
	require.NoError(t, p.AddCircle(10, 10, 2))
	require.NoError(t, p.AddEllipse(20, 20, 4, 1))

	b, ok := p.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 1, b.X0, 1e-9)
	assert.InDelta(t, 2, b.Y0, 1e-9)
	assert.InDelta(t, 24, b.X1, 1e-9)
	assert.InDelta(t, 21, b.Y1, 1e-9)
}
