package blend

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadImage returns a 2x2 image: red, green on the first row and blue,
// white on the second.
func quadImage(t *testing.T) *Image {
	t.Helper()
	img, err := NewImage(2, 2)
	require.NoError(t, err)
	v, err := img.AsArray()
	require.NoError(t, err)
	copy(v.Pixel(0, 0), []byte{255, 0, 0, 255})
	copy(v.Pixel(0, 1), []byte{0, 255, 0, 255})
	copy(v.Pixel(1, 0), []byte{0, 0, 255, 255})
	copy(v.Pixel(1, 1), []byte{255, 255, 255, 255})
	return img
}

func TestPatternDefaults(t *testing.T) {
	src := quadImage(t)
	defer src.Dispose()

	p, err := NewPattern(src)
	require.NoError(t, err)
	defer p.Release()

	assert.Equal(t, ExtendRepeat, p.ExtendMode())
	area, set := p.Area()
	assert.False(t, set)
	assert.Equal(t, image.Rect(0, 0, 2, 2), area)

	require.NoError(t, p.SetExtendMode(ExtendReflect))
	assert.Equal(t, ExtendReflect, p.ExtendMode())
	assert.ErrorIs(t, p.SetExtendMode(ExtendMode(7)), ErrValidation)
}

func TestPatternSetArea(t *testing.T) {
	src := quadImage(t)
	defer src.Dispose()
	p, err := NewPattern(src)
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.SetArea(1, 1, 1, 1))
	area, set := p.Area()
	assert.True(t, set)
	assert.Equal(t, image.Rect(1, 1, 2, 2), area)

	bad := [][4]int{{0, 0, 0, 1}, {1, 0, 2, 1}, {-1, 0, 1, 1}, {0, 2, 1, 1}}
	for _, r := range bad {
		assert.ErrorIs(t, p.SetArea(r[0], r[1], r[2], r[3]), ErrValidation, "area %v", r)
	}
	area, _ = p.Area()
	assert.Equal(t, image.Rect(1, 1, 2, 2), area, "rejected area replaced the old one")
}

func TestPatternResetAreaRestoresFullImage(t *testing.T) {
	src := quadImage(t)
	defer src.Dispose()
	p, err := NewPattern(src)
	require.NoError(t, err)
	defer p.Release()

	img, ctx := newTestContext(t, 4, 4)
	v := view(t, img)

	require.NoError(t, p.SetArea(0, 0, 1, 1))
	require.NoError(t, ctx.SetFillStylePattern(p))
	require.NoError(t, ctx.FillAll())
	assert.Equal(t, []byte{255, 0, 0, 255}, v.Pixel(0, 1), "area repeats the red texel")
	assert.Equal(t, []byte{255, 0, 0, 255}, v.Pixel(3, 3))

	p.ResetArea()
	require.NoError(t, ctx.SetFillStylePattern(p))
	require.NoError(t, ctx.FillAll())
	assert.Equal(t, []byte{0, 255, 0, 255}, v.Pixel(0, 1))
	assert.Equal(t, []byte{255, 255, 255, 255}, v.Pixel(3, 3))
	assert.Equal(t, []byte{0, 0, 255, 255}, v.Pixel(1, 2))
}

func TestPatternRetainsImage(t *testing.T) {
	src := quadImage(t)
	p, err := NewPattern(src)
	require.NoError(t, err)
	srcView := view(t, src)

	src.Dispose()
	assert.True(t, srcView.Valid(), "pattern reference keeps the image alive")

	img, ctx := newTestContext(t, 2, 2)
	require.NoError(t, ctx.SetFillStyle(p))
	require.NoError(t, ctx.FillAll())
	assert.Equal(t, []byte{0, 0, 255, 255}, view(t, img).Pixel(1, 0))

	p.Release()
	p.Release()
	assert.True(t, p.Released())
	assert.True(t, srcView.Valid(), "context style still holds a copy")
	assert.ErrorIs(t, p.SetArea(0, 0, 1, 1), ErrState)

	require.NoError(t, ctx.End())
	assert.False(t, srcView.Valid())
}
