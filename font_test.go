package blend

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFont(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "face.ttf")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadFontFace(t *testing.T) {
	face, err := LoadFontFace(writeFont(t, goregular.TTF))
	require.NoError(t, err)

	assert.Equal(t, "Go", face.FamilyName())
	assert.Equal(t, 400, face.Weight())
	assert.NotEmpty(t, face.FullName())
	assert.Positive(t, face.GlyphCount())
	assert.Equal(t, 2048, face.UnitsPerEm())
}

func TestLoadFontFaceErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		face, err := LoadFontFace(filepath.Join(t.TempDir(), "nope.ttf"))
		assert.Nil(t, face)
		assert.ErrorIs(t, err, ErrIO)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("not a font", func(t *testing.T) {
		face, err := LoadFontFace(writeFont(t, []byte("this is plain text, not a font")))
		assert.Nil(t, face)
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("truncated", func(t *testing.T) {
		face, err := NewFontFace(goregular.TTF[:100])
		assert.Nil(t, face)
		assert.ErrorIs(t, err, ErrFormat)
	})
}

func TestNewFont(t *testing.T) {
	face, err := NewFontFace(goregular.TTF)
	require.NoError(t, err)

	f, err := NewFont(face, 24)
	require.NoError(t, err)
	assert.Equal(t, 24.0, f.Size())
	assert.Same(t, face, f.Face())

	m, err := f.Metrics()
	require.NoError(t, err)
	assert.Positive(t, m.Ascent)
	assert.Positive(t, m.Descent)
	assert.Less(t, m.Ascent, 48.0)

	_, err = NewFont(face, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewFont(nil, 12)
	assert.ErrorIs(t, err, ErrState)
}

func TestFontMeasureText(t *testing.T) {
	face, err := NewFontFace(goregular.TTF)
	require.NoError(t, err)
	f, err := NewFont(face, 16)
	require.NoError(t, err)

	one, err := f.MeasureText("m")
	require.NoError(t, err)
	three, err := f.MeasureText("mmm")
	require.NoError(t, err)
	assert.Greater(t, three, 2*one)

	_, err = f.MeasureText("\xc3\x28")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFillUTF8Text(t *testing.T) {
	face, err := NewFontFace(goregular.TTF)
	require.NoError(t, err)
	f, err := NewFont(face, 24)
	require.NoError(t, err)

	img, ctx := newTestContext(t, 80, 32)
	require.NoError(t, ctx.SetFillStyleRGB(0, 0, 0))
	require.NoError(t, ctx.FillUTF8Text(4, 24, f, "Hello"))
	require.NoError(t, ctx.End())

	raw, err := img.RawView()
	require.NoError(t, err)
	drawn := 0
	for i := 3; i < len(raw); i += 4 {
		if raw[i] != 0 {
			drawn++
		}
	}
	assert.Greater(t, drawn, 40)

	_, ctx = newTestContext(t, 8, 8)
	assert.ErrorIs(t, ctx.FillUTF8Text(0, 0, nil, "x"), ErrState)
	assert.ErrorIs(t, ctx.FillUTF8Text(0, 0, f, "\xff"), ErrValidation)
}
