package blend

import "github.com/gogpu/blend/internal/engine"

// FontFace is a parsed TrueType or OpenType face. It is immutable and safe
// to share between goroutines and fonts.
type FontFace struct {
	f *engine.FontFace
}

// LoadFontFace reads a font file. It fails with an ErrIO error wrapping the
// OS error when the file cannot be read, and with an ErrFormat error when
// the data is not a font. No face is returned on failure.
func LoadFontFace(path string) (*FontFace, error) {
	f, err := engine.ReadFontFace(path)
	if err != nil {
		return nil, wrap("LoadFontFace", err)
	}
	return &FontFace{f: f}, nil
}

// NewFontFace parses font data held in memory. The first face of a
// collection is used.
func NewFontFace(data []byte) (*FontFace, error) {
	f, err := engine.NewFontFace(data)
	if err != nil {
		return nil, wrap("NewFontFace", err)
	}
	return &FontFace{f: f}, nil
}

// FamilyName returns the family name, for example "Go".
func (f *FontFace) FamilyName() string { return f.f.FamilyName() }

// FullName returns the full face name.
func (f *FontFace) FullName() string { return f.f.FullName() }

// Weight returns the weight class, 400 for regular.
func (f *FontFace) Weight() int { return f.f.Weight() }

// GlyphCount returns the number of glyphs in the face.
func (f *FontFace) GlyphCount() int { return f.f.GlyphCount() }

// UnitsPerEm returns the design units per em.
func (f *FontFace) UnitsPerEm() int { return f.f.UnitsPerEm() }

// FontMetrics are vertical metrics in pixels. Ascent and Descent are both
// positive distances from the baseline.
type FontMetrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// Font is a face at a pixel size.
type Font struct {
	face *FontFace
	f    *engine.Font
}

// NewFont sizes a face. It fails with an ErrValidation error for a size
// that is not positive and finite, and with an ErrState error for a nil
// face.
func NewFont(face *FontFace, size float64) (*Font, error) {
	var ef *engine.FontFace
	if face != nil {
		ef = face.f
	}
	f, err := engine.NewFont(ef, size)
	if err != nil {
		return nil, wrap("NewFont", err)
	}
	return &Font{face: face, f: f}, nil
}

// Size returns the size in pixels per em.
func (f *Font) Size() float64 { return f.f.Size() }

// Face returns the face the font was built from.
func (f *Font) Face() *FontFace { return f.face }

// Metrics returns the vertical metrics.
func (f *Font) Metrics() (FontMetrics, error) {
	m, err := f.f.Metrics()
	if err != nil {
		return FontMetrics{}, wrap("Font.Metrics", err)
	}
	return FontMetrics(m), nil
}

// MeasureText returns the advance width of text in pixels, kerning
// included. Text must be valid UTF-8.
func (f *Font) MeasureText(text string) (float64, error) {
	w, err := f.f.MeasureText(text)
	return w, wrap("Font.MeasureText", err)
}

// AppendText appends glyph outlines of text to p with the baseline origin
// at (x, y).
func (f *Font) AppendText(p *Path, x, y float64, text string) error {
	return wrap("Font.AppendText", f.f.AppendText(p.p, x, y, text))
}
