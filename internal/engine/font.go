package engine

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"unicode/utf8"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// FontFace is parsed font program data. It is read-only after creation and
// may be shared by any number of Font values and goroutines.
type FontFace struct {
	sf         *sfnt.Font
	family     string
	fullName   string
	weight     int
	glyphCount int
	unitsPerEm int
}

// ReadFontFace loads the first face of a TrueType/OpenType file or
// collection. OS errors are wrapped under ErrFileOpen or ErrFileRead.
func ReadFontFace(path string) (*FontFace, error) {
	f, err := os.Open(path) //nolint:gosec // caller-supplied font path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	return NewFontFace(buf.Bytes())
}

// signatures of single fonts and collections accepted by NewFontFace.
var fontSignatures = [...]uint32{
	0x00010000, // TrueType
	0x4f54544f, // "OTTO"
	0x74727565, // "true"
	0x74746366, // "ttcf"
}

// NewFontFace parses font data. The first face of a collection is used.
func NewFontFace(data []byte) (*FontFace, error) {
	if len(data) < 12 {
		return nil, ErrInvalidSignature
	}
	sig := binary.BigEndian.Uint32(data)
	known := false
	for _, s := range fontSignatures {
		known = known || s == sig
	}
	if !known {
		return nil, ErrInvalidSignature
	}

	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	sf, err := coll.Font(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	face := &FontFace{
		sf:         sf,
		glyphCount: sf.NumGlyphs(),
		unitsPerEm: int(sf.UnitsPerEm()),
		weight:     400,
	}
	if s, err := sf.Name(nil, sfnt.NameIDFamily); err == nil {
		face.family = s
	}
	if s, err := sf.Name(nil, sfnt.NameIDFull); err == nil {
		face.fullName = s
	}

	// The OS/2 weight class and the typographic family come from the
	// go-text description; sfnt exposes neither.
	if faces, err := gotext.ParseTTC(bytes.NewReader(data)); err == nil && len(faces) > 0 {
		desc := faces[0].Describe()
		if desc.Family != "" {
			face.family = desc.Family
		}
		if w := int(desc.Aspect.Weight); w > 0 {
			face.weight = w
		}
	}

	logger().Debug("engine: font face loaded",
		"family", face.family, "weight", face.weight, "glyphs", face.glyphCount)
	return face, nil
}

// FamilyName returns the family name.
func (f *FontFace) FamilyName() string { return f.family }

// FullName returns the full font name.
func (f *FontFace) FullName() string { return f.fullName }

// Weight returns the weight class (100 thin to 900 black).
func (f *FontFace) Weight() int { return f.weight }

// GlyphCount returns the number of glyphs.
func (f *FontFace) GlyphCount() int { return f.glyphCount }

// UnitsPerEm returns the design units per em.
func (f *FontFace) UnitsPerEm() int { return f.unitsPerEm }

// FontMetrics are the vertical metrics of a sized font, in pixels. Ascent
// and Descent are both positive distances from the baseline.
type FontMetrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// Font is a FontFace at a pixel size.
type Font struct {
	face *FontFace
	size float64
	ppem fixed.Int26_6
}

// NewFont sizes a face. The size must be positive and finite.
func NewFont(face *FontFace, size float64) (*Font, error) {
	if face == nil || face.sf == nil {
		return nil, ErrFontNotInitialized
	}
	if !finite(size) || size <= 0 {
		return nil, ErrInvalidValue
	}
	return &Font{face: face, size: size, ppem: fixed.Int26_6(math.Round(size * 64))}, nil
}

// Size returns the size in pixels per em.
func (f *Font) Size() float64 { return f.size }

// Face returns the face the font was built from.
func (f *Font) Face() *FontFace { return f.face }

// Metrics returns the vertical metrics.
func (f *Font) Metrics() (FontMetrics, error) {
	var buf sfnt.Buffer
	m, err := f.face.sf.Metrics(&buf, f.ppem, font.HintingNone)
	if err != nil {
		return FontMetrics{}, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	ascent := fixedToFloat64(m.Ascent)
	descent := fixedToFloat64(m.Descent)
	return FontMetrics{
		Ascent:  ascent,
		Descent: descent,
		LineGap: math.Max(0, fixedToFloat64(m.Height)-ascent-descent),
	}, nil
}

func fixedToFloat64(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// shapedGlyph is one positioned glyph of a text run.
type shapedGlyph struct {
	index sfnt.GlyphIndex
	x     float64
}

// shape maps text to glyphs with advances and pair kerning. Text must be
// valid UTF-8; it is normalized to NFC first.
func (f *Font) shape(buf *sfnt.Buffer, text string) ([]shapedGlyph, float64, error) {
	if !utf8.ValidString(text) {
		return nil, 0, ErrInvalidValue
	}
	text = norm.NFC.String(text)

	glyphs := make([]shapedGlyph, 0, len(text))
	pen := 0.0
	var prev sfnt.GlyphIndex
	for i, r := range text {
		gi, err := f.face.sf.GlyphIndex(buf, r)
		if err != nil {
			return nil, 0, ErrGlyphNotSupported
		}
		if i > 0 {
			if k, err := f.face.sf.Kern(buf, prev, gi, f.ppem, font.HintingNone); err == nil {
				pen += fixedToFloat64(k)
			}
		}
		adv, err := f.face.sf.GlyphAdvance(buf, gi, f.ppem, font.HintingNone)
		if err != nil {
			return nil, 0, ErrGlyphNotSupported
		}
		glyphs = append(glyphs, shapedGlyph{index: gi, x: pen})
		pen += fixedToFloat64(adv)
		prev = gi
	}
	return glyphs, pen, nil
}

// MeasureText returns the advance width of text in pixels.
func (f *Font) MeasureText(text string) (float64, error) {
	var buf sfnt.Buffer
	_, width, err := f.shape(&buf, text)
	return width, err
}

// AppendText appends the outlines of text to path with the baseline origin
// at (x, y). On error path is left as it was.
func (f *Font) AppendText(path *Path, x, y float64, text string) error {
	if !finite(x, y) {
		return ErrInvalidGeometry
	}
	var buf sfnt.Buffer
	glyphs, _, err := f.shape(&buf, text)
	if err != nil {
		return err
	}
	return appendGlyphs(path, glyphs, x, y, func(gi sfnt.GlyphIndex) (sfnt.Segments, error) {
		return f.face.sf.LoadGlyph(&buf, gi, f.ppem, nil)
	})
}

// appendGlyphs adds the outline of each glyph, loaded by load, to path. A
// load failure rolls path back to its state on entry.
func appendGlyphs(path *Path, glyphs []shapedGlyph, x, y float64, load func(sfnt.GlyphIndex) (sfnt.Segments, error)) error {
	nverbs, npoints, start := len(path.verbs), len(path.points), path.start
	for _, g := range glyphs {
		segs, err := load(g.index)
		if err != nil {
			path.verbs, path.points, path.start = path.verbs[:nverbs], path.points[:npoints], start
			return ErrGlyphNotSupported
		}
		ox := x + g.x
		pt := func(p fixed.Point26_6) Point {
			return Point{X: ox + fixedToFloat64(p.X), Y: y + fixedToFloat64(p.Y)}
		}

		open := false
		for _, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					path.verbs = append(path.verbs, VerbClose)
				}
				path.moveTo(pt(seg.Args[0]))
				open = true
			case sfnt.SegmentOpLineTo:
				path.verbs = append(path.verbs, VerbLineTo)
				path.points = append(path.points, pt(seg.Args[0]))
			case sfnt.SegmentOpQuadTo:
				path.verbs = append(path.verbs, VerbQuadTo)
				path.points = append(path.points, pt(seg.Args[0]), pt(seg.Args[1]))
			case sfnt.SegmentOpCubeTo:
				path.verbs = append(path.verbs, VerbCubicTo)
				path.points = append(path.points, pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2]))
			}
		}
		if open {
			path.verbs = append(path.verbs, VerbClose)
		}
	}
	return nil
}
