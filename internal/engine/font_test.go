package engine

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func goRegular(t *testing.T) *FontFace {
	t.Helper()
	face, err := NewFontFace(goregular.TTF)
	if err != nil {
		t.Fatalf("NewFontFace() error = %v", err)
	}
	return face
}

func TestNewFontFace(t *testing.T) {
	face := goRegular(t)

	if face.FamilyName() != "Go" {
		t.Errorf("FamilyName() = %q, want Go", face.FamilyName())
	}
	if face.Weight() != 400 {
		t.Errorf("Weight() = %d, want 400", face.Weight())
	}
	if face.GlyphCount() == 0 || face.UnitsPerEm() == 0 {
		t.Errorf("GlyphCount() = %d, UnitsPerEm() = %d", face.GlyphCount(), face.UnitsPerEm())
	}
}

func TestNewFontFaceErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Result
	}{
		{"empty", nil, ErrInvalidSignature},
		{"text", []byte("definitely not a font file"), ErrInvalidSignature},
		{"truncated", goregular.TTF[:64], ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face, err := NewFontFace(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if face != nil {
				t.Error("face returned on failure")
			}
		})
	}
}

func TestReadFontFace(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFontFace(filepath.Join(dir, "missing.ttf"))
	if !errors.Is(err, ErrFileOpen) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}

	path := filepath.Join(dir, "go.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	face, err := ReadFontFace(path)
	if err != nil {
		t.Fatalf("ReadFontFace() error = %v", err)
	}
	if face.FamilyName() != "Go" {
		t.Errorf("FamilyName() = %q", face.FamilyName())
	}
}

func TestNewFont(t *testing.T) {
	face := goRegular(t)

	if _, err := NewFont(nil, 12); !errors.Is(err, ErrFontNotInitialized) {
		t.Errorf("NewFont(nil) error = %v", err)
	}
	if _, err := NewFont(&FontFace{}, 12); !errors.Is(err, ErrFontNotInitialized) {
		t.Errorf("NewFont(empty face) error = %v", err)
	}
	for _, size := range []float64{0, -3} {
		if _, err := NewFont(face, size); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("NewFont(size %v) error = %v", size, err)
		}
	}

	f, err := NewFont(face, 20)
	if err != nil {
		t.Fatal(err)
	}
	if f.Size() != 20 || f.Face() != face {
		t.Errorf("Size() = %v, Face() = %p", f.Size(), f.Face())
	}

	m, err := f.Metrics()
	if err != nil {
		t.Fatal(err)
	}
	if m.Ascent <= 0 || m.Descent <= 0 || m.Ascent > 40 {
		t.Errorf("Metrics() = %+v", m)
	}
}

func TestFontText(t *testing.T) {
	f, _ := NewFont(goRegular(t), 16)

	empty, err := f.MeasureText("")
	if err != nil || empty != 0 {
		t.Errorf("MeasureText(\"\") = %v, %v", empty, err)
	}
	one, _ := f.MeasureText("a")
	two, _ := f.MeasureText("aa")
	if one <= 0 || two <= one {
		t.Errorf("MeasureText widths %v, %v", one, two)
	}

	if _, err := f.MeasureText("bad \xff utf8"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("invalid UTF-8 error = %v", err)
	}

	// Decomposed é normalizes to the precomposed rune.
	composed, _ := f.MeasureText("\u00e9")
	decomposed, _ := f.MeasureText("e\u0301")
	if composed != decomposed {
		t.Errorf("NFC width %v != %v", decomposed, composed)
	}

	p := NewPath()
	if err := f.AppendText(p, 10, 20, "Hi"); err != nil {
		t.Fatal(err)
	}
	b, ok := p.Bounds()
	if !ok || b.X0 < 10 || b.Y1 > 20.5 || b.Y0 > 10 {
		t.Errorf("text bounds = %+v, %v", b, ok)
	}
}

func TestAppendGlyphsRollsBack(t *testing.T) {
	p := NewPath()
	_ = p.MoveTo(1, 2)
	_ = p.LineTo(3, 4)
	before := verbs(p)

	square := sfnt.Segments{
		{Op: sfnt.SegmentOpMoveTo, Args: [3]fixed.Point26_6{{X: 0, Y: 0}}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{{X: 64, Y: 0}}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{{X: 64, Y: -64}}},
	}
	load := func(gi sfnt.GlyphIndex) (sfnt.Segments, error) {
		if gi == 3 {
			return nil, errors.New("bad glyph")
		}
		return square, nil
	}

	glyphs := []shapedGlyph{{index: 1}, {index: 2, x: 10}, {index: 3, x: 20}}
	if err := appendGlyphs(p, glyphs, 0, 0, load); !errors.Is(err, ErrGlyphNotSupported) {
		t.Fatalf("appendGlyphs() error = %v, want ErrGlyphNotSupported", err)
	}
	if got := verbs(p); !equalVerbs(got, before) || len(p.points) != 2 {
		t.Errorf("verbs = %v with %d points after failure, want %v with 2", got, len(p.points), before)
	}
	if pt, _ := p.LastVertex(); pt != (Point{X: 3, Y: 4}) {
		t.Errorf("LastVertex() = %v, want (3, 4)", pt)
	}
	_ = p.Close()
	if pt, _ := p.LastVertex(); pt != (Point{X: 1, Y: 2}) {
		t.Errorf("subpath start = %v after failure, want (1, 2)", pt)
	}

	if err := appendGlyphs(p, glyphs[:2], 0, 0, load); err != nil {
		t.Fatal(err)
	}
	if n := len(verbs(p)) - len(before) - 1; n != 8 {
		t.Errorf("appended %d commands for two glyphs, want 8", n)
	}
}
