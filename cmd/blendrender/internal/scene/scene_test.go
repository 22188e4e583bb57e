package scene

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gogpu/blend"
)

func render(t *testing.T, s *Scene, opts Options) *blend.ArrayView {
	t.Helper()
	img, err := Render(s, opts)
	require.NoError(t, err)
	t.Cleanup(img.Dispose)
	v, err := img.AsArray()
	require.NoError(t, err)
	return v
}

func parse(t *testing.T, src string) *Scene {
	t.Helper()
	s, err := Parse([]byte(src))
	require.NoError(t, err)
	return s
}

func TestDemosRender(t *testing.T) {
	names := DemoNames()
	assert.Contains(t, names, "basic_circle")
	assert.Contains(t, names, "text_rendering")
	assert.Len(t, names, 8)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := Demo(name)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)

			v := render(t, s, Options{})
			assert.Equal(t, [3]int{s.Height, s.Width, 4}, v.Shape())
		})
	}

	_, err := Demo("missing")
	assert.Error(t, err)
}

func TestBasicCircleDemo(t *testing.T) {
	s, err := Demo("basic_circle")
	require.NoError(t, err)
	v := render(t, s, Options{})

	assert.Equal(t, []byte{255, 255, 255, 255}, v.Pixel(180, 320))
	assert.Equal(t, []byte{0, 0, 0, 255}, v.Pixel(5, 5))
}

func TestRectanglesTransparencyDemo(t *testing.T) {
	s, err := Demo("rectangles_transparency")
	require.NoError(t, err)
	v := render(t, s, Options{})

	assert.Equal(t, []byte{255, 255, 255, 255}, v.Pixel(5, 5))

	red := v.Pixel(60, 60)
	assert.Equal(t, byte(255), red[0])
	assert.InDelta(t, 127, int(red[1]), 2)
	assert.Equal(t, red[1], red[2])
	assert.Equal(t, byte(255), red[3])
}

func TestPatternArea(t *testing.T) {
	s := parse(t, `
name: area
width: 6
height: 6
patterns:
  quad:
    area: [0, 0, 1, 1]
    tile:
      width: 2
      height: 2
      ops:
        - {op: fill_color, color: "#00ff00"}
        - op: fill_all
        - {op: fill_color, color: "#ff0000"}
        - {op: fill_rect, args: [0, 0, 1, 1]}
ops:
  - {op: fill_pattern, pattern: quad}
  - op: fill_all
`)
	v := render(t, s, Options{})
	for _, pt := range [][2]int{{0, 0}, {3, 3}, {5, 4}} {
		assert.Equal(t, []byte{255, 0, 0, 255}, v.Pixel(pt[1], pt[0]), "pixel %v", pt)
	}
}

func TestThreadOverride(t *testing.T) {
	s, err := Demo("gradient_demo")
	require.NoError(t, err)

	single := render(t, s, Options{})
	multi := render(t, s, Options{Threads: 3})
	assert.Equal(t, single.Bytes(), multi.Bytes())

	capped := render(t, s, Options{Threads: MaxThreads})
	assert.Equal(t, single.Bytes(), capped.Bytes())

	_, err = Render(s, Options{Threads: MaxThreads + 1})
	assert.ErrorIs(t, err, ErrInvalidScene)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#ff0000", Color{R: 255, A: 255}, true},
		{"#01020380", Color{R: 1, G: 2, B: 3, A: 128}, true},
		{"ff0000", Color{}, false},
		{"#ff00", Color{}, false},
		{"#gg0000", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorList(t *testing.T) {
	s := parse(t, `
name: list
width: 1
height: 1
ops:
  - {op: fill_color, color: [1, 2, 3]}
  - {op: stroke_color, color: [4, 5, 6, 7]}
`)
	assert.Equal(t, Color{R: 1, G: 2, B: 3, A: 255}, *s.Ops[0].Color)
	assert.Equal(t, Color{R: 4, G: 5, B: 6, A: 7}, *s.Ops[1].Color)
}

func TestParseErrors(t *testing.T) {
	const head = "name: bad\nwidth: 10\nheight: 10\n"
	tests := []struct {
		name string
		src  string
	}{
		{"missing name", "width: 10\nheight: 10\n"},
		{"zero size", "name: bad\nwidth: 0\nheight: 10\n"},
		{"too large", "name: bad\nwidth: 9000\nheight: 10\n"},
		{"negative threads", head + "threads: -1\n"},
		{"too many threads", head + "threads: 65\n"},
		{"huge threads", head + "threads: 1000000000\n"},
		{"unknown field", head + "colour: red\n"},
		{"unknown op", head + "ops:\n  - op: fill_star\n"},
		{"arg count", head + "ops:\n  - {op: fill_rect, args: [1, 2, 3]}\n"},
		{"unexpected args", head + "ops:\n  - {op: fill_all, args: [1]}\n"},
		{"missing color", head + "ops:\n  - op: fill_color\n"},
		{"bad color", head + "ops:\n  - {op: fill_color, color: red}\n"},
		{"channel range", head + "ops:\n  - {op: fill_color, color: [1, 2, 300]}\n"},
		{"comp op", head + "ops:\n  - {op: comp_op, value: multiply}\n"},
		{"join", head + "ops:\n  - {op: stroke_join, value: sharp}\n"},
		{"unknown gradient", head + "ops:\n  - {op: fill_gradient, gradient: sky}\n"},
		{"unknown pattern", head + "ops:\n  - {op: fill_pattern, pattern: tiles}\n"},
		{"empty path", head + "ops:\n  - op: fill_path\n"},
		{"path command", head + "ops:\n  - op: fill_path\n    path:\n      - {cmd: jump_to, args: [1, 2]}\n"},
		{"path args", head + "ops:\n  - op: fill_path\n    path:\n      - {cmd: line_to, args: [1]}\n"},
		{"gradient type", head + "gradients:\n  g: {type: diamond, values: [0, 0, 1, 1]}\n"},
		{"gradient values", head + "gradients:\n  g: {type: radial, values: [0, 0, 1, 1]}\n"},
		{"gradient extend", head + "gradients:\n  g: {type: linear, values: [0, 0, 1, 1], extend: mirror}\n"},
		{"stop offset", head + "gradients:\n  g:\n    type: linear\n    values: [0, 0, 1, 1]\n    stops: [{offset: 2, color: \"#ffffff\"}]\n"},
		{"pattern area", head + "patterns:\n  p:\n    area: [0, 0, 1]\n    tile: {width: 2, height: 2}\n"},
		{"tile size", head + "patterns:\n  p:\n    tile: {width: 0, height: 2}\n"},
		{"tile op", head + "patterns:\n  p:\n    tile:\n      width: 2\n      height: 2\n      ops: [{op: fill_pattern, pattern: p}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	t.Run("restore without save", func(t *testing.T) {
		s := parse(t, "name: r\nwidth: 4\nheight: 4\nops:\n  - op: restore\n")
		_, err := Render(s, Options{})
		assert.ErrorIs(t, err, blend.ErrValidation)
		assert.ErrorContains(t, err, "op 0 (restore)")
	})

	t.Run("missing font", func(t *testing.T) {
		s := parse(t, "name: f\nwidth: 4\nheight: 4\nops:\n  - {op: fill_text, args: [0, 3], text: x}\n")
		s.Font = filepath.Join(t.TempDir(), "none.ttf")
		_, err := Render(s, Options{})
		assert.ErrorIs(t, err, blend.ErrIO)
	})

	t.Run("path without start", func(t *testing.T) {
		s := parse(t, "name: p\nwidth: 4\nheight: 4\nops:\n  - op: fill_path\n    path: [{cmd: line_to, args: [1, 1]}]\n")
		_, err := Render(s, Options{})
		assert.ErrorIs(t, err, blend.ErrValidation)
	})

	t.Run("invalid scene", func(t *testing.T) {
		_, err := Render(&Scene{Name: "x"}, Options{})
		assert.ErrorIs(t, err, ErrInvalidScene)
	})
}

func TestRenderLogsOps(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s, err := Demo("rectangles_transparency")
	require.NoError(t, err)

	render(t, s, Options{Log: zap.New(core)})

	assert.Equal(t, len(s.Ops), logs.FilterMessage("op").Len())
	done := logs.FilterMessage("scene rendered").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.Equal(t, "rectangles_transparency", fields["scene"])
	assert.Equal(t, int64(640), fields["width"])
}

func TestFontCache(t *testing.T) {
	r := &runner{fonts: map[float64]*blend.Font{}, log: zap.NewNop()}
	a, err := r.font(0)
	require.NoError(t, err)
	b, err := r.font(defaultFontSize)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, "Go", a.Face().FamilyName())

	c, err := r.font(30)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Same(t, a.Face(), c.Face())
}
