// Package scene reads blendrender scene files and draws them with the
// blend API.
//
// A scene is a YAML document naming an image size, optional named
// gradients and patterns, and an ordered list of drawing operations that
// map one to one onto blend.Context calls:
//
//	name: circle
//	width: 480
//	height: 480
//	ops:
//	  - op: comp_op
//	    value: src_copy
//	  - op: fill_all
//	  - op: comp_op
//	    value: src_over
//	  - op: fill_color
//	    color: "#ffffff"
//	  - op: fill_circle
//	    args: [240, 240, 100]
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Size limits for scene images, patterns tiles included.
const (
	MaxSize     = 8192
	maxTileSize = 1024
)

// MaxThreads bounds the worker threads a scene or Options may request.
const MaxThreads = 64

// ErrInvalidScene is wrapped by every validation failure.
var ErrInvalidScene = errors.New("scene: invalid scene")

// Scene is a scene file.
type Scene struct {
	Name      string                  `yaml:"name"`
	Width     int                     `yaml:"width"`
	Height    int                     `yaml:"height"`
	Threads   int                     `yaml:"threads"`
	Font      string                  `yaml:"font"`
	Gradients map[string]GradientSpec `yaml:"gradients"`
	Patterns  map[string]PatternSpec  `yaml:"patterns"`
	Ops       []Op                    `yaml:"ops"`
}

// GradientSpec is a named gradient. Values holds the geometry numbers in
// the order of the blend value struct for Type: x0 y0 x1 y1 for linear,
// x0 y0 x1 y1 r0 [r1] for radial, x0 y0 angle [repeat] for conic.
type GradientSpec struct {
	Type   string    `yaml:"type"`
	Values []float64 `yaml:"values"`
	Extend string    `yaml:"extend"`
	Stops  []Stop    `yaml:"stops"`
}

// Stop is a gradient color stop.
type Stop struct {
	Offset float64 `yaml:"offset"`
	Color  Color   `yaml:"color"`
}

// PatternSpec is a named pattern whose image is drawn from Tile.
type PatternSpec struct {
	Extend string `yaml:"extend"`
	Area   []int  `yaml:"area"`
	Tile   Tile   `yaml:"tile"`
}

// Tile is the image of a pattern.
type Tile struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Ops    []Op `yaml:"ops"`
}

// Op is one drawing operation.
type Op struct {
	Op       string    `yaml:"op"`
	Args     []float64 `yaml:"args"`
	Value    string    `yaml:"value"`
	Color    *Color    `yaml:"color"`
	Gradient string    `yaml:"gradient"`
	Pattern  string    `yaml:"pattern"`
	Path     []PathCmd `yaml:"path"`
	Text     string    `yaml:"text"`
	Size     float64   `yaml:"size"`
}

// PathCmd is one path command. Flags of arc commands are passed as 0 or 1
// in Args.
type PathCmd struct {
	Cmd  string    `yaml:"cmd"`
	Args []float64 `yaml:"args"`
}

// Color is an RGBA color. In YAML it is "#rrggbb", "#rrggbbaa" or a list
// of three or four integers.
type Color struct {
	R, G, B, A uint8
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseColor(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var vals []int
		if err := n.Decode(&vals); err != nil {
			return err
		}
		if len(vals) != 3 && len(vals) != 4 {
			return fmt.Errorf("line %d: color needs 3 or 4 channels, got %d", n.Line, len(vals))
		}
		ch := [4]uint8{0, 0, 0, 255}
		for i, v := range vals {
			if v < 0 || v > 255 {
				return fmt.Errorf("line %d: channel %d out of range", n.Line, v)
			}
			ch[i] = uint8(v)
		}
		*c = Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
		return nil
	default:
		return fmt.Errorf("line %d: color must be a string or a list", n.Line)
	}
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return Color{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Read decodes and validates a scene.
func Read(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Parse is Read over a byte slice.
func Parse(data []byte) (*Scene, error) {
	return Read(bytes.NewReader(data))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
}

// Validate checks sizes, references and operation arguments without
// drawing anything.
func (s *Scene) Validate() error {
	if s.Name == "" {
		return invalid("missing name")
	}
	if s.Width <= 0 || s.Height <= 0 || s.Width > MaxSize || s.Height > MaxSize {
		return invalid("size %dx%d out of range", s.Width, s.Height)
	}
	if s.Threads < 0 || s.Threads > MaxThreads {
		return invalid("thread count %d out of range [0, %d]", s.Threads, MaxThreads)
	}
	for name, g := range s.Gradients {
		counts, ok := gradientTypes[g.Type]
		if !ok {
			return invalid("gradient %q: unknown type %q", name, g.Type)
		}
		if !slices.Contains(counts, len(g.Values)) {
			return invalid("gradient %q: %s needs %v values, got %d", name, g.Type, counts, len(g.Values))
		}
		for _, st := range g.Stops {
			if st.Offset < 0 || st.Offset > 1 {
				return invalid("gradient %q: stop offset %v outside [0, 1]", name, st.Offset)
			}
		}
		if _, err := extendMode(g.Extend); err != nil {
			return invalid("gradient %q: %v", name, err)
		}
	}
	for name, p := range s.Patterns {
		if _, err := extendMode(p.Extend); err != nil {
			return invalid("pattern %q: %v", name, err)
		}
		if p.Area != nil && len(p.Area) != 4 {
			return invalid("pattern %q: area needs x, y, w, h", name)
		}
		t := p.Tile
		if t.Width <= 0 || t.Height <= 0 || t.Width > maxTileSize || t.Height > maxTileSize {
			return invalid("pattern %q: tile size %dx%d out of range", name, t.Width, t.Height)
		}
		if err := validateOps(t.Ops, s.Gradients, nil); err != nil {
			return fmt.Errorf("pattern %q: %w", name, err)
		}
	}
	return validateOps(s.Ops, s.Gradients, s.Patterns)
}

func validateOps(ops []Op, gradients map[string]GradientSpec, patterns map[string]PatternSpec) error {
	for i, op := range ops {
		h, ok := handlers[op.Op]
		if !ok {
			return invalid("op %d: unknown op %q", i, op.Op)
		}
		if err := h.check(op); err != nil {
			return invalid("op %d (%s): %v", i, op.Op, err)
		}
		if op.Gradient != "" {
			if _, ok := gradients[op.Gradient]; !ok {
				return invalid("op %d (%s): unknown gradient %q", i, op.Op, op.Gradient)
			}
		}
		if op.Pattern != "" {
			if _, ok := patterns[op.Pattern]; !ok {
				return invalid("op %d (%s): unknown pattern %q", i, op.Op, op.Pattern)
			}
		}
	}
	return nil
}
