package blend

import (
	"weak"

	"github.com/gogpu/blend/internal/engine"
)

// ArrayView is a non-owning (height, width, channel) view over an image's
// pixel memory. Index y selects a row, x a pixel and c a channel in R, G,
// B, A order.
//
// The view does not keep the image alive. Valid reports whether the engine
// still holds a reference to the memory; reading through a view after that
// is a caller error. Out-of-range indices panic like slice indexing.
type ArrayView struct {
	buf     []byte
	width   int
	height  int
	stride  int
	backing weak.Pointer[engine.Image]
}

func newArrayView(eimg *engine.Image, data engine.ImageData) *ArrayView {
	return &ArrayView{
		buf:     data.Pixels[:data.Stride*data.Height],
		width:   data.Width,
		height:  data.Height,
		stride:  data.Stride,
		backing: weak.Make(eimg),
	}
}

// Shape returns (height, width, 4).
func (v *ArrayView) Shape() [3]int {
	return [3]int{v.height, v.width, 4}
}

// Strides returns the byte step along each axis: (stride, 4, 1).
func (v *ArrayView) Strides() [3]int {
	return [3]int{v.stride, 4, 1}
}

// Bytes returns the whole backing region including row padding.
func (v *ArrayView) Bytes() []byte {
	return v.buf
}

// Row returns the width*4 pixel bytes of row y, without padding.
func (v *ArrayView) Row(y int) []byte {
	off := y * v.stride
	return v.buf[off : off+v.width*4 : off+v.width*4]
}

// Pixel returns the four channel bytes of pixel (y, x).
func (v *ArrayView) Pixel(y, x int) []byte {
	row := v.Row(y)
	return row[x*4 : x*4+4 : x*4+4]
}

// At returns channel c of pixel (y, x).
func (v *ArrayView) At(y, x, c int) uint8 {
	return v.Pixel(y, x)[c]
}

// Set writes channel c of pixel (y, x).
func (v *ArrayView) Set(y, x, c int, val uint8) {
	v.Pixel(y, x)[c] = val
}

// Valid reports whether the engine still references the memory.
func (v *ArrayView) Valid() bool {
	img := v.backing.Value()
	return img != nil && img.Alive()
}
