package engine

import (
	"math"
	"sync/atomic"
)

// Format identifies a pixel layout.
type Format uint32

const (
	// FormatNone is the format of an empty image.
	FormatNone Format = iota
	// FormatPRGB32 is 32-bit premultiplied RGBA, byte order R, G, B, A.
	FormatPRGB32
)

// MaxImageSize is the largest accepted width or height.
const MaxImageSize = 65535

// strideAlign is the row alignment in bytes. Rows are padded up to it, so the
// reported stride can exceed width*4.
const strideAlign = 16

// maxImageBytes caps a single allocation. Larger requests fail with
// ErrOutOfMemory instead of aborting the process.
var maxImageBytes uint64 = 1 << 31

// ImageData describes the pixel memory of an image.
type ImageData struct {
	Pixels []byte
	Stride int
	Width  int
	Height int
	Format Format
}

// Image is refcounted pixel storage. The creator owns the first reference;
// patterns and rendering contexts take their own with Retain.
type Image struct {
	width  int
	height int
	stride int
	format Format
	pixels []byte
	refs   atomic.Int32
}

// NewImage allocates a zero-filled image.
func NewImage(width, height int, format Format) (*Image, error) {
	if format != FormatPRGB32 {
		return nil, ErrInvalidValue
	}
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidValue
	}
	if width > MaxImageSize || height > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	stride := alignUp(width*4, strideAlign)
	size := uint64(stride) * uint64(height)
	if size > maxImageBytes || size > math.MaxInt {
		return nil, ErrOutOfMemory
	}

	img := &Image{
		width:  width,
		height: height,
		stride: stride,
		format: format,
		pixels: make([]byte, size),
	}
	img.refs.Store(1)

	logger().Debug("engine: image created",
		"width", width, "height", height, "stride", stride)
	return img, nil
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// Retain adds a reference and returns img.
func (img *Image) Retain() *Image {
	img.refs.Add(1)
	return img
}

// Release drops a reference. Once the count reaches zero Data fails; slices
// handed out earlier keep the memory reachable until they are dropped.
func (img *Image) Release() {
	n := img.refs.Add(-1)
	switch {
	case n == 0:
		logger().Debug("engine: image destroyed", "width", img.width, "height", img.height)
	case n < 0:
		img.refs.Store(0)
	}
}

// Alive reports whether at least one reference is held.
func (img *Image) Alive() bool {
	return img.refs.Load() > 0
}

// RefCount returns the current number of references.
func (img *Image) RefCount() int {
	return int(img.refs.Load())
}

// Width returns the width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the height in pixels.
func (img *Image) Height() int { return img.height }

// Stride returns the distance in bytes between consecutive rows.
func (img *Image) Stride() int { return img.stride }

// Format returns the pixel format.
func (img *Image) Format() Format { return img.format }

// Data returns the pixel memory. It fails with ErrInvalidHandle once the
// last reference has been released.
func (img *Image) Data() (ImageData, error) {
	if !img.Alive() {
		return ImageData{}, ErrInvalidHandle
	}
	return ImageData{
		Pixels: img.pixels,
		Stride: img.stride,
		Width:  img.width,
		Height: img.height,
		Format: img.format,
	}, nil
}
