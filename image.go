package blend

import (
	"bufio"
	"image"
	"image/png"
	"io"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/gogpu/blend/internal/engine"
)

// MaxImageSize is the largest accepted width or height.
const MaxImageSize = engine.MaxImageSize

// Format identifies a pixel layout.
type Format uint32

const (
	// FormatNone is the format of an empty image.
	FormatNone Format = Format(engine.FormatNone)
	// FormatPRGB32 is 32-bit premultiplied RGBA with byte order R, G, B, A.
	FormatPRGB32 Format = Format(engine.FormatPRGB32)
)

// imageRef is the engine reference owned by an Image wrapper. It is kept
// apart from the wrapper so a GC cleanup can release it.
type imageRef struct {
	img      *engine.Image
	disposed atomic.Bool
}

func (r *imageRef) release(byCleanup bool) {
	if !r.disposed.CompareAndSwap(false, true) {
		return
	}
	if byCleanup {
		Logger().Warn("blend: image released by GC cleanup, call Dispose",
			"width", r.img.Width(), "height", r.img.Height())
	}
	r.img.Release()
}

// Image is a 32-bit premultiplied RGBA pixel buffer owned by the engine.
//
// Rows are stride bytes apart, and stride may exceed width*4. Pixels start
// as transparent black. Dispose drops this wrapper's engine reference;
// patterns and open contexts keep their own.
type Image struct {
	ref     *imageRef
	cleanup runtime.Cleanup
}

// NewImage allocates a width x height image.
// It returns an ErrAllocation error for non-positive or oversized
// dimensions.
func NewImage(width, height int) (*Image, error) {
	eimg, err := engine.NewImage(width, height, engine.FormatPRGB32)
	if err != nil {
		return nil, wrapAs("NewImage", ErrAllocation, err)
	}
	return newImage(eimg), nil
}

func newImage(eimg *engine.Image) *Image {
	ref := &imageRef{img: eimg}
	img := &Image{ref: ref}
	img.cleanup = runtime.AddCleanup(img, func(r *imageRef) { r.release(true) }, ref)
	Logger().Debug("blend: image created",
		"width", eimg.Width(), "height", eimg.Height(), "stride", eimg.Stride())
	return img
}

// Width returns the width in pixels.
func (img *Image) Width() int { return img.ref.img.Width() }

// Height returns the height in pixels.
func (img *Image) Height() int { return img.ref.img.Height() }

// Stride returns the distance in bytes between the starts of two rows.
func (img *Image) Stride() int { return img.ref.img.Stride() }

// Format returns the pixel format.
func (img *Image) Format() Format { return Format(img.ref.img.Format()) }

// Dispose drops the wrapper's engine reference. It is safe to call more
// than once.
func (img *Image) Dispose() {
	if img.ref.disposed.Load() {
		return
	}
	img.cleanup.Stop()
	img.ref.release(false)
	Logger().Debug("blend: image disposed", "width", img.Width(), "height", img.Height())
}

// Disposed reports whether Dispose has been called.
func (img *Image) Disposed() bool {
	return img.ref.disposed.Load()
}

// handle returns the engine image, failing once disposed.
func (img *Image) handle(op string) (*engine.Image, error) {
	if img == nil || img.ref.disposed.Load() {
		return nil, stateError(op)
	}
	return img.ref.img, nil
}

func (img *Image) data(op string) (engine.ImageData, error) {
	eimg, err := img.handle(op)
	if err != nil {
		return engine.ImageData{}, err
	}
	data, err := eimg.Data()
	if err != nil {
		return engine.ImageData{}, wrap(op, err)
	}
	return data, nil
}

// RawView returns the pixel memory as one writable slice of length
// Stride()*Height(). Writes are visible to the engine and the reverse.
func (img *Image) RawView() ([]byte, error) {
	data, err := img.data("RawView")
	if err != nil {
		return nil, err
	}
	return data.Pixels[:data.Stride*data.Height:data.Stride*data.Height], nil
}

// AsArray returns a three-dimensional view over the pixel memory with
// shape (height, width, 4). No bytes are copied.
func (img *Image) AsArray() (*ArrayView, error) {
	data, err := img.data("AsArray")
	if err != nil {
		return nil, err
	}
	return newArrayView(img.ref.img, data), nil
}

// RGBA returns an *image.RGBA sharing the pixel memory. image.RGBA is
// premultiplied with the same byte order, so no conversion is needed.
func (img *Image) RGBA() (*image.RGBA, error) {
	data, err := img.data("RGBA")
	if err != nil {
		return nil, err
	}
	return &image.RGBA{
		Pix:    data.Pixels,
		Stride: data.Stride,
		Rect:   image.Rect(0, 0, data.Width, data.Height),
	}, nil
}

// EncodePNG writes the image to w in PNG format.
func (img *Image) EncodePNG(w io.Writer) error {
	rgba, err := img.RGBA()
	if err != nil {
		return err
	}
	if err := png.Encode(w, rgba); err != nil {
		return &Error{Op: "EncodePNG", Kind: ErrIO, Err: err}
	}
	return nil
}

// SavePNG saves the image to a PNG file.
func (img *Image) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return &Error{Op: "SavePNG", Kind: ErrIO, Code: engine.ErrFileOpen.Code(), Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	bw := bufio.NewWriter(f)
	if err := img.EncodePNG(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return &Error{Op: "SavePNG", Kind: ErrIO, Err: err}
	}
	return nil
}
