// Package blend binds a 2D vector graphics engine: pixel images, paths,
// gradients, patterns, fonts and a drawing context.
//
// # Overview
//
// The engine owns pixel memory behind reference counts and reports failures
// as numeric result codes. This package wraps every engine object in a Go
// value, converts result codes into errors and exposes the pixels of an
// Image without copying.
//
// # Quick Start
//
//	img, err := blend.NewImage(480, 480)
//	if err != nil {
//	    return err
//	}
//	defer img.Dispose()
//
//	ctx, err := blend.NewContext(img)
//	if err != nil {
//	    return err
//	}
//	ctx.SetCompOp(blend.CompOpSrcCopy)
//	ctx.FillAll()
//	ctx.SetCompOp(blend.CompOpSrcOver)
//	ctx.SetFillStyleRGB(255, 255, 255)
//	ctx.FillCircle(240, 240, 100)
//	ctx.End()
//
//	img.SavePNG("circle.png")
//
// # Pixel Access
//
// Images are 32-bit premultiplied RGBA with byte order R, G, B, A. Rows
// are Stride bytes apart and the stride may exceed Width*4. RawView returns
// the memory as one slice, AsArray as a (height, width, 4) view and RGBA as
// an *image.RGBA. All three share memory with the engine.
//
// # Errors
//
// Every failure is an *Error. Use errors.Is with ErrAllocation, ErrIO,
// ErrFormat, ErrState or ErrValidation to test the kind, and errors.As
// to read the engine code.
//
// # Coordinate System
//
// Origin (0,0) at the top-left corner, X increases right, Y increases down.
// Angles are in radians; positive angles turn clockwise on screen.
//
// # Resources
//
// Image.Dispose, Pattern.Release and Context.End release engine
// references. A GC cleanup releases what was not released explicitly and
// logs a warning through the logger set with SetLogger.
package blend

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
