// Package stroke converts stroked paths into filled outlines.
//
// # Algorithm Overview
//
// Every subpath is offset to both sides by half the stroke width, giving a
// forward and a backward path. An open subpath becomes one contour:
//
//  1. the forward path
//  2. the end cap, from the forward side to the backward side
//  3. the backward path, reversed
//  4. the start cap, closing back to the first forward point
//
// A closed subpath becomes two contours of opposite orientation, so a
// non-zero fill produces a ring.
//
// Curves are flattened to lines before offsetting; the tolerance is in the
// same units as the input.
//
// # Caps
//
//   - CapButt: flat, ending at the endpoint
//   - CapSquare: flat, extended half the width past the endpoint
//   - CapRound: half circle around the endpoint
//   - CapRoundRev: half circle cut into the stroke end
//   - CapTriangle: point half the width past the endpoint
//   - CapTriangleRev: notch cut half the width into the stroke end
//
// # Joins
//
//   - JoinMiterClip: miter, clipped at the miter limit
//   - JoinMiterBevel: miter, replaced by a bevel past the limit
//   - JoinMiterRound: miter, replaced by a round join past the limit
//   - JoinBevel: straight line across the corner
//   - JoinRound: circular arc across the corner
//
// # References
//
//   - tiny-skia (Rust): path/src/stroker.rs
//   - kurbo (Rust): src/stroke.rs
package stroke
