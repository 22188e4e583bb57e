package blend

// Span composites src onto dst for one run of pixels. dst and src hold
// premultiplied RGBA, four bytes per pixel, and must be the same length.
// mask holds one coverage byte per pixel; a nil mask means full coverage.
//
// Each destination pixel becomes lerp(D, op(S, D), coverage). Zero coverage
// leaves the destination bytes untouched.
func Span(op Op, dst, src, mask []byte) {
	n := len(dst) / 4
	if len(src) < n*4 || (mask != nil && len(mask) < n) {
		panic("blend: span length mismatch")
	}

	if mask == nil {
		switch op {
		case OpSrcCopy:
			copy(dst, src[:n*4])
			return
		case OpDstCopy:
			return
		}
	}

	fn := FuncFor(op)
	for i := 0; i < n; i++ {
		m := byte(255)
		if mask != nil {
			m = mask[i]
			if m == 0 {
				continue
			}
		}
		o := i * 4
		s := src[o : o+4 : o+4]
		d := dst[o : o+4 : o+4]

		if op == OpSrcOver && s[3] == 255 && m == 255 {
			copy(d, s)
			continue
		}

		r, g, b, a := fn(s[0], s[1], s[2], s[3], d[0], d[1], d[2], d[3])
		if m == 255 {
			d[0], d[1], d[2], d[3] = r, g, b, a
			continue
		}
		d[0] = lerp255(d[0], r, m)
		d[1] = lerp255(d[1], g, m)
		d[2] = lerp255(d[2], b, m)
		d[3] = lerp255(d[3], a, m)
	}
}
