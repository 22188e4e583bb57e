package blend

// mulDiv255 multiplies two bytes and divides by 255, rounding to nearest.
// Exact for the identities the operators rely on: x*255/255 == x and
// x*0/255 == 0.
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// addClamp adds two bytes, saturating at 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// lerp255 interpolates from d to r by coverage m/255.
func lerp255(d, r, m byte) byte {
	return byte((uint32(d)*uint32(255-m) + uint32(r)*uint32(m) + 127) / 255)
}
