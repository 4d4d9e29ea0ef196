package blend

// mulDiv255 multiplies two bytes and divides by 255 with rounding.
// Formula: (a * b + 127) / 255
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// lerp255 interpolates from a to b by t/255 with rounding.
func lerp255(a, b, t byte) byte {
	v := int(a)*(255-int(t)) + int(b)*int(t)
	return byte((v + 127) / 255)
}

// clampUnit converts a [0,1] float to a byte, clamping out-of-range values.
func clampUnit(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
