package gds

import "math"

// encodeReal8 converts v to the GDSII 8-byte real: sign bit, 7-bit excess-64
// base-16 exponent, 56-bit mantissa in [1/16, 1).
func encodeReal8(v float64) uint64 {
	if v == 0 || math.IsNaN(v) {
		return 0
	}
	var sign uint64
	if v < 0 {
		sign = 1 << 63
		v = -v
	}
	exp := 0
	for v >= 1 {
		v /= 16
		exp++
	}
	for v < 1.0/16 {
		v *= 16
		exp--
	}
	mant := uint64(math.Round(v * (1 << 56)))
	if mant >= 1<<56 {
		mant >>= 4
		exp++
	}
	if exp < -64 {
		return 0
	}
	if exp > 63 {
		exp = 63
		mant = 1<<56 - 1
	}
	return sign | uint64(exp+64)<<56 | mant
}

func decodeReal8(b uint64) float64 {
	mant := b & (1<<56 - 1)
	if mant == 0 {
		return 0
	}
	exp := int((b>>56)&0x7f) - 64
	v := float64(mant) / (1 << 56) * math.Pow(16, float64(exp))
	if b>>63 == 1 {
		v = -v
	}
	return v
}
