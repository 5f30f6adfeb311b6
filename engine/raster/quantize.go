package raster

// Quantization of supersampled coordinates to multiples of the quality
// factor q. A drawing surface spans MinValue(min*rate) … MaxValue(max*rate),
// which leaves at least one full quality block of margin on every side of a
// glyph.

// MinValue rounds v down to a multiple of q, then subtracts one more block.
// Exact multiples of q just step down one block.
func MinValue(v float32, q int) int {
	i := int(v)
	if float32(i) == v && i%q == 0 {
		return i - q
	}
	i -= i % q
	if v < 0 {
		return i - 2*q
	}
	return i - q
}

// MaxValue rounds v up to a multiple of q, then adds one more block.
// Exact multiples of q just step up one block.
func MaxValue(v float32, q int) int {
	i := int(v)
	if i%q == 0 && float32(i) == v {
		return i + q
	}
	i -= i % q
	if v > 0 {
		return i + 2*q
	}
	return i + q
}

// ZeroLineValue converts a supersampled y-coordinate into an index of
// quality blocks, rounding towards negative infinity. Exact multiples of q
// map to their quotient.
func ZeroLineValue(v float32, q int) int {
	i := int(v)
	if i%q == 0 && float32(i) == v {
		return i / q
	}
	i -= i % q
	if v >= 0 {
		return i / q
	}
	return i/q - 1
}

// DecreaseMinValue steps a lower bound down by q until it is less than target.
func DecreaseMinValue(value, q, target int) int {
	for value >= target {
		value -= q
	}
	return value
}

// IncreaseMaxValue steps an upper bound up by q until it is greater than target.
func IncreaseMaxValue(value, q, target int) int {
	for value <= target {
		value += q
	}
	return value
}
