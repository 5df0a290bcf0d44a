// Package half implements the IEEE-754 binary16 <-> float64 conversions the
// CBOR codec needs for major type 7's half-precision float form (argument
// 25), on top of the third-party float16 package rather than hand-rolled
// bit twiddling.
package half

import (
	"math"

	"github.com/x448/float16"
)

// Widen converts a binary16 bit pattern (as read off the wire) to a
// float64, handling zero, subnormals, infinities and NaN.
func Widen(bits uint16) float64 {
	return float64(float16.Frombits(bits).Float32())
}

// canonicalHalfNaN is the single half-precision NaN bit pattern NarrowExact
// emits for every NaN input, discarding the input's sign and payload.
const canonicalHalfNaN uint16 = 0x7e00

// NarrowExact reports whether d round-trips exactly through binary16 (i.e.
// widening the narrowed form reproduces d bit-for-bit) and, if so, returns
// the binary16 bits to emit. NaN always round-trips, canonicalized to
// canonicalHalfNaN regardless of the input NaN's sign or payload.
func NarrowExact(d float64) (bits uint16, ok bool) {
	if math.IsNaN(d) {
		return canonicalHalfNaN, true
	}

	f32 := float32(d)
	if float64(f32) != d {
		// d doesn't even survive a trip through float32, so it certainly
		// can't round-trip through the narrower float16.
		return 0, false
	}

	switch float16.PrecisionFromfloat32(f32) {
	case float16.PrecisionExact:
		return uint16(float16.Fromfloat32(f32)), true
	case float16.PrecisionUnknown:
		h := float16.Fromfloat32(f32)
		if h.Float32() == f32 {
			return uint16(h), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// NarrowSingleExact reports whether d round-trips exactly through float32
// and, if so, returns the bits to emit.
func NarrowSingleExact(d float64) (bits uint32, ok bool) {
	if math.IsNaN(d) {
		return math.Float32bits(float32(d)), true
	}
	f32 := float32(d)
	if float64(f32) != d {
		return 0, false
	}
	return math.Float32bits(f32), true
}
