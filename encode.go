package cbors

import (
	"encoding/binary"
	"math"

	"github.com/mjkoo/cbors-go/internal/half"
)

// Encode returns the minimal RFC-7049-conformant encoding of v.
//
// Encode fails with a KindWrongType Error if v, or any Value nested inside
// an Array or Map at any depth, is not one of the types listed on Value.
// On failure no partial output is returned.
func Encode(v Value) ([]byte, error) {
	n, err := encodedLen(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	off, err := encodeInto(buf, v)
	if err != nil {
		return nil, err
	}
	if off != n {
		// unreachable unless encodedLen and encodeInto disagree.
		return nil, formatf("internal error: encoded %d bytes, expected %d", off, n)
	}
	return buf, nil
}

// encodedLen walks v once to compute the exact output length, so Encode can
// allocate a single correctly-sized buffer and fail before writing any
// bytes if v contains an unsupported variant anywhere in the tree.
func encodedLen(v Value) (int, error) {
	switch t := v.(type) {
	case Null:
		return 1, nil
	case Bool:
		return 1, nil
	case Uint:
		return argLen(uint64(t)), nil
	case NegInt:
		return argLen(uint64(t)), nil
	case Float:
		return floatLen(float64(t)), nil
	case Text:
		return argLen(uint64(len(t))) + len(t), nil
	case Bytes:
		return argLen(uint64(len(t))) + len(t), nil
	case Array:
		total := argLen(uint64(len(t)))
		for _, item := range t {
			n, err := encodedLen(item)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	case Map:
		total := argLen(uint64(len(t)))
		for _, e := range t {
			kn, err := encodedLen(e.Key)
			if err != nil {
				return 0, err
			}
			vn, err := encodedLen(e.Value)
			if err != nil {
				return 0, err
			}
			total += kn + vn
		}
		return total, nil
	default:
		return 0, wrongTypef("unsupported value of type %T", v)
	}
}

// encodeInto writes v to the front of buf and returns the number of bytes
// written. buf must be at least encodedLen(v) bytes; encodeInto does not
// re-validate variants already checked by encodedLen.
func encodeInto(buf []byte, v Value) (int, error) {
	switch t := v.(type) {
	case Null:
		buf[0] = compose(majorSimple7, simpleNull)
		return 1, nil
	case Bool:
		if t {
			buf[0] = compose(majorSimple7, simpleTrue)
		} else {
			buf[0] = compose(majorSimple7, simpleFalse)
		}
		return 1, nil
	case Uint:
		return encodeArg(majorUint, uint64(t), buf), nil
	case NegInt:
		return encodeArg(majorNegInt, uint64(t), buf), nil
	case Float:
		return encodeFloat(buf, float64(t)), nil
	case Text:
		off := encodeArg(majorText, uint64(len(t)), buf)
		copy(buf[off:], t)
		return off + len(t), nil
	case Bytes:
		off := encodeArg(majorBytes, uint64(len(t)), buf)
		copy(buf[off:], t)
		return off + len(t), nil
	case Array:
		off := encodeArg(majorArray, uint64(len(t)), buf)
		for _, item := range t {
			n, err := encodeInto(buf[off:], item)
			if err != nil {
				return 0, err
			}
			off += n
		}
		return off, nil
	case Map:
		off := encodeArg(majorMap, uint64(len(t)), buf)
		for _, e := range t {
			n, err := encodeInto(buf[off:], e.Key)
			if err != nil {
				return 0, err
			}
			off += n
			n, err = encodeInto(buf[off:], e.Value)
			if err != nil {
				return 0, err
			}
			off += n
		}
		return off, nil
	default:
		return 0, wrongTypef("unsupported value of type %T", v)
	}
}

func compose(major byte, minor byte) byte {
	return major<<5 | minor
}

// argLen returns the number of bytes needed to encode a major-type header
// whose argument is n, using the minimal-width form.
func argLen(n uint64) int {
	switch {
	case n < 24:
		return 1
	case n < 0x100:
		return 2
	case n < 0x10000:
		return 3
	case n < 0x100000000:
		return 5
	default:
		return 9
	}
}

// encodeArg writes a major-type header with argument n to buf using the
// minimal-width form and returns the number of bytes written.
func encodeArg(major byte, n uint64, buf []byte) int {
	switch {
	case n < 24:
		buf[0] = major<<5 | byte(n)
		return 1
	case n < 0x100:
		buf[0] = compose(major, 24)
		buf[1] = byte(n)
		return 2
	case n < 0x10000:
		buf[0] = compose(major, 25)
		binary.BigEndian.PutUint16(buf[1:], uint16(n))
		return 3
	case n < 0x100000000:
		buf[0] = compose(major, 26)
		binary.BigEndian.PutUint32(buf[1:], uint32(n))
		return 5
	default:
		buf[0] = compose(major, 27)
		binary.BigEndian.PutUint64(buf[1:], n)
		return 9
	}
}

// floatLen returns the encoded length of d under the minimality cascade:
// half (3 bytes) if it round-trips exactly, else single (5 bytes) if it
// round-trips exactly, else double (9 bytes).
func floatLen(d float64) int {
	if _, ok := half.NarrowExact(d); ok {
		return 3
	}
	if _, ok := half.NarrowSingleExact(d); ok {
		return 5
	}
	return 9
}

func encodeFloat(buf []byte, d float64) int {
	if bits, ok := half.NarrowExact(d); ok {
		buf[0] = compose(majorSimple7, simpleF16)
		binary.BigEndian.PutUint16(buf[1:], bits)
		return 3
	}
	if bits, ok := half.NarrowSingleExact(d); ok {
		buf[0] = compose(majorSimple7, simpleF32)
		binary.BigEndian.PutUint32(buf[1:], bits)
		return 5
	}
	buf[0] = compose(majorSimple7, simpleF64)
	binary.BigEndian.PutUint64(buf[1:], math.Float64bits(d))
	return 9
}
