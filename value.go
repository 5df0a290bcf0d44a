package cbors

import "math"

// Value is a CBOR data item. The concrete types implementing Value are
// exactly:
//
//   - Null
//   - Bool
//   - Uint
//   - NegInt
//   - Float
//   - Text
//   - Bytes
//   - Array
//   - Map
//
// A Value built from types outside this set is not valid input to Encode or
// Dumpb; both report a wrong-type Error when they encounter one, including
// nested inside an Array or Map.
type Value interface {
	isValue()
}

// Null is the absent value, CBOR's `null` (major type 7, argument 22).
type Null struct{}

func (Null) isValue() {}

// Bool is a CBOR boolean (major type 7, argument 20/21).
type Bool bool

func (Bool) isValue() {}

// Uint is an unsigned integer in [0, 2^64-1] (major type 0).
type Uint uint64

func (Uint) isValue() {}

// NegInt is a negative integer, logically in [-2^64, -1] (major type 1).
//
// The wire argument N (0 <= N <= 2^64-1) encodes the value -1-N. Go's int64
// cannot span that whole range, so NegInt stores the raw wire argument
// rather than forking into a second "wide negint" representation. Int64
// recovers the conventional signed value for the common case where it fits.
type NegInt uint64

func (NegInt) isValue() {}

// Int64 returns the logical value -1-N as an int64, and true, if it fits.
// It does not fit only when N >= 2^63, i.e. when the logical value is more
// negative than math.MinInt64.
func (n NegInt) Int64() (int64, bool) {
	if uint64(n) >= 1<<63 {
		return 0, false
	}
	return -1 - int64(n), true
}

// NewNegInt builds a NegInt from a conventional negative int64. It panics if
// v is not negative; callers with an unsigned magnitude should construct
// NegInt(n) directly.
func NewNegInt(v int64) NegInt {
	if v >= 0 {
		panic("cbors: NewNegInt requires a negative value")
	}
	return NegInt(-1 - v)
}

// Float is an IEEE-754 double-precision float (major type 7, argument 27,
// or a narrower 25/26 form that widens exactly to the same double).
type Float float64

func (Float) isValue() {}

// Text is a UTF-8 text string (major type 3).
type Text string

func (Text) isValue() {}

// Bytes is an opaque byte string (major type 2).
type Bytes []byte

func (Bytes) isValue() {}

// Array is an ordered sequence of Values (major type 4).
type Array []Value

func (Array) isValue() {}

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is an ordered sequence of key/value pairs (major type 5).
//
// Unlike a native Go map, Map preserves insertion order (the wire order on
// decode, the caller-supplied order on encode) and admits any Value as a
// key, including Bytes and Array, which are not Go-comparable and so could
// not be native map keys. Scalar keys (Null, Bool, integers, Text, Bytes)
// are the common case, but the encoder and decoder both accept any Value as
// a key, leaving key well-formedness to the caller.
type Map []MapEntry

func (Map) isValue() {}

// Equal reports whether v and other represent the same CBOR value, under
// the round-trip law's NaN-aware, float-close comparison: two Floats that
// are both NaN compare equal, and otherwise Floats compare equal when they
// are bit-identical or within a small relative tolerance of each other.
// Map comparison ignores key/entry order.
func Equal(v, other Value) bool {
	switch a := v.(type) {
	case Null:
		_, ok := other.(Null)
		return ok
	case Bool:
		b, ok := other.(Bool)
		return ok && a == b
	case Uint:
		b, ok := other.(Uint)
		return ok && a == b
	case NegInt:
		b, ok := other.(NegInt)
		return ok && a == b
	case Float:
		b, ok := other.(Float)
		if !ok {
			return false
		}
		return floatEqual(float64(a), float64(b))
	case Text:
		b, ok := other.(Text)
		return ok && a == b
	case Bytes:
		b, ok := other.(Bytes)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case Array:
		b, ok := other.(Array)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Map:
		b, ok := other.(Map)
		if !ok || len(a) != len(b) {
			return false
		}
		used := make([]bool, len(b))
		for _, ea := range a {
			found := false
			for j, eb := range b {
				if used[j] {
					continue
				}
				if Equal(ea.Key, eb.Key) && Equal(ea.Value, eb.Value) {
					used[j] = true
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if a == b {
		return true
	}
	const rel = 1e-9
	d := math.Abs(a - b)
	m := math.Max(math.Abs(a), math.Abs(b))
	return d <= rel*m
}
