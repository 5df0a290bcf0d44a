package cbors

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/mjkoo/cbors-go/internal/half"
)

// major types, per RFC 7049 §2.1.
const (
	majorUint    = 0
	majorNegInt  = 1
	majorBytes   = 2
	majorText    = 3
	majorArray   = 4
	majorMap     = 5
	majorTag     = 6
	majorSimple7 = 7
)

const (
	minorIndefinite = 31
	breakByte       = 0xff
)

// major type 7 argument values for simple types and floats.
const (
	simpleFalse = 20
	simpleTrue  = 21
	simpleNull  = 22
	simpleUndef = 23
	simpleF16   = 25
	simpleF32   = 26
	simpleF64   = 27
)

// defaultMaxDepth bounds recursive-descent depth as a defense against
// pathological input.
const defaultMaxDepth = 256

// DecodeOptions tunes Decode's behavior. The zero value is usable:
// DecodeWithOptions treats a MaxDepth of zero or less as the default depth.
type DecodeOptions struct {
	// MaxDepth bounds how many nested Array/Map levels the decoder will
	// descend into before failing with a format error.
	MaxDepth int
}

// DefaultDecodeOptions returns the options Decode and Loadb use.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{MaxDepth: defaultMaxDepth}
}

// Decode parses buf as a single CBOR item and returns the equivalent Value.
// It is equivalent to DecodeWithOptions(buf, DefaultDecodeOptions()).
func Decode(buf []byte) (Value, error) {
	return DecodeWithOptions(buf, DefaultDecodeOptions())
}

// DecodeWithOptions parses buf as a single CBOR item using opts.
//
// The entire buffer must be consumed by exactly one top-level item; trailing
// bytes are a format error, as is any other structural or semantic
// malformation (truncated headers, indefinite-length chunk mismatches,
// invalid UTF-8, tags, depth past MaxDepth).
func DecodeWithOptions(buf []byte, opts DecodeOptions) (Value, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	d := &decoder{buf: buf, maxDepth: maxDepth}
	v, n, err := d.decodeItem(0)
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, formatf("trailing bytes after top-level item: %d unread of %d", len(buf)-n, len(buf))
	}
	return v, nil
}

type decoder struct {
	buf      []byte
	maxDepth int
}

// decodeItem reads one CBOR item starting at the beginning of d.buf and
// returns the Value, the number of bytes consumed from the start of d.buf,
// and any error.
func (d *decoder) decodeItem(depth int) (Value, int, error) {
	if depth > d.maxDepth {
		return nil, 0, formatf("exceeded max nesting depth %d", d.maxDepth)
	}
	p := d.buf
	if len(p) == 0 {
		return nil, 0, formatf("unexpected end of input")
	}

	major := p[0] >> 5
	switch major {
	case majorUint:
		arg, n, err := decodeArgument(p)
		if err != nil {
			return nil, 0, err
		}
		return Uint(arg), n, nil
	case majorNegInt:
		arg, n, err := decodeArgument(p)
		if err != nil {
			return nil, 0, err
		}
		return NegInt(arg), n, nil
	case majorBytes:
		b, n, err := decodeByteLike(p, majorBytes)
		if err != nil {
			return nil, 0, err
		}
		return Bytes(b), n, nil
	case majorText:
		b, n, err := decodeByteLike(p, majorText)
		if err != nil {
			return nil, 0, err
		}
		if !utf8.Valid(b) {
			return nil, 0, formatf("text is not valid UTF-8")
		}
		return Text(b), n, nil
	case majorArray:
		return d.decodeArray(p, depth)
	case majorMap:
		return d.decodeMap(p, depth)
	case majorTag:
		return nil, 0, formatf("tagged data items (major type 6) are not supported")
	default: // majorSimple7
		return decodeMajor7(p)
	}
}

func peekMinor(p []byte) byte {
	return p[0] & 0x1f
}

// decodeArgument reads the initial byte's argument, honoring the 1/2/4/8
// byte follow-on forms. It does not accept the indefinite marker (31);
// callers needing that must check peekMinor themselves first.
func decodeArgument(p []byte) (uint64, int, error) {
	minor := peekMinor(p)
	if minor < 24 {
		return uint64(minor), 1, nil
	}

	var argLen int
	switch minor {
	case 24:
		argLen = 1
	case 25:
		argLen = 2
	case 26:
		argLen = 4
	case 27:
		argLen = 8
	case 28, 29, 30:
		return 0, 0, formatf("reserved additional information value %d", minor)
	case minorIndefinite:
		return 0, 0, formatf("unexpected indefinite-length marker")
	default:
		return 0, 0, formatf("unexpected additional information value %d", minor)
	}

	if len(p) < argLen+1 {
		return 0, 0, formatf("header truncated: need %d argument bytes, have %d", argLen, len(p)-1)
	}

	var v uint64
	switch argLen {
	case 1:
		v = uint64(p[1])
	case 2:
		v = uint64(binary.BigEndian.Uint16(p[1:]))
	case 4:
		v = uint64(binary.BigEndian.Uint32(p[1:]))
	case 8:
		v = binary.BigEndian.Uint64(p[1:])
	}
	return v, argLen + 1, nil
}

// decodeByteLike decodes either a byte string (major 2) or text string
// (major 3) header and body, including the indefinite-chunked form. inner
// identifies which major type is being decoded, so chunk validation can
// reject a mismatched chunk major type.
func decodeByteLike(p []byte, inner byte) ([]byte, int, error) {
	if peekMinor(p) == minorIndefinite {
		return decodeByteLikeIndefinite(p, inner)
	}

	slen, off, err := decodeArgument(p)
	if err != nil {
		return nil, 0, err
	}
	rest := p[off:]
	if uint64(len(rest)) < slen {
		return nil, 0, formatf("string length %d exceeds remaining input %d", slen, len(rest))
	}
	return rest[:slen], off + int(slen), nil
}

func decodeByteLikeIndefinite(p []byte, inner byte) ([]byte, int, error) {
	rest := p[1:]
	off := 1
	var out []byte
	for {
		if len(rest) == 0 {
			return nil, 0, formatf("unexpected end of input in indefinite-length string")
		}
		if rest[0] == breakByte {
			return out, off + 1, nil
		}

		chunkMajor := rest[0] >> 5
		if chunkMajor != inner {
			return nil, 0, formatf("chunk major type %d does not match container major type %d", chunkMajor, inner)
		}
		if peekMinor(rest) == minorIndefinite {
			return nil, 0, formatf("nested indefinite-length chunk")
		}

		chunk, n, err := decodeArgument(rest)
		if err != nil {
			return nil, 0, err
		}
		body := rest[n:]
		if uint64(len(body)) < chunk {
			return nil, 0, formatf("chunk length %d exceeds remaining input %d", chunk, len(body))
		}
		out = append(out, body[:chunk]...)
		consumed := n + int(chunk)
		rest = rest[consumed:]
		off += consumed
	}
}

func (d *decoder) decodeArray(p []byte, depth int) (Value, int, error) {
	if peekMinor(p) == minorIndefinite {
		return d.decodeArrayIndefinite(p, depth)
	}

	alen, off, err := decodeArgument(p)
	if err != nil {
		return nil, 0, err
	}

	sub := &decoder{buf: p[off:], maxDepth: d.maxDepth}
	arr := make(Array, 0, clampAlloc(alen))
	for i := uint64(0); i < alen; i++ {
		item, n, err := sub.decodeItem(depth + 1)
		if err != nil {
			return nil, 0, err
		}
		sub.buf = sub.buf[n:]
		off += n
		arr = append(arr, item)
	}
	return arr, off, nil
}

func (d *decoder) decodeArrayIndefinite(p []byte, depth int) (Value, int, error) {
	sub := &decoder{buf: p[1:], maxDepth: d.maxDepth}
	off := 1
	arr := Array{}
	for {
		if len(sub.buf) == 0 {
			return nil, 0, formatf("unexpected end of input in indefinite-length array")
		}
		if sub.buf[0] == breakByte {
			return arr, off + 1, nil
		}
		item, n, err := sub.decodeItem(depth + 1)
		if err != nil {
			return nil, 0, err
		}
		sub.buf = sub.buf[n:]
		off += n
		arr = append(arr, item)
	}
}

func (d *decoder) decodeMap(p []byte, depth int) (Value, int, error) {
	if peekMinor(p) == minorIndefinite {
		return d.decodeMapIndefinite(p, depth)
	}

	mlen, off, err := decodeArgument(p)
	if err != nil {
		return nil, 0, err
	}

	sub := &decoder{buf: p[off:], maxDepth: d.maxDepth}
	m := make(Map, 0, clampAlloc(mlen))
	for i := uint64(0); i < mlen; i++ {
		key, kn, err := sub.decodeItem(depth + 1)
		if err != nil {
			return nil, 0, err
		}
		sub.buf = sub.buf[kn:]
		off += kn

		val, vn, err := sub.decodeItem(depth + 1)
		if err != nil {
			return nil, 0, err
		}
		sub.buf = sub.buf[vn:]
		off += vn

		m = append(m, MapEntry{Key: key, Value: val})
	}
	return m, off, nil
}

func (d *decoder) decodeMapIndefinite(p []byte, depth int) (Value, int, error) {
	sub := &decoder{buf: p[1:], maxDepth: d.maxDepth}
	off := 1
	m := Map{}
	for {
		if len(sub.buf) == 0 {
			return nil, 0, formatf("unexpected end of input in indefinite-length map")
		}
		if sub.buf[0] == breakByte {
			return m, off + 1, nil
		}

		key, kn, err := sub.decodeItem(depth + 1)
		if err != nil {
			return nil, 0, err
		}
		sub.buf = sub.buf[kn:]
		off += kn

		if len(sub.buf) == 0 {
			return nil, 0, formatf("unexpected end of input in indefinite-length map")
		}
		if sub.buf[0] == breakByte {
			return nil, 0, formatf("indefinite-length map has an odd number of items")
		}

		val, vn, err := sub.decodeItem(depth + 1)
		if err != nil {
			return nil, 0, err
		}
		sub.buf = sub.buf[vn:]
		off += vn

		m = append(m, MapEntry{Key: key, Value: val})
	}
}

func decodeMajor7(p []byte) (Value, int, error) {
	minor := peekMinor(p)
	switch minor {
	case simpleFalse:
		return Bool(false), 1, nil
	case simpleTrue:
		return Bool(true), 1, nil
	case simpleNull:
		return Null{}, 1, nil
	case simpleUndef:
		// undefined decodes as Null; the encoder never emits it.
		return Null{}, 1, nil
	case simpleF16:
		if len(p) < 3 {
			return nil, 0, formatf("header truncated: need 2 argument bytes for half-precision float")
		}
		bits := binary.BigEndian.Uint16(p[1:])
		return Float(half.Widen(bits)), 3, nil
	case simpleF32:
		if len(p) < 5 {
			return nil, 0, formatf("header truncated: need 4 argument bytes for single-precision float")
		}
		bits := binary.BigEndian.Uint32(p[1:])
		return Float(float64(math.Float32frombits(bits))), 5, nil
	case simpleF64:
		if len(p) < 9 {
			return nil, 0, formatf("header truncated: need 8 argument bytes for double-precision float")
		}
		bits := binary.BigEndian.Uint64(p[1:])
		return Float(math.Float64frombits(bits)), 9, nil
	case minorIndefinite:
		return nil, 0, formatf("unexpected break outside an indefinite-length container")
	case 28, 29, 30:
		return nil, 0, formatf("reserved additional information value %d", minor)
	default:
		// ai 0..19 are simple values other than false/true/null/undefined;
		// ai 24 is the one-byte simple-value form. Neither has a Value
		// variant to decode into.
		return nil, 0, formatf("unsupported simple value, additional information %d", minor)
	}
}

func clampAlloc(n uint64) uint64 {
	const maxPrealloc = 1 << 16
	if n > maxPrealloc {
		return maxPrealloc
	}
	return n
}
