package cbors

import (
	"errors"
	"strings"
	"testing"
)

// TestDecodeArgument_Truncated covers malformed headers: one per argument
// width, each missing some or all of its follow-on bytes, plus the reserved
// additional-information values 28-30 and the indefinite marker 31.
func TestDecodeArgument_Truncated(t *testing.T) {
	for name, c := range map[string]struct {
		In   []byte
		Want string
	}{
		"1-byte/missing":  {[]byte{0<<5 | 24}, "header truncated"},
		"2-byte/missing":  {[]byte{0<<5 | 25, 0}, "header truncated"},
		"4-byte/missing":  {[]byte{0<<5 | 26, 0, 0, 0}, "header truncated"},
		"8-byte/missing":  {[]byte{0<<5 | 27, 0, 0, 0, 0, 0, 0, 0}, "header truncated"},
		"reserved/28":     {[]byte{0<<5 | 28}, "reserved"},
		"reserved/29":     {[]byte{0<<5 | 29}, "reserved"},
		"reserved/30":     {[]byte{0<<5 | 30}, "reserved"},
		"indefinite/uint": {[]byte{0<<5 | 31}, "indefinite"},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := decodeArgument(c.In)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", c.Want)
			}
			if !strings.Contains(err.Error(), c.Want) {
				t.Errorf("error = %q, want substring %q", err.Error(), c.Want)
			}
		})
	}
}

func TestDecodeMajor7_Truncated(t *testing.T) {
	for name, c := range map[string]struct {
		In []byte
	}{
		"float16": {[]byte{7<<5 | 25, 0}},
		"float32": {[]byte{7<<5 | 26, 0, 0, 0}},
		"float64": {[]byte{7<<5 | 27, 0, 0, 0, 0, 0, 0, 0}},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := decodeMajor7(c.In)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestDecodeMajor7_Reserved(t *testing.T) {
	for _, ai := range []byte{28, 29, 30} {
		_, _, err := decodeMajor7([]byte{7<<5 | ai})
		if err == nil {
			t.Errorf("ai=%d: expected error, got nil", ai)
		}
	}
}

func TestDecodeIndefiniteSliceConcatenation(t *testing.T) {
	// 5F 44 AABBCCDD 43 EEFF99 FF -> Bytes(AA BB CC DD EE FF 99)
	in := []byte{0x5f, 0x44, 0xaa, 0xbb, 0xcc, 0xdd, 0x43, 0xee, 0xff, 0x99, 0xff}
	v, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, ok := v.(Bytes)
	if !ok {
		t.Fatalf("decoded %T, want Bytes", v)
	}
	want := Bytes{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x99}
	if !Equal(b, want) {
		t.Errorf("got %x, want %x", []byte(b), []byte(want))
	}
}

func TestDecodeIndefiniteChunkMajorMismatch(t *testing.T) {
	// indefinite byte string containing a text-string chunk.
	in := []byte{0x5f, 0x61, 'a', 0xff}
	_, err := Decode(in)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDecodeNestedIndefiniteChunkRejected(t *testing.T) {
	// indefinite byte string whose "chunk" is itself indefinite-length.
	in := []byte{0x5f, 0x5f, 0x41, 0x00, 0xff, 0xff}
	_, err := Decode(in)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDecodeTagRejected(t *testing.T) {
	// tag 23 wrapping a uint: 0xD7 0x01
	in := []byte{0xd7, 0x01}
	_, err := Decode(in)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("error is not *Error: %v", err)
	}
	if cerr.Kind != KindFormat {
		t.Errorf("Kind = %v, want KindFormat", cerr.Kind)
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	// text string of length 1 containing an invalid UTF-8 byte.
	in := []byte{0x61, 0xff}
	_, err := Decode(in)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDecodeTrailingGarbage(t *testing.T) {
	in := []byte{0x00, 0x00} // two complete uint(0) items
	_, err := Decode(in)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	_, err := Decode(nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDecodeMapOddIndefinite(t *testing.T) {
	// indefinite map with one key and no value before the break.
	in := []byte{0xbf, 0x61, 'a', 0xff}
	_, err := Decode(in)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	// a chain of definite-length single-element arrays nested past the
	// default depth limit, terminated by a scalar.
	depth := defaultMaxDepth + 10
	buf := make([]byte, 0, depth+1)
	for i := 0; i < depth; i++ {
		buf = append(buf, 0x81) // array of length 1
	}
	buf = append(buf, 0x00) // uint(0)

	_, err := Decode(buf)
	if err == nil {
		t.Fatal("expected depth-limit error, got nil")
	}
}
