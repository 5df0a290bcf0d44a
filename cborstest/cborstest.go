// Package cborstest provides fixtures and comparison helpers shared by the
// cbors package's test suites: hex-encoded wire fixtures, the RFC 7049
// Appendix A vector table, and a go-cmp-based diff for Value trees.
package cborstest

import (
	"encoding/hex"

	"github.com/google/go-cmp/cmp"

	"github.com/mjkoo/cbors-go"
)

// Hex decodes a hex string into a byte slice, panicking on malformed input.
// Intended for use with literal fixtures in test tables.
func Hex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("cborstest: invalid hex fixture: " + err.Error())
	}
	return b
}

// Vector is one entry of the RFC 7049 Appendix A example table: a Value and
// its normative wire encoding.
type Vector struct {
	Name  string
	Value cbors.Value
	Hex   string
}

// Diff returns a human-readable structural difference between two Values,
// or "" if they are structurally identical. It is meant for test failure
// messages, not for the equality check itself (use cbors.Equal for that):
// values that cbors.Equal accepts, such as two NaNs, two close but unequal
// floats, or Maps with reordered entries, can still produce a non-empty diff.
func Diff(expect, actual cbors.Value) string {
	return cmp.Diff(expect, actual,
		cmp.Transformer("bytesToString", func(b cbors.Bytes) string { return string(b) }),
	)
}
