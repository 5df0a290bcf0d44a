package cborstest

import (
	"math"

	"github.com/mjkoo/cbors-go"
)

// AppendixA is the worked-example table from RFC 7049 Appendix A, used by
// both the encoder and decoder test suites: the encoder must produce
// exactly this byte sequence for the Value, and the decoder must produce
// exactly this Value for the bytes.
var AppendixA = []Vector{
	{"uint/0", cbors.Uint(0), "00"},
	{"uint/1", cbors.Uint(1), "01"},
	{"uint/10", cbors.Uint(10), "0a"},
	{"uint/23", cbors.Uint(23), "17"},
	{"uint/24", cbors.Uint(24), "1818"},
	{"uint/25", cbors.Uint(25), "1819"},
	{"uint/100", cbors.Uint(100), "1864"},
	{"uint/1000", cbors.Uint(1000), "1903e8"},
	{"uint/1000000", cbors.Uint(1000000), "1a000f4240"},
	{"uint/1000000000000", cbors.Uint(1000000000000), "1b000000e8d4a51000"},
	{"uint/max64", cbors.Uint(18446744073709551615), "1bffffffffffffffff"},

	{"negint/-1", cbors.NegInt(0), "20"},
	{"negint/-10", cbors.NegInt(9), "29"},
	{"negint/-100", cbors.NegInt(99), "3863"},
	{"negint/-1000", cbors.NegInt(999), "3903e7"},

	{"float/0.0", cbors.Float(0.0), "f90000"},
	{"float/-0.0", cbors.Float(negZero()), "f98000"},
	{"float/1.0", cbors.Float(1.0), "f93c00"},
	{"float/1.1", cbors.Float(1.1), "fb3ff199999999999a"},
	{"float/1.5", cbors.Float(1.5), "f93e00"},
	{"float/65504.0", cbors.Float(65504.0), "f97bff"},
	{"float/100000.0", cbors.Float(100000.0), "fa47c35000"},
	{"float/3.4028234663852886e38", cbors.Float(3.4028234663852886e+38), "fa7f7fffff"},
	{"float/1.0e300", cbors.Float(1.0e+300), "fb7e37e43c8800759c"},
	{"float/5.960464477539063e-8", cbors.Float(5.960464477539063e-8), "f90001"},
	{"float/0.00006103515625", cbors.Float(0.00006103515625), "f90400"},
	{"float/-4.0", cbors.Float(-4.0), "f9c400"},
	{"float/-4.1", cbors.Float(-4.1), "fbc010666666666666"},
	{"float/+inf", cbors.Float(posInf()), "f97c00"},
	{"float/nan", cbors.Float(nan()), "f97e00"},
	{"float/-inf", cbors.Float(negInf()), "f9fc00"},

	{"bool/false", cbors.Bool(false), "f4"},
	{"bool/true", cbors.Bool(true), "f5"},
	{"null", cbors.Null{}, "f6"},

	{"text/empty", cbors.Text(""), "60"},
	{"text/a", cbors.Text("a"), "6161"},
	{"text/IETF", cbors.Text("IETF"), "6449455446"},
	{"text/quote-backslash", cbors.Text("\"\\"), "62225c"},
	{"text/u00fc", cbors.Text("ü"), "62c3bc"},
	{"text/u6c34", cbors.Text("水"), "63e6b0b4"},

	{"array/empty", cbors.Array{}, "80"},
	{"array/123", cbors.Array{cbors.Uint(1), cbors.Uint(2), cbors.Uint(3)}, "83010203"},
	{
		"array/nested",
		cbors.Array{
			cbors.Uint(1),
			cbors.Array{cbors.Uint(2), cbors.Uint(3)},
			cbors.Array{cbors.Uint(4), cbors.Uint(5)},
		},
		"8301820203820405",
	},
	{"array/1..25", array1to25(), "98190102030405060708090a0b0c0d0e0f101112131415161718181819"},

	{"map/empty", cbors.Map{}, "a0"},
	{
		"map/1-2-3-4",
		cbors.Map{{Key: cbors.Uint(1), Value: cbors.Uint(2)}, {Key: cbors.Uint(3), Value: cbors.Uint(4)}},
		"a201020304",
	},
	{
		"map/a-1-b-23",
		cbors.Map{
			{Key: cbors.Text("a"), Value: cbors.Uint(1)},
			{Key: cbors.Text("b"), Value: cbors.Array{cbors.Uint(2), cbors.Uint(3)}},
		},
		"a26161016162820203",
	},
	{
		"array/a-map-b-c",
		cbors.Array{cbors.Text("a"), cbors.Map{{Key: cbors.Text("b"), Value: cbors.Text("c")}}},
		"826161a161626163",
	},
	{"map/a..e", mapAtoE(), "a56161614161626142616361436164614461656145"},
}

func negZero() float64 { return math.Copysign(0, -1) }
func posInf() float64  { return math.Inf(1) }
func negInf() float64  { return math.Inf(-1) }
func nan() float64     { return math.NaN() }

func array1to25() cbors.Array {
	a := make(cbors.Array, 25)
	for i := range a {
		a[i] = cbors.Uint(uint64(i + 1))
	}
	return a
}

func mapAtoE() cbors.Map {
	m := make(cbors.Map, 0, 5)
	for c := byte('a'); c <= 'e'; c++ {
		lower := string([]byte{c})
		upper := string([]byte{c - 'a' + 'A'})
		m = append(m, cbors.MapEntry{Key: cbors.Text(lower), Value: cbors.Text(upper)})
	}
	return m
}
