package bcs

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// maxExactFloat is the largest magnitude below which every integer has an
// exact float64 representation (2^53).
const maxExactFloat = 1 << 53

// maxNumberExponent bounds exponents in number literals; U256 needs at most 78
// decimal digits.
const maxNumberExponent = 100

// toBigInt handles JSON decoded numbers (json.Number, float64), YAML decoded
// integers, native Go integers, decimal or 0x-prefixed strings and *big.Int.
// Negative and fractional values are rejected.
func toBigInt(value any) (*big.Int, bool) {
	var n *big.Int

	switch v := value.(type) {
	case uint8:
		n = new(big.Int).SetUint64(uint64(v))
	case uint16:
		n = new(big.Int).SetUint64(uint64(v))
	case uint32:
		n = new(big.Int).SetUint64(uint64(v))
	case uint64:
		n = new(big.Int).SetUint64(v)
	case uint:
		n = new(big.Int).SetUint64(uint64(v))
	case int8:
		n = big.NewInt(int64(v))
	case int16:
		n = big.NewInt(int64(v))
	case int32:
		n = big.NewInt(int64(v))
	case int64:
		n = big.NewInt(v)
	case int:
		n = big.NewInt(int64(v))
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) || v != math.Trunc(v) || math.Abs(v) > maxExactFloat {
			return nil, false
		}
		n, _ = new(big.Float).SetFloat64(v).Int(nil)
	case float32:
		return toBigInt(float64(v))
	case json.Number:
		var ok bool
		if n, ok = numberToBigInt(string(v)); !ok {
			return nil, false
		}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, false
		}
		var ok bool
		n, ok = new(big.Int).SetString(s, 0)
		if !ok {
			return nil, false
		}
	case *big.Int:
		if v == nil {
			return nil, false
		}
		n = new(big.Int).Set(v)
	case big.Int:
		n = new(big.Int).Set(&v)
	default:
		return nil, false
	}

	if n.Sign() < 0 {
		return nil, false
	}
	return n, true
}

// numberToBigInt parses a JSON number literal. Plain integers keep full
// precision; forms like 1.0 or 1e2 are accepted when they denote a whole number.
func numberToBigInt(s string) (*big.Int, bool) {
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return n, true
	}
	if strings.Contains(s, "/") {
		return nil, false
	}
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		exp, err := strconv.Atoi(s[i+1:])
		if err != nil || exp > maxNumberExponent || exp < -maxNumberExponent {
			return nil, false
		}
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok || !r.IsInt() {
		return nil, false
	}
	return new(big.Int).Set(r.Num()), true
}

// isNumeric reports whether value is a number shape. Strings are never numeric
// here even if they parse, so that Vector(U8) samples stay unambiguous.
func isNumeric(value any) bool {
	switch value.(type) {
	case uint8, uint16, uint32, uint64, uint,
		int8, int16, int32, int64, int,
		float32, float64, json.Number, *big.Int, big.Int:
		return true
	default:
		return false
	}
}

// fitsWidth reports whether n is representable in width bytes.
func fitsWidth(n *big.Int, width int) bool {
	return n.BitLen() <= width*8
}

// littleEndian returns n as exactly width little-endian bytes.
func littleEndian(n *big.Int, width int) []byte {
	buf := n.FillBytes(make([]byte, width))
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}

// fromLittleEndian parses width little-endian bytes.
func fromLittleEndian(buf []byte) *big.Int {
	be := make([]byte, len(buf))
	for i := range buf {
		be[len(buf)-1-i] = buf[i]
	}
	return new(big.Int).SetBytes(be)
}
