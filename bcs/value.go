package bcs

import (
	"reflect"
)

// ByteVectorValue is a Vector(U8) value in one of its two accepted forms.
// Both forms encode as ULEB128(len) followed by the raw bytes.
type ByteVectorValue interface {
	Raw() []byte
	isByteVector()
}

// Text is a Vector(U8) value supplied as a UTF-8 string.
type Text string

// Bytes is a Vector(U8) value supplied as raw bytes.
type Bytes []byte

func (t Text) Raw() []byte  { return []byte(t) }
func (Text) isByteVector()  {}
func (b Bytes) Raw() []byte { return []byte(b) }
func (Bytes) isByteVector() {}

type byteVectorForm uint8

const (
	formInvalid byteVectorForm = iota
	formText
	formBytes
)

// classifyByteVector inspects only the shape of v: strings are text, arrays
// whose every element is numeric are bytes. An empty array counts as bytes.
func classifyByteVector(v any) byteVectorForm {
	switch x := v.(type) {
	case string, Text:
		return formText
	case []byte, Bytes:
		return formBytes
	case []any:
		for _, e := range x {
			if !isNumeric(e) {
				return formInvalid
			}
		}
		return formBytes
	case nil:
		return formInvalid
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return formInvalid
	}
	for i := 0; i < rv.Len(); i++ {
		if !isNumeric(rv.Index(i).Interface()) {
			return formInvalid
		}
	}
	return formBytes
}

// ByteVector converts a dynamic Vector(U8) value into Text or Bytes.
// It returns false when the shape is neither a string nor an array of bytes.
func ByteVector(v any) (ByteVectorValue, bool) {
	switch classifyByteVector(v) {
	case formText:
		switch x := v.(type) {
		case Text:
			return x, true
		case string:
			return Text(x), true
		}
	case formBytes:
		switch x := v.(type) {
		case Bytes:
			return x, true
		case []byte:
			return Bytes(x), true
		}
		elems, ok := sliceElems(v)
		if !ok {
			return nil, false
		}
		out := make(Bytes, len(elems))
		for i, e := range elems {
			n, ok := toBigInt(e)
			if !ok || !fitsWidth(n, 1) {
				return nil, false
			}
			out[i] = byte(n.Uint64())
		}
		return out, true
	}
	return nil, false
}

// sliceElems returns the elements of any slice or array value except strings
// and byte slices, which callers handle separately.
func sliceElems(v any) ([]any, bool) {
	if elems, ok := v.([]any); ok {
		return elems, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
