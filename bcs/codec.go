package bcs

import (
	"fmt"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/move-patcher/address"
	"github.com/wippyai/move-patcher/errors"
	"github.com/wippyai/move-patcher/internal/binary"
)

// MaxVectorLength bounds decoded vector lengths.
const MaxVectorLength = 1 << 20

// Codec encodes and decodes values of one resolved type descriptor.
type Codec interface {
	// Type returns the descriptor the codec was resolved from.
	Type() Type
	// Name returns the BCS shape, e.g. "u64", "string", "vector<u8>".
	Name() string
	// Encode serializes value to BCS bytes.
	Encode(value any) ([]byte, error)
	// Decode parses BCS bytes. Trailing bytes are an error.
	Decode(data []byte) (any, error)
}

type element interface {
	name() string
	write(w *binary.Writer, v any, path []string) error
	read(r *binary.Reader, path []string) (any, error)
}

type codec struct {
	elem element
	typ  Type
}

func (c *codec) Type() Type   { return c.typ }
func (c *codec) Name() string { return c.elem.name() }

func (c *codec) Encode(value any) ([]byte, error) {
	w := binary.NewWriter()
	if err := c.elem.write(w, value, nil); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *codec) Decode(data []byte) (any, error) {
	r := binary.NewReader(data)
	v, err := c.elem.read(r, nil)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, nil,
			fmt.Sprintf("%d trailing bytes after %s", r.Len(), c.elem.name()))
	}
	return v, nil
}

func decodeErr(path []string, what string, cause error) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Path(path...).
		Detail("read %s", what).
		Cause(cause).
		Build()
}

// unsigned handles U8 through U256.
type unsigned struct {
	kind Kind
}

func (u unsigned) name() string {
	return "u" + strconv.Itoa(u.kind.Width()*8)
}

func (u unsigned) write(w *binary.Writer, v any, path []string) error {
	n, ok := toBigInt(v)
	if !ok {
		return errors.InvalidValue(path, u.kind.String(), v, "not an unsigned integer")
	}
	if !fitsWidth(n, u.kind.Width()) {
		return errors.InvalidValue(path, u.kind.String(), v, "value out of range for "+u.kind.String())
	}
	w.WriteBytes(littleEndian(n, u.kind.Width()))
	return nil
}

func (u unsigned) read(r *binary.Reader, path []string) (any, error) {
	buf, err := r.ReadBytes(u.kind.Width())
	if err != nil {
		return nil, decodeErr(path, u.name(), err)
	}
	n := fromLittleEndian(buf)
	switch u.kind {
	case KindU8:
		return uint8(n.Uint64()), nil
	case KindU16:
		return uint16(n.Uint64()), nil
	case KindU32:
		return uint32(n.Uint64()), nil
	case KindU64:
		return n.Uint64(), nil
	default:
		return n, nil
	}
}

type boolean struct{}

func (boolean) name() string { return "bool" }

func (boolean) write(w *binary.Writer, v any, path []string) error {
	b, ok := v.(bool)
	if !ok {
		return errors.InvalidValue(path, "Bool", v, "not a boolean")
	}
	if b {
		w.Byte(1)
	} else {
		w.Byte(0)
	}
	return nil
}

func (boolean) read(r *binary.Reader, path []string) (any, error) {
	b, err := r.ReadByte()
	if err != nil {
		return nil, decodeErr(path, "bool", err)
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, errors.InvalidData(errors.PhaseDecode, path, fmt.Sprintf("invalid bool byte 0x%02x", b))
	}
}

// account encodes an address literal as 32 raw bytes after canonicalizing it.
type account struct{}

func (account) name() string { return "address" }

func (account) write(w *binary.Writer, v any, path []string) error {
	s, ok := v.(string)
	if !ok {
		return errors.InvalidValue(path, "Address", v, "address must be a string literal")
	}
	raw, err := address.Bytes(s)
	if err != nil {
		return err
	}
	w.WriteBytes(raw)
	return nil
}

func (account) read(r *binary.Reader, path []string) (any, error) {
	raw, err := r.ReadBytes(address.Length)
	if err != nil {
		return nil, decodeErr(path, "address", err)
	}
	return address.FromBytes(raw)
}

// text is the string form of Vector(U8).
type text struct{}

func (text) name() string { return "string" }

func (text) write(w *binary.Writer, v any, path []string) error {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case Text:
		s = string(x)
	default:
		return errors.InvalidValue(path, "Vector(U8)", v, "expected a string")
	}
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseEncode, path, []byte(s))
	}
	w.WriteName(s)
	return nil
}

func (text) read(r *binary.Reader, path []string) (any, error) {
	n, err := r.ReadLength()
	if err != nil {
		return nil, decodeErr(path, "string length", err)
	}
	buf, err := r.ReadBytes(n)
	if err != nil {
		return nil, decodeErr(path, "string", err)
	}
	if !utf8.Valid(buf) {
		return nil, errors.InvalidUTF8(errors.PhaseDecode, path, buf)
	}
	return string(buf), nil
}

// raw is the byte-array form of Vector(U8).
type raw struct{}

func (raw) name() string { return "vector<u8>" }

func (raw) write(w *binary.Writer, v any, path []string) error {
	if classifyByteVector(v) != formBytes {
		return errors.InvalidValue(path, "Vector(U8)", v, "expected an array of numbers")
	}
	bv, ok := ByteVector(v)
	if !ok {
		return errors.InvalidValue(path, "Vector(U8)", v, "array element out of range for U8")
	}
	w.WriteVector(bv.Raw())
	return nil
}

func (raw) read(r *binary.Reader, path []string) (any, error) {
	n, err := r.ReadLength()
	if err != nil {
		return nil, decodeErr(path, "vector<u8> length", err)
	}
	buf, err := r.ReadBytes(n)
	if err != nil {
		return nil, decodeErr(path, "vector<u8>", err)
	}
	return buf, nil
}

type vector struct {
	elem element
	desc string
}

func (v vector) name() string { return "vector<" + v.elem.name() + ">" }

func (v vector) write(w *binary.Writer, value any, path []string) error {
	if _, isString := value.(string); isString {
		return errors.InvalidValue(path, v.desc, value, "expected an array")
	}
	elems, ok := sliceElems(value)
	if !ok {
		return errors.InvalidValue(path, v.desc, value, "expected an array")
	}
	w.WriteULEB128(uint64(len(elems)))
	for i, e := range elems {
		if err := v.elem.write(w, e, appendPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (v vector) read(r *binary.Reader, path []string) (any, error) {
	n, err := r.ReadULEB128Max(MaxVectorLength)
	if err != nil {
		return nil, decodeErr(path, v.name()+" length", err)
	}
	out := make([]any, 0, min(int(n), r.Len()))
	for i := 0; i < int(n); i++ {
		e, err := v.elem.read(r, appendPath(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func appendPath(path []string, i int) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, "["+strconv.Itoa(i)+"]")
}

// Equal reports whether two decoded values are identical, comparing big
// integers by value.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	case []byte:
		y, ok := b.([]byte)
		return ok && string(x) == string(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
