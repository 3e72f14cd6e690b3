package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrOverflow is returned when a ULEB128 value exceeds the maximum size.
var ErrOverflow = errors.New("uleb128: overflow")

// ErrNonCanonical is returned for ULEB128 values with redundant trailing zero groups.
var ErrNonCanonical = errors.New("uleb128: non-canonical encoding")

// Reader reads BCS and Move table primitives from a byte slice with position tracking.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new Reader over data. The slice is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The returned slice is a copy.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, r.wrapError(io.ErrUnexpectedEOF)
	}
	buf := make([]byte, n)
	copy(buf, r.data[r.pos:r.pos+n])
	r.pos += n
	return buf, nil
}

// ReadULEB128 reads an unsigned LEB128 value of at most 64 bits.
// Encodings with trailing zero groups are rejected, as BCS requires.
func (r *Reader) ReadULEB128() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 63 && b > 1 {
			return 0, r.wrapError(ErrOverflow)
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			if shift > 0 && b == 0 {
				return 0, r.wrapError(ErrNonCanonical)
			}
			return result, nil
		}
		shift += 7
		if shift > 63 {
			return 0, r.wrapError(ErrOverflow)
		}
	}
}

// ReadULEB128Max reads a ULEB128 value and checks it against max.
func (r *Reader) ReadULEB128Max(max uint64) (uint64, error) {
	v, err := r.ReadULEB128()
	if err != nil {
		return 0, err
	}
	if v > max {
		return 0, r.wrapError(fmt.Errorf("value %d exceeds maximum %d", v, max))
	}
	return v, nil
}

// ReadLength reads a ULEB128 length prefix and checks that many bytes could follow.
func (r *Reader) ReadLength() (int, error) {
	n, err := r.ReadULEB128Max(uint64(r.Len()))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32LE() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadName reads a ULEB128 length-prefixed UTF-8 string.
func (r *Reader) ReadName() (string, error) {
	length, err := r.ReadLength()
	if err != nil {
		return "", err
	}
	data, err := r.ReadBytes(length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", r.wrapError(errors.New("invalid UTF-8 in name"))
	}
	return string(data), nil
}

// ReadRemaining reads all remaining bytes.
func (r *Reader) ReadRemaining() []byte {
	buf, _ := r.ReadBytes(r.Len())
	return buf
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}

// ParseError represents an error during binary parsing with position information.
type ParseError struct {
	Err      error
	Section  string
	Position int
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("move: %s at position %d: %v", e.Section, e.Position, e.Err)
	}
	return fmt.Sprintf("move: at position %d: %v", e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapError creates a ParseError with the current position.
func (r *Reader) WrapError(section string, err error) error {
	return &ParseError{
		Position: r.pos,
		Section:  section,
		Err:      err,
	}
}
