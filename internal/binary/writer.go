package binary

import (
	"bytes"
	"encoding/binary"
)

// Writer provides buffered writing utilities for BCS and Move table encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteULEB128 writes an unsigned LEB128 encoded uint64.
func (w *Writer) WriteULEB128(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// WriteU32LE writes a little-endian uint32 (fixed 4 bytes).
func (w *Writer) WriteU32LE(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteName writes a ULEB128 length-prefixed string.
func (w *Writer) WriteName(s string) {
	w.WriteULEB128(uint64(len(s)))
	w.buf.WriteString(s)
}

// WriteVector writes a ULEB128 length-prefixed byte slice.
func (w *Writer) WriteVector(data []byte) {
	w.WriteULEB128(uint64(len(data)))
	w.buf.Write(data)
}

// EncodeULEB128 encodes v as a standalone ULEB128 byte sequence.
func EncodeULEB128(v uint64) []byte {
	w := NewWriter()
	w.WriteULEB128(v)
	return w.Bytes()
}
