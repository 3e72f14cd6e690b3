// Package movetest builds small compiled Move module binaries for tests.
package movetest

import (
	"encoding/binary"

	bin "github.com/wippyai/move-patcher/internal/binary"
)

// Version is the binary format version written by Module.
const Version = 6

// Const is a constant pool entry given as raw token bytes and BCS data.
type Const struct {
	Token []byte
	Data  []byte
}

// U8 returns a U8 constant.
func U8(v uint8) Const { return Const{Token: []byte{0x02}, Data: []byte{v}} }

// U64 returns a U64 constant.
func U64(v uint64) Const {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, v)
	return Const{Token: []byte{0x03}, Data: data}
}

// Bool returns a Bool constant.
func Bool(v bool) Const {
	b := byte(0)
	if v {
		b = 1
	}
	return Const{Token: []byte{0x01}, Data: []byte{b}}
}

// Address returns an Address constant whose last byte is b.
func Address(b byte) Const {
	data := make([]byte, 32)
	data[31] = b
	return Const{Token: []byte{0x05}, Data: data}
}

// ByteVector returns a Vector(U8) constant.
func ByteVector(v []byte) Const {
	w := bin.NewWriter()
	w.WriteVector(v)
	return Const{Token: []byte{0x0A, 0x02}, Data: w.Bytes()}
}

// Module returns a module binary with a module handle table, an address
// identifier table, the given identifiers and constants, and a self handle
// trailer. The module name is the first identifier.
func Module(ids []string, consts ...Const) []byte {
	idw := bin.NewWriter()
	for _, id := range ids {
		idw.WriteName(id)
	}

	cw := bin.NewWriter()
	for _, c := range consts {
		cw.WriteBytes(c.Token)
		cw.WriteVector(c.Data)
	}

	tables := []struct {
		kind byte
		data []byte
	}{
		{0x01, []byte{0x00, 0x00}},
		{0x08, make([]byte, 32)},
		{0x07, idw.Bytes()},
		{0x06, cw.Bytes()},
	}

	w := bin.NewWriter()
	w.WriteBytes([]byte{0xA1, 0x1C, 0xEB, 0x0B})
	w.WriteU32LE(Version)
	w.WriteULEB128(uint64(len(tables)))
	var offset uint64
	for _, t := range tables {
		w.Byte(t.kind)
		w.WriteULEB128(offset)
		w.WriteULEB128(uint64(len(t.data)))
		offset += uint64(len(t.data))
	}
	for _, t := range tables {
		w.WriteBytes(t.data)
	}
	w.Byte(0x00)
	return w.Bytes()
}
