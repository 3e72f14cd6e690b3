package move

import (
	"github.com/wippyai/move-patcher/internal/binary"
)

// Encode serializes the module. Table offsets are recomputed so that tables
// are laid out contiguously in header order.
func (m *Module) Encode() []byte {
	contents := make([][]byte, len(m.Tables))
	for i, t := range m.Tables {
		switch t.Kind {
		case TableIdentifiers:
			contents[i] = EncodeIdentifiers(m.Identifiers)
		case TableConstantPool:
			contents[i] = EncodeConstants(m.Constants)
		default:
			contents[i] = t.Data
		}
	}

	w := binary.NewWriter()
	w.WriteBytes(Magic[:])
	w.WriteU32LE(m.Version)
	w.WriteULEB128(uint64(len(m.Tables)))

	var offset uint64
	for i, t := range m.Tables {
		w.Byte(byte(t.Kind))
		w.WriteULEB128(offset)
		w.WriteULEB128(uint64(len(contents[i])))
		offset += uint64(len(contents[i]))
	}

	for _, c := range contents {
		w.WriteBytes(c)
	}
	w.WriteBytes(m.Trailer)

	return w.Bytes()
}

// EncodeIdentifiers serializes an identifier table.
func EncodeIdentifiers(ids []string) []byte {
	w := binary.NewWriter()
	for _, id := range ids {
		w.WriteName(id)
	}
	return w.Bytes()
}

// EncodeConstants serializes a constant pool.
func EncodeConstants(consts []Constant) []byte {
	w := binary.NewWriter()
	for _, c := range consts {
		writeToken(w, c.Type)
		w.WriteVector(c.Data)
	}
	return w.Bytes()
}
