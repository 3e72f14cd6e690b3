package move

import (
	"bytes"
)

// Table is one entry of the module table header with its raw contents.
type Table struct {
	Data []byte
	Kind TableKind
}

// Constant is one constant pool entry: its type and the BCS bytes of its value.
type Constant struct {
	Data []byte
	Type SignatureToken
}

// Module is a table-level view of a compiled Move module.
//
// Only the identifier table and the constant pool are decoded; every other
// table and the trailing bytes after the tables are carried through verbatim.
type Module struct {
	// Tables in header order. The identifier and constant pool entries have
	// their Data regenerated from Identifiers and Constants on Encode.
	Tables      []Table
	Identifiers []string
	Constants   []Constant
	Trailer     []byte
	Version     uint32
}

// Table returns the table of the given kind, if present.
func (m *Module) Table(kind TableKind) (Table, bool) {
	for _, t := range m.Tables {
		if t.Kind == kind {
			return t, true
		}
	}
	return Table{}, false
}

// HasTable reports whether the module declares the given table.
func (m *Module) HasTable(kind TableKind) bool {
	_, ok := m.Table(kind)
	return ok
}

// Clone returns a deep copy.
func (m *Module) Clone() *Module {
	out := &Module{
		Version:     m.Version,
		Tables:      make([]Table, len(m.Tables)),
		Identifiers: append([]string(nil), m.Identifiers...),
		Constants:   make([]Constant, len(m.Constants)),
		Trailer:     bytes.Clone(m.Trailer),
	}
	for i, t := range m.Tables {
		out.Tables[i] = Table{Kind: t.Kind, Data: bytes.Clone(t.Data)}
	}
	for i, c := range m.Constants {
		out.Constants[i] = Constant{Type: c.Type, Data: bytes.Clone(c.Data)}
	}
	return out
}
