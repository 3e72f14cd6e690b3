// Package move reads and rewrites the tables of compiled Move modules.
//
// The package works at the table level. A module binary is laid out as:
//
//	magic      A1 1C EB 0B
//	version    u32 little-endian
//	count      ULEB128 number of tables
//	headers    count × (kind u8, offset ULEB128, length ULEB128)
//	tables     contiguous table contents, offsets relative to the first table
//	trailer    self module handle index (opaque here)
//
// Parse decodes the identifier table and the constant pool and keeps every
// other table as raw bytes, so the rest of the module passes through a
// parse/encode round trip unchanged. Nothing here verifies bytecode.
//
// # Rewriting
//
//	m, _ := move.Parse(data)
//	renamed, _, err := m.RenameIdentifiers(map[string]string{"template": "my_coin"})
//	tok, _ := move.ParseTokenDescriptor("U64")
//	patched, n := renamed.ReplaceConstant(tok, oldBytes, newBytes)
//	out := patched.Encode()
//
// Rewrites always return a new Module; the receiver is never modified.
package move
