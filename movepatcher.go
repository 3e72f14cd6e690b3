package movepatcher

import (
	"bytes"
	"context"

	"github.com/wippyai/move-patcher/internal/binary"
)

// ModuleBinary is the serialized form of a compiled Move module.
// Values are treated as immutable; engines never write into their input.
type ModuleBinary []byte

// Clone returns a copy of the binary.
func (b ModuleBinary) Clone() ModuleBinary {
	return ModuleBinary(bytes.Clone(b))
}

// Constant is one constant pool entry. Type is the descriptor of the
// constant's signature token ("U64", "Vector(U8)") and Data its BCS bytes.
type Constant struct {
	Type string
	Data []byte
}

// Engine reads and rewrites the identifier table and constant pool of
// module binaries.
type Engine interface {
	// ReadIdentifiers returns the identifier table in order.
	ReadIdentifiers(ctx context.Context, bin ModuleBinary) ([]string, error)

	// RenameIdentifiers applies all renames at once. Identifiers missing from
	// the table are ignored. The call fails without output if the result is
	// not a valid identifier table.
	RenameIdentifiers(ctx context.Context, bin ModuleBinary, renames map[string]string) (ModuleBinary, error)

	// ReadConstants returns the constant pool in order.
	ReadConstants(ctx context.Context, bin ModuleBinary) ([]Constant, error)

	// ReplaceConstant replaces every constant of type moveType whose data is
	// oldData with newData. The count is the number of constants replaced,
	// or -1 if the engine cannot tell.
	ReplaceConstant(ctx context.Context, bin ModuleBinary, moveType string, oldData, newData []byte) (ModuleBinary, int, error)

	Close(ctx context.Context) error
}

// Snapshot serializes a constant pool listing into a canonical byte form.
// Two snapshots are equal exactly when the listings have the same types and
// data in the same order.
func Snapshot(consts []Constant) []byte {
	w := binary.NewWriter()
	w.WriteULEB128(uint64(len(consts)))
	for _, c := range consts {
		w.WriteName(c.Type)
		w.WriteVector(c.Data)
	}
	return w.Bytes()
}
