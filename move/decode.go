package move

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/wippyai/move-patcher/internal/binary"
)

// Parsing errors returned by Parse.
var (
	ErrInvalidMagic   = errors.New("invalid move magic number")
	ErrInvalidVersion = errors.New("invalid move binary version")
	ErrTableLayout    = errors.New("invalid table layout")
)

type tableHeader struct {
	kind   TableKind
	offset uint64
	length uint64
}

// Parse reads the table header of a compiled module and decodes its
// identifier table and constant pool.
func Parse(data []byte) (*Module, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadBytes(len(Magic))
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if [4]byte(magic) != Magic {
		return nil, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version == 0 {
		return nil, ErrInvalidVersion
	}

	count, err := r.ReadULEB128Max(MaxTableCount)
	if err != nil {
		return nil, r.WrapError("table count", err)
	}

	headers := make([]tableHeader, count)
	seen := make(map[TableKind]bool, count)
	for i := range headers {
		kind, err := r.ReadByte()
		if err != nil {
			return nil, r.WrapError("table header", err)
		}
		h := tableHeader{kind: TableKind(kind)}
		if seen[h.kind] {
			return nil, r.WrapError("table header", fmt.Errorf("%w: duplicate %s table", ErrTableLayout, h.kind))
		}
		seen[h.kind] = true
		if h.offset, err = r.ReadULEB128Max(maxTableOffsetSize); err != nil {
			return nil, r.WrapError("table header", err)
		}
		if h.length, err = r.ReadULEB128Max(maxTableOffsetSize); err != nil {
			return nil, r.WrapError("table header", err)
		}
		headers[i] = h
	}

	contents := r.ReadRemaining()
	end, err := checkLayout(headers, len(contents))
	if err != nil {
		return nil, err
	}

	m := &Module{
		Version: version,
		Tables:  make([]Table, len(headers)),
		Trailer: append([]byte(nil), contents[end:]...),
	}
	for i, h := range headers {
		t := Table{Kind: h.kind, Data: append([]byte(nil), contents[h.offset:h.offset+h.length]...)}
		m.Tables[i] = t

		switch h.kind {
		case TableIdentifiers:
			if m.Identifiers, err = decodeIdentifiers(t.Data); err != nil {
				return nil, err
			}
		case TableConstantPool:
			if m.Constants, err = decodeConstants(t.Data); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// checkLayout verifies tables are contiguous from offset 0 and returns the end
// of the table area.
func checkLayout(headers []tableHeader, size int) (int, error) {
	sorted := append([]tableHeader(nil), headers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].offset < sorted[j].offset })

	var cur uint64
	for _, h := range sorted {
		if h.offset != cur {
			return 0, fmt.Errorf("%w: %s table at offset %d, expected %d", ErrTableLayout, h.kind, h.offset, cur)
		}
		cur += h.length
		if cur > uint64(size) {
			return 0, fmt.Errorf("%w: %s table exceeds module size", ErrTableLayout, h.kind)
		}
	}
	return int(cur), nil
}

func decodeIdentifiers(data []byte) ([]string, error) {
	r := binary.NewReader(data)
	var ids []string
	for r.Len() > 0 {
		n, err := r.ReadULEB128Max(MaxIdentifierSize)
		if err != nil {
			return nil, r.WrapError("identifiers", err)
		}
		raw, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, r.WrapError("identifiers", err)
		}
		if !utf8.Valid(raw) {
			return nil, r.WrapError("identifiers", errors.New("invalid UTF-8 in identifier"))
		}
		ids = append(ids, string(raw))
	}
	return ids, nil
}

func decodeConstants(data []byte) ([]Constant, error) {
	r := binary.NewReader(data)
	var consts []Constant
	for r.Len() > 0 {
		tok, err := readToken(r, 0)
		if err != nil {
			return nil, r.WrapError("constant pool", err)
		}
		n, err := r.ReadULEB128Max(MaxConstantSize)
		if err != nil {
			return nil, r.WrapError("constant pool", err)
		}
		value, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, r.WrapError("constant pool", err)
		}
		consts = append(consts, Constant{Type: tok, Data: value})
	}
	return consts, nil
}
