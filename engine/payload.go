package engine

import (
	"sort"

	movepatcher "github.com/wippyai/move-patcher"
	"github.com/wippyai/move-patcher/errors"
	"github.com/wippyai/move-patcher/internal/binary"
)

// maxPayloadEntries bounds vector lengths read back from a guest.
const maxPayloadEntries = 1 << 16

func encodeRenames(renames map[string]string) []byte {
	keys := make([]string, 0, len(renames))
	for k := range renames {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := binary.NewWriter()
	w.WriteULEB128(uint64(len(keys)))
	for _, k := range keys {
		w.WriteName(k)
		w.WriteName(renames[k])
	}
	return w.Bytes()
}

func decodeIdentifiers(data []byte) ([]string, error) {
	r := binary.NewReader(data)
	n, err := r.ReadULEB128Max(maxPayloadEntries)
	if err != nil {
		return nil, payloadError("identifiers", r.WrapError("identifiers", err))
	}
	ids := make([]string, 0, n)
	for range n {
		id, err := r.ReadName()
		if err != nil {
			return nil, payloadError("identifiers", r.WrapError("identifiers", err))
		}
		ids = append(ids, id)
	}
	if r.Len() != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"identifiers"}, "trailing bytes after identifier payload")
	}
	return ids, nil
}

func decodeConstants(data []byte) ([]movepatcher.Constant, error) {
	r := binary.NewReader(data)
	n, err := r.ReadULEB128Max(maxPayloadEntries)
	if err != nil {
		return nil, payloadError("constants", r.WrapError("constants", err))
	}
	consts := make([]movepatcher.Constant, 0, n)
	for range n {
		typ, err := r.ReadName()
		if err != nil {
			return nil, payloadError("constants", r.WrapError("constant type", err))
		}
		size, err := r.ReadLength()
		if err != nil {
			return nil, payloadError("constants", r.WrapError("constant data", err))
		}
		value, err := r.ReadBytes(size)
		if err != nil {
			return nil, payloadError("constants", r.WrapError("constant data", err))
		}
		consts = append(consts, movepatcher.Constant{Type: typ, Data: value})
	}
	if r.Len() != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"constants"}, "trailing bytes after constant payload")
	}
	return consts, nil
}

func payloadError(section string, cause error) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Path(section).
		Cause(cause).
		Detail("malformed engine payload").
		Build()
}
