package move

import (
	"bytes"
	"sort"

	"github.com/wippyai/move-patcher/errors"
)

// RenameIdentifiers returns a copy of the module with every identifier that
// appears as a key in renames replaced by its value. All names are substituted
// simultaneously, so swaps work. The call fails without side effects if a new
// name is not a valid identifier or the result would contain duplicates.
// The second result is the number of identifiers renamed.
func (m *Module) RenameIdentifiers(renames map[string]string) (*Module, int, error) {
	keys := make([]string, 0, len(renames))
	for k := range renames {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !IsValidIdentifier(renames[k]) {
			return nil, 0, errors.New(errors.PhaseRename, errors.KindInvalidData).
				Path("identifiers", k).
				Value(renames[k]).
				Detail("%q is not a valid Move identifier", renames[k]).
				Build()
		}
	}

	out := m.Clone()
	renamed := 0
	for i, id := range out.Identifiers {
		if to, ok := renames[id]; ok {
			out.Identifiers[i] = to
			renamed++
		}
	}

	seen := make(map[string]int, len(out.Identifiers))
	for i, id := range out.Identifiers {
		if prev, dup := seen[id]; dup {
			return nil, 0, errors.New(errors.PhaseRename, errors.KindDuplicate).
				Path("identifiers", id).
				Detail("renaming produces duplicate identifier %q at indices %d and %d", id, prev, i).
				Build()
		}
		seen[id] = i
	}

	return out, renamed, nil
}

// ReplaceConstant returns a copy of the module where every constant of type
// tok whose data equals oldData holds newData instead. The second result is
// the number of constants replaced; zero means nothing matched.
func (m *Module) ReplaceConstant(tok SignatureToken, oldData, newData []byte) (*Module, int) {
	out := m.Clone()
	replaced := 0
	for i, c := range out.Constants {
		if c.Type.Equal(tok) && bytes.Equal(c.Data, oldData) {
			out.Constants[i].Data = bytes.Clone(newData)
			replaced++
		}
	}
	return out, replaced
}

// IsValidIdentifier reports whether s is a valid Move identifier:
// a letter followed by letters, digits or underscores, or an underscore
// followed by at least one such character.
func IsValidIdentifier(s string) bool {
	if s == "" || len(s) > MaxIdentifierSize {
		return false
	}
	first := s[0]
	switch {
	case isLetter(first):
	case first == '_':
		if len(s) == 1 {
			return false
		}
	default:
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
