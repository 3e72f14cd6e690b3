package bcs

import (
	"strings"

	"github.com/wippyai/move-patcher/errors"
)

const vectorPrefix = "Vector("

// Type is a parsed type descriptor: either a terminal kind or a vector of Elem.
type Type struct {
	Elem *Type
	Kind Kind
}

// Terminal returns the descriptor for a terminal kind.
func Terminal(k Kind) Type {
	return Type{Kind: k}
}

// VectorOf returns the descriptor for a vector of elem.
func VectorOf(elem Type) Type {
	return Type{Kind: KindVector, Elem: &elem}
}

// ParseType parses a descriptor such as "U64" or "Vector(Vector(U8))".
// Tokens are case-sensitive; surrounding whitespace is ignored at every level.
func ParseType(descriptor string) (Type, error) {
	return parseType(descriptor, descriptor)
}

func parseType(s, descriptor string) (Type, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, vectorPrefix) {
		if !strings.HasSuffix(s, ")") {
			return Type{}, errors.UnsupportedType(descriptor, "unterminated Vector(")
		}
		inner := strings.TrimSpace(s[len(vectorPrefix) : len(s)-1])
		if inner == "" {
			return Type{}, errors.UnsupportedType(descriptor, "Vector without element type")
		}
		elem, err := parseType(inner, descriptor)
		if err != nil {
			return Type{}, err
		}
		return VectorOf(elem), nil
	}

	k, ok := terminalKind(s)
	if !ok {
		return Type{}, errors.UnsupportedType(descriptor, "unsupported Move type: "+s)
	}
	return Terminal(k), nil
}

// String returns the canonical descriptor form.
func (t Type) String() string {
	if t.Kind == KindVector {
		if t.Elem == nil {
			return vectorPrefix + "?)"
		}
		return vectorPrefix + t.Elem.String() + ")"
	}
	return t.Kind.String()
}

// Equal reports structural equality.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind != KindVector {
		return true
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == o.Elem
	}
	return t.Elem.Equal(*o.Elem)
}

// IsByteVector reports whether t is Vector(U8).
func (t Type) IsByteVector() bool {
	return t.Kind == KindVector && t.Elem != nil && t.Elem.Kind == KindU8
}

// Depth returns the vector nesting depth, 0 for terminals.
func (t Type) Depth() int {
	d := 0
	for cur := t; cur.Kind == KindVector && cur.Elem != nil; cur = *cur.Elem {
		d++
	}
	return d
}
