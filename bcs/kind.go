package bcs

// Kind identifies a node of a type descriptor.
type Kind uint8

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindU128
	KindU256
	KindBool
	KindAddress
	KindVector
)

var kindNames = [...]string{
	KindU8:      "U8",
	KindU16:     "U16",
	KindU32:     "U32",
	KindU64:     "U64",
	KindU128:    "U128",
	KindU256:    "U256",
	KindBool:    "Bool",
	KindAddress: "Address",
	KindVector:  "Vector",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsTerminal reports whether the kind has no element type.
func (k Kind) IsTerminal() bool {
	return k != KindVector
}

// IsUnsigned reports whether the kind is one of the fixed-width integers.
func (k Kind) IsUnsigned() bool {
	return k <= KindU256
}

// Width returns the encoded size in bytes of fixed-width kinds, 0 for vectors.
func (k Kind) Width() int {
	switch k {
	case KindU8, KindBool:
		return 1
	case KindU16:
		return 2
	case KindU32:
		return 4
	case KindU64:
		return 8
	case KindU128:
		return 16
	case KindU256, KindAddress:
		return 32
	default:
		return 0
	}
}

func terminalKind(token string) (Kind, bool) {
	for k := KindU8; k < KindVector; k++ {
		if kindNames[k] == token {
			return k, true
		}
	}
	return 0, false
}
