package move

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/move-patcher/bcs"
	"github.com/wippyai/move-patcher/errors"
	"github.com/wippyai/move-patcher/internal/binary"
)

// TokenTag is the leading byte of a serialized signature token.
type TokenTag byte

// SignatureToken is a serialized Move type.
// Elem is set for vectors and references, Index for struct handles and type
// parameters, Args for struct instantiations.
type SignatureToken struct {
	Elem  *SignatureToken
	Args  []SignatureToken
	Index uint64
	Tag   TokenTag
}

// TokenForType maps a constant type descriptor to its signature token.
func TokenForType(t bcs.Type) (SignatureToken, error) {
	switch t.Kind {
	case bcs.KindU8:
		return SignatureToken{Tag: TagU8}, nil
	case bcs.KindU16:
		return SignatureToken{Tag: TagU16}, nil
	case bcs.KindU32:
		return SignatureToken{Tag: TagU32}, nil
	case bcs.KindU64:
		return SignatureToken{Tag: TagU64}, nil
	case bcs.KindU128:
		return SignatureToken{Tag: TagU128}, nil
	case bcs.KindU256:
		return SignatureToken{Tag: TagU256}, nil
	case bcs.KindBool:
		return SignatureToken{Tag: TagBool}, nil
	case bcs.KindAddress:
		return SignatureToken{Tag: TagAddress}, nil
	case bcs.KindVector:
		if t.Elem == nil {
			return SignatureToken{}, errors.UnsupportedType(t.String(), "Vector without element type")
		}
		elem, err := TokenForType(*t.Elem)
		if err != nil {
			return SignatureToken{}, err
		}
		return SignatureToken{Tag: TagVector, Elem: &elem}, nil
	default:
		return SignatureToken{}, errors.UnsupportedType(t.String(), "no signature token for type")
	}
}

// ParseTokenDescriptor parses a constant type descriptor ("Vector(U8)") into a token.
func ParseTokenDescriptor(descriptor string) (SignatureToken, error) {
	t, err := bcs.ParseType(descriptor)
	if err != nil {
		return SignatureToken{}, err
	}
	return TokenForType(t)
}

// Equal reports structural equality.
func (s SignatureToken) Equal(o SignatureToken) bool {
	if s.Tag != o.Tag || s.Index != o.Index || len(s.Args) != len(o.Args) {
		return false
	}
	if (s.Elem == nil) != (o.Elem == nil) {
		return false
	}
	if s.Elem != nil && !s.Elem.Equal(*o.Elem) {
		return false
	}
	for i := range s.Args {
		if !s.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// String renders the token in the descriptor notation used for constants.
func (s SignatureToken) String() string {
	switch s.Tag {
	case TagBool:
		return "Bool"
	case TagU8:
		return "U8"
	case TagU16:
		return "U16"
	case TagU32:
		return "U32"
	case TagU64:
		return "U64"
	case TagU128:
		return "U128"
	case TagU256:
		return "U256"
	case TagAddress:
		return "Address"
	case TagSigner:
		return "Signer"
	case TagVector:
		return "Vector(" + s.elemString() + ")"
	case TagReference:
		return "Reference(" + s.elemString() + ")"
	case TagMutableReference:
		return "MutableReference(" + s.elemString() + ")"
	case TagStruct:
		return "Struct(" + strconv.FormatUint(s.Index, 10) + ")"
	case TagTypeParameter:
		return "TypeParameter(" + strconv.FormatUint(s.Index, 10) + ")"
	case TagStructInstantiation:
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = a.String()
		}
		return "StructInstantiation(" + strconv.FormatUint(s.Index, 10) + ", [" + strings.Join(args, ", ") + "])"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", byte(s.Tag))
	}
}

func (s SignatureToken) elemString() string {
	if s.Elem == nil {
		return "?"
	}
	return s.Elem.String()
}

// Type converts a constant-compatible token back to a descriptor.
func (s SignatureToken) Type() (bcs.Type, bool) {
	switch s.Tag {
	case TagU8:
		return bcs.Terminal(bcs.KindU8), true
	case TagU16:
		return bcs.Terminal(bcs.KindU16), true
	case TagU32:
		return bcs.Terminal(bcs.KindU32), true
	case TagU64:
		return bcs.Terminal(bcs.KindU64), true
	case TagU128:
		return bcs.Terminal(bcs.KindU128), true
	case TagU256:
		return bcs.Terminal(bcs.KindU256), true
	case TagBool:
		return bcs.Terminal(bcs.KindBool), true
	case TagAddress:
		return bcs.Terminal(bcs.KindAddress), true
	case TagVector:
		if s.Elem == nil {
			return bcs.Type{}, false
		}
		elem, ok := s.Elem.Type()
		if !ok {
			return bcs.Type{}, false
		}
		return bcs.VectorOf(elem), true
	default:
		return bcs.Type{}, false
	}
}

func readToken(r *binary.Reader, depth int) (SignatureToken, error) {
	if depth > MaxTokenDepth {
		return SignatureToken{}, fmt.Errorf("signature token nested deeper than %d", MaxTokenDepth)
	}
	b, err := r.ReadByte()
	if err != nil {
		return SignatureToken{}, err
	}
	tok := SignatureToken{Tag: TokenTag(b)}

	switch tok.Tag {
	case TagBool, TagU8, TagU16, TagU32, TagU64, TagU128, TagU256, TagAddress, TagSigner:
		return tok, nil

	case TagVector, TagReference, TagMutableReference:
		elem, err := readToken(r, depth+1)
		if err != nil {
			return SignatureToken{}, err
		}
		tok.Elem = &elem
		return tok, nil

	case TagStruct, TagTypeParameter:
		tok.Index, err = r.ReadULEB128Max(MaxTableIndex)
		return tok, err

	case TagStructInstantiation:
		tok.Index, err = r.ReadULEB128Max(MaxTableIndex)
		if err != nil {
			return SignatureToken{}, err
		}
		n, err := r.ReadULEB128Max(MaxTypeArgs)
		if err != nil {
			return SignatureToken{}, err
		}
		tok.Args = make([]SignatureToken, n)
		for i := range tok.Args {
			if tok.Args[i], err = readToken(r, depth+1); err != nil {
				return SignatureToken{}, err
			}
		}
		return tok, nil

	default:
		return SignatureToken{}, fmt.Errorf("unknown signature token tag 0x%02x", b)
	}
}

func writeToken(w *binary.Writer, tok SignatureToken) {
	w.Byte(byte(tok.Tag))
	switch tok.Tag {
	case TagVector, TagReference, TagMutableReference:
		if tok.Elem != nil {
			writeToken(w, *tok.Elem)
		}
	case TagStruct, TagTypeParameter:
		w.WriteULEB128(tok.Index)
	case TagStructInstantiation:
		w.WriteULEB128(tok.Index)
		w.WriteULEB128(uint64(len(tok.Args)))
		for _, a := range tok.Args {
			writeToken(w, a)
		}
	}
}
