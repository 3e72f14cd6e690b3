package bcs

import (
	"github.com/wippyai/move-patcher/errors"
)

// Resolve parses descriptor and builds a codec for it. The sample value only
// matters for Vector(U8), where a string selects the text codec and an array
// of numbers selects the byte codec; nested vectors pass their first element
// down as the sample.
func Resolve(descriptor string, sample any) (Codec, error) {
	t, err := ParseType(descriptor)
	if err != nil {
		return nil, err
	}
	return ResolveType(t, sample)
}

// ResolveType builds a codec for an already parsed descriptor.
func ResolveType(t Type, sample any) (Codec, error) {
	elem, err := resolve(t, sample, nil)
	if err != nil {
		return nil, err
	}
	return &codec{typ: t, elem: elem}, nil
}

func resolve(t Type, sample any, path []string) (element, error) {
	switch t.Kind {
	case KindVector:
		if t.Elem == nil {
			return nil, errors.UnsupportedType(t.String(), "Vector without element type")
		}
		if t.Elem.Kind == KindU8 {
			switch classifyByteVector(sample) {
			case formText:
				return text{}, nil
			case formBytes:
				return raw{}, nil
			default:
				return nil, errors.InvalidValue(path, t.String(), sample,
					"Vector(U8) value must be a string or an array of numbers")
			}
		}

		var inner any
		if elems, ok := sliceElems(sample); ok && len(elems) > 0 {
			inner = elems[0]
		}
		elem, err := resolve(*t.Elem, inner, appendPath(path, 0))
		if err != nil {
			return nil, err
		}
		return vector{elem: elem, desc: t.String()}, nil

	case KindAddress:
		return account{}, nil

	case KindBool:
		return boolean{}, nil

	case KindU8, KindU16, KindU32, KindU64, KindU128, KindU256:
		return unsigned{kind: t.Kind}, nil

	default:
		return nil, errors.UnsupportedType(t.String(), "unsupported Move type")
	}
}
