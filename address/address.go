package address

import (
	"encoding/hex"
	"strings"

	"github.com/wippyai/move-patcher/errors"
)

// Length is the size of an account address in bytes.
const Length = 32

const hexLength = Length * 2

// Normalize validates an address literal and returns its canonical form:
// "0x" followed by 64 lowercase hex digits. The input may omit the prefix
// and leading zeros. Normalizing a canonical literal returns it unchanged.
func Normalize(literal string) (string, error) {
	body := literal
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		body = body[2:]
	}

	switch {
	case body == "":
		return "", errors.InvalidAddress(literal, "no hex digits")
	case len(body) > hexLength:
		return "", errors.InvalidAddress(literal, "longer than 32 bytes")
	}

	for i := 0; i < len(body); i++ {
		if !isHexDigit(body[i]) {
			return "", errors.InvalidAddress(literal, "contains non-hex characters")
		}
	}

	return "0x" + strings.Repeat("0", hexLength-len(body)) + strings.ToLower(body), nil
}

// Bytes normalizes the literal and returns the raw 32-byte address.
func Bytes(literal string) ([]byte, error) {
	canonical, err := Normalize(literal)
	if err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(canonical[2:])
	if err != nil {
		return nil, errors.InvalidAddress(literal, err.Error())
	}
	return raw, nil
}

// FromBytes returns the canonical literal for a raw 32-byte address.
func FromBytes(raw []byte) (string, error) {
	if len(raw) != Length {
		return "", errors.InvalidData(errors.PhaseDecode, nil, "address must be 32 bytes")
	}
	return "0x" + hex.EncodeToString(raw), nil
}

// IsValid reports whether the literal normalizes.
func IsValid(literal string) bool {
	_, err := Normalize(literal)
	return err == nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
