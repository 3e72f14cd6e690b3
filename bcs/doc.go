// Package bcs resolves Move constant type descriptors into BCS codecs.
//
// A descriptor is a small recursive grammar:
//
//	U8 | U16 | U32 | U64 | U128 | U256 | Bool | Address | Vector(<descriptor>)
//
// ParseType turns the string into a Type variant once; Resolve then builds a
// Codec for it. Codecs are cheap and are built fresh for every constant patch.
//
// # Encoding
//
//	Type            BCS bytes
//	──────────────────────────────────────────
//	U8..U256        1/2/4/8/16/32 bytes, little-endian
//	Bool            0x00 | 0x01
//	Address         32 raw bytes
//	Vector(T)       ULEB128(len) ‖ T...
//	Vector(U8)      ULEB128(len) ‖ bytes (string or byte array)
//
// # Vector(U8)
//
// Byte vectors carry both binary blobs and human strings. The sample value
// passed to Resolve picks the codec: a string resolves to the text codec, an
// array of numbers to the byte codec. Both produce the same wire bytes for the
// same content. Go callers can pass Text or Bytes to be explicit.
//
// # Values
//
// Integers accept Go integers, integral floats no larger than 2^53,
// json.Number (including whole forms such as 1.0 or 1e2), decimal or
// 0x-prefixed strings and *big.Int. Decoding yields uint8/16/32/64 for the
// narrow kinds and *big.Int for U128 and U256. Addresses decode to the
// canonical "0x" + 64 hex digit literal.
package bcs
