// Package binary provides the byte-level primitives shared by the BCS codecs
// and the Move module table parser: ULEB128 lengths, fixed-width little-endian
// integers and length-prefixed strings.
package binary
