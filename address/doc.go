// Package address canonicalizes Move account address literals.
//
// A canonical literal is "0x" followed by 64 lowercase hex digits and denotes
// a fixed 32-byte account identifier. Shorter literals are left-padded with
// zeros, so "0x2" and "2" both normalize to the framework address.
package address
