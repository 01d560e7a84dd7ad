// Package wire implements the fixed-layout binary encoding used by the
// chat protocol. The schema is the Go struct itself: fields are encoded
// in declaration order, integers little-endian, fixed-size arrays
// verbatim, nested structs recursively, and a final []byte field as a
// trailing blob that consumes the remainder of the buffer.
//
// Discriminated unions (a leading tag byte selecting the payload layout)
// are described by a [Registry].
//
// Encoding is deterministic: the same value always produces the same
// bytes. Decoding either fully succeeds or reports a [DecodeError]
// carrying the path of the offending field; it never yields a partially
// populated value the caller could mistake for a complete one.
package wire
