package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrShortBuffer is returned when the input ends before the fixed-size
	// portion of the schema has been fully decoded.
	ErrShortBuffer = errors.New("buffer too short")

	// ErrUnknownVariant is returned when a union discriminant does not
	// match any registered variant.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrTrailingBytes is returned by strict decoding when input bytes
	// remain after the schema has been fully consumed.
	ErrTrailingBytes = errors.New("trailing bytes after value")

	// ErrInvalidSchema is returned when a type cannot be described by the
	// wire format, e.g. a variable-length field that is not the last field
	// of its structure.
	ErrInvalidSchema = errors.New("invalid schema")
)

// DecodeError reports a structural decoding failure together with the
// dotted path of the field where it occurred.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("wire: decode: %v", e.Err)
	}
	return fmt.Sprintf("wire: decode %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decodeErr wraps err in a DecodeError if it is not one already, and
// prepends field to the error's field path.
func decodeErr(field string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		if field != "" {
			if de.Field != "" {
				de.Field = field + "." + de.Field
			} else {
				de.Field = field
			}
		}
		return de
	}
	return &DecodeError{Field: field, Err: err}
}
