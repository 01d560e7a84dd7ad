package wire

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Marshaler is implemented by types that define their own wire layout,
// such as payloads whose body is an opaque JSON document.
type Marshaler interface {
	MarshalWire() ([]byte, error)
}

// Unmarshaler is the decoding counterpart of Marshaler. It reports how
// many bytes of data it consumed.
type Unmarshaler interface {
	UnmarshalWire(data []byte) (int, error)
}

// Marshal encodes v into its wire representation. v is typically a
// pointer to a struct; a trailing []byte field is permitted only in the
// final position of a structure.
func Marshal(v any) ([]byte, error) {
	return appendValue(nil, reflect.ValueOf(v), true)
}

// Unmarshal decodes data into v, which must be a non-nil pointer.
// It returns the number of bytes consumed; bytes beyond that are left
// untouched for the caller.
func Unmarshal(data []byte, v any) (int, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return 0, fmt.Errorf("wire: %w: target must be a non-nil pointer, got %T", ErrInvalidSchema, v)
	}
	return readValue(data, rv.Elem(), true)
}

// UnmarshalStrict decodes data into v and fails with ErrTrailingBytes
// unless the value consumes the entire input.
func UnmarshalStrict(data []byte, v any) error {
	n, err := Unmarshal(data, v)
	if err != nil {
		return err
	}
	if n != len(data) {
		return &DecodeError{Err: fmt.Errorf("%w: %d byte(s) left", ErrTrailingBytes, len(data)-n)}
	}
	return nil
}

func asMarshaler(v reflect.Value) (Marshaler, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	if m, ok := v.Interface().(Marshaler); ok {
		return m, true
	}
	if v.CanAddr() {
		if m, ok := v.Addr().Interface().(Marshaler); ok {
			return m, true
		}
	}
	return nil, false
}

func asUnmarshaler(v reflect.Value) (Unmarshaler, bool) {
	if !v.IsValid() || !v.CanAddr() {
		return nil, false
	}
	if u, ok := v.Addr().Interface().(Unmarshaler); ok {
		return u, true
	}
	return nil, false
}

// appendValue encodes v onto buf. trailing reports whether v sits in the
// final position of the enclosing layout, the only place a
// variable-length field is allowed.
func appendValue(buf []byte, v reflect.Value, trailing bool) ([]byte, error) {
	if m, ok := asMarshaler(v); ok {
		b, err := m.MarshalWire()
		if err != nil {
			return nil, err
		}
		return append(buf, b...), nil
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil, fmt.Errorf("wire: %w: nil pointer", ErrInvalidSchema)
		}
		return appendValue(buf, v.Elem(), trailing)

	case reflect.Uint8:
		return append(buf, byte(v.Uint())), nil
	case reflect.Uint16:
		return binary.LittleEndian.AppendUint16(buf, uint16(v.Uint())), nil
	case reflect.Uint32:
		return binary.LittleEndian.AppendUint32(buf, uint32(v.Uint())), nil
	case reflect.Uint64:
		return binary.LittleEndian.AppendUint64(buf, v.Uint()), nil
	case reflect.Int8:
		return append(buf, byte(v.Int())), nil
	case reflect.Int16:
		return binary.LittleEndian.AppendUint16(buf, uint16(v.Int())), nil
	case reflect.Int32:
		return binary.LittleEndian.AppendUint32(buf, uint32(v.Int())), nil
	case reflect.Int64:
		return binary.LittleEndian.AppendUint64(buf, uint64(v.Int())), nil

	case reflect.Bool:
		if v.Bool() {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil

	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			for i := 0; i < v.Len(); i++ {
				buf = append(buf, byte(v.Index(i).Uint()))
			}
			return buf, nil
		}
		var err error
		for i := 0; i < v.Len(); i++ {
			if buf, err = appendValue(buf, v.Index(i), false); err != nil {
				return nil, err
			}
		}
		return buf, nil

	case reflect.Slice:
		if !trailing {
			return nil, fmt.Errorf("wire: %w: variable-length field must be last", ErrInvalidSchema)
		}
		if v.Type().Elem().Kind() != reflect.Uint8 {
			return nil, fmt.Errorf("wire: %w: unsupported slice type %s", ErrInvalidSchema, v.Type())
		}
		return append(buf, v.Bytes()...), nil

	case reflect.Struct:
		return appendStruct(buf, v, trailing)

	default:
		return nil, fmt.Errorf("wire: %w: unsupported type %s", ErrInvalidSchema, v.Type())
	}
}

func appendStruct(buf []byte, v reflect.Value, trailing bool) ([]byte, error) {
	fields := wireFields(v.Type())
	var err error
	for i, f := range fields {
		last := i == len(fields)-1
		if buf, err = appendValue(buf, v.Field(f.index), trailing && last); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return buf, nil
}

// readValue decodes v from data and returns the number of bytes consumed.
func readValue(data []byte, v reflect.Value, trailing bool) (int, error) {
	if u, ok := asUnmarshaler(v); ok {
		n, err := u.UnmarshalWire(data)
		if err != nil {
			return 0, decodeErr("", err)
		}
		return n, nil
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return readValue(data, v.Elem(), trailing)

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		size := intSize(v.Kind())
		if len(data) < size {
			return 0, &DecodeError{Err: ErrShortBuffer}
		}
		v.SetUint(readUint(data, size))
		return size, nil

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		size := intSize(v.Kind())
		if len(data) < size {
			return 0, &DecodeError{Err: ErrShortBuffer}
		}
		u := readUint(data, size)
		switch size {
		case 1:
			v.SetInt(int64(int8(u)))
		case 2:
			v.SetInt(int64(int16(u)))
		case 4:
			v.SetInt(int64(int32(u)))
		default:
			v.SetInt(int64(u))
		}
		return size, nil

	case reflect.Bool:
		if len(data) < 1 {
			return 0, &DecodeError{Err: ErrShortBuffer}
		}
		v.SetBool(data[0] != 0)
		return 1, nil

	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			if len(data) < v.Len() {
				return 0, &DecodeError{Err: ErrShortBuffer}
			}
			reflect.Copy(v, reflect.ValueOf(data[:v.Len()]))
			return v.Len(), nil
		}
		off := 0
		for i := 0; i < v.Len(); i++ {
			n, err := readValue(data[off:], v.Index(i), false)
			if err != nil {
				return 0, decodeErr(fmt.Sprintf("[%d]", i), err)
			}
			off += n
		}
		return off, nil

	case reflect.Slice:
		if !trailing {
			return 0, fmt.Errorf("wire: %w: variable-length field must be last", ErrInvalidSchema)
		}
		if v.Type().Elem().Kind() != reflect.Uint8 {
			return 0, fmt.Errorf("wire: %w: unsupported slice type %s", ErrInvalidSchema, v.Type())
		}
		rest := make([]byte, len(data))
		copy(rest, data)
		v.SetBytes(rest)
		return len(data), nil

	case reflect.Struct:
		return readStruct(data, v, trailing)

	default:
		return 0, fmt.Errorf("wire: %w: unsupported type %s", ErrInvalidSchema, v.Type())
	}
}

func readStruct(data []byte, v reflect.Value, trailing bool) (int, error) {
	fields := wireFields(v.Type())
	off := 0
	for i, f := range fields {
		last := i == len(fields)-1
		n, err := readValue(data[off:], v.Field(f.index), trailing && last)
		if err != nil {
			return 0, decodeErr(f.name, err)
		}
		off += n
	}
	return off, nil
}

type fieldInfo struct {
	index int
	name  string
}

// wireFields lists the encodable fields of a struct type: exported and
// not tagged `wire:"-"`.
func wireFields(t reflect.Type) []fieldInfo {
	fields := make([]fieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("wire") == "-" {
			continue
		}
		fields = append(fields, fieldInfo{index: i, name: f.Name})
	}
	return fields
}

func intSize(k reflect.Kind) int {
	switch k {
	case reflect.Uint8, reflect.Int8:
		return 1
	case reflect.Uint16, reflect.Int16:
		return 2
	case reflect.Uint32, reflect.Int32:
		return 4
	default:
		return 8
	}
}

func readUint(data []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(data))
	case 4:
		return uint64(binary.LittleEndian.Uint32(data))
	default:
		return binary.LittleEndian.Uint64(data)
	}
}
