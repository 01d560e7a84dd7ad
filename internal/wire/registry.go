package wire

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Registry describes a discriminated union: a fixed-width little-endian
// tag selecting which variant layout describes the rest of the buffer.
// Registries are declared once at package init time and are read-only
// afterwards, so they are safe for concurrent use.
type Registry struct {
	name      string
	tagWidth  int
	factories map[uint64]func() any
	tags      map[reflect.Type]uint64
}

// NewRegistry creates a union schema named name with a discriminant of
// tagWidth bytes (1 or 4). It panics on an unsupported width since a
// registry declaration is programmer input, not runtime data.
func NewRegistry(name string, tagWidth int) *Registry {
	if tagWidth != 1 && tagWidth != 4 {
		panic(fmt.Sprintf("wire: registry %q: unsupported tag width %d", name, tagWidth))
	}
	return &Registry{
		name:      name,
		tagWidth:  tagWidth,
		factories: make(map[uint64]func() any),
		tags:      make(map[reflect.Type]uint64),
	}
}

// Register binds tag to the variant produced by factory. The factory
// must return a pointer to a fresh, decodable value. Registering the
// same tag or the same variant type twice panics.
func (r *Registry) Register(tag uint64, factory func() any) {
	if _, dup := r.factories[tag]; dup {
		panic(fmt.Sprintf("wire: registry %q: duplicate tag %#x", r.name, tag))
	}
	t := reflect.TypeOf(factory())
	if _, dup := r.tags[t]; dup {
		panic(fmt.Sprintf("wire: registry %q: duplicate variant type %s", r.name, t))
	}
	r.factories[tag] = factory
	r.tags[t] = tag
}

// Tag returns the discriminant registered for v's concrete type.
func (r *Registry) Tag(v any) (uint64, bool) {
	tag, ok := r.tags[reflect.TypeOf(v)]
	return tag, ok
}

// Encode prefixes the discriminant of v's variant and appends v's wire
// encoding.
func (r *Registry) Encode(v any) ([]byte, error) {
	tag, ok := r.tags[reflect.TypeOf(v)]
	if !ok {
		return nil, fmt.Errorf("wire: %s: %w: unregistered type %T", r.name, ErrUnknownVariant, v)
	}
	buf := r.appendTag(nil, tag)
	return appendValue(buf, reflect.ValueOf(v), true)
}

// Decode reads the discriminant, selects the matching variant and
// decodes it from the remainder. It returns the decoded variant and the
// total number of bytes consumed, including the tag.
func (r *Registry) Decode(data []byte) (any, int, error) {
	if len(data) < r.tagWidth {
		return nil, 0, &DecodeError{Field: r.name, Err: ErrShortBuffer}
	}
	tag := readUint(data, r.tagWidth)
	factory, ok := r.factories[tag]
	if !ok {
		return nil, 0, &DecodeError{
			Field: r.name,
			Err:   fmt.Errorf("%w: tag %#x", ErrUnknownVariant, tag),
		}
	}
	v := factory()
	n, err := Unmarshal(data[r.tagWidth:], v)
	if err != nil {
		return nil, 0, decodeErr(r.name, err)
	}
	return v, r.tagWidth + n, nil
}

// DecodeStrict decodes like Decode but requires the variant to consume
// the entire buffer.
func (r *Registry) DecodeStrict(data []byte) (any, error) {
	v, n, err := r.Decode(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, &DecodeError{
			Field: r.name,
			Err:   fmt.Errorf("%w: %d byte(s) left", ErrTrailingBytes, len(data)-n),
		}
	}
	return v, nil
}

func (r *Registry) appendTag(buf []byte, tag uint64) []byte {
	if r.tagWidth == 1 {
		return append(buf, byte(tag))
	}
	return binary.LittleEndian.AppendUint32(buf, uint32(tag))
}
