package crypto

import "io"

// Pad appends n copies of the byte n to data, with n drawn uniformly
// from [1, maxPadding]. The padding hides the exact plaintext length;
// the repeated-value trailer makes it removable without a length field.
func Pad(data []byte) ([]byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(randReader, b[:]); err != nil {
		return nil, err
	}
	// Unbiased since 256 is a multiple of maxPadding.
	n := int(b[0]%maxPadding) + 1
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded, nil
}

// Unpad strips the trailer appended by Pad, verifying that every pad
// byte carries the pad length.
func Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if b != byte(n) {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
