package util

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an offset/length window does not fit the buffer.
var ErrOutOfRange = errors.New("range out of bounds")

var (
	hexUpper = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'A', 'B', 'C', 'D', 'E', 'F'}
	hexLower = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}
)

// Int32Bytes returns the big-endian representation of i.
func Int32Bytes(i int32) []byte {
	return []byte{
		byte(i >> 24),
		byte(i >> 16),
		byte(i >> 8),
		byte(i),
	}
}

// ByteToHex renders a single byte as two uppercase hex digits.
func ByteToHex(b byte) string {
	return ToHex([]byte{b})
}

// Int32ToHex renders i as eight uppercase hex digits, most significant byte first.
func Int32ToHex(i int32) string {
	return ToHex(Int32Bytes(i))
}

// ToHex renders data as uppercase hex.
func ToHex(data []byte) string {
	return ToHexCase(data, true)
}

// ToHexCase renders data as hex using the uppercase or lowercase alphabet.
func ToHexCase(data []byte, upper bool) string {
	return string(appendHex(make([]byte, 0, len(data)*2), data, upper))
}

// ToHexRange renders data[offset:offset+length] as hex. The window must lie
// inside data.
func ToHexRange(data []byte, offset, length int, upper bool) (string, error) {
	if offset < 0 || length < 0 || offset > len(data) || length > len(data)-offset {
		return "", fmt.Errorf("%w: offset %d length %d in %d bytes", ErrOutOfRange, offset, length, len(data))
	}
	return ToHexCase(data[offset:offset+length], upper), nil
}

// FromHex decodes a hex string in either case.
func FromHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return b, nil
}

func appendHex(dst, data []byte, upper bool) []byte {
	digits := &hexLower
	if upper {
		digits = &hexUpper
	}
	for _, b := range data {
		dst = append(dst, digits[(b>>4)&0x0F], digits[b&0x0F])
	}
	return dst
}
