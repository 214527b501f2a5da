package util

import "unicode"

// BinarySampleSize is the number of leading bytes inspected by Classify.
const BinarySampleSize = 10 * 1024

// binaryPercent is the share of non-text bytes a sample may contain and
// still be considered text.
const binaryPercent = 5

// Bounds of the two-byte rolling value that approximates a Latin-1
// character encoded as UTF-8.
const (
	utf8LatinMin = 0x2E2E
	utf8LatinMax = 0xC3BF
)

// IsPrintable reports whether r has a visible glyph. Space, tab, carriage
// return and line feed are accepted as well.
func IsPrintable(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S)
}

// Classification is the outcome of sampling a buffer for binary content.
type Classification struct {
	SampleLen int  // bytes inspected
	NonText   int  // bytes that matched none of the text rules
	Threshold int  // NonText must exceed this for Binary
	Binary    bool
}

// Ratio returns the share of non-text bytes in the sample.
func (c Classification) Ratio() float64 {
	if c.SampleLen == 0 {
		return 0
	}
	return float64(c.NonText) / float64(c.SampleLen)
}

// Classify samples the first BinarySampleSize bytes of data and counts the
// bytes that do not look like text.
//
// The rolling value shifts the previous byte into the high bits and adds the
// current one. It is a coarse stand-in for multi-byte sequence detection and
// both over- and under-accepts; the thresholds are tuned to it as is.
func Classify(data []byte) Classification {
	n := min(len(data), BinarySampleSize)
	c := Classification{
		SampleLen: n,
		Threshold: binaryPercent * n / 100,
	}

	prev := 0
	for _, b := range data[:n] {
		ub := int(b)
		rolling := prev + ub
		prev = ub << 8
		if !isTextByte(ub, rolling) {
			c.NonText++
		}
	}

	c.Binary = c.NonText > c.Threshold
	return c
}

// IsBinary reports whether data looks like binary rather than text.
func IsBinary(data []byte) bool {
	return Classify(data).Binary
}

func isTextByte(b, rolling int) bool {
	switch {
	case b == 0x09, b == 0x0A, b == 0x0C, b == 0x0D:
		return true
	case b >= 0x20 && b <= 0x7E:
		return true
	case b >= 0xA0 && b <= 0xEE:
		return true
	case rolling >= utf8LatinMin && rolling <= utf8LatinMax:
		return true
	}
	return false
}
