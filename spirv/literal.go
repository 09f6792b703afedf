package spirv

import "strings"

// DecodeString decodes a nul-terminated literal string packed four bytes per
// word, first byte in the lowest-order bits. It returns the string and the
// number of words it occupies, terminator included. An unterminated string
// consumes every word.
func DecodeString(words []uint32) (string, int) {
	var sb strings.Builder
	for i, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(b)
		}
	}
	return sb.String(), len(words)
}

// StringWords returns the number of words a literal occupies without
// decoding it.
func StringWords(words []uint32) int {
	for i, w := range words {
		if w&0xFF == 0 || w&0xFF00 == 0 || w&0xFF0000 == 0 || w&0xFF000000 == 0 {
			return i + 1
		}
	}
	return len(words)
}
