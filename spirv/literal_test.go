package spirv

import "testing"

func TestDecodeString(t *testing.T) {
	tests := []string{"", "a", "abc", "main", "fs_main", "u_texture_sampler"}

	for _, s := range tests {
		b := NewInstructionBuilder()
		b.AddString(s)
		words := b.Build(OpName).Words
		// Trailing operands must not be consumed.
		words = append(words, 0xFFFFFFFF)

		got, n := DecodeString(words)
		if got != s {
			t.Errorf("DecodeString(%q) = %q", s, got)
		}
		wantWords := len(s)/4 + 1
		if n != wantWords {
			t.Errorf("DecodeString(%q) consumed %d words, want %d", s, n, wantWords)
		}
		if sw := StringWords(words); sw != wantWords {
			t.Errorf("StringWords(%q) = %d, want %d", s, sw, wantWords)
		}
	}
}

func TestDecodeString_Unterminated(t *testing.T) {
	words := []uint32{0x64636261} // "abcd" with no terminator
	got, n := DecodeString(words)
	if got != "abcd" || n != 1 {
		t.Errorf("DecodeString = %q, %d; want \"abcd\", 1", got, n)
	}
	if StringWords(words) != 1 {
		t.Errorf("StringWords = %d, want 1", StringWords(words))
	}
}
