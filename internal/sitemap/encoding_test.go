package sitemap

import (
	"testing"
	"unicode/utf8"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "plain utf-8",
			data: []byte("Héllo"),
			want: "Héllo",
		},
		{
			name: "utf-8 with BOM stripped",
			data: append([]byte{0xEF, 0xBB, 0xBF}, []byte("Intro")...),
			want: "Intro",
		},
		{
			name: "windows-1252 accented",
			data: []byte{'c', 'a', 'f', 0xE9}, // café
			want: "café",
		},
		{
			name: "windows-1252 curly quotes",
			data: []byte{0x93, 'h', 'i', 0x94},
			want: "“hi”",
		},
		{
			// 0x81 is undefined in windows-1252, so the whole input must
			// fall through to latin-1, where it is the C1 control U+0081.
			name: "undefined cp1252 byte falls through to latin-1",
			data: []byte{'a', 0x81, 'b'},
			want: "a\u0081b",
		},
		{
			name: "empty",
			data: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeText(tt.data); got != tt.want {
				t.Errorf("DecodeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeTextNeverInvalid(t *testing.T) {
	// Whatever the input, the result must be valid UTF-8: encoding
	// problems alone never make a file unloadable.
	inputs := [][]byte{
		{0xFF, 0xFE, 0x00, 0x41},
		{0x80, 0x81, 0xFE, 0xFF},
		[]byte("mixed \xff garbage"),
	}
	for _, in := range inputs {
		if got := DecodeText(in); !utf8.ValidString(got) {
			t.Errorf("DecodeText(%x) produced invalid UTF-8", in)
		}
	}
}
