package sitemap

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// legacyEncodings is the ordered fallback chain tried when the input is
// not valid UTF-8. Sphinx htmlhelp output historically shipped in
// Windows-1252 or Latin-1.
var legacyEncodings = []*charmap.Charmap{
	charmap.Windows1252,
	charmap.ISO8859_1,
}

// DecodeText converts raw sitemap bytes to a string, trying UTF-8 (with
// or without a BOM) first, then the legacy single-byte encodings, and
// finally a permissive decode that replaces undecodable bytes. It never
// fails: encoding problems alone must not make a file unloadable.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	for _, cm := range legacyEncodings {
		if out, ok := decodeStrict(cm, data); ok {
			return out
		}
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

// decodeStrict decodes data one byte at a time and fails on bytes the
// charmap leaves undefined. The x/text decoder cannot be used here: it
// substitutes U+FFFD for undefined bytes instead of erroring, which
// would stop the chain at its first entry. Bytes like 0x81 must fail
// Windows-1252 and fall through to Latin-1, where every byte decodes.
func decodeStrict(cm *charmap.Charmap, data []byte) (string, bool) {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		r := cm.DecodeByte(c)
		if r == utf8.RuneError {
			return "", false
		}
		b.WriteRune(r)
	}
	return b.String(), true
}
