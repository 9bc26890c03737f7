// Package codec turns provider payloads (base64 blobs, raw bytes) into text.
//
// The standard library decoders are tried first. When they reject the input
// (unpadded or URL-alphabet base64, bytes that are not valid UTF-8) the
// byte-level decoders in this package take over instead of failing the fetch.
package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ErrInvalidBase64 = errors.New("invalid base64 payload")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeBase64 decodes standard base64 and tolerates embedded whitespace,
// missing padding and the URL-safe alphabet.
func DecodeBase64(value string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)

	if decoded, err := base64.StdEncoding.DecodeString(cleaned); err == nil {
		return decoded, nil
	}
	return decodeBase64Bytes(cleaned)
}

// DecodeUTF8 converts bytes to a string, dropping a leading BOM. Invalid
// sequences are decoded byte by byte as Latin-1.
func DecodeUTF8(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	return decodeUTF8Bytes(data)
}

func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// EncodeUTF8 returns the UTF-8 bytes of value with invalid sequences replaced
// by U+FFFD.
func EncodeUTF8(value string) []byte {
	return []byte(strings.ToValidUTF8(value, "\uFFFD"))
}

func DecodeBase64Text(value string) (string, error) {
	decoded, err := DecodeBase64(value)
	if err != nil {
		return "", err
	}
	return DecodeUTF8(decoded), nil
}

func base64Value(c byte) (uint32, bool) {
	switch {
	case c >= 'A' && c <= 'Z':
		return uint32(c - 'A'), true
	case c >= 'a' && c <= 'z':
		return uint32(c-'a') + 26, true
	case c >= '0' && c <= '9':
		return uint32(c-'0') + 52, true
	case c == '+' || c == '-':
		return 62, true
	case c == '/' || c == '_':
		return 63, true
	default:
		return 0, false
	}
}

func decodeBase64Bytes(value string) ([]byte, error) {
	value = strings.TrimRight(value, "=")
	if len(value)%4 == 1 {
		return nil, ErrInvalidBase64
	}

	out := make([]byte, 0, len(value)*3/4)
	var buffer uint32
	bits := 0
	for i := 0; i < len(value); i++ {
		v, ok := base64Value(value[i])
		if !ok {
			return nil, ErrInvalidBase64
		}
		buffer = buffer<<6 | v
		bits += 6
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>uint(bits)))
			buffer &= 1<<uint(bits) - 1
		}
	}
	return out, nil
}

func decodeUTF8Bytes(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))

	for i := 0; i < len(data); {
		r, size := decodeSequence(data[i:])
		if size == 0 {
			b.WriteRune(rune(data[i]))
			i++
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

// decodeSequence returns size 0 when data does not start with a well-formed
// UTF-8 sequence.
func decodeSequence(data []byte) (rune, int) {
	lead := data[0]

	var size int
	var r rune
	var minRune rune
	switch {
	case lead < 0x80:
		return rune(lead), 1
	case lead&0xE0 == 0xC0:
		size, r, minRune = 2, rune(lead&0x1F), 0x80
	case lead&0xF0 == 0xE0:
		size, r, minRune = 3, rune(lead&0x0F), 0x800
	case lead&0xF8 == 0xF0:
		size, r, minRune = 4, rune(lead&0x07), 0x10000
	default:
		return 0, 0
	}

	if len(data) < size {
		return 0, 0
	}
	for _, c := range data[1:size] {
		if c&0xC0 != 0x80 {
			return 0, 0
		}
		r = r<<6 | rune(c&0x3F)
	}

	if r < minRune || r > unicode.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		return 0, 0
	}
	return r, size
}
