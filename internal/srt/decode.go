package srt

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used when no charset is configured.
const DefaultEncoding = "utf-8"

const byteOrderMark = "\ufeff"

// LookupEncoding resolves a charset name such as "utf-8" or "windows-1252".
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Decode converts raw file bytes in the named charset to a UTF-8 string
// without a byte order mark. UTF-8 and UTF-16 inputs carrying a BOM are
// detected regardless of the configured charset.
func Decode(data []byte, charset string) (string, error) {
	enc, err := LookupEncoding(charset)
	if err != nil {
		return "", err
	}
	switch {
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", charset, err)
	}
	return strings.TrimPrefix(string(decoded), byteOrderMark), nil
}
