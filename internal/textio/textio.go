// Package textio reads and writes plain-text files as symbol sequences in a
// selectable text encoding.
package textio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/seiflotfy/huffpack"
)

// DefaultEncoding is used when no encoding name is given.
const DefaultEncoding = "utf-8"

// ErrInvalidText indicates input bytes that do not decode losslessly in the
// selected encoding.
var ErrInvalidText = errors.New("text is not valid in the selected encoding")

var encodings = map[string]encoding.Encoding{
	"utf-8":      unicode.UTF8,
	"utf8":       unicode.UTF8,
	"utf-16":     unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM),
	"utf-16le":   unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":   unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"latin-1":    charmap.ISO8859_1,
	"latin1":     charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
}

// A BOM-driven UTF-16 decoder also accepts a little-endian mark, which the
// big-endian encoder would not write back.
var (
	utf16LEMark    = []byte{0xFF, 0xFE}
	utf16LEWithBOM = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
)

// Lookup returns the encoding registered under name (case-insensitive).
// An empty name selects DefaultEncoding.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, ok := encodings[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported text encoding %q", name)
	}
	return enc, nil
}

// Decode converts raw bytes in enc to symbols. Input that would not encode
// back to the same bytes, such as invalid UTF-8, fails with ErrInvalidText
// rather than being replaced with U+FFFD.
func Decode(raw []byte, enc encoding.Encoding) ([]huffpack.Symbol, error) {
	utf8Bytes, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}
	if !lossless(raw, utf8Bytes, enc) {
		return nil, fmt.Errorf("decode text: %w", ErrInvalidText)
	}
	return []huffpack.Symbol(string(utf8Bytes)), nil
}

func lossless(raw, utf8Bytes []byte, enc encoding.Encoding) bool {
	back, err := enc.NewEncoder().Bytes(utf8Bytes)
	if err == nil && bytes.Equal(back, raw) {
		return true
	}
	if !bytes.HasPrefix(raw, utf16LEMark) {
		return false
	}
	back, err = utf16LEWithBOM.NewEncoder().Bytes(utf8Bytes)
	return err == nil && bytes.Equal(back, raw)
}

// Encode converts symbols to raw bytes in enc.
func Encode(text []huffpack.Symbol, enc encoding.Encoding) ([]byte, error) {
	raw, err := enc.NewEncoder().Bytes([]byte(string(text)))
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}
	return raw, nil
}

// ReadFile reads the full contents of path and decodes them with the
// encoding called encodingName.
func ReadFile(path, encodingName string) ([]huffpack.Symbol, error) {
	enc, err := Lookup(encodingName)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(raw, enc)
}

// WriteFile encodes text with the encoding called encodingName and writes
// it to path.
func WriteFile(path string, text []huffpack.Symbol, encodingName string) error {
	enc, err := Lookup(encodingName)
	if err != nil {
		return err
	}
	raw, err := Encode(text, enc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
