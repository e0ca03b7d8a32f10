package huffpack

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// Entry pairs a symbol with its bit code, written as '0' and '1' characters.
type Entry struct {
	Symbol Symbol
	Code   string
}

// Codebook is an immutable, prefix-free mapping between symbols and codes.
// It is safe for concurrent use once built.
type Codebook struct {
	entries  []Entry
	bySymbol map[Symbol]string
	byCode   map[string]Symbol
	maxLen   int
}

// newCodebook indexes entries without validating them. Only the tree
// builder, which cannot produce an invalid codebook, calls it directly.
func newCodebook(entries []Entry) *Codebook {
	cb := &Codebook{
		entries:  entries,
		bySymbol: make(map[Symbol]string, len(entries)),
		byCode:   make(map[string]Symbol, len(entries)),
	}
	for _, e := range entries {
		cb.bySymbol[e.Symbol] = e.Code
		cb.byCode[e.Code] = e.Symbol
		if len(e.Code) > cb.maxLen {
			cb.maxLen = len(e.Code)
		}
	}
	return cb
}

// NewCodebook builds a codebook from externally supplied entries. The entry
// order is preserved. It fails with ErrInvalidCodebook unless the entries
// form a valid prefix-free code.
func NewCodebook(entries []Entry) (*Codebook, error) {
	cb := newCodebook(append([]Entry(nil), entries...))
	if err := cb.Validate(); err != nil {
		return nil, err
	}
	return cb, nil
}

// Code returns the code assigned to sym and whether sym is in the codebook.
func (cb *Codebook) Code(sym Symbol) (string, bool) {
	code, ok := cb.bySymbol[sym]
	return code, ok
}

// Symbol returns the symbol assigned to code and whether code is in the codebook.
func (cb *Codebook) Symbol(code string) (Symbol, bool) {
	sym, ok := cb.byCode[code]
	return sym, ok
}

// Len returns the number of entries.
func (cb *Codebook) Len() int { return len(cb.entries) }

// MaxCodeLen returns the length of the longest code, or 0 for an empty codebook.
func (cb *Codebook) MaxCodeLen() int { return cb.maxLen }

// Entries returns a copy of the entries in codebook order.
func (cb *Codebook) Entries() []Entry {
	return append([]Entry(nil), cb.entries...)
}

// Fingerprint returns a 64-bit hash of the entries in codebook order.
func (cb *Codebook) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [4]byte
	for _, e := range cb.entries {
		binary.LittleEndian.PutUint32(buf[:], uint32(e.Symbol))
		_, _ = h.Write(buf[:])
		_, _ = h.WriteString(e.Code)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// BitLen returns the number of bits text occupies once packed, without padding.
func (cb *Codebook) BitLen(text []Symbol) (int, error) {
	bits := 0
	for i, sym := range text {
		code, ok := cb.bySymbol[sym]
		if !ok {
			return 0, fmt.Errorf("%w: symbol %U at position %d", ErrMissingCode, sym, i)
		}
		bits += len(code)
	}
	return bits, nil
}

// Validate checks that codes are non-empty binary strings, that symbols and
// codes are unique, and that no code is a prefix of another.
func (cb *Codebook) Validate() error {
	if len(cb.bySymbol) != len(cb.entries) {
		return fmt.Errorf("%w: duplicate symbol", ErrInvalidCodebook)
	}
	if len(cb.byCode) != len(cb.entries) {
		return fmt.Errorf("%w: duplicate code", ErrInvalidCodebook)
	}

	codes := make([]string, 0, len(cb.entries))
	for _, e := range cb.entries {
		if e.Code == "" {
			return fmt.Errorf("%w: empty code for symbol %U", ErrInvalidCodebook, e.Symbol)
		}
		if strings.Trim(e.Code, "01") != "" {
			return fmt.Errorf("%w: code %q for symbol %U is not binary", ErrInvalidCodebook, e.Code, e.Symbol)
		}
		codes = append(codes, e.Code)
	}

	// After sorting, a code that prefixes any other code prefixes its successor.
	sort.Strings(codes)
	for i := 1; i < len(codes); i++ {
		if strings.HasPrefix(codes[i], codes[i-1]) {
			return fmt.Errorf("%w: code %q is a prefix of %q", ErrInvalidCodebook, codes[i-1], codes[i])
		}
	}
	return nil
}

// Codebook file format:
//
//	<padding>
//	<code> <ordinal>
//	...
//
// padding is the decimal padding count in [0,7]. Each following line holds a
// code as '0'/'1' characters and the decimal code point of its symbol, one
// line per entry, in codebook order.

// WriteCodebook writes cb and the padding count in the codebook file format.
func WriteCodebook(w io.Writer, cb *Codebook, padding int) error {
	if padding < 0 || padding > 7 {
		return fmt.Errorf("%w: padding %d out of range", ErrInvalidCodebook, padding)
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(strconv.Itoa(padding))
	bw.WriteByte('\n')
	for _, e := range cb.entries {
		bw.WriteString(e.Code)
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatInt(int64(e.Symbol), 10))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadCodebook parses the codebook file format and returns the codebook and
// the padding count. The whole input is consumed before returning.
func ReadCodebook(r io.Reader) (*Codebook, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	padding := -1
	var entries []Entry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if padding < 0 {
			if len(fields) != 1 {
				return nil, 0, fmt.Errorf("%w: line %d: expected padding count", ErrInvalidCodebook, lineNo)
			}
			p, err := strconv.Atoi(fields[0])
			if err != nil || p < 0 || p > 7 {
				return nil, 0, fmt.Errorf("%w: line %d: invalid padding count %q", ErrInvalidCodebook, lineNo, fields[0])
			}
			padding = p
			continue
		}

		if len(fields) != 2 {
			return nil, 0, fmt.Errorf("%w: line %d: expected \"<code> <ordinal>\"", ErrInvalidCodebook, lineNo)
		}
		ordinal, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil || !utf8.ValidRune(rune(ordinal)) {
			return nil, 0, fmt.Errorf("%w: line %d: invalid symbol ordinal %q", ErrInvalidCodebook, lineNo, fields[1])
		}
		entries = append(entries, Entry{Symbol: Symbol(ordinal), Code: fields[0]})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read codebook: %w", err)
	}
	if padding < 0 {
		return nil, 0, fmt.Errorf("%w: missing padding count", ErrInvalidCodebook)
	}

	cb := newCodebook(entries)
	if err := cb.Validate(); err != nil {
		return nil, 0, err
	}
	return cb, padding, nil
}
