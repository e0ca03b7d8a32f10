package huffpack

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// Pack concatenates the code of every symbol of text, in order, into a
// bitstream and packs it 8 bits per byte, most-significant bit first. The
// final byte is filled with zero bits; the number of filler bits is returned
// as padding.
//
// A symbol without a code is a consistency violation and fails with
// ErrMissingCode. Nothing is skipped.
func Pack(text []Symbol, cb *Codebook) (data []byte, padding int, err error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)

	bits := 0
	for i, sym := range text {
		code, ok := cb.Code(sym)
		if !ok {
			return nil, 0, fmt.Errorf("%w: symbol %U at position %d", ErrMissingCode, sym, i)
		}
		for j := 0; j < len(code); j++ {
			if err := w.WriteBool(code[j] == '1'); err != nil {
				return nil, 0, err
			}
		}
		bits += len(code)
	}
	if err := w.Close(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), paddingFor(bits), nil
}

// paddingFor returns the number of filler bits that align bits to a byte.
func paddingFor(bits int) int {
	return (8 - bits%8) % 8
}

// bitUnpacker expands packed bytes back into bits, most-significant bit
// first, stopping before the trailing padding.
type bitUnpacker struct {
	r         *bitio.Reader
	remaining int
}

func newBitUnpacker(data []byte, padding int) (*bitUnpacker, error) {
	if padding < 0 || padding > 7 {
		return nil, fmt.Errorf("%w: padding %d out of range", ErrMalformedStream, padding)
	}
	total := len(data)*8 - padding
	if total < 0 {
		return nil, fmt.Errorf("%w: padding %d exceeds %d available bits", ErrMalformedStream, padding, len(data)*8)
	}
	return &bitUnpacker{
		r:         bitio.NewReader(bytes.NewReader(data)),
		remaining: total,
	}, nil
}

// next returns the next bit as '0' or '1'. ok is false once every
// non-padding bit has been read.
func (u *bitUnpacker) next() (bit byte, ok bool, err error) {
	if u.remaining == 0 {
		return 0, false, nil
	}
	b, err := u.r.ReadBool()
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrMalformedStream, err)
	}
	u.remaining--
	if b {
		return '1', true, nil
	}
	return '0', true, nil
}

// Unpack expands data into its bit string, without the padding bits.
func Unpack(data []byte, padding int) (string, error) {
	u, err := newBitUnpacker(data, padding)
	if err != nil {
		return "", err
	}
	bits := make([]byte, 0, u.remaining)
	for {
		bit, ok, err := u.next()
		if err != nil {
			return "", err
		}
		if !ok {
			return string(bits), nil
		}
		bits = append(bits, bit)
	}
}
