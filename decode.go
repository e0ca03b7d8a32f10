package huffpack

import "fmt"

// Decode reverses Pack. It drops exactly padding bits from the end of data
// and walks the remaining bits one at a time, emitting a symbol each time the
// accumulated bits equal a code in cb.
//
// The walk fails with ErrMalformedStream if bits are left over at the end,
// or if the accumulator grows past the longest code without matching.
func Decode(data []byte, padding int, cb *Codebook) ([]Symbol, error) {
	u, err := newBitUnpacker(data, padding)
	if err != nil {
		return nil, err
	}
	if u.remaining > 0 && cb.Len() == 0 {
		return nil, fmt.Errorf("%w: %d bits with an empty codebook", ErrMalformedStream, u.remaining)
	}

	var out []Symbol
	if cb.MaxCodeLen() > 0 {
		out = make([]Symbol, 0, u.remaining/cb.MaxCodeLen())
	}
	acc := make([]byte, 0, cb.MaxCodeLen())
	offset := 0
	for {
		bit, ok, err := u.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		offset++
		acc = append(acc, bit)

		if sym, found := cb.byCode[string(acc)]; found {
			out = append(out, sym)
			acc = acc[:0]
			continue
		}
		if len(acc) >= cb.MaxCodeLen() {
			return nil, fmt.Errorf("%w: no code matches %q ending at bit %d", ErrMalformedStream, acc, offset)
		}
	}

	if len(acc) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bits %q do not form a code", ErrMalformedStream, len(acc), acc)
	}
	log.Debugf("decoded %d symbols from %d bytes", len(out), len(data))
	return out, nil
}

// DecodeString is Decode returning the symbols as a string.
func DecodeString(data []byte, padding int, cb *Codebook) (string, error) {
	text, err := Decode(data, padding, cb)
	if err != nil {
		return "", err
	}
	return string(text), nil
}
