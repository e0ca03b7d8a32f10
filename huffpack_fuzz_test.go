package huffpack

import (
	"bytes"
	"errors"
	"testing"
)

const maxFuzzInputBytes = 8 * 1024

// Fuzz test for encode/decode round trips
func FuzzRoundTrip(f *testing.F) {
	f.Add("hello")
	f.Add("user_000001")
	f.Add("hello世界")
	f.Add("🚀rocket")
	f.Add("")
	f.Add("a")
	f.Add("abcdefghijklmnopqrstuvwxyz")
	f.Add("tab\there")
	f.Add("null\x00byte")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > maxFuzzInputBytes {
			t.Skip()
		}
		// Invalid UTF-8 becomes U+FFFD on conversion; compare code points.
		symbols := []Symbol(input)

		archive, err := NewEncoder().Encode(symbols)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if err := archive.Codebook.Validate(); err != nil {
			t.Fatalf("codebook not valid: %v", err)
		}
		got, err := archive.Decode()
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if string(got) != string(symbols) {
			t.Fatalf("round trip mismatch: got %q, want %q", string(got), string(symbols))
		}

		var blob bytes.Buffer
		if _, err := archive.WriteTo(&blob); err != nil {
			t.Fatalf("WriteTo failed: %v", err)
		}
		var loaded Archive
		if _, err := loaded.ReadFrom(&blob); err != nil {
			t.Fatalf("ReadFrom failed: %v", err)
		}
		if !bytes.Equal(loaded.Data, archive.Data) || loaded.Padding != archive.Padding {
			t.Fatalf("archive changed across WriteTo/ReadFrom")
		}
	})
}

// Fuzz test feeding arbitrary bytes to the decoder. It must either fail with
// ErrMalformedStream or return symbols that pack back to the same bits.
func FuzzDecodeMalformed(f *testing.F) {
	f.Add([]byte{0x01}, uint8(0))
	f.Add([]byte{0x1F, 0x00}, uint8(7))
	f.Add([]byte{}, uint8(3))
	f.Add([]byte{0xFF, 0xFF}, uint8(9))

	cb := BuildCodebook(CountFrequencies([]Symbol("abracadabra")))

	f.Fuzz(func(t *testing.T, data []byte, padding uint8) {
		if len(data) > maxFuzzInputBytes {
			t.Skip()
		}
		got, err := Decode(data, int(padding), cb)
		if err != nil {
			if !errors.Is(err, ErrMalformedStream) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}

		repacked, repadding, err := Pack(got, cb)
		if err != nil {
			t.Fatalf("Pack of decoded symbols failed: %v", err)
		}
		want, _ := Unpack(data, int(padding))
		have, _ := Unpack(repacked, repadding)
		if want != have {
			t.Fatalf("bits differ after decode/pack: got %q, want %q", have, want)
		}
	})
}
