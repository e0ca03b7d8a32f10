package textio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/seiflotfy/huffpack"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"", "utf-8", "UTF-8", "utf8", "utf-16", "utf-16le", "UTF-16BE", "latin-1", "ISO-8859-1"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q) failed: %v", name, err)
		}
	}
	if _, err := Lookup("ebcdic"); err == nil {
		t.Errorf("Lookup(ebcdic) should fail")
	}
}

func TestUTF16LEDecode(t *testing.T) {
	enc, _ := Lookup("utf-16le")
	// "hé" in UTF-16LE
	got, err := Decode([]byte{'h', 0x00, 0xE9, 0x00}, enc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(got) != "hé" {
		t.Fatalf("got %q, want %q", string(got), "hé")
	}
}

func TestFileRoundTripEncodings(t *testing.T) {
	text := []huffpack.Symbol("Grüße, 世界 🚀\nline two\n")
	dir := t.TempDir()

	for _, name := range []string{"utf-8", "utf-16", "utf-16le", "utf-16be"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".txt")
			if err := WriteFile(path, text, name); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			got, err := ReadFile(path, name)
			if err != nil {
				t.Fatalf("ReadFile failed: %v", err)
			}
			if string(got) != string(text) {
				t.Fatalf("got %q, want %q", string(got), string(text))
			}
		})
	}
}

func TestUTF8ByteExact(t *testing.T) {
	raw := []byte("plain ascii, ü and 日本\n")
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	text, err := ReadFile(path, "")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteFile(out, text, ""); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("got %q, want %q", got, raw)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"), ""); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDecodeRejectsLossyInput(t *testing.T) {
	cases := []struct {
		encoding string
		raw      []byte
	}{
		{"utf-8", []byte("caf\xe9 na\xefve\n")},
		{"utf-8", []byte{0xFF}},
		{"utf-16le", []byte{'h', 0x00, 'i'}},
		{"utf-16be", []byte{0xD8, 0x00, 0x00, 'x'}},
		{"utf-16", []byte{0x00, 'h'}},
	}
	for _, tc := range cases {
		enc, err := Lookup(tc.encoding)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := Decode(tc.raw, enc); err == nil {
			t.Errorf("%s %x: expected an error", tc.encoding, tc.raw)
		}
	}
}

func TestDecodeInvalidUTF8IsErrInvalidText(t *testing.T) {
	enc, _ := Lookup("")
	if _, err := Decode([]byte("caf\xe9"), enc); !errors.Is(err, ErrInvalidText) {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
}

func TestLatin1ByteExact(t *testing.T) {
	raw := []byte("caf\xe9 na\xefve \xa9\xff\n")
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	text, err := ReadFile(path, "latin-1")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(text) != "café naïve ©ÿ\n" {
		t.Fatalf("got %q", string(text))
	}
	out := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteFile(out, text, "latin-1"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("got %x, want %x", got, raw)
	}
}

func TestUTF16AcceptsLittleEndianMark(t *testing.T) {
	enc, _ := Lookup("utf-16")
	got, err := Decode([]byte{0xFF, 0xFE, 'o', 0x00, 'k', 0x00}, enc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(got) != "ok" {
		t.Fatalf("got %q, want %q", string(got), "ok")
	}
}

func TestWriteFileRejectsUnencodableSymbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteFile(path, []huffpack.Symbol("世界"), "latin-1"); err == nil {
		t.Fatalf("expected error encoding CJK as latin-1")
	}
}
