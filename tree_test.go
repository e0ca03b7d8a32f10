package huffpack

import (
	"math/rand"
	"testing"
)

func TestCountFrequencies(t *testing.T) {
	freqs := CountFrequencies([]Symbol("abracadabra"))
	want := map[Symbol]int{'a': 5, 'b': 2, 'r': 2, 'c': 1, 'd': 1}
	if len(freqs) != len(want) {
		t.Fatalf("got %d entries, want %d", len(freqs), len(want))
	}
	for sym, count := range want {
		if freqs[sym] != count {
			t.Errorf("count of %q: got %d, want %d", sym, freqs[sym], count)
		}
	}
	if freqs.Total() != 11 {
		t.Errorf("Total: got %d, want 11", freqs.Total())
	}

	if got := CountFrequencies(nil); len(got) != 0 {
		t.Errorf("empty input: got %d entries", len(got))
	}
}

func TestFrequencyTableSorted(t *testing.T) {
	sorted := CountFrequencies([]Symbol("abracadabra")).Sorted()
	want := []SymbolCount{{'c', 1}, {'d', 1}, {'b', 2}, {'r', 2}, {'a', 5}}
	if len(sorted) != len(want) {
		t.Fatalf("got %v, want %v", sorted, want)
	}
	for i := range want {
		if sorted[i] != want[i] {
			t.Fatalf("got %v, want %v", sorted, want)
		}
	}
}

func TestBuildCodebookAbracadabra(t *testing.T) {
	cb := BuildCodebook(CountFrequencies([]Symbol("abracadabra")))

	// c+d merge first; then b (ordered before [c d]) with [c d]; then r with
	// [b c d]; finally a with the rest.
	want := []Entry{
		{'c', "1110"},
		{'d', "1111"},
		{'b', "110"},
		{'r', "10"},
		{'a', "0"},
	}
	got := cb.Entries()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if cb.MaxCodeLen() != 4 {
		t.Errorf("MaxCodeLen: got %d, want 4", cb.MaxCodeLen())
	}

	bits, err := cb.BitLen([]Symbol("abracadabra"))
	if err != nil || bits != 23 {
		t.Errorf("BitLen: got %d, %v; want 23", bits, err)
	}
}

func TestBuildCodebookTieBreak(t *testing.T) {
	// a(3) ties with the merged group [c b](3); [a] sorts first and takes 0.
	cb := BuildCodebook(CountFrequencies([]Symbol("aaabbc")))
	codes := codesOf(cb)
	if codes['a'] != "0" || codes['c'] != "10" || codes['b'] != "11" {
		t.Fatalf("codes: got %v", codes)
	}
}

func TestBuildCodebookEmptyAndSingle(t *testing.T) {
	if cb := BuildCodebook(FrequencyTable{}); cb.Len() != 0 || cb.MaxCodeLen() != 0 {
		t.Errorf("empty table: got %d entries", cb.Len())
	}

	cb := BuildCodebook(FrequencyTable{'z': 1000})
	if code, ok := cb.Code('z'); !ok || code != "0" {
		t.Errorf("single symbol: got %q, %v; want \"0\"", code, ok)
	}
}

func TestBuildCodebookPrefixFree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		freqs := make(FrequencyTable)
		n := 1 + rng.Intn(300)
		for i := 0; i < n; i++ {
			freqs[Symbol(0x20+rng.Intn(0x3000))] = 1 + rng.Intn(1000)
		}
		cb := BuildCodebook(freqs)
		if err := cb.Validate(); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if cb.Len() != len(freqs) {
			t.Fatalf("trial %d: %d codes for %d symbols", trial, cb.Len(), len(freqs))
		}
	}
}

func TestBuildCodebookFrequentSymbolsGetShorterCodes(t *testing.T) {
	freqs := FrequencyTable{'a': 1000, 'b': 100, 'c': 10, 'd': 1, 'e': 1}
	cb := BuildCodebook(freqs)
	codes := codesOf(cb)
	order := []Symbol{'a', 'b', 'c', 'd'}
	for i := 1; i < len(order); i++ {
		if len(codes[order[i-1]]) > len(codes[order[i]]) {
			t.Errorf("%q (%d) has a longer code than %q (%d)", order[i-1], freqs[order[i-1]], order[i], freqs[order[i]])
		}
	}
}

func TestBuildCodebookFibonacciDepth(t *testing.T) {
	// Fibonacci weights produce the deepest possible tree.
	freqs := make(FrequencyTable)
	a, b := 1, 1
	for i := 0; i < 40; i++ {
		freqs[Symbol('A'+i)] = a
		a, b = b, a+b
	}
	cb := BuildCodebook(freqs)
	if err := cb.Validate(); err != nil {
		t.Fatal(err)
	}
	if cb.MaxCodeLen() != 39 {
		t.Errorf("MaxCodeLen: got %d, want 39", cb.MaxCodeLen())
	}
}
