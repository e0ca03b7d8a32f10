package huffpack

import "sort"

// Symbol is one unit of the input alphabet.
type Symbol = rune

// FrequencyTable maps every observed symbol to its occurrence count.
type FrequencyTable map[Symbol]int

// SymbolCount is a single frequency table entry.
type SymbolCount struct {
	Symbol Symbol
	Count  int
}

// CountFrequencies scans text once and counts each distinct symbol.
// Symbols that never occur have no entry; empty text yields an empty table.
func CountFrequencies(text []Symbol) FrequencyTable {
	freqs := make(FrequencyTable, 64)
	for _, sym := range text {
		freqs[sym]++
	}
	return freqs
}

// Sorted returns the entries ordered by count, then by symbol, both ascending.
// This is the order codebook entries are emitted in.
func (t FrequencyTable) Sorted() []SymbolCount {
	entries := make([]SymbolCount, 0, len(t))
	for sym, count := range t {
		entries = append(entries, SymbolCount{Symbol: sym, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count < entries[j].Count
		}
		return entries[i].Symbol < entries[j].Symbol
	})
	return entries
}

// Total returns the number of symbols the table was built from.
func (t FrequencyTable) Total() int {
	total := 0
	for _, count := range t {
		total += count
	}
	return total
}
