package huffpack

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 128

// CodebookCache remembers codebooks built for recently seen frequency tables.
// It is safe for concurrent use.
type CodebookCache struct {
	lru *lru.Cache[uint64, cachedCodebook]
}

type cachedCodebook struct {
	counts   []SymbolCount
	codebook *Codebook
}

// NewCodebookCache creates a cache holding up to size codebooks.
// A size <= 0 selects the default.
func NewCodebookCache(size int) (*CodebookCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[uint64, cachedCodebook](size)
	if err != nil {
		return nil, err
	}
	return &CodebookCache{lru: c}, nil
}

// Get returns the codebook cached for freqs. Hash collisions are resolved by
// comparing the full sorted table, so a hit always matches freqs exactly.
func (c *CodebookCache) Get(freqs FrequencyTable) (*Codebook, bool) {
	counts := freqs.Sorted()
	entry, ok := c.lru.Get(fingerprintCounts(counts))
	if !ok || !slices.Equal(entry.counts, counts) {
		return nil, false
	}
	return entry.codebook, true
}

// Add stores cb as the codebook for freqs.
func (c *CodebookCache) Add(freqs FrequencyTable, cb *Codebook) {
	counts := freqs.Sorted()
	c.lru.Add(fingerprintCounts(counts), cachedCodebook{counts: counts, codebook: cb})
}

// Len returns the number of cached codebooks.
func (c *CodebookCache) Len() int { return c.lru.Len() }

// Purge drops every cached codebook.
func (c *CodebookCache) Purge() { c.lru.Purge() }

func fingerprintCounts(counts []SymbolCount) uint64 {
	h := xxhash.New()
	var buf [12]byte
	for _, sc := range counts {
		binary.LittleEndian.PutUint32(buf[:4], uint32(sc.Symbol))
		binary.LittleEndian.PutUint64(buf[4:], uint64(sc.Count))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
