package huffpack

import (
	"container/heap"
	"slices"
)

// group is a set of symbols merged so far together with their combined weight.
// Member order is A's members followed by B's members for every merge, which
// keeps tie-breaking reproducible.
type group struct {
	weight  int
	symbols []Symbol
}

// groupQueue is a min-heap of groups ordered by weight, then by member list.
type groupQueue []*group

func (q groupQueue) Len() int { return len(q) }

func (q groupQueue) Less(i, j int) bool {
	if q[i].weight != q[j].weight {
		return q[i].weight < q[j].weight
	}
	// Member lists of live groups are disjoint, so this never returns 0.
	return slices.Compare(q[i].symbols, q[j].symbols) < 0
}

func (q groupQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *groupQueue) Push(x interface{}) { *q = append(*q, x.(*group)) }
func (q *groupQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// BuildCodebook runs the greedy pairwise merge over freqs and returns the
// resulting prefix-free codebook.
//
// At each step the lowest-weight group gets a 0 prepended to every member's
// code and the next-lowest gets a 1. Equal weights are ordered by comparing
// member symbol lists element-wise. A single-symbol alphabet gets the code "0"
// and an empty table gets an empty codebook.
func BuildCodebook(freqs FrequencyTable) *Codebook {
	counts := freqs.Sorted()
	switch len(counts) {
	case 0:
		return newCodebook(nil)
	case 1:
		return newCodebook([]Entry{{Symbol: counts[0].Symbol, Code: "0"}})
	}

	queue := make(groupQueue, 0, len(counts))
	for _, sc := range counts {
		queue = append(queue, &group{weight: sc.Count, symbols: []Symbol{sc.Symbol}})
	}
	heap.Init(&queue)

	// Bits are appended as merges happen, so each slice holds its code reversed.
	reversed := make(map[Symbol][]byte, len(counts))

	for queue.Len() > 1 {
		a := heap.Pop(&queue).(*group)
		for _, sym := range a.symbols {
			reversed[sym] = append(reversed[sym], '0')
		}
		b := heap.Pop(&queue).(*group)
		for _, sym := range b.symbols {
			reversed[sym] = append(reversed[sym], '1')
		}

		members := make([]Symbol, 0, len(a.symbols)+len(b.symbols))
		members = append(members, a.symbols...)
		members = append(members, b.symbols...)
		heap.Push(&queue, &group{weight: a.weight + b.weight, symbols: members})
	}

	entries := make([]Entry, len(counts))
	for i, sc := range counts {
		code := reversed[sc.Symbol]
		slices.Reverse(code)
		entries[i] = Entry{Symbol: sc.Symbol, Code: string(code)}
	}
	log.Debugf("built codebook: %d symbols, %d total occurrences", len(entries), freqs.Total())
	return newCodebook(entries)
}
