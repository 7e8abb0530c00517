package libramsey

import (
	"github.com/ramsey-systems/goramsey/goramsey"
)

// filterNode is an index-linked list node in a FilterSpace arena.
// Indices address the arena; -1 terminates the chain.
type filterNode struct {
	prev, next int32
}

// DefaultRegroupEvery is how many filter passes run between automatic
// compactions of the live chain.
const DefaultRegroupEvery = 8

// FilterSpace holds the surviving prefix colorings of one extension attempt:
// the universe {0 .. 2^B - 1} threaded as a doubly linked list over an index
// arena, giving O(1) removal without shifting and a compaction pass that
// restores iteration locality.
//
// Values are only ever removed.  Applying the same candidates again, or in a
// different order, leaves the surviving set unchanged.
type FilterSpace struct {
	prefixWidth  int
	head, tail   int32
	live         int
	values       []uint64
	nodes        []filterNode
	passes       int // filter passes since the last regroup
	regroupEvery int // 0 disables auto-regrouping
}

// NewFilterSpace builds the full universe for the given prefix width.
// The arena allocates one node per prefix value, so 2^prefixWidth of them.
func NewFilterSpace(prefixWidth int) *FilterSpace {
	if prefixWidth < 1 || prefixWidth > goramsey.MaxPrefixWidth {
		panic("filter space prefix width out of range")
	}

	fs := &FilterSpace{
		prefixWidth:  prefixWidth,
		regroupEvery: DefaultRegroupEvery,
	}

	size := 1 << uint(prefixWidth)
	fs.values = make([]uint64, size)
	fs.nodes = make([]filterNode, size)
	for i := 0; i < size; i++ {
		fs.values[i] = uint64(i)
		fs.nodes[i].prev = int32(i - 1)
		fs.nodes[i].next = int32(i + 1)
	}
	fs.nodes[size-1].next = -1
	fs.head = 0
	fs.tail = int32(size - 1)
	fs.live = size
	return fs
}

// Len returns the number of surviving values.
func (fs *FilterSpace) Len() int {
	return fs.live
}

func (fs *FilterSpace) PrefixWidth() int {
	return fs.prefixWidth
}

func (fs *FilterSpace) unlink(i int32) {
	node := fs.nodes[i]
	if node.prev >= 0 {
		fs.nodes[node.prev].next = node.next
	} else {
		fs.head = node.next
	}
	if node.next >= 0 {
		fs.nodes[node.next].prev = node.prev
	} else {
		fs.tail = node.prev
	}
	fs.live--
}

// Filter unlinks every surviving value that would complete the given
// candidate clique monochromatically.  A candidate not confined to the
// prefix contributes no filtering and is skipped; it is checked against
// full colorings during the search instead.  Returns the number removed.
func (fs *FilterSpace) Filter(cand CandidateClique) int {
	if !cand.InPrefix(fs.prefixWidth) {
		return 0
	}

	removed := 0
	for i := fs.head; i >= 0; {
		next := fs.nodes[i].next
		if cand.CompletedBy(fs.values[i]) {
			fs.unlink(i)
			removed++
		}
		i = next
	}

	fs.passes++
	if fs.regroupEvery > 0 && fs.passes >= fs.regroupEvery {
		fs.Regroup()
	}
	return removed
}

// FilterAll applies every candidate in turn, returning the total removed.
// Pass order does not affect the surviving set, only locality.
func (fs *FilterSpace) FilterAll(cands []CandidateClique) int {
	removed := 0
	for i := range cands {
		removed += fs.Filter(cands[i])
	}
	return removed
}

// Regroup compacts the live chain into a fresh contiguous arena, restoring
// the iteration locality lost to unlinking.  Logical contents are unchanged.
func (fs *FilterSpace) Regroup() {
	live := fs.live
	values := make([]uint64, live)
	nodes := make([]filterNode, live)

	n := 0
	for i := fs.head; i >= 0; i = fs.nodes[i].next {
		values[n] = fs.values[i]
		nodes[n].prev = int32(n - 1)
		nodes[n].next = int32(n + 1)
		n++
	}
	if n != live {
		panic("filter space live count out of sync")
	}

	if live > 0 {
		nodes[live-1].next = -1
		fs.head = 0
		fs.tail = int32(live - 1)
	} else {
		fs.head = -1
		fs.tail = -1
	}
	fs.values = values
	fs.nodes = nodes
	fs.passes = 0
}

// Snapshot appends the surviving values, in ascending order, to dst and
// returns it.  The search loop replays the returned slice once per suffix
// value; it must not be mutated afterward.
func (fs *FilterSpace) Snapshot(dst []uint64) []uint64 {
	for i := fs.head; i >= 0; i = fs.nodes[i].next {
		dst = append(dst, fs.values[i])
	}
	return dst
}
