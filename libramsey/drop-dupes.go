package libramsey

import (
	"bytes"
	"hash/maphash"
)

const DefaultPoolSz = 32 * 1024

type DropDupeOpts struct {
	PoolSz     int  // 0 denotes DefaultPoolSz (32k)
	TracesOnly bool // if set, two graphs with equal traces are considered equal (vs equal colorings)
}

// NewDropDupes returns an in-memory GraphAdder that accepts a graph only the
// first time it is seen: a hash set over the traces key, plus the coloring
// encoding unless TracesOnly is set.
func NewDropDupes(opts DropDupeOpts) GraphAdder {
	if opts.PoolSz <= 0 {
		opts.PoolSz = DefaultPoolSz
	}
	return &dropDupes{
		hashMap: make(map[uint64][]byte),
		opts:    opts,
	}
}

type dropDupes struct {
	hashMap   map[uint64][]byte
	hasher    maphash.Hash
	bufPool   []byte
	bufPoolSz int
	opts      DropDupeOpts
}

func (set *dropDupes) Reset() {
	set.bufPoolSz = 0
	for k := range set.hashMap {
		delete(set.hashMap, k)
	}
}

func (set *dropDupes) Close() {
	set.Reset()
	set.hashMap = nil
}

func (set *dropDupes) TryAddGraph(X *Graph) bool {
	var keyBuf [512]byte
	Xkey := []byte(X.ExportTracesLSM(keyBuf[:0], -1))
	if !set.opts.TracesOnly {
		def, err := X.ExportGraphDef()
		if err != nil {
			return false
		}
		Xkey = append(Xkey, def...)
	}

	set.hasher.Reset()
	set.hasher.Write(Xkey)
	hash := set.hasher.Sum64()

	existing, found := set.hashMap[hash]
	for found {
		if bytes.Equal(existing, Xkey) {
			return false
		}
		hash++
		existing, found = set.hashMap[hash]
	}

	// If we've gotten here, it means this is a new entry.
	// Place a copy of the buf in our backing buf (in the heap).
	// If we run out of space in our pool, we start a new pool
	pos := set.bufPoolSz
	itemLen := len(Xkey)
	if pos+itemLen > cap(set.bufPool) {
		allocSz := maxi(set.opts.PoolSz, itemLen)
		set.bufPool = make([]byte, allocSz)
		set.bufPoolSz = 0
		pos = 0
	}

	// Place the backed copy of the graph key buf at the open hash spot
	set.hashMap[hash] = append(set.bufPool[pos:pos], Xkey...)
	set.bufPoolSz += itemLen
	return true
}

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}
