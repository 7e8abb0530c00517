package goramsey

const (

	// MaxVtxCount is the max number of vertices in a base graph.
	//
	// Every vertex must be addressable as a bit of a uint64 clique mask, and an
	// extension attempt appends one more vertex at the highest index.
	MaxVtxCount = 63

	// VtxIDBits is the number of bits dedicated for a VtxID.  It must be enough bits to represent MaxVtxCount.
	VtxIDBits byte = 6

	// MaxEdges is the edge count of the largest complete graph possible (after growth by one vertex).
	MaxEdges = (MaxVtxCount + 1) * MaxVtxCount / 2

	// MaxPrefixWidth bounds the filtered prefix of an extension attempt.
	// The filter arena allocates one node per prefix value, so 2^B of them.
	MaxPrefixWidth = 30
)

// VtxID is a zero-based vertex index, identifying a row/column of an adjacency matrix.
// Graph expressions display vertices one-based; everything else in the engine is zero-based.
type VtxID byte

// Color is one of the two edge colors of a complete 2-colored graph.
type Color byte

const (
	Red  Color = 0 // '0' in matrix text, '-' in graph expressions
	Blue Color = 1 // '1' in matrix text, '~' in graph expressions
)

// Invert returns the opposing color.
func (c Color) Invert() Color {
	return c ^ 1
}

// Ascii returns the matrix text cell character for this color.
func (c Color) Ascii() byte {
	return '0' + byte(c)
}

// EdgeRune returns the graph expression edge character for this color.
func (c Color) EdgeRune() byte {
	if c == Red {
		return '-'
	}
	return '~'
}

// Sign returns the signed-matrix weight of this color: +1 for Red, -1 for Blue.
func (c Color) Sign() int64 {
	if c == Red {
		return 1
	}
	return -1
}

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "blue"
}

// Flags stored on a catalog Traces entry (as badger UserMeta).
const (
	// Flag_IsCirculant marks a coloring where color(i,j) depends only on (i-j) mod Nv.
	Flag_IsCirculant byte = 1 << iota

	// Flag_Balanced marks a coloring with equally many red and blue edges.
	Flag_Balanced

	// Flag_HasDuplicate marks a Traces entry with two or more distinct graphs behind it.
	Flag_HasDuplicate
)

// TracesProvider is implemented by anything that can produce a trace spectrum.
type TracesProvider interface {
	VertexCount() int
	Traces(numTraces int) Traces
}

// Traces is a sequence of graph "traces" values: successive power traces of a graph's signed color matrix.
type Traces []int64

// TracesLSM is a LSM binary encoding / symbol of a Traces.
type TracesLSM []byte

// TracesID uniquely identifies a trace spectrum within a catalog.
type TracesID uint64
