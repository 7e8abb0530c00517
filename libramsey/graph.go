package libramsey

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/ramsey-systems/goramsey/goramsey"
)

// NewGraph returns a pooled Graph, deep-copied from Xsrc when non-nil.
func NewGraph(Xsrc *Graph) *Graph {
	X := graphPool.Get().(*Graph)
	X.Init(Xsrc)
	return X
}

// NewGraphFromDef returns a pooled Graph assigned from a GraphDef encoding.
func NewGraphFromDef(graphDef []byte) (*Graph, error) {
	X := graphPool.Get().(*Graph)
	err := X.InitFromDef(graphDef)
	if err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}

// NewGraphFromExpr returns a pooled Graph built from a graph expression.
func NewGraphFromExpr(graphExpr string) (*Graph, error) {
	X := graphPool.Get().(*Graph)
	err := X.InitFromExpr(graphExpr)
	if err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}

// Graph is a 2-edge-colored complete graph plus cached derived state.
type Graph struct {
	mx     Matrix
	traces goramsey.Traces // cached trace spectrum; empty means not yet computed
	scrap  []int64         // matrix power scratch, reused across trace calcs
	next   *Graph          // chain queue link; nil outside a queue
}

func (X *Graph) Init(Xsrc *Graph) {
	if X == Xsrc {
		return
	}

	X.next = nil
	X.onGraphChanged()

	if Xsrc == nil {
		X.mx.SetOrder(0)
		return
	}
	X.mx.CopyFrom(&Xsrc.mx)
	X.traces = append(X.traces[:0], Xsrc.traces...)
}

// onGraphChanged invalidates every cache derived from the matrix.
func (X *Graph) onGraphChanged() {
	X.traces = X.traces[:0]
}

func (X *Graph) VertexCount() int {
	return X.mx.Order()
}

// At returns the color of edge (vi, vj).
func (X *Graph) At(vi, vj int) goramsey.Color {
	return X.mx.At(vi, vj)
}

// SetEdge assigns the color of edge (vi, vj), both triangle halves.
func (X *Graph) SetEdge(vi, vj int, c goramsey.Color) error {
	Nv := X.mx.Order()
	if vi < 0 || vj < 0 || vi >= Nv || vj >= Nv {
		return goramsey.ErrBadVtxID
	}
	if vi == vj {
		return goramsey.ErrBadEdge
	}
	X.mx.Set(vi, vj, c)
	X.onGraphChanged()
	return nil
}

func (X *Graph) GetInfo() GraphInfo {
	reds, blues := X.mx.CountEdges()
	return GraphInfo{
		NumVerts:  byte(X.mx.Order()),
		RedEdges:  reds,
		BlueEdges: blues,
	}
}

// IsCirculant returns true if this coloring is invariant under the cyclic
// vertex shift, i.e. color(i,j) depends only on (i-j) mod order.
func (X *Graph) IsCirculant() bool {
	return X.mx.IsCirculant()
}

// IsBalanced returns true if the red and blue edge counts are equal.
func (X *Graph) IsBalanced() bool {
	reds, blues := X.mx.CountEdges()
	return reds == blues
}

// InitFromMatrixText assigns this graph from the row-major '0'/'1' cell
// stream ReadCells consumes.  The order is supplied, not self-describing.
func (X *Graph) InitFromMatrixText(r io.Reader, order int) error {
	X.onGraphChanged()

	if order < 1 {
		return errors.Wrap(goramsey.ErrBadMatrixInput, "order must be >= 1")
	}
	if order > goramsey.MaxVtxCount+1 {
		return goramsey.ErrGraphTooBig
	}
	X.mx.SetOrder(order)
	return X.mx.ReadCells(r)
}

// WriteMatrixText emits this graph the way InitFromMatrixText consumes it:
// order lines of order '0'/'1' characters.
func (X *Graph) WriteMatrixText(out io.Writer) error {
	return X.mx.WriteCells(out)
}

func (X *Graph) formGraphDef() goramsey.GraphDef {
	Nv := X.mx.Order()
	tri := make([]byte, goramsey.TriBitsLen(Nv))

	b := 0
	for vi := 0; vi < Nv; vi++ {
		for vj := vi + 1; vj < Nv; vj++ {
			if X.mx.At(vi, vj) == goramsey.Blue {
				tri[b>>3] |= 1 << uint(b&7)
			}
			b++
		}
	}
	return goramsey.GraphDef{
		Order:   int32(Nv),
		TriBits: tri,
	}
}

// ExportGraphDef returns this graph's canonical storable encoding.
func (X *Graph) ExportGraphDef() ([]byte, error) {
	def := X.formGraphDef()
	return def.Marshal()
}

// InitFromDef assigns this graph from an encoding made by ExportGraphDef.
func (X *Graph) InitFromDef(graphDef []byte) error {
	X.onGraphChanged()

	var def goramsey.GraphDef
	if err := def.Unmarshal(graphDef); err != nil {
		return errors.Wrap(goramsey.ErrBadEncoding, err.Error())
	}

	order := int(def.Order)
	if order < 1 || order > goramsey.MaxVtxCount+1 {
		return goramsey.ErrBadEncoding
	}
	if len(def.TriBits) < goramsey.TriBitsLen(order) {
		return goramsey.ErrBadEncoding
	}

	X.mx.SetOrder(order)
	b := 0
	for vi := 0; vi < order; vi++ {
		for vj := vi + 1; vj < order; vj++ {
			if def.TriBits[b>>3]&(1<<uint(b&7)) != 0 {
				X.mx.Set(vi, vj, goramsey.Blue)
			}
			b++
		}
	}
	return nil
}

func (X *Graph) Println(prefix string) {
	b := strings.Builder{}
	b.Grow(192)
	b.WriteString(prefix)
	X.WriteAsString(&b, DefaultPrintOpts)
	fmt.Println(b.String())
}

var (
	quote   = []byte("\"")
	comma   = []byte(",")
	tilde   = []byte("~")
	newline = []byte("\n")
)

// PrintOpts specifies what is printed when printing a graph
type PrintOpts struct {
	Label     string // Prefix label
	Graph     bool   // If set, prints the canonical graph expression
	Matrix    bool   // If set, prints the adjacency rows
	NumTraces int    // Num of Traces to print (-1 denotes natural length, 0 denotes no traces)
	Cliques   int    // If > 0, prints the monochromatic clique census up to this size
}

var DefaultPrintOpts = PrintOpts{
	Graph:     true,
	NumTraces: -1,
}

func (X *Graph) WriteAsString(out io.Writer, opts PrintOpts) {
	info := X.GetInfo()
	fmt.Fprintf(out, "v=%d,e=%d+%d,", info.NumVerts, info.RedEdges, info.BlueEdges)

	if opts.Graph {
		X.WriteAsGraphExprStr(out)
	}
	if opts.Matrix {
		X.WriteAsMatrixStr(out)
	}
	if opts.NumTraces != 0 {
		X.WriteTracesAsCSV(out, opts.NumTraces)
	}
	if opts.Cliques > 0 {
		X.WriteCensusAsCSV(out, opts.Cliques)
	}
}

func (X *Graph) WriteTracesAsCSV(out io.Writer, numTraces int) {
	TX := X.Traces(numTraces)

	var buf [24]byte

	for _, TXi := range TX {
		out.Write(PrintInt(buf[:], TXi))
		out.Write(comma)
	}
}

// GraphExpr returns the canonical expression of this coloring, accepted by
// InitFromExpr: "K<order>" plus the blue edges as chained runs.
func (X *Graph) GraphExpr() string {
	b := strings.Builder{}
	b.Grow(64)
	X.writeGraphExpr(&b)
	return b.String()
}

func (X *Graph) WriteAsGraphExprStr(out io.Writer) {
	out.Write(quote)
	X.writeGraphExpr(out)
	out.Write(quote)
	out.Write(comma)
}

func (X *Graph) writeGraphExpr(out io.Writer) {
	Nv := X.mx.Order()
	var buf [8]byte

	out.Write([]byte{'K'})
	out.Write(PrintInt(buf[:], int64(Nv)))

	blues := make([][2]int, 0, 16)
	for vi := 0; vi < Nv; vi++ {
		for vj := vi + 1; vj < Nv; vj++ {
			if X.mx.At(vi, vj) == goramsey.Blue {
				blues = append(blues, [2]int{vi, vj})
			}
		}
	}
	if len(blues) == 0 {
		return
	}
	out.Write([]byte{':'})

	// Print blue edges as runs, chaining onto the previous edge's endpoint
	// where possible: (1,2),(2,3) prints as 1~2~3.
	Ne := len(blues)
	b_prev := -1
	needsBreak := false
	for i := 0; i < Ne; i++ {

		// Look for an edge we can combine
		edge := blues[i]
		if b_prev >= 0 {
			for j := i; j < Ne; j++ {
				if blues[j][0] == b_prev || blues[j][1] == b_prev {
					edge = blues[j]
					blues[j] = blues[i]
					break
				}
			}
		}

		a, b := edge[0], edge[1]
		if b == b_prev {
			a, b = b, a
		}

		// If we can't combine, print a run sep then the first vtx
		if a != b_prev {
			if needsBreak {
				out.Write(comma)
			}
			out.Write(PrintInt(buf[:], int64(a+1)))
		}
		out.Write(tilde)
		out.Write(PrintInt(buf[:], int64(b+1)))
		b_prev = b
		needsBreak = true
	}
}

func (X *Graph) WriteAsMatrixStr(out io.Writer) {
	Nv := X.mx.Order()

	out.Write([]byte("\"{"))
	row := make([]byte, Nv)
	for vi := 0; vi < Nv; vi++ {
		if vi > 0 {
			out.Write(comma)
		}
		for vj := 0; vj < Nv; vj++ {
			row[vj] = X.mx.At(vi, vj).Ascii()
		}
		out.Write(row)
	}
	out.Write([]byte("}\","))
}

// PrintInt prints the given integer in base 10, right justified in the buffer.
// Returns the tight-fitting slice of the output digits (a slice of []dst)
func PrintInt(dst []byte, val int64) []byte {
	sign := int(1)
	if val < 0 {
		sign = -1
		val = -val
	}
	L := len(dst)
	i := L
	for {
		next := val / 10
		digit := val - 10*next
		val = next
		i--
		dst[i] = '0' + byte(digit)
		if val == 0 {
			break
		}
	}
	if sign < 0 {
		i--
		dst[i] = '-'
	}
	return dst[i:]
}

func (X *Graph) Reclaim() {
	if X != nil {
		graphPool.Put(X)
	}
}

var graphPool = sync.Pool{
	New: func() interface{} {
		return new(Graph)
	},
}
