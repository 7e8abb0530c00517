package libramsey

import (
	"sync"

	"github.com/go-python/gpython/py"

	"github.com/ramsey-systems/goramsey/goramsey"
)

var (
	LIB_VERSION = "v1.2026.1"
)

// OnGraphHit conveys each selected Graph back to the caller.
// Ownership of a Graph travels with it.
type OnGraphHit chan<- *Graph

// CatalogContext tracks the catalogs a host has open so they can be wound down as a group.
type CatalogContext interface {

	// Registers cat as open under this context.
	AttachCatalog(cat Catalog)

	// Removes cat from this context once it has closed.
	DetachCatalog(cat Catalog)

	// Begins shutdown, closing every attached Catalog.
	Close()

	// Closed once Close() has been called; attached Catalogs should wind down.
	Closing() <-chan struct{}

	// Closed once shutdown is complete and no Catalog remains open.
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a Catalog
type CatalogOpts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
	TraceCount int32  // min trace spectrum length the catalog must support
	CliqueSize int32  // the K this catalog certifies its entries free of (0 denotes no certification)
}

// GraphAdder accepts graphs, deduping as it sees fit.
type GraphAdder interface {
	TryAddGraph(X *Graph) bool
	Close()
}

// Catalog wraps a database of graph encodings keyed by trace spectrum.
//
// A catalog opened with CliqueSize > 0 only admits graphs having no
// monochromatic clique of that size.
type Catalog interface {
	GraphAdder

	// IsReadOnly returns whether mutation is refused on this catalog.
	IsReadOnly() bool

	// TraceCount is the trace spectrum length this catalog declares support for.
	TraceCount() int

	// CliqueSize returns the K this catalog certifies its entries free of (0 if none).
	CliqueSize() int

	// NumTraces returns the number of unique trace spectra in this catalog for a given vertex count.
	// An out of range vertex count returns 0.
	NumTraces(forVtxCount byte) int64

	// NumGraphs returns the number of distinct graphs in this catalog for a given vertex count.
	// An out of range vertex count returns 0.
	NumGraphs(forVtxCount byte) int64

	// Type exposes this catalog to gpython.
	Type() *py.Type

	// Select pushes each Graph meeting the selection criteria to onHit.
	Select(sel GraphSelector, onHit OnGraphHit)
}

// GraphInfo summarizes a colored complete graph.
type GraphInfo struct {
	NumVerts  byte
	RedEdges  uint16
	BlueEdges uint16
}

// DefaultGraphSelector selects all valid graphs.
var DefaultGraphSelector = GraphSelector{
	Min: GraphInfo{
		NumVerts: 1,
	},
	Max: GraphInfo{
		NumVerts:  goramsey.MaxVtxCount + 1,
		RedEdges:  goramsey.MaxEdges,
		BlueEdges: goramsey.MaxEdges,
	},
}

// GraphSelector expresses which graphs a catalog Select or stream filter should pass.
type GraphSelector struct {
	Traces          *Graph    // Implies a trace spectrum to match
	UniqueTraces    bool      // Only select the first Graph for each unique traces
	SelectCirculant bool      // Only select circulant colorings
	SelectBalanced  bool      // Only select colorings with equal red and blue edge counts
	Min             GraphInfo // lower select bounds
	Max             GraphInfo // upper select bounds
}

// AllowGraph returns whether X meets every criterion of this selector.
func (sel *GraphSelector) AllowGraph(X *Graph) bool {
	info := X.GetInfo()
	if info.NumVerts < sel.Min.NumVerts || info.RedEdges < sel.Min.RedEdges || info.BlueEdges < sel.Min.BlueEdges {
		return false
	}
	if info.NumVerts > sel.Max.NumVerts || info.RedEdges > sel.Max.RedEdges || info.BlueEdges > sel.Max.BlueEdges {
		return false
	}
	if sel.SelectCirculant && !X.IsCirculant() {
		return false
	}
	if sel.SelectBalanced && info.RedEdges != info.BlueEdges {
		return false
	}
	return true
}

func NewCatalogContext() CatalogContext {
	ctx := &catalogContext{
		attached: make(map[Catalog]struct{}),
		closing:  make(chan struct{}),
		closed:   make(chan struct{}),
	}

	// The base count holds Done() open until Close() is called, after which
	// only still-attached catalogs keep it open.
	ctx.openCount.Add(1)
	go func() {
		<-ctx.Closing()
		ctx.openCount.Done()
		ctx.openCount.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type catalogContext struct {
	mu        sync.Mutex
	openCount sync.WaitGroup
	attached  map[Catalog]struct{}
	closing   chan struct{}
	closed    chan struct{}
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.openCount.Add(1)

	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.attached[cat] = struct{}{}
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if _, open := ctx.attached[cat]; open {
		delete(ctx.attached, cat)
		ctx.openCount.Done()
	}
}

func (ctx *catalogContext) Closing() <-chan struct{} {
	return ctx.closing
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *catalogContext) Close() {
	close(ctx.closing)

	ctx.mu.Lock()
	stillOpen := make([]Catalog, 0, len(ctx.attached))
	for cat := range ctx.attached {
		stillOpen = append(stillOpen, cat)
	}
	ctx.mu.Unlock()

	for _, cat := range stillOpen {
		go cat.Close()
	}
}
