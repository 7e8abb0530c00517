package libramsey

import (
	"sync/atomic"

	"github.com/arcspace/go-arc-sdk/stdlib/symbol"
	"github.com/arcspace/go-arc-sdk/stdlib/symbol/memory_table"
	"github.com/pkg/errors"

	"github.com/ramsey-systems/goramsey/goramsey"
)

// ChainOpts parameterizes a chain walk: a breadth-first enumeration of the
// clique-free colorings reachable from a seed by repeated vertex extension.
type ChainOpts struct {
	VertexMax int        // stop growing chains at this order
	Extend    ExtendOpts // per-level extension search params
	MaxForks  int        // children kept per graph; 0 means every surviving row forks
}

var DefaultChainOpts = ChainOpts{
	VertexMax: 8,
	Extend:    DefaultExtendOpts,
}

// ChainWalker grows extension chains breadth-first, one order at a time,
// interning each emitted trace spectrum so an order's duplicates collapse.
type ChainWalker struct {
	ChainStream *GraphStream

	opts      ChainOpts
	forkCount atomic.Uint64
	emitted   symbol.Table

	walkingVertex int        // graph order currently being walked
	walkingQueue  graphQueue // queue to process for the current order
	deferredQueue graphQueue // queue to process for the next order
}

func NewChainWalker(seedExpr string, opts ChainOpts) (*ChainWalker, error) {
	seed, err := NewGraphFromExpr(seedExpr)
	if err != nil {
		return nil, err
	}

	order := seed.VertexCount()
	if err = opts.Extend.validate(order); err != nil {
		seed.Reclaim()
		return nil, err
	}
	if opts.VertexMax > goramsey.MaxVtxCount+1 {
		opts.VertexMax = goramsey.MaxVtxCount + 1
	}
	if seed.HasMonoClique(opts.Extend.CliqueSize) {
		seed.Reclaim()
		return nil, errors.Wrapf(goramsey.ErrSeedHasClique, "seed %q", seedExpr)
	}

	tableOpts := memory_table.DefaultOpts()
	emitted, err := tableOpts.CreateTable()
	if err != nil {
		seed.Reclaim()
		return nil, err
	}

	cw := &ChainWalker{
		opts:          opts,
		walkingVertex: order,
		emitted:       emitted,
		ChainStream: &GraphStream{
			Outlet: make(chan *Graph, 1),
		},
	}

	cw.isUnique(seed) // intern the seed so a chain can't re-emit it
	cw.walkingQueue.Enqueue(seed)

	return cw, nil
}

// WalkChains drains the walk, emitting each unique graph to ChainStream.
// It runs until every chain reaches VertexMax or dies out, then closes the
// stream.  Call it from its own goroutine.
func (cw *ChainWalker) WalkChains() {
	for X := cw.dequeueNext(); X != nil; X = cw.dequeueNext() {
		if X.VertexCount() < cw.opts.VertexMax {
			cw.forkExtensions(X)
		}

		// after emitting all possible forks, emit for archival
		cw.ChainStream.Outlet <- X
	}

	cw.ChainStream.Close()
}

// forkExtensions enqueues a child for each surviving coloring of a new
// vertex on X, up to the fork budget.
func (cw *ChainWalker) forkExtensions(X *Graph) {
	forks := 0
	_, err := X.ForEachExtension(cw.opts.Extend, func(row uint64) bool {
		cw.tryEmitFork(X, row)
		forks++
		return cw.opts.MaxForks == 0 || forks < cw.opts.MaxForks
	})
	if err != nil {
		// opts were validated against the seed and orders only grow toward
		// VertexMax, so the search itself can't reject them.
		panic(err)
	}
}

func (cw *ChainWalker) tryEmitFork(X0 *Graph, row uint64) {
	X := extendWithRow(X0, row)
	if !cw.isUnique(X) {
		X.Reclaim()
		return
	}
	cw.forkCount.Add(1)
	cw.deferredQueue.Enqueue(X)
}

// ForkCount returns how many unique forks the walk has emitted so far.
func (cw *ChainWalker) ForkCount() uint64 {
	return cw.forkCount.Load()
}

// isUnique interns X's trace spectrum, returning true the first time it is seen.
func (cw *ChainWalker) isUnique(X *Graph) bool {
	var scrap [128]byte
	sym := []byte(X.ExportTracesLSM(scrap[:0], -1))
	if cw.emitted.GetSymbolID(sym, false) != 0 {
		return false
	}
	cw.emitted.GetSymbolID(sym, true)
	return true
}

func (cw *ChainWalker) dequeueNext() *Graph {
	if cw.walkingQueue.Count == 0 && cw.deferredQueue.Count > 0 {
		cw.walkingVertex++
		cw.deferredQueue, cw.walkingQueue = cw.walkingQueue, cw.deferredQueue
	}
	return cw.walkingQueue.Dequeue()
}

// extendWithRow returns a new pooled Graph: Xsrc grown by one vertex whose
// edge colors are the given row bits.
func extendWithRow(Xsrc *Graph, row uint64) *Graph {
	X := NewGraph(nil)
	X.mx = Xsrc.mx.Grow()

	newVtx := Xsrc.VertexCount()
	writeRow(&X.mx, newVtx, row)
	X.mx.MirrorRow(newVtx)
	X.onGraphChanged()
	return X
}

type graphQueue struct {
	Head  *Graph
	Tail  *Graph
	Count int
}

func (queue *graphQueue) Enqueue(X *Graph) {
	X.next = nil
	if queue.Tail != nil {
		queue.Tail.next = X
	}
	queue.Tail = X
	if queue.Head == nil {
		queue.Head = X
	}
	queue.Count++
}

func (queue *graphQueue) Dequeue() *Graph {
	X := queue.Head
	if X == nil {
		return nil
	}
	queue.Head = X.next
	X.next = nil
	if queue.Tail == X {
		queue.Tail = nil
	}
	queue.Count--
	return X
}
