package libramsey

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/ramsey-systems/goramsey/goramsey"
)

type AddGraphOpts struct {
	AutoCloseCatalog bool
}

// GraphStream chains graph pipeline stages, one goroutine per stage.
// A stage owns each Graph it pulls until it pushes or reclaims it.
type GraphStream struct {
	Outlet chan *Graph
}

func NewGraphStream() *GraphStream {
	stream := &GraphStream{
		Outlet: make(chan *Graph),
	}
	return stream
}

// nextStage makes the downstream half of a stage, lightly buffered so a
// stage can finish its current graph while the next stage starts on the prior one.
func nextStage() *GraphStream {
	return &GraphStream{
		Outlet: make(chan *Graph, 1),
	}
}

// StreamGraph returns a stream that emits a copy of X and closes.
func StreamGraph(X *Graph) *GraphStream {
	next := NewGraphStream()

	go func() {
		next.Outlet <- NewGraph(X)
		next.Close()
	}()

	return next
}

// EnumExtensionChains returns a stream of every clique-free coloring
// reachable from the given seed expression by repeated vertex extension.
func EnumExtensionChains(seedExpr string, opts ChainOpts) *GraphStream {
	cw, err := NewChainWalker(seedExpr, opts)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		cw.WalkChains()
	}()

	return cw.ChainStream
}

func (stream *GraphStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *GraphStream) PushGraph(X *Graph) {
	stream.Outlet <- NewGraph(X)
}

func (stream *GraphStream) PullGraph() *Graph {
	return <-stream.Outlet
}

func (stream *GraphStream) PullAll() int {
	count := 0
	for X := range stream.Outlet {
		count++
		X.Reclaim()
	}
	return count
}

// Print writes each passing graph as a one-line CSV record: the label,
// a running ordinal, then the graph per opts.
func (stream *GraphStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *GraphStream {

	next := nextStage()

	go func() {
		var line bytes.Buffer
		line.Grow(256)

		count := 0
		for X := range stream.Outlet {
			count++
			line.Reset()
			line.WriteString(opts.Label)
			fmt.Fprintf(&line, ",%06d,", count)
			X.WriteAsString(&line, opts)
			line.WriteByte('\n')
			out.Write(line.Bytes())
			next.Outlet <- X
		}
		out.Close()
		next.Close()
	}()

	return next
}

// AddTo offers each graph to target, forwarding the ones it accepts.
func (stream *GraphStream) AddTo(target GraphAdder, opts AddGraphOpts) *GraphStream {
	next := nextStage()

	go func() {
		for X := range stream.Outlet {
			if target.TryAddGraph(X) {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		if opts.AutoCloseCatalog {
			target.Close()
		}
		next.Close()
	}()

	return next
}

func SelectFromCatalog(cat Catalog, sel GraphSelector) *GraphStream {
	next := nextStage()

	onHit := make(chan *Graph, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for X := range onHit {
			if sel.AllowGraph(X) {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		next.Close()
	}()

	return next
}

func (stream *GraphStream) SelectFromStream(sel GraphSelector) *GraphStream {
	next := nextStage()

	go func() {
		var matchTraces goramsey.Traces
		if sel.Traces != nil {
			matchTraces = sel.Traces.Traces(-1)
		}
		for X := range stream.Outlet {
			keep := false
			if sel.AllowGraph(X) {
				keep = true
				if len(matchTraces) > 0 {
					TX := X.Traces(len(matchTraces))
					keep = matchTraces.IsEqual(TX)
				}
			}
			if keep {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		next.Close()
	}()

	return next
}

// DropDuplicates drops every graph whose traces have already passed through.
func (stream *GraphStream) DropDuplicates() *GraphStream {
	next := nextStage()

	go func() {
		dupes := NewDropDupes(DropDupeOpts{TracesOnly: true})
		for X := range stream.Outlet {
			if dupes.TryAddGraph(X) {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		dupes.Close()
		next.Close()
	}()

	return next
}

// Extend pushes the successful one-vertex extension of each inbound graph
// downstream, dropping graphs whose search space is exhausted or capped.
func (stream *GraphStream) Extend(opts ExtendOpts) *GraphStream {
	next := nextStage()

	go func() {
		for X := range stream.Outlet {
			XL, result, err := X.Extend(opts)
			if err != nil {
				panic(err)
			}
			if result.Outcome == ExtendFound {
				next.Outlet <- XL
			}
			X.Reclaim()
		}
		next.Close()
	}()

	return next
}

// Census tallies the monochromatic clique census of every inbound graph,
// writing the aggregate to out when the stream closes.
func (stream *GraphStream) Census(cliqueSize int, out io.WriteCloser) *GraphStream {
	next := nextStage()

	go func() {
		cn := NewCensus(cliqueSize)
		for X := range stream.Outlet {
			cn.AddGraph(X)
			next.Outlet <- X
		}
		cn.WriteAsCSV(out)
		out.Close()
		next.Close()
	}()

	return next
}
