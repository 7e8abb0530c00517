package libramsey_test

import (
	"strings"
	"testing"

	"github.com/ramsey-systems/goramsey/libramsey"
)

// captureBuf is an io.WriteCloser over a string for stream stages that own
// their output sink.
type captureBuf struct {
	strings.Builder
	closed bool
}

func (b *captureBuf) Close() error {
	b.closed = true
	return nil
}

func TestStreamGraph(t *testing.T) {
	X := parse(t, "C5/1")
	stream := libramsey.StreamGraph(X)

	Xout := stream.PullGraph()
	if Xout.GraphExpr() != X.GraphExpr() {
		t.Fatalf("pulled %q", Xout.GraphExpr())
	}
	Xout.Reclaim()
	X.Reclaim()

	if n := stream.PullAll(); n != 0 {
		t.Fatalf("%d graphs after the close", n)
	}
}

func TestStreamPrint(t *testing.T) {
	X := parse(t, "K4:1~2~3~4")
	defer X.Reclaim()

	out := &captureBuf{}
	n := libramsey.StreamGraph(X).Print(out, libramsey.PrintOpts{
		Label: "path",
		Graph: true,
	}).PullAll()

	if n != 1 {
		t.Fatalf("%d graphs through the print stage", n)
	}
	if !out.closed {
		t.Fatal("the print stage must close its sink")
	}
	want := "path,000001,v=4,e=3+3,\"K4:1~2~3~4\",\n"
	if out.String() != want {
		t.Fatalf("printed %q", out.String())
	}
}

func TestStreamExtend(t *testing.T) {
	X := parse(t, "K4:1~2~3~4")
	defer X.Reclaim()

	stream := libramsey.StreamGraph(X).Extend(libramsey.DefaultExtendOpts)
	XL := stream.PullGraph()
	if XL == nil || XL.VertexCount() != 5 {
		t.Fatal("the path coloring must extend")
	}
	if XL.HasMonoClique(3) {
		t.Fatal("extension carries a mono triangle")
	}
	XL.Reclaim()
	stream.PullAll()

	// The pentagon is maximal, so the stage drops it.
	pentagon := parse(t, "C5/1")
	defer pentagon.Reclaim()
	if n := libramsey.StreamGraph(pentagon).Extend(libramsey.DefaultExtendOpts).PullAll(); n != 0 {
		t.Fatalf("%d extensions of a maximal coloring", n)
	}
}

func TestStreamSelect(t *testing.T) {
	opts := libramsey.DefaultChainOpts
	opts.VertexMax = 4

	sel := libramsey.DefaultGraphSelector
	sel.Min.NumVerts = 4

	stream := libramsey.EnumExtensionChains("K1", opts).SelectFromStream(sel)
	count := 0
	for X := range stream.Outlet {
		if X.VertexCount() != 4 {
			t.Fatalf("selected order %d", X.VertexCount())
		}
		count++
		X.Reclaim()
	}
	if count < 1 {
		t.Fatal("no order-4 graphs selected")
	}
}

func TestStreamSelectByTraces(t *testing.T) {
	match := parse(t, "K2")
	defer match.Reclaim()

	sel := libramsey.DefaultGraphSelector
	sel.Traces = match

	src := libramsey.NewGraphStream()
	go func() {
		for _, expr := range []string{"K1", "K2", "K2:1~2", "K3:1~2"} {
			X := parse(t, expr)
			src.PushGraph(X)
			X.Reclaim()
		}
		src.Close()
	}()

	// Both colorings of K2 share the matched spectrum.
	if n := src.SelectFromStream(sel).PullAll(); n != 2 {
		t.Fatalf("%d trace matches", n)
	}
}

func TestStreamAddTo(t *testing.T) {
	src := libramsey.NewGraphStream()
	go func() {
		for _, expr := range []string{"K2", "K2", "K2:1~2", "C5/1"} {
			X := parse(t, expr)
			src.PushGraph(X)
			X.Reclaim()
		}
		src.Close()
	}()

	// Only graphs the adder accepts go downstream.
	set := libramsey.NewDropDupes(libramsey.DropDupeOpts{})
	n := src.AddTo(set, libramsey.AddGraphOpts{AutoCloseCatalog: true}).PullAll()
	if n != 3 {
		t.Fatalf("%d graphs added", n)
	}
}

func TestStreamCensus(t *testing.T) {
	src := libramsey.NewGraphStream()
	go func() {
		for _, expr := range []string{"C5/1", "K5", "C5/1"} {
			X := parse(t, expr)
			src.PushGraph(X)
			X.Reclaim()
		}
		src.Close()
	}()

	out := &captureBuf{}
	if n := src.Census(3, out).PullAll(); n != 3 {
		t.Fatalf("%d graphs through the census stage", n)
	}
	if !out.closed {
		t.Fatal("the census stage must close its sink")
	}
	want := "graphs=3,profiles=2\n" +
		"2,clique-free,\n" +
		"1,k3=10+0,\n"
	if out.String() != want {
		t.Fatalf("census csv:\n%s", out.String())
	}
}

func TestStreamDropDuplicates(t *testing.T) {
	src := libramsey.NewGraphStream()
	go func() {
		// Red and blue K2 share traces; the stage keeps only the first.
		for _, expr := range []string{"K2", "K2:1~2", "K3:1~2", "K3:1~2"} {
			X := parse(t, expr)
			src.PushGraph(X)
			X.Reclaim()
		}
		src.Close()
	}()

	if n := src.DropDuplicates().PullAll(); n != 2 {
		t.Fatalf("%d unique spectra", n)
	}
}
