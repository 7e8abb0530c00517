package catalog_test

import (
	"testing"

	"github.com/ramsey-systems/goramsey/libramsey"
	"github.com/ramsey-systems/goramsey/libramsey/catalog"
)

func graph(t *testing.T, expr string) *libramsey.Graph {
	X, err := libramsey.NewGraphFromExpr(expr)
	if err != nil {
		t.Fatalf("%s: %v", expr, err)
	}
	return X
}

func openMem(t *testing.T, ctx libramsey.CatalogContext, opts libramsey.CatalogOpts) libramsey.Catalog {
	cat, err := catalog.OpenCatalog(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestCatalogAddAndCount(t *testing.T) {
	ctx := libramsey.NewCatalogContext()
	cat := openMem(t, ctx, libramsey.CatalogOpts{})

	pentagon := graph(t, "C5/1")
	K5 := graph(t, "K5")
	defer pentagon.Reclaim()
	defer K5.Reclaim()

	if !cat.TryAddGraph(pentagon) {
		t.Fatal("first add must be accepted")
	}
	if cat.TryAddGraph(pentagon) {
		t.Fatal("re-add must be dropped")
	}
	if !cat.TryAddGraph(K5) {
		t.Fatal("a distinct coloring must be accepted")
	}

	if n := cat.NumTraces(5); n != 2 {
		t.Fatalf("%d spectra at order 5", n)
	}
	if n := cat.NumGraphs(5); n != 2 {
		t.Fatalf("%d graphs at order 5", n)
	}
	if cat.NumTraces(0) != 0 || cat.NumGraphs(200) != 0 {
		t.Fatal("out-of-range orders count zero")
	}

	cat.Close()
	ctx.Close()
	<-ctx.Done()
}

// Red and blue K2 share traces; the catalog files both colorings under one
// spectrum header.
func TestCatalogTracesCollision(t *testing.T) {
	ctx := libramsey.NewCatalogContext()
	cat := openMem(t, ctx, libramsey.CatalogOpts{})

	redK2 := graph(t, "K2")
	blueK2 := graph(t, "K2:1~2")
	defer redK2.Reclaim()
	defer blueK2.Reclaim()

	if !cat.TryAddGraph(redK2) || !cat.TryAddGraph(blueK2) {
		t.Fatal("both colorings must be accepted")
	}
	if cat.NumTraces(2) != 1 || cat.NumGraphs(2) != 2 {
		t.Fatalf("%d spectra over %d graphs", cat.NumTraces(2), cat.NumGraphs(2))
	}

	// Full select sees both; unique-traces select sees one per spectrum.
	sel := libramsey.DefaultGraphSelector
	if n := libramsey.SelectFromCatalog(cat, sel).PullAll(); n != 2 {
		t.Fatalf("selected %d", n)
	}
	sel.UniqueTraces = true
	if n := libramsey.SelectFromCatalog(cat, sel).PullAll(); n != 1 {
		t.Fatalf("unique-traces selected %d", n)
	}

	// A traces selector pulls every coloring filed under the spectrum.
	sel = libramsey.DefaultGraphSelector
	sel.Traces = redK2
	if n := libramsey.SelectFromCatalog(cat, sel).PullAll(); n != 2 {
		t.Fatalf("traces select found %d", n)
	}

	cat.Close()
	ctx.Close()
	<-ctx.Done()
}

func TestCatalogSelectBounds(t *testing.T) {
	ctx := libramsey.NewCatalogContext()
	cat := openMem(t, ctx, libramsey.CatalogOpts{})

	for _, expr := range []string{"K2", "K3:1~2", "C5/1", "K5"} {
		X := graph(t, expr)
		if !cat.TryAddGraph(X) {
			t.Fatalf("%s must be accepted", expr)
		}
		X.Reclaim()
	}

	sel := libramsey.DefaultGraphSelector
	sel.Min.NumVerts = 5
	sel.Max.NumVerts = 5
	count := 0
	for X := range libramsey.SelectFromCatalog(cat, sel).Outlet {
		if X.VertexCount() != 5 {
			t.Fatalf("selected order %d", X.VertexCount())
		}
		count++
		X.Reclaim()
	}
	if count != 2 {
		t.Fatalf("selected %d at order 5", count)
	}

	// Balanced excludes the all-red K5.
	sel.SelectBalanced = true
	if n := libramsey.SelectFromCatalog(cat, sel).PullAll(); n != 1 {
		t.Fatalf("balanced select found %d", n)
	}

	cat.Close()
	ctx.Close()
	<-ctx.Done()
}

// A certified catalog refuses any coloring carrying a mono clique of its K.
func TestCatalogCertification(t *testing.T) {
	ctx := libramsey.NewCatalogContext()
	cat := openMem(t, ctx, libramsey.CatalogOpts{CliqueSize: 3})

	if cat.CliqueSize() != 3 {
		t.Fatalf("certifies %d", cat.CliqueSize())
	}

	K3 := graph(t, "K3")
	pentagon := graph(t, "C5/1")
	defer K3.Reclaim()
	defer pentagon.Reclaim()

	if cat.TryAddGraph(K3) {
		t.Fatal("an all-red triangle must be refused")
	}
	if !cat.TryAddGraph(pentagon) {
		t.Fatal("a triangle-free coloring must be accepted")
	}
	if cat.NumGraphs(3) != 0 || cat.NumGraphs(5) != 1 {
		t.Fatal("refused graphs must not be counted")
	}

	cat.Close()
	ctx.Close()
	<-ctx.Done()
}

func TestCatalogPersistence(t *testing.T) {
	dbPath := t.TempDir()
	ctx := libramsey.NewCatalogContext()

	cat := openMem(t, ctx, libramsey.CatalogOpts{DbPathName: dbPath, CliqueSize: 3})
	pentagon := graph(t, "C5/1")
	defer pentagon.Reclaim()
	if !cat.TryAddGraph(pentagon) {
		t.Fatal("add must be accepted")
	}
	cat.Close()

	// Counts and certification survive a reopen.
	cat = openMem(t, ctx, libramsey.CatalogOpts{DbPathName: dbPath})
	if cat.NumGraphs(5) != 1 || cat.NumTraces(5) != 1 {
		t.Fatal("counts must persist")
	}
	if cat.CliqueSize() != 3 || cat.TraceCount() != 12 {
		t.Fatalf("state reloaded as K=%d traces=%d", cat.CliqueSize(), cat.TraceCount())
	}
	if cat.TryAddGraph(pentagon) {
		t.Fatal("the persisted coloring must still dedupe")
	}
	cat.Close()

	// Read-only mode refuses writes.
	cat = openMem(t, ctx, libramsey.CatalogOpts{DbPathName: dbPath, ReadOnly: true})
	if !cat.IsReadOnly() {
		t.Fatal("catalog must report read-only")
	}
	K5 := graph(t, "K5")
	defer K5.Reclaim()
	if cat.TryAddGraph(K5) {
		t.Fatal("a read-only catalog must refuse writes")
	}
	cat.Close()

	// Conflicting open params are rejected.
	if _, err := catalog.OpenCatalog(ctx, libramsey.CatalogOpts{DbPathName: dbPath, CliqueSize: 4}); err == nil {
		t.Fatal("mismatched certification must be rejected")
	}
	if _, err := catalog.OpenCatalog(ctx, libramsey.CatalogOpts{DbPathName: dbPath, TraceCount: 20}); err == nil {
		t.Fatal("a trace count above the catalog's must be rejected")
	}

	ctx.Close()
	<-ctx.Done()
}

func TestCatalogOpenErrors(t *testing.T) {
	ctx := libramsey.NewCatalogContext()

	if _, err := catalog.OpenCatalog(ctx, libramsey.CatalogOpts{ReadOnly: true}); err == nil {
		t.Fatal("read-only needs a db path")
	}

	ctx.Close()
	<-ctx.Done()
}

func TestCatalogContextClose(t *testing.T) {
	ctx := libramsey.NewCatalogContext()
	openMem(t, ctx, libramsey.CatalogOpts{})
	openMem(t, ctx, libramsey.CatalogOpts{})

	// Context close sweeps every attached catalog.
	ctx.Close()
	<-ctx.Done()
}
