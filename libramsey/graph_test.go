package libramsey_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ramsey-systems/goramsey/goramsey"
	"github.com/ramsey-systems/goramsey/libramsey"
)

var exprTable = []string{
	"K1",
	"K2",
	"K2:1~2",
	"K3:1~2",
	"K5",
	"C5/1",
	"K4:1~2~3~4",
	"K6:1~2~3,4~5",
	"C17/1,2,4,8,9,13,15,16",
}

func parse(t *testing.T, expr string) *libramsey.Graph {
	X, err := libramsey.NewGraphFromExpr(expr)
	if err != nil {
		t.Fatalf("%s: %v", expr, err)
	}
	return X
}

// The canonical expression of every coloring must re-parse to the same
// coloring, and canonicalizing twice must be a fixed point.
func TestGraphExprRoundTrip(t *testing.T) {
	for _, expr := range exprTable {
		X := parse(t, expr)
		canonic := X.GraphExpr()

		X2 := parse(t, canonic)
		if X2.GraphExpr() != canonic {
			t.Errorf("%s: canonic form %q re-canonicalized to %q", expr, canonic, X2.GraphExpr())
		}
		if !X.Traces(-1).IsEqual(X2.Traces(-1)) {
			t.Errorf("%s: canonic form %q is a different coloring", expr, canonic)
		}
		X2.Reclaim()
		X.Reclaim()
	}
}

func TestGraphDefRoundTrip(t *testing.T) {
	for _, expr := range exprTable {
		X := parse(t, expr)

		def, err := X.ExportGraphDef()
		if err != nil {
			t.Fatalf("%s: %v", expr, err)
		}
		X2, err := libramsey.NewGraphFromDef(def)
		if err != nil {
			t.Fatalf("%s: %v", expr, err)
		}
		if X2.GraphExpr() != X.GraphExpr() {
			t.Errorf("%s: decoded as %q", expr, X2.GraphExpr())
		}
		if !X.Traces(-1).IsEqual(X2.Traces(-1)) {
			t.Errorf("%s: decode changed the coloring", expr)
		}
		X2.Reclaim()
		X.Reclaim()
	}
}

func TestMatrixTextRoundTrip(t *testing.T) {
	for _, expr := range exprTable {
		X := parse(t, expr)

		var b bytes.Buffer
		if err := X.WriteMatrixText(&b); err != nil {
			t.Fatalf("%s: %v", expr, err)
		}

		X2 := libramsey.NewGraph(nil)
		if err := X2.InitFromMatrixText(&b, X.VertexCount()); err != nil {
			t.Fatalf("%s: %v", expr, err)
		}
		if X2.GraphExpr() != X.GraphExpr() {
			t.Errorf("%s: matrix text read back as %q", expr, X2.GraphExpr())
		}
		X2.Reclaim()
		X.Reclaim()
	}
}

func TestGraphInfo(t *testing.T) {
	pentagon := parse(t, "C5/1")
	info := pentagon.GetInfo()
	if info.NumVerts != 5 || info.RedEdges != 5 || info.BlueEdges != 5 {
		t.Fatalf("pentagon info %+v", info)
	}
	if !pentagon.IsBalanced() || !pentagon.IsCirculant() {
		t.Fatal("pentagon is balanced and circulant")
	}
	pentagon.Reclaim()

	path := parse(t, "K4:1~2~3~4")
	info = path.GetInfo()
	if info.NumVerts != 4 || info.RedEdges != 3 || info.BlueEdges != 3 {
		t.Fatalf("path info %+v", info)
	}
	if !path.IsBalanced() || path.IsCirculant() {
		t.Fatal("the blue path on K4 is balanced but not circulant")
	}
	path.Reclaim()

	K5 := parse(t, "K5")
	info = K5.GetInfo()
	if info.NumVerts != 5 || info.RedEdges != 10 || info.BlueEdges != 0 {
		t.Fatalf("K5 info %+v", info)
	}
	if K5.IsBalanced() || !K5.IsCirculant() {
		t.Fatal("an all-red coloring is circulant and unbalanced")
	}
	K5.Reclaim()
}

func TestGraphExprErrors(t *testing.T) {
	bads := []string{
		"",
		"K",
		"K0",
		"K70",
		"X5",
		"K5/1,2",
		"C5/0",
		"C5/5",
		"K2:1-1",
		"K3:1-7",
		"K3:1~2,1-2",
	}
	for _, expr := range bads {
		if X, err := libramsey.NewGraphFromExpr(expr); err == nil {
			t.Errorf("%q must be rejected, got %q", expr, X.GraphExpr())
			X.Reclaim()
		}
	}
}

func TestSetEdge(t *testing.T) {
	X := parse(t, "K3")
	defer X.Reclaim()

	before := append(goramsey.Traces{}, X.Traces(-1)...)

	if err := X.SetEdge(0, 1, goramsey.Blue); err != nil {
		t.Fatal(err)
	}
	if X.At(0, 1) != goramsey.Blue || X.At(1, 0) != goramsey.Blue {
		t.Fatal("edge flip must land on both triangle halves")
	}
	info := X.GetInfo()
	if info.RedEdges != 2 || info.BlueEdges != 1 {
		t.Fatalf("info %+v after flip", info)
	}
	if before.IsEqual(X.Traces(-1)) {
		t.Fatal("flipping an edge must change the trace spectrum")
	}

	if err := X.SetEdge(0, 0, goramsey.Blue); err == nil {
		t.Fatal("self edge must be rejected")
	}
	if err := X.SetEdge(0, 3, goramsey.Blue); err == nil {
		t.Fatal("vertex out of range must be rejected")
	}
	if err := X.SetEdge(-1, 1, goramsey.Blue); err == nil {
		t.Fatal("negative vertex must be rejected")
	}
}

func TestMatrixTextErrors(t *testing.T) {
	X := libramsey.NewGraph(nil)
	defer X.Reclaim()

	if err := X.InitFromMatrixText(strings.NewReader("010"), 0); err == nil {
		t.Fatal("order 0 must be rejected")
	}
	if err := X.InitFromMatrixText(strings.NewReader(""), goramsey.MaxVtxCount+2); err == nil {
		t.Fatal("order above the vertex cap must be rejected")
	}
	if err := X.InitFromMatrixText(strings.NewReader("0110"), 3); err == nil {
		t.Fatal("a short cell stream must be rejected")
	}
}
