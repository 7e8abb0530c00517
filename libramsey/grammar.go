package libramsey

import (
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"github.com/ramsey-systems/goramsey/goramsey"
)

// Graph expressions name a complete-graph coloring compactly:
//
//	K5                        all-red complete graph on 5 vertices
//	K4:1~2                    4 vertices, edge (1,2) blue, the rest red
//	1~2~3,4~5                 blue runs; the order is the highest vertex named
//	C17/1,2,4,8,9,13,15,16    circulant: order 17, the listed circular
//	                          differences blue (the Paley-17 coloring)
//
// Vertices are one-based in expressions and only there.  '-' colors an edge
// red, '~' blue; unnamed edges default to red.  Naming an edge twice with
// conflicting colors is an error.
type GraphExpr struct {
	Head *HeadTag   `(@@ ":"?)?`
	Runs []*EdgeRun `(@@ ("," @@)*)?`
}

type HeadTag struct {
	Tag   string  `@Ident`
	Diffs []int64 `("/" @Int ("," @Int)*)?`
}

type EdgeRun struct {
	StartVtx *Vtx       `@@`
	Edges    []*EdgeDst `@@+`
}

type EdgeDst struct {
	Kind   string `@("-" | "~")`
	EndVtx *Vtx   `@@`
}

type Vtx struct {
	ID int64 `@Int`
}

var parseGraphExpr = participle.MustBuild[GraphExpr]()

// InitFromExpr assigns this graph from a graph expression.
func (X *Graph) InitFromExpr(graphExpr string) error {
	X.Init(nil)

	Xexpr, err := parseGraphExpr.ParseString("", graphExpr)
	if err != nil {
		return errors.Wrap(goramsey.ErrBadGraphExpr, err.Error())
	}

	var Xb exprBuilder
	if Xexpr.Head != nil {
		if err = Xb.applyHead(Xexpr.Head); err != nil {
			return err
		}
	}
	for _, run := range Xexpr.Runs {
		if err = Xb.applyRun(run); err != nil {
			return err
		}
	}
	return Xb.buildInto(X)
}

type exprEdge struct {
	vi, vj goramsey.VtxID
	color  goramsey.Color
}

// exprBuilder accumulates a parsed expression before committing it to a
// Graph, so a bad expression never leaves a half-assigned matrix behind.
type exprBuilder struct {
	order   int
	headSet bool // order was fixed by a head tag
	diffs   []int64
	edges   []exprEdge
}

func (Xb *exprBuilder) applyHead(head *HeadTag) error {
	tag := head.Tag
	if len(tag) < 2 {
		return errors.Wrapf(goramsey.ErrBadGraphExpr, "unrecognized head %q", tag)
	}

	order := 0
	for _, r := range tag[1:] {
		if r < '0' || r > '9' {
			return errors.Wrapf(goramsey.ErrBadGraphExpr, "unrecognized head %q", tag)
		}
		order = order*10 + int(r-'0')
	}
	if order < 1 || order > goramsey.MaxVtxCount+1 {
		return errors.Wrapf(goramsey.ErrBadGraphExpr, "order %d out of range", order)
	}

	switch tag[0] {
	case 'K':
		if len(head.Diffs) > 0 {
			return errors.Wrap(goramsey.ErrBadGraphExpr, "a K head takes no differences")
		}
	case 'C':
		for _, d := range head.Diffs {
			if d < 1 || d >= int64(order) {
				return errors.Wrapf(goramsey.ErrBadGraphExpr, "difference %d out of range for order %d", d, order)
			}
		}
		Xb.diffs = head.Diffs
	default:
		return errors.Wrapf(goramsey.ErrBadGraphExpr, "unrecognized head %q", tag)
	}

	Xb.order = order
	Xb.headSet = true
	return nil
}

func (Xb *exprBuilder) tallyVtx(vtx *Vtx) (goramsey.VtxID, error) {
	if vtx.ID < 1 || vtx.ID > goramsey.MaxVtxCount+1 {
		return 0, goramsey.ErrBadVtxID
	}
	vi := goramsey.VtxID(vtx.ID - 1)
	if Xb.headSet {
		if int(vi) >= Xb.order {
			return 0, errors.Wrapf(goramsey.ErrBadVtxID, "vertex %d exceeds head order %d", vtx.ID, Xb.order)
		}
	} else if int(vi)+1 > Xb.order {
		Xb.order = int(vi) + 1
	}
	return vi, nil
}

func (Xb *exprBuilder) applyRun(run *EdgeRun) error {
	onVtx, err := Xb.tallyVtx(run.StartVtx)
	if err != nil {
		return err
	}
	for _, edge := range run.Edges {
		c := goramsey.Red
		if edge.Kind == "~" {
			c = goramsey.Blue
		}
		nextVtx, err := Xb.tallyVtx(edge.EndVtx)
		if err != nil {
			return err
		}
		if nextVtx == onVtx {
			return goramsey.ErrBadEdge
		}
		Xb.edges = append(Xb.edges, exprEdge{
			vi:    onVtx,
			vj:    nextVtx,
			color: c,
		})
		onVtx = nextVtx
	}
	return nil
}

func (Xb *exprBuilder) buildInto(X *Graph) error {
	if Xb.order < 1 {
		return errors.Wrap(goramsey.ErrBadGraphExpr, "expression names no vertices")
	}
	X.mx.SetOrder(Xb.order)

	// Circulant base coloring first; explicit edges override it.
	for _, d := range Xb.diffs {
		for vi := 0; vi < Xb.order; vi++ {
			X.mx.Set(vi, (vi+int(d))%Xb.order, goramsey.Blue)
		}
	}

	seen := make(map[uint16]goramsey.Color, len(Xb.edges))
	for _, e := range Xb.edges {
		vi, vj := e.vi, e.vj
		if vi > vj {
			vi, vj = vj, vi
		}
		key := uint16(vi)<<8 | uint16(vj)
		if prev, exists := seen[key]; exists && prev != e.color {
			return errors.Wrapf(goramsey.ErrBadGraphExpr, "edge %d%c%d conflicts with an earlier coloring",
				vi+1, e.color.EdgeRune(), vj+1)
		}
		seen[key] = e.color
		X.mx.Set(int(vi), int(vj), e.color)
	}
	return nil
}
