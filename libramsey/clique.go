package libramsey

import (
	"github.com/ramsey-systems/goramsey/goramsey"
)

// comboStepper enumerates all strictly increasing n-tuples over [0, order) in
// lexicographic order: the rightmost marker that can advance by one without
// colliding with its right neighbor (or running past order-1) advances, and
// every marker to its right resets to the consecutive values just after it.
type comboStepper struct {
	picks []goramsey.VtxID // n markers plus a sentinel pinned at order
}

// Init sets the first tuple {0, 1, .. n-1}, returning false if no size-n tuple exists.
func (cs *comboStepper) Init(order, n int) bool {
	if n < 1 || n > order {
		return false
	}
	if cap(cs.picks) < n+1 {
		cs.picks = make([]goramsey.VtxID, n+1)
	} else {
		cs.picks = cs.picks[:n+1]
	}
	for i := 0; i < n; i++ {
		cs.picks[i] = goramsey.VtxID(i)
	}
	cs.picks[n] = goramsey.VtxID(order) // sentinel bounds the last marker
	return true
}

// Picks returns the current tuple, valid until the next Init or Next call.
func (cs *comboStepper) Picks() []goramsey.VtxID {
	return cs.picks[:len(cs.picks)-1]
}

// Next advances to the successor tuple, returning false when no marker can advance.
func (cs *comboStepper) Next() bool {
	picks := cs.picks
	n := len(picks) - 1

	for i := n - 1; i >= 0; i-- {
		if picks[i]+1 < picks[i+1] {
			picks[i]++
			for j := i + 1; j < n; j++ {
				picks[j] = picks[j-1] + 1
			}
			return true
		}
	}
	return false
}

// MonoColor reports whether every internal edge of the given vertex subset
// shares one color, comparing each edge against the first one and stopping
// at the first mismatch.  The subset must have at least 2 members.
func (mx *Matrix) MonoColor(members []goramsey.VtxID) (goramsey.Color, bool) {
	c0 := mx.At(int(members[0]), int(members[1]))
	for i, vi := range members {
		for _, vj := range members[i+1:] {
			if mx.At(int(vi), int(vj)) != c0 {
				return 0, false
			}
		}
	}
	return c0, true
}

// ForEachMonoClique invokes onClique with every monochromatic size-n vertex
// subset of this matrix, in lexicographic member order.  Return false from
// onClique to stop the walk.  The members slice is reused across calls;
// callers must copy it to retain it.
func (mx *Matrix) ForEachMonoClique(n int, onClique func(members []goramsey.VtxID, c goramsey.Color) bool) {
	if n < 2 {
		return
	}
	var cs comboStepper
	for ok := cs.Init(mx.order, n); ok; ok = cs.Next() {
		members := cs.Picks()
		if c, mono := mx.MonoColor(members); mono {
			if !onClique(members, c) {
				return
			}
		}
	}
}

// CandidateClique is a monochromatic (K-1)-clique of a base graph paired with
// the color that would make it a monochromatic K-clique if a new vertex
// connects to all of its members with that color.
type CandidateClique struct {
	Members []goramsey.VtxID // the K-1 base-graph members, ascending
	Color   goramsey.Color   // the completing color
	Mask    uint64           // bit i set iff vertex i is a member
}

// CompletedBy reports whether new-vertex row bits v complete this candidate
// into a monochromatic clique: every masked bit of v must equal the required
// color (bit set means Blue).
func (cand *CandidateClique) CompletedBy(v uint64) bool {
	x := cand.Mask
	if cand.Color == goramsey.Blue {
		x = 0
	}
	return (v^x)&cand.Mask == cand.Mask
}

// CompletedInRow is the matrix-cell form of CompletedBy: it walks the members
// against row newVtx, stopping at the first mismatched edge.
func (cand *CandidateClique) CompletedInRow(mx *Matrix, newVtx int) bool {
	for _, vi := range cand.Members {
		if mx.At(newVtx, int(vi)) != cand.Color {
			return false
		}
	}
	return true
}

// InPrefix reports whether every member falls below the given prefix width,
// i.e. whether prefix filtering alone can rule this candidate out.
func (cand *CandidateClique) InPrefix(prefixWidth int) bool {
	return cand.Mask>>uint(prefixWidth) == 0
}

// AppendCandidateCliques derives the candidate set for growing this matrix by
// one vertex: every monochromatic (cliqueSize-1)-clique of the base graph
// becomes one candidate.  Candidates append in enumeration order, which
// search diagnostics rely on.
func (mx *Matrix) AppendCandidateCliques(dst []CandidateClique, cliqueSize int) ([]CandidateClique, error) {
	if mx.order > goramsey.MaxVtxCount {
		return dst, goramsey.ErrGraphTooBig
	}

	mx.ForEachMonoClique(cliqueSize-1, func(members []goramsey.VtxID, c goramsey.Color) bool {
		cand := CandidateClique{
			Members: append([]goramsey.VtxID{}, members...),
			Color:   c,
		}
		for _, vi := range members {
			cand.Mask |= uint64(1) << vi
		}
		dst = append(dst, cand)
		return true
	})
	return dst, nil
}
