package libramsey

import (
	"testing"

	"github.com/ramsey-systems/goramsey/goramsey"
)

func TestComboStepper(t *testing.T) {
	var cs comboStepper

	if cs.Init(2, 3) {
		t.Fatal("no size-3 tuple exists over 2 vertices")
	}

	if !cs.Init(5, 3) {
		t.Fatal("Init failed")
	}

	count := 0
	var first, last []goramsey.VtxID
	for ok := true; ok; ok = cs.Next() {
		picks := cs.Picks()
		if count == 0 {
			first = append([]goramsey.VtxID{}, picks...)
		} else {
			// Each tuple must strictly follow its predecessor
			// lexicographically, which also rules out repeats.
			after := false
			for i := range picks {
				if picks[i] != last[i] {
					after = picks[i] > last[i]
					break
				}
			}
			if !after {
				t.Fatalf("tuple %v does not follow %v", picks, last)
			}
		}
		for i := 1; i < len(picks); i++ {
			if picks[i] <= picks[i-1] {
				t.Fatalf("tuple not strictly increasing: %v", picks)
			}
		}
		last = append(last[:0], picks...)
		count++
	}

	if count != 10 {
		t.Fatalf("C(5,3) = 10, stepped %d", count)
	}
	if first[0] != 0 || first[1] != 1 || first[2] != 2 {
		t.Fatalf("first tuple %v", first)
	}
	if last[0] != 2 || last[1] != 3 || last[2] != 4 {
		t.Fatalf("last tuple %v", last)
	}
}

func TestMonoCliques(t *testing.T) {
	K5, err := NewGraphFromExpr("K5")
	if err != nil {
		t.Fatal(err)
	}
	defer K5.Reclaim()

	for n, want := range map[int]int{3: 10, 4: 5, 5: 1} {
		got := 0
		K5.mx.ForEachMonoClique(n, func(members []goramsey.VtxID, c goramsey.Color) bool {
			if c != goramsey.Red {
				t.Fatal("all-red K5 tallied a blue clique")
			}
			got++
			return true
		})
		if got != want {
			t.Fatalf("K5 has %d mono %d-cliques, counted %d", want, n, got)
		}
	}

	pentagon, err := NewGraphFromExpr("C5/1")
	if err != nil {
		t.Fatal(err)
	}
	defer pentagon.Reclaim()

	pentagon.mx.ForEachMonoClique(3, func(members []goramsey.VtxID, c goramsey.Color) bool {
		t.Fatalf("pentagon coloring has no mono triangle, found %v", members)
		return false
	})
}

func TestCandidateCliques(t *testing.T) {
	pentagon, err := NewGraphFromExpr("C5/1")
	if err != nil {
		t.Fatal(err)
	}
	defer pentagon.Reclaim()

	cands, err := pentagon.mx.AppendCandidateCliques(nil, 3)
	if err != nil {
		t.Fatal(err)
	}

	// Every edge of the base graph is a mono 2-clique, so 10 candidates,
	// 5 of them the blue cycle edges.
	if len(cands) != 10 {
		t.Fatalf("%d candidates", len(cands))
	}
	blues := 0
	for i := range cands {
		cand := &cands[i]
		if len(cand.Members) != 2 {
			t.Fatalf("candidate arity %d", len(cand.Members))
		}
		wantMask := uint64(1)<<cand.Members[0] | uint64(1)<<cand.Members[1]
		if cand.Mask != wantMask {
			t.Fatalf("mask %#x for members %v", cand.Mask, cand.Members)
		}
		if cand.Color == goramsey.Blue {
			blues++
		}
	}
	if blues != 5 {
		t.Fatalf("%d blue candidates", blues)
	}
}

func TestCandidateCompletedBy(t *testing.T) {
	red01 := CandidateClique{
		Members: []goramsey.VtxID{0, 1},
		Color:   goramsey.Red,
		Mask:    0b011,
	}
	blue02 := CandidateClique{
		Members: []goramsey.VtxID{0, 2},
		Color:   goramsey.Blue,
		Mask:    0b101,
	}

	// Row bit set means blue: the red pair completes only when both its
	// bits are clear, the blue pair only when both are set.
	for row, want := range map[uint64]bool{0b000: true, 0b001: false, 0b010: false, 0b100: true, 0b111: false} {
		if red01.CompletedBy(row) != want {
			t.Fatalf("red01.CompletedBy(%03b) != %v", row, want)
		}
	}
	for row, want := range map[uint64]bool{0b101: true, 0b111: true, 0b001: false, 0b100: false, 0b000: false} {
		if blue02.CompletedBy(row) != want {
			t.Fatalf("blue02.CompletedBy(%03b) != %v", row, want)
		}
	}

	if !red01.InPrefix(2) || blue02.InPrefix(2) {
		t.Fatal("InPrefix must test the highest member against the width")
	}
	if !blue02.InPrefix(3) {
		t.Fatal("width 3 covers vertex 2")
	}
}

func TestCandidateCompletedInRow(t *testing.T) {
	X, err := NewGraphFromExpr("K3:1~2")
	if err != nil {
		t.Fatal(err)
	}
	defer X.Reclaim()

	mx := X.mx.Grow()
	cands, _ := X.mx.AppendCandidateCliques(nil, 3)

	// Row 0b011 paints edges to vertices 0 and 1 blue, completing only the
	// blue pair {0,1}.  The bitwise and cell-walk forms must agree.
	writeRow(&mx, 3, 0b011)
	for i := range cands {
		cand := &cands[i]
		if cand.CompletedInRow(&mx, 3) != cand.CompletedBy(0b011) {
			t.Fatalf("CompletedInRow disagrees with CompletedBy for %v", cand.Members)
		}
	}
}
