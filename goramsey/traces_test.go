package goramsey

import (
	"strings"
	"testing"
)

var gT *testing.T

func TestTracesEnc(t *testing.T) {
	gT = t

	// Pentagon-like spectrum: odd terms flip sign under color swap, even
	// terms don't, so both parities and both signs get exercised.
	T1 := Traces([]int64{0, 20, -15, 60, -85, 7770301, -91234567890})

	{
		var scrap [4]byte
		checkEncoding(T1, scrap[:])
	}

	{
		var scrap [200]byte
		checkEncoding(T1, scrap[:])
	}

	checkEncoding(Traces{}, nil)
	checkEncoding(Traces{4}, nil)
}

func checkEncoding(TX Traces, scrap []byte) {
	enc := TX.AppendTracesLSM(scrap[:0])

	var TXdec Traces
	err := TXdec.InitFromTracesLSM(enc, 0)
	if err != nil {
		gT.Fatalf("Traces encoding error: %v", err)
	}

	if TX.IsEqual(TXdec) == false {
		gT.Fatalf("Traces encoding failed, should be:\n     %v\ngot:\n    %v", TX, TXdec)
	}
}

func TestTracesDecodeLimit(t *testing.T) {
	TX := Traces([]int64{2, 6, 12, 36, 80, 250})
	enc := TX.AppendTracesLSM(nil)

	var TXdec Traces
	if err := TXdec.InitFromTracesLSM(enc, 4); err != nil {
		t.Fatalf("limited decode error: %v", err)
	}
	if !TXdec.IsEqual(TX[:4]) {
		t.Fatalf("limited decode: want %v, got %v", TX[:4], TXdec)
	}

	// A truncated stream must refuse to decode.
	if err := TXdec.InitFromTracesLSM(enc[:len(enc)-1], 0); err == nil {
		t.Fatal("truncated stream decoded without error")
	}
}

func TestTracesID(t *testing.T) {
	tid := FormTracesID(17, 0x1234)
	if tid.NumVertices() != 17 || tid.SeriesID() != 0x1234 {
		t.Fatalf("TracesID fields scrambled: %v %v", tid.NumVertices(), tid.SeriesID())
	}

	enc := tid.Marshal(nil)
	if len(enc) != TracesIDSz {
		t.Fatalf("TracesID marshal length %d", len(enc))
	}

	var tid2 TracesID
	if err := tid2.Unmarshal(enc); err != nil {
		t.Fatal(err)
	}
	if tid2 != tid {
		t.Fatalf("TracesID round trip: %v != %v", tid2, tid)
	}

	if err := tid2.Unmarshal(enc[:TracesIDSz-1]); err == nil {
		t.Fatal("short TracesID unmarshaled without error")
	}

	b := strings.Builder{}
	tid.WriteAsString(&b)
	if b.String() != "17-4660" {
		t.Fatalf("TracesID string: %q", b.String())
	}
}

func TestCensusProfileOrdering(t *testing.T) {
	var a, b CensusProfile

	// Empty sorts before anything.
	b.Tally(3, Red)
	if CensusProfileComparator(a, b) != -1 || CensusProfileComparator(b, a) != 1 {
		t.Fatal("empty profile must sort first")
	}

	// Same shape, higher red count sorts later.
	a.Tally(3, Red)
	a.Tally(3, Red)
	b.Tally(3, Red)
	if CensusProfileComparator(a, b) != 0 {
		t.Fatal("equal profiles must compare equal")
	}
	a.Tally(3, Blue)
	if CensusProfileComparator(a, b) != 1 {
		t.Fatal("extra blue tally must sort later")
	}
}

func TestCensusProfileTally(t *testing.T) {
	var prof CensusProfile

	// Out-of-order tallies land in ascending size order.
	prof.Tally(4, Red)
	prof.Tally(3, Blue)
	prof.Tally(3, Blue)
	prof.Tally(5, Red)

	if len(prof) != 3 || prof[0].Size != 3 || prof[1].Size != 4 || prof[2].Size != 5 {
		t.Fatalf("profile runs out of order: %v", prof)
	}
	if prof[0].Blues != 2 || prof[0].Reds != 0 || prof[0].Mono() != 2 {
		t.Fatalf("size-3 run %v", prof[0])
	}
	if prof.TotalMono() != 4 {
		t.Fatalf("total %d", prof.TotalMono())
	}

	prof.Clear()
	if len(prof) != 0 || prof.TotalMono() != 0 {
		t.Fatal("clear must empty the profile")
	}
}
