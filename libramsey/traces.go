package libramsey

import (
	"github.com/ramsey-systems/goramsey/goramsey"
)

// Traces returns this graph's trace spectrum out to the given number of
// terms, computing and caching terms as needed.  numTraces < 0 denotes the
// natural length: one term per vertex.
func (X *Graph) Traces(numTraces int) goramsey.Traces {
	if numTraces <= 0 {
		numTraces = X.mx.Order()
	}
	if len(X.traces) < numTraces {
		X.calcTracesTo(numTraces)
	}
	return X.traces[:numTraces]
}

// ExportTracesLSM appends this graph's traces in LSM form, suitable for
// catalog keys and duplicate detection.
func (X *Graph) ExportTracesLSM(dst []byte, numTraces int) goramsey.TracesLSM {
	return X.Traces(numTraces).AppendTracesLSM(dst)
}

// FormTracesID returns the identity prefix a catalog files this graph under.
func (X *Graph) FormTracesID(seriesID uint64) goramsey.TracesID {
	return goramsey.FormTracesID(uint32(X.mx.Order()), seriesID)
}

// calcTracesTo computes trace terms of the signed adjacency matrix S, where
// a red edge weighs +1, a blue edge -1, and the diagonal 0.  Term p is
// tr(S^p), the signed count of closed p-walks.  Terms accumulate in int64
// and wrap for very large orders; wrapped values are still deterministic,
// which is all that comparison and key encoding require.
func (X *Graph) calcTracesTo(numTraces int) {
	Nv := X.mx.Order()
	X.traces = X.traces[:0]

	NvNv := Nv * Nv
	if cap(X.scrap) < 3*NvNv {
		X.scrap = make([]int64, 3*NvNv)
	}
	S := X.scrap[0:NvNv]
	Ci0 := X.scrap[NvNv : 2*NvNv]
	Ci1 := X.scrap[2*NvNv : 3*NvNv]

	for vi := 0; vi < Nv; vi++ {
		for vj := 0; vj < Nv; vj++ {
			w := int64(0)
			if vi != vj {
				w = X.mx.At(vi, vj).Sign()
			}
			S[vi*Nv+vj] = w
		}
	}
	copy(Ci0, S)

	// Ci0 holds S^p as p advances; the trace is its diagonal sum.
	for p := 1; p <= numTraces; p++ {
		TXp := int64(0)
		for vi := 0; vi < Nv; vi++ {
			TXp += Ci0[vi*Nv+vi]
		}
		X.traces = append(X.traces, TXp)

		if p == numTraces {
			break
		}

		for vi := 0; vi < Nv; vi++ {
			row := Ci0[vi*Nv : vi*Nv+Nv]
			out := Ci1[vi*Nv : vi*Nv+Nv]
			for vj := 0; vj < Nv; vj++ {
				dot := int64(0)
				for vk := 0; vk < Nv; vk++ {
					dot += row[vk] * S[vk*Nv+vj]
				}
				out[vj] = dot
			}
		}
		Ci0, Ci1 = Ci1, Ci0
	}
}
