package goramsey

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// IsEqual compares two spectra over their shared prefix, so a Traces of
// length 0 is equal to every other Traces.
func (TX Traces) IsEqual(target Traces) bool {
	if len(target) < len(TX) {
		TX = TX[:len(target)]
	}
	for i, Ti := range TX {
		if Ti != target[i] {
			return false
		}
	}
	return true
}

func (TX *Traces) SetLen(tracesLen int) {
	if cap(*TX) >= tracesLen {
		*TX = (*TX)[:tracesLen]
		return
	}
	dimLen := tracesLen
	if dimLen < 16 {
		dimLen = 16 // floor the capacity so tiny spectra don't reallocate
	}
	*TX = make([]int64, tracesLen, dimLen)
}

// InitFromTracesLSM decodes an encoding produced by AppendTracesLSM,
// keeping at most maxNumTraces leading values when positive.
func (TX *Traces) InitFromTracesLSM(Xkey TracesLSM, maxNumTraces int) error {
	var scrap [32]int64
	vals := scrap[:0]
	rdr := bytes.NewReader(Xkey)

	var err error
	for {
		trace, rdErr := binary.ReadVarint(rdr)
		if rdErr != nil {
			if rdErr != io.EOF { // EOF on a value boundary means we're done
				err = ErrUnmarshal
			}
			break
		}
		vals = append(vals, trace)
	}

	// Undo the odd/even split: the first ceil(n/2) stored values are traces 1,3,5,..
	n := len(vals)
	numOdd := (n + 1) / 2
	TX.SetLen(n)
	out := *TX
	for i := 0; i < numOdd; i++ {
		out[2*i] = vals[i]
	}
	for i := numOdd; i < n; i++ {
		out[2*(i-numOdd)+1] = vals[i]
	}
	if maxNumTraces > 0 && n > maxNumTraces {
		out = out[:maxNumTraces]
	}
	*TX = out
	return err
}

// AppendTracesLSM appends the canonical key encoding of TX to out.
//
// Odd-power traces lead the encoding: swapping the two edge colors negates every
// odd trace of the signed color matrix and leaves the even ones unchanged, so the
// leading varints separate a coloring from its complement as early as possible
// in an LSM key compare.
func (TX Traces) AppendTracesLSM(out []byte) TracesLSM {
	var scrap [12]byte

	key := out
	for parity := 0; parity < 2; parity++ {
		for i := parity; i < len(TX); i += 2 {
			n := binary.PutVarint(scrap[:], TX[i])
			key = append(key, scrap[:n]...)
		}
	}
	return key
}

const TracesIDSz = 7

// FormTracesID packs a vertex count into the top byte of a 48-bit series ordinal.
func FormTracesID(numVerts uint32, seriesID uint64) TracesID {
	return TracesID(seriesID | uint64(numVerts)<<48)
}

func (tid TracesID) Marshal(in []byte) []byte {
	var scrap [8]byte
	binary.BigEndian.PutUint64(scrap[:], uint64(tid))
	return append(in, scrap[1:]...)
}

func (tid *TracesID) Unmarshal(in []byte) error {
	if len(in) < TracesIDSz {
		*tid = 0
		return ErrUnmarshal
	}
	var scrap [8]byte
	copy(scrap[1:], in[:TracesIDSz])
	*tid = TracesID(binary.BigEndian.Uint64(scrap[:]))
	return nil
}

func (tid TracesID) NumVertices() uint32 {
	return uint32(tid>>48) & 0xFF
}

func (tid TracesID) SeriesID() uint64 {
	return uint64(tid) & 0xFFFFFFFFFFFF
}

func (tid TracesID) WriteAsString(out io.Writer) {
	fmt.Fprintf(out, "%d-%d", tid.NumVertices(), tid.SeriesID())
}
