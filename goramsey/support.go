package goramsey

// CliqueCensus tallies the monochromatic cliques of a single size, by color.
type CliqueCensus struct {
	Size  byte   // clique size counted
	Reds  uint32 // count of all-red cliques of this size
	Blues uint32 // count of all-blue cliques of this size
}

// Mono returns the total monochromatic clique count of this run.
func (cc CliqueCensus) Mono() uint32 {
	return cc.Reds + cc.Blues
}

// CensusProfile is an ordered run set of per-size clique censuses (ascending Size).
// It is the census analog of a trace spectrum: a compact, order-insensitive
// summary of how far a coloring is from being clique-free.
type CensusProfile []CliqueCensus

// Tally bumps the census run for the given clique size, inserting a new run
// in Size order if this is the first clique of that size.
func (prof *CensusProfile) Tally(size byte, c Color) {
	insertAt := len(*prof)

	for i, ci := range *prof {
		if ci.Size == size {
			if c == Red {
				(*prof)[i].Reds++
			} else {
				(*prof)[i].Blues++
			}
			return
		} else if ci.Size > size {
			insertAt = i
			break
		}
	}

	runs := append((*prof), CliqueCensus{})
	N := len(runs)
	copy(runs[insertAt+1:N], runs[insertAt:N-1])
	cc := CliqueCensus{Size: size}
	if c == Red {
		cc.Reds = 1
	} else {
		cc.Blues = 1
	}
	runs[insertAt] = cc
	*prof = runs
}

func (prof *CensusProfile) Clear() {
	*prof = (*prof)[:0]
}

// TotalMono sums the monochromatic clique counts across all sizes in this profile.
func (prof CensusProfile) TotalMono() uint64 {
	total := uint64(0)
	for _, ci := range prof {
		total += uint64(ci.Mono())
	}
	return total
}

// CensusProfileComparator orders profiles lexicographically by run, suitable
// for keying an ordered tree of census outcomes.
func CensusProfileComparator(A, B CensusProfile) int {
	lenB := len(B)

	for i, ai := range A {
		if lenB == i {
			return 1
		}

		bi := B[i]
		if d := int(ai.Size) - int(bi.Size); d != 0 {
			return d
		}
		if d := int(ai.Reds) - int(bi.Reds); d != 0 {
			return d
		}
		if d := int(ai.Blues) - int(bi.Blues); d != 0 {
			return d
		}
	}

	if len(A) < lenB {
		return -1
	}

	return 0
}
