package libramsey

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/ramsey-systems/goramsey/goramsey"
)

// HasMonoClique returns true if this coloring contains at least one
// monochromatic clique of the given size.
func (X *Graph) HasMonoClique(cliqueSize int) bool {
	found := false
	X.mx.ForEachMonoClique(cliqueSize, func(members []goramsey.VtxID, c goramsey.Color) bool {
		found = true
		return false
	})
	return found
}

// ForEachMonoClique calls onClique for every monochromatic clique of the
// given size, members ascending.  Returning false stops the walk.
func (X *Graph) ForEachMonoClique(cliqueSize int, onClique func(members []goramsey.VtxID, c goramsey.Color) bool) {
	X.mx.ForEachMonoClique(cliqueSize, onClique)
}

// AppendCensus tallies every monochromatic clique of size minSize through
// maxSize into prof.
func (X *Graph) AppendCensus(prof *goramsey.CensusProfile, minSize, maxSize int) {
	Nv := X.mx.Order()
	if maxSize > Nv {
		maxSize = Nv
	}
	for n := minSize; n <= maxSize; n++ {
		X.mx.ForEachMonoClique(n, func(members []goramsey.VtxID, c goramsey.Color) bool {
			prof.Tally(byte(n), c)
			return true
		})
	}
}

func (X *Graph) WriteCensusAsCSV(out io.Writer, maxCliqueSize int) {
	var prof goramsey.CensusProfile
	X.AppendCensus(&prof, 3, maxCliqueSize)
	writeProfile(out, prof)
}

// Census aggregates colorings by their clique census profile, so a batch of
// graphs reduces to the distinct ways they fail (or don't) to be clique-free.
type Census struct {
	minSize   int
	maxSize   int
	numGraphs int64
	profiles  redblacktree.Tree
	scrap     goramsey.CensusProfile
}

func NewCensus(maxCliqueSize int) *Census {
	cn := &Census{
		minSize: 3,
		maxSize: maxCliqueSize,
		profiles: redblacktree.Tree{
			Comparator: func(A, B interface{}) int {
				A0 := A.(goramsey.CensusProfile)
				B0 := B.(goramsey.CensusProfile)
				return goramsey.CensusProfileComparator(A0, B0)
			},
		},
	}
	return cn
}

func (cn *Census) AddGraph(X *Graph) {
	cn.scrap.Clear()
	X.AppendCensus(&cn.scrap, cn.minSize, cn.maxSize)
	cn.numGraphs++

	count := int64(1)
	if v, found := cn.profiles.Get(cn.scrap); found {
		count = v.(int64) + 1
	}

	// The tree stores the key we pass in, so commit a private copy,
	// never the reused scrap buffer.
	prof := append(goramsey.CensusProfile{}, cn.scrap...)
	cn.profiles.Put(prof, count)
}

func (cn *Census) NumProfiles() int {
	return cn.profiles.Size()
}

func (cn *Census) TotalGraphs() int64 {
	return cn.numGraphs
}

// WriteAsCSV emits one line per distinct profile in ascending profile order,
// each lead by the number of graphs that produced it.
func (cn *Census) WriteAsCSV(out io.Writer) {
	fmt.Fprintf(out, "graphs=%d,profiles=%d\n", cn.numGraphs, cn.profiles.Size())

	itr := cn.profiles.Iterator()
	for itr.Next() {
		prof := itr.Key().(goramsey.CensusProfile)
		count := itr.Value().(int64)
		fmt.Fprintf(out, "%d,", count)
		writeProfile(out, prof)
		out.Write(newline)
	}
}

func writeProfile(out io.Writer, prof goramsey.CensusProfile) {
	if len(prof) == 0 {
		out.Write([]byte("clique-free,"))
		return
	}
	for _, ci := range prof {
		fmt.Fprintf(out, "k%d=%d+%d,", ci.Size, ci.Reds, ci.Blues)
	}
}
