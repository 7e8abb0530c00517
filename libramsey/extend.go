package libramsey

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/ramsey-systems/goramsey/goramsey"
)

// ExtendOpts parameterizes one extension attempt.
type ExtendOpts struct {
	CliqueSize  int   // K: the monochromatic clique size to keep the graph free of (>= 3)
	PrefixWidth int   // B: how many low edges the filter space covers (clamped to the base order)
	StepLimit   int64 // max full colorings tested before giving up (0 = unlimited)
	Workers     int   // suffix-space partitions; <= 1 runs the single-threaded reference path

	// OnDeepening fires each time a tested coloring survives more candidate
	// cliques than any before it (single-threaded path only).
	OnDeepening func(depth int, row uint64)
}

// DefaultExtendOpts is a workable starting point: triangle-free search with a
// moderate filter arena and the traditional runaway cap.
var DefaultExtendOpts = ExtendOpts{
	CliqueSize:  3,
	PrefixWidth: 12,
	StepLimit:   1 << 22,
}

func (opts *ExtendOpts) validate(order int) error {
	if order < 1 {
		return errors.Wrap(goramsey.ErrBadExtendOpts, "graph is empty")
	}
	if order > goramsey.MaxVtxCount {
		return goramsey.ErrGraphTooBig
	}
	if opts.CliqueSize < 3 {
		return errors.Wrap(goramsey.ErrBadExtendOpts, "CliqueSize must be at least 3")
	}
	if opts.PrefixWidth < 1 || opts.PrefixWidth > goramsey.MaxPrefixWidth {
		return errors.Wrap(goramsey.ErrBadExtendOpts, "PrefixWidth out of range")
	}
	if opts.StepLimit < 0 {
		return errors.Wrap(goramsey.ErrBadExtendOpts, "StepLimit must be >= 0")
	}
	return nil
}

// ExtendOutcome is how an extension attempt ended.
type ExtendOutcome int32

const (
	// ExtendFound means a coloring keeping the grown graph clique-free was found.
	ExtendFound ExtendOutcome = iota

	// ExtendExhausted means every coloring in the search space completes some
	// candidate clique.  A valid outcome, not an error.
	ExtendExhausted

	// ExtendCapped means StepLimit was hit before the space was covered:
	// exhaustion with a caveat, since colorings remain untested.
	ExtendCapped
)

func (oc ExtendOutcome) String() string {
	switch oc {
	case ExtendFound:
		return "found"
	case ExtendExhausted:
		return "exhausted"
	case ExtendCapped:
		return "capped"
	}
	return "???"
}

// ExtendResult carries the outcome and diagnostics of one extension attempt.
type ExtendResult struct {
	Outcome       ExtendOutcome
	Steps         int64  // full colorings tested
	NumCandidates int    // candidate cliques derived from the base graph
	Removed       int    // prefix values eliminated by filtering
	Survivors     int    // prefix values that survived filtering
	Deepest       int    // highest candidate index any failed coloring survived past (-1 if none tested)
	FoundRow      uint64 // the winning row bits, valid when Outcome == ExtendFound
}

// writeRow assigns row newVtx of mx from row bits: bit j is the color of
// edge (newVtx, j).  Only the row is written; the column stays stale until
// MirrorRow runs.
func writeRow(mx *Matrix, newVtx int, row uint64) {
	for vj := 0; vj < newVtx; vj++ {
		mx.SetRowOnly(newVtx, vj, goramsey.Color((row>>uint(vj))&1))
	}
}

// verifyRow walks the candidates in enumeration order against row newVtx and
// returns the index of the first candidate the row completes, or len(cands)
// if the coloring completes none (i.e. the extension is clique-free).
func verifyRow(mx *Matrix, newVtx int, cands []CandidateClique) int {
	for ci := range cands {
		if cands[ci].CompletedInRow(mx, newVtx) {
			return ci
		}
	}
	return len(cands)
}

type extender struct {
	mx       Matrix // grown matrix, order newVtx+1
	newVtx   int
	cands    []CandidateClique
	snapshot []uint64
	opts     ExtendOpts
	res      ExtendResult
}

// Extend searches the colorings of a new vertex's edges for one that keeps
// this graph free of monochromatic cliques of opts.CliqueSize.  Only cliques
// the new row would complete are tested, so the whole-graph guarantee needs a
// clique-free receiver.  On success the returned graph has one more vertex at
// the highest index, its column mirrored from the found row; the receiver is
// never modified.  Exhaustion returns a nil graph and a nil error: inspect
// the result's Outcome.
func (X *Graph) Extend(opts ExtendOpts) (*Graph, ExtendResult, error) {
	res := ExtendResult{Deepest: -1}
	if X == nil {
		return nil, res, goramsey.ErrNilGraph
	}

	order := X.VertexCount()
	if err := opts.validate(order); err != nil {
		return nil, res, err
	}
	if opts.PrefixWidth > order {
		opts.PrefixWidth = order
	}

	cands, err := X.mx.AppendCandidateCliques(nil, opts.CliqueSize)
	if err != nil {
		return nil, res, err
	}
	res.NumCandidates = len(cands)

	fs := NewFilterSpace(opts.PrefixWidth)
	res.Removed = fs.FilterAll(cands)
	res.Survivors = fs.Len()

	ex := &extender{
		mx:       X.mx.Grow(),
		newVtx:   order,
		cands:    cands,
		snapshot: fs.Snapshot(nil),
		opts:     opts,
		res:      res,
	}

	// No surviving prefix values means no coloring to test at any suffix.
	if len(ex.snapshot) == 0 {
		ex.res.Outcome = ExtendExhausted
		return nil, ex.res, nil
	}

	if opts.Workers > 1 {
		ex.runPartitioned()
	} else {
		ex.run()
	}

	if ex.res.Outcome != ExtendFound {
		return nil, ex.res, nil
	}

	ex.mx.MirrorRow(ex.newVtx)
	Xnew := NewGraph(nil)
	Xnew.mx.CopyFrom(&ex.mx)
	Xnew.onGraphChanged()
	return Xnew, ex.res, nil
}

// ForEachExtension enumerates every coloring of a new vertex's edges that
// keeps this graph clique-free, in search order, calling onRow with each
// surviving row.  The callback returns false to stop early.  The returned
// result reads like Extend's: Outcome is ExtendFound when at least one row
// survived, and FoundRow holds the first.
func (X *Graph) ForEachExtension(opts ExtendOpts, onRow func(row uint64) bool) (ExtendResult, error) {
	res := ExtendResult{Deepest: -1}
	if X == nil {
		return res, goramsey.ErrNilGraph
	}

	order := X.VertexCount()
	if err := opts.validate(order); err != nil {
		return res, err
	}
	if opts.PrefixWidth > order {
		opts.PrefixWidth = order
	}

	cands, err := X.mx.AppendCandidateCliques(nil, opts.CliqueSize)
	if err != nil {
		return res, err
	}
	res.NumCandidates = len(cands)

	fs := NewFilterSpace(opts.PrefixWidth)
	res.Removed = fs.FilterAll(cands)
	res.Survivors = fs.Len()
	snapshot := fs.Snapshot(nil)

	passed := false
	finish := func(fallback ExtendOutcome) (ExtendResult, error) {
		if passed {
			res.Outcome = ExtendFound
		} else {
			res.Outcome = fallback
		}
		return res, nil
	}

	if len(snapshot) == 0 {
		return finish(ExtendExhausted)
	}

	mx := X.mx.Grow()
	B := opts.PrefixWidth
	N := order

	suffix := uint64(0)
	for {
		for _, prefix := range snapshot {
			row := prefix | suffix
			writeRow(&mx, N, row)
			res.Steps++

			ci := verifyRow(&mx, N, cands)
			if ci == len(cands) {
				if !passed {
					passed = true
					res.FoundRow = row
				}
				if !onRow(row) {
					return finish(ExtendExhausted)
				}
			} else if ci > res.Deepest {
				res.Deepest = ci
			}
			if opts.StepLimit > 0 && res.Steps >= opts.StepLimit {
				return finish(ExtendCapped)
			}
		}

		advanced := false
		for bit := B; bit < N; bit++ {
			if suffix&(uint64(1)<<uint(bit)) == 0 {
				suffix &= ^((uint64(1) << uint(bit)) - 1)
				suffix |= uint64(1) << uint(bit)
				advanced = true
				break
			}
		}
		if !advanced {
			return finish(ExtendExhausted)
		}
	}
}

// run is the reference search loop: a suffix binary counter over edge bits
// [B, newVtx) crossed with a cursor over the filtered prefix snapshot.
func (ex *extender) run() {
	B := ex.opts.PrefixWidth
	N := ex.newVtx

	suffix := uint64(0)
	for {
		for _, prefix := range ex.snapshot {
			row := prefix | suffix
			writeRow(&ex.mx, N, row)
			ex.res.Steps++

			ci := verifyRow(&ex.mx, N, ex.cands)
			if ci == len(ex.cands) {
				ex.res.Outcome = ExtendFound
				ex.res.FoundRow = row
				return
			}
			if ci > ex.res.Deepest {
				ex.res.Deepest = ci
				if ex.opts.OnDeepening != nil {
					ex.opts.OnDeepening(ci, row)
				}
			}
			if ex.opts.StepLimit > 0 && ex.res.Steps >= ex.opts.StepLimit {
				ex.res.Outcome = ExtendCapped
				return
			}
		}

		// Advance the suffix counter: find the lowest zero bit at or above B,
		// clear everything below it, set it.  No such bit below bit N means
		// the suffix space is spent.
		advanced := false
		for bit := B; bit < N; bit++ {
			if suffix&(uint64(1)<<uint(bit)) == 0 {
				suffix &= ^((uint64(1) << uint(bit)) - 1)
				suffix |= uint64(1) << uint(bit)
				advanced = true
				break
			}
		}
		if !advanced {
			ex.res.Outcome = ExtendExhausted
			return
		}
	}
}

// runPartitioned covers the same space as run with opts.Workers goroutines,
// each owning a disjoint stride of suffix values and a private copy of the
// grown matrix.  Only read-only state is shared; the first success wins.
func (ex *extender) runPartitioned() {
	W := ex.opts.Workers
	B := ex.opts.PrefixWidth
	N := ex.newVtx
	suffixSpan := uint64(1) << uint(N-B)

	type workerTally struct {
		outcome ExtendOutcome
		row     uint64
		deepest int
	}

	stop := make(chan struct{})
	var stopOnce sync.Once
	var totalSteps int64

	tallies := make(chan workerTally, W)
	for w := 0; w < W; w++ {
		go func(w int) {
			var mx Matrix
			mx.CopyFrom(&ex.mx)

			out := workerTally{outcome: ExtendExhausted, deepest: -1}
			const syncEvery = 2048
			sinceSync := int64(0)

		scan:
			for s := uint64(w); s < suffixSpan; s += uint64(W) {
				suffix := s << uint(B)
				for _, prefix := range ex.snapshot {
					row := prefix | suffix
					writeRow(&mx, N, row)
					sinceSync++

					ci := verifyRow(&mx, N, ex.cands)
					if ci == len(ex.cands) {
						out.outcome = ExtendFound
						out.row = row
						break scan
					}
					if ci > out.deepest {
						out.deepest = ci
					}

					if sinceSync >= syncEvery {
						total := atomic.AddInt64(&totalSteps, sinceSync)
						sinceSync = 0
						if ex.opts.StepLimit > 0 && total >= ex.opts.StepLimit {
							out.outcome = ExtendCapped
							break scan
						}
						select {
						case <-stop:
							break scan
						default:
						}
					}
				}
			}

			atomic.AddInt64(&totalSteps, sinceSync)
			if out.outcome != ExtendExhausted {
				stopOnce.Do(func() { close(stop) })
			}
			tallies <- out
		}(w)
	}

	res := &ex.res
	res.Outcome = ExtendExhausted
	for w := 0; w < W; w++ {
		tally := <-tallies
		if tally.deepest > res.Deepest {
			res.Deepest = tally.deepest
		}
		switch tally.outcome {
		case ExtendFound:
			if res.Outcome != ExtendFound {
				res.Outcome = ExtendFound
				res.FoundRow = tally.row
			}
		case ExtendCapped:
			if res.Outcome == ExtendExhausted {
				res.Outcome = ExtendCapped
			}
		}
	}
	res.Steps = atomic.LoadInt64(&totalSteps)

	if res.Outcome == ExtendFound {
		writeRow(&ex.mx, N, res.FoundRow)
	}
}
