package catalog

import (
	"bytes"
	"runtime"

	"github.com/dgraph-io/badger/v3"
	"github.com/go-python/gpython/py"
	"github.com/pkg/errors"

	"github.com/ramsey-systems/goramsey/goramsey"
	"github.com/ramsey-systems/goramsey/libramsey"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState

	[Nv byte], TracesLSM, NUL, NUL            => TracesID   (UserMeta holds Flag_* bits)
		..., GraphDef                         => GraphDef
		..., GraphDef'                        => GraphDef'
		...

A Traces header entry is issued the first time a trace spectrum is seen; the
double NUL suffix keeps it sorted ahead of every coloring filed under it.
Each distinct coloring with that spectrum appends its GraphDef to the header
key, so one prefix seek enumerates a spectrum's colorings and a header whose
prefix holds two or more entries marks a Traces collision
(Flag_HasDuplicate).

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	kMajorVers = 2026
	kMinorVers = 1
)

// catalog is a db wrapper for a collection of 2-colored complete graphs
// keyed by trace spectrum.
type catalog struct {
	ctx        libramsey.CatalogContext
	readOnly   bool
	stateDirty bool
	state      goramsey.CatalogState
	db         *badger.DB
}

func OpenCatalog(ctx libramsey.CatalogContext, opts libramsey.CatalogOpts) (libramsey.Catalog, error) {

	if opts.TraceCount <= 0 {
		opts.TraceCount = 12
	}

	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// badger can't open read-only on windows
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	var err error

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(goramsey.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, we consider the catalog ctx blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = kMajorVers
		cat.state.MinorVers = kMinorVers
		cat.state.TraceCount = opts.TraceCount
		cat.state.CliqueSize = opts.CliqueSize
		cat.state.NumTraces = make([]uint64, goramsey.MaxVtxCount+2)
		cat.state.NumGraphs = make([]uint64, goramsey.MaxVtxCount+2)
	}

	if cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers {
		err = errors.New("catalog version is incompatible")
	} else if opts.TraceCount > cat.state.TraceCount {
		err = errors.New("catalog's TraceCount is below the requested TraceCount")
	} else if opts.CliqueSize > 0 && opts.CliqueSize != cat.state.CliqueSize {
		err = errors.Errorf("catalog certifies clique size %d, not %d", cat.state.CliqueSize, opts.CliqueSize)
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) NumTraces(forVtxCount byte) int64 {
	if forVtxCount == 0 || int(forVtxCount) >= len(cat.state.NumTraces) {
		return 0
	}
	return int64(cat.state.NumTraces[forVtxCount])
}

func (cat *catalog) NumGraphs(forVtxCount byte) int64 {
	if forVtxCount == 0 || int(forVtxCount) >= len(cat.state.NumGraphs) {
		return 0
	}
	return int64(cat.state.NumGraphs[forVtxCount])
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cat.state.Unmarshal(val)
		})
	})
}

func (cat *catalog) flushState() {
	if cat.stateDirty && !cat.readOnly {
		err := cat.db.Update(func(txn *badger.Txn) error {
			stateBuf, err := cat.state.Marshal()
			if err != nil {
				return err
			}
			return txn.Set(gCatalogStateKey, stateBuf)
		})
		if err != nil {
			panic(err)
		}
		cat.stateDirty = false
	}
}

func (cat *catalog) Close() {
	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
}

// TraceCount is the Traces size bound for entries in this catalog.
func (cat *catalog) TraceCount() int {
	return int(cat.state.TraceCount)
}

// CliqueSize returns the K this catalog certifies its entries free of (0 if none).
func (cat *catalog) CliqueSize() int {
	return int(cat.state.CliqueSize)
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) Type() *py.Type {
	return libramsey.CatalogType
}

func (cat *catalog) issueNextTracesID(numVerts int) goramsey.TracesID {
	tid := cat.state.NumTraces[numVerts] + 1
	cat.state.NumTraces[numVerts] = tid
	cat.stateDirty = true

	return goramsey.FormTracesID(uint32(numVerts), tid)
}

func (cat *catalog) formTracesKey(key []byte, X goramsey.TracesProvider) []byte {
	Nv := X.VertexCount()
	TX := X.Traces(Nv)

	key = append(key, byte(Nv))
	key = TX.AppendTracesLSM(key)
	key = append(key, 0, 0)

	return key
}

// TryAddGraph files X's coloring under its trace spectrum, returning true
// only when the coloring was not already present.
//
// False also covers a read-only catalog and a coloring failing the
// catalog's clique-free certification.
func (cat *catalog) TryAddGraph(X *libramsey.Graph) bool {
	if cat.readOnly {
		return false
	}
	if K := cat.CliqueSize(); K > 0 && X.HasMonoClique(K) {
		return false
	}

	var keyBuf [256]byte
	lsmTraces := cat.formTracesKey(keyBuf[:0], X)

	def, err := X.ExportGraphDef()
	if err != nil {
		return false
	}

	// Probe for the spectrum header, then for this exact coloring under it
	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	isNewTraces := false
	isNewGraph := false
	flags := byte(0)

	item, err := txn.Get(lsmTraces)
	if err == badger.ErrKeyNotFound {
		isNewTraces = true
		isNewGraph = true
	} else {
		flags = item.UserMeta()
		lsmState := append(lsmTraces, def...)
		_, err = txn.Get(lsmState)
		if err == badger.ErrKeyNotFound {
			isNewGraph = true
		}
	}

	if !isNewGraph {
		return false
	}

	Nv := X.VertexCount()
	var tid goramsey.TracesID
	if isNewTraces {
		tid = cat.issueNextTracesID(Nv)
		if X.IsCirculant() {
			flags |= goramsey.Flag_IsCirculant
		}
		if X.IsBalanced() {
			flags |= goramsey.Flag_Balanced
		}
	} else {
		// A second distinct coloring behind this spectrum marks a collision.
		flags |= goramsey.Flag_HasDuplicate
	}
	cat.state.NumGraphs[Nv]++
	cat.stateDirty = true

	// Write the new entries.  The txn retains key bufs until commit, so they
	// can't live on the stack: build them in fresh allocations.
	{
		headerKey := append(make([]byte, 0, len(lsmTraces)), lsmTraces...)
		if isNewTraces {
			tidVal := tid.Marshal(make([]byte, 0, goramsey.TracesIDSz))
			err = txn.SetEntry(badger.NewEntry(headerKey, tidVal).WithMeta(flags))
		} else {
			err = cat.retagHeader(txn, item, headerKey, flags)
		}
		if err != nil {
			panic(err)
		}

		stateKey := make([]byte, 0, len(lsmTraces)+len(def))
		stateKey = append(stateKey, lsmTraces...)
		stateKey = append(stateKey, def...)
		err = txn.Set(stateKey, def)
		if err == nil {
			err = txn.Commit()
		}
		if err != nil {
			panic(err)
		}
	}

	return isNewGraph
}

// retagHeader rewrites a Traces header entry with updated flags, keeping its value.
func (cat *catalog) retagHeader(txn *badger.Txn, item *badger.Item, headerKey []byte, flags byte) error {
	if item.UserMeta() == flags {
		return nil
	}
	tidVal, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	return txn.SetEntry(badger.NewEntry(headerKey, tidVal).WithMeta(flags))
}

// Select pushes every coloring matching the selection criteria to onHit.
func (cat *catalog) Select(sel libramsey.GraphSelector, onHit libramsey.OnGraphHit) {
	if sel.Traces != nil {
		cat.selectByTraces(&sel, onHit)
	} else {
		cat.selectEncodings(&sel, onHit)
	}
}

func loadAndPushGraph(item *badger.Item, onHit libramsey.OnGraphHit) error {
	err := item.Value(func(val []byte) error {
		X, err := libramsey.NewGraphFromDef(val)
		if err != nil {
			return err
		}
		onHit <- X
		return nil
	})
	if err != nil {
		panic(err)
	}
	return err
}

func (cat *catalog) selectEncodings(sel *libramsey.GraphSelector, onHit libramsey.OnGraphHit) {
	minNv := sel.Min.NumVerts
	if minNv == 0 {
		minNv = 1 // Nv 0 would land on the catalog state entry
	}
	minKey := [1]byte{minNv}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   300,
	})
	defer it.Close()

	wantFlags := byte(0)
	if sel.SelectCirculant {
		wantFlags |= goramsey.Flag_IsCirculant
	}
	if sel.SelectBalanced {
		wantFlags |= goramsey.Flag_Balanced
	}

	var keyBuf [256]byte
	tracesKey := append(keyBuf[:0], 0xFF, 0xFF) // primed so nothing matches it before the first header

	for it.Seek(minKey[:]); it.Valid(); {
		curItem := it.Item()
		curKey := curItem.Key()

		// Keys lead with the vertex count, so the first over-max key ends the scan
		if curKey[0] > sel.Max.NumVerts {
			break
		}

		nextTraces := false

		if bytes.HasPrefix(curKey, tracesKey) {
			loadAndPushGraph(curItem, onHit)

			if sel.UniqueTraces {
				nextTraces = true
			}
		} else {
			n := len(curKey)
			if curKey[n-2] != 0 || curKey[n-1] != 0 { // check double NUL suffix
				panic("catalog: spectrum header expected")
			}

			// This key opens the next spectrum
			tracesKey = append(tracesKey[:0], curKey...)
			meta := curItem.UserMeta()

			if meta&wantFlags != wantFlags {
				nextTraces = true
			}
		}

		// If this spectrum can't produce a hit, skip to the next header
		if nextTraces {
			tracesKey[len(tracesKey)-1] = 1
			it.Seek(tracesKey)
		} else {
			it.Next()
		}

	}
}

func (cat *catalog) selectByTraces(sel *libramsey.GraphSelector, onHit libramsey.OnGraphHit) {
	if sel.Traces == nil {
		return
	}

	var keyBuf [256]byte
	tracesKey := cat.formTracesKey(keyBuf[:0], sel.Traces)

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   100,
		Prefix:         tracesKey,
	})
	defer it.Close()

	// An absent header means no coloring with this spectrum was ever added.
	it.Rewind()
	if !it.Valid() {
		return
	}

	// The prefix seek must land on the header itself
	{
		curKey := it.Item().Key()

		klen := len(curKey)
		if curKey[klen-2] != 0 || curKey[klen-1] != 0 { // check double NUL suffix
			panic("catalog: spectrum header expected")
		}
	}

	// Step over the header and push each coloring filed under it
	for it.Next(); it.Valid(); it.Next() {
		loadAndPushGraph(it.Item(), onHit)
	}
}
