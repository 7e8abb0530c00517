package libramsey

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/ramsey-systems/goramsey/goramsey"
)

// GraphSet tracks which exact colorings have been seen.
type GraphSet interface {

	// TryAdd adds X's coloring if no equal coloring was added before,
	// returning true on first sight and false on a repeat.
	TryAdd(X *Graph) bool

	// Close drops everything added so far.  A closed set can be reused;
	// the next TryAdd starts it fresh.
	Close()
}

// TracesSet tracks which trace spectra have been seen.
type TracesSet interface {

	// TryAdd adds a copy of TX if no equal spectrum was added before,
	// returning true on first sight and false on a repeat.
	TryAdd(TX goramsey.Traces) bool

	// Close drops everything added so far.  A closed set can be reused;
	// the next TryAdd starts it fresh.
	Close()
}

func NewTracesSet() TracesSet {
	return &tracesSet{}
}

func NewGraphSet() GraphSet {
	return &graphSet{}
}

type tracesSet struct {
	lsmSet
}

func (ts *tracesSet) TryAdd(TX goramsey.Traces) bool {
	var buf [512]byte
	key := TX.AppendTracesLSM(buf[:0])
	return ts.tryAdd(key)
}

type graphSet struct {
	lsmSet
}

// A graphSet key is the spectrum followed by the packed coloring, so two
// different colorings sharing a spectrum still count as distinct.
func (gs *graphSet) TryAdd(X *Graph) bool {
	var buf [512]byte
	key := []byte(X.ExportTracesLSM(buf[:0], -1))
	def, err := X.ExportGraphDef()
	if err != nil {
		return false
	}
	key = append(key, def...)
	return gs.tryAdd(key)
}

// lsmSet is a scratch membership set over an in-memory badger instance,
// opened lazily on first add.
type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() {
	if set.db != nil {
		return
	}

	dbOpts := badger.DefaultOptions("").WithInMemory(true)
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	db, err := badger.Open(dbOpts)
	if err != nil {
		panic(err)
	}
	set.db = db
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.autoOpen()

	added := false
	err := set.db.Update(func(txn *badger.Txn) error {
		switch _, getErr := txn.Get(key); getErr {
		case nil:
			return nil // already present
		case badger.ErrKeyNotFound:
			added = true
			return txn.Set(key, nil)
		default:
			return getErr
		}
	})
	if err != nil {
		panic(err)
	}
	return added
}

func (set *lsmSet) Close() {
	if db := set.db; db != nil {
		set.db = nil
		db.Close()
	}
}
