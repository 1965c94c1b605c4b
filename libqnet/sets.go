package libqnet

import (
	"github.com/2x3systems/goqnet/goqnet"
	"github.com/dgraph-io/badger/v4"
)

// NewKeySet returns an empty CanonicSet of the given kind.
func NewKeySet(kind goqnet.KeySetKind) goqnet.CanonicSet {
	switch kind {
	case goqnet.KeySetLSM:
		return NewLSMKeySet()
	default:
		return NewHashKeySet(0)
	}
}

// NewLSMKeySet returns a CanonicSet backed by an in-memory badger db, which holds up better than a Go map once a
// depth's key count reaches the tens of millions.
func NewLSMKeySet() goqnet.CanonicSet {
	return &lsmSet{}
}

type lsmSet struct {
	db    *badger.DB
	count int
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) TryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Discard()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		if err == nil {
			err = txn.Commit()
		}
		added = true
	}

	if err != nil {
		panic(err)
	}

	if added {
		set.count++
	}
	return added
}

func (set *lsmSet) Len() int {
	return set.count
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
	set.count = 0
}
