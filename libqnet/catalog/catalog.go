package catalog

import (
	"runtime"
	"sync"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/dgraph-io/badger/v4"
	"github.com/gogo/protobuf/proto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

/***

Catalog database format:

	gCatalogStateKey                  => CatalogState
	gDepthKeyPrefix, depth (uint16 BE) => DepthRecord (growth set of that depth)
	gFinalKey                         => DepthRecord (published set of the last completed run)

A catalog is bound to one qubit count and one swap-conjugation setting for its lifetime; each depth record holds
networks of exactly that depth, so a run can resume from the greatest stored depth.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gDepthKeyPrefix  = byte(0x01)
	gFinalKey        = []byte{0x02}
)

const (
	kMajorVers = 2026
	kMinorVers = 1
	kMaxDepth  = 0xFFFF
)

func depthKey(depth int) []byte {
	return []byte{gDepthKeyPrefix, byte(depth >> 8), byte(depth)}
}

// catalog is a badger db holding the per-depth canonical sets of one enumeration.
type catalog struct {
	mu         sync.Mutex
	ctx        goqnet.CatalogContext
	readOnly   bool
	stateDirty bool
	state      CatalogState
	db         *badger.DB
}

// Open opens or creates the catalog at opts.DbPathName (in-memory if empty).
//
// An existing catalog must match opts.NQubit and opts.SwapConjugation, else ErrResumeMismatch is returned.
// An NQubit of 0 adopts the qubit count and swap-conjugation setting of an existing catalog.
func Open(ctx goqnet.CatalogContext, opts goqnet.CatalogOpts) (goqnet.Catalog, error) {
	if opts.NQubit < 0 || opts.NQubit == 1 || opts.NQubit > goqnet.MaxQubits {
		return nil, errors.Wrapf(goqnet.ErrBadCatalogParam, "nqubit=%d", opts.NQubit)
	}

	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single writer
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(goqnet.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, the catalog ctx is blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		if opts.NQubit == 0 || opts.ReadOnly {
			err = errors.Wrap(goqnet.ErrBadCatalogParam, "catalog is empty and nqubit is unspecified")
		} else {
			cat.stateDirty = true
			cat.state = CatalogState{
				MajorVers:       kMajorVers,
				MinorVers:       kMinorVers,
				NQubit:          int32(opts.NQubit),
				SwapConjugation: opts.SwapConjugation,
				RunID:           uuid.NewString(),
				FinalDepth:      -1,
			}
		}
	}

	if err == nil {
		switch {
		case cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers:
			err = errors.Errorf("catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
		case opts.NQubit != 0 && int(cat.state.NQubit) != opts.NQubit:
			err = errors.Wrapf(goqnet.ErrResumeMismatch, "catalog has nqubit=%d, requested nqubit=%d", cat.state.NQubit, opts.NQubit)
		case opts.NQubit != 0 && cat.state.SwapConjugation != opts.SwapConjugation:
			err = errors.Wrapf(goqnet.ErrResumeMismatch, "catalog has swap_conjugation=%v", cat.state.SwapConjugation)
		}
	}

	if err == nil && !cat.readOnly {
		err = cat.flushState()
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) NQubit() int {
	return int(cat.state.NQubit)
}

func (cat *catalog) RunID() string {
	return cat.state.RunID
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumNetworks(depth int) int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if depth < 0 || depth >= len(cat.state.NumNetworks) {
		return 0
	}
	return int64(cat.state.NumNetworks[depth])
}

func (cat *catalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return unmarshalState(val, &cat.state)
			})
			if err != nil {
				err = errors.Wrap(goqnet.ErrUnmarshal, err.Error())
			}
		}
		return err
	})
	return err
}

func (cat *catalog) flushState() error {
	if !cat.stateDirty {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		return cat.setState(txn)
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

func (cat *catalog) setState(txn *badger.Txn) error {
	stateBuf, err := marshalState(&cat.state)
	if err != nil {
		return err
	}
	return txn.Set(gCatalogStateKey, stateBuf)
}

func (cat *catalog) Close() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	var err error
	if cat.db != nil {
		if !cat.readOnly {
			err = cat.flushState()
		}
		if closeErr := cat.db.Close(); err == nil {
			err = closeErr
		}
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return err
}

func (cat *catalog) checkWritable(rec *goqnet.Record) error {
	switch {
	case cat.db == nil:
		return goqnet.ErrCatalogClosed
	case cat.readOnly:
		return goqnet.ErrCatalogReadOnly
	case rec.NQubit != int(cat.state.NQubit):
		return errors.Wrapf(goqnet.ErrResumeMismatch, "record has nqubit=%d, catalog has nqubit=%d", rec.NQubit, cat.state.NQubit)
	case rec.SwapConjugation != cat.state.SwapConjugation:
		return errors.Wrapf(goqnet.ErrResumeMismatch, "record has swap_conjugation=%v", rec.SwapConjugation)
	case rec.Depth < 0 || rec.Depth > kMaxDepth:
		return errors.Wrapf(goqnet.ErrBadCatalogParam, "depth %d", rec.Depth)
	}
	return nil
}

func (cat *catalog) PutDepth(rec goqnet.Record) error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if err := cat.checkWritable(&rec); err != nil {
		return err
	}
	if rec.TimeReversal {
		return errors.Wrap(goqnet.ErrBadCatalogParam, "depth records hold growth sets (time reversal not applied)")
	}

	buf, err := encodeRecord(&rec)
	if err != nil {
		return err
	}

	prevCounts := cat.state.NumNetworks
	counts := make([]uint64, max(len(prevCounts), rec.Depth+1))
	copy(counts, prevCounts)
	counts[rec.Depth] = uint64(len(rec.Networks))
	cat.state.NumNetworks = counts

	err = cat.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(depthKey(rec.Depth), buf); err != nil {
			return err
		}
		return cat.setState(txn)
	})
	if err != nil {
		cat.state.NumNetworks = prevCounts
	}
	return err
}

func (cat *catalog) PutFinal(rec goqnet.Record) error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if err := cat.checkWritable(&rec); err != nil {
		return err
	}

	buf, err := encodeRecord(&rec)
	if err != nil {
		return err
	}
	prevFinal := cat.state.FinalDepth
	cat.state.FinalDepth = int32(rec.Depth)

	err = cat.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(gFinalKey, buf); err != nil {
			return err
		}
		return cat.setState(txn)
	})
	if err != nil {
		cat.state.FinalDepth = prevFinal
	}
	return err
}

func (cat *catalog) LoadDepth(depth int) (goqnet.Record, error) {
	if depth < 0 || depth > kMaxDepth {
		return goqnet.Record{}, errors.Wrapf(goqnet.ErrDepthNotFound, "depth %d", depth)
	}
	return cat.loadRecord(depthKey(depth))
}

func (cat *catalog) LoadFinal() (goqnet.Record, error) {
	return cat.loadRecord(gFinalKey)
}

func (cat *catalog) loadRecord(key []byte) (goqnet.Record, error) {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return goqnet.Record{}, goqnet.ErrCatalogClosed
	}

	var rec goqnet.Record
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return goqnet.ErrDepthNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rec, err = cat.decodeRecord(val)
			return err
		})
	})
	return rec, err
}

func (cat *catalog) LatestDepth() int {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return -1
	}

	latest := -1
	cat.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			Reverse: true,
			Prefix:  []byte{gDepthKeyPrefix},
		})
		defer it.Close()

		it.Seek([]byte{gDepthKeyPrefix, 0xFF, 0xFF})
		if it.Valid() {
			key := it.Item().Key()
			if len(key) == 3 {
				latest = int(key[1])<<8 | int(key[2])
			}
		}
		return nil
	})
	return latest
}

func encodeRecord(rec *goqnet.Record) ([]byte, error) {
	msg := DepthRecord{
		Depth:        int32(rec.Depth),
		TimeReversal: rec.TimeReversal,
		Count:        int32(len(rec.Networks)),
		Gates:        make([]uint32, 0, len(rec.Networks)*rec.Depth),
	}
	for i, vals := range rec.Networks {
		if len(vals) != rec.Depth {
			return nil, errors.Wrapf(goqnet.ErrCorruptRecord, "network %d has depth %d (expected %d)", i, len(vals), rec.Depth)
		}
		for _, v := range vals {
			msg.Gates = append(msg.Gates, uint32(v))
		}
	}
	return proto.Marshal(&msg)
}

func (cat *catalog) decodeRecord(buf []byte) (goqnet.Record, error) {
	var msg DepthRecord
	if err := proto.Unmarshal(buf, &msg); err != nil {
		return goqnet.Record{}, errors.Wrap(goqnet.ErrUnmarshal, err.Error())
	}

	depth, count := int(msg.Depth), int(msg.Count)
	if depth < 0 || count < 0 || len(msg.Gates) != depth*count {
		return goqnet.Record{}, errors.Wrapf(goqnet.ErrCorruptRecord, "%d gates for %d networks of depth %d", len(msg.Gates), count, depth)
	}

	rec := goqnet.Record{
		NQubit:          int(cat.state.NQubit),
		Depth:           depth,
		SwapConjugation: cat.state.SwapConjugation,
		TimeReversal:    msg.TimeReversal,
		Networks:        make([][]int, count),
	}
	for i := range rec.Networks {
		vals := make([]int, depth)
		for j, g := range msg.Gates[i*depth : (i+1)*depth] {
			vals[j] = int(g)
		}
		rec.Networks[i] = vals
	}
	return rec, nil
}

// ResumeRecord returns the stored record to resume a run targeting depth: the record of that depth if present,
// else the deepest record below it, else the deepest record overall.  found is false if cat holds no depths.
func ResumeRecord(cat goqnet.Catalog, depth int) (rec goqnet.Record, found bool, err error) {
	latest := cat.LatestDepth()
	if latest < 0 {
		return rec, false, nil
	}
	for d := min(latest, depth); d >= 0; d-- {
		rec, err = cat.LoadDepth(d)
		if err == nil {
			return rec, true, nil
		}
		if !errors.Is(err, goqnet.ErrDepthNotFound) {
			return rec, false, err
		}
	}
	rec, err = cat.LoadDepth(latest)
	return rec, err == nil, err
}
