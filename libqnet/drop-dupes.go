package libqnet

import (
	"bytes"
	"hash/maphash"

	"github.com/2x3systems/goqnet/goqnet"
)

const DefaultPoolSz = 32 * 1024

// NewHashKeySet returns a CanonicSet that stores keys in pooled heap buffers indexed by hash.
// A poolSz of 0 denotes DefaultPoolSz.
func NewHashKeySet(poolSz int) goqnet.CanonicSet {
	if poolSz <= 0 {
		poolSz = DefaultPoolSz
	}
	return &hashSet{
		hashMap: make(map[uint64][]byte),
		poolSz:  poolSz,
	}
}

type hashSet struct {
	hashMap   map[uint64][]byte
	hasher    maphash.Hash
	bufPool   []byte
	bufPoolSz int
	poolSz    int
	count     int
}

func (set *hashSet) Reset() {
	set.bufPoolSz = 0
	set.count = 0
	for k := range set.hashMap {
		delete(set.hashMap, k)
	}
}

func (set *hashSet) Close() {
	set.Reset()
	set.bufPool = nil
}

func (set *hashSet) Len() int {
	return set.count
}

func (set *hashSet) TryAdd(key []byte) bool {
	set.hasher.Reset()
	set.hasher.Write(key)
	hash := set.hasher.Sum64()

	existing, found := set.hashMap[hash]
	for found {
		if bytes.Equal(existing, key) {
			return false
		}
		hash++
		existing, found = set.hashMap[hash]
	}

	// New entry: place a copy of key in the current pool, starting a new pool if this one is full.
	pos := set.bufPoolSz
	itemLen := len(key)
	if pos+itemLen > cap(set.bufPool) {
		allocSz := max(set.poolSz, itemLen)
		set.bufPool = make([]byte, allocSz)
		set.bufPoolSz = 0
		pos = 0
	}

	set.hashMap[hash] = append(set.bufPool[pos:pos], key...)
	set.bufPoolSz += itemLen
	set.count++
	return true
}

// NewDropDupes returns a NetworkAdder that accepts a network only if no relabeling of it was accepted before.
// If keys is nil, a hash key set is used.
func NewDropDupes(keys goqnet.CanonicSet) goqnet.NetworkAdder {
	if keys == nil {
		keys = NewHashKeySet(0)
	}
	return &dropDupes{
		keys: keys,
	}
}

type dropDupes struct {
	keys goqnet.CanonicSet
}

func (dd *dropDupes) TryAddNetwork(net goqnet.Network) bool {
	var keyBuf [64]byte
	return dd.keys.TryAdd(CanonicalKey(net, keyBuf[:0]))
}

func (dd *dropDupes) Close() {
	dd.keys.Close()
}
