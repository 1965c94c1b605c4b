package goqnet

import (
	"github.com/pkg/errors"
)

const (

	// MaxQubits is the largest qubit register a Gate can address.  Canonical keys pack a qubit label into 4 bits.
	MaxQubits = 16

	// MaxRun is the longest permitted run of identical consecutive gates.
	MaxRun = 3
)

// KeySetKind selects the CanonicSet implementation used while reducing a depth.
type KeySetKind int32

const (
	KeySetMemory KeySetKind = iota // hashed keys in a pooled heap buffer (default)
	KeySetLSM                      // in-memory badger LSM, for very large depths
)

// EnumOpts specifies an enumeration run.
type EnumOpts struct {
	NQubit          int        // number of qubits (>= 2)
	Depth           int        // target network depth (>= 1)
	Workers         int        // parallel workers; 0 denotes runtime.NumCPU()
	SwapConjugation bool       // collapse classes related by swap-conjugation at every depth
	TimeReversal    bool       // collapse classes related by time reversal at the target depth
	KeySet          KeySetKind // accepted-key set implementation
	Resume          *Record    // if set, the loop state is reconstructed from this record

	// OnDepth, if set, receives the growth set of each newly computed depth (the persistence collaborator).
	// A returned error aborts the run.
	OnDepth func(rec Record) error
}

// Validate returns ErrInvalidConfiguration if opts can't describe a run.
func (opts *EnumOpts) Validate() error {
	switch {
	case opts.NQubit < 2:
		return errors.Wrapf(ErrInvalidConfiguration, "nqubit must be >= 2 (got %d)", opts.NQubit)
	case opts.NQubit > MaxQubits:
		return errors.Wrapf(ErrInvalidConfiguration, "nqubit must be <= %d (got %d)", MaxQubits, opts.NQubit)
	case opts.Depth < 1:
		return errors.Wrapf(ErrInvalidConfiguration, "depth must be >= 1 (got %d)", opts.Depth)
	case opts.Workers < 0:
		return errors.Wrapf(ErrInvalidConfiguration, "workers must be >= 0 (got %d)", opts.Workers)
	}
	return nil
}

// Result is the outcome of an enumeration run.
type Result struct {
	NQubit   int
	Depth    int       // depth of Networks (the last fully completed depth if the run was cancelled)
	Networks []Network // published canonical set: one network per equivalence class
	Growth   []Network // canonical set before time-reversal collapsing; resumable
	NoOp     bool      // set if a resume record was already beyond the target depth
}

// Record is the persistence form of one depth's canonical set.
type Record struct {
	NQubit          int     `json:"nqubit"                     yaml:"nqubit"                     msgpack:"nqubit"`
	Depth           int     `json:"depth"                      yaml:"depth"                      msgpack:"depth"`
	SwapConjugation bool    `json:"swap_conjugation,omitempty" yaml:"swap_conjugation,omitempty" msgpack:"swap_conjugation,omitempty"`
	TimeReversal    bool    `json:"time_reversal,omitempty"    yaml:"time_reversal,omitempty"    msgpack:"time_reversal,omitempty"`
	Networks        [][]int `json:"networks"                   yaml:"networks"                   msgpack:"networks"`
}

// NewRecord forms a Record for the given networks.
func NewRecord(opts *EnumOpts, depth int, nets []Network, timeReversed bool) Record {
	rec := Record{
		NQubit:          opts.NQubit,
		Depth:           depth,
		SwapConjugation: opts.SwapConjugation,
		TimeReversal:    timeReversed,
		Networks:        make([][]int, len(nets)),
	}
	for i, net := range nets {
		rec.Networks[i] = net.Ints()
	}
	return rec
}

// Decode validates and converts this record's networks.  Any malformed entry fails with ErrCorruptRecord.
func (rec *Record) Decode() ([]Network, error) {
	if rec.NQubit < 2 || rec.NQubit > MaxQubits || rec.Depth < 0 {
		return nil, errors.Wrapf(ErrCorruptRecord, "nqubit=%d depth=%d", rec.NQubit, rec.Depth)
	}
	nets := make([]Network, len(rec.Networks))
	for i, vals := range rec.Networks {
		if len(vals) != rec.Depth {
			return nil, errors.Wrapf(ErrCorruptRecord, "network %d has depth %d (expected %d)", i, len(vals), rec.Depth)
		}
		net, err := NetworkFromInts(vals, rec.NQubit)
		if err != nil {
			return nil, errors.Wrapf(ErrCorruptRecord, "network %d: %v", i, err)
		}
		if net.HasRunExceeding(MaxRun) {
			return nil, errors.Wrapf(ErrCorruptRecord, "network %d %v exceeds the run limit", i, net)
		}
		nets[i] = net
	}
	return nets, nil
}

// CanonicSet holds canonical network keys.
type CanonicSet interface {

	// TryAdd adds key if it is not already present.
	//
	// If key is already in this CanonicSet, this call has no effect and false is returned.
	// Otherwise a copy of key is added and true is returned.
	TryAdd(key []byte) bool

	// Len returns the number of keys added.
	Len() int

	// Close releases all keys.  Call Close() once done with the set.
	Close()
}

// NetworkAdder accepts networks, dropping those equivalent to one already added.
type NetworkAdder interface {

	// TryAddNetwork returns true if net was not equivalent to a previously added network.
	TryAddNetwork(net Network) bool

	Close()
}

// Renderer is the drawing collaborator: it receives a finished depth's networks.
type Renderer interface {
	Render(nqubit int, nets []Network) error
}

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a Catalog
type CatalogOpts struct {
	DbPathName      string // omit for in-memory db
	ReadOnly        bool   // open in read-only mode
	NQubit          int    // qubit count this catalog is bound to
	SwapConjugation bool   // generator configuration this catalog is bound to
}

// Catalog persists the canonical set of each depth of a run, allowing a run to resume.
type Catalog interface {

	// NQubit returns the qubit count this catalog is bound to.
	NQubit() int

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// PutDepth stores the growth set of a depth (replacing any previous record for that depth).
	PutDepth(rec Record) error

	// PutFinal stores the published set of a completed run.
	PutFinal(rec Record) error

	// LoadDepth returns the record stored for the given depth or ErrDepthNotFound.
	LoadDepth(depth int) (Record, error)

	// LoadFinal returns the published set of the last completed run or ErrDepthNotFound.
	LoadFinal() (Record, error)

	// LatestDepth returns the greatest depth stored, or -1 if none.
	LatestDepth() int

	// RunID identifies the run that created this catalog.
	RunID() string

	// NumNetworks returns the number of canonical networks stored for a depth.
	NumNetworks(depth int) int64

	Close() error
}

// PrintOpts specifies what is printed for each network
type PrintOpts struct {
	Label string // Prefix label
	Edges bool   // If set, prints the qubit pair of each gate
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Edges: true,
}
