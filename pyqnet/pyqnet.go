package pyqnet

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/2x3systems/goqnet/libqnet"
	"github.com/2x3systems/goqnet/libqnet/catalog"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2026.1"
)

var (
	pyNetworkStreamType = py.NewType("NetworkStream", "goqnet.NetworkStream")
	pyCatalogType       = py.NewType("Catalog", "goqnet.Catalog")
	pyWorkspaceType     = py.NewType("Workspace", "collects active session resources and catalogs")
)

// Enumerate and OpenCatalog flags
const (
	SWAP_CONJUGATION = 0x01
	TIME_REVERSAL    = 0x02
	READ_ONLY        = 0x04

	kWorkspaceAttr = "_Workspace"
)

func networkToTuple(net goqnet.Network) py.Tuple {
	tuple := make(py.Tuple, len(net))
	for i, g := range net {
		tuple[i] = py.Int(g)
	}
	return tuple
}

func networksToTuple(nets []goqnet.Network) py.Tuple {
	tuple := make(py.Tuple, len(nets))
	for i, net := range nets {
		tuple[i] = networkToTuple(net)
	}
	return tuple
}

func sequenceItems(obj py.Object) ([]py.Object, error) {
	switch seq := obj.(type) {
	case py.Tuple:
		return seq, nil
	case *py.List:
		return seq.Items, nil
	}
	return nil, py.ExceptionNewf(py.TypeError, "expected tuple or list (got %v)", obj.Type().Name)
}

// networkFromObj accepts a sequence of gate ints or a network expression string.
func networkFromObj(obj py.Object, nqubit int) (goqnet.Network, error) {
	if expr, isStr := obj.(py.String); isStr {
		net, err := libqnet.ParseNetwork(string(expr), nqubit)
		if err != nil {
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
		return net, nil
	}

	items, err := sequenceItems(obj)
	if err != nil {
		return nil, err
	}
	net := make(goqnet.Network, len(items))
	for i, item := range items {
		val, err := py.GetInt(item)
		if err != nil {
			return nil, err
		}
		net[i], err = goqnet.NewGate(int64(val), nqubit)
		if err != nil {
			return nil, py.ExceptionNewf(py.ValueError, "gate %d (value %d): %v", i, val, err)
		}
	}
	return net, nil
}

func pyBool(b bool) py.Object {
	if b {
		return py.True
	}
	return py.False
}

// Arg 1 (int): nqubit
// Arg 2 (int): target depth
// Arg 3 (int, optional): SWAP_CONJUGATION | TIME_REVERSAL
func py_Enumerate(module py.Object, args py.Tuple) (py.Object, error) {
	var nqubit, depth, flags int32
	err := py.LoadTuple(args, []interface{}{&nqubit, &depth, &flags})
	if err != nil {
		return nil, err
	}

	opts := goqnet.EnumOpts{
		NQubit:          int(nqubit),
		Depth:           int(depth),
		SwapConjugation: (flags & SWAP_CONJUGATION) != 0,
		TimeReversal:    (flags & TIME_REVERSAL) != 0,
	}
	res, err := libqnet.Enumerate(context.Background(), opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return networksToTuple(res.Networks), nil
}

// Arg 1, 2 (tuple or str): networks of equal depth
// Arg 3 (int): nqubit
func py_IsEquivalent(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 3 {
		return nil, py.ExceptionNewf(py.TypeError, "IsEquivalent() takes 3 arguments (%d given)", len(args))
	}
	nqubit, err := py.GetInt(args[2])
	if err != nil {
		return nil, err
	}
	if nqubit < 2 || nqubit > goqnet.MaxQubits {
		return nil, py.ExceptionNewf(py.ValueError, "nqubit must be in 2..%d (got %d)", goqnet.MaxQubits, nqubit)
	}
	a, err := networkFromObj(args[0], int(nqubit))
	if err != nil {
		return nil, err
	}
	b, err := networkFromObj(args[1], int(nqubit))
	if err != nil {
		return nil, err
	}
	if len(a) != len(b) {
		return nil, py.ExceptionNewf(py.ValueError, "networks differ in depth (%d vs %d)", len(a), len(b))
	}
	return pyBool(libqnet.IsEquivalent(a, b, int(nqubit))), nil
}

func py_HasLongRun(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "HasLongRun() takes 1 argument (%d given)", len(args))
	}
	net, err := networkFromObj(args[0], 0)
	if err != nil {
		return nil, err
	}
	return pyBool(net.HasRunExceeding(goqnet.MaxRun)), nil
}

func py_SwapConjugates(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "SwapConjugates() takes 1 argument (%d given)", len(args))
	}
	net, err := networkFromObj(args[0], 0)
	if err != nil {
		return nil, err
	}
	return networksToTuple(libqnet.SwapConjugates(net)), nil
}

// Arg 1 (str): network expression, e.g. "(3,6,3)" or "0-1 1-2 0-1"
// Arg 2 (int, optional): nqubit
func py_Parse(module py.Object, args py.Tuple) (py.Object, error) {
	var expr string
	var nqubit int32
	err := py.LoadTuple(args, []interface{}{&expr, &nqubit})
	if err != nil {
		return nil, err
	}
	net, err := libqnet.ParseNetwork(expr, int(nqubit))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return networkToTuple(net), nil
}

// Arg 1 (tuple): networks to stream
func py_Stream(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Stream() takes 1 argument (%d given)", len(args))
	}
	items, err := sequenceItems(args[0])
	if err != nil {
		return nil, err
	}
	nets := make([]goqnet.Network, len(items))
	for i, item := range items {
		if nets[i], err = networkFromObj(item, 0); err != nil {
			return nil, err
		}
	}
	return wrapNetworkStream(goqnet.StreamNetworks(nets)), nil
}

type Workspace struct {
	CatalogCtx goqnet.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: goqnet.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

// Arg 1 (str): catalog pathname ("" for in-memory)
// Arg 2 (int): nqubit (0 adopts the catalog's)
// Arg 3 (int, optional): READ_ONLY, SWAP_CONJUGATION
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var nqubit, flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &nqubit, &flags})
	if err != nil {
		return nil, err
	}

	opts := goqnet.CatalogOpts{
		DbPathName:      pathname,
		ReadOnly:        (flags & READ_ONLY) != 0,
		NQubit:          int(nqubit),
		SwapConjugation: (flags & SWAP_CONJUGATION) != 0,
	}

	cat, err := catalog.Open(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Object(pyCatalog{cat}), nil
}

type pyCatalog struct {
	goqnet.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if err := cat.Close(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.None, nil
}

func py_Catalog_LatestDepth(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	return py.Int(cat.LatestDepth()), nil
}

func py_Catalog_NumNetworks(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	var depth int32
	if err := py.LoadTuple(args, []interface{}{&depth}); err != nil {
		return nil, err
	}
	return py.Int(cat.NumNetworks(int(depth))), nil
}

func py_Catalog_Load(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	var depth int32
	if err := py.LoadTuple(args, []interface{}{&depth}); err != nil {
		return nil, err
	}
	rec, err := cat.LoadDepth(int(depth))
	if err != nil {
		return nil, py.ExceptionNewf(py.KeyError, "%v", err)
	}
	nets, err := rec.Decode()
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return networksToTuple(nets), nil
}

// Arg 1 (int): target depth
// Arg 2 (int, optional): SWAP_CONJUGATION | TIME_REVERSAL
//
// Resumes from the nearest stored depth not beyond the target (if any) and stores each new depth.
func py_Catalog_Enumerate(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	var depth, flags int32
	if err := py.LoadTuple(args, []interface{}{&depth, &flags}); err != nil {
		return nil, err
	}

	opts := goqnet.EnumOpts{
		NQubit:          cat.NQubit(),
		Depth:           int(depth),
		SwapConjugation: (flags & SWAP_CONJUGATION) != 0,
		TimeReversal:    (flags & TIME_REVERSAL) != 0,
		OnDepth:         cat.PutDepth,
	}
	rec, found, err := catalog.ResumeRecord(cat, opts.Depth)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	if found {
		opts.Resume = &rec
	}

	res, err := libqnet.Enumerate(context.Background(), opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	if !res.NoOp {
		if err = cat.PutFinal(goqnet.NewRecord(&opts, res.Depth, res.Networks, opts.TimeReversal)); err != nil {
			return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
		}
	}
	return networksToTuple(res.Networks), nil
}

type networkStream struct {
	*goqnet.NetworkStream
}

func (stream networkStream) Type() *py.Type {
	return pyNetworkStreamType
}

func wrapNetworkStream(stream *goqnet.NetworkStream) py.Object {
	return py.Object(networkStream{stream})
}

func py_NetworkStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(networkStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

func py_NetworkStream_Collect(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(networkStream)
	return networksToTuple(stream.Collect()), nil
}

func py_NetworkStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(networkStream)

	// Memory resident key set that gets auto-closed when the stream closes
	adder := libqnet.NewDropDupes(nil)
	next := stream.AddTo(adder, true)
	return wrapNetworkStream(next), nil
}

// Arg 1 (int): nqubit
func py_NetworkStream_Orbits(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(networkStream)
	var nqubit int32
	if err := py.LoadTuple(args, []interface{}{&nqubit}); err != nil {
		return nil, err
	}
	if nqubit < 2 || nqubit > goqnet.MaxQubits {
		return nil, py.ExceptionNewf(py.ValueError, "nqubit must be in 2..%d (got %d)", goqnet.MaxQubits, nqubit)
	}
	oracle := libqnet.NewOracle(int(nqubit))
	next := stream.Orbits(oracle.Orbit)
	return wrapNetworkStream(next), nil
}

var gOutCount = int32(0)

type stdoutWriter struct{}

func (stdoutWriter) Write(buf []byte) (int, error) { return os.Stdout.Write(buf) }
func (stdoutWriter) Close() error                  { return nil }

func py_NetworkStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(networkStream)
	var pathname string

	opts := goqnet.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	count := atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", count)
	}

	py.LoadAttr(kwargs, "edges", &opts.Edges)
	py.LoadAttr(kwargs, "file", &pathname)

	var out io.WriteCloser = stdoutWriter{}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		out = file
	}

	next := stream.Print(out, opts)
	return wrapNetworkStream(next), nil
}

func init() {

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["LatestDepth"] = py.MustNewMethod("LatestDepth", py_Catalog_LatestDepth, 0, "greatest depth stored, or -1")
		pyCatalogType.Dict["NumNetworks"] = py.MustNewMethod("NumNetworks", py_Catalog_NumNetworks, 0, "")
		pyCatalogType.Dict["Load"] = py.MustNewMethod("Load", py_Catalog_Load, 0, "returns the networks stored for a depth")
		pyCatalogType.Dict["Enumerate"] = py.MustNewMethod("Enumerate", py_Catalog_Enumerate, 0, "enumerates to a depth, resuming from and storing into this catalog")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
	}

	/////////////////////////////////
	// NetworkStream
	{
		pyNetworkStreamType.Dict["Go"] = py.MustNewMethod("Go", py_NetworkStream_Go, 0, "counts the number of networks output from the NetworkStream")
		pyNetworkStreamType.Dict["Collect"] = py.MustNewMethod("Collect", py_NetworkStream_Collect, 0, "returns the networks output from the NetworkStream")
		pyNetworkStreamType.Dict["Print"] = py.MustNewMethod("Print", py_NetworkStream_Print, 0, "prints each network from the NetworkStream")
		pyNetworkStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_NetworkStream_DropDupes, 0, "")
		pyNetworkStreamType.Dict["Orbits"] = py.MustNewMethod("Orbits", py_NetworkStream_Orbits, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("Enumerate", py_Enumerate, 0, "Enumerate(nqubit, depth, flags=0) -> one network per equivalence class"),
			py.MustNewMethod("IsEquivalent", py_IsEquivalent, 0, "IsEquivalent(a, b, nqubit) -> True if b is a qubit relabeling of a"),
			py.MustNewMethod("HasLongRun", py_HasLongRun, 0, "HasLongRun(net) -> True if net repeats a gate more than MAX_RUN times in a row"),
			py.MustNewMethod("SwapConjugates", py_SwapConjugates, 0, ""),
			py.MustNewMethod("Parse", py_Parse, 0, "Parse(expr, nqubit=0) -> gate tuple"),
			py.MustNewMethod("Stream", py_Stream, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION":      py.String(LIB_VERSION),
			"MAX_QUBITS":       py.Int(goqnet.MaxQubits),
			"MAX_RUN":          py.Int(goqnet.MaxRun),
			"SWAP_CONJUGATION": py.Int(SWAP_CONJUGATION),
			"TIME_REVERSAL":    py.Int(TIME_REVERSAL),
			"READ_ONLY":        py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pyqnet",
				Doc:  "two-qubit gate network enumeration",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
