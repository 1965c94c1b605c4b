package main

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/2x3systems/goqnet/libqnet"
	"github.com/2x3systems/goqnet/libqnet/catalog"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

type enumArgs struct {
	workers  int
	resume   string
	catalog  string
	out      string
	dot      string
	swap     bool
	reversal bool
	metrics  string
	keySet   string
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func parseCount(name, val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.Wrapf(goqnet.ErrInvalidConfiguration, "%s %q is not an integer", name, val)
	}
	return n, nil
}

func parseKeySet(val string) (goqnet.KeySetKind, error) {
	switch val {
	case "", "memory":
		return goqnet.KeySetMemory, nil
	case "lsm":
		return goqnet.KeySetLSM, nil
	}
	return 0, errors.Wrapf(goqnet.ErrInvalidConfiguration, "unknown keyset %q", val)
}

func runEnum(cmd *cobra.Command, args *enumArgs, posArgs []string) error {
	nqubit, err := parseCount("nqubit", posArgs[0])
	if err != nil {
		return err
	}
	depth, err := parseCount("depth", posArgs[1])
	if err != nil {
		return err
	}
	keySet, err := parseKeySet(args.keySet)
	if err != nil {
		return err
	}

	opts := goqnet.EnumOpts{
		NQubit:          nqubit,
		Depth:           depth,
		Workers:         args.workers,
		SwapConjugation: args.swap,
		TimeReversal:    args.reversal,
		KeySet:          keySet,
	}
	if err = opts.Validate(); err != nil {
		return err
	}

	catCtx := goqnet.NewCatalogContext()
	defer func() {
		catCtx.Close()
		<-catCtx.Done()
	}()

	var cat goqnet.Catalog
	if args.catalog != "" {
		cat, err = catalog.Open(catCtx, goqnet.CatalogOpts{
			DbPathName:      args.catalog,
			NQubit:          nqubit,
			SwapConjugation: args.swap,
		})
		if err != nil {
			return errors.Wrapf(err, "opening catalog %q", args.catalog)
		}
		opts.OnDepth = cat.PutDepth
	}

	if args.resume != "" {
		rec, err := loadResume(catCtx, args.resume, depth, args.catalog, cat)
		if err != nil {
			return err
		}
		opts.Resume = &rec
	}

	var metrics *libqnet.Metrics
	if args.metrics != "" {
		metrics = libqnet.NewMetrics()
	}

	engine, err := libqnet.NewEngine(opts)
	if err != nil {
		return err
	}

	t0 := time.Now()
	res, err := engine.WithMetrics(metrics).Enumerate(cmd.Context())
	if err != nil {
		if res.Depth > 0 && cmd.Context().Err() != nil {
			klog.Warningf("stopped after depth %d (%s networks); resume with --resume", res.Depth, humanize.Comma(int64(len(res.Growth))))
		}
		return err
	}
	klog.V(1).Infof("nqubit=%d depth=%d: %s classes in %v", nqubit, res.Depth, humanize.Comma(int64(len(res.Networks))), time.Since(t0).Round(time.Millisecond))

	final := goqnet.NewRecord(&opts, res.Depth, res.Networks, opts.TimeReversal)
	if res.NoOp && opts.Resume != nil {
		final = *opts.Resume
	}

	if cat != nil && !res.NoOp {
		if err = cat.PutFinal(final); err != nil {
			return err
		}
	}

	if args.out != "" {
		if err = libqnet.WriteRecordFile(args.out, &final); err != nil {
			return err
		}
	} else {
		label := "n" + strconv.Itoa(nqubit) + "d" + strconv.Itoa(res.Depth)
		goqnet.StreamNetworks(res.Networks).
			Print(nopWriteCloser{cmd.OutOrStdout()}, goqnet.PrintOpts{Label: label, Edges: true}).
			PullAll()
	}

	if args.dot != "" {
		renderer := libqnet.DOTRenderer{Dir: args.dot}
		if err := renderer.Render(nqubit, res.Networks); err != nil {
			klog.Warningf("rendering to %q failed: %v", args.dot, err)
		}
	}

	if metrics != nil {
		if err = metrics.WriteTextfile(args.metrics); err != nil {
			return err
		}
	}
	return nil
}

// loadResume reads a resume record from a record file or a catalog dir.
//
// From a catalog, the stored record nearest to (and not beyond) the target depth is loaded.
func loadResume(catCtx goqnet.CatalogContext, pathname string, depth int, catalogPath string, cat goqnet.Catalog) (goqnet.Record, error) {
	info, err := os.Stat(pathname)
	if err != nil {
		return goqnet.Record{}, err
	}
	if !info.IsDir() {
		return libqnet.ReadRecordFile(pathname)
	}

	src := cat
	if cat == nil || !samePath(pathname, catalogPath) {
		src, err = catalog.Open(catCtx, goqnet.CatalogOpts{
			DbPathName: pathname,
			ReadOnly:   true,
		})
		if err != nil {
			return goqnet.Record{}, errors.Wrapf(err, "opening catalog %q", pathname)
		}
		defer src.Close()
	}

	rec, found, err := catalog.ResumeRecord(src, depth)
	if err == nil && !found {
		err = errors.Wrapf(goqnet.ErrDepthNotFound, "catalog %q is empty", pathname)
	}
	return rec, err
}

// samePath reports if a and b name the same directory.
func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(infoA, infoB)
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
