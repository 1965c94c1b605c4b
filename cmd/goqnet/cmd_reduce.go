package main

import (
	"fmt"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/2x3systems/goqnet/libqnet"
	"github.com/2x3systems/goqnet/libqnet/catalog"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

type reduceArgs struct {
	workers  int
	out      string
	swap     bool
	reversal bool
}

func runReduce(cmd *cobra.Command, args *reduceArgs, pathname string) error {
	rec, err := libqnet.ReadRecordFile(pathname)
	if err != nil {
		return err
	}

	// Malformed entries fail here rather than being reduced away.
	nets, err := rec.Decode()
	if err != nil {
		return errors.Wrapf(err, "%q", pathname)
	}

	reduced, err := libqnet.ReduceBatch(cmd.Context(), nets, args.workers)
	if err != nil {
		return err
	}

	var gens libqnet.Generators
	if args.swap || rec.SwapConjugation {
		gens |= libqnet.GenSwapConjugation
	}
	if args.reversal || rec.TimeReversal {
		gens |= libqnet.GenTimeReversal
	}
	reduced, err = libqnet.Collapse(cmd.Context(), reduced, gens, args.workers)
	if err != nil {
		return err
	}

	klog.V(1).Infof("%s: %s networks reduce to %s", pathname, humanize.Comma(int64(len(nets))), humanize.Comma(int64(len(reduced))))

	opts := goqnet.EnumOpts{
		NQubit:          rec.NQubit,
		SwapConjugation: gens&libqnet.GenSwapConjugation != 0,
	}
	out := goqnet.NewRecord(&opts, rec.Depth, reduced, gens&libqnet.GenTimeReversal != 0)

	if args.out != "" {
		return libqnet.WriteRecordFile(args.out, &out)
	}
	goqnet.StreamNetworks(reduced).
		Print(nopWriteCloser{cmd.OutOrStdout()}, goqnet.PrintOpts{Label: "reduced", Edges: true}).
		PullAll()
	return nil
}

func runInfo(cmd *cobra.Command, pathname string) error {
	catCtx := goqnet.NewCatalogContext()
	defer func() {
		catCtx.Close()
		<-catCtx.Done()
	}()

	cat, err := catalog.Open(catCtx, goqnet.CatalogOpts{
		DbPathName: pathname,
		ReadOnly:   true,
	})
	if err != nil {
		return errors.Wrapf(err, "opening catalog %q", pathname)
	}
	defer cat.Close()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run:    %s\n", cat.RunID())
	fmt.Fprintf(w, "nqubit: %d\n", cat.NQubit())
	for depth := 0; depth <= cat.LatestDepth(); depth++ {
		if n := cat.NumNetworks(depth); n > 0 {
			fmt.Fprintf(w, "depth %2d: %s networks\n", depth, humanize.Comma(n))
		}
	}
	if final, err := cat.LoadFinal(); err == nil {
		fmt.Fprintf(w, "final depth %d: %s networks (time reversal: %v)\n", final.Depth, humanize.Comma(int64(len(final.Networks))), final.TimeReversal)
	}
	return nil
}
