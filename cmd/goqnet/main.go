package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Exit codes
const (
	exitOK          = 0
	exitFailure     = 1
	exitBadConfig   = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {

	// Load .env file if it exists
	_ = godotenv.Load()

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})
	defer klog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(fset)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, goqnet.ErrInvalidConfiguration):
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitBadConfig
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "interrupted:", err)
		return exitInterrupted
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitFailure
	}
}
