package main

import (
	"time"

	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	_ "github.com/2x3systems/goqnet/pyqnet"
	_ "github.com/go-python/gpython/stdlib"
)

// runPython runs an enumeration script against the goqnet python module, or an interactive session if
// pathname is empty.  Catalogs the script leaves open are closed when the python context closes.
func runPython(pathname string) error {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	if pathname == "" {
		cli.RunREPL(repl.New(ctx))
		return nil
	}

	t0 := time.Now()
	klog.V(1).Infof("running %q", pathname)
	if _, err := py.RunFile(ctx, pathname, py.CompileOpts{}, nil); err != nil {
		py.TracebackDump(err)
		return errors.Wrapf(err, "script %q", pathname)
	}
	klog.V(1).Infof("%q finished in %v", pathname, time.Since(t0).Round(time.Millisecond))
	return nil
}
