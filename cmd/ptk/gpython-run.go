package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	_ "github.com/2x3systems/ptk/pyptk"
	_ "github.com/go-python/gpython/stdlib"
)

const replStartup = "lib/_REPL_startup.py"

func newPyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "py [script.py]",
		Short: "Run a python script (or a REPL) with the _ptk module importable",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pathname := ""
			if len(args) > 0 {
				pathname = args[0]
			}
			return go_gpython(pathname)
		},
	}
}

func go_gpython(pathname string) error {
	ctx := py.NewContext(py.DefaultContextOpts())

	var (
		err error
	)
	if len(pathname) == 0 {
		replCtx := repl.New(ctx)

		if _, statErr := os.Stat(replStartup); statErr == nil {
			_, err = py.RunFile(ctx, replStartup, py.CompileOpts{}, replCtx.Module)
		}
		if err == nil {
			cli.RunREPL(replCtx)
		}

	} else {
		startTime := time.Now()
		klog.V(2).Infof("executing '%s'", pathname)

		opts := py.CompileOpts{}
		if filepath.IsAbs(pathname) {
			// gpython resolves run paths against CurDir
			opts.CurDir = "/"
		}
		_, err = py.RunFile(ctx, pathname, opts, nil)

		if err == nil {
			klog.V(2).Infof("execution complete: %v", time.Since(startTime))
		}
	}

	ctx.Close()
	<-ctx.Done()

	if err != nil {
		py.TracebackDump(err)
		return errors.Wrapf(err, "running %q", pathname)
	}
	return nil
}
