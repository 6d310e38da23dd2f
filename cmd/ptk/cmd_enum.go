package main

import (
	"context"
	"io"

	"github.com/2x3systems/ptk/libptk"
	"github.com/2x3systems/ptk/libptk/catalog"
	"github.com/2x3systems/ptk/ptk"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type enumOpts struct {
	paramsPath  string
	rangeExpr   string
	workers     int
	catalogPath string
	mass2       bool
}

func newEnumCmd() *cobra.Command {
	opts := enumOpts{}

	cmd := &cobra.Command{
		Use:   "enum",
		Short: "Enumerate admissible open string states over a range expression",
		Long: `Enumerates every state with non-negative mass-squared, in canonical order (level, m1, m2, w1, w2).

Range expressions name inclusive spans, e.g. "level=0..2 m=-1..1 w=0".  Omitted terms default to 0..0.
If --catalog is given, states are added to that catalog and only newly added states are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnum(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.paramsPath, "params", "", "YAML params file (defaults if omitted)")
	cmd.Flags().StringVar(&opts.rangeExpr, "range", "level=0..1 m=-1..1 w=0", "range expression")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "enumeration workers (0 for one per CPU)")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "catalog directory to add states to")
	cmd.Flags().BoolVar(&opts.mass2, "mass2", false, "also print mass-squared")
	return cmd
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

func runEnum(ctx context.Context, out io.Writer, opts enumOpts) error {
	p, err := ptk.LoadParams(opts.paramsPath)
	if err != nil {
		return err
	}

	rx, err := libptk.ParseRangeExpr(opts.rangeExpr)
	if err != nil {
		return err
	}

	catCtx := ptk.NewCatalogContext()
	defer func() {
		catCtx.Close()
		<-catCtx.Done()
	}()

	states, err := libptk.EnumerateStatesParallel(ctx, &p, rx.Levels, rx.M, rx.W, opts.workers)
	if err != nil {
		return errors.Wrap(err, "enumerating states")
	}

	stream := ptk.StreamStates(states)
	if len(opts.catalogPath) > 0 {
		cat, err := catalog.OpenCatalog(catCtx, ptk.CatalogOpts{
			DbPathName: opts.catalogPath,
			Params:     p,
		})
		if err != nil {
			return err
		}
		defer cat.Close()
		stream = stream.AddTo(cat)
	}

	printOpts := ptk.DefaultPrintOpts
	printOpts.Label = "state"
	printOpts.Mass2 = opts.mass2
	stream.Print(nopWriteCloser{out}, printOpts).PullAll()
	return nil
}
