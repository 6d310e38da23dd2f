package main

import (
	"fmt"
	"io"
	"os"

	"github.com/2x3systems/ptk/libptk/catalog"
	"github.com/2x3systems/ptk/ptk"
	"github.com/2x3systems/ptk/ptkgraph"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

var errValidateFailed = errors.New("one or more PTK documents failed")

type validateOpts struct {
	paramsPath  string
	archivePath string
}

func newValidateCmd() *cobra.Command {
	opts := validateOpts{}

	cmd := &cobra.Command{
		Use:   "validate <ptk.json>...",
		Short: "Parse and validate PTK graph documents",
		Long: `Checks each document for unique node ids, resolvable edge endpoints, edge polarity of +1 or -1,
and opposite-polarity pairing of cross_sutra and special edges.  Every violation is reported.

If --archive is given, each valid document is stored (compressed, keyed by its blake3 digest) in that catalog.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.paramsPath, "params", "", "YAML params file the archive catalog is keyed to")
	cmd.Flags().StringVar(&opts.archivePath, "archive", "", "catalog directory to archive valid documents in")
	return cmd
}

func runValidate(out io.Writer, pathnames []string, opts validateOpts) error {
	var archive ptk.Catalog

	if len(opts.archivePath) > 0 {
		p, err := ptk.LoadParams(opts.paramsPath)
		if err != nil {
			return err
		}

		catCtx := ptk.NewCatalogContext()
		defer func() {
			catCtx.Close()
			<-catCtx.Done()
		}()

		archive, err = catalog.OpenCatalog(catCtx, ptk.CatalogOpts{
			DbPathName: opts.archivePath,
			Params:     p,
		})
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	failed := 0
	for _, pathname := range pathnames {
		if err := validateFile(out, pathname, archive); err != nil {
			fmt.Fprintf(out, "%s: FAIL\n  %v\n", pathname, err)
			failed++
		}
	}

	if failed > 0 {
		return errors.Wrapf(errValidateFailed, "%d of %d", failed, len(pathnames))
	}
	return nil
}

func validateFile(out io.Writer, pathname string, archive ptk.Catalog) error {
	raw, err := os.ReadFile(pathname)
	if err != nil {
		return err
	}

	doc, err := ptkgraph.Parse(raw)
	if err != nil {
		return err
	}
	if err = ptkgraph.Validate(doc).Err(); err != nil {
		return err
	}

	digest := ptkgraph.Digest(raw)
	if archive != nil {
		if digest, err = archive.PutDocument(raw); err != nil {
			return err
		}
		klog.V(2).Infof("archived %q as %s", pathname, digest)
	}

	fmt.Fprintf(out, "%s: OK (%d nodes, %d edges, %d groups)\n  blake3: %s\n",
		pathname, len(doc.Nodes), len(doc.Edges), len(doc.Groups), digest)
	return nil
}
