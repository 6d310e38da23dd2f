package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ptk",
		Short:         "string-theory parameter kernel: state enumeration, catalogs and PTK graph validation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	rootCmd.PersistentFlags().AddGoFlagSet(fset)

	rootCmd.AddCommand(newEnumCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newPyCmd())
	return rootCmd
}

func main() {
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	err := newRootCmd().Execute()
	klog.Flush()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
