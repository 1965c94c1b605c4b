package main

import (
	"flag"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
)

// Environment defaults (optionally loaded from .env)
const (
	envWorkers = "GOQNET_WORKERS"
	envCatalog = "GOQNET_CATALOG"
)

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func envString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func newRootCmd(fset *flag.FlagSet) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "goqnet",
		Short:         "Enumerates equivalence classes of two-qubit gate networks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if fset != nil {
		rootCmd.PersistentFlags().AddGoFlagSet(fset)
	}

	rootCmd.AddCommand(
		newEnumCmd(),
		newReduceCmd(),
		newInfoCmd(),
		newRunCmd(),
	)
	return rootCmd
}

func newEnumCmd() *cobra.Command {
	args := &enumArgs{}
	cmd := &cobra.Command{
		Use:   "enum <nqubit> <depth>",
		Short: "Enumerates one network per equivalence class at the given depth",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			return runEnum(cmd, args, posArgs)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&args.workers, "workers", "w", envInt(envWorkers, 0), "parallel workers (0 denotes "+strconv.Itoa(runtime.NumCPU())+")")
	flags.StringVar(&args.resume, "resume", "", "record file or catalog dir to resume from")
	flags.StringVar(&args.catalog, "catalog", envString(envCatalog, ""), "catalog dir receiving each completed depth")
	flags.StringVarP(&args.out, "out", "o", "", "record file for the result (.json, .yaml or .msgpack); CSV to stdout if omitted")
	flags.StringVar(&args.dot, "dot", "", "dir receiving a Graphviz file per resulting network")
	flags.BoolVar(&args.swap, "swap", false, "collapse classes related by swap-conjugation")
	flags.BoolVar(&args.reversal, "reversal", false, "collapse classes related by time reversal")
	flags.StringVar(&args.metrics, "metrics", "", "file receiving prometheus metrics in textfile format")
	flags.StringVar(&args.keySet, "keyset", "memory", "accepted-key set: memory or lsm")
	return cmd
}

func newReduceCmd() *cobra.Command {
	args := &reduceArgs{}
	cmd := &cobra.Command{
		Use:   "reduce <record-file>",
		Short: "Removes equivalent networks from a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			return runReduce(cmd, args, posArgs[0])
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&args.workers, "workers", "w", envInt(envWorkers, 0), "parallel workers")
	flags.StringVarP(&args.out, "out", "o", "", "record file for the reduced set; CSV to stdout if omitted")
	flags.BoolVar(&args.swap, "swap", false, "also collapse by swap-conjugation")
	flags.BoolVar(&args.reversal, "reversal", false, "also collapse by time reversal")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <catalog-dir>",
		Short: "Lists the depths stored in a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			return runInfo(cmd, posArgs[0])
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [script.py]",
		Short: "Runs a python script with the _pyqnet module (REPL if no script is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			pathname := ""
			if len(posArgs) > 0 {
				pathname = posArgs[0]
			}
			return runPython(pathname)
		},
	}
}
