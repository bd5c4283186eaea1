// Command pagoda is the CLI surface of spec §6: a single binary exposing
// the subsetter, per-record reducer, binary combiner, ensemble reducer,
// and file-compare verbs as cobra subcommands, grounded on
// junjiewwang-perf-analysis's cmd/cli/cmd root-command layout (root.go's
// PersistentPreRunE bootstrap, one file per subcommand).
//
// Every verb here is intentionally thin: flag parsing and wiring only,
// since the actual subsetting/reduction/aggregation semantics live in
// mask/pack/aggregate/darray and are exercised directly (and far more
// thoroughly) by those packages' tests. Because no real netCDF/HDF5
// client library exists anywhere in the retrieved example pack (see
// ncio/backend.go), these verbs operate against ncio/memio's in-memory
// reference backend via a small named-fixture registry rather than real
// files — the wiring a real Backend would need is identical, only the
// byte-level codec is out of reach without fabricating a dependency.
package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/pagoda-run/pagoda/proc"
)

var (
	numRanks  int
	numGroups int
	pctx      *proc.Context
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("pagoda: %+v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pagoda",
	Short: "Parallel subsetting, aggregation, and reduction for gridded array datasets",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		pctx = proc.NewContext(numRanks)
		if numGroups > 1 {
			pctx.Collective(func(rank int) error {
				groupIdx, _, ranksPerGroup := pctx.PartitionRanks(rank, numGroups)
				fmt.Printf("rank %d: group %d of %d (%d ranks/group)\n", rank, groupIdx, numGroups, ranksPerGroup)
				return nil
			})
		}
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&numRanks, "ranks", 1, "number of simulated SPMD ranks")
	rootCmd.PersistentFlags().IntVar(&numGroups, "groups", 1, "split ranks into this many independent I/O groups")
	rootCmd.AddCommand(subsetCmd, reduceRecordCmd, combineCmd, reduceEnsembleCmd, compareCmd)
}
