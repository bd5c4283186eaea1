package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagoda-run/pagoda/darray"
)

var (
	ensembleInputs []string
	ensembleVar    string
)

// reduceEnsembleCmd averages a variable across several member datasets
// (spec §4.4's aggregation feeding §4.1's reduce): unlike combine, which
// folds two or more inputs with an arbitrary elementwise op, this verb always
// computes the member-wise mean, matching the original's ensemble-reducer
// tool's one fixed reduction.
var reduceEnsembleCmd = &cobra.Command{
	Use:   "reduce-ensemble",
	Short: "Average a variable across ensemble members",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(ensembleInputs) == 0 {
			return fmt.Errorf("pagoda reduce-ensemble: need at least one --input")
		}
		var sum *darray.Array
		for _, name := range ensembleInputs {
			ds, err := openInput(pctx, name)
			if err != nil {
				return err
			}
			v, ok := ds.GetVar(ensembleVar, true)
			if !ok {
				return fmt.Errorf("pagoda reduce-ensemble: variable %q not found in %q", ensembleVar, name)
			}
			arr, err := v.Read(pctx)
			if err != nil {
				return err
			}
			if sum == nil {
				sum = arr
				continue
			}
			if err := sum.IAdd(arr); err != nil {
				return err
			}
		}
		scale, err := darray.Create(pctx, sum.Type(), sum.GetShape())
		if err != nil {
			return err
		}
		if err := scale.FillValue(float64(len(ensembleInputs))); err != nil {
			return err
		}
		if err := sum.IDiv(scale); err != nil {
			return err
		}
		fmt.Printf("reduce-ensemble %s: averaged %d members, shape %s\n", ensembleVar, len(ensembleInputs), sum.GetShape())
		return nil
	},
}

func init() {
	reduceEnsembleCmd.Flags().StringArrayVar(&ensembleInputs, "input", nil, "member fixture name (repeatable)")
	reduceEnsembleCmd.Flags().StringVar(&ensembleVar, "var", "", "variable to average (required)")
	reduceEnsembleCmd.MarkFlagRequired("var")
}
