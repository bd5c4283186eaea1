package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagoda-run/pagoda/darray"
)

var (
	combineInputs []string
	combineVar    string
	combineOp     string
)

// combineCmd is pgcombine's binary-combiner verb: folds a variable read
// from each of --input (repeated) together with the chosen elementwise
// operator (spec §4.1 iadd/isub/imul/idiv/imax/imin).
var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Elementwise-combine a variable across two or more inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(combineInputs) < 2 {
			return fmt.Errorf("pagoda combine: need at least two --input values, got %d", len(combineInputs))
		}
		var acc *darray.Array
		for _, name := range combineInputs {
			ds, err := openInput(pctx, name)
			if err != nil {
				return err
			}
			v, ok := ds.GetVar(combineVar, true)
			if !ok {
				return fmt.Errorf("pagoda combine: variable %q not found in %q", combineVar, name)
			}
			arr, err := v.Read(pctx)
			if err != nil {
				return err
			}
			if acc == nil {
				acc = arr
				continue
			}
			if err := applyOp(acc, arr, combineOp); err != nil {
				return err
			}
		}
		fmt.Printf("combine %s (%s): result shape %s\n", combineVar, combineOp, acc.GetShape())
		return nil
	},
}

func init() {
	combineCmd.Flags().StringArrayVar(&combineInputs, "input", nil, "input fixture name (repeatable, >=2)")
	combineCmd.Flags().StringVar(&combineVar, "var", "", "variable to combine (required)")
	combineCmd.Flags().StringVar(&combineOp, "op", "add", "add|sub|mul|div|max|min")
	combineCmd.MarkFlagRequired("var")
}

func applyOp(dst, src *darray.Array, op string) error {
	switch op {
	case "add":
		return dst.IAdd(src)
	case "sub":
		return dst.ISub(src)
	case "mul":
		return dst.IMul(src)
	case "div":
		return dst.IDiv(src)
	case "max":
		return dst.IMax(src)
	case "min":
		return dst.IMin(src)
	default:
		return fmt.Errorf("pagoda combine: unknown op %q", op)
	}
}
