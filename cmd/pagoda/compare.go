package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/pagoda-run/pagoda/dtype"
)

var (
	compareA    string
	compareB    string
	compareVar  string
	compareTol  float64
)

// compareCmd is pgcmp's file-compare verb: reads the same variable from two
// inputs and reports the maximum absolute difference, failing if it exceeds
// --tol (spec §4.9).
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a variable between two inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsA, err := openInput(pctx, compareA)
		if err != nil {
			return err
		}
		dsB, err := openInput(pctx, compareB)
		if err != nil {
			return err
		}
		vA, ok := dsA.GetVar(compareVar, true)
		if !ok {
			return fmt.Errorf("pagoda compare: variable %q not found in %q", compareVar, compareA)
		}
		vB, ok := dsB.GetVar(compareVar, true)
		if !ok {
			return fmt.Errorf("pagoda compare: variable %q not found in %q", compareVar, compareB)
		}
		if !vA.Shape().Equal(vB.Shape()) {
			return fmt.Errorf("pagoda compare: shape mismatch for %q: %s vs %s", compareVar, vA.Shape(), vB.Shape())
		}

		arrA, err := vA.Read(pctx)
		if err != nil {
			return err
		}
		arrB, err := vB.Read(pctx)
		if err != nil {
			return err
		}

		shape := vA.Shape()
		lo, hi := make([]int64, len(shape)), make([]int64, len(shape))
		for d, sz := range shape {
			hi[d] = sz - 1
		}
		bufA, err := arrA.Get(lo, hi)
		if err != nil {
			return err
		}
		bufB, err := arrB.Get(lo, hi)
		if err != nil {
			return err
		}
		nbA, okA := bufA.(dtype.NumericBuffer)
		nbB, okB := bufB.(dtype.NumericBuffer)
		if !okA || !okB {
			return fmt.Errorf("pagoda compare: variable %q is not numeric", compareVar)
		}

		var maxDiff float64
		for i := 0; i < nbA.Len(); i++ {
			d := math.Abs(nbA.GetF64(i) - nbB.GetF64(i))
			if d > maxDiff {
				maxDiff = d
			}
		}

		if maxDiff > compareTol {
			fmt.Printf("compare %s: FAIL, max abs diff %g exceeds tolerance %g\n", compareVar, maxDiff, compareTol)
			return fmt.Errorf("pagoda compare: %q differs beyond tolerance", compareVar)
		}
		fmt.Printf("compare %s: OK, max abs diff %g within tolerance %g\n", compareVar, maxDiff, compareTol)
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareA, "input-a", "", "first fixture name (required)")
	compareCmd.Flags().StringVar(&compareB, "input-b", "", "second fixture name (required)")
	compareCmd.Flags().StringVar(&compareVar, "var", "", "variable to compare (required)")
	compareCmd.Flags().Float64Var(&compareTol, "tol", 0, "maximum allowed absolute difference")
	compareCmd.MarkFlagRequired("input-a")
	compareCmd.MarkFlagRequired("input-b")
	compareCmd.MarkFlagRequired("var")
}
