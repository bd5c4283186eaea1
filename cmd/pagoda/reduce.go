package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagoda-run/pagoda/darray"
)

var (
	reduceInput string
	reduceVar   string
	reduceAxis  int
)

// reduceRecordCmd is pgra's per-record reduction verb: sums a variable
// over one axis, collapsing it to size 1 (spec §4.1 reduce_sum).
var reduceRecordCmd = &cobra.Command{
	Use:   "reduce-record",
	Short: "Sum a variable over one axis",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openInput(pctx, reduceInput)
		if err != nil {
			return err
		}
		v, ok := ds.GetVar(reduceVar, true)
		if !ok {
			return fmt.Errorf("pagoda reduce-record: variable %q not found", reduceVar)
		}
		if reduceAxis < 0 || reduceAxis >= v.NDim() {
			return fmt.Errorf("pagoda reduce-record: axis %d out of range for %d-D variable %q", reduceAxis, v.NDim(), reduceVar)
		}

		arr, err := v.Read(pctx)
		if err != nil {
			return err
		}
		dstShape := append(darray.Shape(nil), arr.GetShape()...)
		dstShape[reduceAxis] = 0

		out, err := darray.ReduceSum(arr, dstShape, nil, nil)
		if err != nil {
			return err
		}
		fmt.Printf("reduce-record %s: input shape %s, output shape %s\n", reduceVar, arr.GetShape(), out.GetShape())
		return nil
	},
}

func init() {
	reduceRecordCmd.Flags().StringVar(&reduceInput, "input", "regular3x4", "input fixture name")
	reduceRecordCmd.Flags().StringVar(&reduceVar, "var", "", "variable to reduce (required)")
	reduceRecordCmd.Flags().IntVar(&reduceAxis, "axis", 0, "axis to reduce over")
	reduceRecordCmd.MarkFlagRequired("var")
}
