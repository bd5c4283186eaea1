package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/mask"
	"github.com/pagoda-run/pagoda/pack"
	"github.com/pagoda-run/pagoda/selection"
)

var (
	subsetInput   string
	subsetVar     string
	subsetSlabs   []string
)

// subsetCmd is pgsub's Go-native equivalent: applies one or more
// IndexHyperslab selectors to a named variable's dimensions and packs the
// kept cells (spec §4.8/§4.5).
var subsetCmd = &cobra.Command{
	Use:   "subset",
	Short: "Subset a variable by index hyperslab and print the packed result",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openInput(pctx, subsetInput)
		if err != nil {
			return err
		}
		v, ok := ds.GetVar(subsetVar, true)
		if !ok {
			return fmt.Errorf("pagoda subset: variable %q not found", subsetVar)
		}

		mm := mask.NewMaskMap(pctx, ds)
		for _, s := range subsetSlabs {
			h, err := selection.ParseIndexHyperslab(s)
			if err != nil {
				return err
			}
			if err := mm.Modify(h.DimName, h); err != nil {
				return err
			}
		}

		masks := make([]*darray.Array, v.NDim())
		counts := make([]int64, v.NDim())
		for i, dim := range v.Dims {
			m, err := mm.Get(dim.Name)
			if err != nil {
				return err
			}
			masks[i] = m.Array()
			count, err := m.GetCount(pctx)
			if err != nil {
				return err
			}
			counts[i] = count
		}

		arr, err := v.Read(pctx)
		if err != nil {
			return err
		}
		packed, err := pack.Pack(pctx, arr, masks)
		if err != nil {
			return err
		}
		fmt.Printf("subset %s: kept counts %v of %v, packed shape %v\n", subsetVar, counts, v.Shape(), packed.GetShape())
		return nil
	},
}

func init() {
	subsetCmd.Flags().StringVar(&subsetInput, "input", "regular3x4", "input fixture name")
	subsetCmd.Flags().StringVar(&subsetVar, "var", "", "variable to subset (required)")
	subsetCmd.Flags().StringArrayVarP(&subsetSlabs, "dim", "d", nil, "index hyperslab, name[,min[,max[,stride]]] (repeatable)")
	subsetCmd.MarkFlagRequired("var")
}
