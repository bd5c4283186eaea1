package main

import (
	"fmt"

	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/internal/testgrid"
	"github.com/pagoda-run/pagoda/proc"
)

// openInput resolves a --input name to a Dataset via the in-memory
// fixture registry (see main.go's package doc: no real netCDF decoder is
// wired, so named fixtures stand in for files).
func openInput(ctx *proc.Context, name string) (dataset.Dataset, error) {
	switch name {
	case "", "regular3x4":
		return testgrid.Regular3x4(ctx)
	default:
		return nil, fmt.Errorf("pagoda: unknown fixture %q (only \"regular3x4\" is registered)", name)
	}
}
