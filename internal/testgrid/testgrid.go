// Package testgrid builds small, deterministic in-memory Datasets shared
// across package tests: a handful of fixture builders reused by many
// tests instead of ad hoc setup duplicated per test.
package testgrid

import (
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/ncio"
	"github.com/pagoda-run/pagoda/ncio/memio"
	"github.com/pagoda-run/pagoda/proc"
)

// Regular3x4 returns a FileReader over a 3x4 regular lat/lon grid:
// lat = {0,10,20}, lon = {0,100,200,300}, temp[i,j] = 10*i+j, with a
// _FillValue of -999 on temp.
func Regular3x4(ctx *proc.Context) (*ncio.FileReader, error) {
	latDim := dataset.NewDimension("lat", 3, false)
	lonDim := dataset.NewDimension("lon", 4, false)

	latVar := dataset.NewVariable("lat", dtype.F64, []*dataset.Dimension{latDim})
	lonVar := dataset.NewVariable("lon", dtype.F64, []*dataset.Dimension{lonDim})
	tempVar := dataset.NewVariable("temp", dtype.F64, []*dataset.Dimension{latDim, lonDim})
	tempVar.Atts = []*dataset.Attribute{dataset.NewAttribute("_FillValue", dtype.NewNumBuffer([]float64{-999}))}

	backend := memio.NewPopulated(
		[]*dataset.Dimension{latDim, lonDim},
		nil,
		[]*dataset.Variable{latVar, lonVar, tempVar},
	)

	lat := dtype.NewNumBuffer([]float64{0, 10, 20})
	if err := backend.PutVaraAll("lat", []int64{0}, []int64{2}, lat); err != nil {
		return nil, err
	}
	lon := dtype.NewNumBuffer([]float64{0, 100, 200, 300})
	if err := backend.PutVaraAll("lon", []int64{0}, []int64{3}, lon); err != nil {
		return nil, err
	}
	temp := dtype.NewNumBuffer(make([]float64, 12))
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			temp.Raw()[i*4+j] = float64(10*i + j)
		}
	}
	if err := backend.PutVaraAll("temp", []int64{0, 0}, []int64{2, 3}, temp); err != nil {
		return nil, err
	}

	return ncio.OpenReader(ctx, backend)
}
