package ncio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/ncio"
	"github.com/pagoda-run/pagoda/ncio/memio"
	"github.com/pagoda-run/pagoda/proc"
)

func TestFileWriter_DefineThenWriteVar(t *testing.T) {
	ctx := proc.NewContext(1)
	xDim := dataset.NewDimension("x", 3, false)
	v := dataset.NewVariable("v", dtype.F64, []*dataset.Dimension{xDim})
	backend := memio.New()
	fw := ncio.NewWriter(ctx, backend)

	require.NoError(t, fw.Define([]*dataset.Dimension{xDim}, nil, []*dataset.Variable{v}))

	arr, err := darray.Create(ctx, dtype.F64, darray.Shape{3})
	require.NoError(t, err)
	require.NoError(t, arr.Put(dtype.NewNumBuffer([]float64{1, 2, 3}), []int64{0}, []int64{2}))

	require.NoError(t, fw.WriteVar("v", arr))
	require.NoError(t, fw.Close())
}

func TestFileWriter_Define_FailsIfCalledTwice(t *testing.T) {
	ctx := proc.NewContext(1)
	xDim := dataset.NewDimension("x", 2, false)
	backend := memio.New()
	fw := ncio.NewWriter(ctx, backend)
	require.NoError(t, fw.Define([]*dataset.Dimension{xDim}, nil, nil))
	require.Error(t, fw.Define([]*dataset.Dimension{xDim}, nil, nil))
}

func TestFileWriter_WriteVarRecord_TargetsFixedSlot(t *testing.T) {
	ctx := proc.NewContext(1)
	timeDim := dataset.NewDimension("time", 3, true)
	xDim := dataset.NewDimension("x", 2, false)
	v := dataset.NewVariable("v", dtype.F64, []*dataset.Dimension{timeDim, xDim})
	backend := memio.New()
	fw := ncio.NewWriter(ctx, backend)
	require.NoError(t, fw.Define([]*dataset.Dimension{timeDim, xDim}, nil, []*dataset.Variable{v}))

	rec, err := darray.Create(ctx, dtype.F64, darray.Shape{2})
	require.NoError(t, err)
	require.NoError(t, rec.Put(dtype.NewNumBuffer([]float64{7, 8}), []int64{0}, []int64{1}))
	require.NoError(t, fw.WriteVarRecord("v", 1, rec))

	fr, err := ncio.OpenReader(ctx, backend)
	require.NoError(t, err)
	got, _ := fr.GetVar("v", false)
	readBack, err := got.ReadRecord(ctx, 1)
	require.NoError(t, err)
	buf, err := readBack.Get([]int64{0}, []int64{1})
	require.NoError(t, err)
	nb := buf.(dtype.NumericBuffer)
	require.Equal(t, []float64{7, 8}, []float64{nb.GetF64(0), nb.GetF64(1)})
}

func TestFileWriter_IwriteVar_RequiresWaitToComplete(t *testing.T) {
	ctx := proc.NewContext(1)
	xDim := dataset.NewDimension("x", 2, false)
	v := dataset.NewVariable("v", dtype.F64, []*dataset.Dimension{xDim})
	backend := memio.New()
	fw := ncio.NewWriter(ctx, backend)
	require.NoError(t, fw.Define([]*dataset.Dimension{xDim}, nil, []*dataset.Variable{v}))

	arr, err := darray.Create(ctx, dtype.F64, darray.Shape{2})
	require.NoError(t, err)
	require.NoError(t, arr.Put(dtype.NewNumBuffer([]float64{4, 5}), []int64{0}, []int64{1}))

	require.NoError(t, fw.IwriteVar("v", arr))
	require.NoError(t, fw.Wait())

	fr, err := ncio.OpenReader(ctx, backend)
	require.NoError(t, err)
	got, _ := fr.GetVar("v", false)
	readBack, err := got.Read(ctx)
	require.NoError(t, err)
	buf, err := readBack.Get([]int64{0}, []int64{1})
	require.NoError(t, err)
	nb := buf.(dtype.NumericBuffer)
	require.Equal(t, []float64{4, 5}, []float64{nb.GetF64(0), nb.GetF64(1)})
}
