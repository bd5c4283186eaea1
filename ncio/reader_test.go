package ncio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/ncio"
	"github.com/pagoda-run/pagoda/ncio/memio"
	"github.com/pagoda-run/pagoda/proc"
)

func TestOpenReader_BindsOwnerAndReadsVar(t *testing.T) {
	ctx := proc.NewContext(1)
	xDim := dataset.NewDimension("x", 4, false)
	v := dataset.NewVariable("v", dtype.F64, []*dataset.Dimension{xDim})
	backend := memio.NewPopulated([]*dataset.Dimension{xDim}, nil, []*dataset.Variable{v})
	require.NoError(t, backend.PutVaraAll("v", []int64{0}, []int64{3}, dtype.NewNumBuffer([]float64{1, 2, 3, 4})))

	fr, err := ncio.OpenReader(ctx, backend)
	require.NoError(t, err)

	got, ok := fr.GetVar("v", false)
	require.True(t, ok)
	require.Equal(t, fr, got.Owner())

	arr, err := got.Read(ctx)
	require.NoError(t, err)
	buf, err := arr.Get([]int64{0}, []int64{3})
	require.NoError(t, err)
	nb := buf.(dtype.NumericBuffer)
	vals := []float64{nb.GetF64(0), nb.GetF64(1), nb.GetF64(2), nb.GetF64(3)}
	require.Equal(t, []float64{1, 2, 3, 4}, vals)
}

func TestFileReader_ReadVarRecord(t *testing.T) {
	ctx := proc.NewContext(1)
	timeDim := dataset.NewDimension("time", 3, true)
	xDim := dataset.NewDimension("x", 2, false)
	v := dataset.NewVariable("v", dtype.F64, []*dataset.Dimension{timeDim, xDim})
	backend := memio.NewPopulated([]*dataset.Dimension{timeDim, xDim}, nil, []*dataset.Variable{v})
	require.NoError(t, backend.PutVaraAll("v", []int64{0, 0}, []int64{2, 1}, dtype.NewNumBuffer([]float64{1, 2, 3, 4, 5, 6})))

	fr, err := ncio.OpenReader(ctx, backend)
	require.NoError(t, err)
	got, _ := fr.GetVar("v", false)

	rec, err := got.ReadRecord(ctx, 1)
	require.NoError(t, err)
	buf, err := rec.Get([]int64{0}, []int64{1})
	require.NoError(t, err)
	nb := buf.(dtype.NumericBuffer)
	require.Equal(t, []float64{3, 4}, []float64{nb.GetF64(0), nb.GetF64(1)})
}

func TestFileReader_ReadVarRecord_RequiresRecordDimension(t *testing.T) {
	ctx := proc.NewContext(1)
	xDim := dataset.NewDimension("x", 2, false)
	v := dataset.NewVariable("v", dtype.F64, []*dataset.Dimension{xDim})
	backend := memio.NewPopulated([]*dataset.Dimension{xDim}, nil, []*dataset.Variable{v})

	fr, err := ncio.OpenReader(ctx, backend)
	require.NoError(t, err)
	got, _ := fr.GetVar("v", false)
	_, err = got.ReadRecord(ctx, 0)
	require.Error(t, err)
}
