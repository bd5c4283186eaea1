package memio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/proc"
)

func TestBackend_PutThenGetVaraAll_RoundTrips(t *testing.T) {
	xDim := dataset.NewDimension("x", 3, false)
	v := dataset.NewVariable("v", dtype.F64, []*dataset.Dimension{xDim})
	b := NewPopulated([]*dataset.Dimension{xDim}, nil, []*dataset.Variable{v})

	in := dtype.NewNumBuffer([]float64{1, 2, 3})
	require.NoError(t, b.PutVaraAll("v", []int64{0}, []int64{2}, in))

	out, err := b.GetVaraAll("v", []int64{0}, []int64{2})
	require.NoError(t, err)
	nb := out.(dtype.NumericBuffer)
	got := []float64{nb.GetF64(0), nb.GetF64(1), nb.GetF64(2)}
	require.Equal(t, []float64{1, 2, 3}, got)
}

func TestBackend_PutVaraAll_UnknownVariable(t *testing.T) {
	b := New()
	err := b.PutVaraAll("missing", []int64{0}, []int64{0}, dtype.NewNumBuffer([]float64{1}))
	require.Error(t, err)
}

func TestBackend_DefineTwiceFails(t *testing.T) {
	xDim := dataset.NewDimension("x", 2, false)
	b := New()
	require.NoError(t, b.Define([]*dataset.Dimension{xDim}, nil, nil))
	require.NoError(t, b.EndDef())
	require.Error(t, b.Define([]*dataset.Dimension{xDim}, nil, nil))
}

func TestBackend_WaitAllDrainsPending(t *testing.T) {
	xDim := dataset.NewDimension("x", 3, false)
	v := dataset.NewVariable("v", dtype.F64, []*dataset.Dimension{xDim})
	b := NewPopulated([]*dataset.Dimension{xDim}, nil, []*dataset.Variable{v})
	require.NoError(t, b.PutVaraAll("v", []int64{0}, []int64{2}, dtype.NewNumBuffer([]float64{5, 6, 7})))

	ctx := proc.NewContext(1)
	dst, err := darray.Create(ctx, dtype.F64, darray.Shape{3})
	require.NoError(t, err)

	require.NoError(t, b.IGetVara("v", []int64{0}, []int64{2}, dst, []int64{0}, []int64{2}))
	require.NoError(t, b.WaitAll())

	buf, err := dst.Get([]int64{0}, []int64{2})
	require.NoError(t, err)
	nb := buf.(dtype.NumericBuffer)
	got := []float64{nb.GetF64(0), nb.GetF64(1), nb.GetF64(2)}
	require.Equal(t, []float64{5, 6, 7}, got)
}
