package darray

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/proc"
)

func TestGetPut_RoundTripsWholeArray(t *testing.T) {
	ctx := proc.NewContext(3)
	a, err := Create(ctx, dtype.F64, Shape{6})
	require.NoError(t, err)

	require.NoError(t, a.Put(dtype.NewNumBuffer([]float64{10, 20, 30, 40, 50, 60}), []int64{0}, []int64{5}))
	require.Equal(t, []float64{10, 20, 30, 40, 50, 60}, getF64(t, a, []int64{0}, []int64{5}))
}

func TestGetPut_SubRectangle(t *testing.T) {
	ctx := proc.NewContext(2)
	a, err := Create(ctx, dtype.F64, Shape{3, 3})
	require.NoError(t, err)
	require.NoError(t, a.FillValue(0))

	require.NoError(t, a.Put(dtype.NewNumBuffer([]float64{1, 2}), []int64{1, 0}, []int64{1, 1}))
	require.Equal(t, []float64{1, 2}, getF64(t, a, []int64{1, 0}, []int64{1, 1}))
	require.Equal(t, []float64{0, 0, 0}, getF64(t, a, []int64{0, 0}, []int64{0, 2}))
}

func TestScatterGather_ExplicitSubscripts(t *testing.T) {
	ctx := proc.NewContext(2)
	a, err := Create(ctx, dtype.F64, Shape{4})
	require.NoError(t, err)
	require.NoError(t, a.FillValue(0))

	subs := [][]int64{{0}, {3}}
	require.NoError(t, a.Scatter(dtype.NewNumBuffer([]float64{5, 9}), subs))

	buf, err := a.Gather(subs)
	require.NoError(t, err)
	nb := buf.(dtype.NumericBuffer)
	require.Equal(t, float64(5), nb.GetF64(0))
	require.Equal(t, float64(9), nb.GetF64(1))
}

func TestScatter_SubscriptCountMismatchFails(t *testing.T) {
	ctx := proc.NewContext(1)
	a, err := Create(ctx, dtype.F64, Shape{4})
	require.NoError(t, err)
	err = a.Scatter(dtype.NewNumBuffer([]float64{1, 2, 3}), [][]int64{{0}, {1}})
	require.Error(t, err)
}

func TestCopy_WholeArrayCastsOnTypeMismatch(t *testing.T) {
	ctx := proc.NewContext(2)
	src, err := Create(ctx, dtype.I32, Shape{4})
	require.NoError(t, err)
	require.NoError(t, src.Put(dtype.NewNumBuffer([]int32{1, 2, 3, 4}), []int64{0}, []int64{3}))

	dst, err := Create(ctx, dtype.F64, Shape{4})
	require.NoError(t, err)
	require.NoError(t, dst.Copy(src))
	require.Equal(t, []float64{1, 2, 3, 4}, getF64(t, dst, []int64{0}, []int64{3}))
}

func TestCopy_ShapeMismatchFails(t *testing.T) {
	ctx := proc.NewContext(1)
	src, err := Create(ctx, dtype.F64, Shape{4})
	require.NoError(t, err)
	dst, err := Create(ctx, dtype.F64, Shape{5})
	require.NoError(t, err)
	require.Error(t, dst.Copy(src))
}

func TestCopyRect_ElementCountMismatchFails(t *testing.T) {
	ctx := proc.NewContext(1)
	src, err := Create(ctx, dtype.F64, Shape{4})
	require.NoError(t, err)
	dst, err := Create(ctx, dtype.F64, Shape{4})
	require.NoError(t, err)
	err = dst.CopyRect(src, []int64{0}, []int64{2}, []int64{0}, []int64{1})
	require.Error(t, err)
}
