package darray

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/proc"
)

func buildF64(t *testing.T, ctx *proc.Context, shape Shape, vals []float64) *Array {
	t.Helper()
	a, err := Create(ctx, dtype.F64, shape)
	require.NoError(t, err)
	lo := make([]int64, shape.Rank())
	hi := make([]int64, shape.Rank())
	for d := range hi {
		hi[d] = shape[d] - 1
	}
	require.NoError(t, a.Put(dtype.NewNumBuffer(vals), lo, hi))
	return a
}

func TestIAdd_ElementwiseAccumulates(t *testing.T) {
	ctx := proc.NewContext(2)
	a := buildF64(t, ctx, Shape{4}, []float64{1, 2, 3, 4})
	b := buildF64(t, ctx, Shape{4}, []float64{10, 10, 10, 10})
	require.NoError(t, a.IAdd(b))
	require.Equal(t, []float64{11, 12, 13, 14}, getF64(t, a, []int64{0}, []int64{3}))
}

func TestIAdd_ShapeMismatchFails(t *testing.T) {
	ctx := proc.NewContext(1)
	a := buildF64(t, ctx, Shape{4}, []float64{1, 2, 3, 4})
	b := buildF64(t, ctx, Shape{3}, []float64{1, 2, 3})
	require.Error(t, a.IAdd(b))
}

func TestISubIMulIDiv(t *testing.T) {
	ctx := proc.NewContext(1)
	a := buildF64(t, ctx, Shape{3}, []float64{10, 10, 10})
	b := buildF64(t, ctx, Shape{3}, []float64{2, 5, 1})

	require.NoError(t, a.ISub(b))
	require.Equal(t, []float64{8, 5, 9}, getF64(t, a, []int64{0}, []int64{2}))

	c := buildF64(t, ctx, Shape{3}, []float64{2, 2, 2})
	require.NoError(t, a.IMul(c))
	require.Equal(t, []float64{16, 10, 18}, getF64(t, a, []int64{0}, []int64{2}))

	d := buildF64(t, ctx, Shape{3}, []float64{2, 5, 3})
	require.NoError(t, a.IDiv(d))
	require.Equal(t, []float64{8, 2, 6}, getF64(t, a, []int64{0}, []int64{2}))
}

func TestIMaxIMin(t *testing.T) {
	ctx := proc.NewContext(1)
	b := buildF64(t, ctx, Shape{3}, []float64{4, 2, 3})

	max := buildF64(t, ctx, Shape{3}, []float64{1, 5, 3})
	require.NoError(t, max.IMax(b))
	require.Equal(t, []float64{4, 5, 3}, getF64(t, max, []int64{0}, []int64{2}))

	min := buildF64(t, ctx, Shape{3}, []float64{1, 5, 3})
	require.NoError(t, min.IMin(b))
	require.Equal(t, []float64{1, 2, 3}, getF64(t, min, []int64{0}, []int64{2}))
}

func TestIPow_RaisesEveryElement(t *testing.T) {
	ctx := proc.NewContext(1)
	a := buildF64(t, ctx, Shape{3}, []float64{2, 3, 4})
	require.NoError(t, a.IPow(2))
	require.Equal(t, []float64{4, 9, 16}, getF64(t, a, []int64{0}, []int64{2}))
}

func TestFillValue_SkipsSentinelRightOperand(t *testing.T) {
	ctx := proc.NewContext(1)
	a := buildF64(t, ctx, Shape{3}, []float64{1, 1, 1})
	b := buildF64(t, ctx, Shape{3}, []float64{5, -999, 7})

	a.SetFillValue(-999)
	require.NoError(t, a.IAdd(b))
	a.ClearFillValue()
	require.Equal(t, []float64{6, 1, 8}, getF64(t, a, []int64{0}, []int64{2}))
}

func TestFillValue_TalliesNonMissingContributions(t *testing.T) {
	ctx := proc.NewContext(1)
	a := buildF64(t, ctx, Shape{3}, []float64{0, 0, 0})
	tally := buildF64(t, ctx, Shape{3}, []float64{0, 0, 0})
	b := buildF64(t, ctx, Shape{3}, []float64{5, -999, 7})

	a.SetFillValue(-999)
	a.SetCounter(tally)
	require.NoError(t, a.IAdd(b))
	require.Equal(t, []float64{1, 0, 1}, getF64(t, tally, []int64{0}, []int64{2}))
}
