package pack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/proc"
)

func buildMask(t *testing.T, ctx *proc.Context, keep []bool) *darray.Array {
	t.Helper()
	m, err := darray.Create(ctx, dtype.F64, darray.Shape{int64(len(keep))})
	require.NoError(t, err)
	vals := make([]float64, len(keep))
	for i, k := range keep {
		if k {
			vals[i] = 1
		}
	}
	require.NoError(t, m.Put(dtype.NewNumBuffer(vals), []int64{0}, []int64{int64(len(keep) - 1)}))
	return m
}

func buildSrc(t *testing.T, ctx *proc.Context, vals []float64) *darray.Array {
	t.Helper()
	src, err := darray.Create(ctx, dtype.F64, darray.Shape{int64(len(vals))})
	require.NoError(t, err)
	require.NoError(t, src.Put(dtype.NewNumBuffer(vals), []int64{0}, []int64{int64(len(vals) - 1)}))
	return src
}

// buildSrc2D fills a rows x cols array from row-major vals.
func buildSrc2D(t *testing.T, ctx *proc.Context, rows, cols int64, vals []float64) *darray.Array {
	t.Helper()
	src, err := darray.Create(ctx, dtype.F64, darray.Shape{rows, cols})
	require.NoError(t, err)
	require.NoError(t, src.Put(dtype.NewNumBuffer(vals), []int64{0, 0}, []int64{rows - 1, cols - 1}))
	return src
}

func TestPartialSum(t *testing.T) {
	ctx := proc.NewContext(3)
	mask := buildMask(t, ctx, []bool{true, false, true, true, false, true, false})

	exclusive, inclusive, total, err := PartialSum(ctx, mask)
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Equal(t, ctx.NumRanks, len(exclusive))
	require.Equal(t, ctx.NumRanks, len(inclusive))
	require.Equal(t, inclusive[ctx.NumRanks-1], total)
	for i := 1; i < ctx.NumRanks; i++ {
		require.Equal(t, exclusive[i], inclusive[i-1])
	}
}

func TestPack_1D(t *testing.T) {
	ctx := proc.NewContext(2)
	mask := buildMask(t, ctx, []bool{true, false, true, true, false})
	src := buildSrc(t, ctx, []float64{10, 20, 30, 40, 50})

	packed, err := Pack(ctx, src, []*darray.Array{mask})
	require.NoError(t, err)
	require.Equal(t, int64(3), packed.GetShape()[0])

	buf, err := packed.Get([]int64{0}, []int64{2})
	require.NoError(t, err)
	nb := buf.(dtype.NumericBuffer)
	got := []float64{nb.GetF64(0), nb.GetF64(1), nb.GetF64(2)}
	require.Equal(t, []float64{10, 30, 40}, got)
}

func TestUnpack_1D_IsPackLeftInverse(t *testing.T) {
	ctx := proc.NewContext(2)
	mask := buildMask(t, ctx, []bool{true, false, true, true, false})
	src := buildSrc(t, ctx, []float64{10, 20, 30, 40, 50})

	packed, err := Pack(ctx, src, []*darray.Array{mask})
	require.NoError(t, err)

	unpacked, err := Unpack(ctx, packed, []*darray.Array{mask}, -999)
	require.NoError(t, err)

	buf, err := unpacked.Get([]int64{0}, []int64{4})
	require.NoError(t, err)
	nb := buf.(dtype.NumericBuffer)
	got := make([]float64, nb.Len())
	for i := range got {
		got[i] = nb.GetF64(i)
	}
	require.Equal(t, []float64{10, -999, 30, 40, -999}, got)
}

func TestPack_ShapeMismatch(t *testing.T) {
	ctx := proc.NewContext(1)
	mask := buildMask(t, ctx, []bool{true, false})
	src := buildSrc(t, ctx, []float64{1, 2, 3})
	_, err := Pack(ctx, src, []*darray.Array{mask})
	require.Error(t, err)
}

func TestPack_MaskCountMismatchFails(t *testing.T) {
	ctx := proc.NewContext(1)
	mask := buildMask(t, ctx, []bool{true, false, true})
	src := buildSrc2D(t, ctx, 3, 2, []float64{1, 2, 3, 4, 5, 6})
	_, err := Pack(ctx, src, []*darray.Array{mask})
	require.Error(t, err)
}

// TestPack_2D_CellCorners mirrors the scenario 1 use of packing a 2-D
// cell_corners(cells,corners) variable against two independent masks at
// once (one per dimension).
func TestPack_2D_CellCorners(t *testing.T) {
	ctx := proc.NewContext(2)
	// 6 cells x 3 corners, row-major.
	vals := []float64{
		11, 12, 13,
		21, 22, 23,
		31, 32, 33,
		41, 42, 43,
		51, 52, 53,
		61, 62, 63,
	}
	src := buildSrc2D(t, ctx, 6, 3, vals)
	cellMask := buildMask(t, ctx, []bool{false, true, false, false, true, false}) // keep cells 1,4
	cornerMask := buildMask(t, ctx, []bool{true, false, true})                   // keep corners 0,2

	packed, err := Pack(ctx, src, []*darray.Array{cellMask, cornerMask})
	require.NoError(t, err)
	require.Equal(t, darray.Shape{2, 2}, packed.GetShape())

	buf, err := packed.Get([]int64{0, 0}, []int64{1, 1})
	require.NoError(t, err)
	nb := buf.(dtype.NumericBuffer)
	got := []float64{nb.GetF64(0), nb.GetF64(1), nb.GetF64(2), nb.GetF64(3)}
	// cell 1 -> corners 0,2 = 21,23; cell 4 -> corners 0,2 = 51,53.
	require.Equal(t, []float64{21, 23, 51, 53}, got)
}

func TestUnpack_2D_IsPackLeftInverse(t *testing.T) {
	ctx := proc.NewContext(2)
	vals := []float64{
		11, 12, 13,
		21, 22, 23,
		31, 32, 33,
		41, 42, 43,
		51, 52, 53,
		61, 62, 63,
	}
	src := buildSrc2D(t, ctx, 6, 3, vals)
	cellMask := buildMask(t, ctx, []bool{false, true, false, false, true, false})
	cornerMask := buildMask(t, ctx, []bool{true, false, true})

	packed, err := Pack(ctx, src, []*darray.Array{cellMask, cornerMask})
	require.NoError(t, err)

	unpacked, err := Unpack(ctx, packed, []*darray.Array{cellMask, cornerMask}, -1)
	require.NoError(t, err)
	require.Equal(t, darray.Shape{6, 3}, unpacked.GetShape())

	buf, err := unpacked.Get([]int64{1, 0}, []int64{1, 2})
	require.NoError(t, err)
	nb := buf.(dtype.NumericBuffer)
	require.Equal(t, []float64{21, -1, 23}, []float64{nb.GetF64(0), nb.GetF64(1), nb.GetF64(2)})

	buf, err = unpacked.Get([]int64{4, 0}, []int64{4, 2})
	require.NoError(t, err)
	nb = buf.(dtype.NumericBuffer)
	require.Equal(t, []float64{51, -1, 53}, []float64{nb.GetF64(0), nb.GetF64(1), nb.GetF64(2)})

	// A fully-dropped row (cell 0) is entirely fill value.
	buf, err = unpacked.Get([]int64{0, 0}, []int64{0, 2})
	require.NoError(t, err)
	nb = buf.(dtype.NumericBuffer)
	require.Equal(t, []float64{-1, -1, -1}, []float64{nb.GetF64(0), nb.GetF64(1), nb.GetF64(2)})
}

func TestUnpack_PackedCountMismatchFails(t *testing.T) {
	ctx := proc.NewContext(1)
	mask := buildMask(t, ctx, []bool{true, false, true})
	packed := buildSrc(t, ctx, []float64{1, 2, 3})
	_, err := Unpack(ctx, packed, []*darray.Array{mask}, 0)
	require.Error(t, err)
}
