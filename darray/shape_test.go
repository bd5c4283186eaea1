package darray

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShape_EqualAndNumElements(t *testing.T) {
	a := Shape{2, 3}
	b := Shape{2, 3}
	c := Shape{3, 2}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.Equal(t, int64(6), a.NumElements())
}

func TestShape_Clone_IsIndependentCopy(t *testing.T) {
	a := Shape{2, 3}
	b := a.Clone()
	b[0] = 99
	require.Equal(t, int64(2), a[0])
}

func TestRect_OwnsDataAndEmpty(t *testing.T) {
	r := Rect{Lo: []int64{0, 0}, Hi: []int64{2, 2}}
	require.True(t, r.OwnsData())
	require.Equal(t, int64(9), r.NumElements())

	empty := EmptyRect(2)
	require.False(t, empty.OwnsData())
	require.Equal(t, int64(0), empty.NumElements())
}

func TestRect_LocalShape(t *testing.T) {
	r := Rect{Lo: []int64{1, 0}, Hi: []int64{3, 4}}
	require.Equal(t, Shape{3, 5}, r.LocalShape())
}

func TestRect_Intersect(t *testing.T) {
	a := Rect{Lo: []int64{0, 0}, Hi: []int64{3, 3}}
	b := Rect{Lo: []int64{2, 2}, Hi: []int64{5, 5}}
	got, ok := a.Intersect(b)
	require.True(t, ok)
	require.Equal(t, []int64{2, 2}, got.Lo)
	require.Equal(t, []int64{3, 3}, got.Hi)

	c := Rect{Lo: []int64{10, 10}, Hi: []int64{12, 12}}
	_, ok = a.Intersect(c)
	require.False(t, ok)
}

func TestNoSplitLast_PinsFinalAxis(t *testing.T) {
	h := NoSplitLast(3)
	require.True(t, h.NoSplit[2])
	require.False(t, h.NoSplit[0])

	require.Empty(t, NoSplitLast(0).NoSplit)
}
