package dtype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCast_ProducesTargetTypeAndLength(t *testing.T) {
	testCases := []struct {
		name string
		src  Buffer
		dst  DataType
	}{
		{name: "i32 to f64", src: NewNumBuffer([]int32{1, -2, 3}), dst: F64},
		{name: "f64 to i32", src: NewNumBuffer([]float64{1.9, -2.1, 3.5}), dst: I32},
		{name: "u8 to i64", src: NewNumBuffer([]uint8{0, 255}), dst: I64},
		{name: "f32 to f32", src: NewNumBuffer([]float32{1.5, 2.5}), dst: F32},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Cast(tc.src, tc.dst)
			require.NoError(t, err)
			require.Equal(t, tc.dst, out.Type())
			require.Equal(t, tc.src.Len(), out.Len())
		})
	}
}

func TestCast_NonNumericCrossingFails(t *testing.T) {
	_, err := Cast(NewNumBuffer([]int32{1}), String)
	require.Error(t, err)
}

func TestBinaryOp_RequiresMatchingTypeAndLength(t *testing.T) {
	a := NewNumBuffer([]float64{1, 2, 3})
	b := NewNumBuffer([]int32{1, 2, 3})
	require.Error(t, BinaryOp(a, b, Add))

	c := NewNumBuffer([]float64{1, 2})
	require.Error(t, BinaryOp(a, c, Add))
}

func TestBinaryOp_Add(t *testing.T) {
	a := NewNumBuffer([]float64{1, 2, 3})
	b := NewNumBuffer([]float64{10, 20, 30})
	require.NoError(t, BinaryOp(a, b, Add))
	require.Equal(t, []float64{11, 22, 33}, a.Raw())
}

func TestFill(t *testing.T) {
	a := MakeNumBuffer[float64](4)
	require.NoError(t, Fill(a, 7))
	require.Equal(t, []float64{7, 7, 7, 7}, a.Raw())
}

func TestDataType_Numeric(t *testing.T) {
	require.True(t, F64.Numeric())
	require.False(t, Char.Numeric())
	require.False(t, String.Numeric())
}

func TestDataType_NCRoundTrip(t *testing.T) {
	for _, dt := range []DataType{I8, I16, I32, I64, U8, U16, U32, U64, F32, F64, Char, String} {
		nc, ok := dt.ToNC()
		require.True(t, ok, "DataType %s should map to an NCType", dt)
		back, ok := FromNC(nc)
		require.True(t, ok)
		require.Equal(t, dt, back)
	}
}

func TestDataType_F80HasNoNCType(t *testing.T) {
	_, ok := F80.ToNC()
	require.False(t, ok)
}

func TestCharBuffer_WrapsExistingData(t *testing.T) {
	b := NewCharBuffer([]byte("abc"))
	require.Equal(t, Char, b.Type())
	require.Equal(t, 3, b.Len())
	require.Equal(t, "abc", string(b.Raw()))

	sliced := b.Slice(1, 3).(*CharBuffer)
	require.Equal(t, "bc", string(sliced.Raw()))
}
