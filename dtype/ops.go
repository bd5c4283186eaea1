package dtype

import (
	"fmt"
	"math"
)

// BinaryOp applies op element-wise, in place, over dst using src as the
// right operand. dst and src must already share the same concrete Go type
// (the caller casts the right operand into a scratch buffer of the left's
// type first, per spec §4.1) and the same length.
func BinaryOp(dst, src Buffer, op func(a, b float64) float64) error {
	if dst.Type() != src.Type() {
		return fmt.Errorf("dtype: BinaryOp operands have different types %s and %s", dst.Type(), src.Type())
	}
	if dst.Len() != src.Len() {
		return fmt.Errorf("dtype: BinaryOp operands have different lengths %d and %d", dst.Len(), src.Len())
	}
	nd, ok := dst.(NumericBuffer)
	if !ok {
		return fmt.Errorf("dtype: BinaryOp requires a numeric buffer, got %s", dst.Type())
	}
	ns := src.(NumericBuffer)
	for i := 0; i < dst.Len(); i++ {
		nd.SetF64(i, op(nd.GetF64(i), ns.GetF64(i)))
	}
	return nil
}

func Add(a, b float64) float64 { return a + b }
func Sub(a, b float64) float64 { return a - b }
func Mul(a, b float64) float64 { return a * b }
func Div(a, b float64) float64 { return a / b }
func Max(a, b float64) float64 { return math.Max(a, b) }
func Min(a, b float64) float64 { return math.Min(a, b) }

// Pow raises every element of dst to the exponent, evaluated in double
// precision and cast back to dst's type (spec §4.1 ipow).
func Pow(dst Buffer, exponent float64) error {
	nd, ok := dst.(NumericBuffer)
	if !ok {
		return fmt.Errorf("dtype: Pow requires a numeric buffer, got %s", dst.Type())
	}
	for i := 0; i < dst.Len(); i++ {
		nd.SetF64(i, math.Pow(nd.GetF64(i), exponent))
	}
	return nil
}

// Fill broadcast-assigns scalar to every element of dst.
func Fill(dst Buffer, scalar float64) error {
	nd, ok := dst.(NumericBuffer)
	if !ok {
		return fmt.Errorf("dtype: Fill requires a numeric buffer, got %s", dst.Type())
	}
	for i := 0; i < dst.Len(); i++ {
		nd.SetF64(i, scalar)
	}
	return nil
}
