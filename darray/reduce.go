package darray

import (
	"sync"

	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/pgerr"
)

// ReduceSum sums src into a freshly created array along the axes dstShape
// marks with 0 (spec §4.1 reduce_sum: "dst_shape is src_shape with reduced
// axes set to 0"); the created array keeps src's rank, with reduced axes
// collapsed to size 1 (a conventional "keepdims" reduction). An optional
// mask (kept cells contribute, dropped cells don't) and weight array
// (elementwise multiplier) may be given, each broadcast across the
// reduction by sharing src's full shape.
func ReduceSum(src *Array, dstShape Shape, mask, weight *Array) (*Array, error) {
	n := src.shape.Rank()
	if len(dstShape) != n {
		return nil, pgerr.ShapeMismatch("reduce_sum", "dst_shape has %d axes, src has rank %d", len(dstShape), n)
	}
	if mask != nil && !mask.shape.Equal(src.shape) {
		return nil, pgerr.ShapeMismatch("reduce_sum", "mask shape %s != src shape %s", mask.shape, src.shape)
	}
	if weight != nil && !weight.shape.Equal(src.shape) {
		return nil, pgerr.ShapeMismatch("reduce_sum", "weight shape %s != src shape %s", weight.shape, src.shape)
	}

	reduced := make([]bool, n)
	outShape := make(Shape, n)
	for d := 0; d < n; d++ {
		if dstShape[d] == 0 {
			reduced[d] = true
			outShape[d] = 1
		} else {
			outShape[d] = dstShape[d]
		}
	}

	out, err := Create(src.ctx, src.dtype, outShape)
	if err != nil {
		return nil, err
	}
	if err := out.FillValue(0); err != nil {
		return nil, err
	}

	total := int(outShape.NumElements())
	acc := make([]float64, total)
	var mu sync.Mutex

	err = src.ctx.Collective(func(rank int) error {
		r := src.rects[rank]
		if !r.OwnsData() {
			return nil
		}
		local := make([]float64, total)
		snb := src.locals[rank].(dtype.NumericBuffer)
		var mnb, wnb dtype.NumericBuffer
		if mask != nil {
			mnb = mask.locals[rank].(dtype.NumericBuffer)
		}
		if weight != nil {
			wnb = weight.locals[rank].(dtype.NumericBuffer)
		}
		outIdx := make([]int64, n)
		rectIter(r.Lo, r.Hi, func(idx []int64) {
			off, _ := src.localIndex(rank, idx)
			if mnb != nil && mnb.GetF64(off) == 0 {
				return
			}
			v := snb.GetF64(off)
			if wnb != nil {
				v *= wnb.GetF64(off)
			}
			for d := 0; d < n; d++ {
				if reduced[d] {
					outIdx[d] = 0
				} else {
					outIdx[d] = idx[d]
				}
			}
			local[flattenIndex(outIdx, outShape)] += v
		})
		mu.Lock()
		for i, v := range local {
			acc[i] += v
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = out.ctx.Collective(func(rank int) error {
		r := out.rects[rank]
		if !r.OwnsData() {
			return nil
		}
		dnb := out.locals[rank].(dtype.NumericBuffer)
		rectIter(r.Lo, r.Hi, func(idx []int64) {
			off, _ := out.localIndex(rank, idx)
			dnb.SetF64(off, acc[flattenIndex(idx, outShape)])
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func flattenIndex(idx []int64, shape Shape) int {
	off := int64(0)
	for d := range idx {
		off = off*shape[d] + idx[d]
	}
	return int(off)
}
