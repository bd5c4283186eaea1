package darray

import (
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/pgerr"
)

// rectIter calls fn once for every global index tuple in [lo,hi], in
// row-major (lexicographic) order.
func rectIter(lo, hi []int64, fn func(idx []int64)) {
	if len(lo) == 0 {
		fn(nil)
		return
	}
	idx := append([]int64(nil), lo...)
	for {
		fn(idx)
		d := len(idx) - 1
		for d >= 0 {
			idx[d]++
			if idx[d] <= hi[d] {
				break
			}
			idx[d] = lo[d]
			d--
		}
		if d < 0 {
			return
		}
	}
}

// Get is the one-sided fetch of spec §4.1: any rank may request any
// rectangle. Implemented by visiting every owning rank's local buffer
// directly, since pagoda's ranks are simulated within one Go process; the
// call is collective-safe (it never mutates shared state) though callers
// need not all request the same rectangle.
func (a *Array) Get(lo, hi []int64) (dtype.Buffer, error) {
	n := Rect{Lo: lo, Hi: hi}.NumElements()
	buf, err := dtype.NewBuffer(a.dtype, int(n))
	if err != nil {
		return nil, pgerr.Wrap(pgerr.KindDataType, "get", err)
	}
	dst := buf.(dtype.AnyBuffer)
	i := 0
	rectIter(lo, hi, func(idx []int64) {
		for r := range a.rects {
			if off, ok := a.localIndex(r, idx); ok {
				src := a.locals[r].(dtype.AnyBuffer)
				dst.SetAny(i, src.GetAny(off))
				break
			}
		}
		i++
	})
	return buf, nil
}

// Put is the one-sided store of spec §4.1: writes buf into the global
// rectangle [lo,hi]. Writes to overlapping rectangles from different
// requests are undefined, as specified.
func (a *Array) Put(buf dtype.Buffer, lo, hi []int64) error {
	src, ok := buf.(dtype.AnyBuffer)
	if !ok {
		return pgerr.DataTypeErr("put", "buffer type %s does not support element access", buf.Type())
	}
	i := 0
	rectIter(lo, hi, func(idx []int64) {
		for r := range a.rects {
			if off, ok := a.localIndex(r, idx); ok {
				dst := a.locals[r].(dtype.AnyBuffer)
				dst.SetAny(off, src.GetAny(i))
				break
			}
		}
		i++
	})
	return nil
}

// Scatter writes len(subscripts) values at the given explicit ndim-tuples
// (spec §4.1 scatter). buf must have one element per subscript.
func (a *Array) Scatter(buf dtype.Buffer, subscripts [][]int64) error {
	src, ok := buf.(dtype.AnyBuffer)
	if !ok {
		return pgerr.DataTypeErr("scatter", "buffer type %s does not support element access", buf.Type())
	}
	if src.Len() != len(subscripts) {
		return pgerr.ShapeMismatch("scatter", "buf has %d elements but %d subscripts given", src.Len(), len(subscripts))
	}
	for i, idx := range subscripts {
		for r := range a.rects {
			if off, ok := a.localIndex(r, idx); ok {
				dst := a.locals[r].(dtype.AnyBuffer)
				dst.SetAny(off, src.GetAny(i))
				break
			}
		}
	}
	return nil
}

// Gather reads len(subscripts) values from the given explicit ndim-tuples
// (spec §4.1 gather).
func (a *Array) Gather(subscripts [][]int64) (dtype.Buffer, error) {
	buf, err := dtype.NewBuffer(a.dtype, len(subscripts))
	if err != nil {
		return nil, pgerr.Wrap(pgerr.KindDataType, "gather", err)
	}
	dst := buf.(dtype.AnyBuffer)
	for i, idx := range subscripts {
		for r := range a.rects {
			if off, ok := a.localIndex(r, idx); ok {
				src := a.locals[r].(dtype.AnyBuffer)
				dst.SetAny(i, src.GetAny(off))
				break
			}
		}
	}
	return buf, nil
}

// FillValue broadcast-assigns scalar to every element of a, collectively
// (spec §4.1 fill_value).
func (a *Array) FillValue(scalar float64) error {
	return a.ctx.Collective(func(rank int) error {
		if !a.OwnsData(rank) {
			return nil
		}
		return dtype.Fill(a.locals[rank], scalar)
	})
}

// Copy patch-copies src into dst (spec §4.1 copy). The no-rectangle form
// copies the whole array (shapes must match); the rectangle form copies
// src[srcLo:srcHi] into dst[dstLo:dstHi] (same element count required). If
// types differ, elements are cast (dtype.Cast).
func (a *Array) Copy(src *Array) error {
	if !a.shape.Equal(src.shape) {
		return pgerr.ShapeMismatch("copy", "dst shape %s != src shape %s", a.shape, src.shape)
	}
	lo := make([]int64, a.shape.Rank())
	hi := make([]int64, a.shape.Rank())
	for d := range hi {
		hi[d] = a.shape[d] - 1
	}
	return a.CopyRect(src, lo, hi, lo, hi)
}

// CopyRect is the rectangle form of Copy.
func (a *Array) CopyRect(src *Array, srcLo, srcHi, dstLo, dstHi []int64) error {
	srcRect := Rect{Lo: srcLo, Hi: srcHi}
	dstRect := Rect{Lo: dstLo, Hi: dstHi}
	if srcRect.NumElements() != dstRect.NumElements() {
		return pgerr.ShapeMismatch("copy", "src rect has %d elements, dst rect has %d", srcRect.NumElements(), dstRect.NumElements())
	}
	buf, err := src.Get(srcLo, srcHi)
	if err != nil {
		return err
	}
	if buf.Type() != a.dtype {
		buf, err = dtype.Cast(buf, a.dtype)
		if err != nil {
			return pgerr.Wrap(pgerr.KindDataType, "copy", err)
		}
	}
	return a.Put(buf, dstLo, dstHi)
}
