package darray

import "github.com/pagoda-run/pagoda/pgerr"

// Transpose returns a new array whose axes are permuted per axes (a
// permutation of {0,...,ndim-1}) and optionally reversed per axis (spec
// §4.1 transpose). Element (i_0,...,i_{n-1}) of the result equals element
// (j_0,...,j_{n-1}) of the source where j_{axes[d]} is i_d, reversed along
// any axis d with reverse[d] set.
func (a *Array) Transpose(axes []int, reverse []bool) (*Array, error) {
	n := a.shape.Rank()
	if len(axes) != n {
		return nil, pgerr.ShapeMismatch("transpose", "axes has %d entries, array has rank %d", len(axes), n)
	}
	seen := make([]bool, n)
	for _, ax := range axes {
		if ax < 0 || ax >= n || seen[ax] {
			return nil, pgerr.Command("transpose", "axes %v is not a permutation of 0..%d", axes, n-1)
		}
		seen[ax] = true
	}
	if reverse == nil {
		reverse = make([]bool, n)
	}

	newShape := make(Shape, n)
	for d := 0; d < n; d++ {
		newShape[d] = a.shape[axes[d]]
	}

	out, err := Create(a.ctx, a.dtype, newShape)
	if err != nil {
		return nil, err
	}

	err = a.ctx.Collective(func(rank int) error {
		r := out.rects[rank]
		if !r.OwnsData() {
			return nil
		}
		var perRowErr error
		rectIter(r.Lo, r.Hi, func(newIdx []int64) {
			if perRowErr != nil {
				return
			}
			srcIdx := make([]int64, n)
			for d := 0; d < n; d++ {
				v := newIdx[d]
				if reverse[d] {
					v = newShape[d] - 1 - v
				}
				srcIdx[axes[d]] = v
			}
			buf, err := a.Get(srcIdx, srcIdx)
			if err != nil {
				perRowErr = err
				return
			}
			if err := out.Put(buf, newIdx, newIdx); err != nil {
				perRowErr = err
			}
		})
		return perRowErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
