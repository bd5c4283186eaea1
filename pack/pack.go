// Package pack implements spec §4.5's Pack/Unpack/PartialSum/Enumerate: the
// collective prefix-sum algorithm that compacts a masked-out D-dimensional
// DistributedArray down to just its kept elements, and the inverse scatter
// that restores them. Grounded on darray's one-sided Get/Put/Access
// primitives and proc's Allgather, following the same "collective across
// every rank" discipline darray.Create uses.
package pack

import (
	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/pgerr"
	"github.com/pagoda-run/pagoda/proc"
)

// PartialSum computes, per rank, the exclusive and inclusive prefix sum of
// a 1-D mask array (spec §4.5 partial_sum): exclusive[r] is the number of
// kept cells owned by ranks < r, inclusive[r] adds rank r's own count. The
// total kept count across all ranks is also returned. PartialSum is
// itself collective: it fans out across every rank of ctx internally, so
// callers invoke it once (not once per rank).
func PartialSum(ctx *proc.Context, mask *darray.Array) (exclusive, inclusive []int64, total int64, err error) {
	if mask.GetShape().Rank() != 1 {
		return nil, nil, 0, pgerr.ShapeMismatch("partial_sum", "mask must be 1-D, got shape %s", mask.GetShape())
	}
	n := ctx.NumRanks
	cerr := ctx.Collective(func(rank int) error {
		var localCount int64
		r := mask.Rect(rank)
		if r.OwnsData() {
			buf, aerr := mask.Access(rank)
			if aerr != nil {
				return aerr
			}
			nb := buf.(dtype.NumericBuffer)
			for i := 0; i < nb.Len(); i++ {
				if nb.GetF64(i) != 0 {
					localCount++
				}
			}
			mask.Release(rank)
		}
		counts := proc.Allgather(ctx, rank, []int64{localCount})
		if len(counts) != n {
			return pgerr.New(pgerr.KindPagoda, "partial_sum", "allgather returned unexpected length")
		}
		if rank == proc.Rank0 {
			exclusive = make([]int64, n)
			inclusive = make([]int64, n)
			var running int64
			for i := 0; i < n; i++ {
				exclusive[i] = running
				running += counts[i]
				inclusive[i] = running
			}
			total = running
		}
		return nil
	})
	if cerr != nil {
		return nil, nil, 0, cerr
	}
	return exclusive, inclusive, total, nil
}

// Enumerate assigns every kept cell a dense 0-based index in global
// left-to-right order (spec §4.5 enumerate): dropped cells map to -1.
// exclusiveForRank is this rank's PartialSum exclusive prefix.
func Enumerate(rank int, mask *darray.Array, exclusiveForRank int64) ([]int64, error) {
	r := mask.Rect(rank)
	if !r.OwnsData() {
		return nil, nil
	}
	buf, err := mask.Access(rank)
	if err != nil {
		return nil, err
	}
	defer mask.Release(rank)
	nb := buf.(dtype.NumericBuffer)
	out := make([]int64, nb.Len())
	next := exclusiveForRank
	for i := 0; i < nb.Len(); i++ {
		if nb.GetF64(i) != 0 {
			out[i] = next
			next++
		} else {
			out[i] = -1
		}
	}
	return out, nil
}

// prefixArrays materializes spec §4.5 step 1's prefix_d: a dense 1-D array
// of the same length and distribution as mask, where exclusive[i] is the
// count of kept cells strictly before i and inclusive[i] additionally
// counts cell i itself when kept. Built on top of PartialSum's per-rank
// counts so the per-index running total only has to cross one rank
// boundary (at exclusiveForRank), not every element from index 0.
func prefixArrays(ctx *proc.Context, mask *darray.Array) (exclusive, inclusive *darray.Array, total int64, err error) {
	if mask.GetShape().Rank() != 1 {
		return nil, nil, 0, pgerr.ShapeMismatch("prefix_arrays", "mask must be 1-D, got shape %s", mask.GetShape())
	}
	rankExclusive, _, tot, perr := PartialSum(ctx, mask)
	if perr != nil {
		return nil, nil, 0, perr
	}
	excl, err := darray.Create(ctx, dtype.F64, mask.GetShape())
	if err != nil {
		return nil, nil, 0, err
	}
	incl, err := darray.Create(ctx, dtype.F64, mask.GetShape())
	if err != nil {
		return nil, nil, 0, err
	}
	cerr := ctx.Collective(func(rank int) error {
		r := mask.Rect(rank)
		if !r.OwnsData() {
			return nil
		}
		mbuf, err := mask.Access(rank)
		if err != nil {
			return err
		}
		defer mask.Release(rank)
		mnb := mbuf.(dtype.NumericBuffer)

		ebuf, err := excl.Access(rank)
		if err != nil {
			return err
		}
		defer excl.Release(rank)
		enb := ebuf.(dtype.NumericBuffer)

		ibuf, err := incl.Access(rank)
		if err != nil {
			return err
		}
		defer incl.Release(rank)
		inb := ibuf.(dtype.NumericBuffer)

		running := rankExclusive[rank]
		for i := 0; i < mnb.Len(); i++ {
			enb.SetF64(i, float64(running))
			if mnb.GetF64(i) != 0 {
				running++
			}
			inb.SetF64(i, float64(running))
		}
		return nil
	})
	if cerr != nil {
		return nil, nil, 0, cerr
	}
	return excl, incl, tot, nil
}

// localPackRect returns, for a rank owning local rectangle r of a D-dim
// source array, the destination rectangle [dstLo,dstHi] in R (spec §4.5
// step 2) and the per-dimension local kept counts, by gathering the head
// exclusive prefix at lo[d] and the tail inclusive prefix at hi[d] from
// each dimension's prefix arrays.
func localPackRect(r darray.Rect, exclusives, inclusives []*darray.Array) (dstLo, dstHi, localKept []int64, empty bool, err error) {
	d := len(r.Lo)
	dstLo = make([]int64, d)
	dstHi = make([]int64, d)
	localKept = make([]int64, d)
	for dim := 0; dim < d; dim++ {
		headBuf, herr := exclusives[dim].Get([]int64{r.Lo[dim]}, []int64{r.Lo[dim]})
		if herr != nil {
			return nil, nil, nil, false, herr
		}
		dstLo[dim] = int64(headBuf.(dtype.NumericBuffer).GetF64(0))

		tailBuf, terr := inclusives[dim].Get([]int64{r.Hi[dim]}, []int64{r.Hi[dim]})
		if terr != nil {
			return nil, nil, nil, false, terr
		}
		tail := int64(tailBuf.(dtype.NumericBuffer).GetF64(0))
		localKept[dim] = tail - dstLo[dim]
		if localKept[dim] == 0 {
			empty = true
		}
		dstHi[dim] = dstLo[dim] + localKept[dim] - 1
	}
	return dstLo, dstHi, localKept, empty, nil
}

// maskSlicesOver fetches, for each dimension d, the [r.Lo[d],r.Hi[d]]
// slice of masks[d] needed to test every local element's D mask bits.
func maskSlicesOver(r darray.Rect, masks []*darray.Array) ([]dtype.NumericBuffer, error) {
	out := make([]dtype.NumericBuffer, len(r.Lo))
	for dim := range r.Lo {
		buf, err := masks[dim].Get([]int64{r.Lo[dim]}, []int64{r.Hi[dim]})
		if err != nil {
			return nil, err
		}
		out[dim] = buf.(dtype.NumericBuffer)
	}
	return out, nil
}

// forEachKept walks lo..hi in row-major order and invokes fn with the
// local (0-based, relative to lo) coordinate tuple of every cell whose
// conjunction of D mask bits (maskSlices, already sliced to [lo,hi]) is
// true. Because each dimension's keep/drop decision is independent of the
// others, the kept tuples visited in row-major order over the full
// rectangle are themselves exactly the row-major order over the
// compacted (localKept-shaped) rectangle — no separate renumbering pass
// is needed.
func forEachKept(lo, hi []int64, maskSlices []dtype.NumericBuffer, fn func(local []int64)) {
	d := len(lo)
	if d == 0 {
		fn(nil)
		return
	}
	curr := append([]int64(nil), lo...)
	for {
		keep := true
		for dim := 0; dim < d; dim++ {
			if maskSlices[dim].GetF64(int(curr[dim]-lo[dim])) == 0 {
				keep = false
				break
			}
		}
		if keep {
			local := make([]int64, d)
			for dim := range local {
				local[dim] = curr[dim] - lo[dim]
			}
			fn(local)
		}
		dd := d - 1
		for dd >= 0 {
			curr[dd]++
			if curr[dd] <= hi[dd] {
				break
			}
			curr[dd] = lo[dd]
			dd--
		}
		if dd < 0 {
			return
		}
	}
}

// localOffset converts a local (0-based) coordinate within a rectangle of
// the given local shape into a flat row-major buffer offset, matching
// darray.Array's own local-buffer layout.
func localOffset(local []int64, shape darray.Shape) int {
	off := int64(0)
	for d := range local {
		off = off*shape[d] + local[d]
	}
	return int(off)
}

// Pack compacts src's kept elements into a freshly created D-dimensional
// array (spec §4.5 pack): given per-dimension masks m1,...,mD (one per
// axis of src, len(masks) == src.GetShape().Rank()), the destination R has
// shape (k1,...,kD) where k_d is m_d's kept count, and R's elements are
// src at every index tuple where every m_d[i_d] != 0, in lexicographic
// order. The three collective steps are: (1) prefixArrays (built on
// PartialSum) to learn, per dimension, every index's prefix position and
// the total kept count, (2) per rank, derive the destination rectangle
// from the head/tail of each dimension's prefix array, (3) stream the
// locally kept elements into a dense buffer and Put it at that
// rectangle. A single 1-D mask packs a 1-D array exactly as before.
func Pack(ctx *proc.Context, src *darray.Array, masks []*darray.Array) (*darray.Array, error) {
	shape := src.GetShape()
	d := shape.Rank()
	if len(masks) != d {
		return nil, pgerr.ShapeMismatch("pack", "src is rank %d but %d masks given", d, len(masks))
	}
	exclusives := make([]*darray.Array, d)
	inclusives := make([]*darray.Array, d)
	dstShape := make(darray.Shape, d)
	for dim, m := range masks {
		if m.GetShape().Rank() != 1 || m.GetShape()[0] != shape[dim] {
			return nil, pgerr.ShapeMismatch("pack", "mask %d must be 1-D of size %d, got shape %s", dim, shape[dim], m.GetShape())
		}
		excl, incl, total, err := prefixArrays(ctx, m)
		if err != nil {
			return nil, err
		}
		exclusives[dim], inclusives[dim] = excl, incl
		dstShape[dim] = total
	}

	dst, err := darray.Create(ctx, src.Type(), dstShape)
	if err != nil {
		return nil, err
	}

	cerr := ctx.Collective(func(rank int) error {
		r := src.Rect(rank)
		if !r.OwnsData() {
			return nil
		}
		dstLo, dstHi, localKept, empty, lerr := localPackRect(r, exclusives, inclusives)
		if lerr != nil {
			return lerr
		}
		if empty {
			return nil
		}
		maskSlices, merr := maskSlicesOver(r, masks)
		if merr != nil {
			return merr
		}

		srcBuf, aerr := src.Access(rank)
		if aerr != nil {
			return aerr
		}
		defer src.Release(rank)
		anyBuf := srcBuf.(dtype.AnyBuffer)
		localShape := r.LocalShape()

		dstCount := darray.Shape(localKept).NumElements()
		packedBuf, berr := dtype.NewBuffer(src.Type(), int(dstCount))
		if berr != nil {
			return berr
		}
		packedAny := packedBuf.(dtype.AnyBuffer)

		next := 0
		forEachKept(r.Lo, r.Hi, maskSlices, func(local []int64) {
			packedAny.SetAny(next, anyBuf.GetAny(localOffset(local, localShape)))
			next++
		})

		return dst.Put(packedBuf, dstLo, dstHi)
	})
	if cerr != nil {
		return nil, cerr
	}
	return dst, nil
}

// Unpack is Pack's left inverse (spec §4.5 unpack): given a dense array
// packed (the output of Pack) and the same per-dimension masks used to
// produce it, scatters packed's values back out to the kept cells of a
// freshly created array shaped (len(m1),...,len(mD)), filling every
// dropped cell with fillValue.
func Unpack(ctx *proc.Context, packed *darray.Array, masks []*darray.Array, fillValue float64) (*darray.Array, error) {
	d := len(masks)
	outShape := make(darray.Shape, d)
	exclusives := make([]*darray.Array, d)
	inclusives := make([]*darray.Array, d)
	packedShape := packed.GetShape()
	if packedShape.Rank() != d {
		return nil, pgerr.ShapeMismatch("unpack", "packed array is rank %d but %d masks given", packedShape.Rank(), d)
	}
	for dim, m := range masks {
		if m.GetShape().Rank() != 1 {
			return nil, pgerr.ShapeMismatch("unpack", "mask %d must be 1-D, got shape %s", dim, m.GetShape())
		}
		excl, incl, total, err := prefixArrays(ctx, m)
		if err != nil {
			return nil, err
		}
		if packedShape[dim] != total {
			return nil, pgerr.ShapeMismatch("unpack", "packed array has %d elements along dim %d, mask %d has %d kept cells", packedShape[dim], dim, dim, total)
		}
		exclusives[dim], inclusives[dim] = excl, incl
		outShape[dim] = m.GetShape()[0]
	}

	out, err := darray.Create(ctx, packed.Type(), outShape)
	if err != nil {
		return nil, err
	}
	if err := out.FillValue(fillValue); err != nil {
		return nil, err
	}

	cerr := ctx.Collective(func(rank int) error {
		r := out.Rect(rank)
		if !r.OwnsData() {
			return nil
		}
		srcLo, srcHi, localKept, empty, lerr := localPackRect(r, exclusives, inclusives)
		if lerr != nil {
			return lerr
		}
		if empty {
			return nil
		}
		maskSlices, merr := maskSlicesOver(r, masks)
		if merr != nil {
			return merr
		}

		packedBuf, gerr := packed.Get(srcLo, srcHi)
		if gerr != nil {
			return gerr
		}
		packedAny := packedBuf.(dtype.AnyBuffer)

		outBuf, oerr := out.Access(rank)
		if oerr != nil {
			return oerr
		}
		defer out.Release(rank)
		anyOut := outBuf.(dtype.AnyBuffer)
		localShape := r.LocalShape()

		// The fetched packed rectangle (shape localKept) is already laid
		// out row-major, and forEachKept visits kept cells in exactly that
		// same row-major order (see its comment), so a flat counter walks
		// both in lockstep without any coordinate translation.
		next := 0
		forEachKept(r.Lo, r.Hi, maskSlices, func(local []int64) {
			anyOut.SetAny(localOffset(local, localShape), packedAny.GetAny(next))
			next++
		})
		return nil
	})
	if cerr != nil {
		return nil, cerr
	}
	return out, nil
}
