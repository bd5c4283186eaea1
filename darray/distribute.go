package darray

// distribute computes a block distribution of shape across numRanks ranks,
// splitting exactly one axis (the first axis not pinned by hint, whatever
// its size, so axis 0 — usually the record axis — when nothing is pinned)
// into numRanks contiguous blocks. Ranks past the
// point where blocks would be empty get the canonical non-owning
// rectangle (spec §4.1(b)).
//
// This satisfies §4.1(a): the union of all ranks' rectangles exactly tiles
// the global shape, since every axis other than the split axis is left
// whole on every rank, and the split axis's blocks are contiguous and
// disjoint and cover [0,size).
func distribute(shape Shape, numRanks int, hint ChunkHint) []Rect {
	rects := make([]Rect, numRanks)
	if shape.Rank() == 0 {
		// Scalar: rank 0 owns it, everyone else owns nothing.
		for r := 0; r < numRanks; r++ {
			if r == 0 {
				rects[r] = Rect{}
			} else {
				rects[r] = EmptyRect(0)
			}
		}
		return rects
	}

	splitAxis := pickSplitAxis(shape, hint)

	full := make([]Rect, 0) // unused placeholder to keep gofmt happy
	_ = full

	for r := 0; r < numRanks; r++ {
		lo := make([]int64, shape.Rank())
		hi := make([]int64, shape.Rank())
		for d := 0; d < shape.Rank(); d++ {
			if d == splitAxis {
				continue
			}
			lo[d] = 0
			hi[d] = shape[d] - 1
		}
		if splitAxis < 0 {
			// Nothing to split on (every axis pinned, or rank-0 shape):
			// rank 0 owns everything.
			if r == 0 {
				rects[r] = Rect{Lo: lo, Hi: hi}
			} else {
				rects[r] = EmptyRect(shape.Rank())
			}
			continue
		}
		blo, bhi, ok := blockRange(shape[splitAxis], numRanks, r)
		if !ok {
			rects[r] = EmptyRect(shape.Rank())
			continue
		}
		lo[splitAxis] = blo
		hi[splitAxis] = bhi
		rects[r] = Rect{Lo: lo, Hi: hi}
	}
	return rects
}

// pickSplitAxis returns the first unpinned axis, or -1 if every axis is
// pinned by the chunk hint.
func pickSplitAxis(shape Shape, hint ChunkHint) int {
	for d := 0; d < shape.Rank(); d++ {
		if hint.NoSplit != nil && hint.NoSplit[d] {
			continue
		}
		return d
	}
	return -1
}

// blockRange computes the [lo,hi] inclusive range rank r owns when size
// elements are split into numRanks contiguous blocks as evenly as
// possible. Returns ok=false if rank r's block would be empty (more ranks
// than elements).
func blockRange(size int64, numRanks, r int) (lo, hi int64, ok bool) {
	if int64(numRanks) > size {
		// Fewer elements than ranks: the first `size` ranks each own one
		// element, the rest own nothing.
		if int64(r) >= size {
			return 0, 0, false
		}
		return int64(r), int64(r), true
	}
	base := size / int64(numRanks)
	rem := size % int64(numRanks)
	// The first `rem` ranks get one extra element.
	if int64(r) < rem {
		lo = int64(r) * (base + 1)
		hi = lo + base
	} else {
		lo = rem*(base+1) + (int64(r)-rem)*base
		hi = lo + base - 1
	}
	return lo, hi, true
}
