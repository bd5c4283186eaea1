package darray

import (
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/pgerr"
)

// Access returns a local, mutable view of rank's owned rectangle (spec
// §4.1 access/release/release_update). access/release are local (not
// collective, spec §5) and must be paired; concurrent accesses on the same
// rank are forbidden.
func (a *Array) Access(rank int) (dtype.Buffer, error) {
	if a.accessed[rank] {
		return nil, pgerr.Command("access", "array already accessed by rank %d; release before accessing again", rank)
	}
	a.accessed[rank] = true
	return a.locals[rank], nil
}

// Release ends a read-only Access.
func (a *Array) Release(rank int) {
	a.accessed[rank] = false
}

// ReleaseUpdate ends a read-write Access, committing any local mutation
// (a no-op here since Access hands back the live local buffer, but kept
// as a distinct call so callers mirror the original's two-phase
// read/read-write release contract).
func (a *Array) ReleaseUpdate(rank int) {
	a.accessed[rank] = false
}

// localIndex converts a global index tuple inside rank's rectangle into a
// flat row-major offset into that rank's local buffer.
func (a *Array) localIndex(rank int, idx []int64) (int, bool) {
	r := a.rects[rank]
	if !r.OwnsData() {
		return 0, false
	}
	shape := r.LocalShape()
	offset := int64(0)
	for d := 0; d < len(idx); d++ {
		local := idx[d] - r.Lo[d]
		if local < 0 || local >= shape[d] {
			return 0, false
		}
		offset = offset*shape[d] + local
	}
	return int(offset), true
}

// rankOwning returns the rank whose rectangle contains idx, or -1.
func (a *Array) rankOwning(idx []int64) int {
	for r := range a.rects {
		if _, ok := a.localIndex(r, idx); ok {
			return r
		}
	}
	return -1
}
