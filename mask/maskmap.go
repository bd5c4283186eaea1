package mask

import (
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/proc"
)

// MaskMap is spec §4.3's lazily-populated name-keyed collection of Masks,
// one per selected Dimension, attached as a non-owning reference to the
// Dataset whose Variables it will subset. Masks not yet touched by a
// modify() call are materialized on first access as all-kept.
type MaskMap struct {
	ctx    *proc.Context
	ds     dataset.Dataset
	byName map[string]*Mask
}

func NewMaskMap(ctx *proc.Context, ds dataset.Dataset) *MaskMap {
	return &MaskMap{ctx: ctx, ds: ds, byName: make(map[string]*Mask)}
}

// Get returns the Mask for the named dimension, creating an all-kept one
// lazily on first reference (spec §4.3 "create_masks" insertion-on-use).
func (mm *MaskMap) Get(dimName string) (*Mask, error) {
	if m, ok := mm.byName[dimName]; ok {
		return m, nil
	}
	dim, ok := mm.ds.GetDim(dimName, false)
	if !ok {
		return nil, dimensionNotFound(dimName)
	}
	m, err := New(mm.ctx, dim)
	if err != nil {
		return nil, err
	}
	mm.byName[dimName] = m
	return m, nil
}

// Modify applies every (dimension-name, Selector) pair to the matching
// Mask, creating it first if necessary (spec §4.3 modify(vector<Hyperslab>)
// batch form used by pgsub's -d/-b/-X flags).
func (mm *MaskMap) Modify(dimName string, sel Selector) error {
	m, err := mm.Get(dimName)
	if err != nil {
		return err
	}
	return m.Modify(sel)
}

// Names returns the dimensions with a materialized Mask, in no particular
// order.
func (mm *MaskMap) Names() []string {
	names := make([]string, 0, len(mm.byName))
	for n := range mm.byName {
		names = append(names, n)
	}
	return names
}

// TopologyMasks propagates a primary mask across grid topology, per spec
// §4.3a: masking a cell dimension additionally restricts the corner/edge
// dimensions to the corners/edges touched by a kept cell, and vice versa
// through the grid's cell-corners/cell-edges connectivity arrays. fn
// receives the source dimension's kept-cell subscripts and must return the
// connected dimension's kept subscripts (topology-specific, supplied by
// package selection's Grid implementation).
func (mm *MaskMap) TopologyMasks(srcDim, dstDim string, connect func(kept []int64) ([]int64, error)) error {
	src, err := mm.Get(srcDim)
	if err != nil {
		return err
	}
	kept, err := keptSubscripts(mm.ctx, src)
	if err != nil {
		return err
	}
	dstKept, err := connect(kept)
	if err != nil {
		return err
	}
	dst, err := mm.Get(dstDim)
	if err != nil {
		return err
	}
	if err := dst.Clear(); err != nil {
		return err
	}
	return dst.Scatter(mm.ctx, dstKept)
}

// keptSubscripts is collective: it fans out across every rank of ctx
// internally and returns the same combined list of kept global subscripts
// to the caller.
func keptSubscripts(ctx *proc.Context, m *Mask) ([]int64, error) {
	var result []int64
	err := ctx.Collective(func(rank int) error {
		r := m.arr.Rect(rank)
		var out []int64
		if r.OwnsData() {
			buf, err := m.arr.Access(rank)
			if err != nil {
				return err
			}
			defer m.arr.Release(rank)
			nb := buf.(dtype.NumericBuffer)
			lo := r.Lo[0]
			for i := 0; i < nb.Len(); i++ {
				if nb.GetF64(i) != 0 {
					out = append(out, lo+int64(i))
				}
			}
		}
		gathered := proc.Allgather(ctx, rank, out)
		if rank == proc.Rank0 {
			result = gathered
		}
		return nil
	})
	return result, err
}

type errDimensionNotFound string

func (e errDimensionNotFound) Error() string { return "mask: dimension not found: " + string(e) }

func dimensionNotFound(name string) error { return errDimensionNotFound(name) }
