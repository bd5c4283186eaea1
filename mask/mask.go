// Package mask implements spec §4.3's Mask and MaskMap: a 1-D selection
// vector per dimension (1.0 = keep, 0.0 = drop) used by Pack to compact
// selected cells and by reducers to exclude dropped cells from an
// accumulation. Grounded on darray.Array for storage/distribution and on
// dataset.Dimension for naming, following the same parent/child
// non-owning-pointer style darray.Array uses for its proc.Context.
package mask

import (
	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/pgerr"
	"github.com/pagoda-run/pagoda/proc"
)

// Mask is a 1-D float64 DistributedArray over a single Dimension, values
// restricted to {0.0, 1.0}.
type Mask struct {
	Dim      *dataset.Dimension
	arr      *darray.Array
	modified bool // true once Modify has been called at least once
}

// New creates an all-kept (every cell 1.0) Mask over dim (spec §4.3
// create, implicit identity mask).
func New(ctx *proc.Context, dim *dataset.Dimension) (*Mask, error) {
	arr, err := darray.Create(ctx, dtype.F64, darray.Shape{dim.Size})
	if err != nil {
		return nil, err
	}
	if err := arr.FillValue(1); err != nil {
		return nil, err
	}
	return &Mask{Dim: dim, arr: arr}, nil
}

func (m *Mask) Array() *darray.Array { return m.arr }

// Clear sets every cell to 0.0 (spec §4.3 clear()).
func (m *Mask) Clear() error { return m.arr.FillValue(0) }

// GetCount returns the number of kept cells, summed across all ranks
// (spec §4.3 get_count()). Collective: fans out across every rank of ctx
// internally, so it is called once, not once per rank.
func (m *Mask) GetCount(ctx *proc.Context) (int64, error) {
	var total int64
	err := ctx.Collective(func(rank int) error {
		var local int64
		r := m.arr.Rect(rank)
		if r.OwnsData() {
			buf, err := m.arr.Access(rank)
			if err != nil {
				return err
			}
			defer m.arr.Release(rank)
			nb := buf.(dtype.NumericBuffer)
			for i := 0; i < nb.Len(); i++ {
				if nb.GetF64(i) != 0 {
					local++
				}
			}
		}
		sum := proc.GopSum(ctx, rank, local)
		if rank == proc.Rank0 {
			total = sum
		}
		return nil
	})
	return total, err
}

// Modify applies sel's keep/drop decision over [0, Dim.Size) to this mask
// (spec §4.3 modify, composition rule in §8 "Mask composition"): the
// first modify call on a Mask replaces the all-kept default outright, and
// every subsequent modify call ORs its decision into the cells already
// kept, so a second, disjoint modify widens the kept set rather than
// narrowing it.
func (m *Mask) Modify(sel Selector) error {
	keep, err := sel.Evaluate(m.Dim.Size)
	if err != nil {
		return err
	}
	if int64(len(keep)) != m.Dim.Size {
		return pgerr.DimensionMismatch("mask.modify", "selector produced %d decisions, dimension %s has size %d", len(keep), m.Dim.Name, m.Dim.Size)
	}
	first := !m.modified
	err = m.arr.Context().Collective(func(rank int) error {
		r := m.arr.Rect(rank)
		if !r.OwnsData() {
			return nil
		}
		buf, err := m.arr.Access(rank)
		if err != nil {
			return err
		}
		nb := buf.(dtype.NumericBuffer)
		lo := r.Lo[0]
		for i := 0; i < nb.Len(); i++ {
			global := lo + int64(i)
			if first {
				nb.SetF64(i, boolToF64(keep[global]))
			} else if keep[global] {
				nb.SetF64(i, 1)
			}
		}
		m.arr.Release(rank)
		return nil
	})
	if err != nil {
		return err
	}
	m.modified = true
	return nil
}

// Selector decides, for every index in [0,size), whether it is kept.
// IndexHyperslab and CoordHyperslab (package selection) implement
// Selector.
type Selector interface {
	Evaluate(size int64) ([]bool, error)
}

// Intersect ANDs o's kept cells into m (both masks must share Dim.Size).
func (m *Mask) Intersect(o *Mask) error {
	return m.combine(o, func(a, b bool) bool { return a && b })
}

// Union ORs o's kept cells into m (both masks must share Dim.Size).
func (m *Mask) Union(o *Mask) error {
	return m.combine(o, func(a, b bool) bool { return a || b })
}

func (m *Mask) combine(o *Mask, op func(a, b bool) bool) error {
	if m.Dim.Size != o.Dim.Size {
		return pgerr.DimensionMismatch("mask.combine", "dimensions %s (%d) and %s (%d) differ in size", m.Dim.Name, m.Dim.Size, o.Dim.Name, o.Dim.Size)
	}
	return m.arr.Context().Collective(func(rank int) error {
		r := m.arr.Rect(rank)
		if !r.OwnsData() {
			return nil
		}
		mbuf, err := m.arr.Access(rank)
		if err != nil {
			return err
		}
		defer m.arr.Release(rank)
		mnb := mbuf.(dtype.NumericBuffer)
		lo, hi := r.Lo, r.Hi
		ob, err := o.arr.Get(lo, hi)
		if err != nil {
			return err
		}
		onb := ob.(dtype.NumericBuffer)
		for i := 0; i < mnb.Len(); i++ {
			mnb.SetF64(i, boolToF64(op(mnb.GetF64(i) != 0, onb.GetF64(i) != 0)))
		}
		return nil
	})
}

func boolToF64(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Reindex recomputes m against a new dimension size after a dimension has
// been resized by an upstream operation (spec §4.3 reindex()); cells
// beyond the old size default to dropped, cells within it keep their
// decision.
func (m *Mask) Reindex(ctx *proc.Context, rank int, newDim *dataset.Dimension) (*Mask, error) {
	fresh, err := New(ctx, newDim)
	if err != nil {
		return nil, err
	}
	if err := fresh.Clear(); err != nil {
		return nil, err
	}
	n := m.Dim.Size
	if newDim.Size < n {
		n = newDim.Size
	}
	if n > 0 {
		buf, err := m.arr.Get([]int64{0}, []int64{n - 1})
		if err != nil {
			return nil, err
		}
		if err := fresh.arr.Put(buf, []int64{0}, []int64{n - 1}); err != nil {
			return nil, err
		}
	}
	return fresh, nil
}

// Scatter sets cells at subscripts to 1.0, collectively (spec §4.3
// scatter(ones, subscripts)); subscripts outside [0,Dim.Size) are a
// range error.
func (m *Mask) Scatter(ctx *proc.Context, subscripts []int64) error {
	for _, s := range subscripts {
		if s < 0 || s >= m.Dim.Size {
			return pgerr.Range("mask.scatter", "subscript %d out of range for dimension %s (size %d)", s, m.Dim.Name, m.Dim.Size)
		}
	}
	ones, err := dtype.NewBuffer(dtype.F64, len(subscripts))
	if err != nil {
		return err
	}
	onb := ones.(dtype.NumericBuffer)
	for i := range subscripts {
		onb.SetF64(i, 1)
	}
	subs := make([][]int64, len(subscripts))
	for i, s := range subscripts {
		subs[i] = []int64{s}
	}
	return m.arr.Scatter(ones, subs)
}
