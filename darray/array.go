package darray

import (
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/pgerr"
	"github.com/pagoda-run/pagoda/proc"
)

// Array is spec §4.1's DistributedArray: a typed rectangular array whose
// elements are partitioned across all ranks of a proc.Context. It is
// always created and destroyed collectively (spec §4.1, §5); a rank either
// owns a non-empty rectangle or owns nothing (Rect.OwnsData()==false).
type Array struct {
	ctx    *proc.Context
	dtype  dtype.DataType
	shape  Shape
	rects  []Rect // one per rank
	locals []dtype.Buffer

	accessed []bool // local access()/release() pairing guard, per rank

	counter   *Array   // set_counter: non-fill tally, or nil
	fillValue *float64 // SetFillValue: sentinel right-operand elements to skip
}

// Create allocates a new DistributedArray of the given type and global
// shape, collectively across every rank of ctx (spec §4.1 create).
func Create(ctx *proc.Context, dt dtype.DataType, shape Shape, hint ...ChunkHint) (*Array, error) {
	var h ChunkHint
	if len(hint) > 0 {
		h = hint[0]
	}
	rects := distribute(shape, ctx.NumRanks, h)
	a := &Array{
		ctx:      ctx,
		dtype:    dt,
		shape:    shape.Clone(),
		rects:    rects,
		locals:   make([]dtype.Buffer, ctx.NumRanks),
		accessed: make([]bool, ctx.NumRanks),
	}
	err := ctx.Collective(func(rank int) error {
		buf, err := dtype.NewBuffer(dt, int(rects[rank].NumElements()))
		if err != nil {
			return pgerr.Wrap(pgerr.KindDataType, "create", err)
		}
		a.locals[rank] = buf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Duplicate creates a new array with identical shape, type, and
// distribution as other (spec §4.1 duplicate).
func Duplicate(other *Array) (*Array, error) {
	a := &Array{
		ctx:      other.ctx,
		dtype:    other.dtype,
		shape:    other.shape.Clone(),
		rects:    append([]Rect(nil), other.rects...),
		locals:   make([]dtype.Buffer, other.ctx.NumRanks),
		accessed: make([]bool, other.ctx.NumRanks),
	}
	err := other.ctx.Collective(func(rank int) error {
		buf, err := dtype.NewBuffer(other.dtype, int(a.rects[rank].NumElements()))
		if err != nil {
			return pgerr.Wrap(pgerr.KindDataType, "duplicate", err)
		}
		a.locals[rank] = buf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Array) Context() *proc.Context { return a.ctx }
func (a *Array) Type() dtype.DataType   { return a.dtype }
func (a *Array) GetShape() Shape        { return a.shape.Clone() }

// GetDistribution returns rank's local rectangle (spec §4.1
// get_distribution).
func (a *Array) GetDistribution(rank int) (lo, hi []int64) {
	r := a.rects[rank]
	return append([]int64(nil), r.Lo...), append([]int64(nil), r.Hi...)
}

func (a *Array) Rect(rank int) Rect { return a.rects[rank] }

func (a *Array) OwnsData(rank int) bool { return a.rects[rank].OwnsData() }

func (a *Array) GetLocalSize(rank int) int64 { return a.rects[rank].NumElements() }

func (a *Array) GetLocalShape(rank int) Shape { return a.rects[rank].LocalShape() }

// SameDistribution reports whether a and o share rank-for-rank identical
// rectangles (spec §4.1 same_distribution).
func (a *Array) SameDistribution(o *Array) bool {
	if len(a.rects) != len(o.rects) {
		return false
	}
	for r := range a.rects {
		ar, or := a.rects[r], o.rects[r]
		if ar.OwnsData() != or.OwnsData() {
			return false
		}
		if !ar.OwnsData() {
			continue
		}
		if len(ar.Lo) != len(or.Lo) {
			return false
		}
		for d := range ar.Lo {
			if ar.Lo[d] != or.Lo[d] || ar.Hi[d] != or.Hi[d] {
				return false
			}
		}
	}
	return true
}

// SetCounter attaches (or, with nil, detaches) a tally array so that
// accumulating ops increment tally for non-fill-value inputs (spec §4.1
// set_counter). The counter array must share a's shape and distribution;
// validated lazily by the elementwise op that consults it.
func (a *Array) SetCounter(tally *Array) {
	a.counter = tally
}

func (a *Array) Counter() *Array { return a.counter }
