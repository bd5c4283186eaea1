package darray

import (
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/pgerr"
)

// elementwiseOp implements spec §4.1's iadd/isub/imul/idiv/imax/imin
// family: dst op= other, in place, per-rank-local, requiring identical
// global shape on both operands (not necessarily identical distribution —
// the op reduces to a same-distribution fast path when possible, and falls
// back to a one-sided Get otherwise).
func (a *Array) elementwiseOp(op string, other *Array, combine func(x, y float64) float64) error {
	if !a.shape.Equal(other.shape) {
		return pgerr.ShapeMismatch(op, "operands have shapes %s and %s", a.shape, other.shape)
	}
	if a.counter != nil && (!a.shape.Equal(a.counter.shape) || !a.SameDistribution(a.counter)) {
		return pgerr.ShapeMismatch(op, "counter shape %s does not match destination shape %s and distribution", a.counter.shape, a.shape)
	}
	return a.ctx.Collective(func(rank int) error {
		if !a.OwnsData(rank) {
			return nil
		}
		var rhs dtype.Buffer
		if a.SameDistribution(other) {
			rhs = other.locals[rank]
		} else {
			b, err := other.Get(a.rects[rank].Lo, a.rects[rank].Hi)
			if err != nil {
				return err
			}
			rhs = b
		}
		if rhs.Type() != a.dtype {
			casted, err := dtype.Cast(rhs, a.dtype)
			if err != nil {
				return pgerr.Wrap(pgerr.KindDataType, op, err)
			}
			rhs = casted
		}
		dst := a.locals[rank]
		fillOK := a.fillValue != nil
		var fv float64
		var tally dtype.NumericBuffer
		if a.counter != nil {
			tally = a.counter.locals[rank].(dtype.NumericBuffer)
		}
		if fillOK {
			fv = *a.fillValue
		}
		dnb := dst.(dtype.NumericBuffer)
		rnb := rhs.(dtype.NumericBuffer)
		for i := 0; i < dst.Len(); i++ {
			rv := rnb.GetF64(i)
			if fillOK && rv == fv {
				continue
			}
			dnb.SetF64(i, combine(dnb.GetF64(i), rv))
			if tally != nil {
				tally.SetF64(i, tally.GetF64(i)+1)
			}
		}
		return nil
	})
}

func (a *Array) IAdd(other *Array) error { return a.elementwiseOp("iadd", other, dtype.Add) }
func (a *Array) ISub(other *Array) error { return a.elementwiseOp("isub", other, dtype.Sub) }
func (a *Array) IMul(other *Array) error { return a.elementwiseOp("imul", other, dtype.Mul) }
func (a *Array) IDiv(other *Array) error { return a.elementwiseOp("idiv", other, dtype.Div) }
func (a *Array) IMax(other *Array) error { return a.elementwiseOp("imax", other, dtype.Max) }
func (a *Array) IMin(other *Array) error { return a.elementwiseOp("imin", other, dtype.Min) }

// IPow raises every element to exponent via double-precision evaluation,
// then casts back (spec §4.1 ipow).
func (a *Array) IPow(exponent float64) error {
	return a.ctx.Collective(func(rank int) error {
		if !a.OwnsData(rank) {
			return nil
		}
		return dtype.Pow(a.locals[rank], exponent)
	})
}

// fillValue, when set via SetFillValue, makes elementwiseOp skip
// right-operand elements equal to the sentinel (used by reducers like pgra
// to exclude missing values from an accumulation and still tally the
// non-missing contributions via SetCounter).
func (a *Array) SetFillValue(v float64) { a.fillValue = &v }
func (a *Array) ClearFillValue()        { a.fillValue = nil }
