// Package memio is ncio's in-memory reference Backend: no disk I/O at
// all, every variable's values held in a github.com/ctessum/sparse
// DenseArray (the same dense N-D float64 container mkelp-inmap uses for
// its gridded CTM fields), making memio a convenient fixture for tests
// and for the CLI's fixture registry without depending on any
// particular wire-format client library.
package memio

import (
	"sync"

	"github.com/ctessum/sparse"

	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/ncio"
	"github.com/pagoda-run/pagoda/pgerr"
)

type Backend struct {
	mu sync.Mutex

	format dataset.FileFormat
	dims   []*dataset.Dimension
	atts   []*dataset.Attribute
	vars   []*dataset.Variable

	data    map[string]*sparse.DenseArray
	dtypes  map[string]dtype.DataType
	defined bool

	pending []func() error // posted by IGetVara/IPutVara, run at WaitAll
}

var _ ncio.Backend = (*Backend)(nil)

// New creates an empty memio Backend ready for Define (write path).
func New() *Backend {
	return &Backend{data: make(map[string]*sparse.DenseArray), dtypes: make(map[string]dtype.DataType), format: dataset.NetCDF4}
}

// NewPopulated creates a memio Backend already past EndDef, with the
// given schema and zero-valued storage — the common shape for an
// internal/testgrid fixture or a test's synthetic input file.
func NewPopulated(dims []*dataset.Dimension, atts []*dataset.Attribute, vars []*dataset.Variable) *Backend {
	b := New()
	b.dims, b.atts, b.vars = dims, atts, vars
	for _, v := range vars {
		b.allocate(v)
	}
	b.defined = true
	return b
}

func (b *Backend) allocate(v *dataset.Variable) {
	dims := make([]int, len(v.Dims))
	for i, d := range v.Dims {
		dims[i] = int(d.Size)
	}
	if len(dims) == 0 {
		dims = []int{1}
	}
	b.data[v.Name] = sparse.ZerosDense(dims...)
	b.dtypes[v.Name] = v.Type
}

func (b *Backend) Open() ([]*dataset.Dimension, []*dataset.Attribute, []*dataset.Variable, dataset.FileFormat, error) {
	return b.dims, b.atts, b.vars, b.format, nil
}

func (b *Backend) Define(dims []*dataset.Dimension, atts []*dataset.Attribute, vars []*dataset.Variable) error {
	if b.defined {
		return pgerr.Command("memio.define", "backend already past end_def")
	}
	b.dims, b.atts, b.vars = dims, atts, vars
	return nil
}

func (b *Backend) EndDef() error {
	if b.defined {
		return pgerr.Command("memio.end_def", "end_def already called")
	}
	for _, v := range b.vars {
		b.allocate(v)
	}
	b.defined = true
	return nil
}

func (b *Backend) varArray(name string) (*sparse.DenseArray, dtype.DataType, error) {
	arr, ok := b.data[name]
	if !ok {
		return nil, 0, pgerr.Command("memio", "variable %s not defined", name)
	}
	return arr, b.dtypes[name], nil
}

func denseIndex(lo []int64, offsets []int64) []int {
	idx := make([]int, len(lo))
	for d := range lo {
		idx[d] = int(lo[d] + offsets[d])
	}
	return idx
}

func (b *Backend) GetVaraAll(varName string, lo, hi []int64) (dtype.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	arr, dt, err := b.varArray(varName)
	if err != nil {
		return nil, err
	}
	rect := darray.Rect{Lo: lo, Hi: hi}
	n := int(rect.NumElements())
	f64, err := dtype.NewBuffer(dtype.F64, n)
	if err != nil {
		return nil, err
	}
	nb := f64.(dtype.NumericBuffer)
	i := 0
	iterRect(lo, hi, func(offsets []int64) {
		nb.SetF64(i, arr.Get(denseIndex(lo, offsets)...))
		i++
	})
	if dt == dtype.F64 || dt == 0 {
		return f64, nil
	}
	return dtype.Cast(f64, dt)
}

func (b *Backend) PutVaraAll(varName string, lo, hi []int64, data dtype.Buffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	arr, _, err := b.varArray(varName)
	if err != nil {
		return err
	}
	nb, ok := data.(dtype.NumericBuffer)
	if !ok {
		return pgerr.DataTypeErr("memio.put_vara_all", "variable %s: buffer type %s has no numeric view", varName, data.Type())
	}
	i := 0
	iterRect(lo, hi, func(offsets []int64) {
		arr.Set(nb.GetF64(i), denseIndex(lo, offsets)...)
		i++
	})
	return nil
}

func (b *Backend) IGetVara(varName string, lo, hi []int64, dst *darray.Array, dstLo, dstHi []int64) error {
	b.pending = append(b.pending, func() error {
		buf, err := b.GetVaraAll(varName, lo, hi)
		if err != nil {
			return err
		}
		return dst.Put(buf, dstLo, dstHi)
	})
	return nil
}

func (b *Backend) IPutVara(varName string, lo, hi []int64, src *darray.Array, srcLo, srcHi []int64) error {
	b.pending = append(b.pending, func() error {
		buf, err := src.Get(srcLo, srcHi)
		if err != nil {
			return err
		}
		return b.PutVaraAll(varName, lo, hi, buf)
	})
	return nil
}

func (b *Backend) WaitAll() error {
	pending := b.pending
	b.pending = nil
	for _, fn := range pending {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) Close() error { return nil }

// iterRect visits every zero-based offset tuple within [0, hi-lo] in
// row-major order.
func iterRect(lo, hi []int64, fn func(offsets []int64)) {
	n := len(lo)
	if n == 0 {
		fn(nil)
		return
	}
	offsets := make([]int64, n)
	for {
		fn(offsets)
		d := n - 1
		for d >= 0 {
			offsets[d]++
			if lo[d]+offsets[d] <= hi[d] {
				break
			}
			offsets[d] = 0
			d--
		}
		if d < 0 {
			return
		}
	}
}
