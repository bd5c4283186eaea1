package ncio

import (
	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/pgerr"
	"github.com/pagoda-run/pagoda/proc"
)

// FileReader adapts an already-open Backend (past its define phase) into
// a dataset.Dataset, implementing spec §4.7's read side of the two-phase
// file contract. Grounded on darray.Array's own "thin wrapper that owns a
// ctx pointer" construction style.
type FileReader struct {
	ctx     *proc.Context
	backend Backend
	grid    dataset.Grid

	dims []*dataset.Dimension
	atts []*dataset.Attribute
	vars []*dataset.Variable
}

// OpenReader opens backend and binds every returned Dimension/Variable's
// owner back to the resulting FileReader.
func OpenReader(ctx *proc.Context, backend Backend) (*FileReader, error) {
	dims, atts, vars, _, err := backend.Open()
	if err != nil {
		return nil, pgerr.IO("ncio.open", err)
	}
	fr := &FileReader{ctx: ctx, backend: backend, dims: dims, atts: atts, vars: vars}
	for _, d := range dims {
		d.SetOwner(fr)
	}
	for _, v := range vars {
		v.SetOwner(fr)
	}
	return fr, nil
}

// SetGrid attaches a recognized Grid (spec §4.6); Recognize is called by
// the caller after OpenReader since grid recognition needs the finished
// Dimension/Variable list this reader just built.
func (fr *FileReader) SetGrid(g dataset.Grid) { fr.grid = g }

func (fr *FileReader) GetAtts() []*dataset.Attribute { return fr.atts }
func (fr *FileReader) GetDims() []*dataset.Dimension { return fr.dims }
func (fr *FileReader) GetVars() []*dataset.Variable  { return fr.vars }
func (fr *FileReader) GetGrid() dataset.Grid         { return fr.grid }

func (fr *FileReader) GetUdim() (*dataset.Dimension, bool) {
	for _, d := range fr.dims {
		if d.Unlimited {
			return d, true
		}
	}
	return nil, false
}

func (fr *FileReader) Wait(ctx *proc.Context) error { return fr.backend.WaitAll() }

func (fr *FileReader) GetFileFormat() dataset.FileFormat {
	_, _, _, format, _ := fr.backend.Open()
	return format
}

func (fr *FileReader) GetAtt(name string, ignoreCase, withinVars bool) (*dataset.Attribute, bool) {
	for _, a := range fr.atts {
		if nameEqual(a.Name, name, ignoreCase) {
			return a, true
		}
	}
	if withinVars {
		for _, v := range fr.vars {
			if a, ok := v.GetAtt(name, ignoreCase); ok {
				return a, true
			}
		}
	}
	return nil, false
}

func (fr *FileReader) GetDim(name string, ignoreCase bool) (*dataset.Dimension, bool) {
	for _, d := range fr.dims {
		if nameEqual(d.Name, name, ignoreCase) {
			return d, true
		}
	}
	return nil, false
}

func (fr *FileReader) GetVar(name string, ignoreCase bool) (*dataset.Variable, bool) {
	for _, v := range fr.vars {
		if nameEqual(v.Name, name, ignoreCase) {
			return v, true
		}
	}
	return nil, false
}

func fullRect(shape darray.Shape) (lo, hi []int64) {
	lo = make([]int64, len(shape))
	hi = make([]int64, len(shape))
	for i, s := range shape {
		hi[i] = s - 1
	}
	return
}

func (fr *FileReader) ReadVar(ctx *proc.Context, v *dataset.Variable) (*darray.Array, error) {
	arr, err := darray.Create(ctx, v.Type, v.Shape())
	if err != nil {
		return nil, err
	}
	lo, hi := fullRect(v.Shape())
	buf, err := fr.backend.GetVaraAll(v.Name, lo, hi)
	if err != nil {
		return nil, pgerr.IO("ncio.read_var", err)
	}
	if err := arr.Put(buf, lo, hi); err != nil {
		return nil, err
	}
	return arr, nil
}

func (fr *FileReader) ReadVarRecord(ctx *proc.Context, v *dataset.Variable, record int64) (*darray.Array, error) {
	if len(v.Dims) == 0 || !v.Dims[0].Unlimited {
		return nil, pgerr.Command("ncio.read_var_record", "variable %s has no record dimension", v.Name)
	}
	recShape := v.Shape()[1:]
	arr, err := darray.Create(ctx, v.Type, recShape)
	if err != nil {
		return nil, err
	}
	lo, hi := fullRect(v.Shape())
	lo[0], hi[0] = record, record
	buf, err := fr.backend.GetVaraAll(v.Name, lo, hi)
	if err != nil {
		return nil, pgerr.IO("ncio.read_var_record", err)
	}
	dstLo, dstHi := fullRect(recShape)
	if err := arr.Put(buf, dstLo, dstHi); err != nil {
		return nil, err
	}
	return arr, nil
}

// IreadVar posts a non-blocking whole-variable read (spec §4.7
// iget_vara); contents are valid once Wait returns.
func (fr *FileReader) IreadVar(ctx *proc.Context, v *dataset.Variable) (*darray.Array, error) {
	arr, err := darray.Create(ctx, v.Type, v.Shape())
	if err != nil {
		return nil, err
	}
	lo, hi := fullRect(v.Shape())
	if err := fr.backend.IGetVara(v.Name, lo, hi, arr, lo, hi); err != nil {
		return nil, pgerr.IO("ncio.iread_var", err)
	}
	return arr, nil
}

func (fr *FileReader) Close() error { return fr.backend.Close() }

var _ dataset.Dataset = (*FileReader)(nil)

func nameEqual(a, b string, ignoreCase bool) bool {
	if !ignoreCase {
		return a == b
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
