package aggregate

import (
	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/pgerr"
	"github.com/pagoda-run/pagoda/proc"
)

// memberSpan records where one member's records land in the combined
// record dimension.
type memberSpan struct {
	ds       dataset.Dataset
	startRec int64 // global record index of this member's record 0
	numRecs  int64
}

// JoinExisting concatenates members along a shared named record dimension
// (spec §4.4 JoinExisting): variables that depend on that dimension
// ("aggregation variables") read as if the members' records were laid out
// back to back; variables that don't depend on it are taken unmodified
// from the first member (all members must agree on their non-aggregated
// shape, since a JoinExisting virtual dataset is a time series of
// otherwise-identical files).
type JoinExisting struct {
	dimName string
	spans   []memberSpan
	joinDim *dataset.Dimension // the combined, unlimited dimension

	dims []*dataset.Dimension
	atts []*dataset.Attribute
	vars []*dataset.Variable

	aggVar map[string]bool // variable names that depend on dimName
}

// NewJoinExisting builds the combined schema from members in the given
// order (spec §4.4: "records are concatenated in member order, not
// resorted by any coordinate value" — callers wanting time-sorted
// concatenation must pre-sort members themselves).
func NewJoinExisting(members []dataset.Dataset, dimName string) (*JoinExisting, error) {
	if len(members) == 0 {
		return nil, pgerr.Command("join_existing", "no member datasets given")
	}
	j := &JoinExisting{dimName: dimName, aggVar: make(map[string]bool)}

	first := members[0]
	_, ok := first.GetDim(dimName, false)
	if !ok {
		return nil, pgerr.Command("join_existing", "aggregation dimension %s not found in first member", dimName)
	}

	var total int64
	for _, m := range members {
		d, ok := m.GetDim(dimName, false)
		if !ok {
			return nil, pgerr.Command("join_existing", "aggregation dimension %s not found in a member", dimName)
		}
		j.spans = append(j.spans, memberSpan{ds: m, startRec: total, numRecs: d.Size})
		total += d.Size
	}
	j.joinDim = dataset.NewDimension(dimName, total, true)

	for _, d := range first.GetDims() {
		if d.Name == dimName {
			j.dims = append(j.dims, j.joinDim)
			continue
		}
		for _, m := range members[1:] {
			od, ok := m.GetDim(d.Name, false)
			if !ok || od.Size != d.Size {
				return nil, pgerr.DimensionMismatch("join_existing", "dimension %s differs across members", d.Name)
			}
		}
		j.dims = append(j.dims, d)
	}
	j.atts = first.GetAtts()
	for _, v := range first.GetVars() {
		j.vars = append(j.vars, v)
		if dependsOn(v, dimName) {
			j.aggVar[v.Name] = true
		}
	}
	return j, nil
}

func dependsOn(v *dataset.Variable, dimName string) bool {
	for _, d := range v.Dims {
		if d.Name == dimName {
			return true
		}
	}
	return false
}

// locateRecord maps a global record index to the member holding it and
// the corresponding local record index within that member (the
// "record-locating read logic" spec §4.4 calls for).
func (j *JoinExisting) locateRecord(global int64) (dataset.Dataset, int64, error) {
	for _, sp := range j.spans {
		if global >= sp.startRec && global < sp.startRec+sp.numRecs {
			return sp.ds, global - sp.startRec, nil
		}
	}
	return nil, 0, pgerr.Range("join_existing", "record %d out of range [0,%d)", global, j.joinDim.Size)
}

func (j *JoinExisting) GetAtts() []*dataset.Attribute { return j.atts }
func (j *JoinExisting) GetDims() []*dataset.Dimension { return j.dims }
func (j *JoinExisting) GetVars() []*dataset.Variable  { return j.vars }
func (j *JoinExisting) GetGrid() dataset.Grid         { return nil }

func (j *JoinExisting) GetUdim() (*dataset.Dimension, bool) { return j.joinDim, true }

// Wait fans out to every member (spec §4.4 wait()): a JoinExisting's
// posted iread()s are only as complete as all of its members' reads.
func (j *JoinExisting) Wait(ctx *proc.Context) error {
	for _, sp := range j.spans {
		if err := sp.ds.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (j *JoinExisting) GetFileFormat() dataset.FileFormat {
	return j.spans[0].ds.GetFileFormat()
}

func (j *JoinExisting) GetAtt(name string, ignoreCase, withinVars bool) (*dataset.Attribute, bool) {
	return lookupAttr(j.atts, j.vars, name, ignoreCase, withinVars)
}

func (j *JoinExisting) GetDim(name string, ignoreCase bool) (*dataset.Dimension, bool) {
	return lookupDim(j.dims, name, ignoreCase)
}

func (j *JoinExisting) GetVar(name string, ignoreCase bool) (*dataset.Variable, bool) {
	return lookupVar(j.vars, name, ignoreCase)
}

// ReadVar reads the full concatenated variable (spec §4.4 combined
// read()): for an aggregation variable this is every member's slice
// stitched along dimName in member order; for any other variable it is
// simply the first member's value.
func (j *JoinExisting) ReadVar(ctx *proc.Context, v *dataset.Variable) (*darray.Array, error) {
	if !j.aggVar[v.Name] {
		first, ok := j.spans[0].ds.GetVar(v.Name, false)
		if !ok {
			return nil, pgerr.Command("join_existing.read_var", "variable %s not found in first member", v.Name)
		}
		return j.spans[0].ds.ReadVar(ctx, first)
	}
	outShape := v.Shape()
	outShape[0] = j.joinDim.Size
	out, err := darray.Create(ctx, v.Type, outShape)
	if err != nil {
		return nil, err
	}
	rest := v.Shape()[1:]
	for _, sp := range j.spans {
		mv, ok := sp.ds.GetVar(v.Name, false)
		if !ok {
			return nil, pgerr.Command("join_existing.read_var", "variable %s not found in a member", v.Name)
		}
		memberArr, err := sp.ds.ReadVar(ctx, mv)
		if err != nil {
			return nil, err
		}
		n := len(rest) + 1
		srcLo, srcHi := make([]int64, n), make([]int64, n)
		dstLo, dstHi := make([]int64, n), make([]int64, n)
		srcHi[0] = sp.numRecs - 1
		dstLo[0] = sp.startRec
		dstHi[0] = sp.startRec + sp.numRecs - 1
		for d, sz := range rest {
			srcHi[d+1] = sz - 1
			dstHi[d+1] = sz - 1
		}
		if err := out.CopyRect(memberArr, srcLo, srcHi, dstLo, dstHi); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadVarRecord reads a single global record, delegating to the owning
// member's local record index (spec §4.4 read(record)).
func (j *JoinExisting) ReadVarRecord(ctx *proc.Context, v *dataset.Variable, record int64) (*darray.Array, error) {
	if !j.aggVar[v.Name] {
		return j.ReadVar(ctx, v)
	}
	owner, local, err := j.locateRecord(record)
	if err != nil {
		return nil, err
	}
	mv, ok := owner.GetVar(v.Name, false)
	if !ok {
		return nil, pgerr.Command("join_existing.read_record", "variable %s not found in owning member", v.Name)
	}
	return owner.ReadVarRecord(ctx, mv, local)
}

func (j *JoinExisting) IreadVar(ctx *proc.Context, v *dataset.Variable) (*darray.Array, error) {
	return j.ReadVar(ctx, v)
}

func (j *JoinExisting) Close() error {
	for _, sp := range j.spans {
		if err := sp.ds.Close(); err != nil {
			return err
		}
	}
	return nil
}
