// Package aggregate implements spec §4.4's two aggregation strategies for
// combining several Datasets (typically one per input file) into a single
// virtual Dataset: Union (merge distinct dimensions/variables, first
// definition wins on a name collision) and JoinExisting (concatenate along
// a named record dimension). An Aggregation is itself a dataset.Dataset
// that fans reads out to its member Datasets rather than owning storage
// directly.
package aggregate

import (
	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/pgerr"
	"github.com/pagoda-run/pagoda/proc"
)

// Union merges members' Dimensions, Attributes, and Variables by name:
// the first member to define a name wins (spec §4.4 Union); a dimension
// name reused by a later member with a different size is a dimension
// mismatch error (a silent size mismatch would corrupt every downstream read).
type Union struct {
	members []dataset.Dataset

	dims []*dataset.Dimension
	atts []*dataset.Attribute
	vars []*dataset.Variable

	dimByName map[string]*dataset.Dimension
	attByName map[string]*dataset.Attribute
	varByName map[string]*dataset.Variable
	varOwner  map[*dataset.Variable]dataset.Dataset
}

// NewUnion builds the merged name tables once, eagerly, from members'
// current metadata (spec §4.4: "the merged schema is fixed at open time").
func NewUnion(members []dataset.Dataset) (*Union, error) {
	u := &Union{
		members:   members,
		dimByName: make(map[string]*dataset.Dimension),
		attByName: make(map[string]*dataset.Attribute),
		varByName: make(map[string]*dataset.Variable),
		varOwner:  make(map[*dataset.Variable]dataset.Dataset),
	}
	for _, m := range members {
		for _, d := range m.GetDims() {
			if existing, ok := u.dimByName[d.Name]; ok {
				if existing.Size != d.Size || existing.Unlimited != d.Unlimited {
					return nil, pgerr.DimensionMismatch("union", "dimension %s redefined with size %d (unlimited=%v), first seen with size %d (unlimited=%v)",
						d.Name, d.Size, d.Unlimited, existing.Size, existing.Unlimited)
				}
				continue
			}
			u.dimByName[d.Name] = d
			u.dims = append(u.dims, d)
		}
		for _, a := range m.GetAtts() {
			if _, ok := u.attByName[a.Name]; ok {
				continue
			}
			u.attByName[a.Name] = a
			u.atts = append(u.atts, a)
		}
		for _, v := range m.GetVars() {
			if _, ok := u.varByName[v.Name]; ok {
				continue
			}
			u.varByName[v.Name] = v
			u.vars = append(u.vars, v)
			u.varOwner[v] = m
		}
	}
	return u, nil
}

func (u *Union) GetAtts() []*dataset.Attribute { return u.atts }
func (u *Union) GetDims() []*dataset.Dimension { return u.dims }
func (u *Union) GetVars() []*dataset.Variable  { return u.vars }
func (u *Union) GetGrid() dataset.Grid         { return nil }

func (u *Union) GetUdim() (*dataset.Dimension, bool) {
	for _, d := range u.dims {
		if d.Unlimited {
			return d, true
		}
	}
	return nil, false
}

func (u *Union) Wait(ctx *proc.Context) error {
	for _, m := range u.members {
		if err := m.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (u *Union) GetFileFormat() dataset.FileFormat {
	if len(u.members) == 0 {
		return dataset.FormatUnknown
	}
	return u.members[0].GetFileFormat()
}

func (u *Union) GetAtt(name string, ignoreCase, withinVars bool) (*dataset.Attribute, bool) {
	return lookupAttr(u.atts, u.vars, name, ignoreCase, withinVars)
}

func (u *Union) GetDim(name string, ignoreCase bool) (*dataset.Dimension, bool) {
	return lookupDim(u.dims, name, ignoreCase)
}

func (u *Union) GetVar(name string, ignoreCase bool) (*dataset.Variable, bool) {
	return lookupVar(u.vars, name, ignoreCase)
}

func (u *Union) ReadVar(ctx *proc.Context, v *dataset.Variable) (*darray.Array, error) {
	return u.varOwner[v].ReadVar(ctx, v)
}

func (u *Union) ReadVarRecord(ctx *proc.Context, v *dataset.Variable, record int64) (*darray.Array, error) {
	return u.varOwner[v].ReadVarRecord(ctx, v, record)
}

func (u *Union) IreadVar(ctx *proc.Context, v *dataset.Variable) (*darray.Array, error) {
	return u.varOwner[v].IreadVar(ctx, v)
}

func (u *Union) Close() error {
	for _, m := range u.members {
		if err := m.Close(); err != nil {
			return err
		}
	}
	return nil
}
