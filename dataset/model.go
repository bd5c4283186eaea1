// Package dataset implements spec §4.2's in-memory metadata model: the
// Dimension/Attribute/Variable/Dataset graph every other component (Mask,
// Aggregation, Pack, ncio) is built around. It deliberately has no outgoing
// dependency on mask/aggregate/selection/ncio so those can all depend on
// it without a cycle; the Grid contract a Dataset exposes is declared here
// as a narrow interface and implemented by package selection.
package dataset

import (
	"strings"

	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/proc"
)

// Dimension is spec §3's (name, size, unlimited, owner). Two Dimensions are
// Equal iff names and sizes match and both are unlimited or both are not.
type Dimension struct {
	Name      string
	Size      int64
	Unlimited bool
	owner     Dataset
}

func NewDimension(name string, size int64, unlimited bool) *Dimension {
	return &Dimension{Name: name, Size: size, Unlimited: unlimited}
}

func (d *Dimension) Owner() Dataset { return d.owner }

// SetOwner binds the non-owning back-pointer; called once by a concrete
// Dataset implementation (e.g. ncio's FileReader) right after it builds
// its Dimensions from the backend's metadata.
func (d *Dimension) SetOwner(ds Dataset) { d.owner = ds }

func (d *Dimension) Equal(o *Dimension) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Name == o.Name && d.Size == o.Size && d.Unlimited == o.Unlimited
}

// Attribute is spec §3's (name, type, count, values, owner). Values is a
// typed homogeneous sequence with length == count.
type Attribute struct {
	Name   string
	Type   dtype.DataType
	Values dtype.Buffer
}

func NewAttribute(name string, values dtype.Buffer) *Attribute {
	return &Attribute{Name: name, Type: values.Type(), Values: values}
}

func (a *Attribute) Count() int64 { return int64(a.Values.Len()) }

// Variable is spec §3's (name, type, ordered Dimensions, Attributes,
// owner). The leading Dimension may be unlimited ("record").
type Variable struct {
	Name  string
	Type  dtype.DataType
	Dims  []*Dimension
	Atts  []*Attribute
	owner Dataset
}

func NewVariable(name string, dt dtype.DataType, dims []*Dimension) *Variable {
	return &Variable{Name: name, Type: dt, Dims: dims}
}

func (v *Variable) Owner() Dataset { return v.owner }
func (v *Variable) NDim() int      { return len(v.Dims) }

// SetOwner binds the non-owning back-pointer; see Dimension.SetOwner.
func (v *Variable) SetOwner(ds Dataset) { v.owner = ds }

// IsRecordVariable reports whether the leading dimension is unlimited.
func (v *Variable) IsRecordVariable() bool {
	return len(v.Dims) > 0 && v.Dims[0].Unlimited
}

// Shape returns the variable's current global shape; for a record
// variable this uses the record dimension's current (dynamic) size.
func (v *Variable) Shape() darray.Shape {
	shape := make(darray.Shape, len(v.Dims))
	for i, d := range v.Dims {
		shape[i] = d.Size
	}
	return shape
}

// GetAtt looks up an attribute by name on this variable.
func (v *Variable) GetAtt(name string, ignoreCase bool) (*Attribute, bool) {
	return findAttr(v.Atts, name, ignoreCase)
}

// HasFillValue reports whether the variable carries a _FillValue or
// missing_value attribute (spec §4.2).
func (v *Variable) HasFillValue() bool {
	_, ok := v.fillAttr()
	return ok
}

// GetFillValue returns the sentinel, cast to double (spec §4.2).
func (v *Variable) GetFillValue() (float64, bool) {
	a, ok := v.fillAttr()
	if !ok {
		return 0, false
	}
	nb, ok := a.Values.(dtype.NumericBuffer)
	if !ok || nb.Len() == 0 {
		return 0, false
	}
	return nb.GetF64(0), true
}

func (v *Variable) fillAttr() (*Attribute, bool) {
	if a, ok := findAttr(v.Atts, "_FillValue", false); ok {
		return a, true
	}
	return findAttr(v.Atts, "missing_value", false)
}

// Read returns a newly allocated DistributedArray with v's type and shape
// (spec §4.2 read()).
func (v *Variable) Read(ctx *proc.Context) (*darray.Array, error) {
	return v.owner.ReadVar(ctx, v)
}

// ReadRecord fixes axis 0 to record (spec §4.2 read(record)).
func (v *Variable) ReadRecord(ctx *proc.Context, record int64) (*darray.Array, error) {
	return v.owner.ReadVarRecord(ctx, v, record)
}

// Iread posts a non-blocking read; contents are undefined until the owning
// Dataset's Wait returns (spec §4.2 iread).
func (v *Variable) Iread(ctx *proc.Context) (*darray.Array, error) {
	return v.owner.IreadVar(ctx, v)
}

func findAttr(atts []*Attribute, name string, ignoreCase bool) (*Attribute, bool) {
	for _, a := range atts {
		if matchName(a.Name, name, ignoreCase) {
			return a, true
		}
	}
	return nil, false
}

func matchName(a, b string, ignoreCase bool) bool {
	if ignoreCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// FileFormat is the on-disk container variant (spec §6).
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	CDF1
	CDF2
	CDF5
	NetCDF4
	NetCDF4Classic
)

// Grid is the narrow interface spec §4/§4.6 says the core consumes a
// recognized coordinate/topology bundle through. Implemented by package
// selection; declared here so Dataset can expose GetGrid without a import
// cycle.
type Grid interface {
	GetCellLat() (*darray.Array, error)
	GetCellLon() (*darray.Array, error)
	GetCornerLat() (*darray.Array, error)
	GetCornerLon() (*darray.Array, error)
	GetEdgeLat() (*darray.Array, error)
	GetEdgeLon() (*darray.Array, error)
	GetCellCorners() (*darray.Array, error)
	GetCellEdges() (*darray.Array, error)
	IsCoordinate(v *Variable) bool
	IsTopology(v *Variable) bool
	CellDimName() string
	CornerDimName() string
	EdgeDimName() string
}

// Dataset is spec §4.2's AbstractDataset. A Dataset owns its Dimensions,
// Attributes, and Variables; Close invalidates all of them.
type Dataset interface {
	GetAtts() []*Attribute
	GetDims() []*Dimension
	GetVars() []*Variable
	GetGrid() Grid
	GetUdim() (*Dimension, bool)
	Wait(ctx *proc.Context) error
	GetFileFormat() FileFormat

	GetAtt(name string, ignoreCase, withinVars bool) (*Attribute, bool)
	GetDim(name string, ignoreCase bool) (*Dimension, bool)
	GetVar(name string, ignoreCase bool) (*Variable, bool)

	ReadVar(ctx *proc.Context, v *Variable) (*darray.Array, error)
	ReadVarRecord(ctx *proc.Context, v *Variable, record int64) (*darray.Array, error)
	IreadVar(ctx *proc.Context, v *Variable) (*darray.Array, error)

	Close() error
}
