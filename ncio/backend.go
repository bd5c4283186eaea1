// Package ncio implements spec §4.7's external seam to the netCDF-family
// container format: the define/data two-phase file contract (classic
// CDF1/2/5 model: all dimensions, attributes, and variable declarations
// are fixed during a define phase, ended by EndDef, before any data is
// written) plus the non-blocking iget_vara/iput_vara/wait_all read/write
// calls Variable.Iread and Dataset.Wait are built on. No netCDF/HDF5
// client library exists anywhere in the example pack (the one historical
// candidate, a bitbucket.org/ctessum/cdf-style binding, is not a fetchable
// module any current Go project depends on) — per the "never fabricate
// dependencies" rule, Backend is kept as a pure interface and the only
// concrete implementation shipped here is ncio/memio's in-memory
// reference backend, used by tests and by the CLI's fixture registry.
package ncio

import (
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dtype"
)

// Backend is the seam spec §4.7 describes: a container that can be
// opened for reading, or defined and written, independent of any
// particular wire format.
type Backend interface {
	// Open reads an existing container's metadata (spec §4.7 open,
	// define phase already closed).
	Open() (dims []*dataset.Dimension, atts []*dataset.Attribute, vars []*dataset.Variable, format dataset.FileFormat, err error)

	// Define declares a new container's schema (spec §4.7 define); must
	// be followed by EndDef before any GetVaraAll/PutVaraAll call.
	Define(dims []*dataset.Dimension, atts []*dataset.Attribute, vars []*dataset.Variable) error
	EndDef() error

	// GetVaraAll/PutVaraAll are the blocking collective transfers of the
	// inclusive [lo,hi] rectangle of a variable (spec §4.7).
	GetVaraAll(varName string, lo, hi []int64) (dtype.Buffer, error)
	PutVaraAll(varName string, lo, hi []int64, data dtype.Buffer) error

	// IGetVara/IPutVara post non-blocking requests; WaitAll blocks until
	// every request posted since the last WaitAll has completed (spec
	// §4.7 iget_vara/iput_vara/wait_all).
	IGetVara(varName string, lo, hi []int64, dst *darray.Array, dstLo, dstHi []int64) error
	IPutVara(varName string, lo, hi []int64, src *darray.Array, srcLo, srcHi []int64) error
	WaitAll() error

	Close() error
}
