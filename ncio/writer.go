package ncio

import (
	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/pgerr"
	"github.com/pagoda-run/pagoda/proc"
)

// FileWriter is the write side of spec §4.7's two-phase file contract: a
// Define call declares the complete schema, EndDef closes the define
// phase, and only then may WriteVar/WriteVarRecord/IwriteVar run. This
// mirrors the original's "define once, then N collective writes" pgcombine
// and per-record reducer workflow (spec §6's binary-combiner and
// per-record-reducer CLI verbs both end with one of these).
type FileWriter struct {
	ctx     *proc.Context
	backend Backend
	defined bool
}

func NewWriter(ctx *proc.Context, backend Backend) *FileWriter {
	return &FileWriter{ctx: ctx, backend: backend}
}

// Define declares dims/atts/vars and ends the define phase in one call,
// since pagoda always knows its full output schema up front (no
// incremental schema growth mid-run).
func (fw *FileWriter) Define(dims []*dataset.Dimension, atts []*dataset.Attribute, vars []*dataset.Variable) error {
	if fw.defined {
		return pgerr.Command("ncio.define", "writer already past end_def")
	}
	if err := fw.backend.Define(dims, atts, vars); err != nil {
		return pgerr.IO("ncio.define", err)
	}
	if err := fw.backend.EndDef(); err != nil {
		return pgerr.IO("ncio.end_def", err)
	}
	fw.defined = true
	return nil
}

// WriteVar writes arr's entire contents to varName (spec §4.7
// put_vara_all), collectively: every rank's local rectangle is pushed to
// the backend independently, so a Backend's PutVaraAll must itself be
// safe to call concurrently from every rank (memio.Backend serializes
// internally via a mutex).
func (fw *FileWriter) WriteVar(varName string, arr *darray.Array) error {
	return fw.ctx.Collective(func(rank int) error {
		r := arr.Rect(rank)
		if !r.OwnsData() {
			return nil
		}
		buf, err := arr.Access(rank)
		if err != nil {
			return err
		}
		defer arr.Release(rank)
		if err := fw.backend.PutVaraAll(varName, r.Lo, r.Hi, buf); err != nil {
			return pgerr.IO("ncio.write_var", err)
		}
		return nil
	})
}

// WriteVarRecord writes arr (shaped like one record) into record's slot
// of varName's record dimension (spec §4.7 put_vara_all at a fixed
// record offset).
func (fw *FileWriter) WriteVarRecord(varName string, record int64, arr *darray.Array) error {
	return fw.ctx.Collective(func(rank int) error {
		r := arr.Rect(rank)
		if !r.OwnsData() {
			return nil
		}
		buf, err := arr.Access(rank)
		if err != nil {
			return err
		}
		defer arr.Release(rank)
		lo := append([]int64{record}, r.Lo...)
		hi := append([]int64{record}, r.Hi...)
		if err := fw.backend.PutVaraAll(varName, lo, hi, buf); err != nil {
			return pgerr.IO("ncio.write_var_record", err)
		}
		return nil
	})
}

// IwriteVar posts a non-blocking write (spec §4.7 iput_vara); the write
// is only guaranteed complete after WaitAll.
func (fw *FileWriter) IwriteVar(varName string, arr *darray.Array) error {
	return fw.ctx.Collective(func(rank int) error {
		r := arr.Rect(rank)
		if !r.OwnsData() {
			return nil
		}
		if err := fw.backend.IPutVara(varName, r.Lo, r.Hi, arr, r.Lo, r.Hi); err != nil {
			return pgerr.IO("ncio.iwrite_var", err)
		}
		return nil
	})
}

func (fw *FileWriter) Wait() error { return fw.backend.WaitAll() }

func (fw *FileWriter) Close() error { return fw.backend.Close() }
