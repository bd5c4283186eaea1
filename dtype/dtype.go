// Package dtype defines pagoda's closed DataType tag set (spec §3) and the
// generic cast dispatch that replaces the original's macro-expanded typed
// dispatch (Design Notes §9): a single tagged enum plus a small generic
// dispatch helper instantiates the actual kernel per concrete element type,
// never via reflection.
package dtype

//go:generate go run github.com/dmarkham/enumer -type=DataType -trimprefix=""

import "fmt"

// DataType is one tag of the closed set {i8,i16,i32,i64,u8,u16,u32,u64,f32,
// f64,f80,char,string}.
type DataType int

const (
	Invalid DataType = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	F80
	Char
	String
)

// Numeric reports whether the type participates in numeric casts and
// elementwise arithmetic. Char and String never do (spec §4.1: "char↔numeric
// crosses are an error").
func (d DataType) Numeric() bool {
	switch d {
	case I8, I16, I32, I64, U8, U16, U32, U64, F32, F64, F80:
		return true
	default:
		return false
	}
}

// Size returns the in-memory width of one element, in bytes. F80 is stored
// widened to 16 bytes (no native Go type has 80-bit precision; see Ext in
// dtype/buffer.go for how the f80 lane is represented).
func (d DataType) Size() int {
	switch d {
	case I8, U8, Char:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	case F80:
		return 16
	case String:
		return int(stringHeaderSize)
	default:
		return 0
	}
}

const stringHeaderSize = 16 // len+ptr on a 64-bit Go runtime; informational only.

// NCType is the netCDF type code a DataType maps onto 1:1 (spec §6).
type NCType int

const (
	NCInvalid NCType = iota
	NCByte
	NCChar
	NCShort
	NCInt
	NCFloat
	NCDouble
	NCInt64
	NCUByte
	NCUShort
	NCUInt
	NCUInt64
	NCString
)

var toNC = map[DataType]NCType{
	I8:     NCByte,
	Char:   NCChar,
	I16:    NCShort,
	I32:    NCInt,
	F32:    NCFloat,
	F64:    NCDouble,
	I64:    NCInt64,
	U8:     NCUByte,
	U16:    NCUShort,
	U32:    NCUInt,
	U64:    NCUInt64,
	String: NCString,
}

var fromNC map[NCType]DataType

func init() {
	fromNC = make(map[NCType]DataType, len(toNC))
	for dt, nc := range toNC {
		fromNC[nc] = dt
	}
	// F80 has no netCDF type code; it is pagoda-internal only. It
	// deliberately has no entry in toNC/fromNC.
}

// ToNC maps a DataType to its netCDF type code. F80 has no netCDF
// representation and returns (NCInvalid, false).
func (d DataType) ToNC() (NCType, bool) {
	nc, ok := toNC[d]
	return nc, ok
}

// FromNC is the inverse of ToNC.
func FromNC(nc NCType) (DataType, bool) {
	dt, ok := fromNC[nc]
	return dt, ok
}

func (d DataType) GoString() string { return fmt.Sprintf("dtype.%s", d.String()) }
