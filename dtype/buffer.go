package dtype

import "fmt"

// Number is the set of concrete Go types backing pagoda's eleven numeric
// DataType tags. Ext is the lane used for F80 (see below).
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Ext is the storage lane for the F80 tag. Go has no native 80-bit extended
// float; pagoda holds it as a float64 (so it carries float64 precision
// only), while dtype.Size reports a 16-byte width for the tag. F80 has no
// netCDF type code, so Ext values are never written to or read from a file.
type Ext float64

// Buffer is a homogeneous, typed sequence of element count Len(); it backs
// a DistributedArray's local rectangle, a Mask's 1-D keep-array, and the
// dense buffers Pack/Unpack stream through. Concrete element access goes
// through the generic NumBuffer[T] below (numeric) or CharBuffer/
// StringBuffer (non-numeric); this keeps typed dispatch to a handful of
// type-switch cases instead of runtime reflection (Design Notes §9).
type Buffer interface {
	Type() DataType
	Len() int
	Clone() Buffer
	Slice(lo, hi int) Buffer
}

// NumericBuffer is a Buffer whose elements can be widened to/from float64.
// This powers mask bit tests, fill-value comparisons, and weight
// broadcasting; it is NOT used for Cast, which dispatches through the exact
// source/destination Go types (see Cast below) to avoid float64-precision
// loss for the narrow-to-narrow and same-width cases the round-trip
// property in spec §8 requires.
type NumericBuffer interface {
	Buffer
	GetF64(i int) float64
	SetF64(i int, v float64)
}

// AnyBuffer is a Buffer that can move elements as opaque `any` values
// without going through arithmetic widening; darray's Get/Put/Scatter/
// Gather/Copy use this so char/string buffers participate in one-sided
// data movement the same way numeric buffers do.
type AnyBuffer interface {
	Buffer
	GetAny(i int) any
	SetAny(i int, v any)
}

// NumBuffer is the single generic implementation backing all eleven numeric
// DataTypes.
type NumBuffer[T Number] struct {
	data []T
}

// NewNumBuffer wraps an existing slice (no copy).
func NewNumBuffer[T Number](data []T) *NumBuffer[T] {
	return &NumBuffer[T]{data: data}
}

// MakeNumBuffer allocates a new zero-filled buffer of n elements.
func MakeNumBuffer[T Number](n int) *NumBuffer[T] {
	return &NumBuffer[T]{data: make([]T, n)}
}

func (b *NumBuffer[T]) Type() DataType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return I8
	case int16:
		return I16
	case int32:
		return I32
	case int64:
		return I64
	case uint8:
		return U8
	case uint16:
		return U16
	case uint32:
		return U32
	case uint64:
		return U64
	case float32:
		return F32
	case float64:
		return F64
	case Ext:
		return F80
	default:
		return Invalid
	}
}

func (b *NumBuffer[T]) Len() int { return len(b.data) }

func (b *NumBuffer[T]) Raw() []T { return b.data }

func (b *NumBuffer[T]) Clone() Buffer {
	out := make([]T, len(b.data))
	copy(out, b.data)
	return &NumBuffer[T]{data: out}
}

func (b *NumBuffer[T]) Slice(lo, hi int) Buffer {
	return &NumBuffer[T]{data: b.data[lo:hi]}
}

func (b *NumBuffer[T]) GetF64(i int) float64 { return float64(b.data[i]) }

func (b *NumBuffer[T]) SetF64(i int, v float64) { b.data[i] = T(v) }

func (b *NumBuffer[T]) GetAny(i int) any { return b.data[i] }

func (b *NumBuffer[T]) SetAny(i int, v any) { b.data[i] = v.(T) }

// CharBuffer backs the Char DataType: a sequence of single bytes (netCDF's
// NC_CHAR has no separate notion of "string" from "array of char").
type CharBuffer struct {
	data []byte
}

func NewCharBuffer(data []byte) *CharBuffer   { return &CharBuffer{data: data} }
func MakeCharBuffer(n int) *CharBuffer        { return &CharBuffer{data: make([]byte, n)} }
func (b *CharBuffer) Type() DataType          { return Char }
func (b *CharBuffer) Len() int                { return len(b.data) }
func (b *CharBuffer) Raw() []byte             { return b.data }
func (b *CharBuffer) Clone() Buffer {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return &CharBuffer{data: out}
}
func (b *CharBuffer) Slice(lo, hi int) Buffer { return &CharBuffer{data: b.data[lo:hi]} }
func (b *CharBuffer) GetAny(i int) any        { return b.data[i] }
func (b *CharBuffer) SetAny(i int, v any)     { b.data[i] = v.(byte) }

// StringBuffer backs the String DataType (NC_STRING): a sequence of
// variable-length Go strings, one per element.
type StringBuffer struct {
	data []string
}

func NewStringBuffer(data []string) *StringBuffer { return &StringBuffer{data: data} }
func MakeStringBuffer(n int) *StringBuffer        { return &StringBuffer{data: make([]string, n)} }
func (b *StringBuffer) Type() DataType            { return String }
func (b *StringBuffer) Len() int                  { return len(b.data) }
func (b *StringBuffer) Raw() []string              { return b.data }
func (b *StringBuffer) Clone() Buffer {
	out := make([]string, len(b.data))
	copy(out, b.data)
	return &StringBuffer{data: out}
}
func (b *StringBuffer) Slice(lo, hi int) Buffer { return &StringBuffer{data: b.data[lo:hi]} }
func (b *StringBuffer) GetAny(i int) any        { return b.data[i] }
func (b *StringBuffer) SetAny(i int, v any)     { b.data[i] = v.(string) }

// NewBuffer allocates a zero-valued Buffer of the given DataType and
// length.
func NewBuffer(dt DataType, n int) (Buffer, error) {
	switch dt {
	case I8:
		return MakeNumBuffer[int8](n), nil
	case I16:
		return MakeNumBuffer[int16](n), nil
	case I32:
		return MakeNumBuffer[int32](n), nil
	case I64:
		return MakeNumBuffer[int64](n), nil
	case U8:
		return MakeNumBuffer[uint8](n), nil
	case U16:
		return MakeNumBuffer[uint16](n), nil
	case U32:
		return MakeNumBuffer[uint32](n), nil
	case U64:
		return MakeNumBuffer[uint64](n), nil
	case F32:
		return MakeNumBuffer[float32](n), nil
	case F64:
		return MakeNumBuffer[float64](n), nil
	case F80:
		return MakeNumBuffer[Ext](n), nil
	case Char:
		return MakeCharBuffer(n), nil
	case String:
		return MakeStringBuffer(n), nil
	default:
		return nil, fmt.Errorf("dtype: cannot allocate buffer of type %s", dt)
	}
}

func castSlice[S, D Number](src []S) []D {
	dst := make([]D, len(src))
	for i, v := range src {
		dst[i] = D(v)
	}
	return dst
}

func castTo[S Number](src []S, dst DataType) (Buffer, error) {
	switch dst {
	case I8:
		return NewNumBuffer(castSlice[S, int8](src)), nil
	case I16:
		return NewNumBuffer(castSlice[S, int16](src)), nil
	case I32:
		return NewNumBuffer(castSlice[S, int32](src)), nil
	case I64:
		return NewNumBuffer(castSlice[S, int64](src)), nil
	case U8:
		return NewNumBuffer(castSlice[S, uint8](src)), nil
	case U16:
		return NewNumBuffer(castSlice[S, uint16](src)), nil
	case U32:
		return NewNumBuffer(castSlice[S, uint32](src)), nil
	case U64:
		return NewNumBuffer(castSlice[S, uint64](src)), nil
	case F32:
		return NewNumBuffer(castSlice[S, float32](src)), nil
	case F64:
		return NewNumBuffer(castSlice[S, float64](src)), nil
	case F80:
		return NewNumBuffer(castSlice[S, Ext](src)), nil
	default:
		return nil, fmt.Errorf("dtype: cannot cast to non-numeric type %s", dst)
	}
}

// Cast converts src to a freshly allocated Buffer of DataType dst, element
// by element, using the target language's native numeric conversion for
// the concrete (src,dst) Go type pair (spec §4.1). Crossing between a
// numeric type and Char or String is a DataTypeException-class error
// (reported by the caller, which knows the failing op name); Cast itself
// just reports the condition.
func Cast(src Buffer, dst DataType) (Buffer, error) {
	if !src.Type().Numeric() || !dst.Numeric() {
		return nil, fmt.Errorf("dtype: cannot cast %s to %s: non-numeric crossing", src.Type(), dst)
	}
	switch b := src.(type) {
	case *NumBuffer[int8]:
		return castTo(b.data, dst)
	case *NumBuffer[int16]:
		return castTo(b.data, dst)
	case *NumBuffer[int32]:
		return castTo(b.data, dst)
	case *NumBuffer[int64]:
		return castTo(b.data, dst)
	case *NumBuffer[uint8]:
		return castTo(b.data, dst)
	case *NumBuffer[uint16]:
		return castTo(b.data, dst)
	case *NumBuffer[uint32]:
		return castTo(b.data, dst)
	case *NumBuffer[uint64]:
		return castTo(b.data, dst)
	case *NumBuffer[float32]:
		return castTo(b.data, dst)
	case *NumBuffer[float64]:
		return castTo(b.data, dst)
	case *NumBuffer[Ext]:
		return castTo(b.data, dst)
	default:
		return nil, fmt.Errorf("dtype: unsupported buffer type %T", src)
	}
}
