package ir

// NativeType is the closed set of built-in wire types.
type NativeType uint8

const (
	NativeInvalid NativeType = iota
	NativeU8
	NativeU16
	NativeU32
	NativeU64
	NativeI8
	NativeI16
	NativeI32
	NativeI64
	NativeF32
	NativeF64
	NativeBool
	NativeBit
	NativeByte
	NativeString
	NativeBytes
)

var nativeNames = [...]string{
	NativeInvalid: "<invalid>",
	NativeU8:      "u8",
	NativeU16:     "u16",
	NativeU32:     "u32",
	NativeU64:     "u64",
	NativeI8:      "i8",
	NativeI16:     "i16",
	NativeI32:     "i32",
	NativeI64:     "i64",
	NativeF32:     "f32",
	NativeF64:     "f64",
	NativeBool:    "bool",
	NativeBit:     "bit",
	NativeByte:    "byte",
	NativeString:  "string",
	NativeBytes:   "bytes",
}

func (n NativeType) String() string {
	if int(n) < len(nativeNames) {
		return nativeNames[n]
	}
	return nativeNames[NativeInvalid]
}

// nativeByName resolves a schema-level type name, including the long
// aliases (uint32, int8, float64 and so on).
var nativeByName = map[string]NativeType{
	"u8":  NativeU8,
	"u16": NativeU16,
	"u32": NativeU32,
	"u64": NativeU64,
	"i8":  NativeI8,
	"i16": NativeI16,
	"i32": NativeI32,
	"i64": NativeI64,
	"f32": NativeF32,
	"f64": NativeF64,

	"uint8":   NativeU8,
	"uint16":  NativeU16,
	"uint32":  NativeU32,
	"uint64":  NativeU64,
	"int8":    NativeI8,
	"int16":   NativeI16,
	"int32":   NativeI32,
	"int64":   NativeI64,
	"float32": NativeF32,
	"float64": NativeF64,

	"bool":   NativeBool,
	"bit":    NativeBit,
	"byte":   NativeByte,
	"string": NativeString,
	"bytes":  NativeBytes,
}

// LookupNative resolves a type name to a native type. ok is false for
// names that must be user-defined types.
func LookupNative(name string) (NativeType, bool) {
	n, ok := nativeByName[name]
	return n, ok
}

// BitWidth returns the storage width in bits for fixed-width natives.
// ok is false for string and bytes, which have no fixed width.
func (n NativeType) BitWidth() (uint32, bool) {
	switch n {
	case NativeBit:
		return 1, true
	case NativeU8, NativeI8, NativeByte, NativeBool:
		return 8, true
	case NativeU16, NativeI16:
		return 16, true
	case NativeU32, NativeI32, NativeF32:
		return 32, true
	case NativeU64, NativeI64, NativeF64:
		return 64, true
	default:
		return 0, false
	}
}

// IsInteger reports whether n is an integer type (bit and byte included).
func (n NativeType) IsInteger() bool {
	switch n {
	case NativeU8, NativeU16, NativeU32, NativeU64,
		NativeI8, NativeI16, NativeI32, NativeI64,
		NativeBit, NativeByte:
		return true
	default:
		return false
	}
}

func (n NativeType) IsSigned() bool {
	switch n {
	case NativeI8, NativeI16, NativeI32, NativeI64:
		return true
	default:
		return false
	}
}

func (n NativeType) IsFloat() bool {
	return n == NativeF32 || n == NativeF64
}

// IsValidMapKey reports whether n can key a map. Keys must be scalar and
// comparable on every target, so floats, bit, and the variable-size
// types are out.
func (n NativeType) IsValidMapKey() bool {
	switch n {
	case NativeU8, NativeU16, NativeU32, NativeU64,
		NativeI8, NativeI16, NativeI32, NativeI64,
		NativeBool, NativeByte, NativeString:
		return true
	default:
		return false
	}
}
