package scatter

// Kind determines both the decode strategy for a fetched entry and, for
// fixed-width kinds, the intrinsic element size. Buffer and String have no
// intrinsic width; their size comes from the entry's size source.
type Kind int

const (
	KindPointer Kind = iota
	KindBuffer
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindVec2
	KindVec3
	KindBool
	KindString
)

// Vec2 is two packed little-endian float32 values.
type Vec2 struct {
	X, Y float32
}

// Vec3 is three packed little-endian float32 values.
type Vec3 struct {
	X, Y, Z float32
}

// Width returns the intrinsic byte width of the kind, or 0 for kinds whose
// size is caller-supplied.
func (k Kind) Width() uint32 {
	switch k {
	case KindPointer, KindInt64, KindUint64, KindFloat64, KindVec2:
		return 8
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindVec3:
		return 12
	case KindBool:
		return 1
	default:
		return 0
	}
}

var kindNames = map[Kind]string{
	KindPointer: "ptr",
	KindBuffer:  "buf",
	KindInt32:   "i32",
	KindUint32:  "u32",
	KindInt64:   "i64",
	KindUint64:  "u64",
	KindFloat32: "f32",
	KindFloat64: "f64",
	KindVec2:    "vec2",
	KindVec3:    "vec3",
	KindBool:    "bool",
	KindString:  "str",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindFromString maps the short kind names used on the command line back to
// a Kind.
func KindFromString(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}
