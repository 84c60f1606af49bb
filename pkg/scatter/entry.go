package scatter

type sourceKind int

const (
	srcNone sourceKind = iota
	srcFixed
	srcRef
)

// Source is where an entry's base address or element size comes from:
// a literal value, or the result of an entry executed in an earlier round.
// The zero Source means "unset"; for sizes that selects the kind's
// intrinsic width.
type Source struct {
	kind sourceKind
	val  uint64
	ref  *Entry
}

// NoSize is the unset size source. Fixed-width kinds ignore the size source
// entirely, so NoSize is what callers pass for them.
var NoSize = Source{}

// Fixed returns a source resolving to the literal value v.
func Fixed(v uint64) Source {
	return Source{kind: srcFixed, val: v}
}

// ResultOf returns a source resolving to e's result, read as an unsigned
// 64-bit value. The referenced entry must belong to a round that executes
// before the one using the source; otherwise, or if the entry failed or
// holds a non-integer result, the source resolves to 0.
func ResultOf(e *Entry) Source {
	return Source{kind: srcRef, ref: e}
}

func (s Source) resolve() uint64 {
	switch s.kind {
	case srcFixed:
		return s.val
	case srcRef:
		if s.ref == nil {
			return 0
		}
		v, ok := s.ref.asUint64()
		if !ok {
			return 0
		}
		return v
	default:
		return 0
	}
}

// Entry is one planned read, identified by (loop index, id) within its
// plan. Its result and failure state are populated in place each time the
// plan executes.
type Entry struct {
	index  int
	id     int
	kind   Kind
	addr   Source
	size   Source
	offset uint64
	mult   int

	// set by the engine
	elemSize uint32
	failed   bool
	result   any
}

func (e *Entry) Index() int { return e.index }

func (e *Entry) ID() int { return e.id }

func (e *Entry) Kind() Kind { return e.kind }

// Failed reports whether the last execution failed to produce a result for
// this entry. Meaningful only after the plan has executed.
func (e *Entry) Failed() bool { return e.failed }

// SetMultiplier scales the resolved element size by n, for reading arrays
// of fixed-size elements in one entry. Values below 1 are ignored.
func (e *Entry) SetMultiplier(n int) *Entry {
	if n >= 1 {
		e.mult = n
	}
	return e
}

// Result returns the decoded value and whether one is present. The dynamic
// type follows the entry's kind: uint64 for ptr/u64, int32 for i32, []byte
// for buf, string for str, and so on.
func (e *Entry) Result() (any, bool) {
	if e.failed || e.result == nil {
		return nil, false
	}
	return e.result, true
}

func (e *Entry) Uint64() (uint64, bool) {
	v, ok := e.result.(uint64)
	return v, ok && !e.failed
}

func (e *Entry) Int64() (int64, bool) {
	v, ok := e.result.(int64)
	return v, ok && !e.failed
}

func (e *Entry) Uint32() (uint32, bool) {
	v, ok := e.result.(uint32)
	return v, ok && !e.failed
}

func (e *Entry) Int32() (int32, bool) {
	v, ok := e.result.(int32)
	return v, ok && !e.failed
}

func (e *Entry) Float32() (float32, bool) {
	v, ok := e.result.(float32)
	return v, ok && !e.failed
}

func (e *Entry) Float64() (float64, bool) {
	v, ok := e.result.(float64)
	return v, ok && !e.failed
}

func (e *Entry) Vec2() (Vec2, bool) {
	v, ok := e.result.(Vec2)
	return v, ok && !e.failed
}

func (e *Entry) Vec3() (Vec3, bool) {
	v, ok := e.result.(Vec3)
	return v, ok && !e.failed
}

func (e *Entry) Bool() (bool, bool) {
	v, ok := e.result.(bool)
	return v, ok && !e.failed
}

func (e *Entry) Bytes() ([]byte, bool) {
	v, ok := e.result.([]byte)
	return v, ok && !e.failed
}

func (e *Entry) Text() (string, bool) {
	v, ok := e.result.(string)
	return v, ok && !e.failed
}

// asUint64 reads the result as an unsigned 64-bit value for address and
// size chaining. Any integer-typed result converts; everything else is
// unresolved.
func (e *Entry) asUint64() (uint64, bool) {
	if e.failed {
		return 0, false
	}
	switch v := e.result.(type) {
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case int32:
		return uint64(v), true
	default:
		return 0, false
	}
}
