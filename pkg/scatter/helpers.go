package scatter

import (
	"fmt"
	"strings"
	"unsafe"

	e "gather/error"
)

// Single-value conveniences built on the provider's single-address
// primitives, for callers that do not need batching. Unlike the engine,
// failures here escalate immediately.

// ReadValue reads one fixed-layout value at addr. T must be a scalar or a
// struct of scalars with the target's memory layout.
func ReadValue[T any](p Provider, pid int, addr uint64) (T, error) {
	var v T
	size := uint32(unsafe.Sizeof(v))
	buf, err := p.FetchBuffer(pid, addr, size, 0)
	if err != nil {
		return v, fmt.Errorf("read %d bytes at %#x: %w", size, addr, err)
	}
	if len(buf) < int(size) {
		return v, e.ShortRead
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), size), buf)
	return v, nil
}

// ReadBuffer reads size raw bytes at addr.
func ReadBuffer(p Provider, pid int, addr uint64, size uint32) ([]byte, error) {
	return p.FetchBuffer(pid, addr, size, 0)
}

// ReadString reads up to max bytes at addr and truncates at the first NUL,
// using the same convention as KindString entries.
func ReadString(p Provider, pid int, addr uint64, max uint32) (string, error) {
	buf, err := p.FetchBuffer(pid, addr, max, 0)
	if err != nil {
		return "", err
	}
	s := string(buf)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return s, nil
}

// ReadPtr reads a pointer at addr; a zero value is an error.
func ReadPtr(p Provider, pid int, addr uint64) (uint64, error) {
	v, err := ReadValue[uint64](p, pid, addr)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, e.NullPointer
	}
	return v, nil
}

// ReadPtrChain follows a pointer chain from base, dereferencing base+off
// for each offset in turn. The whole chain fails at the first null or
// unreadable step.
func ReadPtrChain(p Provider, pid int, base uint64, offsets []uint64) (uint64, error) {
	addr := base
	for i, off := range offsets {
		v, err := ReadPtr(p, pid, addr+off)
		if err != nil {
			return 0, fmt.Errorf("chain step %d (+%#x): %w", i, off, err)
		}
		addr = v
	}
	return addr, nil
}

// WriteValue writes one fixed-layout value at addr as a single committed
// transaction.
func WriteValue[T any](p Provider, pid int, addr uint64, v T) error {
	buf := make([]byte, unsafe.Sizeof(v))
	copy(buf, unsafe.Slice((*byte)(unsafe.Pointer(&v)), len(buf)))
	return WriteBuffer(p, pid, addr, buf)
}

// WriteBuffer writes raw bytes at addr as a single committed transaction.
func WriteBuffer(p Provider, pid int, addr uint64, data []byte) error {
	return Write(p, pid, []WriteEntry{{Addr: addr, Data: data}})
}
