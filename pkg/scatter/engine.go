package scatter

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
)

// span is the set of consecutive pages a byte range overlaps.
type span struct {
	first uint64 // page-aligned address of the first page
	count int    // pages spanned
	skip  int    // byte offset of the range within the first page
}

func spanOf(addr uint64, size int) span {
	return span{
		first: addr &^ uint64(pageMask),
		count: (int(addr&pageMask) + size + PageSize - 1) >> PageShift,
		skip:  int(addr & pageMask),
	}
}

// runRound services one round with a single provider fetch.
//
// Pass 1 resolves every entry's address and size and collects the
// deduplicated set of pages the round needs. Pass 2 redoes the span
// arithmetic per entry and reassembles its bytes from the fetched pages.
// The arithmetic is identical in both passes and no entry depends on a
// sibling in the same round, so the passes are deterministic.
func (p *Plan) runRound(r *Round) error {
	pages := make(map[uint64]struct{})

	for _, e := range r.entries {
		e.result = nil
		e.failed = false

		addr := e.addr.resolve()
		e.elemSize = e.resolveSize()
		eff := int(e.elemSize) * e.mult
		if addr == 0 || eff == 0 {
			e.failed = true
			p.log.Debugf("entry (%d,%d): unresolved, addr=%#x size=%d", e.index, e.id, addr, eff)
			continue
		}

		s := spanOf(addr+e.offset, eff)
		for i := 0; i < s.count; i++ {
			pages[s.first+uint64(i)*PageSize] = struct{}{}
		}
	}

	fetched := make(map[uint64]PageResult, len(pages))
	if len(pages) > 0 {
		want := make([]uint64, 0, len(pages))
		for pa := range pages {
			want = append(want, pa)
		}
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

		var flags Flag
		if !r.useCache {
			flags |= FlagNoCache
		}
		res, err := p.provider.FetchPages(r.pid, flags, want)
		if err != nil {
			return fmt.Errorf("fetch %d pages from pid %d: %w", len(want), r.pid, err)
		}
		for _, pr := range res {
			fetched[pr.Addr] = pr
		}
	}

	for _, e := range r.entries {
		if e.failed {
			continue
		}
		p.parseEntry(e, fetched)
	}
	return nil
}

// resolveSize returns the unscaled element size. Fixed-width kinds ignore
// the size source entirely.
func (e *Entry) resolveSize() uint32 {
	if w := e.kind.Width(); w > 0 {
		return w
	}
	return uint32(e.size.resolve())
}

// parseEntry reassembles the entry's byte range from the fetched pages and
// decodes it. Any failure leaves the entry failed with no result; partial
// copies are discarded.
func (p *Plan) parseEntry(e *Entry, fetched map[uint64]PageResult) {
	addr := e.addr.resolve()
	eff := int(e.elemSize) * e.mult
	s := spanOf(addr+e.offset, eff)

	out := make([]byte, eff)
	copied := 0
	for i := 0; i < s.count; i++ {
		pa := s.first + uint64(i)*PageSize
		pr, ok := fetched[pa]
		if !ok || !pr.OK {
			e.failed = true
			p.log.Debugf("entry (%d,%d): page %#x unreadable", e.index, e.id, pa)
			return
		}

		start := 0
		if i == 0 {
			start = s.skip
		}
		n := PageSize - start
		if rem := eff - copied; n > rem {
			n = rem
		}
		if start+n > len(pr.Data) {
			e.failed = true
			p.log.Debugf("entry (%d,%d): short page %#x (%d bytes)", e.index, e.id, pa, len(pr.Data))
			return
		}
		copy(out[copied:], pr.Data[start:start+n])
		copied += n
	}
	if copied != eff {
		e.failed = true
		return
	}

	if !e.decode(out) {
		e.failed = true
		p.log.Debugf("entry (%d,%d): cannot decode %d bytes as %s", e.index, e.id, eff, e.kind)
	}
}

// decode interprets buf according to the entry's kind. Scalar kinds with a
// multiplier decode the first element only; arrays of scalars are read as
// buf. A zero pointer is a decode failure.
func (e *Entry) decode(buf []byte) bool {
	if w := int(e.kind.Width()); w > 0 && len(buf) < w {
		return false
	}
	switch e.kind {
	case KindPointer:
		v := binary.LittleEndian.Uint64(buf)
		if v == 0 {
			return false
		}
		e.result = v
	case KindBuffer:
		e.result = buf
	case KindInt32:
		e.result = int32(binary.LittleEndian.Uint32(buf))
	case KindUint32:
		e.result = binary.LittleEndian.Uint32(buf)
	case KindInt64:
		e.result = int64(binary.LittleEndian.Uint64(buf))
	case KindUint64:
		e.result = binary.LittleEndian.Uint64(buf)
	case KindFloat32:
		e.result = math.Float32frombits(binary.LittleEndian.Uint32(buf))
	case KindFloat64:
		e.result = math.Float64frombits(binary.LittleEndian.Uint64(buf))
	case KindVec2:
		e.result = Vec2{
			X: math.Float32frombits(binary.LittleEndian.Uint32(buf)),
			Y: math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])),
		}
	case KindVec3:
		e.result = Vec3{
			X: math.Float32frombits(binary.LittleEndian.Uint32(buf)),
			Y: math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])),
			Z: math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])),
		}
	case KindBool:
		e.result = buf[0] != 0
	case KindString:
		// Decode the whole buffer, then cut at the first NUL. Bytes after
		// the terminator are discarded; callers depend on this convention.
		s := string(buf)
		if i := strings.IndexByte(s, 0); i >= 0 {
			s = s[:i]
		}
		e.result = s
	default:
		return false
	}
	return true
}
