package scatter

// Flag is a bitmask passed through to the provider on every fetch.
type Flag uint64

const (
	// FlagNoCache forces the provider to bypass any page cache it keeps
	// and read target memory fresh.
	FlagNoCache Flag = 1 << iota
)

// Page granularity of the target address space. Must match the provider's
// page size; all span arithmetic in the engine is in these units.
const (
	PageShift = 12
	PageSize  = 1 << PageShift

	pageMask = PageSize - 1
)

// PageResult is one fetched page. Data holds PageSize bytes when OK is
// true and is meaningless otherwise.
type PageResult struct {
	Addr uint64
	OK   bool
	Data []byte
}

// Provider is the memory-access transport the engine batches against.
// FetchPages services one round with a single call; per-page failures are
// reported in-band through PageResult.OK, a returned error means the
// transport itself is broken (process gone, handle closed).
//
// StageWrite/CommitWrites/DiscardWrites form a scoped write transaction:
// stage N writes, commit once. Discard drops staged writes without
// touching target memory.
type Provider interface {
	FetchPages(pid int, flags Flag, pages []uint64) ([]PageResult, error)
	FetchBuffer(pid int, addr uint64, size uint32, flags Flag) ([]byte, error)

	StageWrite(pid int, addr uint64, data []byte) error
	CommitWrites(pid int) error
	DiscardWrites(pid int)
}
