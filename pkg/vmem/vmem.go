package vmem

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sys/unix"

	e "gather/error"
	"gather/pkg/scatter"
)

const DefaultCachePages = 1024

type cacheKey struct {
	pid  int
	addr uint64
}

type writeOp struct {
	addr uint64
	data []byte
}

// VM reads and writes another process's virtual memory through
// process_vm_readv/process_vm_writev, batching each round of pages into a
// single scatter syscall. Successfully fetched pages are kept in an LRU
// cache keyed by (pid, page address) until a write or an uncached fetch
// invalidates them.
type VM struct {
	cache *lru.Cache

	mu     sync.Mutex
	staged map[int][]writeOp
}

func New(cachePages int) (*VM, error) {
	if cachePages <= 0 {
		cachePages = DefaultCachePages
	}
	c, err := lru.New(cachePages)
	if err != nil {
		return nil, err
	}
	return &VM{
		cache:  c,
		staged: make(map[int][]writeOp),
	}, nil
}

// FetchPages services one scatter round. Cached pages are reused unless
// FlagNoCache is set; the rest are read with one scatter syscall, falling
// back to per-page reads when the batch stops short so failures land on
// the right pages. A vanished process is a transport error.
func (vm *VM) FetchPages(pid int, flags scatter.Flag, pages []uint64) ([]scatter.PageResult, error) {
	results := make([]scatter.PageResult, len(pages))
	useCache := flags&scatter.FlagNoCache == 0

	var miss []int
	for i, pa := range pages {
		results[i].Addr = pa
		if useCache {
			if v, ok := vm.cache.Get(cacheKey{pid, pa}); ok {
				results[i].Data = v.([]byte)
				results[i].OK = true
				continue
			}
		}
		miss = append(miss, i)
	}
	if len(miss) == 0 {
		return results, nil
	}

	addrs := make([]uint64, len(miss))
	for j, i := range miss {
		addrs[j] = pages[i]
	}
	block := make([]byte, len(miss)*scatter.PageSize)

	n, err := readScatter(pid, addrs, block)
	if err == unix.ESRCH {
		return nil, fmt.Errorf("pid %d: %w", pid, err)
	}
	if err == nil && n == len(block) {
		for j, i := range miss {
			data := block[j*scatter.PageSize : (j+1)*scatter.PageSize]
			results[i].Data = data
			results[i].OK = true
			vm.cache.Add(cacheKey{pid, pages[i]}, data)
		}
		return results, nil
	}

	// The scatter call stops at the first unreadable page. Retry page by
	// page so each failure is attributed to the page that caused it.
	for j, i := range miss {
		buf := make([]byte, scatter.PageSize)
		rn, rerr := readMemory(pid, buf, uintptr(addrs[j]))
		if rerr == unix.ESRCH {
			return nil, fmt.Errorf("pid %d: %w", pid, rerr)
		}
		if rerr != nil || rn != len(buf) {
			continue
		}
		results[i].Data = buf
		results[i].OK = true
		vm.cache.Add(cacheKey{pid, addrs[j]}, buf)
	}
	return results, nil
}

// FetchBuffer reads size bytes at addr in one call, uncached.
func (vm *VM) FetchBuffer(pid int, addr uint64, size uint32, flags scatter.Flag) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	n, err := readMemory(pid, buf, uintptr(addr))
	if err != nil {
		return nil, fmt.Errorf("read %d bytes at %#x from pid %d: %w", size, addr, pid, err)
	}
	if n != len(buf) {
		return nil, e.ShortRead
	}
	return buf, nil
}

// StageWrite queues one write for the pid's pending transaction.
func (vm *VM) StageWrite(pid int, addr uint64, data []byte) error {
	if addr == 0 {
		return e.ZeroAddress
	}
	if len(data) == 0 {
		return e.EmptyWrite
	}

	cp := make([]byte, len(data))
	copy(cp, data)

	vm.mu.Lock()
	vm.staged[pid] = append(vm.staged[pid], writeOp{addr: addr, data: cp})
	vm.mu.Unlock()
	return nil
}

// CommitWrites flushes the pid's staged writes with a single scatter
// syscall. The staged set is cleared whether or not the commit succeeds;
// a short transfer fails the whole batch.
func (vm *VM) CommitWrites(pid int) error {
	vm.mu.Lock()
	ops := vm.staged[pid]
	delete(vm.staged, pid)
	vm.mu.Unlock()

	if len(ops) == 0 {
		return nil
	}

	total := 0
	for _, op := range ops {
		total += len(op.data)
	}

	n, err := writeScatter(pid, ops)
	if err != nil {
		return fmt.Errorf("write %d staged ops to pid %d: %w", len(ops), pid, err)
	}
	if n != total {
		return e.ShortWrite
	}

	// Written pages may be cached; drop them.
	for _, op := range ops {
		first := op.addr &^ uint64(scatter.PageSize-1)
		last := (op.addr + uint64(len(op.data)) - 1) &^ uint64(scatter.PageSize-1)
		for pa := first; pa <= last; pa += scatter.PageSize {
			vm.cache.Remove(cacheKey{pid, pa})
		}
	}
	return nil
}

// DiscardWrites drops the pid's staged writes without touching target
// memory.
func (vm *VM) DiscardWrites(pid int) {
	vm.mu.Lock()
	delete(vm.staged, pid)
	vm.mu.Unlock()
}

func (vm *VM) stagedCount(pid int) int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.staged[pid])
}
