package vmem

import (
	"golang.org/x/sys/unix"

	"gather/pkg/scatter"
)

func readMemory(pid int, data []byte, ptr uintptr) (int, error) {
	localIov := []unix.Iovec{
		{
			Base: &data[0],
			Len:  uint64(len(data)),
		},
	}

	remoteIov := []unix.RemoteIovec{
		{
			Base: ptr,
			Len:  len(data),
		},
	}

	return unix.ProcessVMReadv(pid, localIov, remoteIov, 0)
}

// readScatter reads one full page per address into block with a single
// syscall. block must hold len(pages)*PageSize bytes. The kernel stops at
// the first unreadable page; the returned count tells the caller how far
// it got.
func readScatter(pid int, pages []uint64, block []byte) (int, error) {
	localIov := make([]unix.Iovec, len(pages))
	remoteIov := make([]unix.RemoteIovec, len(pages))
	for i, pa := range pages {
		localIov[i] = unix.Iovec{
			Base: &block[i*scatter.PageSize],
			Len:  scatter.PageSize,
		}
		remoteIov[i] = unix.RemoteIovec{
			Base: uintptr(pa),
			Len:  scatter.PageSize,
		}
	}

	return unix.ProcessVMReadv(pid, localIov, remoteIov, 0)
}

// writeScatter flushes all staged ops with a single syscall.
func writeScatter(pid int, ops []writeOp) (int, error) {
	localIov := make([]unix.Iovec, len(ops))
	remoteIov := make([]unix.RemoteIovec, len(ops))
	for i, op := range ops {
		localIov[i] = unix.Iovec{
			Base: &op.data[0],
			Len:  uint64(len(op.data)),
		}
		remoteIov[i] = unix.RemoteIovec{
			Base: uintptr(op.addr),
			Len:  len(op.data),
		}
	}

	return unix.ProcessVMWritev(pid, localIov, remoteIov, 0)
}
