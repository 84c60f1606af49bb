package vmem

import (
	"testing"

	"github.com/stretchr/testify/require"

	e "gather/error"
)

const mapsFixture = `00400000-00452000 r-xp 00000000 08:02 173521 /usr/bin/dbus-daemon
00651000-00652000 r--p 00051000 08:02 173521 /usr/bin/dbus-daemon
00652000-00655000 rw-p 00052000 08:02 173521 /usr/bin/dbus-daemon
0065a000-0067b000 rw-p 00000000 00:00 0 [heap]
7f2c64b9d000-7f2c64d5c000 r-xp 00000000 08:02 135522 /usr/lib64/libc-2.17.so
7ffc8e3a0000-7ffc8e3c1000 rw-p 00000000 00:00 0 [stack]
7ffc8e3e8000-7ffc8e3ea000 r-xp 00000000 00:00 0 [vdso]
`

func TestParseMapsData(t *testing.T) {
	regions := parseMapsData([]byte(mapsFixture))
	require.Len(t, regions, 7)

	first := regions[0]
	require.Equal(t, uint64(0x400000), first.Start)
	require.Equal(t, uint64(0x452000), first.End)
	require.Equal(t, "r-xp", first.Perms)
	require.Equal(t, uint64(173521), parseHex("2a5d1"))
	require.Equal(t, "/usr/bin/dbus-daemon", first.Path)

	heap := regions[3]
	require.Equal(t, "[heap]", heap.Path)
	require.Equal(t, uint64(0), heap.Inode)
}

func TestModuleBase(t *testing.T) {
	regions := parseMapsData([]byte(mapsFixture))

	base, err := moduleBase(regions, "dbus-daemon")
	require.NoError(t, err)
	require.Equal(t, uint64(0x400000), base)

	base, err = moduleBase(regions, "/usr/lib64/libc-2.17.so")
	require.NoError(t, err)
	require.Equal(t, uint64(0x7f2c64b9d000), base)

	_, err = moduleBase(regions, "nothere.so")
	require.ErrorIs(t, err, e.ModuleNotFound)
}

func TestRegionFor(t *testing.T) {
	regions := parseMapsData([]byte(mapsFixture))

	r, err := RegionFor(regions, 0x65a100)
	require.NoError(t, err)
	require.Equal(t, "[heap]", r.Path)

	_, err = RegionFor(regions, 0x1)
	require.ErrorIs(t, err, e.RegionNotFound)
}

func TestStageAndDiscard(t *testing.T) {
	vm, err := New(16)
	require.NoError(t, err)

	require.ErrorIs(t, vm.StageWrite(42, 0, []byte{1}), e.ZeroAddress)
	require.ErrorIs(t, vm.StageWrite(42, 0x1000, nil), e.EmptyWrite)

	require.NoError(t, vm.StageWrite(42, 0x1000, []byte{1, 2}))
	require.NoError(t, vm.StageWrite(42, 0x2000, []byte{3}))
	require.Equal(t, 2, vm.stagedCount(42))
	require.Equal(t, 0, vm.stagedCount(7))

	// Staged data is copied; later caller mutation must not leak in.
	data := []byte{9, 9}
	require.NoError(t, vm.StageWrite(42, 0x3000, data))
	data[0] = 0
	vm.mu.Lock()
	require.Equal(t, byte(9), vm.staged[42][2].data[0])
	vm.mu.Unlock()

	vm.DiscardWrites(42)
	require.Equal(t, 0, vm.stagedCount(42))

	// Committing an empty transaction is a no-op.
	require.NoError(t, vm.CommitWrites(42))
}
