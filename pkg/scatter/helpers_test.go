package scatter_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	e "gather/error"
	"gather/pkg/scatter"
)

func TestReadValue(t *testing.T) {
	f := newFakeProvider()
	f.bufs[0x1000] = binary.LittleEndian.AppendUint32(nil, 1234)

	v, err := scatter.ReadValue[uint32](f, 42, 0x1000)
	require.NoError(t, err)
	require.Equal(t, uint32(1234), v)
}

func TestReadValueStruct(t *testing.T) {
	type pos struct {
		X, Y, Z float32
	}

	buf := binary.LittleEndian.AppendUint32(nil, 0x3f800000)
	buf = binary.LittleEndian.AppendUint32(buf, 0x40000000)
	buf = binary.LittleEndian.AppendUint32(buf, 0x40400000)

	f := newFakeProvider()
	f.bufs[0x1000] = buf

	v, err := scatter.ReadValue[pos](f, 42, 0x1000)
	require.NoError(t, err)
	require.Equal(t, pos{X: 1, Y: 2, Z: 3}, v)
}

func TestReadValueShortBuffer(t *testing.T) {
	f := newFakeProvider()
	f.bufs[0x1000] = []byte{1, 2}

	_, err := scatter.ReadValue[uint64](f, 42, 0x1000)
	require.ErrorIs(t, err, e.ShortRead)
}

func TestReadString(t *testing.T) {
	f := newFakeProvider()
	f.bufs[0x1000] = []byte("gopher\x00garbage")

	s, err := scatter.ReadString(f, 42, 0x1000, 15)
	require.NoError(t, err)
	require.Equal(t, "gopher", s)
}

func TestReadPtrNull(t *testing.T) {
	f := newFakeProvider()
	f.bufs[0x1000] = make([]byte, 8)

	_, err := scatter.ReadPtr(f, 42, 0x1000)
	require.ErrorIs(t, err, e.NullPointer)
}

func TestReadPtrChain(t *testing.T) {
	f := newFakeProvider()
	f.bufs[0x1000+0x10] = binary.LittleEndian.AppendUint64(nil, 0x2000)
	f.bufs[0x2000+0x20] = binary.LittleEndian.AppendUint64(nil, 0x3000)

	addr, err := scatter.ReadPtrChain(f, 42, 0x1000, []uint64{0x10, 0x20})
	require.NoError(t, err)
	require.Equal(t, uint64(0x3000), addr)
}

func TestReadPtrChainFailsAtFirstNull(t *testing.T) {
	f := newFakeProvider()
	f.bufs[0x1000+0x10] = binary.LittleEndian.AppendUint64(nil, 0x2000)
	f.bufs[0x2000+0x20] = make([]byte, 8)

	_, err := scatter.ReadPtrChain(f, 42, 0x1000, []uint64{0x10, 0x20, 0x30})
	require.ErrorIs(t, err, e.NullPointer)
}

func TestWriteValue(t *testing.T) {
	f := newFakeProvider()

	require.NoError(t, scatter.WriteValue(f, 42, 0x1000, uint32(0xdeadbeef)))

	require.Len(t, f.committed, 1)
	require.Len(t, f.committed[0], 1)
	op := f.committed[0][0]
	require.Equal(t, uint64(0x1000), op.Addr)
	require.Equal(t, binary.LittleEndian.AppendUint32(nil, 0xdeadbeef), op.Data)
}
