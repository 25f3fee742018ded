package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Ported from original_source's emu/src/ram/pagedmem.rs test module.

func TestReadInitializedMemory(t *testing.T) {
	m := NewPagedMemory(0x01020304)
	for v := uint32(0); v < 256; v++ {
		assert.Equal(t, byte(0x01), m.ReadByte(4*v+0))
		assert.Equal(t, byte(0x02), m.ReadByte(4*v+1))
		assert.Equal(t, byte(0x03), m.ReadByte(4*v+2))
		assert.Equal(t, byte(0x04), m.ReadByte(4*v+3))
	}
	assert.Equal(t, uint32(0x01020304), m.ReadLong(0))
}

func TestReadYourWrites(t *testing.T) {
	m := NewPagedMemory(0x01020304)
	pattern := uint32(0xAAAA7777)
	addr := uint32(128)

	assert.NotEqual(t, pattern, m.ReadLong(addr))
	m.WriteLong(addr, pattern)
	assert.Equal(t, pattern, m.ReadLong(addr))

	assert.NotEqual(t, uint16(pattern), m.ReadWord(addr+64))
	m.WriteWord(addr+64, uint16(pattern))
	assert.Equal(t, uint16(pattern), m.ReadWord(addr+64))
}

func TestPageAllocationOnWrite(t *testing.T) {
	m := NewPagedMemory(0x01020304)
	data := uint32(12345678)
	addr := uint32(0xFF0000)

	assert.Equal(t, 0, m.AllocatedPages())
	m.ReadLong(addr)
	m.ReadLong(addr + pageSize*10)
	assert.Equal(t, 0, m.AllocatedPages())

	m.WriteLong(addr, data)
	assert.Equal(t, 1, m.AllocatedPages())

	m.WriteLong(addr+1, data)
	assert.Equal(t, 1, m.AllocatedPages())

	m.WriteLong(addr+pageSize*10, data)
	assert.Equal(t, 2, m.AllocatedPages())
}

func TestPageAllocationOnlyOnDivergentWrite(t *testing.T) {
	data := uint32(0x01020304)
	m := NewPagedMemory(data)
	for offset := uint32(0); offset < pageSize/4; offset++ {
		m.WriteLong(4*offset, data)
	}
	m.WriteByte(0, 0x01)
	m.WriteByte(1, 0x02)
	m.WriteByte(2, 0x03)
	m.WriteByte(3, 0x04)
	assert.Equal(t, 0, m.AllocatedPages())

	m.WriteByte(2, 0x99)
	assert.Equal(t, 1, m.AllocatedPages())
}

func TestNoDiffInitially(t *testing.T) {
	m := NewPagedMemory(0x01020304)
	assert.Empty(t, m.Diffs())
}

func TestCanExtractDiffs(t *testing.T) {
	m := NewPagedMemory(0x01020304)
	m.WriteByte(pageSize*10, 0x91)
	m.WriteByte(pageSize*20, 0x92)
	assert.Equal(t, 2, m.AllocatedPages())

	diffs := m.Diffs()
	assert.Equal(t, Diff{Address: pageSize * 10, Value: 0x91}, diffs[0])
	assert.Equal(t, Diff{Address: pageSize * 20, Value: 0x92}, diffs[pageSize])
	assert.Len(t, diffs, pageSize*2)
}

func TestCrossAddressBusBoundaryByteAccess(t *testing.T) {
	m := NewPagedMemory(0x01020304)
	m.WriteByte(AddrBusMask, 0x91)
	assert.Equal(t, byte(0x91), m.ReadByte(AddrBusMask))
	m.WriteByte(AddrBusMask+1, 0x92)
	assert.Equal(t, byte(0x92), m.ReadByte(0))
}

func TestCrossAddressBusBoundaryLongAccess(t *testing.T) {
	m := NewPagedMemory(0x01020304)
	m.WriteLong(AddrBusMask-1, 0x91929394)
	assert.Equal(t, uint32(0x91929394), m.ReadLong(AddrBusMask-1))
}

func TestCopyFromReplaysDiffs(t *testing.T) {
	src := NewPagedMemory(0x01020304)
	src.WriteByte(pageSize*10, 0x91)
	src.WriteLong(pageSize*20, 0xDEADBEEF)

	dst := NewPagedMemory(0x01020304)
	dst.CopyFrom(src)

	assert.Equal(t, src.Diffs(), dst.Diffs())
}
