package mem

import (
	"sort"

	"m68k/mask"
)

// AddrBusMask is the 68000's 24-bit external address bus mask: all
// accesses wrap modulo 16 MB. Ported from original_source's
// emu/src/ram/mod.rs ADDRBUS_MASK constant.
const AddrBusMask uint32 = 0x00FF_FFFF

const pageSize = 16
const pageAddrMask uint32 = pageSize - 1
const pageNoMask uint32 = AddrBusMask &^ pageAddrMask

// page is a single 16-byte paged-memory unit, allocated lazily.
type page [pageSize]byte

// PagedMemory is a 24-bit address space backed by lazily allocated 16-byte
// pages. A page is only materialized when a write would make it diverge
// from the 32-bit Initializer pattern; reads of unallocated pages return
// bytes derived from that pattern. This keeps differential snapshots
// (Diffs, CopyFrom) small. Ported from original_source's
// emu/src/ram/pagedmem.rs PagedMem.
type PagedMemory struct {
	pages       map[uint32]*page
	Initializer uint32
}

// NewPagedMemory creates an empty paged memory whose unallocated bytes read
// back as the initializer pattern, cycled every 4 bytes.
func NewPagedMemory(initializer uint32) *PagedMemory {
	return &PagedMemory{pages: make(map[uint32]*page), Initializer: initializer}
}

// AllocatedPages reports how many 16-byte pages have been materialized.
// Exposed for tests that assert on snapshot size.
func (m *PagedMemory) AllocatedPages() int { return len(m.pages) }

func (m *PagedMemory) readInitializer(address uint32) byte {
	shift := uint(24 - 8*(address%4))
	return byte(m.Initializer >> shift)
}

// ReadByte returns the stored byte if the page exists, else the
// initializer-derived byte.
func (m *PagedMemory) ReadByte(address uint32) byte {
	address &= AddrBusMask
	pageno := address & pageNoMask
	if p, ok := m.pages[pageno]; ok {
		return p[address&pageAddrMask]
	}
	return m.readInitializer(address)
}

// WriteByte is a no-op if the page is unallocated and value equals the
// initializer byte at that address; otherwise it allocates the page
// (materialized from the initializer) and stores the byte.
func (m *PagedMemory) WriteByte(address uint32, value byte) {
	address &= AddrBusMask
	pageno := address & pageNoMask
	p, ok := m.pages[pageno]
	if !ok {
		if value == m.readInitializer(address) {
			return
		}
		p = m.newInitializedPage(pageno)
		m.pages[pageno] = p
	}
	p[address&pageAddrMask] = value
}

func (m *PagedMemory) newInitializedPage(pageno uint32) *page {
	var p page
	for offset := uint32(0); offset < pageSize; offset++ {
		p[offset] = m.readInitializer(pageno + offset)
	}
	return &p
}

// ReadWord and ReadLong are byte-level compositions through wrapping
// address addition, so a multi-byte access that straddles the 24-bit
// boundary wraps deterministically (spec.md §4.1).

func (m *PagedMemory) ReadWord(address uint32) uint16 {
	return mask.Word(m.ReadByte(address), m.ReadByte(address+1))
}

func (m *PagedMemory) ReadLong(address uint32) uint32 {
	return mask.Long(m.ReadByte(address), m.ReadByte(address+1), m.ReadByte(address+2), m.ReadByte(address+3))
}

func (m *PagedMemory) WriteWord(address uint32, value uint16) {
	m.WriteByte(address, byte(value>>8))
	m.WriteByte(address+1, byte(value))
}

func (m *PagedMemory) WriteLong(address uint32, value uint32) {
	m.WriteByte(address, byte(value>>24))
	m.WriteByte(address+1, byte(value>>16))
	m.WriteByte(address+2, byte(value>>8))
	m.WriteByte(address+3, byte(value))
}

// Diff is one byte of one allocated page, as emitted by Diffs.
type Diff struct {
	Address uint32
	Value   byte
}

// Diffs enumerates every byte of every allocated page, in ascending page
// order. CopyFrom replays another memory's Diffs into this one.
func (m *PagedMemory) Diffs() []Diff {
	pagenos := make([]uint32, 0, len(m.pages))
	for pageno := range m.pages {
		pagenos = append(pagenos, pageno)
	}
	sort.Slice(pagenos, func(i, j int) bool { return pagenos[i] < pagenos[j] })

	diffs := make([]Diff, 0, len(pagenos)*pageSize)
	for _, pageno := range pagenos {
		p := m.pages[pageno]
		for i := uint32(0); i < pageSize; i++ {
			diffs = append(diffs, Diff{Address: pageno + i, Value: p[i]})
		}
	}
	return diffs
}

// CopyFrom replays other's Diffs into m, leaving the two byte-equivalent at
// every allocated position.
func (m *PagedMemory) CopyFrom(other *PagedMemory) {
	for _, d := range other.Diffs() {
		m.WriteByte(d.Address, d.Value)
	}
}
