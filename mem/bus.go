package mem

import "fmt"

// OpKind identifies the shape of one recorded bus transaction.
type OpKind int

const (
	OpReadByte OpKind = iota
	OpReadWord
	OpReadLong
	OpWriteByte
	OpWriteWord
	OpWriteLong
)

func (k OpKind) String() string {
	switch k {
	case OpReadByte:
		return "ReadByte"
	case OpReadWord:
		return "ReadWord"
	case OpReadLong:
		return "ReadLong"
	case OpWriteByte:
		return "WriteByte"
	case OpWriteWord:
		return "WriteWord"
	case OpWriteLong:
		return "WriteLong"
	default:
		return "?"
	}
}

// Operation is one recorded bus transaction: a read returns the value
// observed, a write carries the value stored. Ported from
// original_source's emu/src/ram/loggingmem.rs Operation enum.
type Operation struct {
	Kind    OpKind
	Space   AddressSpace
	Address uint32
	Value   uint32
}

func (o Operation) String() string {
	arrow := "=>"
	if o.Kind >= OpWriteByte {
		arrow = "<="
	}
	return fmt.Sprintf("%s[%s] @%06x %s %x", o.Kind, o.Space, o.Address, arrow, o.Value)
}

// Bus is the central object connecting the CPU to one shared PagedMemory
// through four function-code-tagged address spaces. The tag does not
// route to a different store — every AddressSpace sees the same bytes —
// it is only recorded in the operation log.
type Bus struct {
	Memory *PagedMemory

	// Logging, when true, appends every access to Log. Off by default so
	// that ordinary execution does not pay for bookkeeping no one reads.
	Logging bool
	Log     []Operation
}

// NewBus wraps a fresh PagedMemory initialized with the given pattern.
func NewBus(initializer uint32) *Bus {
	return &Bus{Memory: NewPagedMemory(initializer)}
}

func (b *Bus) record(kind OpKind, space AddressSpace, address, value uint32) {
	if b.Logging {
		b.Log = append(b.Log, Operation{Kind: kind, Space: space, Address: address & AddrBusMask, Value: value})
	}
}

func (b *Bus) ReadByte(space AddressSpace, address uint32) uint32 {
	v := uint32(b.Memory.ReadByte(address))
	b.record(OpReadByte, space, address, v)
	return v
}

func (b *Bus) ReadWord(space AddressSpace, address uint32) uint32 {
	v := uint32(b.Memory.ReadWord(address))
	b.record(OpReadWord, space, address, v)
	return v
}

func (b *Bus) ReadLong(space AddressSpace, address uint32) uint32 {
	v := b.Memory.ReadLong(address)
	b.record(OpReadLong, space, address, v)
	return v
}

func (b *Bus) WriteByte(space AddressSpace, address, value uint32) {
	b.record(OpWriteByte, space, address, value)
	b.Memory.WriteByte(address, byte(value))
}

func (b *Bus) WriteWord(space AddressSpace, address, value uint32) {
	b.record(OpWriteWord, space, address, value)
	b.Memory.WriteWord(address, uint16(value))
}

func (b *Bus) WriteLong(space AddressSpace, address, value uint32) {
	b.record(OpWriteLong, space, address, value)
	b.Memory.WriteLong(address, value)
}

// CopyFrom replays other's diffs into this bus's memory. Must not be
// called concurrently with writes on either bus (spec.md §5).
func (b *Bus) CopyFrom(other *Bus) {
	b.Memory.CopyFrom(other.Memory)
}

// ClearLog discards any recorded operations without disabling logging.
func (b *Bus) ClearLog() { b.Log = nil }
