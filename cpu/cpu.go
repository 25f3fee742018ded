// Package cpu implements the Motorola 68000 instruction set: register
// file, status-register packing, effective-address resolution, the
// arithmetic/logic primitives, and the opcode table shared by the
// emulator core and the disassembler/assembler.
package cpu

import (
	"m68k/mask"
	"m68k/mem"
)

// these flag encodings are inherited from Musashi and do not match their
// bit positions in the status register; StatusRegister/SetStatusRegister
// translate between the two.
const (
	xFlagSet uint32 = 0x100
	nFlagSet uint32 = 0x80
	vFlagSet uint32 = 0x80
	cFlagSet uint32 = 0x100

	srMask    uint32 = 0xa71f // T1 -- S -- -- I2 I1 I0 -- -- -- X N Z V C
	srIntMask uint32 = 0x0700
)

// State distinguishes a CPU that is fetching and executing normally from
// one parked by STOP or halted by a double bus fault.
type State int

const (
	Running State = iota
	Stopped
	Halted
)

// CPU holds the full M68000 programmer-visible state plus the handful of
// internal registers (prefetch queue, shadow stack pointers) needed to
// reproduce its externally observable timing and addressing quirks.
type CPU struct {
	Registers [16]uint32 // D0-D7, A0-A7

	PC uint32
	IR uint16

	InactiveSSP uint32 // SSP while user-mode is active
	InactiveUSP uint32 // USP while supervisor-mode is active

	SFlag   bool   // supervisor mode
	TFlag   bool   // trace mode
	IntMask uint32 // interrupt priority mask, in SR bit position (0x0700)

	XFlag    uint32
	NFlag    uint32
	VFlag    uint32
	CFlag    uint32
	NotZFlag uint32 // inverted: zero value means the Z flag is set

	PrefetchAddr uint32
	PrefetchData uint32

	Bus *mem.Bus

	State State

	// Interrupts is consulted by Step (through CheckInterrupts) between
	// instructions; nil disables autovectored interrupt delivery.
	Interrupts *AutoVectorController

	// inGroup0 guards raiseAddressError against re-entering while already
	// building a group-0 frame (spec.md §7: a second address/bus error
	// during group-0 processing halts the CPU).
	inGroup0 bool
}

// NewCPU wires a CPU to bus, in the reset state a real 68000 powers up in:
// supervisor mode, interrupts masked, a prefetch queue primed to miss on
// the first fetch.
func NewCPU(bus *mem.Bus) *CPU {
	c := &CPU{
		Bus:      bus,
		SFlag:    true,
		IntMask:  srIntMask,
		NotZFlag: 0xffffffff,
		// odd, so it never equals a 4-byte-aligned fetch address
		PrefetchAddr: 1,
	}
	return c
}

// D returns data register n (0-7).
func (c *CPU) D(n uint8) uint32 { return c.Registers[n&7] }

// A returns address register n (0-7).
func (c *CPU) A(n uint8) uint32 { return c.Registers[8+(n&7)] }

// SetD writes data register n (0-7).
func (c *CPU) SetD(n uint8, v uint32) { c.Registers[n&7] = v }

// SetA writes address register n (0-7).
func (c *CPU) SetA(n uint8, v uint32) { c.Registers[8+(n&7)] = v }

// SP returns the active stack pointer, A7.
func (c *CPU) SP() uint32 { return c.Registers[15] }

// SetSP writes the active stack pointer, A7.
func (c *CPU) SetSP(v uint32) { c.Registers[15] = v }

// USP returns the user stack pointer regardless of the current mode.
func (c *CPU) USP() uint32 {
	if c.SFlag {
		return c.InactiveUSP
	}
	return c.Registers[15]
}

// SSP returns the supervisor stack pointer regardless of the current mode.
func (c *CPU) SSP() uint32 {
	if c.SFlag {
		return c.Registers[15]
	}
	return c.InactiveSSP
}

// SetUSP writes the user stack pointer regardless of the current mode.
func (c *CPU) SetUSP(v uint32) {
	if c.SFlag {
		c.InactiveUSP = v
	} else {
		c.Registers[15] = v
	}
}

// SetSSP writes the supervisor stack pointer regardless of the current mode.
func (c *CPU) SetSSP(v uint32) {
	if c.SFlag {
		c.Registers[15] = v
	} else {
		c.InactiveSSP = v
	}
}

// SwitchToSupervisor swaps A7 with the inactive supervisor stack pointer,
// the side effect of every exception entry.
func (c *CPU) SwitchToSupervisor() {
	if c.SFlag {
		return
	}
	c.InactiveUSP = c.Registers[15]
	c.Registers[15] = c.InactiveSSP
	c.SFlag = true
}

// SwitchToUser swaps A7 with the inactive user stack pointer, performed by
// RTE when it restores a user-mode status register.
func (c *CPU) SwitchToUser() {
	if !c.SFlag {
		return
	}
	c.InactiveSSP = c.Registers[15]
	c.Registers[15] = c.InactiveUSP
	c.SFlag = false
}

// ProgramSpace reports the function-code space PC-relative fetches use in
// the current privilege mode.
func (c *CPU) ProgramSpace() mem.AddressSpace { return mem.ProgramSpace(c.SFlag) }

// DataSpace reports the function-code space ordinary data accesses use in
// the current privilege mode.
func (c *CPU) DataSpace() mem.AddressSpace { return mem.DataSpace(c.SFlag) }

// StatusRegister packs the scattered flag fields into the 16-bit SR value
// software reads with MOVE SR or pushes on an exception.
func (c *CPU) StatusRegister() uint32 {
	s := uint32(0)
	if c.SFlag {
		s = 1
	}
	t := uint32(0)
	if c.TFlag {
		t = 1
	}
	return t<<15 | s<<13 |
		c.IntMask |
		((c.XFlag & xFlagSet) >> 4) |
		((c.NFlag & nFlagSet) >> 4) |
		(not1(c.NotZFlag) << 2) |
		((c.VFlag & vFlagSet) >> 6) |
		((c.CFlag & cFlagSet) >> 8)
}

// SetStatusRegister unpacks sr into the flag fields, switching stack
// pointers if the supervisor bit changes. Reserved bits are masked off.
func (c *CPU) SetStatusRegister(sr uint32) {
	sr &= srMask
	wasSupervisor := c.SFlag

	c.TFlag = (sr>>15)&1 != 0
	supervisor := (sr>>13)&1 != 0
	c.IntMask = sr & srIntMask
	c.XFlag = (sr << 4) & xFlagSet
	c.NFlag = (sr << 4) & nFlagSet
	c.NotZFlag = not1(sr & 0b100)
	c.VFlag = (sr << 6) & vFlagSet
	c.CFlag = (sr << 8) & cFlagSet

	if supervisor == wasSupervisor {
		c.SFlag = supervisor
		return
	}
	if supervisor {
		c.SwitchToSupervisor()
	} else {
		c.SwitchToUser()
	}
}

// not1 mirrors original_source's not1! macro: 0 maps to 1, anything else
// maps to 0. Used to translate the inverted not_z_flag convention into a
// single Z bit.
func not1(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	return 0
}

// Jump sets PC directly, bypassing the prefetch queue's own bookkeeping;
// the next fetch re-synchronizes it.
func (c *CPU) Jump(pc uint32) { c.PC = pc }

// prefetchIfNeeded refills the 4-byte-aligned prefetch queue when PC has
// moved outside it, and always advances PC by 2. Reports whether a fetch
// actually occurred.
func (c *CPU) prefetchIfNeeded() bool {
	aligned := c.PC &^ 3
	fetched := aligned != c.PrefetchAddr
	if fetched {
		c.PrefetchAddr = aligned
		c.PrefetchData = c.Bus.ReadLong(c.ProgramSpace(), c.PrefetchAddr)
	}
	c.PC += 2
	return fetched
}

// ReadImmWord reads the next prefetched instruction word and advances PC.
// Per spec.md §4.2 step 1, every call raises an Address Error (vector 3,
// unwinding via panic to Step's recover) if PC is odd before the fetch;
// in normal operation PC only ever lands odd right after a jump/branch to
// a bad target, since every other path through here leaves it even.
func (c *CPU) ReadImmWord() uint16 {
	if c.PC&1 != 0 {
		c.raiseAddressError(c.PC, c.ProgramSpace(), false, true)
		panic(addressFault{})
	}
	c.prefetchIfNeeded()
	shift := (2 - ((c.PC - 2) & 2)) << 3
	return uint16((c.PrefetchData >> shift) & 0xffff)
}

// ReadImmSignedWord is ReadImmWord sign-extended to 32 bits.
func (c *CPU) ReadImmSignedWord() int32 {
	return int32(mask.SignExtend16(c.ReadImmWord()))
}

// ReadImmLong reads the next two prefetched instruction words as one
// 32-bit immediate/extension-word pair and advances PC by 4.
func (c *CPU) ReadImmLong() uint32 {
	c.prefetchIfNeeded()
	prev := c.PrefetchData
	if c.prefetchIfNeeded() {
		return (prev << 16) | (c.PrefetchData >> 16)
	}
	return prev
}

// Flags renders the condition-code portion of SR the way interactive
// tooling prints it: S or U for the mode, the interrupt mask digit, then
// X N Z V C with '-' for a clear flag, e.g. "S7--Z--".
func (c *CPU) Flags() string {
	sr := c.StatusRegister()
	letters := []byte{'-', '-', '-', '-', '-', '-', '-'}
	if c.SFlag {
		letters[0] = 'S'
	} else {
		letters[0] = 'U'
	}
	letters[1] = byte('0' + (sr>>8)&7)
	if sr&0x10 != 0 {
		letters[2] = 'X'
	}
	if sr&0x08 != 0 {
		letters[3] = 'N'
	}
	if sr&0x04 != 0 {
		letters[4] = 'Z'
	}
	if sr&0x02 != 0 {
		letters[5] = 'V'
	}
	if sr&0x01 != 0 {
		letters[6] = 'C'
	}
	return string(letters)
}
