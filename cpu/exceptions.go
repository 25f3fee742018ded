package cpu

import "m68k/mem"

// Exception and interrupt entry: push a stack frame to the supervisor
// stack, switch to supervisor mode, and jump through the vector table.
// Grounded on original_source's emu/src/cpu/exception.rs (group-1/2
// exception frame format: SR then PC, no format word — this module only
// implements the plain 68000 frame, not the extended 68010+ formats).

const vectorTableBase = 0

// addressFault unwinds the Go call stack back to Step once a group-0
// exception frame has been built and the vector jump taken, so a faulting
// word/long access deep inside an Exec handler does not continue running
// the rest of the instruction against corrupted state.
type addressFault struct{}

// raiseException pushes the current SR and PC and jumps to the handler
// named by vector (a vector *number*, not a byte offset — the byte offset
// is vector*4 per the 68000's vector table layout).
func (c *CPU) raiseException(vector int) {
	sr := c.StatusRegister()
	pc := c.PC
	if !c.SFlag {
		c.SwitchToSupervisor()
	}
	sp := c.SP() - 6
	c.SetSP(sp)
	c.Bus.WriteLong(c.ProgramSpace(), sp+2, pc)
	c.Bus.WriteWord(c.ProgramSpace(), sp, sr)
	addr := c.Bus.ReadLong(c.ProgramSpace(), uint32(vectorTableBase+vector*4))
	c.Jump(addr)
}

// raiseAddressError builds the seven-word group-0 stack frame (spec.md
// §4.6) for an odd-address fetch or data access: SR, the pre-fault PC, the
// faulting instruction register, the faulting address, and a descriptor
// word carrying R/W, instruction-or-operand, and the function code. A
// second group-0 fault raised while one is already being built halts the
// CPU instead of re-entering (spec.md §7).
func (c *CPU) raiseAddressError(addr uint32, space mem.AddressSpace, write, instructionFetch bool) {
	if c.inGroup0 {
		c.State = Halted
		return
	}
	c.inGroup0 = true
	defer func() { c.inGroup0 = false }()

	sr := c.StatusRegister()
	pc := c.PC
	ir := c.IR
	if !c.SFlag {
		c.SwitchToSupervisor()
	}
	sp := c.SP() - 14
	c.SetSP(sp)
	c.Bus.WriteWord(c.ProgramSpace(), sp, sr)
	c.Bus.WriteLong(c.ProgramSpace(), sp+2, pc)
	c.Bus.WriteWord(c.ProgramSpace(), sp+6, uint32(ir))
	c.Bus.WriteLong(c.ProgramSpace(), sp+8, addr)
	descriptor := uint32(space.FunctionCode())
	if instructionFetch {
		descriptor |= 1 << 3
	}
	if !write {
		descriptor |= 1 << 4
	}
	c.Bus.WriteWord(c.ProgramSpace(), sp+12, descriptor)
	vec := c.Bus.ReadLong(c.ProgramSpace(), uint32(vectorTableBase+3*4))
	c.Jump(vec)
}

// checkAlignment raises an Address Error and unwinds to Step's recover if
// addr is odd, matching spec.md §4.4's "before the read is issued" rule for
// word/long accesses through data/memory addressing modes.
func (c *CPU) checkAlignment(addr uint32, space mem.AddressSpace, write bool) {
	if addr&1 != 0 {
		c.raiseAddressError(addr, space, write, false)
		panic(addressFault{})
	}
}

// CheckInterrupts services the highest-priority pending autovectored
// interrupt if its level exceeds the processor's current interrupt mask,
// per the PRM's "interrupt priority below pending level" rule. Called
// between instructions by the fetch-decode-execute loop.
func (c *CPU) CheckInterrupts() {
	if c.Interrupts == nil {
		return
	}
	level := c.Interrupts.HighestPriority()
	if level == 0 {
		return
	}
	mask := (c.IntMask >> 8) & 7
	if uint32(level) <= mask && level != 7 {
		return
	}
	vector := c.Interrupts.AcknowledgeInterrupt(level)
	c.State = Running
	c.raiseException(int(vector))
	c.IntMask = uint32(level) << 8
}

// ResetVector jumps the CPU to the reset vector's initial SSP/PC pair,
// as real 68000 hardware does on power-up (no exception frame is pushed).
func (c *CPU) ResetVector() {
	c.SFlag = true
	ssp := c.Bus.ReadLong(c.ProgramSpace(), 0)
	pc := c.Bus.ReadLong(c.ProgramSpace(), 4)
	c.SetSSP(ssp)
	c.SetSP(ssp)
	c.Jump(pc)
}
