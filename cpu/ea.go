package cpu

import "m68k/mask"

// Effective-address decoding and resolution, ported from original_source's
// emu/src/cpu/effective_address.rs. Decoding consumes extension words from
// the CPU's prefetch queue and leaves the registers untouched; resolveEA
// then turns the decoded Operand into either a register slot or a bus
// address, performing any register side effects (predecrement/
// postincrement), reused by both the
// read and write half of an instruction so the side effect is not repeated.

// WordSource supplies the sequential instruction/extension words an
// addressing mode decodes against. *CPU satisfies it via its prefetch
// queue during execution; the disassembler/assembler satisfy it with a
// plain sequential bus cursor, so decodeEA serves both without caring
// which is behind the interface.
type WordSource interface {
	ReadImmWord() uint16
	ReadImmLong() uint32
}

// decodeEA builds the Operand named by a standard 6-bit mode+register
// field, reading any extension words the mode requires from ws. This is
// pure structural decoding: no register side effects happen here (those
// belong to resolveEA, called only at actual use time by the CPU).
func decodeEA(ws WordSource, mode, reg uint8, size Size) Operand {
	switch mode {
	case 0:
		return DataReg(reg)
	case 1:
		return AddrReg(reg)
	case 2:
		return AddrIndirect(reg)
	case 3:
		return Postincrement(reg)
	case 4:
		return Predecrement(reg)
	case 5:
		disp := int16(ws.ReadImmWord())
		return ARIDisplacement(reg, disp)
	case 6:
		ext := ws.ReadImmWord()
		return ARIIndex(reg, uint8(ext>>8), int8(ext))
	case 7:
		switch reg {
		case 0:
			return AbsWord(ws.ReadImmWord())
		case 1:
			return AbsLong(ws.ReadImmLong())
		case 2:
			disp := int16(ws.ReadImmWord())
			return PCWithDisplacement(disp)
		case 3:
			ext := ws.ReadImmWord()
			return PCWithIndex(uint8(ext>>8), int8(ext))
		case 4:
			return readImmediateOperand(ws, size)
		default:
			panic("illegal extension-mode register field")
		}
	default:
		panic("illegal effective address mode")
	}
}

// readImmediateOperand consumes the extension word(s) for a decodeEA
// Immediate placeholder once the instruction handler knows the operand
// size (mode 7/reg 4 does not carry size in the opcode word itself).
func readImmediateOperand(ws WordSource, size Size) Operand {
	switch size {
	case Byte:
		return ImmediateOperand(Byte, uint32(ws.ReadImmWord())&0xff)
	case Word:
		return ImmediateOperand(Word, uint32(ws.ReadImmWord()))
	default:
		return ImmediateOperand(Long, ws.ReadImmLong())
	}
}

// resolved describes where an Operand's value actually lives once
// side effects (predecrement/postincrement) have been applied.
type resolved struct {
	register   bool
	regIsAddr  bool
	regNum     uint8
	address    uint32
	isStatic   bool // operand carries its own value (Immediate)
	staticVal  uint32
}

// resolveEA computes where an Operand's value lives, applying the
// predecrement/postincrement side effect once per call. size determines the
// predecrement/postincrement step, including the A7 special case.
func (c *CPU) resolveEA(op Operand, size Size) resolved {
	switch op.Kind {
	case DataRegisterDirect:
		return resolved{register: true, regNum: op.Reg}
	case AddressRegisterDirect:
		return resolved{register: true, regIsAddr: true, regNum: op.Reg}
	case AddressRegisterIndirect:
		return resolved{address: c.A(op.Reg)}
	case AddressRegisterIndirectPredecrement:
		step := size.Bytes()
		if op.Reg == 7 && step == 1 {
			step = 2 // A7 stays word-aligned even for byte accesses
		}
		addr := c.A(op.Reg) - step
		c.SetA(op.Reg, addr)
		return resolved{address: addr}
	case AddressRegisterIndirectPostincrement:
		step := size.Bytes()
		if op.Reg == 7 && step == 1 {
			step = 2
		}
		addr := c.A(op.Reg)
		c.SetA(op.Reg, addr+step)
		return resolved{address: addr}
	case AddressRegisterIndirectDisplacement:
		return resolved{address: c.A(op.Reg) + uint32(op.Disp16)}
	case AddressRegisterIndirectIndex:
		return resolved{address: c.A(op.Reg) + indexContribution(c, op.IndexInfo, op.Disp8)}
	case PCDisplacement:
		return resolved{address: uint32(int32(c.PC-2) + int32(op.Disp16))}
	case PCIndex:
		return resolved{address: uint32(int32(c.PC-2)) + indexContribution(c, op.IndexInfo, op.Disp8)}
	case AbsoluteWord:
		return resolved{address: mask.SignExtend16(op.Word)}
	case AbsoluteLong:
		return resolved{address: op.Long}
	case Immediate:
		return resolved{isStatic: true, staticVal: op.Long}
	default:
		panic("operand kind has no effective address")
	}
}

// indexContribution reads the index register (sign-extended to word or
// used as a full long, per the brief extension word's size bit) plus the
// 8-bit displacement, matching original_source's index() helper.
func indexContribution(c *CPU, indexInfo uint8, disp int8) uint32 {
	reg := (indexInfo >> 4) & 0x7
	var xn uint32
	if indexInfo&0x80 != 0 {
		xn = c.A(reg)
	} else {
		xn = c.D(reg)
	}
	if indexInfo&0x08 == 0 {
		xn = mask.SignExtend16(uint16(xn))
	}
	return xn + mask.SignExtend8(byte(disp))
}

// ReadEA loads the value named by op at the given size, applying any
// predecrement/postincrement side effect.
func (c *CPU) ReadEA(op Operand, size Size) uint32 {
	r := c.resolveEA(op, size)
	switch {
	case r.isStatic:
		return maskToSize(r.staticVal, size)
	case r.register:
		if r.regIsAddr {
			return maskToSize(c.A(r.regNum), size)
		}
		return maskToSize(c.D(r.regNum), size)
	default:
		return c.readMemSize(r.address, size)
	}
}

// WriteEA stores value at the location named by op. Writing a byte or word
// to a data register only replaces the low bits; address registers always
// take the whole sign-extended long per M68K semantics.
func (c *CPU) WriteEA(op Operand, size Size, value uint32) {
	r := c.resolveEA(op, size)
	switch {
	case r.register && r.regIsAddr:
		c.SetA(r.regNum, mask.SignExtend16(uint16(value)))
		if size == Long {
			c.SetA(r.regNum, value)
		}
	case r.register:
		d := c.D(r.regNum)
		switch size {
		case Byte:
			d = d&^0xff | value&0xff
		case Word:
			d = d&^0xffff | value&0xffff
		default:
			d = value
		}
		c.SetD(r.regNum, d)
	default:
		c.writeMemSize(r.address, size, value)
	}
}

func (c *CPU) readMemSize(addr uint32, size Size) uint32 {
	switch size {
	case Byte:
		return c.Bus.ReadByte(c.DataSpace(), addr)
	case Word:
		c.checkAlignment(addr, c.DataSpace(), false)
		return c.Bus.ReadWord(c.DataSpace(), addr)
	default:
		c.checkAlignment(addr, c.DataSpace(), false)
		return c.Bus.ReadLong(c.DataSpace(), addr)
	}
}

func (c *CPU) writeMemSize(addr uint32, size Size, value uint32) {
	switch size {
	case Byte:
		c.Bus.WriteByte(c.DataSpace(), addr, value&0xff)
	case Word:
		c.checkAlignment(addr, c.DataSpace(), true)
		c.Bus.WriteWord(c.DataSpace(), addr, value&0xffff)
	default:
		c.checkAlignment(addr, c.DataSpace(), true)
		c.Bus.WriteLong(c.DataSpace(), addr, value)
	}
}

func maskToSize(v uint32, size Size) uint32 {
	switch size {
	case Byte:
		return v & 0xff
	case Word:
		return v & 0xffff
	default:
		return v
	}
}
