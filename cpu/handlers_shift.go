package cpu

// ASL/ASR/LSL/LSR/ROL/ROR/ROXL/ROXR: register-count-or-immediate-count
// form operating on a data register, and the single-bit memory form.
// Standard M68000 PRM shift/rotate semantics; grounded on original_source's
// emu/src/cpu/ops/shift.rs for the exact flag formulas (the overflow test
// for arithmetic shifts checks every bit shifted through the sign position,
// not just the final one; rotate-with-extend folds the X flag in as an
// extra bit of the rotation).

type shiftKind int

const (
	shiftASL shiftKind = iota
	shiftASR
	shiftLSL
	shiftLSR
	shiftROL
	shiftROR
	shiftROXL
	shiftROXR
)

func init() {
	addRows(shiftRegisterRows()...)
	addRows(shiftMemoryRows()...)
}

// shiftRegisterRows builds the "count,Dy" form, laid out as
// 1110 ccc d ss i tt rrr: ccc=count-or-Dx, d=direction(0=right,1=left),
// ss=size, i=immediate(0)/register(1) count, tt=type(00 ASx,01 LSx,10 ROXx,
// 11 ROx), rrr=Dy.
func shiftRegisterRows() []Row {
	var out []Row
	for i, size := range []Size{Byte, Word, Long} {
		size := size
		for _, typ := range []struct {
			bits uint16
			left shiftKind
			rgt  shiftKind
		}{
			{0, shiftASL, shiftASR},
			{1, shiftLSL, shiftLSR},
			{2, shiftROXL, shiftROXR},
			{3, shiftROL, shiftROR},
		} {
			typ := typ
			for _, imm := range []uint16{0, 1} {
				imm := imm
				out = append(out, Row{
					Mnemonic: "SHIFT reg", Mask: 0xf018 | (3 << 6) | (1 << 5) | (1 << 8), Size: size,
					Match:  0xe000 | (uint16(i) << 6) | (imm << 5) | (typ.bits << 3) | (1 << 8),
					Decode: shiftRegDecode(imm == 1),
					Exec: func(c *CPU, w uint16) { execShiftRegister(c, w, size, typ.left, imm == 1) },
				})
				out = append(out, Row{
					Mnemonic: "SHIFT reg", Mask: 0xf018 | (3 << 6) | (1 << 5) | (1 << 8), Size: size,
					Match:  0xe000 | (uint16(i) << 6) | (imm << 5) | (typ.bits << 3),
					Decode: shiftRegDecode(imm == 1),
					Exec: func(c *CPU, w uint16) { execShiftRegister(c, w, size, typ.rgt, imm == 1) },
				})
			}
		}
	}
	return out
}

// shiftRegDecode recovers the count operand: an immediate 1-8 or the data
// register named by bits11-9, depending on which form the row matched.
func shiftRegDecode(regCount bool) func(ws WordSource, w uint16, size Size) []Operand {
	return func(ws WordSource, w uint16, size Size) []Operand {
		if regCount {
			return []Operand{DataReg(regX(w)), DataReg(eaReg(w))}
		}
		count := regX(w)
		if count == 0 {
			count = 8
		}
		return []Operand{ImmediateOperand(Byte, uint32(count)), DataReg(eaReg(w))}
	}
}

// shiftMemoryRows builds the single-bit, word-sized EA form: 1110 0tt d 11 mmmrrr.
func shiftMemoryRows() []Row {
	var out []Row
	for _, typ := range []struct {
		bits uint16
		left shiftKind
		rgt  shiftKind
	}{
		{0, shiftASL, shiftASR},
		{1, shiftLSL, shiftLSR},
		{2, shiftROXL, shiftROXR},
		{3, shiftROL, shiftROR},
	} {
		typ := typ
		out = append(out, Row{
			Mnemonic: "SHIFT mem", Mask: 0xffc0, Match: 0xe1c0 | (typ.bits << 9) | (1 << 8),
			Size: Word, EAMask: eaAllMemory,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllMemory) },
			Decode:    decodeEAOperandOnly,
			Exec: func(c *CPU, w uint16) { execShiftMem(c, w, typ.left) },
		})
		out = append(out, Row{
			Mnemonic: "SHIFT mem", Mask: 0xffc0, Match: 0xe0c0 | (typ.bits << 9),
			Size: Word, EAMask: eaAllMemory,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllMemory) },
			Decode:    decodeEAOperandOnly,
			Exec: func(c *CPU, w uint16) { execShiftMem(c, w, typ.rgt) },
		})
	}
	return out
}

func execShiftRegister(c *CPU, w uint16, size Size, kind shiftKind, regCount bool) {
	var count uint32
	if regCount {
		count = c.D(regX(w)) % 64
	} else {
		count = uint32(regX(w))
		if count == 0 {
			count = 8
		}
	}
	reg := eaReg(w)
	v := c.D(reg)
	res := c.shift(size, v, count, kind)
	writeSized(c, reg, size, res)
}

func execShiftMem(c *CPU, w uint16, kind shiftKind) {
	op := decodeEA(c, eaMode(w), eaReg(w), Word)
	v := c.ReadEA(op, Word)
	res := c.shift(Word, v, 1, kind)
	c.WriteEA(op, Word, res)
}

// shift performs count shifts/rotates of the given kind on v (masked to
// size) and updates N/Z/V/C/X. Overflow for arithmetic-left shifts is set
// if the sign bit changed at any point during the shift, not just at the
// end; rotate-with-extend treats X as an extra bit threaded through the
// rotation.
func (c *CPU) shift(size Size, v uint32, count uint32, kind shiftKind) uint32 {
	mask := sizeMask(size)
	bits := size.Bytes() * 8
	if size == Unsized {
		bits = 32
	}
	signBit := uint32(1) << (bits - 1)
	v &= mask
	if count == 0 {
		c.VFlag = 0
		c.CFlag = 0
		c.updateNZ(size, v)
		return v
	}
	overflow := false
	carry := uint32(0)
	for i := uint32(0); i < count; i++ {
		switch kind {
		case shiftASL, shiftLSL:
			carry = (v >> (bits - 1)) & 1
			if kind == shiftASL && (v&signBit)!= (v<<1)&signBit&mask {
				overflow = true
			}
			v = (v << 1) & mask
		case shiftASR:
			carry = v & 1
			sign := v & signBit
			v = (v >> 1) | sign
		case shiftLSR:
			carry = v & 1
			v >>= 1
		case shiftROL:
			carry = (v >> (bits - 1)) & 1
			v = ((v << 1) | carry) & mask
		case shiftROR:
			carry = v & 1
			v = (v >> 1) | (carry << (bits - 1))
		case shiftROXL:
			carry = (v >> (bits - 1)) & 1
			x := c.xFlagAs1()
			v = ((v << 1) | x) & mask
			c.XFlag = carry << 8
		case shiftROXR:
			carry = v & 1
			x := c.xFlagAs1()
			v = (v >> 1) | (x << (bits - 1))
			c.XFlag = carry << 8
		}
	}
	c.CFlag = carry << 8
	if kind == shiftASL || kind == shiftLSL || kind == shiftLSR || kind == shiftASR ||
		kind == shiftROL || kind == shiftROR {
		c.XFlag = c.CFlag
	}
	if kind == shiftASR || kind == shiftASL {
		c.VFlag = 0
		if overflow {
			c.VFlag = vFlagSet
		}
	} else {
		c.VFlag = 0
	}
	c.updateNZ(size, v)
	return v
}

func (c *CPU) updateNZ(size Size, v uint32) {
	v &= sizeMask(size)
	c.NotZFlag = v
	shift := topShift(size)
	c.NFlag = (v >> shift) & nFlagSet
	if size == Long {
		c.NFlag = (v >> 24) & 0x80
	}
}
