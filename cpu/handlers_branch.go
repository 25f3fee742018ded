package cpu

import "m68k/mask"

// Bcc/BRA/BSR (PC-relative branches with byte, word or long displacement),
// DBcc (decrement-and-branch loop), and Scc (set byte per condition).
// Condition codes ported from original_source's emu/src/cpu/conditions.rs;
// the sixteen codes share one evaluator used by all three instruction
// families.

func conditionTrue(c *CPU, cc uint8) bool {
	n := c.NFlag&nFlagSet != 0
	z := c.NotZFlag == 0
	v := c.VFlag&vFlagSet != 0
	cf := c.CFlag&cFlagSet != 0
	switch cc {
	case 0x0: // T
		return true
	case 0x1: // F
		return false
	case 0x2: // HI
		return !cf && !z
	case 0x3: // LS
		return cf || z
	case 0x4: // CC
		return !cf
	case 0x5: // CS
		return cf
	case 0x6: // NE
		return !z
	case 0x7: // EQ
		return z
	case 0x8: // VC
		return !v
	case 0x9: // VS
		return v
	case 0xa: // PL
		return !n
	case 0xb: // MI
		return n
	case 0xc: // GE
		return n == v
	case 0xd: // LT
		return n != v
	case 0xe: // GT
		return !z && n == v
	case 0xf: // LE
		return z || n != v
	}
	return false
}

func init() {
	addRows(branchRows()...)
	addRows(dbccRows()...)
	addRows(sccRows()...)
}

func branchRows() []Row {
	var out []Row
	for cc := uint16(0); cc < 16; cc++ {
		cc := cc
		name := "Bcc"
		switch cc {
		case 0:
			name = "BRA"
		case 1:
			name = "BSR"
		}
		out = append(out, Row{
			Mnemonic: name, Mask: 0xff00, Match: 0x6000 | (cc << 8),
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				switch w & 0xff {
				case 0x00:
					return []Operand{DisplacementValue(Word, uint32(ws.ReadImmWord()))}
				case 0xff:
					return []Operand{DisplacementValue(Long, ws.ReadImmLong())}
				default:
					return []Operand{DisplacementValue(Byte, uint32(w&0xff))}
				}
			},
			Exec: func(c *CPU, w uint16) { execBranch(c, w, uint8(cc)) },
		})
	}
	return out
}

func execBranch(c *CPU, w uint16, cc uint8) {
	base := c.PC
	disp := int32(mask.SignExtend8(byte(w)))
	switch w & 0xff {
	case 0x00:
		disp = int32(c.ReadImmSignedWord())
	case 0xff:
		disp = int32(c.ReadImmLong())
	}
	target := uint32(int32(base) + disp)
	if cc == 1 { // BSR: push return address first
		sp := c.SP() - 4
		c.SetSP(sp)
		c.Bus.WriteLong(c.DataSpace(), sp, c.PC)
		c.Jump(target)
		return
	}
	if conditionTrue(c, cc) {
		c.Jump(target)
	}
}

func dbccRows() []Row {
	var out []Row
	for cc := uint16(0); cc < 16; cc++ {
		cc := cc
		out = append(out, Row{
			Mnemonic: "DBcc", Mask: 0xfff8, Match: 0x50c8 | (cc << 8), Size: Word,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				return []Operand{DataReg(eaReg(w)), DisplacementValue(Word, uint32(ws.ReadImmWord()))}
			},
			Exec: func(c *CPU, w uint16) { execDbcc(c, w, uint8(cc)) },
		})
	}
	return out
}

func execDbcc(c *CPU, w uint16, cc uint8) {
	base := c.PC
	disp := int32(c.ReadImmSignedWord())
	if conditionTrue(c, cc) {
		return
	}
	reg := eaReg(w)
	v := uint16(c.D(reg))
	v--
	writeSized(c, reg, Word, uint32(v))
	if v != 0xffff {
		c.Jump(uint32(int32(base) + disp))
	}
}

func sccRows() []Row {
	var out []Row
	for cc := uint16(0); cc < 16; cc++ {
		cc := cc
		out = append(out, Row{
			Mnemonic: "Scc", Mask: 0xffc0, Match: 0x50c0 | (cc << 8), Size: Byte,
			EAMask: eaAllAlterable &^ eaAn,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllAlterable&^eaAn) },
			Decode:    decodeEAOperandOnly,
			Exec: func(c *CPU, w uint16) {
				op := decodeEA(c, eaMode(w), eaReg(w), Byte)
				v := uint32(0)
				if conditionTrue(c, uint8(cc)) {
					v = 0xff
				}
				c.WriteEA(op, Byte, v)
			},
		})
	}
	return out
}
