package cpu

import "m68k/mask"

// JMP/JSR/RTS/RTE/RTR/NOP/TRAP/TRAPV/STOP/RESET/LINK/UNLK/CHK and the
// MULU/MULS/DIVU/DIVS multiply/divide pair. Standard M68000 PRM semantics;
// RTE/STOP/RESET carry Row.Privileged so Step raises a Privilege Violation
// (vector 8) instead of executing them outside supervisor mode.

func init() {
	addRows(
		Row{Mnemonic: "JMP", Mask: 0xffc0, Match: 0x4ec0, Size: Long, EAMask: eaAllControl,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllControl) },
			Decode:    decodeEAOperandOnly,
			Exec: func(c *CPU, w uint16) {
				op := decodeEA(c, eaMode(w), eaReg(w), Long)
				c.Jump(c.resolveEA(op, Long).address)
			}},
		Row{Mnemonic: "JSR", Mask: 0xffc0, Match: 0x4e80, Size: Long, EAMask: eaAllControl,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllControl) },
			Decode:    decodeEAOperandOnly,
			Exec: func(c *CPU, w uint16) {
				op := decodeEA(c, eaMode(w), eaReg(w), Long)
				target := c.resolveEA(op, Long).address
				sp := c.SP() - 4
				c.SetSP(sp)
				c.Bus.WriteLong(c.DataSpace(), sp, c.PC)
				c.Jump(target)
			}},
		Row{Mnemonic: "RTS", Mask: maskExact, Match: 0x4e75, Size: Long,
			Exec: func(c *CPU, w uint16) {
				addr := c.Bus.ReadLong(c.DataSpace(), c.SP())
				c.SetSP(c.SP() + 4)
				c.Jump(addr)
			}},
		Row{Mnemonic: "RTR", Mask: maskExact, Match: 0x4e77, Size: Word,
			Exec: func(c *CPU, w uint16) {
				ccr := c.Bus.ReadWord(c.DataSpace(), c.SP())
				c.SetSP(c.SP() + 2)
				c.SetStatusRegister((c.StatusRegister() &^ 0xff) | (ccr & 0xff))
				addr := c.Bus.ReadLong(c.DataSpace(), c.SP())
				c.SetSP(c.SP() + 4)
				c.Jump(addr)
			}},
		Row{Mnemonic: "RTE", Mask: maskExact, Match: 0x4e73, Size: Word, Privileged: true,
			Exec: func(c *CPU, w uint16) {
				sr := c.Bus.ReadWord(c.DataSpace(), c.SP())
				c.SetSP(c.SP() + 2)
				addr := c.Bus.ReadLong(c.DataSpace(), c.SP())
				c.SetSP(c.SP() + 4)
				c.SetStatusRegister(sr)
				c.Jump(addr)
			}},
		Row{Mnemonic: "NOP", Mask: maskExact, Match: 0x4e71, Exec: func(c *CPU, w uint16) {}},
		Row{Mnemonic: "TRAPV", Mask: maskExact, Match: 0x4e76, Exec: func(c *CPU, w uint16) {
			if c.VFlag&vFlagSet != 0 {
				c.raiseException(7)
			}
		}},
		Row{Mnemonic: "TRAP", Mask: 0xfff0, Match: 0x4e40,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				return []Operand{ImmediateOperand(Byte, uint32(w&0xf))}
			},
			Exec: func(c *CPU, w uint16) {
				c.raiseException(int(32 + (w & 0xf)))
			}},
		Row{Mnemonic: "STOP", Mask: maskExact, Match: 0x4e72, Privileged: true,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				return []Operand{ImmediateOperand(Word, uint32(ws.ReadImmWord()))}
			},
			Exec: func(c *CPU, w uint16) {
				sr := c.ReadImmWord()
				c.SetStatusRegister(uint32(sr))
				c.State = Stopped
			}},
		Row{Mnemonic: "RESET", Mask: maskExact, Match: 0x4e70, Privileged: true, Exec: func(c *CPU, w uint16) {
			if c.Interrupts != nil {
				c.Interrupts.ResetExternalDevices()
			}
		}},
		Row{Mnemonic: "LINK", Mask: 0xfff8, Match: 0x4e50, Size: Long,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				return []Operand{AddrReg(eaReg(w)), DisplacementValue(Word, uint32(ws.ReadImmWord()))}
			},
			Exec: func(c *CPU, w uint16) {
			reg := eaReg(w)
			disp := c.ReadImmSignedWord()
			sp := c.SP() - 4
			c.SetSP(sp)
			c.Bus.WriteLong(c.DataSpace(), sp, c.A(reg))
			c.SetA(reg, sp)
			c.SetSP(uint32(int32(sp) + disp))
		}},
		Row{Mnemonic: "UNLK", Mask: 0xfff8, Match: 0x4e58, Size: Long,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				return []Operand{AddrReg(eaReg(w))}
			},
			Exec: func(c *CPU, w uint16) {
			reg := eaReg(w)
			fp := c.A(reg)
			c.SetA(reg, c.Bus.ReadLong(c.DataSpace(), fp))
			c.SetSP(fp + 4)
		}},
		Row{Mnemonic: "CHK", Mask: 0xf1c0, Match: 0x4180, Size: Word, EAMask: eaAllData,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllData) },
			Decode:    decodeEAThenDn,
			Exec: func(c *CPU, w uint16) {
				op := decodeEA(c, eaMode(w), eaReg(w), Word)
				bound := int16(c.ReadEA(op, Word))
				v := int16(c.D(regX(w)))
				if v < 0 {
					c.NFlag = nFlagSet
					c.raiseException(6)
				} else if v > bound {
					c.NFlag = 0
					c.raiseException(6)
				}
			}},
	)
	addRows(mulDivRows()...)
}

func mulDivRows() []Row {
	return []Row{
		{Mnemonic: "MULU", Mask: 0xf1c0, Match: 0xc0c0, Size: Word, EAMask: eaAllData,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllData) },
			Decode:    decodeEAThenDn,
			Exec: func(c *CPU, w uint16) {
				op := decodeEA(c, eaMode(w), eaReg(w), Word)
				src := c.ReadEA(op, Word) & 0xffff
				dst := c.D(regX(w)) & 0xffff
				res := src * dst
				c.SetD(regX(w), res)
				c.updateNZ(Long, res)
				c.VFlag, c.CFlag = 0, 0
			}},
		{Mnemonic: "MULS", Mask: 0xf1c0, Match: 0xc1c0, Size: Word, EAMask: eaAllData,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllData) },
			Decode:    decodeEAThenDn,
			Exec: func(c *CPU, w uint16) {
				op := decodeEA(c, eaMode(w), eaReg(w), Word)
				src := int32(mask.SignExtend16(uint16(c.ReadEA(op, Word))))
				dst := int32(mask.SignExtend16(uint16(c.D(regX(w)))))
				res := uint32(src * dst)
				c.SetD(regX(w), res)
				c.updateNZ(Long, res)
				c.VFlag, c.CFlag = 0, 0
			}},
		{Mnemonic: "DIVU", Mask: 0xf1c0, Match: 0x80c0, Size: Word, EAMask: eaAllData,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllData) },
			Decode:    decodeEAThenDn,
			Exec: func(c *CPU, w uint16) {
				op := decodeEA(c, eaMode(w), eaReg(w), Word)
				divisor := c.ReadEA(op, Word) & 0xffff
				if divisor == 0 {
					c.raiseException(5)
					return
				}
				dividend := c.D(regX(w))
				q := dividend / divisor
				if q > 0xffff {
					c.VFlag = vFlagSet
					return
				}
				r := dividend % divisor
				c.SetD(regX(w), (r<<16)|(q&0xffff))
				c.VFlag, c.CFlag = 0, 0
				c.updateNZ(Word, q)
			}},
		{Mnemonic: "DIVS", Mask: 0xf1c0, Match: 0x81c0, Size: Word, EAMask: eaAllData,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllData) },
			Decode:    decodeEAThenDn,
			Exec: func(c *CPU, w uint16) {
				op := decodeEA(c, eaMode(w), eaReg(w), Word)
				divisor := int32(mask.SignExtend16(uint16(c.ReadEA(op, Word))))
				if divisor == 0 {
					c.raiseException(5)
					return
				}
				dividend := int32(c.D(regX(w)))
				q := dividend / divisor
				if q > 0x7fff || q < -0x8000 {
					c.VFlag = vFlagSet
					return
				}
				r := dividend % divisor
				c.SetD(regX(w), (uint32(r)<<16)|(uint32(q)&0xffff))
				c.VFlag, c.CFlag = 0, 0
				c.updateNZ(Word, uint32(q))
			}},
	}
}
