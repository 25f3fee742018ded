package cpu

import "m68k/mask"

// ADD/SUB/AND/OR/EOR/CMP and their immediate, quick, address, extended and
// memory-to-memory variants, plus NOT/NEG/NEGX/TST/ABCD/SBCD/NBCD. Standard
// M68000 PRM opcode-map semantics; the flag math itself runs through
// flags.go's Add/Sub/And/Or/Eor primitives ported from original_source.
//
// The "Dn,<ea>" reverse-direction rows (ADD/SUB/AND/OR Dn,<ea>) restrict
// their destination EA to memory-alterable modes only (excluding register
// direct); that is exactly the corner ADDX/SUBX/ABCD/SBCD/EXG claim with
// the same opcode-family top bits, so the two accepting sets stay disjoint
// without needing overlapping validators.

type dyadic func(c *CPU, size Size, dst, src uint32) uint32

func init() {
	addRows(arithFamilyRows("ADD", 0xd000, c_add)...)
	addRows(arithFamilyRows("SUB", 0x9000, c_sub)...)
	addRows(logicFamilyRows("AND", 0xc000, c_and)...)
	addRows(logicFamilyRows("OR", 0x8000, c_or)...)
	addRows(cmpEorRows()...)
	addRows(immediateRows()...)
	addRows(quickRows()...)
	addRows(extendedRows()...)
	addRows(unaryRows()...)
	addRows(statusImmediateRows()...)
}

func c_add(c *CPU, size Size, dst, src uint32) uint32 { return c.Add(size, dst, src) }
func c_sub(c *CPU, size Size, dst, src uint32) uint32 { return c.Sub(size, dst, src) }
func c_and(c *CPU, size Size, dst, src uint32) uint32 { return c.And(size, dst, src) }
func c_or(c *CPU, size Size, dst, src uint32) uint32  { return c.Or(size, dst, src) }
func c_eor(c *CPU, size Size, dst, src uint32) uint32 { return c.Eor(size, dst, src) }

// arithFamilyRows builds the <ea>,Dn / Dn,<ea> / A-register forms shared by
// ADD and SUB (opmode bits8-6: 000/001/010 = <ea>,Dn; 011/111 = ADDA/SUBA;
// 100/101/110 = Dn,<ea> memory-only).
func arithFamilyRows(name string, top uint16, op dyadic) []Row {
	var out []Row
	sizes := []Size{Byte, Word, Long}
	for i, size := range sizes {
		size := size
		opmodeToEA := uint16(i) << 6
		out = append(out, Row{
			Mnemonic: name + " <ea>,Dn", Mask: 0xf1c0 | (7 << 6), Match: top | opmodeToEA,
			Size: size, EAMask: eaAllData,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllData) },
			Decode: decodeEAThenDn,
			Exec: func(c *CPU, w uint16) {
				src := decodeEA(c, eaMode(w), eaReg(w), size)
				v := c.ReadEA(src, size)
				res := op(c, size, c.D(regX(w)), v)
				writeSized(c, regX(w), size, res)
			},
		})
		opmodeFromEA := (uint16(i) | 4) << 6
		out = append(out, Row{
			Mnemonic: name + " Dn,<ea>", Mask: 0xf1c0 | (7 << 6), Match: top | opmodeFromEA,
			Size: size, EAMask: eaAllMemory &^ (eaPCDisplacement | eaPCIndex),
			Decode: decodeDnThenEA,
			Validator: func(w uint16) bool {
				mode := eaMode(w)
				if mode == 0 || mode == 1 {
					return false // claimed by ADDX/SUBX instead
				}
				return eaModeAllowed(w, eaAllMemory&^(eaPCDisplacement|eaPCIndex))
			},
			Exec: func(c *CPU, w uint16) {
				dst := decodeEA(c, eaMode(w), eaReg(w), size)
				v := c.ReadEA(dst, size)
				res := op(c, size, v, c.D(regX(w)))
				c.WriteEA(dst, size, res)
			},
		})
	}
	aName := name + "A"
	for i, size := range []Size{Word, Long} {
		size := size
		opmode := ((uint16(i) << 2) | 3) << 6 // 011 = word, 111 = long
		out = append(out, Row{
			Mnemonic: aName, Mask: 0xf1c0 | (7 << 6), Match: top | opmode,
			Size: size, EAMask: eaAllData,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllData) },
			Decode: decodeEAThenAn,
			Exec: func(c *CPU, w uint16) {
				src := decodeEA(c, eaMode(w), eaReg(w), size)
				v := c.ReadEA(src, size)
				if size == Word {
					v = mask.SignExtend16(uint16(v))
				}
				if name == "ADD" {
					c.SetA(regX(w), c.A(regX(w))+v)
				} else {
					c.SetA(regX(w), c.A(regX(w))-v)
				}
			},
		})
	}
	return out
}

// logicFamilyRows is arithFamilyRows without the A-register forms (AND/OR
// have no ANDA/ORA) and without extend forms (ANDX/ORX don't exist; the
// ABCD/SBCD rows in unaryRows take that opcode corner instead).
func logicFamilyRows(name string, top uint16, op dyadic) []Row {
	var out []Row
	for i, size := range []Size{Byte, Word, Long} {
		size := size
		out = append(out, Row{
			Mnemonic: name + " <ea>,Dn", Mask: 0xf1c0 | (7 << 6), Match: top | (uint16(i) << 6),
			Size: size, EAMask: eaAllData &^ eaAn, // AND/OR cannot source from An-direct
			Validator: func(w uint16) bool {
				return eaModeAllowed(w, eaAllData&^eaAn)
			},
			Decode: decodeEAThenDn,
			Exec: func(c *CPU, w uint16) {
				src := decodeEA(c, eaMode(w), eaReg(w), size)
				v := c.ReadEA(src, size)
				res := op(c, size, c.D(regX(w)), v)
				writeSized(c, regX(w), size, res)
			},
		})
		out = append(out, Row{
			Mnemonic: name + " Dn,<ea>", Mask: 0xf1c0 | (7 << 6), Match: top | ((uint16(i) | 4) << 6),
			Size: size, EAMask: eaAllMemory &^ (eaPCDisplacement | eaPCIndex),
			Decode: decodeDnThenEA,
			Validator: func(w uint16) bool {
				mode := eaMode(w)
				if mode == 0 || mode == 1 {
					return false // claimed by ABCD/SBCD/EXG(AND) instead, or unclaimed
				}
				return eaModeAllowed(w, eaAllMemory&^(eaPCDisplacement|eaPCIndex))
			},
			Exec: func(c *CPU, w uint16) {
				dst := decodeEA(c, eaMode(w), eaReg(w), size)
				v := c.ReadEA(dst, size)
				res := op(c, size, v, c.D(regX(w)))
				c.WriteEA(dst, size, res)
			},
		})
	}
	return out
}

// decodeEAThenDn and decodeDnThenEA recover the two-operand shapes shared
// by the ADD/SUB/AND/OR/EOR/CMP families: an EA on one side, Dn on the
// other, in whichever order the mnemonic reads them.
func decodeEAThenDn(ws WordSource, w uint16, size Size) []Operand {
	return []Operand{decodeEA(ws, eaMode(w), eaReg(w), size), DataReg(regX(w))}
}

func decodeDnThenEA(ws WordSource, w uint16, size Size) []Operand {
	return []Operand{DataReg(regX(w)), decodeEA(ws, eaMode(w), eaReg(w), size)}
}

func decodeEAThenAn(ws WordSource, w uint16, size Size) []Operand {
	return []Operand{decodeEA(ws, eaMode(w), eaReg(w), size), AddrReg(regX(w))}
}

// writeSized stores res into data register reg at size, preserving the
// untouched high bits for byte/word writes.
func writeSized(c *CPU, reg uint8, size Size, res uint32) {
	d := c.D(reg)
	switch size {
	case Byte:
		d = d&^0xff | res&0xff
	case Word:
		d = d&^0xffff | res&0xffff
	default:
		d = res
	}
	c.SetD(reg, d)
}

// cmpEorRows builds the 1011 family: CMP <ea>,Dn, CMPA, CMPM (An+,An+),
// and EOR Dn,<ea> (memory-alterable, excluding the CMPM postincrement
// corner it would otherwise collide with).
func cmpEorRows() []Row {
	var out []Row
	for i, size := range []Size{Byte, Word, Long} {
		size := size
		out = append(out, Row{
			Mnemonic: "CMP <ea>,Dn", Mask: 0xf1c0 | (7 << 6), Match: 0xb000 | (uint16(i) << 6),
			Size: size, EAMask: eaAllData,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllData) },
			Decode: decodeEAThenDn,
			Exec: func(c *CPU, w uint16) {
				src := decodeEA(c, eaMode(w), eaReg(w), size)
				v := c.ReadEA(src, size)
				c.Cmp(size, c.D(regX(w)), v)
			},
		})
		out = append(out, Row{
			Mnemonic: "CMPM", Mask: 0xf1f8 | (7 << 6), Match: 0xb108 | (uint16(i) << 6),
			Size: size,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				return []Operand{Postincrement(eaReg(w)), Postincrement(regX(w))}
			},
			Exec: func(c *CPU, w uint16) {
				src := Postincrement(eaReg(w))
				dst := Postincrement(regX(w))
				sv := c.ReadEA(src, size)
				dv := c.ReadEA(dst, size)
				c.Cmp(size, dv, sv)
			},
		})
		out = append(out, Row{
			Mnemonic: "EOR Dn,<ea>", Mask: 0xf1c0 | (7 << 6), Match: 0xb000 | ((uint16(i) | 4) << 6),
			Size: size, EAMask: eaAllMemory &^ (eaPCDisplacement | eaPCIndex),
			Decode: decodeDnThenEA,
			// eaAllMemory already excludes Dn/An-direct (mode 0/1), the bit
			// pattern CMPM occupies in this opcode family, so the two rows
			// accepting sets never overlap.
			Validator: func(w uint16) bool {
				return eaModeAllowed(w, eaAllMemory&^(eaPCDisplacement|eaPCIndex))
			},
			Exec: func(c *CPU, w uint16) {
				dst := decodeEA(c, eaMode(w), eaReg(w), size)
				v := c.ReadEA(dst, size)
				res := c_eor(c, size, v, c.D(regX(w)))
				c.WriteEA(dst, size, res)
			},
		})
	}
	for i, size := range []Size{Word, Long} {
		size := size
		opmode := ((uint16(i) << 2) | 3) << 6 // 011 = word, 111 = long
		out = append(out, Row{
			Mnemonic: "CMPA", Mask: 0xf1c0 | (7 << 6), Match: 0xb000 | opmode,
			Size: size, EAMask: eaAllData,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllData) },
			Decode: decodeEAThenAn,
			Exec: func(c *CPU, w uint16) {
				src := decodeEA(c, eaMode(w), eaReg(w), size)
				v := c.ReadEA(src, size)
				if size == Word {
					v = mask.SignExtend16(uint16(v))
				}
				c.Cmp(Long, c.A(regX(w)), v)
			},
		})
	}
	return out
}

// immediateRows builds ADDI/SUBI/ANDI/ORI/EORI/CMPI, each "#imm,<ea>".
func immediateRows() []Row {
	ops := []struct {
		name string
		top  uint16
		op   dyadic
		cmp  bool
	}{
		{"ORI", 0x0000, c_or, false},
		{"ANDI", 0x0200, c_and, false},
		{"SUBI", 0x0400, c_sub, false},
		{"ADDI", 0x0600, c_add, false},
		{"EORI", 0x0a00, c_eor, false},
		{"CMPI", 0x0c00, nil, true},
	}
	var out []Row
	for _, family := range ops {
		family := family
		for i, size := range []Size{Byte, Word, Long} {
			size := size
			out = append(out, Row{
				Mnemonic: family.name, Mask: 0xff00 | (3 << 6), Match: family.top | (uint16(i) << 6),
				Size: size, EAMask: eaAllAlterable,
				Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllAlterable) },
				Decode: func(ws WordSource, w uint16, size Size) []Operand {
					return []Operand{readImmediateOperand(ws, size), decodeEA(ws, eaMode(w), eaReg(w), size)}
				},
				Exec: func(c *CPU, w uint16) {
					imm := readImmediateOperand(c, size)
					iv := c.ReadEA(imm, size)
					dst := decodeEA(c, eaMode(w), eaReg(w), size)
					v := c.ReadEA(dst, size)
					if family.cmp {
						c.Cmp(size, v, iv)
						return
					}
					res := family.op(c, size, v, iv)
					c.WriteEA(dst, size, res)
				},
			})
		}
	}
	return out
}

// quickRows builds ADDQ/SUBQ (3-bit immediate 1-8) and Scc/DBcc share the
// same top nibble but live in handlers_branch.go.
func quickRows() []Row {
	var out []Row
	for i, size := range []Size{Byte, Word, Long} {
		size := size
		for _, f := range []struct {
			name string
			top  uint16
			op   dyadic
		}{{"ADDQ", 0x5000, c_add}, {"SUBQ", 0x5100, c_sub}} {
			f := f
			out = append(out, Row{
				Mnemonic: f.name, Mask: 0xf1c0 | (3 << 6), Match: f.top | (uint16(i) << 6),
				Size: size, EAMask: eaAllAlterable,
				Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllAlterable) },
				Decode: func(ws WordSource, w uint16, size Size) []Operand {
					data := regX(w)
					if data == 0 {
						data = 8
					}
					return []Operand{ImmediateOperand(Byte, uint32(data)), decodeEA(ws, eaMode(w), eaReg(w), size)}
				},
				Exec: func(c *CPU, w uint16) {
					data := regX(w)
					if data == 0 {
						data = 8
					}
					dst := decodeEA(c, eaMode(w), eaReg(w), size)
					if eaMode(w) == 1 { // An direct: quick math skips flags, full 32-bit
						if f.name == "ADDQ" {
							c.SetA(eaReg(w), c.A(eaReg(w))+uint32(data))
						} else {
							c.SetA(eaReg(w), c.A(eaReg(w))-uint32(data))
						}
						return
					}
					v := c.ReadEA(dst, size)
					res := f.op(c, size, v, uint32(data))
					c.WriteEA(dst, size, res)
				},
			})
		}
	}
	return out
}

// extendedRows builds ADDX/SUBX (register and predecrement-memory forms).
func extendedRows() []Row {
	var out []Row
	for i, size := range []Size{Byte, Word, Long} {
		size := size
		for _, f := range []struct {
			name string
			top  uint16
			op   dyadic
		}{{"ADDX", 0xd100, func(c *CPU, size Size, dst, src uint32) uint32 { return c.AddX(size, dst, src) }},
			{"SUBX", 0x9100, func(c *CPU, size Size, dst, src uint32) uint32 { return c.SubX(size, dst, src) }}} {
			f := f
			out = append(out, Row{
				Mnemonic: f.name + " Dn,Dn", Mask: 0xf1f8 | (3 << 6), Match: f.top | (uint16(i) << 6),
				Size: size,
				Decode: func(ws WordSource, w uint16, size Size) []Operand {
					return []Operand{DataReg(eaReg(w)), DataReg(regX(w))}
				},
				Exec: func(c *CPU, w uint16) {
					res := f.op(c, size, c.D(regX(w)), c.D(eaReg(w)))
					writeSized(c, regX(w), size, res)
				},
			})
			out = append(out, Row{
				Mnemonic: f.name + " -(Ay),-(Ax)", Mask: 0xf1f8 | (3 << 6), Match: f.top | 8 | (uint16(i) << 6),
				Size: size,
				Decode: func(ws WordSource, w uint16, size Size) []Operand {
					return []Operand{Predecrement(eaReg(w)), Predecrement(regX(w))}
				},
				Exec: func(c *CPU, w uint16) {
					src := Predecrement(eaReg(w))
					dst := Predecrement(regX(w))
					sv := c.ReadEA(src, size)
					dv := c.ReadEA(dst, size)
					res := f.op(c, size, dv, sv)
					c.WriteEA(dst, size, res)
				},
			})
		}
	}
	return out
}

// statusImmediateRows builds ORI/ANDI/EORI to CCR and to SR: fixed-EA
// immediate opcodes that the general immediateRows family leaves unclaimed
// since mode7/reg4 (immediate) is not in eaAllAlterable.
func statusImmediateRows() []Row {
	type statusOp struct {
		name string
		word uint16
		long bool // true selects the SR (word) form, false the CCR (byte) form
		op   dyadic
	}
	var specs []statusOp
	for _, f := range []struct {
		name    string
		ccr, sr uint16
		op      dyadic
	}{
		{"ORI", 0x003c, 0x007c, c_or},
		{"ANDI", 0x023c, 0x027c, c_and},
		{"EORI", 0x0a3c, 0x0a7c, c_eor},
	} {
		specs = append(specs, statusOp{f.name + " CCR", f.ccr, false, f.op})
		specs = append(specs, statusOp{f.name + " SR", f.sr, true, f.op})
	}
	var out []Row
	for _, s := range specs {
		s := s
		out = append(out, Row{
			Mnemonic: s.name, Mask: maskExact, Match: s.word, Size: Word,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				if s.long {
					return []Operand{ImmediateOperand(Word, uint32(ws.ReadImmWord())), StatusRegister(Word)}
				}
				return []Operand{ImmediateOperand(Byte, uint32(ws.ReadImmWord())&0xff), StatusRegister(Byte)}
			},
			Exec: func(c *CPU, w uint16) {
				imm := c.ReadImmWord()
				if s.long {
					c.SetStatusRegister(s.op(c, Word, c.StatusRegister(), uint32(imm)))
					return
				}
				sr := c.StatusRegister()
				lo := s.op(c, Byte, sr&0xff, uint32(imm)&0xff)
				c.SetStatusRegister(sr&^0xff | lo&0xff)
			},
		})
	}
	return out
}

// unaryRows builds NOT/NEG/NEGX/TST and ABCD/SBCD/NBCD.
func unaryRows() []Row {
	var out []Row
	for i, size := range []Size{Byte, Word, Long} {
		size := size
		out = append(out,
			Row{Mnemonic: "NOT", Mask: 0xff00 | (3 << 6), Match: 0x4600 | (uint16(i) << 6), Size: size, EAMask: eaAllAlterable,
				Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllAlterable) },
				Decode: decodeEAOperandOnly,
				Exec: func(c *CPU, w uint16) {
					op := decodeEA(c, eaMode(w), eaReg(w), size)
					c.WriteEA(op, size, c.Not(size, c.ReadEA(op, size)))
				}},
			Row{Mnemonic: "NEG", Mask: 0xff00 | (3 << 6), Match: 0x4400 | (uint16(i) << 6), Size: size, EAMask: eaAllAlterable,
				Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllAlterable) },
				Decode: decodeEAOperandOnly,
				Exec: func(c *CPU, w uint16) {
					op := decodeEA(c, eaMode(w), eaReg(w), size)
					c.WriteEA(op, size, c.Neg(size, c.ReadEA(op, size)))
				}},
			Row{Mnemonic: "NEGX", Mask: 0xff00 | (3 << 6), Match: 0x4000 | (uint16(i) << 6), Size: size, EAMask: eaAllAlterable,
				Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllAlterable) },
				Decode: decodeEAOperandOnly,
				Exec: func(c *CPU, w uint16) {
					op := decodeEA(c, eaMode(w), eaReg(w), size)
					c.WriteEA(op, size, c.NegX(size, c.ReadEA(op, size)))
				}},
			Row{Mnemonic: "TST", Mask: 0xff00 | (3 << 6), Match: 0x4a00 | (uint16(i) << 6), Size: size, EAMask: eaAllData,
				Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllData) },
				Decode: decodeEAOperandOnly,
				Exec: func(c *CPU, w uint16) {
					op := decodeEA(c, eaMode(w), eaReg(w), size)
					c.Tst(size, c.ReadEA(op, size))
				}},
		)
	}
	out = append(out,
		Row{Mnemonic: "ABCD Dn,Dn", Mask: 0xf1f8, Match: 0xc100, Size: Byte,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				return []Operand{DataReg(eaReg(w)), DataReg(regX(w))}
			},
			Exec: func(c *CPU, w uint16) {
				writeSized(c, regX(w), Byte, c.Abcd(c.D(regX(w)), c.D(eaReg(w))))
			}},
		Row{Mnemonic: "ABCD -(Ay),-(Ax)", Mask: 0xf1f8, Match: 0xc108, Size: Byte,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				return []Operand{Predecrement(eaReg(w)), Predecrement(regX(w))}
			},
			Exec: func(c *CPU, w uint16) {
				src := Predecrement(eaReg(w))
				dst := Predecrement(regX(w))
				sv := c.ReadEA(src, Byte)
				dv := c.ReadEA(dst, Byte)
				c.WriteEA(dst, Byte, c.Abcd(dv, sv))
			}},
		Row{Mnemonic: "SBCD Dn,Dn", Mask: 0xf1f8, Match: 0x8100, Size: Byte,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				return []Operand{DataReg(eaReg(w)), DataReg(regX(w))}
			},
			Exec: func(c *CPU, w uint16) {
				writeSized(c, regX(w), Byte, c.Sbcd(c.D(regX(w)), c.D(eaReg(w))))
			}},
		Row{Mnemonic: "SBCD -(Ay),-(Ax)", Mask: 0xf1f8, Match: 0x8108, Size: Byte,
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				return []Operand{Predecrement(eaReg(w)), Predecrement(regX(w))}
			},
			Exec: func(c *CPU, w uint16) {
				src := Predecrement(eaReg(w))
				dst := Predecrement(regX(w))
				sv := c.ReadEA(src, Byte)
				dv := c.ReadEA(dst, Byte)
				c.WriteEA(dst, Byte, c.Sbcd(dv, sv))
			}},
		Row{Mnemonic: "NBCD", Mask: 0xffc0, Match: 0x4800, Size: Byte, EAMask: eaAllAlterable &^ eaAn,
			Validator: func(w uint16) bool { return eaModeAllowed(w, eaAllAlterable&^eaAn) },
			Decode: decodeEAOperandOnly,
			Exec: func(c *CPU, w uint16) {
				op := decodeEA(c, eaMode(w), eaReg(w), Byte)
				c.WriteEA(op, Byte, c.Sbcd(0, c.ReadEA(op, Byte)))
			}},
	)
	return out
}
