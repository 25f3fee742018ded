package disasm

import (
	"strings"

	"m68k/cpu"
)

// Assemble walks the same row table Disassemble reads, picking the first
// row whose recovered mnemonic and size match instr and whose operand
// shape this package knows how to encode, and returns the opcode word
// followed by any extension words. Mirrors spec.md's Assemble description:
// scan the same rows, pick the first whose mnemonic/size/operand shape
// fits, then serialize. Ported by hand from original_source's
// tools/src/assembler.rs structure (lookup by mnemonic, then encode),
// generalized to read the per-row encoding rules back out of cpu.Row
// instead of a dedicated assembler table.
//
// Several distinct rows can share one canonical mnemonic+size (the two
// operand-order variants of ADD/SUB/AND/OR, or a shift's register-count vs
// immediate-count forms), and a candidate encoder can produce a
// plausible-looking word for the wrong one of those rows. So every
// candidate is verified by feeding the words it produced back through that
// same row's Decode and checking the operands it recovers match what the
// caller asked for; only a verified encoding is returned.
func Assemble(instr Instruction) ([]uint16, bool) {
	name := strings.ToUpper(instr.Mnemonic)
	table := cpu.DispatchTable()
	seen := make(map[*cpu.Row]bool)
	for _, row := range table {
		if row == nil || seen[row] {
			continue
		}
		seen[row] = true
		if canonicalMnemonic(row) != name {
			continue
		}
		if row.Size != cpu.Unsized && instr.Size != cpu.Unsized && row.Size != instr.Size {
			continue
		}
		words, ok := encodeRow(row, instr.Operands, instr.Size)
		if !ok {
			continue
		}
		if row.Decode != nil && !decodeMatches(row, words, instr.Operands) {
			continue
		}
		return words, true
	}
	return nil, false
}

// wordSlice is a WordSource reading sequentially from an in-memory slice,
// used to verify an encoded instruction by decoding it straight back.
type wordSlice struct {
	words []uint16
	pos   int
}

func (w *wordSlice) ReadImmWord() uint16 {
	v := w.words[w.pos]
	w.pos++
	return v
}

func (w *wordSlice) ReadImmLong() uint32 {
	hi := uint32(w.ReadImmWord())
	lo := uint32(w.ReadImmWord())
	return hi<<16 | lo
}

func decodeMatches(row *cpu.Row, words []uint16, want []cpu.Operand) bool {
	ws := &wordSlice{words: words, pos: 1}
	got := row.Decode(ws, words[0], row.Size)
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// encodeEA is decodeEA's inverse: given an Operand, recover the 6-bit
// mode+register field that would decode back into it. Not every Operand
// kind is EA-expressible (status register, displacement, register list),
// so ok reports whether the mapping exists.
func encodeEA(op cpu.Operand) (mode, reg uint8, ok bool) {
	switch op.Kind {
	case cpu.DataRegisterDirect:
		return 0, op.Reg, true
	case cpu.AddressRegisterDirect:
		return 1, op.Reg, true
	case cpu.AddressRegisterIndirect:
		return 2, op.Reg, true
	case cpu.AddressRegisterIndirectPostincrement:
		return 3, op.Reg, true
	case cpu.AddressRegisterIndirectPredecrement:
		return 4, op.Reg, true
	case cpu.AddressRegisterIndirectDisplacement:
		return 5, op.Reg, true
	case cpu.AddressRegisterIndirectIndex:
		return 6, op.Reg, true
	case cpu.PCDisplacement:
		return 7, 2, true
	case cpu.PCIndex:
		return 7, 3, true
	case cpu.AbsoluteWord:
		return 7, 0, true
	case cpu.AbsoluteLong:
		return 7, 1, true
	case cpu.Immediate:
		return 7, 4, true
	default:
		return 0, 0, false
	}
}

// encodeRow builds the opcode word (seeded from row.Match, which already
// carries every fixed bit) plus extension words for one candidate row,
// given the operand shape Assemble's caller supplied. size is the
// instruction's requested size, needed only by the one family (MOVEM)
// whose size bit isn't part of Match/Mask. Returns ok=false when the
// operand shape doesn't fit this particular row, so Assemble's caller
// moves on to the next candidate (e.g. the register-count vs
// immediate-count variant of a shift, or the wrong MOVEM direction).
func encodeRow(row *cpu.Row, ops []cpu.Operand, size cpu.Size) ([]uint16, bool) {
	word := row.Match

	switch row.Mnemonic {
	case "EXG":
		if len(ops) != 2 {
			return nil, false
		}
		var mode uint16
		switch {
		case ops[0].Kind == cpu.DataRegisterDirect && ops[1].Kind == cpu.DataRegisterDirect:
			mode = 0x08
		case ops[0].Kind == cpu.AddressRegisterDirect && ops[1].Kind == cpu.AddressRegisterDirect:
			mode = 0x09
		default:
			mode = 0x11
		}
		word |= mode<<3 | uint16(ops[0].Reg)<<9 | uint16(ops[1].Reg)
		return []uint16{word}, true
	case "CMPM":
		if len(ops) != 2 {
			return nil, false
		}
		word |= uint16(ops[0].Reg) | uint16(ops[1].Reg)<<9
		return []uint16{word}, true
	case "MOVEQ":
		if len(ops) != 2 {
			return nil, false
		}
		word |= uint16(ops[0].Reg)<<9 | uint16(ops[1].Long)&0xff
		return []uint16{word}, true
	case "TRAP":
		if len(ops) != 1 || ops[0].Kind != cpu.Immediate {
			return nil, false
		}
		word |= uint16(ops[0].Long) & 0xf
		return []uint16{word}, true
	case "SHIFT reg":
		return encodeShiftReg(row, word, ops)
	case "SHIFT mem":
		if len(ops) != 1 {
			return nil, false
		}
		mode, reg, ok := encodeEA(ops[0])
		if !ok {
			return nil, false
		}
		word |= uint16(mode)<<3 | uint16(reg)
		return append([]uint16{word}, ops[0].EncodeExtensionWords()...), true
	case "MOVE":
		return encodeMove(word, ops)
	case "MOVEM reg->mem":
		return encodeMovem(word, ops, size, true)
	case "MOVEM mem->reg":
		return encodeMovem(word, ops, size, false)
	}

	if strings.HasSuffix(row.Mnemonic, "Dn,Dn") || strings.HasSuffix(row.Mnemonic, "-(Ay),-(Ax)") {
		if len(ops) != 2 {
			return nil, false
		}
		word |= uint16(ops[0].Reg) | uint16(ops[1].Reg)<<9
		return []uint16{word}, true
	}

	switch len(ops) {
	case 0:
		return []uint16{word}, true
	case 1:
		return encodeSingleOperand(row, word, ops[0])
	case 2:
		return encodeTwoOperand(row, word, ops[0], ops[1])
	}
	return nil, false
}

func encodeSingleOperand(row *cpu.Row, word uint16, op cpu.Operand) ([]uint16, bool) {
	if row.EAMask != 0 {
		mode, reg, ok := encodeEA(op)
		if !ok {
			return nil, false
		}
		word |= uint16(mode)<<3 | uint16(reg)
		return append([]uint16{word}, op.EncodeExtensionWords()...), true
	}
	switch op.Kind {
	case cpu.DataRegisterDirect, cpu.AddressRegisterDirect:
		word |= uint16(op.Reg)
		return []uint16{word}, true
	case cpu.Immediate:
		return append([]uint16{word}, op.EncodeExtensionWords()...), true
	case cpu.DisplacementOperand:
		// Bcc/BRA/BSR: byte displacement lives in the opcode's low byte;
		// word/long forms use the $00/$FF sentinel and an extension word.
		switch op.Size {
		case cpu.Byte:
			word |= uint16(op.Long) & 0xff
			return []uint16{word}, true
		case cpu.Long:
			word |= 0xff
			return append([]uint16{word}, op.EncodeExtensionWords()...), true
		default:
			return append([]uint16{word}, op.EncodeExtensionWords()...), true
		}
	}
	return nil, false
}

// encodeTwoOperand handles every two-operand family that isn't one of the
// named special cases above: status-register immediate forms (the word is
// already fully fixed by Match, only the immediate extension word(s) get
// appended), MOVE SR/CCR/USP variants, DBcc/LINK's register+displacement
// shape, immediate-to-EA forms, and the general EA+register family (ADD,
// SUB, AND, OR, EOR, CMP, CMPA, ADDA, SUBA, MULU, MULS, DIVU, DIVS, CHK,
// and the dynamic bit-instruction forms), where the register always lands
// in bits 11-9 and the EA always lands in bits 5-0 regardless of which
// operand the row's Decode put first.
func encodeTwoOperand(row *cpu.Row, word uint16, a, b cpu.Operand) ([]uint16, bool) {
	if a.Kind == cpu.Immediate && b.Kind == cpu.StatusRegisterOperand {
		return append([]uint16{word}, a.EncodeExtensionWords()...), true
	}
	if a.Kind == cpu.StatusRegisterOperand || b.Kind == cpu.StatusRegisterOperand {
		ea := a
		if a.Kind == cpu.StatusRegisterOperand {
			ea = b
		}
		mode, reg, ok := encodeEA(ea)
		if !ok {
			return nil, false
		}
		word |= uint16(mode)<<3 | uint16(reg)
		return append([]uint16{word}, ea.EncodeExtensionWords()...), true
	}
	if a.Kind == cpu.UserStackPointerOperand || b.Kind == cpu.UserStackPointerOperand {
		if a.Kind == cpu.UserStackPointerOperand {
			word |= 0x8 | uint16(b.Reg)
		} else {
			word |= uint16(a.Reg)
		}
		return []uint16{word}, true
	}
	if a.Kind == cpu.DisplacementOperand || b.Kind == cpu.DisplacementOperand {
		reg, disp := a, b
		if a.Kind == cpu.DisplacementOperand {
			reg, disp = b, a
		}
		word |= uint16(reg.Reg)
		return append([]uint16{word}, disp.EncodeExtensionWords()...), true
	}
	if a.Kind == cpu.Immediate {
		mode, reg, ok := encodeEA(b)
		if !ok {
			return nil, false
		}
		word |= uint16(mode)<<3 | uint16(reg)
		if row.Mask&0x0e00 == 0 {
			// ADDQ/SUBQ: the 1-8 count lives in bits 11-9 of the opcode
			// word itself (0 encodes 8), not in an extension word.
			word |= (uint16(a.Long) & 7) << 9
			return append([]uint16{word}, b.EncodeExtensionWords()...), true
		}
		ext := append(append([]uint16{}, a.EncodeExtensionWords()...), b.EncodeExtensionWords()...)
		return append([]uint16{word}, ext...), true
	}

	eaFirst := !strings.HasSuffix(row.Mnemonic, "Dn,<ea>")
	var regOp, eaOp cpu.Operand
	if eaFirst {
		eaOp, regOp = a, b
	} else {
		regOp, eaOp = a, b
	}
	mode, reg, ok := encodeEA(eaOp)
	if !ok {
		return nil, false
	}
	word |= uint16(mode)<<3 | uint16(reg) | uint16(regOp.Reg)<<9
	return append([]uint16{word}, eaOp.EncodeExtensionWords()...), true
}

func encodeShiftReg(row *cpu.Row, word uint16, ops []cpu.Operand) ([]uint16, bool) {
	if len(ops) != 2 {
		return nil, false
	}
	isRegRow := row.Match&(1<<5) != 0
	a, b := ops[0], ops[1]
	switch {
	case isRegRow && a.Kind == cpu.DataRegisterDirect && b.Kind == cpu.DataRegisterDirect:
		word |= uint16(a.Reg)<<9 | uint16(b.Reg)
	case !isRegRow && a.Kind == cpu.Immediate && b.Kind == cpu.DataRegisterDirect:
		word |= (uint16(a.Long) & 7) << 9
		word |= uint16(b.Reg)
	default:
		return nil, false
	}
	return []uint16{word}, true
}

func encodeMove(word uint16, ops []cpu.Operand) ([]uint16, bool) {
	if len(ops) != 2 {
		return nil, false
	}
	src, dst := ops[0], ops[1]
	srcMode, srcReg, ok := encodeEA(src)
	if !ok {
		return nil, false
	}
	dstMode, dstReg, ok := encodeEA(dst)
	if !ok {
		return nil, false
	}
	word |= uint16(srcMode)<<3 | uint16(srcReg)
	word |= uint16(dstMode)<<6 | uint16(dstReg)<<9
	ext := append(append([]uint16{}, src.EncodeExtensionWords()...), dst.EncodeExtensionWords()...)
	return append([]uint16{word}, ext...), true
}

func encodeMovem(word uint16, ops []cpu.Operand, size cpu.Size, regToMem bool) ([]uint16, bool) {
	if len(ops) != 2 {
		return nil, false
	}
	var listOp, eaOp cpu.Operand
	if regToMem {
		listOp, eaOp = ops[0], ops[1]
	} else {
		eaOp, listOp = ops[0], ops[1]
	}
	if listOp.Kind != cpu.RegisterList {
		return nil, false
	}
	mode, reg, ok := encodeEA(eaOp)
	if !ok {
		return nil, false
	}
	word |= uint16(mode)<<3 | uint16(reg)
	if size == cpu.Long {
		word |= 0x40
	}
	ext := append(append([]uint16{}, listOp.EncodeExtensionWords()...), eaOp.EncodeExtensionWords()...)
	return append([]uint16{word}, ext...), true
}
