package cpu

// BTST/BCHG/BCLR/BSET: bit number either dynamic (a data register) or
// static (an immediate extension word). Against a data register the bit
// number is taken mod 32; against memory, mod 8 (the target is a single
// byte). Standard M68000 PRM semantics; only BTST's Z-flag-only update is
// shared with the others (BCHG/BCLR/BSET additionally mutate the bit).

type bitOp int

const (
	bitTST bitOp = iota
	bitCHG
	bitCLR
	bitSET
)

func init() {
	addRows(bitDynamicRows()...)
	addRows(bitStaticRows()...)
}

func bitDynamicRows() []Row {
	var out []Row
	for _, spec := range []struct {
		name string
		bits uint16
		op   bitOp
	}{{"BTST", 0, bitTST}, {"BCHG", 1, bitCHG}, {"BCLR", 2, bitCLR}, {"BSET", 3, bitSET}} {
		spec := spec
		allowed := eaAllData
		if spec.op != bitTST {
			allowed = eaAllAlterable &^ eaAn
		}
		out = append(out, Row{
			Mnemonic: spec.name + " Dn,<ea>", Mask: 0xf1c0 | (7 << 6), Match: 0x0100 | (spec.bits << 6),
			EAMask: uint16(allowed),
			Validator: func(w uint16) bool { return eaModeAllowed(w, allowed) },
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				bitSize := Byte
				if eaMode(w) == 0 {
					bitSize = Long
				}
				return []Operand{DataReg(regX(w)), decodeEA(ws, eaMode(w), eaReg(w), bitSize)}
			},
			Exec: func(c *CPU, w uint16) { execBit(c, w, uint32(c.D(regX(w))), spec.op) },
		})
	}
	return out
}

func bitStaticRows() []Row {
	var out []Row
	for _, spec := range []struct {
		name string
		bits uint16
		op   bitOp
	}{{"BTST", 0, bitTST}, {"BCHG", 1, bitCHG}, {"BCLR", 2, bitCLR}, {"BSET", 3, bitSET}} {
		spec := spec
		allowed := eaAllData
		if spec.op != bitTST {
			allowed = eaAllAlterable &^ eaAn
		}
		out = append(out, Row{
			Mnemonic: spec.name + " #imm,<ea>", Mask: 0xffc0 | (7 << 6), Match: 0x0800 | (spec.bits << 6),
			EAMask: uint16(allowed),
			Validator: func(w uint16) bool { return eaModeAllowed(w, allowed) },
			Decode: func(ws WordSource, w uint16, size Size) []Operand {
				bitSize := Byte
				if eaMode(w) == 0 {
					bitSize = Long
				}
				n := ws.ReadImmWord()
				return []Operand{ImmediateOperand(Byte, uint32(n)&0xff), decodeEA(ws, eaMode(w), eaReg(w), bitSize)}
			},
			Exec: func(c *CPU, w uint16) {
				n := c.ReadImmWord()
				execBit(c, w, uint32(n), spec.op)
			},
		})
	}
	return out
}

func execBit(c *CPU, w uint16, n uint32, op bitOp) {
	mode := eaMode(w)
	size := Byte
	modulus := uint32(8)
	if mode == 0 {
		size = Long
		modulus = 32
	}
	n %= modulus
	target := decodeEA(c, mode, eaReg(w), size)
	v := c.ReadEA(target, size)
	bit := (v >> n) & 1
	c.NotZFlag = bit
	switch op {
	case bitTST:
		return
	case bitCHG:
		v ^= 1 << n
	case bitCLR:
		v &^= 1 << n
	case bitSET:
		v |= 1 << n
	}
	c.WriteEA(target, size, v)
}
