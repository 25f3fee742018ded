package cpu

import "m68k/mask"

// Row is one entry in the declarative opcode table: a mask/match pair
// plus a validator select every opcode word this instruction family
// accepts; Exec carries it out, Decode recovers its operands for the
// disassembler/assembler sharing this same table. Ported from spec.md
// §4.3's row shape (`{mask, matching, size, ea-mask, mnemonic, decoder,
// encoder, selector, validator}`), condensed to what a Go closure-based
// dispatch table needs: Exec is the handler and Decode the operand decoder;
// there is no per-row encoder or selector (package disasm encodes from
// Match and the operands).
type Row struct {
	Mask, Match uint16
	Size        Size
	EAMask      uint16 // bitmap over the 12 eaGroup bits; 0 if the opcode has no EA field
	Mnemonic    string
	Exec        func(c *CPU, w uint16)
	Decode      func(ws WordSource, w uint16, size Size) []Operand
	Validator   func(w uint16) bool

	// Privileged marks an instruction that traps with a Privilege Violation
	// (vector 8) when executed outside supervisor mode, per spec.md §7.
	Privileged bool
}

// Canonical mask profiles (spec.md §4.3): each frees the register field(s)
// that vary within one row's accepting set.
const (
	maskOutXY uint16 = 0xffff &^ (0x7 << 9) &^ 0x7 // frees Dx/Ax (bits 11-9) and Dy/Ay (bits 2-0)
	maskOutX  uint16 = 0xffff &^ (0x7 << 9)        // frees Dx/Ax only
	maskOutY  uint16 = 0xffff &^ 0x7               // frees Dy/Ay only
	maskOutEA uint16 = 0xffff &^ 0x3f              // frees the whole 6-bit EA field (mode+reg)
	maskExact uint16 = 0xffff                      // single opcode value
)

// EA group bits, used in a Row's EAMask to say which addressing modes an
// instruction's EA field accepts.
const (
	eaDn uint16 = 1 << iota
	eaAn
	eaAnIndirect
	eaAnPostincrement
	eaAnPredecrement
	eaAnDisplacement
	eaAnIndex
	eaAbsWord
	eaAbsLong
	eaPCDisplacement
	eaPCIndex
	eaImmediate
)

const eaAllMemory = eaAnIndirect | eaAnPostincrement | eaAnPredecrement | eaAnDisplacement |
	eaAnIndex | eaAbsWord | eaAbsLong | eaPCDisplacement | eaPCIndex

const eaAllAlterable = eaDn | eaAn | eaAllMemory

const eaAllData = eaDn | eaAllMemory | eaPCDisplacement | eaPCIndex | eaImmediate

const eaAllControl = eaAnIndirect | eaAnDisplacement | eaAnIndex | eaAbsWord | eaAbsLong |
	eaPCDisplacement | eaPCIndex

func eaGroup(mode, reg uint8) (uint16, bool) {
	switch mode {
	case 0:
		return eaDn, true
	case 1:
		return eaAn, true
	case 2:
		return eaAnIndirect, true
	case 3:
		return eaAnPostincrement, true
	case 4:
		return eaAnPredecrement, true
	case 5:
		return eaAnDisplacement, true
	case 6:
		return eaAnIndex, true
	case 7:
		switch reg {
		case 0:
			return eaAbsWord, true
		case 1:
			return eaAbsLong, true
		case 2:
			return eaPCDisplacement, true
		case 3:
			return eaPCIndex, true
		case 4:
			return eaImmediate, true
		}
	}
	return 0, false
}

// eaModeAllowed reports whether opcode word w's EA field (bits 5-0) names
// an addressing mode present in allowed.
func eaModeAllowed(w uint16, allowed uint16) bool {
	group, ok := eaGroup(eaMode(w), eaReg(w))
	return ok && group&allowed != 0
}

// Bit-field extraction shared by every instruction family: the EA mode
// and register live in the low six bits of every opcode that has an EA
// operand; the X register (Dx/Ax) sits in bits 11-9. Read through mask's
// 1-indexed byte ranges rather than hand-rolled shift/mask pairs, since
// every field here fits within one byte of the opcode word.
func eaMode(w uint16) uint8 { return mask.Range(byte(w), mask.I3, mask.I5) }
func eaReg(w uint16) uint8  { return mask.Range(byte(w), mask.I6, mask.I8) }
func regX(w uint16) uint8   { return mask.Range(byte(w>>8), mask.I5, mask.I7) }

// rows accumulates every instruction family's Row entries; each
// handlers_*.go file appends to it from an init() func via addRows.
var rows []Row

func addRows(rs ...Row) { rows = append(rows, rs...) }

// BuildTable expands every row's accepting set into a flat 65,536-entry
// dispatch table, matching spec.md §4.3's builder: start from all-illegal,
// install each row at every word it accepts, and panic if two rows ever
// claim the same slot (their accepting sets are supposed to be disjoint
// by construction).
func BuildTable() *[65536]*Row {
	var table [65536]*Row
	for i := range rows {
		row := &rows[i]
		for w := 0; w < 65536; w++ {
			word := uint16(w)
			if word&row.Mask != row.Match {
				continue
			}
			if row.Validator != nil && !row.Validator(word) {
				continue
			}
			if table[w] != nil {
				panic("opcode table collision at " + mnemonicAndWord(table[w].Mnemonic, row.Mnemonic, word))
			}
			table[w] = row
		}
	}
	return &table
}

func mnemonicAndWord(a, b string, w uint16) string {
	const hex = "0123456789ABCDEF"
	buf := [4]byte{}
	for i := 3; i >= 0; i-- {
		buf[i] = hex[w&0xf]
		w >>= 4
	}
	return a + " vs " + b + " @ $" + string(buf[:])
}

// illegalRow is installed as a synthetic fallback by Step when
// table[ir] is nil; it is not part of the generated table itself so that
// BuildTable's collision check stays meaningful.
var illegalRow = Row{Mnemonic: "ILLEGAL"}
