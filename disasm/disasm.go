package disasm

import (
	"strings"

	"m68k/cpu"
	"m68k/mem"
)

// ccNames maps the four-bit condition field to its mnemonic suffix, in the
// same order as cpu's conditionTrue switch (T,F,HI,LS,CC,CS,NE,EQ,VC,VS,
// PL,MI,GE,LT,GT,LE).
var ccNames = [16]string{
	"T", "F", "HI", "LS", "CC", "CS", "NE", "EQ",
	"VC", "VS", "PL", "MI", "GE", "LT", "GT", "LE",
}

func ccName(cc uint16) string { return ccNames[cc&0xf] }

// shiftNames maps a shift/rotate type-field value (0 ASx, 1 LSx, 2 ROXx,
// 3 ROx) to its left/right mnemonic pair, matching cpu's shiftKind table.
var shiftNames = [4][2]string{
	{"ASL", "ASR"},
	{"LSL", "LSR"},
	{"ROXL", "ROXR"},
	{"ROL", "ROR"},
}

// canonicalMnemonic recovers the real M68K mnemonic text for a row, either
// directly (most families already carry it) or by picking the bits back
// out of row.Match for the families the table collapses into one
// generically-named row per group (condition codes, shift direction/kind).
func canonicalMnemonic(row *cpu.Row) string {
	switch row.Mnemonic {
	case "Bcc":
		return "B" + ccName((row.Match>>8)&0xf)
	case "DBcc":
		return "DB" + ccName((row.Match>>8)&0xf)
	case "Scc":
		return "S" + ccName((row.Match>>8)&0xf)
	case "SHIFT reg":
		bits := (row.Match >> 3) & 3
		left := row.Match&(1<<8) != 0
		if left {
			return shiftNames[bits][0]
		}
		return shiftNames[bits][1]
	case "SHIFT mem":
		bits := (row.Match >> 9) & 3
		left := row.Match&(1<<8) != 0
		if left {
			return shiftNames[bits][0]
		}
		return shiftNames[bits][1]
	}
	// Every other row's Mnemonic is either already the bare real mnemonic
	// (ADDX, CMPM, JMP, ...) or carries a " <ea>,Dn"-style operand-shape
	// suffix used only to keep BuildTable's collision messages readable;
	// the recovered Operands slice already carries that shape, so the
	// suffix is stripped for display.
	if i := strings.IndexByte(row.Mnemonic, ' '); i >= 0 {
		return row.Mnemonic[:i]
	}
	return row.Mnemonic
}

// cursor is a WordSource that reads sequential words from a bus starting
// at a fixed address, used for static disassembly where no CPU prefetch
// queue exists to read through.
type cursor struct {
	bus   *mem.Bus
	space mem.AddressSpace
	addr  uint32
}

func (c *cursor) ReadImmWord() uint16 {
	v := uint16(c.bus.ReadWord(c.space, c.addr))
	c.addr += 2
	return v
}

func (c *cursor) ReadImmLong() uint32 {
	v := c.bus.ReadLong(c.space, c.addr)
	c.addr += 4
	return v
}

// Disassemble decodes exactly one instruction at addr. If the opcode word
// matches no row, it falls back to a DC.W pseudo-instruction carrying the
// raw word, the same convention original_source's disassembler uses for
// undefined opcodes.
func Disassemble(bus *mem.Bus, addr uint32, supervisor bool) Instruction {
	cur := &cursor{bus: bus, space: mem.ProgramSpace(supervisor), addr: addr}
	opcode := cur.ReadImmWord()
	row := cpu.DispatchTable()[opcode]
	if row == nil {
		return Instruction{
			Address: addr, Length: 2, Mnemonic: "DC.W", Size: cpu.Word,
			Operands: []cpu.Operand{cpu.ImmediateOperand(cpu.Word, uint32(opcode))},
		}
	}
	var operands []cpu.Operand
	if row.Decode != nil {
		operands = row.Decode(cur, opcode, row.Size)
	}
	return Instruction{
		Address:  addr,
		Length:   cur.addr - addr,
		Mnemonic: canonicalMnemonic(row),
		Size:     resolvedSize(row, opcode),
		Operands: operands,
	}
}

// resolvedSize returns a row's size, recovering the one family (MOVEM) whose
// size bit isn't baked into Match/Mask and so can't live in a static row
// field: bit 6 of the opcode picks word vs long, matching the Decode
// closure's own runtime check.
func resolvedSize(row *cpu.Row, opcode uint16) cpu.Size {
	switch row.Mnemonic {
	case "MOVEM reg->mem", "MOVEM mem->reg":
		if opcode&0x40 != 0 {
			return cpu.Long
		}
		return cpu.Word
	}
	return row.Size
}

// DisassembleRange decodes consecutive instructions from start up to (but
// not including) end, stopping early if an instruction's length would
// carry it past end.
func DisassembleRange(bus *mem.Bus, start, end uint32, supervisor bool) []Instruction {
	var out []Instruction
	addr := start
	for addr < end {
		in := Disassemble(bus, addr, supervisor)
		if in.Length == 0 || addr+in.Length > end {
			break
		}
		out = append(out, in)
		addr += in.Length
	}
	return out
}

// BranchTarget computes the absolute address a Bcc/BRA/BSR/DBcc instruction
// would jump to, recovering it from the raw relative displacement Decode
// captured (Decode itself has no PC context to do this math).
func (in Instruction) BranchTarget() (uint32, bool) {
	if len(in.Operands) == 0 {
		return 0, false
	}
	last := in.Operands[len(in.Operands)-1]
	if last.Kind != cpu.DisplacementOperand {
		return 0, false
	}
	var disp int32
	switch last.Size {
	case cpu.Byte:
		disp = int32(int8(last.Long))
	case cpu.Word:
		disp = int32(int16(last.Long))
	case cpu.Long:
		disp = int32(last.Long)
	default:
		return 0, false
	}
	return uint32(int32(in.Address) + 2 + disp), true
}
