// Package disasm walks the same declarative opcode table the cpu package
// dispatches through, using each row's Decode function to recover a
// structured instruction instead of duplicating the bit-level decode
// logic. Ported from original_source's tools/src/disassembler.rs and
// tools/src/operand.rs, adapted to read through cpu.Row rather than a
// bespoke decode switch.
package disasm

import (
	"fmt"
	"strings"

	"m68k/cpu"
)

// Instruction is the structured form both the disassembler produces and
// the assembler consumes, matching spec.md's textual-grammar boundary
// (`{mnemonic, size, operands}`) without implementing that grammar itself.
type Instruction struct {
	Address  uint32
	Length   uint32 // total bytes consumed, opcode word included
	Mnemonic string
	Size     cpu.Size
	Operands []cpu.Operand
}

// String renders the instruction the way a listing would: mnemonic, size
// suffix if sized, then comma-separated operands.
func (in Instruction) String() string {
	var b strings.Builder
	b.WriteString(in.Mnemonic)
	if s := in.Size.String(); s != "" {
		b.WriteByte('.')
		b.WriteString(s)
	}
	if len(in.Operands) > 0 {
		b.WriteByte(' ')
		parts := make([]string, len(in.Operands))
		for i, op := range in.Operands {
			parts[i] = op.String()
		}
		b.WriteString(strings.Join(parts, ","))
	}
	return b.String()
}

func (in Instruction) GoString() string {
	return fmt.Sprintf("%s @ $%06X (%d bytes)", in.String(), in.Address, in.Length)
}
