package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"m68k/cpu"
	"m68k/mem"
)

func load(b *mem.Bus, addr uint32, words ...uint16) {
	for i, w := range words {
		b.WriteWord(mem.SupervisorProgram, addr+uint32(i*2), uint32(w))
	}
}

func TestDisassembleMoveq(t *testing.T) {
	b := mem.NewBus(0)
	load(b, 0x1000, 0x70ff) // MOVEQ #-1,D0
	in := Disassemble(b, 0x1000, true)
	assert.Equal(t, "MOVEQ", in.Mnemonic)
	assert.Equal(t, uint32(2), in.Length)
	assert.Equal(t, "MOVEQ.L D0,#$FF", in.String())
}

func TestDisassembleMoveWordImmediateToAbsLong(t *testing.T) {
	b := mem.NewBus(0)
	// MOVE.W #$1234,$00002000.L
	load(b, 0x1000, 0x33fc, 0x1234, 0x0000, 0x2000)
	in := Disassemble(b, 0x1000, true)
	assert.Equal(t, "MOVE", in.Mnemonic)
	assert.Equal(t, cpu.Word, in.Size)
	assert.Equal(t, uint32(8), in.Length)
	assert.Len(t, in.Operands, 2)
}

func TestDisassembleBranchRecoversTarget(t *testing.T) {
	b := mem.NewBus(0)
	load(b, 0x2000, 0x6002) // BRA.S *+4
	in := Disassemble(b, 0x2000, true)
	assert.Equal(t, "BRA", in.Mnemonic)
	target, ok := in.BranchTarget()
	assert.True(t, ok)
	assert.Equal(t, uint32(0x2004), target)
}

func TestDisassembleDbccCondition(t *testing.T) {
	b := mem.NewBus(0)
	load(b, 0x3000, 0x51c8, 0xfffe) // DBF D0,* (loop)
	in := Disassemble(b, 0x3000, true)
	assert.Equal(t, "DBF", in.Mnemonic)
	target, ok := in.BranchTarget()
	assert.True(t, ok)
	assert.Equal(t, uint32(0x3000), target)
}

func TestDisassembleShiftRegisterForm(t *testing.T) {
	b := mem.NewBus(0)
	load(b, 0x1000, 0xe349) // LSL.W #1,D1
	in := Disassemble(b, 0x1000, true)
	assert.Equal(t, "LSL", in.Mnemonic)
	assert.Equal(t, cpu.Word, in.Size)
	assert.Len(t, in.Operands, 2)
}

func TestDisassembleUndefinedOpcodeFallsBackToDCW(t *testing.T) {
	b := mem.NewBus(0)
	load(b, 0x1000, 0xa000) // reserved A-line opcode
	in := Disassemble(b, 0x1000, true)
	assert.Equal(t, "DC.W", in.Mnemonic)
	assert.Equal(t, uint32(2), in.Length)
}

func TestDisassembleRangeStopsAtBoundary(t *testing.T) {
	b := mem.NewBus(0)
	load(b, 0x1000, 0x70ff, 0x7001) // MOVEQ #-1,D0 ; MOVEQ #1,D0
	out := DisassembleRange(b, 0x1000, 0x1004, true)
	assert.Len(t, out, 2)
	assert.Equal(t, uint32(0x1000), out[0].Address)
	assert.Equal(t, uint32(0x1002), out[1].Address)
}

func TestAssembleMoveqRoundTrips(t *testing.T) {
	words, ok := Assemble(Instruction{
		Mnemonic: "MOVEQ",
		Operands: []cpu.Operand{cpu.DataReg(0), cpu.ImmediateOperand(cpu.Byte, 0xff)},
	})
	assert.True(t, ok)
	assert.Equal(t, []uint16{0x70ff}, words)
}

func TestAssembleAddEaToDnRoundTrips(t *testing.T) {
	b := mem.NewBus(0)
	load(b, 0x1000, 0xd041) // ADD.W D1,D0
	in := Disassemble(b, 0x1000, true)
	words, ok := Assemble(Instruction{Mnemonic: in.Mnemonic, Size: in.Size, Operands: in.Operands})
	assert.True(t, ok)
	assert.Equal(t, []uint16{0xd041}, words)
}

func TestAssembleBsrByteRoundTrips(t *testing.T) {
	b := mem.NewBus(0)
	load(b, 0x1000, 0x6102) // BSR.S *+4
	in := Disassemble(b, 0x1000, true)
	words, ok := Assemble(Instruction{Mnemonic: in.Mnemonic, Size: in.Size, Operands: in.Operands})
	assert.True(t, ok)
	assert.Equal(t, []uint16{0x6102}, words)
}

func TestAssembleMovemRegToMemRoundTrips(t *testing.T) {
	b := mem.NewBus(0)
	load(b, 0x1000, 0x48e7, 0xc000) // MOVEM.L D0/D1,-(A7)
	in := Disassemble(b, 0x1000, true)
	words, ok := Assemble(Instruction{Mnemonic: in.Mnemonic, Size: in.Size, Operands: in.Operands})
	assert.True(t, ok)
	assert.Equal(t, []uint16{0x48e7, 0xc000}, words)
}

func TestAssembleExgRoundTrips(t *testing.T) {
	b := mem.NewBus(0)
	load(b, 0x1000, 0xc389) // EXG D1,A1
	in := Disassemble(b, 0x1000, true)
	words, ok := Assemble(Instruction{Mnemonic: in.Mnemonic, Size: in.Size, Operands: in.Operands})
	assert.True(t, ok)
	assert.Equal(t, []uint16{0xc389}, words)
}

func TestAssembleUnknownMnemonicFails(t *testing.T) {
	_, ok := Assemble(Instruction{Mnemonic: "NOTANOPCODE"})
	assert.False(t, ok)
}
