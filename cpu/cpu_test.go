package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"m68k/mem"
)

func newTestCPU() *CPU {
	b := mem.NewBus(0)
	c := NewCPU(b)
	c.SetSP(0x2000)
	return c
}

func load(c *CPU, addr uint32, words ...uint16) {
	for i, w := range words {
		c.Bus.WriteWord(c.ProgramSpace(), addr+uint32(i*2), uint32(w))
	}
}

func TestMoveqSetsDataRegisterAndFlags(t *testing.T) {
	c := newTestCPU()
	load(c, 0x1000, 0x70ff) // MOVEQ #-1,D0
	c.Jump(0x1000)
	c.Step()
	assert.Equal(t, uint32(0xffffffff), c.D(0))
	assert.NotZero(t, c.NFlag)
	assert.NotZero(t, c.NotZFlag) // MOVEQ #-1 is nonzero, so Z is clear
}

func TestMoveWordDataRegisterToDataRegister(t *testing.T) {
	c := newTestCPU()
	c.SetD(1, 0x12340056)
	load(c, 0x1000, 0x3201) // MOVE.W D1,D1... (dest via mode0 reg1 trivial)
	c.Jump(0x1000)
	c.Step()
	assert.Equal(t, uint32(0x12340056), c.D(1))
}

func TestAddByteSetsCarryOnWraparound(t *testing.T) {
	c := newTestCPU()
	c.SetD(0, 0x000000ff)
	c.SetD(1, 0x00000002)
	// ADD.B D1,D0 : 1101 000 000 000 001
	load(c, 0x1000, 0xd001)
	c.Jump(0x1000)
	c.Step()
	assert.Equal(t, uint32(0x00000001), c.D(0)&0xff)
	assert.NotZero(t, c.CFlag)
	assert.NotZero(t, c.XFlag)
}

func TestSubxZFlagIsStickyAcrossAChainedSubtraction(t *testing.T) {
	c := newTestCPU()
	c.NotZFlag = 0 // Z set, as if a prior SubX on a higher byte produced zero
	c.SubX(Byte, 5, 5)
	assert.Zero(t, c.NotZFlag, "SubX leaves Z set when this chunk is also zero")

	c.NotZFlag = 0
	c.SubX(Byte, 5, 3)
	assert.NotZero(t, c.NotZFlag, "SubX clears Z when this chunk is nonzero")
}

func TestAbcdAddsTwoBCDDigits(t *testing.T) {
	c := newTestCPU()
	res := c.Abcd(0x09, 0x01)
	assert.Equal(t, uint32(0x10), res&0xff)
}

func TestEaPredecrementAndPostincrementStepByOperandSize(t *testing.T) {
	c := newTestCPU()
	c.SetA(0, 0x3000)
	op := Predecrement(0)
	c.ReadEA(op, Long)
	assert.Equal(t, uint32(0x2ffc), c.A(0))

	c.SetA(1, 0x4000)
	op2 := Postincrement(1)
	c.ReadEA(op2, Word)
	assert.Equal(t, uint32(0x4002), c.A(1))
}

func TestLeaLoadsEffectiveAddressNotValue(t *testing.T) {
	c := newTestCPU()
	c.Bus.WriteLong(c.DataSpace(), 0x4000, 0xdeadbeef)
	// LEA ($4000).L,A0 : 0100 000 111 111 001
	load(c, 0x1000, 0x41f9, 0x0000, 0x4000)
	c.Jump(0x1000)
	c.Step()
	assert.Equal(t, uint32(0x4000), c.A(0))
}

func TestBraTakesUnconditionalShortBranch(t *testing.T) {
	c := newTestCPU()
	load(c, 0x1000, 0x6002) // BRA *+4
	c.Jump(0x1000)
	c.Step()
	assert.Equal(t, uint32(0x1004), c.PC)
}

func TestDbccLoopsUntilCounterExhausted(t *testing.T) {
	c := newTestCPU()
	c.SetD(0, 2)
	load(c, 0x1000, 0x51c8, 0xfffe) // DBF D0,*  (cc=F=false -> always loops)
	c.Jump(0x1000)
	c.Step()
	assert.Equal(t, uint32(1), c.D(0))
	assert.Equal(t, uint32(0x1000), c.PC)
	c.Step()
	assert.Equal(t, uint32(0), c.D(0))
	assert.Equal(t, uint32(0x1000), c.PC)
	c.Step() // counter wraps to -1: falls through past the extension word
	assert.Equal(t, uint32(0xffff), c.D(0))
	assert.Equal(t, uint32(0x1004), c.PC)
}

func TestStatusRegisterRoundTrips(t *testing.T) {
	c := newTestCPU()
	c.SetStatusRegister(0x2715)
	assert.Equal(t, uint32(0x2715), c.StatusRegister()&0xa71f)
}

func TestBuildTableHasNoCollisions(t *testing.T) {
	assert.NotPanics(t, func() { BuildTable() })
}

func TestIllegalOpcodeFallsThroughToIllegalRow(t *testing.T) {
	tbl := BuildTable()
	assert.Nil(t, tbl[0x4afc]) // ILLEGAL is reserved and intentionally unclaimed
}

func TestOddPCRaisesAddressErrorInsteadOfFetching(t *testing.T) {
	c := newTestCPU()
	c.Bus.WriteLong(c.ProgramSpace(), 12, 0x9000) // vector 3 handler
	load(c, 0x1000, 0x4e71)                       // NOP, never reached
	c.Jump(0x1001)
	c.Step()
	assert.Equal(t, uint32(0x9000), c.PC)
	assert.True(t, c.SFlag)
}

func TestOddEffectiveAddressRaisesAddressErrorBeforeTheAccess(t *testing.T) {
	c := newTestCPU()
	c.Bus.WriteLong(c.ProgramSpace(), 12, 0x9000) // vector 3 handler
	c.SetA(0, 0x2001)
	// MOVE.W (A0),D0 : 0011 000 000 010 000
	load(c, 0x1000, 0x3010)
	c.Jump(0x1000)
	c.Step()
	assert.Equal(t, uint32(0x9000), c.PC)
}

func TestRTEFromUserModeRaisesPrivilegeViolation(t *testing.T) {
	c := newTestCPU()
	c.Bus.WriteLong(c.ProgramSpace(), 32, 0x9100) // vector 8 handler
	c.SwitchToUser()
	c.SetSP(0x3000)
	load(c, 0x1000, 0x4e73) // RTE
	c.Jump(0x1000)
	c.Step()
	assert.Equal(t, uint32(0x9100), c.PC)
	assert.True(t, c.SFlag)
}

func TestAutoVectorControllerPicksHighestPendingLevel(t *testing.T) {
	a := NewAutoVectorController()
	a.RequestInterrupt(2)
	a.RequestInterrupt(5)
	assert.Equal(t, uint8(5), a.HighestPriority())
	vec := a.AcknowledgeInterrupt(5)
	assert.Equal(t, AutovectorBase+5, vec)
	assert.Equal(t, uint8(2), a.HighestPriority())
}
