package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusSharesOneMemoryAcrossSpaces(t *testing.T) {
	b := NewBus(0x01020304)
	pattern := uint32(0xAAAA7777)
	addr := uint32(128)

	b.WriteLong(SupervisorData, addr, pattern)

	assert.Equal(t, pattern, b.ReadLong(SupervisorData, addr))
	assert.Equal(t, pattern, b.ReadLong(SupervisorProgram, addr))
	assert.Equal(t, pattern, b.ReadLong(UserData, addr))
	assert.Equal(t, pattern, b.ReadLong(UserProgram, addr))
}

func TestBusLogsOperationsWhenEnabled(t *testing.T) {
	b := NewBus(0x01020304)
	b.Logging = true

	b.ReadByte(SupervisorData, 0x80)
	assert.Len(t, b.Log, 1)
	assert.Equal(t, Operation{Kind: OpReadByte, Space: SupervisorData, Address: 0x80, Value: 0x01}, b.Log[0])

	b.ClearLog()
	assert.Empty(t, b.Log)
}

func TestBusDoesNotLogByDefault(t *testing.T) {
	b := NewBus(0x01020304)
	b.ReadLong(UserData, 0x80)
	assert.Empty(t, b.Log)
}

func TestFunctionCodes(t *testing.T) {
	assert.Equal(t, uint8(1), UserData.FunctionCode())
	assert.Equal(t, uint8(2), UserProgram.FunctionCode())
	assert.Equal(t, uint8(5), SupervisorData.FunctionCode())
	assert.Equal(t, uint8(6), SupervisorProgram.FunctionCode())
}
