package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstructionFormat1(t *testing.T) {
	instr, ok, err := ParseInstruction("FIX", "", false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, instr.Format)
	assert.Equal(t, byte(0xC4), instr.Opcode)
	size, known := instr.Size()
	assert.True(t, known)
	assert.Equal(t, 1, size)
}

func TestParseInstructionFormat1RejectsOperand(t *testing.T) {
	_, ok, err := ParseInstruction("FIX", "A", true)
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestParseInstructionFormat2TwoRegisters(t *testing.T) {
	instr, ok, err := ParseInstruction("COMPR", "A,B", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, instr.Format)
	// Register names stay symbol operands until symtab resolves them.
	assert.Equal(t, []string{"A"}, instr.Reg1.Deps())
	assert.Equal(t, []string{"B"}, instr.Reg2.Deps())
}

func TestParseInstructionFormat2OneRegister(t *testing.T) {
	instr, ok, err := ParseInstruction("CLEAR", "X", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"X"}, instr.Reg1.Deps())
	r2, ok := instr.Reg2.Eval()
	require.True(t, ok)
	assert.Equal(t, 0, r2)
}

func TestParseInstructionFormat3Simple(t *testing.T) {
	instr, ok, err := ParseInstruction("LDA", "BUFFER", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, FlagN|FlagI, instr.Nixbpe&(FlagN|FlagI))
	assert.False(t, instr.IsFormat4())
}

func TestParseInstructionFormat3Indirect(t *testing.T) {
	instr, ok, err := ParseInstruction("LDA", "@BUFFER", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotZero(t, instr.Nixbpe&FlagN)
	assert.Zero(t, instr.Nixbpe&FlagI)
}

func TestParseInstructionFormat3ImmediateNumeric(t *testing.T) {
	instr, ok, err := ParseInstruction("LDA", "#5", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, instr.ImmediateNumeric)
	assert.Zero(t, instr.Nixbpe&FlagN)
	assert.NotZero(t, instr.Nixbpe&FlagI)
}

func TestParseInstructionFormat3ImmediateSymbolic(t *testing.T) {
	instr, ok, err := ParseInstruction("LDA", "#BUFFER", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, instr.ImmediateNumeric)
}

func TestParseInstructionFormat4(t *testing.T) {
	instr, ok, err := ParseInstruction("+LDA", "BUFFER", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, instr.IsFormat4())
	size, known := instr.Size()
	assert.True(t, known)
	assert.Equal(t, 4, size)
}

func TestParseInstructionIndexed(t *testing.T) {
	instr, ok, err := ParseInstruction("LDA", "BUFFER,X", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotZero(t, instr.Nixbpe&FlagX)
}

func TestParseInstructionRSUB(t *testing.T) {
	instr, ok, err := ParseInstruction("RSUB", "", false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byte(0x4C), instr.Opcode)
}

func TestParseInstructionUnknownMnemonic(t *testing.T) {
	_, ok, err := ParseInstruction("NOTANOP", "X", true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseInstructionWrongRegisterCount(t *testing.T) {
	_, ok, err := ParseInstruction("ADDR", "A", true)
	assert.True(t, ok)
	assert.Error(t, err)
}
