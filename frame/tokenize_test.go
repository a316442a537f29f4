package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLineBlankAndComment(t *testing.T) {
	_, ok, err := FromLine(Position{Line: 1}, "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = FromLine(Position{Line: 2}, "   . this is a comment")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFromLineThreeTokens(t *testing.T) {
	f, ok, err := FromLine(Position{Line: 1}, "LOOP LDA BUFFER")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, f.HasLabel)
	assert.Equal(t, "LOOP", f.Label)
	instr, ok := f.Body.(Instruction)
	require.True(t, ok)
	assert.Equal(t, byte(0x00), instr.Opcode)
}

func TestFromLineTwoTokensOperatorOperand(t *testing.T) {
	f, ok, err := FromLine(Position{Line: 1}, "LDA BUFFER")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, f.HasLabel)
	_, ok = f.Body.(Instruction)
	assert.True(t, ok)
}

func TestFromLineTwoTokensLabelOperator(t *testing.T) {
	f, ok, err := FromLine(Position{Line: 1}, "AGAIN RSUB")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, f.HasLabel)
	assert.Equal(t, "AGAIN", f.Label)
	instr, ok := f.Body.(Instruction)
	require.True(t, ok)
	assert.Equal(t, byte(0x4C), instr.Opcode)
}

func TestFromLineOneToken(t *testing.T) {
	f, ok, err := FromLine(Position{Line: 1}, "RSUB")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, f.HasLabel)
}

func TestFromLineUnknownOperator(t *testing.T) {
	_, _, err := FromLine(Position{Line: 1}, "NOTAREALOP THING")
	assert.Error(t, err)
}

func TestFromLineTooManyTokens(t *testing.T) {
	_, _, err := FromLine(Position{Line: 1}, "A B C D")
	assert.Error(t, err)
}

func TestFromLineByteLiteralKeepsEmbeddedSpace(t *testing.T) {
	f, ok, err := FromLine(Position{Line: 1}, "MSG BYTE C'HELLO WORLD'")
	require.NoError(t, err)
	require.True(t, ok)
	b, ok := f.Body.(Byte)
	require.True(t, ok)
	assert.Equal(t, []byte("HELLO WORLD"), b.Data)
}

func TestFromLineCommentAfterInstructionIsStripped(t *testing.T) {
	f, ok, err := FromLine(Position{Line: 1}, "LDA BUFFER . load the buffer")
	require.NoError(t, err)
	require.True(t, ok)
	instr := f.Body.(Instruction)
	assert.Equal(t, byte(0x00), instr.Opcode)
}

func TestTokenizeEscapedQuoteStaysInsideLiteral(t *testing.T) {
	tokens, err := tokenize(`MYVAR WORD C'IT\'S A STRING'`)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, `C'IT\'S A STRING'`, tokens[2])
}

func TestTokenizeUnterminatedLiteralErrors(t *testing.T) {
	_, err := tokenize("MSG BYTE C'HELLO")
	assert.Error(t, err)
}

func TestFromLineUnterminatedLiteralIsLexicalError(t *testing.T) {
	_, _, err := FromLine(Position{Line: 1}, "MSG BYTE C'HELLO")
	require.Error(t, err)
	fe, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrorLexical, fe.Kind)
}
