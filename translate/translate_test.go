package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sicxe-toolchain/sicxe-asm/frame"
	"github.com/sicxe-toolchain/sicxe-asm/symtab"
)

func resolveLines(t *testing.T, lines []string) symtab.Result {
	t.Helper()
	var frames []frame.Frame
	for i, l := range lines {
		f, ok, err := frame.FromLine(frame.Position{Line: i + 1}, l)
		require.NoError(t, err)
		require.True(t, ok)
		frames = append(frames, f)
	}
	res, err := symtab.Resolve(frames)
	require.NoError(t, err)
	return res
}

func TestTranslateSimplePCRelative(t *testing.T) {
	res := resolveLines(t, []string{
		"PROG START 0",
		"FIRST LDA BUFFER",
		"BUFFER RESW 1",
		"END FIRST",
	})

	out, err := Translate(res)
	require.NoError(t, err)
	require.Len(t, out.Texts, 1)

	data := out.Texts[0].Data
	require.Len(t, data, 3)
	// LDA at locctr 0, BUFFER at 3: disp = 3 - 3 = 0, nixbpe n=1 i=1 p=1.
	assert.Equal(t, byte(0x03), data[0]) // opcode 0x00 | n=1,i=1 -> 0b11 in top bits
	assert.Equal(t, byte(0x20), data[1]) // p flag set, disp high nibble 0
	assert.Equal(t, byte(0x00), data[2])
}

func TestTranslateFormat4(t *testing.T) {
	res := resolveLines(t, []string{
		"PROG START 0",
		"FIRST +LDA BUFFER",
		"BUFFER RESW 1",
		"END FIRST",
	})

	out, err := Translate(res)
	require.NoError(t, err)
	require.Len(t, out.Texts, 1)
	assert.Len(t, out.Texts[0].Data, 4)

	// start == 0, addressing is simple (not immediate), and BUFFER is an
	// internal label: the absolute address field itself needs relocating.
	require.Len(t, out.Mods, 1)
	assert.Equal(t, 1, out.Mods[0].Start)
	assert.Equal(t, 5, out.Mods[0].Length)
	assert.Equal(t, "+PROG", out.Mods[0].Symbol)
}

func TestTranslateFormat4NoModificationWhenStartNonzero(t *testing.T) {
	res := resolveLines(t, []string{
		"PROG START 1000",
		"FIRST +LDA BUFFER",
		"BUFFER RESW 1",
		"END FIRST",
	})

	out, err := Translate(res)
	require.NoError(t, err)
	assert.Empty(t, out.Mods)
}

func TestTranslateFormat4ImmediateSkipsModification(t *testing.T) {
	res := resolveLines(t, []string{
		"PROG START 0",
		"FIRST +LDA #5",
		"END FIRST",
	})

	out, err := Translate(res)
	require.NoError(t, err)
	assert.Empty(t, out.Mods)
}

func TestTranslateImmediateNumeric(t *testing.T) {
	res := resolveLines(t, []string{
		"PROG START 0",
		"FIRST LDA #5",
		"END FIRST",
	})

	out, err := Translate(res)
	require.NoError(t, err)
	data := out.Texts[0].Data
	// low 12 bits of displacement carry the literal value directly.
	assert.Equal(t, byte(0x00), data[1]&0x0F)
	assert.Equal(t, byte(0x05), data[2])
}

func TestTranslateRSUBFixedEncoding(t *testing.T) {
	res := resolveLines(t, []string{
		"PROG START 0",
		"FIRST RSUB",
		"END FIRST",
	})

	out, err := Translate(res)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x4F, 0x00, 0x00}, out.Texts[0].Data)
}

func TestTranslateBaseRelativeWhenOutOfPCRange(t *testing.T) {
	res := resolveLines(t, []string{
		"PROG START 0",
		"BASE FAR",
		"FIRST LDA FAR",
		"RESB 3000",
		"FAR RESW 1",
		"END FIRST",
	})

	out, err := Translate(res)
	require.NoError(t, err)
	require.NotEmpty(t, out.Texts)

	var instrData []byte
	for _, tr := range out.Texts {
		if tr.Start == 0 {
			instrData = tr.Data
		}
	}
	require.Len(t, instrData, 3)
	assert.NotZero(t, instrData[1]&0x40) // b flag
}

func TestTranslateExternalOperandEmitsModification(t *testing.T) {
	res := resolveLines(t, []string{
		"PROG START 0",
		"EXTREF RDREC",
		"FIRST +JSUB RDREC",
		"END FIRST",
	})

	out, err := Translate(res)
	require.NoError(t, err)
	require.Len(t, out.Mods, 1)
	assert.Equal(t, "+RDREC", out.Mods[0].Symbol)
	assert.Equal(t, 5, out.Mods[0].Length)
}

func TestTranslateHeaderLength(t *testing.T) {
	res := resolveLines(t, []string{
		"PROG START 0",
		"FIRST RSUB",
		"BUFFER RESW 2",
		"END FIRST",
	})

	out, err := Translate(res)
	require.NoError(t, err)
	assert.Equal(t, "PROG", out.Header.Name)
	assert.Equal(t, 0, out.Header.Start)
	assert.Equal(t, 9, out.Header.Length)
}
