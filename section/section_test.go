package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sicxe-toolchain/sicxe-asm/frame"
)

func mustFrame(t *testing.T, line string, lineNo int) frame.Frame {
	t.Helper()
	f, ok, err := frame.FromLine(frame.Position{Line: lineNo}, line)
	require.NoError(t, err)
	require.True(t, ok)
	return f
}

func TestSplitNoSubroutines(t *testing.T) {
	lines := []string{
		"PROG START 0",
		"FIRST LDA BUFFER",
		"BUFFER RESW 1",
		"END FIRST",
	}
	var frames []frame.Frame
	for i, l := range lines {
		frames = append(frames, mustFrame(t, l, i+1))
	}

	programs, err := Split(frames)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Len(t, programs[0], 4)
}

func TestSplitExtractsSubroutine(t *testing.T) {
	lines := []string{
		"PROG START 0",
		"FIRST LDA BUFFER",
		"BUFFER RESW 1",
		"SUB CSECT",
		"ENTRY RSUB",
		"END FIRST",
	}
	var frames []frame.Frame
	for i, l := range lines {
		frames = append(frames, mustFrame(t, l, i+1))
	}

	programs, err := Split(frames)
	require.NoError(t, err)
	require.Len(t, programs, 2)

	sub := programs[1]
	assert.Equal(t, "SUB", sub[0].Label)
	_, isStart := sub[0].Body.(frame.Start)
	assert.True(t, isStart)

	last := sub[len(sub)-1]
	end, ok := last.Body.(frame.End)
	require.True(t, ok)
	assert.True(t, end.HasFirst)
	assert.Equal(t, []string{"SUB"}, end.First.Deps())
}

func TestSplitDropsEmptyCsect(t *testing.T) {
	lines := []string{
		"PROG START 0",
		"EMPTY CSECT",
		"SUB CSECT",
		"ENTRY RSUB",
		"END PROG",
	}
	var frames []frame.Frame
	for i, l := range lines {
		frames = append(frames, mustFrame(t, l, i+1))
	}

	programs, err := Split(frames)
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, "SUB", programs[1][0].Label)
}
