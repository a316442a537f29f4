package block

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

func bodyLabels(t *testing.T, frames []frame.Frame) []string {
	t.Helper()
	var labels []string
	for _, f := range frames {
		labels = append(labels, f.Label)
	}
	return labels
}

func TestRearrangeGroupsByBlock(t *testing.T) {
	lines := []string{
		"PROG START 0",
		"FIRST LDA BUFFER",
		"USE CDATA",
		"CONST WORD 5",
		"USE",
		"SECOND STA BUFFER",
		"USE CDATA",
		"OTHER WORD 9",
		"USE",
		"BUFFER RESW 1",
		"END FIRST",
	}
	var frames []frame.Frame
	for i, l := range lines {
		frames = append(frames, mustFrame(t, l, i+1))
	}

	out, err := Rearrange(frames)
	require.NoError(t, err)

	labels := bodyLabels(t, out)
	// start, default block (FIRST, SECOND, BUFFER), CDATA block (CONST, OTHER), end
	assert.Equal(t, []string{"PROG", "FIRST", "SECOND", "BUFFER", "CONST", "OTHER", ""}, labels)
}

func TestRearrangeOrdersExtdefBeforeExtref(t *testing.T) {
	lines := []string{
		"PROG START 0",
		"EXTREF RDREC,WRREC",
		"FIRST LDA BUFFER",
		"EXTDEF BUFFER",
		"BUFFER RESW 1",
		"END FIRST",
	}
	var frames []frame.Frame
	for i, l := range lines {
		frames = append(frames, mustFrame(t, l, i+1))
	}

	out, err := Rearrange(frames)
	require.NoError(t, err)

	_, isExtdef := out[1].Body.(frame.Extdef)
	assert.True(t, isExtdef)
	_, isExtref := out[2].Body.(frame.Extref)
	assert.True(t, isExtref)
}

func TestRearrangeShortProgramPassesThrough(t *testing.T) {
	lines := []string{"PROG START 0"}
	var frames []frame.Frame
	for i, l := range lines {
		frames = append(frames, mustFrame(t, l, i+1))
	}
	out, err := Rearrange(frames)
	require.NoError(t, err)
	assert.Equal(t, frames, out)
}
