// Package block rearranges a control section's frames by program block: all
// USE-tagged frames are regrouped so that every block's bytes are
// contiguous, in the order each block name was first mentioned, after the
// section's EXTDEF/EXTREF declarations and before its trailing END.
package block

import "github.com/sicxe-toolchain/sicxe-asm/frame"

// Rearrange reorders a single section's frames. program must already start
// with a START frame and end with an END frame (the shape section.Split
// guarantees); everything in between is redistributed.
func Rearrange(program []frame.Frame) ([]frame.Frame, error) {
	if len(program) < 2 {
		return program, nil
	}

	start := program[0]
	end := program[len(program)-1]
	middle := program[1 : len(program)-1]

	var extdefs, extrefs []frame.Frame
	var rearrangable []frame.Frame
	for _, f := range middle {
		switch f.Body.(type) {
		case frame.Extdef:
			extdefs = append(extdefs, f)
		case frame.Extref:
			extrefs = append(extrefs, f)
		default:
			rearrangable = append(rearrangable, f)
		}
	}

	blocks := map[string][]frame.Frame{}
	var order []string
	seen := map[string]bool{}
	current := frame.DefaultBlockName

	for _, f := range rearrangable {
		if use, ok := f.Body.(frame.Use); ok {
			current = use.Block
			continue
		}
		if !seen[current] {
			seen[current] = true
			order = append(order, current)
		}
		blocks[current] = append(blocks[current], f)
	}

	result := make([]frame.Frame, 0, len(program))
	result = append(result, start)
	result = append(result, extdefs...)
	result = append(result, extrefs...)
	for _, name := range order {
		result = append(result, blocks[name]...)
	}
	result = append(result, end)

	return result, nil
}
