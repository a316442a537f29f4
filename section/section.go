// Package section splits a single tokenized frame stream into one frame
// list per control section. A CSECT directive opens a new section; the one
// END directive in the source always belongs to the outermost (first)
// section, and every other section gets a synthetic END referencing its own
// start label once splitting is done.
package section

import (
	"github.com/sicxe-toolchain/sicxe-asm/frame"
)

// Split partitions frames into control sections. The first section in the
// result is the program's main section (everything before the first CSECT,
// plus the trailing END); subsequent sections are named subroutines in the
// order their CSECT directive appeared. A CSECT that opens a section with no
// body before the next CSECT (or end of input) contributes nothing and is
// dropped.
func Split(frames []frame.Frame) ([][]frame.Frame, error) {
	main := []frame.Frame{}
	var subroutines [][]frame.Frame
	var cur []frame.Frame // nil while we're still in main

	closeCurrent := func() {
		if cur == nil {
			return
		}
		if len(cur) > 1 {
			subroutines = append(subroutines, cur)
		}
		cur = nil
	}

	for _, f := range frames {
		switch f.Body.(type) {
		case frame.Csect:
			closeCurrent()
			cur = []frame.Frame{frame.Synthesize(f.Label, f.HasLabel, frame.Start{})}
		case frame.End:
			main = append(main, f)
		default:
			if cur != nil {
				cur = append(cur, f)
			} else {
				main = append(main, f)
			}
		}
	}
	closeCurrent()

	programs := [][]frame.Frame{main}
	for _, sub := range subroutines {
		label := sub[0].Label
		operand, _ := frame.ParseOperand(label)
		end := frame.Synthesize("", false, frame.End{
			First:    frame.Unsolved(operand, frame.OpNone, nil),
			HasFirst: true,
		})
		sub = append(sub, end)
		programs = append(programs, sub)
	}

	return programs, nil
}
