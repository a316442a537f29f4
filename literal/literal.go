// Package literal materializes literal pools (operands written as
// =C'...' or =X'...') into ordinary BYTE frames, replacing each reference
// with a synthesized label and dumping the pool's bytes at the next LTORG,
// or just before END for any literals still pooled there.
package literal

import (
	"fmt"

	"github.com/sicxe-toolchain/sicxe-asm/frame"
)

type poolEntry struct {
	label string
	body  string
}

// Dump walks one section's frames and resolves every literal operand.
func Dump(program []frame.Frame) ([]frame.Frame, error) {
	result := make([]frame.Frame, 0, len(program))
	var pool []poolEntry
	seen := map[string]string{}
	counter := 0

	dumpPool := func() ([]frame.Frame, error) {
		frames := make([]frame.Frame, 0, len(pool))
		for _, e := range pool {
			data, err := frame.LiteralToData(e.body)
			if err != nil {
				return nil, err
			}
			frames = append(frames, frame.Synthesize(e.label, true, frame.Byte{Data: data}))
		}
		pool = nil
		seen = map[string]string{}
		return frames, nil
	}

	for _, f := range program {
		switch f.Body.(type) {
		case frame.Ltorg:
			dumped, err := dumpPool()
			if err != nil {
				return nil, err
			}
			result = append(result, dumped...)
			continue
		case frame.End:
			dumped, err := dumpPool()
			if err != nil {
				return nil, err
			}
			result = append(result, dumped...)
			result = append(result, f)
			continue
		}

		if instr, ok := f.Body.(frame.Instruction); ok && instr.Format == 3 && instr.Operand.IsLiteral() {
			body := instr.Operand.LiteralBody()
			label, ok := seen[body]
			if !ok {
				label = fmt.Sprintf("_L%04X", counter)
				counter++
				seen[body] = label
				pool = append(pool, poolEntry{label: label, body: body})
			}
			symbol, _ := frame.ParseOperand(label)
			instr.Operand = frame.Unsolved(symbol, frame.OpNone, nil)
			result = append(result, f.Derive(instr))
			continue
		}

		result = append(result, f)
	}

	return result, nil
}
