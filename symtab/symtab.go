// Package symtab resolves every symbol in a section: it tracks the location
// counter across ORG/START boundaries, binds each label (or EQU value) to
// an expression, and repeatedly narrows every still-unsolved expression
// against the growing symbol table until a full sweep makes no further
// progress. EXTDEF and EXTREF declarations are converted into Define and
// Refer records; EQU frames are absorbed into the table and dropped.
package symtab

import (
	"fmt"

	"github.com/sicxe-toolchain/sicxe-asm/frame"
)

var registers = map[string]int{
	"A": 0, "X": 1, "L": 2, "B": 3, "S": 4, "T": 5, "F": 6, "PC": 8, "SW": 9,
}

// Result is one section's fully resolved output, ready for translate.
type Result struct {
	Frames  []frame.Frame
	Defines []frame.DefineRecord
	Refers  []frame.ReferRecord

	// Symbols holds every user-defined label's final resolved value (not
	// registers, not still-unresolved externals), for tools that report on
	// a section rather than translate it, like xref and the browser.
	Symbols map[string]int
}

func Resolve(program []frame.Frame) (Result, error) {
	table := map[string]frame.Expression{}
	for name, v := range registers {
		table[name] = frame.Resolved(v)
	}
	defined := map[string]bool{} // user labels only, for duplicate detection

	for _, f := range program {
		if extref, ok := f.Body.(frame.Extref); ok {
			for _, name := range extref.Names {
				table[name] = frame.ExternalExpr()
			}
		}
	}

	lookup := func(name string) (int, bool) {
		e, ok := table[name]
		if !ok {
			return 0, false
		}
		return e.Eval()
	}

	resolveFixedPoint := func() {
		for {
			changed := false
			for name, e := range table {
				if !e.IsUnsolved() {
					continue
				}
				n := e.Substitute(lookup)
				if n.IsResolved() {
					table[name] = n
					changed = true
				}
			}
			if !changed {
				return
			}
		}
	}

	start := 0
	var locctr *int

	bindLabel := func(f frame.Frame, value frame.Expression) error {
		if !f.HasLabel {
			return nil
		}
		if defined[f.Label] {
			return frame.NewError(pos(f), frame.ErrorSemantic,
				fmt.Sprintf("symbol %q already defined", f.Label)).WithProvenance(&f)
		}
		defined[f.Label] = true
		table[f.Label] = value
		return nil
	}

	// bindLocctrLabel binds a plain (non-EQU) labeled frame to the current
	// location counter; used by every frame kind that doesn't bind its own
	// label specially (START, EQU).
	bindLocctrLabel := func(f frame.Frame) error {
		if !f.HasLabel {
			return nil
		}
		if locctr == nil {
			return frame.NewError(pos(f), frame.ErrorSemantic,
				fmt.Sprintf("label %q defined while location counter is undefined", f.Label)).WithProvenance(&f)
		}
		return bindLabel(f, frame.Resolved(*locctr))
	}

	// resolved mirrors program, but with `*` locctr placeholders in
	// instruction and WORD operands replaced by the concrete address they
	// had when that frame was walked; finalize operates on this copy so the
	// placeholder survives into translate as an ordinary value operand
	// instead of silently evaluating to 0.
	resolved := make([]frame.Frame, len(program))
	copy(resolved, program)

	for i, f := range program {
		switch body := f.Body.(type) {
		case frame.Start:
			addr := 0
			if body.HasAddress {
				v, ok := body.Address.Eval()
				if !ok {
					return Result{}, frame.NewError(pos(f), frame.ErrorSemantic,
						"START address must be a constant").WithProvenance(&f)
				}
				addr = v
			}
			start = addr
			locctr = &addr
			if err := bindLabel(f, frame.Resolved(addr)); err != nil {
				return Result{}, err
			}

		case frame.Org:
			addr := body.Address
			if locctr != nil {
				addr, _ = substituteLocctrOperand(addr, *locctr)
			}
			v, ok := addr.Substitute(lookup).Eval()
			if !ok {
				return Result{}, frame.NewError(pos(f), frame.ErrorSemantic,
					"ORG target could not be resolved").WithProvenance(&f)
			}
			locctr = &v

		case frame.Equ:
			value := body.Value
			if locctr != nil {
				value, _ = substituteLocctrOperand(value, *locctr)
			}
			if err := bindLabel(f, value); err != nil {
				return Result{}, err
			}

		case frame.Instruction:
			if locctr != nil {
				if operand, changed := substituteLocctrOperand(body.Operand, *locctr); changed {
					body.Operand = operand
					resolved[i] = f.Derive(body)
				}
			}
			if err := bindLocctrLabel(f); err != nil {
				return Result{}, err
			}

		case frame.Word:
			if locctr != nil {
				if value, changed := substituteLocctrOperand(body.Value, *locctr); changed {
					body.Value = value
					resolved[i] = f.Derive(body)
				}
			}
			if err := bindLocctrLabel(f); err != nil {
				return Result{}, err
			}

		default:
			if err := bindLocctrLabel(f); err != nil {
				return Result{}, err
			}
		}

		resolveFixedPoint()

		if size, ok := f.Size(); ok && locctr != nil {
			*locctr += size
		} else if !ok {
			locctr = nil
		}
	}

	result, err := finalize(resolved, table, start)
	if err != nil {
		return Result{}, err
	}

	result.Symbols = map[string]int{}
	for name := range defined {
		if v, ok := table[name].Eval(); ok {
			result.Symbols[name] = v
		}
	}
	return result, nil
}

func finalize(program []frame.Frame, table map[string]frame.Expression, start int) (Result, error) {
	lookup := func(name string) (int, bool) {
		e, ok := table[name]
		if !ok {
			return 0, false
		}
		return e.Eval()
	}

	var result Result
	for _, f := range program {
		switch body := f.Body.(type) {
		case frame.Equ:
			continue // fully absorbed into the symbol table

		case frame.Extdef:
			for _, name := range body.Names {
				v, ok := lookup(name)
				if !ok {
					return Result{}, frame.NewError(pos(f), frame.ErrorSemantic,
						fmt.Sprintf("EXTDEF symbol %q could not be resolved", name)).WithProvenance(&f)
				}
				result.Defines = append(result.Defines, frame.DefineRecord{Name: name, Value: v - start})
			}
			continue

		case frame.Extref:
			for _, name := range body.Names {
				result.Refers = append(result.Refers, frame.ReferRecord{Name: name})
			}
			continue

		case frame.Instruction:
			switch body.Format {
			case 2:
				body.Reg1 = body.Reg1.Substitute(lookup)
				body.Reg2 = body.Reg2.Substitute(lookup)
			case 3:
				body.Operand = body.Operand.Substitute(lookup)
			}
			result.Frames = append(result.Frames, f.Derive(body))
			continue

		case frame.Word:
			body.Value = body.Value.Substitute(lookup)
			result.Frames = append(result.Frames, f.Derive(body))
			continue

		case frame.Resb:
			body.Count = body.Count.Substitute(lookup)
			result.Frames = append(result.Frames, f.Derive(body))
			continue

		case frame.Resw:
			body.Count = body.Count.Substitute(lookup)
			result.Frames = append(result.Frames, f.Derive(body))
			continue

		case frame.Org:
			body.Address = body.Address.Substitute(lookup)
			result.Frames = append(result.Frames, f.Derive(body))
			continue

		case frame.Base:
			body.Address = body.Address.Substitute(lookup)
			result.Frames = append(result.Frames, f.Derive(body))
			continue

		case frame.Start:
			if body.HasAddress {
				body.Address = body.Address.Substitute(lookup)
			}
			result.Frames = append(result.Frames, f.Derive(body))
			continue

		case frame.End:
			if body.HasFirst {
				body.First = body.First.Substitute(lookup)
			}
			result.Frames = append(result.Frames, f.Derive(body))
			continue
		}

		result.Frames = append(result.Frames, f)
	}

	return result, nil
}

// substituteLocctrOperand replaces an OperandLocctr `*` placeholder on
// either side of an Unsolved expression with the current location counter,
// reporting whether it changed anything. Resolved and Literal expressions
// pass through unchanged.
func substituteLocctrOperand(expr frame.Expression, locctr int) (frame.Expression, bool) {
	if !expr.IsUnsolved() {
		return expr, false
	}
	changed := false
	if expr.Left().Kind == frame.OperandLocctr {
		expr = expr.WithLeft(frame.Operand{Kind: frame.OperandValue, Value: locctr})
		changed = true
	}
	if right := expr.Right(); right != nil && right.Kind == frame.OperandLocctr {
		expr = expr.WithRight(frame.Operand{Kind: frame.OperandValue, Value: locctr})
		changed = true
	}
	return expr, changed
}

func pos(f frame.Frame) frame.Position {
	if si, ok := f.OriginalSource(); ok {
		return si.Pos
	}
	return frame.Position{}
}
