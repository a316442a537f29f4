// Package translate walks a section's fully resolved frame stream and
// produces its object records: a Header, one Text record per frame that
// assembles to bytes (objfmt merges contiguous ones), a Modification record for every field that still
// depends on an external symbol, and the End record. PC-relative addressing
// is always tried before base-relative; an operand that fits neither range
// is an error.
package translate

import (
	"fmt"

	"github.com/sicxe-toolchain/sicxe-asm/frame"
	"github.com/sicxe-toolchain/sicxe-asm/symtab"
)

// Output is one section's translated records, not yet merged or formatted
// by objfmt.
type Output struct {
	Header frame.HeaderRecord
	Texts  []frame.TextRecord
	Mods   []frame.ModificationRecord
	End    frame.EndRecord
}

func Translate(res symtab.Result) (Output, error) {
	var out Output
	var start, locctr int
	haveLocctr := false
	var base int
	haveBase := false

	emit := func(addr int, data []byte) {
		if len(data) == 0 {
			return
		}
		out.Texts = append(out.Texts, frame.TextRecord{Start: addr, Data: data})
	}

	for _, f := range res.Frames {
		pos := framePos(f)

		switch body := f.Body.(type) {
		case frame.Start:
			addr := 0
			if body.HasAddress {
				v, ok := body.Address.Eval()
				if !ok {
					return out, frame.NewError(pos, frame.ErrorSemantic, "START address must be a constant")
				}
				addr = v
			}
			start, locctr = addr, addr
			haveLocctr = true
			out.Header = frame.HeaderRecord{Name: f.Label, Start: start}

		case frame.Org:
			v, ok := body.Address.Eval()
			if !ok {
				return out, frame.NewError(pos, frame.ErrorSemantic, "ORG target could not be resolved")
			}
			locctr, haveLocctr = v, true

		case frame.Base:
			v, ok := body.Address.Eval()
			if !ok {
				return out, frame.NewError(pos, frame.ErrorSemantic, "BASE operand could not be resolved")
			}
			base, haveBase = v, true

		case frame.Nobase:
			haveBase = false

		case frame.End:
			out.End.HasFirst = body.HasFirst
			if body.HasFirst {
				v, ok := body.First.Eval()
				if !ok {
					return out, frame.NewError(pos, frame.ErrorSemantic, "END operand could not be resolved")
				}
				out.End.FirstAddress = v
			}

		case frame.Instruction:
			if !haveLocctr {
				return out, frame.NewError(pos, frame.ErrorInternal, "location counter undefined during translation")
			}
			data, mods, err := translateInstruction(body, locctr, base, haveBase, start, out.Header.Name)
			if err != nil {
				return out, frame.NewError(pos, frame.ErrorSemantic, err.Error())
			}
			emit(locctr, data)
			out.Mods = append(out.Mods, mods...)

		case frame.Byte:
			emit(locctr, body.Data)

		case frame.Word:
			if !haveLocctr {
				return out, frame.NewError(pos, frame.ErrorInternal, "location counter undefined during translation")
			}
			v, mods, err := resolveWithModifications(body.Value, locctr)
			if err != nil {
				return out, frame.NewError(pos, frame.ErrorSemantic, err.Error())
			}
			emit(locctr, pack24(v))
			out.Mods = append(out.Mods, mods...)
		}

		if size, ok := f.Size(); ok {
			locctr += size
		} else {
			haveLocctr = false
		}
	}

	out.Header.Length = locctr - start
	return out, nil
}

func translateInstruction(instr frame.Instruction, locctr, base int, haveBase bool, start int, progName string) ([]byte, []frame.ModificationRecord, error) {
	switch instr.Format {
	case 1:
		return []byte{instr.Opcode}, nil, nil

	case 2:
		r1, _ := instr.Reg1.Eval()
		r2, _ := instr.Reg2.Eval()
		return []byte{instr.Opcode, byte(r1<<4 | r2&0x0F)}, nil, nil

	default:
		if instr.Opcode == 0x4C { // RSUB: always the fixed 3-byte encoding
			return []byte{0x4F, 0x00, 0x00}, nil, nil
		}

		length := 3
		if instr.IsFormat4() {
			length = 5
		}
		value, mods, err := resolveWithModificationsAt(instr.Operand, locctr, locctr+1, length)
		if err != nil {
			return nil, nil, err
		}

		nixbpe := instr.Nixbpe
		isImmediate := nixbpe&frame.FlagI != 0 && nixbpe&frame.FlagN == 0
		if instr.IsFormat4() {
			data := packFormat4(instr.Opcode, nixbpe, value)
			if start == 0 && !isImmediate && len(mods) == 0 {
				mods = append(mods, frame.ModificationRecord{Start: locctr + 1, Length: 5, Symbol: "+" + progName})
			}
			return data, mods, nil
		}
		var disp int
		switch {
		case isImmediate && instr.ImmediateNumeric:
			disp = value
			if disp < -2048 || disp > 4095 {
				return nil, nil, fmt.Errorf("immediate operand %d out of range", value)
			}
		default:
			pc := locctr + 3
			disp = value - pc
			if disp >= -2048 && disp <= 2047 {
				nixbpe |= frame.FlagP
			} else if haveBase {
				disp = value - base
				if disp < 0 || disp > 4095 {
					return nil, nil, fmt.Errorf("operand %d out of base-relative range", value)
				}
				nixbpe |= frame.FlagB
			} else {
				return nil, nil, fmt.Errorf("operand %d out of range", value)
			}
		}
		return packFormat3(instr.Opcode, nixbpe, disp), mods, nil
	}
}

// resolveWithModifications evaluates expr; if it depends on an external
// symbol, it emits a length-6 modification record (a WORD is always 24
// bits) and returns a best-effort placeholder value so encoding can proceed.
func resolveWithModifications(expr frame.Expression, locctr int) (int, []frame.ModificationRecord, error) {
	return resolveWithModificationsAt(expr, locctr, locctr, 6)
}

// resolveWithModificationsAt evaluates expr, which may still carry a
// locctr placeholder left over from an upstream pass that failed to
// substitute it (symtab.Resolve already does so for every instruction and
// WORD operand it walks; this is a defensive fallback, not the primary
// path). locctr is the address of the frame this operand belongs to.
func resolveWithModificationsAt(expr frame.Expression, locctr, modStart, length int) (int, []frame.ModificationRecord, error) {
	if v, ok := expr.Eval(); ok {
		return v, nil, nil
	}
	if !expr.IsUnsolved() {
		return 0, nil, fmt.Errorf("operand could not be resolved")
	}

	var mods []frame.ModificationRecord
	left := expr.Left()
	leftVal := 0
	switch left.Kind {
	case frame.OperandSymbol:
		mods = append(mods, frame.ModificationRecord{Start: modStart, Length: length, Symbol: "+" + left.Symbol})
	case frame.OperandValue:
		leftVal = left.Value
	case frame.OperandLocctr:
		leftVal = locctr
	}

	rightVal := 0
	op := expr.Op()
	if right := expr.Right(); right != nil {
		switch right.Kind {
		case frame.OperandSymbol:
			sign := "+"
			if op == frame.OpSubtract {
				sign = "-"
			}
			mods = append(mods, frame.ModificationRecord{Start: modStart, Length: length, Symbol: sign + right.Symbol})
			if op == frame.OpMultiply || op == frame.OpDivide {
				rightVal = 1
			}
		case frame.OperandValue:
			rightVal = right.Value
		case frame.OperandLocctr:
			rightVal = locctr
		}
	}

	if len(mods) == 0 {
		return 0, nil, fmt.Errorf("operand could not be resolved")
	}

	var value int
	switch op {
	case frame.OpAdd:
		value = leftVal + rightVal
	case frame.OpSubtract:
		value = leftVal - rightVal
	case frame.OpMultiply:
		value = leftVal * rightVal
	case frame.OpDivide:
		if rightVal == 0 {
			rightVal = 1
		}
		value = leftVal / rightVal
	default:
		value = leftVal
	}
	return value, mods, nil
}

func packFormat3(opcode, nixbpe byte, disp int) []byte {
	b0 := (opcode & 0xFC) | (nixbpe >> 4)
	b1 := (nixbpe&0x0F)<<4 | byte((disp>>8)&0x0F)
	b2 := byte(disp & 0xFF)
	return []byte{b0, b1, b2}
}

func packFormat4(opcode, nixbpe byte, value int) []byte {
	b0 := (opcode & 0xFC) | (nixbpe >> 4)
	b1 := (nixbpe&0x0F)<<4 | byte((value>>16)&0x0F)
	b2 := byte((value >> 8) & 0xFF)
	b3 := byte(value & 0xFF)
	return []byte{b0, b1, b2, b3}
}

func pack24(v int) []byte {
	return []byte{byte((v >> 16) & 0xFF), byte((v >> 8) & 0xFF), byte(v & 0xFF)}
}

func framePos(f frame.Frame) frame.Position {
	if si, ok := f.OriginalSource(); ok {
		return si.Pos
	}
	return frame.Position{}
}
