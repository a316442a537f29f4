package frame

import (
	"fmt"
	"strings"
)

// Nixbpe flag bits, ordered n,i,x,b,p,e from the high bit of the 6-bit
// field downward, matching the wire layout of a format-3/4 instruction.
const (
	FlagN byte = 0b100000
	FlagI byte = 0b010000
	FlagX byte = 0b001000
	FlagB byte = 0b000100
	FlagP byte = 0b000010
	FlagE byte = 0b000001
)

// Instruction is the tagged variant from spec.md §3: Format1 (opcode only),
// Format2 (opcode + two register operands), or Format3/4 (opcode + nixbpe +
// one operand expression).
type Instruction struct {
	Format  int // 1, 2, or 3 (format 4 is Format3 with FlagE set)
	Opcode  byte
	Reg1    Expression // Format2
	Reg2    Expression // Format2
	Nixbpe  byte        // Format3/4
	Operand Expression  // Format3/4

	// ImmediateNumeric is true when an immediate operand (#...) was written
	// as a bare number (#5) rather than a symbol (#LABEL). A numeric
	// immediate packs directly into the displacement field; a symbolic one
	// needs PC/base-relative address arithmetic like any other operand.
	ImmediateNumeric bool
}

func (i Instruction) Size() (int, bool) {
	switch i.Format {
	case 1:
		return 1, true
	case 2:
		return 2, true
	default:
		if i.Nixbpe&FlagE != 0 {
			return 4, true
		}
		return 3, true
	}
}

func (i Instruction) IsFormat4() bool { return i.Format == 3 && i.Nixbpe&FlagE != 0 }

func (i Instruction) Expressions() []Expression {
	switch i.Format {
	case 2:
		return []Expression{i.Reg1, i.Reg2}
	case 3:
		return []Expression{i.Operand}
	default:
		return nil
	}
}

func (i Instruction) String() string {
	switch i.Format {
	case 1:
		return fmt.Sprintf("op: 0x%02X", i.Opcode)
	case 2:
		return fmt.Sprintf("op: 0x%02X, r1: %s, r2: %s", i.Opcode, i.Reg1, i.Reg2)
	default:
		return fmt.Sprintf("op: 0x%02X, nixbpe: 0b%06b, operand: %s", i.Opcode, i.Nixbpe, i.Operand)
	}
}

// format1Opcodes, format2Opcodes, and format3Opcodes are the fixed mnemonic
// tables from spec.md §6.
var format1Opcodes = map[string]byte{
	"FIX": 0xC4, "FLOAT": 0xC0, "HIO": 0xF4, "NORM": 0xC8, "SIO": 0xF0, "TIO": 0xF8,
}

var format2Opcodes = map[string]byte{
	"ADDR": 0x90, "CLEAR": 0xB4, "COMPR": 0xA0, "DIVR": 0x9C, "MULR": 0x98,
	"RMO": 0xAC, "SHIFTL": 0xA4, "SHIFTR": 0xA8, "SUBR": 0x94, "TIXR": 0xB8,
}

var format3Opcodes = map[string]byte{
	"ADD": 0x18, "AND": 0x40, "COMP": 0x28, "DIV": 0x24, "J": 0x3C,
	"JEQ": 0x30, "JGT": 0x34, "JLT": 0x38, "JSUB": 0x48, "LDA": 0x00,
	"LDCH": 0x50, "LDL": 0x08, "LDX": 0x04, "MUL": 0x20, "OR": 0x44,
	"RD": 0xD8, "RSUB": 0x4C, "STA": 0x0C, "STCH": 0x54, "STL": 0x14,
	"STX": 0x10, "SUB": 0x1C, "TD": 0xE0, "TIX": 0x2C, "WD": 0xDC,
	"LDB": 0x68, "LDS": 0x6C, "LDT": 0x74, "STB": 0x78, "STS": 0x7C, "STT": 0x84,
}

// oneRegisterMnemonics take a single register operand; all other format-2
// mnemonics take two.
var oneRegisterMnemonics = map[string]bool{"CLEAR": true, "TIXR": true}

// ParseInstruction attempts to parse operator/operand as an instruction. It
// returns (zero, false, nil) when the operator is not an instruction
// mnemonic at all, letting the caller fall through to Directive parsing.
func ParseInstruction(operator string, operand string, hasOperand bool) (Instruction, bool, error) {
	isFormat4 := strings.HasPrefix(operator, "+")
	operator = strings.TrimPrefix(operator, "+")
	upper := strings.ToUpper(operator)

	if opcode, ok := format1Opcodes[upper]; ok {
		if hasOperand {
			return Instruction{}, true, fmt.Errorf("%s takes no operand", upper)
		}
		return Instruction{Format: 1, Opcode: opcode}, true, nil
	}
	if opcode, ok := format2Opcodes[upper]; ok {
		return parseFormat2(opcode, upper, operand, hasOperand)
	}
	if opcode, ok := format3Opcodes[upper]; ok {
		return parseFormat34(opcode, upper, operand, hasOperand, isFormat4)
	}
	return Instruction{}, false, nil
}

func parseFormat2(opcode byte, mnemonic, operand string, hasOperand bool) (Instruction, bool, error) {
	if !hasOperand {
		return Instruction{}, true, fmt.Errorf("missing operand for %s", mnemonic)
	}
	parts := strings.Split(operand, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var reg1, reg2 string
	if oneRegisterMnemonics[mnemonic] {
		if len(parts) != 1 {
			return Instruction{}, true, fmt.Errorf("%s takes exactly one register operand", mnemonic)
		}
		reg1, reg2 = parts[0], "0"
	} else {
		if len(parts) != 2 {
			return Instruction{}, true, fmt.Errorf("%s takes exactly two register operands", mnemonic)
		}
		reg1, reg2 = parts[0], parts[1]
	}

	r1, err := ParseExpression(reg1)
	if err != nil {
		return Instruction{}, true, fmt.Errorf("invalid register operand %q: %w", reg1, err)
	}
	r2, err := ParseExpression(reg2)
	if err != nil {
		return Instruction{}, true, fmt.Errorf("invalid register operand %q: %w", reg2, err)
	}

	return Instruction{Format: 2, Opcode: opcode, Reg1: r1, Reg2: r2}, true, nil
}

func parseFormat34(opcode byte, mnemonic, operand string, hasOperand, isFormat4 bool) (Instruction, bool, error) {
	if mnemonic == "RSUB" {
		if hasOperand {
			return Instruction{}, true, fmt.Errorf("RSUB takes no operand")
		}
		operand, hasOperand = "0", true
	} else if !hasOperand {
		return Instruction{}, true, fmt.Errorf("missing operand for %s", mnemonic)
	}

	isIndirect := strings.HasPrefix(operand, "@")
	isImmediate := strings.HasPrefix(operand, "#")
	isIndexed := strings.HasSuffix(operand, ",X")

	body := strings.TrimPrefix(operand, "@")
	body = strings.TrimPrefix(body, "#")
	body = strings.TrimSuffix(body, ",X")

	var nixbpe byte
	if isFormat4 {
		nixbpe |= FlagE
	}
	if isIndexed {
		nixbpe |= FlagX
	}
	switch {
	case isIndirect:
		nixbpe |= FlagN
	case isImmediate:
		nixbpe |= FlagI
	default:
		nixbpe |= FlagN | FlagI
	}

	expr, err := ParseExpression(body)
	if err != nil {
		return Instruction{}, true, fmt.Errorf("invalid operand %q for %s: %w", operand, mnemonic, err)
	}

	numeric := isImmediate && isNumericBody(body)

	return Instruction{
		Format: 3, Opcode: opcode, Nixbpe: nixbpe, Operand: expr,
		ImmediateNumeric: numeric,
	}, true, nil
}

// isNumericBody reports whether an immediate operand's body starts with a
// decimal digit, i.e. the operand begins with `#` immediately followed by a
// digit. A leading `-` does not count: #-5 is a symbol-style immediate, not
// a numeric one.
func isNumericBody(body string) bool {
	return body != "" && body[0] >= '0' && body[0] <= '9'
}
