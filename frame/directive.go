package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultBlockName is the program block a byte belongs to when no USE
// directive has named one yet.
const DefaultBlockName = ""

// Start is the control section's opening directive. Its label is the
// section name; the operand, if given, fixes the starting address and is
// read as hexadecimal.
type Start struct {
	Address   Expression
	HasAddress bool
}

func (s Start) Size() (int, bool) { return 0, true }
func (s Start) String() string {
	if s.HasAddress {
		return "START " + s.Address.String()
	}
	return "START"
}

// End names the first executable instruction. With no operand, the section's
// End record carries no address.
type End struct {
	First    Expression
	HasFirst bool
}

func (e End) Size() (int, bool) { return 0, true }
func (e End) String() string {
	if e.HasFirst {
		return "END " + e.First.String()
	}
	return "END"
}

// Byte holds data already decoded from a C'...' or X'...' literal at parse
// time, so its size is always known.
type Byte struct {
	Data []byte
}

func (b Byte) Size() (int, bool) { return len(b.Data), true }
func (b Byte) String() string    { return fmt.Sprintf("BYTE (%d bytes)", len(b.Data)) }

// Word is a single 3-byte constant, possibly still an unresolved expression.
type Word struct {
	Value Expression
}

func (w Word) Size() (int, bool) { return 3, true }
func (w Word) String() string    { return "WORD " + w.Value.String() }

// Resb reserves a byte-granularity block; its size is unknown until its
// count expression resolves.
type Resb struct {
	Count Expression
}

func (r Resb) Size() (int, bool) {
	v, ok := r.Count.Eval()
	if !ok {
		return 0, false
	}
	return v, true
}
func (r Resb) String() string { return "RESB " + r.Count.String() }

// Resw reserves a word-granularity block (3 bytes per word).
type Resw struct {
	Count Expression
}

func (r Resw) Size() (int, bool) {
	v, ok := r.Count.Eval()
	if !ok {
		return 0, false
	}
	return v * 3, true
}
func (r Resw) String() string { return "RESW " + r.Count.String() }

// Org resets the location counter for the frames that follow. Its own
// frame occupies no space.
type Org struct {
	Address Expression
}

func (o Org) Size() (int, bool) { return 0, true }
func (o Org) String() string    { return "ORG " + o.Address.String() }

// Base records the base register's value for base-relative addressing.
type Base struct {
	Address Expression
}

func (b Base) Size() (int, bool) { return 0, true }
func (b Base) String() string    { return "BASE " + b.Address.String() }

// Nobase clears a previously set Base.
type Nobase struct{}

func (n Nobase) Size() (int, bool) { return 0, true }
func (n Nobase) String() string    { return "NOBASE" }

// Equ binds its label to a computed value rather than the location counter.
type Equ struct {
	Value Expression
}

func (e Equ) Size() (int, bool) { return 0, true }
func (e Equ) String() string    { return "EQU " + e.Value.String() }

// Ltorg forces the literal pool accumulated so far to be dumped at this
// point instead of waiting for END.
type Ltorg struct{}

func (l Ltorg) Size() (int, bool) { return 0, true }
func (l Ltorg) String() string    { return "LTORG" }

// Use switches the current program block; an empty name switches back to
// the default block.
type Use struct {
	Block string
}

func (u Use) Size() (int, bool) { return 0, true }
func (u Use) String() string {
	if u.Block == DefaultBlockName {
		return "USE"
	}
	return "USE " + u.Block
}

// Csect opens a new control section named by the frame's label.
type Csect struct{}

func (c Csect) Size() (int, bool) { return 0, true }
func (c Csect) String() string    { return "CSECT" }

// Extref declares symbols defined in another control section.
type Extref struct {
	Names []string
}

func (e Extref) Size() (int, bool) { return 0, true }
func (e Extref) String() string    { return "EXTREF " + strings.Join(e.Names, ",") }

// Extdef exports symbols defined in this control section for use by others.
type Extdef struct {
	Names []string
}

func (e Extdef) Size() (int, bool) { return 0, true }
func (e Extdef) String() string    { return "EXTDEF " + strings.Join(e.Names, ",") }

var noOperandDirectives = map[string]bool{
	"NOBASE": true, "LTORG": true, "CSECT": true,
}

// ParseDirective attempts to parse operator/operand as a directive. Like
// ParseInstruction, it returns (nil, false, nil) when the operator names
// neither, so the caller can report "unknown operator" itself.
func ParseDirective(operator, operand string, hasOperand bool) (FrameBody, bool, error) {
	upper := strings.ToUpper(operator)
	switch upper {
	case "START":
		if !hasOperand {
			return Start{}, true, nil
		}
		addr, err := strconv.ParseUint(operand, 16, 32)
		if err != nil {
			return nil, true, fmt.Errorf("invalid START address %q: %w", operand, err)
		}
		return Start{Address: Resolved(int(addr)), HasAddress: true}, true, nil

	case "END":
		if !hasOperand {
			return End{}, true, nil
		}
		first, err := ParseExpression(operand)
		if err != nil {
			return nil, true, fmt.Errorf("invalid END operand %q: %w", operand, err)
		}
		return End{First: first, HasFirst: true}, true, nil

	case "BYTE":
		if !hasOperand {
			return nil, true, fmt.Errorf("BYTE requires an operand")
		}
		data, err := literalToData(operand)
		if err != nil {
			return nil, true, err
		}
		return Byte{Data: data}, true, nil

	case "WORD":
		if !hasOperand {
			return nil, true, fmt.Errorf("WORD requires an operand")
		}
		v, err := ParseExpression(operand)
		if err != nil {
			return nil, true, fmt.Errorf("invalid WORD operand %q: %w", operand, err)
		}
		return Word{Value: v}, true, nil

	case "RESB":
		if !hasOperand {
			return nil, true, fmt.Errorf("RESB requires an operand")
		}
		v, err := ParseExpression(operand)
		if err != nil {
			return nil, true, fmt.Errorf("invalid RESB operand %q: %w", operand, err)
		}
		return Resb{Count: v}, true, nil

	case "RESW":
		if !hasOperand {
			return nil, true, fmt.Errorf("RESW requires an operand")
		}
		v, err := ParseExpression(operand)
		if err != nil {
			return nil, true, fmt.Errorf("invalid RESW operand %q: %w", operand, err)
		}
		return Resw{Count: v}, true, nil

	case "ORG":
		if !hasOperand {
			return Org{Address: Resolved(0)}, true, nil
		}
		v, err := ParseExpression(operand)
		if err != nil {
			return nil, true, fmt.Errorf("invalid ORG operand %q: %w", operand, err)
		}
		return Org{Address: v}, true, nil

	case "BASE":
		if !hasOperand {
			return nil, true, fmt.Errorf("BASE requires an operand")
		}
		v, err := ParseExpression(operand)
		if err != nil {
			return nil, true, fmt.Errorf("invalid BASE operand %q: %w", operand, err)
		}
		return Base{Address: v}, true, nil

	case "NOBASE":
		if hasOperand {
			return nil, true, fmt.Errorf("NOBASE takes no operand")
		}
		return Nobase{}, true, nil

	case "EQU":
		if !hasOperand {
			return nil, true, fmt.Errorf("EQU requires an operand")
		}
		v, err := ParseExpression(operand)
		if err != nil {
			return nil, true, fmt.Errorf("invalid EQU operand %q: %w", operand, err)
		}
		return Equ{Value: v}, true, nil

	case "LTORG":
		if hasOperand {
			return nil, true, fmt.Errorf("LTORG takes no operand")
		}
		return Ltorg{}, true, nil

	case "USE":
		if !hasOperand {
			return Use{Block: DefaultBlockName}, true, nil
		}
		return Use{Block: operand}, true, nil

	case "CSECT":
		if hasOperand {
			return nil, true, fmt.Errorf("CSECT takes no operand")
		}
		return Csect{}, true, nil

	case "EXTREF":
		if !hasOperand {
			return nil, true, fmt.Errorf("EXTREF requires at least one symbol")
		}
		return Extref{Names: splitNames(operand)}, true, nil

	case "EXTDEF":
		if !hasOperand {
			return nil, true, fmt.Errorf("EXTDEF requires at least one symbol")
		}
		return Extdef{Names: splitNames(operand)}, true, nil
	}

	_ = noOperandDirectives
	return nil, false, nil
}

func splitNames(operand string) []string {
	parts := strings.Split(operand, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, strings.TrimSpace(p))
	}
	return names
}

// LiteralToData decodes a BYTE-style operand (used directly for BYTE
// directives, and by the literal pool dumper for the body of a `=C'...'` or
// `=X'...'` literal once it is materialized into a BYTE frame).
func LiteralToData(operand string) ([]byte, error) {
	return literalToData(operand)
}

// literalToData decodes a BYTE operand written as C'...' (raw ASCII bytes)
// or X'...' (hex digit pairs, odd digit counts padded with a leading zero
// nibble).
func literalToData(operand string) ([]byte, error) {
	if len(operand) < 3 || operand[1] != '\'' || operand[len(operand)-1] != '\'' {
		return nil, fmt.Errorf("malformed BYTE literal %q", operand)
	}
	body := operand[2 : len(operand)-1]
	switch operand[0] {
	case 'C', 'c':
		return []byte(body), nil
	case 'X', 'x':
		if len(body)%2 != 0 {
			body = "0" + body
		}
		data := make([]byte, len(body)/2)
		for i := 0; i < len(data); i++ {
			v, err := strconv.ParseUint(body[i*2:i*2+2], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex literal %q: %w", operand, err)
			}
			data[i] = byte(v)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown BYTE literal prefix in %q", operand)
	}
}
