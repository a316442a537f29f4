// Package xref builds a cross-reference report for a section: where every
// label is defined, and every frame that names it as an operand. It is
// pure reporting, run optionally after a successful assembly; it never
// changes the object program.
package xref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sicxe-toolchain/sicxe-asm/frame"
	"github.com/sicxe-toolchain/sicxe-asm/symtab"
)

// ReferenceKind classifies why a frame names a symbol.
type ReferenceKind int

const (
	RefOperand ReferenceKind = iota
	RefExtdef
	RefExtref
	RefEqu
)

func (k ReferenceKind) String() string {
	switch k {
	case RefExtdef:
		return "extdef"
	case RefExtref:
		return "extref"
	case RefEqu:
		return "equ"
	default:
		return "operand"
	}
}

// Reference is one frame's mention of a symbol.
type Reference struct {
	Kind ReferenceKind
	Pos  frame.Position
	Text string
}

// Symbol collects a label's definition site, resolved value, and every
// place it is referenced.
type Symbol struct {
	Name       string
	Value      int
	HasValue   bool
	Definition frame.Position
	HasDef     bool
	References []Reference
}

// Report is one section's complete cross-reference table, keyed by symbol
// name.
type Report struct {
	Symbols map[string]*Symbol
}

func newReport() *Report {
	return &Report{Symbols: map[string]*Symbol{}}
}

func (r *Report) symbol(name string) *Symbol {
	s, ok := r.Symbols[name]
	if !ok {
		s = &Symbol{Name: name}
		r.Symbols[name] = s
	}
	return s
}

// Build walks a section's frames (as given to symtab.Resolve, i.e. after
// literal-pool dumping but before symbol substitution) and its resolved
// symtab.Result to produce a cross-reference report.
func Build(program []frame.Frame, resolved symtab.Result) *Report {
	report := newReport()

	for _, f := range program {
		pos := sourcePos(f)

		if f.HasLabel {
			if _, isEqu := f.Body.(frame.Equ); !isEqu {
				s := report.symbol(f.Label)
				s.Definition, s.HasDef = pos, true
			}
		}

		switch body := f.Body.(type) {
		case frame.Equ:
			s := report.symbol(f.Label)
			s.Definition, s.HasDef = pos, true
			for _, dep := range body.Value.Deps() {
				report.symbol(dep).References = append(report.symbol(dep).References,
					Reference{Kind: RefEqu, Pos: pos, Text: f.String()})
			}

		case frame.Extdef:
			for _, name := range body.Names {
				report.symbol(name).References = append(report.symbol(name).References,
					Reference{Kind: RefExtdef, Pos: pos, Text: f.String()})
			}

		case frame.Extref:
			for _, name := range body.Names {
				report.symbol(name).References = append(report.symbol(name).References,
					Reference{Kind: RefExtref, Pos: pos, Text: f.String()})
			}

		case frame.Instruction:
			for _, expr := range body.Expressions() {
				for _, dep := range expr.Deps() {
					if isRegister(dep) {
						continue
					}
					report.symbol(dep).References = append(report.symbol(dep).References,
						Reference{Kind: RefOperand, Pos: pos, Text: f.String()})
				}
			}

		case frame.Word:
			for _, dep := range body.Value.Deps() {
				report.symbol(dep).References = append(report.symbol(dep).References,
					Reference{Kind: RefOperand, Pos: pos, Text: f.String()})
			}
		}
	}

	for name, v := range resolved.Symbols {
		s := report.symbol(name)
		s.Value, s.HasValue = v, true
	}

	return report
}

func isRegister(name string) bool {
	switch name {
	case "A", "X", "L", "B", "S", "T", "F", "PC", "SW":
		return true
	}
	return false
}

func sourcePos(f frame.Frame) frame.Position {
	if si, ok := f.OriginalSource(); ok {
		return si.Pos
	}
	return frame.Position{}
}

// String renders the report as a plain-text table, sorted by symbol name.
func (r *Report) String() string {
	names := make([]string, 0, len(r.Symbols))
	for name := range r.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		s := r.Symbols[name]
		if s.HasValue {
			fmt.Fprintf(&sb, "%-10s %06X", s.Name, s.Value)
		} else {
			fmt.Fprintf(&sb, "%-10s %-6s", s.Name, "(ext)")
		}
		if s.HasDef {
			fmt.Fprintf(&sb, "  defined %s", s.Definition)
		}
		sb.WriteByte('\n')
		for _, ref := range s.References {
			fmt.Fprintf(&sb, "    %s at %s: %s\n", ref.Kind, ref.Pos, strings.TrimSpace(ref.Text))
		}
	}
	return sb.String()
}
