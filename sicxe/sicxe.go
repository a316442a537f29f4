// Package sicxe ties the six-stage frame pipeline together: tokenize,
// split into control sections, rearrange program blocks, dump literal
// pools, resolve symbols, and translate to object records. Sections are
// independent of one another once split, so they are processed
// concurrently; once all have finished, any failure aborts the whole
// assembly with the error of the earliest failing section in source order.
package sicxe

import (
	"strings"
	"sync"

	"github.com/sicxe-toolchain/sicxe-asm/block"
	"github.com/sicxe-toolchain/sicxe-asm/frame"
	"github.com/sicxe-toolchain/sicxe-asm/literal"
	"github.com/sicxe-toolchain/sicxe-asm/objfmt"
	"github.com/sicxe-toolchain/sicxe-asm/section"
	"github.com/sicxe-toolchain/sicxe-asm/symtab"
	"github.com/sicxe-toolchain/sicxe-asm/translate"
	"github.com/sicxe-toolchain/sicxe-asm/xref"
)

// SectionResult is everything one control section produced: its rendered
// object program text, its resolved symbol table, and its cross-reference
// report, for tools (the CLI's --xref and --browse flags) that want more
// than the concatenated object program.
type SectionResult struct {
	Object   string
	Resolved symtab.Result
	Xref     *xref.Report
}

// Assemble runs the full pipeline over source text and returns the
// assembled object program as text-format H/D/R/T/M/E records, one section
// after another in source order.
func Assemble(filename, source string) (string, error) {
	sections, err := AssembleSections(filename, source)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, s := range sections {
		sb.WriteString(s.Object)
	}
	return sb.String(), nil
}

// AssembleSections runs the pipeline and returns each section's full
// result, preserving source order.
func AssembleSections(filename, source string) ([]SectionResult, error) {
	frames, err := tokenizeAll(filename, source)
	if err != nil {
		return nil, err
	}

	programs, err := section.Split(frames)
	if err != nil {
		return nil, err
	}

	results := make([]SectionResult, len(programs))
	errs := make([]error, len(programs))

	var wg sync.WaitGroup
	for i, program := range programs {
		wg.Add(1)
		go func(i int, program []frame.Frame) {
			defer wg.Done()
			res, err := assembleSection(program)
			results[i] = res
			errs[i] = err
		}(i, program)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func assembleSection(program []frame.Frame) (SectionResult, error) {
	rearranged, err := block.Rearrange(program)
	if err != nil {
		return SectionResult{}, err
	}

	dumped, err := literal.Dump(rearranged)
	if err != nil {
		return SectionResult{}, err
	}

	resolved, err := symtab.Resolve(dumped)
	if err != nil {
		return SectionResult{}, err
	}

	out, err := translate.Translate(resolved)
	if err != nil {
		return SectionResult{}, err
	}

	return SectionResult{
		Object:   objfmt.Format(out, resolved.Defines, resolved.Refers),
		Resolved: resolved,
		Xref:     xref.Build(dumped, resolved),
	}, nil
}

func tokenizeAll(filename, source string) ([]frame.Frame, error) {
	var frames []frame.Frame
	for i, line := range strings.Split(source, "\n") {
		pos := frame.Position{Filename: filename, Line: i + 1}
		f, ok, err := frame.FromLine(pos, line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		frames = append(frames, f)
	}
	return frames, nil
}
