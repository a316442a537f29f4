// Package objfmt renders a section's translated records into the final
// fixed-width object program text: it merges contiguous Text fragments into
// records of at most 30 data bytes, packs Define records at most six to a
// line and Refer records at most twelve to a line, and orders everything as
// Header, Refer, Define, Text, Modification, End.
package objfmt

import (
	"fmt"
	"strings"

	"github.com/sicxe-toolchain/sicxe-asm/frame"
	"github.com/sicxe-toolchain/sicxe-asm/translate"
)

const (
	maxTextBytes   = 30
	maxDefinesLine = 6
	maxRefersLine  = 12
)

// Format renders one section's object program as newline-terminated record
// lines.
func Format(out translate.Output, defines []frame.DefineRecord, refers []frame.ReferRecord) string {
	var sb strings.Builder

	sb.WriteString(out.Header.String())
	sb.WriteByte('\n')

	for _, line := range packRefers(refers) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, line := range packDefines(defines) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, t := range mergeText(out.Texts) {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	for _, m := range out.Mods {
		sb.WriteString(m.String())
		sb.WriteByte('\n')
	}

	sb.WriteString(out.End.String())
	sb.WriteByte('\n')

	return sb.String()
}

func packRefers(refers []frame.ReferRecord) []string {
	var lines []string
	for i := 0; i < len(refers); i += maxRefersLine {
		end := i + maxRefersLine
		if end > len(refers) {
			end = len(refers)
		}
		var sb strings.Builder
		sb.WriteByte('R')
		for _, r := range refers[i:end] {
			fmt.Fprintf(&sb, "%-6s", truncate(r.Name))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func packDefines(defines []frame.DefineRecord) []string {
	var lines []string
	for i := 0; i < len(defines); i += maxDefinesLine {
		end := i + maxDefinesLine
		if end > len(defines) {
			end = len(defines)
		}
		var sb strings.Builder
		sb.WriteByte('D')
		for _, d := range defines[i:end] {
			fmt.Fprintf(&sb, "%-6s%06X", truncate(d.Name), d.Value)
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// mergeText coalesces adjacent, contiguous text fragments up to the 30-byte
// limit a single T record can carry.
func mergeText(texts []frame.TextRecord) []frame.TextRecord {
	var merged []frame.TextRecord
	for _, t := range texts {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			contiguous := last.Start+len(last.Data) == t.Start
			if contiguous && len(last.Data)+len(t.Data) <= maxTextBytes {
				last.Data = append(last.Data, t.Data...)
				continue
			}
		}
		data := make([]byte, len(t.Data))
		copy(data, t.Data)
		merged = append(merged, frame.TextRecord{Start: t.Start, Data: data})
	}
	return splitOversized(merged)
}

// splitOversized chops any fragment longer than the record limit (a single
// BYTE frame can carry more than 30 bytes) into legal pieces rather than
// emitting an invalid record.
func splitOversized(texts []frame.TextRecord) []frame.TextRecord {
	var result []frame.TextRecord
	for _, t := range texts {
		if len(t.Data) <= maxTextBytes {
			result = append(result, t)
			continue
		}
		for offset := 0; offset < len(t.Data); offset += maxTextBytes {
			end := offset + maxTextBytes
			if end > len(t.Data) {
				end = len(t.Data)
			}
			result = append(result, frame.TextRecord{Start: t.Start + offset, Data: t.Data[offset:end]})
		}
	}
	return result
}

func truncate(name string) string {
	if len(name) > 6 {
		return name[:6]
	}
	return name
}
