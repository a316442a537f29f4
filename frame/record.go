package frame

import (
	"fmt"
	"strings"
)

// ObjectRecord variants are produced only by the translate pass. Every
// earlier pass treats encountering one as an internal error: it means a
// pass ran frames through translate before the pipeline reached that stage.
type HeaderRecord struct {
	Name   string
	Start  int
	Length int
}

func (h HeaderRecord) Size() (int, bool) { return 0, true }
func (h HeaderRecord) String() string {
	return fmt.Sprintf("H%-6s%06X%06X", truncName(h.Name), h.Start, h.Length)
}

type DefineRecord struct {
	Name  string
	Value int
}

func (d DefineRecord) Size() (int, bool) { return 0, true }
func (d DefineRecord) String() string {
	return fmt.Sprintf("D%-6s%06X", truncName(d.Name), d.Value)
}

type ReferRecord struct {
	Name string
}

func (r ReferRecord) Size() (int, bool) { return 0, true }
func (r ReferRecord) String() string    { return fmt.Sprintf("R%-6s", truncName(r.Name)) }

type TextRecord struct {
	Start int
	Data  []byte
}

func (t TextRecord) Size() (int, bool) { return len(t.Data), true }
func (t TextRecord) String() string {
	return fmt.Sprintf("T%06X%02X%s", t.Start, len(t.Data), hexBytes(t.Data))
}

// ModificationRecord patches a half-byte-granularity field at Start with the
// value of Symbol (an external symbol, or the section's own name for a
// format-4 relocation entry; sign-prefixed: "+NAME" to add, "-NAME" to
// subtract).
type ModificationRecord struct {
	Start  int
	Length int
	Symbol string
}

func (m ModificationRecord) Size() (int, bool) { return 0, true }
func (m ModificationRecord) String() string {
	return fmt.Sprintf("M%06X%02X%s", m.Start, m.Length, m.Symbol)
}

type EndRecord struct {
	FirstAddress int
	HasFirst     bool
}

func (e EndRecord) Size() (int, bool) { return 0, true }
func (e EndRecord) String() string {
	if !e.HasFirst {
		return "E"
	}
	return fmt.Sprintf("E%06X", e.FirstAddress)
}

func truncName(name string) string {
	if len(name) > 6 {
		return name[:6]
	}
	return name
}

func hexBytes(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data) * 2)
	for _, b := range data {
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
