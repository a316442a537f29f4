package frame

// FrameBody is the payload a Frame carries: an Instruction, a Directive, or
// an ObjectRecord. Object records only ever appear in frames produced by the
// translate pass; every earlier pass treats seeing one as an internal error.
type FrameBody interface {
	// Size reports the frame's width in bytes once known. A directive whose
	// operand expression is still unresolved (e.g. RESW *-START) has no
	// known size yet, hence the bool.
	Size() (int, bool)
	String() string
}

// ProvenanceKind distinguishes the two shapes a provenance entry can take.
type ProvenanceKind int

const (
	ProvenanceSource ProvenanceKind = iota
	ProvenanceParent
)

// Provenance is one link in a frame's append-only history. A frame built
// directly from source carries a single ProvenanceSource entry; a frame
// built by a later pass from an earlier frame carries a ProvenanceParent
// entry pointing at it. Entries are never mutated or removed, only added by
// constructing a new Frame.
type Provenance struct {
	Kind   ProvenanceKind
	Pos    Position
	Text   string
	Parent *Frame
}

// SourceInfo is the original source location and text a frame ultimately
// descends from, found by walking its provenance chain.
type SourceInfo struct {
	Pos  Position
	Text string
}

// Frame is the uniform unit the pipeline threads through its six passes: an
// optional label, a body, and a provenance chain recording where it came
// from. Frames are never mutated in place; every pass that wants to change
// one constructs a new Frame that records the old one as its parent.
type Frame struct {
	Label    string
	HasLabel bool
	Body     FrameBody
	prov     []Provenance
}

// NewSourceFrame builds a frame whose provenance is a single original source
// line.
func NewSourceFrame(pos Position, text string, label string, hasLabel bool, body FrameBody) Frame {
	return Frame{
		Label:    label,
		HasLabel: hasLabel,
		Body:     body,
		prov:     []Provenance{{Kind: ProvenanceSource, Pos: pos, Text: text}},
	}
}

// Derive builds a new frame from an existing one, replacing its body and
// keeping its label, while recording the old frame as a parent in the
// provenance chain.
func (f Frame) Derive(body FrameBody) Frame {
	parent := f
	return Frame{
		Label:    f.Label,
		HasLabel: f.HasLabel,
		Body:     body,
		prov:     []Provenance{{Kind: ProvenanceParent, Parent: &parent}},
	}
}

// DeriveWithLabel is Derive but also replaces the label, for a pass that
// builds a frame carrying a different label than the frame it came from.
func (f Frame) DeriveWithLabel(label string, hasLabel bool, body FrameBody) Frame {
	d := f.Derive(body)
	d.Label = label
	d.HasLabel = hasLabel
	return d
}

// Synthesize builds a frame with no source provenance at all, used for
// frames the pipeline manufactures out of whole cloth (a CSECT's synthetic
// leading START, a literal pool's BYTE frames).
func Synthesize(label string, hasLabel bool, body FrameBody) Frame {
	return Frame{Label: label, HasLabel: hasLabel, Body: body}
}

func (f Frame) Size() (int, bool) {
	if f.Body == nil {
		return 0, true
	}
	return f.Body.Size()
}

func (f Frame) String() string {
	if f.Body == nil {
		return ""
	}
	if f.HasLabel {
		return f.Label + ": " + f.Body.String()
	}
	return f.Body.String()
}

// OriginalSource walks the provenance chain to find the earliest source
// line this frame descends from. A wholly synthetic frame (built via
// Synthesize, with no ancestor that ever touched source text) has none.
func (f Frame) OriginalSource() (SourceInfo, bool) {
	for _, p := range f.prov {
		switch p.Kind {
		case ProvenanceSource:
			return SourceInfo{Pos: p.Pos, Text: p.Text}, true
		case ProvenanceParent:
			if p.Parent != nil {
				if si, ok := p.Parent.OriginalSource(); ok {
					return si, true
				}
			}
		}
	}
	return SourceInfo{}, false
}
