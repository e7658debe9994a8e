package docx

import (
	"reflect"
	"strconv"

	"github.com/trkbt10/officekit/xmlnode"
)

// RunFormat is the character formatting of a WordprocessingML run (w:rPr).
// Sizes are in half-points, as stored in w:sz.
type RunFormat struct {
	Bold      *bool
	Italic    *bool
	Underline string
	Strike    *bool
	Size      *int64
	Color     string
	Highlight string
	Font      string
	VertAlign string
	StyleID   string
}

// FlowRunKind enumerates paragraph run-level children.
type FlowRunKind int

const (
	// FlowRunText is a w:r with w:t content
	FlowRunText FlowRunKind = iota
	// FlowRunBreak is a w:br (line break)
	FlowRunBreak
	// FlowRunPageBreak is a w:br w:type="page"
	FlowRunPageBreak
	// FlowRunColumnBreak is a w:br w:type="column"
	FlowRunColumnBreak
	// FlowRunTab is a w:tab
	FlowRunTab
	// FlowRunBookmark is a w:bookmarkStart / w:bookmarkEnd marker, kept
	// in place because it blocks run merging
	FlowRunBookmark
	// FlowRunOther preserves children the model does not type
	FlowRunOther
)

// FlowRun is one run-level child of a paragraph.
type FlowRun struct {
	Kind   FlowRunKind
	Text   string
	Format RunFormat

	// BookmarkName/BookmarkID identify bookmark markers.
	BookmarkName string
	BookmarkID   string

	Raw *xmlnode.Node
}

// SectionBreakKind enumerates w:sectPr w:type values.
type SectionBreakKind string

// Section break kinds.
const (
	SectionNextPage   SectionBreakKind = "nextPage"
	SectionEvenPage   SectionBreakKind = "evenPage"
	SectionOddPage    SectionBreakKind = "oddPage"
	SectionContinuous SectionBreakKind = "continuous"
	SectionNextColumn SectionBreakKind = "nextColumn"
)

// FlowHints are the paragraph-level pagination hints the page-flow engine
// consumes.
type FlowHints struct {
	BreakBefore  bool
	KeepWithNext bool
	KeepTogether bool

	// WidowControl defaults to true in Word; the pointer distinguishes
	// absent from explicitly disabled.
	WidowControl *bool

	// SectionBreakAfter is set when the paragraph carries a w:sectPr;
	// empty means no section break. When several coincide the last wins.
	SectionBreakAfter SectionBreakKind
}

// FlowParagraph is a paragraph in the flow model: formatting hints plus
// run-level children.
type FlowParagraph struct {
	StyleID string
	Hints   FlowHints
	Runs    []FlowRun
}

// ParseFlowParagraph parses a w:p element into the flow model.
func ParseFlowParagraph(n xmlnode.Node) FlowParagraph {
	p := FlowParagraph{}

	if pPr, ok := xmlnode.GetChild(n, "pPr"); ok {
		p.StyleID = childVal(pPr, "pStyle")
		p.Hints = parseFlowHints(pPr)
	}

	for _, child := range n.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		switch child.Name {
		case "pPr":
			// handled above
		case "r":
			p.Runs = append(p.Runs, parseFlowRuns(child)...)
		case "bookmarkStart":
			p.Runs = append(p.Runs, FlowRun{
				Kind:         FlowRunBookmark,
				BookmarkName: attrVal(child, "name"),
				BookmarkID:   attrVal(child, "id"),
			})
		case "bookmarkEnd":
			p.Runs = append(p.Runs, FlowRun{
				Kind:       FlowRunBookmark,
				BookmarkID: attrVal(child, "id"),
			})
		default:
			c := child
			p.Runs = append(p.Runs, FlowRun{Kind: FlowRunOther, Raw: &c})
		}
	}

	return p
}

// parseFlowRuns splits one w:r into flow runs: its text plus any embedded
// breaks/tabs, each carrying the run's format.
func parseFlowRuns(r xmlnode.Node) []FlowRun {
	format := RunFormat{}
	if rPr, ok := xmlnode.GetChild(r, "rPr"); ok {
		format = parseRunFormat(rPr)
	}

	var out []FlowRun
	for _, child := range r.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		switch child.Name {
		case "t":
			out = append(out, FlowRun{Kind: FlowRunText, Text: xmlnode.GetTextContent(child), Format: format})
		case "br":
			switch attrVal(child, "type") {
			case "page":
				out = append(out, FlowRun{Kind: FlowRunPageBreak, Format: format})
			case "column":
				out = append(out, FlowRun{Kind: FlowRunColumnBreak, Format: format})
			default:
				out = append(out, FlowRun{Kind: FlowRunBreak, Format: format})
			}
		case "tab":
			out = append(out, FlowRun{Kind: FlowRunTab, Format: format})
		}
	}
	return out
}

func parseRunFormat(rPr xmlnode.Node) RunFormat {
	f := RunFormat{
		Bold:      toggleVal(rPr, "b"),
		Italic:    toggleVal(rPr, "i"),
		Strike:    toggleVal(rPr, "strike"),
		Underline: childVal(rPr, "u"),
		Color:     childVal(rPr, "color"),
		Highlight: childVal(rPr, "highlight"),
		VertAlign: childVal(rPr, "vertAlign"),
		StyleID:   childVal(rPr, "rStyle"),
	}
	if sz, ok := xmlnode.GetChild(rPr, "sz"); ok {
		if v, err := strconv.ParseInt(attrVal(sz, "val"), 10, 64); err == nil {
			f.Size = &v
		}
	}
	if fonts, ok := xmlnode.GetChild(rPr, "rFonts"); ok {
		f.Font = attrVal(fonts, "ascii")
	}
	return f
}

func parseFlowHints(pPr xmlnode.Node) FlowHints {
	h := FlowHints{}
	if _, ok := xmlnode.GetChild(pPr, "pageBreakBefore"); ok {
		h.BreakBefore = toggleOn(pPr, "pageBreakBefore")
	}
	if _, ok := xmlnode.GetChild(pPr, "keepNext"); ok {
		h.KeepWithNext = toggleOn(pPr, "keepNext")
	}
	if _, ok := xmlnode.GetChild(pPr, "keepLines"); ok {
		h.KeepTogether = toggleOn(pPr, "keepLines")
	}
	h.WidowControl = toggleVal(pPr, "widowControl")

	// Several sectPr in one paragraph cannot occur in valid documents,
	// but when producers emit them anyway the last one wins.
	for _, child := range pPr.Children {
		if child.Kind == xmlnode.KindElement && child.Name == "sectPr" {
			kind := SectionBreakKind(childVal(child, "type"))
			if kind == "" {
				kind = SectionNextPage
			}
			h.SectionBreakAfter = kind
		}
	}
	return h
}

// MergeFlowRuns merges adjacent text runs with identical formatting.
// Breaks, tabs, bookmarks, and untyped children block merging.
func MergeFlowRuns(runs []FlowRun) []FlowRun {
	var out []FlowRun
	for _, run := range runs {
		if run.Kind == FlowRunText && len(out) > 0 {
			last := &out[len(out)-1]
			if last.Kind == FlowRunText && reflect.DeepEqual(last.Format, run.Format) {
				last.Text += run.Text
				continue
			}
		}
		out = append(out, run)
	}
	return out
}

func attrVal(n xmlnode.Node, name string) string {
	v, _ := xmlnode.GetAttr(n, name)
	return v
}

// childVal reads the w:val attribute of a named child.
func childVal(n xmlnode.Node, name string) string {
	child, ok := xmlnode.GetChild(n, name)
	if !ok {
		return ""
	}
	return attrVal(child, "val")
}

// toggleVal reads an on/off toggle child: present without val means on.
func toggleVal(n xmlnode.Node, name string) *bool {
	child, ok := xmlnode.GetChild(n, name)
	if !ok {
		return nil
	}
	b := true
	switch attrVal(child, "val") {
	case "0", "false", "none", "off":
		b = false
	}
	return &b
}

func toggleOn(n xmlnode.Node, name string) bool {
	v := toggleVal(n, name)
	return v != nil && *v
}
