package drawingml

import (
	"github.com/trkbt10/officekit/xmlnode"
)

// LineJoin is the tagged join variant (round, bevel, or miter with limit).
type LineJoin struct {
	Kind       string // "round", "bevel", "miter", or "" when unset
	MiterLimit int64  // 1000ths of a percent, miter only
}

// LineEnd describes a:headEnd / a:tailEnd decorations.
type LineEnd struct {
	Type   string
	Width  string
	Length string
}

// Line is a:ln. Width is in EMU. Cap, Compound, and Align are the ECMA
// enumerations (flat/sq/rnd, sng/dbl/..., ctr/in).
type Line struct {
	Width    int64
	Cap      string
	Compound string
	Align    string

	Fill Fill

	// DashPreset is a:prstDash val; CustomDash holds a:custDash ds pairs.
	DashPreset string
	CustomDash [][2]int64

	Join    LineJoin
	HeadEnd *LineEnd
	TailEnd *LineEnd
}

// ParseLine parses an a:ln element.
func ParseLine(n xmlnode.Node) Line {
	ln := Line{
		Width:    attrInt64(n, "w"),
		Cap:      attrString(n, "cap"),
		Compound: attrString(n, "cmpd"),
		Align:    attrString(n, "algn"),
	}

	ln.Fill = ParseFillChoice(n)

	if dash, ok := xmlnode.GetChild(n, "prstDash"); ok {
		ln.DashPreset = attrString(dash, "val")
	}
	if custom, ok := xmlnode.GetChild(n, "custDash"); ok {
		for _, ds := range xmlnode.GetChildren(custom, "ds") {
			ln.CustomDash = append(ln.CustomDash, [2]int64{
				attrInt64(ds, "d"),
				attrInt64(ds, "sp"),
			})
		}
	}

	if _, ok := xmlnode.GetChild(n, "round"); ok {
		ln.Join.Kind = "round"
	}
	if _, ok := xmlnode.GetChild(n, "bevel"); ok {
		ln.Join.Kind = "bevel"
	}
	if miter, ok := xmlnode.GetChild(n, "miter"); ok {
		ln.Join.Kind = "miter"
		ln.Join.MiterLimit = attrInt64(miter, "lim")
	}

	if head, ok := xmlnode.GetChild(n, "headEnd"); ok {
		ln.HeadEnd = parseLineEnd(head)
	}
	if tail, ok := xmlnode.GetChild(n, "tailEnd"); ok {
		ln.TailEnd = parseLineEnd(tail)
	}

	return ln
}

func parseLineEnd(n xmlnode.Node) *LineEnd {
	return &LineEnd{
		Type:   attrString(n, "type"),
		Width:  attrString(n, "w"),
		Length: attrString(n, "len"),
	}
}

// SerializeLine renders a line back to a:ln with the canonical child
// order: fill, dash, join, ends.
func SerializeLine(ln Line) xmlnode.Node {
	n := aElement("ln")
	if ln.Width != 0 {
		n.Attrs = append(n.Attrs, attr("w", formatInt64(ln.Width)))
	}
	if ln.Cap != "" {
		n.Attrs = append(n.Attrs, attr("cap", ln.Cap))
	}
	if ln.Compound != "" {
		n.Attrs = append(n.Attrs, attr("cmpd", ln.Compound))
	}
	if ln.Align != "" {
		n.Attrs = append(n.Attrs, attr("algn", ln.Align))
	}

	if !ln.Fill.IsZero() {
		n.Children = append(n.Children, SerializeFill(ln.Fill))
	}

	if ln.DashPreset != "" {
		n.Children = append(n.Children, aElement("prstDash", attr("val", ln.DashPreset)))
	}
	if len(ln.CustomDash) > 0 {
		custom := aElement("custDash")
		for _, ds := range ln.CustomDash {
			custom.Children = append(custom.Children, aElement("ds",
				attr("d", formatInt64(ds[0])),
				attr("sp", formatInt64(ds[1]))))
		}
		n.Children = append(n.Children, custom)
	}

	switch ln.Join.Kind {
	case "round":
		n.Children = append(n.Children, aElement("round"))
	case "bevel":
		n.Children = append(n.Children, aElement("bevel"))
	case "miter":
		miter := aElement("miter")
		if ln.Join.MiterLimit != 0 {
			miter.Attrs = append(miter.Attrs, attr("lim", formatInt64(ln.Join.MiterLimit)))
		}
		n.Children = append(n.Children, miter)
	}

	if ln.HeadEnd != nil {
		n.Children = append(n.Children, serializeLineEnd("headEnd", ln.HeadEnd))
	}
	if ln.TailEnd != nil {
		n.Children = append(n.Children, serializeLineEnd("tailEnd", ln.TailEnd))
	}

	return n
}

func serializeLineEnd(name string, e *LineEnd) xmlnode.Node {
	n := aElement(name)
	if e.Type != "" {
		n.Attrs = append(n.Attrs, attr("type", e.Type))
	}
	if e.Width != "" {
		n.Attrs = append(n.Attrs, attr("w", e.Width))
	}
	if e.Length != "" {
		n.Attrs = append(n.Attrs, attr("len", e.Length))
	}
	return n
}
