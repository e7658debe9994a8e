package xlsx

import (
	"strconv"

	"github.com/trkbt10/officekit/xmlnode"
)

// RichTextRun is one formatted run of a shared string. Size is in
// half-points mirroring the rPr sz val.
type RichTextRun struct {
	Text string

	Bold      bool
	Italic    bool
	Strike    bool
	Underline string
	Size      *float64
	Font      string
	ColorRGB  string
	ColorTheme *int64
	VertAlign string
}

// SharedString is one si entry: either a plain string or a sequence of
// rich-text runs.
type SharedString struct {
	Plain string
	Runs  []RichTextRun
}

// Text returns the flattened text of the entry.
func (s SharedString) Text() string {
	if len(s.Runs) == 0 {
		return s.Plain
	}
	var out []byte
	for _, run := range s.Runs {
		out = append(out, run.Text...)
	}
	return string(out)
}

// IsRich reports whether the entry carries formatting runs.
func (s SharedString) IsRich() bool {
	return len(s.Runs) > 0
}

// SharedStringTable is the parsed xl/sharedStrings.xml part.
type SharedStringTable struct {
	Strings []SharedString

	// Count and UniqueCount mirror the sst attributes.
	Count       int64
	UniqueCount int64
}

// Get returns the entry at a cell's shared-string index, or an empty
// entry when the index is out of range.
func (t *SharedStringTable) Get(index int) SharedString {
	if index < 0 || index >= len(t.Strings) {
		return SharedString{}
	}
	return t.Strings[index]
}

// ParseSharedStringTable parses an sst document root.
func ParseSharedStringTable(root xmlnode.Node) SharedStringTable {
	table := SharedStringTable{}
	if v, ok := xmlnode.GetAttr(root, "count"); ok {
		table.Count, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := xmlnode.GetAttr(root, "uniqueCount"); ok {
		table.UniqueCount, _ = strconv.ParseInt(v, 10, 64)
	}

	for _, si := range xmlnode.GetChildren(root, "si") {
		table.Strings = append(table.Strings, parseSharedString(si))
	}
	return table
}

func parseSharedString(si xmlnode.Node) SharedString {
	s := SharedString{}
	if t, ok := xmlnode.GetChild(si, "t"); ok {
		s.Plain = xmlnode.GetTextContent(t)
	}
	for _, r := range xmlnode.GetChildren(si, "r") {
		run := RichTextRun{}
		if t, ok := xmlnode.GetChild(r, "t"); ok {
			run.Text = xmlnode.GetTextContent(t)
		}
		if rPr, ok := xmlnode.GetChild(r, "rPr"); ok {
			if _, ok := xmlnode.GetChild(rPr, "b"); ok {
				run.Bold = true
			}
			if _, ok := xmlnode.GetChild(rPr, "i"); ok {
				run.Italic = true
			}
			if _, ok := xmlnode.GetChild(rPr, "strike"); ok {
				run.Strike = true
			}
			if u, ok := xmlnode.GetChild(rPr, "u"); ok {
				run.Underline, _ = xmlnode.GetAttr(u, "val")
				if run.Underline == "" {
					run.Underline = "single"
				}
			}
			if sz, ok := xmlnode.GetChild(rPr, "sz"); ok {
				if v, ok := xmlnode.GetAttr(sz, "val"); ok {
					if f, err := strconv.ParseFloat(v, 64); err == nil {
						run.Size = &f
					}
				}
			}
			if rFont, ok := xmlnode.GetChild(rPr, "rFont"); ok {
				run.Font, _ = xmlnode.GetAttr(rFont, "val")
			}
			if color, ok := xmlnode.GetChild(rPr, "color"); ok {
				run.ColorRGB, _ = xmlnode.GetAttr(color, "rgb")
				if theme, ok := xmlnode.GetAttr(color, "theme"); ok {
					if v, err := strconv.ParseInt(theme, 10, 64); err == nil {
						run.ColorTheme = &v
					}
				}
			}
			if va, ok := xmlnode.GetChild(rPr, "vertAlign"); ok {
				run.VertAlign, _ = xmlnode.GetAttr(va, "val")
			}
		}
		s.Runs = append(s.Runs, run)
	}
	return s
}

// SerializeSharedStringTable renders the table back to an sst root.
func SerializeSharedStringTable(t SharedStringTable) xmlnode.Node {
	root := xmlnode.Node{Kind: xmlnode.KindElement, Name: "sst"}
	root.Attrs = append(root.Attrs,
		xmlnode.Attr{Name: "xmlns", Value: "http://schemas.openxmlformats.org/spreadsheetml/2006/main"},
		xmlnode.Attr{Name: "count", Value: strconv.FormatInt(t.Count, 10)},
		xmlnode.Attr{Name: "uniqueCount", Value: strconv.FormatInt(t.UniqueCount, 10)})

	for _, s := range t.Strings {
		si := xmlnode.Node{Kind: xmlnode.KindElement, Name: "si"}
		if len(s.Runs) == 0 {
			tEl := xmlnode.Node{Kind: xmlnode.KindElement, Name: "t"}
			tEl.Children = append(tEl.Children, xmlnode.TextNode(s.Plain))
			si.Children = append(si.Children, tEl)
		} else {
			for _, run := range s.Runs {
				si.Children = append(si.Children, serializeRichRun(run))
			}
		}
		root.Children = append(root.Children, si)
	}
	return root
}

func serializeRichRun(run RichTextRun) xmlnode.Node {
	r := xmlnode.Node{Kind: xmlnode.KindElement, Name: "r"}

	rPr := xmlnode.Node{Kind: xmlnode.KindElement, Name: "rPr"}
	if run.Bold {
		rPr.Children = append(rPr.Children, xmlnode.Element("b", nil))
	}
	if run.Italic {
		rPr.Children = append(rPr.Children, xmlnode.Element("i", nil))
	}
	if run.Strike {
		rPr.Children = append(rPr.Children, xmlnode.Element("strike", nil))
	}
	if run.Underline != "" {
		u := xmlnode.Element("u", nil)
		if run.Underline != "single" {
			u.Attrs = append(u.Attrs, xmlnode.Attr{Name: "val", Value: run.Underline})
		}
		rPr.Children = append(rPr.Children, u)
	}
	if run.Size != nil {
		rPr.Children = append(rPr.Children, xmlnode.Element("sz",
			[]xmlnode.Attr{{Name: "val", Value: strconv.FormatFloat(*run.Size, 'f', -1, 64)}}))
	}
	if run.ColorRGB != "" || run.ColorTheme != nil {
		color := xmlnode.Element("color", nil)
		if run.ColorRGB != "" {
			color.Attrs = append(color.Attrs, xmlnode.Attr{Name: "rgb", Value: run.ColorRGB})
		}
		if run.ColorTheme != nil {
			color.Attrs = append(color.Attrs, xmlnode.Attr{Name: "theme", Value: strconv.FormatInt(*run.ColorTheme, 10)})
		}
		rPr.Children = append(rPr.Children, color)
	}
	if run.Font != "" {
		rPr.Children = append(rPr.Children, xmlnode.Element("rFont",
			[]xmlnode.Attr{{Name: "val", Value: run.Font}}))
	}
	if run.VertAlign != "" {
		rPr.Children = append(rPr.Children, xmlnode.Element("vertAlign",
			[]xmlnode.Attr{{Name: "val", Value: run.VertAlign}}))
	}
	if len(rPr.Children) > 0 {
		r.Children = append(r.Children, rPr)
	}

	tEl := xmlnode.Node{Kind: xmlnode.KindElement, Name: "t"}
	tEl.Children = append(tEl.Children, xmlnode.TextNode(run.Text))
	r.Children = append(r.Children, tEl)
	return r
}
