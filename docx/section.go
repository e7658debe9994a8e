package docx

import (
	"github.com/trkbt10/officekit/xmlnode"
)

// SectionProperties is a parsed w:sectPr: page geometry, columns, and the
// header/footer references the section binds.
type SectionProperties struct {
	Break SectionBreakKind

	// Page size in twentieths of a point; Orient is "" or "landscape".
	PageWidth, PageHeight int64
	Orient                string

	MarginTop, MarginBottom, MarginLeft, MarginRight int64

	// Columns and the gap between them.
	Columns   int64
	ColumnGap int64

	// HeaderRefs/FooterRefs map the reference type (default, first, even)
	// to the relationship id of the header/footer part.
	HeaderRefs map[string]string
	FooterRefs map[string]string

	TitlePage bool
}

// ParseSectionProperties parses a w:sectPr element.
func ParseSectionProperties(n xmlnode.Node) SectionProperties {
	sp := SectionProperties{
		Break:      SectionBreakKind(childVal(n, "type")),
		Columns:    1,
		HeaderRefs: make(map[string]string),
		FooterRefs: make(map[string]string),
	}
	if sp.Break == "" {
		sp.Break = SectionNextPage
	}

	if size, ok := xmlnode.GetChild(n, "pgSz"); ok {
		sp.PageWidth = attrInt(size, "w")
		sp.PageHeight = attrInt(size, "h")
		sp.Orient = attrVal(size, "orient")
	}
	if margins, ok := xmlnode.GetChild(n, "pgMar"); ok {
		sp.MarginTop = attrInt(margins, "top")
		sp.MarginBottom = attrInt(margins, "bottom")
		sp.MarginLeft = attrInt(margins, "left")
		sp.MarginRight = attrInt(margins, "right")
	}
	if cols, ok := xmlnode.GetChild(n, "cols"); ok {
		if num := attrInt(cols, "num"); num > 0 {
			sp.Columns = num
		}
		sp.ColumnGap = attrInt(cols, "space")
	}
	if _, ok := xmlnode.GetChild(n, "titlePg"); ok {
		sp.TitlePage = toggleOn(n, "titlePg")
	}

	for _, child := range n.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		kind := attrVal(child, "type")
		if kind == "" {
			kind = "default"
		}
		switch child.Name {
		case "headerReference":
			sp.HeaderRefs[kind] = rIDAttr(child)
		case "footerReference":
			sp.FooterRefs[kind] = rIDAttr(child)
		}
	}

	return sp
}

// rIDAttr reads the r:id relationship attribute.
func rIDAttr(n xmlnode.Node) string {
	for _, a := range n.Attrs {
		if a.Name == "id" && a.Space == "r" {
			return a.Value
		}
	}
	return ""
}

// HeaderFooter is a parsed w:hdr or w:ftr part.
type HeaderFooter struct {
	// Kind is "header" or "footer".
	Kind string

	Paragraphs []FlowParagraph
}

// ParseHeaderFooter parses a header or footer document root.
func ParseHeaderFooter(root xmlnode.Node) HeaderFooter {
	hf := HeaderFooter{}
	switch root.Name {
	case "hdr":
		hf.Kind = "header"
	case "ftr":
		hf.Kind = "footer"
	}
	var walk func(n xmlnode.Node)
	walk = func(n xmlnode.Node) {
		for _, child := range n.Children {
			if child.Kind != xmlnode.KindElement {
				continue
			}
			if child.Name == "p" {
				hf.Paragraphs = append(hf.Paragraphs, ParseFlowParagraph(child))
				continue
			}
			walk(child)
		}
	}
	walk(root)
	return hf
}

// Text flattens the header/footer runs.
func (hf HeaderFooter) Text() string {
	var out []byte
	for i, p := range hf.Paragraphs {
		if i > 0 {
			out = append(out, '\n')
		}
		for _, run := range p.Runs {
			out = append(out, run.Text...)
		}
	}
	return string(out)
}

// DocumentBody is the parsed w:document body: top-level paragraphs and
// tables in document order, plus the trailing body-level section.
type DocumentBody struct {
	Blocks []BodyBlock

	// Section is the body-level w:sectPr (the final section).
	Section *SectionProperties
}

// BodyBlockKind distinguishes body children.
type BodyBlockKind int

const (
	// BlockParagraph is a w:p
	BlockParagraph BodyBlockKind = iota
	// BlockTable is a w:tbl
	BlockTable
)

// BodyBlock is one top-level body child.
type BodyBlock struct {
	Kind      BodyBlockKind
	Paragraph FlowParagraph
	Table     TableModel
}

// ParseDocument parses a w:document root into the flow model.
func ParseDocument(root xmlnode.Node) DocumentBody {
	doc := DocumentBody{}
	body, ok := xmlnode.GetChild(root, "body")
	if !ok {
		return doc
	}
	for _, child := range body.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		switch child.Name {
		case "p":
			doc.Blocks = append(doc.Blocks, BodyBlock{Kind: BlockParagraph, Paragraph: ParseFlowParagraph(child)})
		case "tbl":
			doc.Blocks = append(doc.Blocks, BodyBlock{Kind: BlockTable, Table: ParseTable(child)})
		case "sectPr":
			sp := ParseSectionProperties(child)
			doc.Section = &sp
		}
	}
	return doc
}
