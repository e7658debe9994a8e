package drawingml

import (
	"github.com/trkbt10/officekit/xmlnode"
)

// Insets are text-body insets in EMU; nil pointer fields mean "inherit".
type Insets struct {
	Left, Top, Right, Bottom *int64
}

// AutoFitKind enumerates body auto-fit behaviour.
type AutoFitKind int

const (
	// AutoFitUnset means no autofit element present.
	AutoFitUnset AutoFitKind = iota
	// AutoFitNone is a:noAutofit
	AutoFitNone
	// AutoFitNormal is a:normAutofit (shrink text)
	AutoFitNormal
	// AutoFitShape is a:spAutoFit (grow shape)
	AutoFitShape
)

// AutoFit carries a:normAutofit's scale attributes (1000ths of a percent).
type AutoFit struct {
	Kind           AutoFitKind
	FontScale      *int64
	LineSpaceReduction *int64
}

// BodyProperties is a:bodyPr.
type BodyProperties struct {
	Anchor       string
	AnchorCenter *bool
	Wrap         string
	Vertical     string
	Rotation     *int64
	Insets       Insets
	AutoFit      AutoFit
	Columns      *int64
	ColumnSpacing *int64
	Warp         string
}

// Spacing is the paragraph spacing union: either points (centipoints) or a
// percentage of line height (1000ths of a percent).
type Spacing struct {
	Points  *int64
	Percent *int64
}

// IsZero reports whether no spacing was set.
func (s Spacing) IsZero() bool {
	return s.Points == nil && s.Percent == nil
}

// BulletKind enumerates paragraph bullet styles.
type BulletKind int

const (
	// BulletInherit means no bullet element present.
	BulletInherit BulletKind = iota
	// BulletNone is a:buNone
	BulletNone
	// BulletChar is a:buChar
	BulletChar
	// BulletAutoNum is a:buAutoNum
	BulletAutoNum
	// BulletBlip is a:buBlip
	BulletBlip
)

// Bullet is the paragraph bullet style with its color/size/font modifiers.
type Bullet struct {
	Kind BulletKind

	// Char is the bullet character (BulletChar).
	Char string

	// AutoNumScheme and AutoNumStart describe a:buAutoNum.
	AutoNumScheme string
	AutoNumStart  *int64

	// BlipResourceID is the r:embed of a:buBlip's blip.
	BlipResourceID string

	// Color overrides; ColorFollowText mirrors a:buClrTx.
	Color          Color
	ColorFollowText bool

	// Size overrides: percent (1000ths), points (centipoints), or follow
	// text (a:buSzTx).
	SizePercent    *int64
	SizePoints     *int64
	SizeFollowText bool

	// Font override; FontFollowText mirrors a:buFontTx.
	Font           string
	FontFollowText bool
}

// TabStop is one a:tab entry.
type TabStop struct {
	Position int64
	Align    string
}

// UnderlineStyle is the rPr u attribute (sng, dbl, none, ...).
type UnderlineStyle string

// RunProperties carries full character formatting for a run.
type RunProperties struct {
	// Size is in centipoints; nil inherits.
	Size *int64

	Bold      *bool
	Italic    *bool
	Underline UnderlineStyle
	Strike    string

	// Spacing is inter-character spacing in centipoints.
	Spacing *int64

	// Baseline is the super/subscript offset in 1000ths of a percent.
	Baseline *int64

	Cap string

	// Fill is the text fill (solid color, gradient, ...).
	Fill Fill

	// Outline is the text outline (a:ln inside rPr).
	Outline *Line

	// Latin/EastAsian/ComplexScript/Symbol typefaces.
	Latin, EastAsian, ComplexScript, Symbol string

	// Language tags.
	Language, AltLanguage string

	// Hyperlink click target (r:id of a:hlinkClick).
	HyperlinkRID string

	// Effects preserves a:effectLst subtree when present.
	Effects *xmlnode.Node

	// Highlight color (a:highlight).
	Highlight Color
}

// IsZero reports whether the properties carry nothing.
func (r RunProperties) IsZero() bool {
	return r.Size == nil && r.Bold == nil && r.Italic == nil && r.Underline == "" &&
		r.Strike == "" && r.Spacing == nil && r.Baseline == nil && r.Cap == "" &&
		r.Fill.IsZero() && r.Outline == nil && r.Latin == "" && r.EastAsian == "" &&
		r.ComplexScript == "" && r.Symbol == "" && r.Language == "" && r.AltLanguage == "" &&
		r.HyperlinkRID == "" && r.Effects == nil && r.Highlight.IsZero()
}

// ParagraphProperties is a:pPr.
type ParagraphProperties struct {
	Align  string
	Level  *int64

	MarginLeft  *int64
	MarginRight *int64
	Indent      *int64

	DefaultTabSize *int64

	SpacingLine   Spacing
	SpacingBefore Spacing
	SpacingAfter  Spacing

	Bullet Bullet
	Tabs   []TabStop

	RTL *bool

	DefaultRunProperties *RunProperties
}

// RunKind enumerates paragraph children.
type RunKind int

const (
	// RunText is a:r
	RunText RunKind = iota
	// RunBreak is a:br
	RunBreak
	// RunField is a:fld
	RunField
)

// Run is a paragraph child: a text run, a line break, or a field. Fields
// keep their type/id plus the cached text.
type Run struct {
	Kind RunKind

	Text       string
	Properties RunProperties

	// FieldID and FieldType are set for RunField.
	FieldID   string
	FieldType string
}

// Paragraph is a:p.
type Paragraph struct {
	Properties    ParagraphProperties
	Runs          []Run
	EndProperties *RunProperties
}

// TextBody is the full text body (p:txBody / a:txBody).
type TextBody struct {
	BodyProperties BodyProperties
	Paragraphs     []Paragraph
}

// PlainText concatenates all run text with newlines between paragraphs.
func (tb TextBody) PlainText() string {
	var out []byte
	for i, p := range tb.Paragraphs {
		if i > 0 {
			out = append(out, '\n')
		}
		for _, r := range p.Runs {
			if r.Kind == RunBreak {
				out = append(out, '\n')
				continue
			}
			out = append(out, r.Text...)
		}
	}
	return string(out)
}

// ParseTextBody parses a txBody element.
func ParseTextBody(n xmlnode.Node) TextBody {
	tb := TextBody{}
	if bodyPr, ok := xmlnode.GetChild(n, "bodyPr"); ok {
		tb.BodyProperties = ParseBodyProperties(bodyPr)
	}
	for _, p := range xmlnode.GetChildren(n, "p") {
		tb.Paragraphs = append(tb.Paragraphs, ParseParagraph(p))
	}
	return tb
}

// ParseBodyProperties parses a:bodyPr.
func ParseBodyProperties(n xmlnode.Node) BodyProperties {
	bp := BodyProperties{
		Anchor:   attrString(n, "anchor"),
		Wrap:     attrString(n, "wrap"),
		Vertical: attrString(n, "vert"),
		AnchorCenter: attrBoolPtr(n, "anchorCtr"),
		Rotation: attrInt64Ptr(n, "rot"),
		Columns:  attrInt64Ptr(n, "numCol"),
		ColumnSpacing: attrInt64Ptr(n, "spcCol"),
	}
	bp.Insets = Insets{
		Left:   attrInt64Ptr(n, "lIns"),
		Top:    attrInt64Ptr(n, "tIns"),
		Right:  attrInt64Ptr(n, "rIns"),
		Bottom: attrInt64Ptr(n, "bIns"),
	}
	if _, ok := xmlnode.GetChild(n, "noAutofit"); ok {
		bp.AutoFit.Kind = AutoFitNone
	}
	if norm, ok := xmlnode.GetChild(n, "normAutofit"); ok {
		bp.AutoFit.Kind = AutoFitNormal
		bp.AutoFit.FontScale = attrInt64Ptr(norm, "fontScale")
		bp.AutoFit.LineSpaceReduction = attrInt64Ptr(norm, "lnSpcReduction")
	}
	if _, ok := xmlnode.GetChild(n, "spAutoFit"); ok {
		bp.AutoFit.Kind = AutoFitShape
	}
	if warp, ok := xmlnode.GetChild(n, "prstTxWarp"); ok {
		bp.Warp = attrString(warp, "prst")
	}
	return bp
}

// ParseParagraph parses a:p, recognising the run-level polymorphism
// {a:r | a:br | a:fld}.
func ParseParagraph(n xmlnode.Node) Paragraph {
	p := Paragraph{}
	if pPr, ok := xmlnode.GetChild(n, "pPr"); ok {
		p.Properties = ParseParagraphProperties(pPr)
	}
	for _, child := range n.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		switch child.Name {
		case "r":
			run := Run{Kind: RunText}
			if rPr, ok := xmlnode.GetChild(child, "rPr"); ok {
				run.Properties = ParseRunProperties(rPr)
			}
			if t, ok := xmlnode.GetChild(child, "t"); ok {
				run.Text = xmlnode.GetTextContent(t)
			}
			p.Runs = append(p.Runs, run)
		case "br":
			run := Run{Kind: RunBreak}
			if rPr, ok := xmlnode.GetChild(child, "rPr"); ok {
				run.Properties = ParseRunProperties(rPr)
			}
			p.Runs = append(p.Runs, run)
		case "fld":
			run := Run{
				Kind:      RunField,
				FieldID:   attrString(child, "id"),
				FieldType: attrString(child, "type"),
			}
			if rPr, ok := xmlnode.GetChild(child, "rPr"); ok {
				run.Properties = ParseRunProperties(rPr)
			}
			if t, ok := xmlnode.GetChild(child, "t"); ok {
				run.Text = xmlnode.GetTextContent(t)
			}
			p.Runs = append(p.Runs, run)
		case "endParaRPr":
			props := ParseRunProperties(child)
			p.EndProperties = &props
		}
	}
	return p
}

// ParseParagraphProperties parses a:pPr.
func ParseParagraphProperties(n xmlnode.Node) ParagraphProperties {
	pp := ParagraphProperties{
		Align:       attrString(n, "algn"),
		Level:       attrInt64Ptr(n, "lvl"),
		MarginLeft:  attrInt64Ptr(n, "marL"),
		MarginRight: attrInt64Ptr(n, "marR"),
		Indent:      attrInt64Ptr(n, "indent"),
		DefaultTabSize: attrInt64Ptr(n, "defTabSz"),
		RTL:         attrBoolPtr(n, "rtl"),
	}

	if lnSpc, ok := xmlnode.GetChild(n, "lnSpc"); ok {
		pp.SpacingLine = parseSpacing(lnSpc)
	}
	if spcBef, ok := xmlnode.GetChild(n, "spcBef"); ok {
		pp.SpacingBefore = parseSpacing(spcBef)
	}
	if spcAft, ok := xmlnode.GetChild(n, "spcAft"); ok {
		pp.SpacingAfter = parseSpacing(spcAft)
	}

	pp.Bullet = parseBullet(n)

	if tabLst, ok := xmlnode.GetChild(n, "tabLst"); ok {
		for _, tab := range xmlnode.GetChildren(tabLst, "tab") {
			pp.Tabs = append(pp.Tabs, TabStop{
				Position: attrInt64(tab, "pos"),
				Align:    attrString(tab, "algn"),
			})
		}
	}

	if defRPr, ok := xmlnode.GetChild(n, "defRPr"); ok {
		props := ParseRunProperties(defRPr)
		pp.DefaultRunProperties = &props
	}

	return pp
}

func parseSpacing(n xmlnode.Node) Spacing {
	s := Spacing{}
	if pts, ok := xmlnode.GetChild(n, "spcPts"); ok {
		s.Points = attrInt64Ptr(pts, "val")
	}
	if pct, ok := xmlnode.GetChild(n, "spcPct"); ok {
		s.Percent = attrInt64Ptr(pct, "val")
	}
	return s
}

func parseBullet(pPr xmlnode.Node) Bullet {
	b := Bullet{}

	if clr, ok := xmlnode.GetChild(pPr, "buClr"); ok {
		b.Color = ParseColorChoice(clr)
	}
	if _, ok := xmlnode.GetChild(pPr, "buClrTx"); ok {
		b.ColorFollowText = true
	}
	if szPct, ok := xmlnode.GetChild(pPr, "buSzPct"); ok {
		b.SizePercent = attrInt64Ptr(szPct, "val")
	}
	if szPts, ok := xmlnode.GetChild(pPr, "buSzPts"); ok {
		b.SizePoints = attrInt64Ptr(szPts, "val")
	}
	if _, ok := xmlnode.GetChild(pPr, "buSzTx"); ok {
		b.SizeFollowText = true
	}
	if font, ok := xmlnode.GetChild(pPr, "buFont"); ok {
		b.Font = attrString(font, "typeface")
	}
	if _, ok := xmlnode.GetChild(pPr, "buFontTx"); ok {
		b.FontFollowText = true
	}

	if _, ok := xmlnode.GetChild(pPr, "buNone"); ok {
		b.Kind = BulletNone
		return b
	}
	if ch, ok := xmlnode.GetChild(pPr, "buChar"); ok {
		b.Kind = BulletChar
		b.Char = attrString(ch, "char")
		return b
	}
	if auto, ok := xmlnode.GetChild(pPr, "buAutoNum"); ok {
		b.Kind = BulletAutoNum
		b.AutoNumScheme = attrString(auto, "type")
		b.AutoNumStart = attrInt64Ptr(auto, "startAt")
		return b
	}
	if blip, ok := xmlnode.GetChild(pPr, "buBlip"); ok {
		b.Kind = BulletBlip
		if inner, ok := xmlnode.GetChild(blip, "blip"); ok {
			for _, a := range inner.Attrs {
				if a.Name == "embed" {
					b.BlipResourceID = a.Value
				}
			}
		}
		return b
	}
	return b
}

// ParseRunProperties parses a:rPr (also used for defRPr and endParaRPr).
func ParseRunProperties(n xmlnode.Node) RunProperties {
	rp := RunProperties{
		Size:      attrInt64Ptr(n, "sz"),
		Bold:      attrBoolPtr(n, "b"),
		Italic:    attrBoolPtr(n, "i"),
		Underline: UnderlineStyle(attrString(n, "u")),
		Strike:    attrString(n, "strike"),
		Spacing:   attrInt64Ptr(n, "spc"),
		Baseline:  attrInt64Ptr(n, "baseline"),
		Cap:       attrString(n, "cap"),
		Language:  attrString(n, "lang"),
		AltLanguage: attrString(n, "altLang"),
	}

	rp.Fill = ParseFillChoice(n)

	if ln, ok := xmlnode.GetChild(n, "ln"); ok {
		parsed := ParseLine(ln)
		rp.Outline = &parsed
	}
	if latin, ok := xmlnode.GetChild(n, "latin"); ok {
		rp.Latin = attrString(latin, "typeface")
	}
	if ea, ok := xmlnode.GetChild(n, "ea"); ok {
		rp.EastAsian = attrString(ea, "typeface")
	}
	if cs, ok := xmlnode.GetChild(n, "cs"); ok {
		rp.ComplexScript = attrString(cs, "typeface")
	}
	if sym, ok := xmlnode.GetChild(n, "sym"); ok {
		rp.Symbol = attrString(sym, "typeface")
	}
	if link, ok := xmlnode.GetChild(n, "hlinkClick"); ok {
		for _, a := range link.Attrs {
			if a.Name == "id" {
				rp.HyperlinkRID = a.Value
			}
		}
	}
	if effects, ok := xmlnode.GetChild(n, "effectLst"); ok {
		rp.Effects = &effects
	}
	if hl, ok := xmlnode.GetChild(n, "highlight"); ok {
		rp.Highlight = ParseColorChoice(hl)
	}

	return rp
}

// SerializeTextBody renders a text body. The namespace of the txBody
// element itself varies by host (p:txBody on slides, a:txBody in tables),
// so the caller supplies the space.
func SerializeTextBody(tb TextBody, space string) xmlnode.Node {
	n := xmlnode.Node{Kind: xmlnode.KindElement, Space: space, Name: "txBody"}
	n.Children = append(n.Children, SerializeBodyProperties(tb.BodyProperties))
	n.Children = append(n.Children, aElement("lstStyle"))
	for _, p := range tb.Paragraphs {
		n.Children = append(n.Children, SerializeParagraph(p))
	}
	return n
}

// SerializeBodyProperties renders a:bodyPr.
func SerializeBodyProperties(bp BodyProperties) xmlnode.Node {
	n := aElement("bodyPr")
	if bp.Rotation != nil {
		n.Attrs = append(n.Attrs, attr("rot", formatInt64(*bp.Rotation)))
	}
	if bp.Vertical != "" {
		n.Attrs = append(n.Attrs, attr("vert", bp.Vertical))
	}
	if bp.Wrap != "" {
		n.Attrs = append(n.Attrs, attr("wrap", bp.Wrap))
	}
	if bp.Insets.Left != nil {
		n.Attrs = append(n.Attrs, attr("lIns", formatInt64(*bp.Insets.Left)))
	}
	if bp.Insets.Top != nil {
		n.Attrs = append(n.Attrs, attr("tIns", formatInt64(*bp.Insets.Top)))
	}
	if bp.Insets.Right != nil {
		n.Attrs = append(n.Attrs, attr("rIns", formatInt64(*bp.Insets.Right)))
	}
	if bp.Insets.Bottom != nil {
		n.Attrs = append(n.Attrs, attr("bIns", formatInt64(*bp.Insets.Bottom)))
	}
	if bp.Columns != nil {
		n.Attrs = append(n.Attrs, attr("numCol", formatInt64(*bp.Columns)))
	}
	if bp.ColumnSpacing != nil {
		n.Attrs = append(n.Attrs, attr("spcCol", formatInt64(*bp.ColumnSpacing)))
	}
	if bp.Anchor != "" {
		n.Attrs = append(n.Attrs, attr("anchor", bp.Anchor))
	}
	if bp.AnchorCenter != nil {
		n.Attrs = append(n.Attrs, attr("anchorCtr", formatBool(*bp.AnchorCenter)))
	}
	if bp.Warp != "" {
		n.Children = append(n.Children, aElement("prstTxWarp", attr("prst", bp.Warp)))
	}
	switch bp.AutoFit.Kind {
	case AutoFitNone:
		n.Children = append(n.Children, aElement("noAutofit"))
	case AutoFitNormal:
		norm := aElement("normAutofit")
		if bp.AutoFit.FontScale != nil {
			norm.Attrs = append(norm.Attrs, attr("fontScale", formatInt64(*bp.AutoFit.FontScale)))
		}
		if bp.AutoFit.LineSpaceReduction != nil {
			norm.Attrs = append(norm.Attrs, attr("lnSpcReduction", formatInt64(*bp.AutoFit.LineSpaceReduction)))
		}
		n.Children = append(n.Children, norm)
	case AutoFitShape:
		n.Children = append(n.Children, aElement("spAutoFit"))
	}
	return n
}

// SerializeParagraph renders a:p.
func SerializeParagraph(p Paragraph) xmlnode.Node {
	n := aElement("p")
	pPr := SerializeParagraphProperties(p.Properties)
	if len(pPr.Attrs) > 0 || len(pPr.Children) > 0 {
		n.Children = append(n.Children, pPr)
	}
	for _, run := range p.Runs {
		n.Children = append(n.Children, SerializeRun(run))
	}
	if p.EndProperties != nil {
		end := serializeRunProperties(*p.EndProperties, "endParaRPr")
		n.Children = append(n.Children, end)
	}
	return n
}

// SerializeRun renders one paragraph child.
func SerializeRun(r Run) xmlnode.Node {
	switch r.Kind {
	case RunBreak:
		n := aElement("br")
		if !r.Properties.IsZero() {
			n.Children = append(n.Children, serializeRunProperties(r.Properties, "rPr"))
		}
		return n
	case RunField:
		n := aElement("fld", attr("id", r.FieldID), attr("type", r.FieldType))
		if !r.Properties.IsZero() {
			n.Children = append(n.Children, serializeRunProperties(r.Properties, "rPr"))
		}
		t := aElement("t")
		t.Children = append(t.Children, xmlnode.TextNode(r.Text))
		n.Children = append(n.Children, t)
		return n
	default:
		n := aElement("r")
		if !r.Properties.IsZero() {
			n.Children = append(n.Children, serializeRunProperties(r.Properties, "rPr"))
		}
		t := aElement("t")
		t.Children = append(t.Children, xmlnode.TextNode(r.Text))
		n.Children = append(n.Children, t)
		return n
	}
}

// SerializeParagraphProperties renders a:pPr with its canonical child
// order: spacing, bullet group, tabs, defRPr.
func SerializeParagraphProperties(pp ParagraphProperties) xmlnode.Node {
	n := aElement("pPr")
	if pp.MarginLeft != nil {
		n.Attrs = append(n.Attrs, attr("marL", formatInt64(*pp.MarginLeft)))
	}
	if pp.MarginRight != nil {
		n.Attrs = append(n.Attrs, attr("marR", formatInt64(*pp.MarginRight)))
	}
	if pp.Level != nil {
		n.Attrs = append(n.Attrs, attr("lvl", formatInt64(*pp.Level)))
	}
	if pp.Indent != nil {
		n.Attrs = append(n.Attrs, attr("indent", formatInt64(*pp.Indent)))
	}
	if pp.Align != "" {
		n.Attrs = append(n.Attrs, attr("algn", pp.Align))
	}
	if pp.DefaultTabSize != nil {
		n.Attrs = append(n.Attrs, attr("defTabSz", formatInt64(*pp.DefaultTabSize)))
	}
	if pp.RTL != nil {
		n.Attrs = append(n.Attrs, attr("rtl", formatBool(*pp.RTL)))
	}

	if !pp.SpacingLine.IsZero() {
		n.Children = append(n.Children, serializeSpacing("lnSpc", pp.SpacingLine))
	}
	if !pp.SpacingBefore.IsZero() {
		n.Children = append(n.Children, serializeSpacing("spcBef", pp.SpacingBefore))
	}
	if !pp.SpacingAfter.IsZero() {
		n.Children = append(n.Children, serializeSpacing("spcAft", pp.SpacingAfter))
	}

	n.Children = append(n.Children, serializeBulletChildren(pp.Bullet)...)

	if len(pp.Tabs) > 0 {
		tabLst := aElement("tabLst")
		for _, tab := range pp.Tabs {
			t := aElement("tab", attr("pos", formatInt64(tab.Position)))
			if tab.Align != "" {
				t.Attrs = append(t.Attrs, attr("algn", tab.Align))
			}
			tabLst.Children = append(tabLst.Children, t)
		}
		n.Children = append(n.Children, tabLst)
	}

	if pp.DefaultRunProperties != nil {
		n.Children = append(n.Children, serializeRunProperties(*pp.DefaultRunProperties, "defRPr"))
	}

	return n
}

func serializeSpacing(name string, s Spacing) xmlnode.Node {
	n := aElement(name)
	if s.Points != nil {
		n.Children = append(n.Children, aElement("spcPts", attr("val", formatInt64(*s.Points))))
	} else if s.Percent != nil {
		n.Children = append(n.Children, aElement("spcPct", attr("val", formatInt64(*s.Percent))))
	}
	return n
}

// serializeBulletChildren renders the bullet child group in canonical
// order: color, size, font, then the bullet choice itself.
func serializeBulletChildren(b Bullet) []xmlnode.Node {
	var out []xmlnode.Node

	if b.ColorFollowText {
		out = append(out, aElement("buClrTx"))
	} else if !b.Color.IsZero() {
		clr := aElement("buClr")
		clr.Children = append(clr.Children, SerializeColor(b.Color))
		out = append(out, clr)
	}

	if b.SizeFollowText {
		out = append(out, aElement("buSzTx"))
	} else if b.SizePercent != nil {
		out = append(out, aElement("buSzPct", attr("val", formatInt64(*b.SizePercent))))
	} else if b.SizePoints != nil {
		out = append(out, aElement("buSzPts", attr("val", formatInt64(*b.SizePoints))))
	}

	if b.FontFollowText {
		out = append(out, aElement("buFontTx"))
	} else if b.Font != "" {
		out = append(out, aElement("buFont", attr("typeface", b.Font)))
	}

	switch b.Kind {
	case BulletNone:
		out = append(out, aElement("buNone"))
	case BulletChar:
		out = append(out, aElement("buChar", attr("char", b.Char)))
	case BulletAutoNum:
		auto := aElement("buAutoNum", attr("type", b.AutoNumScheme))
		if b.AutoNumStart != nil {
			auto.Attrs = append(auto.Attrs, attr("startAt", formatInt64(*b.AutoNumStart)))
		}
		out = append(out, auto)
	case BulletBlip:
		blip := aElement("buBlip")
		inner := aElement("blip")
		if b.BlipResourceID != "" {
			inner.Attrs = append(inner.Attrs, rAttr("embed", b.BlipResourceID))
		}
		blip.Children = append(blip.Children, inner)
		out = append(out, blip)
	}

	return out
}

// serializeRunProperties renders rPr/defRPr/endParaRPr with the canonical
// child order: outline, fill, effects, highlight, fonts, hyperlink.
func serializeRunProperties(rp RunProperties, name string) xmlnode.Node {
	n := aElement(name)
	if rp.Language != "" {
		n.Attrs = append(n.Attrs, attr("lang", rp.Language))
	}
	if rp.AltLanguage != "" {
		n.Attrs = append(n.Attrs, attr("altLang", rp.AltLanguage))
	}
	if rp.Size != nil {
		n.Attrs = append(n.Attrs, attr("sz", formatInt64(*rp.Size)))
	}
	if rp.Bold != nil {
		n.Attrs = append(n.Attrs, attr("b", formatBool(*rp.Bold)))
	}
	if rp.Italic != nil {
		n.Attrs = append(n.Attrs, attr("i", formatBool(*rp.Italic)))
	}
	if rp.Underline != "" {
		n.Attrs = append(n.Attrs, attr("u", string(rp.Underline)))
	}
	if rp.Strike != "" {
		n.Attrs = append(n.Attrs, attr("strike", rp.Strike))
	}
	if rp.Spacing != nil {
		n.Attrs = append(n.Attrs, attr("spc", formatInt64(*rp.Spacing)))
	}
	if rp.Cap != "" {
		n.Attrs = append(n.Attrs, attr("cap", rp.Cap))
	}
	if rp.Baseline != nil {
		n.Attrs = append(n.Attrs, attr("baseline", formatInt64(*rp.Baseline)))
	}

	if rp.Outline != nil {
		n.Children = append(n.Children, SerializeLine(*rp.Outline))
	}
	if !rp.Fill.IsZero() {
		n.Children = append(n.Children, SerializeFill(rp.Fill))
	}
	if rp.Effects != nil {
		n.Children = append(n.Children, *rp.Effects)
	}
	if !rp.Highlight.IsZero() {
		hl := aElement("highlight")
		hl.Children = append(hl.Children, SerializeColor(rp.Highlight))
		n.Children = append(n.Children, hl)
	}
	if rp.Latin != "" {
		n.Children = append(n.Children, aElement("latin", attr("typeface", rp.Latin)))
	}
	if rp.EastAsian != "" {
		n.Children = append(n.Children, aElement("ea", attr("typeface", rp.EastAsian)))
	}
	if rp.ComplexScript != "" {
		n.Children = append(n.Children, aElement("cs", attr("typeface", rp.ComplexScript)))
	}
	if rp.Symbol != "" {
		n.Children = append(n.Children, aElement("sym", attr("typeface", rp.Symbol)))
	}
	if rp.HyperlinkRID != "" {
		n.Children = append(n.Children, aElement("hlinkClick", rAttr("id", rp.HyperlinkRID)))
	}
	return n
}
