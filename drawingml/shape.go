package drawingml

import (
	"github.com/trkbt10/officekit/xmlnode"
)

// Transform is a:xfrm: offset + extent in EMU, rotation in 60000ths of a
// degree, plus flips. Group transforms additionally carry child offsets.
type Transform struct {
	OffsetX, OffsetY int64
	Width, Height    int64
	Rotation         int64
	FlipH, FlipV     bool

	// Child offset/extent, group shapes only.
	ChildOffsetX, ChildOffsetY *int64
	ChildWidth, ChildHeight    *int64
}

// Locks carries the shape-lock flags from cNvSpPr/cNvPicPr etc.
type Locks struct {
	NoGrouping, NoSelect, NoRotate, NoChangeAspect, NoMove, NoResize bool
	NoEditPoints, NoAdjustHandles, NoChangeArrowheads, NoChangeShapeType bool
	NoTextEdit bool
}

// NonVisual is the shared non-visual shape properties: id, name, and
// optional hyperlink.
type NonVisual struct {
	ID    string
	Name  string
	Title string
	Descr string

	Hidden bool

	// HyperlinkRID is the r:id of a hlinkClick on cNvPr.
	HyperlinkRID string

	Locks Locks

	// Placeholder info from nvPr (presentations only).
	PlaceholderType  string
	PlaceholderIndex string
	HasPlaceholder   bool
}

// ShapeProperties is spPr: transform, geometry, fill, line, effects, 3D.
type ShapeProperties struct {
	Transform *Transform
	Geometry  Geometry
	Fill      Fill
	Line      *Line

	// Effects preserves the a:effectLst / a:effectDag subtree.
	Effects *xmlnode.Node

	// Scene3D and Shape3D preserve a:scene3d / a:sp3d subtrees.
	Scene3D *xmlnode.Node
	Shape3D *xmlnode.Node
}

// ShapeStyle preserves the p:style subtree (matrix references into the
// theme's style matrix).
type ShapeStyle struct {
	Raw xmlnode.Node
}

// ShapeKind enumerates the shape-tree variants.
type ShapeKind int

const (
	// ShapeSp is a regular shape (p:sp)
	ShapeSp ShapeKind = iota
	// ShapeGroup is a group shape (p:grpSp)
	ShapeGroup
	// ShapePic is a picture (p:pic)
	ShapePic
	// ShapeConnector is a connector (p:cxnSp)
	ShapeConnector
	// ShapeGraphicFrame hosts a table, chart, diagram, or OLE object
	ShapeGraphicFrame
)

// GraphicFrameContent identifies what a graphic frame hosts.
type GraphicFrameContent int

const (
	// GraphicUnknown is unrecognized a:graphicData content
	GraphicUnknown GraphicFrameContent = iota
	// GraphicTable is a DrawingML table
	GraphicTable
	// GraphicChart is a chart reference
	GraphicChart
	// GraphicDiagram is a SmartArt diagram reference
	GraphicDiagram
	// GraphicOle is an embedded OLE object
	GraphicOle
)

// Shape is the tagged shape union. NonVisual and Properties are common;
// variant fields apply per Kind.
type Shape struct {
	Kind ShapeKind

	NonVisual  NonVisual
	Properties ShapeProperties
	Style      *ShapeStyle
	TextBody   *TextBody

	// Children, group shapes only.
	Children []Shape

	// BlipFill, pictures only.
	BlipFill *BlipFill

	// StartID/EndID are connector endpoint shape ids; StartIdx/EndIdx the
	// connection-site indices.
	StartID, EndID   string
	StartIdx, EndIdx string

	// GraphicContent and the hosted payloads, graphic frames only.
	GraphicContent GraphicFrameContent
	Table          *Table
	GraphicRID     string
	GraphicRaw     *xmlnode.Node
}

// shapeElementNames maps shape-tree child element names to kinds.
var shapeElementNames = map[string]ShapeKind{
	"sp":           ShapeSp,
	"grpSp":        ShapeGroup,
	"pic":          ShapePic,
	"cxnSp":        ShapeConnector,
	"graphicFrame": ShapeGraphicFrame,
}

// ParseShapeTree parses a spTree (or grpSp) element's shape children.
func ParseShapeTree(n xmlnode.Node) []Shape {
	var shapes []Shape
	for _, child := range n.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		if _, ok := shapeElementNames[child.Name]; ok {
			shapes = append(shapes, ParseShape(child))
		}
	}
	return shapes
}

// ParseShape parses a single shape element of any variant.
func ParseShape(n xmlnode.Node) Shape {
	s := Shape{Kind: shapeElementNames[n.Name]}

	switch s.Kind {
	case ShapeSp:
		if nv, ok := xmlnode.GetChild(n, "nvSpPr"); ok {
			s.NonVisual = parseNonVisual(nv)
		}
		if spPr, ok := xmlnode.GetChild(n, "spPr"); ok {
			s.Properties = ParseShapeProperties(spPr)
		}
		if style, ok := xmlnode.GetChild(n, "style"); ok {
			s.Style = &ShapeStyle{Raw: style}
		}
		if txBody, ok := xmlnode.GetChild(n, "txBody"); ok {
			tb := ParseTextBody(txBody)
			s.TextBody = &tb
		}

	case ShapeGroup:
		if nv, ok := xmlnode.GetChild(n, "nvGrpSpPr"); ok {
			s.NonVisual = parseNonVisual(nv)
		}
		if grpSpPr, ok := xmlnode.GetChild(n, "grpSpPr"); ok {
			s.Properties = ParseShapeProperties(grpSpPr)
		}
		s.Children = ParseShapeTree(n)

	case ShapePic:
		if nv, ok := xmlnode.GetChild(n, "nvPicPr"); ok {
			s.NonVisual = parseNonVisual(nv)
		}
		if blipFill, ok := xmlnode.GetChild(n, "blipFill"); ok {
			s.BlipFill = parseBlipFill(blipFill)
		}
		if spPr, ok := xmlnode.GetChild(n, "spPr"); ok {
			s.Properties = ParseShapeProperties(spPr)
		}
		if style, ok := xmlnode.GetChild(n, "style"); ok {
			s.Style = &ShapeStyle{Raw: style}
		}

	case ShapeConnector:
		if nv, ok := xmlnode.GetChild(n, "nvCxnSpPr"); ok {
			s.NonVisual = parseNonVisual(nv)
			if cNvCxnSpPr, ok := xmlnode.GetChild(nv, "cNvCxnSpPr"); ok {
				if st, ok := xmlnode.GetChild(cNvCxnSpPr, "stCxn"); ok {
					s.StartID = attrString(st, "id")
					s.StartIdx = attrString(st, "idx")
				}
				if end, ok := xmlnode.GetChild(cNvCxnSpPr, "endCxn"); ok {
					s.EndID = attrString(end, "id")
					s.EndIdx = attrString(end, "idx")
				}
			}
		}
		if spPr, ok := xmlnode.GetChild(n, "spPr"); ok {
			s.Properties = ParseShapeProperties(spPr)
		}
		if style, ok := xmlnode.GetChild(n, "style"); ok {
			s.Style = &ShapeStyle{Raw: style}
		}

	case ShapeGraphicFrame:
		if nv, ok := xmlnode.GetChild(n, "nvGraphicFramePr"); ok {
			s.NonVisual = parseNonVisual(nv)
		}
		if xfrm, ok := xmlnode.GetChild(n, "xfrm"); ok {
			t := parseTransform(xfrm)
			s.Properties.Transform = &t
		}
		if graphic, ok := xmlnode.GetChild(n, "graphic"); ok {
			if data, ok := xmlnode.GetChild(graphic, "graphicData"); ok {
				s.GraphicRaw = &data
				uri := attrString(data, "uri")
				switch {
				case tableURI == uri:
					s.GraphicContent = GraphicTable
					if tbl, ok := xmlnode.GetChild(data, "tbl"); ok {
						parsed := ParseTable(tbl)
						s.Table = &parsed
					}
				case chartURI == uri:
					s.GraphicContent = GraphicChart
					s.GraphicRID = firstRIDAttr(data)
				case diagramURI == uri:
					s.GraphicContent = GraphicDiagram
					s.GraphicRID = firstRIDAttr(data)
				case oleURI == uri:
					s.GraphicContent = GraphicOle
				}
			}
		}
	}

	return s
}

const (
	tableURI   = "http://schemas.openxmlformats.org/drawingml/2006/table"
	chartURI   = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	diagramURI = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
	oleURI     = "http://schemas.openxmlformats.org/presentationml/2006/ole"
)

func firstRIDAttr(n xmlnode.Node) string {
	for _, child := range n.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		for _, a := range child.Attrs {
			if a.Name == "id" && a.Space == "r" {
				return a.Value
			}
		}
	}
	return ""
}

// parseNonVisual parses the nv*Pr container (nvSpPr, nvPicPr, ...).
func parseNonVisual(n xmlnode.Node) NonVisual {
	nv := NonVisual{}
	if cNvPr, ok := xmlnode.GetChild(n, "cNvPr"); ok {
		nv.ID = attrString(cNvPr, "id")
		nv.Name = attrString(cNvPr, "name")
		nv.Title = attrString(cNvPr, "title")
		nv.Descr = attrString(cNvPr, "descr")
		nv.Hidden = attrBool(cNvPr, "hidden", false)
		if link, ok := xmlnode.GetChild(cNvPr, "hlinkClick"); ok {
			for _, a := range link.Attrs {
				if a.Name == "id" {
					nv.HyperlinkRID = a.Value
				}
			}
		}
	}
	// Locks live one level deeper (cNvSpPr/spLocks, cNvPicPr/picLocks...).
	for _, child := range n.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		for _, inner := range child.Children {
			if inner.Kind == xmlnode.KindElement &&
				(inner.Name == "spLocks" || inner.Name == "picLocks" ||
					inner.Name == "grpSpLocks" || inner.Name == "cxnSpLocks" ||
					inner.Name == "graphicFrameLocks") {
				nv.Locks = parseLocks(inner)
			}
		}
	}
	if nvPr, ok := xmlnode.GetChild(n, "nvPr"); ok {
		if ph, ok := xmlnode.GetChild(nvPr, "ph"); ok {
			nv.HasPlaceholder = true
			nv.PlaceholderType = attrString(ph, "type")
			nv.PlaceholderIndex = attrString(ph, "idx")
		}
	}
	return nv
}

func parseLocks(n xmlnode.Node) Locks {
	return Locks{
		NoGrouping:          attrBool(n, "noGrp", false),
		NoSelect:            attrBool(n, "noSelect", false),
		NoRotate:            attrBool(n, "noRot", false),
		NoChangeAspect:      attrBool(n, "noChangeAspect", false),
		NoMove:              attrBool(n, "noMove", false),
		NoResize:            attrBool(n, "noResize", false),
		NoEditPoints:        attrBool(n, "noEditPoints", false),
		NoAdjustHandles:     attrBool(n, "noAdjustHandles", false),
		NoChangeArrowheads:  attrBool(n, "noChangeArrowheads", false),
		NoChangeShapeType:   attrBool(n, "noChangeShapeType", false),
		NoTextEdit:          attrBool(n, "noTextEdit", false),
	}
}

// ParseShapeProperties parses spPr / grpSpPr.
func ParseShapeProperties(n xmlnode.Node) ShapeProperties {
	sp := ShapeProperties{}
	if xfrm, ok := xmlnode.GetChild(n, "xfrm"); ok {
		t := parseTransform(xfrm)
		sp.Transform = &t
	}
	sp.Geometry = ParseGeometryChoice(n)
	sp.Fill = ParseFillChoice(n)
	if ln, ok := xmlnode.GetChild(n, "ln"); ok {
		parsed := ParseLine(ln)
		sp.Line = &parsed
	}
	if effects, ok := xmlnode.GetChild(n, "effectLst"); ok {
		sp.Effects = &effects
	} else if dag, ok := xmlnode.GetChild(n, "effectDag"); ok {
		sp.Effects = &dag
	}
	if scene, ok := xmlnode.GetChild(n, "scene3d"); ok {
		sp.Scene3D = &scene
	}
	if sp3d, ok := xmlnode.GetChild(n, "sp3d"); ok {
		sp.Shape3D = &sp3d
	}
	return sp
}

func parseTransform(n xmlnode.Node) Transform {
	t := Transform{
		Rotation: attrInt64(n, "rot"),
		FlipH:    attrBool(n, "flipH", false),
		FlipV:    attrBool(n, "flipV", false),
	}
	if off, ok := xmlnode.GetChild(n, "off"); ok {
		t.OffsetX = attrInt64(off, "x")
		t.OffsetY = attrInt64(off, "y")
	}
	if ext, ok := xmlnode.GetChild(n, "ext"); ok {
		t.Width = attrInt64(ext, "cx")
		t.Height = attrInt64(ext, "cy")
	}
	if chOff, ok := xmlnode.GetChild(n, "chOff"); ok {
		t.ChildOffsetX = attrInt64Ptr(chOff, "x")
		t.ChildOffsetY = attrInt64Ptr(chOff, "y")
	}
	if chExt, ok := xmlnode.GetChild(n, "chExt"); ok {
		t.ChildWidth = attrInt64Ptr(chExt, "cx")
		t.ChildHeight = attrInt64Ptr(chExt, "cy")
	}
	return t
}

// SerializeShape renders a shape back to its element form (p:-namespaced
// shape containers with a:-namespaced drawing content).
func SerializeShape(s Shape) xmlnode.Node {
	switch s.Kind {
	case ShapeGroup:
		n := pElement("grpSp")
		n.Children = append(n.Children, serializeNonVisual("nvGrpSpPr", "cNvGrpSpPr", s.NonVisual))
		n.Children = append(n.Children, serializeShapeProperties(s.Properties, "grpSpPr"))
		for _, child := range s.Children {
			n.Children = append(n.Children, SerializeShape(child))
		}
		return n

	case ShapePic:
		n := pElement("pic")
		n.Children = append(n.Children, serializeNonVisual("nvPicPr", "cNvPicPr", s.NonVisual))
		blipFill := Fill{Kind: FillBlip, Blip: s.BlipFill}
		bf := SerializeFill(blipFill)
		bf.Space = "p"
		n.Children = append(n.Children, bf)
		n.Children = append(n.Children, serializeShapeProperties(s.Properties, "spPr"))
		if s.Style != nil {
			n.Children = append(n.Children, s.Style.Raw)
		}
		return n

	case ShapeConnector:
		n := pElement("cxnSp")
		nv := pElement("nvCxnSpPr")
		nv.Children = append(nv.Children, serializeCNvPr(s.NonVisual))
		cNv := pElement("cNvCxnSpPr")
		if s.StartID != "" {
			cNv.Children = append(cNv.Children, aElement("stCxn", attr("id", s.StartID), attr("idx", s.StartIdx)))
		}
		if s.EndID != "" {
			cNv.Children = append(cNv.Children, aElement("endCxn", attr("id", s.EndID), attr("idx", s.EndIdx)))
		}
		nv.Children = append(nv.Children, cNv)
		nv.Children = append(nv.Children, pElement("nvPr"))
		n.Children = append(n.Children, nv)
		n.Children = append(n.Children, serializeShapeProperties(s.Properties, "spPr"))
		if s.Style != nil {
			n.Children = append(n.Children, s.Style.Raw)
		}
		return n

	case ShapeGraphicFrame:
		n := pElement("graphicFrame")
		n.Children = append(n.Children, serializeNonVisual("nvGraphicFramePr", "cNvGraphicFramePr", s.NonVisual))
		if s.Properties.Transform != nil {
			xfrm := serializeTransform(*s.Properties.Transform, "p")
			n.Children = append(n.Children, xfrm)
		}
		graphic := aElement("graphic")
		if s.GraphicContent == GraphicTable && s.Table != nil {
			data := aElement("graphicData", attr("uri", tableURI))
			data.Children = append(data.Children, SerializeTable(*s.Table))
			graphic.Children = append(graphic.Children, data)
		} else if s.GraphicRaw != nil {
			graphic.Children = append(graphic.Children, *s.GraphicRaw)
		}
		n.Children = append(n.Children, graphic)
		return n

	default: // ShapeSp
		n := pElement("sp")
		n.Children = append(n.Children, serializeNonVisual("nvSpPr", "cNvSpPr", s.NonVisual))
		n.Children = append(n.Children, serializeShapeProperties(s.Properties, "spPr"))
		if s.Style != nil {
			n.Children = append(n.Children, s.Style.Raw)
		}
		if s.TextBody != nil {
			n.Children = append(n.Children, SerializeTextBody(*s.TextBody, "p"))
		}
		return n
	}
}

func serializeCNvPr(nv NonVisual) xmlnode.Node {
	cNvPr := pElement("cNvPr", attr("id", nv.ID), attr("name", nv.Name))
	if nv.Title != "" {
		cNvPr.Attrs = append(cNvPr.Attrs, attr("title", nv.Title))
	}
	if nv.Descr != "" {
		cNvPr.Attrs = append(cNvPr.Attrs, attr("descr", nv.Descr))
	}
	if nv.Hidden {
		cNvPr.Attrs = append(cNvPr.Attrs, attr("hidden", "1"))
	}
	if nv.HyperlinkRID != "" {
		cNvPr.Children = append(cNvPr.Children, aElement("hlinkClick", rAttr("id", nv.HyperlinkRID)))
	}
	return cNvPr
}

func serializeNonVisual(containerName, cNvName string, nv NonVisual) xmlnode.Node {
	n := pElement(containerName)
	n.Children = append(n.Children, serializeCNvPr(nv))
	n.Children = append(n.Children, pElement(cNvName))
	nvPr := pElement("nvPr")
	if nv.HasPlaceholder {
		ph := pElement("ph")
		if nv.PlaceholderType != "" {
			ph.Attrs = append(ph.Attrs, attr("type", nv.PlaceholderType))
		}
		if nv.PlaceholderIndex != "" {
			ph.Attrs = append(ph.Attrs, attr("idx", nv.PlaceholderIndex))
		}
		nvPr.Children = append(nvPr.Children, ph)
	}
	n.Children = append(n.Children, nvPr)
	return n
}

// serializeShapeProperties renders spPr with the canonical ECMA-376 child
// order: xfrm, geometry, fill, line, effects, 3D.
func serializeShapeProperties(sp ShapeProperties, name string) xmlnode.Node {
	n := pElement(name)
	if sp.Transform != nil {
		n.Children = append(n.Children, serializeTransform(*sp.Transform, "a"))
	}
	if !sp.Geometry.IsZero() {
		n.Children = append(n.Children, SerializeGeometry(sp.Geometry))
	}
	if !sp.Fill.IsZero() {
		n.Children = append(n.Children, SerializeFill(sp.Fill))
	}
	if sp.Line != nil {
		n.Children = append(n.Children, SerializeLine(*sp.Line))
	}
	if sp.Effects != nil {
		n.Children = append(n.Children, *sp.Effects)
	}
	if sp.Scene3D != nil {
		n.Children = append(n.Children, *sp.Scene3D)
	}
	if sp.Shape3D != nil {
		n.Children = append(n.Children, *sp.Shape3D)
	}
	return n
}

func serializeTransform(t Transform, space string) xmlnode.Node {
	n := xmlnode.Node{Kind: xmlnode.KindElement, Space: space, Name: "xfrm"}
	if t.Rotation != 0 {
		n.Attrs = append(n.Attrs, attr("rot", formatInt64(t.Rotation)))
	}
	if t.FlipH {
		n.Attrs = append(n.Attrs, attr("flipH", "1"))
	}
	if t.FlipV {
		n.Attrs = append(n.Attrs, attr("flipV", "1"))
	}
	n.Children = append(n.Children, aElement("off",
		attr("x", formatInt64(t.OffsetX)),
		attr("y", formatInt64(t.OffsetY))))
	n.Children = append(n.Children, aElement("ext",
		attr("cx", formatInt64(t.Width)),
		attr("cy", formatInt64(t.Height))))
	if t.ChildOffsetX != nil && t.ChildOffsetY != nil {
		n.Children = append(n.Children, aElement("chOff",
			attr("x", formatInt64(*t.ChildOffsetX)),
			attr("y", formatInt64(*t.ChildOffsetY))))
	}
	if t.ChildWidth != nil && t.ChildHeight != nil {
		n.Children = append(n.Children, aElement("chExt",
			attr("cx", formatInt64(*t.ChildWidth)),
			attr("cy", formatInt64(*t.ChildHeight))))
	}
	return n
}
