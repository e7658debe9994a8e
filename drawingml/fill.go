package drawingml

import (
	"github.com/trkbt10/officekit/xmlnode"
)

// FillKind identifies the fill variant.
type FillKind int

const (
	// FillUnset is the zero value: no fill element present (inherit).
	FillUnset FillKind = iota
	// FillNone is a:noFill
	FillNone
	// FillSolid is a:solidFill
	FillSolid
	// FillGradient is a:gradFill
	FillGradient
	// FillPattern is a:pattFill
	FillPattern
	// FillBlip is a:blipFill (picture fill)
	FillBlip
	// FillGroup is a:grpFill (inherit from group)
	FillGroup
)

// fillElementNames maps fill element names to kinds.
var fillElementNames = map[string]FillKind{
	"noFill":    FillNone,
	"solidFill": FillSolid,
	"gradFill":  FillGradient,
	"pattFill":  FillPattern,
	"blipFill":  FillBlip,
	"grpFill":   FillGroup,
}

// GradientStop is one stop of a gradient fill. Pos is in 1000ths of a
// percent (0..100000).
type GradientStop struct {
	Pos   int64
	Color Color
}

// LinearGradient describes a:lin. Angle is in 60000ths of a degree.
type LinearGradient struct {
	Angle  int64
	Scaled bool
}

// RelRect is a relative rectangle (l/t/r/b in 1000ths of a percent).
type RelRect struct {
	Left, Top, Right, Bottom int64
}

// PathGradient describes a:path (shape/circle/rect focus gradients).
type PathGradient struct {
	Kind       string
	FillToRect *RelRect
}

// GradientFill is a:gradFill: stops plus either a linear direction or a
// path focus.
type GradientFill struct {
	Stops      []GradientStop
	Linear     *LinearGradient
	Path       *PathGradient
	TileRect   *RelRect
	RotateWithShape *bool
}

// PatternFill is a:pattFill.
type PatternFill struct {
	Preset     string
	Foreground Color
	Background Color
}

// BlipFillMode distinguishes tiled from stretched picture fills.
type BlipFillMode int

const (
	// BlipStretch is a:stretch
	BlipStretch BlipFillMode = iota
	// BlipTile is a:tile
	BlipTile
)

// BlipTileProps carries the a:tile attributes.
type BlipTileProps struct {
	TX, TY   int64
	SX, SY   int64
	Flip     string
	Align    string
}

// BlipEffect is one effect applied to a blip (alphaModFix, duotone,
// grayscl, ...). Raw children are preserved for effects the model does not
// type.
type BlipEffect struct {
	Name string
	Raw  xmlnode.Node
}

// BlipFill is a picture fill: the blip's relationship id plus tiling.
type BlipFill struct {
	ResourceID string
	Mode       BlipFillMode
	Tile       *BlipTileProps
	SrcRect    *RelRect
	Effects    []BlipEffect
	DPI        *int64
	RotateWithShape *bool
}

// Fill is the tagged fill union.
type Fill struct {
	Kind     FillKind
	Solid    Color
	Gradient *GradientFill
	Pattern  *PatternFill
	Blip     *BlipFill
}

// IsZero reports whether no fill element was present.
func (f Fill) IsZero() bool {
	return f.Kind == FillUnset
}

// ParseFillChoice finds the first fill child of parent and parses it.
func ParseFillChoice(parent xmlnode.Node) Fill {
	for _, child := range parent.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		if _, ok := fillElementNames[child.Name]; ok {
			return ParseFill(child)
		}
	}
	return Fill{}
}

// ParseFill parses a single fill element.
func ParseFill(n xmlnode.Node) Fill {
	kind := fillElementNames[n.Name]
	f := Fill{Kind: kind}

	switch kind {
	case FillSolid:
		f.Solid = ParseColorChoice(n)

	case FillGradient:
		g := &GradientFill{}
		if lst, ok := xmlnode.GetChild(n, "gsLst"); ok {
			for _, gs := range xmlnode.GetChildren(lst, "gs") {
				g.Stops = append(g.Stops, GradientStop{
					Pos:   attrInt64(gs, "pos"),
					Color: ParseColorChoice(gs),
				})
			}
		}
		if lin, ok := xmlnode.GetChild(n, "lin"); ok {
			g.Linear = &LinearGradient{
				Angle:  attrInt64(lin, "ang"),
				Scaled: attrBool(lin, "scaled", false),
			}
		}
		if path, ok := xmlnode.GetChild(n, "path"); ok {
			pg := &PathGradient{Kind: attrString(path, "path")}
			if rect, ok := xmlnode.GetChild(path, "fillToRect"); ok {
				pg.FillToRect = parseRelRect(rect)
			}
			g.Path = pg
		}
		if rect, ok := xmlnode.GetChild(n, "tileRect"); ok {
			g.TileRect = parseRelRect(rect)
		}
		g.RotateWithShape = attrBoolPtr(n, "rotWithShape")
		f.Gradient = g

	case FillPattern:
		p := &PatternFill{Preset: attrString(n, "prst")}
		if fg, ok := xmlnode.GetChild(n, "fgClr"); ok {
			p.Foreground = ParseColorChoice(fg)
		}
		if bg, ok := xmlnode.GetChild(n, "bgClr"); ok {
			p.Background = ParseColorChoice(bg)
		}
		f.Pattern = p

	case FillBlip:
		f.Blip = parseBlipFill(n)
	}

	return f
}

func parseBlipFill(n xmlnode.Node) *BlipFill {
	b := &BlipFill{}
	b.DPI = attrInt64Ptr(n, "dpi")
	b.RotateWithShape = attrBoolPtr(n, "rotWithShape")

	if blip, ok := xmlnode.GetChild(n, "blip"); ok {
		// r:embed carries the relationship id to the image part.
		for _, a := range blip.Attrs {
			if a.Name == "embed" || a.Name == "link" {
				b.ResourceID = a.Value
			}
		}
		for _, child := range blip.Children {
			if child.Kind == xmlnode.KindElement {
				b.Effects = append(b.Effects, BlipEffect{Name: child.Name, Raw: child})
			}
		}
	}
	if rect, ok := xmlnode.GetChild(n, "srcRect"); ok {
		b.SrcRect = parseRelRect(rect)
	}
	if tile, ok := xmlnode.GetChild(n, "tile"); ok {
		b.Mode = BlipTile
		b.Tile = &BlipTileProps{
			TX:    attrInt64(tile, "tx"),
			TY:    attrInt64(tile, "ty"),
			SX:    attrInt64(tile, "sx"),
			SY:    attrInt64(tile, "sy"),
			Flip:  attrString(tile, "flip"),
			Align: attrString(tile, "algn"),
		}
	} else {
		b.Mode = BlipStretch
	}
	return b
}

func parseRelRect(n xmlnode.Node) *RelRect {
	return &RelRect{
		Left:   attrInt64(n, "l"),
		Top:    attrInt64(n, "t"),
		Right:  attrInt64(n, "r"),
		Bottom: attrInt64(n, "b"),
	}
}

// SerializeFill renders a fill to its element form. FillUnset returns a
// zero node; callers skip it.
func SerializeFill(f Fill) xmlnode.Node {
	switch f.Kind {
	case FillNone:
		return aElement("noFill")

	case FillSolid:
		n := aElement("solidFill")
		if !f.Solid.IsZero() {
			n.Children = append(n.Children, SerializeColor(f.Solid))
		}
		return n

	case FillGradient:
		n := aElement("gradFill")
		if f.Gradient == nil {
			return n
		}
		if f.Gradient.RotateWithShape != nil {
			n.Attrs = append(n.Attrs, attr("rotWithShape", formatBool(*f.Gradient.RotateWithShape)))
		}
		lst := aElement("gsLst")
		for _, stop := range f.Gradient.Stops {
			gs := aElement("gs", attr("pos", formatInt64(stop.Pos)))
			gs.Children = append(gs.Children, SerializeColor(stop.Color))
			lst.Children = append(lst.Children, gs)
		}
		n.Children = append(n.Children, lst)
		if f.Gradient.Linear != nil {
			lin := aElement("lin",
				attr("ang", formatInt64(f.Gradient.Linear.Angle)),
				attr("scaled", formatBool(f.Gradient.Linear.Scaled)))
			n.Children = append(n.Children, lin)
		}
		if f.Gradient.Path != nil {
			path := aElement("path", attr("path", f.Gradient.Path.Kind))
			if f.Gradient.Path.FillToRect != nil {
				path.Children = append(path.Children, serializeRelRect("fillToRect", f.Gradient.Path.FillToRect))
			}
			n.Children = append(n.Children, path)
		}
		if f.Gradient.TileRect != nil {
			n.Children = append(n.Children, serializeRelRect("tileRect", f.Gradient.TileRect))
		}
		return n

	case FillPattern:
		n := aElement("pattFill")
		if f.Pattern == nil {
			return n
		}
		n.Attrs = append(n.Attrs, attr("prst", f.Pattern.Preset))
		if !f.Pattern.Foreground.IsZero() {
			fg := aElement("fgClr")
			fg.Children = append(fg.Children, SerializeColor(f.Pattern.Foreground))
			n.Children = append(n.Children, fg)
		}
		if !f.Pattern.Background.IsZero() {
			bg := aElement("bgClr")
			bg.Children = append(bg.Children, SerializeColor(f.Pattern.Background))
			n.Children = append(n.Children, bg)
		}
		return n

	case FillBlip:
		n := aElement("blipFill")
		if f.Blip == nil {
			return n
		}
		if f.Blip.DPI != nil {
			n.Attrs = append(n.Attrs, attr("dpi", formatInt64(*f.Blip.DPI)))
		}
		if f.Blip.RotateWithShape != nil {
			n.Attrs = append(n.Attrs, attr("rotWithShape", formatBool(*f.Blip.RotateWithShape)))
		}
		blip := aElement("blip")
		if f.Blip.ResourceID != "" {
			blip.Attrs = append(blip.Attrs, rAttr("embed", f.Blip.ResourceID))
		}
		for _, effect := range f.Blip.Effects {
			blip.Children = append(blip.Children, effect.Raw)
		}
		n.Children = append(n.Children, blip)
		if f.Blip.SrcRect != nil {
			n.Children = append(n.Children, serializeRelRect("srcRect", f.Blip.SrcRect))
		}
		if f.Blip.Mode == BlipTile && f.Blip.Tile != nil {
			tile := aElement("tile",
				attr("tx", formatInt64(f.Blip.Tile.TX)),
				attr("ty", formatInt64(f.Blip.Tile.TY)),
				attr("sx", formatInt64(f.Blip.Tile.SX)),
				attr("sy", formatInt64(f.Blip.Tile.SY)),
				attr("flip", f.Blip.Tile.Flip),
				attr("algn", f.Blip.Tile.Align))
			n.Children = append(n.Children, tile)
		} else {
			stretch := aElement("stretch")
			stretch.Children = append(stretch.Children, aElement("fillRect"))
			n.Children = append(n.Children, stretch)
		}
		return n

	case FillGroup:
		return aElement("grpFill")
	}

	return xmlnode.Node{}
}

func serializeRelRect(name string, r *RelRect) xmlnode.Node {
	n := aElement(name)
	if r.Left != 0 {
		n.Attrs = append(n.Attrs, attr("l", formatInt64(r.Left)))
	}
	if r.Top != 0 {
		n.Attrs = append(n.Attrs, attr("t", formatInt64(r.Top)))
	}
	if r.Right != 0 {
		n.Attrs = append(n.Attrs, attr("r", formatInt64(r.Right)))
	}
	if r.Bottom != 0 {
		n.Attrs = append(n.Attrs, attr("b", formatInt64(r.Bottom)))
	}
	return n
}
