package drawingml

import (
	"strconv"

	"github.com/trkbt10/officekit/xmlnode"
)

// ColorKind identifies the color specification variant.
type ColorKind int

const (
	// ColorNone is the zero value: no color present.
	ColorNone ColorKind = iota
	// ColorSrgb is an explicit sRGB hex color (a:srgbClr)
	ColorSrgb
	// ColorScheme references a theme scheme slot (a:schemeClr)
	ColorScheme
	// ColorSystem references an OS system color (a:sysClr)
	ColorSystem
	// ColorPreset is a named preset color (a:prstClr)
	ColorPreset
	// ColorHsl is an explicit HSL color (a:hslClr)
	ColorHsl
	// ColorScrgb is a linear scRGB percentage color (a:scrgbClr)
	ColorScrgb
)

// ColorTransform is one entry of a color's transform chain (alpha, tint,
// shade, lumMod, lumOff, satMod, ...). Values are in 1000ths of a percent.
// Transforms apply in document order and are preserved even when the base
// color cannot be resolved.
type ColorTransform struct {
	Name  string
	Value int64
}

// Color is the tagged color-spec union. Exactly one of the variant fields
// is meaningful for a given Kind; Transforms applies to all kinds.
type Color struct {
	Kind ColorKind

	// Hex is the RRGGBB value for ColorSrgb, and the lastClr cache for
	// ColorSystem.
	Hex string

	// Name is the scheme slot, system name, or preset name.
	Name string

	// Hue is in 60000ths of a degree; Sat and Lum in 1000ths of a percent
	// (ColorHsl). R, G, B are 1000ths of a percent (ColorScrgb).
	Hue, Sat, Lum int64
	R, G, B       int64

	Transforms []ColorTransform
}

// IsZero reports whether no color was parsed.
func (c Color) IsZero() bool {
	return c.Kind == ColorNone
}

// colorElementNames maps child element names to their color kinds.
var colorElementNames = map[string]ColorKind{
	"srgbClr":  ColorSrgb,
	"schemeClr": ColorScheme,
	"sysClr":   ColorSystem,
	"prstClr":  ColorPreset,
	"hslClr":   ColorHsl,
	"scrgbClr": ColorScrgb,
}

// ParseColorChoice finds the first color-choice child of parent and parses
// it. Returns the zero Color when no choice child is present.
func ParseColorChoice(parent xmlnode.Node) Color {
	for _, child := range parent.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		if _, ok := colorElementNames[child.Name]; ok {
			return ParseColor(child)
		}
	}
	return Color{}
}

// ParseColor parses a single color element (a:srgbClr etc.) including its
// transform chain.
func ParseColor(n xmlnode.Node) Color {
	c := Color{Kind: colorElementNames[n.Name]}

	switch c.Kind {
	case ColorSrgb:
		c.Hex, _ = xmlnode.GetAttr(n, "val")
	case ColorScheme, ColorPreset:
		c.Name, _ = xmlnode.GetAttr(n, "val")
	case ColorSystem:
		c.Name, _ = xmlnode.GetAttr(n, "val")
		c.Hex, _ = xmlnode.GetAttr(n, "lastClr")
	case ColorHsl:
		c.Hue = attrInt64(n, "hue")
		c.Sat = attrInt64(n, "sat")
		c.Lum = attrInt64(n, "lum")
	case ColorScrgb:
		c.R = attrInt64(n, "r")
		c.G = attrInt64(n, "g")
		c.B = attrInt64(n, "b")
	}

	for _, child := range n.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		c.Transforms = append(c.Transforms, ColorTransform{
			Name:  child.Name,
			Value: attrInt64(child, "val"),
		})
	}

	return c
}

// SerializeColor renders a color back to its element form.
func SerializeColor(c Color) xmlnode.Node {
	var n xmlnode.Node
	switch c.Kind {
	case ColorSrgb:
		n = aElement("srgbClr", attr("val", c.Hex))
	case ColorScheme:
		n = aElement("schemeClr", attr("val", c.Name))
	case ColorSystem:
		attrs := []xmlnode.Attr{{Name: "val", Value: c.Name}}
		if c.Hex != "" {
			attrs = append(attrs, xmlnode.Attr{Name: "lastClr", Value: c.Hex})
		}
		n = xmlnode.Node{Kind: xmlnode.KindElement, Space: "a", Name: "sysClr", Attrs: attrs}
	case ColorPreset:
		n = aElement("prstClr", attr("val", c.Name))
	case ColorHsl:
		n = aElement("hslClr",
			attr("hue", strconv.FormatInt(c.Hue, 10)),
			attr("sat", strconv.FormatInt(c.Sat, 10)),
			attr("lum", strconv.FormatInt(c.Lum, 10)))
	case ColorScrgb:
		n = aElement("scrgbClr",
			attr("r", strconv.FormatInt(c.R, 10)),
			attr("g", strconv.FormatInt(c.G, 10)),
			attr("b", strconv.FormatInt(c.B, 10)))
	default:
		return xmlnode.Node{}
	}

	for _, t := range c.Transforms {
		n.Children = append(n.Children, aElement(t.Name, attr("val", strconv.FormatInt(t.Value, 10))))
	}
	return n
}
