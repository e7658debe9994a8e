package drawingml

import (
	"github.com/trkbt10/officekit/xmlnode"
)

// AdjustValue is one shape guide: a named formula ("val 50000" for adjust
// handles, arbitrary formulas for custom-geometry guides).
type AdjustValue struct {
	Name    string
	Formula string
}

// PathCommandKind enumerates custom-geometry path commands.
type PathCommandKind int

const (
	// PathMoveTo is a:moveTo
	PathMoveTo PathCommandKind = iota
	// PathLineTo is a:lnTo
	PathLineTo
	// PathArcTo is a:arcTo
	PathArcTo
	// PathQuadBezTo is a:quadBezTo
	PathQuadBezTo
	// PathCubicBezTo is a:cubicBezTo
	PathCubicBezTo
	// PathClose is a:close
	PathClose
)

// PathPoint is a geometry coordinate; values may be numbers or guide
// names, so they are kept as strings.
type PathPoint struct {
	X, Y string
}

// PathCommand is one step of a custom-geometry path. Arc commands carry
// the radii/angles instead of points.
type PathCommand struct {
	Kind   PathCommandKind
	Points []PathPoint

	// Arc parameters (PathArcTo): wR/hR are radii, stAng/swAng are
	// 60000ths-of-a-degree angles. Stored as strings since they may
	// reference guides.
	WidthRadius, HeightRadius string
	StartAngle, SwingAngle    string
}

// GeometryPath is one a:path of a custom geometry.
type GeometryPath struct {
	Width, Height int64
	FillMode      string
	Stroke        *bool
	ExtrusionOK   *bool
	Commands      []PathCommand
}

// ConnectionSite is a:cxn - a connector attachment point.
type ConnectionSite struct {
	Angle string
	X, Y  string
}

// PresetGeometry is a:prstGeom: a named preset plus adjust values.
type PresetGeometry struct {
	Name   string
	Adjust []AdjustValue
}

// CustomGeometry is a:custGeom.
type CustomGeometry struct {
	Adjust          []AdjustValue
	Guides          []AdjustValue
	Paths           []GeometryPath
	ConnectionSites []ConnectionSite

	// TextRect is the a:rect text bounding box (guide-name coordinates).
	TextRect *struct{ Left, Top, Right, Bottom string }
}

// Geometry is the tagged geometry union: exactly one of Preset or Custom
// is non-nil when a geometry was parsed.
type Geometry struct {
	Preset *PresetGeometry
	Custom *CustomGeometry
}

// IsZero reports whether no geometry element was present.
func (g Geometry) IsZero() bool {
	return g.Preset == nil && g.Custom == nil
}

// DefaultGeometry is the rectangle every shape falls back to when its
// geometry is removed.
func DefaultGeometry() Geometry {
	return Geometry{Preset: &PresetGeometry{Name: "rect"}}
}

// ParseGeometryChoice finds a prstGeom or custGeom child of parent.
func ParseGeometryChoice(parent xmlnode.Node) Geometry {
	if prst, ok := xmlnode.GetChild(parent, "prstGeom"); ok {
		return Geometry{Preset: parsePresetGeometry(prst)}
	}
	if cust, ok := xmlnode.GetChild(parent, "custGeom"); ok {
		return Geometry{Custom: parseCustomGeometry(cust)}
	}
	return Geometry{}
}

func parsePresetGeometry(n xmlnode.Node) *PresetGeometry {
	g := &PresetGeometry{Name: attrString(n, "prst")}
	if avLst, ok := xmlnode.GetChild(n, "avLst"); ok {
		g.Adjust = parseGuideList(avLst)
	}
	return g
}

func parseCustomGeometry(n xmlnode.Node) *CustomGeometry {
	g := &CustomGeometry{}
	if avLst, ok := xmlnode.GetChild(n, "avLst"); ok {
		g.Adjust = parseGuideList(avLst)
	}
	if gdLst, ok := xmlnode.GetChild(n, "gdLst"); ok {
		g.Guides = parseGuideList(gdLst)
	}
	if cxnLst, ok := xmlnode.GetChild(n, "cxnLst"); ok {
		for _, cxn := range xmlnode.GetChildren(cxnLst, "cxn") {
			site := ConnectionSite{Angle: attrString(cxn, "ang")}
			if pos, ok := xmlnode.GetChild(cxn, "pos"); ok {
				site.X = attrString(pos, "x")
				site.Y = attrString(pos, "y")
			}
			g.ConnectionSites = append(g.ConnectionSites, site)
		}
	}
	if rect, ok := xmlnode.GetChild(n, "rect"); ok {
		g.TextRect = &struct{ Left, Top, Right, Bottom string }{
			Left:   attrString(rect, "l"),
			Top:    attrString(rect, "t"),
			Right:  attrString(rect, "r"),
			Bottom: attrString(rect, "b"),
		}
	}
	if pathLst, ok := xmlnode.GetChild(n, "pathLst"); ok {
		for _, path := range xmlnode.GetChildren(pathLst, "path") {
			g.Paths = append(g.Paths, parseGeometryPath(path))
		}
	}
	return g
}

func parseGuideList(n xmlnode.Node) []AdjustValue {
	var out []AdjustValue
	for _, gd := range xmlnode.GetChildren(n, "gd") {
		out = append(out, AdjustValue{
			Name:    attrString(gd, "name"),
			Formula: attrString(gd, "fmla"),
		})
	}
	return out
}

func parseGeometryPath(n xmlnode.Node) GeometryPath {
	p := GeometryPath{
		Width:    attrInt64(n, "w"),
		Height:   attrInt64(n, "h"),
		FillMode: attrString(n, "fill"),
		Stroke:   attrBoolPtr(n, "stroke"),
		ExtrusionOK: attrBoolPtr(n, "extrusionOk"),
	}

	for _, child := range n.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		switch child.Name {
		case "moveTo":
			p.Commands = append(p.Commands, PathCommand{Kind: PathMoveTo, Points: childPoints(child)})
		case "lnTo":
			p.Commands = append(p.Commands, PathCommand{Kind: PathLineTo, Points: childPoints(child)})
		case "arcTo":
			p.Commands = append(p.Commands, PathCommand{
				Kind:         PathArcTo,
				WidthRadius:  attrString(child, "wR"),
				HeightRadius: attrString(child, "hR"),
				StartAngle:   attrString(child, "stAng"),
				SwingAngle:   attrString(child, "swAng"),
			})
		case "quadBezTo":
			p.Commands = append(p.Commands, PathCommand{Kind: PathQuadBezTo, Points: childPoints(child)})
		case "cubicBezTo":
			p.Commands = append(p.Commands, PathCommand{Kind: PathCubicBezTo, Points: childPoints(child)})
		case "close":
			p.Commands = append(p.Commands, PathCommand{Kind: PathClose})
		}
	}
	return p
}

func childPoints(n xmlnode.Node) []PathPoint {
	var pts []PathPoint
	for _, pt := range xmlnode.GetChildren(n, "pt") {
		pts = append(pts, PathPoint{X: attrString(pt, "x"), Y: attrString(pt, "y")})
	}
	return pts
}

// SerializeGeometry renders a geometry to prstGeom or custGeom.
func SerializeGeometry(g Geometry) xmlnode.Node {
	if g.Preset != nil {
		n := aElement("prstGeom", attr("prst", g.Preset.Name))
		avLst := aElement("avLst")
		for _, av := range g.Preset.Adjust {
			avLst.Children = append(avLst.Children, serializeGuide(av))
		}
		n.Children = append(n.Children, avLst)
		return n
	}
	if g.Custom != nil {
		n := aElement("custGeom")
		avLst := aElement("avLst")
		for _, av := range g.Custom.Adjust {
			avLst.Children = append(avLst.Children, serializeGuide(av))
		}
		n.Children = append(n.Children, avLst)
		gdLst := aElement("gdLst")
		for _, gd := range g.Custom.Guides {
			gdLst.Children = append(gdLst.Children, serializeGuide(gd))
		}
		n.Children = append(n.Children, gdLst)
		n.Children = append(n.Children, aElement("ahLst"))
		cxnLst := aElement("cxnLst")
		for _, site := range g.Custom.ConnectionSites {
			cxn := aElement("cxn", attr("ang", site.Angle))
			cxn.Children = append(cxn.Children, aElement("pos", attr("x", site.X), attr("y", site.Y)))
			cxnLst.Children = append(cxnLst.Children, cxn)
		}
		n.Children = append(n.Children, cxnLst)
		if g.Custom.TextRect != nil {
			n.Children = append(n.Children, aElement("rect",
				attr("l", g.Custom.TextRect.Left),
				attr("t", g.Custom.TextRect.Top),
				attr("r", g.Custom.TextRect.Right),
				attr("b", g.Custom.TextRect.Bottom)))
		}
		pathLst := aElement("pathLst")
		for _, path := range g.Custom.Paths {
			pathLst.Children = append(pathLst.Children, serializeGeometryPath(path))
		}
		n.Children = append(n.Children, pathLst)
		return n
	}
	return xmlnode.Node{}
}

func serializeGuide(av AdjustValue) xmlnode.Node {
	return aElement("gd", attr("name", av.Name), attr("fmla", av.Formula))
}

func serializeGeometryPath(p GeometryPath) xmlnode.Node {
	n := aElement("path")
	if p.Width != 0 {
		n.Attrs = append(n.Attrs, attr("w", formatInt64(p.Width)))
	}
	if p.Height != 0 {
		n.Attrs = append(n.Attrs, attr("h", formatInt64(p.Height)))
	}
	if p.FillMode != "" {
		n.Attrs = append(n.Attrs, attr("fill", p.FillMode))
	}
	if p.Stroke != nil {
		n.Attrs = append(n.Attrs, attr("stroke", formatBool(*p.Stroke)))
	}
	if p.ExtrusionOK != nil {
		n.Attrs = append(n.Attrs, attr("extrusionOk", formatBool(*p.ExtrusionOK)))
	}

	for _, cmd := range p.Commands {
		switch cmd.Kind {
		case PathMoveTo:
			n.Children = append(n.Children, pointsElement("moveTo", cmd.Points))
		case PathLineTo:
			n.Children = append(n.Children, pointsElement("lnTo", cmd.Points))
		case PathArcTo:
			n.Children = append(n.Children, aElement("arcTo",
				attr("wR", cmd.WidthRadius),
				attr("hR", cmd.HeightRadius),
				attr("stAng", cmd.StartAngle),
				attr("swAng", cmd.SwingAngle)))
		case PathQuadBezTo:
			n.Children = append(n.Children, pointsElement("quadBezTo", cmd.Points))
		case PathCubicBezTo:
			n.Children = append(n.Children, pointsElement("cubicBezTo", cmd.Points))
		case PathClose:
			n.Children = append(n.Children, aElement("close"))
		}
	}
	return n
}

func pointsElement(name string, pts []PathPoint) xmlnode.Node {
	n := aElement(name)
	for _, pt := range pts {
		n.Children = append(n.Children, aElement("pt", attr("x", pt.X), attr("y", pt.Y)))
	}
	return n
}
