package patch

import (
	"github.com/trkbt10/officekit/drawingml"
	"github.com/trkbt10/officekit/xmlnode"
)

// ShapePatch describes property changes for one shape element. Nil fields
// leave the property untouched; the Clear flags remove it (with defaults
// re-emitted where the schema requires an element).
type ShapePatch struct {
	Transform      *drawingml.Transform
	ClearTransform bool

	Geometry      *drawingml.Geometry
	ClearGeometry bool

	Fill      *drawingml.Fill
	ClearFill bool

	Line      *drawingml.Line
	ClearLine bool

	Effects      *xmlnode.Node
	ClearEffects bool

	TextBody      *drawingml.TextBody
	ClearTextBody bool

	BlipFill *drawingml.BlipFill
}

// spPr child groups, in canonical ECMA-376 order. Rank drives insertion
// position for members that do not yet exist; members not listed (vendor
// extensions) keep their positions untouched.
var spPrOrder = map[string]int{
	"xfrm":     0,
	"custGeom": 1, "prstGeom": 1,
	"noFill": 2, "solidFill": 2, "gradFill": 2, "blipFill": 2, "pattFill": 2, "grpFill": 2,
	"ln":        3,
	"effectLst": 4, "effectDag": 4,
	"scene3d": 5,
	"sp3d":    6,
	"extLst":  7,
}

var fillNames = []string{"noFill", "solidFill", "gradFill", "blipFill", "pattFill", "grpFill"}
var geometryNames = []string{"prstGeom", "custGeom"}
var effectNames = []string{"effectLst", "effectDag"}

// PatchShapeElement applies a ShapePatch to a serialized shape element
// (sp, pic, cxnSp, grpSp), returning a new element. Unknown siblings and
// attributes are preserved in place.
func PatchShapeElement(shape xmlnode.Node, p ShapePatch) xmlnode.Node {
	out := shape

	spPrName := "spPr"
	if shape.Name == "grpSp" {
		spPrName = "grpSpPr"
	}

	out = xmlnode.UpdateChildByName(out, spPrName, func(spPr xmlnode.Node) xmlnode.Node {
		return patchSpPr(spPr, p)
	})

	if p.TextBody != nil {
		serialized := drawingml.SerializeTextBody(*p.TextBody, "p")
		if _, ok := xmlnode.GetChild(out, "txBody"); ok {
			out = xmlnode.ReplaceChildByName(out, "txBody", serialized)
		} else {
			out = xmlnode.InsertChildAt(out, len(out.Children), serialized)
		}
	} else if p.ClearTextBody {
		out = removeChildrenNamed(out, "txBody")
	}

	if p.BlipFill != nil && shape.Name == "pic" {
		fill := drawingml.Fill{Kind: drawingml.FillBlip, Blip: p.BlipFill}
		serialized := drawingml.SerializeFill(fill)
		serialized.Space = "p"
		if _, ok := xmlnode.GetChild(out, "blipFill"); ok {
			out = xmlnode.ReplaceChildByName(out, "blipFill", serialized)
		} else {
			// blipFill sits between nvPicPr and spPr.
			idx := indexOfChild(out, "spPr")
			if idx < 0 {
				idx = len(out.Children)
			}
			out = xmlnode.InsertChildAt(out, idx, serialized)
		}
	}

	return out
}

func patchSpPr(spPr xmlnode.Node, p ShapePatch) xmlnode.Node {
	out := spPr

	if p.Transform != nil {
		out = replaceGroup(out, []string{"xfrm"}, serializeTransformNode(*p.Transform))
	} else if p.ClearTransform {
		out = removeChildrenNamed(out, "xfrm")
	}

	if p.Geometry != nil {
		out = replaceGroup(out, geometryNames, drawingml.SerializeGeometry(*p.Geometry))
	} else if p.ClearGeometry {
		// Removing geometry reinserts the schema-default rectangle.
		out = replaceGroup(out, geometryNames, drawingml.SerializeGeometry(drawingml.DefaultGeometry()))
	}

	if p.Fill != nil {
		out = replaceGroup(out, fillNames, drawingml.SerializeFill(*p.Fill))
	} else if p.ClearFill {
		for _, name := range fillNames {
			out = removeChildrenNamed(out, name)
		}
	}

	if p.Line != nil {
		out = replaceGroup(out, []string{"ln"}, drawingml.SerializeLine(*p.Line))
	} else if p.ClearLine {
		out = removeChildrenNamed(out, "ln")
	}

	if p.Effects != nil {
		out = replaceGroup(out, effectNames, *p.Effects)
	} else if p.ClearEffects {
		for _, name := range effectNames {
			out = removeChildrenNamed(out, name)
		}
	}

	return out
}

// replaceGroup swaps the single member of a child group for replacement:
// the first existing group member is replaced in position and any further
// members removed; with no existing member, the replacement is inserted at
// its canonical rank.
func replaceGroup(parent xmlnode.Node, groupNames []string, replacement xmlnode.Node) xmlnode.Node {
	inGroup := map[string]bool{}
	for _, name := range groupNames {
		inGroup[name] = true
	}

	out := parent
	replaced := false
	for i := 0; i < len(out.Children); i++ {
		c := out.Children[i]
		if c.Kind != xmlnode.KindElement || !inGroup[c.Name] {
			continue
		}
		if !replaced {
			out = xmlnode.ReplaceChildAt(out, i, replacement)
			replaced = true
			continue
		}
		out = xmlnode.RemoveChildAt(out, i)
		i--
	}
	if replaced {
		return out
	}

	rank := spPrOrder[replacement.Name]
	idx := len(out.Children)
	for i, c := range out.Children {
		if c.Kind != xmlnode.KindElement {
			continue
		}
		r, known := spPrOrder[c.Name]
		if known && r > rank {
			idx = i
			break
		}
	}
	return xmlnode.InsertChildAt(out, idx, replacement)
}

func removeChildrenNamed(parent xmlnode.Node, name string) xmlnode.Node {
	out := parent
	for i := 0; i < len(out.Children); i++ {
		if out.Children[i].Kind == xmlnode.KindElement && out.Children[i].Name == name {
			out = xmlnode.RemoveChildAt(out, i)
			i--
		}
	}
	return out
}

func indexOfChild(parent xmlnode.Node, name string) int {
	for i, c := range parent.Children {
		if c.Kind == xmlnode.KindElement && c.Name == name {
			return i
		}
	}
	return -1
}

// serializeTransformNode renders an a:xfrm element for patching.
func serializeTransformNode(t drawingml.Transform) xmlnode.Node {
	// Serialize a throwaway shape and pull its xfrm, keeping a single
	// source of truth for transform serialization.
	shape := drawingml.Shape{Kind: drawingml.ShapeSp, Properties: drawingml.ShapeProperties{Transform: &t}}
	serialized := drawingml.SerializeShape(shape)
	if spPr, ok := xmlnode.GetChild(serialized, "spPr"); ok {
		if xfrm, ok := xmlnode.GetChild(spPr, "xfrm"); ok {
			return xfrm
		}
	}
	return xmlnode.Node{Kind: xmlnode.KindElement, Space: "a", Name: "xfrm"}
}
