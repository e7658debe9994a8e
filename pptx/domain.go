package pptx

import (
	"github.com/trkbt10/officekit/drawingml"
	"github.com/trkbt10/officekit/xmlnode"
)

// Background is p:bg: either a full property set (p:bgPr) or a style
// matrix reference (p:bgRef).
type Background struct {
	Fill          drawingml.Fill
	ShadeToTitle  bool
	StyleRefIndex string
	StyleRefColor drawingml.Color
}

// Transition is p:transition: a named effect with its direction variant
// and advance behaviour.
type Transition struct {
	// Effect is the child element name (fade, wipe, push, ...); Direction
	// its dir attribute when present.
	Effect    string
	Direction string

	// Speed is slow/med/fast; AdvanceTime is the auto-advance delay in
	// milliseconds (nil = on click only).
	Speed          string
	AdvanceOnClick *bool
	AdvanceTime    *int64

	// ThroughBlack mirrors cut/fade thruBlk.
	ThroughBlack bool
}

// TimeNodeKind is the element name of a timing-tree node (par, seq, anim,
// animEffect, set, audio, video, ...).
type TimeNodeKind string

// TimeNode is one node of the p:timing time-node tree. The tree shape
// mirrors the document; attributes the model does not type stay on Raw.
type TimeNode struct {
	Kind TimeNodeKind

	ID       string
	Duration string
	Delay    string

	// NodeType is the nodeType attribute (tmRoot, mainSeq, clickEffect...).
	NodeType string

	// TargetShapeID is the spTgt spid this node animates, when present.
	TargetShapeID string

	// Filter is the animEffect filter token (e.g. "wipe(left)").
	Filter string

	Children []TimeNode

	Raw xmlnode.Node
}

// SlideModel is the parsed slide assembly: the shape tree plus background,
// transition, and timing. Relationship ids referenced by shapes resolve
// through the slide's .rels part (kept on Rels by part path).
type SlideModel struct {
	Shapes []drawingml.Shape

	Background *Background
	Transition *Transition
	Timing     *TimeNode

	// ShowMasterShapes / ShowMasterPlaceholderAnimations mirror the sld
	// element's showMasterSp / showMasterPhAnim attributes (default true).
	ShowMasterShapes                 bool
	ShowMasterPlaceholderAnimations  bool

	// RelsPath is the package path of this slide's relationship part.
	RelsPath string
}

// SlideLayout is a slide with layout-specific attributes.
type SlideLayout struct {
	SlideModel

	// Type is the layout type (title, obj, twoObj, ...).
	Type string

	// Preserve and UserDrawn mirror the sldLayout attributes.
	Preserve  bool
	UserDrawn bool

	// MatchingName overrides the layout's display name.
	MatchingName string
}

// SlideMaster is a slide with master-specific attributes: the text styles
// its layouts inherit.
type SlideMaster struct {
	SlideModel

	Preserve bool

	// TitleStyle, BodyStyle, and OtherStyle preserve the p:txStyles child
	// trees; the patcher rewrites them per level group.
	TitleStyle *xmlnode.Node
	BodyStyle  *xmlnode.Node
	OtherStyle *xmlnode.Node

	// ColorMap is the p:clrMap attribute set (bg1, tx1, ...).
	ColorMap map[string]string
}

// ParseSlide parses a p:sld document root.
func ParseSlide(root xmlnode.Node) SlideModel {
	s := SlideModel{
		ShowMasterShapes:                parseBoolAttr(root, "showMasterSp", true),
		ShowMasterPlaceholderAnimations: parseBoolAttr(root, "showMasterPhAnim", true),
	}

	if cSld, ok := xmlnode.GetChild(root, "cSld"); ok {
		if bg, ok := xmlnode.GetChild(cSld, "bg"); ok {
			s.Background = parseBackground(bg)
		}
		if spTree, ok := xmlnode.GetChild(cSld, "spTree"); ok {
			s.Shapes = drawingml.ParseShapeTree(spTree)
		}
	}
	if transition, ok := xmlnode.GetChild(root, "transition"); ok {
		t := parseTransition(transition)
		s.Transition = &t
	}
	if timing, ok := xmlnode.GetChild(root, "timing"); ok {
		if tnLst, ok := xmlnode.GetChild(timing, "tnLst"); ok {
			for _, child := range tnLst.Children {
				if child.Kind == xmlnode.KindElement {
					tn := parseTimeNode(child)
					s.Timing = &tn
					break
				}
			}
		}
	}
	return s
}

// ParseNotesSlide parses a p:notes document root. Notes slides share the
// slide assembly (cSld/spTree) with a body placeholder holding the
// speaker notes.
func ParseNotesSlide(root xmlnode.Node) SlideModel {
	return ParseSlide(root)
}

// NotesText returns the text of a notes slide's body placeholder.
func NotesText(notes SlideModel) string {
	for _, shape := range notes.Shapes {
		if shape.NonVisual.HasPlaceholder && shape.NonVisual.PlaceholderType == "body" && shape.TextBody != nil {
			return shape.TextBody.PlainText()
		}
	}
	return ""
}

// ParseSlideLayout parses a p:sldLayout document root.
func ParseSlideLayout(root xmlnode.Node) SlideLayout {
	return SlideLayout{
		SlideModel:   ParseSlide(root),
		Type:         attrValue(root, "type"),
		Preserve:     parseBoolAttr(root, "preserve", false),
		UserDrawn:    parseBoolAttr(root, "userDrawn", false),
		MatchingName: attrValue(root, "matchingName"),
	}
}

// ParseSlideMaster parses a p:sldMaster document root.
func ParseSlideMaster(root xmlnode.Node) SlideMaster {
	m := SlideMaster{
		SlideModel: ParseSlide(root),
		Preserve: parseBoolAttr(root, "preserve", false),
	}
	if txStyles, ok := xmlnode.GetChild(root, "txStyles"); ok {
		if title, ok := xmlnode.GetChild(txStyles, "titleStyle"); ok {
			m.TitleStyle = &title
		}
		if body, ok := xmlnode.GetChild(txStyles, "bodyStyle"); ok {
			m.BodyStyle = &body
		}
		if other, ok := xmlnode.GetChild(txStyles, "otherStyle"); ok {
			m.OtherStyle = &other
		}
	}
	if clrMap, ok := xmlnode.GetChild(root, "clrMap"); ok {
		m.ColorMap = make(map[string]string, len(clrMap.Attrs))
		for _, a := range clrMap.Attrs {
			m.ColorMap[a.Name] = a.Value
		}
	}
	return m
}

func parseBackground(bg xmlnode.Node) *Background {
	b := &Background{}
	if bgPr, ok := xmlnode.GetChild(bg, "bgPr"); ok {
		b.Fill = drawingml.ParseFillChoice(bgPr)
		b.ShadeToTitle = parseBoolAttr(bgPr, "shadeToTitle", false)
	}
	if bgRef, ok := xmlnode.GetChild(bg, "bgRef"); ok {
		b.StyleRefIndex = attrValue(bgRef, "idx")
		b.StyleRefColor = drawingml.ParseColorChoice(bgRef)
	}
	return b
}

// transitionEffectNames are the p:transition children that name an effect.
var transitionEffectNames = map[string]bool{
	"blinds": true, "checker": true, "circle": true, "comb": true,
	"cover": true, "cut": true, "diamond": true, "dissolve": true,
	"fade": true, "newsflash": true, "plus": true, "pull": true,
	"push": true, "random": true, "randomBar": true, "split": true,
	"strips": true, "wedge": true, "wheel": true, "wipe": true, "zoom": true,
}

func parseTransition(n xmlnode.Node) Transition {
	t := Transition{
		Speed:          attrValue(n, "spd"),
		AdvanceOnClick: parseBoolAttrPtr(n, "advClick"),
	}
	if v := attrValue(n, "advTm"); v != "" {
		if parsed, ok := parseInt64(v); ok {
			t.AdvanceTime = &parsed
		}
	}
	for _, child := range n.Children {
		if child.Kind != xmlnode.KindElement {
			continue
		}
		if transitionEffectNames[child.Name] {
			t.Effect = child.Name
			t.Direction = attrValue(child, "dir")
			t.ThroughBlack = parseBoolAttr(child, "thruBlk", false)
			break
		}
	}
	return t
}

func parseTimeNode(n xmlnode.Node) TimeNode {
	tn := TimeNode{Kind: TimeNodeKind(n.Name), Raw: n}

	// The common time-node attributes live on the cTn child of par/seq
	// wrappers and on cBhvr/cTn for behaviours.
	if cTn, ok := xmlnode.GetChild(n, "cTn"); ok {
		tn.ID = attrValue(cTn, "id")
		tn.Duration = attrValue(cTn, "dur")
		tn.NodeType = attrValue(cTn, "nodeType")
		if stCondLst, ok := xmlnode.GetChild(cTn, "stCondLst"); ok {
			if cond, ok := xmlnode.GetChild(stCondLst, "cond"); ok {
				tn.Delay = attrValue(cond, "delay")
			}
		}
		if childLst, ok := xmlnode.GetChild(cTn, "childTnLst"); ok {
			for _, child := range childLst.Children {
				if child.Kind == xmlnode.KindElement {
					tn.Children = append(tn.Children, parseTimeNode(child))
				}
			}
		}
	}

	if n.Name == "animEffect" {
		tn.Filter = attrValue(n, "filter")
	}
	if cBhvr, ok := xmlnode.GetChild(n, "cBhvr"); ok {
		if tgtEl, ok := xmlnode.GetChild(cBhvr, "tgtEl"); ok {
			if spTgt, ok := xmlnode.GetChild(tgtEl, "spTgt"); ok {
				tn.TargetShapeID = attrValue(spTgt, "spid")
			}
		}
	}

	return tn
}

func attrValue(n xmlnode.Node, name string) string {
	v, _ := xmlnode.GetAttr(n, name)
	return v
}

func parseBoolAttr(n xmlnode.Node, name string, def bool) bool {
	v, ok := xmlnode.GetAttr(n, name)
	if !ok {
		return def
	}
	switch v {
	case "1", "true":
		return true
	case "0", "false":
		return false
	}
	return def
}

func parseBoolAttrPtr(n xmlnode.Node, name string) *bool {
	v, ok := xmlnode.GetAttr(n, name)
	if !ok {
		return nil
	}
	var b bool
	switch v {
	case "1", "true":
		b = true
	case "0", "false":
		b = false
	default:
		return nil
	}
	return &b
}

func parseInt64(s string) (int64, bool) {
	var out int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		out = out*10 + int64(c-'0')
	}
	return out, true
}
