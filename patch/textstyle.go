package patch

import (
	"fmt"

	"github.com/trkbt10/officekit/drawingml"
	"github.com/trkbt10/officekit/xmlnode"
)

// SpacingGroup is the spacing replacement for one style level: line,
// before, and after paragraph spacing replaced as a unit.
type SpacingGroup struct {
	Line   drawingml.Spacing
	Before drawingml.Spacing
	After  drawingml.Spacing
}

// TextStyleGroups names the per-group replacements the text-style patcher
// supports. Nil groups leave the existing children untouched.
type TextStyleGroups struct {
	Spacing              *SpacingGroup
	Bullet               *drawingml.Bullet
	Tabs                 *[]drawingml.TabStop
	DefaultRunProperties *drawingml.RunProperties
}

// Text-style level paragraph-property child groups.
var spacingNames = []string{"lnSpc", "spcBef", "spcAft"}
var bulletNames = []string{
	"buClrTx", "buClr", "buSzTx", "buSzPct", "buSzPts",
	"buFontTx", "buFont", "buNone", "buChar", "buAutoNum", "buBlip",
}

// Canonical child order inside lvlXpPr: spacing, bullets, tabs, defRPr,
// extLst last.
var lvlPPrOrder = map[string]int{
	"lnSpc": 0, "spcBef": 1, "spcAft": 2,
	"buClrTx": 3, "buClr": 3,
	"buSzTx": 4, "buSzPct": 4, "buSzPts": 4,
	"buFontTx": 5, "buFont": 5,
	"buNone": 6, "buChar": 6, "buAutoNum": 6, "buBlip": 6,
	"tabLst": 7,
	"defRPr": 8,
	"extLst": 9,
}

// PatchTextStyleLevel patches one indent level (1-9) of a text-style
// element (p:titleStyle, p:bodyStyle, p:otherStyle). For each named group
// only that group's existing children are removed before the new ones are
// inserted; everything else — including a:extLst at the tail — stays.
func PatchTextStyleLevel(style xmlnode.Node, level int, groups TextStyleGroups) (xmlnode.Node, error) {
	if level < 1 || level > 9 {
		return style, fmt.Errorf("text style level %d out of range 1..9", level)
	}
	lvlName := fmt.Sprintf("lvl%dpPr", level)

	out := style
	if _, ok := xmlnode.GetChild(out, lvlName); !ok {
		// Create the level element; levels order numerically with extLst
		// kept last.
		idx := len(out.Children)
		for i, c := range out.Children {
			if c.Kind != xmlnode.KindElement {
				continue
			}
			if c.Name == "extLst" {
				idx = i
				break
			}
			var existing int
			if n, err := fmt.Sscanf(c.Name, "lvl%dpPr", &existing); n == 1 && err == nil && existing > level {
				idx = i
				break
			}
		}
		out = xmlnode.InsertChildAt(out, idx, xmlnode.Node{Kind: xmlnode.KindElement, Space: "a", Name: lvlName})
	}

	out = xmlnode.UpdateChildByName(out, lvlName, func(lvl xmlnode.Node) xmlnode.Node {
		return patchLevelProperties(lvl, groups)
	})
	return out, nil
}

func patchLevelProperties(lvl xmlnode.Node, groups TextStyleGroups) xmlnode.Node {
	out := lvl

	if groups.Spacing != nil {
		props := drawingml.ParagraphProperties{
			SpacingLine:   groups.Spacing.Line,
			SpacingBefore: groups.Spacing.Before,
			SpacingAfter:  groups.Spacing.After,
		}
		rendered := drawingml.SerializeParagraphProperties(props)
		out = replaceNamedGroup(out, spacingNames, elementChildren(rendered))
	}

	if groups.Bullet != nil {
		props := drawingml.ParagraphProperties{Bullet: *groups.Bullet}
		rendered := drawingml.SerializeParagraphProperties(props)
		out = replaceNamedGroup(out, bulletNames, elementChildren(rendered))
	}

	if groups.Tabs != nil {
		props := drawingml.ParagraphProperties{Tabs: *groups.Tabs}
		rendered := drawingml.SerializeParagraphProperties(props)
		out = replaceNamedGroup(out, []string{"tabLst"}, elementChildren(rendered))
	}

	if groups.DefaultRunProperties != nil {
		props := drawingml.ParagraphProperties{DefaultRunProperties: groups.DefaultRunProperties}
		rendered := drawingml.SerializeParagraphProperties(props)
		out = replaceNamedGroup(out, []string{"defRPr"}, elementChildren(rendered))
	}

	return out
}

func elementChildren(n xmlnode.Node) []xmlnode.Node {
	var out []xmlnode.Node
	for _, c := range n.Children {
		if c.Kind == xmlnode.KindElement {
			out = append(out, c)
		}
	}
	return out
}

// replaceNamedGroup removes only the named group's children and inserts
// the replacements at the group's canonical position, leaving every other
// child — extLst included — where it was.
func replaceNamedGroup(parent xmlnode.Node, groupNames []string, replacements []xmlnode.Node) xmlnode.Node {
	inGroup := map[string]bool{}
	for _, name := range groupNames {
		inGroup[name] = true
	}

	out := parent
	insertAt := -1
	for i := 0; i < len(out.Children); i++ {
		c := out.Children[i]
		if c.Kind != xmlnode.KindElement || !inGroup[c.Name] {
			continue
		}
		if insertAt < 0 {
			insertAt = i
		}
		out = xmlnode.RemoveChildAt(out, i)
		i--
	}

	if insertAt < 0 {
		// No existing member: insert by canonical rank, before extLst.
		rank := len(lvlPPrOrder)
		if len(replacements) > 0 {
			rank = lvlPPrOrder[replacements[0].Name]
		}
		insertAt = len(out.Children)
		for i, c := range out.Children {
			if c.Kind != xmlnode.KindElement {
				continue
			}
			r, known := lvlPPrOrder[c.Name]
			if known && r > rank {
				insertAt = i
				break
			}
		}
	}

	for i, repl := range replacements {
		out = xmlnode.InsertChildAt(out, insertAt+i, repl)
	}
	return out
}
