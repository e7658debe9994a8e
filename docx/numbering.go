package docx

import (
	"github.com/trkbt10/officekit/xmlnode"
)

// NumberingLevel is one w:lvl of an abstract numbering definition.
type NumberingLevel struct {
	Level  int64
	Start  int64
	Format string // decimal, bullet, lowerLetter, ...
	Text   string // w:lvlText, e.g. "%1." or a bullet glyph
	Align  string

	// Indent is the w:ind left value in twentieths of a point.
	Indent int64
}

// Numbering is the parsed word/numbering.xml part: abstract definitions
// plus the num-id instances that reference them.
type Numbering struct {
	abstract  map[string][]NumberingLevel
	instances map[string]string // numId -> abstractNumId
}

// ParseNumbering parses a w:numbering document root.
func ParseNumbering(root xmlnode.Node) Numbering {
	n := Numbering{
		abstract:  make(map[string][]NumberingLevel),
		instances: make(map[string]string),
	}

	for _, abs := range xmlnode.GetChildren(root, "abstractNum") {
		id := attrVal(abs, "abstractNumId")
		var levels []NumberingLevel
		for _, lvl := range xmlnode.GetChildren(abs, "lvl") {
			level := NumberingLevel{
				Level:  attrInt(lvl, "ilvl"),
				Format: childVal(lvl, "numFmt"),
				Text:   childVal(lvl, "lvlText"),
				Align:  childVal(lvl, "lvlJc"),
			}
			if start, ok := xmlnode.GetChild(lvl, "start"); ok {
				level.Start = attrInt(start, "val")
			}
			if pPr, ok := xmlnode.GetChild(lvl, "pPr"); ok {
				if ind, ok := xmlnode.GetChild(pPr, "ind"); ok {
					level.Indent = attrInt(ind, "left")
				}
			}
			levels = append(levels, level)
		}
		n.abstract[id] = levels
	}

	for _, num := range xmlnode.GetChildren(root, "num") {
		id := attrVal(num, "numId")
		n.instances[id] = childVal(num, "abstractNumId")
	}

	return n
}

// Level resolves a paragraph's (numId, ilvl) pair to its level
// definition.
func (n Numbering) Level(numID string, ilvl int64) (NumberingLevel, bool) {
	abstractID, ok := n.instances[numID]
	if !ok {
		return NumberingLevel{}, false
	}
	for _, level := range n.abstract[abstractID] {
		if level.Level == ilvl {
			return level, true
		}
	}
	return NumberingLevel{}, false
}

// IsBullet reports whether the resolved level renders as a bullet rather
// than a counter.
func (n Numbering) IsBullet(numID string, ilvl int64) bool {
	level, ok := n.Level(numID, ilvl)
	return ok && level.Format == "bullet"
}
