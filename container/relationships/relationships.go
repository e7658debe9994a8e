// Package relationships resolves the OOXML relationship graph: the
// sibling _rels/<leaf>.rels part that every XML part may carry, enumerating
// typed references to other parts or external resources.
package relationships

import (
	"encoding/xml"
	"path"
	"strings"

	"github.com/trkbt10/officekit/internal/errs"
)

// Mode distinguishes an internal package reference from an external URI.
type Mode string

const (
	ModeInternal Mode = "Internal"
	ModeExternal Mode = "External"
)

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID     string
	Type   string
	Target string
	Mode   Mode
}

// relsFile mirrors the fixed schema of a .rels XML document.
type relsFile struct {
	XMLName xml.Name `xml:"Relationships"`
	Rels    []relXML `xml:"Relationship"`
}

type relXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// Graph holds every part's parsed relationships, keyed by the owning part's
// path.
type Graph struct {
	byPart map[string][]Relationship
}

// NewGraph creates an empty relationship graph.
func NewGraph() *Graph {
	return &Graph{byPart: make(map[string][]Relationship)}
}

// GetRelationshipsPath returns the sibling .rels path for an OOXML part,
// e.g. "ppt/slides/slide1.xml" -> "ppt/slides/_rels/slide1.xml.rels".
func GetRelationshipsPath(partPath string) string {
	dir := path.Dir(partPath)
	leaf := path.Base(partPath)
	if dir == "." {
		return "_rels/" + leaf + ".rels"
	}
	return dir + "/_rels/" + leaf + ".rels"
}

// LoadPart parses a .rels document's bytes and registers its relationships
// against the owning part path.
func (g *Graph) LoadPart(partPath string, relsXMLBytes []byte) error {
	var doc relsFile
	if err := xml.Unmarshal(relsXMLBytes, &doc); err != nil {
		return &errs.ParseError{Path: GetRelationshipsPath(partPath), Message: err.Error()}
	}

	rels := make([]Relationship, 0, len(doc.Rels))
	for _, r := range doc.Rels {
		mode := ModeInternal
		if strings.EqualFold(r.TargetMode, "External") {
			mode = ModeExternal
		}
		rels = append(rels, Relationship{ID: r.ID, Type: r.Type, Target: r.Target, Mode: mode})
	}
	g.byPart[partPath] = rels
	return nil
}

// Relationships returns the relationships declared by partPath, or nil if
// none were loaded.
func (g *Graph) Relationships(partPath string) []Relationship {
	return g.byPart[partPath]
}

// ByID returns the relationship with the given id declared by partPath.
func (g *Graph) ByID(partPath, rID string) (Relationship, bool) {
	for _, r := range g.byPart[partPath] {
		if r.ID == rID {
			return r, true
		}
	}
	return Relationship{}, false
}

// Resolve resolves a relationship id declared on source to an absolute
// package path. External relationships return their target verbatim (it is
// not a package path).
//
// Relative targets are resolved against dirname(source); a leading "/"
// means package-root; ".." segments are collapsed.
func (g *Graph) Resolve(source, rID string) (string, error) {
	rel, ok := g.ByID(source, rID)
	if !ok {
		return "", &errs.ResourceNotFound{RID: rID, SourcePart: source}
	}
	if rel.Mode == ModeExternal {
		return rel.Target, nil
	}
	return ResolvePartPath(source, rel.Target), nil
}

// ResolvePartPath resolves a relationship target against the part that
// declared it, per OOXML's relative-reference rules.
func ResolvePartPath(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return collapse(strings.TrimPrefix(target, "/"))
	}
	dir := path.Dir(source)
	if dir == "." {
		return collapse(target)
	}
	return collapse(dir + "/" + target)
}

// collapse resolves ".." and "." segments without touching the filesystem,
// since package paths are virtual.
func collapse(p string) string {
	segments := strings.Split(p, "/")
	var out []string
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/")
}
