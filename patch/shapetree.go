package patch

import (
	"fmt"
	"strconv"

	"github.com/mohae/deepcopy"
	"github.com/trkbt10/officekit/internal/errs"
	"github.com/trkbt10/officekit/xmlnode"
)

// OpKind enumerates shape-tree operations.
type OpKind int

const (
	// OpAdd inserts a shape
	OpAdd OpKind = iota
	// OpRemove deletes a shape by id
	OpRemove
	// OpReplace swaps a shape by id
	OpReplace
)

// Operation is one shape-tree edit. Operations apply left to right, and
// every intermediate tree is valid.
type Operation struct {
	Kind OpKind

	// Shape is the serialized shape element for OpAdd / OpReplace.
	Shape xmlnode.Node

	// ShapeID targets OpRemove / OpReplace.
	ShapeID string

	// AfterID places an OpAdd immediately after the named direct child;
	// unresolvable ids append. Never placed before the leading
	// nvGrpSpPr/grpSpPr pair.
	AfterID string

	// ParentID places an OpAdd inside the named group shape instead of
	// the tree root.
	ParentID string
}

// shapeElementNames are the spTree children that are shapes.
var shapeElementNames = map[string]bool{
	"sp": true, "grpSp": true, "pic": true, "cxnSp": true, "graphicFrame": true,
}

// ApplyShapeTreeOps applies operations to an spTree element in order. On
// failure the returned tree is the state before the failing operation and
// the error names the operation index.
func ApplyShapeTreeOps(spTree xmlnode.Node, ops []Operation) (xmlnode.Node, error) {
	tree := spTree
	for i, op := range ops {
		next, err := applyOne(tree, op)
		if err != nil {
			return tree, fmt.Errorf("operation %d: %w", i, err)
		}
		tree = next
	}
	return tree, nil
}

func applyOne(tree xmlnode.Node, op Operation) (xmlnode.Node, error) {
	switch op.Kind {
	case OpAdd:
		return applyAdd(tree, op)
	case OpRemove:
		next, removed := removeShapeByID(tree, op.ShapeID)
		if !removed {
			return tree, &errs.ResourceNotFound{RID: op.ShapeID, SourcePart: "spTree"}
		}
		return next, nil
	case OpReplace:
		next, replaced := replaceShapeByID(tree, op.ShapeID, op.Shape)
		if !replaced {
			return tree, &errs.ResourceNotFound{RID: op.ShapeID, SourcePart: "spTree"}
		}
		return next, nil
	}
	return tree, fmt.Errorf("unknown operation kind %d", op.Kind)
}

func applyAdd(tree xmlnode.Node, op Operation) (xmlnode.Node, error) {
	// Clone so the output tree never aliases the caller's node.
	inserted := deepcopy.Copy(op.Shape).(xmlnode.Node)

	// Two-pass unique-id enforcement: detect collisions against the
	// whole destination tree, then rewrite connector endpoints inside
	// the inserted subtree in lockstep.
	existing := map[string]bool{}
	collectShapeIDs(tree, existing)
	inserted, remapped := ensureUniqueIDsForInsertion(inserted, existing)
	if len(remapped) > 0 {
		inserted = rewriteConnectorEndpoints(inserted, remapped)
	}

	if op.ParentID != "" {
		next, ok := insertIntoGroup(tree, op.ParentID, inserted, op.AfterID)
		if !ok {
			return tree, &errs.ResourceNotFound{RID: op.ParentID, SourcePart: "spTree"}
		}
		return next, nil
	}
	return insertShape(tree, inserted, op.AfterID), nil
}

// insertShape places child into parent honouring AfterID and the leading
// non-shape header (nvGrpSpPr/grpSpPr).
func insertShape(parent xmlnode.Node, child xmlnode.Node, afterID string) xmlnode.Node {
	idx := insertionIndex(parent, afterID)
	return xmlnode.InsertChildAt(parent, idx, child)
}

func insertionIndex(parent xmlnode.Node, afterID string) int {
	if afterID != "" {
		for i, c := range parent.Children {
			if c.Kind == xmlnode.KindElement && shapeElementNames[c.Name] && shapeID(c) == afterID {
				return i + 1
			}
		}
	}
	// Append: after the last child, which is always at or past the
	// leading nvGrpSpPr/grpSpPr pair.
	return len(parent.Children)
}

func insertIntoGroup(tree xmlnode.Node, parentID string, child xmlnode.Node, afterID string) (xmlnode.Node, bool) {
	for i, c := range tree.Children {
		if c.Kind != xmlnode.KindElement || !shapeElementNames[c.Name] {
			continue
		}
		if c.Name == "grpSp" && shapeID(c) == parentID {
			return xmlnode.ReplaceChildAt(tree, i, insertShape(c, child, afterID)), true
		}
		if c.Name == "grpSp" {
			if next, ok := insertIntoGroup(c, parentID, child, afterID); ok {
				return xmlnode.ReplaceChildAt(tree, i, next), true
			}
		}
	}
	return tree, false
}

func removeShapeByID(tree xmlnode.Node, id string) (xmlnode.Node, bool) {
	for i, c := range tree.Children {
		if c.Kind != xmlnode.KindElement || !shapeElementNames[c.Name] {
			continue
		}
		if shapeID(c) == id {
			return xmlnode.RemoveChildAt(tree, i), true
		}
		if c.Name == "grpSp" {
			if next, ok := removeShapeByID(c, id); ok {
				return xmlnode.ReplaceChildAt(tree, i, next), true
			}
		}
	}
	return tree, false
}

func replaceShapeByID(tree xmlnode.Node, id string, replacement xmlnode.Node) (xmlnode.Node, bool) {
	for i, c := range tree.Children {
		if c.Kind != xmlnode.KindElement || !shapeElementNames[c.Name] {
			continue
		}
		if shapeID(c) == id {
			cloned := deepcopy.Copy(replacement).(xmlnode.Node)
			return xmlnode.ReplaceChildAt(tree, i, cloned), true
		}
		if c.Name == "grpSp" {
			if next, ok := replaceShapeByID(c, id, replacement); ok {
				return xmlnode.ReplaceChildAt(tree, i, next), true
			}
		}
	}
	return tree, false
}

// shapeID extracts a shape element's cNvPr id.
func shapeID(shape xmlnode.Node) string {
	for _, nv := range shape.Children {
		if nv.Kind != xmlnode.KindElement {
			continue
		}
		switch nv.Name {
		case "nvSpPr", "nvGrpSpPr", "nvPicPr", "nvCxnSpPr", "nvGraphicFramePr":
			if cNvPr, ok := xmlnode.GetChild(nv, "cNvPr"); ok {
				id, _ := xmlnode.GetAttr(cNvPr, "id")
				return id
			}
		}
	}
	return ""
}

// collectShapeIDs gathers every shape id in the tree, including the tree's
// own header id and nested group children.
func collectShapeIDs(tree xmlnode.Node, into map[string]bool) {
	if id := shapeID(tree); id != "" {
		into[id] = true
	}
	for _, c := range tree.Children {
		if c.Kind != xmlnode.KindElement {
			continue
		}
		if shapeElementNames[c.Name] {
			collectShapeIDs(c, into)
		}
	}
}

// ensureUniqueIDsForInsertion rewrites ids in the inserted subtree that
// collide with the destination, returning the rewritten subtree and the
// old-to-new id map.
func ensureUniqueIDsForInsertion(inserted xmlnode.Node, existing map[string]bool) (xmlnode.Node, map[string]string) {
	remapped := map[string]string{}

	// Seed the allocator past every id on either side.
	next := int64(1)
	bump := func(id string) {
		if v, err := strconv.ParseInt(id, 10, 64); err == nil && v >= next {
			next = v + 1
		}
	}
	for id := range existing {
		bump(id)
	}
	insertedIDs := map[string]bool{}
	collectShapeIDs(inserted, insertedIDs)
	for id := range insertedIDs {
		bump(id)
	}

	var rewrite func(n xmlnode.Node) xmlnode.Node
	rewrite = func(n xmlnode.Node) xmlnode.Node {
		out := n
		if shapeElementNames[n.Name] || n.Name == "spTree" {
			if id := shapeID(n); id != "" && existing[id] {
				newID := strconv.FormatInt(next, 10)
				next++
				remapped[id] = newID
				out = setShapeID(out, newID)
			}
		}
		for i, c := range out.Children {
			if c.Kind == xmlnode.KindElement && shapeElementNames[c.Name] {
				out = xmlnode.ReplaceChildAt(out, i, rewrite(c))
			}
		}
		return out
	}

	return rewrite(inserted), remapped
}

func setShapeID(shape xmlnode.Node, id string) xmlnode.Node {
	out := shape
	for i, nv := range out.Children {
		if nv.Kind != xmlnode.KindElement {
			continue
		}
		switch nv.Name {
		case "nvSpPr", "nvGrpSpPr", "nvPicPr", "nvCxnSpPr", "nvGraphicFramePr":
			updated := xmlnode.UpdateChildByName(nv, "cNvPr", func(cNvPr xmlnode.Node) xmlnode.Node {
				return setAttr(cNvPr, "id", id)
			})
			out = xmlnode.ReplaceChildAt(out, i, updated)
		}
	}
	return out
}

func setAttr(n xmlnode.Node, name, value string) xmlnode.Node {
	out := n
	attrs := make([]xmlnode.Attr, len(n.Attrs))
	copy(attrs, n.Attrs)
	found := false
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			found = true
		}
	}
	if !found {
		attrs = append(attrs, xmlnode.Attr{Name: name, Value: value})
	}
	out.Attrs = attrs
	return out
}

// rewriteConnectorEndpoints updates stCxn/endCxn ids inside the inserted
// subtree for every remapped shape id.
func rewriteConnectorEndpoints(tree xmlnode.Node, remapped map[string]string) xmlnode.Node {
	var walk func(n xmlnode.Node) xmlnode.Node
	walk = func(n xmlnode.Node) xmlnode.Node {
		out := n
		if n.Name == "stCxn" || n.Name == "endCxn" {
			if id, ok := xmlnode.GetAttr(n, "id"); ok {
				if newID, hit := remapped[id]; hit {
					out = setAttr(out, "id", newID)
				}
			}
			return out
		}
		for i, c := range out.Children {
			if c.Kind == xmlnode.KindElement {
				out = xmlnode.ReplaceChildAt(out, i, walk(c))
			}
		}
		return out
	}
	return walk(tree)
}

// ValidateShapeTree checks the shape-id uniqueness invariant and that
// every connector endpoint resolves; violations are internal errors.
func ValidateShapeTree(tree xmlnode.Node) error {
	ids := map[string]bool{}
	var dup string
	var walkIDs func(n xmlnode.Node)
	walkIDs = func(n xmlnode.Node) {
		for _, c := range n.Children {
			if c.Kind != xmlnode.KindElement || !shapeElementNames[c.Name] {
				continue
			}
			if id := shapeID(c); id != "" {
				if ids[id] && dup == "" {
					dup = id
				}
				ids[id] = true
			}
			walkIDs(c)
		}
	}
	walkIDs(tree)
	if dup != "" {
		return &errs.InvariantViolation{What: fmt.Sprintf("duplicate shape id %q after patching", dup)}
	}

	var bad string
	var walkCxn func(n xmlnode.Node)
	walkCxn = func(n xmlnode.Node) {
		if n.Name == "stCxn" || n.Name == "endCxn" {
			if id, ok := xmlnode.GetAttr(n, "id"); ok && !ids[id] && bad == "" {
				bad = id
			}
		}
		for _, c := range n.Children {
			if c.Kind == xmlnode.KindElement {
				walkCxn(c)
			}
		}
	}
	walkCxn(tree)
	if bad != "" {
		return &errs.InvariantViolation{What: fmt.Sprintf("connector references missing shape id %q", bad)}
	}
	return nil
}
