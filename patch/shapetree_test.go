package patch

import (
	"testing"

	"github.com/trkbt10/officekit/drawingml"
	"github.com/trkbt10/officekit/xmlnode"
)

func spTreeFixture(t *testing.T) xmlnode.Node {
	t.Helper()
	xml := `<p:spTree xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>
  <p:grpSpPr/>
  <p:sp>
    <p:nvSpPr><p:cNvPr id="2" name="Shape 2"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>
    <p:spPr/>
  </p:sp>
</p:spTree>`
	root, err := xmlnode.Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return root
}

func shapeWithID(id string) xmlnode.Node {
	s := drawingml.Shape{
		Kind:      drawingml.ShapeSp,
		NonVisual: drawingml.NonVisual{ID: id, Name: "Shape " + id},
	}
	return drawingml.SerializeShape(s)
}

func directShapeIDs(tree xmlnode.Node) []string {
	var ids []string
	for _, c := range tree.Children {
		if c.Kind == xmlnode.KindElement && shapeElementNames[c.Name] {
			ids = append(ids, shapeID(c))
		}
	}
	return ids
}

// TestAddAfterID tests insertion immediately after a direct child
func TestAddAfterID(t *testing.T) {
	tree := spTreeFixture(t)

	out, err := ApplyShapeTreeOps(tree, []Operation{
		{Kind: OpAdd, Shape: shapeWithID("3"), AfterID: "2"},
	})
	if err != nil {
		t.Fatalf("ApplyShapeTreeOps failed: %v", err)
	}

	ids := directShapeIDs(out)
	if len(ids) != 2 || ids[0] != "2" || ids[1] != "3" {
		t.Errorf("shape order = %v, want [2 3]", ids)
	}

	// The leading non-shape pair stays put.
	if out.Children[0].Name != "nvGrpSpPr" || out.Children[1].Name != "grpSpPr" {
		t.Errorf("header children moved: %s %s", out.Children[0].Name, out.Children[1].Name)
	}
}

// TestAddAppendsWithoutAfterID tests append behaviour
func TestAddAppendsWithoutAfterID(t *testing.T) {
	tree := spTreeFixture(t)

	out, err := ApplyShapeTreeOps(tree, []Operation{
		{Kind: OpAdd, Shape: shapeWithID("3")},
	})
	if err != nil {
		t.Fatalf("ApplyShapeTreeOps failed: %v", err)
	}
	ids := directShapeIDs(out)
	if len(ids) != 2 || ids[1] != "3" {
		t.Errorf("shape order = %v, want trailing 3", ids)
	}
}

// TestAddUnresolvableAfterIDAppends tests fallback when afterId is gone
func TestAddUnresolvableAfterIDAppends(t *testing.T) {
	tree := spTreeFixture(t)
	out, err := ApplyShapeTreeOps(tree, []Operation{
		{Kind: OpAdd, Shape: shapeWithID("9"), AfterID: "404"},
	})
	if err != nil {
		t.Fatalf("ApplyShapeTreeOps failed: %v", err)
	}
	ids := directShapeIDs(out)
	if ids[len(ids)-1] != "9" {
		t.Errorf("shape order = %v, want trailing 9", ids)
	}
}

// TestAddCollidingIDRenumbered tests two-pass renumbering with connector
// rewrite: an inserted subtree containing id "2" gets a fresh id and the
// inserted connector targeting "2" follows it
func TestAddCollidingIDRenumbered(t *testing.T) {
	tree := spTreeFixture(t)

	group := drawingml.Shape{
		Kind:      drawingml.ShapeGroup,
		NonVisual: drawingml.NonVisual{ID: "10", Name: "Group"},
		Children: []drawingml.Shape{
			{Kind: drawingml.ShapeSp, NonVisual: drawingml.NonVisual{ID: "2", Name: "Colliding"}},
			{
				Kind:      drawingml.ShapeConnector,
				NonVisual: drawingml.NonVisual{ID: "11", Name: "Conn"},
				StartID:   "2", StartIdx: "0",
				EndID: "11", EndIdx: "1",
			},
		},
	}

	out, err := ApplyShapeTreeOps(tree, []Operation{
		{Kind: OpAdd, Shape: drawingml.SerializeShape(group)},
	})
	if err != nil {
		t.Fatalf("ApplyShapeTreeOps failed: %v", err)
	}

	if err := ValidateShapeTree(out); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}

	// Find the inserted group and its children.
	var inserted xmlnode.Node
	for _, c := range out.Children {
		if c.Name == "grpSp" {
			inserted = c
		}
	}
	if inserted.Name != "grpSp" {
		t.Fatal("inserted group not found")
	}

	parsed := drawingml.ParseShape(inserted)
	if len(parsed.Children) != 2 {
		t.Fatalf("group children = %d", len(parsed.Children))
	}
	renamed := parsed.Children[0]
	conn := parsed.Children[1]
	if renamed.NonVisual.ID == "2" {
		t.Error("colliding id 2 was not renumbered")
	}
	if conn.StartID != renamed.NonVisual.ID {
		t.Errorf("connector start %q does not follow renumbered id %q", conn.StartID, renamed.NonVisual.ID)
	}
	if conn.EndID != "11" {
		t.Errorf("non-colliding endpoint changed: %q", conn.EndID)
	}
}

// TestRemoveMissingIsTransactional tests that a failed op re-emits the
// prior tree and surfaces the index
func TestRemoveMissingIsTransactional(t *testing.T) {
	tree := spTreeFixture(t)
	out, err := ApplyShapeTreeOps(tree, []Operation{
		{Kind: OpAdd, Shape: shapeWithID("3")},
		{Kind: OpRemove, ShapeID: "404"},
	})
	if err == nil {
		t.Fatal("expected error for missing shape")
	}
	// State after the last successful operation.
	ids := directShapeIDs(out)
	if len(ids) != 2 {
		t.Errorf("tree should reflect op 0 only, got ids %v", ids)
	}
}

// TestReplaceShape tests in-place replacement preserving position
func TestReplaceShape(t *testing.T) {
	tree := spTreeFixture(t)
	out, err := ApplyShapeTreeOps(tree, []Operation{
		{Kind: OpAdd, Shape: shapeWithID("3")},
		{Kind: OpReplace, ShapeID: "2", Shape: shapeWithID("5")},
	})
	if err != nil {
		t.Fatalf("ApplyShapeTreeOps failed: %v", err)
	}
	ids := directShapeIDs(out)
	if len(ids) != 2 || ids[0] != "5" || ids[1] != "3" {
		t.Errorf("shape order = %v, want [5 3]", ids)
	}
}

// TestInputTreeNotMutated tests the patcher's no-input-mutation contract
func TestInputTreeNotMutated(t *testing.T) {
	tree := spTreeFixture(t)
	before := len(tree.Children)

	_, err := ApplyShapeTreeOps(tree, []Operation{
		{Kind: OpAdd, Shape: shapeWithID("3")},
		{Kind: OpRemove, ShapeID: "2"},
	})
	if err != nil {
		t.Fatalf("ApplyShapeTreeOps failed: %v", err)
	}

	if len(tree.Children) != before {
		t.Error("input tree children changed")
	}
	ids := directShapeIDs(tree)
	if len(ids) != 1 || ids[0] != "2" {
		t.Errorf("input tree ids = %v, want [2]", ids)
	}
}
