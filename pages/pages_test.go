package pages

import (
	"testing"

	"github.com/trkbt10/officekit/core"
)

// directResolver resolves references against an in-memory object table.
type directResolver struct {
	objects map[int]core.Object
}

func (r *directResolver) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return r.objects[ref.Number], nil
	}
	return obj, nil
}

func (r *directResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.objects[ref.Number], nil
}

func (r *directResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.Resolve(obj)
}

// twoLevelTree builds root -> intermediate -> two leaf pages, with the
// media box and resources declared at different levels.
func twoLevelTree() (core.Dict, *directResolver) {
	resources := core.Dict{"Font": core.Dict{}}

	page1 := core.Dict{"Type": core.Name("Page")}
	page2 := core.Dict{
		"Type":     core.Name("Page"),
		"MediaBox": core.Array{core.Int(0), core.Int(0), core.Int(400), core.Int(300)},
		"Rotate":   core.Int(90),
	}

	mid := core.Dict{
		"Type":      core.Name("Pages"),
		"Kids":      core.Array{core.IndirectRef{Number: 10}, core.IndirectRef{Number: 11}},
		"Count":     core.Int(2),
		"Resources": resources,
	}
	root := core.Dict{
		"Type":     core.Name("Pages"),
		"Kids":     core.Array{core.IndirectRef{Number: 5}},
		"Count":    core.Int(2),
		"MediaBox": core.Array{core.Int(0), core.Int(0), core.Int(612), core.Int(792)},
	}

	resolver := &directResolver{objects: map[int]core.Object{
		5:  mid,
		10: page1,
		11: page2,
	}}
	return root, resolver
}

// TestPageTreeFlatten tests traversal order and count
func TestPageTreeFlatten(t *testing.T) {
	root, resolver := twoLevelTree()
	tree := NewPageTree(root, resolver)

	count, err := tree.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}

	pages, err := tree.Pages()
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("flattened %d pages, want 2", len(pages))
	}
}

// TestInheritanceAcrossLevels tests attribute lookup up the full ancestor
// chain, not just the immediate parent
func TestInheritanceAcrossLevels(t *testing.T) {
	root, resolver := twoLevelTree()
	tree := NewPageTree(root, resolver)

	page1, err := tree.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}

	// MediaBox is declared two levels up, on the root.
	box, err := page1.MediaBox()
	if err != nil {
		t.Fatalf("MediaBox failed: %v", err)
	}
	if box[2] != 612 || box[3] != 792 {
		t.Errorf("inherited MediaBox = %v", box)
	}

	// Resources come from the intermediate node.
	if _, err := page1.Resources(); err != nil {
		t.Errorf("inherited Resources failed: %v", err)
	}

	// Page 2 overrides the box locally.
	page2, _ := tree.GetPage(1)
	box2, err := page2.MediaBox()
	if err != nil {
		t.Fatalf("MediaBox failed: %v", err)
	}
	if box2[2] != 400 {
		t.Errorf("local MediaBox = %v", box2)
	}
	if page2.Rotate() != 90 {
		t.Errorf("Rotate = %d, want 90", page2.Rotate())
	}
	if page1.Rotate() != 0 {
		t.Errorf("default Rotate = %d, want 0", page1.Rotate())
	}
}

// TestCropBoxDefaultsToMediaBox tests the fallback
func TestCropBoxDefaultsToMediaBox(t *testing.T) {
	root, resolver := twoLevelTree()
	tree := NewPageTree(root, resolver)
	page, _ := tree.GetPage(0)

	crop, err := page.CropBox()
	if err != nil {
		t.Fatalf("CropBox failed: %v", err)
	}
	if crop[2] != 612 {
		t.Errorf("CropBox = %v", crop)
	}
}

// TestPageIndexOutOfRange tests the bounds error
func TestPageIndexOutOfRange(t *testing.T) {
	root, resolver := twoLevelTree()
	tree := NewPageTree(root, resolver)
	if _, err := tree.GetPage(5); err == nil {
		t.Error("expected out-of-range error")
	}
}

// TestPageTreeCycle tests that a self-referencing node errors instead of
// recursing forever
func TestPageTreeCycle(t *testing.T) {
	resolver := &directResolver{objects: map[int]core.Object{}}
	root := core.Dict{
		"Type":  core.Name("Pages"),
		"Count": core.Int(1),
	}
	root["Kids"] = core.Array{root}

	tree := NewPageTree(root, resolver)
	if _, err := tree.Pages(); err == nil {
		t.Error("expected cycle error")
	}
}

// TestContentsNormalization tests single-stream and array forms
func TestContentsNormalization(t *testing.T) {
	stream := &core.Stream{Dict: core.Dict{}, Data: []byte("q Q")}
	resolver := &directResolver{objects: map[int]core.Object{7: stream}}

	single := NewPage(core.Dict{
		"Type":     core.Name("Page"),
		"Contents": core.IndirectRef{Number: 7},
	}, nil, resolver)
	got, err := single.Contents()
	if err != nil {
		t.Fatalf("Contents failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(got))
	}

	array := NewPage(core.Dict{
		"Type":     core.Name("Page"),
		"Contents": core.Array{core.IndirectRef{Number: 7}, core.IndirectRef{Number: 7}},
	}, nil, resolver)
	got, err = array.Contents()
	if err != nil {
		t.Fatalf("Contents failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(got))
	}

	empty := NewPage(core.Dict{"Type": core.Name("Page")}, nil, resolver)
	got, err = empty.Contents()
	if err != nil || got != nil {
		t.Errorf("empty page Contents = %v, %v", got, err)
	}
}

// TestCatalog tests catalog wrapping
func TestCatalog(t *testing.T) {
	root, resolver := twoLevelTree()
	catalog := NewCatalog(core.Dict{
		"Type":  core.Name("Catalog"),
		"Pages": root,
	}, resolver)

	if catalog.Type() != "Catalog" {
		t.Errorf("Type = %q", catalog.Type())
	}
	pagesDict, err := catalog.Pages()
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if name, _ := pagesDict.GetName("Type"); string(name) != "Pages" {
		t.Errorf("pages type = %q", name)
	}
}
