package relationships

import "testing"

func TestGetRelationshipsPath(t *testing.T) {
	got := GetRelationshipsPath("ppt/slides/slide1.xml")
	want := "ppt/slides/_rels/slide1.xml.rels"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestResolvePartPathRelative(t *testing.T) {
	got := ResolvePartPath("ppt/slides/slide1.xml", "../media/image1.png")
	want := "ppt/media/image1.png"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestResolvePartPathAbsolute(t *testing.T) {
	got := ResolvePartPath("ppt/slides/slide1.xml", "/ppt/theme/theme1.xml")
	want := "ppt/theme/theme1.xml"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestResolveExternal(t *testing.T) {
	g := NewGraph()
	err := g.LoadPart("ppt/slides/slide1.xml", []byte(`<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="hyperlink" Target="https://example.com" TargetMode="External"/>
  <Relationship Id="rId2" Type="image" Target="../media/image1.png"/>
</Relationships>`))
	if err != nil {
		t.Fatal(err)
	}

	external, err := g.Resolve("ppt/slides/slide1.xml", "rId1")
	if err != nil {
		t.Fatal(err)
	}
	if external != "https://example.com" {
		t.Fatalf("got %q", external)
	}

	internal, err := g.Resolve("ppt/slides/slide1.xml", "rId2")
	if err != nil {
		t.Fatal(err)
	}
	if internal != "ppt/media/image1.png" {
		t.Fatalf("got %q", internal)
	}
}

func TestResolveMissingID(t *testing.T) {
	g := NewGraph()
	if _, err := g.Resolve("ppt/slides/slide1.xml", "rIdX"); err == nil {
		t.Fatal("expected error for unresolved relationship id")
	}
}
