package drawingml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/trkbt10/officekit/xmlnode"
)

// TestTextBodyRoundTrip tests a representative text body surviving
// serialize-then-parse
func TestTextBodyRoundTrip(t *testing.T) {
	tb := TextBody{
		BodyProperties: BodyProperties{
			Anchor:  "ctr",
			Wrap:    "square",
			AutoFit: AutoFit{Kind: AutoFitNormal, FontScale: int64p(90000)},
		},
		Paragraphs: []Paragraph{
			{
				Properties: ParagraphProperties{
					Align: "l",
					Level: int64p(1),
					SpacingBefore: Spacing{Points: int64p(600)},
					Bullet: Bullet{Kind: BulletChar, Char: "•", Font: "Arial"},
					Tabs:   []TabStop{{Position: 914400, Align: "l"}},
				},
				Runs: []Run{
					{Kind: RunText, Text: "Hello ", Properties: RunProperties{Bold: boolp(true), Size: int64p(1800)}},
					{Kind: RunBreak},
					{Kind: RunText, Text: "world"},
					{Kind: RunField, FieldID: "{1F6E2DE2}", FieldType: "slidenum", Text: "3"},
				},
				EndProperties: &RunProperties{Size: int64p(1800)},
			},
		},
	}

	got := ParseTextBody(SerializeTextBody(tb, "p"))
	if diff := cmp.Diff(tb, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestParagraphRunPolymorphism tests that a paragraph keeps r/br/fld
// children in order
func TestParagraphRunPolymorphism(t *testing.T) {
	p := aElement("p")
	r := aElement("r")
	tEl := aElement("t")
	tEl.Children = append(tEl.Children, xmlnode.TextNode("a"))
	r.Children = append(r.Children, tEl)
	fld := aElement("fld", attr("id", "{X}"), attr("type", "datetime1"))
	fldT := aElement("t")
	fldT.Children = append(fldT.Children, xmlnode.TextNode("2024"))
	fld.Children = append(fld.Children, fldT)
	p.Children = append(p.Children, r, aElement("br"), fld)

	parsed := ParseParagraph(p)
	if len(parsed.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(parsed.Runs))
	}
	if parsed.Runs[0].Kind != RunText || parsed.Runs[1].Kind != RunBreak || parsed.Runs[2].Kind != RunField {
		t.Errorf("run kinds wrong: %v %v %v", parsed.Runs[0].Kind, parsed.Runs[1].Kind, parsed.Runs[2].Kind)
	}
	if parsed.Runs[2].FieldType != "datetime1" || parsed.Runs[2].Text != "2024" {
		t.Errorf("field run = %+v", parsed.Runs[2])
	}
}

// TestMergeRunsIdenticalProperties tests the three-identical-runs merge
func TestMergeRunsIdenticalProperties(t *testing.T) {
	bold := RunProperties{Bold: boolp(true)}
	runs := []Run{
		{Kind: RunText, Text: "a", Properties: bold},
		{Kind: RunText, Text: "b", Properties: bold},
		{Kind: RunText, Text: "c", Properties: bold},
	}
	merged := MergeRuns(runs)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged run, got %d", len(merged))
	}
	if merged[0].Text != "abc" {
		t.Errorf("merged text = %q, want abc", merged[0].Text)
	}
}

// TestMergeRunsDifferingProperties tests that bold/italic/bold stays three
// runs
func TestMergeRunsDifferingProperties(t *testing.T) {
	runs := []Run{
		{Kind: RunText, Text: "a", Properties: RunProperties{Bold: boolp(true)}},
		{Kind: RunText, Text: "b", Properties: RunProperties{Italic: boolp(true)}},
		{Kind: RunText, Text: "c", Properties: RunProperties{Bold: boolp(true)}},
	}
	merged := MergeRuns(runs)
	if len(merged) != 3 {
		t.Errorf("expected 3 runs, got %d", len(merged))
	}
}

// TestMergeRunsBlockedByNonRun tests that a break between identical runs
// blocks merging
func TestMergeRunsBlockedByNonRun(t *testing.T) {
	bold := RunProperties{Bold: boolp(true)}
	runs := []Run{
		{Kind: RunText, Text: "a", Properties: bold},
		{Kind: RunBreak},
		{Kind: RunText, Text: "b", Properties: bold},
	}
	merged := MergeRuns(runs)
	if len(merged) != 3 {
		t.Errorf("expected 3 runs (break blocks merge), got %d", len(merged))
	}
}
