package docx

import (
	"testing"

	"github.com/trkbt10/officekit/xmlnode"
)

// TestParseSectionProperties tests page geometry, columns, and references
func TestParseSectionProperties(t *testing.T) {
	xml := `<w:sectPr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:headerReference w:type="default" r:id="rId6"/>
  <w:footerReference w:type="even" r:id="rId7"/>
  <w:type w:val="evenPage"/>
  <w:pgSz w:w="11906" w:h="16838"/>
  <w:pgMar w:top="1440" w:bottom="1440" w:left="1800" w:right="1800"/>
  <w:cols w:num="2" w:space="708"/>
  <w:titlePg/>
</w:sectPr>`
	root, err := xmlnode.Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	sp := ParseSectionProperties(root)

	if sp.Break != SectionEvenPage {
		t.Errorf("Break = %q", sp.Break)
	}
	if sp.PageWidth != 11906 || sp.PageHeight != 16838 {
		t.Errorf("page size = %dx%d", sp.PageWidth, sp.PageHeight)
	}
	if sp.MarginLeft != 1800 || sp.MarginTop != 1440 {
		t.Errorf("margins = %+v", sp)
	}
	if sp.Columns != 2 || sp.ColumnGap != 708 {
		t.Errorf("columns = %d gap %d", sp.Columns, sp.ColumnGap)
	}
	if !sp.TitlePage {
		t.Error("titlePg should be set")
	}
	if sp.HeaderRefs["default"] != "rId6" {
		t.Errorf("header refs = %v", sp.HeaderRefs)
	}
	if sp.FooterRefs["even"] != "rId7" {
		t.Errorf("footer refs = %v", sp.FooterRefs)
	}
}

// TestParseSectionDefaults tests the nextPage default and single column
func TestParseSectionDefaults(t *testing.T) {
	root, err := xmlnode.Parse([]byte(`<w:sectPr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	sp := ParseSectionProperties(root)
	if sp.Break != SectionNextPage {
		t.Errorf("default break = %q", sp.Break)
	}
	if sp.Columns != 1 {
		t.Errorf("default columns = %d", sp.Columns)
	}
}

// TestParseHeaderFooter tests header part parsing
func TestParseHeaderFooter(t *testing.T) {
	xml := `<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:p><w:r><w:t>Company Confidential</w:t></w:r></w:p>
</w:hdr>`
	root, err := xmlnode.Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	hf := ParseHeaderFooter(root)
	if hf.Kind != "header" {
		t.Errorf("Kind = %q", hf.Kind)
	}
	if hf.Text() != "Company Confidential" {
		t.Errorf("Text = %q", hf.Text())
	}
}

// TestParseDocument tests body blocks and the trailing section
func TestParseDocument(t *testing.T) {
	xml := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Intro</w:t></w:r></w:p>
    <w:tbl>
      <w:tblGrid><w:gridCol w:w="1000"/></w:tblGrid>
      <w:tr><w:tc><w:p><w:r><w:t>X</w:t></w:r></w:p></w:tc></w:tr>
    </w:tbl>
    <w:p><w:r><w:t>Outro</w:t></w:r></w:p>
    <w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr>
  </w:body>
</w:document>`
	root, err := xmlnode.Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	doc := ParseDocument(root)

	if len(doc.Blocks) != 3 {
		t.Fatalf("blocks = %d", len(doc.Blocks))
	}
	if doc.Blocks[0].Kind != BlockParagraph || doc.Blocks[1].Kind != BlockTable || doc.Blocks[2].Kind != BlockParagraph {
		t.Errorf("block kinds = %v %v %v", doc.Blocks[0].Kind, doc.Blocks[1].Kind, doc.Blocks[2].Kind)
	}
	if doc.Section == nil || doc.Section.PageWidth != 12240 {
		t.Errorf("section = %+v", doc.Section)
	}
}

// TestParseNumbering tests abstract definitions and instance resolution
func TestParseNumbering(t *testing.T) {
	xml := `<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0">
    <w:lvl w:ilvl="0">
      <w:start w:val="1"/>
      <w:numFmt w:val="decimal"/>
      <w:lvlText w:val="%1."/>
      <w:pPr><w:ind w:left="720"/></w:pPr>
    </w:lvl>
    <w:lvl w:ilvl="1">
      <w:numFmt w:val="bullet"/>
      <w:lvlText w:val="o"/>
    </w:lvl>
  </w:abstractNum>
  <w:num w:numId="1">
    <w:abstractNumId w:val="0"/>
  </w:num>
</w:numbering>`
	root, err := xmlnode.Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	numbering := ParseNumbering(root)

	level, ok := numbering.Level("1", 0)
	if !ok {
		t.Fatal("level 0 not resolved")
	}
	if level.Format != "decimal" || level.Text != "%1." || level.Start != 1 || level.Indent != 720 {
		t.Errorf("level = %+v", level)
	}

	if !numbering.IsBullet("1", 1) {
		t.Error("ilvl 1 should be a bullet")
	}
	if numbering.IsBullet("1", 0) {
		t.Error("ilvl 0 should not be a bullet")
	}
	if _, ok := numbering.Level("99", 0); ok {
		t.Error("unknown numId should not resolve")
	}
}
