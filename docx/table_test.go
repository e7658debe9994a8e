package docx

import (
	"testing"

	"github.com/trkbt10/officekit/xmlnode"
)

const sampleTableXML = `<w:tbl xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:tblPr>
    <w:tblStyle w:val="TableGrid"/>
    <w:tblBorders>
      <w:top w:val="single" w:sz="4" w:color="000000"/>
      <w:insideH w:val="dashed" w:sz="2" w:color="AAAAAA"/>
    </w:tblBorders>
  </w:tblPr>
  <w:tblGrid>
    <w:gridCol w:w="4788"/>
    <w:gridCol w:w="4788"/>
  </w:tblGrid>
  <w:tr>
    <w:trPr><w:tblHeader/></w:trPr>
    <w:tc>
      <w:tcPr><w:tcW w:w="4788" w:type="dxa"/><w:shd w:fill="DDEEFF"/></w:tcPr>
      <w:p><w:r><w:t>Name</w:t></w:r></w:p>
    </w:tc>
    <w:tc>
      <w:tcPr><w:tcW w:w="4788" w:type="dxa"/></w:tcPr>
      <w:p><w:r><w:t>Value</w:t></w:r></w:p>
    </w:tc>
  </w:tr>
  <w:tr>
    <w:tc>
      <w:tcPr><w:gridSpan w:val="2"/></w:tcPr>
      <w:p><w:r><w:t>Spanning</w:t></w:r></w:p>
    </w:tc>
  </w:tr>
</w:tbl>`

func parseTableXML(t *testing.T) TableModel {
	t.Helper()
	root, err := xmlnode.Parse([]byte(sampleTableXML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return ParseTable(root)
}

// TestParseTable tests grid, rows, cells, and properties
func TestParseTable(t *testing.T) {
	tbl := parseTableXML(t)

	if tbl.StyleID != "TableGrid" {
		t.Errorf("StyleID = %q", tbl.StyleID)
	}
	if len(tbl.ColumnWidths) != 2 || tbl.ColumnWidths[0] != 4788 {
		t.Errorf("ColumnWidths = %v", tbl.ColumnWidths)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d", len(tbl.Rows))
	}

	header := tbl.Rows[0]
	if !header.IsHeader {
		t.Error("first row should be a header row")
	}
	if len(header.Cells) != 2 {
		t.Fatalf("header cells = %d", len(header.Cells))
	}
	if header.Cells[0].Text() != "Name" || header.Cells[1].Text() != "Value" {
		t.Errorf("cell text = %q / %q", header.Cells[0].Text(), header.Cells[1].Text())
	}
	if header.Cells[0].Shading != "DDEEFF" {
		t.Errorf("shading = %q", header.Cells[0].Shading)
	}
	if header.Cells[0].Width != 4788 || header.Cells[0].WidthType != "dxa" {
		t.Errorf("width = %d %q", header.Cells[0].Width, header.Cells[0].WidthType)
	}

	if tbl.Rows[1].Cells[0].GridSpan != 2 {
		t.Errorf("gridSpan = %d", tbl.Rows[1].Cells[0].GridSpan)
	}
}

// TestResolveCellBorder tests table-level border inheritance
func TestResolveCellBorder(t *testing.T) {
	tbl := parseTableXML(t)

	// Top edge of the first row: cell has none, table declares single.
	top := tbl.ResolveCellBorder(0, 0, "top")
	if top == nil || top.Style != "single" || top.Size != 4 {
		t.Errorf("top border = %+v", top)
	}

	// Top edge of the second row is an inside edge: dashed.
	inner := tbl.ResolveCellBorder(1, 0, "top")
	if inner == nil || inner.Style != "dashed" {
		t.Errorf("inner border = %+v", inner)
	}

	// Out of range is nil.
	if tbl.ResolveCellBorder(9, 0, "top") != nil {
		t.Error("out-of-range should be nil")
	}
}
