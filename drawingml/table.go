package drawingml

import (
	"github.com/trkbt10/officekit/xmlnode"
)

// TableCellBorders carries the per-edge cell borders; nil edges inherit
// from the table style.
type TableCellBorders struct {
	Left, Right, Top, Bottom *Line
	TLToBR, BLToTR           *Line
}

// TableCell is a:tc. GridSpan/RowSpan of 0 mean 1; HMerge/VMerge mark
// continuation cells of a merge.
type TableCell struct {
	TextBody TextBody

	GridSpan int64
	RowSpan  int64
	HMerge   bool
	VMerge   bool

	// Cell properties.
	MarginLeft, MarginRight, MarginTop, MarginBottom *int64
	Anchor  string
	Borders TableCellBorders
	Fill    Fill
}

// TableRow is a:tr; Height is EMU.
type TableRow struct {
	Height int64
	Cells  []TableCell
}

// Table is a:tbl: grid column widths plus rows, with the style id that
// resolves border inheritance.
type Table struct {
	// FirstRow etc. mirror the tblPr banding/emphasis attributes.
	FirstRow, FirstCol, LastRow, LastCol, BandRow, BandCol bool

	// StyleID is the a:tableStyleId text content.
	StyleID string

	// ColumnWidths are the gridCol w values in EMU.
	ColumnWidths []int64

	Rows []TableRow
}

// ParseTable parses a:tbl.
func ParseTable(n xmlnode.Node) Table {
	t := Table{}

	if tblPr, ok := xmlnode.GetChild(n, "tblPr"); ok {
		t.FirstRow = attrBool(tblPr, "firstRow", false)
		t.FirstCol = attrBool(tblPr, "firstCol", false)
		t.LastRow = attrBool(tblPr, "lastRow", false)
		t.LastCol = attrBool(tblPr, "lastCol", false)
		t.BandRow = attrBool(tblPr, "bandRow", false)
		t.BandCol = attrBool(tblPr, "bandCol", false)
		if styleID, ok := xmlnode.GetChild(tblPr, "tableStyleId"); ok {
			t.StyleID = xmlnode.GetTextContent(styleID)
		}
	}

	if grid, ok := xmlnode.GetChild(n, "tblGrid"); ok {
		for _, col := range xmlnode.GetChildren(grid, "gridCol") {
			t.ColumnWidths = append(t.ColumnWidths, attrInt64(col, "w"))
		}
	}

	for _, tr := range xmlnode.GetChildren(n, "tr") {
		row := TableRow{Height: attrInt64(tr, "h")}
		for _, tc := range xmlnode.GetChildren(tr, "tc") {
			row.Cells = append(row.Cells, parseTableCell(tc))
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

func parseTableCell(n xmlnode.Node) TableCell {
	cell := TableCell{
		GridSpan: attrInt64(n, "gridSpan"),
		RowSpan:  attrInt64(n, "rowSpan"),
		HMerge:   attrBool(n, "hMerge", false),
		VMerge:   attrBool(n, "vMerge", false),
	}
	if txBody, ok := xmlnode.GetChild(n, "txBody"); ok {
		cell.TextBody = ParseTextBody(txBody)
	}
	if tcPr, ok := xmlnode.GetChild(n, "tcPr"); ok {
		cell.MarginLeft = attrInt64Ptr(tcPr, "marL")
		cell.MarginRight = attrInt64Ptr(tcPr, "marR")
		cell.MarginTop = attrInt64Ptr(tcPr, "marT")
		cell.MarginBottom = attrInt64Ptr(tcPr, "marB")
		cell.Anchor = attrString(tcPr, "anchor")
		cell.Borders = parseCellBorders(tcPr)
		cell.Fill = ParseFillChoice(tcPr)
	}
	return cell
}

func parseCellBorders(tcPr xmlnode.Node) TableCellBorders {
	borders := TableCellBorders{}
	assign := func(name string, dst **Line) {
		if ln, ok := xmlnode.GetChild(tcPr, name); ok {
			parsed := ParseLine(ln)
			*dst = &parsed
		}
	}
	assign("lnL", &borders.Left)
	assign("lnR", &borders.Right)
	assign("lnT", &borders.Top)
	assign("lnB", &borders.Bottom)
	assign("lnTlToBr", &borders.TLToBR)
	assign("lnBlToTr", &borders.BLToTR)
	return borders
}

// ResolveCellBorder returns the effective border for an edge, falling back
// to the neighbouring cell's opposing edge the way merged grids inherit:
// a cell with no left border takes the left neighbour's right border.
func (t Table) ResolveCellBorder(row, col int, edge string) *Line {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row].Cells) {
		return nil
	}
	cell := t.Rows[row].Cells[col]
	switch edge {
	case "left":
		if cell.Borders.Left != nil {
			return cell.Borders.Left
		}
		if col > 0 {
			return t.Rows[row].Cells[col-1].Borders.Right
		}
	case "right":
		if cell.Borders.Right != nil {
			return cell.Borders.Right
		}
		if col+1 < len(t.Rows[row].Cells) {
			return t.Rows[row].Cells[col+1].Borders.Left
		}
	case "top":
		if cell.Borders.Top != nil {
			return cell.Borders.Top
		}
		if row > 0 && col < len(t.Rows[row-1].Cells) {
			return t.Rows[row-1].Cells[col].Borders.Bottom
		}
	case "bottom":
		if cell.Borders.Bottom != nil {
			return cell.Borders.Bottom
		}
		if row+1 < len(t.Rows) && col < len(t.Rows[row+1].Cells) {
			return t.Rows[row+1].Cells[col].Borders.Top
		}
	}
	return nil
}

// SerializeTable renders a:tbl.
func SerializeTable(t Table) xmlnode.Node {
	n := aElement("tbl")

	tblPr := aElement("tblPr")
	if t.FirstRow {
		tblPr.Attrs = append(tblPr.Attrs, attr("firstRow", "1"))
	}
	if t.FirstCol {
		tblPr.Attrs = append(tblPr.Attrs, attr("firstCol", "1"))
	}
	if t.LastRow {
		tblPr.Attrs = append(tblPr.Attrs, attr("lastRow", "1"))
	}
	if t.LastCol {
		tblPr.Attrs = append(tblPr.Attrs, attr("lastCol", "1"))
	}
	if t.BandRow {
		tblPr.Attrs = append(tblPr.Attrs, attr("bandRow", "1"))
	}
	if t.BandCol {
		tblPr.Attrs = append(tblPr.Attrs, attr("bandCol", "1"))
	}
	if t.StyleID != "" {
		styleID := aElement("tableStyleId")
		styleID.Children = append(styleID.Children, xmlnode.TextNode(t.StyleID))
		tblPr.Children = append(tblPr.Children, styleID)
	}
	n.Children = append(n.Children, tblPr)

	grid := aElement("tblGrid")
	for _, w := range t.ColumnWidths {
		grid.Children = append(grid.Children, aElement("gridCol", attr("w", formatInt64(w))))
	}
	n.Children = append(n.Children, grid)

	for _, row := range t.Rows {
		tr := aElement("tr", attr("h", formatInt64(row.Height)))
		for _, cell := range row.Cells {
			tr.Children = append(tr.Children, serializeTableCell(cell))
		}
		n.Children = append(n.Children, tr)
	}

	return n
}

func serializeTableCell(cell TableCell) xmlnode.Node {
	tc := aElement("tc")
	if cell.GridSpan > 1 {
		tc.Attrs = append(tc.Attrs, attr("gridSpan", formatInt64(cell.GridSpan)))
	}
	if cell.RowSpan > 1 {
		tc.Attrs = append(tc.Attrs, attr("rowSpan", formatInt64(cell.RowSpan)))
	}
	if cell.HMerge {
		tc.Attrs = append(tc.Attrs, attr("hMerge", "1"))
	}
	if cell.VMerge {
		tc.Attrs = append(tc.Attrs, attr("vMerge", "1"))
	}

	tc.Children = append(tc.Children, SerializeTextBody(cell.TextBody, "a"))

	tcPr := aElement("tcPr")
	if cell.MarginLeft != nil {
		tcPr.Attrs = append(tcPr.Attrs, attr("marL", formatInt64(*cell.MarginLeft)))
	}
	if cell.MarginRight != nil {
		tcPr.Attrs = append(tcPr.Attrs, attr("marR", formatInt64(*cell.MarginRight)))
	}
	if cell.MarginTop != nil {
		tcPr.Attrs = append(tcPr.Attrs, attr("marT", formatInt64(*cell.MarginTop)))
	}
	if cell.MarginBottom != nil {
		tcPr.Attrs = append(tcPr.Attrs, attr("marB", formatInt64(*cell.MarginBottom)))
	}
	if cell.Anchor != "" {
		tcPr.Attrs = append(tcPr.Attrs, attr("anchor", cell.Anchor))
	}

	appendBorder := func(name string, ln *Line) {
		if ln == nil {
			return
		}
		serialized := SerializeLine(*ln)
		serialized.Name = name
		tcPr.Children = append(tcPr.Children, serialized)
	}
	appendBorder("lnL", cell.Borders.Left)
	appendBorder("lnR", cell.Borders.Right)
	appendBorder("lnT", cell.Borders.Top)
	appendBorder("lnB", cell.Borders.Bottom)
	appendBorder("lnTlToBr", cell.Borders.TLToBR)
	appendBorder("lnBlToTr", cell.Borders.BLToTR)

	if !cell.Fill.IsZero() {
		tcPr.Children = append(tcPr.Children, SerializeFill(cell.Fill))
	}

	tc.Children = append(tc.Children, tcPr)
	return tc
}
