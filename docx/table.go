package docx

import (
	"strconv"

	"github.com/trkbt10/officekit/xmlnode"
)

// TableBorder is one edge of a table or cell border (w:top, w:left, ...).
type TableBorder struct {
	Style string // w:val (single, double, dashed, nil, ...)
	Size  int64  // w:sz, eighths of a point
	Color string // w:color hex or "auto"
}

// TableBorders carries the six border slots of a table or cell.
type TableBorders struct {
	Top, Bottom, Left, Right   *TableBorder
	InsideH, InsideV           *TableBorder
}

// TableCellModel is one w:tc: its paragraphs plus cell properties.
type TableCellModel struct {
	Paragraphs []FlowParagraph

	// Width is the w:tcW value; WidthType its unit (dxa, pct, auto).
	Width     int64
	WidthType string

	GridSpan int64

	// VMerge is "" (no merge), "restart", or "continue".
	VMerge string

	Shading string // w:shd fill color
	Borders TableBorders
}

// Text flattens the cell's runs.
func (c TableCellModel) Text() string {
	var out []byte
	for i, p := range c.Paragraphs {
		if i > 0 {
			out = append(out, '\n')
		}
		for _, run := range p.Runs {
			out = append(out, run.Text...)
		}
	}
	return string(out)
}

// TableRowModel is one w:tr.
type TableRowModel struct {
	Cells    []TableCellModel
	IsHeader bool
	Height   int64
}

// TableModel is a parsed w:tbl: grid column widths, rows, and table-level
// properties that cells inherit.
type TableModel struct {
	StyleID      string
	ColumnWidths []int64
	Borders      TableBorders
	Rows         []TableRowModel
}

// ParseTable parses a w:tbl element.
func ParseTable(n xmlnode.Node) TableModel {
	t := TableModel{}

	if tblPr, ok := xmlnode.GetChild(n, "tblPr"); ok {
		t.StyleID = childVal(tblPr, "tblStyle")
		if borders, ok := xmlnode.GetChild(tblPr, "tblBorders"); ok {
			t.Borders = parseTableBorders(borders)
		}
	}

	if grid, ok := xmlnode.GetChild(n, "tblGrid"); ok {
		for _, col := range xmlnode.GetChildren(grid, "gridCol") {
			t.ColumnWidths = append(t.ColumnWidths, attrInt(col, "w"))
		}
	}

	for _, tr := range xmlnode.GetChildren(n, "tr") {
		t.Rows = append(t.Rows, parseTableRow(tr))
	}
	return t
}

func parseTableRow(tr xmlnode.Node) TableRowModel {
	row := TableRowModel{}
	if trPr, ok := xmlnode.GetChild(tr, "trPr"); ok {
		if _, ok := xmlnode.GetChild(trPr, "tblHeader"); ok {
			row.IsHeader = toggleOn(trPr, "tblHeader")
		}
		if height, ok := xmlnode.GetChild(trPr, "trHeight"); ok {
			row.Height = attrInt(height, "val")
		}
	}
	for _, tc := range xmlnode.GetChildren(tr, "tc") {
		row.Cells = append(row.Cells, parseTableCell(tc))
	}
	return row
}

func parseTableCell(tc xmlnode.Node) TableCellModel {
	cell := TableCellModel{}

	if tcPr, ok := xmlnode.GetChild(tc, "tcPr"); ok {
		if w, ok := xmlnode.GetChild(tcPr, "tcW"); ok {
			cell.Width = attrInt(w, "w")
			cell.WidthType = attrVal(w, "type")
		}
		if span, ok := xmlnode.GetChild(tcPr, "gridSpan"); ok {
			cell.GridSpan = attrInt(span, "val")
		}
		if merge, ok := xmlnode.GetChild(tcPr, "vMerge"); ok {
			cell.VMerge = attrVal(merge, "val")
			if cell.VMerge == "" {
				cell.VMerge = "continue"
			}
		}
		if shd, ok := xmlnode.GetChild(tcPr, "shd"); ok {
			cell.Shading = attrVal(shd, "fill")
		}
		if borders, ok := xmlnode.GetChild(tcPr, "tcBorders"); ok {
			cell.Borders = parseTableBorders(borders)
		}
	}

	for _, child := range tc.Children {
		if child.Kind == xmlnode.KindElement && child.Name == "p" {
			cell.Paragraphs = append(cell.Paragraphs, ParseFlowParagraph(child))
		}
	}
	return cell
}

func parseTableBorders(n xmlnode.Node) TableBorders {
	read := func(name string) *TableBorder {
		child, ok := xmlnode.GetChild(n, name)
		if !ok {
			return nil
		}
		return &TableBorder{
			Style: attrVal(child, "val"),
			Size:  attrInt(child, "sz"),
			Color: attrVal(child, "color"),
		}
	}
	return TableBorders{
		Top:     read("top"),
		Bottom:  read("bottom"),
		Left:    read("left"),
		Right:   read("right"),
		InsideH: read("insideH"),
		InsideV: read("insideV"),
	}
}

// ResolveCellBorder returns the effective border for a cell edge: the
// cell's own border when set, else the table's inside or outer border
// depending on the cell's position in the grid.
func (t TableModel) ResolveCellBorder(row, col int, edge string) *TableBorder {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row].Cells) {
		return nil
	}
	cell := t.Rows[row].Cells[col]

	var own, outer, inside *TableBorder
	switch edge {
	case "top":
		own = cell.Borders.Top
		outer = t.Borders.Top
		inside = t.Borders.InsideH
		if row > 0 {
			outer = nil
		}
	case "bottom":
		own = cell.Borders.Bottom
		outer = t.Borders.Bottom
		inside = t.Borders.InsideH
		if row < len(t.Rows)-1 {
			outer = nil
		}
	case "left":
		own = cell.Borders.Left
		outer = t.Borders.Left
		inside = t.Borders.InsideV
		if col > 0 {
			outer = nil
		}
	case "right":
		own = cell.Borders.Right
		outer = t.Borders.Right
		inside = t.Borders.InsideV
		if col < len(t.Rows[row].Cells)-1 {
			outer = nil
		}
	default:
		return nil
	}

	if own != nil {
		return own
	}
	if outer != nil {
		return outer
	}
	return inside
}

// attrInt reads an integer attribute, defaulting to 0.
func attrInt(n xmlnode.Node, name string) int64 {
	v, ok := xmlnode.GetAttr(n, name)
	if !ok {
		return 0
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}
