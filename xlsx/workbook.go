package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trkbt10/officekit/xmlnode"
)

// SheetRef is one workbook sheet entry: its name, 1-based sheet id, and
// the relationship id of the worksheet part.
type SheetRef struct {
	Name    string
	SheetID string
	RID     string
	Hidden  bool
}

// Workbook is the parsed xl/workbook.xml part.
type Workbook struct {
	Sheets []SheetRef

	// Date1904 selects the 1904 epoch for serial dates.
	Date1904 bool
}

// ParseWorkbook parses a workbook document root.
func ParseWorkbook(root xmlnode.Node) Workbook {
	wb := Workbook{}
	if pr, ok := xmlnode.GetChild(root, "workbookPr"); ok {
		if v, found := xmlnode.GetAttr(pr, "date1904"); found {
			wb.Date1904 = v == "1" || v == "true"
		}
	}
	if sheets, ok := xmlnode.GetChild(root, "sheets"); ok {
		for _, sheet := range xmlnode.GetChildren(sheets, "sheet") {
			ref := SheetRef{
				Name:    attrOf(sheet, "name"),
				SheetID: attrOf(sheet, "sheetId"),
				Hidden:  attrOf(sheet, "state") == "hidden",
			}
			for _, a := range sheet.Attrs {
				if a.Name == "id" && a.Space == "r" {
					ref.RID = a.Value
				}
			}
			wb.Sheets = append(wb.Sheets, ref)
		}
	}
	return wb
}

// CellKind classifies a worksheet cell's value.
type CellKind int

const (
	// CellNumber is a numeric cell (the default type).
	CellNumber CellKind = iota
	// CellSharedString indexes the shared string table.
	CellSharedString
	// CellInlineString carries its text inline (t="inlineStr" or "str").
	CellInlineString
	// CellBoolean is t="b".
	CellBoolean
	// CellError is t="e".
	CellError
)

// Cell is one worksheet cell.
type Cell struct {
	// Ref is the A1-style reference; Row and Column are its parsed
	// 1-based coordinates.
	Ref    string
	Row    int
	Column int

	Kind CellKind

	// Value is the raw v text; for shared strings it is the table index.
	Value string

	// Formula is the f text, when present.
	Formula string

	// StyleIndex is the s attribute into the stylesheet's cellXfs.
	StyleIndex int
}

// Text resolves the cell's display text against the shared string table.
func (c Cell) Text(shared *SharedStringTable) string {
	if c.Kind != CellSharedString {
		return c.Value
	}
	index, err := strconv.Atoi(c.Value)
	if err != nil || shared == nil {
		return c.Value
	}
	return shared.Get(index).Text()
}

// Row is one sheetData row.
type Row struct {
	Number int
	Cells  []Cell
}

// MergedRange is one mergeCell entry ("A1:B2").
type MergedRange struct {
	From, To string
}

// Worksheet is a parsed worksheet part.
type Worksheet struct {
	Rows   []Row
	Merged []MergedRange
}

// ParseWorksheet parses a worksheet document root.
func ParseWorksheet(root xmlnode.Node) Worksheet {
	ws := Worksheet{}

	if sheetData, ok := xmlnode.GetChild(root, "sheetData"); ok {
		for _, rowNode := range xmlnode.GetChildren(sheetData, "row") {
			row := Row{Number: int(attrInt64Of(rowNode, "r"))}
			for _, cellNode := range xmlnode.GetChildren(rowNode, "c") {
				row.Cells = append(row.Cells, parseCell(cellNode))
			}
			ws.Rows = append(ws.Rows, row)
		}
	}

	if merges, ok := xmlnode.GetChild(root, "mergeCells"); ok {
		for _, merge := range xmlnode.GetChildren(merges, "mergeCell") {
			ref := attrOf(merge, "ref")
			if from, to, ok := strings.Cut(ref, ":"); ok {
				ws.Merged = append(ws.Merged, MergedRange{From: from, To: to})
			}
		}
	}

	return ws
}

func parseCell(n xmlnode.Node) Cell {
	cell := Cell{
		Ref:        attrOf(n, "r"),
		StyleIndex: int(attrInt64Of(n, "s")),
	}
	cell.Column, cell.Row, _ = ParseCellRef(cell.Ref)

	switch attrOf(n, "t") {
	case "s":
		cell.Kind = CellSharedString
	case "inlineStr":
		cell.Kind = CellInlineString
		if is, ok := xmlnode.GetChild(n, "is"); ok {
			if t, ok := xmlnode.GetChild(is, "t"); ok {
				cell.Value = xmlnode.GetTextContent(t)
			}
		}
	case "str":
		cell.Kind = CellInlineString
	case "b":
		cell.Kind = CellBoolean
	case "e":
		cell.Kind = CellError
	default:
		cell.Kind = CellNumber
	}

	if f, ok := xmlnode.GetChild(n, "f"); ok {
		cell.Formula = xmlnode.GetTextContent(f)
	}
	if cell.Kind != CellInlineString || cell.Value == "" {
		if v, ok := xmlnode.GetChild(n, "v"); ok {
			cell.Value = xmlnode.GetTextContent(v)
		}
	}
	return cell
}

// ParseCellRef splits an A1-style reference into 1-based column and row.
func ParseCellRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row < 1 || col < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	return col, row, nil
}

// FormatCellRef renders 1-based column and row coordinates as an
// A1-style reference.
func FormatCellRef(col, row int) string {
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters) + strconv.Itoa(row)
}

func attrInt64Of(n xmlnode.Node, name string) int64 {
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
