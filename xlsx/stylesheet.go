package xlsx

import (
	"strconv"

	"github.com/trkbt10/officekit/xmlnode"
)

// BorderEdge is one edge of a cell border.
type BorderEdge struct {
	Style    string
	ColorRGB string
	ColorIndexed *int64
	ColorTheme   *int64
}

// Border is one entry of the styles part's border list.
type Border struct {
	Left, Right, Top, Bottom, Diagonal BorderEdge

	DiagonalUp   bool
	DiagonalDown bool
}

// StyleFont is one entry of the font list.
type StyleFont struct {
	Name   string
	Size   *float64
	Bold   bool
	Italic bool
	ColorRGB string
}

// CellFormat is one cellXfs xf entry: indexes into the other lists plus
// alignment.
type CellFormat struct {
	NumFmtID int64
	FontID   int64
	FillID   int64
	BorderID int64

	ApplyNumberFormat bool

	HorizontalAlign string
	VerticalAlign   string
	WrapText        bool
}

// builtInNumberFormats is the fixed catalogue of implied numFmtId values.
var builtInNumberFormats = map[int64]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// Stylesheet is the parsed xl/styles.xml part.
type Stylesheet struct {
	NumberFormats map[int64]string
	Fonts         []StyleFont
	Borders       []Border
	CellFormats   []CellFormat
}

// NumberFormatCode resolves a numFmtId to its code, consulting custom
// formats first and the built-in catalogue second.
func (s *Stylesheet) NumberFormatCode(id int64) string {
	if code, ok := s.NumberFormats[id]; ok {
		return code
	}
	if code, ok := builtInNumberFormats[id]; ok {
		return code
	}
	return "General"
}

// FormatForCell resolves a cell's style index (the c element's s attr) to
// its CellFormat.
func (s *Stylesheet) FormatForCell(styleIndex int) (CellFormat, bool) {
	if styleIndex < 0 || styleIndex >= len(s.CellFormats) {
		return CellFormat{}, false
	}
	return s.CellFormats[styleIndex], true
}

// IsDateFormat reports whether a numFmtId formats serial dates.
func (s *Stylesheet) IsDateFormat(id int64) bool {
	if id >= 14 && id <= 22 {
		return true
	}
	if id >= 45 && id <= 47 {
		return true
	}
	code := s.NumberFormatCode(id)
	hasDateToken := false
	inQuote := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c == '"' {
			inQuote = !inQuote
			continue
		}
		if inQuote {
			continue
		}
		switch c {
		case 'y', 'm', 'd', 'h', 's':
			hasDateToken = true
		}
	}
	return hasDateToken
}

// ParseStylesheet parses a styleSheet document root.
func ParseStylesheet(root xmlnode.Node) Stylesheet {
	s := Stylesheet{NumberFormats: make(map[int64]string)}

	if numFmts, ok := xmlnode.GetChild(root, "numFmts"); ok {
		for _, numFmt := range xmlnode.GetChildren(numFmts, "numFmt") {
			id, _ := strconv.ParseInt(attrOf(numFmt, "numFmtId"), 10, 64)
			s.NumberFormats[id] = attrOf(numFmt, "formatCode")
		}
	}

	if fonts, ok := xmlnode.GetChild(root, "fonts"); ok {
		for _, font := range xmlnode.GetChildren(fonts, "font") {
			f := StyleFont{}
			if name, ok := xmlnode.GetChild(font, "name"); ok {
				f.Name = attrOf(name, "val")
			}
			if sz, ok := xmlnode.GetChild(font, "sz"); ok {
				if v, err := strconv.ParseFloat(attrOf(sz, "val"), 64); err == nil {
					f.Size = &v
				}
			}
			if _, ok := xmlnode.GetChild(font, "b"); ok {
				f.Bold = true
			}
			if _, ok := xmlnode.GetChild(font, "i"); ok {
				f.Italic = true
			}
			if color, ok := xmlnode.GetChild(font, "color"); ok {
				f.ColorRGB = attrOf(color, "rgb")
			}
			s.Fonts = append(s.Fonts, f)
		}
	}

	if borders, ok := xmlnode.GetChild(root, "borders"); ok {
		for _, border := range xmlnode.GetChildren(borders, "border") {
			b := Border{
				DiagonalUp:   attrOf(border, "diagonalUp") == "1",
				DiagonalDown: attrOf(border, "diagonalDown") == "1",
			}
			b.Left = parseBorderEdge(border, "left")
			b.Right = parseBorderEdge(border, "right")
			b.Top = parseBorderEdge(border, "top")
			b.Bottom = parseBorderEdge(border, "bottom")
			b.Diagonal = parseBorderEdge(border, "diagonal")
			s.Borders = append(s.Borders, b)
		}
	}

	if cellXfs, ok := xmlnode.GetChild(root, "cellXfs"); ok {
		for _, xf := range xmlnode.GetChildren(cellXfs, "xf") {
			format := CellFormat{}
			format.NumFmtID, _ = strconv.ParseInt(attrOf(xf, "numFmtId"), 10, 64)
			format.FontID, _ = strconv.ParseInt(attrOf(xf, "fontId"), 10, 64)
			format.FillID, _ = strconv.ParseInt(attrOf(xf, "fillId"), 10, 64)
			format.BorderID, _ = strconv.ParseInt(attrOf(xf, "borderId"), 10, 64)
			format.ApplyNumberFormat = attrOf(xf, "applyNumberFormat") == "1"
			if alignment, ok := xmlnode.GetChild(xf, "alignment"); ok {
				format.HorizontalAlign = attrOf(alignment, "horizontal")
				format.VerticalAlign = attrOf(alignment, "vertical")
				format.WrapText = attrOf(alignment, "wrapText") == "1"
			}
			s.CellFormats = append(s.CellFormats, format)
		}
	}

	return s
}

func parseBorderEdge(border xmlnode.Node, name string) BorderEdge {
	edge := BorderEdge{}
	child, ok := xmlnode.GetChild(border, name)
	if !ok {
		return edge
	}
	edge.Style = attrOf(child, "style")
	if color, ok := xmlnode.GetChild(child, "color"); ok {
		edge.ColorRGB = attrOf(color, "rgb")
		if v := attrOf(color, "indexed"); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				edge.ColorIndexed = &parsed
			}
		}
		if v := attrOf(color, "theme"); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				edge.ColorTheme = &parsed
			}
		}
	}
	return edge
}

func attrOf(n xmlnode.Node, name string) string {
	v, _ := xmlnode.GetAttr(n, name)
	return v
}
