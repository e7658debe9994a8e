package font

import (
	"fmt"

	"github.com/trkbt10/officekit/core"
)

// Type0Font is a composite font: show-operator strings address its
// descendant CIDFont by two-byte character IDs.
type Type0Font struct {
	*Font

	Encoding       string
	DescendantFont *CIDFont
	ToUnicode      *core.Stream
	IsVertical     bool
}

// CIDFont is the descendant of a Type0 font: widths keyed by character
// ID, with optional vertical metrics.
type CIDFont struct {
	BaseFont       string
	Subtype        string // CIDFontType0 or CIDFontType2
	CIDSystemInfo  *CIDSystemInfo
	FontDescriptor *FontDescriptor

	// DW is the default width; W the per-CID overrides.
	DW float64
	W  []WidthRange

	// DW2/W2 are the vertical-mode defaults and overrides.
	DW2 [2]float64
	W2  []VerticalMetrics

	// CIDToGIDMap maps CIDs to glyph indices (CIDFontType2 only).
	CIDToGIDMap *core.Stream
}

// CIDSystemInfo names the character collection a CIDFont indexes into.
type CIDSystemInfo struct {
	Registry   string // e.g. "Adobe"
	Ordering   string // e.g. "Japan1", "GB1", "CNS1", "Korea1"
	Supplement int
}

// WidthRange is one /W entry: either one width for a CID range or
// individual widths starting at StartCID.
type WidthRange struct {
	StartCID int
	EndCID   int
	Width    float64
	Widths   []float64
}

// VerticalMetrics is one /W2 entry.
type VerticalMetrics struct {
	StartCID int
	EndCID   int
	W1Y      float64
	W1       float64
	Metrics  []Metric
}

// Metric is a single per-CID vertical metric.
type Metric struct {
	W1Y float64
	W1  float64
}

// FontDescriptor carries the descriptor metrics the metrics layer keeps;
// embedded font programs are referenced but never parsed.
type FontDescriptor struct {
	FontName    string
	Flags       int
	FontBBox    [4]float64
	ItalicAngle float64
	Ascent      float64
	Descent     float64
	CapHeight   float64
	StemV       float64
	StemH       float64

	FontFile  *core.Stream
	FontFile2 *core.Stream
	FontFile3 *core.Stream
}

// derefFn chases an object through the resolver when it is an indirect
// reference; resolution failures yield the reference unchanged.
type derefFn func(core.Object) core.Object

func makeDeref(resolver func(core.IndirectRef) (core.Object, error)) derefFn {
	return func(obj core.Object) core.Object {
		ref, ok := obj.(core.IndirectRef)
		if !ok || resolver == nil {
			return obj
		}
		resolved, err := resolver(ref)
		if err != nil {
			return obj
		}
		return resolved
	}
}

// NewType0Font parses a Type0 font dictionary: encoding, ToUnicode CMap,
// and the descendant CIDFont.
func NewType0Font(fontDict core.Dict, resolver func(core.IndirectRef) (core.Object, error)) (*Type0Font, error) {
	subtype := extractName(fontDict.Get("Subtype"))
	if subtype != "Type0" {
		return nil, fmt.Errorf("not a Type0 font: %s", subtype)
	}
	deref := makeDeref(resolver)

	t0 := &Type0Font{
		Font:     NewFont(extractName(fontDict.Get("Name")), extractName(fontDict.Get("BaseFont")), subtype),
		Encoding: "Identity-H",
	}

	if encodingObj := fontDict.Get("Encoding"); encodingObj != nil {
		t0.Encoding = extractName(encodingObj)
	}
	t0.IsVertical = t0.Encoding == "Identity-V"

	if stream, ok := deref(fontDict.Get("ToUnicode")).(*core.Stream); ok {
		t0.ToUnicode = stream
		if cmap, err := ParseToUnicodeCMap(stream); err == nil {
			t0.Font.ToUnicodeCMap = cmap
		}
	}

	descendant, err := firstDescendant(fontDict, deref)
	if err != nil {
		return nil, fmt.Errorf("failed to parse descendant font: %w", err)
	}
	cidFont, err := NewCIDFont(descendant, resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to parse descendant font: failed to parse CIDFont: %w", err)
	}
	t0.DescendantFont = cidFont

	return t0, nil
}

// firstDescendant resolves the /DescendantFonts array's single entry.
func firstDescendant(fontDict core.Dict, deref derefFn) (core.Dict, error) {
	obj := deref(fontDict.Get("DescendantFonts"))
	if obj == nil {
		return nil, fmt.Errorf("missing DescendantFonts")
	}
	arr, ok := obj.(core.Array)
	if !ok {
		return nil, fmt.Errorf("DescendantFonts is not an array: %T", obj)
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("DescendantFonts array is empty")
	}
	dict, ok := deref(arr[0]).(core.Dict)
	if !ok {
		return nil, fmt.Errorf("descendant font is not a dictionary: %T", arr[0])
	}
	return dict, nil
}

// GetWidth treats the rune as a CID and resolves it through the
// descendant's width tables.
func (t0 *Type0Font) GetWidth(r rune) float64 {
	if t0.DescendantFont == nil {
		return 500.0
	}
	return t0.DescendantFont.GetWidthForCID(int(r))
}

// NewCIDFont parses a CIDFont dictionary: system info, descriptor,
// horizontal and vertical width tables.
func NewCIDFont(fontDict core.Dict, resolver func(core.IndirectRef) (core.Object, error)) (*CIDFont, error) {
	subtype := extractName(fontDict.Get("Subtype"))
	if subtype != "CIDFontType0" && subtype != "CIDFontType2" {
		return nil, fmt.Errorf("not a CIDFont: %s", subtype)
	}
	deref := makeDeref(resolver)

	cid := &CIDFont{
		BaseFont: extractName(fontDict.Get("BaseFont")),
		Subtype:  subtype,
		DW:       1000.0,
	}

	sysInfo, ok := deref(fontDict.Get("CIDSystemInfo")).(core.Dict)
	if !ok {
		if fontDict.Get("CIDSystemInfo") == nil {
			return nil, fmt.Errorf("failed to parse CIDSystemInfo: missing CIDSystemInfo")
		}
		return nil, fmt.Errorf("failed to parse CIDSystemInfo: not a dictionary")
	}
	cid.CIDSystemInfo = &CIDSystemInfo{
		Registry:   extractString(sysInfo.Get("Registry")),
		Ordering:   extractString(sysInfo.Get("Ordering")),
		Supplement: int(getNumber(sysInfo.Get("Supplement"))),
	}

	if fd, ok := deref(fontDict.Get("FontDescriptor")).(core.Dict); ok {
		cid.FontDescriptor = parseFontDescriptor(fd, deref)
	}

	if dw := fontDict.Get("DW"); dw != nil {
		cid.DW = getNumber(dw)
	}
	if arr, ok := deref(fontDict.Get("W")).(core.Array); ok {
		cid.W = parseWidthRanges(arr)
	}
	if arr, ok := deref(fontDict.Get("DW2")).(core.Array); ok && len(arr) >= 2 {
		cid.DW2[0] = getNumber(arr[0])
		cid.DW2[1] = getNumber(arr[1])
	}
	if arr, ok := deref(fontDict.Get("W2")).(core.Array); ok {
		cid.W2 = parseVerticalMetrics(arr)
	}
	if subtype == "CIDFontType2" {
		if stream, ok := deref(fontDict.Get("CIDToGIDMap")).(*core.Stream); ok {
			cid.CIDToGIDMap = stream
		}
	}

	return cid, nil
}

// parseFontDescriptor reads the descriptor's metric fields and font-file
// references.
func parseFontDescriptor(fd core.Dict, deref derefFn) *FontDescriptor {
	out := &FontDescriptor{
		FontName:    extractName(fd.Get("FontName")),
		ItalicAngle: getNumber(fd.Get("ItalicAngle")),
		Ascent:      getNumber(fd.Get("Ascent")),
		Descent:     getNumber(fd.Get("Descent")),
		CapHeight:   getNumber(fd.Get("CapHeight")),
		StemV:       getNumber(fd.Get("StemV")),
		StemH:       getNumber(fd.Get("StemH")),
	}
	if flags, ok := fd.Get("Flags").(core.Int); ok {
		out.Flags = int(flags)
	}
	if bbox, ok := deref(fd.Get("FontBBox")).(core.Array); ok && len(bbox) >= 4 {
		for i := 0; i < 4; i++ {
			out.FontBBox[i] = getNumber(bbox[i])
		}
	}
	if stream, ok := deref(fd.Get("FontFile")).(*core.Stream); ok {
		out.FontFile = stream
	}
	if stream, ok := deref(fd.Get("FontFile2")).(*core.Stream); ok {
		out.FontFile2 = stream
	}
	if stream, ok := deref(fd.Get("FontFile3")).(*core.Stream); ok {
		out.FontFile3 = stream
	}
	return out
}

// parseWidthRanges reads the /W array's two forms: "c [w1 ... wn]" and
// "cFirst cLast w".
func parseWidthRanges(arr core.Array) []WidthRange {
	var out []WidthRange
	for i := 0; i < len(arr); {
		startCID := int(getNumber(arr[i]))
		i++
		if i >= len(arr) {
			break
		}

		if widths, ok := arr[i].(core.Array); ok {
			values := make([]float64, len(widths))
			for j, w := range widths {
				values[j] = getNumber(w)
			}
			out = append(out, WidthRange{
				StartCID: startCID,
				EndCID:   startCID + len(values) - 1,
				Widths:   values,
			})
			i++
			continue
		}

		if i+1 >= len(arr) {
			break
		}
		endCID := int(getNumber(arr[i]))
		width := getNumber(arr[i+1])
		i += 2
		out = append(out, WidthRange{StartCID: startCID, EndCID: endCID, Width: width})
	}
	return out
}

// parseVerticalMetrics reads the /W2 array's two forms: "c [w1y w1 ...]"
// and "cFirst cLast w1y w1".
func parseVerticalMetrics(arr core.Array) []VerticalMetrics {
	var out []VerticalMetrics
	for i := 0; i < len(arr); {
		startCID := int(getNumber(arr[i]))
		i++
		if i >= len(arr) {
			break
		}

		if pairs, ok := arr[i].(core.Array); ok {
			var metrics []Metric
			for j := 0; j+1 < len(pairs); j += 2 {
				metrics = append(metrics, Metric{
					W1Y: getNumber(pairs[j]),
					W1:  getNumber(pairs[j+1]),
				})
			}
			out = append(out, VerticalMetrics{
				StartCID: startCID,
				EndCID:   startCID + len(metrics) - 1,
				Metrics:  metrics,
			})
			i++
			continue
		}

		if i+2 >= len(arr) {
			break
		}
		endCID := int(getNumber(arr[i]))
		w1y := getNumber(arr[i+1])
		w1 := getNumber(arr[i+2])
		i += 3
		out = append(out, VerticalMetrics{StartCID: startCID, EndCID: endCID, W1Y: w1y, W1: w1})
	}
	return out
}

// GetWidthForCID resolves a CID through the /W ranges, falling back to
// the default width.
func (cid *CIDFont) GetWidthForCID(cidValue int) float64 {
	for _, wr := range cid.W {
		if cidValue < wr.StartCID || cidValue > wr.EndCID {
			continue
		}
		if wr.Widths != nil {
			if idx := cidValue - wr.StartCID; idx < len(wr.Widths) {
				return wr.Widths[idx]
			}
			continue
		}
		return wr.Width
	}
	return cid.DW
}

// IsJapanese reports an Adobe-Japan1 character collection.
func (cid *CIDFont) IsJapanese() bool {
	return cid.CIDSystemInfo != nil && cid.CIDSystemInfo.Ordering == "Japan1"
}

// IsChinese reports an Adobe-GB1 or Adobe-CNS1 character collection.
func (cid *CIDFont) IsChinese() bool {
	if cid.CIDSystemInfo == nil {
		return false
	}
	return cid.CIDSystemInfo.Ordering == "GB1" || cid.CIDSystemInfo.Ordering == "CNS1"
}

// IsKorean reports an Adobe-Korea1 character collection.
func (cid *CIDFont) IsKorean() bool {
	return cid.CIDSystemInfo != nil && cid.CIDSystemInfo.Ordering == "Korea1"
}

// IsCJK reports any CJK character collection.
func (cid *CIDFont) IsCJK() bool {
	return cid.IsJapanese() || cid.IsChinese() || cid.IsKorean()
}

// GetCharacterCollection renders the collection as
// "Registry-Ordering-Supplement".
func (cid *CIDFont) GetCharacterCollection() string {
	if cid.CIDSystemInfo == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%s-%s-%d",
		cid.CIDSystemInfo.Registry, cid.CIDSystemInfo.Ordering, cid.CIDSystemInfo.Supplement)
}

// extractName reads a Name object's text, tolerating strings.
func extractName(obj core.Object) string {
	switch v := obj.(type) {
	case core.Name:
		return string(v)
	case core.String:
		return string(v)
	}
	return ""
}

// extractString reads a String or Name object's text.
func extractString(obj core.Object) string {
	switch v := obj.(type) {
	case core.String:
		return string(v)
	case core.Name:
		return string(v)
	}
	return ""
}

// getNumber reads any numeric object as a float64.
func getNumber(obj core.Object) float64 {
	switch v := obj.(type) {
	case core.Int:
		return float64(v)
	case core.Real:
		return float64(v)
	}
	return 0
}
