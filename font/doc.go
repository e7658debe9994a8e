// Package font provides the PDF font-metrics layer: character widths,
// encodings, and ToUnicode mapping for text positioning and decoding.
//
// The [Font] type carries a metrics table keyed by character code. The
// Standard 14 fonts ship with built-in widths; embedded fonts populate
// their tables from the font dictionary's /Widths array (simple fonts)
// or /W array ([Type0Font]/[CIDFont] composite fonts, which also parse
// show-operator strings as two-byte codes).
//
// Text decoding priorities: an embedded ToUnicode [CMap], a UTF-16 byte
// order mark, then the named simple-font [Encoding]; every decoded
// string is normalized to NFC.
//
//	width := f.GetWidth(code)
//	text := f.DecodeString(raw)
//
// Glyph programs embedded in font files are out of scope — the package
// extracts metrics, not outlines.
package font
