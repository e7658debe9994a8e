// Package drawingml provides DrawingML (Office Open XML graphics) parsing
// and serialization: colors with transform chains, fills, lines, effects,
// geometry, shape trees, text bodies, and tables.
//
// Parsers are total: every attribute and child is optional, and missing
// content yields the zero value or nil rather than an error. Serializers
// emit the canonical ECMA-376 child ordering so patched documents stay
// valid for strict consumers.
//
// Measurement conventions: lengths are EMU (914400 per inch, 9525 per
// pixel at 96 DPI); font sizes are centipoints; angles are 60000ths of a
// degree; percentages are 1000ths (adjusting values documented per field).
package drawingml
