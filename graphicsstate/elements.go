package graphicsstate

import (
	"github.com/trkbt10/officekit/core"
	"github.com/trkbt10/officekit/model"
)

// ElementKind identifies the concrete type of a parsed content element.
type ElementKind int

const (
	// ElementPath is a painted path
	ElementPath ElementKind = iota
	// ElementText is a BT..ET text object
	ElementText
	// ElementImage is an image XObject reference that was not decodable
	ElementImage
	// ElementRasterImage is a decoded raster image
	ElementRasterImage
	// ElementShading is a sh shading fill
	ElementShading
)

// Element is a parsed content-stream element. Every element carries a full
// graphics-state snapshot, so consumers never need to replay the stream.
type Element interface {
	Kind() ElementKind
	GraphicsState() *GraphicsState
}

// FillRule selects between nonzero-winding and even-odd filling.
type FillRule int

const (
	// FillRuleNonZero is the nonzero winding number rule (f, B, b)
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd is the even-odd rule (f*, B*, b*)
	FillRuleEvenOdd
)

// ParsedPath is a path flushed by a paint operator. Segments are in user
// space; the snapshot's CTM maps them to page space.
type ParsedPath struct {
	Segments []PathSegment
	PaintOp  string
	FillRule FillRule
	State    *GraphicsState
}

// Kind implements Element.
func (p *ParsedPath) Kind() ElementKind { return ElementPath }

// GraphicsState implements Element.
func (p *ParsedPath) GraphicsState() *GraphicsState { return p.State }

// IsStroked reports whether the paint operator strokes the path.
func (p *ParsedPath) IsStroked() bool {
	switch p.PaintOp {
	case "S", "s", "B", "B*", "b", "b*":
		return true
	}
	return false
}

// IsFilled reports whether the paint operator fills the path.
func (p *ParsedPath) IsFilled() bool {
	switch p.PaintOp {
	case "f", "F", "f*", "B", "B*", "b", "b*":
		return true
	}
	return false
}

// DeviceBBox returns the path's bounding box in page space.
func (p *ParsedPath) DeviceBBox() model.BBox {
	first := true
	var minX, minY, maxX, maxY float64
	add := func(pt model.Point) {
		dp := p.State.CTM.Transform(pt)
		if first {
			minX, maxX = dp.X, dp.X
			minY, maxY = dp.Y, dp.Y
			first = false
			return
		}
		if dp.X < minX {
			minX = dp.X
		}
		if dp.X > maxX {
			maxX = dp.X
		}
		if dp.Y < minY {
			minY = dp.Y
		}
		if dp.Y > maxY {
			maxY = dp.Y
		}
	}
	for _, seg := range p.Segments {
		for _, pt := range seg.Points {
			add(pt)
		}
	}
	if first {
		return model.BBox{}
	}
	return model.BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// TextRun is one show-operator's worth of text with its positioning
// resolved to page space.
type TextRun struct {
	Text string

	// TextMatrix is Tm at the time of the show operator.
	TextMatrix model.Matrix

	// X, Y are the baseline start in page space; EndX is the baseline end
	// accounting for glyph widths, char/word spacing, and horizontal
	// scaling.
	X, Y, EndX float64

	FontName string
	FontSize float64

	// EffectiveFontSize is FontSize scaled by the text matrix and CTM.
	EffectiveFontSize float64

	CharSpacing float64
	WordSpacing float64

	State *GraphicsState
}

// ParsedText is a BT..ET text object.
type ParsedText struct {
	Runs  []TextRun
	State *GraphicsState
}

// Kind implements Element.
func (t *ParsedText) Kind() ElementKind { return ElementText }

// GraphicsState implements Element.
func (t *ParsedText) GraphicsState() *GraphicsState { return t.State }

// ParsedImage is an image XObject whose pixel data was not decoded (an
// unsupported filter or color space); the name still lets callers fetch
// the raw stream from the page resources.
type ParsedImage struct {
	Name  string
	State *GraphicsState
}

// Kind implements Element.
func (i *ParsedImage) Kind() ElementKind { return ElementImage }

// GraphicsState implements Element.
func (i *ParsedImage) GraphicsState() *GraphicsState { return i.State }

// ParsedShading is a sh shading fill. The dictionary is the resolved
// shading from the page's /Shading resources; the fill covers the clip
// region in force.
type ParsedShading struct {
	Name  string
	Dict  core.Dict
	State *GraphicsState
}

// Kind implements Element.
func (s *ParsedShading) Kind() ElementKind { return ElementShading }

// GraphicsState implements Element.
func (s *ParsedShading) GraphicsState() *GraphicsState { return s.State }

// ParsedRasterImage is a decoded raster image. Data is tightly packed RGB
// (3 bytes per pixel, rows top to bottom); Alpha, when non-nil, is one byte
// per pixel and already includes any soft-mask contribution.
type ParsedRasterImage struct {
	Name   string
	Width  int
	Height int
	Data   []byte
	Alpha  []byte
	State  *GraphicsState
}

// Kind implements Element.
func (i *ParsedRasterImage) Kind() ElementKind { return ElementRasterImage }

// GraphicsState implements Element.
func (i *ParsedRasterImage) GraphicsState() *GraphicsState { return i.State }
