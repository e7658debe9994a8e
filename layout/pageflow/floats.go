package pageflow

import "sort"

// AnchorFrame enumerates the reference frames a floating image positions
// against.
type AnchorFrame string

// Anchor reference frames.
const (
	FramePage      AnchorFrame = "page"
	FrameMargin    AnchorFrame = "margin"
	FrameColumn    AnchorFrame = "column"
	FrameParagraph AnchorFrame = "paragraph"
)

// FloatAlign enumerates horizontal alignments inside the reference frame.
type FloatAlign string

// Float alignments. Inside/outside resolve against the page parity
// (inside = binding edge).
const (
	AlignNone    FloatAlign = ""
	AlignLeft    FloatAlign = "left"
	AlignRight   FloatAlign = "right"
	AlignCenter  FloatAlign = "center"
	AlignInside  FloatAlign = "inside"
	AlignOutside FloatAlign = "outside"
)

// FloatingImage is an anchored image to position after flow.
type FloatingImage struct {
	// AnchorParagraph is the paragraph index the anchor run belongs to;
	// the image lands on whatever page that paragraph flowed to.
	AnchorParagraph int

	Width, Height float64

	Frame AnchorFrame
	Align FloatAlign

	// OffsetX/OffsetY position the image when Align is AlignNone.
	OffsetX, OffsetY float64

	// BehindText stacks the image behind the text layer.
	BehindText bool

	// RelativeHeight orders images within their layer.
	RelativeHeight int

	// Margins apply when the frame is FrameMargin.
	MarginLeft, MarginRight, MarginTop float64
}

// PositionedImage is a floating image resolved to a page and rectangle.
type PositionedImage struct {
	Image FloatingImage

	PageNumber int
	X, Y       float64
}

// ImageLayers are the z-ordered float lists of one document.
type ImageLayers struct {
	BehindText  []PositionedImage
	InFrontText []PositionedImage
}

// PositionFloats places floating images after flow: each image lands on
// its anchor paragraph's first page, aligned within its reference frame,
// then images split by BehindText and sort by RelativeHeight.
func PositionFloats(images []FloatingImage, pages []Page, cfg Config) ImageLayers {
	pageOf := anchorPageIndex(pages)

	layers := ImageLayers{}
	for _, img := range images {
		pageNum, ok := pageOf[img.AnchorParagraph]
		if !ok {
			// An anchor that never flowed (empty paragraph) falls back
			// to the first page.
			pageNum = 1
		}

		positioned := PositionedImage{Image: img, PageNumber: pageNum}
		positioned.X, positioned.Y = resolvePosition(img, pageNum, pages, cfg)

		if img.BehindText {
			layers.BehindText = append(layers.BehindText, positioned)
		} else {
			layers.InFrontText = append(layers.InFrontText, positioned)
		}
	}

	byHeight := func(list []PositionedImage) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Image.RelativeHeight < list[j].Image.RelativeHeight
		})
	}
	byHeight(layers.BehindText)
	byHeight(layers.InFrontText)
	return layers
}

func anchorPageIndex(pages []Page) map[int]int {
	out := map[int]int{}
	for _, page := range pages {
		for _, col := range page.Columns {
			for _, pl := range col.Placements {
				if _, seen := out[pl.ParagraphIndex]; !seen {
					out[pl.ParagraphIndex] = page.Number
				}
			}
		}
	}
	return out
}

func resolvePosition(img FloatingImage, pageNum int, pages []Page, cfg Config) (float64, float64) {
	frameX := 0.0
	frameW := cfg.PageWidth

	switch img.Frame {
	case FrameMargin:
		frameX = img.MarginLeft
		frameW = cfg.PageWidth - img.MarginLeft - img.MarginRight
	case FrameColumn:
		frameW = cfg.columnWidth()
	case FrameParagraph:
		frameW = cfg.columnWidth()
	}

	var x float64
	switch resolveAlign(img.Align, pageNum) {
	case AlignLeft:
		x = frameX
	case AlignRight:
		x = frameX + frameW - img.Width
	case AlignCenter:
		x = frameX + (frameW-img.Width)/2
	default:
		x = frameX + img.OffsetX
	}

	y := img.OffsetY
	if img.Frame == FrameMargin {
		y += img.MarginTop
	}
	return x, y
}

// resolveAlign maps inside/outside to left/right by page parity: odd
// pages bind on the left.
func resolveAlign(align FloatAlign, pageNum int) FloatAlign {
	odd := pageNum%2 == 1
	switch align {
	case AlignInside:
		if odd {
			return AlignLeft
		}
		return AlignRight
	case AlignOutside:
		if odd {
			return AlignRight
		}
		return AlignLeft
	}
	return align
}
