// Package pageflow implements the document page-flow engine: splitting
// already line-broken paragraphs into pages and columns under widow/orphan
// control, keep-with-next/keep-together, hard and section breaks, and
// vertical writing modes.
package pageflow

// Line is one laid-out line of a paragraph.
type Line struct {
	Height float64
}

// SectionBreak enumerates section break kinds.
type SectionBreak string

// Section break kinds.
const (
	SectionNone       SectionBreak = ""
	SectionNextPage   SectionBreak = "nextPage"
	SectionEvenPage   SectionBreak = "evenPage"
	SectionOddPage    SectionBreak = "oddPage"
	SectionContinuous SectionBreak = "continuous"
	SectionNextColumn SectionBreak = "nextColumn"
)

// Paragraph is one flow unit: its lines plus pagination hints.
type Paragraph struct {
	Lines []Line

	BreakBefore  bool
	KeepWithNext bool
	KeepTogether bool

	// WidowControl overrides the config default when non-nil.
	WidowControl *bool

	// HardBreakAfter forces a page break after this paragraph (a
	// w:br type="page" inside one of its lines).
	HardBreakAfter bool

	// ColumnBreakAfter advances to the next column (next page on the
	// last column).
	ColumnBreakAfter bool

	SectionBreakAfter SectionBreak
}

// TotalHeight sums the paragraph's line heights.
func (p Paragraph) TotalHeight() float64 {
	var h float64
	for _, l := range p.Lines {
		h += l.Height
	}
	return h
}

func (p Paragraph) linesHeight(from, to int) float64 {
	var h float64
	for _, l := range p.Lines[from:to] {
		h += l.Height
	}
	return h
}

// Config is the page-flow configuration.
type Config struct {
	PageWidth, PageHeight float64

	// WidowLines and OrphanLines are the minimum lines at the top of the
	// next page and the bottom of the current page when splitting.
	WidowLines  int
	OrphanLines int

	// WidowControl enables the widow/orphan minima; per-paragraph
	// overrides take precedence.
	WidowControl bool

	Columns   int
	ColumnGap float64

	// WritingMode is "", "vertical-rl", or "vertical-lr".
	WritingMode string
}

// DefaultConfig returns the standard configuration: widow/orphan 2/2,
// widow control on, a single column.
func DefaultConfig(pageWidth, pageHeight float64) Config {
	return Config{
		PageWidth:    pageWidth,
		PageHeight:   pageHeight,
		WidowLines:   2,
		OrphanLines:  2,
		WidowControl: true,
		Columns:      1,
	}
}

func (c Config) columns() int {
	if c.Columns < 1 {
		return 1
	}
	return c.Columns
}

func (c Config) columnWidth() float64 {
	n := float64(c.columns())
	return (c.PageWidth - c.ColumnGap*(n-1)) / n
}

// Placement is a run of one paragraph's lines placed in a column.
// EndLine is exclusive.
type Placement struct {
	ParagraphIndex int
	StartLine      int
	EndLine        int

	// X, Y, Width, Height are the placed rectangle in page coordinates
	// (after any writing-mode transform).
	X, Y, Width, Height float64
}

// Column is one column's placements.
type Column struct {
	Placements []Placement
}

// Page is one laid-out page.
type Page struct {
	Number int
	Blank  bool

	Columns []Column

	Width, Height float64
}

// flowState tracks the cursor during flow.
type flowState struct {
	cfg   Config
	pages []Page

	column    int
	remaining float64
}

func newFlowState(cfg Config) *flowState {
	s := &flowState{cfg: cfg}
	s.openPage(false)
	return s
}

func (s *flowState) openPage(blank bool) {
	page := Page{
		Number:  len(s.pages) + 1,
		Blank:   blank,
		Columns: make([]Column, s.cfg.columns()),
		Width:   s.cfg.PageWidth,
		Height:  s.cfg.PageHeight,
	}
	s.pages = append(s.pages, page)
	s.column = 0
	s.remaining = s.cfg.PageHeight
}

func (s *flowState) page() *Page {
	return &s.pages[len(s.pages)-1]
}

func (s *flowState) advanceColumn() {
	if s.column+1 < s.cfg.columns() {
		s.column++
		s.remaining = s.cfg.PageHeight
		return
	}
	s.openPage(false)
}

func (s *flowState) advancePage() {
	s.openPage(false)
}

func (s *flowState) atColumnTop() bool {
	return s.remaining == s.cfg.PageHeight
}

func (s *flowState) columnX() float64 {
	return float64(s.column) * (s.cfg.columnWidth() + s.cfg.ColumnGap)
}

func (s *flowState) place(paraIdx int, p Paragraph, from, to int) {
	height := p.linesHeight(from, to)
	placement := Placement{
		ParagraphIndex: paraIdx,
		StartLine:      from,
		EndLine:        to,
		X:              s.columnX(),
		Y:              s.cfg.PageHeight - s.remaining,
		Width:          s.cfg.columnWidth(),
		Height:         height,
	}
	page := s.page()
	page.Columns[s.column].Placements = append(page.Columns[s.column].Placements, placement)
	s.remaining -= height
}

// Flow splits paragraphs into pages. Paragraph order is preserved; every
// placement references its paragraph by index.
func Flow(paragraphs []Paragraph, cfg Config) []Page {
	if cfg.WidowLines == 0 {
		cfg.WidowLines = 2
	}
	if cfg.OrphanLines == 0 {
		cfg.OrphanLines = 2
	}

	s := newFlowState(cfg)

	for i := 0; i < len(paragraphs); i++ {
		p := paragraphs[i]

		if p.BreakBefore && !s.atColumnTop() {
			s.advancePage()
		}

		// keepWithNext: this paragraph and the next must share the
		// column; if the pair does not fit in the remaining space (but
		// would fit in a fresh column), break before this paragraph.
		if p.KeepWithNext && i+1 < len(paragraphs) && !s.atColumnTop() {
			pair := p.TotalHeight() + paragraphs[i+1].TotalHeight()
			if pair > s.remaining && pair <= cfg.PageHeight {
				s.advanceColumn()
			}
		}

		s.flowParagraph(i, p)

		switch {
		case p.HardBreakAfter:
			s.advancePage()
		case p.ColumnBreakAfter:
			s.advanceColumn()
		}

		switch p.SectionBreakAfter {
		case SectionNextPage:
			s.advancePage()
		case SectionEvenPage:
			s.advancePage()
			// The new page must be even-numbered; insert a blank page
			// when it is not.
			if s.page().Number%2 != 0 {
				s.page().Blank = true
				s.advancePage()
			}
		case SectionOddPage:
			s.advancePage()
			if s.page().Number%2 != 1 {
				s.page().Blank = true
				s.advancePage()
			}
		case SectionNextColumn:
			s.advanceColumn()
		case SectionContinuous, SectionNone:
			// Continuous sections change formatting without breaking
			// the flow.
		}
	}

	pages := s.pages
	if cfg.WritingMode == "vertical-rl" || cfg.WritingMode == "vertical-lr" {
		pages = applyVerticalWritingMode(pages, cfg)
	}
	return pages
}

// flowParagraph places one paragraph, splitting it across columns under
// the widow/orphan rules.
func (s *flowState) flowParagraph(paraIdx int, p Paragraph) {
	n := len(p.Lines)
	if n == 0 {
		return
	}

	widowControl := s.cfg.WidowControl
	if p.WidowControl != nil {
		widowControl = *p.WidowControl
	}

	from := 0
	for from < n {
		restHeight := p.linesHeight(from, n)
		if restHeight <= s.remaining {
			s.place(paraIdx, p, from, n)
			return
		}

		// Find how many of the remaining lines fit here.
		fit := from
		h := 0.0
		for fit < n {
			h += p.Lines[fit].Height
			if h > s.remaining {
				break
			}
			fit++
		}
		fitCount := fit - from

		if p.KeepTogether || fitCount <= 0 {
			if s.atColumnTop() {
				// Nothing smaller than a line (or an unsplittable
				// paragraph taller than a column): place whole and
				// overflow.
				s.place(paraIdx, p, from, n)
				return
			}
			s.advanceColumn()
			continue
		}

		split := fitCount
		if widowControl {
			rest := n - from
			// Bottom of this column keeps at least OrphanLines; top of
			// the next keeps at least WidowLines.
			split = fitCount
			if rest-split < s.cfg.WidowLines {
				split = rest - s.cfg.WidowLines
			}
			if split < s.cfg.OrphanLines {
				// No split satisfies both minima: the paragraph moves
				// entirely to the next column.
				if s.atColumnTop() {
					s.place(paraIdx, p, from, n)
					return
				}
				s.advanceColumn()
				continue
			}
		}

		s.place(paraIdx, p, from, from+split)
		from += split
		s.advanceColumn()
	}
}

// applyVerticalWritingMode transforms placements after flow: the inline
// axis becomes y and the block axis becomes x (right to left for
// vertical-rl, left to right for vertical-lr), with page width and height
// swapped.
func applyVerticalWritingMode(pages []Page, cfg Config) []Page {
	out := make([]Page, len(pages))
	for pi, page := range pages {
		transformed := page
		transformed.Width = page.Height
		transformed.Height = page.Width
		transformed.Columns = make([]Column, len(page.Columns))
		for ci, col := range page.Columns {
			newCol := Column{}
			for _, pl := range col.Placements {
				t := pl
				// Block position (pl.Y, extent pl.Height) maps to x;
				// inline position (pl.X, extent pl.Width) maps to y.
				if cfg.WritingMode == "vertical-rl" {
					t.X = transformed.Width - pl.Y - pl.Height
				} else {
					t.X = pl.Y
				}
				t.Y = pl.X
				t.Width, t.Height = pl.Height, pl.Width
				newCol.Placements = append(newCol.Placements, t)
			}
			transformed.Columns[ci] = newCol
		}
		out[pi] = transformed
	}
	return out
}
