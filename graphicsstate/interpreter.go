package graphicsstate

import (
	"fmt"
	"math"

	"github.com/trkbt10/officekit/contentstream"
	"github.com/trkbt10/officekit/core"
	"github.com/trkbt10/officekit/font"
	"github.com/trkbt10/officekit/model"
)

// AlphaSampler samples a rasterized soft mask's alpha at a page-space point.
type AlphaSampler interface {
	AlphaAt(x, y float64) uint8
}

// MaskEvaluator turns a soft-mask definition into a sampler. The softmask
// package provides the real implementation; the indirection keeps mask
// rasterization out of the interpreter itself.
type MaskEvaluator interface {
	Evaluate(def *SoftMaskDef) (AlphaSampler, error)
}

// Interpreter runs content-stream operations against a stacked graphics
// state and produces parsed elements, each carrying a full state snapshot.
//
// A malformed operator does not terminate interpretation: the failed step
// is recorded as a warning and processing continues with the next operator.
type Interpreter struct {
	gs   *GraphicsState
	path *Path

	elements []Element
	warnings []string

	inTextObject bool
	textRuns     []TextRun

	resources core.Dict
	resolve   func(core.Object) (core.Object, error)
	fonts     map[string]*font.Font

	maskEval MaskEvaluator

	shadingMaxSize        int
	softMaskVectorMaxSize int
	strict                bool

	formDepth int
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithResources sets the page resource dictionary used to resolve
// /ExtGState, /XObject, and /Font names.
func WithResources(resources core.Dict) InterpreterOption {
	return func(i *Interpreter) { i.resources = resources }
}

// WithResolver sets the function used to chase indirect references.
func WithResolver(resolve func(core.Object) (core.Object, error)) InterpreterOption {
	return func(i *Interpreter) { i.resolve = resolve }
}

// WithMaskEvaluator installs a soft-mask evaluator; without one, soft masks
// are carried on snapshots but never rasterized.
func WithMaskEvaluator(eval MaskEvaluator) InterpreterOption {
	return func(i *Interpreter) { i.maskEval = eval }
}

// WithShadingMaxSize stores a shading rasterization setting on the
// interpreter. The interpreter never rasterizes shadings and does not read
// the value; shading inside soft masks follows the mask evaluator's own
// setting.
func WithShadingMaxSize(size int) InterpreterOption {
	return func(i *Interpreter) { i.shadingMaxSize = size }
}

// WithSoftMaskVectorMaxSize stores the soft-mask vector extent on the
// interpreter. The interpreter does not read the value; text and path
// rasterization inside masks follows the mask evaluator's own setting.
func WithSoftMaskVectorMaxSize(size int) InterpreterOption {
	return func(i *Interpreter) { i.softMaskVectorMaxSize = size }
}

// WithStrict enables fail-fast validation instead of warning recovery.
func WithStrict(strict bool) InterpreterOption {
	return func(i *Interpreter) { i.strict = strict }
}

// NewInterpreter creates an interpreter with a fresh graphics state.
func NewInterpreter(opts ...InterpreterOption) *Interpreter {
	i := &Interpreter{
		gs:    NewGraphicsState(),
		path:  NewPath(),
		fonts: make(map[string]*font.Font),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// RegisterFont makes a parsed font available to text positioning under its
// resource name (e.g. "F1").
func (i *Interpreter) RegisterFont(name string, f *font.Font) {
	i.fonts[name] = f
}

// Elements returns the parsed elements in stream order.
func (i *Interpreter) Elements() []Element {
	return i.elements
}

// Warnings returns the recovered-error messages accumulated so far.
func (i *Interpreter) Warnings() []string {
	return i.warnings
}

// Run parses and interprets raw content-stream bytes.
func (i *Interpreter) Run(data []byte) error {
	parser := contentstream.NewParser(data)
	operations, err := parser.Parse()
	if err != nil {
		return err
	}
	return i.Interpret(operations)
}

// Interpret processes a sequence of operations. Per-operator failures are
// recovered (recorded as warnings) unless strict mode is on.
func (i *Interpreter) Interpret(operations []contentstream.Operation) error {
	for idx, op := range operations {
		if err := i.processOperation(op); err != nil {
			if i.strict {
				return fmt.Errorf("operator %d (%s): %w", idx, op.Operator, err)
			}
			i.warnings = append(i.warnings, fmt.Sprintf("operator %d (%s): %v", idx, op.Operator, err))
		}
	}
	// An unterminated text object still flushes its runs.
	if i.inTextObject {
		i.endTextObject()
		i.warnings = append(i.warnings, "unterminated text object at end of stream")
	}
	return nil
}

func (i *Interpreter) processOperation(op contentstream.Operation) error {
	switch op.Operator {

	// Graphics state
	case "q":
		i.gs.Save()
	case "Q":
		if err := i.gs.Restore(); err != nil {
			// Unmatched Q is a recovered parse error: ignored, not fatal.
			return err
		}
	case "cm":
		m, err := matrixOperands(op.Operands)
		if err != nil {
			return err
		}
		i.gs.Transform(m)
	case "w":
		v, err := floatOperand(op.Operands, 0)
		if err != nil {
			return err
		}
		i.gs.SetLineWidth(v)
	case "J":
		if v, ok := intOperand(op.Operands, 0); ok {
			i.gs.LineCap = v
		}
	case "j":
		if v, ok := intOperand(op.Operands, 0); ok {
			i.gs.LineJoin = v
		}
	case "M":
		if v, err := floatOperand(op.Operands, 0); err == nil {
			i.gs.MiterLimit = v
		}
	case "d":
		if len(op.Operands) == 2 {
			if arr, ok := op.Operands[0].(core.Array); ok {
				pattern := make([]float64, 0, len(arr))
				for _, o := range arr {
					if f, ok := toFloat(o); ok {
						pattern = append(pattern, f)
					}
				}
				i.gs.DashPattern = pattern
				if phase, ok := toFloat(op.Operands[1]); ok {
					i.gs.DashPhase = phase
				}
			}
		}
	case "gs":
		return i.applyNamedExtGState(op.Operands)
	case "i", "ri":
		// Flatness and rendering intent carry no consequence for parsing.

	// Clipping
	case "W", "W*":
		if !i.path.IsEmpty() {
			i.gs.IntersectClip(i.devicePathBBox())
		}

	// Color
	case "RG":
		r, g, b, err := rgbOperands(op.Operands)
		if err != nil {
			return err
		}
		i.gs.SetStrokeColorRGB(r, g, b)
	case "rg":
		r, g, b, err := rgbOperands(op.Operands)
		if err != nil {
			return err
		}
		i.gs.SetFillColorRGB(r, g, b)
	case "G":
		v, err := floatOperand(op.Operands, 0)
		if err != nil {
			return err
		}
		i.gs.SetStrokeGray(v)
	case "g":
		v, err := floatOperand(op.Operands, 0)
		if err != nil {
			return err
		}
		i.gs.SetFillGray(v)
	case "K":
		c, m, y, k, err := cmykOperands(op.Operands)
		if err != nil {
			return err
		}
		i.gs.SetStrokeCMYK(c, m, y, k)
	case "k":
		c, m, y, k, err := cmykOperands(op.Operands)
		if err != nil {
			return err
		}
		i.gs.SetFillCMYK(c, m, y, k)
	case "cs", "CS":
		// Color space selection; component values arrive via sc/scn.
	case "sc", "scn":
		i.setComponentColor(op.Operands, false)
	case "SC", "SCN":
		i.setComponentColor(op.Operands, true)

	// Path construction
	case "m":
		x, y, err := pointOperands(op.Operands)
		if err != nil {
			return err
		}
		i.path.MoveTo(x, y)
	case "l":
		x, y, err := pointOperands(op.Operands)
		if err != nil {
			return err
		}
		i.path.LineTo(x, y)
	case "c":
		if len(op.Operands) != 6 {
			return fmt.Errorf("c expects 6 operands, got %d", len(op.Operands))
		}
		v := make([]float64, 6)
		for n := range v {
			f, ok := toFloat(op.Operands[n])
			if !ok {
				return fmt.Errorf("c operand %d is not a number", n)
			}
			v[n] = f
		}
		i.path.CurveTo(v[0], v[1], v[2], v[3], v[4], v[5])
	case "v":
		if len(op.Operands) != 4 {
			return fmt.Errorf("v expects 4 operands, got %d", len(op.Operands))
		}
		x2, _ := toFloat(op.Operands[0])
		y2, _ := toFloat(op.Operands[1])
		x3, _ := toFloat(op.Operands[2])
		y3, _ := toFloat(op.Operands[3])
		i.path.CurveToV(x2, y2, x3, y3)
	case "y":
		if len(op.Operands) != 4 {
			return fmt.Errorf("y expects 4 operands, got %d", len(op.Operands))
		}
		x1, _ := toFloat(op.Operands[0])
		y1, _ := toFloat(op.Operands[1])
		x3, _ := toFloat(op.Operands[2])
		y3, _ := toFloat(op.Operands[3])
		i.path.CurveToY(x1, y1, x3, y3)
	case "re":
		if len(op.Operands) != 4 {
			return fmt.Errorf("re expects 4 operands, got %d", len(op.Operands))
		}
		x, _ := toFloat(op.Operands[0])
		y, _ := toFloat(op.Operands[1])
		w, _ := toFloat(op.Operands[2])
		h, _ := toFloat(op.Operands[3])
		i.path.Rectangle(x, y, w, h)
	case "h":
		i.path.ClosePath()

	// Path painting
	case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*":
		i.flushPath(op.Operator)
	case "n":
		i.path.Clear()

	// Text
	case "BT":
		if i.inTextObject {
			// Recoverable: treat as ET + BT.
			i.endTextObject()
		}
		i.inTextObject = true
		i.gs.BeginText()
	case "ET":
		if !i.inTextObject {
			return fmt.Errorf("ET outside text object")
		}
		i.endTextObject()
	case "Tf":
		if len(op.Operands) != 2 {
			return fmt.Errorf("Tf expects 2 operands")
		}
		name, ok := op.Operands[0].(core.Name)
		if !ok {
			return fmt.Errorf("Tf font operand is not a name")
		}
		size, _ := toFloat(op.Operands[1])
		i.gs.SetFont(string(name), size)
	case "Tc":
		if v, err := floatOperand(op.Operands, 0); err == nil {
			i.gs.SetCharSpacing(v)
		}
	case "Tw":
		if v, err := floatOperand(op.Operands, 0); err == nil {
			i.gs.SetWordSpacing(v)
		}
	case "Tz":
		if v, err := floatOperand(op.Operands, 0); err == nil {
			i.gs.SetHorizontalScaling(v)
		}
	case "TL":
		if v, err := floatOperand(op.Operands, 0); err == nil {
			i.gs.SetLeading(v)
		}
	case "Tr":
		if v, ok := intOperand(op.Operands, 0); ok {
			i.gs.SetRenderingMode(v)
		}
	case "Ts":
		if v, err := floatOperand(op.Operands, 0); err == nil {
			i.gs.SetTextRise(v)
		}
	case "Td":
		x, y, err := pointOperands(op.Operands)
		if err != nil {
			return err
		}
		i.gs.TranslateText(x, y)
	case "TD":
		x, y, err := pointOperands(op.Operands)
		if err != nil {
			return err
		}
		i.gs.TranslateTextSetLeading(x, y)
	case "Tm":
		m, err := matrixOperands(op.Operands)
		if err != nil {
			return err
		}
		i.gs.SetTextMatrix(m)
	case "T*":
		i.gs.NextLine()
	case "Tj":
		if len(op.Operands) != 1 {
			return fmt.Errorf("Tj expects 1 operand")
		}
		s, ok := op.Operands[0].(core.String)
		if !ok {
			return fmt.Errorf("Tj operand is not a string")
		}
		i.showText([]byte(s))
	case "'":
		if len(op.Operands) != 1 {
			return fmt.Errorf("' expects 1 operand")
		}
		i.gs.NextLine()
		if s, ok := op.Operands[0].(core.String); ok {
			i.showText([]byte(s))
		}
	case "\"":
		if len(op.Operands) != 3 {
			return fmt.Errorf("\" expects 3 operands")
		}
		if aw, ok := toFloat(op.Operands[0]); ok {
			i.gs.SetWordSpacing(aw)
		}
		if ac, ok := toFloat(op.Operands[1]); ok {
			i.gs.SetCharSpacing(ac)
		}
		i.gs.NextLine()
		if s, ok := op.Operands[2].(core.String); ok {
			i.showText([]byte(s))
		}
	case "TJ":
		if len(op.Operands) != 1 {
			return fmt.Errorf("TJ expects 1 operand")
		}
		arr, ok := op.Operands[0].(core.Array)
		if !ok {
			return fmt.Errorf("TJ operand is not an array")
		}
		i.showTextArray(arr)

	// XObjects
	case "Do":
		if len(op.Operands) != 1 {
			return fmt.Errorf("Do expects 1 operand")
		}
		name, ok := op.Operands[0].(core.Name)
		if !ok {
			return fmt.Errorf("Do operand is not a name")
		}
		return i.invokeXObject(string(name))

	// Shading fills: the element carries the resolved shading dictionary;
	// rasterization only happens inside soft-mask evaluation, when the mask
	// evaluator has shading enabled.
	case "sh":
		if len(op.Operands) != 1 {
			return fmt.Errorf("sh expects 1 operand")
		}
		name, ok := op.Operands[0].(core.Name)
		if !ok {
			return fmt.Errorf("sh operand is not a name")
		}
		var dict core.Dict
		if shadings, ok := i.lookupResourceDict("Shading"); ok {
			if d, ok := i.derefOrNil(shadings.Get(string(name))).(core.Dict); ok {
				dict = d
			} else if s, ok := i.derefOrNil(shadings.Get(string(name))).(*core.Stream); ok {
				dict = s.Dict
			}
		}
		i.elements = append(i.elements, &ParsedShading{Name: string(name), Dict: dict, State: i.snapshot()})

	// Inline images and marked content carry nothing the element model
	// needs.
	case "BI", "ID", "EI", "BMC", "BDC", "EMC", "MP", "DP", "BX", "EX":

	default:
		// Unknown operators are skipped silently, matching the recovery
		// contract.
	}

	return nil
}

// snapshot captures the current graphics state for attachment to an element.
func (i *Interpreter) snapshot() *GraphicsState {
	return i.gs.Clone()
}

func (i *Interpreter) devicePathBBox() model.BBox {
	tmp := &ParsedPath{Segments: i.path.Segments, State: i.gs}
	return tmp.DeviceBBox()
}

func (i *Interpreter) flushPath(paintOp string) {
	if i.path.IsEmpty() {
		i.path.Clear()
		return
	}
	rule := FillRuleNonZero
	switch paintOp {
	case "f*", "B*", "b*":
		rule = FillRuleEvenOdd
	}
	segments := make([]PathSegment, len(i.path.Segments))
	copy(segments, i.path.Segments)
	i.elements = append(i.elements, &ParsedPath{
		Segments: segments,
		PaintOp:  paintOp,
		FillRule: rule,
		State:    i.snapshot(),
	})
	i.path.Clear()
}

func (i *Interpreter) endTextObject() {
	if len(i.textRuns) > 0 {
		runs := make([]TextRun, len(i.textRuns))
		copy(runs, i.textRuns)
		i.elements = append(i.elements, &ParsedText{Runs: runs, State: i.snapshot()})
	}
	i.textRuns = nil
	i.inTextObject = false
	i.gs.EndText()
}

func (i *Interpreter) setComponentColor(operands []core.Object, stroke bool) {
	// The final operand of scn may be a pattern name.
	components := make([]float64, 0, len(operands))
	pattern := false
	for _, o := range operands {
		if _, ok := o.(core.Name); ok {
			pattern = true
			continue
		}
		if f, ok := toFloat(o); ok {
			components = append(components, f)
		}
	}
	switch {
	case pattern:
		if stroke {
			i.gs.StrokeColorSpace = ColorSpacePattern
			i.gs.StrokeComponents = components
		} else {
			i.gs.FillColorSpace = ColorSpacePattern
			i.gs.FillComponents = components
		}
	case len(components) == 1:
		if stroke {
			i.gs.SetStrokeGray(components[0])
		} else {
			i.gs.SetFillGray(components[0])
		}
	case len(components) == 3:
		if stroke {
			i.gs.SetStrokeColorRGB(components[0], components[1], components[2])
		} else {
			i.gs.SetFillColorRGB(components[0], components[1], components[2])
		}
	case len(components) == 4:
		if stroke {
			i.gs.SetStrokeCMYK(components[0], components[1], components[2], components[3])
		} else {
			i.gs.SetFillCMYK(components[0], components[1], components[2], components[3])
		}
	}
}

func (i *Interpreter) applyNamedExtGState(operands []core.Object) error {
	if len(operands) != 1 {
		return fmt.Errorf("gs expects 1 operand")
	}
	name, ok := operands[0].(core.Name)
	if !ok {
		return fmt.Errorf("gs operand is not a name")
	}
	if i.resources == nil {
		return fmt.Errorf("gs %s: no resource dictionary", name)
	}
	egsDicts, ok := i.lookupResourceDict("ExtGState")
	if !ok {
		return fmt.Errorf("gs %s: no /ExtGState in resources", name)
	}
	entry := egsDicts.Get(string(name))
	entry = i.derefOrNil(entry)
	dict, ok := entry.(core.Dict)
	if !ok {
		return fmt.Errorf("gs %s: entry is not a dictionary", name)
	}
	egs, err := ParseExtGState(dict, i.resolve)
	if err != nil {
		return err
	}
	i.gs.ApplyExtGState(egs)
	return nil
}

func (i *Interpreter) lookupResourceDict(key string) (core.Dict, bool) {
	obj := i.derefOrNil(i.resources.Get(key))
	dict, ok := obj.(core.Dict)
	return dict, ok
}

func (i *Interpreter) derefOrNil(obj core.Object) core.Object {
	if obj == nil {
		return nil
	}
	if _, ok := obj.(core.IndirectRef); ok && i.resolve != nil {
		resolved, err := i.resolve(obj)
		if err != nil {
			return nil
		}
		return resolved
	}
	return obj
}

// showText emits a TextRun for one show operator.
func (i *Interpreter) showText(data []byte) {
	if !i.inTextObject {
		// A show operator outside BT..ET is recovered by opening an
		// implicit text object.
		i.inTextObject = true
		i.gs.BeginText()
	}

	f := i.fonts[i.gs.Text.FontName]

	var decoded string
	if f != nil {
		decoded = f.DecodeString(data)
	} else {
		decoded = string(data)
	}

	tm := i.gs.GetTextMatrix()

	// Baseline start: (0, rise) in text space, through Tm then CTM.
	start := i.gs.CTM.Transform(tm.Transform(model.Point{X: 0, Y: i.gs.Text.Rise}))

	// Advance in text space from glyph widths + spacing.
	advance := i.textAdvance(f, data)
	end := i.gs.CTM.Transform(tm.Transform(model.Point{X: advance, Y: i.gs.Text.Rise}))

	run := TextRun{
		Text:              decoded,
		TextMatrix:        tm,
		X:                 start.X,
		Y:                 start.Y,
		EndX:              end.X,
		FontName:          i.gs.Text.FontName,
		FontSize:          i.gs.Text.FontSize,
		EffectiveFontSize: i.effectiveFontSize(tm),
		CharSpacing:       i.gs.Text.CharSpacing,
		WordSpacing:       i.gs.Text.WordSpacing,
		State:             i.snapshot(),
	}
	i.textRuns = append(i.textRuns, run)

	// Move the text matrix by the advance.
	i.gs.SetTextMatrix(model.Translate(advance, 0).Multiply(tm))
}

// textAdvance computes the show operator's x displacement in text space.
func (i *Interpreter) textAdvance(f *font.Font, data []byte) float64 {
	fontSize := i.gs.Text.FontSize
	hScale := i.gs.Text.HorizontalScaling / 100.0
	charSpacing := i.gs.Text.CharSpacing
	wordSpacing := i.gs.Text.WordSpacing

	codes := decodeCodes(f, data)

	var advance float64
	for _, code := range codes {
		var w float64
		if f != nil {
			w = f.GetWidth(code.r) / 1000.0
		} else {
			w = 0.5
		}
		advance += w * fontSize
		advance += charSpacing
		if code.isSpace {
			advance += wordSpacing
		}
	}
	return advance * hScale
}

type charCode struct {
	r       rune
	isSpace bool
}

// decodeCodes splits raw show-operator bytes into character codes; CID
// fonts consume one or two bytes per code depending on the font.
func decodeCodes(f *font.Font, data []byte) []charCode {
	var codes []charCode
	if f != nil && f.IsCID() {
		for n := 0; n+1 < len(data); n += 2 {
			code := rune(data[n])<<8 | rune(data[n+1])
			codes = append(codes, charCode{r: code, isSpace: false})
		}
		return codes
	}
	for _, b := range data {
		codes = append(codes, charCode{r: rune(b), isSpace: b == ' '})
	}
	return codes
}

func (i *Interpreter) showTextArray(arr core.Array) {
	f := i.fonts[i.gs.Text.FontName]
	for _, item := range arr {
		switch v := item.(type) {
		case core.String:
			i.showText([]byte(v))
		case core.Int, core.Real:
			adj, _ := toFloat(v)
			// Positive array numbers move the next glyph left.
			dx := -adj / 1000.0 * i.gs.Text.FontSize * (i.gs.Text.HorizontalScaling / 100.0)
			tm := i.gs.GetTextMatrix()
			i.gs.SetTextMatrix(model.Translate(dx, 0).Multiply(tm))
		default:
			_ = f
		}
	}
}

// effectiveFontSize scales the nominal size by the text matrix and CTM.
func (i *Interpreter) effectiveFontSize(tm model.Matrix) float64 {
	combined := i.gs.CTM.Multiply(tm)
	// Scale of the unit Y vector under the combined transform.
	sy := math.Hypot(combined[2], combined[3])
	return i.gs.Text.FontSize * sy
}

// invokeXObject handles the Do operator for image and form XObjects.
func (i *Interpreter) invokeXObject(name string) error {
	if i.resources == nil {
		return fmt.Errorf("Do %s: no resource dictionary", name)
	}
	xobjects, ok := i.lookupResourceDict("XObject")
	if !ok {
		return fmt.Errorf("Do %s: no /XObject in resources", name)
	}
	stream, ok := i.derefOrNil(xobjects.Get(name)).(*core.Stream)
	if !ok {
		return fmt.Errorf("Do %s: XObject is not a stream", name)
	}

	subtype, _ := stream.Dict.GetName("Subtype")
	switch string(subtype) {
	case "Image":
		i.emitImage(name, stream)
		return nil
	case "Form":
		return i.invokeForm(stream)
	}
	return fmt.Errorf("Do %s: unsupported XObject subtype %q", name, subtype)
}

const maxFormDepth = 16

func (i *Interpreter) invokeForm(stream *core.Stream) error {
	if i.formDepth >= maxFormDepth {
		return fmt.Errorf("form XObject nesting exceeds %d", maxFormDepth)
	}

	data, err := stream.Decode()
	if err != nil {
		return fmt.Errorf("form XObject decode: %w", err)
	}

	i.gs.Save()
	defer i.gs.Restore()

	if matrixArr, ok := i.derefOrNil(stream.Dict.Get("Matrix")).(core.Array); ok && len(matrixArr) == 6 {
		var m model.Matrix
		for n := 0; n < 6; n++ {
			f, _ := toFloat(matrixArr[n])
			m[n] = f
		}
		i.gs.Transform(m)
	}

	savedResources := i.resources
	if formRes, ok := i.derefOrNil(stream.Dict.Get("Resources")).(core.Dict); ok {
		i.resources = formRes
	}
	defer func() { i.resources = savedResources }()

	parser := contentstream.NewParser(data)
	operations, err := parser.Parse()
	if err != nil {
		return err
	}
	i.formDepth++
	defer func() { i.formDepth-- }()
	return i.Interpret(operations)
}

// emitImage decodes an image XObject into a raster element, falling back
// to a name-only element when decoding is not possible.
func (i *Interpreter) emitImage(name string, stream *core.Stream) {
	raster, err := decodeRasterImage(stream, i.derefOrNil)
	if err != nil {
		i.warnings = append(i.warnings, fmt.Sprintf("image %s: %v", name, err))
		i.elements = append(i.elements, &ParsedImage{Name: name, State: i.snapshot()})
		return
	}
	raster.Name = name
	raster.State = i.snapshot()

	// A soft mask in force at paint time multiplies the image's alpha,
	// sampled at each destination pixel centre.
	if raster.State.SoftMask != nil && i.maskEval != nil {
		sampler, err := i.maskEval.Evaluate(raster.State.SoftMask)
		if err != nil {
			i.warnings = append(i.warnings, fmt.Sprintf("image %s soft mask: %v", name, err))
		} else {
			applyMaskToImage(raster, sampler)
		}
	}

	i.elements = append(i.elements, raster)
}

// applyMaskToImage multiplies mask alpha into the image's alpha channel.
// The image occupies the unit square in user space; pixel (px, py) has its
// centre at ((px+0.5)/W, 1-(py+0.5)/H) before the CTM.
func applyMaskToImage(img *ParsedRasterImage, sampler AlphaSampler) {
	if img.Alpha == nil {
		img.Alpha = make([]byte, img.Width*img.Height)
		for n := range img.Alpha {
			img.Alpha[n] = 255
		}
	}
	for py := 0; py < img.Height; py++ {
		for px := 0; px < img.Width; px++ {
			u := (float64(px) + 0.5) / float64(img.Width)
			v := 1.0 - (float64(py)+0.5)/float64(img.Height)
			pt := img.State.CTM.Transform(model.Point{X: u, Y: v})
			maskAlpha := sampler.AlphaAt(pt.X, pt.Y)
			idx := py*img.Width + px
			img.Alpha[idx] = uint8(int(img.Alpha[idx]) * int(maskAlpha) / 255)
		}
	}
}

func floatOperand(operands []core.Object, idx int) (float64, error) {
	if idx >= len(operands) {
		return 0, fmt.Errorf("missing operand %d", idx)
	}
	v, ok := toFloat(operands[idx])
	if !ok {
		return 0, fmt.Errorf("operand %d is not a number", idx)
	}
	return v, nil
}

func intOperand(operands []core.Object, idx int) (int, bool) {
	if idx >= len(operands) {
		return 0, false
	}
	if v, ok := operands[idx].(core.Int); ok {
		return int(v), true
	}
	return 0, false
}

func pointOperands(operands []core.Object) (float64, float64, error) {
	if len(operands) != 2 {
		return 0, 0, fmt.Errorf("expected 2 operands, got %d", len(operands))
	}
	x, ok := toFloat(operands[0])
	if !ok {
		return 0, 0, fmt.Errorf("operand 0 is not a number")
	}
	y, ok := toFloat(operands[1])
	if !ok {
		return 0, 0, fmt.Errorf("operand 1 is not a number")
	}
	return x, y, nil
}

func rgbOperands(operands []core.Object) (float64, float64, float64, error) {
	if len(operands) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 operands, got %d", len(operands))
	}
	r, _ := toFloat(operands[0])
	g, _ := toFloat(operands[1])
	b, _ := toFloat(operands[2])
	return r, g, b, nil
}

func cmykOperands(operands []core.Object) (float64, float64, float64, float64, error) {
	if len(operands) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("expected 4 operands, got %d", len(operands))
	}
	c, _ := toFloat(operands[0])
	m, _ := toFloat(operands[1])
	y, _ := toFloat(operands[2])
	k, _ := toFloat(operands[3])
	return c, m, y, k, nil
}

func matrixOperands(operands []core.Object) (model.Matrix, error) {
	if len(operands) != 6 {
		return model.Identity(), fmt.Errorf("expected 6 operands, got %d", len(operands))
	}
	var m model.Matrix
	for n := 0; n < 6; n++ {
		f, ok := toFloat(operands[n])
		if !ok {
			return model.Identity(), fmt.Errorf("operand %d is not a number", n)
		}
		m[n] = f
	}
	return m, nil
}
