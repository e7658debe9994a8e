// Package softmask rasterizes PDF soft masks into per-pixel alpha.
//
// A mask definition names a transparency-group form XObject; its content
// (paths, images, shading fills, text) is interpreted and painted into a
// small gray raster, then converted to alpha from either the group's
// luminosity or its accumulated alpha, per the mask's /S kind. Sampling is
// at pixel centres throughout; placements go through explicit affine
// transforms, never assumed axis-aligned.
//
// Blend modes other than Normal are composited as Normal; the fixtures the
// implementation is validated against only exercise Normal mode.
package softmask

import (
	"fmt"
	"math"

	"github.com/trkbt10/officekit/contentstream"
	"github.com/trkbt10/officekit/core"
	"github.com/trkbt10/officekit/graphicsstate"
	"github.com/trkbt10/officekit/model"
)

// Evaluator rasterizes soft-mask definitions. It implements
// graphicsstate.MaskEvaluator.
type Evaluator struct {
	resolve        func(core.Object) (core.Object, error)
	shadingMaxSize int
	vectorMaxSize  int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithResolver sets the function used to chase indirect references inside
// the mask form's resources.
func WithResolver(resolve func(core.Object) (core.Object, error)) Option {
	return func(e *Evaluator) { e.resolve = resolve }
}

// WithShadingMaxSize switches shading rasterization inside masks: any
// positive value enables it, 0 disables it. The value does not limit the
// raster size, which WithVectorMaxSize and maxRasterExtent cap.
func WithShadingMaxSize(size int) Option {
	return func(e *Evaluator) { e.shadingMaxSize = size }
}

// WithVectorMaxSize enables text and path rasterization inside masks,
// bounded to the given extent. 0 leaves paths in but skips text.
func WithVectorMaxSize(size int) Option {
	return func(e *Evaluator) { e.vectorMaxSize = size }
}

// NewEvaluator creates an evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{shadingMaxSize: 256}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// maxRasterExtent bounds mask rasters when no explicit limit applies.
const maxRasterExtent = 1024

// Raster is a rasterized soft mask: a page-space rectangle of per-pixel
// alpha. It implements graphicsstate.AlphaSampler.
type Raster struct {
	// X, Y is the page-space position of pixel (0,0)'s corner; pixel row 0
	// is the bottom of the covered rectangle.
	X, Y float64

	// Scale is pixels per page unit (uniform in both axes).
	Scale float64

	W, H int

	// Alpha holds H rows of W samples, bottom row first.
	Alpha []uint8

	// Outside is the alpha reported for points not covered by the raster.
	Outside uint8
}

// AlphaAt samples the mask at a page-space point.
func (r *Raster) AlphaAt(x, y float64) uint8 {
	px := int(math.Floor((x - r.X) * r.Scale))
	py := int(math.Floor((y - r.Y) * r.Scale))
	if px < 0 || px >= r.W || py < 0 || py >= r.H {
		return r.Outside
	}
	return r.Alpha[py*r.W+px]
}

// Evaluate rasterizes a mask definition.
func (e *Evaluator) Evaluate(def *graphicsstate.SoftMaskDef) (graphicsstate.AlphaSampler, error) {
	raster, err := e.EvaluateRaster(def)
	if err != nil {
		return nil, err
	}
	return raster, nil
}

// EvaluateRaster rasterizes a mask definition and returns the concrete
// raster (Evaluate narrowed to the interface loses the pixel accessors
// tests need).
func (e *Evaluator) EvaluateRaster(def *graphicsstate.SoftMaskDef) (*Raster, error) {
	if def == nil || def.Form == nil {
		return nil, fmt.Errorf("softmask: no form XObject")
	}

	bbox, err := formBBox(def.Form)
	if err != nil {
		return nil, err
	}

	// Form space -> page space: the form's own /Matrix composes with the
	// CTM captured when the gs operator installed the mask.
	outer := formMatrix(def.Form).Multiply(def.CTM)

	deviceBBox := transformBBox(outer, bbox)
	if deviceBBox.Width <= 0 || deviceBBox.Height <= 0 {
		return nil, fmt.Errorf("softmask: degenerate mask bbox")
	}

	maxExtent := maxRasterExtent
	if e.vectorMaxSize > 0 && e.vectorMaxSize < maxExtent {
		maxExtent = e.vectorMaxSize
	}

	scale := 1.0
	longest := math.Max(deviceBBox.Width, deviceBBox.Height)
	if longest > float64(maxExtent) {
		scale = float64(maxExtent) / longest
	}

	w := int(math.Ceil(deviceBBox.Width * scale))
	h := int(math.Ceil(deviceBBox.Height * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	surface := newSurface(w, h, def)
	raster := &Raster{
		X:     deviceBBox.X,
		Y:     deviceBBox.Y,
		Scale: scale,
		W:     w,
		H:     h,
	}

	// Interpret the form's content in its own space; the outer transform
	// is applied at paint time.
	data, err := def.Form.Decode()
	if err != nil {
		return nil, fmt.Errorf("softmask: form decode: %w", err)
	}

	var resources core.Dict
	if res, ok := derefWith(e.resolve, def.Form.Dict.Get("Resources")).(core.Dict); ok {
		resources = res
	}

	interp := graphicsstate.NewInterpreter(
		graphicsstate.WithResources(resources),
		graphicsstate.WithResolver(e.resolve),
	)
	parser := contentstream.NewParser(data)
	operations, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("softmask: form content: %w", err)
	}
	if err := interp.Interpret(operations); err != nil {
		return nil, err
	}

	for _, elem := range interp.Elements() {
		e.paintElement(surface, raster, outer, elem, def)
	}

	surface.writeAlpha(raster, def)
	return raster, nil
}

func (e *Evaluator) paintElement(s *surface, r *Raster, outer model.Matrix, elem graphicsstate.Element, def *graphicsstate.SoftMaskDef) {
	switch v := elem.(type) {
	case *graphicsstate.ParsedRasterImage:
		e.paintImage(s, r, outer, v, def)
	case *graphicsstate.ParsedPath:
		e.paintPath(s, r, outer, v, def)
	case *graphicsstate.ParsedShading:
		if e.shadingMaxSize > 0 {
			e.paintShading(s, r, outer, v, def)
		}
	case *graphicsstate.ParsedText:
		if e.vectorMaxSize > 0 {
			e.paintText(s, r, outer, v, def)
		}
	}
}

func derefWith(resolve func(core.Object) (core.Object, error), obj core.Object) core.Object {
	if obj == nil {
		return nil
	}
	if _, ok := obj.(core.IndirectRef); ok && resolve != nil {
		resolved, err := resolve(obj)
		if err != nil {
			return nil
		}
		return resolved
	}
	return obj
}

func formBBox(form *core.Stream) (model.BBox, error) {
	arr, ok := form.Dict.GetArray("BBox")
	if !ok || len(arr) != 4 {
		return model.BBox{}, fmt.Errorf("softmask: form has no /BBox")
	}
	var v [4]float64
	for n := 0; n < 4; n++ {
		f, ok := objToFloat(arr[n])
		if !ok {
			return model.BBox{}, fmt.Errorf("softmask: /BBox entry %d is not a number", n)
		}
		v[n] = f
	}
	return model.NewBBoxFromPoints(model.Point{X: v[0], Y: v[1]}, model.Point{X: v[2], Y: v[3]}), nil
}

func formMatrix(form *core.Stream) model.Matrix {
	arr, ok := form.Dict.GetArray("Matrix")
	if !ok || len(arr) != 6 {
		return model.Identity()
	}
	var m model.Matrix
	for n := 0; n < 6; n++ {
		f, ok := objToFloat(arr[n])
		if !ok {
			return model.Identity()
		}
		m[n] = f
	}
	return m
}

func transformBBox(m model.Matrix, b model.BBox) model.BBox {
	corners := []model.Point{
		{X: b.X, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y},
		{X: b.X, Y: b.Y + b.Height},
		{X: b.X + b.Width, Y: b.Y + b.Height},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := m.Transform(c)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return model.BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func objToFloat(obj core.Object) (float64, bool) {
	switch v := obj.(type) {
	case core.Int:
		return float64(v), true
	case core.Real:
		return float64(v), true
	}
	return 0, false
}
