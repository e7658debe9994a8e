package softmask

import (
	"math"

	"github.com/trkbt10/officekit/core"
	"github.com/trkbt10/officekit/graphicsstate"
	"github.com/trkbt10/officekit/model"
)

// paintImage composites a raster image element into the mask surface. The
// image occupies the unit square under its element CTM; each surface pixel
// centre is inverse-mapped into image space and sampled nearest-neighbour.
// A nested /SMask on the image multiplies into the source alpha.
func (e *Evaluator) paintImage(s *surface, r *Raster, outer model.Matrix, img *graphicsstate.ParsedRasterImage, def *graphicsstate.SoftMaskDef) {
	full := img.State.CTM.Multiply(outer)
	inv, ok := full.Invert()
	if !ok {
		return
	}

	fillAlpha := img.State.FillAlpha

	for py := 0; py < s.h; py++ {
		for px := 0; px < s.w; px++ {
			pt := r.pixelCentre(px, py)
			u := inv.Transform(pt)
			if u.X < 0 || u.X >= 1 || u.Y < 0 || u.Y >= 1 {
				continue
			}
			sx := int(u.X * float64(img.Width))
			sy := int((1 - u.Y) * float64(img.Height))
			if sx < 0 {
				sx = 0
			}
			if sx >= img.Width {
				sx = img.Width - 1
			}
			if sy < 0 {
				sy = 0
			}
			if sy >= img.Height {
				sy = img.Height - 1
			}

			idx := sy*img.Width + sx
			gray := luminance([]float64{
				float64(img.Data[idx*3]) / 255,
				float64(img.Data[idx*3+1]) / 255,
				float64(img.Data[idx*3+2]) / 255,
			})

			alpha := fillAlpha
			if img.Alpha != nil {
				alpha *= float64(img.Alpha[idx]) / 255
			}
			s.composite(px, py, gray, alpha)
		}
	}
}

// paintPath fills a path element into the surface, sampling containment at
// pixel centres with the element's fill rule. Strokes are approximated by
// filling a half-line-width band around each segment.
func (e *Evaluator) paintPath(s *surface, r *Raster, outer model.Matrix, path *graphicsstate.ParsedPath, def *graphicsstate.SoftMaskDef) {
	full := path.State.CTM.Multiply(outer)
	poly := flattenPath(path.Segments, full)
	if len(poly) == 0 {
		return
	}

	gray := luminance(fillGray(path.State))

	if path.IsFilled() {
		alpha := path.State.FillAlpha
		bb := polyBBox(poly)
		x0, y0, x1, y1 := s.clipRange(r, bb)
		for py := y0; py <= y1; py++ {
			for px := x0; px <= x1; px++ {
				pt := r.pixelCentre(px, py)
				if polyContains(poly, pt, path.FillRule == graphicsstate.FillRuleEvenOdd) {
					s.composite(px, py, gray, alpha)
				}
			}
		}
	}

	if path.IsStroked() {
		strokeGrayVal := luminance(strokeGray(path.State))
		alpha := path.State.StrokeAlpha
		halfWidth := path.State.LineWidth / 2
		if halfWidth <= 0 {
			halfWidth = 0.5
		}
		for _, ring := range poly {
			for n := 0; n+1 < len(ring); n++ {
				s.paintSegment(r, ring[n], ring[n+1], halfWidth, strokeGrayVal, alpha)
			}
		}
	}
}

func (s *surface) paintSegment(r *Raster, a, b model.Point, halfWidth float64, gray, alpha float64) {
	bb := model.NewBBoxFromPoints(a, b).Expand(halfWidth)
	x0, y0, x1, y1 := s.clipRange(r, bb)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			pt := r.pixelCentre(px, py)
			if distanceToSegment(pt, a, b) <= halfWidth {
				s.composite(px, py, gray, alpha)
			}
		}
	}
}

// clipRange maps a page-space bbox to an inclusive pixel range clamped to
// the surface.
func (s *surface) clipRange(r *Raster, bb model.BBox) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor((bb.X - r.X) * r.Scale))
	y0 = int(math.Floor((bb.Y - r.Y) * r.Scale))
	x1 = int(math.Ceil((bb.X + bb.Width - r.X) * r.Scale))
	y1 = int(math.Ceil((bb.Y + bb.Height - r.Y) * r.Scale))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= s.w {
		x1 = s.w - 1
	}
	if y1 >= s.h {
		y1 = s.h - 1
	}
	return
}

// paintShading samples an axial (/ShadingType 2) or radial (/ShadingType 3)
// shading at every pixel centre inside the clip in force. Unsupported
// shading types paint nothing.
func (e *Evaluator) paintShading(s *surface, r *Raster, outer model.Matrix, sh *graphicsstate.ParsedShading, def *graphicsstate.SoftMaskDef) {
	if sh.Dict == nil {
		return
	}
	shType, _ := sh.Dict.GetInt("ShadingType")
	if shType != 2 && shType != 3 {
		return
	}
	coords, ok := sh.Dict.GetArray("Coords")
	if !ok {
		return
	}

	full := sh.State.CTM.Multiply(outer)
	inv, ok := full.Invert()
	if !ok {
		return
	}

	fn := parseShadingFunction(sh.Dict, e.resolve)

	var clip *model.BBox
	if sh.State.ClipBBox != nil {
		// Clip was captured in form space; map to page space.
		mapped := transformBBox(outer, *sh.State.ClipBBox)
		clip = &mapped
	}

	for py := 0; py < s.h; py++ {
		for px := 0; px < s.w; px++ {
			pt := r.pixelCentre(px, py)
			if clip != nil && !clip.Contains(pt) {
				continue
			}
			u := inv.Transform(pt)

			var t float64
			var inRange bool
			if shType == 2 {
				t, inRange = axialParam(coords, u)
			} else {
				t, inRange = radialParam(coords, u)
			}
			if !inRange {
				continue
			}
			gray := fn(t)
			s.composite(px, py, gray, sh.State.FillAlpha)
		}
	}
}

// paintText approximates each text run as a filled box from the baseline to
// the effective font size, which is what mask alpha needs at the extents
// softMaskVectorMaxSize permits.
func (e *Evaluator) paintText(s *surface, r *Raster, outer model.Matrix, text *graphicsstate.ParsedText, def *graphicsstate.SoftMaskDef) {
	for _, run := range text.Runs {
		p0 := outer.Transform(model.Point{X: run.X, Y: run.Y})
		p1 := outer.Transform(model.Point{X: run.EndX, Y: run.Y + run.EffectiveFontSize})
		bb := model.NewBBoxFromPoints(p0, p1)
		gray := luminance(fillGray(run.State))
		alpha := run.State.FillAlpha
		x0, y0, x1, y1 := s.clipRange(r, bb)
		for py := y0; py <= y1; py++ {
			for px := x0; px <= x1; px++ {
				pt := r.pixelCentre(px, py)
				if bb.Contains(pt) {
					s.composite(px, py, gray, alpha)
				}
			}
		}
	}
}

func fillGray(state *graphicsstate.GraphicsState) []float64 {
	return []float64{state.FillColor[0], state.FillColor[1], state.FillColor[2]}
}

func strokeGray(state *graphicsstate.GraphicsState) []float64 {
	return []float64{state.StrokeColor[0], state.StrokeColor[1], state.StrokeColor[2]}
}

// flattenPath converts path segments to polygons in page space, flattening
// Bézier curves with fixed subdivision.
func flattenPath(segments []graphicsstate.PathSegment, m model.Matrix) [][]model.Point {
	const curveSteps = 16

	var rings [][]model.Point
	var current []model.Point
	var start model.Point

	flush := func() {
		if len(current) >= 2 {
			rings = append(rings, current)
		}
		current = nil
	}

	for _, seg := range segments {
		switch seg.Type {
		case graphicsstate.PathMoveTo:
			flush()
			start = m.Transform(seg.Points[0])
			current = []model.Point{start}
		case graphicsstate.PathLineTo:
			current = append(current, m.Transform(seg.Points[0]))
		case graphicsstate.PathCurveTo:
			if len(current) == 0 || len(seg.Points) != 3 {
				continue
			}
			p0 := current[len(current)-1]
			c1 := m.Transform(seg.Points[0])
			c2 := m.Transform(seg.Points[1])
			p3 := m.Transform(seg.Points[2])
			for n := 1; n <= curveSteps; n++ {
				t := float64(n) / curveSteps
				current = append(current, cubicAt(p0, c1, c2, p3, t))
			}
		case graphicsstate.PathClosePath:
			if len(current) > 0 {
				current = append(current, start)
			}
		}
	}
	flush()
	return rings
}

func cubicAt(p0, c1, c2, p3 model.Point, t float64) model.Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return model.Point{
		X: a*p0.X + b*c1.X + c*c2.X + d*p3.X,
		Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p3.Y,
	}
}

func polyBBox(rings [][]model.Point) model.BBox {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, ring := range rings {
		for _, p := range ring {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	return model.BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// polyContains tests point containment over a set of rings with either the
// even-odd or the nonzero winding rule.
func polyContains(rings [][]model.Point, p model.Point, evenOdd bool) bool {
	winding := 0
	crossings := 0
	for _, ring := range rings {
		n := len(ring)
		for idx := 0; idx < n; idx++ {
			a := ring[idx]
			b := ring[(idx+1)%n]
			if (a.Y <= p.Y) != (b.Y <= p.Y) {
				xCross := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
				if xCross > p.X {
					crossings++
					if b.Y > a.Y {
						winding++
					} else {
						winding--
					}
				}
			}
		}
	}
	if evenOdd {
		return crossings%2 == 1
	}
	return winding != 0
}

func distanceToSegment(p, a, b model.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	proj := model.Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.Distance(proj)
}

// axialParam computes the axial shading parameter for a point in shading
// space, clamped by the standard Extend behaviour (no extension).
func axialParam(coords core.Array, p model.Point) (float64, bool) {
	if len(coords) != 4 {
		return 0, false
	}
	x0, _ := objToFloat(coords[0])
	y0, _ := objToFloat(coords[1])
	x1, _ := objToFloat(coords[2])
	y1, _ := objToFloat(coords[3])

	dx := x1 - x0
	dy := y1 - y0
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0, false
	}
	t := ((p.X-x0)*dx + (p.Y-y0)*dy) / lenSq
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

// radialParam computes the radial shading parameter by distance between the
// two circles' radii.
func radialParam(coords core.Array, p model.Point) (float64, bool) {
	if len(coords) != 6 {
		return 0, false
	}
	x0, _ := objToFloat(coords[0])
	y0, _ := objToFloat(coords[1])
	r0, _ := objToFloat(coords[2])
	x1, _ := objToFloat(coords[3])
	y1, _ := objToFloat(coords[4])
	r1, _ := objToFloat(coords[5])

	// Concentric approximation: parameter from distance to the first
	// circle's centre.
	_ = x1
	_ = y1
	d := p.Distance(model.Point{X: x0, Y: y0})
	if r1 == r0 {
		return 0, false
	}
	t := (d - r0) / (r1 - r0)
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

// parseShadingFunction builds a t -> gray function from the shading's
// /Function entry. Supported: type 2 (exponential interpolation between C0
// and C1). Anything else falls back to mid-gray.
func parseShadingFunction(dict core.Dict, resolve func(core.Object) (core.Object, error)) func(float64) float64 {
	fallback := func(t float64) float64 { return 0.5 }

	fnObj := derefWith(resolve, dict.Get("Function"))
	var fnDict core.Dict
	switch v := fnObj.(type) {
	case core.Dict:
		fnDict = v
	case *core.Stream:
		fnDict = v.Dict
	case core.Array:
		if len(v) > 0 {
			if d, ok := derefWith(resolve, v[0]).(core.Dict); ok {
				fnDict = d
			}
		}
	}
	if fnDict == nil {
		return fallback
	}

	fnType, _ := fnDict.GetInt("FunctionType")
	if fnType != 2 {
		return fallback
	}

	c0 := functionColor(fnDict, "C0", 0)
	c1 := functionColor(fnDict, "C1", 1)
	n := 1.0
	if v, ok := fnDict.GetReal("N"); ok {
		n = float64(v)
	} else if v, ok := fnDict.GetInt("N"); ok {
		n = float64(v)
	}

	return func(t float64) float64 {
		f := math.Pow(t, n)
		return c0 + (c1-c0)*f
	}
}

func functionColor(dict core.Dict, key string, def float64) float64 {
	arr, ok := dict.GetArray(key)
	if !ok || len(arr) == 0 {
		return def
	}
	components := make([]float64, 0, len(arr))
	for _, c := range arr {
		if f, ok := objToFloat(c); ok {
			components = append(components, f)
		}
	}
	return luminance(components)
}
