package softmask

import (
	"math"

	"github.com/trkbt10/officekit/graphicsstate"
	"github.com/trkbt10/officekit/model"
)

// surface is the working buffer mask content is composited into: a gray
// value and an accumulated group alpha per pixel, both in [0,1].
type surface struct {
	w, h     int
	gray     []float64
	alpha    []float64
	knockout bool
}

// newSurface initializes the backdrop per the group's isolation flag: an
// isolated group composites over transparent black; a non-isolated
// Luminosity group starts from the /BC backdrop color.
func newSurface(w, h int, def *graphicsstate.SoftMaskDef) *surface {
	s := &surface{
		w:        w,
		h:        h,
		gray:     make([]float64, w*h),
		alpha:    make([]float64, w*h),
		knockout: def.Knockout,
	}
	if !def.Isolated && def.Kind == graphicsstate.SoftMaskLuminosity && def.BackdropColor != nil {
		backdrop := luminance(def.BackdropColor)
		for n := range s.gray {
			s.gray[n] = backdrop
			s.alpha[n] = 1
		}
	}
	return s
}

// composite paints one sample into the surface with source gray value and
// source alpha, using Normal blending (or replacement in knockout groups).
func (s *surface) composite(px, py int, gray, alpha float64) {
	if px < 0 || px >= s.w || py < 0 || py >= s.h {
		return
	}
	idx := py*s.w + px
	if s.knockout {
		s.gray[idx] = gray
		s.alpha[idx] = alpha
		return
	}
	s.gray[idx] = s.gray[idx]*(1-alpha) + gray*alpha
	s.alpha[idx] = s.alpha[idx] + alpha*(1-s.alpha[idx])
}

// writeAlpha converts the composited surface to the raster's alpha plane:
// luminosity masks take the gray channel, alpha masks the accumulated
// group alpha. Outside samples take the backdrop value for non-isolated
// Luminosity groups, transparent otherwise.
func (s *surface) writeAlpha(r *Raster, def *graphicsstate.SoftMaskDef) {
	r.Alpha = make([]uint8, s.w*s.h)
	for n := range r.Alpha {
		var v float64
		if def.Kind == graphicsstate.SoftMaskLuminosity {
			v = s.gray[n]
		} else {
			v = s.alpha[n]
		}
		r.Alpha[n] = clampByte(v * 255)
	}
	if !def.Isolated && def.Kind == graphicsstate.SoftMaskLuminosity && def.BackdropColor != nil {
		r.Outside = clampByte(luminance(def.BackdropColor) * 255)
	}
}

// pixelCentre returns the page-space point at the centre of raster pixel
// (px, py).
func (r *Raster) pixelCentre(px, py int) model.Point {
	return model.Point{
		X: r.X + (float64(px)+0.5)/r.Scale,
		Y: r.Y + (float64(py)+0.5)/r.Scale,
	}
}

func luminance(color []float64) float64 {
	switch len(color) {
	case 1:
		return color[0]
	case 3:
		return (30*color[0] + 59*color[1] + 11*color[2]) / 100
	case 4:
		r := (1 - color[0]) * (1 - color[3])
		g := (1 - color[1]) * (1 - color[3])
		b := (1 - color[2]) * (1 - color[3])
		return 0.3*r + 0.59*g + 0.11*b
	}
	return 0
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
