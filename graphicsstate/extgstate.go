package graphicsstate

import (
	"github.com/trkbt10/officekit/core"
	"github.com/trkbt10/officekit/model"
)

// SoftMaskKind distinguishes the two soft-mask flavours.
type SoftMaskKind int

const (
	// SoftMaskAlpha derives mask alpha from the group's alpha channel (/S /Alpha)
	SoftMaskAlpha SoftMaskKind = iota
	// SoftMaskLuminosity derives mask alpha from the group's luminosity (/S /Luminosity)
	SoftMaskLuminosity
)

// SoftMaskDef describes a non-constant soft mask installed via the gs
// operator. The form XObject is kept unresolved-but-decodable; rasterization
// happens lazily (see the softmask package).
type SoftMaskDef struct {
	Kind SoftMaskKind

	// Form is the /G transparency group form XObject.
	Form *core.Stream

	// BackdropColor is the /BC entry (Luminosity only); nil means black.
	BackdropColor []float64

	// Isolated and Knockout mirror the group dictionary's /I and /K.
	Isolated bool
	Knockout bool

	// CTM is the transformation matrix in force when the gs operator
	// installed this mask. The form's own /Matrix composes on top of it.
	CTM model.Matrix
}

// ExtGState is the resolved record for a named /ExtGState dictionary entry.
// Zero-valued pointer fields mean "not present in the dict" so applying the
// record only touches parameters the dict names.
type ExtGState struct {
	FillAlpha   *float64
	StrokeAlpha *float64
	BlendMode   string
	LineWidth   *float64
	LineCap     *int
	LineJoin    *int
	MiterLimit  *float64
	DashPattern []float64
	DashPhase   *float64
	HasDash     bool

	// SoftMask is a non-constant mask; SoftMaskNone is true when the dict
	// carries /SMask /None (which clears any installed mask).
	SoftMask     *SoftMaskDef
	SoftMaskNone bool
}

// ParseExtGState interprets an /ExtGState dictionary into an ExtGState
// record. The resolve function maps indirect references to their objects;
// it may be nil when the dict is known to be fully direct.
func ParseExtGState(dict core.Dict, resolve func(core.Object) (core.Object, error)) (*ExtGState, error) {
	deref := func(obj core.Object) core.Object {
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

	egs := &ExtGState{}

	if v, ok := toFloat(deref(dict.Get("ca"))); ok {
		egs.FillAlpha = &v
	}
	if v, ok := toFloat(deref(dict.Get("CA"))); ok {
		egs.StrokeAlpha = &v
	}
	if bm := deref(dict.Get("BM")); bm != nil {
		switch v := bm.(type) {
		case core.Name:
			egs.BlendMode = string(v)
		case core.Array:
			// An array of blend modes: first supported one wins; we only
			// record the first entry.
			if name, ok := v.GetName(0); ok {
				egs.BlendMode = string(name)
			}
		}
	}
	if v, ok := toFloat(deref(dict.Get("LW"))); ok {
		egs.LineWidth = &v
	}
	if v, ok := dict.GetInt("LC"); ok {
		lc := int(v)
		egs.LineCap = &lc
	}
	if v, ok := dict.GetInt("LJ"); ok {
		lj := int(v)
		egs.LineJoin = &lj
	}
	if v, ok := toFloat(deref(dict.Get("ML"))); ok {
		egs.MiterLimit = &v
	}
	if d, ok := deref(dict.Get("D")).(core.Array); ok && len(d) == 2 {
		if pattern, ok := deref(d[0]).(core.Array); ok {
			egs.HasDash = true
			for _, p := range pattern {
				if f, ok := toFloat(p); ok {
					egs.DashPattern = append(egs.DashPattern, f)
				}
			}
			if phase, ok := toFloat(deref(d[1])); ok {
				egs.DashPhase = &phase
			}
		}
	}

	if sm := deref(dict.Get("SMask")); sm != nil {
		switch v := sm.(type) {
		case core.Name:
			if string(v) == "None" {
				egs.SoftMaskNone = true
			}
		case core.Dict:
			def, ok := parseSoftMaskDict(v, deref)
			if ok {
				egs.SoftMask = def
			} else {
				// Unsupported or malformed mask dicts clear the current
				// mask rather than leaving a stale one installed.
				egs.SoftMaskNone = true
			}
		default:
			egs.SoftMaskNone = true
		}
	}

	return egs, nil
}

func parseSoftMaskDict(dict core.Dict, deref func(core.Object) core.Object) (*SoftMaskDef, bool) {
	def := &SoftMaskDef{}

	switch kind, _ := dict.GetName("S"); string(kind) {
	case "Alpha":
		def.Kind = SoftMaskAlpha
	case "Luminosity":
		def.Kind = SoftMaskLuminosity
	default:
		return nil, false
	}

	form, ok := deref(dict.Get("G")).(*core.Stream)
	if !ok {
		return nil, false
	}
	def.Form = form

	if bc, ok := deref(dict.Get("BC")).(core.Array); ok {
		for _, c := range bc {
			if f, ok := toFloat(c); ok {
				def.BackdropColor = append(def.BackdropColor, f)
			}
		}
	}

	// Group attributes live on the form's /Group dictionary.
	if group, ok := deref(form.Dict.Get("Group")).(core.Dict); ok {
		if iso, ok := group.GetBool("I"); ok {
			def.Isolated = bool(iso)
		}
		if ko, ok := group.GetBool("K"); ok {
			def.Knockout = bool(ko)
		}
	}

	return def, true
}

// ApplyExtGState applies a resolved ExtGState record to the graphics state
// (gs operator). Only parameters present in the record are touched. When
// the record installs a non-constant soft mask, the current CTM is captured
// into the mask definition.
func (gs *GraphicsState) ApplyExtGState(egs *ExtGState) {
	if egs == nil {
		return
	}
	if egs.FillAlpha != nil {
		gs.FillAlpha = *egs.FillAlpha
	}
	if egs.StrokeAlpha != nil {
		gs.StrokeAlpha = *egs.StrokeAlpha
	}
	if egs.BlendMode != "" {
		gs.BlendMode = egs.BlendMode
	}
	if egs.LineWidth != nil {
		gs.LineWidth = *egs.LineWidth
	}
	if egs.LineCap != nil {
		gs.LineCap = *egs.LineCap
	}
	if egs.LineJoin != nil {
		gs.LineJoin = *egs.LineJoin
	}
	if egs.MiterLimit != nil {
		gs.MiterLimit = *egs.MiterLimit
	}
	if egs.HasDash {
		gs.DashPattern = append([]float64(nil), egs.DashPattern...)
		if egs.DashPhase != nil {
			gs.DashPhase = *egs.DashPhase
		} else {
			gs.DashPhase = 0
		}
	}
	if egs.SoftMaskNone {
		gs.SoftMask = nil
	} else if egs.SoftMask != nil {
		def := *egs.SoftMask
		def.CTM = gs.CTM
		gs.SoftMask = &def
	}
}
