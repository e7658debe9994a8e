package graphicsstate

import (
	"fmt"

	"github.com/trkbt10/officekit/core"
)

// decodeRasterImage decodes an image XObject's pixels into tightly packed
// RGB plus an optional alpha plane from the image's own /SMask. Supported
// combinations: 8-bit DeviceRGB, 8-bit DeviceCMYK, 8-bit and 1-bit
// DeviceGray. Anything else
// (DCT, JPX, ICC-based spaces) is reported as an error so the caller can
// fall back to a name-only element.
func decodeRasterImage(stream *core.Stream, deref func(core.Object) core.Object) (*ParsedRasterImage, error) {
	width, ok := stream.Dict.GetInt("Width")
	if !ok {
		return nil, fmt.Errorf("image has no /Width")
	}
	height, ok := stream.Dict.GetInt("Height")
	if !ok {
		return nil, fmt.Errorf("image has no /Height")
	}
	w, h := int(width), int(height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image has invalid dimensions %dx%d", w, h)
	}

	bpc := 8
	if v, ok := stream.Dict.GetInt("BitsPerComponent"); ok {
		bpc = int(v)
	}

	if filterIsDCTOrJPX(stream.Dict) {
		return nil, fmt.Errorf("image uses a compressed raster filter")
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("image decode: %w", err)
	}

	space := colorSpaceName(deref(stream.Dict.Get("ColorSpace")))

	rgb, err := samplesToRGB(data, w, h, bpc, space)
	if err != nil {
		return nil, err
	}

	img := &ParsedRasterImage{Width: w, Height: h, Data: rgb}

	// The image's own /SMask supplies a base alpha plane.
	if smask, ok := deref(stream.Dict.Get("SMask")).(*core.Stream); ok {
		alpha, err := decodeAlphaPlane(smask, w, h)
		if err == nil {
			img.Alpha = alpha
		}
	}

	return img, nil
}

func filterIsDCTOrJPX(dict core.Dict) bool {
	check := func(name core.Name) bool {
		switch string(name) {
		case "DCTDecode", "DCT", "JPXDecode", "JBIG2Decode":
			return true
		}
		return false
	}
	switch v := dict.Get("Filter").(type) {
	case core.Name:
		return check(v)
	case core.Array:
		for _, f := range v {
			if name, ok := f.(core.Name); ok && check(name) {
				return true
			}
		}
	}
	return false
}

func colorSpaceName(obj core.Object) string {
	switch v := obj.(type) {
	case core.Name:
		return string(v)
	case core.Array:
		if name, ok := v.GetName(0); ok {
			return string(name)
		}
	}
	return "DeviceGray"
}

func samplesToRGB(data []byte, w, h, bpc int, space string) ([]byte, error) {
	rgb := make([]byte, w*h*3)

	switch {
	case space == "DeviceRGB" && bpc == 8:
		if len(data) < w*h*3 {
			return nil, fmt.Errorf("image data truncated: %d < %d", len(data), w*h*3)
		}
		copy(rgb, data[:w*h*3])

	case space == "DeviceGray" && bpc == 8:
		if len(data) < w*h {
			return nil, fmt.Errorf("image data truncated: %d < %d", len(data), w*h)
		}
		for n := 0; n < w*h; n++ {
			rgb[n*3] = data[n]
			rgb[n*3+1] = data[n]
			rgb[n*3+2] = data[n]
		}

	case space == "DeviceGray" && bpc == 1:
		rowBytes := (w + 7) / 8
		if len(data) < rowBytes*h {
			return nil, fmt.Errorf("image data truncated: %d < %d", len(data), rowBytes*h)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				bit := data[y*rowBytes+x/8] >> (7 - uint(x%8)) & 1
				var v byte
				if bit == 1 {
					v = 255
				}
				idx := (y*w + x) * 3
				rgb[idx] = v
				rgb[idx+1] = v
				rgb[idx+2] = v
			}
		}

	case space == "DeviceCMYK" && bpc == 8:
		if len(data) < w*h*4 {
			return nil, fmt.Errorf("image data truncated: %d < %d", len(data), w*h*4)
		}
		for n := 0; n < w*h; n++ {
			c := float64(data[n*4]) / 255
			m := float64(data[n*4+1]) / 255
			y := float64(data[n*4+2]) / 255
			k := float64(data[n*4+3]) / 255
			r, g, b := cmykToRGB(c, m, y, k)
			rgb[n*3] = byte(r * 255)
			rgb[n*3+1] = byte(g * 255)
			rgb[n*3+2] = byte(b * 255)
		}

	default:
		return nil, fmt.Errorf("unsupported image format: %s at %d bpc", space, bpc)
	}

	return rgb, nil
}

// decodeAlphaPlane decodes an image's /SMask stream into a per-pixel alpha
// slice sized to the owning image, nearest-neighbour scaled when the mask's
// dimensions differ.
func decodeAlphaPlane(smask *core.Stream, w, h int) ([]byte, error) {
	mw, ok := smask.Dict.GetInt("Width")
	if !ok {
		return nil, fmt.Errorf("smask has no /Width")
	}
	mh, ok := smask.Dict.GetInt("Height")
	if !ok {
		return nil, fmt.Errorf("smask has no /Height")
	}
	data, err := smask.Decode()
	if err != nil {
		return nil, fmt.Errorf("smask decode: %w", err)
	}
	if len(data) < int(mw)*int(mh) {
		return nil, fmt.Errorf("smask data truncated")
	}

	alpha := make([]byte, w*h)
	for y := 0; y < h; y++ {
		sy := y * int(mh) / h
		for x := 0; x < w; x++ {
			sx := x * int(mw) / w
			alpha[y*w+x] = data[sy*int(mw)+sx]
		}
	}
	return alpha, nil
}
