package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Params represents decode parameters (map of key-value pairs)
type Params map[string]interface{}

// getIntParam gets an integer parameter from DecodeParms, with default
func getIntParam(params Params, key string, defaultValue int) int {
	if params == nil {
		return defaultValue
	}
	switch v := params[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultValue
}

// FlateDecode decodes Flate (zlib/deflate) compressed data, the most
// common PDF stream filter, then un-applies any declared predictor.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	decompressed := buf.Bytes()

	predictor := getIntParam(params, "Predictor", 1)
	if predictor == 1 {
		return decompressed, nil
	}
	out, err := applyPredictor(decompressed, predictor, params)
	if err != nil {
		return nil, fmt.Errorf("predictor failed: %w", err)
	}
	return out, nil
}

// applyPredictor un-applies the declared prediction: 1 = none, 2 = TIFF
// horizontal differencing, 10-15 = the PNG filter family (each row tags
// its own filter byte, so the values are interchangeable on decode).
func applyPredictor(data []byte, predictor int, params Params) ([]byte, error) {
	switch {
	case predictor == 1:
		return data, nil
	case predictor == 2:
		return undoTIFFPrediction(data, params)
	case predictor >= 10 && predictor <= 15:
		return undoPNGPrediction(data, params)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", predictor)
}

// undoTIFFPrediction reverses TIFF horizontal differencing: each sample
// is stored as a delta against the sample one pixel to its left.
func undoTIFFPrediction(data []byte, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	bpc := getIntParam(params, "BitsPerComponent", 8)
	if bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor only supports 8 bits per component, got %d", bpc)
	}

	rowSize := columns * colors
	if rowSize == 0 || len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	out := make([]byte, len(data))
	for rowStart := 0; rowStart < len(data); rowStart += rowSize {
		for col := 0; col < rowSize; col++ {
			idx := rowStart + col
			if col < colors {
				out[idx] = data[idx]
			} else {
				out[idx] = data[idx] + out[idx-colors]
			}
		}
	}
	return out, nil
}

// undoPNGPrediction reverses the PNG filter family. Every encoded row
// leads with its filter byte; decoding works against the previous decoded
// row, which starts out all zero.
func undoPNGPrediction(data []byte, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	bpc := getIntParam(params, "BitsPerComponent", 8)
	if bpc != 8 {
		return nil, fmt.Errorf("PNG predictor only supports 8 bits per component, got %d", bpc)
	}

	rowLen := columns * colors
	encodedRow := rowLen + 1
	if rowLen == 0 || len(data)%encodedRow != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), encodedRow)
	}

	numRows := len(data) / encodedRow
	out := make([]byte, numRows*rowLen)
	prev := make([]byte, rowLen)

	for row := 0; row < numRows; row++ {
		filter := data[row*encodedRow]
		src := data[row*encodedRow+1 : (row+1)*encodedRow]
		dst := out[row*rowLen : (row+1)*rowLen]

		for i := 0; i < rowLen; i++ {
			var left, up, upLeft byte
			if i >= colors {
				left = dst[i-colors]
				upLeft = prev[i-colors]
			}
			up = prev[i]

			var predicted byte
			switch filter {
			case 0: // None
			case 1: // Sub
				predicted = left
			case 2: // Up
				predicted = up
			case 3: // Average
				predicted = byte((int(left) + int(up)) / 2)
			case 4: // Paeth
				predicted = paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("failed to decode row %d: unknown PNG predictor: %d", row, filter)
			}
			dst[i] = src[i] + predicted
		}
		prev = dst
	}
	return out, nil
}

// paeth picks whichever neighbour is closest to the linear estimate
// left + up - upLeft, per the PNG specification.
func paeth(left, up, upLeft byte) byte {
	p := int(left) + int(up) - int(upLeft)
	pa := intAbs(p - int(left))
	pb := intAbs(p - int(up))
	pc := intAbs(p - int(upLeft))
	if pa <= pb && pa <= pc {
		return left
	}
	if pb <= pc {
		return up
	}
	return upLeft
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
