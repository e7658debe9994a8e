package filters

import "fmt"

// RunLengthDecode decodes PDF run-length encoded data.
//
// The encoding is a sequence of runs, each starting with a length byte:
//   - 0-127: copy the next length+1 bytes literally
//   - 129-255: repeat the next byte 257-length times
//   - 128: end of data
func RunLengthDecode(data []byte) ([]byte, error) {
	var out []byte

	i := 0
	for i < len(data) {
		length := data[i]
		i++

		if length == 128 {
			// EOD marker
			return out, nil
		}

		if length < 128 {
			// Literal run of length+1 bytes
			n := int(length) + 1
			if i+n > len(data) {
				return nil, fmt.Errorf("run length literal run truncated at offset %d", i)
			}
			out = append(out, data[i:i+n]...)
			i += n
			continue
		}

		// Replicated run: repeat next byte 257-length times
		if i >= len(data) {
			return nil, fmt.Errorf("run length replicated run truncated at offset %d", i)
		}
		n := 257 - int(length)
		b := data[i]
		i++
		for j := 0; j < n; j++ {
			out = append(out, b)
		}
	}

	// Missing EOD is tolerated: many producers omit the trailing 128.
	return out, nil
}
