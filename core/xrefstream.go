package core

import (
	"fmt"
	"io"
	"strings"
)

// isXRefStream peeks at the current position to decide whether the
// cross-reference data is a classical table ("xref" keyword) or a
// cross-reference stream (an indirect object whose dict is /Type /XRef).
// The read position is consumed; callers re-seek before parsing.
func (x *XRefParser) isXRefStream() (bool, error) {
	buf := make([]byte, 64)
	n, err := x.reader.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to peek xref data: %w", err)
	}
	head := strings.TrimLeft(string(buf[:n]), " \r\n\t")

	if strings.HasPrefix(head, "xref") {
		return false, nil
	}

	// An xref stream begins with "objNum gen obj".
	fields := strings.Fields(head)
	if len(fields) >= 3 && isAllDigits(fields[0]) && isAllDigits(fields[1]) && fields[2] == "obj" {
		return true, nil
	}
	return false, fmt.Errorf("unrecognised xref data: %q", firstLine(head))
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// parseXRefStream parses a cross-reference stream at the current read
// position: the indirect stream object is decoded, its /W field widths
// drive binary row decoding, and /Index names the object-number ranges
// the rows cover (defaulting to [0 /Size]). The stream dictionary doubles
// as the trailer.
func (x *XRefParser) parseXRefStream() (*XRefTable, error) {
	indObj, err := NewParser(x.reader).ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream object: %w", err)
	}
	stream, ok := indObj.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("xref stream object is not a stream: %T", indObj.Object)
	}
	if typeName, _ := stream.Dict.GetName("Type"); string(typeName) != "XRef" {
		return nil, fmt.Errorf("xref stream has type %q, want XRef", typeName)
	}

	widths, err := xrefFieldWidths(stream.Dict)
	if err != nil {
		return nil, err
	}

	size, ok := stream.Dict.GetInt("Size")
	if !ok {
		return nil, fmt.Errorf("xref stream missing /Size")
	}

	ranges, err := xrefIndexRanges(stream.Dict, int(size))
	if err != nil {
		return nil, err
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	table := NewXRefTable()
	table.IsStream = true
	table.Trailer = stream.Dict

	pos := 0
	for _, rng := range ranges {
		for objNum := rng[0]; objNum < rng[0]+rng[1]; objNum++ {
			entry, consumed, err := x.parseXRefStreamEntry(data[pos:], widths)
			if err != nil {
				return nil, fmt.Errorf("object %d: %w", objNum, err)
			}
			pos += consumed
			table.Set(objNum, entry)
		}
	}
	return table, nil
}

// xrefFieldWidths reads the /W array: the byte widths of the three row
// fields.
func xrefFieldWidths(dict Dict) ([]int, error) {
	arr, ok := dict.GetArray("W")
	if !ok || len(arr) < 3 {
		return nil, fmt.Errorf("xref stream missing /W widths")
	}
	widths := make([]int, 3)
	for i := 0; i < 3; i++ {
		w, ok := arr[i].(Int)
		if !ok || w < 0 {
			return nil, fmt.Errorf("invalid /W entry %d: %v", i, arr[i])
		}
		widths[i] = int(w)
	}
	return widths, nil
}

// xrefIndexRanges reads the /Index array of (first, count) pairs, or the
// default single range covering /Size objects.
func xrefIndexRanges(dict Dict, size int) ([][2]int, error) {
	arr, ok := dict.GetArray("Index")
	if !ok {
		return [][2]int{{0, size}}, nil
	}
	if len(arr)%2 != 0 {
		return nil, fmt.Errorf("xref stream /Index has odd length %d", len(arr))
	}
	ranges := make([][2]int, 0, len(arr)/2)
	for i := 0; i < len(arr); i += 2 {
		first, ok1 := arr[i].(Int)
		count, ok2 := arr[i+1].(Int)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("invalid /Index pair at %d", i)
		}
		ranges = append(ranges, [2]int{int(first), int(count)})
	}
	return ranges, nil
}

// parseXRefStreamEntry decodes one binary row per the /W widths. A zero
// type width implies type 1 (uncompressed), per the PDF specification.
func (x *XRefParser) parseXRefStreamEntry(data []byte, w []int) (*XRefEntry, int, error) {
	total := w[0] + w[1] + w[2]
	if len(data) < total {
		return nil, 0, fmt.Errorf("xref stream row truncated: need %d bytes, have %d", total, len(data))
	}

	entryType := int64(1)
	if w[0] > 0 {
		entryType = readBigEndianInt(data, w[0])
	}
	field2 := readBigEndianInt(data[w[0]:], w[1])
	field3 := readBigEndianInt(data[w[0]+w[1]:], w[2])

	entry := &XRefEntry{Offset: field2, Generation: int(field3)}
	switch entryType {
	case 0:
		entry.Type = XRefEntryFree
	case 1:
		entry.Type = XRefEntryUncompressed
		entry.InUse = true
	case 2:
		entry.Type = XRefEntryCompressed
		entry.InUse = true
	default:
		return nil, 0, fmt.Errorf("unknown xref stream entry type %d", entryType)
	}
	return entry, total, nil
}

// readBigEndianInt reads a big-endian unsigned integer of the given byte
// width; width 0 yields 0.
func readBigEndianInt(data []byte, width int) int64 {
	var v int64
	for i := 0; i < width && i < len(data); i++ {
		v = v<<8 | int64(data[i])
	}
	return v
}
