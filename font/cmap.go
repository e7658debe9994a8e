package font

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/trkbt10/officekit/core"
)

// CMap maps character codes to Unicode text, parsed from a ToUnicode
// stream's bfchar/bfrange sections.
type CMap struct {
	// chars holds single-code mappings; ranges holds contiguous spans.
	chars  map[uint32]string
	ranges []CMapRange

	// declaredWidth is the code byte width the codespacerange declares;
	// observedWidth is the widest code actually seen in bfchar/bfrange
	// sources. Some producers declare two-byte spaces but emit one-byte
	// codes, so lookup prefers the observed width when it is narrower.
	declaredWidth int
	observedWidth int
}

// CMapRange maps a contiguous code span onto consecutive Unicode values.
type CMapRange struct {
	StartCode    uint32
	EndCode      uint32
	StartUnicode uint32
}

// NewCMap creates an empty CMap.
func NewCMap() *CMap {
	return &CMap{chars: make(map[uint32]string)}
}

// ParseToUnicodeCMap decodes and parses a ToUnicode CMap stream.
func ParseToUnicodeCMap(stream *core.Stream) (*CMap, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode stream: %w", err)
	}
	return parseCMapData(data)
}

// parseCMapData parses CMap text: the codespacerange (for the code byte
// width) and every bfchar/bfrange section. Malformed entries are skipped
// rather than failing the whole map.
func parseCMapData(data []byte) (*CMap, error) {
	cmap := NewCMap()
	content := string(data)

	cmap.readCodeSpaceRange(content)
	forEachSection(content, "beginbfchar", "endbfchar", cmap.readBfCharSection)
	forEachSection(content, "beginbfrange", "endbfrange", cmap.readBfRangeSection)

	return cmap, nil
}

// forEachSection invokes fn on the body of every begin/end section pair.
func forEachSection(content, begin, end string, fn func(string)) {
	for start := 0; ; {
		b := strings.Index(content[start:], begin)
		if b == -1 {
			return
		}
		b += start
		e := strings.Index(content[b:], end)
		if e == -1 {
			return
		}
		e += b
		fn(content[b+len(begin) : e])
		start = e + len(end)
	}
}

// hexTokens extracts every <...> hex token from a line, in order.
func hexTokens(s string) []string {
	var out []string
	for {
		open := strings.IndexByte(s, '<')
		if open == -1 {
			return out
		}
		close := strings.IndexByte(s[open:], '>')
		if close == -1 {
			return out
		}
		out = append(out, s[open+1:open+close])
		s = s[open+close+1:]
	}
}

// readCodeSpaceRange reads the first codespacerange pair to learn the
// declared code byte width.
func (cm *CMap) readCodeSpaceRange(content string) {
	forEachSection(content, "begincodespacerange", "endcodespacerange", func(section string) {
		if cm.declaredWidth > 0 {
			return
		}
		for _, line := range strings.Split(section, "\n") {
			tokens := hexTokens(strings.TrimSpace(line))
			if len(tokens) >= 2 {
				cm.declaredWidth = (len(tokens[0]) + 1) / 2
				return
			}
		}
	})
}

// noteSourceWidth tracks the widest source-code width actually used.
func (cm *CMap) noteSourceWidth(hexCode string) {
	width := (len(hexCode) + 1) / 2
	if width > cm.observedWidth {
		cm.observedWidth = width
	}
}

// readBfCharSection reads "<src> <dstUnicode>" lines.
func (cm *CMap) readBfCharSection(section string) {
	for _, line := range strings.Split(section, "\n") {
		tokens := hexTokens(strings.TrimSpace(line))
		if len(tokens) < 2 || tokens[0] == "" || tokens[1] == "" {
			continue
		}
		cm.noteSourceWidth(tokens[0])

		src, err := parseHexToUint32(tokens[0])
		if err != nil {
			continue
		}
		unicode, err := hexToUnicode(tokens[1])
		if err != nil {
			continue
		}
		cm.chars[src] = unicode
	}
}

// readBfRangeSection reads both bfrange forms: "<start> <end> <dst>" and
// "<start> <end> [<u1> <u2> ...]" (the array form may span lines).
func (cm *CMap) readBfRangeSection(section string) {
	lines := strings.Split(section, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if strings.Contains(line, "[") {
			for !strings.Contains(line, "]") && i+1 < len(lines) {
				i++
				line += " " + strings.TrimSpace(lines[i])
			}
			cm.readBfRangeArray(line)
			continue
		}

		tokens := hexTokens(line)
		if len(tokens) < 3 || tokens[0] == "" || tokens[1] == "" || tokens[2] == "" {
			continue
		}
		cm.noteSourceWidth(tokens[0])

		start, err1 := parseHexToUint32(tokens[0])
		end, err2 := parseHexToUint32(tokens[1])
		dst, err3 := parseHexToUint32(tokens[2])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		cm.ranges = append(cm.ranges, CMapRange{StartCode: start, EndCode: end, StartUnicode: dst})
	}
}

// readBfRangeArray reads the array form, mapping consecutive codes onto
// the bracketed Unicode values.
func (cm *CMap) readBfRangeArray(line string) {
	bracket := strings.IndexByte(line, '[')
	closeBracket := strings.IndexByte(line, ']')
	if bracket == -1 || closeBracket == -1 || closeBracket < bracket {
		return
	}

	heads := hexTokens(line[:bracket])
	if len(heads) < 2 {
		return
	}
	start, err1 := parseHexToUint32(heads[0])
	end, err2 := parseHexToUint32(heads[1])
	if err1 != nil || err2 != nil {
		return
	}

	code := start
	for _, token := range hexTokens(line[bracket+1 : closeBracket]) {
		if token != "" {
			if unicode, err := hexToUnicode(token); err == nil && code <= end {
				cm.chars[code] = unicode
			}
		}
		code++
	}
}

// Lookup resolves one character code; the empty string means unmapped.
func (cm *CMap) Lookup(charCode uint32) string {
	if unicode, ok := cm.chars[charCode]; ok {
		return unicode
	}
	for _, r := range cm.ranges {
		if charCode >= r.StartCode && charCode <= r.EndCode {
			return string(rune(r.StartUnicode + (charCode - r.StartCode)))
		}
	}
	return ""
}

// effectiveWidth picks the code byte width to decode with: the declared
// width, narrowed to the observed width when producers under-fill their
// declared code space.
func (cm *CMap) effectiveWidth() int {
	if cm.observedWidth > 0 && cm.observedWidth < cm.declaredWidth {
		return cm.observedWidth
	}
	return cm.declaredWidth
}

// LookupString decodes a whole show-operator string.
func (cm *CMap) LookupString(data []byte) string {
	if cm == nil {
		return string(data)
	}
	if width := cm.effectiveWidth(); width > 0 {
		return cm.lookupStringWithWidth(data, width)
	}

	// No declared width: probe one- then two-byte codes, falling back to
	// direct Unicode interpretation.
	var result strings.Builder
	for i := 0; i < len(data); {
		one := uint32(data[i])
		if unicode := cm.Lookup(one); unicode != "" {
			result.WriteString(unicode)
			i++
			continue
		}
		if i+1 < len(data) {
			two := one<<8 | uint32(data[i+1])
			if unicode := cm.Lookup(two); unicode != "" {
				result.WriteString(unicode)
				i += 2
				continue
			}
		}
		if one < 0x110000 {
			result.WriteRune(rune(one))
		}
		i++
	}
	return result.String()
}

// lookupStringWithWidth decodes fixed-width codes; a short tail decodes
// byte by byte.
func (cm *CMap) lookupStringWithWidth(data []byte, width int) string {
	var result strings.Builder
	for i := 0; i < len(data); {
		remaining := len(data) - i
		codeWidth := width
		if remaining < width {
			codeWidth = 1
		}

		var code uint32
		for j := 0; j < codeWidth; j++ {
			code = code<<8 | uint32(data[i+j])
		}
		if unicode := cm.Lookup(code); unicode != "" {
			result.WriteString(unicode)
		} else if code < 0x110000 {
			result.WriteRune(rune(code))
		}
		i += codeWidth
	}
	return result.String()
}

// extractHexString strips the angle brackets from a <ABCD> token.
func extractHexString(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '<' || s[len(s)-1] != '>' {
		return ""
	}
	return s[1 : len(s)-1]
}

// parseHexToUint32 parses a hex code, zero-padding odd lengths.
func parseHexToUint32(hexStr string) (uint32, error) {
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}
	val, err := strconv.ParseUint(hexStr, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(val), nil
}

// hexToUnicode decodes a destination hex token to text: two or more
// bytes decode as UTF-16BE (with or without BOM), one byte as a direct
// code point.
func hexToUnicode(hexStr string) (string, error) {
	hexStr = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, hexStr)
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}

	data, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}

	switch {
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return DecodeUTF16BE(data[2:]), nil
	case len(data) >= 2:
		return DecodeUTF16BE(data), nil
	case len(data) == 1:
		return string(rune(data[0])), nil
	}
	return "", fmt.Errorf("invalid unicode data")
}
