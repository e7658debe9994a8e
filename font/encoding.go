package font

import (
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// DecodeUTF16BE decodes UTF-16 big-endian bytes, including surrogate
// pairs, into a string. Odd trailing bytes are dropped.
func DecodeUTF16BE(data []byte) string {
	if len(data) < 2 {
		return ""
	}
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
	}
	return string(utf16.Decode(units))
}

// DecodeUTF16LE decodes UTF-16 little-endian bytes into a string.
func DecodeUTF16LE(data []byte) string {
	if len(data) < 2 {
		return ""
	}
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i+1])<<8|uint16(data[i]))
	}
	return string(utf16.Decode(units))
}

// NormalizeUnicode canonicalizes decoded text to NFC so that visually
// identical strings from different producers compare equal.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// Encoding decodes single-byte character codes for a named simple-font
// encoding.
type Encoding struct {
	name      string
	overrides map[byte]rune
}

// GetEncoding returns the decoder for an encoding name. Unknown names
// decode as Latin-1, which matches StandardEncoding closely enough for
// width and merge comparisons.
func GetEncoding(name string) *Encoding {
	switch name {
	case "WinAnsiEncoding":
		return &Encoding{name: name, overrides: winAnsiOverrides}
	case "MacRomanEncoding":
		return &Encoding{name: name, overrides: macRomanOverrides}
	}
	return &Encoding{name: name}
}

// DecodeString decodes raw character codes to text.
func (e *Encoding) DecodeString(data []byte) string {
	runes := make([]rune, 0, len(data))
	for _, b := range data {
		if e.overrides != nil {
			if r, ok := e.overrides[b]; ok {
				runes = append(runes, r)
				continue
			}
		}
		runes = append(runes, rune(b))
	}
	return string(runes)
}

// winAnsiOverrides maps the CP1252 0x80-0x9F block, where WinAnsi departs
// from Latin-1.
var winAnsiOverrides = map[byte]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„', 0x85: '…',
	0x86: '†', 0x87: '‡', 0x88: 'ˆ', 0x89: '‰', 0x8A: 'Š',
	0x8B: '‹', 0x8C: 'Œ', 0x8E: 'Ž', 0x91: '‘', 0x92: '’',
	0x93: '“', 0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
	0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›', 0x9C: 'œ',
	0x9E: 'ž', 0x9F: 'Ÿ',
}

// macRomanOverrides covers the MacRoman punctuation and letter slots that
// differ from Latin-1 and show up in real documents.
var macRomanOverrides = map[byte]rune{
	0x80: 'Ä', 0x81: 'Å', 0x82: 'Ç', 0x83: 'É', 0x84: 'Ñ',
	0x85: 'Ö', 0x86: 'Ü', 0x87: 'á', 0x88: 'à', 0x89: 'â',
	0x8A: 'ä', 0x8B: 'ã', 0x8C: 'å', 0x8D: 'ç', 0x8E: 'é',
	0x8F: 'è', 0x90: 'ê', 0x91: 'ë', 0x92: 'í', 0x93: 'ì',
	0x94: 'î', 0x95: 'ï', 0x96: 'ñ', 0x97: 'ó', 0x98: 'ò',
	0x99: 'ô', 0x9A: 'ö', 0x9B: 'õ', 0x9C: 'ú', 0x9D: 'ù',
	0x9E: 'û', 0x9F: 'ü', 0xA5: '•', 0xD0: '–', 0xD1: '—',
	0xD2: '“', 0xD3: '”', 0xD4: '‘', 0xD5: '’',
}

// IsEmojiSequence reports whether the string contains at least one emoji
// rune (pictographs, transport symbols, regional indicators, dingbat
// emoji, and related blocks).
func IsEmojiSequence(s string) bool {
	for _, r := range s {
		if isEmojiRune(r) {
			return true
		}
	}
	return false
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // extended-A
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r == 0x2B50 || r == 0x2B55: // star, heavy circle
		return true
	case r >= 0x1F000 && r <= 0x1F2FF: // mahjong, dominoes, enclosed
		return true
	}
	return false
}
