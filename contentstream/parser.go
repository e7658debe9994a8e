package contentstream

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/trkbt10/officekit/core"
)

// Operation represents a single content stream operation
// consisting of an operator and its operands
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands
}

// Parser parses PDF content streams. Each parser owns its own operand
// stack, so concurrent parsers over independent streams never share state.
type Parser struct {
	data []byte
	pos  int
	ops  []Operation

	// operands holds the pending operand stack until an operator
	// consumes it.
	operands []core.Object
}

// NewParser creates a new content stream parser
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse tokenizes the whole stream into operations: operands accumulate
// on the parser's stack until an operator claims them.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		p.skipWhitespace()
		if p.eof() {
			return p.ops, nil
		}

		if c := p.cur(); isLetter(c) || c == '\'' || c == '"' {
			if err := p.readOperator(); err != nil {
				return nil, err
			}
			continue
		}

		start := p.pos
		operand, err := p.readOperand()
		if err != nil {
			return nil, fmt.Errorf("at position %d: %w", start, err)
		}
		p.operands = append(p.operands, operand)
	}
}

// Cursor helpers.

func (p *Parser) eof() bool {
	return p.pos >= len(p.data)
}

func (p *Parser) cur() byte {
	return p.data[p.pos]
}

// lookahead returns the byte after the cursor, or 0 at the end.
func (p *Parser) lookahead() byte {
	if p.pos+1 < len(p.data) {
		return p.data[p.pos+1]
	}
	return 0
}

func (p *Parser) skipWhitespace() {
	for !p.eof() && (isWhitespace(p.cur()) || p.cur() == '%') {
		if p.cur() == '%' {
			// A comment runs to the end of the line.
			for !p.eof() && p.cur() != '\n' && p.cur() != '\r' {
				p.pos++
			}
			continue
		}
		p.pos++
	}
}

// readOperator consumes an operator name and flushes the pending operand
// stack into an Operation.
func (p *Parser) readOperator() error {
	start := p.pos
	for !p.eof() {
		c := p.cur()
		if !isLetter(c) && c != '\'' && c != '"' && c != '*' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return fmt.Errorf("empty operator at position %d", start)
	}

	operands := make([]core.Object, len(p.operands))
	copy(operands, p.operands)
	p.ops = append(p.ops, Operation{
		Operator: string(p.data[start:p.pos]),
		Operands: operands,
	})
	p.operands = nil
	return nil
}

// readOperand dispatches on the cursor byte: numbers, strings, hex
// strings, names, arrays, dictionaries, and the true/false/null keywords.
func (p *Parser) readOperand() (core.Object, error) {
	p.skipWhitespace()
	if p.eof() {
		return nil, fmt.Errorf("unexpected end of stream")
	}

	switch c := p.cur(); {
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return p.readNumber()
	case c == '(':
		return p.readLiteralString()
	case c == '<' && p.lookahead() == '<':
		return p.readDict()
	case c == '<':
		return p.readHexString()
	case c == '/':
		return p.readName()
	case c == '[':
		return p.readArray()
	case c == 't' || c == 'f' || c == 'n':
		if obj, ok := p.readKeywordOperand(); ok {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected character at position %d: %c", p.pos, p.cur())
}

// readKeywordOperand recognises the three keyword operands; anything else
// is left for operator handling.
func (p *Parser) readKeywordOperand() (core.Object, bool) {
	end := p.pos
	for end < len(p.data) && !isWhitespace(p.data[end]) {
		end++
	}
	switch string(p.data[p.pos:end]) {
	case "true":
		p.pos = end
		return core.Bool(true), true
	case "false":
		p.pos = end
		return core.Bool(false), true
	case "null":
		p.pos = end
		return core.Null{}, true
	}
	return nil, false
}

// readNumber consumes an integer or real.
func (p *Parser) readNumber() (core.Object, error) {
	start := p.pos
	sawDot := false

	if c := p.cur(); c == '+' || c == '-' {
		p.pos++
	}
	for !p.eof() {
		c := p.cur()
		if isDigit(c) {
			p.pos++
		} else if c == '.' && !sawDot {
			sawDot = true
			p.pos++
		} else {
			break
		}
	}

	text := string(p.data[start:p.pos])
	if sawDot {
		val, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", text, err)
		}
		return core.Real(val), nil
	}
	val, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", text, err)
	}
	return core.Int(val), nil
}

// readLiteralString consumes ( ... ) with nesting and escapes.
func (p *Parser) readLiteralString() (core.Object, error) {
	if p.cur() != '(' {
		return nil, fmt.Errorf("string must start with '('")
	}
	p.pos++

	var buf bytes.Buffer
	depth := 1
	for !p.eof() && depth > 0 {
		c := p.cur()
		switch {
		case c == '\\' && p.pos+1 < len(p.data):
			p.pos++
			switch e := p.cur(); {
			case e == '\r' || e == '\n':
				// Backslash-newline continues the line and yields nothing.
				p.pos++
				if e == '\r' && !p.eof() && p.cur() == '\n' {
					p.pos++
				}
			case e >= '0' && e <= '7':
				// Up to three octal digits form one byte.
				var v byte
				for n := 0; n < 3 && !p.eof() && p.cur() >= '0' && p.cur() <= '7'; n++ {
					v = v*8 + p.cur() - '0'
					p.pos++
				}
				buf.WriteByte(v)
			default:
				buf.WriteByte(unescapeStringByte(e))
				p.pos++
			}
		case c == '(':
			depth++
			buf.WriteByte(c)
			p.pos++
		case c == ')':
			depth--
			if depth > 0 {
				buf.WriteByte(c)
			}
			p.pos++
		default:
			buf.WriteByte(c)
			p.pos++
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unclosed string")
	}
	return core.String(buf.String()), nil
}

// unescapeStringByte maps the byte after a backslash to its value;
// unknown escapes keep the escaped byte.
func unescapeStringByte(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	}
	return c
}

// readHexString consumes < ... >, pairing hex digits into bytes; an odd
// trailing digit gets an implied zero.
func (p *Parser) readHexString() (core.Object, error) {
	if p.cur() != '<' {
		return nil, fmt.Errorf("hex string must start with '<'")
	}
	p.pos++

	var buf bytes.Buffer
	var pending byte
	havePending := false

	for !p.eof() {
		c := p.cur()
		if c == '>' {
			p.pos++
			if havePending {
				buf.WriteByte(pending << 4)
			}
			return core.String(buf.String()), nil
		}
		if isWhitespace(c) {
			p.pos++
			continue
		}
		if !isHexDigit(c) {
			return nil, fmt.Errorf("invalid hex digit: %c", c)
		}
		if havePending {
			buf.WriteByte(pending<<4 | hexValue(c))
			havePending = false
		} else {
			pending = hexValue(c)
			havePending = true
		}
		p.pos++
	}
	if havePending {
		buf.WriteByte(pending << 4)
	}
	return core.String(buf.String()), nil
}

// readName consumes /Name, decoding #xx escapes.
func (p *Parser) readName() (core.Object, error) {
	if p.cur() != '/' {
		return nil, fmt.Errorf("name must start with '/'")
	}
	p.pos++

	var buf bytes.Buffer
	for !p.eof() {
		c := p.cur()
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) &&
			isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			buf.WriteByte(hexValue(p.data[p.pos+1])<<4 | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		buf.WriteByte(c)
		p.pos++
	}
	return core.Name(buf.String()), nil
}

// readArray consumes [ ... ] of operands.
func (p *Parser) readArray() (core.Object, error) {
	if p.cur() != '[' {
		return nil, fmt.Errorf("array must start with '['")
	}
	p.pos++

	var arr core.Array
	for {
		p.skipWhitespace()
		if p.eof() {
			return nil, fmt.Errorf("unclosed array")
		}
		if p.cur() == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.readOperand()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// readDict consumes << ... >> of name/operand pairs.
func (p *Parser) readDict() (core.Object, error) {
	if p.cur() != '<' || p.lookahead() != '<' {
		return nil, fmt.Errorf("dictionary must start with '<<'")
	}
	p.pos += 2

	dict := make(core.Dict)
	for {
		p.skipWhitespace()
		if p.eof() {
			return dict, nil
		}
		if p.cur() == '>' && p.lookahead() == '>' {
			p.pos += 2
			return dict, nil
		}
		if p.cur() != '/' {
			return nil, fmt.Errorf("dictionary key must be a name")
		}
		key, err := p.readName()
		if err != nil {
			return nil, err
		}
		value, err := p.readOperand()
		if err != nil {
			return nil, err
		}
		dict[string(key.(core.Name))] = value
	}
}

// Byte classification helpers.

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
