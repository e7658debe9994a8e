package core

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver supplies objects for indirect references met during
// parsing (a stream's indirect /Length).
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser parses PDF object syntax: the primitive types, containers,
// indirect references, and full indirect-object definitions including
// stream payloads.
type Parser struct {
	reader   *bufio.Reader
	resolver ReferenceResolver
}

// NewParser creates a parser over r.
func NewParser(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// SetReferenceResolver installs the resolver used for indirect stream
// lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// ParseObject parses the next object, dispatching on its first byte.
// A clean end of input returns io.EOF.
func (p *Parser) ParseObject() (Object, error) {
	if err := p.skipIgnorable(); err != nil {
		return nil, err
	}

	b, err := p.peekByte(0)
	if err != nil {
		return nil, err
	}

	switch {
	case b == 'n':
		return p.parseKeyword("null", Null{})
	case b == 't':
		return p.parseKeyword("true", Bool(true))
	case b == 'f':
		return p.parseKeyword("false", Bool(false))
	case b == '(':
		return p.parseString()
	case b == '/':
		return p.parseName()
	case b == '[':
		return p.parseArray()
	case b == '<':
		if next, err := p.peekByte(1); err == nil && next == '<' {
			return p.parseDict()
		}
		return p.parseHexString()
	case isDigit(b) || b == '-' || b == '+' || b == '.':
		return p.parseNumber()
	}
	return nil, fmt.Errorf("unexpected character: %c", b)
}

// ParseIndirectObject parses "N G obj ... endobj", turning a dictionary
// followed by a stream keyword into a *Stream with its payload attached.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	if err := p.skipIgnorable(); err != nil {
		return nil, err
	}

	number, err := p.readIntToken("object number")
	if err != nil {
		return nil, err
	}
	generation, err := p.readIntToken("generation number")
	if err != nil {
		return nil, err
	}
	if kw, err := p.readToken(); err != nil || kw != "obj" {
		return nil, fmt.Errorf("expected 'obj' keyword, got %q (%v)", kw, err)
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, err
	}

	// A dictionary followed by the stream keyword carries a payload.
	if dict, ok := obj.(Dict); ok {
		isStream, err := p.atKeyword("stream")
		if err != nil && err != io.EOF {
			return nil, err
		}
		if isStream {
			stream, err := p.readStreamPayload(dict)
			if err != nil {
				return nil, err
			}
			obj = stream
		}
	}

	// Trailing endobj is consumed when present; lenient producers omit it.
	p.atKeyword("endobj")

	ref := IndirectRef{Number: number, Generation: generation}
	return &IndirectObject{Ref: ref, Object: obj}, nil
}

// readStreamPayload reads the bytes between the already-consumed stream
// keyword and endstream, sized by the dictionary's /Length.
func (p *Parser) readStreamPayload(dict Dict) (*Stream, error) {
	// The stream keyword is followed by CRLF or LF, then raw data.
	if b, err := p.peekByte(0); err == nil && b == '\r' {
		p.reader.ReadByte()
	}
	if b, err := p.peekByte(0); err == nil && b == '\n' {
		p.reader.ReadByte()
	}

	length, err := p.streamLength(dict)
	if err != nil {
		return nil, err
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(p.reader, data); err != nil {
		return nil, fmt.Errorf("stream data truncated: %w", err)
	}

	if err := p.skipIgnorable(); err != nil && err != io.EOF {
		return nil, err
	}
	if kw, err := p.readToken(); err != nil || kw != "endstream" {
		return nil, fmt.Errorf("expected 'endstream', got %q (%v)", kw, err)
	}

	return &Stream{Dict: dict, Data: data}, nil
}

// streamLength resolves /Length, chasing an indirect reference through
// the installed resolver.
func (p *Parser) streamLength(dict Dict) (int, error) {
	switch v := dict.Get("Length").(type) {
	case Int:
		return int(v), nil
	case IndirectRef:
		if p.resolver == nil {
			return 0, fmt.Errorf("indirect reference for stream length requires a reference resolver")
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve stream length: %w", err)
		}
		length, ok := resolved.(Int)
		if !ok {
			return 0, fmt.Errorf("stream length resolved to %T, want integer", resolved)
		}
		return int(length), nil
	}
	return 0, fmt.Errorf("stream dictionary missing integer /Length")
}

// atKeyword reports whether the next token is the keyword, consuming it
// only on a match.
func (p *Parser) atKeyword(keyword string) (bool, error) {
	if err := p.skipIgnorable(); err != nil {
		return false, err
	}
	window, err := p.reader.Peek(len(keyword) + 1)
	if err != nil && len(window) < len(keyword) {
		return false, err
	}
	if string(window[:len(keyword)]) != keyword {
		return false, nil
	}
	// The keyword must end at a delimiter, whitespace, or EOF.
	if len(window) > len(keyword) {
		next := window[len(keyword)]
		if !isWhitespace(next) && !isDelimiter(next) {
			return false, nil
		}
	}
	p.reader.Discard(len(keyword))
	return true, nil
}

// parseKeyword consumes one keyword token and returns its value.
func (p *Parser) parseKeyword(keyword string, value Object) (Object, error) {
	token, err := p.readToken()
	if err != nil {
		return nil, err
	}
	if token != keyword {
		return nil, fmt.Errorf("expected '%s', got '%s'", keyword, token)
	}
	return value, nil
}

// parseNumber reads a numeric token, recognising the "num gen R"
// indirect-reference form by bounded lookahead: the two extra tokens are
// consumed only when the R confirms.
func (p *Parser) parseNumber() (Object, error) {
	token, err := p.readToken()
	if err != nil {
		return nil, err
	}

	if consumed, gen := p.tryIndirectSuffix(); consumed {
		number, numErr := strconv.ParseInt(token, 10, 64)
		if numErr == nil {
			return IndirectRef{Number: int(number), Generation: gen}, nil
		}
	}

	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return Int(i), nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return Real(f), nil
	}
	return nil, fmt.Errorf("invalid number: %s", token)
}

// indirectLookahead bounds the "gen R" peek window after a number.
const indirectLookahead = 32

// tryIndirectSuffix peeks for whitespace, a generation number, and a
// bare R; on a full match the suffix is consumed and its generation
// returned.
func (p *Parser) tryIndirectSuffix() (bool, int) {
	window, _ := p.reader.Peek(indirectLookahead)

	i := 0
	for i < len(window) && isWhitespace(window[i]) {
		i++
	}
	genStart := i
	for i < len(window) && isDigit(window[i]) {
		i++
	}
	if i == genStart {
		return false, 0
	}
	genEnd := i
	for i < len(window) && isWhitespace(window[i]) {
		i++
	}
	if i >= len(window) || window[i] != 'R' {
		return false, 0
	}
	i++
	// R must stand alone.
	if i < len(window) && !isWhitespace(window[i]) && !isDelimiter(window[i]) {
		return false, 0
	}

	gen, err := strconv.Atoi(string(window[genStart:genEnd]))
	if err != nil {
		return false, 0
	}
	p.reader.Discard(i)
	return true, gen
}

// parseString reads a literal string with nesting and escapes.
func (p *Parser) parseString() (Object, error) {
	if b, err := p.reader.ReadByte(); err != nil || b != '(' {
		return nil, fmt.Errorf("expected '('")
	}

	var buf bytes.Buffer
	depth := 1
	for depth > 0 {
		b, err := p.reader.ReadByte()
		if err != nil {
			return nil, err
		}
		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteByte(b)
			}
		case '\\':
			next, err := p.reader.ReadByte()
			if err != nil {
				return nil, err
			}
			switch next {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			default:
				if isOctalDigit(next) {
					// \d, \dd or \ddd: up to three octal digits form one byte.
					v := next - '0'
					for i := 0; i < 2; i++ {
						nb, err := p.peekByte(0)
						if err != nil || !isOctalDigit(nb) {
							break
						}
						p.reader.ReadByte()
						v = v*8 + nb - '0'
					}
					next = v
				}
				buf.WriteByte(next)
			}
		default:
			buf.WriteByte(b)
		}
	}
	return String(buf.String()), nil
}

// parseHexString reads <...>, pairing digits into bytes with an implied
// trailing zero on odd lengths.
func (p *Parser) parseHexString() (Object, error) {
	if b, err := p.reader.ReadByte(); err != nil || b != '<' {
		return nil, fmt.Errorf("expected '<'")
	}

	var digits bytes.Buffer
	for {
		b, err := p.reader.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == '>' {
			break
		}
		if isHexDigit(b) {
			digits.WriteByte(b)
		}
	}

	hexStr := digits.String()
	if len(hexStr)%2 != 0 {
		hexStr += "0"
	}
	out := make([]byte, len(hexStr)/2)
	for i := 0; i < len(hexStr); i += 2 {
		v, _ := strconv.ParseUint(hexStr[i:i+2], 16, 8)
		out[i/2] = byte(v)
	}
	return String(out), nil
}

// parseName reads /Name, decoding #xx escapes. A bare '/' is the empty name.
func (p *Parser) parseName() (Object, error) {
	if b, err := p.reader.ReadByte(); err != nil || b != '/' {
		return nil, fmt.Errorf("expected '/'")
	}
	var buf bytes.Buffer
	for {
		b, err := p.peekByte(0)
		if err != nil || isWhitespace(b) || isDelimiter(b) {
			break
		}
		p.reader.ReadByte()
		if h, err := p.reader.Peek(2); b == '#' && err == nil && isHexDigit(h[0]) && isHexDigit(h[1]) {
			p.reader.Discard(2)
			b = hexValue(h[0])<<4 | hexValue(h[1])
		}
		buf.WriteByte(b)
	}
	return Name(buf.String()), nil
}

// parseArray reads [ ... ].
func (p *Parser) parseArray() (Object, error) {
	if b, err := p.reader.ReadByte(); err != nil || b != '[' {
		return nil, fmt.Errorf("expected '['")
	}

	var arr Array
	for {
		if err := p.skipIgnorable(); err != nil {
			return nil, err
		}
		b, err := p.peekByte(0)
		if err != nil {
			return nil, err
		}
		if b == ']' {
			p.reader.ReadByte()
			return arr, nil
		}
		obj, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// parseDict reads << ... >> of name/value pairs.
func (p *Parser) parseDict() (Object, error) {
	for i := 0; i < 2; i++ {
		if b, err := p.reader.ReadByte(); err != nil || b != '<' {
			return nil, fmt.Errorf("expected '<<'")
		}
	}

	dict := make(Dict)
	for {
		if err := p.skipIgnorable(); err != nil {
			return nil, err
		}
		b, err := p.peekByte(0)
		if err != nil {
			return nil, err
		}
		if b == '>' {
			if next, err := p.peekByte(1); err == nil && next == '>' {
				p.reader.Discard(2)
				return dict, nil
			}
		}

		keyObj, err := p.parseName()
		if err != nil {
			return nil, err
		}
		value, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		dict[string(keyObj.(Name))] = value
	}
}

// Low-level readers.

// skipIgnorable consumes whitespace and % comments.
func (p *Parser) skipIgnorable() error {
	for {
		b, err := p.reader.ReadByte()
		if err != nil {
			return err
		}
		if isWhitespace(b) {
			continue
		}
		if b == '%' {
			for {
				c, err := p.reader.ReadByte()
				if err != nil {
					return err
				}
				if c == '\r' || c == '\n' {
					break
				}
			}
			continue
		}
		p.reader.UnreadByte()
		return nil
	}
}

// readToken reads a run of regular characters, stopping (without
// consuming) at whitespace or a delimiter.
func (p *Parser) readToken() (string, error) {
	if err := p.skipIgnorable(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for {
		b, err := p.reader.ReadByte()
		if err != nil {
			if err == io.EOF && buf.Len() > 0 {
				return buf.String(), nil
			}
			return "", err
		}
		if isWhitespace(b) || isDelimiter(b) {
			p.reader.UnreadByte()
			break
		}
		buf.WriteByte(b)
	}
	return buf.String(), nil
}

// readIntToken reads one token and parses it as an integer.
func (p *Parser) readIntToken(what string) (int, error) {
	token, err := p.readToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, token, err)
	}
	return v, nil
}

// peekByte looks at the byte offset positions ahead without consuming.
func (p *Parser) peekByte(offset int) (byte, error) {
	window, err := p.reader.Peek(offset + 1)
	if err != nil {
		return 0, err
	}
	return window[offset], nil
}
