package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/efp"
)

// FormulaToken is one token of a parsed cell formula.
type FormulaToken struct {
	Value   string
	Type    string
	Subtype string
}

// Formula is a parsed cell formula: the original text plus its token
// stream.
type Formula struct {
	Text   string
	Tokens []FormulaToken
}

// ParseFormula tokenizes a cell formula (the text of an f element, without
// the leading '=').
func ParseFormula(text string) Formula {
	parser := efp.ExcelParser()
	tokens := parser.Parse(text)

	f := Formula{Text: text}
	for _, t := range tokens {
		f.Tokens = append(f.Tokens, FormulaToken{
			Value:   t.TValue,
			Type:    t.TType,
			Subtype: t.TSubType,
		})
	}
	return f
}

// References returns the cell/range operand tokens of the formula, in
// order of appearance.
func (f Formula) References() []string {
	var refs []string
	for _, t := range f.Tokens {
		if t.Type == efp.TokenTypeOperand && t.Subtype == efp.TokenSubTypeRange {
			refs = append(refs, t.Value)
		}
	}
	return refs
}

// Functions returns the distinct function names the formula calls.
func (f Formula) Functions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range f.Tokens {
		if t.Type == efp.TokenTypeFunction && t.Subtype == efp.TokenSubTypeStart {
			name := strings.ToUpper(t.Value)
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// ExpandSharedFormula rewrites a shared formula's relative references for
// a target cell offset by (dRow, dCol) from the formula's anchor. Absolute
// references ($-prefixed components) stay fixed.
func ExpandSharedFormula(f Formula, dRow, dCol int) (string, error) {
	var sb strings.Builder
	for _, t := range f.Tokens {
		if t.Type == efp.TokenTypeOperand && t.Subtype == efp.TokenSubTypeRange {
			shifted, err := shiftReference(t.Value, dRow, dCol)
			if err != nil {
				return "", err
			}
			sb.WriteString(shifted)
			continue
		}
		sb.WriteString(renderToken(t))
	}
	return sb.String(), nil
}

func renderToken(t FormulaToken) string {
	switch {
	case t.Type == efp.TokenTypeFunction && t.Subtype == efp.TokenSubTypeStart:
		return t.Value + "("
	case t.Type == efp.TokenTypeFunction && t.Subtype == efp.TokenSubTypeStop:
		return ")"
	case t.Type == efp.TokenTypeSubexpression && t.Subtype == efp.TokenSubTypeStart:
		return "("
	case t.Type == efp.TokenTypeSubexpression && t.Subtype == efp.TokenSubTypeStop:
		return ")"
	case t.Type == efp.TokenTypeArgument:
		return ","
	case t.Type == efp.TokenTypeOperand && t.Subtype == efp.TokenSubTypeText:
		return `"` + t.Value + `"`
	default:
		return t.Value
	}
}

// shiftReference moves a single cell reference (or each endpoint of a
// range) by the given offsets.
func shiftReference(ref string, dRow, dCol int) (string, error) {
	if strings.Contains(ref, ":") {
		parts := strings.SplitN(ref, ":", 2)
		start, err := shiftReference(parts[0], dRow, dCol)
		if err != nil {
			return "", err
		}
		end, err := shiftReference(parts[1], dRow, dCol)
		if err != nil {
			return "", err
		}
		return start + ":" + end, nil
	}

	colAbs := strings.HasPrefix(ref, "$")
	rest := strings.TrimPrefix(ref, "$")

	i := 0
	for i < len(rest) && rest[i] >= 'A' && rest[i] <= 'Z' {
		i++
	}
	colPart := rest[:i]
	rest = rest[i:]

	rowAbs := strings.HasPrefix(rest, "$")
	rowPart := strings.TrimPrefix(rest, "$")

	if colPart == "" || rowPart == "" {
		// Not an A1 reference (a defined name); leave untouched.
		return ref, nil
	}

	col := 0
	for _, c := range colPart {
		col = col*26 + int(c-'A'+1)
	}
	row := 0
	for _, c := range rowPart {
		if c < '0' || c > '9' {
			return ref, nil
		}
		row = row*10 + int(c-'0')
	}

	if !colAbs {
		col += dCol
	}
	if !rowAbs {
		row += dRow
	}
	if col < 1 || row < 1 {
		return "", fmt.Errorf("shared formula reference %s shifts out of range", ref)
	}

	var colName []byte
	for col > 0 {
		col--
		colName = append([]byte{byte('A' + col%26)}, colName...)
		col /= 26
	}

	var sb strings.Builder
	if colAbs {
		sb.WriteByte('$')
	}
	sb.Write(colName)
	if rowAbs {
		sb.WriteByte('$')
	}
	fmt.Fprintf(&sb, "%d", row)
	return sb.String(), nil
}
