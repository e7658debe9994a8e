package drawingml

import (
	"strconv"

	"github.com/trkbt10/officekit/xmlnode"
)

// attrInt64 reads an integer attribute, defaulting to 0.
func attrInt64(n xmlnode.Node, name string) int64 {
	v, ok := xmlnode.GetAttr(n, name)
	if !ok {
		return 0
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// attrInt64Ptr reads an integer attribute, returning nil when absent or
// malformed so callers can distinguish "0" from "not set".
func attrInt64Ptr(n xmlnode.Node, name string) *int64 {
	v, ok := xmlnode.GetAttr(n, name)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// attrBool reads an OOXML boolean attribute ("1"/"true"/"0"/"false") with
// a default for when it is absent.
func attrBool(n xmlnode.Node, name string, def bool) bool {
	v, ok := xmlnode.GetAttr(n, name)
	if !ok {
		return def
	}
	switch v {
	case "1", "true", "on":
		return true
	case "0", "false", "off":
		return false
	}
	return def
}

// attrBoolPtr reads an OOXML boolean attribute, nil when absent.
func attrBoolPtr(n xmlnode.Node, name string) *bool {
	v, ok := xmlnode.GetAttr(n, name)
	if !ok {
		return nil
	}
	var b bool
	switch v {
	case "1", "true", "on":
		b = true
	case "0", "false", "off":
		b = false
	default:
		return nil
	}
	return &b
}

// attrString reads a string attribute with empty-string default.
func attrString(n xmlnode.Node, name string) string {
	v, _ := xmlnode.GetAttr(n, name)
	return v
}

// aElement builds an a:-namespaced element node.
func aElement(name string, attrs ...xmlnode.Attr) xmlnode.Node {
	return xmlnode.Node{Kind: xmlnode.KindElement, Space: "a", Name: name, Attrs: attrs}
}

// pElement builds a p:-namespaced element node.
func pElement(name string, attrs ...xmlnode.Attr) xmlnode.Node {
	return xmlnode.Node{Kind: xmlnode.KindElement, Space: "p", Name: name, Attrs: attrs}
}

// attr builds an unqualified attribute.
func attr(name, value string) xmlnode.Attr {
	return xmlnode.Attr{Name: name, Value: value}
}

// rAttr builds an r:-namespaced attribute (relationship references).
func rAttr(name, value string) xmlnode.Attr {
	return xmlnode.Attr{Space: "r", Name: name, Value: value}
}

// formatInt64 renders an int64 attribute value.
func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

// formatBool renders an OOXML boolean attribute value.
func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
