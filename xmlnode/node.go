// Package xmlnode implements the immutable XML tree and its mutator
// primitives that the OOXML parser and patcher share: a small
// element/text/comment node sum type with structural mutators that allocate only the path from
// the root to a modified child, sharing every unchanged subtree.
//
// The tree is backed by github.com/beevik/etree for parsing/serialization
// (etree preserves attribute order, comments, and unrecognised content),
// wrapped in a value type so callers never hold a mutable alias into a tree
// another caller is also reading.
package xmlnode

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Kind distinguishes element, text, and comment nodes.
type Kind int

const (
	KindElement Kind = iota
	KindText
	KindComment
)

// Attr is a single XML attribute. Attribute order is not semantic (spec
// §4.2) but is preserved for byte-stable round-tripping.
type Attr struct {
	Space string
	Name  string
	Value string
}

// Node is the immutable sum type `{ element | text | comment }`. Element
// nodes carry a name, attributes, and children; text and comment nodes
// carry only Text. Structural equality is defined positionally over
// Children and order-independently over Attrs (see Equal).
type Node struct {
	Kind     Kind
	Space    string
	Name     string
	Attrs    []Attr
	Children []Node
	Text     string
}

// Element constructs an element node.
func Element(name string, attrs []Attr, children ...Node) Node {
	return Node{Kind: KindElement, Name: name, Attrs: attrs, Children: children}
}

// TextNode constructs a text node.
func TextNode(text string) Node {
	return Node{Kind: KindText, Text: text}
}

// Parse parses a full XML document into its root Node.
func Parse(data []byte) (Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return Node{}, fmt.Errorf("xmlnode: parse: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return Node{}, fmt.Errorf("xmlnode: document has no root element")
	}
	return fromEtree(root), nil
}

// Serialize renders a Node tree back to an XML document's bytes.
func Serialize(n Node) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	doc.AddChild(toEtree(n))
	doc.Indent(0)
	return doc.WriteToBytes()
}

func fromEtree(e *etree.Element) Node {
	n := Node{Kind: KindElement, Space: e.Space, Name: e.Tag}
	for _, a := range e.Attr {
		n.Attrs = append(n.Attrs, Attr{Space: a.Space, Name: a.Key, Value: a.Value})
	}
	for _, child := range e.Child {
		switch c := child.(type) {
		case *etree.Element:
			n.Children = append(n.Children, fromEtree(c))
		case *etree.CharData:
			if strings.TrimSpace(c.Data) != "" || c.IsCData() {
				n.Children = append(n.Children, TextNode(c.Data))
			}
		case *etree.Comment:
			n.Children = append(n.Children, Node{Kind: KindComment, Text: c.Data})
		}
	}
	return n
}

func toEtree(n Node) *etree.Element {
	if n.Space != "" {
		qualified := n.Space + ":" + n.Name
		e := etree.NewElement(qualified)
		writeEtreeBody(e, n)
		return e
	}
	e := etree.NewElement(n.Name)
	writeEtreeBody(e, n)
	return e
}

func writeEtreeBody(e *etree.Element, n Node) {
	for _, a := range n.Attrs {
		if a.Space != "" {
			e.CreateAttr(a.Space+":"+a.Name, a.Value)
		} else {
			e.CreateAttr(a.Name, a.Value)
		}
	}
	for _, child := range n.Children {
		switch child.Kind {
		case KindText:
			e.CreateText(child.Text)
		case KindComment:
			e.CreateComment(child.Text)
		default:
			e.AddChild(toEtree(child))
		}
	}
}

// Equal reports structural equality: children compared positionally, but
// attributes compared as sets.
func Equal(a, b Node) bool {
	if a.Kind != b.Kind || a.Space != b.Space || a.Name != b.Name || a.Text != b.Text {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) {
		return false
	}
	bAttrs := make(map[string]string, len(b.Attrs))
	for _, attr := range b.Attrs {
		bAttrs[attr.Space+":"+attr.Name] = attr.Value
	}
	for _, attr := range a.Attrs {
		v, ok := bAttrs[attr.Space+":"+attr.Name]
		if !ok || v != attr.Value {
			return false
		}
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
