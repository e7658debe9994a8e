package pptx

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/trkbt10/officekit/drawingml"
)

// ExportHTML renders parsed slides to a standalone HTML snapshot: one
// section per slide, one paragraph per text-body paragraph, with shape
// positions carried as inline styles. The output is a review artifact,
// not a high-fidelity rendering.
func ExportHTML(slides []SlideModel) ([]byte, error) {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, nil)
	doc.AppendChild(root)

	head := element(atom.Head, nil)
	meta := element(atom.Meta, map[string]string{"charset": "utf-8"})
	head.AppendChild(meta)
	root.AppendChild(head)

	body := element(atom.Body, nil)
	root.AppendChild(body)

	for i, slide := range slides {
		section := element(atom.Section, map[string]string{
			"class":      "slide",
			"data-slide": fmt.Sprintf("%d", i+1),
		})
		for _, shape := range slide.Shapes {
			appendShape(section, shape)
		}
		body.AppendChild(section)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("pptx: render html: %w", err)
	}
	return buf.Bytes(), nil
}

func appendShape(parent *html.Node, shape drawingml.Shape) {
	switch shape.Kind {
	case drawingml.ShapeGroup:
		group := element(atom.Div, map[string]string{"class": "group"})
		for _, child := range shape.Children {
			appendShape(group, child)
		}
		parent.AppendChild(group)

	case drawingml.ShapePic:
		img := element(atom.Figure, map[string]string{"class": "picture"})
		if shape.BlipFill != nil && shape.BlipFill.ResourceID != "" {
			img.Attr = append(img.Attr, html.Attribute{Key: "data-resource", Val: shape.BlipFill.ResourceID})
		}
		parent.AppendChild(img)

	default:
		if shape.TextBody == nil {
			return
		}
		div := element(atom.Div, map[string]string{
			"class": "shape",
			"style": shapeStyle(shape),
		})
		for _, p := range shape.TextBody.Paragraphs {
			para := element(atom.P, nil)
			for _, run := range p.Runs {
				if run.Kind == drawingml.RunBreak {
					para.AppendChild(element(atom.Br, nil))
					continue
				}
				para.AppendChild(runNode(run))
			}
			div.AppendChild(para)
		}
		parent.AppendChild(div)
	}
}

func runNode(run drawingml.Run) *html.Node {
	text := &html.Node{Type: html.TextNode, Data: run.Text}
	node := text
	if run.Properties.Bold != nil && *run.Properties.Bold {
		b := element(atom.B, nil)
		b.AppendChild(node)
		node = b
	}
	if run.Properties.Italic != nil && *run.Properties.Italic {
		i := element(atom.I, nil)
		i.AppendChild(node)
		node = i
	}
	return node
}

func shapeStyle(shape drawingml.Shape) string {
	t := shape.Properties.Transform
	if t == nil {
		return ""
	}
	return fmt.Sprintf("left:%.0fpx;top:%.0fpx;width:%.0fpx;height:%.0fpx",
		drawingml.EMUToPixels(t.OffsetX),
		drawingml.EMUToPixels(t.OffsetY),
		drawingml.EMUToPixels(t.Width),
		drawingml.EMUToPixels(t.Height))
}

func element(a atom.Atom, attrs map[string]string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for k, v := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: v})
	}
	return n
}
