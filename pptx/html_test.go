package pptx

import (
	"strings"
	"testing"

	"github.com/trkbt10/officekit/drawingml"
)

// TestExportHTML tests the slide-to-HTML snapshot
func TestExportHTML(t *testing.T) {
	bold := true
	slides := []SlideModel{
		{
			Shapes: []drawingml.Shape{
				{
					Kind:      drawingml.ShapeSp,
					NonVisual: drawingml.NonVisual{ID: "2", Name: "Title"},
					Properties: drawingml.ShapeProperties{
						Transform: &drawingml.Transform{OffsetX: 9525, OffsetY: 19050, Width: 95250, Height: 47625},
					},
					TextBody: &drawingml.TextBody{
						Paragraphs: []drawingml.Paragraph{
							{Runs: []drawingml.Run{
								{Kind: drawingml.RunText, Text: "Hello ", Properties: drawingml.RunProperties{Bold: &bold}},
								{Kind: drawingml.RunBreak},
								{Kind: drawingml.RunText, Text: "world"},
							}},
						},
					},
				},
				{
					Kind:     drawingml.ShapePic,
					BlipFill: &drawingml.BlipFill{ResourceID: "rId7"},
				},
			},
		},
	}

	out, err := ExportHTML(slides)
	if err != nil {
		t.Fatalf("ExportHTML failed: %v", err)
	}
	s := string(out)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<section",
		"<b>Hello </b>",
		"<br/>",
		"world",
		`data-resource="rId7"`,
		"left:1px;top:2px;width:10px;height:5px",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q\n%s", want, s)
		}
	}
}

// TestExportHTMLEmpty tests zero slides producing a valid document
func TestExportHTMLEmpty(t *testing.T) {
	out, err := ExportHTML(nil)
	if err != nil {
		t.Fatalf("ExportHTML failed: %v", err)
	}
	if !strings.Contains(string(out), "<body></body>") {
		t.Errorf("unexpected empty output: %s", out)
	}
}
