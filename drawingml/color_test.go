package drawingml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestColorRoundTrip tests parse(serialize(c)) == c for each color kind
func TestColorRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		color Color
	}{
		{"srgb", Color{Kind: ColorSrgb, Hex: "FF0000"}},
		{"scheme", Color{Kind: ColorScheme, Name: "accent1"}},
		{"system", Color{Kind: ColorSystem, Name: "windowText", Hex: "000000"}},
		{"preset", Color{Kind: ColorPreset, Name: "red"}},
		{"hsl", Color{Kind: ColorHsl, Hue: 14400000, Sat: 100000, Lum: 50000}},
		{"scrgb", Color{Kind: ColorScrgb, R: 50000, G: 25000, B: 0}},
		{"with transforms", Color{
			Kind: ColorScheme,
			Name: "accent2",
			Transforms: []ColorTransform{
				{Name: "lumMod", Value: 75000},
				{Name: "lumOff", Value: 25000},
				{Name: "alpha", Value: 50000},
			},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseColor(SerializeColor(tc.color))
			if diff := cmp.Diff(tc.color, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestColorTransformsPreservedWithoutHex tests the invariant that the
// transform chain survives even when the base color value is missing
func TestColorTransformsPreservedWithoutHex(t *testing.T) {
	n := aElement("srgbClr")
	n.Children = append(n.Children, aElement("alpha", attr("val", "40000")))

	c := ParseColor(n)
	if c.Hex != "" {
		t.Errorf("Hex = %q, want empty", c.Hex)
	}
	if len(c.Transforms) != 1 || c.Transforms[0].Name != "alpha" || c.Transforms[0].Value != 40000 {
		t.Errorf("Transforms = %+v, want [alpha 40000]", c.Transforms)
	}
}

// TestColorTransformOrderPreserved tests that transforms keep document
// order, which matters because they apply sequentially
func TestColorTransformOrderPreserved(t *testing.T) {
	c := Color{
		Kind: ColorSrgb,
		Hex:  "123456",
		Transforms: []ColorTransform{
			{Name: "shade", Value: 50000},
			{Name: "tint", Value: 20000},
		},
	}
	got := ParseColor(SerializeColor(c))
	if got.Transforms[0].Name != "shade" || got.Transforms[1].Name != "tint" {
		t.Errorf("transform order not preserved: %+v", got.Transforms)
	}
}
