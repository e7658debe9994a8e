// Package diagram implements presentation diagram layout: the algorithm
// registry that maps layout keys (lin, cycle, snake, pyra, hier*, ...) to
// pure functions from a node tree to positioned rectangles.
package diagram

import (
	"strconv"
)

// TreeNode is one node of the diagram's data tree.
type TreeNode struct {
	ID   string
	Type string

	Children []*TreeNode

	Depth        int
	SiblingIndex int

	// PropertySet carries the node's presentation property overrides.
	PropertySet map[string]string
}

// LayoutNode is a positioned node: the tree node plus its rectangle.
type LayoutNode struct {
	Node *TreeNode

	X, Y, W, H float64

	// Rotation in degrees, applied around the node centre.
	Rotation float64

	IsConnector bool

	Children []*LayoutNode
}

// Bounds is the rectangle covering a layout result.
type Bounds struct {
	X, Y, W, H float64
}

// union grows the bounds to cover a rectangle.
func (b *Bounds) union(x, y, w, h float64) {
	if b.W == 0 && b.H == 0 && b.X == 0 && b.Y == 0 {
		b.X, b.Y, b.W, b.H = x, y, w, h
		return
	}
	minX := min(b.X, x)
	minY := min(b.Y, y)
	maxX := max(b.X+b.W, x+w)
	maxY := max(b.Y+b.H, y+h)
	b.X, b.Y, b.W, b.H = minX, minY, maxX-minX, maxY-minY
}

// Result is an algorithm's output: positioned nodes plus covering bounds.
type Result struct {
	Nodes  []*LayoutNode
	Bounds Bounds
}

// Context carries the layout area plus algorithm parameters and
// constraints from the diagram definition.
type Context struct {
	Width, Height float64

	// Params are algorithm parameters (direction, alignment, ...).
	Params map[string]string

	// Constraints are named numeric constraints (node sizes, spacing).
	Constraints map[string]float64
}

// GetParam reads an algorithm parameter with a default.
func GetParam(ctx Context, key, def string) string {
	if v, ok := ctx.Params[key]; ok {
		return v
	}
	return def
}

// GetConstraint reads a numeric constraint with a default.
func GetConstraint(ctx Context, key string, def float64) float64 {
	if v, ok := ctx.Constraints[key]; ok {
		return v
	}
	return def
}

// GetParamFloat reads a numeric parameter with a default.
func GetParamFloat(ctx Context, key string, def float64) float64 {
	v, ok := ctx.Params[key]
	if !ok {
		return def
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return parsed
}

// Algorithm is a pure layout function.
type Algorithm func(nodes []*TreeNode, ctx Context) Result

// registry maps algorithm keys to implementations. Built once at package
// initialization and read-only afterwards.
var registry = map[string]Algorithm{
	"lin":       LinearLayout,
	"sp":        SpaceLayout,
	"hierChild": HierarchyChildLayout,
	"hierRoot":  HierarchyRootLayout,
	"cycle":     CycleLayout,
	"snake":     SnakeLayout,
	"pyra":      PyramidLayout,
	"composite": CompositeLayout,
	"conn":      ConnectorLayout,
	"tx":        TextLayout,
}

// Lookup returns the algorithm registered for a key.
func Lookup(key string) (Algorithm, bool) {
	algo, ok := registry[key]
	return algo, ok
}

// Keys returns the registered algorithm keys.
func Keys() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}

// boundsOf computes the covering bounds of a node list, recursing into
// children.
func boundsOf(nodes []*LayoutNode) Bounds {
	var b Bounds
	first := true
	var walk func(ns []*LayoutNode)
	walk = func(ns []*LayoutNode) {
		for _, n := range ns {
			if first {
				b = Bounds{X: n.X, Y: n.Y, W: n.W, H: n.H}
				first = false
			} else {
				b.union(n.X, n.Y, n.W, n.H)
			}
			walk(n.Children)
		}
	}
	walk(nodes)
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
