package diagram

import (
	"math"
	"strconv"
)

// LinearLayout lays nodes out in a row or column. Direction is one of
// fromL, fromR, fromT, fromB; total primary size is
// n*nodeSize + (n-1)*spacing, and the start position adjusts for the
// alignment pair.
func LinearLayout(nodes []*TreeNode, ctx Context) Result {
	n := len(nodes)
	if n == 0 {
		return Result{}
	}

	dir := GetParam(ctx, "linDir", "fromL")
	horizontal := dir == "fromL" || dir == "fromR"

	var w, h float64
	spacing := GetConstraint(ctx, "sp", 0)
	if horizontal {
		w = GetConstraint(ctx, "w", (ctx.Width-spacing*float64(n-1))/float64(n))
		h = GetConstraint(ctx, "h", ctx.Height)
	} else {
		w = GetConstraint(ctx, "w", ctx.Width)
		h = GetConstraint(ctx, "h", (ctx.Height-spacing*float64(n-1))/float64(n))
	}

	primarySize := func(size float64) float64 {
		return size*float64(n) + spacing*float64(n-1)
	}

	// Start position from the alignment pair.
	horzAlign := GetParam(ctx, "horzAlign", "ctr")
	vertAlign := GetParam(ctx, "vertAlign", "mid")

	startX := alignOffset(horzAlign, ctx.Width, primaryIf(horizontal, primarySize(w), w))
	startY := alignOffsetVert(vertAlign, ctx.Height, primaryIf(!horizontal, primarySize(h), h))

	var out []*LayoutNode
	for i, node := range nodes {
		idx := i
		if dir == "fromR" || dir == "fromB" {
			idx = n - 1 - i
		}
		ln := &LayoutNode{Node: node, W: w, H: h}
		if horizontal {
			ln.X = startX + float64(idx)*(w+spacing)
			ln.Y = startY
		} else {
			ln.X = startX
			ln.Y = startY + float64(idx)*(h+spacing)
		}
		out = append(out, ln)
	}
	return Result{Nodes: out, Bounds: boundsOf(out)}
}

func primaryIf(cond bool, primary, other float64) float64 {
	if cond {
		return primary
	}
	return other
}

func alignOffset(align string, total, used float64) float64 {
	switch align {
	case "l":
		return 0
	case "r":
		return total - used
	default: // ctr
		return (total - used) / 2
	}
}

func alignOffsetVert(align string, total, used float64) float64 {
	switch align {
	case "t":
		return 0
	case "b":
		return total - used
	default: // mid
		return (total - used) / 2
	}
}

// CycleLayout places nodes on a circle. The start angle defaults to 0°
// measured from the top (the vector (0,-1)), spanning 360° by default.
// ctrShpMap=fNode puts the first node at the centre; rotPath=alongPath
// rotates each node tangent to the circle.
func CycleLayout(nodes []*TreeNode, ctx Context) Result {
	n := len(nodes)
	if n == 0 {
		return Result{}
	}

	startAngle := GetParamFloat(ctx, "stAng", 0)
	span := GetParamFloat(ctx, "spanAng", 360)
	centerFirst := GetParam(ctx, "ctrShpMap", "none") == "fNode"
	alongPath := GetParam(ctx, "rotPath", "none") == "alongPath"

	ringNodes := nodes
	var out []*LayoutNode

	w := GetConstraint(ctx, "w", math.Min(ctx.Width, ctx.Height)/4)
	h := GetConstraint(ctx, "h", w)

	cx := ctx.Width / 2
	cy := ctx.Height / 2
	radius := math.Min(ctx.Width-w, ctx.Height-h) / 2

	if centerFirst {
		out = append(out, &LayoutNode{
			Node: nodes[0],
			X:    cx - w/2, Y: cy - h/2, W: w, H: h,
		})
		ringNodes = nodes[1:]
	}

	ringCount := len(ringNodes)
	if ringCount > 0 {
		step := span / float64(ringCount)
		fullTurn := math.Mod(math.Abs(span), 360) == 0
		if !fullTurn && ringCount > 1 {
			step = span / float64(ringCount-1)
		}
		for i, node := range ringNodes {
			angle := startAngle + step*float64(i)
			// Angles measure clockwise from the up vector (0,-1).
			rad := angle * math.Pi / 180
			x := cx + radius*math.Sin(rad) - w/2
			y := cy - radius*math.Cos(rad) - h/2
			ln := &LayoutNode{Node: node, X: x, Y: y, W: w, H: h}
			if alongPath {
				ln.Rotation = angle
			}
			out = append(out, ln)
		}
	}

	return Result{Nodes: out, Bounds: boundsOf(out)}
}

// SnakeLayout flows nodes in rows (or columns) that wrap, with the
// grow-direction corner choosing where flow starts. contDir=revDir
// reverses every other row; bkpt controls the wrap point and defaults to
// endCnv (wrap when the canvas edge is reached).
func SnakeLayout(nodes []*TreeNode, ctx Context) Result {
	n := len(nodes)
	if n == 0 {
		return Result{}
	}

	grDir := GetParam(ctx, "grDir", "tL")
	contDir := GetParam(ctx, "contDir", "sameDir")
	bkpt := GetParam(ctx, "bkpt", "endCnv")

	spacing := GetConstraint(ctx, "sp", 0)
	w := GetConstraint(ctx, "w", ctx.Width/4)
	h := GetConstraint(ctx, "h", ctx.Height/4)

	// Wrap point: fixed count with bkpt=bal (balanced grid), canvas-edge
	// otherwise.
	perRow := int((ctx.Width + spacing) / (w + spacing))
	if perRow < 1 {
		perRow = 1
	}
	if bkpt == "bal" {
		perRow = int(math.Ceil(math.Sqrt(float64(n))))
	}

	var out []*LayoutNode
	for i, node := range nodes {
		row := i / perRow
		col := i % perRow
		if contDir == "revDir" && row%2 == 1 {
			rowLen := perRow
			if (row+1)*perRow > n {
				rowLen = n - row*perRow
			}
			col = rowLen - 1 - col
		}

		x := float64(col) * (w + spacing)
		y := float64(row) * (h + spacing)

		// Grow-direction corner mirrors the flow.
		if grDir == "tR" || grDir == "bR" {
			x = ctx.Width - w - x
		}
		if grDir == "bL" || grDir == "bR" {
			y = ctx.Height - h - y
		}

		out = append(out, &LayoutNode{Node: node, X: x, Y: y, W: w, H: h})
	}
	return Result{Nodes: out, Bounds: boundsOf(out)}
}

// PyramidLayout stacks nodes into a pyramid; each level's width
// interpolates from baseWidth at the top to the full bounds width at the
// bottom: width = baseWidth + (W - baseWidth)/(n-1) * levelIndex.
func PyramidLayout(nodes []*TreeNode, ctx Context) Result {
	n := len(nodes)
	if n == 0 {
		return Result{}
	}

	baseWidth := GetConstraint(ctx, "pyraAcctRatio", 0.4) * ctx.Width
	levelHeight := ctx.Height / float64(n)

	var out []*LayoutNode
	for i, node := range nodes {
		width := baseWidth
		if n > 1 {
			width = baseWidth + (ctx.Width-baseWidth)/float64(n-1)*float64(i)
		}
		out = append(out, &LayoutNode{
			Node: node,
			X:    (ctx.Width - width) / 2,
			Y:    float64(i) * levelHeight,
			W:    width,
			H:    levelHeight,
		})
	}
	return Result{Nodes: out, Bounds: boundsOf(out)}
}

// HierarchyRootLayout lays out a hierarchy from its roots: each root is
// centred over the span of its child subtree, recursing in the
// perpendicular direction.
func HierarchyRootLayout(nodes []*TreeNode, ctx Context) Result {
	if len(nodes) == 0 {
		return Result{}
	}

	w := GetConstraint(ctx, "w", ctx.Width/6)
	h := GetConstraint(ctx, "h", ctx.Height/6)
	hSpacing := GetConstraint(ctx, "sibSp", w/4)
	vSpacing := GetConstraint(ctx, "secSibSp", h/2)

	var layoutSubtree func(node *TreeNode, x, y float64) (*LayoutNode, float64)
	layoutSubtree = func(node *TreeNode, x, y float64) (*LayoutNode, float64) {
		ln := &LayoutNode{Node: node, W: w, H: h, Y: y}

		if len(node.Children) == 0 {
			ln.X = x
			return ln, w
		}

		childX := x
		childY := y + h + vSpacing
		var span float64
		for i, child := range node.Children {
			if i > 0 {
				childX += hSpacing
				span += hSpacing
			}
			sub, subSpan := layoutSubtree(child, childX, childY)
			ln.Children = append(ln.Children, sub)
			childX += subSpan
			span += subSpan
		}

		// Centre the node over the horizontal span of its children.
		ln.X = x + (span-w)/2
		return ln, span
	}

	var out []*LayoutNode
	x := 0.0
	for i, root := range nodes {
		if i > 0 {
			x += hSpacing
		}
		sub, span := layoutSubtree(root, x, 0)
		out = append(out, sub)
		x += span
	}
	return Result{Nodes: out, Bounds: boundsOf(out)}
}

// HierarchyChildLayout hangs children below a hierarchy node in a single
// column, the "hanging" child arrangement.
func HierarchyChildLayout(nodes []*TreeNode, ctx Context) Result {
	n := len(nodes)
	if n == 0 {
		return Result{}
	}

	w := GetConstraint(ctx, "w", ctx.Width/2)
	h := GetConstraint(ctx, "h", ctx.Height/math.Max(1, float64(n)))
	spacing := GetConstraint(ctx, "sp", h/4)
	indent := GetConstraint(ctx, "indent", w/8)

	var out []*LayoutNode
	y := 0.0
	for _, node := range nodes {
		out = append(out, &LayoutNode{Node: node, X: indent, Y: y, W: w, H: h})
		y += h + spacing
	}
	return Result{Nodes: out, Bounds: boundsOf(out)}
}

// CompositeLayout positions each node by its own explicit constraints
// (x, y, w, h), the escape hatch composite diagrams use.
func CompositeLayout(nodes []*TreeNode, ctx Context) Result {
	var out []*LayoutNode
	for _, node := range nodes {
		ln := &LayoutNode{Node: node, W: ctx.Width, H: ctx.Height}
		if node.PropertySet != nil {
			ln.X = propFloat(node.PropertySet, "x", 0)
			ln.Y = propFloat(node.PropertySet, "y", 0)
			ln.W = propFloat(node.PropertySet, "w", ctx.Width)
			ln.H = propFloat(node.PropertySet, "h", ctx.Height)
		}
		out = append(out, ln)
	}
	return Result{Nodes: out, Bounds: boundsOf(out)}
}

// ConnectorLayout emits connector nodes between consecutive siblings.
func ConnectorLayout(nodes []*TreeNode, ctx Context) Result {
	w := GetConstraint(ctx, "w", ctx.Width/10)
	h := GetConstraint(ctx, "h", ctx.Height/10)

	var out []*LayoutNode
	for i, node := range nodes {
		out = append(out, &LayoutNode{
			Node:        node,
			X:           float64(i) * w,
			Y:           (ctx.Height - h) / 2,
			W:           w,
			H:           h,
			IsConnector: true,
		})
	}
	return Result{Nodes: out, Bounds: boundsOf(out)}
}

// SpaceLayout reserves empty space: it produces no nodes.
func SpaceLayout(nodes []*TreeNode, ctx Context) Result {
	return Result{}
}

// TextLayout fills the whole area with a single text node.
func TextLayout(nodes []*TreeNode, ctx Context) Result {
	if len(nodes) == 0 {
		return Result{}
	}
	out := []*LayoutNode{{Node: nodes[0], W: ctx.Width, H: ctx.Height}}
	return Result{Nodes: out, Bounds: boundsOf(out)}
}

func propFloat(props map[string]string, key string, def float64) float64 {
	v, ok := props[key]
	if !ok {
		return def
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return parsed
}
