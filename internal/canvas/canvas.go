// Package canvas describes the document an icon is placed into.
package canvas

import (
	"github.com/lucasb-eyer/go-colorful"
)

const PaintSolid = "SOLID"

// Paint is one entry of a node's fill or stroke list.
type Paint struct {
	Type    string
	Color   colorful.Color
	Opacity float64
	Visible bool
}

func SolidPaint(color colorful.Color) Paint {
	return Paint{Type: PaintSolid, Color: color, Opacity: 1, Visible: true}
}

type Constraints struct {
	Horizontal string
	Vertical   string
}

// Properties is the visual and layout state carried over when a node is
// replaced by another rendering of the same icon.
type Properties struct {
	Visible           bool
	Locked            bool
	Opacity           float64
	BlendMode         string
	Rotation          float64
	LayoutAlign       string
	LayoutGrow        float64
	LayoutPositioning string
	Constraints       Constraints
}

func DefaultProperties() Properties {
	return Properties{
		Visible:           true,
		Opacity:           1,
		BlendMode:         "PASS_THROUGH",
		LayoutAlign:       "INHERIT",
		LayoutPositioning: "AUTO",
		Constraints:       Constraints{Horizontal: "MIN", Vertical: "MIN"},
	}
}

type Node interface {
	ID() string
	Name() string
	SetName(name string)

	X() float64
	Y() float64
	Width() float64
	Height() float64
	SetPosition(x, y float64)
	// Rescale resizes the node and its descendants proportionally.
	Rescale(factor float64)

	Fills() []Paint
	SetFills(paints []Paint)
	Strokes() []Paint
	SetStrokes(paints []Paint)

	Properties() Properties
	SetProperties(props Properties)

	PluginData(key string) string
	SetPluginData(key, value string)

	Children() []Node
	Parent() Container
	Remove()
}

type Container interface {
	Children() []Node
	AppendChild(node Node)
	InsertChild(index int, node Node)
}

type Document interface {
	CreateNodeFromSVG(markup string) (Node, error)
	CurrentPage() Container
	Selection() []Node
	SetSelection(nodes []Node)
	ViewportCenter() (x, y float64)
	Notify(message string)
}

// Center returns the centre point of a node.
func Center(node Node) (x, y float64) {
	return node.X() + node.Width()/2, node.Y() + node.Height()/2
}

// CenterAt moves a node so its centre lands on (x, y).
func CenterAt(node Node, x, y float64) {
	node.SetPosition(x-node.Width()/2, y-node.Height()/2)
}

// NominalSize is the larger side of a node rounded to whole pixels.
func NominalSize(node Node) int {
	size := node.Width()
	if node.Height() > size {
		size = node.Height()
	}
	return int(size + 0.5)
}

// ResizeTo scales a node so its larger side equals size.
func ResizeTo(node Node, size int) {
	current := node.Width()
	if node.Height() > current {
		current = node.Height()
	}
	if size <= 0 || current <= 0 {
		return
	}
	node.Rescale(float64(size) / current)
}

// IndexOf returns the position of node among its parent's children, or -1.
func IndexOf(node Node) int {
	parent := node.Parent()
	if parent == nil {
		return -1
	}
	for i, child := range parent.Children() {
		if child.ID() == node.ID() {
			return i
		}
	}
	return -1
}

// ApplyTint recolours every solid fill and stroke of node and its descendants.
func ApplyTint(node Node, color colorful.Color) {
	node.SetFills(tintPaints(node.Fills(), color))
	node.SetStrokes(tintPaints(node.Strokes(), color))
	for _, child := range node.Children() {
		ApplyTint(child, color)
	}
}

func tintPaints(paints []Paint, color colorful.Color) []Paint {
	if len(paints) == 0 {
		return paints
	}
	out := make([]Paint, len(paints))
	for i, paint := range paints {
		if paint.Type == PaintSolid {
			paint.Color = color
		}
		out[i] = paint
	}
	return out
}
