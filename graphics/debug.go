package graphics

import (
	"math"

	"github.com/ByLCY/glyphbox/geom"
)

const (
	rectDebugColor = "red"
	bboxDebugColor = "blue"
)

// paintRect outlines an oriented rectangle.
func paintRect(ctx Context, r geom.Rect) {
	c := r.Corners()
	strokePolygon(ctx, rectDebugColor, c[:])
}

// paintBBox outlines an axis-aligned box.
func paintBBox(ctx Context, b geom.BBox) {
	c := b.Rect().Corners()
	strokePolygon(ctx, bboxDebugColor, c[:])
}

func strokePolygon(ctx Context, color string, pts []geom.Point) {
	if len(pts) == 0 {
		return
	}
	ctx.Save()
	defer ctx.Restore()
	ctx.SetStrokeStyle(color)
	ctx.SetLineWidth(1)
	ctx.BeginPath()
	// 对齐到整像素
	ctx.MoveTo(math.Round(pts[0].X), math.Round(pts[0].Y))
	for _, p := range pts[1:] {
		ctx.LineTo(math.Round(p.X), math.Round(p.Y))
	}
	ctx.ClosePath()
	ctx.Stroke()
}

// DebugNode 是单个 box 的布局快照，用于调试输出。
type DebugNode struct {
	Kind       string      `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Metric     string      `json:"metric,omitempty"`
	Angle      float64     `json:"angle,omitempty"`
	Position   Position    `json:"position"`
	Dimensions Size        `json:"dimensions"`
	Size       Size        `json:"size"`
	BBox       geom.BBox   `json:"bbox"`
	Padding    Offset      `json:"padding"`
	Loaded     bool        `json:"loaded"`
	Children   []DebugNode `json:"children,omitempty"`
}

type parent interface {
	Children() []Box
}

// Describe snapshots b and, recursively, the boxes it owns.
func Describe(b Box) DebugNode {
	node := DebugNode{
		Kind:       kindOf(b),
		Text:       contentOf(b),
		Metric:     b.InferTextHeight().String(),
		Angle:      b.Angle(),
		Position:   b.Position(),
		Dimensions: b.Dimensions(),
		Size:       b.Size(),
		BBox:       b.BBox(),
		Padding:    b.ComputePadding(),
		Loaded:     b.HasLoaded(),
	}
	if p, ok := b.(parent); ok {
		for _, child := range p.Children() {
			node.Children = append(node.Children, Describe(child))
		}
	}
	return node
}

func kindOf(b Box) string {
	switch b.(type) {
	case *TextBox:
		return "text"
	case *BaseExpo:
		return "expo"
	case *Container:
		return "container"
	case *FormulaBox:
		return "formula"
	default:
		return "box"
	}
}
