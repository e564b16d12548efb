package graphics

// Context is the 2D drawing surface boxes paint onto. It follows the HTML
// canvas model: y grows downward, angles are radians and turn clockwise,
// styles are css strings, and Save/Restore cover both transform and styles.
// A nil Context is a precondition violation.
type Context interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Stroke()

	FillText(text string, x, y float64)

	SetFillStyle(style string)
	SetStrokeStyle(style string)
	SetLineWidth(width float64)
	SetFont(font string)
	SetTextAlign(align string)       // left / center / right
	SetTextBaseline(baseline string) // alphabetic / top / middle / bottom
}

// rotateAbout 以 (sx, sy) 为中心旋转后续绘制。angle 为 0 时不做任何变换。
func rotateAbout(ctx Context, sx, sy, angle float64) {
	if angle == 0 {
		return
	}
	ctx.Translate(sx, sy)
	ctx.Rotate(angle)
	ctx.Translate(-sx, -sy)
}
