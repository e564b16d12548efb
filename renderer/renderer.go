package renderer

import "github.com/ByLCY/glyphbox/scene"

// Renderer 将已定位的场景输出为最终文件，例如 PDF 或 PNG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(s *scene.Scene) ([]byte, error)
}
