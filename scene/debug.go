package scene

import (
	"encoding/json"
	"os"

	"github.com/ByLCY/glyphbox/graphics"
)

// Snapshot 是场景的调试视图：场景本身加上每个图元的布局树。
type Snapshot struct {
	*Scene
	Boxes []graphics.DebugNode `json:"boxes"`
}

// Snapshot captures the current layout of every item.
func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{Scene: s, Boxes: make([]graphics.DebugNode, 0, len(s.Items))}
	for _, item := range s.Items {
		snap.Boxes = append(snap.Boxes, graphics.Describe(item.Box))
	}
	return snap
}

// WriteDebugJSON 将场景布局输出为 JSON，便于调试或可视化。
func WriteDebugJSON(s *Scene, path string) error {
	if s == nil {
		return nil
	}
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
