package reality

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/prism/pkg/types"
)

// renderDescriptor is the wire form of a space render. Field order is
// part of the format.
type renderDescriptor struct {
	SpaceID     uint64 `json:"space_id"`
	Mode        uint8  `json:"mode"`
	Dimensions  uint8  `json:"dimensions"`
	ObjectCount int    `json:"object_count"`
}

// RenderSpace writes the space's render descriptor into buf and returns
// the number of bytes written. A descriptor that does not fit returns
// ErrTruncated and writes nothing; frame count and render timestamp
// advance only on success.
func (e *Engine) RenderSpace(id uint64, buf []byte) (int, error) {
	if !e.initialized {
		return 0, types.ErrNotInitialized
	}
	sl := e.lookup(id)
	if sl == nil {
		return 0, fmt.Errorf("space %d: %w", id, types.ErrNotFound)
	}
	sp := &sl.space

	desc, err := json.Marshal(renderDescriptor{
		SpaceID:     sp.ID,
		Mode:        uint8(sp.Mode),
		Dimensions:  uint8(sp.Dimensions),
		ObjectCount: len(sp.Objects),
	})
	if err != nil {
		return 0, fmt.Errorf("encode descriptor for space %d: %w", id, err)
	}
	if len(desc) > len(buf) {
		return 0, fmt.Errorf("descriptor needs %d bytes, buffer holds %d: %w", len(desc), len(buf), types.ErrTruncated)
	}

	copy(buf, desc)
	sp.FrameCount++
	sp.LastRender = e.now().UTC()
	return len(desc), nil
}
