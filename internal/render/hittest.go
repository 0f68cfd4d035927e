package render

import (
	"math"

	"github.com/MalithGihan/topograph-service/internal/layout"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

// HitTest returns the id of the node whose glyph contains p, a point in
// logical space. Nodes later in the slice are drawn on top and win.
func HitTest(nodes []types.Node, p layout.Point) (string, bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		dx, dy := math.Abs(p.X-n.X), math.Abs(p.Y-n.Y)
		switch n.Type {
		case types.NodeExchange:
			if dx/layout.ExchangeHalfWidth+dy/layout.ExchangeHalfHeight <= 1 {
				return n.ID, true
			}
		case types.NodeQueue:
			if dx <= layout.QueueHalfWidth && dy <= layout.QueueHalfHeight {
				return n.ID, true
			}
		}
	}
	return "", false
}
