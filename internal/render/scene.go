// Package render projects a resolved topology graph and a view state onto
// drawable vector primitives, and encodes them as SVG.
package render

import (
	"fmt"

	"github.com/MalithGihan/topograph-service/internal/layout"
	"github.com/MalithGihan/topograph-service/internal/topology"
	"github.com/MalithGihan/topograph-service/internal/view"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

const (
	MaxNameLen       = 14
	MaxRoutingKeyLen = 12

	queueCorner    = 8.0
	healthBarWidth = 6.0
)

type Kind string

const (
	KindPath    Kind = "path"
	KindPolygon Kind = "polygon"
	KindRect    Kind = "rect"
	KindText    Kind = "text"
)

// Primitive is one drawable shape in logical coordinates. Only the fields
// relevant to Kind are set.
type Primitive struct {
	Kind        Kind           `json:"kind"`
	Role        string         `json:"role"`
	NodeID      string         `json:"nodeId,omitempty"`
	EdgeID      string         `json:"edgeId,omitempty"`
	D           string         `json:"d,omitempty"`
	Points      []layout.Point `json:"points,omitempty"`
	X           float64        `json:"x,omitempty"`
	Y           float64        `json:"y,omitempty"`
	Width       float64        `json:"width,omitempty"`
	Height      float64        `json:"height,omitempty"`
	Radius      float64        `json:"radius,omitempty"`
	Text        string         `json:"text,omitempty"`
	Anchor      string         `json:"anchor,omitempty"`
	FontSize    float64        `json:"fontSize,omitempty"`
	Fill        string         `json:"fill,omitempty"`
	Stroke      string         `json:"stroke,omitempty"`
	StrokeWidth float64        `json:"strokeWidth,omitempty"`
	Dash        string         `json:"dash,omitempty"`
	Opacity     float64        `json:"opacity,omitempty"`
}

type Scene struct {
	Transform  layout.Transform `json:"transform"`
	Bounds     layout.Rect      `json:"bounds"`
	Primitives []Primitive      `json:"primitives"`
}

// Project draws edges first so nodes sit on top. Labels are left out
// entirely when the state hides them.
func Project(g topology.Graph, s view.State) (Scene, error) {
	sc := Scene{
		Transform:  s.Transform(),
		Bounds:     layout.Bounds(g.Nodes),
		Primitives: make([]Primitive, 0, 3*len(g.Edges)+4*len(g.Nodes)),
	}

	for _, e := range g.Edges {
		src, ok1 := g.Node(e.Source)
		dst, ok2 := g.Node(e.Target)
		if !ok1 || !ok2 {
			continue
		}
		sc.Primitives = append(sc.Primitives, edge(e, src, dst, s)...)
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		var (
			ps  []Primitive
			err error
		)
		switch n.Type {
		case types.NodeExchange:
			ps, err = exchangeNode(n, s)
		case types.NodeQueue:
			ps = queueNode(n, s)
		default:
			err = fmt.Errorf("render: node %q has unknown type %q", n.ID, n.Type)
		}
		if err != nil {
			return Scene{}, err
		}
		sc.Primitives = append(sc.Primitives, ps...)
	}
	return sc, nil
}

func edge(e types.Edge, src, dst *types.Node, s view.State) []Primitive {
	curve := layout.EdgeCurve(layout.Point{X: src.X, Y: src.Y}, layout.Point{X: dst.X, Y: dst.Y})
	d := curve.Path()
	hot := s.SelectedNodeID != "" && (s.SelectedNodeID == e.Source || s.SelectedNodeID == e.Target)

	var out []Primitive
	if hot {
		out = append(out, Primitive{
			Kind: KindPath, Role: "edge-glow", EdgeID: e.ID, D: d,
			Stroke: colorEdgeHot, StrokeWidth: 8, Opacity: 0.3,
		})
		out = append(out, Primitive{
			Kind: KindPath, Role: "edge", EdgeID: e.ID, D: d,
			Stroke: colorEdgeHot, StrokeWidth: 3,
		})
	} else {
		out = append(out, Primitive{
			Kind: KindPath, Role: "edge", EdgeID: e.ID, D: d,
			Stroke: colorEdge, StrokeWidth: 1.5, Dash: "6 4",
		})
	}
	if s.ShowLabels && e.RoutingKey != "" {
		mid := curve.Midpoint()
		out = append(out, Primitive{
			Kind: KindText, Role: "edge-label", EdgeID: e.ID,
			X: mid.X, Y: mid.Y - 6, Anchor: "middle", FontSize: 10,
			Text: Truncate(e.RoutingKey, MaxRoutingKeyLen), Fill: colorSubtle,
		})
	}
	return out
}

func exchangeNode(n *types.Node, s view.State) ([]Primitive, error) {
	typ := types.ExchangeType("")
	if n.Exchange != nil {
		typ = n.Exchange.Type
	}
	fill, err := ExchangeColor(typ)
	if err != nil {
		return nil, fmt.Errorf("exchange %q: %w", n.ID, err)
	}
	hw, hh := layout.ExchangeHalfWidth, layout.ExchangeHalfHeight
	body := Primitive{
		Kind: KindPolygon, Role: "exchange", NodeID: n.ID,
		Points: []layout.Point{
			{X: n.X, Y: n.Y - hh},
			{X: n.X + hw, Y: n.Y},
			{X: n.X, Y: n.Y + hh},
			{X: n.X - hw, Y: n.Y},
		},
		Fill: fill, Stroke: colorStroke, StrokeWidth: 1.5,
	}
	if s.SelectedNodeID == n.ID {
		body.Stroke, body.StrokeWidth = colorSelected, 3
	}
	out := []Primitive{body}
	if s.ShowLabels {
		out = append(out,
			Primitive{
				Kind: KindText, Role: "node-label", NodeID: n.ID,
				X: n.X, Y: n.Y + 4, Anchor: "middle", FontSize: 12,
				Text: Truncate(n.Name, MaxNameLen), Fill: colorText,
			},
			Primitive{
				Kind: KindText, Role: "node-caption", NodeID: n.ID,
				X: n.X, Y: n.Y + hh + 14, Anchor: "middle", FontSize: 10,
				Text: string(typ), Fill: colorSubtle,
			},
		)
	}
	return out, nil
}

func queueNode(n *types.Node, s view.State) []Primitive {
	var q types.Queue
	if n.Queue != nil {
		q = *n.Queue
	}
	hw, hh := layout.QueueHalfWidth, layout.QueueHalfHeight
	body := Primitive{
		Kind: KindRect, Role: "queue", NodeID: n.ID,
		X: n.X - hw, Y: n.Y - hh, Width: 2 * hw, Height: 2 * hh, Radius: queueCorner,
		Fill: colorQueueFill, Stroke: colorStroke, StrokeWidth: 1.5,
	}
	if s.SelectedNodeID == n.ID {
		body.Stroke, body.StrokeWidth = colorSelected, 3
	}
	bar := Primitive{
		Kind: KindRect, Role: "health", NodeID: n.ID,
		X: n.X - hw, Y: n.Y - hh, Width: healthBarWidth, Height: 2 * hh, Radius: 2,
		Fill: HealthOf(q.HealthScore).Color(),
	}
	out := []Primitive{body, bar}
	if s.ShowLabels {
		left := n.X - hw + healthBarWidth + 8
		out = append(out,
			Primitive{
				Kind: KindText, Role: "node-label", NodeID: n.ID,
				X: left, Y: n.Y - 5, Anchor: "start", FontSize: 12,
				Text: Truncate(n.Name, MaxNameLen), Fill: colorText,
			},
			Primitive{
				Kind: KindText, Role: "node-caption", NodeID: n.ID,
				X: left, Y: n.Y + 14, Anchor: "start", FontSize: 10,
				Text: fmt.Sprintf("%d msgs · %d cons", q.MessagesTotal, q.Consumers), Fill: colorSubtle,
			},
		)
	}
	return out
}

// Truncate shortens s to max runes followed by an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
