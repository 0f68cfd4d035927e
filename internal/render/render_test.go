package render

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalithGihan/topograph-service/internal/ingest"
	"github.com/MalithGihan/topograph-service/internal/layout"
	"github.com/MalithGihan/topograph-service/internal/topology"
	"github.com/MalithGihan/topograph-service/internal/view"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

func sampleGraph() topology.Graph {
	return topology.Resolve(
		[]types.Exchange{
			{ID: "e1", Name: "orders", Type: types.ExchangeDirect},
			{ID: "e2", Name: "notifications.broadcast", Type: types.ExchangeFanout},
		},
		[]types.Queue{
			{ID: "q1", Name: "orders.q", MessagesTotal: 10, Consumers: 1, HealthScore: 90},
			{ID: "q2", Name: "notifications.email", MessagesTotal: 400, Consumers: 0, HealthScore: 30},
		},
		[]types.Binding{
			{ID: "b1", Source: "orders", Destination: "orders.q", RoutingKey: "order.created"},
			{ID: "b2", Source: "e2", Destination: "q2", RoutingKey: "notify.email.v2"},
		},
		types.FilterAll,
	)
}

func byRole(sc Scene, role string) []Primitive {
	var out []Primitive
	for _, p := range sc.Primitives {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

func TestHealthThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  Health
	}{
		{100, Healthy}, {80, Healthy}, {79, Degraded}, {50, Degraded}, {49, Critical}, {0, Critical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HealthOf(tt.score), "score %d", tt.score)
	}
	assert.Equal(t, "#22c55e", Healthy.Color())
	assert.Equal(t, "#eab308", Degraded.Color())
	assert.Equal(t, "#ef4444", Critical.Color())
}

func TestExchangeColors(t *testing.T) {
	seen := map[string]bool{}
	for _, typ := range types.ExchangeTypes {
		c, err := ExchangeColor(typ)
		require.NoError(t, err)
		seen[c] = true
	}
	assert.Len(t, seen, 6)

	_, err := ExchangeColor("x-random")
	assert.ErrorIs(t, err, ErrUnknownExchangeType)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "orders", Truncate("orders", MaxNameLen))
	assert.Equal(t, "exactly14chars", Truncate("exactly14chars", MaxNameLen))
	assert.Equal(t, "notifications....", Truncate("notifications.broadcast", MaxNameLen))
	assert.Equal(t, "notify.email...", Truncate("notify.email.v2", MaxRoutingKeyLen))
	assert.Equal(t, strings.Repeat("ä", 12)+"...", Truncate(strings.Repeat("ä", 15), MaxRoutingKeyLen))
}

func TestProjectShapes(t *testing.T) {
	g := sampleGraph()
	sc, err := Project(g, view.DefaultState())
	require.NoError(t, err)

	diamonds := byRole(sc, "exchange")
	require.Len(t, diamonds, 2)
	assert.Equal(t, KindPolygon, diamonds[0].Kind)
	assert.Equal(t, []layout.Point{{X: 200, Y: 80}, {X: 270, Y: 120}, {X: 200, Y: 160}, {X: 130, Y: 120}}, diamonds[0].Points)
	assert.Equal(t, "#3b82f6", diamonds[0].Fill)
	assert.Equal(t, "#8b5cf6", diamonds[1].Fill)

	queues := byRole(sc, "queue")
	require.Len(t, queues, 2)
	assert.Equal(t, KindRect, queues[0].Kind)
	assert.Equal(t, 575.0, queues[0].X)
	assert.Equal(t, 70.0, queues[0].Y)
	assert.Equal(t, 150.0, queues[0].Width)

	bars := byRole(sc, "health")
	require.Len(t, bars, 2)
	assert.Equal(t, Healthy.Color(), bars[0].Fill)
	assert.Equal(t, Critical.Color(), bars[1].Fill)

	edges := byRole(sc, "edge")
	require.Len(t, edges, 2)
	assert.Equal(t, "6 4", edges[0].Dash)
	assert.Equal(t, "M 270 120 C 422.5 120, 422.5 100, 575 100", edges[0].D)
	assert.Empty(t, byRole(sc, "edge-glow"))

	// Edges are drawn below nodes.
	assert.Equal(t, KindPath, sc.Primitives[0].Kind)
}

func TestProjectLabels(t *testing.T) {
	g := sampleGraph()

	sc, err := Project(g, view.DefaultState())
	require.NoError(t, err)
	labels := byRole(sc, "node-label")
	require.Len(t, labels, 4)
	assert.Equal(t, "orders", labels[0].Text)
	assert.Equal(t, "notifications....", labels[1].Text)
	keys := byRole(sc, "edge-label")
	require.Len(t, keys, 2)
	assert.Equal(t, "order.create...", keys[0].Text)
	captions := byRole(sc, "node-caption")
	assert.Contains(t, captions[2].Text, "10 msgs")

	st := view.DefaultState()
	st.ShowLabels = false
	sc, err = Project(g, st)
	require.NoError(t, err)
	for _, p := range sc.Primitives {
		assert.NotEqual(t, KindText, p.Kind, p.Role)
	}
	// Underlying data is not touched.
	assert.Equal(t, "notifications.broadcast", g.Nodes[1].Name)
}

func TestProjectSelectionHighlightsEdges(t *testing.T) {
	g := sampleGraph()
	st := view.DefaultState()
	st.SelectedNodeID = "q1"

	sc, err := Project(g, st)
	require.NoError(t, err)

	glow := byRole(sc, "edge-glow")
	require.Len(t, glow, 1)
	assert.Equal(t, "b1", glow[0].EdgeID)

	for _, e := range byRole(sc, "edge") {
		if e.EdgeID == "b1" {
			assert.Empty(t, e.Dash)
			assert.Equal(t, 3.0, e.StrokeWidth)
		} else {
			assert.Equal(t, "6 4", e.Dash)
		}
	}
	for _, q := range byRole(sc, "queue") {
		if q.NodeID == "q1" {
			assert.Equal(t, colorSelected, q.Stroke)
		}
	}
}

func TestProjectSelectionOfHiddenNodeIsInert(t *testing.T) {
	ex := []types.Exchange{{ID: "e1", Name: "orders", Type: types.ExchangeDirect}}
	qs := []types.Queue{{ID: "q1", Name: "orders.q", HealthScore: 90}}
	g := topology.Resolve(ex, qs, nil, types.FilterExchange)
	st := view.DefaultState()
	st.SelectedNodeID = "q1"

	sc, err := Project(g, st)
	require.NoError(t, err)
	assert.Empty(t, byRole(sc, "edge-glow"))
	assert.Len(t, byRole(sc, "exchange"), 1)
}

func TestProjectUnknownExchangeType(t *testing.T) {
	g := topology.Resolve([]types.Exchange{{ID: "e1", Name: "x", Type: "x-mystery"}}, nil, nil, types.FilterAll)

	_, err := Project(g, view.DefaultState())
	assert.ErrorIs(t, err, ErrUnknownExchangeType)
}

func TestHitTest(t *testing.T) {
	g := sampleGraph()

	tests := []struct {
		name string
		p    layout.Point
		want string
		ok   bool
	}{
		{"diamond centre", layout.Point{X: 200, Y: 120}, "e1", true},
		{"diamond tip", layout.Point{X: 269, Y: 120}, "e1", true},
		{"diamond corner miss", layout.Point{X: 260, Y: 150}, "", false},
		{"queue body", layout.Point{X: 700, Y: 120}, "q1", true},
		{"second queue", layout.Point{X: 600, Y: 210}, "q2", true},
		{"canvas", layout.Point{X: 10, Y: 10}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := HitTest(g.Nodes, tt.p)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestEncodeSVG(t *testing.T) {
	st := view.DefaultState()
	st.Zoom = 1.2
	st.Pan = layout.Point{X: 15, Y: -5}
	st.SelectedNodeID = "e1"
	sc, err := Project(sampleGraph(), st)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeSVG(&buf, sc, 1000, 600))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `viewBox="0 0 1000 600"`)
	assert.Contains(t, out, `transform="translate(15 -5) scale(1.2)"`)
	assert.Contains(t, out, `<polygon class="exchange" data-node="e1"`)
	assert.Contains(t, out, `points="200,80 270,120 200,160 130,120"`)
	assert.Contains(t, out, `rx="8"`)
	assert.Contains(t, out, `stroke-dasharray="6 4"`)
	assert.Contains(t, out, `class="edge-glow"`)
	assert.Contains(t, out, `>order.create...</text>`)

	// Output must be well-formed.
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestEncodeSVGGrowsToFitGraph(t *testing.T) {
	doc := ingest.Sample()
	ingest.Normalize(&doc)
	g := topology.Resolve(doc.Exchanges, doc.Queues, doc.Bindings, types.FilterAll)

	tests := []struct {
		name    string
		zoom    float64
		pan     layout.Point
		viewBox string
	}{
		// The queue column ends at x 725 and q-reports at y 900.
		{"default view", 1, layout.Point{}, `viewBox="0 0 1000 920"`},
		{"zoomed and panned", 2, layout.Point{X: 40, Y: 10}, `viewBox="0 0 1510 1830"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := view.DefaultState()
			st.Zoom, st.Pan = tt.zoom, tt.pan
			sc, err := Project(g, st)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, EncodeSVG(&buf, sc, 1000, 800))
			assert.Contains(t, buf.String(), tt.viewBox)
			assert.Equal(t, layout.Point{X: 725, Y: 900}, sc.Bounds.Max)
		})
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeSVG(&buf, Scene{Transform: view.DefaultState().Transform()}, 640, 480))
	assert.Contains(t, buf.String(), `viewBox="0 0 640 480"`)
}
