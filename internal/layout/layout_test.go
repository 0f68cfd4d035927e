package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MalithGihan/topograph-service/pkg/types"
)

func TestRowPositions(t *testing.T) {
	assert.Equal(t, Point{200, 120}, ExchangePosition(0))
	assert.Equal(t, Point{200, 400}, ExchangePosition(2))
	assert.Equal(t, Point{650, 100}, QueuePosition(0))
	assert.Equal(t, Point{650, 320}, QueuePosition(2))
}

func TestEdgeCurve(t *testing.T) {
	c := EdgeCurve(Point{200, 120}, Point{650, 100})

	assert.Equal(t, Point{270, 120}, c.Start)
	assert.Equal(t, Point{575, 100}, c.End)
	assert.Equal(t, Point{422.5, 120}, c.C1)
	assert.Equal(t, Point{422.5, 100}, c.C2)
	assert.Equal(t, "M 270 120 C 422.5 120, 422.5 100, 575 100", c.Path())
	assert.Equal(t, Point{422.5, 110}, c.Midpoint())
}

func TestTransformRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		p    Point
	}{
		{"identity", Transform{Zoom: 1}, Point{10, 20}},
		{"zoomed in", Transform{Zoom: 2, Pan: Point{30, -40}}, Point{200, 120}},
		{"zoomed out", Transform{Zoom: 0.5, Pan: Point{-100, 5}}, Point{650, 320}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.tr.LogicalToScreen(tt.p)
			back := tt.tr.ScreenToLogical(s)
			assert.InDelta(t, tt.p.X, back.X, 1e-9)
			assert.InDelta(t, tt.p.Y, back.Y, 1e-9)
		})
	}
}

func TestTransformSpaces(t *testing.T) {
	tr := Transform{Zoom: 2, Pan: Point{10, 20}}

	assert.Equal(t, Point{400, 240}, tr.LogicalToPan(Point{200, 120}))
	assert.Equal(t, Point{410, 260}, tr.LogicalToScreen(Point{200, 120}))
	assert.Equal(t, Point{200, 120}, tr.ScreenToLogical(Point{410, 260}))
	assert.Equal(t, "translate(10 20) scale(2)", tr.SVG())
}

func TestBounds(t *testing.T) {
	assert.Equal(t, Rect{}, Bounds(nil))

	nodes := []types.Node{
		{ID: "e1", Type: types.NodeExchange, X: 200, Y: 120},
		{ID: "q1", Type: types.NodeQueue, X: 650, Y: 100},
	}
	r := Bounds(nodes)
	assert.Equal(t, Point{130, 70}, r.Min)
	assert.Equal(t, Point{725, 160}, r.Max)
	assert.Equal(t, 595.0, r.Width())
}

func TestFormatCoord(t *testing.T) {
	assert.Equal(t, "1100100", FormatCoord(1100100))
	assert.Equal(t, "0.33", FormatCoord(1.0/3))
}
