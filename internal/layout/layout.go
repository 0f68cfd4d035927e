// Package layout assigns fixed row positions to topology nodes and converts
// points between the logical, pan and screen coordinate spaces.
//
// Logical space is where nodes are laid out. Pan space is logical space
// scaled by the zoom factor. Screen space is pan space offset by the pan
// vector, which is what an SVG group with translate(pan) scale(zoom) shows.
package layout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/MalithGihan/topograph-service/pkg/types"
)

const (
	ExchangeColumnX = 200.0
	ExchangeRowTop  = 120.0
	ExchangePitch   = 140.0

	QueueColumnX = 650.0
	QueueRowTop  = 100.0
	QueuePitch   = 110.0

	// Glyph half extents. Edges leave the right tip of an exchange diamond
	// and enter the left side of a queue rectangle.
	ExchangeHalfWidth  = 70.0
	ExchangeHalfHeight = 40.0
	QueueHalfWidth     = 75.0
	QueueHalfHeight    = 30.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func ExchangePosition(index int) Point {
	return Point{X: ExchangeColumnX, Y: ExchangeRowTop + ExchangePitch*float64(index)}
}

func QueuePosition(index int) Point {
	return Point{X: QueueColumnX, Y: QueueRowTop + QueuePitch*float64(index)}
}

// Curve is a cubic Bezier S-curve between two glyphs.
type Curve struct {
	Start, C1, C2, End Point
}

// EdgeCurve builds the curve from an exchange at src to a queue at dst.
// Both control points sit on the horizontal midpoint.
func EdgeCurve(src, dst Point) Curve {
	start := Point{src.X + ExchangeHalfWidth, src.Y}
	end := Point{dst.X - QueueHalfWidth, dst.Y}
	mid := (start.X + end.X) / 2
	return Curve{
		Start: start,
		C1:    Point{mid, start.Y},
		C2:    Point{mid, end.Y},
		End:   end,
	}
}

// Path renders the curve as SVG path data.
func (c Curve) Path() string {
	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		FormatCoord(c.Start.X), FormatCoord(c.Start.Y),
		FormatCoord(c.C1.X), FormatCoord(c.C1.Y),
		FormatCoord(c.C2.X), FormatCoord(c.C2.Y),
		FormatCoord(c.End.X), FormatCoord(c.End.Y))
}

// Midpoint is the curve point at t=0.5.
func (c Curve) Midpoint() Point {
	return Point{
		X: (c.Start.X + 3*c.C1.X + 3*c.C2.X + c.End.X) / 8,
		Y: (c.Start.Y + 3*c.C1.Y + 3*c.C2.Y + c.End.Y) / 8,
	}
}

// Transform maps logical space onto the screen.
type Transform struct {
	Zoom float64
	Pan  Point
}

func (t Transform) LogicalToPan(p Point) Point {
	return Point{p.X * t.Zoom, p.Y * t.Zoom}
}

func (t Transform) PanToLogical(p Point) Point {
	if t.Zoom == 0 {
		return p
	}
	return Point{p.X / t.Zoom, p.Y / t.Zoom}
}

func (t Transform) LogicalToScreen(p Point) Point {
	return t.LogicalToPan(p).Add(t.Pan)
}

func (t Transform) ScreenToLogical(p Point) Point {
	return t.PanToLogical(p.Sub(t.Pan))
}

// SVG returns the transform attribute for the scene group.
func (t Transform) SVG() string {
	return fmt.Sprintf("translate(%s %s) scale(%s)", FormatCoord(t.Pan.X), FormatCoord(t.Pan.Y), FormatCoord(t.Zoom))
}

// Rect is an axis-aligned box in logical space.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Bounds returns the box covering every node glyph. An empty node list
// yields the zero Rect.
func Bounds(nodes []types.Node) Rect {
	if len(nodes) == 0 {
		return Rect{}
	}
	r := Rect{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
	for _, n := range nodes {
		hw, hh := HalfExtents(n.Type)
		r.Min.X = math.Min(r.Min.X, n.X-hw)
		r.Min.Y = math.Min(r.Min.Y, n.Y-hh)
		r.Max.X = math.Max(r.Max.X, n.X+hw)
		r.Max.Y = math.Max(r.Max.Y, n.Y+hh)
	}
	return r
}

func HalfExtents(t types.NodeType) (float64, float64) {
	if t == types.NodeExchange {
		return ExchangeHalfWidth, ExchangeHalfHeight
	}
	return QueueHalfWidth, QueueHalfHeight
}

// FormatCoord prints a coordinate rounded to two decimals.
func FormatCoord(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
