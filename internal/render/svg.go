package render

import (
	"encoding/xml"
	"io"
	"math"
	"strings"

	"github.com/MalithGihan/topograph-service/internal/layout"
)

type svgDoc struct {
	XMLName xml.Name `xml:"svg"`
	NS      string   `xml:"xmlns,attr"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
	ViewBox string   `xml:"viewBox,attr"`
	Bg      svgRect  `xml:"rect"`
	Scene   svgGroup `xml:"g"`
}

type svgGroup struct {
	Transform string `xml:"transform,attr"`
	Elements  []any
}

type svgPath struct {
	XMLName xml.Name `xml:"path"`
	svgStyle
	D string `xml:"d,attr"`
}

type svgPolygon struct {
	XMLName xml.Name `xml:"polygon"`
	svgStyle
	Points string `xml:"points,attr"`
}

type svgRect struct {
	XMLName xml.Name `xml:"rect"`
	svgStyle
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
	Rx     string `xml:"rx,attr,omitempty"`
}

type svgText struct {
	XMLName xml.Name `xml:"text"`
	svgStyle
	X        string `xml:"x,attr"`
	Y        string `xml:"y,attr"`
	Anchor   string `xml:"text-anchor,attr,omitempty"`
	FontSize string `xml:"font-size,attr,omitempty"`
	T        string `xml:",chardata"`
}

type svgStyle struct {
	Class       string `xml:"class,attr,omitempty"`
	DataNode    string `xml:"data-node,attr,omitempty"`
	DataEdge    string `xml:"data-edge,attr,omitempty"`
	Fill        string `xml:"fill,attr,omitempty"`
	Stroke      string `xml:"stroke,attr,omitempty"`
	StrokeWidth string `xml:"stroke-width,attr,omitempty"`
	Dash        string `xml:"stroke-dasharray,attr,omitempty"`
	Opacity     string `xml:"opacity,attr,omitempty"`
}

// svgMargin is the free space kept past the lowest and rightmost glyph.
const svgMargin = 20.0

// EncodeSVG writes sc as a standalone SVG document. width and height are the
// minimum canvas; the document grows to keep every transformed glyph inside.
func EncodeSVG(w io.Writer, sc Scene, width, height float64) error {
	f := layout.FormatCoord
	width, height = canvasSize(sc, width, height)
	doc := svgDoc{
		NS:      "http://www.w3.org/2000/svg",
		Width:   f(width),
		Height:  f(height),
		ViewBox: "0 0 " + f(width) + " " + f(height),
		Bg: svgRect{
			svgStyle: svgStyle{Fill: colorCanvas},
			X:        "0",
			Y:        "0",
			Width:    "100%",
			Height:   "100%",
		},
		Scene: svgGroup{Transform: sc.Transform.SVG()},
	}
	for _, p := range sc.Primitives {
		doc.Scene.Elements = append(doc.Scene.Elements, element(p))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func canvasSize(sc Scene, width, height float64) (float64, float64) {
	if sc.Bounds == (layout.Rect{}) {
		return width, height
	}
	far := sc.Transform.LogicalToScreen(sc.Bounds.Max)
	return math.Max(width, far.X+svgMargin), math.Max(height, far.Y+svgMargin)
}

func element(p Primitive) any {
	f := layout.FormatCoord
	st := svgStyle{
		Class:    p.Role,
		DataNode: p.NodeID,
		DataEdge: p.EdgeID,
		Fill:     p.Fill,
		Stroke:   p.Stroke,
		Dash:     p.Dash,
	}
	if p.StrokeWidth > 0 {
		st.StrokeWidth = f(p.StrokeWidth)
	}
	if p.Opacity > 0 {
		st.Opacity = f(p.Opacity)
	}
	switch p.Kind {
	case KindPath:
		if st.Fill == "" {
			st.Fill = "none"
		}
		return svgPath{svgStyle: st, D: p.D}
	case KindPolygon:
		pts := make([]string, len(p.Points))
		for i, pt := range p.Points {
			pts[i] = f(pt.X) + "," + f(pt.Y)
		}
		return svgPolygon{svgStyle: st, Points: strings.Join(pts, " ")}
	case KindRect:
		r := svgRect{svgStyle: st, X: f(p.X), Y: f(p.Y), Width: f(p.Width), Height: f(p.Height)}
		if p.Radius > 0 {
			r.Rx = f(p.Radius)
		}
		return r
	default:
		t := svgText{svgStyle: st, X: f(p.X), Y: f(p.Y), Anchor: p.Anchor, T: p.Text}
		if p.FontSize > 0 {
			t.FontSize = f(p.FontSize)
		}
		return t
	}
}
