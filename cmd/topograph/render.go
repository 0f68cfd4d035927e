package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/topograph-service/internal/config"
	"github.com/MalithGihan/topograph-service/internal/layout"
	"github.com/MalithGihan/topograph-service/internal/render"
	"github.com/MalithGihan/topograph-service/internal/topology"
	"github.com/MalithGihan/topograph-service/internal/validate"
	"github.com/MalithGihan/topograph-service/internal/view"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

type renderOptions struct {
	filter    string
	zoomSteps int
	selectID  string
	noLabels  bool
	panX      float64
	panY      float64
	width     float64
	height    float64
	out       string
}

func renderCmd() *cobra.Command {
	def := config.Default()
	opts := renderOptions{filter: string(types.FilterAll), width: def.Canvas.Width, height: def.Canvas.Height}
	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render topology documents to SVG",
		Long:  "Render merges the given documents (native JSON/YAML, .topo, broker definitions) and writes an SVG. With no files the built-in sample is drawn.",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadTopology(args)
			if err != nil {
				return err
			}
			if err := validate.Topology(doc); err != nil {
				return err
			}
			if opts.out == "" || opts.out == "-" {
				return renderTo(cmd.OutOrStdout(), doc, opts)
			}
			f, err := os.Create(opts.out)
			if err != nil {
				return err
			}
			return closeAfter(f, func(w io.Writer) error { return renderTo(w, doc, opts) })
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.filter, "filter", opts.filter, "node filter: all, exchange or queue")
	f.IntVar(&opts.zoomSteps, "zoom-steps", 0, "zoom steps to apply, negative zooms out")
	f.StringVar(&opts.selectID, "select", "", "node id to select")
	f.BoolVar(&opts.noLabels, "no-labels", false, "hide labels")
	f.Float64Var(&opts.panX, "pan-x", 0, "horizontal pan in screen pixels")
	f.Float64Var(&opts.panY, "pan-y", 0, "vertical pan in screen pixels")
	f.Float64Var(&opts.width, "width", opts.width, "canvas width")
	f.Float64Var(&opts.height, "height", opts.height, "canvas height")
	f.StringVarP(&opts.out, "output", "o", "", "output file (default stdout)")
	return cmd
}

// renderTo drives a controller through the same transitions a viewer would
// and encodes the resulting scene.
func renderTo(w io.Writer, doc types.Topology, opts renderOptions) error {
	ctrl := view.NewController()
	if err := ctrl.SetFilterType(types.FilterType(opts.filter)); err != nil {
		return err
	}
	for i := 0; i < opts.zoomSteps; i++ {
		ctrl.ZoomIn()
	}
	for i := 0; i > opts.zoomSteps; i-- {
		ctrl.ZoomOut()
	}
	if opts.panX != 0 || opts.panY != 0 {
		ctrl.StartDrag(layout.Point{})
		ctrl.ContinueDrag(layout.Point{X: opts.panX, Y: opts.panY})
		ctrl.EndDrag()
	}
	if opts.selectID != "" {
		ctrl.SelectNode(opts.selectID)
	}
	if opts.noLabels {
		ctrl.ToggleLabels()
	}

	st := ctrl.State()
	g := topology.Resolve(doc.Exchanges, doc.Queues, doc.Bindings, st.FilterType)
	sc, err := render.Project(g, st)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return render.EncodeSVG(w, sc, opts.width, opts.height)
}

// closeAfter runs write against wc and closes it, reporting a close error
// when the write itself succeeded.
func closeAfter(wc io.WriteCloser, write func(io.Writer) error) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return write(wc)
}
