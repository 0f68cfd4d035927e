// Package view holds the transient pan, zoom, selection and filter state of
// a topology viewer and the transitions user actions apply to it.
package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/MalithGihan/topograph-service/internal/layout"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

const (
	MinZoom     = 0.5
	MaxZoom     = 2.0
	ZoomStep    = 0.2
	DefaultZoom = 1.0
)

var (
	ErrInvalidFilter = errors.New("view: invalid filter type")
	ErrUnknownAction = errors.New("view: unknown action")
	ErrMissingNodeID = errors.New("view: select action needs a node id")
)

// State is the view record. An empty SelectedNodeID means no selection.
type State struct {
	Zoom           float64          `json:"zoom"`
	Pan            layout.Point     `json:"pan"`
	SelectedNodeID string           `json:"selectedNodeId"`
	ShowLabels     bool             `json:"showLabels"`
	FilterType     types.FilterType `json:"filterType"`
	IsDragging     bool             `json:"isDragging"`
	DragStart      layout.Point     `json:"dragStart"`
}

func DefaultState() State {
	return State{
		Zoom:       DefaultZoom,
		ShowLabels: true,
		FilterType: types.FilterAll,
	}
}

// Transform returns the logical-to-screen mapping for this state.
func (s State) Transform() layout.Transform {
	return layout.Transform{Zoom: s.Zoom, Pan: s.Pan}
}

// HitTester finds the node under a logical point among the nodes visible
// for the given filter.
type HitTester func(filter types.FilterType, p layout.Point) (string, bool)

// Controller owns one State. It is not safe for concurrent use.
type Controller struct {
	state    State
	onChange func(State)
	hitTest  HitTester
}

type Option func(*Controller)

// WithOnChange registers an observer called after every transition that
// changed the state.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithHitTester sets the lookup used by Click.
func WithHitTester(fn HitTester) Option {
	return func(c *Controller) { c.hitTest = fn }
}

func NewController(opts ...Option) *Controller {
	c := &Controller{state: DefaultState()}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) State() State { return c.state }

func (c *Controller) update(fn func(s *State)) {
	prev := c.state
	fn(&c.state)
	if c.onChange != nil && c.state != prev {
		c.onChange(c.state)
	}
}

func (c *Controller) ZoomIn() {
	c.update(func(s *State) { s.Zoom = math.Min(roundZoom(s.Zoom+ZoomStep), MaxZoom) })
}

func (c *Controller) ZoomOut() {
	c.update(func(s *State) { s.Zoom = math.Max(roundZoom(s.Zoom-ZoomStep), MinZoom) })
}

func (c *Controller) ResetView() {
	c.update(func(s *State) {
		s.Zoom = DefaultZoom
		s.Pan = layout.Point{}
	})
}

func (c *Controller) StartDrag(pointer layout.Point) {
	c.update(func(s *State) {
		s.IsDragging = true
		s.DragStart = pointer.Sub(s.Pan)
	})
}

// ContinueDrag is ignored unless a drag is in progress.
func (c *Controller) ContinueDrag(pointer layout.Point) {
	c.update(func(s *State) {
		if s.IsDragging {
			s.Pan = pointer.Sub(s.DragStart)
		}
	})
}

func (c *Controller) EndDrag() {
	c.update(func(s *State) { s.IsDragging = false })
}

// SelectNode selects id, or clears the selection if id is already selected.
func (c *Controller) SelectNode(id string) {
	c.update(func(s *State) {
		if s.SelectedNodeID == id {
			s.SelectedNodeID = ""
		} else {
			s.SelectedNodeID = id
		}
	})
}

func (c *Controller) ToggleLabels() {
	c.update(func(s *State) { s.ShowLabels = !s.ShowLabels })
}

// SetFilterType replaces the filter. The selection is kept even if the
// selected node is no longer visible.
func (c *Controller) SetFilterType(f types.FilterType) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, f)
	}
	c.update(func(s *State) { s.FilterType = f })
	return nil
}

// Click selects the node under a screen point. A click on empty canvas
// leaves the state untouched. It reports whether a node was hit.
func (c *Controller) Click(screen layout.Point) bool {
	if c.hitTest == nil {
		return false
	}
	p := c.state.Transform().ScreenToLogical(screen)
	id, ok := c.hitTest(c.state.FilterType, p)
	if !ok {
		return false
	}
	c.SelectNode(id)
	return true
}

// roundZoom keeps repeated steps on the 0.01 grid.
func roundZoom(z float64) float64 {
	return math.Round(z*100) / 100
}
