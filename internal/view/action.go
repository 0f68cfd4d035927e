package view

import (
	"fmt"

	"github.com/MalithGihan/topograph-service/internal/layout"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

type ActionType string

const (
	ActionZoomIn       ActionType = "zoomIn"
	ActionZoomOut      ActionType = "zoomOut"
	ActionResetView    ActionType = "resetView"
	ActionDragStart    ActionType = "dragStart"
	ActionDragMove     ActionType = "dragMove"
	ActionDragEnd      ActionType = "dragEnd"
	ActionSelect       ActionType = "select"
	ActionToggleLabels ActionType = "toggleLabels"
	ActionSetFilter    ActionType = "setFilter"
	ActionClick        ActionType = "click"
)

// Action is the wire form of a user action. X and Y are screen coordinates
// for pointer actions.
type Action struct {
	Type       ActionType       `json:"type"`
	X          float64          `json:"x,omitempty"`
	Y          float64          `json:"y,omitempty"`
	NodeID     string           `json:"nodeId,omitempty"`
	FilterType types.FilterType `json:"filterType,omitempty"`
}

func (a Action) point() layout.Point { return layout.Point{X: a.X, Y: a.Y} }

// Apply dispatches a to the matching transition.
func (c *Controller) Apply(a Action) error {
	switch a.Type {
	case ActionZoomIn:
		c.ZoomIn()
	case ActionZoomOut:
		c.ZoomOut()
	case ActionResetView:
		c.ResetView()
	case ActionDragStart:
		c.StartDrag(a.point())
	case ActionDragMove:
		c.ContinueDrag(a.point())
	case ActionDragEnd:
		c.EndDrag()
	case ActionSelect:
		if a.NodeID == "" {
			return ErrMissingNodeID
		}
		c.SelectNode(a.NodeID)
	case ActionToggleLabels:
		c.ToggleLabels()
	case ActionSetFilter:
		return c.SetFilterType(a.FilterType)
	case ActionClick:
		c.Click(a.point())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	return nil
}
