package render

import (
	"errors"
	"fmt"

	"github.com/MalithGihan/topograph-service/pkg/types"
)

var ErrUnknownExchangeType = errors.New("render: unknown exchange type")

var exchangeColors = map[types.ExchangeType]string{
	types.ExchangeDirect:         "#3b82f6",
	types.ExchangeFanout:         "#8b5cf6",
	types.ExchangeTopic:          "#10b981",
	types.ExchangeHeaders:        "#f59e0b",
	types.ExchangeDelayedMessage: "#ec4899",
	types.ExchangeConsistentHash: "#06b6d4",
}

func ExchangeColor(t types.ExchangeType) (string, error) {
	c, ok := exchangeColors[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownExchangeType, t)
	}
	return c, nil
}

type Health string

const (
	Healthy  Health = "healthy"
	Degraded Health = "degraded"
	Critical Health = "critical"
)

func HealthOf(score int) Health {
	switch {
	case score >= 80:
		return Healthy
	case score >= 50:
		return Degraded
	default:
		return Critical
	}
}

func (h Health) Color() string {
	switch h {
	case Healthy:
		return "#22c55e"
	case Degraded:
		return "#eab308"
	default:
		return "#ef4444"
	}
}

const (
	colorEdge      = "#64748b"
	colorEdgeHot   = "#38bdf8"
	colorQueueFill = "#1e293b"
	colorStroke    = "#334155"
	colorSelected  = "#f8fafc"
	colorText      = "#e2e8f0"
	colorSubtle    = "#94a3b8"
	colorCanvas    = "#0f172a"
)
