package types

type ExchangeType string // direct|fanout|topic|headers|x-delayed-message|x-consistent-hash

const (
	ExchangeDirect         ExchangeType = "direct"
	ExchangeFanout         ExchangeType = "fanout"
	ExchangeTopic          ExchangeType = "topic"
	ExchangeHeaders        ExchangeType = "headers"
	ExchangeDelayedMessage ExchangeType = "x-delayed-message"
	ExchangeConsistentHash ExchangeType = "x-consistent-hash"
)

// ExchangeTypes lists the closed set of exchange types in display order.
var ExchangeTypes = []ExchangeType{
	ExchangeDirect, ExchangeFanout, ExchangeTopic,
	ExchangeHeaders, ExchangeDelayedMessage, ExchangeConsistentHash,
}

func (t ExchangeType) Valid() bool {
	for _, v := range ExchangeTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Exchange struct {
	ID   string       `json:"id" yaml:"id"`
	Name string       `json:"name" yaml:"name"`
	Type ExchangeType `json:"type" yaml:"type"`
}

type Queue struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Type          string `json:"type" yaml:"type"`
	MessagesTotal int    `json:"messagesTotal" yaml:"messagesTotal"`
	Consumers     int    `json:"consumers" yaml:"consumers"`
	HealthScore   int    `json:"healthScore" yaml:"healthScore"`
}

// Binding endpoints hold either an entity id or a display name.
type Binding struct {
	ID          string `json:"id" yaml:"id"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	RoutingKey  string `json:"routingKey" yaml:"routingKey"`
}

// Topology is the document form of the three entity collections.
type Topology struct {
	Exchanges []Exchange `json:"exchanges" yaml:"exchanges"`
	Queues    []Queue    `json:"queues" yaml:"queues"`
	Bindings  []Binding  `json:"bindings" yaml:"bindings"`
	Revision  int        `json:"revision,omitempty" yaml:"-"`
}

type NodeType string // exchange|queue

const (
	NodeExchange NodeType = "exchange"
	NodeQueue    NodeType = "queue"
)

// Node is derived per render; exactly one of Exchange or Queue is set.
type Node struct {
	ID       string    `json:"id"`
	Type     NodeType  `json:"type"`
	Name     string    `json:"name"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Exchange *Exchange `json:"exchange,omitempty"`
	Queue    *Queue    `json:"queue,omitempty"`
}

type Edge struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	RoutingKey  string `json:"routingKey"`
	SourceMatch string `json:"sourceMatch,omitempty"`
	TargetMatch string `json:"targetMatch,omitempty"`
}

type FilterType string // all|exchange|queue

const (
	FilterAll      FilterType = "all"
	FilterExchange FilterType = "exchange"
	FilterQueue    FilterType = "queue"
)

func (f FilterType) Valid() bool {
	switch f {
	case FilterAll, FilterExchange, FilterQueue:
		return true
	}
	return false
}

func (f FilterType) Includes(t NodeType) bool {
	switch f {
	case FilterExchange:
		return t == NodeExchange
	case FilterQueue:
		return t == NodeQueue
	}
	return true
}
