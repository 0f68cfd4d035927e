// Package topology turns exchange, queue and binding collections into the
// node and edge sets drawn by the topology viewer.
package topology

import (
	"github.com/MalithGihan/topograph-service/internal/layout"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

// Strategy matches a binding endpoint reference against a node.
type Strategy struct {
	Priority int
	Name     string
	Match    func(ref string, n *types.Node) bool
}

// SourceStrategies resolve binding sources against exchange nodes.
var SourceStrategies = []Strategy{
	{Priority: 1, Name: "id", Match: matchID},
	{Priority: 2, Name: "name", Match: matchName},
	{Priority: 3, Name: "exchange-name", Match: func(ref string, n *types.Node) bool {
		return n.Exchange != nil && n.Exchange.Name == ref
	}},
}

// DestinationStrategies resolve binding destinations against queue nodes.
var DestinationStrategies = []Strategy{
	{Priority: 1, Name: "id", Match: matchID},
	{Priority: 2, Name: "name", Match: matchName},
	{Priority: 3, Name: "queue-name", Match: func(ref string, n *types.Node) bool {
		return n.Queue != nil && n.Queue.Name == ref
	}},
}

func matchID(ref string, n *types.Node) bool   { return n.ID == ref }
func matchName(ref string, n *types.Node) bool { return n.Name == ref }

// Side names the binding endpoint that failed to resolve.
type Side string

const (
	SideSource      Side = "source"
	SideDestination Side = "destination"
	SideBoth        Side = "both"
)

// Unresolved records a binding that produced no edge.
type Unresolved struct {
	Binding types.Binding `json:"binding"`
	Side    Side          `json:"side"`
}

type Graph struct {
	Nodes      []types.Node `json:"nodes"`
	Edges      []types.Edge `json:"edges"`
	Unresolved []Unresolved `json:"-"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*types.Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Counts returns the number of exchange nodes, queue nodes and edges.
func (g *Graph) Counts() (exchanges, queues, edges int) {
	for _, n := range g.Nodes {
		if n.Type == types.NodeExchange {
			exchanges++
		} else {
			queues++
		}
	}
	return exchanges, queues, len(g.Edges)
}

// Resolve builds nodes for the entity types admitted by filter and one edge
// per binding whose source and destination both resolve. Entities excluded
// by the filter get no node, so bindings that reference them are dropped.
func Resolve(exchanges []types.Exchange, queues []types.Queue, bindings []types.Binding, filter types.FilterType) Graph {
	g := Graph{
		Nodes: make([]types.Node, 0, len(exchanges)+len(queues)),
		Edges: make([]types.Edge, 0, len(bindings)),
	}

	var exNodes, qNodes []int
	if filter.Includes(types.NodeExchange) {
		for i := range exchanges {
			ex := exchanges[i]
			p := layout.ExchangePosition(i)
			exNodes = append(exNodes, len(g.Nodes))
			g.Nodes = append(g.Nodes, types.Node{
				ID: ex.ID, Type: types.NodeExchange, Name: ex.Name,
				X: p.X, Y: p.Y, Exchange: &ex,
			})
		}
	}
	if filter.Includes(types.NodeQueue) {
		for i := range queues {
			q := queues[i]
			p := layout.QueuePosition(i)
			qNodes = append(qNodes, len(g.Nodes))
			g.Nodes = append(g.Nodes, types.Node{
				ID: q.ID, Type: types.NodeQueue, Name: q.Name,
				X: p.X, Y: p.Y, Queue: &q,
			})
		}
	}

	for _, b := range bindings {
		src, srcBy := find(g.Nodes, exNodes, b.Source, SourceStrategies)
		dst, dstBy := find(g.Nodes, qNodes, b.Destination, DestinationStrategies)
		switch {
		case src == nil && dst == nil:
			g.Unresolved = append(g.Unresolved, Unresolved{Binding: b, Side: SideBoth})
			continue
		case src == nil:
			g.Unresolved = append(g.Unresolved, Unresolved{Binding: b, Side: SideSource})
			continue
		case dst == nil:
			g.Unresolved = append(g.Unresolved, Unresolved{Binding: b, Side: SideDestination})
			continue
		}
		g.Edges = append(g.Edges, types.Edge{
			ID:          b.ID,
			Source:      src.ID,
			Target:      dst.ID,
			RoutingKey:  b.RoutingKey,
			SourceMatch: srcBy,
			TargetMatch: dstBy,
		})
	}
	return g
}

// find scans candidates in declaration order and returns the first node
// that any strategy matches, along with the name of that strategy.
func find(nodes []types.Node, candidates []int, ref string, strategies []Strategy) (*types.Node, string) {
	for _, i := range candidates {
		n := &nodes[i]
		for _, s := range strategies {
			if s.Match(ref, n) {
				return n, s.Name
			}
		}
	}
	return nil, ""
}
