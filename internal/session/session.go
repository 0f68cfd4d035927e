// Package session keeps one view controller per mounted topology viewer.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/MalithGihan/topograph-service/internal/layout"
	"github.com/MalithGihan/topograph-service/internal/logging"
	"github.com/MalithGihan/topograph-service/internal/metrics"
	"github.com/MalithGihan/topograph-service/internal/render"
	"github.com/MalithGihan/topograph-service/internal/topology"
	"github.com/MalithGihan/topograph-service/internal/view"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

var (
	ErrNotFound        = errors.New("session: not found")
	ErrTooManySessions = errors.New("session: too many sessions")
)

// Source supplies entity collections. store.FS satisfies it.
type Source interface {
	Get(id string) (types.Topology, error)
}

type Manager struct {
	src     Source
	max     int
	metrics *metrics.Collector

	mu       sync.Mutex
	sessions map[string]*Session
}

type Option func(*Manager)

// WithMaxSessions caps concurrently mounted sessions; 0 means no cap.
func WithMaxSessions(n int) Option { return func(m *Manager) { m.max = n } }

func WithMetrics(c *metrics.Collector) Option { return func(m *Manager) { m.metrics = c } }

func NewManager(src Source, opts ...Option) *Manager {
	m := &Manager{src: src, sessions: map[string]*Session{}}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Resolve runs the topology resolver and records dropped bindings in the
// debug log and metrics.
func (m *Manager) Resolve(doc types.Topology, filter types.FilterType) topology.Graph {
	g := topology.Resolve(doc.Exchanges, doc.Queues, doc.Bindings, filter)
	bySide := map[string]int{}
	for _, u := range g.Unresolved {
		bySide[string(u.Side)]++
		logging.Debug("topology", "binding %s dropped: %s %q -> %q unresolved",
			u.Binding.ID, u.Side, u.Binding.Source, u.Binding.Destination)
	}
	if m.metrics != nil {
		m.metrics.ObserveResolve(string(filter), bySide)
	}
	return g
}

// Create mounts a viewer on an existing topology.
func (m *Manager) Create(topologyID string) (*Session, error) {
	if _, err := m.src.Get(topologyID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.max > 0 && len(m.sessions) >= m.max {
		return nil, ErrTooManySessions
	}
	s := &Session{ID: uuid.NewString(), TopologyID: topologyID, mgr: m}
	s.ctrl = view.NewController(view.WithHitTester(s.hitTest))
	m.sessions[s.ID] = s
	m.gauge()
	logging.Debug("session", "mounted %s on topology %s", s.ID, topologyID)
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Delete unmounts a session and discards its view state.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.sessions, id)
	m.gauge()
	return nil
}

// DropTopology unmounts every session viewing topologyID.
func (m *Manager) DropTopology(topologyID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.TopologyID == topologyID {
			delete(m.sessions, id)
			n++
		}
	}
	m.gauge()
	return n
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) gauge() {
	if m.metrics != nil {
		m.metrics.ActiveSessions.Set(float64(len(m.sessions)))
	}
}

type cacheKey struct {
	revision int
	filter   types.FilterType
}

// Session serialises access to its controller; requests for the same
// session are applied one at a time.
type Session struct {
	ID         string
	TopologyID string

	mgr   *Manager
	mu    sync.Mutex
	ctrl  *view.Controller
	key   cacheKey
	graph *topology.Graph
}

func (s *Session) State() view.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.State()
}

func (s *Session) Apply(a view.Action) (view.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctrl.Apply(a); err != nil {
		return s.ctrl.State(), err
	}
	if s.mgr.metrics != nil {
		s.mgr.metrics.ViewActions.WithLabelValues(string(a.Type)).Inc()
	}
	return s.ctrl.State(), nil
}

// Graph returns the resolved graph for the current filter.
func (s *Session) Graph() (topology.Graph, view.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ctrl.State()
	g, err := s.graphLocked(st.FilterType)
	if err != nil {
		return topology.Graph{}, st, err
	}
	return *g, st, nil
}

// Scene projects the current graph and view state.
func (s *Session) Scene() (render.Scene, error) {
	g, st, err := s.Graph()
	if err != nil {
		return render.Scene{}, err
	}
	return render.Project(g, st)
}

// graphLocked caches on the document revision and filter, never on the
// rest of the view state.
func (s *Session) graphLocked(filter types.FilterType) (*topology.Graph, error) {
	doc, err := s.mgr.src.Get(s.TopologyID)
	if err != nil {
		return nil, err
	}
	key := cacheKey{revision: doc.Revision, filter: filter}
	if s.graph != nil && s.key == key {
		return s.graph, nil
	}
	g := s.mgr.Resolve(doc, filter)
	s.graph, s.key = &g, key
	return s.graph, nil
}

// hitTest runs inside Apply with s.mu held.
func (s *Session) hitTest(filter types.FilterType, p layout.Point) (string, bool) {
	g, err := s.graphLocked(filter)
	if err != nil {
		logging.Warn("session", "hit test on %s: %v", s.ID, err)
		return "", false
	}
	return render.HitTest(g.Nodes, p)
}
