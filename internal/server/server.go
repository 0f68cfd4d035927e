// Package server exposes topologies, their resolved graphs and viewer
// sessions over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MalithGihan/topograph-service/internal/config"
	"github.com/MalithGihan/topograph-service/internal/ingest"
	"github.com/MalithGihan/topograph-service/internal/logging"
	"github.com/MalithGihan/topograph-service/internal/metrics"
	"github.com/MalithGihan/topograph-service/internal/session"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

const SampleID = "sample"

// Store is the external entity store. store.FS implements it.
type Store interface {
	Create(t types.Topology) (string, types.Topology, error)
	Put(id string, t types.Topology) (types.Topology, error)
	Get(id string) (types.Topology, error)
	List() ([]string, error)
	Delete(id string) error
	UploadDir(id string) string
}

type Server struct {
	cfg      *config.Config
	store    Store
	sessions *session.Manager
	metrics  *metrics.Collector
	router   chi.Router
}

func New(cfg *config.Config, st Store, mc *metrics.Collector) *Server {
	s := &Server{
		cfg:   cfg,
		store: st,
		sessions: session.NewManager(st,
			session.WithMaxSessions(cfg.Session.MaxSessions),
			session.WithMetrics(mc)),
		metrics: mc,
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "topograph-service"})
	})
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/topologies", func(r chi.Router) {
		r.Get("/", s.listTopologies)
		r.Post("/", s.createTopology)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getTopology)
			r.Put("/", s.replaceTopology)
			r.Delete("/", s.deleteTopology)
			r.Get("/graph", s.getGraph)
			r.Post("/sessions", s.createSession)
		})
	})
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Get("/", s.getSession)
		r.Delete("/", s.deleteSession)
		r.Post("/actions", s.applyAction)
		r.Get("/scene", s.getScene)
		r.Get("/scene.svg", s.getSceneSVG)
	})
	return r
}

// SeedSample stores the demo topology when the store is empty.
func SeedSample(st Store) error {
	ids, err := st.List()
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		return nil
	}
	t := ingest.Sample()
	ingest.Normalize(&t)
	if _, err := st.Put(SampleID, t); err != nil {
		return err
	}
	logging.Info("server", "seeded sample topology %q", SampleID)
	return nil
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Info("server", "topograph-service listening on :%s", s.cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		s.metrics.ObserveHTTP(r.Method, route, status, d)
		logging.Debug("http", "%s %s %d %s request_id=%s",
			r.Method, r.URL.Path, status, d.Round(time.Microsecond), middleware.GetReqID(r.Context()))
	})
}
