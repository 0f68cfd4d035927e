package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MalithGihan/topograph-service/internal/ingest"
	"github.com/MalithGihan/topograph-service/internal/logging"
	"github.com/MalithGihan/topograph-service/internal/render"
	"github.com/MalithGihan/topograph-service/internal/session"
	"github.com/MalithGihan/topograph-service/internal/store"
	"github.com/MalithGihan/topograph-service/internal/validate"
	"github.com/MalithGihan/topograph-service/internal/view"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

const maxUpload = 64 << 20

type upload struct {
	name string
	data []byte
}

func (s *Server) listTopologies(w http.ResponseWriter, _ *http.Request) {
	ids, err := s.store.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topologies": ids})
}

func (s *Server) createTopology(w http.ResponseWriter, r *http.Request) {
	doc, notes, files, err := readTopology(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, saved, err := s.store.Create(doc)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := saveUploads(s.store.UploadDir(id), files); err != nil {
		logging.Warn("server", "keeping uploads for %s: %v", id, err)
	}
	logging.Info("server", "stored topology %s: %d exchanges, %d queues, %d bindings",
		id, len(saved.Exchanges), len(saved.Queues), len(saved.Bindings))
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok": true, "topologyId": id, "revision": saved.Revision, "notes": nonNil(notes),
	})
}

func (s *Server) getTopology(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) replaceTopology(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Get(id); err != nil {
		writeError(w, err)
		return
	}
	doc, notes, _, err := readTopology(r)
	if err != nil {
		writeError(w, err)
		return
	}
	saved, err := s.store.Put(id, doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true, "topologyId": id, "revision": saved.Revision, "notes": nonNil(notes),
	})
}

func (s *Server) deleteTopology(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	n := s.sessions.DropTopology(id)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "closedSessions": n})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	filter := types.FilterAll
	if v := r.URL.Query().Get("filter"); v != "" {
		filter = types.FilterType(v)
	}
	if !filter.Valid() {
		writeError(w, fmt.Errorf("%w: %q", view.ErrInvalidFilter, filter))
		return
	}
	doc, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	g := s.sessions.Resolve(doc, filter)
	writeJSON(w, http.StatusOK, map[string]any{
		"filterType": filter, "revision": doc.Revision, "nodes": g.Nodes, "edges": g.Edges,
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"sessionId": sess.ID, "topologyId": sess.TopologyID, "state": sess.State(),
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": sess.ID, "topologyId": sess.TopologyID, "state": sess.State(),
	})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) applyAction(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	var a view.Action
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&a); err != nil {
		writeError(w, badRequest(fmt.Errorf("decode action: %w", err)))
		return
	}
	st, err := sess.Apply(a)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st})
}

func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	sc, err := sess.Scene()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) getSceneSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	width, height := s.cfg.Canvas.Width, s.cfg.Canvas.Height
	if v, err := strconv.ParseFloat(r.URL.Query().Get("width"), 64); err == nil && v > 0 {
		width = v
	}
	if v, err := strconv.ParseFloat(r.URL.Query().Get("height"), 64); err == nil && v > 0 {
		height = v
	}
	sc, err := sess.Scene()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.EncodeSVG(w, sc, width, height); err != nil {
		logging.Error("server", err, "encode svg for session %s", sess.ID)
	}
}

// readTopology accepts either multipart "files" or a raw document body,
// merges everything it can parse and validates the result.
func readTopology(r *http.Request) (types.Topology, []string, []upload, error) {
	var files []upload
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return types.Topology{}, nil, nil, badRequest(err)
		}
		for _, fh := range r.MultipartForm.File["files"] {
			f, err := fh.Open()
			if err != nil {
				return types.Topology{}, nil, nil, err
			}
			b, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return types.Topology{}, nil, nil, err
			}
			files = append(files, upload{name: filepath.Base(fh.Filename), data: b})
		}
		if len(files) == 0 {
			return types.Topology{}, nil, nil, badRequest(errors.New(`no "files" in upload`))
		}
	} else {
		b, err := io.ReadAll(io.LimitReader(r.Body, maxUpload))
		if err != nil {
			return types.Topology{}, nil, nil, err
		}
		files = append(files, upload{name: bodyName(r, mt), data: b})
	}

	var parsed []ingest.ParsedFile
	for _, f := range files {
		p, err := ingest.Parse(f.name, f.data)
		if err != nil {
			return types.Topology{}, nil, nil, badRequest(err)
		}
		parsed = append(parsed, p)
	}
	doc, notes := ingest.BuildCollections(parsed)
	if err := validate.Topology(doc); err != nil {
		return types.Topology{}, notes, nil, err
	}
	return doc, notes, files, nil
}

func bodyName(r *http.Request, mediaType string) string {
	if n := r.URL.Query().Get("name"); n != "" {
		return filepath.Base(n)
	}
	switch {
	case strings.Contains(mediaType, "yaml"):
		return "body.yaml"
	case mediaType == "text/plain":
		return "body.topo"
	default:
		return "body.json"
	}
}

func saveUploads(dir string, files []upload) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	seen := make(map[string]bool, len(files))
	for i, f := range files {
		name := uploadName(i, f.name, seen)
		if err := os.WriteFile(filepath.Join(dir, name), f.data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// uploadName gives each saved part a distinct base name. Repeated names get
// the part's 1-based index as a prefix.
func uploadName(i int, name string, seen map[string]bool) string {
	base := filepath.Base(name)
	switch base {
	case ".", "..", string(filepath.Separator):
		base = "upload"
	}
	for seen[base] {
		base = strconv.Itoa(i+1) + "-" + base
	}
	seen[base] = true
	return base
}

type requestError struct{ err error }

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error { return &requestError{err: err} }

func statusOf(err error) int {
	var re *requestError
	var ve *validate.Error
	switch {
	case errors.As(err, &re), errors.As(err, &ve),
		errors.Is(err, store.ErrInvalidID),
		errors.Is(err, view.ErrInvalidFilter),
		errors.Is(err, view.ErrUnknownAction),
		errors.Is(err, view.ErrMissingNodeID):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrTooManySessions):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	body := map[string]any{"error": err.Error()}
	var ve *validate.Error
	if errors.As(err, &ve) {
		body["problems"] = ve.Problems
	}
	if status == http.StatusInternalServerError {
		logging.Error("server", err, "request failed")
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("server", err, "encode response")
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
