// Package store keeps topology documents on the local filesystem, one
// directory per topology.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/MalithGihan/topograph-service/pkg/types"
)

var (
	ErrNotFound  = errors.New("store: topology not found")
	ErrInvalidID = errors.New("store: invalid topology id")
)

const docFile = "topology.json"

var reID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

type FS struct {
	Root string
	mu   sync.Mutex
}

func New(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FS{Root: root}, nil
}

func (s *FS) Dir(id string) string       { return filepath.Join(s.Root, id) }
func (s *FS) UploadDir(id string) string { return filepath.Join(s.Dir(id), "uploads") }

func checkID(id string) error {
	if !reID.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Create stores t under a new random id.
func (s *FS) Create(t types.Topology) (string, types.Topology, error) {
	id := uuid.NewString()
	saved, err := s.Put(id, t)
	return id, saved, err
}

// Put writes t under id, replacing any previous document, and returns it
// with its new revision.
func (s *FS) Put(id string, t types.Topology) (types.Topology, error) {
	if err := checkID(id); err != nil {
		return types.Topology{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.read(id)
	switch {
	case err == nil:
		t.Revision = prev.Revision + 1
	case errors.Is(err, ErrNotFound):
		t.Revision = 1
	default:
		return types.Topology{}, err
	}

	if err := os.MkdirAll(s.UploadDir(id), 0o755); err != nil {
		return types.Topology{}, err
	}
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return types.Topology{}, err
	}
	tmp, err := os.CreateTemp(s.Dir(id), docFile+".*")
	if err != nil {
		return types.Topology{}, err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return types.Topology{}, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return types.Topology{}, err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir(id), docFile)); err != nil {
		os.Remove(tmp.Name())
		return types.Topology{}, err
	}
	return t, nil
}

func (s *FS) Get(id string) (types.Topology, error) {
	if err := checkID(id); err != nil {
		return types.Topology{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

func (s *FS) read(id string) (types.Topology, error) {
	b, err := os.ReadFile(filepath.Join(s.Dir(id), docFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.Topology{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return types.Topology{}, err
	}
	var t types.Topology
	if err := json.Unmarshal(b, &t); err != nil {
		return types.Topology{}, fmt.Errorf("decode %s: %w", id, err)
	}
	return t, nil
}

// List returns the ids of all stored topologies in lexical order.
func (s *FS) List() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.Root, e.Name(), docFile)); err == nil {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FS) Delete(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(filepath.Join(s.Dir(id), docFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	return os.RemoveAll(s.Dir(id))
}
