package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MalithGihan/topograph-service/pkg/types"
)

const (
	FormatJSON        = "json"
	FormatYAML        = "yaml"
	FormatDefinitions = "definitions"
	FormatTopo        = "topo"
	FormatUnknown     = "unknown"
)

// DetectType picks a parser from the file name, sniffing JSON content to
// tell broker definition exports apart from native documents.
func DetectType(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".json":
		if strings.Contains(strings.ToLower(filepath.Base(name)), "definitions") || looksLikeDefinitions(data) {
			return FormatDefinitions
		}
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".topo":
		return FormatTopo
	default:
		return FormatUnknown
	}
}

func looksLikeDefinitions(data []byte) bool {
	var probe struct {
		RabbitVersion string            `json:"rabbit_version"`
		Vhosts        []json.RawMessage `json:"vhosts"`
		Bindings      []struct {
			DestinationType string `json:"destination_type"`
		} `json:"bindings"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	if probe.RabbitVersion != "" || len(probe.Vhosts) > 0 {
		return true
	}
	for _, b := range probe.Bindings {
		if b.DestinationType != "" {
			return true
		}
	}
	return false
}

type ParsedFile struct {
	Name     string
	Format   string
	Topology types.Topology
	Notes    []string
}

// Parse decodes one file. Unknown formats are not an error; they yield an
// empty result with a note.
func Parse(name string, data []byte) (ParsedFile, error) {
	format := DetectType(name, data)
	var (
		p   ParsedFile
		err error
	)
	switch format {
	case FormatJSON:
		p, err = ParseJSON(name, data)
	case FormatYAML:
		p, err = ParseYAML(name, data)
	case FormatDefinitions:
		p, err = ParseDefinitions(name, data)
	case FormatTopo:
		p = ParseTopo(name, data)
	default:
		p = ParsedFile{Name: name, Notes: []string{name + ": unsupported file type, skipped"}}
	}
	if err != nil {
		return ParsedFile{Name: name, Format: format}, fmt.Errorf("ingest %s: %w", name, err)
	}
	p.Format = format
	return p, nil
}

func ParseFile(path string) (ParsedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ParsedFile{Name: path}, err
	}
	return Parse(filepath.Base(path), b)
}

// BuildCollections merges parsed files in order into one normalized
// topology.
func BuildCollections(files []ParsedFile) (types.Topology, []string) {
	var t types.Topology
	var notes []string
	for _, f := range files {
		t.Exchanges = append(t.Exchanges, f.Topology.Exchanges...)
		t.Queues = append(t.Queues, f.Topology.Queues...)
		t.Bindings = append(t.Bindings, f.Topology.Bindings...)
		notes = append(notes, f.Notes...)
	}
	Normalize(&t)
	return t, notes
}
