package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MalithGihan/topograph-service/pkg/types"
)

const schemaURL = "https://topograph.local/schema/topology.schema.json"

//go:embed schema/topology.schema.json
var schemaJSON []byte

var (
	once    sync.Once
	schema  *jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		loadErr = err
		return
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		loadErr = err
		return
	}
	schema = s
}

// Error lists every contract violation found in a document.
type Error struct {
	Problems []string `json:"problems"`
}

func (e *Error) Error() string {
	return "invalid topology: " + strings.Join(e.Problems, "; ")
}

// Topology checks t against the document schema and for duplicate ids
// within each collection.
func Topology(t types.Topology) error {
	once.Do(load)
	if loadErr != nil {
		return fmt.Errorf("load schema: %w", loadErr)
	}

	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	var problems []string
	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		problems = append(problems, leaves(ve)...)
	}
	problems = append(problems, duplicates(t)...)
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return &Error{Problems: problems}
}

func leaves(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{loc + ": " + ve.Message}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

func duplicates(t types.Topology) []string {
	var out []string
	check := func(kind string, ids []string) {
		seen := map[string]bool{}
		for _, id := range ids {
			if id != "" && seen[id] {
				out = append(out, fmt.Sprintf("duplicate %s id %q", kind, id))
			}
			seen[id] = true
		}
	}
	ids := make([]string, 0, len(t.Exchanges))
	for _, e := range t.Exchanges {
		ids = append(ids, e.ID)
	}
	check("exchange", ids)

	ids = ids[:0]
	for _, q := range t.Queues {
		ids = append(ids, q.ID)
	}
	check("queue", ids)

	ids = ids[:0]
	for _, b := range t.Bindings {
		ids = append(ids, b.ID)
	}
	check("binding", ids)
	return out
}
