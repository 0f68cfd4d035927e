package ingest

import (
	"strconv"
	"strings"

	"github.com/MalithGihan/topograph-service/pkg/types"
)

// Normalize fills defaults on upstream data in place. It never clamps:
// out-of-range values are left for validation to report.
func Normalize(t *types.Topology) {
	for i := range t.Exchanges {
		e := &t.Exchanges[i]
		e.ID = strings.TrimSpace(e.ID)
		e.Name = strings.TrimSpace(e.Name)
		e.Type = types.ExchangeType(strings.ToLower(strings.TrimSpace(string(e.Type))))
		if e.ID == "" {
			e.ID = e.Name
		}
	}
	for i := range t.Queues {
		q := &t.Queues[i]
		q.ID = strings.TrimSpace(q.ID)
		q.Name = strings.TrimSpace(q.Name)
		if q.ID == "" {
			q.ID = q.Name
		}
		if q.Type == "" {
			q.Type = "classic"
		}
	}
	// Generated binding ids must not collide with ids declared elsewhere
	// in a merged document.
	used := make(map[string]bool, len(t.Bindings))
	for i := range t.Bindings {
		b := &t.Bindings[i]
		b.ID = strings.TrimSpace(b.ID)
		if b.ID != "" {
			used[b.ID] = true
		}
	}
	for i := range t.Bindings {
		b := &t.Bindings[i]
		b.Source = strings.TrimSpace(b.Source)
		b.Destination = strings.TrimSpace(b.Destination)
		if b.ID == "" {
			n := i + 1
			for used["b"+strconv.Itoa(n)] {
				n++
			}
			b.ID = "b" + strconv.Itoa(n)
			used[b.ID] = true
		}
	}
	if t.Exchanges == nil {
		t.Exchanges = []types.Exchange{}
	}
	if t.Queues == nil {
		t.Queues = []types.Queue{}
	}
	if t.Bindings == nil {
		t.Bindings = []types.Binding{}
	}
}
