package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MalithGihan/topograph-service/pkg/types"
)

// Broker definitions export, as written by the RabbitMQ management plugin.
type definitions struct {
	Exchanges []defExchange `json:"exchanges"`
	Queues    []defQueue    `json:"queues"`
	Bindings  []defBinding  `json:"bindings"`
}

type defExchange struct {
	Name  string `json:"name"`
	Vhost string `json:"vhost"`
	Type  string `json:"type"`
}

type defQueue struct {
	Name      string         `json:"name"`
	Vhost     string         `json:"vhost"`
	Arguments map[string]any `json:"arguments"`
}

type defBinding struct {
	Source          string `json:"source"`
	Vhost           string `json:"vhost"`
	Destination     string `json:"destination"`
	DestinationType string `json:"destination_type"`
	RoutingKey      string `json:"routing_key"`
}

// ParseDefinitions maps a definitions export onto a topology. Entity ids
// are "<vhost>/<name>" so equal names in different vhosts stay apart, and
// bindings reference those ids.
func ParseDefinitions(name string, data []byte) (ParsedFile, error) {
	var doc definitions
	if err := json.Unmarshal(data, &doc); err != nil {
		return ParsedFile{Name: name}, err
	}

	var t types.Topology
	var notes []string
	known := map[string]bool{}

	for _, e := range doc.Exchanges {
		if e.Name == "" {
			continue
		}
		typ := types.ExchangeType(strings.ToLower(e.Type))
		if !typ.Valid() {
			notes = append(notes, fmt.Sprintf("exchange %s: unsupported type %q, skipped", e.Name, e.Type))
			continue
		}
		id := defID(e.Vhost, e.Name)
		known[id] = true
		t.Exchanges = append(t.Exchanges, types.Exchange{ID: id, Name: e.Name, Type: typ})
	}
	for _, q := range doc.Queues {
		qt := "classic"
		if v, ok := q.Arguments["x-queue-type"].(string); ok && v != "" {
			qt = v
		}
		t.Queues = append(t.Queues, types.Queue{
			ID: defID(q.Vhost, q.Name), Name: q.Name, Type: qt, HealthScore: 100,
		})
	}
	for _, b := range doc.Bindings {
		switch {
		case b.Source == "":
			notes = append(notes, fmt.Sprintf("binding to %s from the default exchange skipped", b.Destination))
			continue
		case b.DestinationType == "exchange":
			notes = append(notes, fmt.Sprintf("exchange-to-exchange binding %s -> %s skipped", b.Source, b.Destination))
			continue
		}
		src := defID(b.Vhost, b.Source)
		if !known[src] {
			// Leave the plain name so the binding can still match by name
			// if the exchange arrives from another file.
			src = b.Source
		}
		t.Bindings = append(t.Bindings, types.Binding{
			Source:      src,
			Destination: defID(b.Vhost, b.Destination),
			RoutingKey:  b.RoutingKey,
		})
	}
	return ParsedFile{Name: name, Topology: t, Notes: notes}, nil
}

func defID(vhost, name string) string {
	if vhost == "" {
		vhost = "/"
	}
	return strings.TrimSuffix(vhost, "/") + "/" + name
}
