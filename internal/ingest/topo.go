package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MalithGihan/topograph-service/pkg/types"
)

// The .topo format holds one declaration per line:
//
//	exchange <id> [name] <type>
//	queue <id> [name] [messages=N] [consumers=N] [health=N] [type=T]
//	bind <source> -> <destination> [: routing-key]
var (
	reExchange = regexp.MustCompile(`^exchange\s+(\S+)(?:\s+(\S+))?\s+(\S+)$`)
	reQueue    = regexp.MustCompile(`^queue\s+(.+)$`)
	reBind     = regexp.MustCompile(`^bind\s+(\S+)\s*->\s*(\S+)(?:\s*:\s*(.*))?$`)
)

// ParseTopo never fails; lines it cannot read become notes.
func ParseTopo(name string, data []byte) ParsedFile {
	var t types.Topology
	var notes []string

	for i, ln := range strings.Split(string(data), "\n") {
		l := strings.TrimSpace(ln)
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		bad := func(why string) {
			notes = append(notes, fmt.Sprintf("%s:%d: %s", name, i+1, why))
		}

		if m := reExchange.FindStringSubmatch(l); m != nil {
			label := m[2]
			if label == "" {
				label = m[1]
			}
			t.Exchanges = append(t.Exchanges, types.Exchange{ID: m[1], Name: label, Type: types.ExchangeType(m[3])})
			continue
		}
		if m := reBind.FindStringSubmatch(l); m != nil {
			t.Bindings = append(t.Bindings, types.Binding{
				Source: m[1], Destination: m[2], RoutingKey: strings.TrimSpace(m[3]),
			})
			continue
		}
		if m := reQueue.FindStringSubmatch(l); m != nil {
			q, err := parseQueueFields(strings.Fields(m[1]))
			if err != nil {
				bad(err.Error())
				continue
			}
			t.Queues = append(t.Queues, q)
			continue
		}
		bad("unrecognised declaration")
	}
	return ParsedFile{Name: name, Topology: t, Notes: notes}
}

func parseQueueFields(fields []string) (types.Queue, error) {
	q := types.Queue{ID: fields[0], Name: fields[0], HealthScore: 100}
	rest := fields[1:]
	if len(rest) > 0 && !strings.Contains(rest[0], "=") {
		q.Name = rest[0]
		rest = rest[1:]
	}
	for _, kv := range rest {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return q, fmt.Errorf("queue %s: expected key=value, got %q", q.ID, kv)
		}
		if k == "type" {
			q.Type = v
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("queue %s: %s is not a number", q.ID, k)
		}
		switch k {
		case "messages":
			q.MessagesTotal = n
		case "consumers":
			q.Consumers = n
		case "health":
			q.HealthScore = n
		default:
			return q, fmt.Errorf("queue %s: unknown attribute %q", q.ID, k)
		}
	}
	return q, nil
}
