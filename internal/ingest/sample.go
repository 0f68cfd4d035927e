package ingest

import "github.com/MalithGihan/topograph-service/pkg/types"

// Sample is the demo topology served when no real one has been loaded.
// Bindings mix id and name references, and b9 points at a queue that does
// not exist.
func Sample() types.Topology {
	return types.Topology{
		Exchanges: []types.Exchange{
			{ID: "ex-orders", Name: "orders", Type: types.ExchangeDirect},
			{ID: "ex-events", Name: "domain.events", Type: types.ExchangeTopic},
			{ID: "ex-notify", Name: "notifications", Type: types.ExchangeFanout},
			{ID: "ex-retry", Name: "retry.delayed", Type: types.ExchangeDelayedMessage},
			{ID: "ex-shards", Name: "payments.sharded", Type: types.ExchangeConsistentHash},
			{ID: "ex-route", Name: "reports.router", Type: types.ExchangeHeaders},
		},
		Queues: []types.Queue{
			{ID: "q-orders", Name: "orders.created", Type: "quorum", MessagesTotal: 12, Consumers: 3, HealthScore: 96},
			{ID: "q-billing", Name: "billing.invoices", Type: "quorum", MessagesTotal: 240, Consumers: 1, HealthScore: 64},
			{ID: "q-email", Name: "notifications.email", Type: "classic", MessagesTotal: 5120, Consumers: 0, HealthScore: 18},
			{ID: "q-sms", Name: "notifications.sms", Type: "classic", MessagesTotal: 3, Consumers: 2, HealthScore: 88},
			{ID: "q-retry", Name: "orders.retry", Type: "classic", MessagesTotal: 41, Consumers: 1, HealthScore: 55},
			{ID: "q-pay-0", Name: "payments.shard-0", Type: "stream", MessagesTotal: 900, Consumers: 1, HealthScore: 81},
			{ID: "q-pay-1", Name: "payments.shard-1", Type: "stream", MessagesTotal: 1430, Consumers: 1, HealthScore: 47},
			{ID: "q-reports", Name: "reports.daily", Type: "classic", MessagesTotal: 0, Consumers: 1, HealthScore: 100},
		},
		Bindings: []types.Binding{
			{ID: "b1", Source: "orders", Destination: "orders.created", RoutingKey: "order.created"},
			{ID: "b2", Source: "ex-events", Destination: "q-billing", RoutingKey: "order.*.paid"},
			{ID: "b3", Source: "notifications", Destination: "q-email", RoutingKey: ""},
			{ID: "b4", Source: "ex-notify", Destination: "notifications.sms", RoutingKey: ""},
			{ID: "b5", Source: "retry.delayed", Destination: "orders.retry", RoutingKey: "order.retry"},
			{ID: "b6", Source: "ex-shards", Destination: "q-pay-0", RoutingKey: "1"},
			{ID: "b7", Source: "ex-shards", Destination: "q-pay-1", RoutingKey: "1"},
			{ID: "b8", Source: "reports.router", Destination: "reports.daily", RoutingKey: "format=pdf"},
			{ID: "b9", Source: "domain.events", Destination: "audit.log", RoutingKey: "#"},
		},
	}
}
