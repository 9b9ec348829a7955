package runtime

import (
	"log/slog"

	"github.com/samber/lo"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/observability"
)

// Broadcaster fans one line out to every joined session except the sender.
//
// It provides best-effort delivery with no guarantees regarding ordering
// across receivers, durability, or retries. A failure on one target is
// logged, counted and skipped; it never aborts the remaining deliveries and
// never surfaces to the sender.
type Broadcaster struct {
	log      *slog.Logger
	registry contract.IRegistry
	stats    *observability.RelayStats
}

func NewBroadcaster(log *slog.Logger, registry contract.IRegistry,
	stats *observability.RelayStats) *Broadcaster {
	return &Broadcaster{log: log, registry: registry, stats: stats}
}

// Broadcast takes a consistent snapshot of the registry, then writes outside
// the registry lock so a stalled receiver cannot block joins, leaves or
// other senders. The snapshot may be stale with respect to concurrent
// membership changes: a late joiner can miss a line sent just before its
// insertion, and a just-removed session can still receive one in-flight line.
func (b *Broadcaster) Broadcast(line string, excludeID string) {
	targets := lo.Filter(b.registry.Snapshot(), func(s *domain.Session, _ int) bool {
		return s.ID != excludeID
	})

	for _, target := range targets {
		if err := target.Send(line); err != nil {
			b.stats.IncrDeliveriesFailed()
			b.log.Warn("Delivery failed, skipping receiver",
				"id", target.ID,
				"name", target.Name,
				"err", err)
			continue
		}
		b.stats.IncrDeliveriesOK()
	}
}
